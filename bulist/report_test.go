package bulist

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCandidates() []MatchCandidate {
	return []MatchCandidate{
		{
			Skipped: SkippedEntry{Name: "Smith, Jon"},
			Contact: ContactRecord{ID: "1", Name: "Smith, John"},
			Score:   0.973,
			Type:    MatchFuzzy,
		},
		{
			Skipped: SkippedEntry{Name: "Smith, Jon"},
			Contact: ContactRecord{ID: "2", Name: "Smith, Jonathan"},
			Score:   0.839,
			Type:    MatchFuzzy,
		},
		{
			Skipped: SkippedEntry{Name: "Brown, Alice"},
			Contact: ContactRecord{ID: "3", Name: "Brown, Alice"},
			Score:   1.0,
			Type:    MatchExact,
		},
	}
}

func TestWriteMatchReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.csv")
	require.NoError(t, WriteMatchReport(path, sampleCandidates()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, reportHeader, rows[0])
	assert.Equal(t, []string{"Smith, Jon", "fuzzy", "0.973", "1", "Smith, John"}, rows[1])
	assert.Equal(t, []string{"Brown, Alice", "exact", "1.000", "3", "Brown, Alice"}, rows[3])
}

func TestWriteMatchReportEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.csv")
	require.NoError(t, WriteMatchReport(path, nil))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}

func TestPrintMatchSummaryGroupsBySkippedName(t *testing.T) {
	var sb strings.Builder
	PrintMatchSummary(&sb, sampleCandidates())
	out := sb.String()

	assert.Equal(t, 1, strings.Count(out, "Smith, Jon\n"), "skipped name printed once per group")
	assert.Contains(t, out, "id=1")
	assert.Contains(t, out, "id=2")
	assert.Contains(t, out, "score=1.000")
}

func TestPrintMatchSummaryEmpty(t *testing.T) {
	var sb strings.Builder
	PrintMatchSummary(&sb, nil)
	assert.Contains(t, sb.String(), "No potential duplicates")
}
