package bulist

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrInvalidThreshold is returned when the similarity threshold is
	// outside [0,1]. It is reported before any matching starts.
	ErrInvalidThreshold = errors.New("similarity threshold must be between 0 and 1")
	// ErrInvalidInput is returned when a record has no usable name after
	// normalization. The whole batch aborts so the report stays trustworthy.
	ErrInvalidInput = errors.New("record has no usable name")
)

// Matcher compares skipped import rows against existing contacts and emits
// ranked duplicate candidates. It has no state beyond its policy and never
// mutates its inputs.
type Matcher struct {
	threshold float64
	sim       SimilarityFunc
	logger    *log.Logger
}

// NewMatcher builds a matcher from the given configuration. A threshold of
// zero is honored as-is; defaults are applied when the config is loaded.
func NewMatcher(cfg Config, logger *log.Logger) (*Matcher, error) {
	if cfg.Threshold < 0 || cfg.Threshold > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidThreshold, cfg.Threshold)
	}
	sim, err := MetricByName(cfg.Metric)
	if err != nil {
		return nil, err
	}
	return &Matcher{threshold: cfg.Threshold, sim: sim, logger: logger}, nil
}

// FindCandidates scores every skipped entry against every existing contact.
// Candidates below the threshold are not emitted. For each skipped entry the
// candidates are ordered by descending score, ties broken by ascending
// contact identifier, so repeated runs produce identical output.
func (m *Matcher) FindCandidates(skipped []SkippedEntry, existing []ContactRecord) ([]MatchCandidate, error) {
	if m.threshold < 0 || m.threshold > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidThreshold, m.threshold)
	}

	type normContact struct {
		rec  ContactRecord
		norm string
	}
	contacts := make([]normContact, len(existing))
	for i, rec := range existing {
		norm := NormalizeName(rec.Name)
		if norm == "" {
			return nil, fmt.Errorf("contact %q (row %d) name field: %w", rec.ID, i+1, ErrInvalidInput)
		}
		contacts[i] = normContact{rec: rec, norm: norm}
	}

	var out []MatchCandidate
	for i, entry := range skipped {
		norm := NormalizeName(entry.Name)
		if norm == "" {
			return nil, fmt.Errorf("skipped entry %d (%q) name field: %w", i+1, entry.Name, ErrInvalidInput)
		}
		var hits []MatchCandidate
		for _, c := range contacts {
			if norm == c.norm {
				hits = append(hits, MatchCandidate{
					Skipped: entry,
					Contact: c.rec,
					Score:   1.0,
					Type:    MatchExact,
				})
				continue
			}
			score := m.sim(norm, c.norm)
			if score < m.threshold {
				continue
			}
			hits = append(hits, MatchCandidate{
				Skipped: entry,
				Contact: c.rec,
				Score:   score,
				Type:    MatchFuzzy,
			})
		}
		sort.Slice(hits, func(a, b int) bool {
			if hits[a].Score == hits[b].Score {
				return compareContactIDs(hits[a].Contact.ID, hits[b].Contact.ID) < 0
			}
			return hits[a].Score > hits[b].Score
		})
		out = append(out, hits...)
	}
	m.logf("Matched %d skipped entries against %d contacts: %d candidates", len(skipped), len(existing), len(out))
	return out, nil
}

// FindCandidates runs the matcher with the default metric and the given
// threshold. Convenience wrapper for callers that do not carry a Config.
func FindCandidates(skipped []SkippedEntry, existing []ContactRecord, threshold float64) ([]MatchCandidate, error) {
	m, err := NewMatcher(Config{Threshold: threshold}, nil)
	if err != nil {
		return nil, err
	}
	return m.FindCandidates(skipped, existing)
}

// compareContactIDs orders identifiers numerically when both parse as
// integers, lexicographically otherwise.
func compareContactIDs(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

func (m *Matcher) logf(format string, args ...any) {
	if m.logger != nil {
		m.logger.Printf(format, args...)
	}
}
