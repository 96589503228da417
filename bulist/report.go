package bulist

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var reportHeader = []string{"Skipped Name", "Match Type", "Similarity", "Contact ID", "Contact Name"}

// WriteMatchReport writes one CSV row per candidate, preserving the
// matcher's ordering.
func WriteMatchReport(path string, candidates []MatchCandidate) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(reportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, c := range candidates {
		row := []string{
			c.Skipped.Name,
			string(c.Type),
			fmt.Sprintf("%.3f", c.Score),
			c.Contact.ID,
			c.Contact.Name,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}

// PrintMatchSummary renders a human-readable preview grouped per skipped
// entry.
func PrintMatchSummary(w io.Writer, candidates []MatchCandidate) {
	if len(candidates) == 0 {
		fmt.Fprintln(w, "No potential duplicates found.")
		return
	}
	current := ""
	for _, c := range candidates {
		if c.Skipped.Name != current {
			current = c.Skipped.Name
			fmt.Fprintf(w, "%s\n", current)
		}
		fmt.Fprintf(w, "    - %s (id=%s, %s, score=%.3f)\n", c.Contact.Name, c.Contact.ID, c.Type, c.Score)
	}
}
