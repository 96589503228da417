package bulist

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// EmailRow pairs a member key with one of their email addresses.
type EmailRow struct {
	Member string
	Email  string
}

// DedupeEmails reduces a contact export to the first email per member,
// preserving the order in which members first appear. Rows with an empty
// member key or email are invalid input.
func DedupeEmails(rows []EmailRow) ([]EmailRow, error) {
	seen := make(map[string]struct{}, len(rows))
	out := make([]EmailRow, 0, len(rows))
	for i, row := range rows {
		if row.Member == "" {
			return nil, fmt.Errorf("row %d member field: %w", i+1, ErrInvalidInput)
		}
		if row.Email == "" {
			return nil, fmt.Errorf("row %d (member %q) email field: %w", i+1, row.Member, ErrInvalidInput)
		}
		if _, ok := seen[row.Member]; ok {
			continue
		}
		seen[row.Member] = struct{}{}
		out = append(out, row)
	}
	return out, nil
}

// LoadEmailRows reads member/email pairs from a contact export CSV.
func LoadEmailRows(path, memberCol, emailCol string) ([]EmailRow, error) {
	header, rows, err := readCSVRows(path)
	if err != nil {
		return nil, err
	}
	memberIdx, err := resolveColumn(header, memberCol, defaultColumnCandidates().member)
	if err != nil {
		return nil, err
	}
	emailIdx, err := resolveColumn(header, emailCol, defaultColumnCandidates().email)
	if err != nil {
		return nil, err
	}
	var missing []string
	if memberIdx < 0 {
		missing = append(missing, "member")
	}
	if emailIdx < 0 {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns in %s: %v", filepath.Base(path), missing)
	}

	out := make([]EmailRow, 0, len(rows))
	for _, row := range rows {
		if rowEmpty(row) {
			continue
		}
		out = append(out, EmailRow{Member: cellAt(row, memberIdx), Email: cellAt(row, emailIdx)})
	}
	return out, nil
}

// WriteEmailRows writes the deduplicated pairs back out as CSV.
func WriteEmailRows(path string, rows []EmailRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	writer := csv.NewWriter(f)
	if err := writer.Write([]string{"Member", "Email"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		if err := writer.Write([]string{row.Member, row.Email}); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", filepath.Base(path), err)
	}
	return nil
}
