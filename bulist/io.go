package bulist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadContacts reads the existing-contact export. The identifier column and
// the name columns are resolved from opts, falling back to header
// auto-detection.
func LoadContacts(path string, opts ContactColumns) ([]ContactRecord, error) {
	header, rows, err := readCSVRows(path)
	if err != nil {
		return nil, err
	}
	nameIdx, err := resolveNameColumns(path, header, opts.NameColumns)
	if err != nil {
		return nil, err
	}
	idIdx, err := resolveColumn(header, opts.ID, defaultColumnCandidates().id)
	if err != nil {
		return nil, err
	}
	if idIdx < 0 {
		return nil, fmt.Errorf("missing required columns in %s: [contact id]", filepath.Base(path))
	}

	records := make([]ContactRecord, 0, len(rows))
	seen := make(map[string]int)
	for i, row := range rows {
		if rowEmpty(row) {
			continue
		}
		id := cellAt(row, idIdx)
		if id == "" {
			return nil, fmt.Errorf("row %d in %s has no contact id", i+2, filepath.Base(path))
		}
		if prev, ok := seen[id]; ok {
			return nil, fmt.Errorf("duplicate contact id %q in %s (rows %d and %d)", id, filepath.Base(path), prev, i+2)
		}
		seen[id] = i + 2
		records = append(records, ContactRecord{ID: id, Name: nameFromRow(row, nameIdx)})
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no contact rows found in %s", filepath.Base(path))
	}
	return records, nil
}

// LoadSkipped reads the skipped-import export. Non-name columns are carried
// in Meta for the report.
func LoadSkipped(path string, opts NameColumns) ([]SkippedEntry, error) {
	header, rows, err := readCSVRows(path)
	if err != nil {
		return nil, err
	}
	nameIdx, err := resolveNameColumns(path, header, opts)
	if err != nil {
		return nil, err
	}
	nameCols := map[int]struct{}{}
	for _, idx := range []int{nameIdx.last, nameIdx.first, nameIdx.middle, nameIdx.full} {
		if idx >= 0 {
			nameCols[idx] = struct{}{}
		}
	}

	entries := make([]SkippedEntry, 0, len(rows))
	for _, row := range rows {
		if rowEmpty(row) {
			continue
		}
		entry := SkippedEntry{Name: nameFromRow(row, nameIdx)}
		for j, col := range header {
			if _, ok := nameCols[j]; ok || col == "" {
				continue
			}
			if v := cellAt(row, j); v != "" {
				if entry.Meta == nil {
					entry.Meta = make(map[string]string)
				}
				entry.Meta[col] = v
			}
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no skipped rows found in %s", filepath.Base(path))
	}
	return entries, nil
}

func readCSVRows(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("empty file %s", filepath.Base(path))
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}
	return header, rows[1:], nil
}

type nameIndexes struct {
	last, first, middle, full int
}

// resolveNameColumns picks either a full-name column or the last/first
// (optionally middle) triple. Explicit selections win; otherwise the header
// candidates decide.
func resolveNameColumns(path string, header []string, opts NameColumns) (nameIndexes, error) {
	idx := nameIndexes{last: -1, first: -1, middle: -1, full: -1}
	candidates := defaultColumnCandidates()
	var err error

	if opts.FullName != "" {
		if idx.full, err = resolveColumn(header, opts.FullName, nil); err != nil {
			return idx, err
		}
		return idx, nil
	}
	if opts.Last != "" || opts.First != "" {
		if idx.last, err = resolveColumn(header, opts.Last, nil); err != nil {
			return idx, err
		}
		if idx.first, err = resolveColumn(header, opts.First, nil); err != nil {
			return idx, err
		}
		if idx.middle, err = resolveColumn(header, opts.Middle, nil); err != nil {
			return idx, err
		}
		var missing []string
		if idx.last < 0 {
			missing = append(missing, "last")
		}
		if idx.first < 0 {
			missing = append(missing, "first")
		}
		if len(missing) > 0 {
			return idx, fmt.Errorf("missing required columns in %s: %v", filepath.Base(path), missing)
		}
		return idx, nil
	}

	// No explicit selection: prefer the last/first pair, then a full-name
	// column.
	idx.last = findColumn(header, candidates.last)
	idx.first = findColumn(header, candidates.first)
	idx.middle = findColumn(header, candidates.middle)
	if idx.last >= 0 && idx.first >= 0 {
		return idx, nil
	}
	idx = nameIndexes{last: -1, first: -1, middle: -1, full: findColumn(header, candidates.full)}
	if idx.full >= 0 {
		return idx, nil
	}
	return idx, fmt.Errorf("could not locate name columns in %s header %v", filepath.Base(path), header)
}

// resolveColumn resolves an explicit column selection (header name or
// 1-based #N index), or falls back to the candidate list. Returns -1 when
// nothing matches and no explicit selection was made.
func resolveColumn(header []string, explicit string, candidates []string) (int, error) {
	trimmed := strings.TrimSpace(explicit)
	if trimmed != "" {
		for i, col := range header {
			if strings.EqualFold(col, trimmed) {
				return i, nil
			}
		}
		if strings.HasPrefix(trimmed, "#") {
			idx, err := parseColumnIndex(trimmed)
			if err != nil {
				return -1, err
			}
			if idx >= len(header) {
				return -1, fmt.Errorf("column index %s is out of range", trimmed)
			}
			return idx, nil
		}
		return -1, fmt.Errorf("column %q not found", explicit)
	}
	return findColumn(header, candidates), nil
}

func parseColumnIndex(token string) (int, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(token, "#"))
	if trimmed == "" {
		return -1, fmt.Errorf("invalid column index %q", token)
	}
	idx, err := strconv.Atoi(trimmed)
	if err != nil {
		return -1, fmt.Errorf("invalid column index %q", token)
	}
	if idx <= 0 {
		return -1, errors.New("column indices are 1-based")
	}
	return idx - 1, nil
}

func findColumn(header []string, candidates []string) int {
	for i, col := range header {
		for _, cand := range candidates {
			if strings.EqualFold(col, cand) {
				return i
			}
		}
	}
	return -1
}

// nameFromRow assembles the original's "Last, First Middle" shape, or takes
// the full-name column verbatim.
func nameFromRow(row []string, idx nameIndexes) string {
	if idx.full >= 0 {
		return cellAt(row, idx.full)
	}
	last := cellAt(row, idx.last)
	first := cellAt(row, idx.first)
	middle := cellAt(row, idx.middle)
	return strings.TrimSpace(fmt.Sprintf("%s, %s %s", last, first, middle))
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return cleanCell(row[idx])
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	return v
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if cleanCell(cell) != "" {
			return false
		}
	}
	return true
}
