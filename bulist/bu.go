package bulist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// BUList is an employer membership list: a header row plus string cells.
// Every cell is whitespace-trimmed on load.
type BUList struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of the named column, or -1.
func (t *BUList) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if strings.EqualFold(col, name) {
			return i
		}
	}
	return -1
}

// Column returns a copy of the named column's values.
func (t *BUList) Column(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out
}

// AddColumn appends a column. Values must cover every row.
func (t *BUList) AddColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(t.Rows))
	}
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		// Pad short rows so the new cell lands in the right position.
		for len(t.Rows[i]) < len(t.Columns)-1 {
			t.Rows[i] = append(t.Rows[i], "")
		}
		t.Rows[i] = append(t.Rows[i], values[i])
	}
	return nil
}

// LoadBUList reads the first sheet of an employer XLSX export. Cells that
// hold only whitespace are a data-quality error; genuinely empty cells are
// counted per column and logged.
func LoadBUList(path string, logger *log.Logger) (*BUList, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("no sheets found in %s", filepath.Base(path))
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s needs a header row and at least one data row", filepath.Base(path))
	}

	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = strings.TrimSpace(cell)
	}
	t := &BUList{Columns: header, Rows: make([][]string, 0, len(rows)-1)}
	for r, raw := range rows[1:] {
		row := make([]string, len(raw))
		for c, cell := range raw {
			trimmed := strings.TrimSpace(cell)
			if trimmed == "" && cell != "" {
				return nil, fmt.Errorf("row %d column %q holds only whitespace, please check data quality", r+2, columnName(header, c))
			}
			row[c] = trimmed
		}
		t.Rows = append(t.Rows, row)
	}

	if logger != nil {
		logger.Printf("Loaded %s: %d rows, columns %v", filepath.Base(path), len(t.Rows), t.Columns)
		for c, col := range t.Columns {
			nulls := 0
			for _, row := range t.Rows {
				if c >= len(row) || row[c] == "" {
					nulls++
				}
			}
			if nulls > 0 {
				logger.Printf("Column %q: %d null values (%.2f%%)", col, nulls, 100*float64(nulls)/float64(len(t.Rows)))
			}
		}
	}
	return t, nil
}

func columnName(header []string, idx int) string {
	if idx < len(header) && header[idx] != "" {
		return header[idx]
	}
	return fmt.Sprintf("#%d", idx+1)
}

var listDatePattern = regexp.MustCompile(`(\d{4})\.(\d{2})\.(\d{2})`)

// ExtractListDate finds a YYYY.MM.DD date in the given text and reports
// whether it names a real calendar day.
func ExtractListDate(text string) (string, bool) {
	m := listDatePattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	if _, err := time.Parse("2006.01.02", m[0]); err != nil {
		return "", false
	}
	return m[0], true
}

// ListIdentifier derives the unique list name from the input filename,
// currently "BU List Employer YYYY.MM.DD".
func ListIdentifier(path string) (string, error) {
	date, ok := ExtractListDate(filepath.Base(path))
	if !ok {
		return "", fmt.Errorf("filename %q must contain the received date as YYYY.MM.DD", filepath.Base(path))
	}
	return "BU List Employer " + date, nil
}

var programSuffixPattern = regexp.MustCompile(`(?i) PROGRAM`)

// ApplyProgramMapping translates the employer's program/field-of-study
// column into Employer and Degree columns. Codes missing from the mapping
// fail the run so the mapping file can be extended first.
func (t *BUList) ApplyProgramMapping(programCol string, mapping ProgramMapping, logger *log.Logger) error {
	idx := t.ColumnIndex(programCol)
	if idx < 0 {
		return fmt.Errorf("program column %q does not exist, please check its name", programCol)
	}

	employers := make([]string, len(t.Rows))
	degrees := make([]string, len(t.Rows))
	unknown := make(map[string]struct{})
	for i, row := range t.Rows {
		code := ""
		if idx < len(row) {
			code = row[idx]
		}
		if code == "" {
			return fmt.Errorf("row %d has no program/field of study value", i+2)
		}
		// Some lists carry a redundant " PROGRAM" suffix.
		code = strings.TrimSpace(programSuffixPattern.ReplaceAllString(code, ""))
		row[idx] = code
		info, ok := mapping[code]
		if !ok {
			unknown[code] = struct{}{}
			continue
		}
		employers[i] = info.Employer
		degrees[i] = info.Degree
	}
	if len(unknown) > 0 {
		codes := make([]string, 0, len(unknown))
		for code := range unknown {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		return fmt.Errorf("unrecognized program/field of study entries %v: add them to the program mapping file", codes)
	}
	if err := t.AddColumn("Employer", employers); err != nil {
		return err
	}
	if err := t.AddColumn("Degree", degrees); err != nil {
		return err
	}
	if logger != nil {
		logger.Printf("Parsed %d different programs/departments and %d different degree types",
			uniqueCount(employers), uniqueCount(degrees))
	}
	return nil
}

func uniqueCount(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// SplitFullNames converts a "Last, First [M.]" column into Last, First and
// Middle columns. The split must reconstruct the original value exactly, so
// unexpected name shapes surface instead of silently losing data.
func (t *BUList) SplitFullNames(fullnameCol string) error {
	idx := t.ColumnIndex(fullnameCol)
	if idx < 0 {
		return fmt.Errorf("full name column %q does not exist, please check its name", fullnameCol)
	}
	lasts := make([]string, len(t.Rows))
	firsts := make([]string, len(t.Rows))
	middles := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		fullname := ""
		if idx < len(row) {
			fullname = row[idx]
		}
		if strings.TrimSpace(fullname) == "" {
			return fmt.Errorf("row %d has an empty full name", i+2)
		}
		parts := strings.Split(fullname, ",")
		if len(parts) != 2 {
			return fmt.Errorf("row %d name %q must contain exactly one comma", i+2, fullname)
		}
		last := strings.TrimSpace(parts[0])
		rest := strings.Fields(strings.TrimSpace(parts[1]))
		var first, middle string
		if len(rest) > 0 && strings.HasSuffix(rest[len(rest)-1], ".") {
			middle = rest[len(rest)-1]
			first = strings.Join(rest[:len(rest)-1], " ")
		} else {
			first = strings.Join(rest, " ")
		}
		reconstructed := strings.TrimSpace(last + ", " + first + " " + middle)
		if reconstructed != fullname {
			return fmt.Errorf("row %d name %q is in an unexpected format", i+2, fullname)
		}
		lasts[i] = last
		firsts[i] = first
		middles[i] = middle
	}
	if err := t.AddColumn("Last", lasts); err != nil {
		return err
	}
	if err := t.AddColumn("First", firsts); err != nil {
		return err
	}
	return t.AddColumn("Middle", middles)
}

// CheckNameColumns verifies that Last and First have no missing values. A
// fully empty Middle column is only worth a warning.
func (t *BUList) CheckNameColumns(lastCol, firstCol, middleCol string, logger *log.Logger) error {
	for _, col := range []string{lastCol, firstCol, middleCol} {
		if t.ColumnIndex(col) < 0 {
			return fmt.Errorf("name column %q does not exist, please check its name", col)
		}
	}
	for i, v := range t.Column(lastCol) {
		if v == "" {
			return fmt.Errorf("missing data in last name column %q (row %d)", lastCol, i+2)
		}
	}
	for i, v := range t.Column(firstCol) {
		if v == "" {
			return fmt.Errorf("missing data in first name column %q (row %d)", firstCol, i+2)
		}
	}
	empty := true
	for _, v := range t.Column(middleCol) {
		if v != "" {
			empty = false
			break
		}
	}
	if empty && logger != nil {
		logger.Printf("Warning: 100%% missing data in middle name column %q", middleCol)
	}
	return nil
}

// AddressColumns names the employer columns that make up a mailing address.
type AddressColumns struct {
	Line1 string
	Line2 string
	City  string
	State string
	Zip   string
}

// DefaultAddressColumns matches the employer's usual export headers.
func DefaultAddressColumns() AddressColumns {
	return AddressColumns{
		Line1: "ADDRESS_LINE1",
		Line2: "ADDRESS_LINE2",
		City:  "TOWN/CITY",
		State: "ST",
		Zip:   "ZIP",
	}
}

// CombineAddress builds an "Address Combined" column: street lines, then a
// comma, then city/state/zip. Empty elements are omitted and trailing commas
// stripped, because some employer data carries them.
func (t *BUList) CombineAddress(cols AddressColumns) error {
	for _, col := range []string{cols.Line1, cols.Line2, cols.City, cols.State, cols.Zip} {
		if t.ColumnIndex(col) < 0 {
			return fmt.Errorf("address column %q does not exist, please check its name", col)
		}
	}
	line1 := t.Column(cols.Line1)
	line2 := t.Column(cols.Line2)
	city := t.Column(cols.City)
	state := t.Column(cols.State)
	zip := t.Column(cols.Zip)

	addrs := make([]string, len(t.Rows))
	for i := range t.Rows {
		addr := combineElements(line1[i], line2[i])
		tail := combineElements(city[i], state[i], zip[i])
		if tail != "" {
			if addr != "" {
				addr += ", "
			}
			addr += tail
		}
		addrs[i] = addr
	}
	return t.AddColumn("Address Combined", addrs)
}

func combineElements(elems ...string) string {
	parts := make([]string, 0, len(elems))
	for _, e := range elems {
		e = strings.TrimSuffix(strings.TrimSpace(e), ",")
		e = strings.TrimSpace(e)
		if e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, " ")
}

// WriteCSV writes the list with its header row.
func (t *BUList) WriteCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	writer := csv.NewWriter(f)
	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range t.Rows {
		padded := make([]string, len(t.Columns))
		copy(padded, row)
		if err := writer.Write(padded); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ParseBUListOptions drives ParseBUList. Exactly one of FullNameCol or
// LFMCols must be set.
type ParseBUListOptions struct {
	Infile      string
	ProgramCol  string
	FullNameCol string
	LFMCols     []string
	MappingPath string
	Outfile     string
}

// ParseBUList runs the whole cleaning pipeline over an employer BU list and
// writes the Broadstripes-ready CSV. It returns the output path.
func ParseBUList(opts ParseBUListOptions, logger *log.Logger) (string, error) {
	if (opts.FullNameCol == "") == (len(opts.LFMCols) == 0) {
		return "", errors.New("exactly one of the full-name column or the last/first/middle columns must be given")
	}
	if len(opts.LFMCols) != 0 && len(opts.LFMCols) != 3 {
		return "", fmt.Errorf("expected 3 name columns (last, first, middle), got %d", len(opts.LFMCols))
	}

	t, err := LoadBUList(opts.Infile, logger)
	if err != nil {
		return "", err
	}
	listName, err := ListIdentifier(opts.Infile)
	if err != nil {
		return "", err
	}
	membership := make([]string, len(t.Rows))
	for i := range membership {
		membership[i] = "true"
	}
	if err := t.AddColumn(listName, membership); err != nil {
		return "", err
	}

	mapping, err := LoadProgramMapping(opts.MappingPath)
	if err != nil {
		return "", err
	}
	if err := t.ApplyProgramMapping(opts.ProgramCol, mapping, logger); err != nil {
		return "", err
	}

	if opts.FullNameCol != "" {
		if err := t.SplitFullNames(opts.FullNameCol); err != nil {
			return "", err
		}
	} else {
		if err := t.CheckNameColumns(opts.LFMCols[0], opts.LFMCols[1], opts.LFMCols[2], logger); err != nil {
			return "", err
		}
	}

	if err := t.CombineAddress(DefaultAddressColumns()); err != nil {
		return "", err
	}

	outfile := opts.Outfile
	if outfile == "" {
		name := fmt.Sprintf("%s made %s.csv", listName, time.Now().Format("2006.01.02_15.04.05"))
		outfile = filepath.Join("data", name)
	}
	if err := t.WriteCSV(outfile); err != nil {
		return "", err
	}
	if logger != nil {
		logger.Printf("Finished parsing this employer BU list, wrote %s. Please check the output before using it.", outfile)
	}
	return outfile, nil
}
