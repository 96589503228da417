package bulist

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTempXLSX(t *testing.T, name string, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, cell := range row {
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, ref, cell))
		}
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestExtractListDate(t *testing.T) {
	date, ok := ExtractListDate("BU list 2024.03.15.xlsx")
	require.True(t, ok)
	assert.Equal(t, "2024.03.15", date)

	_, ok = ExtractListDate("bu_list_final.xlsx")
	assert.False(t, ok, "no date present")

	_, ok = ExtractListDate("list 2024.02.31.xlsx")
	assert.False(t, ok, "not a real calendar day")
}

func TestListIdentifier(t *testing.T) {
	id, err := ListIdentifier("/tmp/Employer BU 2023.11.01.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "BU List Employer 2023.11.01", id)

	_, err = ListIdentifier("/tmp/undated.xlsx")
	require.Error(t, err)
}

func TestSplitFullNames(t *testing.T) {
	list := &BUList{
		Columns: []string{"NAME"},
		Rows: [][]string{
			{"Smith, John"},
			{"Smith, Jonathan Q."},
			{"De La Cruz, Maria Elena"},
		},
	}
	require.NoError(t, list.SplitFullNames("NAME"))
	assert.Equal(t, []string{"Smith", "Smith", "De La Cruz"}, list.Column("Last"))
	assert.Equal(t, []string{"John", "Jonathan", "Maria Elena"}, list.Column("First"))
	assert.Equal(t, []string{"", "Q.", ""}, list.Column("Middle"))
}

func TestSplitFullNamesRejectsOddShapes(t *testing.T) {
	for _, name := range []string{"John Smith", "Smith, John, Jr", ""} {
		list := &BUList{Columns: []string{"NAME"}, Rows: [][]string{{name}}}
		assert.Error(t, list.SplitFullNames("NAME"), "name %q", name)
	}
}

func TestCheckNameColumns(t *testing.T) {
	list := &BUList{
		Columns: []string{"Last", "First", "Middle"},
		Rows:    [][]string{{"Smith", "John", ""}},
	}
	require.NoError(t, list.CheckNameColumns("Last", "First", "Middle", nil))

	list.Rows = append(list.Rows, []string{"", "Alice", ""})
	err := list.CheckNameColumns("Last", "First", "Middle", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "last name")
}

func TestCombineAddress(t *testing.T) {
	list := &BUList{
		Columns: []string{"ADDRESS_LINE1", "ADDRESS_LINE2", "TOWN/CITY", "ST", "ZIP"},
		Rows: [][]string{
			{"12 Main St,", "Apt 3", "Hanover", "NH", "03755"},
			{"", "", "Lebanon", "NH", ""},
			{"5 Elm St", "", "", "", ""},
		},
	}
	require.NoError(t, list.CombineAddress(DefaultAddressColumns()))
	assert.Equal(t, []string{
		"12 Main St Apt 3, Hanover NH 03755",
		"Lebanon NH",
		"5 Elm St",
	}, list.Column("Address Combined"))
}

func TestApplyProgramMapping(t *testing.T) {
	mapping := ProgramMapping{
		"COMPUTER SCIENCE": {Employer: "COSC", Degree: "PhD"},
		"MATHEMATICS":      {Employer: "MATH", Degree: "PhD"},
	}
	list := &BUList{
		Columns: []string{"PROGRAM_OF_STUDY"},
		Rows: [][]string{
			{"COMPUTER SCIENCE PROGRAM"},
			{"MATHEMATICS"},
		},
	}
	require.NoError(t, list.ApplyProgramMapping("PROGRAM_OF_STUDY", mapping, nil))
	assert.Equal(t, []string{"COSC", "MATH"}, list.Column("Employer"))
	assert.Equal(t, []string{"PhD", "PhD"}, list.Column("Degree"))
	assert.Equal(t, []string{"COMPUTER SCIENCE", "MATHEMATICS"}, list.Column("PROGRAM_OF_STUDY"),
		"redundant PROGRAM suffix is stripped in place")
}

func TestApplyProgramMappingUnknownCode(t *testing.T) {
	mapping := ProgramMapping{"MATHEMATICS": {Employer: "MATH", Degree: "PhD"}}
	list := &BUList{
		Columns: []string{"PROGRAM_OF_STUDY"},
		Rows:    [][]string{{"UNDERWATER BASKETWEAVING"}},
	}
	err := list.ApplyProgramMapping("PROGRAM_OF_STUDY", mapping, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNDERWATER BASKETWEAVING")
}

func TestLoadBUList(t *testing.T) {
	path := writeTempXLSX(t, "BU 2024.01.05.xlsx", [][]string{
		{"NAME", "PROGRAM_OF_STUDY"},
		{" Smith, John ", "MATHEMATICS"},
	})
	list, err := LoadBUList(path, nil)
	require.NoError(t, err)
	require.Len(t, list.Rows, 1)
	assert.Equal(t, "Smith, John", list.Rows[0][0], "cells are trimmed")
}

func TestLoadBUListWhitespaceCell(t *testing.T) {
	path := writeTempXLSX(t, "BU 2024.01.05.xlsx", [][]string{
		{"NAME", "PROGRAM_OF_STUDY"},
		{"   ", "MATHEMATICS"},
	})
	_, err := LoadBUList(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "whitespace")
}

func TestParseBUListEndToEnd(t *testing.T) {
	dir := t.TempDir()
	mappingPath := filepath.Join(dir, "mapping.toml")
	require.NoError(t, os.WriteFile(mappingPath, []byte(
		"\"COMPUTER SCIENCE\" = [\"COSC\", \"PhD\"]\n"+
			"\"MATHEMATICS\" = [\"MATH\", \"PhD\"]\n"), 0o644))

	infile := writeTempXLSX(t, "Employer BU 2024.01.05.xlsx", [][]string{
		{"NAME", "PROGRAM_OF_STUDY", "ADDRESS_LINE1", "ADDRESS_LINE2", "TOWN/CITY", "ST", "ZIP"},
		{"Smith, John", "COMPUTER SCIENCE PROGRAM", "12 Main St", "Apt 3", "Hanover", "NH", "03755"},
		{"Brown, Alice J.", "MATHEMATICS", "5 Elm St", "", "Lebanon", "NH", "03766"},
	})
	outfile := filepath.Join(dir, "out.csv")

	got, err := ParseBUList(ParseBUListOptions{
		Infile:      infile,
		ProgramCol:  "PROGRAM_OF_STUDY",
		FullNameCol: "NAME",
		MappingPath: mappingPath,
		Outfile:     outfile,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, outfile, got)

	f, err := os.Open(outfile)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	header := rows[0]
	assert.Contains(t, header, "BU List Employer 2024.01.05")
	assert.Contains(t, header, "Employer")
	assert.Contains(t, header, "Degree")
	assert.Contains(t, header, "Last")
	assert.Contains(t, header, "Address Combined")

	byName := make(map[string]string, len(header))
	for i, col := range header {
		byName[col] = rows[1][i]
	}
	assert.Equal(t, "COSC", byName["Employer"])
	assert.Equal(t, "Smith", byName["Last"])
	assert.Equal(t, "12 Main St Apt 3, Hanover NH 03755", byName["Address Combined"])
	assert.Equal(t, "true", byName["BU List Employer 2024.01.05"])
}

func TestParseBUListRequiresExactlyOneNameMode(t *testing.T) {
	_, err := ParseBUList(ParseBUListOptions{Infile: "x.xlsx", ProgramCol: "P"}, nil)
	require.Error(t, err)

	_, err = ParseBUList(ParseBUListOptions{
		Infile: "x.xlsx", ProgramCol: "P",
		FullNameCol: "NAME", LFMCols: []string{"L", "F", "M"},
	}, nil)
	require.Error(t, err)
}
