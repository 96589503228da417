package bulist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProgramMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.toml")
	require.NoError(t, os.WriteFile(path, []byte(
		"\"COMPUTER SCIENCE\" = [\"COSC\", \"PhD\"]\n"+
			"\"ENGINEERING SCIENCES MS\" = [\"ENGS\", \"MS\"]\n"), 0o644))

	mapping, err := LoadProgramMapping(path)
	require.NoError(t, err)
	assert.Equal(t, ProgramInfo{Employer: "COSC", Degree: "PhD"}, mapping["COMPUTER SCIENCE"])
	assert.Equal(t, ProgramInfo{Employer: "ENGS", Degree: "MS"}, mapping["ENGINEERING SCIENCES MS"])
}

func TestLoadProgramMappingWrongArity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.toml")
	require.NoError(t, os.WriteFile(path, []byte("\"X\" = [\"ONLY\"]\n"), 0o644))
	_, err := LoadProgramMapping(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly two values")
}

func TestLoadProgramMappingMissingFile(t *testing.T) {
	_, err := LoadProgramMapping(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

// The file shipped with the repository has to stay loadable.
func TestShippedProgramMapping(t *testing.T) {
	mapping, err := LoadProgramMapping(filepath.Join("..", "program_mapping.toml"))
	require.NoError(t, err)
	assert.NotEmpty(t, mapping)
	assert.Equal(t, "COSC", mapping["COMPUTER SCIENCE"].Employer)
}
