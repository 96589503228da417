package bulist

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// ProgramInfo is the organization's reading of an employer program code.
type ProgramInfo struct {
	Employer string
	Degree   string
}

// ProgramMapping maps employer program/field-of-study codes to internal
// acronyms. It is loaded once and treated as read-only.
type ProgramMapping map[string]ProgramInfo

// LoadProgramMapping decodes the hand-maintained TOML mapping file. Each
// entry is a two-element array: employer acronym, then degree.
func LoadProgramMapping(path string) (ProgramMapping, error) {
	raw := make(map[string][]string)
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("load program mapping %s: %w", path, err)
	}
	mapping := make(ProgramMapping, len(raw))
	for code, parts := range raw {
		if len(parts) != 2 {
			return nil, fmt.Errorf("program mapping entry %q must have exactly two values (employer, degree), got %d", code, len(parts))
		}
		mapping[code] = ProgramInfo{Employer: parts[0], Degree: parts[1]}
	}
	if len(mapping) == 0 {
		return nil, fmt.Errorf("program mapping %s is empty", path)
	}
	return mapping, nil
}
