package bulist

// MatchType distinguishes exact matches from similarity based ones.
type MatchType string

const (
	// MatchExact means the normalized names are identical.
	MatchExact MatchType = "exact"
	// MatchFuzzy means the names scored at or above the threshold.
	MatchFuzzy MatchType = "fuzzy"
)

// ContactRecord is an existing contact from the membership database export.
type ContactRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SkippedEntry is a row the membership system could not import automatically.
// Meta carries extra columns for reporting and is never used by matching.
type SkippedEntry struct {
	Name string            `json:"name"`
	Meta map[string]string `json:"meta,omitempty"`
}

// MatchCandidate suggests that a skipped entry may refer to an existing
// contact. Score is in [0,1] and is 1.0 exactly when the normalized names
// are identical.
type MatchCandidate struct {
	Skipped SkippedEntry  `json:"skipped"`
	Contact ContactRecord `json:"contact"`
	Score   float64       `json:"score"`
	Type    MatchType     `json:"type"`
}
