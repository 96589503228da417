package bulist

import "fmt"

// SimilarityFunc scores two normalized names in [0,1]. Implementations must
// be symmetric and return 1.0 for identical inputs.
type SimilarityFunc func(a, b string) float64

const (
	winklerPrefixScale    = 0.1
	winklerMaxPrefix      = 4
	winklerBoostThreshold = 0.7
)

// MetricByName resolves a similarity metric from its config name.
func MetricByName(name string) (SimilarityFunc, error) {
	switch name {
	case "", "jaro-winkler":
		return JaroWinkler, nil
	case "dice":
		return DiceBigram, nil
	default:
		return nil, fmt.Errorf("unknown similarity metric %q", name)
	}
}

// JaroWinkler computes Jaro-Winkler similarity. The prefix bonus is applied
// only when the base Jaro score is at least 0.7.
func JaroWinkler(a, b string) float64 {
	if a == b {
		return 1.0
	}
	j := jaro([]rune(a), []rune(b))
	if j < winklerBoostThreshold {
		return j
	}
	ra, rb := []rune(a), []rune(b)
	prefix := 0
	for prefix < len(ra) && prefix < len(rb) && prefix < winklerMaxPrefix && ra[prefix] == rb[prefix] {
		prefix++
	}
	return j + float64(prefix)*winklerPrefixScale*(1.0-j)
}

func jaro(a, b []rune) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	window := len(a)
	if len(b) > window {
		window = len(b)
	}
	window = window/2 - 1
	if window < 0 {
		window = 0
	}

	matchedA := make([]bool, len(a))
	matchedB := make([]bool, len(b))
	matches := 0
	for i := range a {
		lo := i - window
		if lo < 0 {
			lo = 0
		}
		hi := i + window + 1
		if hi > len(b) {
			hi = len(b)
		}
		for j := lo; j < hi; j++ {
			if matchedB[j] || a[i] != b[j] {
				continue
			}
			matchedA[i] = true
			matchedB[j] = true
			matches++
			break
		}
	}
	if matches == 0 {
		return 0.0
	}

	// Count half-transpositions between the two matched sequences.
	transpositions := 0
	j := 0
	for i := range a {
		if !matchedA[i] {
			continue
		}
		for !matchedB[j] {
			j++
		}
		if a[i] != b[j] {
			transpositions++
		}
		j++
	}
	m := float64(matches)
	t := float64(transpositions / 2)
	return (m/float64(len(a)) + m/float64(len(b)) + (m-t)/m) / 3.0
}

// DiceBigram computes the Sørensen-Dice coefficient over the sets of
// character bigrams of both names.
func DiceBigram(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ba := bigrams(a)
	bb := bigrams(b)
	if len(ba) == 0 || len(bb) == 0 {
		return 0.0
	}
	common := 0
	for g := range ba {
		if _, ok := bb[g]; ok {
			common++
		}
	}
	return 2.0 * float64(common) / float64(len(ba)+len(bb))
}

func bigrams(s string) map[string]struct{} {
	runes := []rune(s)
	out := make(map[string]struct{})
	if len(runes) < 2 {
		if len(runes) == 1 {
			out[string(runes)] = struct{}{}
		}
		return out
	}
	for i := 0; i+2 <= len(runes); i++ {
		out[string(runes[i:i+2])] = struct{}{}
	}
	return out
}
