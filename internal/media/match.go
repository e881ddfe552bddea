package media

import (
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MatchResult is the outcome of fuzzy-matching a filename against a set
// of candidate titles.
type MatchResult struct {
	Title string
	Score float64
}

// matchThreshold is the minimum Jaro-Winkler similarity for a filename to
// be considered a plausible render of a title.
const matchThreshold = 0.85

// CleanTitle normalizes a title or filename for comparison: lowercase,
// accents folded, punctuation dropped, whitespace collapsed.
func CleanTitle(s string) string {
	s = strings.ToLower(s)
	s = removeAccents(s)
	s = strings.ReplaceAll(s, "&", " and ")

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// MatchTitle finds the candidate title closest to the given name.
// Jaro-Winkler favors shared prefixes, which suits episode titles that
// gain or lose trailing decorations on disk. Returns a zero result when
// nothing clears the threshold.
func MatchTitle(name string, candidates []string) MatchResult {
	cleaned := CleanTitle(name)

	var best MatchResult
	for _, candidate := range candidates {
		score := float64(edlib.JaroWinklerSimilarity(cleaned, CleanTitle(candidate)))
		if score > best.Score {
			best = MatchResult{Title: candidate, Score: score}
		}
	}
	if best.Score < matchThreshold {
		return MatchResult{}
	}
	return best
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, _ := transform.String(t, s)
	return out
}
