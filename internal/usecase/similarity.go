package usecase

import (
	"github.com/agext/levenshtein"
)

// levParams are the default Levenshtein parameters shared by all scoring.
var levParams = levenshtein.NewParams()

// similarityRatio scores how alike two strings are on a 0..100 scale, based
// on normalized edit distance.
func similarityRatio(a, b string) float64 {
	return levenshtein.Similarity(a, b, levParams) * 100
}

// partialRatio scores the best alignment of the shorter string against every
// equal-length window of the longer string, 0..100. It approximates the
// "partial" behavior of substring-tolerant fuzzy matchers: "Weight" scores
// 100 against "NET Weight 200G".
func partialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	short, long := ra, rb
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == len(long) {
		return similarityRatio(string(short), string(long))
	}

	best := 0.0
	shortStr := string(short)
	for i := 0; i+len(short) <= len(long); i++ {
		window := string(long[i : i+len(short)])
		if score := similarityRatio(shortStr, window); score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

// bestMatch returns the candidate with the highest score against the query
// under the given scorer, along with that score. ok is false when candidates
// is empty.
func bestMatch(query string, candidates []string, scorer func(a, b string) float64) (match string, score float64, ok bool) {
	for _, c := range candidates {
		s := scorer(query, c)
		if !ok || s > score {
			match, score, ok = c, s, true
		}
	}
	return match, score, ok
}
