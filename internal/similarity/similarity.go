// Package similarity provides interchangeable string-similarity backends
// for the fuzzy duplicate pass.
package similarity

import (
	"github.com/agext/levenshtein"
)

// Matcher scores how alike two strings are on a 0..1 scale, where 1 means
// identical. Implementations must be safe for concurrent use.
type Matcher interface {
	Ratio(a, b string) float64
}

// Levenshtein scores with edit-distance similarity. This is the default
// backend.
type Levenshtein struct{}

// Ratio returns the Levenshtein similarity of a and b.
func (Levenshtein) Ratio(a, b string) float64 {
	return levenshtein.Similarity(a, b, nil)
}

// SequenceMatcher is the built-in fallback: Ratcliff/Obershelp gestalt
// matching, the same measure difflib ships. Kept dependency-free so the
// pipeline always has a working backend.
type SequenceMatcher struct{}

// Ratio returns 2*M/T where M is the total length of matching blocks and T
// the combined length of both strings.
func (SequenceMatcher) Ratio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	m := matchingBlocks([]rune(a), []rune(b))
	return 2 * float64(m) / float64(len([]rune(a))+len([]rune(b)))
}

// matchingBlocks sums the lengths of the longest common blocks, recursing
// on the unmatched flanks as Ratcliff/Obershelp prescribes.
func matchingBlocks(a, b []rune) int {
	alo, ahi, blo, bhi, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingBlocks(a[:alo], b[:blo])
	total += matchingBlocks(a[ahi:], b[bhi:])
	return total
}

// longestMatch finds the longest contiguous matching block between a and b.
func longestMatch(a, b []rune) (alo, ahi, blo, bhi, size int) {
	// positions of each rune in b, for skip-ahead
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	best := 0
	// j2len[j] = length of match ending at a[i-1], b[j-1]
	j2len := make(map[int]int)
	for i, r := range a {
		newJ2len := make(map[int]int)
		for _, j := range b2j[r] {
			k := j2len[j-1] + 1
			newJ2len[j] = k
			if k > best {
				best = k
				alo, blo = i-k+1, j-k+1
			}
		}
		j2len = newJ2len
	}
	return alo, alo + best, blo, blo + best, best
}
