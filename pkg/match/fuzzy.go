package match

import (
	"slices"
	"strings"
)

const (
	// unbaseScale discounts token-based scores against a plain comparison.
	unbaseScale = 0.95
	// partialMinLenRatio is the length disparity from which substring
	// alignment is considered.
	partialMinLenRatio = 1.5
)

// weightedRatio picks the best of several comparisons of two non-empty,
// normalized strings. Substring and token scores are scaled down so that a
// full match always ranks above a partial one.
func weightedRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	short, long := ra, rb
	if len(short) > len(long) {
		short, long = long, short
	}
	lenRatio := float64(len(long)) / float64(len(short))

	score := ratio(ra, rb)
	if lenRatio < partialMinLenRatio {
		return max(score, tokenRatio(a, b)*unbaseScale)
	}

	partialScale := 0.9
	if lenRatio >= 8 {
		partialScale = 0.6
	}
	score = max(score, partialRatio(short, long)*partialScale)
	return max(score, partialTokenRatio(a, b)*unbaseScale*partialScale)
}

// ratio is the normalized insertion/deletion similarity of a and b:
// 100 * 2*LCS / (len(a)+len(b)).
func ratio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}
	return 100 * float64(2*lcsLength(a, b)) / float64(total)
}

func ratioStrings(a, b string) float64 {
	return ratio([]rune(a), []rune(b))
}

// lcsLength returns the length of the longest common subsequence.
func lcsLength(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// partialRatio is the best ratio of short against every window of long
// with the same length.
func partialRatio(short, long []rune) float64 {
	if len(short) == 0 {
		return 0
	}
	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		best = max(best, ratio(short, long[i:i+len(short)]))
		if best == 100 {
			break
		}
	}
	return best
}

// tokenRatio compares a and b ignoring word order and repeated words.
func tokenRatio(a, b string) float64 {
	ta, tb := sortedTokens(a), sortedTokens(b)
	sorted := ratioStrings(strings.Join(ta, " "), strings.Join(tb, " "))

	sect, onlyA, onlyB := splitTokens(ta, tb)
	if len(sect) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}
	base := strings.Join(sect, " ")
	withA := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	withB := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))
	return max(sorted, ratioStrings(base, withA), ratioStrings(base, withB), ratioStrings(withA, withB))
}

// partialTokenRatio is 100 when a and b share a word, otherwise the
// partial ratio of their sorted words.
func partialTokenRatio(a, b string) float64 {
	ta, tb := sortedTokens(a), sortedTokens(b)
	if sect, _, _ := splitTokens(ta, tb); len(sect) > 0 {
		return 100
	}
	ra, rb := []rune(strings.Join(ta, " ")), []rune(strings.Join(tb, " "))
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	return partialRatio(ra, rb)
}

// sortedTokens splits s on whitespace and returns the distinct words in
// order.
func sortedTokens(s string) []string {
	tokens := strings.Fields(s)
	slices.Sort(tokens)
	return slices.Compact(tokens)
}

// splitTokens partitions two sorted, distinct word lists.
func splitTokens(a, b []string) (sect, onlyA, onlyB []string) {
	for _, t := range a {
		if _, found := slices.BinarySearch(b, t); found {
			sect = append(sect, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for _, t := range b {
		if _, found := slices.BinarySearch(a, t); !found {
			onlyB = append(onlyB, t)
		}
	}
	return sect, onlyA, onlyB
}
