package match

import (
	"math"
	"regexp"
	"strings"
)

// tokenPattern keeps runs of two or more word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

func tokenize(s string) []string {
	return tokenPattern.FindAllString(strings.ToLower(s), -1)
}

// vector is a sparse L2-normalized TF-IDF vector.
type vector map[string]float64

// vectorize fits smoothed IDF weights on docs and returns one normalized
// vector per document. Term frequencies are raw counts and
// idf = ln((1+n)/(1+df)) + 1.
func vectorize(docs []string) []vector {
	tokens := make([][]string, len(docs))
	df := make(map[string]int)
	for i, d := range docs {
		tokens[i] = tokenize(d)
		seen := make(map[string]bool, len(tokens[i]))
		for _, t := range tokens[i] {
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	n := float64(len(docs))
	out := make([]vector, len(docs))
	for i, toks := range tokens {
		v := make(vector, len(toks))
		for _, t := range toks {
			v[t]++
		}
		var norm float64
		for t, tf := range v {
			w := tf * (math.Log((1+n)/(1+float64(df[t]))) + 1)
			v[t] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for t := range v {
				v[t] /= norm
			}
		}
		out[i] = v
	}
	return out
}

// cosine of two normalized vectors.
func cosine(a, b vector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for t, w := range a {
		dot += w * b[t]
	}
	return dot
}
