package match

import (
	"strings"
)

// CityThreshold is the minimum score (exclusive) for a city match.
const CityThreshold = 80.0

// CityValidator resolves free text to a canonical city name.
type CityValidator struct {
	cities []string
	folded []string
}

// NewCityValidator builds a validator over cities, in priority order.
func NewCityValidator(cities []string) *CityValidator {
	v := &CityValidator{
		cities: append([]string(nil), cities...),
		folded: make([]string, len(cities)),
	}
	for i, c := range cities {
		v.folded[i] = strings.ToLower(c)
	}
	return v
}

// Score returns the similarity of a and b on a 0-100 scale over trimmed,
// case-folded input. Equal strings score 100. A city named inside a longer
// phrase ("new delhi", "delhi airport") scores 90.
func Score(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b && a != "" {
		return 100
	}
	return weightedRatio(a, b)
}

// Best returns the highest-scoring city and its score.
// Ties go to the earliest city. ok is false when there are no cities.
func (v *CityValidator) Best(input string) (city string, score float64, ok bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" || len(v.cities) == 0 {
		return "", 0, false
	}
	best := -1.0
	for i, f := range v.folded {
		s := Score(input, f)
		if s > best {
			best = s
			city = v.cities[i]
		}
	}
	return city, best, true
}

// Match returns the canonical city for input when its score exceeds
// CityThreshold. Empty input never matches.
func (v *CityValidator) Match(input string) (string, bool) {
	city, score, ok := v.Best(input)
	if !ok || score <= CityThreshold {
		return "", false
	}
	return city, true
}

// Cities returns the known cities in priority order.
func (v *CityValidator) Cities() []string {
	return append([]string(nil), v.cities...)
}
