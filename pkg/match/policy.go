package match

import (
	"strings"

	"github.com/aretw0/airdesk/pkg/catalog"
)

// PolicyThreshold is the minimum cosine relevance (exclusive) for an answer.
const PolicyThreshold = 0.1

// policyKeyword triggers the lookup even when no topic is named.
const policyKeyword = "policy"

// PolicyLookup answers free-text questions from the policy knowledge base.
type PolicyLookup struct {
	policies []catalog.Policy
	fallback string
}

// NewPolicyLookup builds a lookup over policies in priority order.
func NewPolicyLookup(policies []catalog.Policy, fallback string) *PolicyLookup {
	return &PolicyLookup{
		policies: append([]catalog.Policy(nil), policies...),
		fallback: fallback,
	}
}

// Triggered reports whether msg names a policy topic or the word "policy".
func (p *PolicyLookup) Triggered(msg string) bool {
	lower := strings.ToLower(msg)
	if strings.Contains(lower, policyKeyword) {
		return true
	}
	for _, pol := range p.policies {
		if strings.Contains(lower, pol.Topic) {
			return true
		}
	}
	return false
}

// Answer returns the canned answer of the most relevant topic and its
// relevance score, or the fallback when no topic scores above PolicyThreshold.
// The vectors are fitted on every call.
func (p *PolicyLookup) Answer(msg string) (string, float64) {
	if len(p.policies) == 0 {
		return p.fallback, 0
	}

	docs := make([]string, 0, len(p.policies)+1)
	for _, pol := range p.policies {
		docs = append(docs, pol.Topic)
	}
	docs = append(docs, strings.ToLower(msg))
	vecs := vectorize(docs)
	query := vecs[len(vecs)-1]

	bestIdx, bestScore := 0, cosine(query, vecs[0])
	for i := 1; i < len(p.policies); i++ {
		if s := cosine(query, vecs[i]); s > bestScore {
			bestIdx, bestScore = i, s
		}
	}
	if bestScore > PolicyThreshold {
		return p.policies[bestIdx].Answer, bestScore
	}
	return p.fallback, bestScore
}
