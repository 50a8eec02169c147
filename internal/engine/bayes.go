package engine

import "github.com/iei-diagnostic-server/internal/domain"

// Update applies Bayes' rule to the beliefs for an observed answer:
//
//	posterior(c) = prior(c) * P(answer | question, c) / Z
//
// where Z normalizes the posterior to sum to 1. When Z is zero the answer is
// impossible under every category in the current support; the prior is
// returned unchanged and the second result reports the zero-likelihood event.
// The input distribution is never mutated.
func Update(prior domain.Distribution, q *domain.Question, a domain.Answer) (domain.Distribution, bool) {
	posterior := make(domain.Distribution, len(prior))
	z := 0.0
	for cat, p := range prior {
		w := p * q.Likelihood(cat, a)
		posterior[cat] = w
		z += w
	}
	if z <= 0 {
		return prior.Clone(), true
	}
	for cat := range posterior {
		posterior[cat] /= z
	}
	return posterior, false
}
