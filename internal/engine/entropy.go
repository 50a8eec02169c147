package engine

import (
	"math"

	"github.com/iei-diagnostic-server/internal/domain"
)

// Entropy returns the Shannon entropy of a belief distribution in bits.
// Zero-probability categories contribute nothing (0*log(0) = 0 by convention).
func Entropy(dist domain.Distribution) float64 {
	h := 0.0
	for _, p := range dist {
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}

// AnswerMarginal returns P(answer) under the current beliefs: the probability
// of observing the answer marginalized over all categories.
func AnswerMarginal(beliefs domain.Distribution, q *domain.Question, a domain.Answer) float64 {
	m := 0.0
	for cat, p := range beliefs {
		m += p * q.Likelihood(cat, a)
	}
	return m
}

// ExpectedPosteriorEntropy returns the entropy, in bits, expected after asking
// the question: the posterior entropy of each possible answer weighted by that
// answer's marginal probability. Answers with zero marginal probability are
// unreachable and skipped.
func ExpectedPosteriorEntropy(beliefs domain.Distribution, q *domain.Question) float64 {
	expected := 0.0
	for _, a := range q.Answers {
		marginal := AnswerMarginal(beliefs, q, a)
		if marginal <= 0 {
			continue
		}
		posterior, _ := Update(beliefs, q, a)
		expected += marginal * Entropy(posterior)
	}
	return expected
}

// InformationGain returns the expected entropy reduction from asking the
// question, clamped to zero. Floating-point noise can push the raw difference
// marginally negative even though mutual information is non-negative.
func InformationGain(beliefs domain.Distribution, q *domain.Question) float64 {
	gain := Entropy(beliefs) - ExpectedPosteriorEntropy(beliefs, q)
	if gain < 0 {
		return 0
	}
	return gain
}
