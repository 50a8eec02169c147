// Package domain contains the core entities for sequential diagnostic reasoning
// over inborn errors of immunity (IEI) categories.
//
// The engine maintains a probability distribution over a fixed set of diagnostic
// categories, updates it with Bayes' rule as answers arrive, and recognizes
// pathognomonic answer constellations that short-circuit the interview.
//
// Reference: IUIS 2024 classification of inborn errors of immunity (broad groups).
package domain

import (
	"fmt"
	"math"
	"sort"
)

// CategoryID identifies a diagnostic category in the knowledge base.
type CategoryID string

// Category is one of the fixed diagnostic categories defined at knowledge-base
// load time. Categories are never created or destroyed at runtime.
type Category struct {
	ID   CategoryID `json:"id" yaml:"id"`
	Name string     `json:"name" yaml:"name"`
}

// QuestionID identifies a question in the knowledge base.
type QuestionID string

// Answer is one of a question's declared discrete answer options.
type Answer string

// ProbabilityTolerance is the floating-point slack allowed when checking that a
// distribution sums to 1.
const ProbabilityTolerance = 1e-6

// Distribution maps diagnostic categories to probabilities. A valid
// distribution has every value in [0,1] and sums to 1 within tolerance.
type Distribution map[CategoryID]float64

// Validate checks the distribution invariant: all values in [0,1], sum == 1.
func (d Distribution) Validate() error {
	if len(d) == 0 {
		return fmt.Errorf("distribution validation: empty distribution")
	}
	sum := 0.0
	for cat, p := range d {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return fmt.Errorf("distribution validation: probability %v for category %s out of [0,1]", p, cat)
		}
		sum += p
	}
	if math.Abs(sum-1.0) > ProbabilityTolerance {
		return fmt.Errorf("distribution validation: probabilities sum to %v, expected 1", sum)
	}
	return nil
}

// Clone returns an independent copy of the distribution.
func (d Distribution) Clone() Distribution {
	out := make(Distribution, len(d))
	for cat, p := range d {
		out[cat] = p
	}
	return out
}

// ArgMax returns the category with the highest probability and that
// probability. Ties are broken by category ID so the result is deterministic.
func (d Distribution) ArgMax() (CategoryID, float64) {
	var best CategoryID
	bestP := -1.0
	for _, cat := range d.sortedCategories() {
		if p := d[cat]; p > bestP {
			best, bestP = cat, p
		}
	}
	return best, bestP
}

// Normalize rescales the distribution in place so it sums to 1. It returns an
// error if the total mass is zero, in which case the distribution is unchanged.
func (d Distribution) Normalize() error {
	sum := 0.0
	for _, p := range d {
		sum += p
	}
	if sum <= 0 {
		return fmt.Errorf("normalize: zero total probability mass")
	}
	for cat := range d {
		d[cat] /= sum
	}
	return nil
}

// Ranked returns (category, probability) pairs sorted by descending
// probability, ties broken by category ID.
func (d Distribution) Ranked() []CategoryProbability {
	out := make([]CategoryProbability, 0, len(d))
	for cat, p := range d {
		out = append(out, CategoryProbability{Category: cat, Probability: p})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Probability != out[j].Probability {
			return out[i].Probability > out[j].Probability
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// sortedCategories returns category IDs in lexical order for deterministic
// iteration.
func (d Distribution) sortedCategories() []CategoryID {
	cats := make([]CategoryID, 0, len(d))
	for cat := range d {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

// UniformDistribution returns a uniform distribution over the given categories.
func UniformDistribution(categories []Category) Distribution {
	d := make(Distribution, len(categories))
	p := 1.0 / float64(len(categories))
	for _, cat := range categories {
		d[cat.ID] = p
	}
	return d
}

// CategoryProbability pairs a category with its probability for ranked output.
type CategoryProbability struct {
	Category    CategoryID `json:"category"`
	Probability float64    `json:"probability"`
}

// StopCriterion identifies which stopping rule concluded a case.
type StopCriterion string

const (
	// StopPatternFired means a pathognomonic pattern fired at or above the
	// pattern confidence threshold.
	StopPatternFired StopCriterion = "PATTERN_FIRED"
	// StopConfidenceReached means the leading category's probability reached
	// the confidence threshold.
	StopConfidenceReached StopCriterion = "CONFIDENCE_REACHED"
	// StopEntropyResolved means residual entropy fell below the entropy
	// threshold.
	StopEntropyResolved StopCriterion = "ENTROPY_RESOLVED"
	// StopQuestionsExhausted means every question was asked without reaching a
	// confident conclusion. This is a forced conclusion.
	StopQuestionsExhausted StopCriterion = "QUESTIONS_EXHAUSTED"
)

// IsValid validates the stop criterion value.
func (sc StopCriterion) IsValid() bool {
	switch sc {
	case StopPatternFired, StopConfidenceReached, StopEntropyResolved, StopQuestionsExhausted:
		return true
	default:
		return false
	}
}

// String returns the string representation of the criterion.
func (sc StopCriterion) String() string {
	return string(sc)
}

// LogFields returns structured logging fields for audit trails.
func (sc StopCriterion) LogFields() map[string]any {
	return map[string]any{
		"stop_criterion": string(sc),
		"forced":         sc == StopQuestionsExhausted,
	}
}
