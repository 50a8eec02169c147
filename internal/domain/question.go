package domain

// AnswerLikelihoods is a conditional distribution over a question's answers for
// one category: P(answer | category). It must sum to 1 per category.
type AnswerLikelihoods map[Answer]float64

// Question is immutable reference data: a prompt, its declared answer options,
// and the per-category conditional likelihood of each answer.
//
// RelevanceWeight expresses topical importance independent of entropy.
// NodalWeight scores the question's position in the clinical decision tree;
// branching gatekeeper questions carry weights above 1. Both are authored
// configuration values validated at knowledge-base load, not runtime-computed
// multipliers.
type Question struct {
	ID      QuestionID `json:"id" yaml:"id"`
	Prompt  string     `json:"prompt" yaml:"prompt"`
	Answers []Answer   `json:"answers" yaml:"answers"`

	// Likelihoods holds P(answer | category) for every category the knowledge
	// base declares.
	Likelihoods map[CategoryID]AnswerLikelihoods `json:"likelihoods" yaml:"likelihoods"`

	RelevanceWeight float64 `json:"relevance_weight" yaml:"relevance_weight"`
	NodalWeight     float64 `json:"nodal_weight" yaml:"nodal_weight"`
}

// HasAnswer reports whether a is among the question's declared answer options.
func (q *Question) HasAnswer(a Answer) bool {
	for _, opt := range q.Answers {
		if opt == a {
			return true
		}
	}
	return false
}

// Likelihood returns P(answer | category), or 0 if the pair is not declared.
func (q *Question) Likelihood(cat CategoryID, a Answer) float64 {
	return q.Likelihoods[cat][a]
}

// PatternCondition is one (question, required answer) condition of a
// pathognomonic pattern.
type PatternCondition struct {
	Question QuestionID `json:"question" yaml:"question"`
	Answer   Answer     `json:"answer" yaml:"answer"`
}

// Pattern describes a pathognomonic constellation of findings: when every
// condition is present in the answer history the pattern fires, asserting its
// target category at the declared confidence. Immutable reference data.
type Pattern struct {
	ID         string             `json:"id" yaml:"id"`
	Name       string             `json:"name" yaml:"name"`
	Category   CategoryID         `json:"category" yaml:"category"`
	Conditions []PatternCondition `json:"conditions" yaml:"conditions"`
	Confidence float64            `json:"confidence" yaml:"confidence"`

	// ConfirmWith lists follow-up questions a clinician may use to confirm the
	// suspected diagnosis. Display hints only; the engine does not act on them.
	ConfirmWith []QuestionID `json:"confirm_with,omitempty" yaml:"confirm_with,omitempty"`
}

// PatternMatch records a fired pattern against a case.
type PatternMatch struct {
	PatternID  string     `json:"pattern_id"`
	Name       string     `json:"name"`
	Category   CategoryID `json:"category"`
	Confidence float64    `json:"confidence"`
	// Step is the 1-based history length at which the pattern first fired.
	Step int `json:"step"`
}
