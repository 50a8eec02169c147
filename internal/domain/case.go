package domain

import "time"

// Step is one entry of a case's append-only answer history, together with the
// belief snapshot taken after the step was applied.
type Step struct {
	Question QuestionID `json:"question"`
	Answer   Answer     `json:"answer"`
	// Entropy is the Shannon entropy of the beliefs after this step, in bits.
	Entropy float64 `json:"entropy"`
	// ZeroLikelihood marks a step whose answer had zero probability under
	// every supported category. The update was a no-op and the prior was kept.
	ZeroLikelihood bool         `json:"zero_likelihood,omitempty"`
	Beliefs        Distribution `json:"beliefs"`
}

// Conclusion is the terminal result of a case.
type Conclusion struct {
	Category   CategoryID    `json:"category"`
	Confidence float64       `json:"confidence"`
	Criterion  StopCriterion `json:"criterion"`
	// Forced marks an exhausted-questions conclusion: the differential was not
	// resolved to target confidence before questions ran out.
	Forced bool `json:"forced"`
	// Pattern is set when the conclusion was triggered by a fired pattern.
	Pattern *PatternMatch `json:"pattern,omitempty"`
}

// BeliefState is the only mutable entity of a diagnostic case. It holds the
// current probability distribution over categories, the ordered answer history
// (insertion order is the clinically relevant order), fired patterns, and the
// terminal conclusion once a stopping criterion holds.
//
// A BeliefState must be exclusively owned by one execution context at a time;
// callers serialize concurrent answers to the same case.
type BeliefState struct {
	CaseID    string    `json:"case_id"`
	CreatedAt time.Time `json:"created_at"`

	Beliefs Distribution `json:"beliefs"`
	Steps   []Step       `json:"steps"`

	// FiredPattern is the currently asserted pathognomonic match, if any.
	// Re-evaluating an unchanged history keeps the same single assertion.
	FiredPattern *PatternMatch `json:"fired_pattern,omitempty"`

	Conclusion *Conclusion `json:"conclusion,omitempty"`
}

// Concluded reports whether a stopping criterion has fired for this case.
func (s *BeliefState) Concluded() bool {
	return s.Conclusion != nil
}

// Answered reports whether the question is already present in the history.
func (s *BeliefState) Answered(id QuestionID) bool {
	for _, step := range s.Steps {
		if step.Question == id {
			return true
		}
	}
	return false
}

// AnswerFor returns the recorded answer for a question and whether one exists.
func (s *BeliefState) AnswerFor(id QuestionID) (Answer, bool) {
	for _, step := range s.Steps {
		if step.Question == id {
			return step.Answer, true
		}
	}
	return "", false
}

// History returns the ordered (question, answer) pairs recorded so far.
func (s *BeliefState) History() []PatternCondition {
	out := make([]PatternCondition, len(s.Steps))
	for i, step := range s.Steps {
		out[i] = PatternCondition{Question: step.Question, Answer: step.Answer}
	}
	return out
}

// ReasoningTrace is the read-only audit view of a case: the full answer
// history with per-step entropy values, any fired pattern, and the conclusion.
type ReasoningTrace struct {
	CaseID       string        `json:"case_id"`
	CreatedAt    time.Time     `json:"created_at"`
	Steps        []Step        `json:"steps"`
	Beliefs      Distribution  `json:"beliefs"`
	Entropy      float64       `json:"entropy"`
	FiredPattern *PatternMatch `json:"fired_pattern,omitempty"`
	Conclusion   *Conclusion   `json:"conclusion,omitempty"`
}
