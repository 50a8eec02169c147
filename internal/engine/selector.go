package engine

import (
	"github.com/iei-diagnostic-server/internal/domain"
	"github.com/iei-diagnostic-server/internal/knowledge"
)

// Candidate is one scored entry of the question ranking.
type Candidate struct {
	Question        *domain.Question `json:"question"`
	InformationGain float64          `json:"information_gain"`
	WeightedGain    float64          `json:"weighted_gain"`
}

// rankCandidates scores every unanswered question against the current beliefs.
// The ranking score is the raw information gain multiplied by the question's
// relevance and nodal weights. Candidates come back in the registry's lexical
// question order, which is the deterministic tie-break for equal scores.
func rankCandidates(kb *knowledge.Registry, state *domain.BeliefState, gain func(*domain.Question) float64) []Candidate {
	candidates := make([]Candidate, 0, kb.NumQuestions()-len(state.Steps))
	for _, id := range kb.QuestionIDs() {
		if state.Answered(id) {
			continue
		}
		q, _ := kb.Question(id)
		g := gain(q)
		candidates = append(candidates, Candidate{
			Question:        q,
			InformationGain: g,
			WeightedGain:    g * q.RelevanceWeight * q.NodalWeight,
		})
	}
	return candidates
}

// bestCandidate returns the highest weighted-gain candidate. A strictly
// greater score is required to displace the incumbent, so ties keep the
// lexically first question.
func bestCandidate(candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.WeightedGain > best.WeightedGain {
			best = c
		}
	}
	return best, true
}

// evaluateStop checks the stopping criteria against the state after a step,
// in strict priority order:
//
//	1. a fired pattern at or above the pattern threshold
//	2. leading category at or above the confidence threshold
//	3. residual entropy below the entropy threshold
//	4. question catalog exhausted (forced conclusion)
//
// Criteria 1-3 are suppressed until MinQuestions answers have been recorded;
// exhaustion always concludes.
func evaluateStop(kb *knowledge.Registry, cfg domain.EngineConfig, state *domain.BeliefState) *domain.Conclusion {
	leader, leaderProb := state.Beliefs.ArgMax()
	gateOpen := len(state.Steps) >= cfg.MinQuestions

	if gateOpen && state.FiredPattern != nil && state.FiredPattern.Confidence >= cfg.PatternThreshold {
		return &domain.Conclusion{
			Category:   state.FiredPattern.Category,
			Confidence: state.Beliefs[state.FiredPattern.Category],
			Criterion:  domain.StopPatternFired,
			Pattern:    state.FiredPattern,
		}
	}
	if gateOpen && leaderProb >= cfg.ConfidenceThreshold {
		return &domain.Conclusion{
			Category:   leader,
			Confidence: leaderProb,
			Criterion:  domain.StopConfidenceReached,
		}
	}
	if gateOpen && Entropy(state.Beliefs) < cfg.EntropyThreshold {
		return &domain.Conclusion{
			Category:   leader,
			Confidence: leaderProb,
			Criterion:  domain.StopEntropyResolved,
		}
	}
	if len(state.Steps) >= kb.NumQuestions() {
		return &domain.Conclusion{
			Category:   leader,
			Confidence: leaderProb,
			Criterion:  domain.StopQuestionsExhausted,
			Forced:     true,
			Pattern:    state.FiredPattern,
		}
	}
	return nil
}
