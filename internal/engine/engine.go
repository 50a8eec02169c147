// Package engine implements the sequential diagnostic reasoning loop:
// Bayesian belief updates over the category differential, entropy-driven
// question selection, pathognomonic pattern matching, and the stopping
// criteria that conclude a case.
package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/iei-diagnostic-server/internal/domain"
	"github.com/iei-diagnostic-server/internal/knowledge"
)

const defaultGainCacheSize = 4096

// Engine drives diagnostic cases against one immutable knowledge base. The
// engine itself holds no per-case state and is safe for concurrent use as
// long as each BeliefState is owned by a single caller at a time.
type Engine struct {
	kb  *knowledge.Registry
	cfg domain.EngineConfig
	log *logrus.Logger

	// gains caches per-question information gains keyed by belief fingerprint.
	// Identical belief states recur across cases that share answer prefixes.
	gains *lru.Cache[string, float64]
}

// New creates a reasoning engine over a validated knowledge base.
func New(kb *knowledge.Registry, cfg domain.EngineConfig, log *logrus.Logger) (*Engine, error) {
	size := cfg.GainCacheSize
	if size <= 0 {
		size = defaultGainCacheSize
	}
	gains, err := lru.New[string, float64](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create gain cache: %w", err)
	}
	return &Engine{kb: kb, cfg: cfg, log: log, gains: gains}, nil
}

// Registry exposes the knowledge base the engine reasons over.
func (e *Engine) Registry() *knowledge.Registry {
	return e.kb
}

// NewCase starts a fresh case at the knowledge base priors.
func (e *Engine) NewCase(caseID string) *domain.BeliefState {
	state := &domain.BeliefState{
		CaseID:    caseID,
		CreatedAt: time.Now().UTC(),
		Beliefs:   e.kb.Priors(),
	}
	e.log.WithFields(logrus.Fields{
		"case_id": caseID,
		"entropy": Entropy(state.Beliefs),
	}).Info("Case started")
	return state
}

// SubmitAnswer records an answer, updates the beliefs, re-evaluates patterns,
// and applies the stopping criteria. On success the appended history step is
// returned. Validation failures leave the state untouched.
func (e *Engine) SubmitAnswer(state *domain.BeliefState, qid domain.QuestionID, answer domain.Answer) (*domain.Step, error) {
	if state.Concluded() {
		return nil, domain.ErrCaseConcluded
	}
	q, ok := e.kb.Question(qid)
	if !ok {
		return nil, fmt.Errorf("question %s: %w", qid, domain.ErrNotFound)
	}
	if !q.HasAnswer(answer) {
		return nil, &domain.InvalidAnswerError{Question: qid, Answer: answer, Reason: "not a declared answer option"}
	}
	if state.Answered(qid) {
		return nil, &domain.InvalidAnswerError{Question: qid, Answer: answer, Reason: "question already answered in this case"}
	}

	posterior, zero := Update(state.Beliefs, q, answer)
	if zero {
		e.log.WithFields(logrus.Fields{
			"case_id":  state.CaseID,
			"question": qid,
			"answer":   answer,
		}).WithError(domain.ErrZeroLikelihoodUpdate).Warn("Impossible observation, beliefs retained")
	}
	state.Beliefs = posterior
	state.Steps = append(state.Steps, domain.Step{
		Question:       qid,
		Answer:         answer,
		ZeroLikelihood: zero,
	})

	if match := EvaluatePatterns(e.kb.Patterns(), state); match != nil {
		if state.FiredPattern == nil || state.FiredPattern.PatternID != match.PatternID {
			state.Beliefs = ApplyPatternOverride(state.Beliefs, match)
			state.FiredPattern = match
			e.log.WithFields(logrus.Fields{
				"case_id":    state.CaseID,
				"pattern":    match.PatternID,
				"category":   match.Category,
				"confidence": match.Confidence,
			}).Info("Pathognomonic pattern fired")
		}
	}

	step := &state.Steps[len(state.Steps)-1]
	step.Entropy = Entropy(state.Beliefs)
	step.Beliefs = state.Beliefs.Clone()

	if conclusion := evaluateStop(e.kb, e.cfg, state); conclusion != nil {
		state.Conclusion = conclusion
		e.log.WithFields(logrus.Fields{
			"case_id":    state.CaseID,
			"category":   conclusion.Category,
			"confidence": conclusion.Confidence,
			"criterion":  conclusion.Criterion,
			"steps":      len(state.Steps),
			"forced":     conclusion.Forced,
		}).Info("Case concluded")
	}
	return step, nil
}

// NextQuestion returns the unanswered question with the highest weighted
// information gain under the current beliefs. Equal scores resolve to the
// lexically smallest question ID.
func (e *Engine) NextQuestion(state *domain.BeliefState) (*Candidate, error) {
	if state.Concluded() {
		return nil, domain.ErrCaseConcluded
	}
	best, ok := bestCandidate(e.Rank(state))
	if !ok {
		return nil, fmt.Errorf("no unanswered questions remain: %w", domain.ErrNotFound)
	}
	return &best, nil
}

// Rank scores every unanswered question for the case, in lexical question
// order. The ranking is exposed so clients can inspect the full differential
// of candidate questions, not only the winner.
func (e *Engine) Rank(state *domain.BeliefState) []Candidate {
	prefix := fingerprint(state.Beliefs)
	return rankCandidates(e.kb, state, func(q *domain.Question) float64 {
		key := prefix + "|" + string(q.ID)
		if g, ok := e.gains.Get(key); ok {
			return g
		}
		g := InformationGain(state.Beliefs, q)
		e.gains.Add(key, g)
		return g
	})
}

// Explain returns the read-only audit view of a case.
func (e *Engine) Explain(state *domain.BeliefState) *domain.ReasoningTrace {
	return &domain.ReasoningTrace{
		CaseID:       state.CaseID,
		CreatedAt:    state.CreatedAt,
		Steps:        append([]domain.Step(nil), state.Steps...),
		Beliefs:      state.Beliefs.Clone(),
		Entropy:      Entropy(state.Beliefs),
		FiredPattern: state.FiredPattern,
		Conclusion:   state.Conclusion,
	}
}

// Replay rebuilds a case from scratch by re-applying an answer history in
// order. Revising an earlier answer is modeled as a replay with the edited
// history, so downstream beliefs always reflect the full corrected sequence.
// Answers past the point where a stopping criterion fires are dropped.
func (e *Engine) Replay(caseID string, history []domain.PatternCondition) (*domain.BeliefState, error) {
	state := e.NewCase(caseID)
	for _, h := range history {
		if state.Concluded() {
			e.log.WithFields(logrus.Fields{
				"case_id":  caseID,
				"question": h.Question,
			}).Debug("Replay stopped at conclusion, dropping remaining answers")
			break
		}
		if _, err := e.SubmitAnswer(state, h.Question, h.Answer); err != nil {
			return nil, fmt.Errorf("replay of case %s at question %s: %w", caseID, h.Question, err)
		}
	}
	return state, nil
}

// fingerprint renders a belief distribution as a stable cache key.
func fingerprint(beliefs domain.Distribution) string {
	cats := make([]string, 0, len(beliefs))
	for cat := range beliefs {
		cats = append(cats, string(cat))
	}
	sort.Strings(cats)

	var b strings.Builder
	for i, cat := range cats {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(cat)
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(beliefs[domain.CategoryID(cat)], 'g', -1, 64))
	}
	return b.String()
}
