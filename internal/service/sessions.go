// Package service coordinates diagnostic sessions: it owns case lifecycle,
// serializes concurrent answers per case, persists every transition, and
// publishes belief updates to live subscribers.
package service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iei-diagnostic-server/internal/casestore"
	"github.com/iei-diagnostic-server/internal/domain"
	"github.com/iei-diagnostic-server/internal/engine"
)

// Event types published to case subscribers.
const (
	EventCaseStarted   = "case_started"
	EventAnswer        = "answer_recorded"
	EventCaseRevised   = "case_revised"
	EventCaseConcluded = "case_concluded"
)

// CaseEvent is a belief-state transition pushed to live subscribers.
type CaseEvent struct {
	Type       string               `json:"type"`
	CaseID     string               `json:"case_id"`
	Step       *domain.Step         `json:"step,omitempty"`
	Beliefs    domain.Distribution  `json:"beliefs"`
	Entropy    float64              `json:"entropy"`
	Conclusion *domain.Conclusion   `json:"conclusion,omitempty"`
	Pattern    *domain.PatternMatch `json:"pattern,omitempty"`
}

// Notifier pushes case events to subscribers. A nil notifier disables
// publishing.
type Notifier interface {
	Publish(event *CaseEvent)
}

// SessionService runs diagnostic sessions over one engine and store. Per-case
// mutexes serialize answer submissions so each belief state has a single
// writer; distinct cases proceed fully in parallel.
type SessionService struct {
	engine   *engine.Engine
	store    casestore.Store
	notifier Notifier
	logger   *logrus.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSessionService creates a session service. notifier may be nil.
func NewSessionService(eng *engine.Engine, store casestore.Store, notifier Notifier, logger *logrus.Logger) *SessionService {
	return &SessionService{
		engine:   eng,
		store:    store,
		notifier: notifier,
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}
}

// lockCase acquires the per-case mutex and returns its release func.
func (s *SessionService) lockCase(caseID string) func() {
	s.mu.Lock()
	l, ok := s.locks[caseID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[caseID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *SessionService) dropLock(caseID string) {
	s.mu.Lock()
	delete(s.locks, caseID)
	s.mu.Unlock()
}

// StartCase opens a new case at the knowledge base priors and returns it with
// its first recommended question.
func (s *SessionService) StartCase(ctx context.Context) (*domain.BeliefState, *engine.Candidate, error) {
	state := s.engine.NewCase(uuid.New().String())
	if err := s.store.Save(ctx, state); err != nil {
		return nil, nil, fmt.Errorf("failed to persist new case: %w", err)
	}

	next, err := s.engine.NextQuestion(state)
	if err != nil {
		return nil, nil, err
	}

	s.publish(&CaseEvent{
		Type:    EventCaseStarted,
		CaseID:  state.CaseID,
		Beliefs: state.Beliefs,
		Entropy: engine.Entropy(state.Beliefs),
	})
	return state, next, nil
}

// GetCase loads a stored case.
func (s *SessionService) GetCase(ctx context.Context, caseID string) (*domain.BeliefState, error) {
	return s.store.Get(ctx, caseID)
}

// SubmitAnswer records an answer against a case and persists the new state.
func (s *SessionService) SubmitAnswer(ctx context.Context, caseID string, qid domain.QuestionID, answer domain.Answer) (*domain.BeliefState, *domain.Step, error) {
	unlock := s.lockCase(caseID)
	defer unlock()

	state, err := s.store.Get(ctx, caseID)
	if err != nil {
		return nil, nil, err
	}

	step, err := s.engine.SubmitAnswer(state, qid, answer)
	if err != nil {
		return nil, nil, err
	}
	if err := s.store.Save(ctx, state); err != nil {
		return nil, nil, fmt.Errorf("failed to persist case %s: %w", caseID, err)
	}

	event := &CaseEvent{
		Type:    EventAnswer,
		CaseID:  caseID,
		Step:    step,
		Beliefs: state.Beliefs,
		Entropy: step.Entropy,
		Pattern: state.FiredPattern,
	}
	if state.Concluded() {
		event.Type = EventCaseConcluded
		event.Conclusion = state.Conclusion
	}
	s.publish(event)

	return state, step, nil
}

// ReviseAnswer replaces an earlier answer and rebuilds the case by replaying
// the corrected history from the priors. All downstream beliefs, pattern
// matches, and any conclusion are recomputed.
func (s *SessionService) ReviseAnswer(ctx context.Context, caseID string, qid domain.QuestionID, answer domain.Answer) (*domain.BeliefState, error) {
	unlock := s.lockCase(caseID)
	defer unlock()

	state, err := s.store.Get(ctx, caseID)
	if err != nil {
		return nil, err
	}

	history := state.History()
	revised := false
	for i := range history {
		if history[i].Question == qid {
			history[i].Answer = answer
			revised = true
			break
		}
	}
	if !revised {
		return nil, &domain.InvalidAnswerError{Question: qid, Answer: answer, Reason: "question was never answered in this case"}
	}

	replayed, err := s.engine.Replay(caseID, history)
	if err != nil {
		return nil, err
	}
	// Keep the original creation time; replay restarts the clock.
	replayed.CreatedAt = state.CreatedAt

	if err := s.store.Save(ctx, replayed); err != nil {
		return nil, fmt.Errorf("failed to persist case %s: %w", caseID, err)
	}

	event := &CaseEvent{
		Type:    EventCaseRevised,
		CaseID:  caseID,
		Beliefs: replayed.Beliefs,
		Entropy: engine.Entropy(replayed.Beliefs),
		Pattern: replayed.FiredPattern,
	}
	if replayed.Concluded() {
		event.Conclusion = replayed.Conclusion
	}
	s.publish(event)

	return replayed, nil
}

// NextQuestion returns the highest-value unanswered question for a case.
func (s *SessionService) NextQuestion(ctx context.Context, caseID string) (*engine.Candidate, error) {
	state, err := s.store.Get(ctx, caseID)
	if err != nil {
		return nil, err
	}
	return s.engine.NextQuestion(state)
}

// RankQuestions returns the full scored ranking of unanswered questions.
func (s *SessionService) RankQuestions(ctx context.Context, caseID string) ([]engine.Candidate, error) {
	state, err := s.store.Get(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if state.Concluded() {
		return nil, domain.ErrCaseConcluded
	}
	return s.engine.Rank(state), nil
}

// Explain returns the audit trace of a case.
func (s *SessionService) Explain(ctx context.Context, caseID string) (*domain.ReasoningTrace, error) {
	state, err := s.store.Get(ctx, caseID)
	if err != nil {
		return nil, err
	}
	return s.engine.Explain(state), nil
}

// ListCases returns stored case summaries with pagination.
func (s *SessionService) ListCases(ctx context.Context, limit, offset int) ([]*casestore.Summary, int64, error) {
	summaries, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

// DeleteCase removes a case and its lock.
func (s *SessionService) DeleteCase(ctx context.Context, caseID string) error {
	unlock := s.lockCase(caseID)
	defer unlock()

	if err := s.store.Delete(ctx, caseID); err != nil {
		return err
	}
	s.dropLock(caseID)
	s.logger.WithField("case_id", caseID).Info("Case deleted")
	return nil
}

// Export writes all stored cases as a JSON document.
func (s *SessionService) Export(ctx context.Context, w io.Writer) error {
	return s.store.ExportJSON(ctx, w)
}

// Engine exposes the underlying reasoning engine, e.g. for knowledge base
// introspection endpoints.
func (s *SessionService) Engine() *engine.Engine {
	return s.engine
}

func (s *SessionService) publish(event *CaseEvent) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(event)
}
