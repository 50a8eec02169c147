package service

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iei-diagnostic-server/internal/casestore"
	"github.com/iei-diagnostic-server/internal/domain"
	"github.com/iei-diagnostic-server/internal/engine"
	"github.com/iei-diagnostic-server/internal/knowledge"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []*CaseEvent
}

func (n *recordingNotifier) Publish(event *CaseEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) all() []*CaseEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*CaseEvent(nil), n.events...)
}

func newTestService(t *testing.T) (*SessionService, *recordingNotifier) {
	t.Helper()

	reg, err := knowledge.NewIEIRegistry()
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	eng, err := engine.New(reg, domain.EngineConfig{
		PatternThreshold:    0.90,
		ConfidenceThreshold: 0.95,
		EntropyThreshold:    0.30,
	}, log)
	require.NoError(t, err)

	store, err := casestore.NewSQLiteStore(filepath.Join(t.TempDir(), "cases.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	notifier := &recordingNotifier{}
	return NewSessionService(eng, store, notifier, log), notifier
}

func TestStartCase(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	state, next, err := svc.StartCase(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, state.CaseID)
	require.NoError(t, state.Beliefs.Validate())
	require.NotNil(t, next)
	assert.Greater(t, next.WeightedGain, 0.0)

	// Persisted immediately.
	stored, err := svc.GetCase(ctx, state.CaseID)
	require.NoError(t, err)
	assert.Equal(t, state.Beliefs, stored.Beliefs)

	events := notifier.all()
	require.Len(t, events, 1)
	assert.Equal(t, EventCaseStarted, events[0].Type)
}

func TestSubmitAnswerPersistsAndPublishes(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	state, _, err := svc.StartCase(ctx)
	require.NoError(t, err)

	updated, step, err := svc.SubmitAnswer(ctx, state.CaseID, "Q15", "Bacteria")
	require.NoError(t, err)
	require.NotNil(t, step)
	assert.Len(t, updated.Steps, 1)

	stored, err := svc.GetCase(ctx, state.CaseID)
	require.NoError(t, err)
	assert.Len(t, stored.Steps, 1)
	assert.Equal(t, updated.Beliefs, stored.Beliefs)

	events := notifier.all()
	require.Len(t, events, 2)
	assert.Equal(t, EventAnswer, events[1].Type)
	assert.Equal(t, state.CaseID, events[1].CaseID)
}

func TestSubmitAnswerUnknownCase(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.SubmitAnswer(context.Background(), "missing", "Q15", "Bacteria")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReviseAnswerReplaysHistory(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	state, _, err := svc.StartCase(ctx)
	require.NoError(t, err)

	_, _, err = svc.SubmitAnswer(ctx, state.CaseID, "Q15", "Bacteria")
	require.NoError(t, err)
	_, _, err = svc.SubmitAnswer(ctx, state.CaseID, "Q9", "No")
	require.NoError(t, err)

	before, err := svc.GetCase(ctx, state.CaseID)
	require.NoError(t, err)

	revised, err := svc.ReviseAnswer(ctx, state.CaseID, "Q15", "Virus")
	require.NoError(t, err)
	require.Len(t, revised.Steps, 2)
	assert.Equal(t, domain.Answer("Virus"), revised.Steps[0].Answer)
	assert.NotEqual(t, before.Beliefs, revised.Beliefs)
	assert.Equal(t, before.CreatedAt.Unix(), revised.CreatedAt.Unix())

	events := notifier.all()
	assert.Equal(t, EventCaseRevised, events[len(events)-1].Type)
}

func TestReviseAnswerUnansweredQuestion(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	state, _, err := svc.StartCase(ctx)
	require.NoError(t, err)

	_, err = svc.ReviseAnswer(ctx, state.CaseID, "Q15", "Virus")
	assert.ErrorIs(t, err, domain.ErrInvalidAnswer)
}

func TestConcludedCasePublishesConclusion(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	state, _, err := svc.StartCase(ctx)
	require.NoError(t, err)

	// The SCID constellation fires its pattern at 0.92 and concludes.
	answers := []domain.PatternCondition{
		{Question: "Q1", Answer: "<6mo"},
		{Question: "Q5", Answer: "Yes_Multiple"},
		{Question: "Q33", Answer: "Yes"},
	}
	var last *domain.BeliefState
	for _, a := range answers {
		last, _, err = svc.SubmitAnswer(ctx, state.CaseID, a.Question, a.Answer)
		require.NoError(t, err)
	}

	require.True(t, last.Concluded())
	assert.Equal(t, domain.StopPatternFired, last.Conclusion.Criterion)
	assert.Equal(t, knowledge.CatCombinedID, last.Conclusion.Category)

	events := notifier.all()
	final := events[len(events)-1]
	assert.Equal(t, EventCaseConcluded, final.Type)
	require.NotNil(t, final.Conclusion)

	// Further answers are rejected.
	_, _, err = svc.SubmitAnswer(ctx, state.CaseID, "Q9", "Yes")
	assert.ErrorIs(t, err, domain.ErrCaseConcluded)
}

func TestExplainAndRank(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	state, _, err := svc.StartCase(ctx)
	require.NoError(t, err)
	_, _, err = svc.SubmitAnswer(ctx, state.CaseID, "Q9", "Yes")
	require.NoError(t, err)

	trace, err := svc.Explain(ctx, state.CaseID)
	require.NoError(t, err)
	assert.Equal(t, state.CaseID, trace.CaseID)
	assert.Len(t, trace.Steps, 1)

	ranking, err := svc.RankQuestions(ctx, state.CaseID)
	require.NoError(t, err)
	assert.Len(t, ranking, 19)
	for _, c := range ranking {
		assert.NotEqual(t, domain.QuestionID("Q9"), c.Question.ID)
	}
}

func TestListAndDeleteCases(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, _, err := svc.StartCase(ctx)
	require.NoError(t, err)
	_, _, err = svc.StartCase(ctx)
	require.NoError(t, err)

	summaries, total, err := svc.ListCases(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, summaries, 2)

	require.NoError(t, svc.DeleteCase(ctx, a.CaseID))
	_, err = svc.GetCase(ctx, a.CaseID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConcurrentAnswersAreSerialized(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	state, _, err := svc.StartCase(ctx)
	require.NoError(t, err)

	questions := []domain.PatternCondition{
		{Question: "Q2", Answer: "No"},
		{Question: "Q6", Answer: "Male"},
		{Question: "Q8", Answer: "No"},
		{Question: "Q20", Answer: "No"},
	}

	var wg sync.WaitGroup
	for _, q := range questions {
		wg.Add(1)
		go func(q domain.PatternCondition) {
			defer wg.Done()
			_, _, err := svc.SubmitAnswer(ctx, state.CaseID, q.Question, q.Answer)
			assert.NoError(t, err)
		}(q)
	}
	wg.Wait()

	stored, err := svc.GetCase(ctx, state.CaseID)
	require.NoError(t, err)
	assert.Len(t, stored.Steps, 4)
	require.NoError(t, stored.Beliefs.Validate())
}
