package knowledge

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iei-diagnostic-server/internal/domain"
)

func testCategories() []domain.Category {
	return []domain.Category{
		{ID: "Alpha", Name: "Alpha"},
		{ID: "Beta", Name: "Beta"},
	}
}

func testQuestion() *domain.Question {
	return &domain.Question{
		ID:      "Q1",
		Prompt:  "Finding present?",
		Answers: []domain.Answer{"No", "Yes"},
		Likelihoods: map[domain.CategoryID]domain.AnswerLikelihoods{
			"Alpha": {"No": 0.2, "Yes": 0.8},
			"Beta":  {"No": 0.9, "Yes": 0.1},
		},
		RelevanceWeight: 1.0,
		NodalWeight:     1.0,
	}
}

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(testCategories(), []*domain.Question{testQuestion()}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, reg.NumCategories())
	assert.Equal(t, 1, reg.NumQuestions())

	q, ok := reg.Question("Q1")
	require.True(t, ok)
	assert.Equal(t, domain.QuestionID("Q1"), q.ID)

	_, ok = reg.Question("Q99")
	assert.False(t, ok)
}

func TestNewRegistryValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(q *domain.Question) (cats []domain.Category, patterns []*domain.Pattern, priors domain.Distribution)
	}{
		{
			name: "likelihoods do not sum to one",
			mutate: func(q *domain.Question) ([]domain.Category, []*domain.Pattern, domain.Distribution) {
				q.Likelihoods["Alpha"] = domain.AnswerLikelihoods{"No": 0.5, "Yes": 0.6}
				return testCategories(), nil, nil
			},
		},
		{
			name: "likelihood out of range",
			mutate: func(q *domain.Question) ([]domain.Category, []*domain.Pattern, domain.Distribution) {
				q.Likelihoods["Alpha"] = domain.AnswerLikelihoods{"No": -0.2, "Yes": 1.2}
				return testCategories(), nil, nil
			},
		},
		{
			name: "missing category row",
			mutate: func(q *domain.Question) ([]domain.Category, []*domain.Pattern, domain.Distribution) {
				delete(q.Likelihoods, "Beta")
				return testCategories(), nil, nil
			},
		},
		{
			name: "likelihood for undeclared answer",
			mutate: func(q *domain.Question) ([]domain.Category, []*domain.Pattern, domain.Distribution) {
				q.Likelihoods["Alpha"] = domain.AnswerLikelihoods{"No": 0.2, "Yes": 0.7, "Maybe": 0.1}
				return testCategories(), nil, nil
			},
		},
		{
			name: "likelihoods for unknown category",
			mutate: func(q *domain.Question) ([]domain.Category, []*domain.Pattern, domain.Distribution) {
				q.Likelihoods["Gamma"] = domain.AnswerLikelihoods{"No": 0.5, "Yes": 0.5}
				return testCategories(), nil, nil
			},
		},
		{
			name: "single answer option",
			mutate: func(q *domain.Question) ([]domain.Category, []*domain.Pattern, domain.Distribution) {
				q.Answers = []domain.Answer{"Yes"}
				q.Likelihoods["Alpha"] = domain.AnswerLikelihoods{"Yes": 1.0}
				q.Likelihoods["Beta"] = domain.AnswerLikelihoods{"Yes": 1.0}
				return testCategories(), nil, nil
			},
		},
		{
			name: "non-positive weight",
			mutate: func(q *domain.Question) ([]domain.Category, []*domain.Pattern, domain.Distribution) {
				q.RelevanceWeight = 0
				return testCategories(), nil, nil
			},
		},
		{
			name: "pattern references unknown question",
			mutate: func(q *domain.Question) ([]domain.Category, []*domain.Pattern, domain.Distribution) {
				p := &domain.Pattern{
					ID: "p1", Name: "P1", Category: "Alpha", Confidence: 0.9,
					Conditions: []domain.PatternCondition{{Question: "Q99", Answer: "Yes"}},
				}
				return testCategories(), []*domain.Pattern{p}, nil
			},
		},
		{
			name: "pattern requires undeclared answer",
			mutate: func(q *domain.Question) ([]domain.Category, []*domain.Pattern, domain.Distribution) {
				p := &domain.Pattern{
					ID: "p1", Name: "P1", Category: "Alpha", Confidence: 0.9,
					Conditions: []domain.PatternCondition{{Question: "Q1", Answer: "Maybe"}},
				}
				return testCategories(), []*domain.Pattern{p}, nil
			},
		},
		{
			name: "pattern confidence out of range",
			mutate: func(q *domain.Question) ([]domain.Category, []*domain.Pattern, domain.Distribution) {
				p := &domain.Pattern{
					ID: "p1", Name: "P1", Category: "Alpha", Confidence: 1.5,
					Conditions: []domain.PatternCondition{{Question: "Q1", Answer: "Yes"}},
				}
				return testCategories(), []*domain.Pattern{p}, nil
			},
		},
		{
			name: "priors missing a category",
			mutate: func(q *domain.Question) ([]domain.Category, []*domain.Pattern, domain.Distribution) {
				return testCategories(), nil, domain.Distribution{"Alpha": 1.0}
			},
		},
		{
			name: "priors do not sum to one",
			mutate: func(q *domain.Question) ([]domain.Category, []*domain.Pattern, domain.Distribution) {
				return testCategories(), nil, domain.Distribution{"Alpha": 0.5, "Beta": 0.6}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := testQuestion()
			cats, patterns, priors := tt.mutate(q)
			_, err := NewRegistry(cats, []*domain.Question{q}, patterns, priors)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMalformedKnowledgeBase)
		})
	}
}

func TestRegistryDuplicateQuestionID(t *testing.T) {
	_, err := NewRegistry(testCategories(), []*domain.Question{testQuestion(), testQuestion()}, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedKnowledgeBase)
}

func TestRegistryUniformPriorFallback(t *testing.T) {
	reg, err := NewRegistry(testCategories(), []*domain.Question{testQuestion()}, nil, nil)
	require.NoError(t, err)

	priors := reg.Priors()
	require.Len(t, priors, 2)
	assert.InDelta(t, 0.5, priors["Alpha"], 1e-9)
	assert.InDelta(t, 0.5, priors["Beta"], 1e-9)
}

func TestRegistryPriorsAreCopies(t *testing.T) {
	priors := domain.Distribution{"Alpha": 0.7, "Beta": 0.3}
	reg, err := NewRegistry(testCategories(), []*domain.Question{testQuestion()}, nil, priors)
	require.NoError(t, err)

	got := reg.Priors()
	got["Alpha"] = 0.0
	again := reg.Priors()
	assert.InDelta(t, 0.7, again["Alpha"], 1e-9)
}

func TestRegistryQuestionOrderIsLexical(t *testing.T) {
	q2 := testQuestion()
	q2.ID = "Q10"
	q3 := testQuestion()
	q3.ID = "Q02"
	reg, err := NewRegistry(testCategories(), []*domain.Question{q2, q3, testQuestion()}, nil, nil)
	require.NoError(t, err)

	ids := reg.QuestionIDs()
	assert.True(t, sort.SliceIsSorted(ids, func(i, j int) bool { return ids[i] < ids[j] }))
}

func TestBuiltinIEIRegistry(t *testing.T) {
	reg, err := NewIEIRegistry()
	require.NoError(t, err)

	assert.Equal(t, 8, reg.NumCategories())
	assert.Equal(t, 20, reg.NumQuestions())
	assert.Len(t, reg.Patterns(), 7)

	priors := reg.Priors()
	require.NoError(t, priors.Validate())

	// Every pattern targets a declared category.
	for _, p := range reg.Patterns() {
		_, ok := reg.Category(p.Category)
		assert.True(t, ok, "pattern %s", p.ID)
	}
}
