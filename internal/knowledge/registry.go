// Package knowledge holds the static diagnostic knowledge base: categories,
// questions with per-category conditional likelihoods, and pathognomonic
// patterns. A Registry is validated once at construction and immutable
// afterwards, so it can be shared read-only across concurrent cases.
package knowledge

import (
	"math"
	"sort"

	"github.com/iei-diagnostic-server/internal/domain"
)

// Registry is the validated, immutable knowledge base handed to the engine at
// startup. It is explicitly constructed and injected, never ambient global
// state, so tests and multi-tenant deployments can carry alternate bases.
type Registry struct {
	categories []domain.Category
	catIndex   map[domain.CategoryID]domain.Category
	questions  map[domain.QuestionID]*domain.Question
	order      []domain.QuestionID
	patterns   []*domain.Pattern
	priors     domain.Distribution
}

// NewRegistry validates and assembles a knowledge base. priors may be nil, in
// which case cases start from a uniform distribution. Any inconsistency is
// fatal and wraps domain.ErrMalformedKnowledgeBase; no case may start from an
// invalid base.
func NewRegistry(
	categories []domain.Category,
	questions []*domain.Question,
	patterns []*domain.Pattern,
	priors domain.Distribution,
) (*Registry, error) {
	if len(categories) < 2 {
		return nil, &domain.KnowledgeBaseError{Element: "categories", Detail: "at least two categories required"}
	}

	catIndex := make(map[domain.CategoryID]domain.Category, len(categories))
	for _, cat := range categories {
		if cat.ID == "" {
			return nil, &domain.KnowledgeBaseError{Element: "categories", Detail: "empty category ID"}
		}
		if _, dup := catIndex[cat.ID]; dup {
			return nil, &domain.KnowledgeBaseError{Element: string(cat.ID), Detail: "duplicate category ID"}
		}
		catIndex[cat.ID] = cat
	}

	qIndex := make(map[domain.QuestionID]*domain.Question, len(questions))
	order := make([]domain.QuestionID, 0, len(questions))
	for _, q := range questions {
		if err := validateQuestion(q, categories); err != nil {
			return nil, err
		}
		if _, dup := qIndex[q.ID]; dup {
			return nil, &domain.KnowledgeBaseError{Element: string(q.ID), Detail: "duplicate question ID"}
		}
		qIndex[q.ID] = q
		order = append(order, q.ID)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	for _, p := range patterns {
		if err := validatePattern(p, catIndex, qIndex); err != nil {
			return nil, err
		}
	}

	var storedPriors domain.Distribution
	if priors != nil {
		if err := validatePriors(priors, catIndex); err != nil {
			return nil, err
		}
		storedPriors = priors.Clone()
	}

	return &Registry{
		categories: append([]domain.Category(nil), categories...),
		catIndex:   catIndex,
		questions:  qIndex,
		order:      order,
		patterns:   append([]*domain.Pattern(nil), patterns...),
		priors:     storedPriors,
	}, nil
}

func validateQuestion(q *domain.Question, categories []domain.Category) error {
	if q.ID == "" {
		return &domain.KnowledgeBaseError{Element: "questions", Detail: "empty question ID"}
	}
	if len(q.Answers) < 2 {
		return &domain.KnowledgeBaseError{Element: string(q.ID), Detail: "a question needs at least two answer options"}
	}
	seen := make(map[domain.Answer]bool, len(q.Answers))
	for _, a := range q.Answers {
		if seen[a] {
			return &domain.KnowledgeBaseError{Element: string(q.ID), Detail: "duplicate answer option " + string(a)}
		}
		seen[a] = true
	}
	if q.RelevanceWeight <= 0 || q.NodalWeight <= 0 {
		return &domain.KnowledgeBaseError{Element: string(q.ID), Detail: "relevance and nodal weights must be positive"}
	}

	for _, cat := range categories {
		likelihoods, ok := q.Likelihoods[cat.ID]
		if !ok {
			return &domain.KnowledgeBaseError{Element: string(q.ID), Detail: "missing likelihoods for category " + string(cat.ID)}
		}
		sum := 0.0
		for a, p := range likelihoods {
			if !seen[a] {
				return &domain.KnowledgeBaseError{Element: string(q.ID), Detail: "likelihood for undeclared answer " + string(a)}
			}
			if math.IsNaN(p) || p < 0 || p > 1 {
				return &domain.KnowledgeBaseError{Element: string(q.ID), Detail: "likelihood out of [0,1] for category " + string(cat.ID)}
			}
			sum += p
		}
		// Per category the answer-conditional likelihoods form a distribution.
		if math.Abs(sum-1.0) > domain.ProbabilityTolerance {
			return &domain.KnowledgeBaseError{Element: string(q.ID), Detail: "answer likelihoods for category " + string(cat.ID) + " do not sum to 1"}
		}
	}

	for extra := range q.Likelihoods {
		found := false
		for _, cat := range categories {
			if cat.ID == extra {
				found = true
				break
			}
		}
		if !found {
			return &domain.KnowledgeBaseError{Element: string(q.ID), Detail: "likelihoods reference unknown category " + string(extra)}
		}
	}
	return nil
}

func validatePattern(p *domain.Pattern, catIndex map[domain.CategoryID]domain.Category, qIndex map[domain.QuestionID]*domain.Question) error {
	if p.ID == "" {
		return &domain.KnowledgeBaseError{Element: "patterns", Detail: "empty pattern ID"}
	}
	if _, ok := catIndex[p.Category]; !ok {
		return &domain.KnowledgeBaseError{Element: p.ID, Detail: "pattern targets unknown category " + string(p.Category)}
	}
	if p.Confidence <= 0 || p.Confidence > 1 {
		return &domain.KnowledgeBaseError{Element: p.ID, Detail: "pattern confidence must be in (0,1]"}
	}
	if len(p.Conditions) == 0 {
		return &domain.KnowledgeBaseError{Element: p.ID, Detail: "pattern needs at least one condition"}
	}
	for _, cond := range p.Conditions {
		q, ok := qIndex[cond.Question]
		if !ok {
			return &domain.KnowledgeBaseError{Element: p.ID, Detail: "condition references unknown question " + string(cond.Question)}
		}
		if !q.HasAnswer(cond.Answer) {
			return &domain.KnowledgeBaseError{Element: p.ID, Detail: "condition requires undeclared answer " + string(cond.Answer) + " for " + string(cond.Question)}
		}
	}
	for _, confirm := range p.ConfirmWith {
		if _, ok := qIndex[confirm]; !ok {
			return &domain.KnowledgeBaseError{Element: p.ID, Detail: "confirm_with references unknown question " + string(confirm)}
		}
	}
	return nil
}

func validatePriors(priors domain.Distribution, catIndex map[domain.CategoryID]domain.Category) error {
	for cat := range priors {
		if _, ok := catIndex[cat]; !ok {
			return &domain.KnowledgeBaseError{Element: "priors", Detail: "prior for unknown category " + string(cat)}
		}
	}
	if len(priors) != len(catIndex) {
		return &domain.KnowledgeBaseError{Element: "priors", Detail: "priors must cover every category"}
	}
	if err := priors.Validate(); err != nil {
		return &domain.KnowledgeBaseError{Element: "priors", Detail: err.Error()}
	}
	return nil
}

// Categories returns the declared categories in authored order.
func (r *Registry) Categories() []domain.Category {
	return append([]domain.Category(nil), r.categories...)
}

// Category looks up a category by ID.
func (r *Registry) Category(id domain.CategoryID) (domain.Category, bool) {
	cat, ok := r.catIndex[id]
	return cat, ok
}

// NumCategories returns the number of diagnostic categories.
func (r *Registry) NumCategories() int {
	return len(r.categories)
}

// Question looks up a question by ID.
func (r *Registry) Question(id domain.QuestionID) (*domain.Question, bool) {
	q, ok := r.questions[id]
	return q, ok
}

// QuestionIDs returns every question ID in lexical order. The stable order is
// the selector's deterministic tie-break.
func (r *Registry) QuestionIDs() []domain.QuestionID {
	return append([]domain.QuestionID(nil), r.order...)
}

// NumQuestions returns the size of the question catalog.
func (r *Registry) NumQuestions() int {
	return len(r.order)
}

// Patterns returns the registered pathognomonic patterns in registration
// order. Registration order breaks confidence ties when several patterns fire.
func (r *Registry) Patterns() []*domain.Pattern {
	return append([]*domain.Pattern(nil), r.patterns...)
}

// Priors returns a copy of the knowledge base's category base rates, or a
// uniform distribution when none were declared.
func (r *Registry) Priors() domain.Distribution {
	if r.priors == nil {
		return domain.UniformDistribution(r.categories)
	}
	return r.priors.Clone()
}
