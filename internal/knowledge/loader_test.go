package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iei-diagnostic-server/internal/domain"
)

const sampleKB = `
categories:
  - id: Alpha
    name: Alpha Syndromes
  - id: Beta
    name: Beta Syndromes
priors:
  Alpha: 0.6
  Beta: 0.4
questions:
  - id: Q1
    prompt: "Finding present?"
    answers: [No_answer, Yes_answer]
    likelihoods:
      Alpha: {No_answer: 0.2, Yes_answer: 0.8}
      Beta: {No_answer: 0.9, Yes_answer: 0.1}
    relevance_weight: 1.5
    nodal_weight: 2.0
patterns:
  - id: alpha-classic
    name: Classic Alpha
    category: Alpha
    conditions:
      - question: Q1
        answer: Yes_answer
    confidence: 0.92
    confirm_with: [Q1]
`

func TestParse(t *testing.T) {
	reg, err := Parse([]byte(sampleKB))
	require.NoError(t, err)

	assert.Equal(t, 2, reg.NumCategories())
	assert.Equal(t, 1, reg.NumQuestions())

	q, ok := reg.Question("Q1")
	require.True(t, ok)
	assert.Equal(t, 1.5, q.RelevanceWeight)
	assert.Equal(t, 2.0, q.NodalWeight)
	assert.InDelta(t, 0.8, q.Likelihood("Alpha", "Yes_answer"), 1e-9)

	priors := reg.Priors()
	assert.InDelta(t, 0.6, priors["Alpha"], 1e-9)

	patterns := reg.Patterns()
	require.Len(t, patterns, 1)
	assert.Equal(t, domain.CategoryID("Alpha"), patterns[0].Category)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("categories: [unterminated"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedKnowledgeBase)
}

func TestParseMalformedBase(t *testing.T) {
	// Valid YAML, invalid knowledge: only one category declared.
	doc := `
categories:
  - id: Alpha
    name: Alpha
questions: []
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedKnowledgeBase)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleKB), 0o644))

	reg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.NumQuestions())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
