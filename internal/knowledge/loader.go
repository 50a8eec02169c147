package knowledge

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iei-diagnostic-server/internal/domain"
)

// document is the YAML schema for an external knowledge base file.
type document struct {
	Categories []domain.Category  `yaml:"categories"`
	Priors     map[string]float64 `yaml:"priors"`
	Questions  []*domain.Question `yaml:"questions"`
	Patterns   []*domain.Pattern  `yaml:"patterns"`
}

// Load reads and validates a YAML knowledge base from disk.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base %s: %w", path, err)
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("knowledge base %s: %w", path, err)
	}
	return reg, nil
}

// Parse validates a YAML knowledge base document. Validation failures wrap
// domain.ErrMalformedKnowledgeBase and must prevent any case from starting.
func Parse(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &domain.KnowledgeBaseError{Element: "document", Detail: err.Error()}
	}

	var priors domain.Distribution
	if len(doc.Priors) > 0 {
		priors = make(domain.Distribution, len(doc.Priors))
		for cat, p := range doc.Priors {
			priors[domain.CategoryID(cat)] = p
		}
	}

	return NewRegistry(doc.Categories, doc.Questions, doc.Patterns, priors)
}
