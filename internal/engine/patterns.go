package engine

import "github.com/iei-diagnostic-server/internal/domain"

// EvaluatePatterns checks every pattern against the answer history and returns
// the strongest fired match, or nil when none fires. A pattern fires when all
// of its conditions are present in the history. Among fired patterns the
// highest confidence wins; confidence ties resolve to the earlier registered
// pattern, so repeated evaluation of the same history is deterministic.
func EvaluatePatterns(patterns []*domain.Pattern, state *domain.BeliefState) *domain.PatternMatch {
	var best *domain.Pattern
	for _, p := range patterns {
		if !patternFires(p, state) {
			continue
		}
		if best == nil || p.Confidence > best.Confidence {
			best = p
		}
	}
	if best == nil {
		return nil
	}
	return &domain.PatternMatch{
		PatternID:  best.ID,
		Name:       best.Name,
		Category:   best.Category,
		Confidence: best.Confidence,
		Step:       len(state.Steps),
	}
}

func patternFires(p *domain.Pattern, state *domain.BeliefState) bool {
	for _, cond := range p.Conditions {
		a, ok := state.AnswerFor(cond.Question)
		if !ok || a != cond.Answer {
			return false
		}
	}
	return true
}

// ApplyPatternOverride is the single policy point where a fired pattern
// reshapes the beliefs: the target category is set to the pattern confidence
// and the remaining mass is split over the other categories in proportion to
// their current probabilities. Applying the same match twice is a no-op.
func ApplyPatternOverride(beliefs domain.Distribution, match *domain.PatternMatch) domain.Distribution {
	out := make(domain.Distribution, len(beliefs))
	rest := 1.0 - beliefs[match.Category]
	remaining := 1.0 - match.Confidence

	if rest <= 0 {
		// The target already holds all the mass; spread the complement evenly.
		n := len(beliefs) - 1
		for cat := range beliefs {
			if cat == match.Category {
				out[cat] = match.Confidence
			} else if n > 0 {
				out[cat] = remaining / float64(n)
			}
		}
		return out
	}

	for cat, p := range beliefs {
		if cat == match.Category {
			out[cat] = match.Confidence
		} else {
			out[cat] = p * remaining / rest
		}
	}
	return out
}
