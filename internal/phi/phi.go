// Package phi wraps the external medical-entity detector and decides which
// detected text counts as Personal Health Information.
package phi

import "context"

// Entity is one PHI entity reported by the detector for a piece of text.
type Entity struct {
	Score float64 `json:"score"`
	Type  string  `json:"type,omitempty"`
	Text  string  `json:"text,omitempty"`
}

// Classifier detects PHI entities in free text.
type Classifier interface {
	DetectPHI(ctx context.Context, text string) ([]Entity, error)
}

// ScoringPolicy decides whether an entity list marks its source text as
// PHI at the given threshold.
type ScoringPolicy interface {
	IsPHI(entities []Entity, threshold float64) bool
}

// DefaultThreshold is the canonical confidence threshold for treating a
// text line as PHI.
const DefaultThreshold = 0.4

// TopEntityThresholdPolicy looks only at the first entity in the list,
// assuming the service returns entities sorted by descending confidence.
// A line is PHI iff the list is non-empty and entities[0].Score is
// strictly greater than the threshold.
type TopEntityThresholdPolicy struct{}

func (TopEntityThresholdPolicy) IsPHI(entities []Entity, threshold float64) bool {
	return len(entities) > 0 && entities[0].Score > threshold
}

// MaxScorePolicy compares the maximum score across all entities against
// the threshold.
type MaxScorePolicy struct{}

func (MaxScorePolicy) IsPHI(entities []Entity, threshold float64) bool {
	for _, e := range entities {
		if e.Score > threshold {
			return true
		}
	}
	return false
}

// AnyAboveThresholdPolicy is an alias semantics-wise for MaxScorePolicy
// kept as its own type so call sites can state intent; it passes when any
// entity clears the threshold.
type AnyAboveThresholdPolicy struct{}

func (AnyAboveThresholdPolicy) IsPHI(entities []Entity, threshold float64) bool {
	return MaxScorePolicy{}.IsPHI(entities, threshold)
}

// PolicyByName resolves a configured policy name. Unknown names fall back
// to the top-entity default.
func PolicyByName(name string) ScoringPolicy {
	switch name {
	case "max":
		return MaxScorePolicy{}
	case "any":
		return AnyAboveThresholdPolicy{}
	default:
		return TopEntityThresholdPolicy{}
	}
}
