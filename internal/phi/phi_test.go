package phi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopEntityThresholdPolicy(t *testing.T) {
	policy := TopEntityThresholdPolicy{}

	tests := []struct {
		name      string
		entities  []Entity
		threshold float64
		want      bool
	}{
		{"empty list never passes", nil, 0.0, false},
		{"empty list never passes at negative threshold", nil, -1.0, false},
		{"score above threshold", []Entity{{Score: 0.5}}, 0.4, true},
		{"score below threshold", []Entity{{Score: 0.3}}, 0.4, false},
		{"score equal to threshold is not PHI", []Entity{{Score: 0.4}}, 0.4, false},
		{
			// Only the first entity counts, even when a later one scores higher.
			"first entity only",
			[]Entity{{Score: 0.2}, {Score: 0.95}},
			0.4,
			false,
		},
		{"first entity passes regardless of rest", []Entity{{Score: 0.9}, {Score: 0.1}}, 0.4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.IsPHI(tt.entities, tt.threshold))
		})
	}
}

func TestMaxScorePolicy(t *testing.T) {
	policy := MaxScorePolicy{}

	assert.False(t, policy.IsPHI(nil, 0.4))
	assert.True(t, policy.IsPHI([]Entity{{Score: 0.2}, {Score: 0.95}}, 0.4))
	assert.False(t, policy.IsPHI([]Entity{{Score: 0.2}, {Score: 0.3}}, 0.4))
	assert.False(t, policy.IsPHI([]Entity{{Score: 0.4}}, 0.4))
}

func TestAnyAboveThresholdPolicy(t *testing.T) {
	policy := AnyAboveThresholdPolicy{}

	assert.True(t, policy.IsPHI([]Entity{{Score: 0.1}, {Score: 0.41}}, 0.4))
	assert.False(t, policy.IsPHI([]Entity{{Score: 0.1}}, 0.4))
}

func TestPolicyByName(t *testing.T) {
	assert.IsType(t, MaxScorePolicy{}, PolicyByName("max"))
	assert.IsType(t, AnyAboveThresholdPolicy{}, PolicyByName("any"))
	assert.IsType(t, TopEntityThresholdPolicy{}, PolicyByName("top"))
	assert.IsType(t, TopEntityThresholdPolicy{}, PolicyByName(""))
}
