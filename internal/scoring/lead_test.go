package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultWeightsSumToOne(t *testing.T) {
	w := DefaultWeights()
	total := w.Completeness + w.Email + w.Phone + w.Source + w.Intent
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestScoreMidpoint(t *testing.T) {
	// A uniformly average prospect squashes to exactly 0.5.
	s := NewWeightedScorer()
	assert.InDelta(t, 0.5, s.Score(0.5, 0.5, 0.5, 0.5, 0.5), 1e-9)
}

func TestScoreExtremes(t *testing.T) {
	s := NewWeightedScorer()

	full := s.Score(1, 1, 1, 1, 1)
	empty := s.Score(0, 0, 0, 0, 0)

	assert.Greater(t, full, 0.95)
	assert.Less(t, full, 1.0)
	assert.Less(t, empty, 0.05)
	assert.Greater(t, empty, 0.0)
}

func TestScoreMonotonicInEachInput(t *testing.T) {
	s := NewWeightedScorer()
	base := s.Score(0.5, 0.5, 0.5, 0.5, 0.5)

	assert.Greater(t, s.Score(0.9, 0.5, 0.5, 0.5, 0.5), base)
	assert.Greater(t, s.Score(0.5, 0.9, 0.5, 0.5, 0.5), base)
	assert.Greater(t, s.Score(0.5, 0.5, 0.9, 0.5, 0.5), base)
	assert.Greater(t, s.Score(0.5, 0.5, 0.5, 0.9, 0.5), base)
	assert.Greater(t, s.Score(0.5, 0.5, 0.5, 0.5, 0.9), base)
}

func TestScoreClampsInputs(t *testing.T) {
	s := NewWeightedScorer()
	assert.InDelta(t, s.Score(1, 1, 1, 1, 1), s.Score(5, 2, 1.5, 1, 99), 1e-9)
	assert.InDelta(t, s.Score(0, 0, 0, 0, 0), s.Score(-1, -0.5, 0, 0, -3), 1e-9)
}

func TestScoreSteepness(t *testing.T) {
	gentle := NewWeightedScorer().WithSteepness(2)
	sharp := NewWeightedScorer().WithSteepness(20)

	// A strong prospect scores higher under a sharper squash.
	assert.Greater(t, sharp.Score(0.9, 0.9, 0.9, 0.9, 0.9), gentle.Score(0.9, 0.9, 0.9, 0.9, 0.9))

	// Non-positive steepness is ignored.
	s := NewWeightedScorer().WithSteepness(0)
	assert.InDelta(t, 0.5, s.Score(0.5, 0.5, 0.5, 0.5, 0.5), 1e-9)
}

func TestScoreCustomWeights(t *testing.T) {
	s := NewWeightedScorer().WithWeights(Weights{Email: 1})
	// Only email matters under this policy.
	assert.InDelta(t, s.Score(0, 0.7, 0, 0, 0), s.Score(1, 0.7, 1, 1, 1), 1e-9)
}

func TestScoreZeroWeights(t *testing.T) {
	s := NewWeightedScorer().WithWeights(Weights{})
	assert.Zero(t, s.Score(1, 1, 1, 1, 1))
}
