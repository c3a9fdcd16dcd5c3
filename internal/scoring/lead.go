// Package scoring converts contact completeness, channel confidence,
// source quality, and intent into a single lead score.
package scoring

import "math"

// Weights are the policy blend weights for the lead score. They must sum
// to 1 for the blend to stay in [0,1] before squashing.
type Weights struct {
	Completeness float64 `yaml:"completeness" mapstructure:"completeness"`
	Email        float64 `yaml:"email" mapstructure:"email"`
	Phone        float64 `yaml:"phone" mapstructure:"phone"`
	Source       float64 `yaml:"source" mapstructure:"source"`
	Intent       float64 `yaml:"intent" mapstructure:"intent"`
}

// DefaultWeights is the fixed scoring policy.
func DefaultWeights() Weights {
	return Weights{
		Completeness: 0.30,
		Email:        0.25,
		Phone:        0.15,
		Source:       0.20,
		Intent:       0.10,
	}
}

// LeadScorer produces a 0-1 lead score. All inputs are expected in [0,1];
// implementations clamp out-of-range values.
type LeadScorer interface {
	Score(completeness, emailConfidence, phoneConfidence, sourcePriority, intentScore float64) float64
}

// WeightedScorer blends the five inputs and squashes the blend through a
// logistic centered at 0.5.
type WeightedScorer struct {
	weights   Weights
	steepness float64
}

// NewWeightedScorer returns the default policy scorer.
func NewWeightedScorer() *WeightedScorer {
	return &WeightedScorer{weights: DefaultWeights(), steepness: 8}
}

// WithWeights overrides the blend weights.
func (s *WeightedScorer) WithWeights(w Weights) *WeightedScorer {
	s.weights = w
	return s
}

// WithSteepness overrides the logistic steepness.
func (s *WeightedScorer) WithSteepness(k float64) *WeightedScorer {
	if k > 0 {
		s.steepness = k
	}
	return s
}

// Score implements LeadScorer.
func (s *WeightedScorer) Score(completeness, emailConfidence, phoneConfidence, sourcePriority, intentScore float64) float64 {
	w := s.weights
	total := w.Completeness + w.Email + w.Phone + w.Source + w.Intent
	if total == 0 {
		return 0
	}

	blend := (w.Completeness*clamp01(completeness) +
		w.Email*clamp01(emailConfidence) +
		w.Phone*clamp01(phoneConfidence) +
		w.Source*clamp01(sourcePriority) +
		w.Intent*clamp01(intentScore)) / total

	return 1 / (1 + math.Exp(-s.steepness*(blend-0.5)))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
