package model

import "time"

// IntentSummary is the externally collected buying-intent rollup for one
// organization, keyed by slug.
type IntentSummary struct {
	Slug           string     `json:"slug" yaml:"slug"`
	Score          float64    `json:"score" yaml:"score"`
	SignalCount    int        `json:"signal_count" yaml:"signal_count"`
	SignalTypes    []string   `json:"signal_types" yaml:"signal_types"`
	LastObservedAt *time.Time `json:"last_observed_at,omitempty" yaml:"last_observed_at,omitempty"`
	TopInsights    []string   `json:"top_insights,omitempty" yaml:"top_insights,omitempty"`
}
