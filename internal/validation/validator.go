// Package validation scores contact channels for deliverability. The
// aggregation engine depends only on the Validator interface; the shipped
// implementation is a deterministic heuristic with no network I/O.
package validation

import (
	"context"
	"math"
)

// Status classifies a contact channel's deliverability.
type Status string

const (
	StatusDeliverable   Status = "deliverable"
	StatusRisky         Status = "risky"
	StatusUndeliverable Status = "undeliverable"
	StatusUnknown       Status = "unknown"
)

// ChannelResult is the validation outcome for one channel.
type ChannelResult struct {
	Status     Status   `json:"status"`
	Confidence float64  `json:"confidence"`
	Flags      []string `json:"flags,omitempty"`
}

// Result holds the outcome for both channels. A nil channel means no value
// was supplied for it.
type Result struct {
	Email *ChannelResult `json:"email,omitempty"`
	Phone *ChannelResult `json:"phone,omitempty"`
}

// DeliverabilityScore derives a single 0-1 estimate from both channels:
// the logistic-scaled mean channel confidence, multiplied by a penalty per
// channel (undeliverable x0.2, risky x0.7). Penalties compound.
func (r Result) DeliverabilityScore() float64 {
	var sum float64
	var n int
	for _, ch := range []*ChannelResult{r.Email, r.Phone} {
		if ch == nil {
			continue
		}
		sum += ch.Confidence
		n++
	}
	if n == 0 {
		return 0
	}

	score := logistic(sum / float64(n))
	for _, ch := range []*ChannelResult{r.Email, r.Phone} {
		if ch == nil {
			continue
		}
		switch ch.Status {
		case StatusUndeliverable:
			score *= 0.2
		case StatusRisky:
			score *= 0.7
		}
	}
	return score
}

// Flags returns all channel flags, prefixed by channel name, in a stable
// order.
func (r Result) Flags() []string {
	var out []string
	if r.Email != nil {
		for _, f := range r.Email.Flags {
			out = append(out, "email:"+f)
		}
	}
	if r.Phone != nil {
		for _, f := range r.Phone.Flags {
			out = append(out, "phone:"+f)
		}
	}
	return out
}

// logistic squashes a 0-1 confidence around 0.5.
func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-6*(x-0.5)))
}

// Validator validates an organization's primary contact channels. Either
// argument may be empty; countryCode qualifies phone formats.
// Implementations must be side-effect free or internally thread-safe: the
// batch driver may call them from multiple goroutines.
type Validator interface {
	Validate(ctx context.Context, email, phone, countryCode string) (Result, error)
}
