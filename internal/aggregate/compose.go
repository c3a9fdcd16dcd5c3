package aggregate

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ssot-cli/internal/model"
)

// derivedScores carries everything score composition attaches to the
// canonical row beyond per-field selections.
type derivedScores struct {
	emailStatus     string
	emailConfidence float64
	phoneStatus     string
	phoneConfidence float64
	validationFlags string
	deliverability  float64
	completeness    float64
	leadScore       float64
	intentScore     float64
	intent          *model.IntentSummary
}

// composeScores validates the primary channels, computes contact
// completeness, resolves intent, and blends everything into the lead
// score. Collaborator failures propagate: confidence fields are
// load-bearing downstream, so there is no silent default.
func (a *Aggregator) composeScores(ctx context.Context, slug, orgName, name, role, email, phone string, topPriority int) (derivedScores, error) {
	var d derivedScores

	vres, err := a.validator.Validate(ctx, email, phone, a.countryCode)
	if err != nil {
		return d, eris.Wrapf(err, "contact validation failed for group %q", slug)
	}

	if vres.Email != nil {
		d.emailStatus = string(vres.Email.Status)
		d.emailConfidence = vres.Email.Confidence
	}
	if vres.Phone != nil {
		d.phoneStatus = string(vres.Phone.Status)
		d.phoneConfidence = vres.Phone.Confidence
	}
	d.validationFlags = strings.Join(vres.Flags(), ";")
	d.deliverability = vres.DeliverabilityScore()

	present := 0
	for _, v := range []string{name, email, phone, role} {
		if v != "" {
			present++
		}
	}
	d.completeness = float64(present) / 4

	if a.intents != nil {
		if summary := a.intents.Resolve(slug, orgName); summary != nil {
			d.intent = summary
			d.intentScore = summary.Score
		}
	}

	priorityNorm := float64(topPriority) / float64(MaxSourcePriority)
	d.leadScore = a.scorer.Score(d.completeness, d.emailConfidence, d.phoneConfidence, priorityNorm, d.intentScore)

	return d, nil
}
