package aggregate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/ssot-cli/internal/model"
	"github.com/sells-group/ssot-cli/internal/scoring"
	"github.com/sells-group/ssot-cli/internal/validation"
)

// ErrEmptyGroup marks a programmer error: the per-group algorithm was
// invoked with zero records. The batch fails fast; field selection itself
// never errors on missing data.
var ErrEmptyGroup = eris.New("aggregate: group has no records")

// Aggregator drives batch canonicalization. Groups are independent and
// processed concurrently; results are re-assembled in input group order,
// and the per-group winner order stays deterministic regardless of
// scheduling.
type Aggregator struct {
	validator   validation.Validator
	scorer      scoring.LeadScorer
	intents     intentResolver
	countryCode string
	workers     int
}

// intentResolver matches intent.Resolver without importing the package,
// keeping the core free of the YAML loading dependency.
type intentResolver interface {
	Resolve(slug, organizationName string) *model.IntentSummary
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithIntentResolver supplies the intent summary lookup. Without one,
// every group scores intent as 0.
func WithIntentResolver(r intentResolver) Option {
	return func(a *Aggregator) { a.intents = r }
}

// WithCountryCode sets the country code passed to contact validation.
func WithCountryCode(code string) Option {
	return func(a *Aggregator) {
		if code != "" {
			a.countryCode = code
		}
	}
}

// WithWorkers caps concurrent group processing.
func WithWorkers(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.workers = n
		}
	}
}

// New creates an Aggregator. The validator and scorer are required
// collaborators; their failures abort the batch.
func New(validator validation.Validator, scorer scoring.LeadScorer, opts ...Option) *Aggregator {
	a := &Aggregator{
		validator:   validator,
		scorer:      scorer,
		countryCode: "ZA",
		workers:     4,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AggregateBatch canonicalizes every group and collects rows, conflicts,
// and source counts. An empty grouping yields an empty result, not an
// error. Any group failure aborts the whole batch with the offending
// group's slug attached; no partial rows are emitted.
func (a *Aggregator) AggregateBatch(ctx context.Context, groups []model.Group) (*model.BatchResult, error) {
	result := &model.BatchResult{
		BatchID:      uuid.New().String(),
		Canonical:    []model.CanonicalRecord{},
		Conflicts:    []model.ConflictRecord{},
		SourceCounts: make(map[string]int),
		GeneratedAt:  time.Now().UTC(),
	}

	if len(groups) == 0 {
		zap.L().Info("aggregate: no groups to process")
		return result, nil
	}

	rows := make([]*model.CanonicalRecord, len(groups))
	conflicts := make([][]model.ConflictRecord, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i := range groups {
		g.Go(func() error {
			row, groupConflicts, err := a.processGroup(gctx, groups[i])
			if err != nil {
				return eris.Wrapf(err, "aggregate: group %q", groupLabel(&groups[i]))
			}
			rows[i] = row
			conflicts[i] = groupConflicts
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range groups {
		result.Canonical = append(result.Canonical, *rows[i])
		result.Conflicts = append(result.Conflicts, conflicts[i]...)
		for j := range groups[i].Records {
			result.SourceCounts[DatasetName(&groups[i].Records[j])]++
		}
	}

	zap.L().Info("aggregate: batch complete",
		zap.String("batch_id", result.BatchID),
		zap.Int("groups", len(groups)),
		zap.Int("conflicts", len(result.Conflicts)),
	)

	return result, nil
}

// groupLabel names a group for error messages: slug when present, else
// the first record's organization name.
func groupLabel(g *model.Group) string {
	if g.Slug != "" {
		return g.Slug
	}
	if len(g.Records) > 0 && g.Records[0].OrganizationName != "" {
		return g.Records[0].OrganizationName
	}
	return "(unnamed)"
}
