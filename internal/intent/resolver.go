// Package intent resolves externally collected buying-intent summaries
// for organization groups.
package intent

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/ssot-cli/internal/model"
	"github.com/sells-group/ssot-cli/internal/normalize"
)

// Resolver looks up the intent summary for a group. Returns nil when
// nothing resolves; the aggregation engine then scores intent as 0.
type Resolver interface {
	Resolve(slug, organizationName string) *model.IntentSummary
}

// MapResolver resolves from an in-memory index keyed by slug. Lookup
// tries the group slug, then the slugified organization name, then the
// lowercased raw name.
type MapResolver struct {
	bySlug map[string]model.IntentSummary
}

// NewMapResolver indexes summaries by slug. Later duplicates win.
func NewMapResolver(summaries []model.IntentSummary) *MapResolver {
	idx := make(map[string]model.IntentSummary, len(summaries))
	for _, s := range summaries {
		if key := normalize.Clean(s.Slug); key != "" {
			idx[key] = s
		}
	}
	return &MapResolver{bySlug: idx}
}

// Resolve implements Resolver.
func (r *MapResolver) Resolve(slug, organizationName string) *model.IntentSummary {
	for _, key := range []string{
		normalize.Clean(slug),
		normalize.Slugify(organizationName),
		strings.ToLower(normalize.Clean(organizationName)),
	} {
		if key == "" {
			continue
		}
		if s, ok := r.bySlug[key]; ok {
			return &s
		}
	}
	return nil
}

// LoadFile reads intent summaries from a YAML file: a top-level list of
// summary documents.
func LoadFile(path string) ([]model.IntentSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "intent: read %s", path)
	}

	var summaries []model.IntentSummary
	if err := yaml.Unmarshal(data, &summaries); err != nil {
		return nil, eris.Wrapf(err, "intent: parse %s", path)
	}
	return summaries, nil
}
