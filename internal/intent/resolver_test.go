package intent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ssot-cli/internal/model"
)

func testResolver() *MapResolver {
	return NewMapResolver([]model.IntentSummary{
		{Slug: "sky-high", Score: 0.9, SignalCount: 4},
		{Slug: "charter-wings", Score: 0.3, SignalCount: 1},
	})
}

func TestResolveBySlug(t *testing.T) {
	got := testResolver().Resolve("sky-high", "")
	require.NotNil(t, got)
	assert.InDelta(t, 0.9, got.Score, 1e-9)
}

func TestResolveBySlugifiedName(t *testing.T) {
	got := testResolver().Resolve("", "Charter Wings")
	require.NotNil(t, got)
	assert.InDelta(t, 0.3, got.Score, 1e-9)
}

func TestResolveMiss(t *testing.T) {
	assert.Nil(t, testResolver().Resolve("unknown-org", "Unknown Org"))
	assert.Nil(t, testResolver().Resolve("", ""))
}

func TestResolveReturnsCopy(t *testing.T) {
	r := testResolver()
	first := r.Resolve("sky-high", "")
	require.NotNil(t, first)
	first.Score = 0

	again := r.Resolve("sky-high", "")
	require.NotNil(t, again)
	assert.InDelta(t, 0.9, again.Score, 1e-9)
}

func TestNewMapResolverLaterDuplicateWins(t *testing.T) {
	r := NewMapResolver([]model.IntentSummary{
		{Slug: "sky-high", Score: 0.1},
		{Slug: "sky-high", Score: 0.8},
	})
	got := r.Resolve("sky-high", "")
	require.NotNil(t, got)
	assert.InDelta(t, 0.8, got.Score, 1e-9)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intent.yaml")
	doc := `- slug: sky-high
  score: 0.9
  signal_count: 4
  signal_types:
    - web_visit
    - content_download
  last_observed_at: 2024-07-01T00:00:00Z
- slug: charter-wings
  score: 0.3
  signal_count: 1
  signal_types: [pricing_page]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	summaries, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "sky-high", summaries[0].Slug)
	assert.Equal(t, 4, summaries[0].SignalCount)
	assert.Equal(t, []string{"web_visit", "content_download"}, summaries[0].SignalTypes)
	require.NotNil(t, summaries[0].LastObservedAt)
	assert.Equal(t, 2024, summaries[0].LastObservedAt.Year())
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "intent: read")
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("slug: [unclosed"), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "intent: parse")
}
