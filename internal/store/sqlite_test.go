package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/ssot-cli/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "ssot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testBatch(id string, generatedAt time.Time) *model.BatchResult {
	return &model.BatchResult{
		BatchID: id,
		Canonical: []model.CanonicalRecord{
			{OrganizationName: "Sky High", Slug: "sky-high", Province: "Gauteng", LeadScore: 0.8, Provenance: "{}"},
			{OrganizationName: "Charter Wings", Slug: "charter-wings", Province: "KZN", LeadScore: 0.4, Provenance: "{}"},
		},
		Conflicts: []model.ConflictRecord{
			{
				Slug: "sky-high", Field: "province",
				ChosenSource: "SACAA Cleaned", ChosenValue: "Gauteng",
				Alternatives: []model.Alternative{{Source: "Contact Database", Value: "Western Cape"}},
			},
			{
				Slug: "sky-high", Field: "organization_name",
				ChosenSource: "SACAA Cleaned", ChosenValue: "Sky High",
				Alternatives: []model.Alternative{{Source: "Contact Database", Value: "Sky High Aviation"}},
			},
		},
		SourceCounts: map[string]int{"SACAA Cleaned": 2, "Contact Database": 1},
		GeneratedAt:  generatedAt,
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	batch := testBatch("batch-1", time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, s.SaveBatch(ctx, batch))

	id, err := s.LatestBatchID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "batch-1", id)

	records, err := s.ListCanonical(ctx, "batch-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "sky-high", records[0].Slug)
	assert.Equal(t, "charter-wings", records[1].Slug)
	assert.InDelta(t, 0.8, records[0].LeadScore, 1e-9)

	conflicts, err := s.ListConflicts(ctx, ConflictFilter{BatchID: "batch-1"})
	require.NoError(t, err)
	require.Len(t, conflicts, 2)
	assert.Equal(t, "province", conflicts[0].Field)
	require.Len(t, conflicts[0].Alternatives, 1)
	assert.Equal(t, "Western Cape", conflicts[0].Alternatives[0].Value)
}

func TestSQLiteLatestBatchIDOrdering(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.SaveBatch(ctx, testBatch("older", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, s.SaveBatch(ctx, testBatch("newer", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))))

	id, err := s.LatestBatchID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "newer", id)
}

func TestSQLiteLatestBatchIDEmpty(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.LatestBatchID(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteListCanonicalUnknownBatch(t *testing.T) {
	s := newTestSQLite(t)

	records, err := s.ListCanonical(context.Background(), "no-such-batch")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSQLiteListConflictsFilters(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	require.NoError(t, s.SaveBatch(ctx, testBatch("batch-1", time.Now().UTC())))

	byField, err := s.ListConflicts(ctx, ConflictFilter{BatchID: "batch-1", Field: "province"})
	require.NoError(t, err)
	require.Len(t, byField, 1)
	assert.Equal(t, "province", byField[0].Field)

	bySlug, err := s.ListConflicts(ctx, ConflictFilter{BatchID: "batch-1", Slug: "sky-high"})
	require.NoError(t, err)
	assert.Len(t, bySlug, 2)

	limited, err := s.ListConflicts(ctx, ConflictFilter{BatchID: "batch-1", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := s.ListConflicts(ctx, ConflictFilter{BatchID: "batch-1", Slug: "charter-wings"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteDuplicateBatchFails(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	batch := testBatch("batch-1", time.Now().UTC())
	require.NoError(t, s.SaveBatch(ctx, batch))
	require.Error(t, s.SaveBatch(ctx, batch))
}
