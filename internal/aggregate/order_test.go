package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/ssot-cli/internal/model"
)

func ts(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	t = t.UTC()
	return &t
}

func TestRankRecordsByPriority(t *testing.T) {
	metas := []model.RowMetadata{
		{Index: 0, SourcePriority: 1},
		{Index: 1, SourcePriority: 3},
		{Index: 2, SourcePriority: 2},
	}
	assert.Equal(t, []int{1, 2, 0}, rankRecords(metas))
}

func TestRankRecordsQualityBreaksPriorityTie(t *testing.T) {
	metas := []model.RowMetadata{
		{Index: 0, SourcePriority: 2, QualityScore: 1},
		{Index: 1, SourcePriority: 2, QualityScore: 4},
	}
	assert.Equal(t, []int{1, 0}, rankRecords(metas))
}

func TestRankRecordsInteractionBreaksQualityTie(t *testing.T) {
	metas := []model.RowMetadata{
		{Index: 0, SourcePriority: 2, QualityScore: 3, LastInteraction: ts("2024-06-01")},
		{Index: 1, SourcePriority: 2, QualityScore: 3, LastInteraction: ts("2023-01-01")},
	}
	assert.Equal(t, []int{0, 1}, rankRecords(metas))
}

func TestRankRecordsMissingInteractionSortsLast(t *testing.T) {
	metas := []model.RowMetadata{
		{Index: 0, SourcePriority: 2, QualityScore: 3},
		{Index: 1, SourcePriority: 2, QualityScore: 3, LastInteraction: ts("2020-01-01")},
	}
	// Even an old date beats no date.
	assert.Equal(t, []int{1, 0}, rankRecords(metas))
}

func TestRankRecordsLaterIndexWinsFullTie(t *testing.T) {
	metas := []model.RowMetadata{
		{Index: 0, SourcePriority: 2, QualityScore: 3},
		{Index: 1, SourcePriority: 2, QualityScore: 3},
		{Index: 2, SourcePriority: 2, QualityScore: 3},
	}
	assert.Equal(t, []int{2, 1, 0}, rankRecords(metas))
}

func TestRankRecordsDeterministic(t *testing.T) {
	metas := []model.RowMetadata{
		{Index: 0, SourcePriority: 1, QualityScore: 2, SourceRecordID: "c"},
		{Index: 1, SourcePriority: 3, QualityScore: 0, SourceRecordID: "a"},
		{Index: 2, SourcePriority: 1, QualityScore: 2, SourceRecordID: "b", LastInteraction: ts("2024-01-01")},
		{Index: 3, SourcePriority: 2, QualityScore: 5},
	}
	first := rankRecords(metas)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, rankRecords(metas))
	}
}
