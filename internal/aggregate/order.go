package aggregate

import (
	"sort"
	"time"

	"github.com/sells-group/ssot-cli/internal/model"
)

// rankRecords returns the group's record indices sorted winner-first:
// descending by (source priority, quality score, last interaction, input
// index, source record id). The descending index tie-break means that
// among otherwise-equal records the later-appearing one wins. That mirrors
// the legacy consolidation policy and is fixed, not configurable.
func rankRecords(metas []model.RowMetadata) []int {
	order := make([]int, len(metas))
	for i := range order {
		order[i] = i
	}

	sort.Slice(order, func(a, b int) bool {
		ma, mb := &metas[order[a]], &metas[order[b]]

		if ma.SourcePriority != mb.SourcePriority {
			return ma.SourcePriority > mb.SourcePriority
		}
		if ma.QualityScore != mb.QualityScore {
			return ma.QualityScore > mb.QualityScore
		}
		ta, tb := interactionOrMin(ma), interactionOrMin(mb)
		if !ta.Equal(tb) {
			return ta.After(tb)
		}
		if ma.Index != mb.Index {
			return ma.Index > mb.Index
		}
		return ma.SourceRecordID > mb.SourceRecordID
	})

	return order
}

// interactionOrMin substitutes the minimum timestamp for records with no
// parseable last interaction so they sort last.
func interactionOrMin(m *model.RowMetadata) time.Time {
	if m.LastInteraction == nil {
		return time.Time{}
	}
	return *m.LastInteraction
}
