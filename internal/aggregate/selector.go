package aggregate

import (
	"github.com/sells-group/ssot-cli/internal/model"
	"github.com/sells-group/ssot-cli/internal/normalize"
)

// isoDate is the output format for provenance and canonical dates.
const isoDate = "2006-01-02"

// fieldValues extracts the raw candidate values for one field from a
// record. Scalar fields return a single-element slice; list fields return
// their elements in original order.
type fieldValues func(*model.RawRecord) []string

// canonFunc normalizes one raw value; an empty result drops the value.
type canonFunc func(string) string

// scalar adapts a scalar accessor to the fieldValues shape.
func scalar(get func(*model.RawRecord) string) fieldValues {
	return func(r *model.RawRecord) []string {
		return []string{get(r)}
	}
}

// groupView holds one group's records with derived metadata and winner
// order, shared across all field selections for the group.
type groupView struct {
	slug    string
	records []model.RawRecord
	metas   []model.RowMetadata
	order   []int
}

func newGroupView(slug string, records []model.RawRecord) *groupView {
	metas := make([]model.RowMetadata, len(records))
	for i := range records {
		metas[i] = ExtractMetadata(i, &records[i])
	}
	return &groupView{
		slug:    slug,
		records: records,
		metas:   metas,
		order:   rankRecords(metas),
	}
}

// selectValues walks records winner-first, normalizes each candidate, and
// de-duplicates by exact normalized equality, keeping the highest-ranked
// occurrence of each distinct value. The result is ordered winner-first.
func (g *groupView) selectValues(get fieldValues, canon canonFunc) []model.ValueSelection {
	if canon == nil {
		canon = normalize.Clean
	}

	var selections []model.ValueSelection
	seen := make(map[string]bool)

	for _, idx := range g.order {
		for _, raw := range get(&g.records[idx]) {
			v := canon(raw)
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			selections = append(selections, model.ValueSelection{
				Value: v,
				Meta:  &g.metas[idx],
			})
		}
	}
	return selections
}

// preferRecord moves the selection contributed by the given record index
// to the front, preserving the relative order of the rest. Used for
// primary contact name/role, which should come from the same raw record
// as the primary email or phone when that record offers one.
func preferRecord(selections []model.ValueSelection, recordIndex int) []model.ValueSelection {
	for i, sel := range selections {
		if sel.Meta.Index != recordIndex {
			continue
		}
		if i == 0 {
			return selections
		}
		rotated := make([]model.ValueSelection, 0, len(selections))
		rotated = append(rotated, selections[i])
		rotated = append(rotated, selections[:i]...)
		rotated = append(rotated, selections[i+1:]...)
		return rotated
	}
	return selections
}

// resolveField turns an ordered selection list into the chosen value, its
// provenance entry, and (when at least two distinct values competed) a
// conflict record. Empty selections yield all-nil: an entirely empty field
// is expected, not an error.
func resolveField(slug, field string, selections []model.ValueSelection) (string, *model.ProvenanceEntry, *model.ConflictRecord) {
	if len(selections) == 0 {
		return "", nil, nil
	}

	winner := selections[0]
	entry := &model.ProvenanceEntry{
		Field:          field,
		Value:          winner.Value,
		SourceDataset:  winner.Meta.SourceDataset,
		SourceRecordID: winner.Meta.SourceRecordID,
		SourcePriority: winner.Meta.SourcePriority,
		QualityScore:   winner.Meta.QualityScore,
	}
	if winner.Meta.LastInteraction != nil {
		entry.LastInteraction = winner.Meta.LastInteraction.Format(isoDate)
	}

	if len(selections) == 1 {
		return winner.Value, entry, nil
	}

	conflict := &model.ConflictRecord{
		Slug:         slug,
		Field:        field,
		ChosenSource: winner.Meta.SourceDataset,
		ChosenValue:  winner.Value,
	}
	for _, alt := range selections[1:] {
		entry.Contributors = append(entry.Contributors, model.Contributor{
			SourceDataset:  alt.Meta.SourceDataset,
			SourceRecordID: alt.Meta.SourceRecordID,
			Value:          alt.Value,
		})
		conflict.Alternatives = append(conflict.Alternatives, model.Alternative{
			Source: alt.Meta.SourceDataset,
			Value:  alt.Value,
		})
	}

	return winner.Value, entry, conflict
}

// secondaryValues joins all non-primary selections with ";". Empty when
// the field had fewer than two distinct values.
func secondaryValues(selections []model.ValueSelection) string {
	if len(selections) < 2 {
		return ""
	}
	out := make([]string, 0, len(selections)-1)
	for _, sel := range selections[1:] {
		out = append(out, sel.Value)
	}
	return normalize.JoinNonEmpty(out, ";")
}
