// Package aggregate implements the multi-source canonicalization engine:
// given a group of raw records describing one organization, it resolves
// field-level conflicts deterministically and emits the canonical row plus
// a provenance and conflict trail.
package aggregate

import (
	"regexp"
	"time"

	"github.com/sells-group/ssot-cli/internal/model"
	"github.com/sells-group/ssot-cli/internal/normalize"
)

// sourcePriorities is a policy constant, not configuration. The table must
// stay exactly in sync with the legacy consolidation behavior; unknown
// datasets map to 0.
var sourcePriorities = map[string]int{
	"SACAA Cleaned":     3,
	"Reachout Database": 2,
	"Contact Database":  1,
}

// MaxSourcePriority is the highest configured source priority, used to
// normalize priorities into [0,1] for lead scoring.
const MaxSourcePriority = 3

// SourcePriority returns the fixed priority for a dataset name.
func SourcePriority(dataset string) int {
	return sourcePriorities[dataset]
}

// DatasetName cleans a record's source dataset field, falling back to the
// literal "Unknown" for empty values.
func DatasetName(rec *model.RawRecord) string {
	if ds := normalize.Clean(rec.SourceDataset); ds != "" {
		return ds
	}
	return "Unknown"
}

// ExtractMetadata derives the ordering metadata for one record. Pure
// function of the record and its position in the group.
func ExtractMetadata(index int, rec *model.RawRecord) model.RowMetadata {
	dataset := DatasetName(rec)

	quality := 0
	if hasListValue(rec.ContactEmails) {
		quality++
	}
	if hasListValue(rec.ContactPhones) {
		quality++
	}
	if !normalize.IsEmpty(rec.Website) {
		quality++
	}
	if !normalize.IsEmpty(rec.Province) {
		quality++
	}
	if !normalize.IsEmpty(rec.Address) {
		quality++
	}

	return model.RowMetadata{
		Index:           index,
		SourceDataset:   dataset,
		SourceRecordID:  normalize.Clean(rec.SourceRecordID),
		SourcePriority:  sourcePriorities[dataset],
		QualityScore:    quality,
		LastInteraction: ParseInteractionDate(rec.LastInteractionDate),
	}
}

func hasListValue(values []string) bool {
	for _, v := range values {
		if !normalize.IsEmpty(v) {
			return true
		}
	}
	return false
}

var leadingYear = regexp.MustCompile(`^\d{4}[-/]`)

// Layout sets for the two-pass interaction date parse. The unpadded day
// and month verbs accept zero-padded digits too, so one layout per
// separator covers both "5/3/2024" and "05/03/2024".
var (
	dayFirstLayouts = []string{
		"2/1/2006",
		"2-1-2006",
		"2.1.2006",
		"2/1/2006 15:04:05",
		"2/1/2006 15:04",
		"2 Jan 2006",
		"2 January 2006",
	}
	monthFirstLayouts = []string{
		"1/2/2006",
		"1-2-2006",
		"1.2.2006",
		"1/2/2006 15:04:05",
		"Jan 2, 2006",
		"January 2, 2006",
	}
	yearFirstLayouts = []string{
		"2006-01-02",
		"2006/01/02",
		"2006-01-02 15:04:05",
		time.RFC3339,
	}
)

// ParseInteractionDate parses a last-interaction value. Ambiguous numeric
// dates are interpreted day-first unless the string begins with a 4-digit
// year, in which case year-first layouts are tried first. If the first
// interpretation fails the opposite one is retried. Unparseable or empty
// input yields nil, never an error.
func ParseInteractionDate(s string) *time.Time {
	s = normalize.Clean(s)
	if s == "" {
		return nil
	}

	if leadingYear.MatchString(s) {
		for _, layouts := range [][]string{yearFirstLayouts, dayFirstLayouts, monthFirstLayouts} {
			if t := tryLayouts(s, layouts); t != nil {
				return t
			}
		}
		return nil
	}

	for _, layouts := range [][]string{dayFirstLayouts, monthFirstLayouts, yearFirstLayouts} {
		if t := tryLayouts(s, layouts); t != nil {
			return t
		}
	}
	return nil
}

func tryLayouts(s string, layouts []string) *time.Time {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// LatestInteraction returns the latest parseable interaction date across
// the group's metadata, or nil when none parsed.
func LatestInteraction(metas []model.RowMetadata) *time.Time {
	var latest *time.Time
	for i := range metas {
		t := metas[i].LastInteraction
		if t == nil {
			continue
		}
		if latest == nil || t.After(*latest) {
			latest = t
		}
	}
	return latest
}
