package fetcher

import (
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/ssot-cli/internal/model"
	"github.com/sells-group/ssot-cli/internal/normalize"
)

// columnAliases maps normalized header names to canonical column keys, so
// exports from different tools land on the same RawRecord fields.
var columnAliases = map[string]string{
	"organization_name":     "organization_name",
	"organisation_name":     "organization_name",
	"name":                  "organization_name",
	"source_dataset":        "source_dataset",
	"source":                "source_dataset",
	"dataset":               "source_dataset",
	"source_record_id":      "source_record_id",
	"record_id":             "source_record_id",
	"id":                    "source_record_id",
	"province":              "province",
	"area":                  "area",
	"address":               "address",
	"category":              "category",
	"organization_type":     "organization_type",
	"organisation_type":     "organization_type",
	"type":                  "organization_type",
	"status":                "status",
	"website":               "website",
	"planes":                "planes",
	"description":           "description",
	"notes":                 "notes",
	"last_interaction_date": "last_interaction_date",
	"last_interaction":      "last_interaction_date",
	"priority":              "priority",
	"contact_names":         "contact_names",
	"contact_name":          "contact_names",
	"contact_roles":         "contact_roles",
	"contact_role":          "contact_roles",
	"contact_emails":        "contact_emails",
	"contact_email":         "contact_emails",
	"email":                 "contact_emails",
	"emails":                "contact_emails",
	"contact_phones":        "contact_phones",
	"contact_phone":         "contact_phones",
	"phone":                 "contact_phones",
	"phones":                "contact_phones",
	"slug":                  "slug",
}

// listSeparator splits multi-valued cells exported as delimited strings.
const listSeparator = ";"

func normKey(header string) string {
	k := strings.ToLower(strings.TrimSpace(header))
	k = strings.ReplaceAll(k, " ", "_")
	k = strings.ReplaceAll(k, "-", "_")
	return k
}

// MapRows converts tabular rows into raw records using header-driven
// column mapping. defaultDataset fills source_dataset when the sheet has
// no such column. The per-row slug (empty when the sheet has no slug
// column) is returned alongside each record.
func MapRows(header []string, rows [][]string, defaultDataset string) ([]model.RawRecord, []string, error) {
	if len(header) == 0 {
		return nil, nil, eris.New("fetcher: empty header row")
	}

	cols := make(map[int]string, len(header))
	unmapped := 0
	for i, h := range header {
		key, ok := columnAliases[normKey(h)]
		if !ok {
			unmapped++
			continue
		}
		cols[i] = key
	}
	if len(cols) == 0 {
		return nil, nil, eris.New("fetcher: no recognized columns in header")
	}
	if unmapped > 0 {
		zap.L().Debug("fetcher: ignoring unmapped columns", zap.Int("count", unmapped))
	}

	records := make([]model.RawRecord, 0, len(rows))
	slugs := make([]string, 0, len(rows))

	for _, row := range rows {
		var rec model.RawRecord
		var slug string
		rec.SourceDataset = defaultDataset

		for i, key := range cols {
			if i >= len(row) {
				continue
			}
			setColumn(&rec, &slug, key, row[i])
		}
		records = append(records, rec)
		slugs = append(slugs, slug)
	}

	return records, slugs, nil
}

func setColumn(rec *model.RawRecord, slug *string, key, value string) {
	switch key {
	case "organization_name":
		rec.OrganizationName = value
	case "source_dataset":
		if normalize.Clean(value) != "" {
			rec.SourceDataset = value
		}
	case "source_record_id":
		rec.SourceRecordID = value
	case "province":
		rec.Province = value
	case "area":
		rec.Area = value
	case "address":
		rec.Address = value
	case "category":
		rec.Category = value
	case "organization_type":
		rec.OrganizationType = value
	case "status":
		rec.Status = value
	case "website":
		rec.Website = value
	case "planes":
		rec.Planes = value
	case "description":
		rec.Description = value
	case "notes":
		rec.Notes = value
	case "last_interaction_date":
		rec.LastInteractionDate = value
	case "priority":
		rec.Priority = value
	case "contact_names":
		rec.ContactNames = splitList(value)
	case "contact_roles":
		rec.ContactRoles = splitList(value)
	case "contact_emails":
		rec.ContactEmails = splitList(value)
	case "contact_phones":
		rec.ContactPhones = splitList(value)
	case "slug":
		*slug = value
	}
}

func splitList(value string) []string {
	if normalize.IsEmpty(value) {
		return nil
	}
	parts := strings.Split(value, listSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if c := normalize.Clean(p); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// GroupRecords buckets records by slug, falling back to the slugified
// organization name. Groups keep first-appearance order and records keep
// input order within each group; both orders feed the deterministic
// winner ranking downstream.
func GroupRecords(records []model.RawRecord, slugs []string) []model.Group {
	index := make(map[string]int)
	var groups []model.Group

	for i := range records {
		slug := ""
		if i < len(slugs) {
			slug = normalize.Clean(slugs[i])
		}
		if slug == "" {
			slug = normalize.Slugify(records[i].OrganizationName)
		}

		pos, ok := index[slug]
		if !ok {
			pos = len(groups)
			index[slug] = pos
			groups = append(groups, model.Group{Slug: slug})
		}
		groups[pos].Records = append(groups[pos].Records, records[i])
	}

	return groups
}
