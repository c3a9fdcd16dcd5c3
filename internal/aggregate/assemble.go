package aggregate

import (
	"context"
	"strings"

	"github.com/sells-group/ssot-cli/internal/model"
	"github.com/sells-group/ssot-cli/internal/normalize"
)

// scalarFields maps canonical scalar field names to their RawRecord
// accessors, in canonical column order.
var scalarFields = []struct {
	name string
	get  func(*model.RawRecord) string
}{
	{"organization_name", func(r *model.RawRecord) string { return r.OrganizationName }},
	{"province", func(r *model.RawRecord) string { return r.Province }},
	{"area", func(r *model.RawRecord) string { return r.Area }},
	{"address", func(r *model.RawRecord) string { return r.Address }},
	{"category", func(r *model.RawRecord) string { return r.Category }},
	{"organization_type", func(r *model.RawRecord) string { return r.OrganizationType }},
	{"status", func(r *model.RawRecord) string { return r.Status }},
	{"website", func(r *model.RawRecord) string { return r.Website }},
	{"planes", func(r *model.RawRecord) string { return r.Planes }},
	{"description", func(r *model.RawRecord) string { return r.Description }},
	{"notes", func(r *model.RawRecord) string { return r.Notes }},
	{"priority", func(r *model.RawRecord) string { return r.Priority }},
}

// processGroup runs the full per-group algorithm: metadata, ordering,
// per-field selection, derived scores, and canonical row assembly.
func (a *Aggregator) processGroup(ctx context.Context, g model.Group) (*model.CanonicalRecord, []model.ConflictRecord, error) {
	if len(g.Records) == 0 {
		return nil, nil, ErrEmptyGroup
	}

	view := newGroupView(g.Slug, g.Records)
	ledger := model.Ledger{}
	var conflicts []model.ConflictRecord

	record := func(entry *model.ProvenanceEntry, conflict *model.ConflictRecord) {
		if entry != nil {
			ledger[entry.Field] = *entry
		}
		if conflict != nil {
			conflicts = append(conflicts, *conflict)
		}
	}

	// Resolve the organization name first so a missing upstream slug can be
	// derived before any conflict records are tagged with it.
	nameSelections := view.selectValues(scalar(scalarFields[0].get), nil)
	slug := normalize.Clean(g.Slug)
	if slug == "" && len(nameSelections) > 0 {
		slug = normalize.Slugify(nameSelections[0].Value)
	}
	view.slug = slug

	scalars := make(map[string]string, len(scalarFields))
	orgName, orgEntry, orgConflict := resolveField(slug, "organization_name", nameSelections)
	scalars["organization_name"] = orgName
	record(orgEntry, orgConflict)

	for _, f := range scalarFields[1:] {
		selections := view.selectValues(scalar(f.get), nil)
		value, entry, conflict := resolveField(slug, f.name, selections)
		scalars[f.name] = value
		record(entry, conflict)
	}

	// Contact channels: list-valued, primary plus ";"-joined secondaries.
	emailSel := view.selectValues(func(r *model.RawRecord) []string { return r.ContactEmails }, normalize.Email)
	phoneSel := view.selectValues(func(r *model.RawRecord) []string { return r.ContactPhones }, nil)

	primaryEmail, emailEntry, emailConflict := resolveField(slug, "contact_primary_email", emailSel)
	record(emailEntry, emailConflict)
	primaryPhone, phoneEntry, phoneConflict := resolveField(slug, "contact_primary_phone", phoneSel)
	record(phoneEntry, phoneConflict)

	secondaryEmails := secondaryValues(emailSel)
	if secondaryEmails != "" {
		record(compositeEntry("contact_secondary_emails", secondaryEmails, emailSel[1]), nil)
	}
	secondaryPhones := secondaryValues(phoneSel)
	if secondaryPhones != "" {
		record(compositeEntry("contact_secondary_phones", secondaryPhones, phoneSel[1]), nil)
	}

	// Primary name/role prefer the record that supplied the primary email,
	// falling back to the primary phone's record, then the independent
	// winner order.
	primaryRecord := -1
	if len(emailSel) > 0 {
		primaryRecord = emailSel[0].Meta.Index
	} else if len(phoneSel) > 0 {
		primaryRecord = phoneSel[0].Meta.Index
	}

	nameSel := view.selectValues(func(r *model.RawRecord) []string { return r.ContactNames }, nil)
	roleSel := view.selectValues(func(r *model.RawRecord) []string { return r.ContactRoles }, nil)
	if primaryRecord >= 0 {
		nameSel = preferRecord(nameSel, primaryRecord)
		roleSel = preferRecord(roleSel, primaryRecord)
	}

	primaryName, nameEntry, nameConflict := resolveField(slug, "contact_primary_name", nameSel)
	record(nameEntry, nameConflict)
	primaryRole, roleEntry, roleConflict := resolveField(slug, "contact_primary_role", roleSel)
	record(roleEntry, roleConflict)

	topPriority := 0
	if len(view.order) > 0 {
		topPriority = view.metas[view.order[0]].SourcePriority
	}

	scores, err := a.composeScores(ctx, slug, scalars["organization_name"], primaryName, primaryRole, primaryEmail, primaryPhone, topPriority)
	if err != nil {
		return nil, nil, err
	}

	quality, qualityFlags := dataQuality(primaryEmail, primaryPhone, scalars["website"], scalars["province"], scalars["address"])

	provenance, err := ledger.Serialize()
	if err != nil {
		return nil, nil, err
	}

	row := &model.CanonicalRecord{
		OrganizationName: scalars["organization_name"],
		Slug:             slug,
		SourceDatasets:   distinctDatasets(view.metas),
		SourceRecordIDs:  distinctRecordIDs(view.metas),

		Province: scalars["province"],
		Area:     scalars["area"],
		Address:  scalars["address"],

		Category:         scalars["category"],
		OrganizationType: scalars["organization_type"],
		Status:           scalars["status"],
		Planes:           scalars["planes"],
		Description:      scalars["description"],
		Notes:            scalars["notes"],

		ContactPrimaryName:     primaryName,
		ContactPrimaryRole:     primaryRole,
		ContactPrimaryEmail:    primaryEmail,
		ContactEmailStatus:     scores.emailStatus,
		ContactEmailConfidence: scores.emailConfidence,
		ContactSecondaryEmails: secondaryEmails,
		ContactPrimaryPhone:    primaryPhone,
		ContactPhoneStatus:     scores.phoneStatus,
		ContactPhoneConfidence: scores.phoneConfidence,
		ContactSecondaryPhones: secondaryPhones,
		ValidationFlags:        scores.validationFlags,

		DeliverabilityScore: scores.deliverability,
		ContactCompleteness: scores.completeness,
		LeadScore:           scores.leadScore,
		IntentScore:         scores.intentScore,
		DataQualityScore:    quality,
		DataQualityFlags:    qualityFlags,

		Provenance: provenance,
		Priority:   scalars["priority"],
	}

	if scores.intent != nil {
		row.IntentSignalCount = scores.intent.SignalCount
		row.IntentSignalTypes = strings.Join(scores.intent.SignalTypes, ";")
		if scores.intent.LastObservedAt != nil {
			row.IntentLastObserved = scores.intent.LastObservedAt.UTC().Format(isoDate)
		}
	}

	if latest := LatestInteraction(view.metas); latest != nil {
		row.LastInteractionDate = latest.Format(isoDate)
	}

	return row, conflicts, nil
}

// compositeEntry builds the provenance entry for a derived ";"-joined
// field. The entry carries the highest-ranked secondary's metadata and no
// contributors, since the joined value has no competing alternative.
func compositeEntry(field, value string, first model.ValueSelection) *model.ProvenanceEntry {
	entry := &model.ProvenanceEntry{
		Field:          field,
		Value:          value,
		SourceDataset:  first.Meta.SourceDataset,
		SourceRecordID: first.Meta.SourceRecordID,
		SourcePriority: first.Meta.SourcePriority,
		QualityScore:   first.Meta.QualityScore,
	}
	if first.Meta.LastInteraction != nil {
		entry.LastInteraction = first.Meta.LastInteraction.Format(isoDate)
	}
	return entry
}

// dataQuality scores presence of the five key contact fields and renders
// the missing-field flags, "none" when complete.
func dataQuality(email, phone, website, province, address string) (float64, string) {
	checks := []struct {
		flag    string
		present bool
	}{
		{"missing_contact_email", email != ""},
		{"missing_contact_phone", phone != ""},
		{"missing_website", website != ""},
		{"missing_province", province != ""},
		{"missing_address", address != ""},
	}

	present := 0
	var missing []string
	for _, c := range checks {
		if c.present {
			present++
		} else {
			missing = append(missing, c.flag)
		}
	}

	if len(missing) == 0 {
		return 1, "none"
	}
	return float64(present) / float64(len(checks)), strings.Join(missing, ";")
}

func distinctDatasets(metas []model.RowMetadata) string {
	seen := make(map[string]bool, len(metas))
	var out []string
	for i := range metas {
		ds := metas[i].SourceDataset
		if ds == "" || seen[ds] {
			continue
		}
		seen[ds] = true
		out = append(out, ds)
	}
	return strings.Join(out, ";")
}

func distinctRecordIDs(metas []model.RowMetadata) string {
	seen := make(map[string]bool, len(metas))
	var out []string
	for i := range metas {
		id := metas[i].SourceRecordID
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return strings.Join(out, ";")
}
