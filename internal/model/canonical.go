package model

import "strconv"

// SchemaVersion identifies the canonical column layout. Bump whenever
// Columns changes so downstream validation can detect drift.
const SchemaVersion = "2025-08"

// CanonicalRecord is the single-source-of-truth row for one organization
// group. It is built once per group and never mutated afterwards.
type CanonicalRecord struct {
	OrganizationName string `json:"organization_name"`
	Slug             string `json:"slug"`
	SourceDatasets   string `json:"source_datasets"`
	SourceRecordIDs  string `json:"source_record_ids"`

	Province string `json:"province,omitempty"`
	Area     string `json:"area,omitempty"`
	Address  string `json:"address,omitempty"`

	Category         string `json:"category,omitempty"`
	OrganizationType string `json:"organization_type,omitempty"`
	Status           string `json:"status,omitempty"`
	Planes           string `json:"planes,omitempty"`
	Description      string `json:"description,omitempty"`
	Notes            string `json:"notes,omitempty"`

	ContactPrimaryName     string  `json:"contact_primary_name,omitempty"`
	ContactPrimaryRole     string  `json:"contact_primary_role,omitempty"`
	ContactPrimaryEmail    string  `json:"contact_primary_email,omitempty"`
	ContactEmailStatus     string  `json:"contact_email_status,omitempty"`
	ContactEmailConfidence float64 `json:"contact_email_confidence"`
	ContactSecondaryEmails string  `json:"contact_secondary_emails,omitempty"`
	ContactPrimaryPhone    string  `json:"contact_primary_phone,omitempty"`
	ContactPhoneStatus     string  `json:"contact_phone_status,omitempty"`
	ContactPhoneConfidence float64 `json:"contact_phone_confidence"`
	ContactSecondaryPhones string  `json:"contact_secondary_phones,omitempty"`
	ValidationFlags        string  `json:"validation_flags,omitempty"`

	DeliverabilityScore float64 `json:"deliverability_score"`
	ContactCompleteness float64 `json:"contact_completeness"`
	LeadScore           float64 `json:"lead_score"`
	IntentScore         float64 `json:"intent_score"`
	IntentSignalCount   int     `json:"intent_signal_count"`
	IntentSignalTypes   string  `json:"intent_signal_types,omitempty"`
	IntentLastObserved  string  `json:"intent_last_observed,omitempty"`
	LastInteractionDate string  `json:"last_interaction_date,omitempty"`
	DataQualityScore    float64 `json:"data_quality_score"`
	DataQualityFlags    string  `json:"data_quality_flags"`

	Provenance string `json:"provenance"`
	Priority   string `json:"priority,omitempty"`
}

// canonicalColumns is the fixed, versioned output column order: identity,
// location, classification, contacts, scores, provenance, priority.
// Downstream validation and export depend on this exact set and order.
var canonicalColumns = []string{
	"organization_name",
	"slug",
	"source_datasets",
	"source_record_ids",
	"province",
	"area",
	"address",
	"category",
	"organization_type",
	"status",
	"planes",
	"description",
	"notes",
	"contact_primary_name",
	"contact_primary_role",
	"contact_primary_email",
	"contact_email_status",
	"contact_email_confidence",
	"contact_secondary_emails",
	"contact_primary_phone",
	"contact_phone_status",
	"contact_phone_confidence",
	"contact_secondary_phones",
	"validation_flags",
	"deliverability_score",
	"contact_completeness",
	"lead_score",
	"intent_score",
	"intent_signal_count",
	"intent_signal_types",
	"intent_last_observed",
	"last_interaction_date",
	"data_quality_score",
	"data_quality_flags",
	"provenance",
	"priority",
}

// Columns returns the canonical output column list in its fixed order.
func Columns() []string {
	out := make([]string, len(canonicalColumns))
	copy(out, canonicalColumns)
	return out
}

// Row returns the record's values in Columns() order, with numeric fields
// formatted deterministically.
func (c *CanonicalRecord) Row() []string {
	return []string{
		c.OrganizationName,
		c.Slug,
		c.SourceDatasets,
		c.SourceRecordIDs,
		c.Province,
		c.Area,
		c.Address,
		c.Category,
		c.OrganizationType,
		c.Status,
		c.Planes,
		c.Description,
		c.Notes,
		c.ContactPrimaryName,
		c.ContactPrimaryRole,
		c.ContactPrimaryEmail,
		c.ContactEmailStatus,
		formatScore(c.ContactEmailConfidence),
		c.ContactSecondaryEmails,
		c.ContactPrimaryPhone,
		c.ContactPhoneStatus,
		formatScore(c.ContactPhoneConfidence),
		c.ContactSecondaryPhones,
		c.ValidationFlags,
		formatScore(c.DeliverabilityScore),
		formatScore(c.ContactCompleteness),
		formatScore(c.LeadScore),
		formatScore(c.IntentScore),
		strconv.Itoa(c.IntentSignalCount),
		c.IntentSignalTypes,
		c.IntentLastObserved,
		c.LastInteractionDate,
		formatScore(c.DataQualityScore),
		c.DataQualityFlags,
		c.Provenance,
		c.Priority,
	}
}

// formatScore renders a score with fixed precision so output is stable
// across runs and platforms.
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
