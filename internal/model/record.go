package model

import "time"

// RawRecord is one source dataset's view of an organization. Records are
// immutable inputs: the aggregation engine never writes to them.
type RawRecord struct {
	OrganizationName    string `json:"organization_name"`
	SourceDataset       string `json:"source_dataset"`
	SourceRecordID      string `json:"source_record_id,omitempty"`
	Province            string `json:"province,omitempty"`
	Area                string `json:"area,omitempty"`
	Address             string `json:"address,omitempty"`
	Category            string `json:"category,omitempty"`
	OrganizationType    string `json:"organization_type,omitempty"`
	Status              string `json:"status,omitempty"`
	Website             string `json:"website,omitempty"`
	Planes              string `json:"planes,omitempty"`
	Description         string `json:"description,omitempty"`
	Notes               string `json:"notes,omitempty"`
	LastInteractionDate string `json:"last_interaction_date,omitempty"`
	Priority            string `json:"priority,omitempty"`

	ContactNames  []string `json:"contact_names,omitempty"`
	ContactRoles  []string `json:"contact_roles,omitempty"`
	ContactEmails []string `json:"contact_emails,omitempty"`
	ContactPhones []string `json:"contact_phones,omitempty"`
}

// Group is a set of raw records that upstream deduplication has identified
// as describing the same organization.
type Group struct {
	Slug    string      `json:"slug"`
	Records []RawRecord `json:"records"`
}

// RowMetadata is derived once per RawRecord within a group and drives the
// winner ordering. Index is the record's position in the input group.
type RowMetadata struct {
	Index           int        `json:"index"`
	SourceDataset   string     `json:"source_dataset"`
	SourceRecordID  string     `json:"source_record_id,omitempty"`
	SourcePriority  int        `json:"source_priority"`
	QualityScore    int        `json:"quality_score"`
	LastInteraction *time.Time `json:"last_interaction,omitempty"`
}

// ValueSelection pairs a normalized candidate value with the metadata of
// the record that contributed it. Transient, scoped to one field resolution.
type ValueSelection struct {
	Value string
	Meta  *RowMetadata
}
