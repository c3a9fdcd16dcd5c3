package model

import (
	"encoding/json"
	"sort"

	"github.com/rotisserie/eris"
)

// Contributor records a source record that offered a different value for a
// field than the one chosen.
type Contributor struct {
	SourceDataset  string `json:"source_dataset"`
	SourceRecordID string `json:"source_record_id,omitempty"`
	Value          string `json:"value"`
}

// ProvenanceEntry records why a canonical field holds its value. One entry
// exists per field iff at least one record in the group supplied a
// non-empty value for it.
type ProvenanceEntry struct {
	Field           string        `json:"field"`
	Value           string        `json:"value"`
	SourceDataset   string        `json:"source_dataset"`
	SourceRecordID  string        `json:"source_record_id,omitempty"`
	SourcePriority  int           `json:"source_priority"`
	QualityScore    int           `json:"quality_score"`
	LastInteraction string        `json:"last_interaction,omitempty"`
	Contributors    []Contributor `json:"contributors,omitempty"`
}

// Alternative is one losing value in a field conflict.
type Alternative struct {
	Source string `json:"source" yaml:"source"`
	Value  string `json:"value" yaml:"value"`
}

// ConflictRecord is emitted whenever two or more distinct values competed
// for one canonical field. It mirrors the provenance contributors in a
// flat, report-friendly shape.
type ConflictRecord struct {
	Slug         string        `json:"slug" yaml:"slug"`
	Field        string        `json:"field" yaml:"field"`
	ChosenSource string        `json:"chosen_source" yaml:"chosen_source"`
	ChosenValue  string        `json:"chosen_value" yaml:"chosen_value"`
	Alternatives []Alternative `json:"alternatives" yaml:"alternatives"`
}

// Ledger is the typed provenance map for one canonical record, keyed by
// field name. It stays typed internally and is serialized only when the
// canonical row is finalized.
type Ledger map[string]ProvenanceEntry

// MarshalJSON serializes the ledger with keys in sorted order so that two
// runs over identical input produce byte-identical output.
func (l Ledger) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf := []byte{'{'}
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(l[k])
		if err != nil {
			return nil, err
		}
		buf = append(buf, kb...)
		buf = append(buf, ':')
		buf = append(buf, vb...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// Serialize returns the deterministic JSON text of the ledger.
func (l Ledger) Serialize() (string, error) {
	b, err := json.Marshal(l)
	if err != nil {
		return "", eris.Wrap(err, "provenance: serialize ledger")
	}
	return string(b), nil
}
