package model

import "time"

// BatchResult collects everything one aggregation run produces: canonical
// rows in input group order, the flattened conflict ledger, and per-source
// row counts. Created fresh per run and handed off to validation/export.
type BatchResult struct {
	BatchID      string            `json:"batch_id"`
	Canonical    []CanonicalRecord `json:"canonical"`
	Conflicts    []ConflictRecord  `json:"conflicts"`
	SourceCounts map[string]int    `json:"source_counts"`
	GeneratedAt  time.Time         `json:"generated_at"`
}
