package export

import (
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/ssot-cli/internal/model"
)

// ConflictReport is the YAML document surfaced to reporting and
// recommendation generation.
type ConflictReport struct {
	BatchID   string                 `yaml:"batch_id,omitempty"`
	Total     int                    `yaml:"total"`
	ByField   map[string]int         `yaml:"by_field"`
	Conflicts []model.ConflictRecord `yaml:"conflicts"`
}

// WriteConflictYAML renders the conflict ledger as YAML.
func WriteConflictYAML(w io.Writer, batchID string, conflicts []model.ConflictRecord) error {
	report := ConflictReport{
		BatchID:   batchID,
		Total:     len(conflicts),
		ByField:   make(map[string]int),
		Conflicts: conflicts,
	}
	for i := range conflicts {
		report.ByField[conflicts[i].Field]++
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return eris.Wrap(err, "export: encode conflict report")
	}
	return eris.Wrap(enc.Close(), "export: close conflict report encoder")
}
