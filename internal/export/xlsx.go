// Package export writes aggregation results for downstream consumers.
package export

import (
	"sort"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/ssot-cli/internal/model"
)

// WriteCanonicalXLSX writes the canonical table to an XLSX workbook with
// the fixed column header. Rows are sorted by organization name, the
// order downstream reporting expects.
func WriteCanonicalXLSX(path, sheetName string, records []model.CanonicalRecord) error {
	if sheetName == "" {
		sheetName = "Canonical"
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrapf(err, "export: add sheet %q", sheetName)
	}

	headerRow := sheet.AddRow()
	for _, col := range model.Columns() {
		headerRow.AddCell().Value = col
	}

	sorted := make([]model.CanonicalRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].OrganizationName < sorted[b].OrganizationName
	})

	for i := range sorted {
		row := sheet.AddRow()
		for _, v := range sorted[i].Row() {
			row.AddCell().Value = v
		}
	}

	return eris.Wrapf(f.Save(path), "export: save %s", path)
}
