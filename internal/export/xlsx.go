package export

import (
	"io"

	"geraetewart/internal/entities"
	"geraetewart/internal/planning"

	"github.com/xuri/excelize/v2"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type sheetWriter struct {
	f      *excelize.File
	sheet  string
	row    int
	bold   int
	header int
}

func newSheet(name string) (*sheetWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"B91C1C"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	return &sheetWriter{f: f, sheet: name, row: 1, bold: bold, header: header}, nil
}

func (w *sheetWriter) writeRow(values []string, style int) error {
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &row); err != nil {
		return err
	}
	if style != 0 && len(values) > 0 {
		last, err := excelize.CoordinatesToCellName(len(values), w.row)
		if err != nil {
			return err
		}
		if err := w.f.SetCellStyle(w.sheet, cell, last, style); err != nil {
			return err
		}
	}
	w.row++
	return nil
}

func (w *sheetWriter) widths(cols map[string]float64) error {
	for col, width := range cols {
		if err := w.f.SetColWidth(w.sheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

func (w *sheetWriter) finish(out io.Writer) error {
	defer w.f.Close()
	return w.f.Write(out)
}

// WriteEquipmentXLSX - список оборудования, сгруппированный по категории и месту.
func WriteEquipmentXLSX(out io.Writer, items []entities.Equipment) error {
	w, err := newSheet("Geräteliste")
	if err != nil {
		return err
	}
	if err := w.writeRow(EquipmentHeaders, w.header); err != nil {
		return err
	}
	for _, g := range GroupEquipment(items) {
		if err := w.writeRow([]string{g.Category + " / " + g.Location}, w.bold); err != nil {
			return err
		}
		for _, eq := range g.Items {
			if err := w.writeRow(EquipmentRow(eq), 0); err != nil {
				return err
			}
		}
	}
	if err := w.widths(map[string]float64{"A": 16, "B": 35, "C": 16, "D": 22, "E": 22, "F": 16, "G": 24, "K": 15, "L": 15}); err != nil {
		return err
	}
	return w.finish(out)
}

func WriteRecordsXLSX(out io.Writer, records []entities.MaintenanceRecord) error {
	w, err := newSheet("Wartungen")
	if err != nil {
		return err
	}
	if err := w.writeRow(RecordHeaders, w.header); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.writeRow(RecordRow(r), 0); err != nil {
			return err
		}
	}
	if err := w.widths(map[string]float64{"A": 12, "B": 30, "C": 16, "D": 28, "E": 16, "F": 15, "G": 24, "I": 50}); err != nil {
		return err
	}
	return w.finish(out)
}

func WriteProjectionsXLSX(out io.Writer, projections []planning.Projection) error {
	w, err := newSheet("Fälligkeiten")
	if err != nil {
		return err
	}
	if err := w.writeRow(ProjectionHeaders, w.header); err != nil {
		return err
	}
	for _, p := range projections {
		if err := w.writeRow(ProjectionRow(p), 0); err != nil {
			return err
		}
	}
	if err := w.widths(map[string]float64{"A": 12, "C": 14, "D": 30, "E": 16, "F": 28, "G": 22}); err != nil {
		return err
	}
	return w.finish(out)
}
