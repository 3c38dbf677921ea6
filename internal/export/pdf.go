package export

import (
	"fmt"
	"io"
	"time"

	"geraetewart/internal/entities"

	"github.com/go-pdf/fpdf"
)

const (
	PDFContentType = "application/pdf"
	// Ниже этой отметки (мм) начинается новая страница.
	pageBreakY = 220.0
	rowHeight  = 6.0
)

type pdfColumn struct {
	title string
	width float64
}

var equipmentPDFColumns = []pdfColumn{
	{"Inventarnr.", 28}, {"Bezeichnung", 62}, {"Barcode", 28}, {"Status", 28}, {"Nächste Prüfung", 30},
}

var recordPDFColumns = []pdfColumn{
	{"Fällig am", 22}, {"Gerät", 48}, {"Vorlage", 44}, {"Status", 26}, {"Durchgeführt", 24}, {"Von", 26},
}

type pdfReport struct {
	pdf     *fpdf.Fpdf
	tr      func(string) string
	columns []pdfColumn
	title   string
}

func newPDFReport(title string, columns []pdfColumn, now time.Time) *pdfReport {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(false, 10)
	r := &pdfReport{
		pdf:     pdf,
		tr:      pdf.UnicodeTranslatorFromDescriptor(""),
		columns: columns,
		title:   title,
	}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, r.tr(fmt.Sprintf("Stand %s – Seite %d", now.Format("02.01.2006"), pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	r.newPage()
	return r
}

func (r *pdfReport) newPage() {
	r.pdf.AddPage()
	r.pdf.SetFont("Helvetica", "B", 14)
	r.pdf.CellFormat(0, 10, r.tr(r.title), "", 1, "L", false, 0, "")
	r.pdf.Ln(2)
	r.header()
}

func (r *pdfReport) header() {
	r.pdf.SetFont("Helvetica", "B", 9)
	r.pdf.SetFillColor(230, 230, 230)
	for _, c := range r.columns {
		r.pdf.CellFormat(c.width, rowHeight+1, r.tr(c.title), "1", 0, "L", true, 0, "")
	}
	r.pdf.Ln(-1)
	r.pdf.SetFont("Helvetica", "", 8)
}

func (r *pdfReport) ensureSpace() {
	if r.pdf.GetY() > pageBreakY {
		r.newPage()
	}
}

func (r *pdfReport) group(title string) {
	r.ensureSpace()
	r.pdf.SetFont("Helvetica", "B", 10)
	r.pdf.CellFormat(0, rowHeight+2, r.tr(title), "", 1, "L", false, 0, "")
	r.pdf.SetFont("Helvetica", "", 8)
}

func (r *pdfReport) row(values []string) {
	r.ensureSpace()
	for i, c := range r.columns {
		v := ""
		if i < len(values) {
			v = truncate(values[i], int(c.width/1.7))
		}
		r.pdf.CellFormat(c.width, rowHeight, r.tr(v), "1", 0, "L", false, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *pdfReport) output(out io.Writer) error {
	if err := r.pdf.Error(); err != nil {
		return err
	}
	return r.pdf.Output(out)
}

func WriteEquipmentPDF(out io.Writer, items []entities.Equipment, now time.Time) error {
	r := newPDFReport("Geräteliste", equipmentPDFColumns, now)
	for _, g := range GroupEquipment(items) {
		r.group(g.Category + " / " + g.Location)
		for _, eq := range g.Items {
			full := EquipmentRow(eq)
			r.row([]string{full[0], full[1], full[2], full[5], full[11]})
		}
	}
	return r.output(out)
}

func WriteRecordsPDF(out io.Writer, records []entities.MaintenanceRecord, now time.Time) error {
	r := newPDFReport("Wartungsnachweis", recordPDFColumns, now)
	for _, rec := range records {
		full := RecordRow(rec)
		r.row([]string{full[0], full[1], full[3], full[4], full[5], full[6]})
	}
	return r.output(out)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if max <= 1 || len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
