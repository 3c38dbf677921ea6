package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"geraetewart/pkg/constants"
	"geraetewart/pkg/utils"

	"github.com/xuri/excelize/v2"
)

// ImportRow - строка импорта оборудования из xlsx.
type ImportRow struct {
	Line            int
	InventoryNumber string
	Name            string
	Barcode         string
	Category        string
	Location        string
	Status          string
	Manufacturer    string
	Model           string
	SerialNumber    string
	PurchaseDate    string
}

type ImportIssue struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type importColumns struct {
	inventory, name, barcode, category, location, status, manufacturer, model, serial, purchase int
}

// ParseEquipmentXLSX ищет строку заголовков на любом листе и читает строки под ней.
func ParseEquipmentXLSX(r io.Reader) ([]ImportRow, []ImportIssue, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, nil, err
		}
		for rIdx, row := range rows {
			cols, ok := detectColumns(row)
			if !ok {
				continue
			}
			items, issues := readRows(rows[rIdx+1:], rIdx+2, cols)
			return items, issues, nil
		}
	}

	return nil, nil, fmt.Errorf("не найдена шапка таблицы: нужны столбцы 'Inventarnummer' и 'Bezeichnung'")
}

func detectColumns(row []string) (importColumns, bool) {
	c := importColumns{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1}
	for i, raw := range row {
		h := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case strings.Contains(h, "inventar"):
			c.inventory = i
		case strings.Contains(h, "barcode") || strings.Contains(h, "strichcode"):
			c.barcode = i
		case strings.Contains(h, "bezeichnung") || h == "name" || h == "gerät":
			c.name = i
		case strings.Contains(h, "kategorie"):
			c.category = i
		case strings.Contains(h, "standort") || strings.Contains(h, "lagerort"):
			c.location = i
		case strings.Contains(h, "status"):
			c.status = i
		case strings.Contains(h, "hersteller"):
			c.manufacturer = i
		case strings.Contains(h, "modell") || strings.Contains(h, "typ"):
			c.model = i
		case strings.Contains(h, "serien"):
			c.serial = i
		case strings.Contains(h, "kauf") || strings.Contains(h, "anschaffung"):
			c.purchase = i
		}
	}
	return c, c.inventory >= 0 && c.name >= 0
}

func readRows(rows [][]string, firstLine int, c importColumns) ([]ImportRow, []ImportIssue) {
	var items []ImportRow
	var issues []ImportIssue
	for i, row := range rows {
		line := firstLine + i
		inv := cell(row, c.inventory)
		name := cell(row, c.name)
		if inv == "" && name == "" {
			continue
		}
		if isSummaryRow(inv) || isSummaryRow(name) {
			continue
		}
		if inv == "" || name == "" {
			issues = append(issues, ImportIssue{Line: line, Message: "Inventarnummer und Bezeichnung sind Pflicht"})
			continue
		}

		status, ok := parseStatus(cell(row, c.status))
		if !ok {
			issues = append(issues, ImportIssue{Line: line, Message: fmt.Sprintf("unbekannter Status '%s'", cell(row, c.status))})
			continue
		}

		purchase := cell(row, c.purchase)
		if purchase != "" {
			normalized, err := parseImportDate(purchase)
			if err != nil {
				issues = append(issues, ImportIssue{Line: line, Message: fmt.Sprintf("ungültiges Kaufdatum '%s'", purchase)})
				continue
			}
			purchase = normalized
		}

		items = append(items, ImportRow{
			Line:            line,
			InventoryNumber: inv,
			Name:            name,
			Barcode:         cell(row, c.barcode),
			Category:        cell(row, c.category),
			Location:        cell(row, c.location),
			Status:          status,
			Manufacturer:    cell(row, c.manufacturer),
			Model:           cell(row, c.model),
			SerialNumber:    cell(row, c.serial),
			PurchaseDate:    purchase,
		})
	}
	return items, issues
}

// parseStatus принимает код или подпись статуса; пусто - einsatzbereit.
func parseStatus(raw string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return constants.EquipmentReady, true
	}
	for code, label := range constants.EquipmentStatusLabels {
		if v == code || v == strings.ToLower(label) {
			return code, true
		}
	}
	return "", false
}

// parseImportDate приводит дату из файла к формату 2006-01-02.
// "01-02-06" - так excelize отдаёт ячейки с форматом даты по умолчанию.
func parseImportDate(s string) (string, error) {
	for _, layout := range []string{utils.GermanDateFormat, utils.DateFormat, "01-02-06"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(utils.DateFormat), nil
		}
	}
	return "", fmt.Errorf("некорректная дата %q", s)
}

func isSummaryRow(v string) bool {
	l := strings.ToLower(v)
	return strings.Contains(l, "summe") || strings.Contains(l, "gesamt")
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
