package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestParseEquipmentXLSX(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Geräteliste Feuerwehr"},
		{},
		{"Inventarnummer", "Bezeichnung", "Barcode", "Kategorie", "Standort", "Status", "Kaufdatum"},
		{"AS-1", "Atemschutzgerät", "4001", "Atemschutz", "Lager", "Einsatzbereit", "01.02.2020"},
		{"L-1", "Steckleiter", "", "Leitern", "HLF 20", "defekt", ""},
		{"", "ohne Nummer"},
		{"X-1", "Kiste", "", "", "", "kaputt"},
		{"Y-1", "Datum", "", "", "", "", "31.02.2020"},
		{"Summe", "3"},
		{},
	})

	rows, issues, err := ParseEquipmentXLSX(buf)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, ImportRow{
		Line: 4, InventoryNumber: "AS-1", Name: "Atemschutzgerät", Barcode: "4001",
		Category: "Atemschutz", Location: "Lager", Status: "einsatzbereit", PurchaseDate: "2020-02-01",
	}, rows[0])
	assert.Equal(t, "defekt", rows[1].Status)
	assert.Equal(t, 5, rows[1].Line)

	require.Len(t, issues, 3)
	assert.Equal(t, 6, issues[0].Line)
	assert.Equal(t, 7, issues[1].Line)
	assert.Equal(t, 8, issues[2].Line)
}

func TestParseEquipmentXLSX_NoHeader(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{{"foo", "bar"}, {"1", "2"}})

	_, _, err := ParseEquipmentXLSX(buf)
	assert.Error(t, err)
}
