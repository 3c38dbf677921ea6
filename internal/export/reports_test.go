package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"geraetewart/internal/entities"
	"geraetewart/internal/planning"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleEquipment() []entities.Equipment {
	return []entities.Equipment{
		{ID: 1, InventoryNumber: "S-1", Name: "Schlauch C", Status: "einsatzbereit", CategoryName: strPtr("Schläuche"), LocationName: strPtr("HLF 20")},
		{ID: 2, InventoryNumber: "A-1", Name: "Atemschutzgerät", Status: "wartung", CategoryName: strPtr("Atemschutz"), LocationName: strPtr("Lager")},
		{ID: 3, InventoryNumber: "X-1", Name: "Kiste", Status: "defekt"},
		{ID: 4, InventoryNumber: "A-2", Name: "Atemschutzmaske", Status: "einsatzbereit", CategoryName: strPtr("Atemschutz")},
		{ID: 5, InventoryNumber: "A-3", Name: "Atemschutz <Reserve>", Status: "einsatzbereit", CategoryName: strPtr("Atemschutz"), LocationName: strPtr("Lager")},
	}
}

func TestGroupEquipment(t *testing.T) {
	groups := GroupEquipment(sampleEquipment())

	var keys []string
	for _, g := range groups {
		keys = append(keys, g.Category+"/"+g.Location)
	}
	assert.Equal(t, []string{
		"Atemschutz/Lager",
		"Atemschutz/" + NoLocation,
		"Schläuche/HLF 20",
		NoCategory + "/" + NoLocation,
	}, keys)
	require.Len(t, groups[0].Items, 2)
	assert.Equal(t, "Atemschutz <Reserve>", groups[0].Items[0].Name)
	assert.Equal(t, "Atemschutzgerät", groups[0].Items[1].Name)
}

func TestWriteEquipmentXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEquipmentXLSX(&buf, sampleEquipment()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Geräteliste")
	require.NoError(t, err)
	// шапка + 4 группы + 5 строк
	require.Len(t, rows, 10)
	assert.Equal(t, EquipmentHeaders, rows[0])
	assert.Equal(t, "Atemschutz / Lager", rows[1][0])
	assert.Equal(t, "A-3", rows[2][0])
	assert.Equal(t, "In Wartung", rows[3][5])
}

func TestWriteRecordsXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecordsXLSX(&buf, sampleRecords()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Wartungen")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "01.07.2024", rows[1][0])
	assert.Equal(t, "Abgeschlossen", rows[2][4])
	assert.Equal(t, "Max Muster", rows[2][6])
}

func TestWriteProjectionsXLSX(t *testing.T) {
	projections := []planning.Projection{{
		Equipment:     entities.Equipment{Name: "Leiter", InventoryNumber: "L-1"},
		Template:      entities.MaintenanceTemplate{Name: "Jahresprüfung"},
		NextDue:       day(2024, 7, 1),
		DaysRemaining: -3,
		Bucket:        planning.BucketOverdue,
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteProjectionsXLSX(&buf, projections))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Fälligkeiten")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"01.07.2024", "-3", "Überfällig", "Leiter", "L-1", "Jahresprüfung", NoCategory}, rows[1])
}

func TestWritePDF(t *testing.T) {
	var many []entities.Equipment
	for i := 0; i < 120; i++ {
		many = append(many, entities.Equipment{InventoryNumber: "N", Name: "Gerät mit Umlauten äöü", Status: "einsatzbereit"})
	}

	var buf bytes.Buffer
	require.NoError(t, WriteEquipmentPDF(&buf, many, day(2024, 1, 1)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	buf.Reset()
	require.NoError(t, WriteRecordsPDF(&buf, sampleRecords(), day(2024, 1, 1)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestWriteEquipmentHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEquipmentHTML(&buf, "Geräteliste", sampleEquipment(), time.Date(2024, 1, 2, 8, 30, 0, 0, time.UTC)))

	out := buf.String()
	assert.Contains(t, out, "<h1>Geräteliste</h1>")
	assert.Contains(t, out, "Stand: 02.01.2024 08:30")
	assert.Contains(t, out, "Atemschutz / Lager")
	assert.Contains(t, out, "Atemschutz &lt;Reserve&gt;")
	assert.Equal(t, 4, strings.Count(out, "<table>"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abc…", truncate("abcdef", 4))
}
