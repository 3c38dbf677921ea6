package planning

import (
	"net/url"
	"testing"

	"geraetewart/internal/entities"
	"geraetewart/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProjections() []Projection {
	return []Projection{
		{
			Equipment: entities.Equipment{ID: 1, Name: "Atemschutzgerät PA 1", Barcode: ptr("AS-001"), CategoryID: ptr(uint64(10)), ResponsiblePersonID: ptr(uint64(100))},
			Template:  entities.MaintenanceTemplate{ID: 1, Name: "Jahresprüfung"},
			Bucket:    BucketOverdue,
		},
		{
			Equipment: entities.Equipment{ID: 2, Name: "Schlauch B", Barcode: ptr("SB-77"), CategoryID: ptr(uint64(20))},
			Template:  entities.MaintenanceTemplate{ID: 2, Name: "Druckprüfung", ResponsiblePersonID: ptr(uint64(200))},
			Bucket:    BucketDueSoon,
		},
		{
			Equipment:  entities.Equipment{ID: 3, Name: "Leiter", Notes: ptr("Sprosse locker")},
			Template:   entities.MaintenanceTemplate{ID: 2, Name: "Druckprüfung"},
			Bucket:     BucketPlanned,
			LastRecord: &entities.MaintenanceRecord{PerformedBy: ptr(uint64(300))},
		},
	}
}

func ids(ps []Projection) []uint64 {
	out := make([]uint64, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Equipment.ID)
	}
	return out
}

func TestFilterProjections(t *testing.T) {
	onlyOverdue := DefaultProjectionFilter()
	onlyOverdue.Buckets[BucketDueSoon] = false
	onlyOverdue.Buckets[BucketPlanned] = false

	tests := []struct {
		name   string
		filter ProjectionFilter
		want   []uint64
	}{
		{"default keeps all", DefaultProjectionFilter(), []uint64{1, 2, 3}},
		{"bucket", onlyOverdue, []uint64{1}},
		{"category", ProjectionFilter{CategoryID: ptr(uint64(20))}, []uint64{2}},
		{"template", ProjectionFilter{TemplateID: ptr(uint64(2))}, []uint64{2, 3}},
		{"person via equipment", ProjectionFilter{PersonID: ptr(uint64(100))}, []uint64{1}},
		{"person via template", ProjectionFilter{PersonID: ptr(uint64(200))}, []uint64{2}},
		{"person via performer", ProjectionFilter{PersonID: ptr(uint64(300))}, []uint64{3}},
		{"search name case-insensitive", ProjectionFilter{Search: "ATEMSCHUTZ"}, []uint64{1}},
		{"search barcode", ProjectionFilter{Search: "sb-7"}, []uint64{2}},
		{"search template", ProjectionFilter{Search: "druck"}, []uint64{2, 3}},
		{"search notes", ProjectionFilter{Search: "sprosse"}, []uint64{3}},
		{"no match", ProjectionFilter{Search: "Drehleiter"}, []uint64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterProjections(sampleProjections(), tt.filter)))
		})
	}
}

func sampleRecords() []entities.MaintenanceRecord {
	return []entities.MaintenanceRecord{
		{ID: 1, TemplateID: 1, EquipmentID: 1, DueDate: date(2024, 1, 1), Status: "abgeschlossen", EquipmentName: "Atemschutzgerät", TemplateName: "Jahresprüfung", PerformedBy: ptr(uint64(7))},
		{ID: 2, TemplateID: 1, EquipmentID: 2, DueDate: date(2024, 3, 1), Status: "geplant", EquipmentName: "Schlauch", TemplateName: "Jahresprüfung", EquipmentCategoryID: ptr(uint64(20))},
		{ID: 3, TemplateID: 3, EquipmentID: 1, DueDate: date(2024, 2, 1), Status: "ausstehend", EquipmentName: "Atemschutzgerät", TemplateName: "Sichtprüfung", Notes: ptr("Maske tauschen")},
	}
}

func recordIDs(rs []entities.MaintenanceRecord) []uint64 {
	out := make([]uint64, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func TestFilterRecords(t *testing.T) {
	tests := []struct {
		name   string
		filter RecordFilter
		want   []uint64
	}{
		{"default sorted by due date desc", DefaultRecordFilter(), []uint64{2, 3, 1}},
		{"status", RecordFilter{Statuses: []string{"geplant", "ausstehend"}}, []uint64{2, 3}},
		{"template", RecordFilter{TemplateID: ptr(uint64(1))}, []uint64{2, 1}},
		{"unknown template yields empty", RecordFilter{TemplateID: ptr(uint64(2))}, []uint64{}},
		{"equipment", RecordFilter{EquipmentID: ptr(uint64(1))}, []uint64{3, 1}},
		{"category", RecordFilter{CategoryID: ptr(uint64(20))}, []uint64{2}},
		{"performer", RecordFilter{PersonID: ptr(uint64(7))}, []uint64{1}},
		{"search notes", RecordFilter{Search: "maske"}, []uint64{3}},
		{"date range", RecordFilter{DateFrom: ptr(date(2024, 1, 15)), DateTo: ptr(date(2024, 2, 1))}, []uint64{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recordIDs(FilterRecords(sampleRecords(), tt.filter)))
		})
	}
}

func TestRecordFilterFromQuery(t *testing.T) {
	q, err := url.ParseQuery("status=geplant,abgeschlossen&template=3&person=7&search=Schlauch&from=2024-01-01")
	require.NoError(t, err)

	f := RecordFilterFromQuery(utils.ParseFilterFromQuery(q))

	assert.Equal(t, []string{"geplant", "abgeschlossen"}, f.Statuses)
	require.NotNil(t, f.TemplateID)
	assert.Equal(t, uint64(3), *f.TemplateID)
	require.NotNil(t, f.PersonID)
	assert.Equal(t, uint64(7), *f.PersonID)
	assert.Nil(t, f.CategoryID)
	assert.Equal(t, "Schlauch", f.Search)
	require.NotNil(t, f.DateFrom)
	assert.Equal(t, date(2024, 1, 1), *f.DateFrom)
}

func TestProjectionFilterFromQuery(t *testing.T) {
	q, err := url.ParseQuery("bucket=overdue&category=4")
	require.NoError(t, err)

	f := ProjectionFilterFromQuery(utils.ParseFilterFromQuery(q))

	assert.True(t, f.Buckets[BucketOverdue])
	assert.False(t, f.Buckets[BucketPlanned])
	require.NotNil(t, f.CategoryID)
	assert.Equal(t, uint64(4), *f.CategoryID)

	empty := ProjectionFilterFromQuery(utils.ParseFilterFromQuery(url.Values{}))
	assert.Equal(t, DefaultProjectionFilter(), empty)
}
