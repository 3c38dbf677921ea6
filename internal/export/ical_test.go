package export

import (
	"strings"
	"testing"
	"time"

	"geraetewart/internal/entities"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleRecords() []entities.MaintenanceRecord {
	return []entities.MaintenanceRecord{
		{ID: 11, DueDate: day(2024, 7, 1), Status: "geplant", EquipmentName: "Atemschutzgerät", InventoryNumber: "AS-1", TemplateName: "Halbjahresprüfung"},
		{ID: 12, DueDate: day(2024, 3, 5), Status: "abgeschlossen", EquipmentName: "Leiter", InventoryNumber: "L-4", TemplateName: "Sichtprüfung",
			PerformerName: strPtr("Max Muster"), Notes: strPtr("Sprosse ersetzt")},
		{ID: 13, DueDate: day(2024, 12, 31), Status: "ausstehend", EquipmentName: "Schlauch", InventoryNumber: "S-9", TemplateName: "Druckprüfung"},
	}
}

func TestBuildCalendar_OneEventPerRecord(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		out, err := BuildCalendar(sampleRecords()[:n], CalendarOptions{Domain: "ff-test.de", Name: "Wartung", Now: day(2024, 1, 1)})
		require.NoError(t, err)
		assert.Equal(t, n, strings.Count(out, "BEGIN:VEVENT"))
		assert.Equal(t, n, strings.Count(out, "END:VEVENT"))
	}
}

func TestBuildCalendar_EventFields(t *testing.T) {
	out, err := BuildCalendar(sampleRecords(), CalendarOptions{Domain: "ff-test.de", Name: "Wartung", Now: day(2024, 1, 1)})
	require.NoError(t, err)

	assert.Contains(t, out, "METHOD:PUBLISH")
	assert.Contains(t, out, "VERSION:2.0")
	assert.Contains(t, out, "X-WR-CALNAME:Wartung")
	assert.Contains(t, out, "UID:maintenance-11@ff-test.de")
	assert.Contains(t, out, "UID:maintenance-12@ff-test.de")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20240701")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20240702")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20250101")
	assert.NotContains(t, out, "RRULE")

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 3)

	// RFC 5545 допускает для VEVENT только TENTATIVE, CONFIRMED, CANCELLED
	summaries := map[string]string{}
	for _, e := range events {
		assert.Equal(t, "CONFIRMED", e.GetProperty(ics.ComponentPropertyStatus).Value)
		summaries[e.Id()] = e.GetProperty(ics.ComponentPropertySummary).Value
	}
	assert.Equal(t, "Halbjahresprüfung – Atemschutzgerät", summaries["maintenance-11@ff-test.de"])
	assert.Equal(t, "Sichtprüfung – Leiter (erledigt)", summaries["maintenance-12@ff-test.de"])
	assert.NotContains(t, out, "COMPLETED")
}

func TestBuildCalendar_RequiresDomain(t *testing.T) {
	_, err := BuildCalendar(sampleRecords(), CalendarOptions{})
	assert.Error(t, err)
}

func TestEventDescription(t *testing.T) {
	desc := eventDescription(sampleRecords()[1])
	assert.Equal(t, "Gerät: Leiter\nInventarnummer: L-4\nVorlage: Sichtprüfung\nStatus: erledigt\nDurchgeführt von: Max Muster\nNotizen: Sprosse ersetzt", desc)
	assert.Equal(t, "Gerät: Schlauch\nInventarnummer: S-9\nVorlage: Druckprüfung", eventDescription(sampleRecords()[2]))

	withDate := sampleRecords()[1]
	performed := day(2024, 3, 6)
	withDate.PerformedDate = &performed
	assert.Contains(t, eventDescription(withDate), "Status: erledigt am 06.03.2024")
}

func TestSubscriptionURL(t *testing.T) {
	assert.Equal(t, "webcal://ff.de/api/maintenance/calendar.ics", SubscriptionURL("https://ff.de/api/maintenance/calendar.ics"))
	assert.Equal(t, "webcal://localhost:8080/x.ics", SubscriptionURL("http://localhost:8080/x.ics"))
}
