package export

import (
	"fmt"
	"strings"
	"time"

	"geraetewart/internal/entities"
	"geraetewart/pkg/constants"

	ics "github.com/arran4/golang-ical"
)

type CalendarOptions struct {
	Domain string
	Name   string
	Now    time.Time
}

// EventUID - стабильный UID события для записи обслуживания.
func EventUID(recordID uint64, domain string) string {
	return fmt.Sprintf("maintenance-%d@%s", recordID, domain)
}

// BuildCalendar - один VEVENT на запись, события на весь день без повторений.
func BuildCalendar(records []entities.MaintenanceRecord, opts CalendarOptions) (string, error) {
	if opts.Domain == "" {
		return "", fmt.Errorf("календарь: не задан домен для UID")
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Geraetewart//Wartungskalender//DE")
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}

	for _, r := range records {
		event := cal.AddEvent(EventUID(r.ID, opts.Domain))
		event.SetDtStampTime(opts.Now.UTC())
		event.SetAllDayStartAt(r.DueDate)
		event.SetAllDayEndAt(r.DueDate.AddDate(0, 0, 1))
		event.SetSummary(eventSummary(r))
		event.SetDescription(eventDescription(r))
		event.SetStatus(ics.ObjectStatusConfirmed)
	}

	return cal.Serialize(), nil
}

// eventSummary помечает выполненные записи, STATUS у VEVENT для этого не подходит.
func eventSummary(r entities.MaintenanceRecord) string {
	summary := fmt.Sprintf("%s – %s", r.TemplateName, r.EquipmentName)
	if r.Status == constants.RecordCompleted {
		summary += " (erledigt)"
	}
	return summary
}

// eventDescription - строки через "\n", библиотека экранирует их при сериализации.
func eventDescription(r entities.MaintenanceRecord) string {
	lines := []string{
		"Gerät: " + r.EquipmentName,
		"Inventarnummer: " + r.InventoryNumber,
		"Vorlage: " + r.TemplateName,
	}
	if r.Status == constants.RecordCompleted {
		done := "Status: erledigt"
		if r.PerformedDate != nil {
			done += " am " + r.PerformedDate.Format("02.01.2006")
		}
		lines = append(lines, done)
	}
	if r.PerformerName != nil && *r.PerformerName != "" {
		lines = append(lines, "Durchgeführt von: "+*r.PerformerName)
	}
	if r.Notes != nil && *r.Notes != "" {
		lines = append(lines, "Notizen: "+*r.Notes)
	}
	return strings.Join(lines, "\n")
}

// SubscriptionURL превращает http(s) адрес ленты в webcal://.
func SubscriptionURL(feedURL string) string {
	switch {
	case strings.HasPrefix(feedURL, "https://"):
		return "webcal://" + strings.TrimPrefix(feedURL, "https://")
	case strings.HasPrefix(feedURL, "http://"):
		return "webcal://" + strings.TrimPrefix(feedURL, "http://")
	}
	return feedURL
}
