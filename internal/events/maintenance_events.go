package events

import "geraetewart/internal/entities"

const (
	RecordCompletedEventName = "maintenance.record.completed"
	EntityChangedEventName   = "entity.changed"
)

// RecordCompletedEvent - обслуживание завершено (статус "abgeschlossen").
type RecordCompletedEvent struct {
	Record entities.MaintenanceRecord
}

// Name - реализуем интерфейс eventbus.Event
func (e RecordCompletedEvent) Name() string {
	return RecordCompletedEventName
}

// EntityChangedEvent - данные изменились, клиенты должны перезапросить Query.
type EntityChangedEvent struct {
	Query string
	ID    *uint64
}

func (e EntityChangedEvent) Name() string {
	return EntityChangedEventName
}
