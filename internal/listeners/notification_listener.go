package listeners

import (
	"context"

	"geraetewart/internal/entities"
	"geraetewart/internal/events"
	"geraetewart/pkg/eventbus"

	"go.uber.org/zap"
)

// Subscriber - часть eventbus.Bus для регистрации обработчиков.
type Subscriber interface {
	Subscribe(eventName string, listener eventbus.Listener)
}

type completionNotifier interface {
	NotifyRecordCompleted(ctx context.Context, record entities.MaintenanceRecord) error
}

// NotificationListener отправляет уведомление ответственному после завершения обслуживания.
type NotificationListener struct {
	notifications completionNotifier
	logger        *zap.Logger
}

func NewNotificationListener(notifications completionNotifier, logger *zap.Logger) *NotificationListener {
	return &NotificationListener{notifications: notifications, logger: logger}
}

func (l *NotificationListener) Register(bus Subscriber) {
	bus.Subscribe(events.RecordCompletedEventName, l.handleRecordCompleted)
	l.logger.Info("NotificationListener подписан на событие", zap.String("event", events.RecordCompletedEventName))
}

func (l *NotificationListener) handleRecordCompleted(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.RecordCompletedEvent)
	if !ok {
		return nil
	}
	if err := l.notifications.NotifyRecordCompleted(ctx, e.Record); err != nil {
		l.logger.Warn("Уведомление о завершении не отправлено",
			zap.Uint64("record_id", e.Record.ID),
			zap.Error(err))
		return err
	}
	return nil
}
