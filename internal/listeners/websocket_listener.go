package listeners

import (
	"context"

	"geraetewart/internal/entities"
	"geraetewart/internal/events"
	"geraetewart/internal/services"
	"geraetewart/pkg/constants"
	"geraetewart/pkg/eventbus"
	"geraetewart/pkg/websocket"

	"go.uber.org/zap"
)

// Broadcaster - часть websocket.Hub.
type Broadcaster interface {
	Broadcast(messageType string, payload interface{}) error
	Invalidate(query string, id *uint64)
}

type settingsSource interface {
	Subscribe(fn services.SettingsListener) (unsubscribe func())
}

// WebSocketListener переводит события об изменениях в конверты для клиентов.
type WebSocketListener struct {
	hub    Broadcaster
	logger *zap.Logger
}

func NewWebSocketListener(hub Broadcaster, logger *zap.Logger) *WebSocketListener {
	return &WebSocketListener{hub: hub, logger: logger}
}

func (l *WebSocketListener) Register(bus Subscriber) {
	bus.Subscribe(events.EntityChangedEventName, l.handleEntityChanged)
}

// WatchSettings рассылает новые настройки всем клиентам; возвращает отписку.
func (l *WebSocketListener) WatchSettings(settings settingsSource) func() {
	return settings.Subscribe(func(s entities.Settings) {
		if err := l.hub.Broadcast(websocket.TypeSettings, s); err != nil {
			l.logger.Warn("Не удалось разослать настройки", zap.Error(err))
		}
		l.hub.Invalidate(constants.QuerySettings, nil)
	})
}

func (l *WebSocketListener) handleEntityChanged(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.EntityChangedEvent)
	if !ok {
		return nil
	}
	l.hub.Invalidate(e.Query, e.ID)
	return nil
}
