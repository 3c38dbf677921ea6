package websocket

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Hub управляет всеми клиентами и рассылкой сообщений.
// Все изменения карт клиентов происходят только в горутине Run.
type Hub struct {
	clients     map[*Client]bool
	userClients map[string][]*Client
	broadcast   chan []byte
	Register    chan *Client
	unregister  chan *Client
	logger      *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		userClients: make(map[string][]*Client),
		broadcast:   make(chan []byte, 64),
		Register:    make(chan *Client),
		unregister:  make(chan *Client),
		logger:      logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			h.userClients[client.UserID] = append(h.userClients[client.UserID], client)
			h.logger.Debug("Клиент зарегистрирован", zap.String("userID", client.UserID))
		case client := <-h.unregister:
			h.remove(client)
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)
	clients := h.userClients[client.UserID]
	for i, c := range clients {
		if c == client {
			h.userClients[client.UserID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.userClients[client.UserID]) == 0 {
		delete(h.userClients, client.UserID)
	}
	h.logger.Debug("Клиент отсоединен", zap.String("userID", client.UserID))
}

// Broadcast рассылает конверт всем подключённым клиентам.
func (h *Hub) Broadcast(messageType string, payload interface{}) error {
	messageBytes, err := encode(messageType, payload)
	if err != nil {
		h.logger.Error("Ошибка сериализации сообщения для WebSocket", zap.Error(err))
		return err
	}
	select {
	case h.broadcast <- messageBytes:
	default:
		h.logger.Warn("Очередь рассылки WebSocket переполнена, сообщение пропущено", zap.String("type", messageType))
	}
	return nil
}

// Invalidate просит клиентов перезапросить данные query.
func (h *Hub) Invalidate(query string, id *uint64) {
	_ = h.Broadcast(TypeInvalidate, InvalidatePayload{Query: query, ID: id})
}

func encode(messageType string, payload interface{}) ([]byte, error) {
	return json.Marshal(Envelope{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
}
