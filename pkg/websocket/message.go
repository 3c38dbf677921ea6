package websocket

import "time"

// Envelope - "конверт" сообщения, Type подсказывает фронтенду, что делать.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

const (
	TypeInvalidate = "invalidate"
	TypeSettings   = "settings"
)

// InvalidatePayload сообщает клиенту, какой запрос нужно перезапросить.
type InvalidatePayload struct {
	Query string  `json:"query"`
	ID    *uint64 `json:"id,omitempty"`
}
