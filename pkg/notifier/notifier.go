package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

const (
	TypeTest       = "test"
	TypeProduction = "production"
)

// Message - полезная нагрузка функции maintenance-notifications.
type Message struct {
	Type         string `json:"type"`
	Recipient    string `json:"recipient"`
	SenderDomain string `json:"sender_domain"`
	Subject      string `json:"subject"`
	Message      string `json:"message"`
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Conn - часть *nats.Conn, которая нам нужна.
type Conn interface {
	Publish(subject string, data []byte) error
}

type NATSNotifier struct {
	conn    Conn
	subject string
}

func NewNATSNotifier(conn Conn, subject string) *NATSNotifier {
	return &NATSNotifier{conn: conn, subject: subject}
}

func (n *NATSNotifier) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("сериализация уведомления: %w", err)
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("публикация в %s: %w", n.subject, err)
	}
	return nil
}

// LogNotifier используется, когда NATS_URL не задан.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, msg Message) error {
	n.logger.Info("Уведомление (без NATS)",
		zap.String("type", msg.Type),
		zap.String("recipient", msg.Recipient),
		zap.String("subject", msg.Subject),
	)
	return nil
}
