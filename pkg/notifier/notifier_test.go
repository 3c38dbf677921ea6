package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockConn struct {
	subject   string
	data      []byte
	returnErr error
}

func (m *mockConn) Publish(subject string, data []byte) error {
	m.subject = subject
	m.data = data
	return m.returnErr
}

func TestNATSNotifier_Send(t *testing.T) {
	conn := &mockConn{}
	n := NewNATSNotifier(conn, "maintenance-notifications")

	msg := Message{
		Type:         TypeTest,
		Recipient:    "wart@feuerwehr.de",
		SenderDomain: "feuerwehr.de",
		Subject:      "Test",
		Message:      "Hallo",
	}
	require.NoError(t, n.Send(context.Background(), msg))
	assert.Equal(t, "maintenance-notifications", conn.subject)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(conn.data, &decoded))
	assert.Equal(t, "test", decoded["type"])
	assert.Equal(t, "feuerwehr.de", decoded["sender_domain"])
	assert.Equal(t, "wart@feuerwehr.de", decoded["recipient"])
}

func TestNATSNotifier_PublishError(t *testing.T) {
	expErr := errors.New("publish failed")
	n := NewNATSNotifier(&mockConn{returnErr: expErr}, "s")

	err := n.Send(context.Background(), Message{Type: TypeTest})
	assert.ErrorIs(t, err, expErr)
}

func TestNATSNotifier_CancelledContext(t *testing.T) {
	conn := &mockConn{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewNATSNotifier(conn, "s").Send(ctx, Message{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, conn.data)
}

func TestLogNotifier(t *testing.T) {
	assert.NoError(t, NewLogNotifier(zap.NewNop()).Send(context.Background(), Message{Type: TypeProduction}))
}
