package services

import (
	"context"
	"errors"
	"testing"

	"geraetewart/internal/dto"
	"geraetewart/internal/entities"
	"geraetewart/internal/planning"
	apperrors "geraetewart/pkg/errors"
	"geraetewart/pkg/notifier"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func notificationSettings() *staticSettings {
	s := entities.DefaultSettings()
	s.Notifications.SenderDomain = "ff-musterstadt.de"
	s.Notifications.Recipient = "wehrfuehrung@ff-musterstadt.de"
	return &staticSettings{value: s}
}

func projection(eqName string, tplName string, email *string, days int, bucket planning.Bucket) planning.Projection {
	return planning.Projection{
		Equipment:     entities.Equipment{Name: eqName, InventoryNumber: "INV-" + eqName},
		Template:      entities.MaintenanceTemplate{Name: tplName, ResponsiblePersonEmail: email},
		NextDue:       testNow.AddDate(0, 0, days),
		DaysRemaining: days,
		Bucket:        bucket,
	}
}

func TestNotificationService_SendTest(t *testing.T) {
	n := &recordingNotifier{}
	svc := NewNotificationService(n, notificationSettings(), staticProjections{}, zap.NewNop())

	require.NoError(t, svc.SendTest(context.Background(), dto.TestNotificationDTO{}))
	require.Len(t, n.sent, 1)
	assert.Equal(t, notifier.TypeTest, n.sent[0].Type)
	assert.Equal(t, "wehrfuehrung@ff-musterstadt.de", n.sent[0].Recipient)
	assert.Equal(t, "ff-musterstadt.de", n.sent[0].SenderDomain)
	assert.Equal(t, defaultTestMessage, n.sent[0].Message)

	require.NoError(t, svc.SendTest(context.Background(), dto.TestNotificationDTO{
		Recipient: null.StringFrom("geraetewart@ff-musterstadt.de"),
		Message:   null.StringFrom("Hallo"),
	}))
	assert.Equal(t, "geraetewart@ff-musterstadt.de", n.sent[1].Recipient)
	assert.Equal(t, "Hallo", n.sent[1].Message)
}

func TestNotificationService_SendTestWithoutRecipient(t *testing.T) {
	svc := NewNotificationService(&recordingNotifier{}, &staticSettings{value: entities.DefaultSettings()}, staticProjections{}, zap.NewNop())
	err := svc.SendTest(context.Background(), dto.TestNotificationDTO{})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestNotificationService_SendDueDigest(t *testing.T) {
	anna := "anna@ff-musterstadt.de"
	ben := "ben@ff-musterstadt.de"
	n := &recordingNotifier{}
	svc := NewNotificationService(n, notificationSettings(), staticProjections{items: []planning.Projection{
		projection("PA1", "Atemschutz", &anna, -3, planning.BucketOverdue),
		projection("PA2", "Atemschutz", &anna, 12, planning.BucketDueSoon),
		projection("Leiter", "Leiterprüfung", &ben, 5, planning.BucketDueSoon),
		projection("Schlauch", "Schlauchprüfung", nil, 2, planning.BucketDueSoon),
		projection("Pumpe", "Pumpenprüfung", &ben, 120, planning.BucketPlanned),
	}}, zap.NewNop())

	res, err := svc.SendDueDigest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Sent)
	assert.Equal(t, []string{"Schlauchprüfung / Schlauch"}, res.Skipped)

	require.Len(t, n.sent, 2)
	assert.Equal(t, anna, n.sent[0].Recipient)
	assert.Equal(t, notifier.TypeProduction, n.sent[0].Type)
	assert.Contains(t, n.sent[0].Message, "seit 3 Tagen überfällig")
	assert.Contains(t, n.sent[0].Message, "in 12 Tagen")
	assert.Equal(t, ben, n.sent[1].Recipient)
	assert.NotContains(t, n.sent[1].Message, "Pumpe", "geplante Termine gehören nicht in die Übersicht")
}

func TestNotificationService_DigestDisabled(t *testing.T) {
	settings := notificationSettings()
	settings.value.Notifications.Enabled = false
	svc := NewNotificationService(&recordingNotifier{}, settings, staticProjections{}, zap.NewNop())

	_, err := svc.SendDueDigest(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestNotificationService_NotifyRecordCompleted(t *testing.T) {
	n := &recordingNotifier{}
	svc := NewNotificationService(n, notificationSettings(), staticProjections{}, zap.NewNop())
	performed := testNow
	record := entities.MaintenanceRecord{
		ID:                       5,
		EquipmentName:            "PA1",
		InventoryNumber:          "AS-01",
		TemplateName:             "Atemschutz",
		PerformedDate:            &performed,
		PerformerName:            strPtr("Anna Schmidt"),
		TemplateResponsibleEmail: strPtr("anna@ff-musterstadt.de"),
	}

	require.NoError(t, svc.NotifyRecordCompleted(context.Background(), record))
	require.Len(t, n.sent, 1)
	assert.Equal(t, "anna@ff-musterstadt.de", n.sent[0].Recipient)
	assert.Contains(t, n.sent[0].Message, "Durchgeführt am: 15.03.2026")
	assert.Contains(t, n.sent[0].Message, "Durchgeführt von: Anna Schmidt")
}

func TestNotificationService_SendFailure(t *testing.T) {
	n := &recordingNotifier{err: errors.New("nats: connection closed")}
	svc := NewNotificationService(n, notificationSettings(), staticProjections{}, zap.NewNop())

	err := svc.SendTest(context.Background(), dto.TestNotificationDTO{})
	var httpErr *apperrors.HttpError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, 502, httpErr.Code)
}
