package services

import (
	"context"
	"testing"
	"time"

	"geraetewart/internal/dto"
	"geraetewart/internal/entities"
	"geraetewart/internal/events"
	"geraetewart/internal/repositories"
	"geraetewart/pkg/constants"
	apperrors "geraetewart/pkg/errors"
	"geraetewart/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

type maintenanceFixture struct {
	service   *MaintenanceService
	records   *mockRecordRepo
	templates *mockTemplateRepo
	equipment *mockEquipmentRepo
	tx        *fakeTxManager
	bus       *recordingBus
	files     *memoryFiles
}

func newMaintenanceFixture() *maintenanceFixture {
	f := &maintenanceFixture{
		records:   &mockRecordRepo{},
		templates: &mockTemplateRepo{},
		equipment: &mockEquipmentRepo{},
		tx:        &fakeTxManager{},
		bus:       &recordingBus{},
		files:     &memoryFiles{},
	}
	f.service = NewMaintenanceService(f.tx, f.records, f.equipment, f.templates, f.files,
		&staticSettings{value: entities.DefaultSettings()}, f.bus,
		CalendarConfig{Domain: "geraetewart.local", Name: "Wartung", PublicBaseURL: "https://fw.example.de/"},
		zap.NewNop())
	f.service.now = fixedClock(testNow)
	return f
}

func strPtr(s string) *string { return &s }

func TestMaintenanceService_Complete(t *testing.T) {
	ctx := context.Background()
	photo := strPtr("/uploads/maintenance/maintenance-7-1.jpg")

	t.Run("без фото", func(t *testing.T) {
		f := newMaintenanceFixture()
		f.records.On("FindByID", mock.Anything, mock.Anything, uint64(7)).
			Return(&entities.MaintenanceRecord{ID: 7, Status: constants.RecordScheduled}, nil)

		_, err := f.service.Complete(ctx, 7, dto.CompleteRecordDTO{PerformedBy: null.Uint64From(3)})
		assert.ErrorIs(t, err, apperrors.ErrDocumentationRequired)
		f.records.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, f.bus.names())
	})

	t.Run("без исполнителя", func(t *testing.T) {
		f := newMaintenanceFixture()
		f.records.On("FindByID", mock.Anything, mock.Anything, uint64(7)).
			Return(&entities.MaintenanceRecord{ID: 7, Status: constants.RecordScheduled, DocumentationImageURL: photo}, nil)

		_, err := f.service.Complete(ctx, 7, dto.CompleteRecordDTO{})
		assert.ErrorIs(t, err, apperrors.ErrPerformerRequired)
	})

	t.Run("уже завершена", func(t *testing.T) {
		f := newMaintenanceFixture()
		f.records.On("FindByID", mock.Anything, mock.Anything, uint64(7)).
			Return(&entities.MaintenanceRecord{ID: 7, Status: constants.RecordCompleted, DocumentationImageURL: photo}, nil)

		_, err := f.service.Complete(ctx, 7, dto.CompleteRecordDTO{PerformedBy: null.Uint64From(3)})
		assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
	})

	t.Run("дата по умолчанию - сегодня", func(t *testing.T) {
		f := newMaintenanceFixture()
		today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
		f.records.On("FindByID", mock.Anything, mock.Anything, uint64(7)).
			Return(&entities.MaintenanceRecord{ID: 7, Status: constants.RecordInProgress, DocumentationImageURL: photo}, nil).Once()
		f.records.On("Complete", mock.Anything, mock.Anything, uint64(7), uint64(3), today, (*int)(nil), (*string)(nil)).
			Return(nil).Once()
		f.records.On("FindByID", mock.Anything, mock.Anything, uint64(7)).
			Return(&entities.MaintenanceRecord{ID: 7, Status: constants.RecordCompleted, DocumentationImageURL: photo}, nil).Once()

		rec, err := f.service.Complete(ctx, 7, dto.CompleteRecordDTO{PerformedBy: null.Uint64From(3)})
		require.NoError(t, err)
		assert.Equal(t, constants.RecordCompleted, rec.Status)
		assert.Equal(t, []string{events.EntityChangedEventName, events.RecordCompletedEventName}, f.bus.names())
		f.records.AssertExpectations(t)
	})
}

func TestMaintenanceService_ChangeStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("назад нельзя", func(t *testing.T) {
		f := newMaintenanceFixture()
		f.records.On("FindByID", mock.Anything, mock.Anything, uint64(1)).
			Return(&entities.MaintenanceRecord{ID: 1, Status: constants.RecordInProgress}, nil)

		_, err := f.service.ChangeStatus(ctx, 1, constants.RecordScheduled)
		assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
	})

	t.Run("завершение без фото", func(t *testing.T) {
		f := newMaintenanceFixture()
		f.records.On("FindByID", mock.Anything, mock.Anything, uint64(1)).
			Return(&entities.MaintenanceRecord{ID: 1, Status: constants.RecordInProgress}, nil)

		_, err := f.service.ChangeStatus(ctx, 1, constants.RecordCompleted)
		assert.ErrorIs(t, err, apperrors.ErrDocumentationRequired)
	})

	t.Run("вперёд", func(t *testing.T) {
		f := newMaintenanceFixture()
		f.records.On("FindByID", mock.Anything, mock.Anything, uint64(1)).
			Return(&entities.MaintenanceRecord{ID: 1, Status: constants.RecordPending}, nil)
		f.records.On("UpdateStatus", mock.Anything, mock.Anything, uint64(1), constants.RecordScheduled).Return(nil)

		_, err := f.service.ChangeStatus(ctx, 1, constants.RecordScheduled)
		require.NoError(t, err)
		f.records.AssertCalled(t, "UpdateStatus", mock.Anything, mock.Anything, uint64(1), constants.RecordScheduled)
		assert.Equal(t, []string{events.EntityChangedEventName}, f.bus.names())
	})
}

func TestMaintenanceService_PlanProjection(t *testing.T) {
	ctx := context.Background()
	interval := 12
	d := dto.PlanProjectionDTO{EquipmentID: 5, TemplateID: 9, DueDate: "2026-06-01"}

	t.Run("шаблон без интервала", func(t *testing.T) {
		f := newMaintenanceFixture()
		f.templates.On("FindByID", mock.Anything, mock.Anything, uint64(9)).
			Return(&entities.MaintenanceTemplate{ID: 9}, nil)

		_, _, err := f.service.PlanProjection(ctx, d)
		assert.ErrorIs(t, err, apperrors.ErrNoInterval)
	})

	t.Run("запись на этот день уже есть", func(t *testing.T) {
		f := newMaintenanceFixture()
		existing := &entities.MaintenanceRecord{ID: 42, EquipmentID: 5, TemplateID: 9, Status: constants.RecordScheduled}
		f.templates.On("FindByID", mock.Anything, mock.Anything, uint64(9)).
			Return(&entities.MaintenanceTemplate{ID: 9, IntervalMonths: &interval}, nil)
		f.equipment.On("FindByID", mock.Anything, mock.Anything, uint64(5)).Return(&entities.Equipment{ID: 5}, nil)
		f.records.On("FindByPairAndDay", mock.Anything, mock.Anything, uint64(5), uint64(9), mock.Anything).Return(existing, nil)
		f.records.On("FindByID", mock.Anything, mock.Anything, uint64(42)).Return(existing, nil)

		rec, created, err := f.service.PlanProjection(ctx, d)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, uint64(42), rec.ID)
		f.records.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, f.bus.names())
	})

	t.Run("создаёт geplant", func(t *testing.T) {
		f := newMaintenanceFixture()
		f.templates.On("FindByID", mock.Anything, mock.Anything, uint64(9)).
			Return(&entities.MaintenanceTemplate{ID: 9, IntervalMonths: &interval}, nil)
		f.equipment.On("FindByID", mock.Anything, mock.Anything, uint64(5)).Return(&entities.Equipment{ID: 5}, nil)
		f.records.On("FindByPairAndDay", mock.Anything, mock.Anything, uint64(5), uint64(9), mock.Anything).
			Return(nil, apperrors.ErrNotFound)
		f.records.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(r entities.MaintenanceRecord) bool {
			return r.Status == constants.RecordScheduled && r.DueDate.Format("2006-01-02") == "2026-06-01"
		})).Return(uint64(43), nil)
		f.records.On("FindByID", mock.Anything, mock.Anything, uint64(43)).
			Return(&entities.MaintenanceRecord{ID: 43, Status: constants.RecordScheduled}, nil)

		rec, created, err := f.service.PlanProjection(ctx, d)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, uint64(43), rec.ID)
		assert.Equal(t, 1, f.tx.calls)
	})
}

func TestMaintenanceService_CreateRecordCompletedRejected(t *testing.T) {
	f := newMaintenanceFixture()
	_, err := f.service.CreateRecord(context.Background(), dto.CreateRecordDTO{
		EquipmentID: 1, TemplateID: 2, DueDate: "2026-01-01", Status: constants.RecordCompleted,
	})
	assert.ErrorIs(t, err, apperrors.ErrDocumentationRequired)
}

func TestMaintenanceService_ListRecordsEmpty(t *testing.T) {
	f := newMaintenanceFixture()
	f.records.On("List", mock.Anything, repositories.RecordScope{}).Return([]entities.MaintenanceRecord{}, nil)

	page, err := f.service.ListRecords(context.Background(), types.Filter{})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), page.Total)
	assert.Equal(t, MessageNoRecords, page.Message)
	assert.NotNil(t, page.Records)
}

func TestDocumentationFileName(t *testing.T) {
	name := DocumentationFileName(12, time.UnixMilli(1700000000123), ".jpg")
	assert.Equal(t, "maintenance-12-1700000000123.jpg", name)
}

func TestMaintenanceService_SubscriptionURL(t *testing.T) {
	f := newMaintenanceFixture()
	assert.Equal(t, "webcal://fw.example.de/api/maintenance/calendar.ics", f.service.SubscriptionURL(""))
	assert.Equal(t, "webcal://fw.example.de/api/maintenance/calendar.ics?status=geplant",
		f.service.SubscriptionURL("status=geplant"))
}

func TestMaintenanceService_ResetToPlanned(t *testing.T) {
	ctx := context.Background()
	f := newMaintenanceFixture()
	photo := strPtr("/uploads/maintenance/maintenance-9-1700000000000.jpg")
	done := &entities.MaintenanceRecord{ID: 9, Status: constants.RecordCompleted, DocumentationImageURL: photo}
	planned := &entities.MaintenanceRecord{ID: 9, Status: constants.RecordScheduled}

	f.records.On("FindByID", mock.Anything, mock.Anything, uint64(9)).Return(done, nil).Once()
	f.records.On("ResetToPlanned", mock.Anything, mock.Anything, uint64(9)).Return(nil).Once()
	f.records.On("FindByID", mock.Anything, mock.Anything, uint64(9)).Return(planned, nil).Once()

	rec, err := f.service.ResetToPlanned(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, constants.RecordScheduled, rec.Status)
	assert.Nil(t, rec.DocumentationImageURL)
	assert.Equal(t, []string{*photo}, f.files.deleted)
	assert.Equal(t, []string{events.EntityChangedEventName}, f.bus.names())
	f.records.AssertExpectations(t)
}

func TestMaintenanceService_ResetToPlannedRepoError(t *testing.T) {
	f := newMaintenanceFixture()
	photo := strPtr("/uploads/maintenance/maintenance-9-1.jpg")
	f.records.On("FindByID", mock.Anything, mock.Anything, uint64(9)).
		Return(&entities.MaintenanceRecord{ID: 9, Status: constants.RecordCompleted, DocumentationImageURL: photo}, nil)
	f.records.On("ResetToPlanned", mock.Anything, mock.Anything, uint64(9)).Return(apperrors.ErrNotFound)

	_, err := f.service.ResetToPlanned(context.Background(), 9)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Empty(t, f.files.deleted)
	assert.Empty(t, f.bus.names())
}
