package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"geraetewart/internal/checksession"
	"geraetewart/internal/dto"
	"geraetewart/internal/entities"
	apperrors "geraetewart/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type checkFixture struct {
	service   *CheckSessionService
	sessions  *memorySessions
	templates *mockTemplateRepo
	equipment *mockEquipmentRepo
	tx        *fakeTxManager
	bus       *recordingBus
}

func newCheckFixture(t *testing.T) *checkFixture {
	t.Helper()
	f := &checkFixture{
		sessions:  newMemorySessions(),
		templates: &mockTemplateRepo{},
		equipment: &mockEquipmentRepo{},
		tx:        &fakeTxManager{},
		bus:       &recordingBus{},
	}
	f.service = NewCheckSessionService(f.tx, f.sessions, f.templates, f.equipment, f.bus, zap.NewNop())
	f.service.now = fixedClock(testNow)
	f.service.newID = func() string { return "sess-1" }

	f.templates.On("FindByID", mock.Anything, mock.Anything, uint64(4)).
		Return(&entities.MaintenanceTemplate{ID: 4, Name: "Atemschutz Monatsprüfung"}, nil)
	f.templates.On("Items", mock.Anything, mock.Anything, uint64(4)).Return([]*entities.TemplateEquipmentItem{
		{TemplateID: 4, EquipmentID: 10, EquipmentName: "PA 1", InventoryNumber: "AS-01", Barcode: strPtr("B10")},
		{TemplateID: 4, EquipmentID: 11, EquipmentName: "PA 2", InventoryNumber: "AS-02", Barcode: strPtr("B11")},
		{TemplateID: 4, EquipmentID: 12, EquipmentName: "PA 3", InventoryNumber: "AS-03", Barcode: strPtr("B12")},
	}, nil)
	return f
}

// startedSession: B10 отсканирован, PA 2 заменён, PA 3 не проверен.
func (f *checkFixture) startedSession(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := f.service.Create(ctx, 4)
	require.NoError(t, err)
	_, err = f.service.Start(ctx, "sess-1")
	require.NoError(t, err)
	_, err = f.service.Scan(ctx, "sess-1", dto.ScanDTO{Barcode: "B10"})
	require.NoError(t, err)
	_, err = f.service.Mark(ctx, "sess-1", dto.MarkItemDTO{EquipmentID: 11, State: string(checksession.ItemReplaced)})
	require.NoError(t, err)
}

func TestCheckSessionService_Flow(t *testing.T) {
	f := newCheckFixture(t)
	ctx := context.Background()

	created, err := f.service.Create(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", created.ID)
	assert.Equal(t, checksession.StateNotStarted, created.State)
	assert.Equal(t, 3, created.Summary.Total)

	started, err := f.service.Start(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, started.CurrentItem)
	assert.Equal(t, uint64(10), started.CurrentItem.EquipmentID)

	scanned, err := f.service.Scan(ctx, "sess-1", dto.ScanDTO{Barcode: "B10"})
	require.NoError(t, err)
	assert.Equal(t, 1, scanned.Summary.Present)
	assert.Equal(t, uint64(11), scanned.CurrentItem.EquipmentID)

	_, err = f.service.Scan(ctx, "sess-1", dto.ScanDTO{Barcode: "B12"})
	assert.ErrorIs(t, err, apperrors.ErrConflict, "без режима сканирования нужен штрихкод текущей позиции")

	_, err = f.service.Scan(ctx, "sess-1", dto.ScanDTO{Barcode: "XX"})
	assert.ErrorIs(t, err, apperrors.ErrUnknownBarcode)

	stored, err := f.service.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Summary.Present, "неудачные операции не меняют сохранённую сессию")
}

func TestCheckSessionService_CompleteRequiresConfirmation(t *testing.T) {
	f := newCheckFixture(t)
	f.startedSession(t)

	_, err := f.service.Complete(context.Background(), "sess-1", dto.CompleteCheckSessionDTO{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUncheckedItems)

	var httpErr *apperrors.HttpError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusConflict, httpErr.Code)
	assert.Equal(t, map[string]interface{}{"unchecked": 1}, httpErr.Details)
	assert.Equal(t, 0, f.tx.calls)
}

func TestCheckSessionService_CompleteWritesOutcome(t *testing.T) {
	f := newCheckFixture(t)
	f.startedSession(t)
	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	f.templates.On("RemoveItems", mock.Anything, mock.Anything, uint64(4), []uint64{12}).Return(int64(1), nil)
	f.equipment.On("SetLastCheckDate", mock.Anything, mock.Anything, []uint64{10, 11}, today).Return(nil)

	res, err := f.service.Complete(context.Background(), "sess-1", dto.CompleteCheckSessionDTO{MarkUncheckedMissing: true})
	require.NoError(t, err)
	assert.Equal(t, checksession.StateCompleted, res.State)
	assert.Equal(t, int64(1), res.LinksRemoved)
	assert.Equal(t, []uint64{12}, res.Outcome.Missing)
	assert.Equal(t, []uint64{10, 11}, res.Outcome.Checked)
	f.templates.AssertExpectations(t)
	f.equipment.AssertExpectations(t)

	stored, err := f.service.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, checksession.StateCompleted, stored.State)
	assert.Contains(t, f.bus.names(), "entity.changed")

	_, err = f.service.Scan(context.Background(), "sess-1", dto.ScanDTO{Barcode: "B12", ScanMode: true})
	assert.ErrorIs(t, err, apperrors.ErrSessionClosed)
}

func TestCheckSessionService_CompleteKeepsSessionOnFailure(t *testing.T) {
	f := newCheckFixture(t)
	f.startedSession(t)

	f.templates.On("RemoveItems", mock.Anything, mock.Anything, uint64(4), []uint64{12}).
		Return(int64(0), errors.New("connection reset"))

	_, err := f.service.Complete(context.Background(), "sess-1", dto.CompleteCheckSessionDTO{MarkUncheckedMissing: true})
	require.Error(t, err)
	f.equipment.AssertNotCalled(t, "SetLastCheckDate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	stored, err := f.service.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, checksession.StateInProgress, stored.State)
	assert.Equal(t, 1, stored.Summary.Unchecked)
}

func TestCheckSessionService_UnknownSession(t *testing.T) {
	f := newCheckFixture(t)
	_, err := f.service.Start(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCheckSessionService_CancelRemovesSession(t *testing.T) {
	f := newCheckFixture(t)
	ctx := context.Background()
	f.startedSession(t)

	cancelled, err := f.service.Cancel(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, checksession.StateCancelled, cancelled.State)
	assert.Nil(t, cancelled.CurrentItem)

	_, err = f.service.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	f.templates.AssertNotCalled(t, "RemoveItems", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 0, f.tx.calls)
}

func TestCheckSessionService_CancelCompletedRejected(t *testing.T) {
	f := newCheckFixture(t)
	ctx := context.Background()
	f.startedSession(t)
	f.templates.On("RemoveItems", mock.Anything, mock.Anything, uint64(4), mock.Anything).Return(int64(1), nil)
	f.equipment.On("SetLastCheckDate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	_, err := f.service.Complete(ctx, "sess-1", dto.CompleteCheckSessionDTO{MarkUncheckedMissing: true})
	require.NoError(t, err)

	_, err = f.service.Cancel(ctx, "sess-1")
	assert.ErrorIs(t, err, apperrors.ErrSessionClosed)
	_, err = f.service.Get(ctx, "sess-1")
	assert.NoError(t, err)
}
