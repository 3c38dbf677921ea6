package checksession

import (
	"testing"
	"time"

	"geraetewart/internal/entities"
	apperrors "geraetewart/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 4, 10, 0, 0, 0, time.UTC)

func str(s string) *string { return &s }

func newSession() *Session {
	return New("s-1",
		entities.MaintenanceTemplate{ID: 9, Name: "Fahrzeugbeladung HLF"},
		[]entities.TemplateEquipmentItem{
			{EquipmentID: 1, EquipmentName: "Hohlstrahlrohr", Barcode: str("HR-1")},
			{EquipmentID: 2, EquipmentName: "Verteiler", Barcode: str("VT-1")},
			{EquipmentID: 3, EquipmentName: "Standrohr", Barcode: str("SR-1")},
		},
		"user-1", now)
}

func TestSession_StartSetsFirstItem(t *testing.T) {
	s := newSession()
	assert.Equal(t, StateNotStarted, s.State)
	assert.Nil(t, s.CurrentItem())

	require.NoError(t, s.Start(now))
	assert.Equal(t, StateInProgress, s.State)
	require.NotNil(t, s.CurrentItem())
	assert.Equal(t, uint64(1), s.CurrentItem().EquipmentID)
}

func TestSession_ScanRequiresStart(t *testing.T) {
	s := newSession()
	_, err := s.Scan("HR-1", false, now)
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestSession_ScanCurrentAdvances(t *testing.T) {
	s := newSession()
	require.NoError(t, s.Start(now))

	item, err := s.Scan(" hr-1 ", false, now)
	require.NoError(t, err)
	assert.Equal(t, ItemPresent, item.State)
	assert.NotNil(t, item.CheckedAt)
	assert.Equal(t, uint64(2), s.CurrentItem().EquipmentID)
}

func TestSession_ScanOtherItemOutsideScanMode(t *testing.T) {
	s := newSession()
	require.NoError(t, s.Start(now))

	_, err := s.Scan("SR-1", false, now)
	assert.ErrorIs(t, err, ErrWrongItem)
	assert.Equal(t, ItemUnchecked, s.Items[2].State)
}

func TestSession_ScanModeMarksAnyKnownItem(t *testing.T) {
	s := newSession()
	require.NoError(t, s.Start(now))

	item, err := s.Scan("SR-1", true, now)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), item.EquipmentID)
	assert.Equal(t, ItemPresent, item.State)
	// курсор не двигается, если отмечена не текущая позиция
	assert.Equal(t, uint64(1), s.CurrentItem().EquipmentID)
}

func TestSession_ScanUnknownBarcode(t *testing.T) {
	s := newSession()
	require.NoError(t, s.Start(now))

	_, err := s.Scan("XX-9", true, now)
	assert.ErrorIs(t, err, apperrors.ErrUnknownBarcode)
}

func TestSession_AutoAdvanceSkipsChecked(t *testing.T) {
	s := newSession()
	require.NoError(t, s.Start(now))

	_, err := s.Scan("VT-1", true, now)
	require.NoError(t, err)
	_, err = s.Scan("HR-1", false, now)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), s.CurrentItem().EquipmentID)

	_, err = s.Scan("SR-1", false, now)
	require.NoError(t, err)
	assert.Nil(t, s.CurrentItem())

	_, err = s.Scan("SR-1", false, now)
	assert.ErrorIs(t, err, apperrors.ErrNoCurrentItem)
}

func TestSession_MarkAndWalk(t *testing.T) {
	s := newSession()
	require.NoError(t, s.Start(now))

	_, err := s.Mark(1, ItemReplaced, now)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), s.CurrentItem().EquipmentID)

	require.NoError(t, s.Advance(now))
	assert.Equal(t, uint64(3), s.CurrentItem().EquipmentID)
	require.NoError(t, s.Advance(now))
	assert.Equal(t, uint64(3), s.CurrentItem().EquipmentID)

	require.NoError(t, s.Back(now))
	require.NoError(t, s.Back(now))
	require.NoError(t, s.Back(now))
	assert.Equal(t, uint64(1), s.CurrentItem().EquipmentID)

	_, err = s.Mark(99, ItemPresent, now)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = s.Mark(2, ItemState("lost"), now)
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestSession_CompleteNeedsConfirmation(t *testing.T) {
	s := newSession()
	require.NoError(t, s.Start(now))
	_, err := s.Scan("HR-1", false, now)
	require.NoError(t, err)

	_, err = s.Complete(false, now)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUncheckedItems)
	count, ok := IsUncheckedItems(err)
	assert.True(t, ok)
	assert.Equal(t, 2, count)
	assert.Equal(t, StateInProgress, s.State)

	out, err := s.Complete(true, now)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, s.State)
	assert.Equal(t, uint64(9), out.TemplateID)
	assert.Equal(t, []uint64{2, 3}, out.Missing)
	assert.Equal(t, []uint64{1}, out.Checked)
	assert.Equal(t, Summary{Total: 3, Missing: 2, Present: 1}, s.Summary())
}

func TestSession_CompleteAllChecked(t *testing.T) {
	s := newSession()
	require.NoError(t, s.Start(now))
	_, _ = s.Mark(1, ItemPresent, now)
	_, _ = s.Mark(2, ItemReplaced, now)
	_, _ = s.Mark(3, ItemMissing, now)

	out, err := s.Complete(false, now)
	require.NoError(t, err)
	assert.Equal(t, []uint64{3}, out.Missing)
	assert.Equal(t, []uint64{1, 2}, out.Checked)

	_, err = s.Complete(true, now)
	assert.ErrorIs(t, err, apperrors.ErrSessionClosed)
	assert.ErrorIs(t, s.Cancel(now), apperrors.ErrSessionClosed)
}

func TestSession_Cancel(t *testing.T) {
	s := newSession()
	require.NoError(t, s.Cancel(now))
	assert.Equal(t, StateCancelled, s.State)
	require.NoError(t, s.Cancel(now))

	assert.ErrorIs(t, s.Start(now), apperrors.ErrSessionClosed)
	_, err := s.Scan("HR-1", true, now)
	assert.ErrorIs(t, err, apperrors.ErrSessionClosed)
}

func TestSession_EmptyTemplate(t *testing.T) {
	s := New("s-2", entities.MaintenanceTemplate{ID: 1}, nil, "user-1", now)
	require.NoError(t, s.Start(now))
	assert.Nil(t, s.CurrentItem())

	out, err := s.Complete(false, now)
	require.NoError(t, err)
	assert.Empty(t, out.Missing)
	assert.Empty(t, out.Checked)
}
