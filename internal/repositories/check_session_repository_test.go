package repositories

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"geraetewart/internal/checksession"
	"geraetewart/internal/entities"
	apperrors "geraetewart/pkg/errors"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() *checksession.Session {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	barcode := "4001"
	return checksession.New("abc", entities.MaintenanceTemplate{ID: 7, Name: "HLF Beladung"},
		[]entities.TemplateEquipmentItem{{TemplateID: 7, EquipmentID: 1, EquipmentName: "Schlauch C", InventoryNumber: "S-1", Barcode: &barcode}},
		"user-1", now)
}

func TestCheckSessionRepository_SaveAndGet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewCheckSessionRepository(NewRedisCacheRepository(db))
	ctx := context.Background()

	s := newTestSession()
	data, err := json.Marshal(s)
	require.NoError(t, err)

	mock.ExpectSet("check_session:abc", string(data), CheckSessionTTL).SetVal("OK")
	require.NoError(t, repo.Save(ctx, s))

	mock.ExpectGet("check_session:abc").SetVal(string(data))
	got, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), got.TemplateID)
	assert.Equal(t, checksession.StateNotStarted, got.State)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Schlauch C", got.Items[0].Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckSessionRepository_GetMissing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewCheckSessionRepository(NewRedisCacheRepository(db))

	mock.ExpectGet("check_session:gone").RedisNil()
	_, err := repo.Get(context.Background(), "gone")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckSessionRepository_GetCorrupted(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewCheckSessionRepository(NewRedisCacheRepository(db))

	mock.ExpectGet("check_session:bad").SetVal("{not json")
	_, err := repo.Get(context.Background(), "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCheckSessionRepository_Delete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewCheckSessionRepository(NewRedisCacheRepository(db))

	mock.ExpectDel("check_session:abc").SetVal(1)
	assert.NoError(t, repo.Delete(context.Background(), "abc"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
