package services

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"geraetewart/internal/checksession"
	"geraetewart/internal/entities"
	"geraetewart/internal/planning"
	"geraetewart/internal/repositories"
	apperrors "geraetewart/pkg/errors"
	"geraetewart/pkg/eventbus"
	"geraetewart/pkg/notifier"
	"geraetewart/pkg/types"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// Встроенный интерфейс оставлен nil: неожиданный вызов упадёт паникой.

type mockRecordRepo struct {
	repositories.MaintenanceRecordRepositoryInterface
	mock.Mock
}

func (m *mockRecordRepo) List(ctx context.Context, scope repositories.RecordScope) ([]entities.MaintenanceRecord, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).([]entities.MaintenanceRecord), args.Error(1)
}

func (m *mockRecordRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRecord, error) {
	args := m.Called(ctx, tx, id)
	rec, _ := args.Get(0).(*entities.MaintenanceRecord)
	return rec, args.Error(1)
}

func (m *mockRecordRepo) FindByPairAndDay(ctx context.Context, tx pgx.Tx, equipmentID, templateID uint64, day time.Time) (*entities.MaintenanceRecord, error) {
	args := m.Called(ctx, tx, equipmentID, templateID, day)
	rec, _ := args.Get(0).(*entities.MaintenanceRecord)
	return rec, args.Error(1)
}

func (m *mockRecordRepo) Create(ctx context.Context, tx pgx.Tx, rec entities.MaintenanceRecord) (uint64, error) {
	args := m.Called(ctx, tx, rec)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *mockRecordRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status string) error {
	return m.Called(ctx, tx, id, status).Error(0)
}

func (m *mockRecordRepo) Complete(ctx context.Context, tx pgx.Tx, id uint64, performedBy uint64, performedDate time.Time, minutesSpent *int, notes *string) error {
	return m.Called(ctx, tx, id, performedBy, performedDate, minutesSpent, notes).Error(0)
}

func (m *mockRecordRepo) ResetToPlanned(ctx context.Context, tx pgx.Tx, id uint64) error {
	return m.Called(ctx, tx, id).Error(0)
}

type mockTemplateRepo struct {
	repositories.TemplateRepositoryInterface
	mock.Mock
}

func (m *mockTemplateRepo) GetAll(ctx context.Context, filter types.Filter) ([]*entities.MaintenanceTemplate, uint64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*entities.MaintenanceTemplate), args.Get(1).(uint64), args.Error(2)
}

func (m *mockTemplateRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceTemplate, error) {
	args := m.Called(ctx, tx, id)
	tpl, _ := args.Get(0).(*entities.MaintenanceTemplate)
	return tpl, args.Error(1)
}

func (m *mockTemplateRepo) Items(ctx context.Context, tx pgx.Tx, templateID uint64) ([]*entities.TemplateEquipmentItem, error) {
	args := m.Called(ctx, tx, templateID)
	return args.Get(0).([]*entities.TemplateEquipmentItem), args.Error(1)
}

func (m *mockTemplateRepo) RemoveItems(ctx context.Context, tx pgx.Tx, templateID uint64, equipmentIDs []uint64) (int64, error) {
	args := m.Called(ctx, tx, templateID, equipmentIDs)
	return args.Get(0).(int64), args.Error(1)
}

type mockEquipmentRepo struct {
	repositories.EquipmentRepositoryInterface
	mock.Mock
}

func (m *mockEquipmentRepo) GetAll(ctx context.Context, filter types.Filter) ([]*entities.Equipment, uint64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*entities.Equipment), args.Get(1).(uint64), args.Error(2)
}

func (m *mockEquipmentRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	args := m.Called(ctx, tx, id)
	eq, _ := args.Get(0).(*entities.Equipment)
	return eq, args.Error(1)
}

func (m *mockEquipmentRepo) StatusCounts(ctx context.Context) ([]entities.EquipmentStatusCount, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).([]entities.EquipmentStatusCount)
	return counts, args.Error(1)
}

func (m *mockEquipmentRepo) SetLastCheckDate(ctx context.Context, tx pgx.Tx, ids []uint64, date time.Time) error {
	return m.Called(ctx, tx, ids, date).Error(0)
}

// fakeTxManager вызывает fn с nil-транзакцией и считает вызовы.
type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	f.calls++
	return fn(nil)
}

// memorySessions - хранилище сессий проверки в памяти.
type memorySessions struct {
	mu    sync.Mutex
	items map[string][]byte
	saves int
}

func newMemorySessions() *memorySessions {
	return &memorySessions{items: make(map[string][]byte)}
}

func (m *memorySessions) Save(_ context.Context, s *checksession.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.items[s.ID] = data
	m.saves++
	return nil
}

func (m *memorySessions) Get(_ context.Context, id string) (*checksession.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	var s checksession.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *memorySessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

// memoryFiles запоминает удалённые пути вместо работы с диском.
type memoryFiles struct {
	mu      sync.Mutex
	deleted []string
}

func (f *memoryFiles) Save(_ io.Reader, originalFileName string, prefix string) (string, error) {
	return "/uploads/" + prefix + "/" + originalFileName, nil
}

func (f *memoryFiles) SaveAs(_ io.Reader, fileName string, prefix string) (string, error) {
	return "/uploads/" + prefix + "/" + fileName, nil
}

func (f *memoryFiles) Delete(filePath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, filePath)
	return nil
}

type recordingBus struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (b *recordingBus) Publish(_ context.Context, event eventbus.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Name())
	}
	return out
}

type staticSettings struct {
	value entities.Settings
}

func (s *staticSettings) Get(context.Context) (entities.Settings, error) { return s.value, nil }

func (s *staticSettings) Update(_ context.Context, v entities.Settings) (entities.Settings, error) {
	s.value = v
	return v, nil
}

func (s *staticSettings) Subscribe(SettingsListener) func() { return func() {} }

type recordingNotifier struct {
	sent []notifier.Message
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, msg notifier.Message) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

type staticProjections struct {
	items []planning.Projection
}

func (p staticProjections) Projections(_ context.Context, f planning.ProjectionFilter) ([]planning.Projection, error) {
	return planning.FilterProjections(p.items, f), nil
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
