package services

import (
	"context"
	"testing"
	"time"

	"geraetewart/internal/entities"
	"geraetewart/internal/planning"
	"geraetewart/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPlanningFixture(t *testing.T, dueSoonDays int) (*PlanningService, *mockRecordRepo) {
	t.Helper()
	interval := 12
	category := uint64(2)
	equipment := &mockEquipmentRepo{}
	templates := &mockTemplateRepo{}
	records := &mockRecordRepo{}

	equipment.On("GetAll", mock.Anything, mock.Anything).Return([]*entities.Equipment{
		{ID: 1, Name: "Hebekissen", InventoryNumber: "HK-1", CategoryID: &category},
		{ID: 2, Name: "Leiter", InventoryNumber: "L-1"},
	}, uint64(2), nil)
	templates.On("GetAll", mock.Anything, mock.Anything).Return([]*entities.MaintenanceTemplate{
		{ID: 7, Name: "Jahresprüfung", IntervalMonths: &interval, CategoryID: &category},
		{ID: 8, Name: "Ohne Intervall"},
	}, uint64(2), nil)

	settings := entities.DefaultSettings()
	settings.Planning.DueSoonDays = dueSoonDays
	svc := NewPlanningService(equipment, templates, records, nil, &staticSettings{value: settings}, zap.NewNop())
	svc.now = fixedClock(testNow)
	return svc, records
}

func TestPlanningService_Projections(t *testing.T) {
	svc, records := newPlanningFixture(t, 30)
	performed := testNow.AddDate(-1, 0, 10)
	records.On("List", mock.Anything, repositories.RecordScope{}).Return([]entities.MaintenanceRecord{
		{ID: 3, EquipmentID: 1, TemplateID: 7, DueDate: performed, PerformedDate: &performed},
	}, nil)

	got, err := svc.Projections(context.Background(), planning.DefaultProjectionFilter())
	require.NoError(t, err)
	require.Len(t, got, 1, "шаблон с категорией подходит только оборудованию этой категории")
	assert.Equal(t, uint64(1), got[0].Equipment.ID)
	assert.Equal(t, 10, got[0].DaysRemaining)
	assert.Equal(t, planning.BucketDueSoon, got[0].Bucket)
}

func TestPlanningService_DueSoonWindowFromSettings(t *testing.T) {
	svc, records := newPlanningFixture(t, 5)
	performed := testNow.AddDate(-1, 0, 10)
	records.On("List", mock.Anything, repositories.RecordScope{}).Return([]entities.MaintenanceRecord{
		{ID: 3, EquipmentID: 1, TemplateID: 7, DueDate: performed, PerformedDate: &performed},
	}, nil)

	overview, err := svc.Overview(context.Background(), planning.DefaultProjectionFilter())
	require.NoError(t, err)
	require.Len(t, overview.Projections, 1)
	assert.Equal(t, 1, overview.Counts[planning.BucketPlanned])
	assert.Equal(t, 0, overview.Counts[planning.BucketDueSoon])
}

func TestPlanningService_NoHistoryStartsToday(t *testing.T) {
	svc, records := newPlanningFixture(t, 30)
	records.On("List", mock.Anything, repositories.RecordScope{}).Return([]entities.MaintenanceRecord{}, nil)

	got, err := svc.Projections(context.Background(), planning.DefaultProjectionFilter())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].NextDue.Equal(today(testNow).AddDate(1, 0, 0)))
	assert.Equal(t, planning.BucketPlanned, got[0].Bucket)
}

type fakeDashboard struct {
	since time.Time
}

func (f *fakeDashboard) RecordCountsByStatus(context.Context) ([]repositories.CountByGroup, error) {
	return []repositories.CountByGroup{{Label: "geplant", Count: 4}}, nil
}

func (f *fakeDashboard) MonthlyWork(_ context.Context, since time.Time) ([]repositories.MonthlyWork, error) {
	f.since = since
	return []repositories.MonthlyWork{{Month: "2026-02", Completed: 3, Minutes: 90}}, nil
}

func (f *fakeDashboard) MissionCountsByType(context.Context, time.Time) ([]repositories.CountByGroup, error) {
	return []repositories.CountByGroup{{Label: "einsatz", Count: 2}}, nil
}

func TestPlanningService_Dashboard(t *testing.T) {
	svc, records := newPlanningFixture(t, 30)
	records.On("List", mock.Anything, repositories.RecordScope{}).Return([]entities.MaintenanceRecord{}, nil)
	svc.equipmentRepo.(*mockEquipmentRepo).On("StatusCounts", mock.Anything).Return([]entities.EquipmentStatusCount{
		{Status: "einsatzbereit", Count: 1},
		{Status: "defekt", Count: 1},
	}, nil)
	dashboard := &fakeDashboard{}
	svc.dashboardRepo = dashboard

	got, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Len(t, got.EquipmentByStatus, 2)
	assert.Equal(t, 1, got.Buckets[planning.BucketPlanned])
	assert.Equal(t, 0, got.Buckets[planning.BucketOverdue])
	require.Len(t, got.Upcoming, 1)
	assert.Equal(t, uint64(1), got.Upcoming[0].EquipmentID)
	assert.True(t, dashboard.since.Equal(testNow.AddDate(-1, 0, 0)))
}
