package services

import (
	"context"
	"time"

	"geraetewart/internal/dto"
	"geraetewart/internal/planning"
	"geraetewart/internal/repositories"
	"geraetewart/pkg/types"

	"go.uber.org/zap"
)

// dashboardUpcomingLimit - сколько ближайших сроков показывать на дашборде.
const dashboardUpcomingLimit = 10

type PlanningServiceInterface interface {
	Projections(ctx context.Context, filter planning.ProjectionFilter) ([]planning.Projection, error)
	Overview(ctx context.Context, filter planning.ProjectionFilter) (*dto.PlanningDTO, error)
	Dashboard(ctx context.Context) (*dto.DashboardDTO, error)
}

type PlanningService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	templateRepo  repositories.TemplateRepositoryInterface
	recordRepo    repositories.MaintenanceRecordRepositoryInterface
	dashboardRepo repositories.DashboardRepositoryInterface
	settings      SettingsServiceInterface
	logger        *zap.Logger
	now           Clock
}

func NewPlanningService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	templateRepo repositories.TemplateRepositoryInterface,
	recordRepo repositories.MaintenanceRecordRepositoryInterface,
	dashboardRepo repositories.DashboardRepositoryInterface,
	settings SettingsServiceInterface,
	logger *zap.Logger,
) *PlanningService {
	return &PlanningService{
		equipmentRepo: equipmentRepo,
		templateRepo:  templateRepo,
		recordRepo:    recordRepo,
		dashboardRepo: dashboardRepo,
		settings:      settings,
		logger:        logger,
		now:           systemClock,
	}
}

// allRows - фильтр без пагинации для полной выборки.
var allRows = types.Filter{}

// Projections строит прогноз по всему оборудованию и применяет фильтр.
func (s *PlanningService) Projections(ctx context.Context, filter planning.ProjectionFilter) ([]planning.Projection, error) {
	equipment, _, err := s.equipmentRepo.GetAll(ctx, allRows)
	if err != nil {
		return nil, err
	}
	templates, _, err := s.templateRepo.GetAll(ctx, allRows)
	if err != nil {
		return nil, err
	}
	records, err := s.recordRepo.List(ctx, repositories.RecordScope{})
	if err != nil {
		return nil, err
	}

	dueSoon := planning.DefaultDueSoonDays
	if settings, err := s.settings.Get(ctx); err == nil {
		dueSoon = settings.Planning.DueSoonDays
	} else {
		s.logger.Warn("Настройки недоступны, окно 'скоро' по умолчанию", zap.Error(err))
	}

	projections := planning.NewProjector(dueSoon).Project(derefAll(equipment), derefAll(templates), records, s.now())
	return planning.FilterProjections(projections, filter), nil
}

func (s *PlanningService) Overview(ctx context.Context, filter planning.ProjectionFilter) (*dto.PlanningDTO, error) {
	projections, err := s.Projections(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.PlanningDTO{
		Projections: make([]dto.ProjectionDTO, 0, len(projections)),
		Counts:      planning.CountBuckets(projections),
	}
	for _, p := range projections {
		out.Projections = append(out.Projections, dto.NewProjectionDTO(p))
	}
	return out, nil
}

func (s *PlanningService) Dashboard(ctx context.Context) (*dto.DashboardDTO, error) {
	projections, err := s.Projections(ctx, planning.DefaultProjectionFilter())
	if err != nil {
		return nil, err
	}
	statusCounts, err := s.equipmentRepo.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	recordCounts, err := s.dashboardRepo.RecordCountsByStatus(ctx)
	if err != nil {
		return nil, err
	}

	yearAgo := s.now().AddDate(-1, 0, 0)
	monthly, err := s.dashboardRepo.MonthlyWork(ctx, yearAgo)
	if err != nil {
		return nil, err
	}
	missions, err := s.dashboardRepo.MissionCountsByType(ctx, yearAgo)
	if err != nil {
		return nil, err
	}

	upcoming := make([]dto.ProjectionDTO, 0, dashboardUpcomingLimit)
	for _, p := range projections {
		if len(upcoming) == dashboardUpcomingLimit {
			break
		}
		upcoming = append(upcoming, dto.NewProjectionDTO(p))
	}

	return &dto.DashboardDTO{
		EquipmentByStatus: statusCounts,
		Buckets:           planning.CountBuckets(projections),
		RecordsByStatus:   recordCounts,
		MonthlyWork:       monthly,
		MissionsByType:    missions,
		Upcoming:          upcoming,
	}, nil
}

func derefAll[T any](items []*T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it != nil {
			out = append(out, *it)
		}
	}
	return out
}

// today - начало текущего дня.
func today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
