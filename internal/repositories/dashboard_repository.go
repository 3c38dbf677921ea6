package repositories

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// CountByGroup - строка агрегата "метка -> количество".
type CountByGroup struct {
	Label string `json:"label"`
	Count uint64 `json:"count"`
}

// MonthlyWork - выполненные работы и затраченное время за месяц.
type MonthlyWork struct {
	Month     string `json:"month"`
	Completed uint64 `json:"completed"`
	Minutes   uint64 `json:"minutes"`
}

type DashboardRepositoryInterface interface {
	RecordCountsByStatus(ctx context.Context) ([]CountByGroup, error)
	MonthlyWork(ctx context.Context, since time.Time) ([]MonthlyWork, error)
	MissionCountsByType(ctx context.Context, since time.Time) ([]CountByGroup, error)
}

type DashboardRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDashboardRepository(storage *pgxpool.Pool, logger *zap.Logger) DashboardRepositoryInterface {
	return &DashboardRepository{storage: storage, logger: logger}
}

func (r *DashboardRepository) countByGroup(ctx context.Context, b sq.SelectBuilder) ([]CountByGroup, error) {
	query, args, err := b.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса агрегата: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения агрегата: %w", err)
	}
	defer rows.Close()

	out := make([]CountByGroup, 0)
	for rows.Next() {
		var c CountByGroup
		if err := rows.Scan(&c.Label, &c.Count); err != nil {
			return nil, fmt.Errorf("ошибка сканирования агрегата: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *DashboardRepository) RecordCountsByStatus(ctx context.Context) ([]CountByGroup, error) {
	return r.countByGroup(ctx, sq.Select("status", "COUNT(*)").
		From("maintenance_records").
		GroupBy("status").
		OrderBy("status"))
}

func (r *DashboardRepository) MissionCountsByType(ctx context.Context, since time.Time) ([]CountByGroup, error) {
	return r.countByGroup(ctx, sq.Select("type", "COUNT(*)").
		From("missions").
		Where(sq.GtOrEq{"mission_date": since}).
		GroupBy("type").
		OrderBy("type"))
}

// MonthlyWork - выполненные работы по месяцам выполнения, начиная с since.
func (r *DashboardRepository) MonthlyWork(ctx context.Context, since time.Time) ([]MonthlyWork, error) {
	query, args, err := sq.Select(
		"TO_CHAR(DATE_TRUNC('month', performed_date), 'YYYY-MM') AS month",
		"COUNT(*)",
		"COALESCE(SUM(minutes_spent), 0)",
	).From("maintenance_records").
		Where(sq.Eq{"status": "abgeschlossen"}).
		Where(sq.GtOrEq{"performed_date": since}).
		GroupBy("month").
		OrderBy("month").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса MonthlyWork: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения MonthlyWork: %w", err)
	}
	defer rows.Close()

	out := make([]MonthlyWork, 0)
	for rows.Next() {
		var m MonthlyWork
		if err := rows.Scan(&m.Month, &m.Completed, &m.Minutes); err != nil {
			return nil, fmt.Errorf("ошибка сканирования MonthlyWork: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
