package repositories

import (
	"context"
	"fmt"

	"geraetewart/internal/entities"
	"geraetewart/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	missionTable          = "missions"
	missionEquipmentTable = "mission_equipment"
	missionFields         = `m.id, m.type, m.title, m.mission_date, m.start_time, m.end_time, m.location, m.description,
		m.responsible_persons, m.created_at, m.updated_at,
		(SELECT COUNT(*) FROM mission_equipment me WHERE me.mission_id = m.id)`
	missionEquipmentFields = `me.id, me.mission_id, me.equipment_id, me.notes, me.created_at,
		e.name, e.inventory_number, m.title, m.type, m.mission_date`
)

var missionListSpec = listSpec{
	filters: map[string]string{
		"id":   "m.id",
		"type": "m.type",
	},
	search: []string{"m.title", "m.location", "m.description", "m.responsible_persons"},
	sort: map[string]string{
		"id":           "m.id",
		"title":        "m.title",
		"mission_date": "m.mission_date",
		"created_at":   "m.created_at",
	},
	defaultSort: "m.mission_date DESC, m.id DESC",
}

type MissionRepositoryInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]*entities.Mission, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Mission, error)
	Create(ctx context.Context, tx pgx.Tx, m entities.Mission) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, m entities.Mission) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error

	// Использование оборудования
	Equipment(ctx context.Context, missionID uint64) ([]*entities.MissionEquipment, error)
	EquipmentHistory(ctx context.Context, equipmentID uint64) ([]*entities.MissionEquipment, error)
	AddEquipment(ctx context.Context, tx pgx.Tx, missionID, equipmentID uint64, notes *string) (uint64, error)
	RemoveEquipment(ctx context.Context, tx pgx.Tx, missionID, entryID uint64) error
}

type missionRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewMissionRepository(storage *pgxpool.Pool, logger *zap.Logger) MissionRepositoryInterface {
	return &missionRepository{storage: storage, logger: logger}
}

func (r *missionRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func missionSelect(columns string) sq.SelectBuilder {
	return psql.Select(columns).From(missionTable + " m")
}

func (r *missionRepository) scanRow(row pgx.Row) (*entities.Mission, error) {
	var m entities.Mission
	err := row.Scan(&m.ID, &m.Type, &m.Title, &m.MissionDate, &m.StartTime, &m.EndTime, &m.Location, &m.Description,
		&m.ResponsiblePersons, &m.CreatedAt, &m.UpdatedAt, &m.EquipmentCount)
	if err != nil {
		return nil, mapReadError(err, missionTable)
	}
	return &m, nil
}

func scanMissionEquipment(row pgx.Row) (*entities.MissionEquipment, error) {
	var me entities.MissionEquipment
	err := row.Scan(&me.ID, &me.MissionID, &me.EquipmentID, &me.Notes, &me.CreatedAt,
		&me.EquipmentName, &me.InventoryNumber, &me.MissionTitle, &me.MissionType, &me.MissionDate)
	if err != nil {
		return nil, mapReadError(err, missionEquipmentTable)
	}
	return &me, nil
}

func (r *missionRepository) GetAll(ctx context.Context, filter types.Filter) ([]*entities.Mission, uint64, error) {
	rows, total, err := missionListSpec.list(ctx, r.storage, missionSelect, missionFields, filter)
	if err != nil {
		return nil, 0, err
	}
	items, err := collect(rows, r.scanRow)
	return items, total, err
}

func (r *missionRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Mission, error) {
	query, args, err := missionSelect(missionFields).Where(sq.Eq{"m.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса FindByID: %w", err)
	}
	return r.scanRow(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

func (r *missionRepository) Create(ctx context.Context, tx pgx.Tx, m entities.Mission) (uint64, error) {
	query, args, err := psql.Insert(missionTable).
		Columns("type", "title", "mission_date", "start_time", "end_time", "location", "description", "responsible_persons").
		Values(m.Type, m.Title, m.MissionDate, m.StartTime, m.EndTime, m.Location, m.Description, m.ResponsiblePersons).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}
	var id uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, mapWriteError(err, "mission")
	}
	return id, nil
}

func (r *missionRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, m entities.Mission) error {
	query, args, err := psql.Update(missionTable).
		Set("type", m.Type).
		Set("title", m.Title).
		Set("mission_date", m.MissionDate).
		Set("start_time", m.StartTime).
		Set("end_time", m.EndTime).
		Set("location", m.Location).
		Set("description", m.Description).
		Set("responsible_persons", m.ResponsiblePersons).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update: %w", err)
	}
	tag, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "mission")
	}
	return requireAffected(tag)
}

func (r *missionRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	query, args, err := psql.Delete(missionTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Delete: %w", err)
	}
	tag, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "mission")
	}
	return requireAffected(tag)
}

func missionEquipmentSelect() sq.SelectBuilder {
	return psql.Select(missionEquipmentFields).
		From(missionEquipmentTable + " me").
		Join("equipment e ON e.id = me.equipment_id").
		Join("missions m ON m.id = me.mission_id")
}

func (r *missionRepository) queryEquipment(ctx context.Context, b sq.SelectBuilder) ([]*entities.MissionEquipment, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса mission_equipment: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки mission_equipment: %w", err)
	}
	return collect(rows, scanMissionEquipment)
}

func (r *missionRepository) Equipment(ctx context.Context, missionID uint64) ([]*entities.MissionEquipment, error) {
	return r.queryEquipment(ctx, missionEquipmentSelect().
		Where(sq.Eq{"me.mission_id": missionID}).
		OrderBy("e.name ASC", "me.id ASC"))
}

// EquipmentHistory - где использовалось оборудование, свежие выезды сверху.
func (r *missionRepository) EquipmentHistory(ctx context.Context, equipmentID uint64) ([]*entities.MissionEquipment, error) {
	return r.queryEquipment(ctx, missionEquipmentSelect().
		Where(sq.Eq{"me.equipment_id": equipmentID}).
		OrderBy("m.mission_date DESC", "me.id DESC"))
}

func (r *missionRepository) AddEquipment(ctx context.Context, tx pgx.Tx, missionID, equipmentID uint64, notes *string) (uint64, error) {
	query, args, err := psql.Insert(missionEquipmentTable).
		Columns("mission_id", "equipment_id", "notes").
		Values(missionID, equipmentID, notes).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса AddEquipment: %w", err)
	}
	var id uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, mapWriteError(err, "mission equipment")
	}
	return id, nil
}

func (r *missionRepository) RemoveEquipment(ctx context.Context, tx pgx.Tx, missionID, entryID uint64) error {
	query, args, err := psql.Delete(missionEquipmentTable).
		Where(sq.Eq{"id": entryID, "mission_id": missionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса RemoveEquipment: %w", err)
	}
	tag, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "mission equipment")
	}
	return requireAffected(tag)
}
