package repositories

import (
	"context"
	"fmt"
	"time"

	"geraetewart/internal/entities"
	"geraetewart/pkg/constants"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	recordTable  = "maintenance_records"
	recordFields = `r.id, r.equipment_id, r.template_id, r.due_date, r.status, r.performed_date, r.performed_by,
		r.minutes_spent, r.notes, r.documentation_image_url, r.created_at, r.updated_at,
		e.name, e.barcode, e.inventory_number, e.category_id, e.responsible_person_id,
		t.name, t.responsible_person_id, tp.email,
		CASE WHEN pp.id IS NULL THEN NULL ELSE pp.first_name || ' ' || pp.last_name END`
)

// RecordScope сужает выборку на стороне БД; тонкая фильтрация делается в planning.
type RecordScope struct {
	EquipmentID *uint64
	TemplateID  *uint64
}

type MaintenanceRecordRepositoryInterface interface {
	List(ctx context.Context, scope RecordScope) ([]entities.MaintenanceRecord, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRecord, error)
	FindByPairAndDay(ctx context.Context, tx pgx.Tx, equipmentID, templateID uint64, day time.Time) (*entities.MaintenanceRecord, error)
	Create(ctx context.Context, tx pgx.Tx, rec entities.MaintenanceRecord) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, rec entities.MaintenanceRecord) error
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status string) error
	Complete(ctx context.Context, tx pgx.Tx, id uint64, performedBy uint64, performedDate time.Time, minutesSpent *int, notes *string) error
	ResetToPlanned(ctx context.Context, tx pgx.Tx, id uint64) error
	SetDocumentation(ctx context.Context, tx pgx.Tx, id uint64, url *string) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type maintenanceRecordRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewMaintenanceRecordRepository(storage *pgxpool.Pool, logger *zap.Logger) MaintenanceRecordRepositoryInterface {
	return &maintenanceRecordRepository{storage: storage, logger: logger}
}

func (r *maintenanceRecordRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func recordSelect() sq.SelectBuilder {
	return psql.Select(recordFields).
		From(recordTable + " r").
		Join("equipment e ON e.id = r.equipment_id").
		Join("maintenance_templates t ON t.id = r.template_id").
		LeftJoin("persons tp ON tp.id = t.responsible_person_id").
		LeftJoin("persons pp ON pp.id = r.performed_by")
}

func (r *maintenanceRecordRepository) scanRow(row pgx.Row) (*entities.MaintenanceRecord, error) {
	var rec entities.MaintenanceRecord
	err := row.Scan(
		&rec.ID, &rec.EquipmentID, &rec.TemplateID, &rec.DueDate, &rec.Status, &rec.PerformedDate, &rec.PerformedBy,
		&rec.MinutesSpent, &rec.Notes, &rec.DocumentationImageURL, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.EquipmentName, &rec.EquipmentBarcode, &rec.InventoryNumber, &rec.EquipmentCategoryID, &rec.EquipmentResponsibleID,
		&rec.TemplateName, &rec.TemplateResponsibleID, &rec.TemplateResponsibleEmail,
		&rec.PerformerName,
	)
	if err != nil {
		return nil, mapReadError(err, recordTable)
	}
	return &rec, nil
}

func (r *maintenanceRecordRepository) List(ctx context.Context, scope RecordScope) ([]entities.MaintenanceRecord, error) {
	b := recordSelect()
	if scope.EquipmentID != nil {
		b = b.Where(sq.Eq{"r.equipment_id": *scope.EquipmentID})
	}
	if scope.TemplateID != nil {
		b = b.Where(sq.Eq{"r.template_id": *scope.TemplateID})
	}
	query, args, err := b.OrderBy("r.due_date DESC", "r.id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса List: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки maintenance_records: %w", err)
	}
	items, err := collect(rows, r.scanRow)
	if err != nil {
		return nil, err
	}
	out := make([]entities.MaintenanceRecord, 0, len(items))
	for _, it := range items {
		out = append(out, *it)
	}
	return out, nil
}

func (r *maintenanceRecordRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRecord, error) {
	query, args, err := recordSelect().Where(sq.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса FindByID: %w", err)
	}
	return r.scanRow(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

// FindByPairAndDay ищет запись той же пары с плановой датой в тот же день.
func (r *maintenanceRecordRepository) FindByPairAndDay(ctx context.Context, tx pgx.Tx, equipmentID, templateID uint64, day time.Time) (*entities.MaintenanceRecord, error) {
	query, args, err := recordSelect().
		Where(sq.Eq{"r.equipment_id": equipmentID, "r.template_id": templateID}).
		Where(sq.Expr("r.due_date = ?::date", day.Format("2006-01-02"))).
		OrderBy("r.id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса FindByPairAndDay: %w", err)
	}
	return r.scanRow(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

func (r *maintenanceRecordRepository) Create(ctx context.Context, tx pgx.Tx, rec entities.MaintenanceRecord) (uint64, error) {
	query, args, err := psql.Insert(recordTable).
		Columns("equipment_id", "template_id", "due_date", "status", "performed_date", "performed_by", "minutes_spent", "notes", "documentation_image_url").
		Values(rec.EquipmentID, rec.TemplateID, rec.DueDate, rec.Status, rec.PerformedDate, rec.PerformedBy, rec.MinutesSpent, rec.Notes, rec.DocumentationImageURL).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}
	var id uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, mapWriteError(err, "maintenance record")
	}
	return id, nil
}

// Update меняет плановые поля; статус и выполнение меняются отдельными методами.
func (r *maintenanceRecordRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, rec entities.MaintenanceRecord) error {
	query, args, err := psql.Update(recordTable).
		Set("due_date", rec.DueDate).
		Set("minutes_spent", rec.MinutesSpent).
		Set("notes", rec.Notes).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update: %w", err)
	}
	return r.exec(ctx, tx, query, args)
}

func (r *maintenanceRecordRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status string) error {
	query, args, err := psql.Update(recordTable).
		Set("status", status).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса UpdateStatus: %w", err)
	}
	return r.exec(ctx, tx, query, args)
}

func (r *maintenanceRecordRepository) Complete(ctx context.Context, tx pgx.Tx, id uint64, performedBy uint64, performedDate time.Time, minutesSpent *int, notes *string) error {
	query, args, err := psql.Update(recordTable).
		Set("status", constants.RecordCompleted).
		Set("performed_by", performedBy).
		Set("performed_date", performedDate).
		Set("minutes_spent", minutesSpent).
		Set("notes", notes).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Complete: %w", err)
	}
	return r.exec(ctx, tx, query, args)
}

// ResetToPlanned очищает данные выполнения и возвращает статус "geplant".
func (r *maintenanceRecordRepository) ResetToPlanned(ctx context.Context, tx pgx.Tx, id uint64) error {
	query, args, err := psql.Update(recordTable).
		Set("status", constants.RecordScheduled).
		Set("performed_date", nil).
		Set("performed_by", nil).
		Set("minutes_spent", nil).
		Set("documentation_image_url", nil).
		Set("notes", nil).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса ResetToPlanned: %w", err)
	}
	return r.exec(ctx, tx, query, args)
}

func (r *maintenanceRecordRepository) SetDocumentation(ctx context.Context, tx pgx.Tx, id uint64, url *string) error {
	query, args, err := psql.Update(recordTable).
		Set("documentation_image_url", url).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса SetDocumentation: %w", err)
	}
	return r.exec(ctx, tx, query, args)
}

func (r *maintenanceRecordRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	query, args, err := psql.Delete(recordTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Delete: %w", err)
	}
	return r.exec(ctx, tx, query, args)
}

func (r *maintenanceRecordRepository) exec(ctx context.Context, tx pgx.Tx, query string, args []interface{}) error {
	tag, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "maintenance record")
	}
	return requireAffected(tag)
}
