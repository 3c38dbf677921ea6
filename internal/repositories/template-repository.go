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
	templateTable          = "maintenance_templates"
	templateEquipmentTable = "template_equipment"
	templateFields         = `t.id, t.name, t.description, t.interval_months, t.category_id, t.responsible_person_id,
		t.checklist_url, t.estimated_minutes, t.created_at, t.updated_at,
		c.name, CASE WHEN p.id IS NULL THEN NULL ELSE p.first_name || ' ' || p.last_name END, p.email,
		(SELECT COUNT(*) FROM template_equipment te WHERE te.template_id = t.id)`
	templateItemFields = "te.template_id, e.id, e.name, e.inventory_number, e.barcode, l.name"
)

var templateListSpec = listSpec{
	filters: map[string]string{
		"id":          "t.id",
		"category_id": "t.category_id",
		"person_id":   "t.responsible_person_id",
	},
	search: []string{"t.name", "t.description"},
	sort: map[string]string{
		"id":              "t.id",
		"name":            "t.name",
		"interval_months": "t.interval_months",
		"created_at":      "t.created_at",
	},
	defaultSort: "t.name ASC",
}

type TemplateRepositoryInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]*entities.MaintenanceTemplate, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceTemplate, error)
	Create(ctx context.Context, tx pgx.Tx, t entities.MaintenanceTemplate) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, t entities.MaintenanceTemplate) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error

	// Список позиций шаблона
	Items(ctx context.Context, tx pgx.Tx, templateID uint64) ([]*entities.TemplateEquipmentItem, error)
	AddItem(ctx context.Context, tx pgx.Tx, templateID, equipmentID uint64) error
	RemoveItems(ctx context.Context, tx pgx.Tx, templateID uint64, equipmentIDs []uint64) (int64, error)
}

type templateRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewTemplateRepository(storage *pgxpool.Pool, logger *zap.Logger) TemplateRepositoryInterface {
	return &templateRepository{storage: storage, logger: logger}
}

func (r *templateRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func templateSelect(columns string) sq.SelectBuilder {
	return psql.Select(columns).
		From(templateTable + " t").
		LeftJoin("categories c ON c.id = t.category_id").
		LeftJoin("persons p ON p.id = t.responsible_person_id")
}

func (r *templateRepository) scanRow(row pgx.Row) (*entities.MaintenanceTemplate, error) {
	var t entities.MaintenanceTemplate
	err := row.Scan(
		&t.ID, &t.Name, &t.Description, &t.IntervalMonths, &t.CategoryID, &t.ResponsiblePersonID,
		&t.ChecklistURL, &t.EstimatedMinutes, &t.CreatedAt, &t.UpdatedAt,
		&t.CategoryName, &t.ResponsiblePersonName, &t.ResponsiblePersonEmail, &t.EquipmentCount,
	)
	if err != nil {
		return nil, mapReadError(err, templateTable)
	}
	return &t, nil
}

func (r *templateRepository) GetAll(ctx context.Context, filter types.Filter) ([]*entities.MaintenanceTemplate, uint64, error) {
	rows, total, err := templateListSpec.list(ctx, r.storage, templateSelect, templateFields, filter)
	if err != nil {
		return nil, 0, err
	}
	items, err := collect(rows, r.scanRow)
	return items, total, err
}

func (r *templateRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceTemplate, error) {
	query, args, err := templateSelect(templateFields).Where(sq.Eq{"t.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса FindByID: %w", err)
	}
	return r.scanRow(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

func (r *templateRepository) Create(ctx context.Context, tx pgx.Tx, t entities.MaintenanceTemplate) (uint64, error) {
	query, args, err := psql.Insert(templateTable).
		Columns("name", "description", "interval_months", "category_id", "responsible_person_id", "checklist_url", "estimated_minutes").
		Values(t.Name, t.Description, t.IntervalMonths, t.CategoryID, t.ResponsiblePersonID, t.ChecklistURL, t.EstimatedMinutes).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}
	var id uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, mapWriteError(err, "template")
	}
	return id, nil
}

func (r *templateRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, t entities.MaintenanceTemplate) error {
	query, args, err := psql.Update(templateTable).
		Set("name", t.Name).
		Set("description", t.Description).
		Set("interval_months", t.IntervalMonths).
		Set("category_id", t.CategoryID).
		Set("responsible_person_id", t.ResponsiblePersonID).
		Set("checklist_url", t.ChecklistURL).
		Set("estimated_minutes", t.EstimatedMinutes).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update: %w", err)
	}
	tag, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "template")
	}
	return requireAffected(tag)
}

func (r *templateRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	query, args, err := psql.Delete(templateTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Delete: %w", err)
	}
	tag, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "template")
	}
	return requireAffected(tag)
}

func (r *templateRepository) Items(ctx context.Context, tx pgx.Tx, templateID uint64) ([]*entities.TemplateEquipmentItem, error) {
	query, args, err := psql.Select(templateItemFields).
		From(templateEquipmentTable+" te").
		Join("equipment e ON e.id = te.equipment_id").
		LeftJoin("locations l ON l.id = e.location_id").
		Where(sq.Eq{"te.template_id": templateID}).
		OrderBy("e.name ASC", "e.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса Items: %w", err)
	}
	rows, err := r.getQuerier(tx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки template_equipment: %w", err)
	}
	return collect(rows, func(row pgx.Row) (*entities.TemplateEquipmentItem, error) {
		var it entities.TemplateEquipmentItem
		if err := row.Scan(&it.TemplateID, &it.EquipmentID, &it.EquipmentName, &it.InventoryNumber, &it.Barcode, &it.LocationName); err != nil {
			return nil, fmt.Errorf("ошибка сканирования template_equipment: %w", err)
		}
		return &it, nil
	})
}

// AddItem идемпотентен: повторное добавление не ошибка.
func (r *templateRepository) AddItem(ctx context.Context, tx pgx.Tx, templateID, equipmentID uint64) error {
	query, args, err := psql.Insert(templateEquipmentTable).
		Columns("template_id", "equipment_id").
		Values(templateID, equipmentID).
		Suffix("ON CONFLICT (template_id, equipment_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса AddItem: %w", err)
	}
	if _, err := r.getQuerier(tx).Exec(ctx, query, args...); err != nil {
		return mapWriteError(err, "template item")
	}
	return nil
}

// RemoveItems удаляет связи; уже удалённые связи просто не считаются.
func (r *templateRepository) RemoveItems(ctx context.Context, tx pgx.Tx, templateID uint64, equipmentIDs []uint64) (int64, error) {
	if len(equipmentIDs) == 0 {
		return 0, nil
	}
	query, args, err := psql.Delete(templateEquipmentTable).
		Where(sq.Eq{"template_id": templateID, "equipment_id": equipmentIDs}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса RemoveItems: %w", err)
	}
	tag, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return 0, mapWriteError(err, "template item")
	}
	return tag.RowsAffected(), nil
}
