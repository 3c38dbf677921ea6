package repositories

import (
	"context"
	"fmt"
	"time"

	"geraetewart/internal/entities"
	"geraetewart/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	equipmentTable  = "equipment"
	equipmentFields = `e.id, e.inventory_number, e.barcode, e.name, e.category_id, e.location_id, e.responsible_person_id,
		e.status, e.manufacturer, e.model, e.serial_number, e.purchase_date, e.replacement_date,
		e.last_check_date, e.next_check_date, e.notes, e.created_at, e.updated_at,
		c.name, l.name, CASE WHEN p.id IS NULL THEN NULL ELSE p.first_name || ' ' || p.last_name END`
)

// equipmentListSpec - белые списки фильтров и сортировки (защита от SQL Injection)
var equipmentListSpec = listSpec{
	filters: map[string]string{
		"id":          "e.id",
		"status":      "e.status",
		"category_id": "e.category_id",
		"location_id": "e.location_id",
		"person_id":   "e.responsible_person_id",
		"barcode":     "e.barcode",
	},
	search: []string{"e.name", "e.inventory_number", "e.barcode", "e.serial_number", "e.manufacturer"},
	sort: map[string]string{
		"id":               "e.id",
		"name":             "e.name",
		"inventory_number": "e.inventory_number",
		"status":           "e.status",
		"next_check_date":  "e.next_check_date",
		"created_at":       "e.created_at",
	},
	defaultSort: "e.name ASC",
}

type EquipmentRepositoryInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]*entities.Equipment, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error)
	FindByBarcode(ctx context.Context, barcode string) (*entities.Equipment, error)
	FindByInventoryNumber(ctx context.Context, tx pgx.Tx, inventoryNumber string) (*entities.Equipment, error)
	Create(ctx context.Context, tx pgx.Tx, e entities.Equipment) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, e entities.Equipment) error
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status string) error
	SetLastCheckDate(ctx context.Context, tx pgx.Tx, ids []uint64, date time.Time) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
	StatusCounts(ctx context.Context) ([]entities.EquipmentStatusCount, error)
}

type equipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &equipmentRepository{storage: storage, logger: logger}
}

func (r *equipmentRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func equipmentSelect(columns string) sq.SelectBuilder {
	return psql.Select(columns).
		From(equipmentTable + " e").
		LeftJoin("categories c ON c.id = e.category_id").
		LeftJoin("locations l ON l.id = e.location_id").
		LeftJoin("persons p ON p.id = e.responsible_person_id")
}

func (r *equipmentRepository) scanRow(row pgx.Row) (*entities.Equipment, error) {
	var e entities.Equipment
	err := row.Scan(
		&e.ID, &e.InventoryNumber, &e.Barcode, &e.Name, &e.CategoryID, &e.LocationID, &e.ResponsiblePersonID,
		&e.Status, &e.Manufacturer, &e.Model, &e.SerialNumber, &e.PurchaseDate, &e.ReplacementDate,
		&e.LastCheckDate, &e.NextCheckDate, &e.Notes, &e.CreatedAt, &e.UpdatedAt,
		&e.CategoryName, &e.LocationName, &e.ResponsiblePersonName,
	)
	if err != nil {
		return nil, mapReadError(err, equipmentTable)
	}
	return &e, nil
}

func (r *equipmentRepository) findOne(ctx context.Context, q Querier, where sq.Eq) (*entities.Equipment, error) {
	query, args, err := equipmentSelect(equipmentFields).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для equipment: %w", err)
	}
	return r.scanRow(q.QueryRow(ctx, query, args...))
}

func (r *equipmentRepository) GetAll(ctx context.Context, filter types.Filter) ([]*entities.Equipment, uint64, error) {
	rows, total, err := equipmentListSpec.list(ctx, r.storage, equipmentSelect, equipmentFields, filter)
	if err != nil {
		return nil, 0, err
	}
	items, err := collect(rows, r.scanRow)
	return items, total, err
}

func (r *equipmentRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	return r.findOne(ctx, r.getQuerier(tx), sq.Eq{"e.id": id})
}

func (r *equipmentRepository) FindByBarcode(ctx context.Context, barcode string) (*entities.Equipment, error) {
	return r.findOne(ctx, r.storage, sq.Eq{"e.barcode": barcode})
}

func (r *equipmentRepository) FindByInventoryNumber(ctx context.Context, tx pgx.Tx, inventoryNumber string) (*entities.Equipment, error) {
	return r.findOne(ctx, r.getQuerier(tx), sq.Eq{"e.inventory_number": inventoryNumber})
}

func (r *equipmentRepository) Create(ctx context.Context, tx pgx.Tx, e entities.Equipment) (uint64, error) {
	query, args, err := psql.Insert(equipmentTable).
		Columns("inventory_number", "barcode", "name", "category_id", "location_id", "responsible_person_id",
			"status", "manufacturer", "model", "serial_number", "purchase_date", "replacement_date",
			"last_check_date", "next_check_date", "notes").
		Values(e.InventoryNumber, e.Barcode, e.Name, e.CategoryID, e.LocationID, e.ResponsiblePersonID,
			e.Status, e.Manufacturer, e.Model, e.SerialNumber, e.PurchaseDate, e.ReplacementDate,
			e.LastCheckDate, e.NextCheckDate, e.Notes).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}
	var id uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, mapWriteError(err, "equipment")
	}
	return id, nil
}

func (r *equipmentRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, e entities.Equipment) error {
	query, args, err := psql.Update(equipmentTable).
		Set("inventory_number", e.InventoryNumber).
		Set("barcode", e.Barcode).
		Set("name", e.Name).
		Set("category_id", e.CategoryID).
		Set("location_id", e.LocationID).
		Set("responsible_person_id", e.ResponsiblePersonID).
		Set("status", e.Status).
		Set("manufacturer", e.Manufacturer).
		Set("model", e.Model).
		Set("serial_number", e.SerialNumber).
		Set("purchase_date", e.PurchaseDate).
		Set("replacement_date", e.ReplacementDate).
		Set("last_check_date", e.LastCheckDate).
		Set("next_check_date", e.NextCheckDate).
		Set("notes", e.Notes).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update: %w", err)
	}
	tag, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "equipment")
	}
	return requireAffected(tag)
}

func (r *equipmentRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status string) error {
	query, args, err := psql.Update(equipmentTable).
		Set("status", status).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса UpdateStatus: %w", err)
	}
	tag, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "equipment")
	}
	return requireAffected(tag)
}

// SetLastCheckDate отмечает проверку наличия для набора позиций.
func (r *equipmentRepository) SetLastCheckDate(ctx context.Context, tx pgx.Tx, ids []uint64, date time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := psql.Update(equipmentTable).
		Set("last_check_date", date).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса SetLastCheckDate: %w", err)
	}
	if _, err := r.getQuerier(tx).Exec(ctx, query, args...); err != nil {
		return mapWriteError(err, "equipment")
	}
	return nil
}

func (r *equipmentRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	query, args, err := psql.Delete(equipmentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Delete: %w", err)
	}
	tag, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "equipment")
	}
	return requireAffected(tag)
}

func (r *equipmentRepository) StatusCounts(ctx context.Context) ([]entities.EquipmentStatusCount, error) {
	query, args, err := psql.Select("status", "COUNT(*)").
		From(equipmentTable).
		GroupBy("status").
		OrderBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса StatusCounts: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчёта статусов: %w", err)
	}
	defer rows.Close()

	var out []entities.EquipmentStatusCount
	for rows.Next() {
		var c entities.EquipmentStatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("ошибка сканирования статусов: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
