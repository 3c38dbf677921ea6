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

// Категории и места хранения устроены одинаково: name + description.
const (
	categoryTable    = "categories"
	locationTable    = "locations"
	dictionaryFields = "id, name, description, created_at, updated_at"
)

var dictionaryListSpec = listSpec{
	filters: map[string]string{"id": "id", "name": "name"},
	search:  []string{"name", "description"},
	sort: map[string]string{
		"id":         "id",
		"name":       "name",
		"created_at": "created_at",
	},
	defaultSort: "name ASC",
}

type DictionaryRepositoryInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]*entities.DictionaryEntry, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.DictionaryEntry, error)
	FindByName(ctx context.Context, tx pgx.Tx, name string) (*entities.DictionaryEntry, error)
	Create(ctx context.Context, tx pgx.Tx, name string, description *string) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, name string, description *string) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type dictionaryRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
	table   string
}

func NewCategoryRepository(storage *pgxpool.Pool, logger *zap.Logger) DictionaryRepositoryInterface {
	return &dictionaryRepository{storage: storage, logger: logger, table: categoryTable}
}

func NewLocationRepository(storage *pgxpool.Pool, logger *zap.Logger) DictionaryRepositoryInterface {
	return &dictionaryRepository{storage: storage, logger: logger, table: locationTable}
}

func (r *dictionaryRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *dictionaryRepository) scanRow(row pgx.Row) (*entities.DictionaryEntry, error) {
	var e entities.DictionaryEntry
	if err := row.Scan(&e.ID, &e.Name, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, mapReadError(err, r.table)
	}
	return &e, nil
}

func (r *dictionaryRepository) findOne(ctx context.Context, q Querier, where sq.Eq) (*entities.DictionaryEntry, error) {
	query, args, err := psql.Select(dictionaryFields).From(r.table).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для %s: %w", r.table, err)
	}
	return r.scanRow(q.QueryRow(ctx, query, args...))
}

func (r *dictionaryRepository) GetAll(ctx context.Context, filter types.Filter) ([]*entities.DictionaryEntry, uint64, error) {
	base := func(columns string) sq.SelectBuilder {
		return psql.Select(columns).From(r.table)
	}
	rows, total, err := dictionaryListSpec.list(ctx, r.storage, base, dictionaryFields, filter)
	if err != nil {
		return nil, 0, err
	}
	items, err := collect(rows, r.scanRow)
	return items, total, err
}

func (r *dictionaryRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.DictionaryEntry, error) {
	return r.findOne(ctx, r.getQuerier(tx), sq.Eq{"id": id})
}

func (r *dictionaryRepository) FindByName(ctx context.Context, tx pgx.Tx, name string) (*entities.DictionaryEntry, error) {
	return r.findOne(ctx, r.getQuerier(tx), sq.Eq{"name": name})
}

func (r *dictionaryRepository) Create(ctx context.Context, tx pgx.Tx, name string, description *string) (uint64, error) {
	query, args, err := psql.Insert(r.table).
		Columns("name", "description").
		Values(name, description).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}
	var id uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, mapWriteError(err, r.table)
	}
	return id, nil
}

func (r *dictionaryRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, name string, description *string) error {
	query, args, err := psql.Update(r.table).
		Set("name", name).
		Set("description", description).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update: %w", err)
	}
	tag, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, r.table)
	}
	return requireAffected(tag)
}

func (r *dictionaryRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	query, args, err := psql.Delete(r.table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Delete: %w", err)
	}
	tag, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, r.table)
	}
	return requireAffected(tag)
}
