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
	personTable  = "persons"
	personFields = "id, first_name, last_name, email, phone, role, is_active, created_at, updated_at"
)

var personListSpec = listSpec{
	filters: map[string]string{
		"id":        "id",
		"is_active": "is_active",
		"role":      "role",
	},
	search: []string{"first_name", "last_name", "email"},
	sort: map[string]string{
		"id":         "id",
		"first_name": "first_name",
		"last_name":  "last_name",
		"created_at": "created_at",
	},
	defaultSort: "last_name ASC, first_name ASC",
}

type PersonRepositoryInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]*entities.Person, uint64, error)
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Person, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]*entities.Person, error)
	Create(ctx context.Context, tx pgx.Tx, p entities.Person) (uint64, error)
	Update(ctx context.Context, tx pgx.Tx, id uint64, p entities.Person) error
	Delete(ctx context.Context, tx pgx.Tx, id uint64) error
}

type personRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewPersonRepository(storage *pgxpool.Pool, logger *zap.Logger) PersonRepositoryInterface {
	return &personRepository{storage: storage, logger: logger}
}

func (r *personRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *personRepository) scanRow(row pgx.Row) (*entities.Person, error) {
	var p entities.Person
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.Role, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapReadError(err, personTable)
	}
	return &p, nil
}

func (r *personRepository) GetAll(ctx context.Context, filter types.Filter) ([]*entities.Person, uint64, error) {
	base := func(columns string) sq.SelectBuilder {
		return psql.Select(columns).From(personTable)
	}
	rows, total, err := personListSpec.list(ctx, r.storage, base, personFields, filter)
	if err != nil {
		return nil, 0, err
	}
	items, err := collect(rows, r.scanRow)
	return items, total, err
}

func (r *personRepository) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Person, error) {
	query, args, err := psql.Select(personFields).From(personTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса FindByID: %w", err)
	}
	return r.scanRow(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

func (r *personRepository) FindByIDs(ctx context.Context, ids []uint64) ([]*entities.Person, error) {
	if len(ids) == 0 {
		return []*entities.Person{}, nil
	}
	query, args, err := psql.Select(personFields).From(personTable).Where(sq.Eq{"id": ids}).OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса FindByIDs: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки persons: %w", err)
	}
	return collect(rows, r.scanRow)
}

func (r *personRepository) Create(ctx context.Context, tx pgx.Tx, p entities.Person) (uint64, error) {
	query, args, err := psql.Insert(personTable).
		Columns("first_name", "last_name", "email", "phone", "role", "is_active").
		Values(p.FirstName, p.LastName, p.Email, p.Phone, p.Role, p.IsActive).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ошибка сборки запроса Create: %w", err)
	}

	var id uint64
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, mapWriteError(err, "person")
	}
	return id, nil
}

func (r *personRepository) Update(ctx context.Context, tx pgx.Tx, id uint64, p entities.Person) error {
	query, args, err := psql.Update(personTable).
		Set("first_name", p.FirstName).
		Set("last_name", p.LastName).
		Set("email", p.Email).
		Set("phone", p.Phone).
		Set("role", p.Role).
		Set("is_active", p.IsActive).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Update: %w", err)
	}
	tag, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "person")
	}
	return requireAffected(tag)
}

func (r *personRepository) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	query, args, err := psql.Delete(personTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса Delete: %w", err)
	}
	tag, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "person")
	}
	return requireAffected(tag)
}
