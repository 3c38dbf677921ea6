package repositories

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	apperrors "geraetewart/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier - общее у пула и транзакции.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// mapWriteError переводит ошибки ограничений Postgres в доменные.
func mapWriteError(err error, entity string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s с такими уникальными параметрами уже существует: %w", entity, apperrors.ErrConflict)
		case "23503":
			return apperrors.NewHttpError(http.StatusBadRequest, "Verknüpfter Eintrag existiert nicht", err, map[string]interface{}{"constraint": pgErr.ConstraintName})
		case "23514":
			return apperrors.NewHttpError(http.StatusBadRequest, "Ungültiger Wert", err, map[string]interface{}{"constraint": pgErr.ConstraintName})
		}
	}
	return fmt.Errorf("ошибка записи %s: %w", entity, err)
}

func mapReadError(err error, entity string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return fmt.Errorf("ошибка чтения %s: %w", entity, err)
}

func requireAffected(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
