package repositories

import (
	"context"
	"fmt"

	"geraetewart/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Комментарии доступны только через хранимые процедуры.
type CommentRepositoryInterface interface {
	List(ctx context.Context, equipmentID uint64) ([]*entities.EquipmentComment, error)
	Add(ctx context.Context, equipmentID uint64, personID *uint64, comment string) (uint64, error)
}

type commentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewCommentRepository(storage *pgxpool.Pool, logger *zap.Logger) CommentRepositoryInterface {
	return &commentRepository{storage: storage, logger: logger}
}

func (r *commentRepository) List(ctx context.Context, equipmentID uint64) ([]*entities.EquipmentComment, error) {
	rows, err := r.storage.Query(ctx,
		"SELECT id, equipment_id, person_id, person_name, comment, created_at FROM get_equipment_comments($1)",
		equipmentID)
	if err != nil {
		return nil, fmt.Errorf("ошибка вызова get_equipment_comments: %w", err)
	}
	return collect(rows, func(row pgx.Row) (*entities.EquipmentComment, error) {
		var c entities.EquipmentComment
		if err := row.Scan(&c.ID, &c.EquipmentID, &c.PersonID, &c.PersonName, &c.Comment, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования комментария: %w", err)
		}
		return &c, nil
	})
}

func (r *commentRepository) Add(ctx context.Context, equipmentID uint64, personID *uint64, comment string) (uint64, error) {
	var id uint64
	err := r.storage.QueryRow(ctx, "SELECT add_equipment_comment($1, $2, $3)", equipmentID, personID, comment).Scan(&id)
	if err != nil {
		return 0, mapWriteError(err, "equipment comment")
	}
	return id, nil
}
