package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"geraetewart/internal/checksession"
	"geraetewart/pkg/constants"
)

// CheckSessionTTL - сколько незавершённая проверка хранится в Redis.
const CheckSessionTTL = 12 * time.Hour

type CheckSessionRepositoryInterface interface {
	Save(ctx context.Context, s *checksession.Session) error
	Get(ctx context.Context, id string) (*checksession.Session, error)
	Delete(ctx context.Context, id string) error
}

type checkSessionRepository struct {
	cache CacheRepositoryInterface
}

func NewCheckSessionRepository(cache CacheRepositoryInterface) CheckSessionRepositoryInterface {
	return &checkSessionRepository{cache: cache}
}

func checkSessionKey(id string) string {
	return fmt.Sprintf(constants.CacheKeyCheckSession, id)
}

// Save перезаписывает сессию и продлевает TTL.
func (r *checkSessionRepository) Save(ctx context.Context, s *checksession.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("ошибка сериализации сессии проверки: %w", err)
	}
	return r.cache.Set(ctx, checkSessionKey(s.ID), string(data), CheckSessionTTL)
}

// Get возвращает ErrNotFound для истёкшей или неизвестной сессии.
func (r *checkSessionRepository) Get(ctx context.Context, id string) (*checksession.Session, error) {
	raw, err := r.cache.Get(ctx, checkSessionKey(id))
	if err != nil {
		return nil, err
	}
	var s checksession.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("повреждённая сессия проверки %s: %w", id, err)
	}
	return &s, nil
}

func (r *checkSessionRepository) Delete(ctx context.Context, id string) error {
	return r.cache.Del(ctx, checkSessionKey(id))
}
