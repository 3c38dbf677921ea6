package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"geraetewart/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type SettingsRepositoryInterface interface {
	// Load возвращает значения по умолчанию, если документ ещё не сохранён.
	Load(ctx context.Context) (entities.Settings, error)
	Save(ctx context.Context, s entities.Settings) error
}

type settingsRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewSettingsRepository(storage *pgxpool.Pool, logger *zap.Logger) SettingsRepositoryInterface {
	return &settingsRepository{storage: storage, logger: logger}
}

func (r *settingsRepository) Load(ctx context.Context) (entities.Settings, error) {
	settings := entities.DefaultSettings()
	var raw []byte
	err := r.storage.QueryRow(ctx, "SELECT data FROM settings WHERE id = 1").Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("ошибка чтения settings: %w", err)
	}
	// Поверх значений по умолчанию: новые поля получают дефолт.
	if err := json.Unmarshal(raw, &settings); err != nil {
		return entities.DefaultSettings(), fmt.Errorf("повреждённый документ settings: %w", err)
	}
	return settings, nil
}

func (r *settingsRepository) Save(ctx context.Context, s entities.Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("ошибка сериализации settings: %w", err)
	}
	_, err = r.storage.Exec(ctx, `
		INSERT INTO settings (id, data, updated_at) VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`, raw)
	if err != nil {
		return fmt.Errorf("ошибка сохранения settings: %w", err)
	}
	return nil
}
