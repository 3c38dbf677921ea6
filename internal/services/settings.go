package services

import (
	"context"
	"encoding/json"
	"sync"

	"geraetewart/internal/entities"
	"geraetewart/internal/repositories"
	"geraetewart/pkg/constants"

	"go.uber.org/zap"
)

// SettingsListener получает новое значение после каждого сохранения.
type SettingsListener func(entities.Settings)

type SettingsServiceInterface interface {
	Get(ctx context.Context) (entities.Settings, error)
	Update(ctx context.Context, s entities.Settings) (entities.Settings, error)
	Subscribe(fn SettingsListener) (unsubscribe func())
}

// SettingsService - типизированное хранилище настроек с явной подпиской.
type SettingsService struct {
	repo   repositories.SettingsRepositoryInterface
	cache  repositories.CacheRepositoryInterface
	logger *zap.Logger

	mu           sync.RWMutex
	current      *entities.Settings
	listeners    map[int]SettingsListener
	nextListener int
}

func NewSettingsService(repo repositories.SettingsRepositoryInterface, cache repositories.CacheRepositoryInterface, logger *zap.Logger) *SettingsService {
	return &SettingsService{repo: repo, cache: cache, logger: logger, listeners: make(map[int]SettingsListener)}
}

func (s *SettingsService) Get(ctx context.Context) (entities.Settings, error) {
	s.mu.RLock()
	if s.current != nil {
		defer s.mu.RUnlock()
		return *s.current, nil
	}
	s.mu.RUnlock()

	settings, err := s.load(ctx)
	if err != nil {
		return settings, err
	}

	s.mu.Lock()
	if s.current == nil {
		s.current = &settings
	}
	current := *s.current
	s.mu.Unlock()
	return current, nil
}

// load читает из Redis, при промахе - из БД с прогревом кэша.
func (s *SettingsService) load(ctx context.Context) (entities.Settings, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, constants.CacheKeySettings); err == nil {
			settings := entities.DefaultSettings()
			if err := json.Unmarshal([]byte(raw), &settings); err == nil {
				return settings, nil
			}
		}
	}

	settings, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error("Не удалось загрузить настройки", zap.Error(err))
		return settings, err
	}
	s.writeCache(ctx, settings)
	return settings, nil
}

func (s *SettingsService) writeCache(ctx context.Context, settings entities.Settings) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, constants.CacheKeySettings, string(data), 0); err != nil {
		s.logger.Warn("Не удалось записать настройки в кэш", zap.Error(err))
	}
}

func (s *SettingsService) Update(ctx context.Context, settings entities.Settings) (entities.Settings, error) {
	if err := s.repo.Save(ctx, settings); err != nil {
		s.logger.Error("Не удалось сохранить настройки", zap.Error(err))
		return settings, err
	}
	s.writeCache(ctx, settings)

	s.mu.Lock()
	s.current = &settings
	listeners := make([]SettingsListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(settings)
	}
	s.logger.Info("Настройки обновлены", zap.Int("subscribers", len(listeners)))
	return settings, nil
}

func (s *SettingsService) Subscribe(fn SettingsListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}
