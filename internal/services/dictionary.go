package services

import (
	"context"

	"geraetewart/internal/dto"
	"geraetewart/internal/entities"
	"geraetewart/internal/repositories"
	"geraetewart/pkg/types"

	"go.uber.org/zap"
)

// DictionaryServiceInterface обслуживает категории и места хранения.
type DictionaryServiceInterface interface {
	GetAll(ctx context.Context, filter types.Filter) ([]*entities.DictionaryEntry, uint64, error)
	Find(ctx context.Context, id uint64) (*entities.DictionaryEntry, error)
	Create(ctx context.Context, d dto.DictionaryDTO) (*entities.DictionaryEntry, error)
	Update(ctx context.Context, id uint64, d dto.DictionaryDTO) (*entities.DictionaryEntry, error)
	Delete(ctx context.Context, id uint64) error
}

type DictionaryService struct {
	repo   repositories.DictionaryRepositoryInterface
	query  string
	bus    EventPublisher
	logger *zap.Logger
}

// NewDictionaryService: query - имя запроса для websocket-инвалидации (constants.QueryCategories и т.п.).
func NewDictionaryService(repo repositories.DictionaryRepositoryInterface, query string, bus EventPublisher, logger *zap.Logger) DictionaryServiceInterface {
	return &DictionaryService{repo: repo, query: query, bus: bus, logger: logger}
}

func (s *DictionaryService) GetAll(ctx context.Context, filter types.Filter) ([]*entities.DictionaryEntry, uint64, error) {
	return s.repo.GetAll(ctx, filter)
}

func (s *DictionaryService) Find(ctx context.Context, id uint64) (*entities.DictionaryEntry, error) {
	return s.repo.FindByID(ctx, nil, id)
}

func (s *DictionaryService) Create(ctx context.Context, d dto.DictionaryDTO) (*entities.DictionaryEntry, error) {
	id, err := s.repo.Create(ctx, nil, d.Name, d.DescriptionPtr())
	if err != nil {
		s.logger.Error("Ошибка при создании записи справочника", zap.String("query", s.query), zap.Error(err))
		return nil, err
	}
	publishChanged(ctx, s.bus, s.query, &id)
	return s.repo.FindByID(ctx, nil, id)
}

func (s *DictionaryService) Update(ctx context.Context, id uint64, d dto.DictionaryDTO) (*entities.DictionaryEntry, error) {
	if err := s.repo.Update(ctx, nil, id, d.Name, d.DescriptionPtr()); err != nil {
		return nil, err
	}
	publishChanged(ctx, s.bus, s.query, &id)
	return s.repo.FindByID(ctx, nil, id)
}

func (s *DictionaryService) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, nil, id); err != nil {
		return err
	}
	publishChanged(ctx, s.bus, s.query, &id)
	return nil
}
