package services

import (
	"context"

	"geraetewart/internal/dto"
	"geraetewart/internal/entities"
	"geraetewart/internal/repositories"
	"geraetewart/pkg/constants"
	"geraetewart/pkg/types"

	"go.uber.org/zap"
)

type PersonServiceInterface interface {
	GetPersons(ctx context.Context, filter types.Filter) ([]*entities.Person, uint64, error)
	FindPerson(ctx context.Context, id uint64) (*entities.Person, error)
	CreatePerson(ctx context.Context, d dto.PersonDTO) (*entities.Person, error)
	UpdatePerson(ctx context.Context, id uint64, d dto.PersonDTO) (*entities.Person, error)
	DeletePerson(ctx context.Context, id uint64) error
}

type PersonService struct {
	repo   repositories.PersonRepositoryInterface
	bus    EventPublisher
	logger *zap.Logger
}

func NewPersonService(repo repositories.PersonRepositoryInterface, bus EventPublisher, logger *zap.Logger) PersonServiceInterface {
	return &PersonService{repo: repo, bus: bus, logger: logger}
}

func (s *PersonService) GetPersons(ctx context.Context, filter types.Filter) ([]*entities.Person, uint64, error) {
	return s.repo.GetAll(ctx, filter)
}

func (s *PersonService) FindPerson(ctx context.Context, id uint64) (*entities.Person, error) {
	return s.repo.FindByID(ctx, nil, id)
}

func (s *PersonService) CreatePerson(ctx context.Context, d dto.PersonDTO) (*entities.Person, error) {
	id, err := s.repo.Create(ctx, nil, d.ToEntity())
	if err != nil {
		s.logger.Error("Ошибка при создании person", zap.Error(err))
		return nil, err
	}
	s.logger.Info("Person создан", zap.Uint64("id", id))
	publishChanged(ctx, s.bus, constants.QueryPersons, &id)
	return s.repo.FindByID(ctx, nil, id)
}

func (s *PersonService) UpdatePerson(ctx context.Context, id uint64, d dto.PersonDTO) (*entities.Person, error) {
	if err := s.repo.Update(ctx, nil, id, d.ToEntity()); err != nil {
		return nil, err
	}
	publishChanged(ctx, s.bus, constants.QueryPersons, &id)
	return s.repo.FindByID(ctx, nil, id)
}

func (s *PersonService) DeletePerson(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, nil, id); err != nil {
		return err
	}
	s.logger.Info("Person удалён", zap.Uint64("id", id))
	publishChanged(ctx, s.bus, constants.QueryPersons, &id)
	return nil
}
