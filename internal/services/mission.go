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

type MissionServiceInterface interface {
	GetMissions(ctx context.Context, filter types.Filter) ([]*entities.Mission, uint64, error)
	FindMission(ctx context.Context, id uint64) (*dto.MissionDetailDTO, error)
	CreateMission(ctx context.Context, d dto.MissionDTO) (*dto.MissionDetailDTO, error)
	UpdateMission(ctx context.Context, id uint64, d dto.MissionDTO) (*dto.MissionDetailDTO, error)
	DeleteMission(ctx context.Context, id uint64) error

	AddEquipment(ctx context.Context, missionID uint64, d dto.MissionEquipmentDTO) (*dto.MissionDetailDTO, error)
	RemoveEquipment(ctx context.Context, missionID, entryID uint64) (*dto.MissionDetailDTO, error)
	EquipmentHistory(ctx context.Context, equipmentID uint64) ([]*entities.MissionEquipment, error)
}

type MissionService struct {
	repo          repositories.MissionRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	bus           EventPublisher
	logger        *zap.Logger
}

func NewMissionService(
	repo repositories.MissionRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	bus EventPublisher,
	logger *zap.Logger,
) MissionServiceInterface {
	return &MissionService{repo: repo, equipmentRepo: equipmentRepo, bus: bus, logger: logger}
}

func (s *MissionService) GetMissions(ctx context.Context, filter types.Filter) ([]*entities.Mission, uint64, error) {
	return s.repo.GetAll(ctx, filter)
}

func (s *MissionService) FindMission(ctx context.Context, id uint64) (*dto.MissionDetailDTO, error) {
	mission, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.Equipment(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.MissionDetailDTO{Mission: *mission, Equipment: items}, nil
}

func (s *MissionService) CreateMission(ctx context.Context, d dto.MissionDTO) (*dto.MissionDetailDTO, error) {
	id, err := s.repo.Create(ctx, nil, d.ToEntity())
	if err != nil {
		s.logger.Error("Ошибка при создании выезда", zap.Error(err))
		return nil, err
	}
	s.logger.Info("Выезд создан", zap.Uint64("id", id), zap.String("type", d.Type))
	publishChanged(ctx, s.bus, constants.QueryMissions, &id)
	return s.FindMission(ctx, id)
}

func (s *MissionService) UpdateMission(ctx context.Context, id uint64, d dto.MissionDTO) (*dto.MissionDetailDTO, error) {
	if err := s.repo.Update(ctx, nil, id, d.ToEntity()); err != nil {
		return nil, err
	}
	publishChanged(ctx, s.bus, constants.QueryMissions, &id)
	return s.FindMission(ctx, id)
}

func (s *MissionService) DeleteMission(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, nil, id); err != nil {
		return err
	}
	publishChanged(ctx, s.bus, constants.QueryMissions, &id)
	return nil
}

func (s *MissionService) AddEquipment(ctx context.Context, missionID uint64, d dto.MissionEquipmentDTO) (*dto.MissionDetailDTO, error) {
	if _, err := s.repo.FindByID(ctx, nil, missionID); err != nil {
		return nil, err
	}
	if _, err := s.equipmentRepo.FindByID(ctx, nil, d.EquipmentID); err != nil {
		return nil, err
	}
	if _, err := s.repo.AddEquipment(ctx, nil, missionID, d.EquipmentID, d.NotesPtr()); err != nil {
		return nil, err
	}
	publishChanged(ctx, s.bus, constants.QueryMissions, &missionID)
	return s.FindMission(ctx, missionID)
}

func (s *MissionService) RemoveEquipment(ctx context.Context, missionID, entryID uint64) (*dto.MissionDetailDTO, error) {
	if err := s.repo.RemoveEquipment(ctx, nil, missionID, entryID); err != nil {
		return nil, err
	}
	publishChanged(ctx, s.bus, constants.QueryMissions, &missionID)
	return s.FindMission(ctx, missionID)
}

func (s *MissionService) EquipmentHistory(ctx context.Context, equipmentID uint64) ([]*entities.MissionEquipment, error) {
	if _, err := s.equipmentRepo.FindByID(ctx, nil, equipmentID); err != nil {
		return nil, err
	}
	return s.repo.EquipmentHistory(ctx, equipmentID)
}
