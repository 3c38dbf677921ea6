package services

import (
	"context"
	"errors"
	"strings"

	"geraetewart/internal/dto"
	"geraetewart/internal/entities"
	"geraetewart/internal/repositories"
	"geraetewart/pkg/constants"
	apperrors "geraetewart/pkg/errors"
	"geraetewart/pkg/types"

	"go.uber.org/zap"
)

type EquipmentServiceInterface interface {
	GetEquipment(ctx context.Context, filter types.Filter) ([]*entities.Equipment, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDetailDTO, error)
	FindByBarcode(ctx context.Context, barcode string) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, d dto.EquipmentDTO) (*entities.Equipment, error)
	UpdateEquipment(ctx context.Context, id uint64, d dto.EquipmentDTO) (*entities.Equipment, error)
	ChangeStatus(ctx context.Context, id uint64, status string) (*entities.Equipment, error)
	DeleteEquipment(ctx context.Context, id uint64) error

	GetComments(ctx context.Context, equipmentID uint64) ([]*entities.EquipmentComment, error)
	AddComment(ctx context.Context, equipmentID uint64, d dto.CreateCommentDTO) ([]*entities.EquipmentComment, error)
}

type EquipmentService struct {
	repo        repositories.EquipmentRepositoryInterface
	commentRepo repositories.CommentRepositoryInterface
	recordRepo  repositories.MaintenanceRecordRepositoryInterface
	missionRepo repositories.MissionRepositoryInterface
	bus         EventPublisher
	logger      *zap.Logger
}

func NewEquipmentService(
	repo repositories.EquipmentRepositoryInterface,
	commentRepo repositories.CommentRepositoryInterface,
	recordRepo repositories.MaintenanceRecordRepositoryInterface,
	missionRepo repositories.MissionRepositoryInterface,
	bus EventPublisher,
	logger *zap.Logger,
) EquipmentServiceInterface {
	return &EquipmentService{
		repo:        repo,
		commentRepo: commentRepo,
		recordRepo:  recordRepo,
		missionRepo: missionRepo,
		bus:         bus,
		logger:      logger,
	}
}

func (s *EquipmentService) GetEquipment(ctx context.Context, filter types.Filter) ([]*entities.Equipment, uint64, error) {
	return s.repo.GetAll(ctx, filter)
}

// FindEquipment - карточка: само оборудование, комментарии, история обслуживания и выездов.
func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDetailDTO, error) {
	eq, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.List(ctx, id)
	if err != nil {
		return nil, err
	}
	records, err := s.recordRepo.List(ctx, repositories.RecordScope{EquipmentID: &id})
	if err != nil {
		return nil, err
	}
	missions, err := s.missionRepo.EquipmentHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.EquipmentDetailDTO{Equipment: *eq, Comments: comments, Records: records, Missions: missions}, nil
}

func (s *EquipmentService) FindByBarcode(ctx context.Context, barcode string) (*entities.Equipment, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, apperrors.ErrBadRequest
	}
	eq, err := s.repo.FindByBarcode(ctx, barcode)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.ErrUnknownBarcode
	}
	return eq, err
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, d dto.EquipmentDTO) (*entities.Equipment, error) {
	id, err := s.repo.Create(ctx, nil, d.ToEntity())
	if err != nil {
		s.logger.Error("Ошибка при создании оборудования", zap.Error(err))
		return nil, err
	}
	s.logger.Info("Оборудование создано", zap.Uint64("id", id), zap.String("inventory_number", d.InventoryNumber))
	publishChanged(ctx, s.bus, constants.QueryEquipment, &id)
	return s.repo.FindByID(ctx, nil, id)
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uint64, d dto.EquipmentDTO) (*entities.Equipment, error) {
	if err := s.repo.Update(ctx, nil, id, d.ToEntity()); err != nil {
		return nil, err
	}
	publishChanged(ctx, s.bus, constants.QueryEquipment, &id)
	return s.repo.FindByID(ctx, nil, id)
}

func (s *EquipmentService) ChangeStatus(ctx context.Context, id uint64, status string) (*entities.Equipment, error) {
	if err := s.repo.UpdateStatus(ctx, nil, id, status); err != nil {
		return nil, err
	}
	s.logger.Info("Статус оборудования изменён", zap.Uint64("id", id), zap.String("status", status))
	publishChanged(ctx, s.bus, constants.QueryEquipment, &id)
	return s.repo.FindByID(ctx, nil, id)
}

func (s *EquipmentService) DeleteEquipment(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, nil, id); err != nil {
		return err
	}
	s.logger.Info("Оборудование удалено", zap.Uint64("id", id))
	publishChanged(ctx, s.bus, constants.QueryEquipment, &id)
	return nil
}

func (s *EquipmentService) GetComments(ctx context.Context, equipmentID uint64) ([]*entities.EquipmentComment, error) {
	if _, err := s.repo.FindByID(ctx, nil, equipmentID); err != nil {
		return nil, err
	}
	return s.commentRepo.List(ctx, equipmentID)
}

func (s *EquipmentService) AddComment(ctx context.Context, equipmentID uint64, d dto.CreateCommentDTO) ([]*entities.EquipmentComment, error) {
	if _, err := s.repo.FindByID(ctx, nil, equipmentID); err != nil {
		return nil, err
	}
	if _, err := s.commentRepo.Add(ctx, equipmentID, d.PersonIDPtr(), strings.TrimSpace(d.Comment)); err != nil {
		return nil, err
	}
	publishChanged(ctx, s.bus, constants.QueryComments, &equipmentID)
	return s.commentRepo.List(ctx, equipmentID)
}
