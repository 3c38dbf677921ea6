package services

import (
	"context"
	"mime/multipart"

	"geraetewart/internal/dto"
	"geraetewart/internal/entities"
	"geraetewart/internal/repositories"
	"geraetewart/pkg/constants"
	"geraetewart/pkg/filestorage"
	"geraetewart/pkg/types"

	"go.uber.org/zap"
)

type TemplateServiceInterface interface {
	GetTemplates(ctx context.Context, filter types.Filter) ([]*entities.MaintenanceTemplate, uint64, error)
	FindTemplate(ctx context.Context, id uint64) (*entities.MaintenanceTemplate, error)
	CreateTemplate(ctx context.Context, d dto.TemplateDTO) (*entities.MaintenanceTemplate, error)
	UpdateTemplate(ctx context.Context, id uint64, d dto.TemplateDTO) (*entities.MaintenanceTemplate, error)
	DeleteTemplate(ctx context.Context, id uint64) error
	UploadChecklist(ctx context.Context, id uint64, fileHeader *multipart.FileHeader) (*entities.MaintenanceTemplate, error)

	GetItems(ctx context.Context, templateID uint64) ([]*entities.TemplateEquipmentItem, error)
	AddItem(ctx context.Context, templateID uint64, equipmentID uint64) ([]*entities.TemplateEquipmentItem, error)
	RemoveItem(ctx context.Context, templateID uint64, equipmentID uint64) ([]*entities.TemplateEquipmentItem, error)
}

type TemplateService struct {
	repo          repositories.TemplateRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	fileStorage   filestorage.FileStorageInterface
	bus           EventPublisher
	logger        *zap.Logger
}

func NewTemplateService(
	repo repositories.TemplateRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	bus EventPublisher,
	logger *zap.Logger,
) TemplateServiceInterface {
	return &TemplateService{repo: repo, equipmentRepo: equipmentRepo, fileStorage: fileStorage, bus: bus, logger: logger}
}

func (s *TemplateService) GetTemplates(ctx context.Context, filter types.Filter) ([]*entities.MaintenanceTemplate, uint64, error) {
	return s.repo.GetAll(ctx, filter)
}

func (s *TemplateService) FindTemplate(ctx context.Context, id uint64) (*entities.MaintenanceTemplate, error) {
	return s.repo.FindByID(ctx, nil, id)
}

func (s *TemplateService) CreateTemplate(ctx context.Context, d dto.TemplateDTO) (*entities.MaintenanceTemplate, error) {
	id, err := s.repo.Create(ctx, nil, d.ToEntity())
	if err != nil {
		s.logger.Error("Ошибка при создании шаблона", zap.Error(err))
		return nil, err
	}
	publishChanged(ctx, s.bus, constants.QueryTemplates, &id)
	return s.repo.FindByID(ctx, nil, id)
}

func (s *TemplateService) UpdateTemplate(ctx context.Context, id uint64, d dto.TemplateDTO) (*entities.MaintenanceTemplate, error) {
	if err := s.repo.Update(ctx, nil, id, d.ToEntity()); err != nil {
		return nil, err
	}
	publishChanged(ctx, s.bus, constants.QueryTemplates, &id)
	return s.repo.FindByID(ctx, nil, id)
}

func (s *TemplateService) DeleteTemplate(ctx context.Context, id uint64) error {
	current, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, nil, id); err != nil {
		return err
	}
	s.removeFile(current.ChecklistURL)
	publishChanged(ctx, s.bus, constants.QueryTemplates, &id)
	return nil
}

// UploadChecklist сохраняет файл чек-листа и заменяет прежний.
func (s *TemplateService) UploadChecklist(ctx context.Context, id uint64, fileHeader *multipart.FileHeader) (*entities.MaintenanceTemplate, error) {
	current, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	file, err := openValidated(fileHeader, constants.UploadContextChecklist)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	url, err := s.fileStorage.Save(file, fileHeader.Filename, uploadPrefix(constants.UploadContextChecklist))
	if err != nil {
		s.logger.Error("Не удалось сохранить чек-лист", zap.Error(err))
		return nil, err
	}

	previous := current.ChecklistURL
	current.ChecklistURL = &url
	if err := s.repo.Update(ctx, nil, id, *current); err != nil {
		s.removeFile(&url)
		return nil, err
	}
	s.removeFile(previous)
	publishChanged(ctx, s.bus, constants.QueryTemplates, &id)
	return s.repo.FindByID(ctx, nil, id)
}

// removeFile удаляет только загруженные нами файлы; внешние ссылки не трогаем.
func (s *TemplateService) removeFile(url *string) {
	if url == nil || !isUploadURL(*url) {
		return
	}
	if err := s.fileStorage.Delete(*url); err != nil {
		s.logger.Warn("Не удалось удалить файл", zap.String("url", *url), zap.Error(err))
	}
}

func (s *TemplateService) GetItems(ctx context.Context, templateID uint64) ([]*entities.TemplateEquipmentItem, error) {
	if _, err := s.repo.FindByID(ctx, nil, templateID); err != nil {
		return nil, err
	}
	return s.repo.Items(ctx, nil, templateID)
}

func (s *TemplateService) AddItem(ctx context.Context, templateID uint64, equipmentID uint64) ([]*entities.TemplateEquipmentItem, error) {
	if _, err := s.repo.FindByID(ctx, nil, templateID); err != nil {
		return nil, err
	}
	if _, err := s.equipmentRepo.FindByID(ctx, nil, equipmentID); err != nil {
		return nil, err
	}
	if err := s.repo.AddItem(ctx, nil, templateID, equipmentID); err != nil {
		return nil, err
	}
	publishChanged(ctx, s.bus, constants.QueryTemplates, &templateID)
	return s.repo.Items(ctx, nil, templateID)
}

// RemoveItem идемпотентен: отсутствующая связь не ошибка.
func (s *TemplateService) RemoveItem(ctx context.Context, templateID uint64, equipmentID uint64) ([]*entities.TemplateEquipmentItem, error) {
	if _, err := s.repo.RemoveItems(ctx, nil, templateID, []uint64{equipmentID}); err != nil {
		return nil, err
	}
	publishChanged(ctx, s.bus, constants.QueryTemplates, &templateID)
	return s.repo.Items(ctx, nil, templateID)
}
