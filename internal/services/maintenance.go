package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/url"
	"strings"
	"time"

	"geraetewart/internal/dto"
	"geraetewart/internal/entities"
	"geraetewart/internal/events"
	"geraetewart/internal/export"
	"geraetewart/internal/planning"
	"geraetewart/internal/repositories"
	"geraetewart/pkg/constants"
	apperrors "geraetewart/pkg/errors"
	"geraetewart/pkg/filestorage"
	"geraetewart/pkg/types"
	"geraetewart/pkg/utils"
	"geraetewart/pkg/validation"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// MessageNoRecords - ответ на пустой результат фильтра.
const MessageNoRecords = "Keine Wartungsaufzeichnungen gefunden"

// CalendarFeedPath - путь iCal-ленты относительно PUBLIC_BASE_URL.
const CalendarFeedPath = "/api/maintenance/calendar.ics"

type MaintenanceServiceInterface interface {
	ListRecords(ctx context.Context, filter types.Filter) (*dto.RecordsPage, error)
	FilteredRecords(ctx context.Context, filter types.Filter) ([]entities.MaintenanceRecord, error)
	FindRecord(ctx context.Context, id uint64) (*entities.MaintenanceRecord, error)
	CreateRecord(ctx context.Context, d dto.CreateRecordDTO) (*entities.MaintenanceRecord, error)
	UpdateRecord(ctx context.Context, id uint64, d dto.UpdateRecordDTO) (*entities.MaintenanceRecord, error)
	DeleteRecord(ctx context.Context, id uint64) error

	ChangeStatus(ctx context.Context, id uint64, status string) (*entities.MaintenanceRecord, error)
	PlanProjection(ctx context.Context, d dto.PlanProjectionDTO) (*entities.MaintenanceRecord, bool, error)
	Complete(ctx context.Context, id uint64, d dto.CompleteRecordDTO) (*entities.MaintenanceRecord, error)
	ResetToPlanned(ctx context.Context, id uint64) (*entities.MaintenanceRecord, error)
	UploadDocumentation(ctx context.Context, id uint64, fileHeader *multipart.FileHeader) (*entities.MaintenanceRecord, error)

	Calendar(ctx context.Context, filter types.Filter) (string, error)
	SubscriptionURL(rawQuery string) string
}

// CalendarConfig - параметры iCal-ленты.
type CalendarConfig struct {
	Domain        string
	Name          string
	PublicBaseURL string
}

type MaintenanceService struct {
	txManager     repositories.TxManagerInterface
	repo          repositories.MaintenanceRecordRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	templateRepo  repositories.TemplateRepositoryInterface
	fileStorage   filestorage.FileStorageInterface
	settings      SettingsServiceInterface
	bus           EventPublisher
	calendar      CalendarConfig
	logger        *zap.Logger
	now           Clock
}

func NewMaintenanceService(
	txManager repositories.TxManagerInterface,
	repo repositories.MaintenanceRecordRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	templateRepo repositories.TemplateRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	settings SettingsServiceInterface,
	bus EventPublisher,
	calendar CalendarConfig,
	logger *zap.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		txManager:     txManager,
		repo:          repo,
		equipmentRepo: equipmentRepo,
		templateRepo:  templateRepo,
		fileStorage:   fileStorage,
		settings:      settings,
		bus:           bus,
		calendar:      calendar,
		logger:        logger,
		now:           systemClock,
	}
}

// FilteredRecords - записи после фильтра planning, новые сверху, без пагинации.
func (s *MaintenanceService) FilteredRecords(ctx context.Context, filter types.Filter) ([]entities.MaintenanceRecord, error) {
	f := planning.RecordFilterFromQuery(filter)
	records, err := s.repo.List(ctx, repositories.RecordScope{EquipmentID: f.EquipmentID, TemplateID: f.TemplateID})
	if err != nil {
		return nil, err
	}
	return planning.FilterRecords(records, f), nil
}

func (s *MaintenanceService) ListRecords(ctx context.Context, filter types.Filter) (*dto.RecordsPage, error) {
	records, err := s.FilteredRecords(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := &dto.RecordsPage{Total: uint64(len(records))}
	if len(records) == 0 {
		page.Records = []entities.MaintenanceRecord{}
		page.Message = MessageNoRecords
		return page, nil
	}
	if filter.WithPagination && filter.Limit > 0 {
		start := filter.Offset
		if start > len(records) {
			start = len(records)
		}
		end := start + filter.Limit
		if end > len(records) {
			end = len(records)
		}
		records = records[start:end]
	}
	page.Records = records
	return page, nil
}

func (s *MaintenanceService) FindRecord(ctx context.Context, id uint64) (*entities.MaintenanceRecord, error) {
	return s.repo.FindByID(ctx, nil, id)
}

func (s *MaintenanceService) CreateRecord(ctx context.Context, d dto.CreateRecordDTO) (*entities.MaintenanceRecord, error) {
	status := d.Status
	if status == "" {
		status = constants.RecordPending
	}
	// Завершить можно только через Complete: нужны фото и ответственный.
	if status == constants.RecordCompleted {
		return nil, apperrors.ErrDocumentationRequired
	}
	due, err := utils.ParseDate(d.DueDate)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("Ungültiges Fälligkeitsdatum")
	}

	id, err := s.repo.Create(ctx, nil, entities.MaintenanceRecord{
		EquipmentID:  d.EquipmentID,
		TemplateID:   d.TemplateID,
		DueDate:      due,
		Status:       status,
		MinutesSpent: d.MinutesSpentPtr(),
		Notes:        d.NotesPtr(),
	})
	if err != nil {
		s.logger.Error("Ошибка при создании записи обслуживания", zap.Error(err))
		return nil, err
	}
	publishChanged(ctx, s.bus, constants.QueryRecords, &id)
	return s.repo.FindByID(ctx, nil, id)
}

func (s *MaintenanceService) UpdateRecord(ctx context.Context, id uint64, d dto.UpdateRecordDTO) (*entities.MaintenanceRecord, error) {
	due, err := utils.ParseDate(d.DueDate)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("Ungültiges Fälligkeitsdatum")
	}
	err = s.repo.Update(ctx, nil, id, entities.MaintenanceRecord{
		DueDate:      due,
		MinutesSpent: d.MinutesSpentPtr(),
		Notes:        d.NotesPtr(),
	})
	if err != nil {
		return nil, err
	}
	publishChanged(ctx, s.bus, constants.QueryRecords, &id)
	return s.repo.FindByID(ctx, nil, id)
}

func (s *MaintenanceService) DeleteRecord(ctx context.Context, id uint64) error {
	current, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, nil, id); err != nil {
		return err
	}
	s.removeFile(current.DocumentationImageURL)
	s.logger.Info("Запись обслуживания удалена", zap.Uint64("id", id))
	publishChanged(ctx, s.bus, constants.QueryRecords, &id)
	return nil
}

// ChangeStatus допускает только движение вперёд; завершение требует фото и ответственного.
func (s *MaintenanceService) ChangeStatus(ctx context.Context, id uint64, status string) (*entities.MaintenanceRecord, error) {
	var completed bool
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if !constants.CanTransitionRecord(current.Status, status) {
			return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidStatusTransition, current.Status, status)
		}
		if current.Status == status {
			return nil
		}
		if status == constants.RecordCompleted {
			if err := completionPreconditions(current.DocumentationImageURL, current.PerformedBy); err != nil {
				return err
			}
			completed = true
		}
		return s.repo.UpdateStatus(ctx, tx, id, status)
	})
	if err != nil {
		return nil, err
	}
	return s.afterWrite(ctx, id, completed)
}

func completionPreconditions(documentation *string, performer *uint64) error {
	if documentation == nil || *documentation == "" {
		return apperrors.ErrDocumentationRequired
	}
	if performer == nil || *performer == 0 {
		return apperrors.ErrPerformerRequired
	}
	return nil
}

// PlanProjection создаёт запись "geplant" для строки прогноза.
// Если запись той же пары на этот день уже есть, возвращает её (created=false).
func (s *MaintenanceService) PlanProjection(ctx context.Context, d dto.PlanProjectionDTO) (*entities.MaintenanceRecord, bool, error) {
	due, err := utils.ParseDate(d.DueDate)
	if err != nil {
		return nil, false, apperrors.NewInvalidInputError("Ungültiges Fälligkeitsdatum")
	}

	var id uint64
	created := false
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		template, err := s.templateRepo.FindByID(ctx, tx, d.TemplateID)
		if err != nil {
			return err
		}
		if template.IntervalMonths == nil {
			return apperrors.ErrNoInterval
		}
		if _, err := s.equipmentRepo.FindByID(ctx, tx, d.EquipmentID); err != nil {
			return err
		}

		existing, err := s.repo.FindByPairAndDay(ctx, tx, d.EquipmentID, d.TemplateID, due)
		if err == nil {
			id = existing.ID
			return nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		id, err = s.repo.Create(ctx, tx, entities.MaintenanceRecord{
			EquipmentID: d.EquipmentID,
			TemplateID:  d.TemplateID,
			DueDate:     due,
			Status:      constants.RecordScheduled,
		})
		created = err == nil
		return err
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		s.logger.Info("Обслуживание запланировано",
			zap.Uint64("record_id", id),
			zap.Uint64("equipment_id", d.EquipmentID),
			zap.Uint64("template_id", d.TemplateID),
			zap.String("due_date", d.DueDate))
		publishChanged(ctx, s.bus, constants.QueryRecords, &id)
	}
	rec, err := s.repo.FindByID(ctx, nil, id)
	return rec, created, err
}

func (s *MaintenanceService) Complete(ctx context.Context, id uint64, d dto.CompleteRecordDTO) (*entities.MaintenanceRecord, error) {
	performedDate := today(s.now())
	if p := d.PerformedDatePtr(); p != nil {
		performedDate = *p
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		current, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if current.Status == constants.RecordCompleted {
			return fmt.Errorf("%w: запись уже завершена", apperrors.ErrInvalidStatusTransition)
		}
		if err := completionPreconditions(current.DocumentationImageURL, d.PerformedByPtr()); err != nil {
			return err
		}
		return s.repo.Complete(ctx, tx, id, *d.PerformedByPtr(), performedDate, d.MinutesSpentPtr(), d.NotesPtr())
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Обслуживание завершено", zap.Uint64("record_id", id))
	return s.afterWrite(ctx, id, true)
}

// ResetToPlanned - единственный путь назад: очищает выполнение и фото.
func (s *MaintenanceService) ResetToPlanned(ctx context.Context, id uint64) (*entities.MaintenanceRecord, error) {
	current, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ResetToPlanned(ctx, nil, id); err != nil {
		return nil, err
	}
	s.removeFile(current.DocumentationImageURL)
	s.logger.Info("Запись возвращена в 'geplant'", zap.Uint64("record_id", id), zap.String("from", current.Status))
	return s.afterWrite(ctx, id, false)
}

// UploadDocumentation сохраняет фото как maintenance-<id>-<unixMillis>.<ext> и заменяет прежнее.
func (s *MaintenanceService) UploadDocumentation(ctx context.Context, id uint64, fileHeader *multipart.FileHeader) (*entities.MaintenanceRecord, error) {
	current, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	file, err := openValidated(fileHeader, constants.UploadContextMaintenanceDoc)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	fileName := DocumentationFileName(id, s.now(), validation.ExtensionFor(fileHeader))
	url, err := s.fileStorage.SaveAs(file, fileName, uploadPrefix(constants.UploadContextMaintenanceDoc))
	if err != nil {
		s.logger.Error("Не удалось сохранить фото-документацию", zap.Uint64("record_id", id), zap.Error(err))
		return nil, err
	}

	if err := s.repo.SetDocumentation(ctx, nil, id, &url); err != nil {
		s.removeFile(&url)
		return nil, err
	}
	if current.DocumentationImageURL != nil && *current.DocumentationImageURL != url {
		s.removeFile(current.DocumentationImageURL)
	}
	return s.afterWrite(ctx, id, false)
}

func DocumentationFileName(recordID uint64, now time.Time, ext string) string {
	return fmt.Sprintf("maintenance-%d-%d%s", recordID, now.UnixMilli(), ext)
}

func (s *MaintenanceService) afterWrite(ctx context.Context, id uint64, completed bool) (*entities.MaintenanceRecord, error) {
	rec, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	publishChanged(ctx, s.bus, constants.QueryRecords, &id)
	if completed && s.bus != nil {
		s.bus.Publish(ctx, events.RecordCompletedEvent{Record: *rec})
	}
	return rec, nil
}

func (s *MaintenanceService) removeFile(url *string) {
	if url == nil || !isUploadURL(*url) {
		return
	}
	if err := s.fileStorage.Delete(*url); err != nil {
		s.logger.Warn("Не удалось удалить файл", zap.String("url", *url), zap.Error(err))
	}
}

// Calendar - свежий VCALENDAR по отфильтрованным записям.
func (s *MaintenanceService) Calendar(ctx context.Context, filter types.Filter) (string, error) {
	records, err := s.FilteredRecords(ctx, filter)
	if err != nil {
		return "", err
	}
	name := s.calendar.Name
	if settings, err := s.settings.Get(ctx); err == nil && settings.Calendar.Title != "" {
		name = settings.Calendar.Title
	}
	return export.BuildCalendar(records, export.CalendarOptions{
		Domain: s.calendar.Domain,
		Name:   name,
		Now:    s.now(),
	})
}

// SubscriptionURL - webcal://-ссылка на ленту с теми же параметрами фильтра.
func (s *MaintenanceService) SubscriptionURL(rawQuery string) string {
	feed := strings.TrimRight(s.calendar.PublicBaseURL, "/") + CalendarFeedPath
	if values, err := url.ParseQuery(rawQuery); err == nil && len(values) > 0 {
		feed += "?" + values.Encode()
	}
	return export.SubscriptionURL(feed)
}
