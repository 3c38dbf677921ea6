package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"geraetewart/internal/dto"
	"geraetewart/internal/entities"
	"geraetewart/internal/export"
	"geraetewart/internal/planning"
	"geraetewart/internal/repositories"
	"geraetewart/pkg/constants"
	apperrors "geraetewart/pkg/errors"
	"geraetewart/pkg/types"
	"geraetewart/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
	FormatHTML = "html"
)

// Report - готовый файл для отдачи клиенту.
type Report struct {
	FileName    string
	ContentType string
	Body        []byte
}

type ReportServiceInterface interface {
	EquipmentReport(ctx context.Context, filter types.Filter, format string) (*Report, error)
	RecordsReport(ctx context.Context, filter types.Filter, format string) (*Report, error)
	ProjectionsReport(ctx context.Context, filter planning.ProjectionFilter) (*Report, error)
	ImportEquipment(ctx context.Context, fileHeader *multipart.FileHeader) (*dto.ImportResultDTO, error)
}

type recordSource interface {
	FilteredRecords(ctx context.Context, filter types.Filter) ([]entities.MaintenanceRecord, error)
}

type projectionSource interface {
	Projections(ctx context.Context, filter planning.ProjectionFilter) ([]planning.Projection, error)
}

type ReportService struct {
	txManager     repositories.TxManagerInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	categoryRepo  repositories.DictionaryRepositoryInterface
	locationRepo  repositories.DictionaryRepositoryInterface
	records       recordSource
	projections   projectionSource
	bus           EventPublisher
	logger        *zap.Logger
	now           Clock
}

func NewReportService(
	txManager repositories.TxManagerInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	categoryRepo repositories.DictionaryRepositoryInterface,
	locationRepo repositories.DictionaryRepositoryInterface,
	records recordSource,
	projections projectionSource,
	bus EventPublisher,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		txManager:     txManager,
		equipmentRepo: equipmentRepo,
		categoryRepo:  categoryRepo,
		locationRepo:  locationRepo,
		records:       records,
		projections:   projections,
		bus:           bus,
		logger:        logger,
		now:           systemClock,
	}
}

func unsupportedFormat(format string) error {
	return apperrors.NewHttpError(http.StatusBadRequest,
		fmt.Sprintf("Format '%s' wird nicht unterstützt", format), apperrors.ErrBadRequest, nil)
}

func (s *ReportService) fileName(base, ext string) string {
	return fmt.Sprintf("%s-%s.%s", base, s.now().Format(utils.DateFormat), ext)
}

func (s *ReportService) EquipmentReport(ctx context.Context, filter types.Filter, format string) (*Report, error) {
	filter.WithPagination = false
	items, _, err := s.equipmentRepo.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	equipment := derefAll(items)

	var buf bytes.Buffer
	report := &Report{}
	switch strings.ToLower(format) {
	case "", FormatXLSX:
		err = export.WriteEquipmentXLSX(&buf, equipment)
		report.ContentType, report.FileName = export.XLSXContentType, s.fileName("geraete", FormatXLSX)
	case FormatPDF:
		err = export.WriteEquipmentPDF(&buf, equipment, s.now())
		report.ContentType, report.FileName = export.PDFContentType, s.fileName("geraete", FormatPDF)
	case FormatHTML:
		err = export.WriteEquipmentHTML(&buf, "Geräteübersicht", equipment, s.now())
		report.ContentType, report.FileName = export.HTMLContentType, s.fileName("geraete", FormatHTML)
	default:
		return nil, unsupportedFormat(format)
	}
	if err != nil {
		s.logger.Error("Не удалось сформировать отчёт по оборудованию", zap.String("format", format), zap.Error(err))
		return nil, err
	}
	report.Body = buf.Bytes()
	return report, nil
}

func (s *ReportService) RecordsReport(ctx context.Context, filter types.Filter, format string) (*Report, error) {
	records, err := s.records.FilteredRecords(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	report := &Report{}
	switch strings.ToLower(format) {
	case "", FormatXLSX:
		err = export.WriteRecordsXLSX(&buf, records)
		report.ContentType, report.FileName = export.XLSXContentType, s.fileName("wartungen", FormatXLSX)
	case FormatPDF:
		err = export.WriteRecordsPDF(&buf, records, s.now())
		report.ContentType, report.FileName = export.PDFContentType, s.fileName("wartungen", FormatPDF)
	default:
		return nil, unsupportedFormat(format)
	}
	if err != nil {
		s.logger.Error("Не удалось сформировать отчёт по записям", zap.String("format", format), zap.Error(err))
		return nil, err
	}
	report.Body = buf.Bytes()
	return report, nil
}

func (s *ReportService) ProjectionsReport(ctx context.Context, filter planning.ProjectionFilter) (*Report, error) {
	projections, err := s.projections.Projections(ctx, filter)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := export.WriteProjectionsXLSX(&buf, projections); err != nil {
		s.logger.Error("Не удалось сформировать отчёт по срокам", zap.Error(err))
		return nil, err
	}
	return &Report{
		FileName:    s.fileName("faelligkeiten", FormatXLSX),
		ContentType: export.XLSXContentType,
		Body:        buf.Bytes(),
	}, nil
}

// ImportEquipment создаёт или обновляет оборудование по инвентарному номеру.
// Строки с ошибками разбора пропускаются и попадают в Issues, запись в БД идёт одной транзакцией.
func (s *ReportService) ImportEquipment(ctx context.Context, fileHeader *multipart.FileHeader) (*dto.ImportResultDTO, error) {
	file, err := openValidated(fileHeader, constants.UploadContextEquipmentXLSX)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows, issues, err := export.ParseEquipmentXLSX(file)
	if err != nil {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, "Import fehlgeschlagen: "+err.Error(), err, nil)
	}

	result := &dto.ImportResultDTO{Issues: make([]dto.ImportIssue, 0, len(issues))}
	for _, is := range issues {
		result.Issues = append(result.Issues, dto.ImportIssue{Line: is.Line, Message: is.Message})
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		categories := newDictionaryResolver(s.categoryRepo)
		locations := newDictionaryResolver(s.locationRepo)
		for _, row := range rows {
			created, err := s.importRow(ctx, tx, row, categories, locations)
			if err != nil {
				return fmt.Errorf("строка %d: %w", row.Line, err)
			}
			if created {
				result.Created++
			} else {
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Импорт оборудования отменён", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Импорт оборудования завершён",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("issues", len(result.Issues)))

	publishChanged(ctx, s.bus, constants.QueryEquipment, nil)
	publishChanged(ctx, s.bus, constants.QueryCategories, nil)
	publishChanged(ctx, s.bus, constants.QueryLocations, nil)
	return result, nil
}

func (s *ReportService) importRow(ctx context.Context, tx pgx.Tx, row export.ImportRow, categories, locations *dictionaryResolver) (bool, error) {
	categoryID, err := categories.resolve(ctx, tx, row.Category)
	if err != nil {
		return false, err
	}
	locationID, err := locations.resolve(ctx, tx, row.Location)
	if err != nil {
		return false, err
	}
	purchase, err := utils.ParseDatePtr(optionalString(row.PurchaseDate))
	if err != nil {
		return false, err
	}

	existing, err := s.equipmentRepo.FindByInventoryNumber(ctx, tx, row.InventoryNumber)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return false, err
	}

	eq := entities.Equipment{Status: constants.EquipmentReady}
	if existing != nil {
		eq = *existing
	}
	eq.InventoryNumber = row.InventoryNumber
	eq.Name = row.Name
	if row.Status != "" {
		eq.Status = row.Status
	}
	if v := optionalString(row.Barcode); v != nil {
		eq.Barcode = v
	}
	if categoryID != nil {
		eq.CategoryID = categoryID
	}
	if locationID != nil {
		eq.LocationID = locationID
	}
	if v := optionalString(row.Manufacturer); v != nil {
		eq.Manufacturer = v
	}
	if v := optionalString(row.Model); v != nil {
		eq.Model = v
	}
	if v := optionalString(row.SerialNumber); v != nil {
		eq.SerialNumber = v
	}
	if purchase != nil {
		eq.PurchaseDate = purchase
	}

	if existing == nil {
		_, err = s.equipmentRepo.Create(ctx, tx, eq)
		return true, err
	}
	return false, s.equipmentRepo.Update(ctx, tx, existing.ID, eq)
}

// dictionaryResolver находит запись справочника по имени или создаёт её.
type dictionaryResolver struct {
	repo repositories.DictionaryRepositoryInterface
	ids  map[string]uint64
}

func newDictionaryResolver(repo repositories.DictionaryRepositoryInterface) *dictionaryResolver {
	return &dictionaryResolver{repo: repo, ids: make(map[string]uint64)}
}

func (r *dictionaryResolver) resolve(ctx context.Context, tx pgx.Tx, name string) (*uint64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	key := strings.ToLower(name)
	if id, ok := r.ids[key]; ok {
		return &id, nil
	}

	entry, err := r.repo.FindByName(ctx, tx, name)
	switch {
	case err == nil:
		r.ids[key] = entry.ID
		return &entry.ID, nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	id, err := r.repo.Create(ctx, tx, name, nil)
	if err != nil {
		return nil, err
	}
	r.ids[key] = id
	return &id, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
