package dto

import (
	"time"

	"geraetewart/internal/entities"
	"geraetewart/internal/planning"
	"geraetewart/pkg/utils"

	"github.com/aarondl/null/v8"
)

type CreateRecordDTO struct {
	EquipmentID  uint64      `json:"equipment_id" validate:"required"`
	TemplateID   uint64      `json:"template_id" validate:"required"`
	DueDate      string      `json:"due_date" validate:"required,datetime=2006-01-02"`
	Status       string      `json:"status" validate:"omitempty,record_status"`
	MinutesSpent null.Int    `json:"minutes_spent" validate:"omitempty,gte=0"`
	Notes        null.String `json:"notes" validate:"omitempty,max=5000"`
}

type UpdateRecordDTO struct {
	DueDate      string      `json:"due_date" validate:"required,datetime=2006-01-02"`
	MinutesSpent null.Int    `json:"minutes_spent" validate:"omitempty,gte=0"`
	Notes        null.String `json:"notes" validate:"omitempty,max=5000"`
}

// PlanProjectionDTO - "запланировать" строку прогноза.
type PlanProjectionDTO struct {
	EquipmentID uint64 `json:"equipment_id" validate:"required"`
	TemplateID  uint64 `json:"template_id" validate:"required"`
	DueDate     string `json:"due_date" validate:"required,datetime=2006-01-02"`
}

type CompleteRecordDTO struct {
	PerformedBy   null.Uint64 `json:"performed_by"`
	PerformedDate null.String `json:"performed_date" validate:"omitempty,datetime=2006-01-02"`
	MinutesSpent  null.Int    `json:"minutes_spent" validate:"omitempty,gte=0"`
	Notes         null.String `json:"notes" validate:"omitempty,max=5000"`
}

func (d CompleteRecordDTO) PerformedByPtr() *uint64      { return nullUint64Ptr(d.PerformedBy) }
func (d CompleteRecordDTO) PerformedDatePtr() *time.Time { return nullDatePtr(d.PerformedDate) }
func (d CompleteRecordDTO) MinutesSpentPtr() *int        { return nullIntPtr(d.MinutesSpent) }
func (d CompleteRecordDTO) NotesPtr() *string            { return nullStringPtr(d.Notes) }

func (d UpdateRecordDTO) MinutesSpentPtr() *int { return nullIntPtr(d.MinutesSpent) }
func (d UpdateRecordDTO) NotesPtr() *string     { return nullStringPtr(d.Notes) }
func (d CreateRecordDTO) MinutesSpentPtr() *int { return nullIntPtr(d.MinutesSpent) }
func (d CreateRecordDTO) NotesPtr() *string     { return nullStringPtr(d.Notes) }

type RecordStatusDTO struct {
	Status string `json:"status" validate:"required,record_status"`
}

// ProjectionDTO - строка прогноза для таблицы "Fälligkeiten".
type ProjectionDTO struct {
	EquipmentID           uint64          `json:"equipment_id"`
	EquipmentName         string          `json:"equipment_name"`
	InventoryNumber       string          `json:"inventory_number"`
	Barcode               *string         `json:"barcode"`
	CategoryName          *string         `json:"category_name"`
	TemplateID            uint64          `json:"template_id"`
	TemplateName          string          `json:"template_name"`
	IntervalMonths        int             `json:"interval_months"`
	ResponsiblePersonName *string         `json:"responsible_person_name"`
	LastDate              string          `json:"last_date"`
	NextDue               string          `json:"next_due"`
	DaysRemaining         int             `json:"days_remaining"`
	Bucket                planning.Bucket `json:"bucket"`
	LastRecordID          *uint64         `json:"last_record_id"`
	ExistingRecordID      *uint64         `json:"existing_record_id"`
}

func NewProjectionDTO(p planning.Projection) ProjectionDTO {
	out := ProjectionDTO{
		EquipmentID:           p.Equipment.ID,
		EquipmentName:         p.Equipment.Name,
		InventoryNumber:       p.Equipment.InventoryNumber,
		Barcode:               p.Equipment.Barcode,
		CategoryName:          p.Equipment.CategoryName,
		TemplateID:            p.Template.ID,
		TemplateName:          p.Template.Name,
		IntervalMonths:        utils.SafeDeref(p.Template.IntervalMonths),
		ResponsiblePersonName: p.Template.ResponsiblePersonName,
		LastDate:              p.LastDate.Format(utils.DateFormat),
		NextDue:               p.NextDue.Format(utils.DateFormat),
		DaysRemaining:         p.DaysRemaining,
		Bucket:                p.Bucket,
	}
	if p.LastRecord != nil {
		out.LastRecordID = &p.LastRecord.ID
	}
	if p.ExistingRecord != nil {
		out.ExistingRecordID = &p.ExistingRecord.ID
	}
	return out
}

type PlanningDTO struct {
	Projections []ProjectionDTO         `json:"projections"`
	Counts      map[planning.Bucket]int `json:"counts"`
}

// RecordsPage - ответ списка с подсказкой для пустого результата.
type RecordsPage struct {
	Records []entities.MaintenanceRecord
	Total   uint64
	Message string
}
