package dto

import (
	"geraetewart/internal/entities"

	"github.com/aarondl/null/v8"
)

type TemplateDTO struct {
	Name                string      `json:"name" validate:"required,max=255"`
	Description         null.String `json:"description" validate:"omitempty,max=5000"`
	IntervalMonths      null.Int    `json:"interval_months" validate:"omitempty,gte=1,lte=120"`
	CategoryID          null.Uint64 `json:"category_id"`
	ResponsiblePersonID null.Uint64 `json:"responsible_person_id"`
	ChecklistURL        null.String `json:"checklist_url" validate:"omitempty,max=2000"`
	EstimatedMinutes    null.Int    `json:"estimated_minutes" validate:"omitempty,gte=0,lte=10000"`
}

func (d TemplateDTO) ToEntity() entities.MaintenanceTemplate {
	return entities.MaintenanceTemplate{
		Name:                d.Name,
		Description:         nullStringPtr(d.Description),
		IntervalMonths:      nullIntPtr(d.IntervalMonths),
		CategoryID:          nullUint64Ptr(d.CategoryID),
		ResponsiblePersonID: nullUint64Ptr(d.ResponsiblePersonID),
		ChecklistURL:        nullStringPtr(d.ChecklistURL),
		EstimatedMinutes:    nullIntPtr(d.EstimatedMinutes),
	}
}

type TemplateItemDTO struct {
	EquipmentID uint64 `json:"equipment_id" validate:"required"`
}
