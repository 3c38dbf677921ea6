package entities

import (
	"time"

	"geraetewart/pkg/types"
)

type MaintenanceTemplate struct {
	ID                  uint64  `json:"id"`
	Name                string  `json:"name"`
	Description         *string `json:"description"`
	IntervalMonths      *int    `json:"interval_months"`
	CategoryID          *uint64 `json:"category_id"`
	ResponsiblePersonID *uint64 `json:"responsible_person_id"`
	ChecklistURL        *string `json:"checklist_url"`
	EstimatedMinutes    *int    `json:"estimated_minutes"`

	types.BaseEntity

	CategoryName           *string `json:"category_name,omitempty"`
	ResponsiblePersonName  *string `json:"responsible_person_name,omitempty"`
	ResponsiblePersonEmail *string `json:"responsible_person_email,omitempty"`
	EquipmentCount         uint64  `json:"equipment_count"`
}

type MaintenanceRecord struct {
	ID                    uint64     `json:"id"`
	EquipmentID           uint64     `json:"equipment_id"`
	TemplateID            uint64     `json:"template_id"`
	DueDate               time.Time  `json:"due_date"`
	Status                string     `json:"status"`
	PerformedDate         *time.Time `json:"performed_date"`
	PerformedBy           *uint64    `json:"performed_by"`
	MinutesSpent          *int       `json:"minutes_spent"`
	Notes                 *string    `json:"notes"`
	DocumentationImageURL *string    `json:"documentation_image_url"`

	types.BaseEntity

	EquipmentName            string  `json:"equipment_name,omitempty"`
	EquipmentBarcode         *string `json:"equipment_barcode,omitempty"`
	InventoryNumber          string  `json:"inventory_number,omitempty"`
	EquipmentCategoryID      *uint64 `json:"equipment_category_id,omitempty"`
	EquipmentResponsibleID   *uint64 `json:"equipment_responsible_id,omitempty"`
	TemplateName             string  `json:"template_name,omitempty"`
	TemplateResponsibleID    *uint64 `json:"template_responsible_id,omitempty"`
	TemplateResponsibleEmail *string `json:"template_responsible_email,omitempty"`
	PerformerName            *string `json:"performer_name,omitempty"`
}

// EffectiveDate - дата выполнения, если она есть, иначе плановая дата.
func (r MaintenanceRecord) EffectiveDate() time.Time {
	if r.PerformedDate != nil {
		return *r.PerformedDate
	}
	return r.DueDate
}

// TemplateEquipmentItem - позиция списка шаблона (для проверки наличия).
type TemplateEquipmentItem struct {
	TemplateID      uint64  `json:"template_id"`
	EquipmentID     uint64  `json:"equipment_id"`
	EquipmentName   string  `json:"equipment_name"`
	InventoryNumber string  `json:"inventory_number"`
	Barcode         *string `json:"barcode"`
	LocationName    *string `json:"location_name"`
}
