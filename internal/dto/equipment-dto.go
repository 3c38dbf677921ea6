package dto

import (
	"geraetewart/internal/entities"
	"geraetewart/pkg/constants"

	"github.com/aarondl/null/v8"
)

type EquipmentDTO struct {
	InventoryNumber     string      `json:"inventory_number" validate:"required,max=100"`
	Barcode             null.String `json:"barcode" validate:"omitempty,barcode"`
	Name                string      `json:"name" validate:"required,max=255"`
	CategoryID          null.Uint64 `json:"category_id"`
	LocationID          null.Uint64 `json:"location_id"`
	ResponsiblePersonID null.Uint64 `json:"responsible_person_id"`
	Status              string      `json:"status" validate:"omitempty,equipment_status"`
	Manufacturer        null.String `json:"manufacturer" validate:"omitempty,max=255"`
	Model               null.String `json:"model" validate:"omitempty,max=255"`
	SerialNumber        null.String `json:"serial_number" validate:"omitempty,max=255"`
	PurchaseDate        null.String `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
	ReplacementDate     null.String `json:"replacement_date" validate:"omitempty,datetime=2006-01-02"`
	LastCheckDate       null.String `json:"last_check_date" validate:"omitempty,datetime=2006-01-02"`
	NextCheckDate       null.String `json:"next_check_date" validate:"omitempty,datetime=2006-01-02"`
	Notes               null.String `json:"notes" validate:"omitempty,max=5000"`
}

func (d EquipmentDTO) ToEntity() entities.Equipment {
	status := d.Status
	if status == "" {
		status = constants.EquipmentReady
	}
	return entities.Equipment{
		InventoryNumber:     d.InventoryNumber,
		Barcode:             nullStringPtr(d.Barcode),
		Name:                d.Name,
		CategoryID:          nullUint64Ptr(d.CategoryID),
		LocationID:          nullUint64Ptr(d.LocationID),
		ResponsiblePersonID: nullUint64Ptr(d.ResponsiblePersonID),
		Status:              status,
		Manufacturer:        nullStringPtr(d.Manufacturer),
		Model:               nullStringPtr(d.Model),
		SerialNumber:        nullStringPtr(d.SerialNumber),
		PurchaseDate:        nullDatePtr(d.PurchaseDate),
		ReplacementDate:     nullDatePtr(d.ReplacementDate),
		LastCheckDate:       nullDatePtr(d.LastCheckDate),
		NextCheckDate:       nullDatePtr(d.NextCheckDate),
		Notes:               nullStringPtr(d.Notes),
	}
}

type EquipmentStatusDTO struct {
	Status string `json:"status" validate:"required,equipment_status"`
}

// EquipmentDetailDTO - карточка оборудования со связанными данными.
type EquipmentDetailDTO struct {
	entities.Equipment
	Comments []*entities.EquipmentComment `json:"comments"`
	Records  []entities.MaintenanceRecord `json:"records"`
	Missions []*entities.MissionEquipment `json:"missions"`
}

type CreateCommentDTO struct {
	Comment  string      `json:"comment" validate:"required,min=1,max=2000"`
	PersonID null.Uint64 `json:"person_id"`
}

func (d CreateCommentDTO) PersonIDPtr() *uint64 {
	return nullUint64Ptr(d.PersonID)
}

// ImportResultDTO - итог импорта из xlsx.
type ImportResultDTO struct {
	Created int           `json:"created"`
	Updated int           `json:"updated"`
	Issues  []ImportIssue `json:"issues"`
}

type ImportIssue struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}
