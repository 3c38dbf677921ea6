package entities

import (
	"time"

	"geraetewart/pkg/types"
)

type Equipment struct {
	ID                  uint64     `json:"id"`
	InventoryNumber     string     `json:"inventory_number"`
	Barcode             *string    `json:"barcode"`
	Name                string     `json:"name"`
	CategoryID          *uint64    `json:"category_id"`
	LocationID          *uint64    `json:"location_id"`
	ResponsiblePersonID *uint64    `json:"responsible_person_id"`
	Status              string     `json:"status"`
	Manufacturer        *string    `json:"manufacturer"`
	Model               *string    `json:"model"`
	SerialNumber        *string    `json:"serial_number"`
	PurchaseDate        *time.Time `json:"purchase_date"`
	ReplacementDate     *time.Time `json:"replacement_date"`
	LastCheckDate       *time.Time `json:"last_check_date"`
	NextCheckDate       *time.Time `json:"next_check_date"`
	Notes               *string    `json:"notes"`

	types.BaseEntity

	// Поля из JOIN (не колонки таблицы)
	CategoryName          *string `json:"category_name,omitempty"`
	LocationName          *string `json:"location_name,omitempty"`
	ResponsiblePersonName *string `json:"responsible_person_name,omitempty"`
}

// EquipmentStatusCount - строка агрегата для дашборда.
type EquipmentStatusCount struct {
	Status string `json:"status"`
	Count  uint64 `json:"count"`
}

type EquipmentComment struct {
	ID          uint64    `json:"id"`
	EquipmentID uint64    `json:"equipment_id"`
	PersonID    *uint64   `json:"person_id"`
	PersonName  *string   `json:"person_name"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
}
