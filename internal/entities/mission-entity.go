package entities

import (
	"time"

	"geraetewart/pkg/types"
)

type Mission struct {
	ID                 uint64    `json:"id"`
	Type               string    `json:"type"`
	Title              string    `json:"title"`
	MissionDate        time.Time `json:"mission_date"`
	StartTime          *string   `json:"start_time"`
	EndTime            *string   `json:"end_time"`
	Location           *string   `json:"location"`
	Description        *string   `json:"description"`
	ResponsiblePersons *string   `json:"responsible_persons"`

	types.BaseEntity

	EquipmentCount uint64 `json:"equipment_count"`
}

// MissionEquipment - запись об использовании оборудования на выезде.
type MissionEquipment struct {
	ID          uint64    `json:"id"`
	MissionID   uint64    `json:"mission_id"`
	EquipmentID uint64    `json:"equipment_id"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`

	EquipmentName   string    `json:"equipment_name,omitempty"`
	InventoryNumber string    `json:"inventory_number,omitempty"`
	MissionTitle    string    `json:"mission_title,omitempty"`
	MissionType     string    `json:"mission_type,omitempty"`
	MissionDate     time.Time `json:"mission_date,omitempty"`
}
