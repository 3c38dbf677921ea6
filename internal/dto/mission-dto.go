package dto

import (
	"time"

	"geraetewart/internal/entities"

	"github.com/aarondl/null/v8"
)

type MissionDTO struct {
	Type               string      `json:"type" validate:"required,mission_type"`
	Title              string      `json:"title" validate:"required,max=255"`
	MissionDate        string      `json:"mission_date" validate:"required,datetime=2006-01-02"`
	StartTime          null.String `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime            null.String `json:"end_time" validate:"omitempty,datetime=15:04"`
	Location           null.String `json:"location" validate:"omitempty,max=255"`
	Description        null.String `json:"description" validate:"omitempty,max=5000"`
	ResponsiblePersons null.String `json:"responsible_persons" validate:"omitempty,max=1000"`
}

func (d MissionDTO) ToEntity() entities.Mission {
	date, _ := time.Parse("2006-01-02", d.MissionDate)
	return entities.Mission{
		Type:               d.Type,
		Title:              d.Title,
		MissionDate:        date,
		StartTime:          nullStringPtr(d.StartTime),
		EndTime:            nullStringPtr(d.EndTime),
		Location:           nullStringPtr(d.Location),
		Description:        nullStringPtr(d.Description),
		ResponsiblePersons: nullStringPtr(d.ResponsiblePersons),
	}
}

type MissionEquipmentDTO struct {
	EquipmentID uint64      `json:"equipment_id" validate:"required"`
	Notes       null.String `json:"notes" validate:"omitempty,max=2000"`
}

func (d MissionEquipmentDTO) NotesPtr() *string { return nullStringPtr(d.Notes) }

type MissionDetailDTO struct {
	entities.Mission
	Equipment []*entities.MissionEquipment `json:"equipment"`
}
