package dto

import (
	"geraetewart/internal/entities"
	"geraetewart/internal/planning"
	"geraetewart/internal/repositories"
)

type DashboardDTO struct {
	EquipmentByStatus []entities.EquipmentStatusCount `json:"equipment_by_status"`
	Buckets           map[planning.Bucket]int         `json:"buckets"`
	RecordsByStatus   []repositories.CountByGroup     `json:"records_by_status"`
	MonthlyWork       []repositories.MonthlyWork      `json:"monthly_work"`
	MissionsByType    []repositories.CountByGroup     `json:"missions_by_type"`
	Upcoming          []ProjectionDTO                 `json:"upcoming"`
}
