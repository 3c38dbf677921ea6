package dto

import "geraetewart/internal/checksession"

type CreateCheckSessionDTO struct {
	TemplateID uint64 `json:"template_id" validate:"required"`
}

type ScanDTO struct {
	Barcode  string `json:"barcode" validate:"required,max=64"`
	ScanMode bool   `json:"scan_mode"`
}

type MarkItemDTO struct {
	EquipmentID uint64 `json:"equipment_id" validate:"required"`
	State       string `json:"state" validate:"required,check_state"`
}

type CompleteCheckSessionDTO struct {
	MarkUncheckedMissing bool `json:"mark_unchecked_missing"`
}

// CheckSessionDTO - состояние сессии для экрана проверки.
type CheckSessionDTO struct {
	*checksession.Session
	CurrentItem *checksession.Item   `json:"current_item"`
	Summary     checksession.Summary `json:"summary"`
}

func NewCheckSessionDTO(s *checksession.Session) CheckSessionDTO {
	return CheckSessionDTO{Session: s, CurrentItem: s.CurrentItem(), Summary: s.Summary()}
}

// CheckResultDTO - итог завершения: что удалено из шаблона и что отмечено проверенным.
type CheckResultDTO struct {
	CheckSessionDTO
	Outcome      checksession.Outcome `json:"outcome"`
	LinksRemoved int64                `json:"links_removed"`
}
