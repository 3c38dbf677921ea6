// Package checksession - пошаговая проверка наличия оборудования по списку шаблона.
package checksession

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"geraetewart/internal/entities"
	apperrors "geraetewart/pkg/errors"
)

type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateCancelled  State = "cancelled"
)

type ItemState string

const (
	ItemUnchecked ItemState = "unchecked"
	ItemPresent   ItemState = "present"
	ItemMissing   ItemState = "missing"
	ItemReplaced  ItemState = "replaced"
)

func (s ItemState) Valid() bool {
	switch s {
	case ItemUnchecked, ItemPresent, ItemMissing, ItemReplaced:
		return true
	}
	return false
}

var (
	ErrNotStarted = fmt.Errorf("%w: проверка ещё не начата", apperrors.ErrBadRequest)
	ErrWrongItem  = fmt.Errorf("%w: штрихкод не относится к текущей позиции", apperrors.ErrConflict)
)

// UncheckedItemsError возвращается при завершении без подтверждения.
type UncheckedItemsError struct {
	Count int
}

func (e *UncheckedItemsError) Error() string {
	return fmt.Sprintf("%s: %d", apperrors.ErrUncheckedItems.Error(), e.Count)
}

func (e *UncheckedItemsError) Is(target error) bool {
	return target == apperrors.ErrUncheckedItems
}

type Item struct {
	EquipmentID     uint64     `json:"equipment_id"`
	Name            string     `json:"name"`
	InventoryNumber string     `json:"inventory_number"`
	Barcode         *string    `json:"barcode"`
	LocationName    *string    `json:"location_name"`
	State           ItemState  `json:"state"`
	CheckedAt       *time.Time `json:"checked_at"`
}

type Session struct {
	ID           string    `json:"id"`
	TemplateID   uint64    `json:"template_id"`
	TemplateName string    `json:"template_name"`
	State        State     `json:"state"`
	Items        []Item    `json:"items"`
	Current      int       `json:"current"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Outcome - что нужно записать в БД при завершении.
type Outcome struct {
	TemplateID uint64   `json:"template_id"`
	Missing    []uint64 `json:"missing"`
	Checked    []uint64 `json:"checked"`
}

type Summary struct {
	Total     int `json:"total"`
	Unchecked int `json:"unchecked"`
	Present   int `json:"present"`
	Missing   int `json:"missing"`
	Replaced  int `json:"replaced"`
}

func New(id string, template entities.MaintenanceTemplate, items []entities.TemplateEquipmentItem, createdBy string, now time.Time) *Session {
	s := &Session{
		ID:           id,
		TemplateID:   template.ID,
		TemplateName: template.Name,
		State:        StateNotStarted,
		Items:        make([]Item, 0, len(items)),
		Current:      -1,
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, it := range items {
		s.Items = append(s.Items, Item{
			EquipmentID:     it.EquipmentID,
			Name:            it.EquipmentName,
			InventoryNumber: it.InventoryNumber,
			Barcode:         it.Barcode,
			LocationName:    it.LocationName,
			State:           ItemUnchecked,
		})
	}
	return s
}

func (s *Session) Start(now time.Time) error {
	switch s.State {
	case StateInProgress:
		return nil
	case StateCompleted, StateCancelled:
		return apperrors.ErrSessionClosed
	}
	s.State = StateInProgress
	s.Current = s.nextUnchecked(-1)
	s.UpdatedAt = now
	return nil
}

func (s *Session) ensureActive() error {
	switch s.State {
	case StateInProgress:
		return nil
	case StateNotStarted:
		return ErrNotStarted
	default:
		return apperrors.ErrSessionClosed
	}
}

// CurrentItem возвращает nil, если все позиции пройдены.
func (s *Session) CurrentItem() *Item {
	if s.Current < 0 || s.Current >= len(s.Items) {
		return nil
	}
	return &s.Items[s.Current]
}

// Scan отмечает позицию по штрихкоду как "present".
// Без scanMode штрихкод должен принадлежать текущей позиции.
func (s *Session) Scan(barcode string, scanMode bool, now time.Time) (*Item, error) {
	if err := s.ensureActive(); err != nil {
		return nil, err
	}

	idx := s.indexByBarcode(barcode)
	if idx < 0 {
		return nil, apperrors.ErrUnknownBarcode
	}

	if !scanMode {
		if s.CurrentItem() == nil {
			return nil, apperrors.ErrNoCurrentItem
		}
		if idx != s.Current {
			return nil, ErrWrongItem
		}
	}

	s.setState(idx, ItemPresent, now)
	if idx == s.Current {
		s.Current = s.nextUnchecked(s.Current)
	}
	return &s.Items[idx], nil
}

// Mark выставляет состояние позиции вручную.
func (s *Session) Mark(equipmentID uint64, state ItemState, now time.Time) (*Item, error) {
	if err := s.ensureActive(); err != nil {
		return nil, err
	}
	if !state.Valid() {
		return nil, apperrors.NewInvalidInputError("недопустимое состояние позиции: %s", state)
	}

	idx := s.indexByEquipment(equipmentID)
	if idx < 0 {
		return nil, apperrors.ErrNotFound
	}

	s.setState(idx, state, now)
	if idx == s.Current && state != ItemUnchecked {
		s.Current = s.nextUnchecked(s.Current)
	}
	return &s.Items[idx], nil
}

// Advance и Back перемещают курсор для ручного обхода.
func (s *Session) Advance(now time.Time) error {
	if err := s.ensureActive(); err != nil {
		return err
	}
	if s.Current < len(s.Items)-1 {
		s.Current++
		s.UpdatedAt = now
	}
	return nil
}

func (s *Session) Back(now time.Time) error {
	if err := s.ensureActive(); err != nil {
		return err
	}
	if s.Current < 0 && len(s.Items) > 0 {
		s.Current = len(s.Items) - 1
	} else if s.Current > 0 {
		s.Current--
	}
	s.UpdatedAt = now
	return nil
}

// Complete переводит сессию в completed. Если остались непроверенные позиции,
// без markUncheckedMissing вернётся UncheckedItemsError, иначе они станут "missing".
// Сохранять сессию нужно только после успешной записи Outcome.
func (s *Session) Complete(markUncheckedMissing bool, now time.Time) (Outcome, error) {
	if err := s.ensureActive(); err != nil {
		return Outcome{}, err
	}

	if n := s.Summary().Unchecked; n > 0 {
		if !markUncheckedMissing {
			return Outcome{}, &UncheckedItemsError{Count: n}
		}
		for i := range s.Items {
			if s.Items[i].State == ItemUnchecked {
				s.setState(i, ItemMissing, now)
			}
		}
	}

	out := Outcome{TemplateID: s.TemplateID, Missing: []uint64{}, Checked: []uint64{}}
	for _, it := range s.Items {
		switch it.State {
		case ItemMissing:
			out.Missing = append(out.Missing, it.EquipmentID)
		case ItemPresent, ItemReplaced:
			out.Checked = append(out.Checked, it.EquipmentID)
		}
	}

	s.State = StateCompleted
	s.Current = -1
	s.UpdatedAt = now
	return out, nil
}

func (s *Session) Cancel(now time.Time) error {
	switch s.State {
	case StateCancelled:
		return nil
	case StateCompleted:
		return apperrors.ErrSessionClosed
	}
	s.State = StateCancelled
	s.Current = -1
	s.UpdatedAt = now
	return nil
}

func (s *Session) Summary() Summary {
	sum := Summary{Total: len(s.Items)}
	for _, it := range s.Items {
		switch it.State {
		case ItemUnchecked:
			sum.Unchecked++
		case ItemPresent:
			sum.Present++
		case ItemMissing:
			sum.Missing++
		case ItemReplaced:
			sum.Replaced++
		}
	}
	return sum
}

func (s *Session) setState(idx int, state ItemState, now time.Time) {
	s.Items[idx].State = state
	if state == ItemUnchecked {
		s.Items[idx].CheckedAt = nil
	} else {
		t := now
		s.Items[idx].CheckedAt = &t
	}
	s.UpdatedAt = now
}

// nextUnchecked ищет следующую непроверенную позицию после from, затем с начала.
func (s *Session) nextUnchecked(from int) int {
	n := len(s.Items)
	for step := 1; step <= n; step++ {
		i := (from + step) % n
		if i < 0 {
			i += n
		}
		if s.Items[i].State == ItemUnchecked {
			return i
		}
	}
	return -1
}

func (s *Session) indexByBarcode(barcode string) int {
	code := strings.TrimSpace(barcode)
	if code == "" {
		return -1
	}
	for i, it := range s.Items {
		if it.Barcode != nil && strings.EqualFold(strings.TrimSpace(*it.Barcode), code) {
			return i
		}
	}
	return -1
}

func (s *Session) indexByEquipment(equipmentID uint64) int {
	for i, it := range s.Items {
		if it.EquipmentID == equipmentID {
			return i
		}
	}
	return -1
}

// IsUncheckedItems достаёт количество непроверенных позиций из ошибки.
func IsUncheckedItems(err error) (int, bool) {
	var target *UncheckedItemsError
	if errors.As(err, &target) {
		return target.Count, true
	}
	return 0, false
}
