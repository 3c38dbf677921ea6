// Package planning вычисляет прогноз сроков обслуживания по шаблонам и истории записей.
// Пакет не делает ввода-вывода.
package planning

import (
	"math"
	"sort"
	"time"

	"geraetewart/internal/entities"
)

type Bucket string

const (
	BucketOverdue Bucket = "overdue"
	BucketDueSoon Bucket = "due_soon"
	BucketPlanned Bucket = "planned"
)

var Buckets = []Bucket{BucketOverdue, BucketDueSoon, BucketPlanned}

const (
	DefaultDueSoonDays = 30
	// Просроченные больше чем на 30 дней в прогноз не попадают.
	overdueCutoffDays = -30
)

// Projection - вычисленный (не хранимый) следующий срок для пары оборудование/шаблон.
type Projection struct {
	Equipment      entities.Equipment           `json:"equipment"`
	Template       entities.MaintenanceTemplate `json:"template"`
	LastDate       time.Time                    `json:"last_date"`
	NextDue        time.Time                    `json:"next_due"`
	DaysRemaining  int                          `json:"days_remaining"`
	Bucket         Bucket                       `json:"bucket"`
	LastRecord     *entities.MaintenanceRecord  `json:"last_record,omitempty"`
	ExistingRecord *entities.MaintenanceRecord  `json:"existing_record,omitempty"`
}

type Projector struct {
	DueSoonDays int
}

func NewProjector(dueSoonDays int) *Projector {
	if dueSoonDays < 0 {
		dueSoonDays = DefaultDueSoonDays
	}
	return &Projector{DueSoonDays: dueSoonDays}
}

// Project с окном "скоро" по умолчанию.
func Project(equipment []entities.Equipment, templates []entities.MaintenanceTemplate, records []entities.MaintenanceRecord, now time.Time) []Projection {
	return NewProjector(DefaultDueSoonDays).Project(equipment, templates, records, now)
}

type pairKey struct {
	equipmentID uint64
	templateID  uint64
}

// Project считает от календарного дня now: даты записей приходят из DATE как полночь UTC.
func (p *Projector) Project(equipment []entities.Equipment, templates []entities.MaintenanceTemplate, records []entities.MaintenanceRecord, now time.Time) []Projection {
	now = CalendarDay(now)
	byPair := make(map[pairKey][]*entities.MaintenanceRecord, len(records))
	for i := range records {
		r := &records[i]
		key := pairKey{r.EquipmentID, r.TemplateID}
		byPair[key] = append(byPair[key], r)
	}

	result := make([]Projection, 0)
	for _, eq := range equipment {
		for _, tpl := range templates {
			if tpl.IntervalMonths == nil || !templateApplies(tpl, eq) {
				continue
			}

			pairRecords := byPair[pairKey{eq.ID, tpl.ID}]
			last := latestRecord(pairRecords)

			lastDate := now
			if last != nil {
				lastDate = last.EffectiveDate()
			}

			nextDue := lastDate.AddDate(0, *tpl.IntervalMonths, 0)
			days := DaysBetween(now, nextDue)
			if days <= overdueCutoffDays {
				continue
			}

			result = append(result, Projection{
				Equipment:      eq,
				Template:       tpl,
				LastDate:       lastDate,
				NextDue:        nextDue,
				DaysRemaining:  days,
				Bucket:         Classify(days, p.DueSoonDays),
				LastRecord:     last,
				ExistingRecord: recordOnDay(pairRecords, nextDue),
			})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !a.NextDue.Equal(b.NextDue) {
			return a.NextDue.Before(b.NextDue)
		}
		if a.Equipment.ID != b.Equipment.ID {
			return a.Equipment.ID < b.Equipment.ID
		}
		return a.Template.ID < b.Template.ID
	})

	return result
}

// templateApplies: шаблон без категории подходит всем, иначе категории должны совпасть.
func templateApplies(tpl entities.MaintenanceTemplate, eq entities.Equipment) bool {
	if tpl.CategoryID == nil {
		return true
	}
	return eq.CategoryID != nil && *eq.CategoryID == *tpl.CategoryID
}

// latestRecord выбирает запись с самой поздней эффективной датой, при равенстве - с большим ID.
func latestRecord(records []*entities.MaintenanceRecord) *entities.MaintenanceRecord {
	var best *entities.MaintenanceRecord
	for _, r := range records {
		if best == nil {
			best = r
			continue
		}
		d, bd := r.EffectiveDate(), best.EffectiveDate()
		if d.After(bd) || (d.Equal(bd) && r.ID > best.ID) {
			best = r
		}
	}
	return best
}

func recordOnDay(records []*entities.MaintenanceRecord, day time.Time) *entities.MaintenanceRecord {
	for _, r := range records {
		if sameDay(r.DueDate, day) {
			return r
		}
	}
	return nil
}

// DaysBetween - ceil((to - from) / 24h).
func DaysBetween(from, to time.Time) int {
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}

func Classify(daysRemaining, dueSoonDays int) Bucket {
	switch {
	case daysRemaining < 0:
		return BucketOverdue
	case daysRemaining <= dueSoonDays:
		return BucketDueSoon
	default:
		return BucketPlanned
	}
}

// CountBuckets считает прогнозы по корзинам, все корзины присутствуют в ответе.
func CountBuckets(projections []Projection) map[Bucket]int {
	counts := make(map[Bucket]int, len(Buckets))
	for _, b := range Buckets {
		counts[b] = 0
	}
	for _, p := range projections {
		counts[p.Bucket]++
	}
	return counts
}

// CalendarDay - дата t в её собственной зоне как полночь UTC.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
