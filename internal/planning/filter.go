package planning

import (
	"sort"
	"strings"
	"time"

	"geraetewart/internal/entities"
)

type ProjectionFilter struct {
	Buckets    map[Bucket]bool
	PersonID   *uint64
	CategoryID *uint64
	TemplateID *uint64
	Search     string
}

// DefaultProjectionFilter - состояние "сбросить фильтры": все корзины включены.
func DefaultProjectionFilter() ProjectionFilter {
	return ProjectionFilter{
		Buckets: map[Bucket]bool{
			BucketOverdue: true,
			BucketDueSoon: true,
			BucketPlanned: true,
		},
	}
}

func FilterProjections(projections []Projection, f ProjectionFilter) []Projection {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Projection, 0, len(projections))
	for _, p := range projections {
		if f.Buckets != nil && !f.Buckets[p.Bucket] {
			continue
		}
		if f.CategoryID != nil && !equalID(p.Equipment.CategoryID, *f.CategoryID) {
			continue
		}
		if f.TemplateID != nil && p.Template.ID != *f.TemplateID {
			continue
		}
		if f.PersonID != nil && !projectionHasPerson(p, *f.PersonID) {
			continue
		}
		if search != "" && !containsAny(search,
			p.Equipment.Name, deref(p.Equipment.Barcode), p.Template.Name, deref(p.Equipment.Notes)) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func projectionHasPerson(p Projection, personID uint64) bool {
	if equalID(p.Template.ResponsiblePersonID, personID) || equalID(p.Equipment.ResponsiblePersonID, personID) {
		return true
	}
	return p.LastRecord != nil && equalID(p.LastRecord.PerformedBy, personID)
}

type RecordFilter struct {
	Statuses    []string
	PersonID    *uint64
	CategoryID  *uint64
	TemplateID  *uint64
	EquipmentID *uint64
	Search      string
	DateFrom    *time.Time
	DateTo      *time.Time
}

func DefaultRecordFilter() RecordFilter {
	return RecordFilter{}
}

// FilterRecords применяет фильтр и сортирует по плановой дате, новые сверху.
func FilterRecords(records []entities.MaintenanceRecord, f RecordFilter) []entities.MaintenanceRecord {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]entities.MaintenanceRecord, 0, len(records))
	for _, r := range records {
		if len(f.Statuses) > 0 && !containsString(f.Statuses, r.Status) {
			continue
		}
		if f.TemplateID != nil && r.TemplateID != *f.TemplateID {
			continue
		}
		if f.EquipmentID != nil && r.EquipmentID != *f.EquipmentID {
			continue
		}
		if f.CategoryID != nil && !equalID(r.EquipmentCategoryID, *f.CategoryID) {
			continue
		}
		if f.PersonID != nil && !recordHasPerson(r, *f.PersonID) {
			continue
		}
		if f.DateFrom != nil && r.DueDate.Before(truncateDay(*f.DateFrom)) {
			continue
		}
		if f.DateTo != nil && truncateDay(r.DueDate).After(truncateDay(*f.DateTo)) {
			continue
		}
		if search != "" && !containsAny(search,
			r.EquipmentName, deref(r.EquipmentBarcode), r.TemplateName, deref(r.Notes)) {
			continue
		}
		out = append(out, r)
	}
	SortRecordsByDueDesc(out)
	return out
}

func recordHasPerson(r entities.MaintenanceRecord, personID uint64) bool {
	return equalID(r.TemplateResponsibleID, personID) ||
		equalID(r.EquipmentResponsibleID, personID) ||
		equalID(r.PerformedBy, personID)
}

func SortRecordsByDueDesc(records []entities.MaintenanceRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].DueDate.Equal(records[j].DueDate) {
			return records[i].DueDate.After(records[j].DueDate)
		}
		return records[i].ID > records[j].ID
	})
}

func equalID(id *uint64, want uint64) bool {
	return id != nil && *id == want
}

func containsAny(needle string, fields ...string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
