package planning

import (
	"geraetewart/pkg/types"
	"geraetewart/pkg/utils"
)

// ProjectionFilterFromQuery: ?bucket=overdue,due_soon&person=1&category=2&template=3&search=...
func ProjectionFilterFromQuery(q types.Filter) ProjectionFilter {
	f := DefaultProjectionFilter()
	if buckets := utils.FilterStrings(q, "bucket"); len(buckets) > 0 {
		f.Buckets = make(map[Bucket]bool, len(Buckets))
		for _, b := range buckets {
			f.Buckets[Bucket(b)] = true
		}
	}
	f.PersonID = optionalID(q, "person_id")
	f.CategoryID = optionalID(q, "category_id")
	f.TemplateID = optionalID(q, "template_id")
	f.Search = q.Search
	return f
}

// RecordFilterFromQuery: ?status=geplant,abgeschlossen&person=1&template=3&date_from=2024-01-01
func RecordFilterFromQuery(q types.Filter) RecordFilter {
	f := DefaultRecordFilter()
	f.Statuses = utils.FilterStrings(q, "status")
	f.PersonID = optionalID(q, "person_id")
	f.CategoryID = optionalID(q, "category_id")
	f.TemplateID = optionalID(q, "template_id")
	f.EquipmentID = optionalID(q, "equipment_id")
	f.Search = q.Search
	if v := utils.FilterStrings(q, "date_from"); len(v) == 1 {
		if t, err := utils.ParseDate(v[0]); err == nil {
			f.DateFrom = &t
		}
	}
	if v := utils.FilterStrings(q, "date_to"); len(v) == 1 {
		if t, err := utils.ParseDate(v[0]); err == nil {
			f.DateTo = &t
		}
	}
	return f
}

func optionalID(q types.Filter, key string) *uint64 {
	if id := utils.FilterUint64(q, key); id > 0 {
		return &id
	}
	return nil
}
