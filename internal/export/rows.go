package export

import (
	"sort"
	"strconv"
	"strings"

	"geraetewart/internal/entities"
	"geraetewart/internal/planning"
	"geraetewart/pkg/constants"
	"geraetewart/pkg/utils"
)

const (
	NoCategory = "Ohne Kategorie"
	NoLocation = "Ohne Standort"
)

type EquipmentGroup struct {
	Category string
	Location string
	Items    []entities.Equipment
}

var EquipmentHeaders = []string{
	"Inventarnr.", "Bezeichnung", "Barcode", "Kategorie", "Standort", "Status",
	"Verantwortlich", "Hersteller", "Modell", "Seriennr.", "Letzte Prüfung", "Nächste Prüfung",
}

var RecordHeaders = []string{
	"Fällig am", "Gerät", "Inventarnr.", "Vorlage", "Status",
	"Durchgeführt am", "Durchgeführt von", "Dauer", "Notizen",
}

var ProjectionHeaders = []string{
	"Fällig am", "Tage", "Lage", "Gerät", "Inventarnr.", "Vorlage", "Kategorie",
}

var bucketLabels = map[planning.Bucket]string{
	planning.BucketOverdue: "Überfällig",
	planning.BucketDueSoon: "Bald fällig",
	planning.BucketPlanned: "Geplant",
}

// GroupEquipment группирует по категории, затем по месту; "без ..." идут последними.
func GroupEquipment(items []entities.Equipment) []EquipmentGroup {
	index := make(map[[2]string]int)
	var groups []EquipmentGroup
	for _, eq := range items {
		key := [2]string{nameOr(eq.CategoryName, NoCategory), nameOr(eq.LocationName, NoLocation)}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, EquipmentGroup{Category: key[0], Location: key[1]})
		}
		groups[i].Items = append(groups[i].Items, eq)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if c := compareGroupName(groups[i].Category, groups[j].Category, NoCategory); c != 0 {
			return c < 0
		}
		return compareGroupName(groups[i].Location, groups[j].Location, NoLocation) < 0
	})
	for _, g := range groups {
		sort.SliceStable(g.Items, func(i, j int) bool {
			return strings.ToLower(g.Items[i].Name) < strings.ToLower(g.Items[j].Name)
		})
	}
	return groups
}

func compareGroupName(a, b, last string) int {
	switch {
	case a == b:
		return 0
	case a == last:
		return 1
	case b == last:
		return -1
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func EquipmentRow(eq entities.Equipment) []string {
	return []string{
		eq.InventoryNumber,
		eq.Name,
		utils.SafeDeref(eq.Barcode),
		nameOr(eq.CategoryName, ""),
		nameOr(eq.LocationName, ""),
		EquipmentStatusLabel(eq.Status),
		utils.SafeDeref(eq.ResponsiblePersonName),
		utils.SafeDeref(eq.Manufacturer),
		utils.SafeDeref(eq.Model),
		utils.SafeDeref(eq.SerialNumber),
		utils.FormatGermanDate(eq.LastCheckDate),
		utils.FormatGermanDate(eq.NextCheckDate),
	}
}

func RecordRow(r entities.MaintenanceRecord) []string {
	minutes := ""
	if r.MinutesSpent != nil {
		minutes = utils.FormatMinutes(*r.MinutesSpent)
	}
	return []string{
		utils.FormatGermanDate(&r.DueDate),
		r.EquipmentName,
		r.InventoryNumber,
		r.TemplateName,
		RecordStatusLabel(r.Status),
		utils.FormatGermanDate(r.PerformedDate),
		utils.SafeDeref(r.PerformerName),
		minutes,
		utils.SafeDeref(r.Notes),
	}
}

func ProjectionRow(p planning.Projection) []string {
	return []string{
		utils.FormatGermanDate(&p.NextDue),
		strconv.Itoa(p.DaysRemaining),
		bucketLabels[p.Bucket],
		p.Equipment.Name,
		p.Equipment.InventoryNumber,
		p.Template.Name,
		nameOr(p.Equipment.CategoryName, NoCategory),
	}
}

func EquipmentStatusLabel(status string) string {
	if l, ok := constants.EquipmentStatusLabels[status]; ok {
		return l
	}
	return status
}

func RecordStatusLabel(status string) string {
	if l, ok := constants.RecordStatusLabels[status]; ok {
		return l
	}
	return status
}

func nameOr(s *string, fallback string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return fallback
	}
	return *s
}
