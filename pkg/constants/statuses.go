package constants

// --- СТАТУСЫ ОБОРУДОВАНИЯ (значения в БД) ---
const (
	EquipmentReady       = "einsatzbereit"
	EquipmentMaintenance = "wartung"
	EquipmentDefective   = "defekt"
	EquipmentCheckDue    = "pruefung_faellig"
	EquipmentRetired     = "ausgemustert"
)

var EquipmentStatuses = []string{
	EquipmentReady, EquipmentMaintenance, EquipmentDefective, EquipmentCheckDue, EquipmentRetired,
}

var EquipmentStatusLabels = map[string]string{
	EquipmentReady:       "Einsatzbereit",
	EquipmentMaintenance: "In Wartung",
	EquipmentDefective:   "Defekt",
	EquipmentCheckDue:    "Prüfung fällig",
	EquipmentRetired:     "Ausgemustert",
}

// --- СТАТУСЫ ЗАПИСЕЙ ОБСЛУЖИВАНИЯ ---
const (
	RecordPending    = "ausstehend"
	RecordScheduled  = "geplant"
	RecordInProgress = "in_bearbeitung"
	RecordCompleted  = "abgeschlossen"
)

var RecordStatusLabels = map[string]string{
	RecordPending:    "Ausstehend",
	RecordScheduled:  "Geplant",
	RecordInProgress: "In Bearbeitung",
	RecordCompleted:  "Abgeschlossen",
}

// recordStatusRank задаёт порядок: статус может только расти.
var recordStatusRank = map[string]int{
	RecordPending:    0,
	RecordScheduled:  1,
	RecordInProgress: 2,
	RecordCompleted:  3,
}

func IsRecordStatus(s string) bool {
	_, ok := recordStatusRank[s]
	return ok
}

// CanTransitionRecord разрешает только движение вперёд (или тот же статус).
// Возврат назад делает отдельная операция "сброс в geplant".
func CanTransitionRecord(from, to string) bool {
	f, okF := recordStatusRank[from]
	t, okT := recordStatusRank[to]
	if !okF || !okT {
		return false
	}
	if from == RecordCompleted {
		return to == RecordCompleted
	}
	return t >= f
}

// --- ТИПЫ ВЫЕЗДОВ ---
const (
	MissionOperation = "einsatz"
	MissionDrill     = "uebung"
)

var MissionTypeLabels = map[string]string{
	MissionOperation: "Einsatz",
	MissionDrill:     "Übung",
}
