package constants

//============== UPLOAD CONTEXTS ==============

// UploadContext - ключ из config.UploadContexts.
type UploadContext string

const (
	UploadContextMaintenanceDoc UploadContext = "maintenance_documentation"
	UploadContextChecklist      UploadContext = "template_checklist"
	UploadContextEquipmentXLSX  UploadContext = "equipment_import"
)

func (uc UploadContext) String() string {
	return string(uc)
}

//============== CACHE KEYS ==============

const (
	// Формат: check_session:<uuid> -> JSON сессии проверки
	CacheKeyCheckSession = "check_session:%s"

	// Формат: settings -> JSON настроек
	CacheKeySettings = "settings"
)

//============== WEBSOCKET QUERIES ==============

// Имена запросов, которые фронтенд перезапрашивает по "invalidate".
const (
	QueryEquipment    = "equipment"
	QueryPersons      = "persons"
	QueryCategories   = "categories"
	QueryLocations    = "locations"
	QueryTemplates    = "maintenance_templates"
	QueryRecords      = "maintenance_records"
	QueryMissions     = "missions"
	QueryComments     = "equipment_comments"
	QuerySettings     = "settings"
	QueryCheckSession = "check_session"
)
