package config

type UploadConfig struct {
	AllowedMimeTypes []string
	MaxSizeMB        int64
	PathPrefix       string
}

var UploadContexts = map[string]UploadConfig{
	// Фото-документация выполненной проверки
	"maintenance_documentation": {
		AllowedMimeTypes: []string{"image/jpeg", "image/png", "image/webp", "image/jpg"},
		MaxSizeMB:        10,
		PathPrefix:       "maintenance",
	},
	"template_checklist": {
		AllowedMimeTypes: []string{"application/pdf", "image/jpeg", "image/png"},
		MaxSizeMB:        20,
		PathPrefix:       "checklists",
	},
	"equipment_import": {
		// xlsx определяется http.DetectContentType как zip
		AllowedMimeTypes: []string{"application/zip", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		MaxSizeMB:        20,
		PathPrefix:       "imports",
	},
}
