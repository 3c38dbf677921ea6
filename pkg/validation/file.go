package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"geraetewart/config"
)

// ValidateFile проверяет размер и MIME-тип файла
// contextName - ключ из config.UploadContexts (например, "maintenance_documentation")
func ValidateFile(fileHeader *multipart.FileHeader, file io.ReadSeeker, contextName string) error {
	rules, ok := config.UploadContexts[contextName]
	if !ok {
		return fmt.Errorf("внутренняя ошибка: неизвестный контекст загрузки '%s'", contextName)
	}

	if rules.MaxSizeMB > 0 {
		maxSizeBytes := rules.MaxSizeMB * 1024 * 1024
		if fileHeader.Size > maxSizeBytes {
			return fmt.Errorf("размер файла (%.2f MB) превышает лимит в %d MB", float64(fileHeader.Size)/1024/1024, rules.MaxSizeMB)
		}
	}

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("ошибка чтения файла")
	}

	// Возвращаем курсор чтения в начало
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("ошибка обработки файла")
	}

	mimeType := http.DetectContentType(buffer[:n])

	// xlsx - это zip-архив, DetectContentType отдаёт application/zip
	if mimeType == "application/zip" && strings.EqualFold(filepath.Ext(fileHeader.Filename), ".xlsx") {
		mimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	if !slices.Contains(rules.AllowedMimeTypes, mimeType) {
		return fmt.Errorf("недопустимый формат файла: %s", mimeType)
	}

	return nil
}

// ExtensionFor возвращает расширение для сохранения файла.
func ExtensionFor(fileHeader *multipart.FileHeader) string {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext == "" {
		return ".bin"
	}
	return ext
}
