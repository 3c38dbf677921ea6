package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"geraetewart/config"
	"geraetewart/internal/events"
	"geraetewart/pkg/constants"
	apperrors "geraetewart/pkg/errors"
	"geraetewart/pkg/eventbus"
	"geraetewart/pkg/validation"
)

// EventPublisher - часть eventbus.Bus, которая нужна сервисам.
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

// Clock подменяется в тестах.
type Clock func() time.Time

func systemClock() time.Time { return time.Now() }

// publishChanged сообщает клиентам через websocket, что Query нужно перезапросить.
func publishChanged(ctx context.Context, bus EventPublisher, query string, id *uint64) {
	if bus == nil {
		return
	}
	bus.Publish(ctx, events.EntityChangedEvent{Query: query, ID: id})
}

func idPtr(id uint64) *uint64 { return &id }

// openValidated открывает загруженный файл и проверяет его по правилам контекста.
// Закрыть файл должен вызывающий.
func openValidated(fileHeader *multipart.FileHeader, uploadContext constants.UploadContext) (multipart.File, error) {
	if fileHeader == nil {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, "Datei fehlt", nil, nil)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть загруженный файл: %w", err)
	}
	if err := validation.ValidateFile(fileHeader, file, uploadContext.String()); err != nil {
		file.Close()
		return nil, apperrors.NewHttpError(http.StatusBadRequest, "Ungültige Datei: "+err.Error(), err, nil)
	}
	return file, nil
}

func uploadPrefix(uploadContext constants.UploadContext) string {
	return config.UploadContexts[uploadContext.String()].PathPrefix
}

func isUploadURL(url string) bool {
	return strings.HasPrefix(url, "/uploads/")
}
