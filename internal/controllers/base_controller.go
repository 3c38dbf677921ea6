package controllers

import (
	"fmt"
	"mime/multipart"
	"net/http"

	apperrors "geraetewart/pkg/errors"

	"github.com/labstack/echo/v4"
)

// bindAndValidate читает JSON-тело в dst и прогоняет валидатор echo.
func bindAndValidate(ctx echo.Context, dst interface{}) error {
	if err := ctx.Bind(dst); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, "Ungültiger JSON-Body", err, nil)
	}
	return ctx.Validate(dst)
}

// formFile достаёт файл из multipart-поля "file".
func formFile(ctx echo.Context) (*multipart.FileHeader, error) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, "Datei fehlt", err, nil)
	}
	return fileHeader, nil
}

func sendFile(ctx echo.Context, fileName, contentType string, body []byte, inline bool) error {
	disposition := "attachment"
	if inline {
		disposition = "inline"
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("%s; filename=%q", disposition, fileName))
	return ctx.Blob(http.StatusOK, contentType, body)
}
