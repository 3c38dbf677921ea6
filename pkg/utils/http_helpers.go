package utils

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apperrors "geraetewart/pkg/errors"
	"geraetewart/pkg/types"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

const (
	DefaultLimit = 200
	MaxLimit     = 500
)

// shortcutFilters - короткие параметры из адресной строки UI (?status=defekt&category=3)
var shortcutFilters = map[string]string{
	"status":    "status",
	"category":  "category_id",
	"person":    "person_id",
	"location":  "location_id",
	"template":  "template_id",
	"equipment": "equipment_id",
	"bucket":    "bucket",
	"from":      "date_from",
	"to":        "date_to",
}

func ParseFilterFromQuery(values url.Values) types.Filter {
	filterReq := types.Filter{
		Sort:   make(map[string]string),
		Filter: make(map[string]interface{}),
		Limit:  DefaultLimit,
		Page:   1,
	}

	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			if l > MaxLimit {
				filterReq.Limit = MaxLimit
			} else {
				filterReq.Limit = l
			}
		}
	}

	if pageStr := values.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			filterReq.Page = p
		}
	}

	if offsetStr := values.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filterReq.Offset = o
		}
	} else {
		filterReq.Offset = (filterReq.Page - 1) * filterReq.Limit
	}

	filterReq.WithPagination = values.Get("withPagination") != "false"

	for key, raw := range values {
		vals := nonEmpty(raw)
		if len(vals) == 0 {
			continue
		}

		if key == "search" {
			filterReq.Search = vals[0]
			continue
		}

		if field, ok := shortcutFilters[key]; ok {
			addFilterValues(filterReq.Filter, field, vals)
			continue
		}

		if strings.HasPrefix(key, "sort[") && strings.HasSuffix(key, "]") {
			field := key[5 : len(key)-1]
			direction := strings.ToLower(vals[0])
			if direction == "asc" || direction == "desc" {
				filterReq.Sort[field] = direction
			}
			continue
		}

		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			addFilterValues(filterReq.Filter, key[7:len(key)-1], vals)
		}
	}

	return filterReq
}

// addFilterValues дописывает значения через запятую: ?status=a&status=b и
// filter[status]=c сходятся в одно поле.
func addFilterValues(filter map[string]interface{}, field string, vals []string) {
	joined := strings.Join(vals, ",")
	if existing, ok := filter[field]; ok {
		filter[field] = fmt.Sprintf("%v,%s", existing, joined)
		return
	}
	filter[field] = joined
}

func nonEmpty(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// FilterUint64 достаёт числовой фильтр, 0 если не задан или некорректен.
func FilterUint64(filter types.Filter, key string) uint64 {
	raw, ok := filter.Filter[key]
	if !ok {
		return 0
	}
	id, err := strconv.ParseUint(fmt.Sprintf("%v", raw), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// FilterStrings достаёт список значений фильтра (через запятую).
func FilterStrings(filter types.Filter, key string) []string {
	raw, ok := filter.Filter[key]
	if !ok {
		return nil
	}
	var out []string
	for _, part := range strings.Split(fmt.Sprintf("%v", raw), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HTTPResponse{Status: true, Message: message}
	withPagination, _ := strconv.ParseBool(ctx.QueryParam("withPagination"))
	if withPagination && len(total) > 0 {
		filter := ParseFilterFromQuery(ctx.Request().URL.Query())
		totalPages := 0
		if filter.Limit > 0 {
			totalPages = int((total[0] + uint64(filter.Limit) - 1) / uint64(filter.Limit))
		}
		pagination := types.Pagination{
			TotalCount: total[0],
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalPages: totalPages,
		}
		response.Body = map[string]interface{}{"list": body, "pagination": pagination}
	} else {
		response.Body = body
	}
	return ctx.JSON(code, response)
}

// sentinelStatus - сопоставление доменных ошибок и HTTP-кодов с сообщением для UI
var sentinelStatus = []struct {
	err     error
	code    int
	message string
}{
	{apperrors.ErrNotFound, http.StatusNotFound, "Eintrag nicht gefunden"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, "Ungültige Anfrage"},
	{apperrors.ErrConflict, http.StatusConflict, "Eintrag existiert bereits"},
	{apperrors.ErrInvalidStatusTransition, http.StatusConflict, "Statuswechsel nicht erlaubt"},
	{apperrors.ErrDocumentationRequired, http.StatusUnprocessableEntity, "Bitte zuerst ein Dokumentationsbild hochladen"},
	{apperrors.ErrPerformerRequired, http.StatusUnprocessableEntity, "Bitte eine verantwortliche Person auswählen"},
	{apperrors.ErrNoInterval, http.StatusBadRequest, "Für diese Vorlage ist kein Intervall hinterlegt"},
	{apperrors.ErrUncheckedItems, http.StatusConflict, "Es gibt noch ungeprüfte Positionen"},
	{apperrors.ErrSessionClosed, http.StatusConflict, "Die Prüfung ist bereits abgeschlossen"},
	{apperrors.ErrUnknownBarcode, http.StatusNotFound, "Barcode nicht gefunden"},
	{apperrors.ErrNoCurrentItem, http.StatusConflict, "Keine aktuelle Position"},
	{apperrors.ErrEmptyAuthHeader, http.StatusUnauthorized, "Nicht angemeldet"},
	{apperrors.ErrInvalidAuthHeader, http.StatusUnauthorized, "Nicht angemeldet"},
	{apperrors.ErrInvalidToken, http.StatusUnauthorized, "Sitzung ungültig"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, "Sitzung abgelaufen"},
	{apperrors.ErrInvalidSigningMethod, http.StatusUnauthorized, "Sitzung ungültig"},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "Nicht angemeldet"},
}

func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
				zap.Any("context", httpErr.Context),
			)
		}

		response := map[string]interface{}{
			"status":  false,
			"message": httpErr.Message,
		}

		if httpErr.Details != nil {
			response["body"] = httpErr.Details
		}

		return c.JSON(httpErr.Code, response)
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("Feld '%s' verletzt Regel '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"status": false, "message": "Validierungsfehler: " + strings.Join(msgs, "; ")})
	}

	var invalidInput *apperrors.InvalidInputError
	if errors.As(err, &invalidInput) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"status": false, "message": invalidInput.Message})
	}

	for _, s := range sentinelStatus {
		if errors.Is(err, s.err) {
			logger.Warn("Domain Error", zap.Int("code", s.code), zap.Error(err))
			return c.JSON(s.code, map[string]interface{}{"status": false, "message": s.message})
		}
	}

	logger.Error("Unexpected Error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"status":  false,
		"message": "Interner Serverfehler",
	})
}

// ParseIDParam разбирает :id из пути.
func ParseIDParam(ctx echo.Context, name string) (uint64, error) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewHttpError(
			http.StatusBadRequest,
			"Ungültige ID",
			err,
			map[string]interface{}{"param": raw},
		)
	}
	return id, nil
}
