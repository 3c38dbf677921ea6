package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"geraetewart/pkg/contextkeys"
	"geraetewart/pkg/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuthMiddleware(t *testing.T) {
	jwtSvc := service.NewJWTService("secret", "")
	mw := NewAuthMiddleware(jwtSvc, zap.NewNop())

	token, err := jwtSvc.GenerateToken("user-1", "a@b.de", time.Hour)
	require.NoError(t, err)

	handler := mw.Auth(func(c echo.Context) error {
		return c.String(http.StatusOK, c.Request().Context().Value(contextkeys.UserIDKey).(string))
	})

	tests := []struct {
		name   string
		header string
		query  string
		code   int
	}{
		{"bearer header", "Bearer " + token, "", http.StatusOK},
		{"query token", "", "?token=" + token, http.StatusOK},
		{"missing", "", "", http.StatusUnauthorized},
		{"malformed", "Token " + token, "", http.StatusUnauthorized},
		{"invalid", "Bearer abc", "", http.StatusUnauthorized},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			require.NoError(t, handler(e.NewContext(req, rec)))
			assert.Equal(t, tt.code, rec.Code)
			if tt.code == http.StatusOK {
				assert.Equal(t, "user-1", rec.Body.String())
			}
		})
	}
}
