package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/mesto/internal/domain"
)

type tokenTable map[string]domain.User

func (t tokenTable) Authenticate(_ context.Context, token string) (domain.User, error) {
	if token == "broken" {
		return domain.User{}, errors.New("store unavailable")
	}
	u, ok := t[token]
	if !ok {
		return domain.User{}, domain.ErrUnauthorized
	}
	return u, nil
}

func TestTokenAuth(t *testing.T) {
	e := echo.New()
	auth := TokenAuth(tokenTable{"good": {ID: "u1", Name: "Кусто"}})
	e.GET("/users/me", func(c echo.Context) error {
		u, ok := UserFromContext(c)
		require.True(t, ok)
		assert.Equal(t, "u1", u.ID)
		return c.String(http.StatusOK, u.Name)
	}, auth)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"valid token", "good", http.StatusOK},
		{"missing token", "", http.StatusUnauthorized},
		{"unknown token", "bad", http.StatusUnauthorized},
		{"store failure", "broken", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tt.token != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.token)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestLoggerInjectsRequestLogger(t *testing.T) {
	e := echo.New()
	var fromCtx bool
	e.GET("/", func(c echo.Context) error {
		fromCtx = c.Request().Context().Value(loggerKey) != nil
		FromContext(c.Request().Context()).Info("handled")
		return c.NoContent(http.StatusNoContent)
	}, Logger)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, fromCtx)
	assert.NotNil(t, FromContext(context.Background()), "falls back to the default logger")
}
