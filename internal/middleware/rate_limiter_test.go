package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	e := echo.New()
	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}
	e.POST("/", handler, RateLimiter(RateLimit{PerSecond: 0.001, Burst: 3, ExpiresIn: time.Minute}))

	send := func(ip string, htmx bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = ip
		if htmx {
			req.Header.Set("HX-Request", "true")
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	t.Run("allows requests within the burst", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			require.Equal(t, http.StatusOK, send("192.0.2.1:1234", false).Code, "request %d should be allowed", i+1)
		}
	})

	t.Run("blocks requests exceeding the burst", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			send("192.0.2.2:1234", false)
		}
		rec := send("192.0.2.2:1234", true)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "none", rec.Header().Get("HX-Reswap"))
		assert.Contains(t, rec.Body.String(), "Слишком много запросов")
	})

	t.Run("clients are limited independently", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, send("192.0.2.3:1234", false).Code)
	})
}
