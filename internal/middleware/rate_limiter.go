package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimit configures RateLimiter.
type RateLimit struct {
	// PerSecond is the sustained number of requests allowed per client.
	PerSecond float64
	// Burst is the number of requests a client may make at once.
	Burst     int
	ExpiresIn time.Duration
}

// DefaultRateLimit suits the write routes of the gallery.
func DefaultRateLimit() RateLimit {
	return RateLimit{PerSecond: 2, Burst: 10, ExpiresIn: 3 * time.Minute}
}

// RateLimiter limits requests per client IP. htmx requests that are denied
// get HX-Reswap: none so the page keeps its current state.
func RateLimiter(limit RateLimit) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(limit.PerSecond),
		Burst:     limit.Burst,
		ExpiresIn: limit.ExpiresIn,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			if c.Request().Header.Get("HX-Request") == "true" {
				c.Response().Header().Set("HX-Reswap", "none")
			}
			return c.String(http.StatusTooManyRequests, "Слишком много запросов. Попробуйте позже.")
		},
	})
}
