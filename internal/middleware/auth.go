package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/mesto/internal/domain"
)

// UserContextKey holds the authenticated user on the echo context.
const UserContextKey = "user"

// Authenticator resolves an API token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.User, error)
}

// TokenAuth protects API routes with the token carried in the
// authorization header. Unknown tokens are rejected with 401.
func TokenAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := c.Request().Header.Get(echo.HeaderAuthorization)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authorization token required")
			}

			user, err := auth.Authenticate(c.Request().Context(), token)
			if errors.Is(err, domain.ErrUnauthorized) {
				return echo.NewHTTPError(http.StatusUnauthorized, "unknown authorization token")
			}
			if err != nil {
				return err
			}

			c.Set(UserContextKey, user)
			ctx := context.WithValue(c.Request().Context(), loggerKey, FromContext(c.Request().Context()).With("user_id", user.ID))
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// UserFromContext returns the user set by TokenAuth.
func UserFromContext(c echo.Context) (domain.User, bool) {
	u, ok := c.Get(UserContextKey).(domain.User)
	return u, ok
}
