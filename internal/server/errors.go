package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/mesto/internal/app"
	"github.com/nfrund/mesto/internal/handlers"
	"github.com/nfrund/mesto/internal/middleware"
	"github.com/nfrund/mesto/internal/rendering"
)

// setupErrorHandling installs the central error handler. API requests get a
// JSON message, browser requests get the error page.
func setupErrorHandling(e *echo.Echo) {
	renderer := rendering.NewUniversalRenderer()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if !errors.As(err, &he) {
			// Unhandled means the handler returned a raw error.
			slog.Error("Internal Server Error (Unhandled)",
				"error", err,
				"stack_trace", string(debug.Stack()),
			)
			he = handlers.DomainError(err)
		} else if he.Code >= http.StatusInternalServerError {
			middleware.FromContext(c.Request().Context()).Error("request failed",
				"status", he.Code, "error", he.Internal)
		}

		message := http.StatusText(he.Code)
		switch m := he.Message.(type) {
		case nil:
		case string:
			if m != "" {
				message = m
			}
		default:
			message = fmt.Sprint(m)
		}

		var respErr error
		switch {
		case c.Request().Method == http.MethodHead:
			respErr = c.NoContent(he.Code)
		case wantsJSON(c):
			respErr = c.JSON(he.Code, handlers.MessageResponse{Message: message})
		default:
			respErr = renderer.RenderPage(c, he.Code, rendering.ErrorPage(he.Code, message))
		}
		if respErr != nil {
			slog.Error("write error response", "error", respErr)
		}
	}
}

func wantsJSON(c echo.Context) bool {
	req := c.Request()
	if strings.HasPrefix(req.URL.Path, app.APIPrefix+"/") {
		return true
	}
	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return true
	}
	return strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}
