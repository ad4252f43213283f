package gallery

import (
	"context"

	"github.com/nfrund/mesto/internal/middleware"
)

// ErrorReporter receives failed remote operations.
type ErrorReporter interface {
	Report(ctx context.Context, action string, err error)
}

// ReporterFunc adapts a function to ErrorReporter.
type ReporterFunc func(ctx context.Context, action string, err error)

func (f ReporterFunc) Report(ctx context.Context, action string, err error) {
	f(ctx, action, err)
}

// LogReporter writes failures to the request logger.
type LogReporter struct{}

func (LogReporter) Report(ctx context.Context, action string, err error) {
	middleware.FromContext(ctx).Error("gallery action failed", "action", action, "error", err)
}
