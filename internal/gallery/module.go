package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/samber/do/v2"

	"github.com/nfrund/mesto/internal/api"
	"github.com/nfrund/mesto/internal/middleware"
	"github.com/nfrund/mesto/internal/module"
	"github.com/nfrund/mesto/internal/pubsub"
	"github.com/nfrund/mesto/internal/rendering"
	"github.com/nfrund/mesto/internal/validation"
)

const (
	workspaceTTL   = 24 * time.Hour
	sweepInterval  = 10 * time.Minute
	galleryModName = "gallery"
)

// Module mounts the gallery page.
type Module struct {
	module.BaseModule
	cancel context.CancelFunc
	done   chan struct{}
}

// NewModule creates the gallery module.
func NewModule() *Module {
	return &Module{}
}

func (m *Module) Name() string { return galleryModName }

// Register provides the controller and the workspace store. It expects an
// api.Client, a *validation.Engine and a pubsub.Publisher in the injector.
func (m *Module) Register(i do.Injector) error {
	do.Provide(i, func(i do.Injector) (*Controller, error) {
		client, err := do.Invoke[api.Client](i)
		if err != nil {
			return nil, fmt.Errorf("gallery needs a remote client: %w", err)
		}
		return NewController(Deps{
			Client:    client,
			Engine:    do.MustInvoke[*validation.Engine](i),
			Publisher: do.MustInvoke[pubsub.Publisher](i),
			Reporter:  LogReporter{},
		})
	})
	do.Provide(i, func(do.Injector) (*Workspaces, error) {
		return NewWorkspaces(workspaceTTL), nil
	})
	return nil
}

// Boot registers the routes, the activity log and the workspace sweeper.
func (m *Module) Boot(ctx context.Context, router *echo.Group, i do.Injector) error {
	ctrl, err := do.Invoke[*Controller](i)
	if err != nil {
		return err
	}
	workspaces := do.MustInvoke[*Workspaces](i)
	renderer := do.MustInvoke[rendering.Renderer](i)

	NewHandler(ctrl, workspaces, renderer).Routes(router, middleware.RateLimiter(middleware.DefaultRateLimit()))

	bg, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.cancel = cancel
	if err := subscribeActivityLog(bg, do.MustInvoke[pubsub.Subscriber](i)); err != nil {
		cancel()
		return fmt.Errorf("subscribe activity log: %w", err)
	}

	m.done = make(chan struct{})
	go func() {
		defer close(m.done)
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-bg.Done():
				return
			case <-ticker.C:
				if n := workspaces.Sweep(); n > 0 {
					slog.Debug("swept idle workspaces", "count", n, "remaining", workspaces.Len())
				}
			}
		}
	}()
	return nil
}

// Shutdown stops the sweeper and the activity log.
func (m *Module) Shutdown(ctx context.Context) error {
	if m.cancel == nil {
		return nil
	}
	m.cancel()
	select {
	case <-m.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
