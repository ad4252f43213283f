// Package server assembles the echo instance, the ambient middleware and the
// feature modules into the Mesto web application.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/samber/do/v2"
	"github.com/spf13/afero"

	"github.com/nfrund/mesto/internal/app"
	"github.com/nfrund/mesto/internal/config"
	"github.com/nfrund/mesto/internal/handlers"
	"github.com/nfrund/mesto/internal/middleware"
	"github.com/nfrund/mesto/internal/module"
	"github.com/nfrund/mesto/internal/pubsub"
	"github.com/nfrund/mesto/internal/rendering"
	"github.com/nfrund/mesto/web"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E        *echo.Echo
	Cfg      config.Provider
	Injector do.Injector
	modules  []module.Module
}

// New creates the echo instance with the shared middleware and registers
// every module. Modules are booted by Boot.
func New(cfg config.Provider, fs afero.Fs) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.Renderer = rendering.NewUniversalRenderer()
	setupErrorHandling(e)

	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)
	e.Use(echomw.Recover())
	e.Use(session.Middleware(newSessionStore(cfg.GetSessionSecret())))

	e.StaticFS("/static", echo.MustSubFS(web.FS, "static"))
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	s := &Server{
		E:        e,
		Cfg:      cfg,
		Injector: app.NewInjector(cfg),
		modules:  app.NewModules(cfg, fs),
	}
	if err := module.RegisterAll(s.Injector, s.modules...); err != nil {
		return nil, err
	}
	return s, nil
}

func newSessionStore(secret string) *sessions.CookieStore {
	if secret == "" {
		// Sessions then only survive until restart.
		slog.Warn("SESSION_SECRET is not set, using an ephemeral key")
		secret = uuid.NewString() + uuid.NewString()
	}
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Boot boots every module on its route group.
func (s *Server) Boot(ctx context.Context) error {
	groups := func(m module.Module) *echo.Group {
		if m.Name() == "backend" {
			return s.E.Group(app.APIPrefix)
		}
		return s.E.Group("")
	}
	return module.BootAll(ctx, groups, s.Injector, s.modules...)
}

// Shutdown stops the modules, the event bus and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []string
	if err := module.ShutdownAll(ctx, s.modules...); err != nil {
		errs = append(errs, err.Error())
	}
	if bridge, err := do.Invoke[*pubsub.WatermillBridge](s.Injector); err == nil {
		if err := bridge.Close(); err != nil {
			errs = append(errs, fmt.Sprintf("close event bus: %v", err))
		}
	}
	if err := s.E.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Sprintf("shutdown http: %v", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("shutdown: %s", strings.Join(errs, "; "))
	}
	return nil
}
