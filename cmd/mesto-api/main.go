// Command mesto-api serves the Mesto REST API on its own, for clients that
// point MESTO_API_URL at it.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/samber/do/v2"
	"github.com/spf13/afero"

	"github.com/nfrund/mesto/internal/backend"
	"github.com/nfrund/mesto/internal/config"
	"github.com/nfrund/mesto/internal/handlers"
	"github.com/nfrund/mesto/internal/logging"
	"github.com/nfrund/mesto/internal/middleware"
	"github.com/nfrund/mesto/internal/module"
)

func main() {
	logging.New()

	cfg, err := config.New()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if err := run(cfg); err != nil {
		slog.Error("mesto-api stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Provider) error {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))

	i := do.New()
	do.ProvideValue[config.Provider](i, cfg)
	api := backend.NewModule(afero.NewOsFs())

	ctx := context.Background()
	if err := module.RegisterAll(i, api); err != nil {
		return err
	}
	groups := func(module.Module) *echo.Group { return e.Group("") }
	if err := module.BootAll(ctx, groups, i, api); err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("starting mesto-api", "addr", cfg.GetAPIAddr(), "store", cfg.GetStoreDriver())
		if err := e.Start(cfg.GetAPIAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return err
	case <-quit:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return errors.Join(
		module.ShutdownAll(shutdownCtx, api),
		e.Shutdown(shutdownCtx),
	)
}
