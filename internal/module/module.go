package module

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/samber/do/v2"
)

// Module defines the contract for a self-contained application feature.
type Module interface {
	// Name returns a unique identifier for the module.
	Name() string

	// Register is called during application startup to provide the module's
	// services to the injector.
	Register(i do.Injector) error

	// Boot is called after all modules have registered their services.
	// This is the phase for setting up routes and starting background processes.
	Boot(ctx context.Context, router *echo.Group, i do.Injector) error

	// Shutdown is called during graceful application shutdown.
	Shutdown(ctx context.Context) error
}

// BaseModule provides default no-op implementations for Module methods.
// Modules can embed this to avoid implementing methods they don't need.
type BaseModule struct{}

func (m *BaseModule) Register(i do.Injector) error { return nil }
func (m *BaseModule) Boot(ctx context.Context, router *echo.Group, i do.Injector) error {
	return nil
}
func (m *BaseModule) Shutdown(ctx context.Context) error {
	return nil
}

// RegisterAll registers every module in order and stops at the first error.
func RegisterAll(i do.Injector, mods ...Module) error {
	for _, m := range mods {
		if err := m.Register(i); err != nil {
			return &Error{Module: m.Name(), Phase: "register", Err: err}
		}
	}
	return nil
}

// BootAll boots every module on its own route group.
func BootAll(ctx context.Context, groups func(Module) *echo.Group, i do.Injector, mods ...Module) error {
	for _, m := range mods {
		if err := m.Boot(ctx, groups(m), i); err != nil {
			return &Error{Module: m.Name(), Phase: "boot", Err: err}
		}
	}
	return nil
}

// ShutdownAll shuts modules down in reverse order and returns the first
// error encountered. Every module is given the chance to shut down.
func ShutdownAll(ctx context.Context, mods ...Module) error {
	var first error
	for idx := len(mods) - 1; idx >= 0; idx-- {
		if err := mods[idx].Shutdown(ctx); err != nil && first == nil {
			first = &Error{Module: mods[idx].Name(), Phase: "shutdown", Err: err}
		}
	}
	return first
}

// Error reports the module and lifecycle phase that failed.
type Error struct {
	Module string
	Phase  string
	Err    error
}

func (e *Error) Error() string {
	return "module " + e.Module + ": " + e.Phase + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
