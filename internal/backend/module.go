package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/samber/do/v2"
	"github.com/spf13/afero"

	"github.com/nfrund/mesto/internal/config"
	"github.com/nfrund/mesto/internal/database"
	"github.com/nfrund/mesto/internal/module"
)

const connectTimeout = 10 * time.Second

// Module serves the REST API on the group it is booted with.
type Module struct {
	module.BaseModule
	fs   afero.Fs
	conn *database.Connection
}

// NewModule creates the backend module. Seed files are read from fs.
func NewModule(fs afero.Fs) *Module {
	return &Module{fs: fs}
}

func (m *Module) Name() string { return "backend" }

// Register provides the Store selected by config.Provider.
func (m *Module) Register(i do.Injector) error {
	do.Provide(i, func(i do.Injector) (Store, error) {
		cfg, err := do.Invoke[config.Provider](i)
		if err != nil {
			return nil, err
		}
		return m.openStore(cfg)
	})
	return nil
}

func (m *Module) openStore(cfg config.Provider) (Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	var store Store
	switch cfg.GetStoreDriver() {
	case config.StoreSurreal:
		m.conn = database.NewConnection(cfg)
		if err := m.conn.Connect(ctx); err != nil {
			return nil, err
		}
		m.conn.StartMonitoring()
		store = NewSurrealStore(m.conn)
	default:
		store = NewMemoryStore()
	}

	seed, ok, err := m.seedFor(cfg)
	if err != nil {
		return nil, err
	}
	if ok {
		if err := store.Seed(ctx, seed); err != nil {
			return nil, fmt.Errorf("seed %s store: %w", cfg.GetStoreDriver(), err)
		}
		slog.Info("Seeded store", "driver", cfg.GetStoreDriver(), "users", len(seed.Users), "cards", len(seed.Cards))
	}
	return store, nil
}

// seedFor picks the seed: the configured file, or the demo data for an
// in-memory store. A persistent store without a seed file keeps its data.
func (m *Module) seedFor(cfg config.Provider) (SeedData, bool, error) {
	if path := cfg.GetSeedFile(); path != "" {
		data, err := LoadSeed(m.fs, path)
		return data, err == nil, err
	}
	if cfg.GetStoreDriver() == config.StoreSurreal {
		return SeedData{}, false, nil
	}
	return DemoSeed(), true, nil
}

// Boot mounts the API routes.
func (m *Module) Boot(_ context.Context, router *echo.Group, i do.Injector) error {
	store, err := do.Invoke[Store](i)
	if err != nil {
		return err
	}
	NewHandler(store).Routes(router)
	return nil
}

// Shutdown closes the database connection, if any.
func (m *Module) Shutdown(ctx context.Context) error {
	if m.conn == nil {
		return nil
	}
	return m.conn.Close(ctx)
}
