package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/afero"

	"github.com/nfrund/mesto/internal/config"
	"github.com/nfrund/mesto/internal/logging"
	"github.com/nfrund/mesto/internal/server"
)

func main() {
	logging.New()

	cfg, err := config.New()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	s, err := server.New(cfg, afero.NewOsFs())
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}
	if err := s.Boot(context.Background()); err != nil {
		slog.Error("failed to boot modules", "error", err)
		os.Exit(1)
	}

	if err := s.Start(cfg.GetAddr()); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
