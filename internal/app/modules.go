package app

import (
	"github.com/spf13/afero"

	"github.com/nfrund/mesto/internal/backend"
	"github.com/nfrund/mesto/internal/config"
	"github.com/nfrund/mesto/internal/gallery"
	"github.com/nfrund/mesto/internal/module"
)

// APIPrefix is where the embedded backend is mounted.
const APIPrefix = "/api"

// NewModules returns the active modules in boot order. The embedded backend
// boots first so the gallery's client can reach it.
func NewModules(cfg config.Provider, fs afero.Fs) []module.Module {
	var mods []module.Module
	if cfg.GetEmbeddedAPI() {
		mods = append(mods, backend.NewModule(fs))
	}
	return append(mods, gallery.NewModule())
}
