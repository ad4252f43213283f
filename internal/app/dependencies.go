// Package app wires the core services and the feature modules together.
package app

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/nfrund/mesto/internal/api"
	"github.com/nfrund/mesto/internal/config"
	"github.com/nfrund/mesto/internal/pubsub"
	"github.com/nfrund/mesto/internal/rendering"
	"github.com/nfrund/mesto/internal/validation"
)

// NewInjector provides the core services every module may depend on:
// configuration, the validation engine, the event bus, the renderer and the
// remote API client.
func NewInjector(cfg config.Provider) do.Injector {
	i := do.New()

	do.ProvideValue[config.Provider](i, cfg)
	do.Provide(i, func(do.Injector) (*validation.Engine, error) {
		return validation.NewEngine(), nil
	})

	do.Provide(i, func(do.Injector) (*pubsub.WatermillBridge, error) {
		return pubsub.NewWatermillBridge(), nil
	})
	do.Provide(i, func(i do.Injector) (pubsub.Publisher, error) {
		bridge, err := do.Invoke[*pubsub.WatermillBridge](i)
		if err != nil {
			return nil, err
		}
		return bridge, nil
	})
	do.Provide(i, func(i do.Injector) (pubsub.Subscriber, error) {
		bridge, err := do.Invoke[*pubsub.WatermillBridge](i)
		if err != nil {
			return nil, err
		}
		return bridge, nil
	})

	do.Provide(i, func(do.Injector) (rendering.Renderer, error) {
		return rendering.NewUniversalRenderer(), nil
	})
	do.Provide(i, func(i do.Injector) (api.Client, error) {
		client, err := NewAPIClient(do.MustInvoke[config.Provider](i))
		if err != nil {
			return nil, err
		}
		return client, nil
	})

	return i
}

// NewAPIClient builds the remote API client from configuration.
func NewAPIClient(cfg config.Provider) (*api.HTTPClient, error) {
	if cfg.GetAPIBaseURL() == "" {
		return nil, fmt.Errorf("MESTO_API_URL is required unless MESTO_EMBEDDED_API is set")
	}
	return api.NewHTTPClient(cfg.GetAPIBaseURL(), cfg.GetAPIToken(), api.WithTimeout(cfg.GetAPITimeout()))
}
