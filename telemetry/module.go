package telemetry

import (
	"io"
	"log/slog"

	"go.uber.org/fx"
)

// Module provides *Providers and *Client. It requires Config and a
// *slog.Logger; exported data goes to the io.Writer named "telemetryOutput"
// when one is supplied.
var Module = fx.Module("telemetry",
	fx.Provide(newLifecycleProviders),
	fx.Provide(newClient),
)

type providerParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    Config
	Output    io.Writer `name:"telemetryOutput" optional:"true"`
}

func newLifecycleProviders(params providerParams) (*Providers, error) {
	providers, err := NewProviders(params.Config, params.Output)
	if err != nil {
		return nil, err
	}

	params.Lifecycle.Append(fx.Hook{OnStop: providers.Shutdown})

	return providers, nil
}

func newClient(providers *Providers, logger *slog.Logger) (*Client, error) {
	return NewClient(providers.TracerProvider, providers.MeterProvider, logger)
}
