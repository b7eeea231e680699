// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package app

import (
	"context"
	"log/slog"

	"github.com/sethvargo/go-envconfig"

	"github.com/platform-engineering-labs/portctl/internal/cli/config"
	"github.com/platform-engineering-labs/portctl/internal/port"
	pkgmodel "github.com/platform-engineering-labs/portctl/pkg/model"
)

// App carries what every command needs once flags are parsed: the loaded configuration and
// a lazily built API client.
type App struct {
	Config *pkgmodel.Config

	loader     config.Loader
	clientOpts []port.Option
	client     *port.Client
	targets    []*port.Client
}

type Option func(*App)

// WithLoader replaces the default loader, which reads ./.env and the process environment.
func WithLoader(l config.Loader) Option {
	return func(a *App) {
		a.loader = l
	}
}

func WithClientOptions(opts ...port.Option) Option {
	return func(a *App) {
		a.clientOpts = append(a.clientOpts, opts...)
	}
}

func NewApp(opts ...Option) *App {
	a := &App{loader: config.Loader{DotEnv: ".env"}}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

func (a *App) LoadConfig(ctx context.Context, path string) error {
	cfg, err := a.loader.Load(ctx, path)
	if err != nil {
		return err
	}
	a.Config = cfg

	return nil
}

// Client returns the Port client for the loaded configuration. LoadConfig must have succeeded.
func (a *App) Client() *port.Client {
	if a.client == nil {
		slog.Debug("Creating Port client", "url", a.Config.API.URL, "clientId", a.Config.Credentials.RedactedClientID())
		a.client = port.NewClient(a.Config.API, a.Config.Credentials, a.clientOpts...)
	}

	return a.client
}

// TargetClient builds a client for a second organization from the credentials file at path.
// Neither .env nor PORT_* overrides are applied to it, they only ever select the primary
// organization.
func (a *App) TargetClient(ctx context.Context, path string) (*port.Client, error) {
	cfg, err := config.Loader{Lookuper: envconfig.MapLookuper(nil)}.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	slog.Debug("Creating Port client for target organization", "url", cfg.API.URL, "clientId", cfg.Credentials.RedactedClientID())
	client := port.NewClient(cfg.API, cfg.Credentials, a.clientOpts...)
	a.targets = append(a.targets, client)

	return client, nil
}

func (a *App) Close() {
	if a.client != nil {
		_ = a.client.Close()
		a.client = nil
	}
	for _, t := range a.targets {
		_ = t.Close()
	}
	a.targets = nil
}
