// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/platform-engineering-labs/portctl/internal/util"
	pkgmodel "github.com/platform-engineering-labs/portctl/pkg/model"
	"github.com/sethvargo/go-envconfig"
)

const (
	DefaultConfigFile = "config.json"
	ConfigDirectory   = ".config/portctl"
	DataDirectory     = ".pel/portctl"
)

var (
	ErrConfigNotFound     = errors.New("config file not found")
	ErrMissingCredentials = errors.New("CLIENT_ID and CLIENT_SECRET are required")
	ErrInvalidRegion      = errors.New("REGION must be 'eu' or 'us'")
)

var Config = cliconfig{}

type cliconfig struct{}

func (cliconfig) ConfigDirectory() string {
	homePath, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(homePath, ConfigDirectory)
}

func (cliconfig) DataDirectory() string {
	homePath, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(homePath, DataDirectory)
}

func (cliconfig) LogFile() string {
	return filepath.Join(Config.DataDirectory(), "log", "client.log")
}

func (cliconfig) EnsureConfigDirectory() error {
	configPath := Config.ConfigDirectory()
	if configPath == "" {
		return fmt.Errorf("failed to ensure portctl config directory")
	}

	return os.MkdirAll(configPath, 0700)
}

func (cliconfig) EnsureDataDirectory() error {
	dataPath := Config.DataDirectory()
	if dataPath == "" {
		return fmt.Errorf("failed to ensure portctl data directory")
	}

	return os.MkdirAll(dataPath, 0700)
}

type Loader struct {
	// Lookuper resolves PORT_* overrides, the process environment when nil.
	Lookuper envconfig.Lookuper
	// DotEnv is loaded into the process environment before lookup when it exists.
	DotEnv string
}

// Load reads credentials from path (DefaultConfigFile when empty), applies environment
// overrides and validates the result. A missing file is only an error when no credentials are
// left after the overrides, or when path was given explicitly.
func (l Loader) Load(ctx context.Context, path string) (*pkgmodel.Config, error) {
	if l.DotEnv != "" {
		if err := godotenv.Load(l.DotEnv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", l.DotEnv, err)
		}
	}

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	path = util.ExpandHomePath(path)

	var creds pkgmodel.Credentials
	fileErr := readCredentials(path, &creds)
	if fileErr != nil && (explicit || !errors.Is(fileErr, ErrConfigNotFound)) {
		return nil, fileErr
	}

	lookuper := l.Lookuper
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &creds, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if creds.ClientID == "" || creds.ClientSecret == "" {
		if fileErr != nil {
			return nil, fileErr
		}
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, ErrMissingCredentials)
	}
	if creds.Region != "" && !creds.Region.Valid() {
		return nil, fmt.Errorf("invalid configuration in %s: %w, got %q", path, ErrInvalidRegion, creds.Region)
	}

	api, err := pkgmodel.NewAPIConfig(creds)
	if err != nil {
		return nil, err
	}

	slog.Debug("Loaded configuration", "clientId", creds.RedactedClientID(), "url", api.URL)

	return &pkgmodel.Config{
		Credentials: creds,
		API:         api,
	}, nil
}

func readCredentials(path string, creds *pkgmodel.Credentials) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, creds); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return nil
}
