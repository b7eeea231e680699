// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

//go:build unit

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgmodel "github.com/platform-engineering-labs/portctl/pkg/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	return path
}

func noEnv() Loader {
	return Loader{Lookuper: envconfig.MapLookuper(map[string]string{})}
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `{"CLIENT_ID":"abcdef123456wxyz","CLIENT_SECRET":"s3cret","REGION":"us"}`)

	cfg, err := noEnv().Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "abcdef123456wxyz", cfg.Credentials.ClientID)
	assert.Equal(t, "https://api.us.getport.io", cfg.API.URL)
	assert.Equal(t, pkgmodel.TeamBlueprintID, cfg.API.TeamBlueprint)
	assert.Equal(t, "v2", cfg.API.ActionsVersion)
	assert.Equal(t, "abcdef...wxyz", cfg.Credentials.RedactedClientID())
}

func TestLoad_DefaultsToEU(t *testing.T) {
	path := writeConfig(t, `{"CLIENT_ID":"id","CLIENT_SECRET":"secret"}`)

	cfg, err := noEnv().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, &pkgmodel.Config{
		Credentials: pkgmodel.Credentials{ClientID: "id", ClientSecret: "secret"},
		API: pkgmodel.APIConfig{
			URL:            "https://api.getport.io",
			TeamBlueprint:  pkgmodel.TeamBlueprintID,
			ActionsVersion: pkgmodel.DefaultActionsVersion,
			MinTokenTTL:    pkgmodel.DefaultMinTokenTTL,
		},
	}, cfg)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `{"CLIENT_ID":"file-id","CLIENT_SECRET":"file-secret","REGION":"us"}`)
	loader := Loader{Lookuper: envconfig.MapLookuper(map[string]string{
		"PORT_CLIENT_SECRET": "env-secret",
		"PORT_BASE_URL":      "http://localhost:3000",
	})}

	cfg, err := loader.Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "file-id", cfg.Credentials.ClientID)
	assert.Equal(t, "env-secret", cfg.Credentials.ClientSecret)
	assert.Equal(t, "http://localhost:3000", cfg.API.URL)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("explicit file missing", func(t *testing.T) {
		_, err := noEnv().Load(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("missing secret", func(t *testing.T) {
		_, err := noEnv().Load(context.Background(), writeConfig(t, `{"CLIENT_ID":"id"}`))
		assert.ErrorIs(t, err, ErrMissingCredentials)
	})

	t.Run("invalid region", func(t *testing.T) {
		_, err := noEnv().Load(context.Background(), writeConfig(t, `{"CLIENT_ID":"id","CLIENT_SECRET":"s","REGION":"apac"}`))
		assert.ErrorIs(t, err, ErrInvalidRegion)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := noEnv().Load(context.Background(), writeConfig(t, `{"CLIENT_ID":`))
		assert.ErrorContains(t, err, "failed to parse")
	})
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("PORT_CLIENT_ID=dotenv-id\nPORT_CLIENT_SECRET=dotenv-secret\n"), 0600))
	t.Setenv("PORT_CLIENT_ID", "")
	t.Setenv("PORT_CLIENT_SECRET", "")
	require.NoError(t, os.Unsetenv("PORT_CLIENT_ID"))
	require.NoError(t, os.Unsetenv("PORT_CLIENT_SECRET"))

	cfg, err := Loader{DotEnv: dotenv}.Load(context.Background(), filepath.Join(dir, "config.json"))
	assert.ErrorIs(t, err, ErrConfigNotFound, "an explicit path still has to exist")
	assert.Nil(t, cfg)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{}`), 0600))
	cfg, err = Loader{DotEnv: dotenv}.Load(context.Background(), filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	assert.Equal(t, "dotenv-id", cfg.Credentials.ClientID)
	assert.Equal(t, "dotenv-secret", cfg.Credentials.ClientSecret)
}
