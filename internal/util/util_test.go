// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

//go:build unit

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandHomePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "config.json"), ExpandHomePath("~/config.json"))
	assert.Equal(t, "./config.json", ExpandHomePath("./config.json"))
	assert.Equal(t, "/etc/portctl.json", ExpandHomePath("/etc/portctl.json"))
}

func TestEnsureFileFolderHierarchy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log", "nested", "client.log")

	require.NoError(t, EnsureFileFolderHierarchy(path))

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
