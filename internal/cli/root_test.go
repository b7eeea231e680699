// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

//go:build unit

package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_RegistersCommands(t *testing.T) {
	for _, path := range [][]string{
		{"teams", "report"},
		{"blueprints", "copy"},
		{"runs", "complete"},
		{"runs", "start"},
		{"runs", "wait"},
		{"pages", "sort"},
		{"pages", "visibility"},
		{"entities", "fix-dates"},
		{"entities", "delete"},
		{"users", "purge-invited"},
	} {
		found, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], found.Name())
		assert.NotNil(t, found.Flags().Lookup("config"), "%v has no --config flag", path)
	}
}

func TestTypeMap_GroupsByAnnotation(t *testing.T) {
	m := typeMap(rootCmd.Commands())

	var migration []string
	for _, c := range m["Migration"] {
		migration = append(migration, c.Name())
	}
	assert.Equal(t, []string{"blueprints", "teams"}, migration)
	assert.Len(t, m["Maintenance"], 4)
}

func TestFormatExamples(t *testing.T) {
	root := &cobra.Command{Use: "portctl"}
	child := &cobra.Command{Use: "sort"}
	root.AddCommand(child)

	assert.Equal(t, "portctl pages sort --pin home", formatExamples("{{.Name}} pages {{.Command}} --pin home", child))
}

func TestOptionsUsage(t *testing.T) {
	c := &cobra.Command{Use: "x"}
	c.Flags().Int("concurrency", 5, "Maximum number of deletions in flight")
	c.Flags().Bool("yes", false, "Do not ask for confirmation")
	c.Flags().StringSlice("blueprint", nil, "Blueprints")

	usage := optionsUsage(c.Flags())
	require.Len(t, usage, 3)
	assert.Contains(t, usage[0], "--blueprint")
	assert.NotContains(t, usage[0], "default")
	assert.Contains(t, usage[1], `[default: "5"]`)
	assert.NotContains(t, usage[2], "default")
}
