// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/platform-engineering-labs/portctl/internal/cli/app"
	"github.com/platform-engineering-labs/portctl/internal/cli/config"
	"github.com/platform-engineering-labs/portctl/internal/cli/display"
	"github.com/platform-engineering-labs/portctl/internal/cli/printer"
	"github.com/platform-engineering-labs/portctl/internal/logging"
)

var RootCmdUsageTemplate = display.Grey("Usage: ") + display.Green("{{.CommandPath}} [OPTIONS]{{if .HasAvailableSubCommands}} [COMMAND]{{end}}\n") +
	"{{if .HasAvailableSubCommands}}\n" + display.Gold("Commands:") + "{{$types := typeMap .Commands}}" +
	"{{$first := true}}{{range $type, $cmds := $types}}" +
	"{{if $first}}{{$first = false}}{{else}}\n{{end}}\n  " + display.Gold("{{$type}}:") +
	"{{range $cmd := $cmds}}\n    " + display.Green("{{rpad $cmd.Name $cmd.NamePadding}}") + "     {{$cmd.Short}}" +
	"{{if (index $cmd.Annotations \"examples\")}}\n                   " +
	display.Grey("  {{formatExamples (index $cmd.Annotations \"examples\") $cmd}}") + "{{end}}" +
	"{{end}}{{end}}\n{{end}}" +
	"{{if .HasAvailableLocalFlags}}\n" + display.Gold("Options:\n") +
	"{{range .LocalFlags | optionsUsage}}{{.}}\n{{end}}" +
	"{{end}}" +
	display.Links("Docs", "sso-rbac/rbac/migration") +
	"\n"

var SimpleCmdUsageTemplate = display.Grey("Usage: ") + display.Green("{{.CommandPath}}{{if .HasAvailableLocalFlags}} [OPTIONS]{{end}}{{if .HasAvailableSubCommands}} [COMMAND]{{end}}") + "\n" +
	"{{if .HasAvailableSubCommands}}\n" + display.Gold("Commands:") +
	"{{range $cmd := .Commands}}\n  " + display.Green("{{rpad $cmd.Name $cmd.NamePadding}}") + "       {{$cmd.Short}}" +
	"{{if (index $cmd.Annotations \"examples\")}}\n                   " +
	display.Grey("  {{formatExamples (index $cmd.Annotations \"examples\") $cmd}}") + "{{end}}" +
	"{{end}}\n{{end}}" +
	"{{if .HasAvailableLocalFlags}}\n" + display.Gold("Options:\n") +
	"{{range .LocalFlags | optionsUsage}}{{.}}\n{{end}}" +
	"{{end}}" +
	display.Links("Docs", "api-reference/port-api") +
	"\n"

type appKey struct{}

// InitCommandWithContext attaches a fresh App to the command tree.
func InitCommandWithContext(cmd *cobra.Command, opts ...app.Option) *cobra.Command {
	cmd.SetContext(context.WithValue(context.Background(), appKey{}, app.NewApp(opts...)))
	return cmd
}

// AppFromCommand returns the App of the command tree with its configuration loaded.
func AppFromCommand(command *cobra.Command) (*app.App, error) {
	a, ok := command.Context().Value(appKey{}).(*app.App)
	if !ok {
		return nil, errors.New("command was not initialised with an app")
	}

	configFile, _ := command.Flags().GetString("config")
	if err := a.LoadConfig(command.Context(), configFile); err != nil {
		return nil, fmt.Errorf("%w%s", err, display.Links("Configuration docs", "build-your-software-catalog/custom-integration/api"))
	}

	return a, nil
}

// SetupLogging is used as PreRun of every command that talks to Port.
func SetupLogging(command *cobra.Command, _ []string) {
	level := logging.NoLoggingLevel
	if verbose, _ := command.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	logging.SetupClientLogging(config.Config.LogFile(), level)
}

// AddCommonFlags registers the flags shared by all commands that talk to Port.
func AddCommonFlags(command *cobra.Command) {
	command.Flags().String("config", "", "Path to the credentials file (default ./"+config.DefaultConfigFile+")")
	command.Flags().Bool("verbose", false, "Also print debug logs to the console")
}

func AddOutputFlags(command *cobra.Command) {
	command.Flags().String("output-consumer", string(printer.ConsumerHuman), "Consumer of the command output (human | machine)")
	command.Flags().String("output-schema", "json", "The schema to use for the machine output (json | yaml)")
}

type OutputOptions struct {
	Consumer printer.Consumer
	Schema   string
}

func OutputOptionsFromCommand(command *cobra.Command) OutputOptions {
	consumer, _ := command.Flags().GetString("output-consumer")
	schema, _ := command.Flags().GetString("output-schema")

	return OutputOptions{Consumer: printer.Consumer(consumer), Schema: schema}
}

func (o OutputOptions) Validate() error {
	if o.Consumer != printer.ConsumerHuman && o.Consumer != printer.ConsumerMachine {
		return FlagErrorf("output-consumer must be 'human' or 'machine'")
	}
	if o.Consumer == printer.ConsumerMachine && o.Schema != "json" && o.Schema != "yaml" {
		return FlagErrorf("output-schema must be 'json' or 'yaml' for machine consumer")
	}

	return nil
}
