// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/platform-engineering-labs/portctl"
	"github.com/platform-engineering-labs/portctl/internal/cli/blueprints"
	"github.com/platform-engineering-labs/portctl/internal/cli/cmd"
	"github.com/platform-engineering-labs/portctl/internal/cli/config"
	"github.com/platform-engineering-labs/portctl/internal/cli/display"
	"github.com/platform-engineering-labs/portctl/internal/cli/entities"
	"github.com/platform-engineering-labs/portctl/internal/cli/pages"
	"github.com/platform-engineering-labs/portctl/internal/cli/renderer"
	"github.com/platform-engineering-labs/portctl/internal/cli/runs"
	"github.com/platform-engineering-labs/portctl/internal/cli/teams"
	"github.com/platform-engineering-labs/portctl/internal/cli/users"
)

func longDescription() string {
	return display.Tool + ": " + display.Green("Migration and maintenance tooling for Port organizations")
}

var rootCmd = &cobra.Command{
	Use:     display.Tool,
	Short:   display.Tool + " CLI",
	Long:    longDescription(),
	Version: portctl.Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Commands that talk to Port replace this in their own PreRun
		devNull, _ := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		slog.SetDefault(slog.New(slog.NewTextHandler(devNull, nil)))
	},
	SilenceErrors: true,
	SilenceUsage:  true,
}

func typeMap(cmds []*cobra.Command) map[string][]*cobra.Command {
	m := make(map[string][]*cobra.Command)
	for _, c := range cmds {
		if c.IsAvailableCommand() {
			t := c.Annotations["type"]
			if t == "" {
				t = "Tooling"
			}

			m[t] = append(m[t], c)
		}
	}
	return m
}

func formatExamples(examples string, cmd *cobra.Command) string {
	cliName := cmd.Root().Name()
	cmdName := cmd.Name()
	replaced := strings.ReplaceAll(examples, "{{.Name}}", cliName)
	return strings.ReplaceAll(replaced, "{{.Command}}", cmdName)
}

func optionsUsage(f *pflag.FlagSet) []string {
	var usage []string
	longestFlagName := 0

	f.VisitAll(func(flag *pflag.Flag) {
		length := len(flag.Name)
		if flag.Shorthand != "" {
			length += 6
		}

		if length > longestFlagName {
			longestFlagName = length
		}
	})

	longestFlagName += 10

	f.VisitAll(func(flag *pflag.Flag) {
		s := fmt.Sprintf("      --%s ", flag.Name)
		if flag.Shorthand != "" {
			s = fmt.Sprintf("  -%s, --%s ", flag.Shorthand, flag.Name)
		}

		s = fmt.Sprintf("%-*s%s", longestFlagName, s, flag.Usage)
		if flag.DefValue != "" &&
			flag.DefValue != "[]" &&
			flag.DefValue != "false" &&
			flag.Name != "help" &&
			flag.Name != "version" {
			s += display.Grey(fmt.Sprintf(" [default: %q]", flag.DefValue))
		}

		usage = append(usage, s)
	})
	return usage
}

func init() {
	hp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		display.PrintBanner()
		hp(cmd, args)
	})

	rootCmd.SetHelpCommand(&cobra.Command{
		Hidden: true,
	})

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	cobra.AddTemplateFunc("typeMap", typeMap)
	cobra.AddTemplateFunc("formatExamples", formatExamples)
	cobra.AddTemplateFunc("optionsUsage", optionsUsage)

	rootCmd.SetUsageTemplate(cmd.RootCmdUsageTemplate)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &cmd.FlagError{Err: err}
	})

	rootCmd.AddCommand(teams.TeamsCmd())
	rootCmd.AddCommand(blueprints.BlueprintsCmd())
	rootCmd.AddCommand(runs.RunsCmd())
	rootCmd.AddCommand(pages.PagesCmd())
	rootCmd.AddCommand(entities.EntitiesCmd())
	rootCmd.AddCommand(users.UsersCmd())

	rootCmd.PersistentFlags().BoolP("help", "h", false, "Show help for "+rootCmd.Use)
	for _, cmd := range rootCmd.Commands() {
		cmd.PersistentFlags().BoolP("help", "h", false, fmt.Sprintf("Show help for %s command", cmd.Name()))
	}

	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show "+rootCmd.Use+" version information")
	rootCmd.SetVersionTemplate(fmt.Sprintf("%s version: %s\ngo version: %s\n", display.Tool, portctl.Version, runtime.Version()))
}

func Start() {
	err := config.Config.EnsureConfigDirectory()
	if err != nil {
		fmt.Println(display.Red("Error: " + err.Error()))
		os.Exit(1)
	}

	err = config.Config.EnsureDataDirectory()
	if err != nil {
		fmt.Println(display.Red("Error: " + err.Error()))
		os.Exit(1)
	}

	command, err := cmd.InitCommandWithContext(rootCmd).ExecuteC()
	if err == nil {
		return
	}

	var flagErr *cmd.FlagError
	if errors.As(err, &flagErr) {
		fmt.Println(display.Red("Error: " + err.Error()))
		fmt.Println()
		_ = command.Usage()
		os.Exit(1)
	}

	fmt.Print(renderer.RenderErrorMessage(err))
	os.Exit(1)
}
