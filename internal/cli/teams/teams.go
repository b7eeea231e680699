// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package teams

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/platform-engineering-labs/portctl/internal/cli/app"
	"github.com/platform-engineering-labs/portctl/internal/cli/cmd"
	"github.com/platform-engineering-labs/portctl/internal/cli/display"
	"github.com/platform-engineering-labs/portctl/internal/cli/printer"
	"github.com/platform-engineering-labs/portctl/internal/report"
	"github.com/platform-engineering-labs/portctl/internal/teamscan"
	"github.com/platform-engineering-labs/portctl/internal/util"
	pkgmodel "github.com/platform-engineering-labs/portctl/pkg/model"
	"github.com/spf13/cobra"
)

type ReportOptions struct {
	OutputDir string
	Output    cmd.OutputOptions
}

func validateReportOptions(opts *ReportOptions) error {
	if opts.OutputDir == "" {
		return cmd.FlagErrorf("output-dir must not be empty")
	}

	return opts.Output.Validate()
}

func TeamsCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "teams",
		Short: "Users and teams as blueprints migration",
		Annotations: map[string]string{
			"type": "Migration",
		},
		SilenceErrors: true,
	}

	command.SetUsageTemplate(cmd.SimpleCmdUsageTemplate)
	command.AddCommand(reportCmd())

	return command
}

func reportCmd() *cobra.Command {
	command := &cobra.Command{
		Use:    "report",
		Short:  "Scan the organization and write the migration visibility report",
		PreRun: cmd.SetupLogging,
		RunE: func(command *cobra.Command, args []string) error {
			opts := &ReportOptions{Output: cmd.OutputOptionsFromCommand(command)}
			opts.OutputDir, _ = command.Flags().GetString("output-dir")
			if err := validateReportOptions(opts); err != nil {
				return err
			}

			a, err := cmd.AppFromCommand(command)
			if err != nil {
				return err
			}
			defer a.Close()

			return runReport(command.Context(), a, opts, os.Stdout)
		},
		Annotations: map[string]string{
			"examples": "{{.Name}} teams {{.Command}} --config ./config.json --output-dir ./output",
		},
		SilenceErrors: true,
	}

	cmd.AddCommonFlags(command)
	cmd.AddOutputFlags(command)
	command.Flags().String("output-dir", pkgmodel.DefaultReportDirectory, "Directory the HTML report is written to")

	return command
}

func runReport(ctx context.Context, a *app.App, opts *ReportOptions, out io.Writer) error {
	client := a.Client()

	snap, err := teamscan.Collect(ctx, client)
	if err != nil {
		return err
	}

	result, err := teamscan.Analyze(ctx, snap, client, teamscan.Options{TeamBlueprint: a.Config.API.TeamBlueprint})
	if err != nil {
		return err
	}

	path, err := report.WriteFile(util.ExpandHomePath(opts.OutputDir), result)
	if err != nil {
		return err
	}
	slog.Info("Report written", "path", path, "runId", result.RunID)

	if err := cmd.Print(out, opts.Output, result); err != nil {
		return err
	}
	if opts.Output.Consumer == printer.ConsumerMachine {
		return nil
	}
	_, err = fmt.Fprintf(out, "\n%s %s\n", display.Green("Report written to"), path)

	return err
}
