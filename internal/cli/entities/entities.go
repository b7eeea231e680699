// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package entities

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/platform-engineering-labs/portctl/internal/admin"
	"github.com/platform-engineering-labs/portctl/internal/cli/cmd"
	"github.com/platform-engineering-labs/portctl/internal/cli/display"
	"github.com/platform-engineering-labs/portctl/internal/cli/printer"
	"github.com/platform-engineering-labs/portctl/internal/cli/prompter"
)

type FixDatesOptions struct {
	Blueprint string
	Property  string
	Output    cmd.OutputOptions
}

type DeleteOptions struct {
	Blueprints       []string
	DeleteDependents bool
	Concurrency      int
	Yes              bool
	Output           cmd.OutputOptions
}

func validateFixDatesOptions(opts *FixDatesOptions) error {
	if opts.Blueprint == "" {
		return cmd.FlagErrorf("--blueprint is required")
	}
	if opts.Property == "" {
		return cmd.FlagErrorf("--property is required")
	}

	return opts.Output.Validate()
}

func validateDeleteOptions(opts *DeleteOptions) error {
	if len(opts.Blueprints) == 0 {
		return cmd.FlagErrorf("at least one --blueprint is required")
	}
	if opts.Concurrency < 1 {
		return cmd.FlagErrorf("concurrency must be at least 1")
	}
	if opts.Output.Consumer == printer.ConsumerMachine && !opts.Yes {
		return cmd.FlagErrorf("--yes is required with machine output")
	}

	return opts.Output.Validate()
}

func EntitiesCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "entities",
		Short: "Bulk operations on catalog entities",
		Annotations: map[string]string{
			"type": "Maintenance",
		},
		SilenceErrors: true,
	}

	command.SetUsageTemplate(cmd.SimpleCmdUsageTemplate)
	command.AddCommand(fixDatesCmd())
	command.AddCommand(deleteCmd())

	return command
}

func fixDatesCmd() *cobra.Command {
	command := &cobra.Command{
		Use:    "fix-dates",
		Short:  "Rewrite \"... UTC\" date strings of a property as ISO-8601",
		PreRun: cmd.SetupLogging,
		RunE: func(command *cobra.Command, args []string) error {
			opts := &FixDatesOptions{Output: cmd.OutputOptionsFromCommand(command)}
			opts.Blueprint, _ = command.Flags().GetString("blueprint")
			opts.Property, _ = command.Flags().GetString("property")
			if err := validateFixDatesOptions(opts); err != nil {
				return err
			}

			a, err := cmd.AppFromCommand(command)
			if err != nil {
				return err
			}
			defer a.Close()

			return runFixDates(command.Context(), a.Client(), opts, os.Stdout)
		},
		Annotations: map[string]string{
			"examples": "{{.Name}} entities {{.Command}} --blueprint deployment --property deployedAt",
		},
		SilenceErrors: true,
	}

	cmd.AddCommonFlags(command)
	cmd.AddOutputFlags(command)
	command.Flags().String("blueprint", "", "Blueprint whose entities are updated")
	command.Flags().String("property", "", "Date property to rewrite")

	return command
}

func deleteCmd() *cobra.Command {
	command := &cobra.Command{
		Use:    "delete",
		Short:  "Delete every entity of the given blueprints",
		PreRun: cmd.SetupLogging,
		RunE: func(command *cobra.Command, args []string) error {
			opts := &DeleteOptions{Output: cmd.OutputOptionsFromCommand(command)}
			opts.Blueprints, _ = command.Flags().GetStringSlice("blueprint")
			opts.DeleteDependents, _ = command.Flags().GetBool("delete-dependents")
			opts.Concurrency, _ = command.Flags().GetInt("concurrency")
			opts.Yes, _ = command.Flags().GetBool("yes")
			if err := validateDeleteOptions(opts); err != nil {
				return err
			}

			a, err := cmd.AppFromCommand(command)
			if err != nil {
				return err
			}
			defer a.Close()

			var p prompter.Prompter = prompter.NewBasicPrompter()
			if opts.Yes {
				p = prompter.AlwaysYes{}
			}

			return runDelete(command.Context(), a.Client(), p, opts, os.Stdout)
		},
		Annotations: map[string]string{
			"examples": "{{.Name}} entities {{.Command}} --blueprint service,deployment --delete-dependents",
		},
		SilenceErrors: true,
	}

	cmd.AddCommonFlags(command)
	cmd.AddOutputFlags(command)
	command.Flags().StringSlice("blueprint", nil, "Blueprints whose entities are deleted")
	command.Flags().Bool("delete-dependents", false, "Also delete entities that depend on the deleted ones")
	command.Flags().Int("concurrency", admin.DefaultDeleteConcurrency, "Maximum number of deletions in flight")
	command.Flags().Bool("yes", false, "Do not ask for confirmation")

	return command
}

func runFixDates(ctx context.Context, c admin.Client, opts *FixDatesOptions, out io.Writer) error {
	res, err := admin.FixEntityDates(ctx, c, opts.Blueprint, opts.Property)
	if err != nil {
		return err
	}

	return cmd.PrintAdminResult(out, opts.Output, res)
}

func runDelete(ctx context.Context, c admin.Client, p prompter.Prompter, opts *DeleteOptions, out io.Writer) error {
	prompt := fmt.Sprintf("%s every entity of %s will be deleted", display.Gold("Warning:"), strings.Join(opts.Blueprints, ", "))
	if opts.DeleteDependents {
		prompt += ", together with their dependents"
	}
	if !p.Confirm(prompt + ". Continue?") {
		_, err := fmt.Fprintln(out, display.Grey("Aborted, nothing was deleted."))
		return err
	}

	res, err := admin.DeleteEntities(ctx, c, opts.Blueprints, opts.DeleteDependents, opts.Concurrency)
	if err != nil {
		return err
	}

	return cmd.PrintAdminResult(out, opts.Output, res)
}
