// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package pages

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/platform-engineering-labs/portctl/internal/admin"
	"github.com/platform-engineering-labs/portctl/internal/cli/cmd"
)

type SortOptions struct {
	Pinned []string
	Output cmd.OutputOptions
}

type VisibilityOptions struct {
	Titles []string
	Show   bool
	Hide   bool
	Output cmd.OutputOptions
}

func validateSortOptions(opts *SortOptions) error {
	seen := map[string]bool{}
	for _, id := range opts.Pinned {
		if id == "" {
			return cmd.FlagErrorf("pinned page identifiers must not be empty")
		}
		if seen[id] {
			return cmd.FlagErrorf("page %s is pinned more than once", id)
		}
		seen[id] = true
	}

	return opts.Output.Validate()
}

func validateVisibilityOptions(opts *VisibilityOptions) error {
	if len(opts.Titles) == 0 {
		return cmd.FlagErrorf("at least one --title is required")
	}
	if opts.Show == opts.Hide {
		return cmd.FlagErrorf("exactly one of --show or --hide is required")
	}

	return opts.Output.Validate()
}

func PagesCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "pages",
		Short: "Manage catalog pages and the sidebar",
		Annotations: map[string]string{
			"type": "Maintenance",
		},
		SilenceErrors: true,
	}

	command.SetUsageTemplate(cmd.SimpleCmdUsageTemplate)
	command.AddCommand(sortCmd())
	command.AddCommand(visibilityCmd())

	return command
}

func sortCmd() *cobra.Command {
	command := &cobra.Command{
		Use:    "sort",
		Short:  "Sort the sidebar page order, pinned pages first",
		PreRun: cmd.SetupLogging,
		RunE: func(command *cobra.Command, args []string) error {
			opts := &SortOptions{Output: cmd.OutputOptionsFromCommand(command)}
			opts.Pinned, _ = command.Flags().GetStringSlice("pin")
			if err := validateSortOptions(opts); err != nil {
				return err
			}

			a, err := cmd.AppFromCommand(command)
			if err != nil {
				return err
			}
			defer a.Close()

			return runSort(command.Context(), a.Client(), opts, os.Stdout)
		},
		Annotations: map[string]string{
			"examples": "{{.Name}} pages {{.Command}} --pin home,services",
		},
		SilenceErrors: true,
	}

	cmd.AddCommonFlags(command)
	cmd.AddOutputFlags(command)
	command.Flags().StringSlice("pin", nil, "Page identifiers to put first, in order. Without it pages are sorted alphabetically")

	return command
}

func visibilityCmd() *cobra.Command {
	command := &cobra.Command{
		Use:    "visibility",
		Short:  "Show or hide pages in the sidebar by title",
		PreRun: cmd.SetupLogging,
		RunE: func(command *cobra.Command, args []string) error {
			opts := &VisibilityOptions{Output: cmd.OutputOptionsFromCommand(command)}
			opts.Titles, _ = command.Flags().GetStringArray("title")
			opts.Show, _ = command.Flags().GetBool("show")
			opts.Hide, _ = command.Flags().GetBool("hide")
			if err := validateVisibilityOptions(opts); err != nil {
				return err
			}

			a, err := cmd.AppFromCommand(command)
			if err != nil {
				return err
			}
			defer a.Close()

			return runVisibility(command.Context(), a.Client(), opts, os.Stdout)
		},
		Annotations: map[string]string{
			"examples": "{{.Name}} pages {{.Command}} --title \"Old dashboard\" --hide",
		},
		SilenceErrors: true,
	}

	cmd.AddCommonFlags(command)
	cmd.AddOutputFlags(command)
	command.Flags().StringArray("title", nil, "Title of a page to update, can be repeated")
	command.Flags().Bool("show", false, "Show the pages in the sidebar")
	command.Flags().Bool("hide", false, "Hide the pages from the sidebar")

	return command
}

func runSort(ctx context.Context, c admin.Client, opts *SortOptions, out io.Writer) error {
	order, err := admin.SortPageOrder(ctx, c, opts.Pinned)
	if err != nil {
		return err
	}

	return cmd.Print(out, opts.Output, order)
}

func runVisibility(ctx context.Context, c admin.Client, opts *VisibilityOptions, out io.Writer) error {
	res, err := admin.SetPagesVisibility(ctx, c, opts.Titles, opts.Show)
	if err != nil {
		return err
	}

	return cmd.PrintAdminResult(out, opts.Output, res)
}
