// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package users

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/platform-engineering-labs/portctl/internal/admin"
	"github.com/platform-engineering-labs/portctl/internal/cli/cmd"
	"github.com/platform-engineering-labs/portctl/internal/cli/display"
	"github.com/platform-engineering-labs/portctl/internal/cli/printer"
	"github.com/platform-engineering-labs/portctl/internal/cli/prompter"
)

type PurgeOptions struct {
	Yes    bool
	Output cmd.OutputOptions
}

func validatePurgeOptions(opts *PurgeOptions) error {
	if opts.Output.Consumer == printer.ConsumerMachine && !opts.Yes {
		return cmd.FlagErrorf("--yes is required with machine output")
	}

	return opts.Output.Validate()
}

func UsersCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "users",
		Short: "Manage organization users",
		Annotations: map[string]string{
			"type": "Maintenance",
		},
		SilenceErrors: true,
	}

	command.SetUsageTemplate(cmd.SimpleCmdUsageTemplate)
	command.AddCommand(purgeInvitedCmd())

	return command
}

func purgeInvitedCmd() *cobra.Command {
	command := &cobra.Command{
		Use:    "purge-invited",
		Short:  "Delete users that never accepted their invitation",
		PreRun: cmd.SetupLogging,
		RunE: func(command *cobra.Command, args []string) error {
			opts := &PurgeOptions{Output: cmd.OutputOptionsFromCommand(command)}
			opts.Yes, _ = command.Flags().GetBool("yes")
			if err := validatePurgeOptions(opts); err != nil {
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

			return runPurge(command.Context(), a.Client(), p, opts, os.Stdout)
		},
		Annotations: map[string]string{
			"examples": "{{.Name}} users {{.Command}} --yes",
		},
		SilenceErrors: true,
	}

	cmd.AddCommonFlags(command)
	cmd.AddOutputFlags(command)
	command.Flags().Bool("yes", false, "Do not ask for confirmation")

	return command
}

func runPurge(ctx context.Context, c admin.Client, p prompter.Prompter, opts *PurgeOptions, out io.Writer) error {
	if !p.Confirm(display.Gold("Warning:") + " every user with a pending invitation will be deleted. Continue?") {
		_, err := fmt.Fprintln(out, display.Grey("Aborted, nothing was deleted."))
		return err
	}

	res, err := admin.PurgeInvitedUsers(ctx, c)
	if err != nil {
		return err
	}

	return cmd.PrintAdminResult(out, opts.Output, res)
}
