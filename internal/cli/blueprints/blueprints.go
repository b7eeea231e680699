// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package blueprints

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

type CopyOptions struct {
	TargetConfig string
	Blueprints   []string
	Yes          bool
	Output       cmd.OutputOptions
}

func validateCopyOptions(opts *CopyOptions) error {
	if opts.TargetConfig == "" {
		return cmd.FlagErrorf("--target-config is required")
	}
	if opts.Output.Consumer == printer.ConsumerMachine && !opts.Yes {
		return cmd.FlagErrorf("--yes is required with machine output")
	}

	return opts.Output.Validate()
}

func BlueprintsCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "blueprints",
		Short: "Move blueprints and their entities between organizations",
		Annotations: map[string]string{
			"type": "Migration",
		},
		SilenceErrors: true,
	}

	command.SetUsageTemplate(cmd.SimpleCmdUsageTemplate)
	command.AddCommand(copyCmd())

	return command
}

func copyCmd() *cobra.Command {
	command := &cobra.Command{
		Use:    "copy",
		Short:  "Copy blueprints and entities into the organization of another credentials file",
		PreRun: cmd.SetupLogging,
		RunE: func(command *cobra.Command, args []string) error {
			opts := &CopyOptions{Output: cmd.OutputOptionsFromCommand(command)}
			opts.TargetConfig, _ = command.Flags().GetString("target-config")
			opts.Blueprints, _ = command.Flags().GetStringSlice("blueprint")
			opts.Yes, _ = command.Flags().GetBool("yes")
			if err := validateCopyOptions(opts); err != nil {
				return err
			}

			a, err := cmd.AppFromCommand(command)
			if err != nil {
				return err
			}
			defer a.Close()

			target, err := a.TargetClient(command.Context(), opts.TargetConfig)
			if err != nil {
				return fmt.Errorf("failed to load target organization: %w", err)
			}

			var p prompter.Prompter = prompter.NewBasicPrompter()
			if opts.Yes {
				p = prompter.AlwaysYes{}
			}

			return runCopy(command.Context(), a.Client(), target, p, opts, os.Stdout)
		},
		Annotations: map[string]string{
			"examples": "{{.Name}} blueprints {{.Command}} --config old-org.json --target-config new-org.json --blueprint service,team",
		},
		SilenceErrors: true,
	}

	cmd.AddCommonFlags(command)
	cmd.AddOutputFlags(command)
	command.Flags().String("target-config", "", "Credentials file of the organization to copy into")
	command.Flags().StringSlice("blueprint", nil, "Only copy these blueprints (default all)")
	command.Flags().Bool("yes", false, "Do not ask for confirmation")

	return command
}

func runCopy(ctx context.Context, src admin.CopySource, dst admin.CopyTarget, p prompter.Prompter, opts *CopyOptions, out io.Writer) error {
	prompt := fmt.Sprintf("%s blueprints and entities will be written to the organization of %s, replacing entities with the same identifier",
		display.Gold("Warning:"), opts.TargetConfig)
	if !p.Confirm(prompt + ". Continue?") {
		_, err := fmt.Fprintln(out, display.Grey("Aborted, nothing was copied."))
		return err
	}

	res, err := admin.CopyOrganization(ctx, src, dst, opts.Blueprints)
	if err != nil {
		return err
	}

	return cmd.PrintAdminResult(out, opts.Output, res)
}
