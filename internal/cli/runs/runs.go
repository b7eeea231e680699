// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package runs

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/platform-engineering-labs/portctl/internal/admin"
	"github.com/platform-engineering-labs/portctl/internal/cli/cmd"
	portmodel "github.com/platform-engineering-labs/portctl/internal/port/model"
)

var validStatuses = []string{portmodel.RunStatusSuccess, portmodel.RunStatusFailure}

type CompleteOptions struct {
	Status string
	Output cmd.OutputOptions
}

func validateCompleteOptions(opts *CompleteOptions) error {
	opts.Status = strings.ToUpper(opts.Status)
	for _, s := range validStatuses {
		if opts.Status == s {
			return opts.Output.Validate()
		}
	}

	return cmd.FlagErrorf("status must be one of %s", strings.Join(validStatuses, ", "))
}

func RunsCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "runs",
		Short: "Manage action runs",
		Annotations: map[string]string{
			"type": "Maintenance",
		},
		SilenceErrors: true,
	}

	command.SetUsageTemplate(cmd.SimpleCmdUsageTemplate)
	command.AddCommand(completeCmd())
	command.AddCommand(startCmd())
	command.AddCommand(waitCmd())

	return command
}

func completeCmd() *cobra.Command {
	command := &cobra.Command{
		Use:    "complete",
		Short:  "Set every in-progress action run to a final status",
		PreRun: cmd.SetupLogging,
		RunE: func(command *cobra.Command, args []string) error {
			opts := &CompleteOptions{Output: cmd.OutputOptionsFromCommand(command)}
			opts.Status, _ = command.Flags().GetString("status")
			if err := validateCompleteOptions(opts); err != nil {
				return err
			}

			a, err := cmd.AppFromCommand(command)
			if err != nil {
				return err
			}
			defer a.Close()

			return runComplete(command.Context(), a.Client(), opts, os.Stdout)
		},
		Annotations: map[string]string{
			"examples": "{{.Name}} runs {{.Command}} --status FAILURE",
		},
		SilenceErrors: true,
	}

	cmd.AddCommonFlags(command)
	cmd.AddOutputFlags(command)
	command.Flags().String("status", admin.DefaultRunStatus, "Final status of the runs (SUCCESS | FAILURE)")

	return command
}

func runComplete(ctx context.Context, c admin.Client, opts *CompleteOptions, out io.Writer) error {
	res, err := admin.CompleteActiveRuns(ctx, c, opts.Status)
	if err != nil {
		return err
	}

	return cmd.PrintAdminResult(out, opts.Output, res)
}

type StartOptions struct {
	Blueprint    string
	Action       string
	Entities     []string
	Properties   string
	Wait         bool
	PollInterval time.Duration
	Output       cmd.OutputOptions

	properties map[string]any
}

func validateStartOptions(opts *StartOptions) error {
	if opts.Blueprint == "" || opts.Action == "" {
		return cmd.FlagErrorf("--blueprint and --action are required")
	}
	if len(opts.Entities) == 0 {
		return cmd.FlagErrorf("at least one --entity is required")
	}
	if opts.PollInterval <= 0 {
		return cmd.FlagErrorf("poll-interval must be positive")
	}
	if opts.Properties != "" {
		if err := json.Unmarshal([]byte(opts.Properties), &opts.properties); err != nil || opts.properties == nil {
			return cmd.FlagErrorf("properties must be a JSON object")
		}
	}

	return opts.Output.Validate()
}

func startCmd() *cobra.Command {
	command := &cobra.Command{
		Use:    "start",
		Short:  "Trigger an entity action for a list of entities",
		PreRun: cmd.SetupLogging,
		RunE: func(command *cobra.Command, args []string) error {
			opts := &StartOptions{Output: cmd.OutputOptionsFromCommand(command)}
			opts.Blueprint, _ = command.Flags().GetString("blueprint")
			opts.Action, _ = command.Flags().GetString("action")
			opts.Entities, _ = command.Flags().GetStringSlice("entity")
			opts.Properties, _ = command.Flags().GetString("properties")
			opts.Wait, _ = command.Flags().GetBool("wait")
			opts.PollInterval, _ = command.Flags().GetDuration("poll-interval")
			if err := validateStartOptions(opts); err != nil {
				return err
			}

			a, err := cmd.AppFromCommand(command)
			if err != nil {
				return err
			}
			defer a.Close()

			return runStart(command.Context(), a.Client(), opts, os.Stdout)
		},
		Annotations: map[string]string{
			"examples": `{{.Name}} runs {{.Command}} --blueprint organization --action delete_org --entity acme --entity globex --properties '{"reason":"Deleted by script"}' --wait`,
		},
		SilenceErrors: true,
	}

	cmd.AddCommonFlags(command)
	cmd.AddOutputFlags(command)
	command.Flags().String("blueprint", "", "Blueprint of the entities")
	command.Flags().String("action", "", "Identifier of the action to run")
	command.Flags().StringSlice("entity", nil, "Entity to run the action on, in order (repeatable)")
	command.Flags().String("properties", "", "Action inputs as a JSON object")
	command.Flags().Bool("wait", false, "Wait for each run to succeed before starting the next one")
	command.Flags().Duration("poll-interval", admin.DefaultPollInterval, "Delay between run status checks")

	return command
}

func runStart(ctx context.Context, c admin.ActionRunner, opts *StartOptions, out io.Writer) error {
	res, err := admin.RunEntityActions(ctx, c, admin.ActionRequest{
		Blueprint:    opts.Blueprint,
		Action:       opts.Action,
		Properties:   opts.properties,
		Wait:         opts.Wait,
		PollInterval: opts.PollInterval,
	}, opts.Entities)
	if err != nil {
		return err
	}

	return cmd.PrintAdminResult(out, opts.Output, res)
}

type WaitOptions struct {
	RunIDs       []string
	PollInterval time.Duration
	Output       cmd.OutputOptions
}

func validateWaitOptions(opts *WaitOptions) error {
	if len(opts.RunIDs) == 0 {
		return cmd.FlagErrorf("at least one run id is required")
	}
	if opts.PollInterval <= 0 {
		return cmd.FlagErrorf("poll-interval must be positive")
	}

	return opts.Output.Validate()
}

func waitCmd() *cobra.Command {
	command := &cobra.Command{
		Use:    "wait <run-id>...",
		Short:  "Wait until action runs finish",
		PreRun: cmd.SetupLogging,
		RunE: func(command *cobra.Command, args []string) error {
			opts := &WaitOptions{RunIDs: args, Output: cmd.OutputOptionsFromCommand(command)}
			opts.PollInterval, _ = command.Flags().GetDuration("poll-interval")
			if err := validateWaitOptions(opts); err != nil {
				return err
			}

			a, err := cmd.AppFromCommand(command)
			if err != nil {
				return err
			}
			defer a.Close()

			return runWait(command.Context(), a.Client(), opts, os.Stdout)
		},
		Annotations: map[string]string{
			"examples": "{{.Name}} runs {{.Command}} r_a1b2c3 --poll-interval 5s",
		},
		SilenceErrors: true,
	}

	cmd.AddCommonFlags(command)
	cmd.AddOutputFlags(command)
	command.Flags().Duration("poll-interval", admin.DefaultPollInterval, "Delay between run status checks")

	return command
}

func runWait(ctx context.Context, c admin.ActionRunner, opts *WaitOptions, out io.Writer) error {
	res, err := admin.WaitForRuns(ctx, c, opts.RunIDs, opts.PollInterval)
	if err != nil {
		return err
	}

	return cmd.PrintAdminResult(out, opts.Output, res)
}
