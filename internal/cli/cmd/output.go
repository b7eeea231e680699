// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package cmd

import (
	"fmt"
	"io"

	"github.com/platform-engineering-labs/portctl/internal/admin"
	"github.com/platform-engineering-labs/portctl/internal/cli/printer"
)

// Print writes v for the consumer selected with the output flags.
func Print[T any](out io.Writer, opts OutputOptions, v *T) error {
	if opts.Consumer == printer.ConsumerMachine {
		return printer.NewMachineReadablePrinter[T](out, opts.Schema).Print(v)
	}

	return printer.NewHumanReadablePrinter(out).Print(v)
}

// PrintAdminResult prints res and turns failed items into the command error, so the process
// exits non-zero when any write was rejected.
func PrintAdminResult(out io.Writer, opts OutputOptions, res *admin.Result) error {
	if err := Print(out, opts, res); err != nil {
		return err
	}
	if len(res.Failed) > 0 {
		return fmt.Errorf("%s: %d of %d items failed", res.Operation, len(res.Failed), res.Total())
	}

	return nil
}
