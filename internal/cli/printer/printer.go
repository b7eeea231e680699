// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package printer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/platform-engineering-labs/portctl/internal/admin"
	"github.com/platform-engineering-labs/portctl/internal/cli/renderer"
	"github.com/platform-engineering-labs/portctl/internal/teamscan"
	"gopkg.in/yaml.v3"
)

type Consumer string

const (
	ConsumerHuman   Consumer = "human"
	ConsumerMachine Consumer = "machine"
)

type MachineReadablePrinter[T any] struct {
	w      io.Writer
	format string
}

func NewMachineReadablePrinter[T any](w io.Writer, format string) *MachineReadablePrinter[T] {
	return &MachineReadablePrinter[T]{
		w:      w,
		format: format,
	}
}

func (p *MachineReadablePrinter[T]) Print(v *T) error {
	var data []byte
	var err error
	switch p.format {
	case "json":
		data, err = json.Marshal(v)
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
	case "yaml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(v); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}
		data = buf.Bytes()
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
	if !bytes.HasSuffix(data, []byte("\n")) {
		data = append(data, '\n')
	}
	if _, err = p.w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

type HumanReadablePrinter struct {
	w io.Writer
}

func NewHumanReadablePrinter(w io.Writer) *HumanReadablePrinter {
	return &HumanReadablePrinter{w: w}
}

func (p *HumanReadablePrinter) Print(v any) error {
	var output string
	var err error

	switch v := v.(type) {
	case *teamscan.ScanResult:
		var summary, counts string
		if summary, err = renderer.RenderScanSummary(v); err != nil {
			return fmt.Errorf("render scan summary: %w", err)
		}
		if counts, err = renderer.RenderScanCounts(v); err != nil {
			return fmt.Errorf("render scan counts: %w", err)
		}
		output = summary + "\n" + counts
	case *admin.Result:
		if output, err = renderer.RenderAdminResult(v); err != nil {
			return fmt.Errorf("render result: %w", err)
		}
	case *admin.PageOrder:
		if output, err = renderer.RenderPageOrder(v); err != nil {
			return fmt.Errorf("render page order: %w", err)
		}
	default:
		return fmt.Errorf("unsupported type: %T", v)
	}

	if _, err = io.WriteString(p.w, output); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
