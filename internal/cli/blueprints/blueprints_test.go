// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

//go:build unit

package blueprints

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/platform-engineering-labs/portctl/internal/cli/cmd"
	"github.com/platform-engineering-labs/portctl/internal/cli/printer"
	"github.com/platform-engineering-labs/portctl/internal/cli/prompter"
	portmodel "github.com/platform-engineering-labs/portctl/internal/port/model"
)

var (
	human   = cmd.OutputOptions{Consumer: printer.ConsumerHuman}
	machine = cmd.OutputOptions{Consumer: printer.ConsumerMachine, Schema: "json"}
)

func TestValidateCopyOptions(t *testing.T) {
	tests := []struct {
		name string
		opts CopyOptions
		err  string
	}{
		{"no target", CopyOptions{Output: human}, "--target-config is required"},
		{"machine output needs yes", CopyOptions{TargetConfig: "new.json", Output: machine}, "--yes is required with machine output"},
		{"machine output with yes", CopyOptions{TargetConfig: "new.json", Yes: true, Output: machine}, ""},
		{"human without yes", CopyOptions{TargetConfig: "new.json", Output: human}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCopyOptions(&tt.opts)
			if tt.err == "" {
				assert.NoError(t, err)
				return
			}
			var flagErr *cmd.FlagError
			assert.ErrorAs(t, err, &flagErr)
			assert.EqualError(t, err, tt.err)
		})
	}
}

type fakeOrg struct {
	blueprints []portmodel.Blueprint
	entities   map[string][]json.RawMessage

	created  []string
	updated  []string
	upserted []string
}

func (f *fakeOrg) Blueprints(context.Context) ([]portmodel.Blueprint, error) {
	return f.blueprints, nil
}

func (f *fakeOrg) EntityDocuments(_ context.Context, blueprint string) ([]json.RawMessage, error) {
	return f.entities[blueprint], nil
}

func (f *fakeOrg) CreateBlueprint(_ context.Context, doc json.RawMessage) error {
	f.created = append(f.created, gjson.GetBytes(doc, "identifier").String())
	return nil
}

func (f *fakeOrg) UpdateBlueprint(_ context.Context, id string, _ json.RawMessage) error {
	f.updated = append(f.updated, id)
	return nil
}

func (f *fakeOrg) UpsertEntity(_ context.Context, blueprint string, doc json.RawMessage) error {
	f.upserted = append(f.upserted, blueprint+"/"+gjson.GetBytes(doc, "identifier").String())
	return nil
}

func newSource() *fakeOrg {
	return &fakeOrg{
		blueprints: []portmodel.Blueprint{
			{Identifier: "service", Raw: json.RawMessage(`{"identifier":"service","relations":{}}`)},
		},
		entities: map[string][]json.RawMessage{
			"service": {json.RawMessage(`{"identifier":"api"}`)},
		},
	}
}

func TestRunCopy_Declined(t *testing.T) {
	src, dst := newSource(), &fakeOrg{}
	out := &bytes.Buffer{}
	answers := prompter.NewPrompter(strings.NewReader("n\n"), &bytes.Buffer{})

	err := runCopy(context.Background(), src, dst, answers, &CopyOptions{TargetConfig: "new.json", Output: human}, out)
	require.NoError(t, err)

	assert.Empty(t, dst.created)
	assert.Contains(t, out.String(), "Aborted, nothing was copied.")
}

func TestRunCopy_Confirmed(t *testing.T) {
	src, dst := newSource(), &fakeOrg{}
	out := &bytes.Buffer{}
	prompts := &bytes.Buffer{}
	answers := prompter.NewPrompter(strings.NewReader("Y\n"), prompts)

	err := runCopy(context.Background(), src, dst, answers, &CopyOptions{TargetConfig: "new.json", Output: machine}, out)
	require.NoError(t, err)

	assert.Contains(t, prompts.String(), "new.json")
	assert.Equal(t, []string{"service"}, dst.created)
	assert.Equal(t, []string{"service"}, dst.updated)
	assert.Equal(t, []string{"service/api"}, dst.upserted)
	assert.Equal(t, "blueprints copy", gjson.Get(out.String(), "operation").String())
	assert.Equal(t, int64(2), gjson.Get(out.String(), "succeeded.#").Int())
}
