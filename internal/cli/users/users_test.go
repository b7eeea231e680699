// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

//go:build unit

package users

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/platform-engineering-labs/portctl/internal/admin"
	"github.com/platform-engineering-labs/portctl/internal/cli/cmd"
	"github.com/platform-engineering-labs/portctl/internal/cli/printer"
	"github.com/platform-engineering-labs/portctl/internal/cli/prompter"
	portmodel "github.com/platform-engineering-labs/portctl/internal/port/model"
)

type fakeUsers struct {
	admin.Client
	users   []portmodel.User
	deleted []string
}

func (f *fakeUsers) Users(context.Context) ([]portmodel.User, error) {
	return f.users, nil
}

func (f *fakeUsers) DeleteUser(_ context.Context, email string) error {
	if email == "admin@acme.io" {
		return errors.New("403 forbidden")
	}
	f.deleted = append(f.deleted, email)
	return nil
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: []portmodel.User{
		{Email: "active@acme.io", Status: "ACTIVE"},
		{Email: "new@acme.io", Status: portmodel.UserStatusInvited},
		{Email: "admin@acme.io", Status: portmodel.UserStatusInvited},
	}}
}

func TestValidatePurgeOptions(t *testing.T) {
	err := validatePurgeOptions(&PurgeOptions{Output: cmd.OutputOptions{Consumer: printer.ConsumerMachine, Schema: "yaml"}})
	assert.EqualError(t, err, "--yes is required with machine output")

	assert.NoError(t, validatePurgeOptions(&PurgeOptions{Yes: true, Output: cmd.OutputOptions{Consumer: printer.ConsumerMachine, Schema: "yaml"}}))
	assert.NoError(t, validatePurgeOptions(&PurgeOptions{Output: cmd.OutputOptions{Consumer: printer.ConsumerHuman}}))
}

func TestRunPurge_ReportsFailures(t *testing.T) {
	f := newFakeUsers()
	out := &bytes.Buffer{}

	err := runPurge(context.Background(), f, prompter.AlwaysYes{}, &PurgeOptions{
		Yes:    true,
		Output: cmd.OutputOptions{Consumer: printer.ConsumerMachine, Schema: "json"},
	}, out)
	assert.EqualError(t, err, "users purge-invited: 1 of 2 items failed")

	assert.Equal(t, []string{"new@acme.io"}, f.deleted)
	assert.Equal(t, "admin@acme.io", gjson.Get(out.String(), "failed.0.id").String())
}

func TestRunPurge_Declined(t *testing.T) {
	f := newFakeUsers()
	out := &bytes.Buffer{}

	err := runPurge(context.Background(), f, prompter.NewPrompter(strings.NewReader("yes\n"), &bytes.Buffer{}), &PurgeOptions{
		Output: cmd.OutputOptions{Consumer: printer.ConsumerHuman},
	}, out)
	require.NoError(t, err)

	assert.Empty(t, f.deleted)
	assert.Contains(t, out.String(), "Aborted")
}
