// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package admin holds the bulk maintenance operations run against a Port organization.
// Per-item write failures are logged and reported in the Result instead of being returned.
package admin

import (
	"context"
	"encoding/json"
	"log/slog"

	portmodel "github.com/platform-engineering-labs/portctl/internal/port/model"
)

const DefaultDeleteConcurrency = 5

// Client is the subset of the Port API the bulk operations write through.
type Client interface {
	Organization(ctx context.Context) (*portmodel.Organization, error)
	UpdateOrganization(ctx context.Context, doc json.RawMessage) error
	Pages(ctx context.Context) ([]portmodel.Page, error)
	UpdatePage(ctx context.Context, id string, doc json.RawMessage) error
	ActiveRuns(ctx context.Context) ([]portmodel.ActionRun, error)
	UpdateRunStatus(ctx context.Context, runID, status string) error
	BlueprintEntities(ctx context.Context, blueprint string, include ...string) ([]portmodel.Entity, error)
	PatchEntityProperties(ctx context.Context, blueprint, id string, properties map[string]any) error
	DeleteEntity(ctx context.Context, blueprint, id string, deleteDependents bool) error
	Users(ctx context.Context) ([]portmodel.User, error)
	DeleteUser(ctx context.Context, email string) error
}

type Outcome struct {
	ID     string `json:"id" yaml:"id"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

type Result struct {
	Operation string    `json:"operation" yaml:"operation"`
	Succeeded []string  `json:"succeeded" yaml:"succeeded"`
	Skipped   []Outcome `json:"skipped" yaml:"skipped"`
	Failed    []Outcome `json:"failed" yaml:"failed"`
}

// NewResult starts an empty result whose lists encode as [] rather than null.
func NewResult(operation string) *Result {
	return &Result{
		Operation: operation,
		Succeeded: []string{},
		Skipped:   []Outcome{},
		Failed:    []Outcome{},
	}
}

func (r *Result) succeed(id string) {
	r.Succeeded = append(r.Succeeded, id)
}

func (r *Result) skip(id, reason string) {
	slog.Debug("Skipping item", "operation", r.Operation, "id", id, "reason", reason)
	r.Skipped = append(r.Skipped, Outcome{ID: id, Reason: reason})
}

func (r *Result) fail(id string, err error) {
	slog.Error("Item failed", "operation", r.Operation, "id", id, "error", err)
	r.Failed = append(r.Failed, Outcome{ID: id, Reason: err.Error()})
}

func (r *Result) Total() int {
	return len(r.Succeeded) + len(r.Skipped) + len(r.Failed)
}
