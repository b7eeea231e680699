// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package teamscan

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	portmodel "github.com/platform-engineering-labs/portctl/internal/port/model"
)

// Source is the read side of the Port API needed by a scan.
type Source interface {
	Organization(ctx context.Context) (*portmodel.Organization, error)
	Blueprints(ctx context.Context) ([]portmodel.Blueprint, error)
	BlueprintPermissions(ctx context.Context, id string) (json.RawMessage, error)
	Actions(ctx context.Context, triggerType string) ([]portmodel.Action, error)
	ActionPermissions(ctx context.Context, id string) (*portmodel.ActionPermissions, error)
	Integrations(ctx context.Context) ([]portmodel.Integration, error)
	Webhooks(ctx context.Context) ([]portmodel.Webhook, error)
	Pages(ctx context.Context) ([]portmodel.Page, error)
	PagePermissions(ctx context.Context, id string) (json.RawMessage, error)
}

// TeamValueCounter counts the entities of a blueprint holding a legacy team value.
type TeamValueCounter interface {
	CountTeamValues(ctx context.Context, blueprint string) (int, error)
}

// Snapshot is everything fetched for one scan. Analyze only reads it.
type Snapshot struct {
	Organization         portmodel.Organization
	Blueprints           []portmodel.Blueprint
	BlueprintPermissions []BlueprintPermissionSet
	Actions              []portmodel.Action
	ActionPermissions    []ActionPermissionSet
	Integrations         []portmodel.Integration
	Webhooks             []portmodel.Webhook
	Pages                []portmodel.Page
	PagePermissions      []PagePermissionSet
}

// Collect fetches a snapshot, one request at a time. Permissions are fetched for every
// blueprint, for self-service actions, and for sidebar pages that are not built in.
func Collect(ctx context.Context, src Source) (*Snapshot, error) {
	var snap Snapshot

	org, err := src.Organization(ctx)
	if err != nil {
		return nil, err
	}
	snap.Organization = *org
	slog.Info("Scanning organization", "name", org.Name)

	if snap.Blueprints, err = src.Blueprints(ctx); err != nil {
		return nil, err
	}
	for _, bp := range snap.Blueprints {
		perms, err := src.BlueprintPermissions(ctx, bp.Identifier)
		if err != nil {
			return nil, err
		}
		snap.BlueprintPermissions = append(snap.BlueprintPermissions, BlueprintPermissionSet{Blueprint: bp, Permissions: perms})
	}
	slog.Debug("Fetched blueprints", "count", len(snap.Blueprints))

	if snap.Actions, err = src.Actions(ctx, ""); err != nil {
		return nil, err
	}
	for _, action := range snap.Actions {
		if action.Trigger.Type != portmodel.TriggerSelfService {
			continue
		}
		perms, err := src.ActionPermissions(ctx, action.Identifier)
		if err != nil {
			return nil, err
		}
		snap.ActionPermissions = append(snap.ActionPermissions, ActionPermissionSet{Action: action, Permissions: *perms})
	}
	slog.Debug("Fetched actions", "count", len(snap.Actions), "withPermissions", len(snap.ActionPermissions))

	if snap.Integrations, err = src.Integrations(ctx); err != nil {
		return nil, err
	}
	if snap.Webhooks, err = src.Webhooks(ctx); err != nil {
		return nil, err
	}

	if snap.Pages, err = src.Pages(ctx); err != nil {
		return nil, err
	}
	for _, page := range snap.Pages {
		if strings.HasPrefix(page.Identifier, "$") || page.Sidebar == "" {
			continue
		}
		perms, err := src.PagePermissions(ctx, page.Identifier)
		if err != nil {
			return nil, err
		}
		snap.PagePermissions = append(snap.PagePermissions, PagePermissionSet{Page: page, Permissions: perms})
	}
	slog.Debug("Fetched pages", "count", len(snap.Pages), "withPermissions", len(snap.PagePermissions))

	return &snap, nil
}
