// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package teamscan

import (
	"encoding/json"
	"time"

	portmodel "github.com/platform-engineering-labs/portctl/internal/port/model"
)

// TeamRelation points at a relation of some blueprint whose target is the team blueprint.
type TeamRelation struct {
	Blueprint string `json:"blueprint" yaml:"blueprint"`
	Relation  string `json:"relation" yaml:"relation"`
}

// ReviewItem pairs a scanned resource with where team references were found in it and why
// it was flagged.
type ReviewItem[T any] struct {
	Subject   T        `json:"subject" yaml:"subject"`
	Locations []string `json:"locations,omitempty" yaml:"locations,omitempty"`
	Reason    string   `json:"reason" yaml:"reason"`
}

// PageWidget identifies the widget of a page that references a team relation.
type PageWidget struct {
	Page        portmodel.Page `json:"page" yaml:"page"`
	WidgetID    string         `json:"widgetId" yaml:"widgetId"`
	WidgetTitle string         `json:"widgetTitle,omitempty" yaml:"widgetTitle,omitempty"`
	Blueprint   string         `json:"blueprint,omitempty" yaml:"blueprint,omitempty"`
}

type ActionPermissionSet struct {
	Action      portmodel.Action            `json:"action" yaml:"action"`
	Permissions portmodel.ActionPermissions `json:"permissions" yaml:"permissions"`
}

type BlueprintPermissionSet struct {
	Blueprint   portmodel.Blueprint `json:"blueprint" yaml:"blueprint"`
	Permissions json.RawMessage     `json:"permissions" yaml:"-"`
}

type PagePermissionSet struct {
	Page        portmodel.Page  `json:"page" yaml:"page"`
	Permissions json.RawMessage `json:"permissions" yaml:"-"`
}

type InheritanceMigration struct {
	Blueprint portmodel.Blueprint `json:"blueprint" yaml:"blueprint"`
	Path      string              `json:"path" yaml:"path"`
	// Relation is the first path segment, the relation whose identifier changes.
	Relation string `json:"relation,omitempty" yaml:"relation,omitempty"`
}

type TeamValueMigration struct {
	Blueprint   portmodel.Blueprint `json:"blueprint" yaml:"blueprint"`
	EntityCount int                 `json:"entityCount" yaml:"entityCount"`
}

type ReviewGroup struct {
	CalculationProperties    []ReviewItem[portmodel.Blueprint]   `json:"calculationProperties" yaml:"calculationProperties"`
	Actions                  []ReviewItem[portmodel.Action]      `json:"actions" yaml:"actions"`
	ActionDynamicPermissions []ReviewItem[ActionPermissionSet]   `json:"actionDynamicPermissions" yaml:"actionDynamicPermissions"`
	Integrations             []ReviewItem[portmodel.Integration] `json:"integrations" yaml:"integrations"`
	Webhooks                 []ReviewItem[portmodel.Webhook]     `json:"webhooks" yaml:"webhooks"`
	Pages                    []ReviewItem[PageWidget]            `json:"pages" yaml:"pages"`
}

type AutomaticGroup struct {
	DirectInheritance    []InheritanceMigration               `json:"directInheritance" yaml:"directInheritance"`
	IndirectInheritance  []InheritanceMigration               `json:"indirectInheritance" yaml:"indirectInheritance"`
	TeamValues           []TeamValueMigration                 `json:"teamValues" yaml:"teamValues"`
	BlueprintPermissions []ReviewItem[BlueprintPermissionSet] `json:"blueprintPermissions" yaml:"blueprintPermissions"`
	PagePermissions      []ReviewItem[PagePermissionSet]      `json:"pagePermissions" yaml:"pagePermissions"`
	ActionPermissions    []ReviewItem[ActionPermissionSet]    `json:"actionPermissions" yaml:"actionPermissions"`
}

// ScanResult is built once by Analyze and not modified afterwards.
type ScanResult struct {
	Organization  portmodel.Organization `json:"organization" yaml:"organization"`
	RunID         string                 `json:"runId" yaml:"runId"`
	GeneratedAt   time.Time              `json:"generatedAt" yaml:"generatedAt"`
	TeamRelations []TeamRelation         `json:"teamRelations" yaml:"teamRelations"`
	Review        ReviewGroup            `json:"review" yaml:"review"`
	Automatic     AutomaticGroup         `json:"automatic" yaml:"automatic"`
}

func (r *ScanResult) ReviewCount() int {
	g := r.Review
	return len(g.CalculationProperties) + len(g.Actions) + len(g.ActionDynamicPermissions) +
		len(g.Integrations) + len(g.Webhooks) + len(g.Pages)
}

func (r *ScanResult) AutomaticCount() int {
	g := r.Automatic
	return len(g.DirectInheritance) + len(g.IndirectInheritance) + len(g.TeamValues) +
		len(g.BlueprintPermissions) + len(g.PagePermissions) + len(g.ActionPermissions)
}
