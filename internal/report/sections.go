// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package report

import (
	"fmt"
	"strings"

	"github.com/platform-engineering-labs/portctl/internal/teamscan"
)

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

func cell(s string) []string {
	return []string{s}
}

func lines(s string) []string {
	return strings.Split(s, "\n")
}

// Groups lays out the scan result as the two report groups, manual review first.
func Groups(result *teamscan.ScanResult) []Group {
	return []Group{reviewGroup(result.Review), automaticGroup(result.Automatic)}
}

func reviewGroup(g teamscan.ReviewGroup) Group {
	calc := Section{
		Title:      "Calculation Properties",
		DocsAnchor: "calculation-properties",
		Columns:    []string{"Blueprint Identifier", "Blueprint Title", "Review Reason"},
		Checkbox:   true,
		Empty:      "No calculation properties to review",
	}
	for _, item := range g.CalculationProperties {
		calc.Rows = append(calc.Rows, Row{
			cell(item.Subject.Identifier),
			cell(orDash(item.Subject.Title)),
			item.Locations,
		})
	}

	actions := Section{
		Title:      "Actions & Automations",
		DocsAnchor: "actions--automations",
		Columns:    []string{"Action Identifier", "Action Title", "Action Type", "Review Reason"},
		Checkbox:   true,
		Empty:      "No actions & automations to review",
	}
	for _, item := range g.Actions {
		actions.Rows = append(actions.Rows, Row{
			cell(item.Subject.Identifier),
			cell(orDash(item.Subject.Title)),
			cell(item.Subject.Trigger.Type),
			item.Locations,
		})
	}

	dynamic := Section{
		Title:      "Action Dynamic Permissions",
		DocsAnchor: "action-dynamic-permissions",
		Columns:    []string{"Action ID", "Action Title", "Blueprint", "Trigger", "Review Reason"},
		Empty:      "No action permissions to review",
	}
	for _, item := range g.ActionDynamicPermissions {
		dynamic.Rows = append(dynamic.Rows, actionPermissionRow(item))
	}

	integrations := Section{
		Title:      "Integrations",
		DocsAnchor: "integration--webhook-mapping",
		Columns:    []string{"Integration Identifier", "Integration Title", "Team Reference Location", "Review Reason"},
		Checkbox:   true,
		Empty:      "No integrations to review",
	}
	for _, item := range g.Integrations {
		integrations.Rows = append(integrations.Rows, Row{
			cell(item.Subject.InstallationID),
			cell(orDash(item.Subject.Title)),
			orDashLines(item.Locations),
			cell(item.Reason),
		})
	}

	webhooks := Section{
		Title:      "Webhooks",
		DocsAnchor: "integration--webhook-mapping",
		Columns:    []string{"Webhook Identifier", "Webhook Title", "Team Reference Location", "Review Reason"},
		Checkbox:   true,
		Empty:      "No webhooks to review",
	}
	for _, item := range g.Webhooks {
		webhooks.Rows = append(webhooks.Rows, Row{
			cell(item.Subject.Identifier),
			cell(orDash(item.Subject.Title)),
			orDashLines(item.Locations),
			cell(item.Reason),
		})
	}

	pages := Section{
		Title:      "Pages",
		DocsAnchor: "pages",
		Columns:    []string{"Page Identifier", "Page Title", "Blueprint", "Widget", "Review Reason"},
		Checkbox:   true,
		Empty:      "No pages to review",
	}
	for _, item := range g.Pages {
		widget := item.Subject.WidgetTitle
		if widget == "" {
			widget = item.Subject.WidgetID
		}
		pages.Rows = append(pages.Rows, Row{
			cell(item.Subject.Page.Identifier),
			cell(orDash(item.Subject.Page.Title)),
			cell(orDash(item.Subject.Blueprint)),
			cell(widget),
			item.Locations,
		})
	}

	return Group{
		Title:      "Resources that will need to be reviewed manually",
		DocsAnchor: "resources-that-will-require-manual-intervention",
		Description: []string{
			"These resources will not be modified by the migration process, but they may be impacted due to their dependencies on team-related configurations.",
			"We recommend reviewing these resources before running the migration and updating them manually after the migration is complete to ensure they continue functioning as expected.",
		},
		Sections: []Section{calc, actions, dynamic, integrations, webhooks, pages},
	}
}

func automaticGroup(g teamscan.AutomaticGroup) Group {
	blueprints := Section{
		Title:      "Blueprints",
		DocsAnchor: "blueprints",
		Columns:    []string{"Blueprint Identifier", "Blueprint Title", "Migration Type"},
		Checkbox:   true,
		Empty:      "No blueprints to migrate",
	}
	for _, m := range g.DirectInheritance {
		blueprints.Rows = append(blueprints.Rows, Row{
			cell(m.Blueprint.Identifier),
			cell(orDash(m.Blueprint.Title)),
			cell(fmt.Sprintf("Direct ownership will be added, the '%s' relation identifier will be changed", m.Relation)),
		})
	}
	for _, m := range g.IndirectInheritance {
		blueprints.Rows = append(blueprints.Rows, Row{
			cell(m.Blueprint.Identifier),
			cell(orDash(m.Blueprint.Title)),
			cell("Inherited ownership will be added with the same path"),
		})
	}
	for _, m := range g.TeamValues {
		blueprints.Rows = append(blueprints.Rows, Row{
			cell(m.Blueprint.Identifier),
			cell(orDash(m.Blueprint.Title)),
			cell(fmt.Sprintf("Direct ownership will be added, %d entities will be updated", m.EntityCount)),
		})
	}

	bpPerms := Section{
		Title:      "Blueprint Permissions",
		DocsAnchor: "permissions",
		Columns:    []string{"Blueprint Identifier", "Blueprint Title", "Review Reason"},
		Checkbox:   true,
		Empty:      "No blueprint permissions to migrate",
	}
	for _, item := range g.BlueprintPermissions {
		bpPerms.Rows = append(bpPerms.Rows, Row{
			cell(item.Subject.Blueprint.Identifier),
			cell(orDash(item.Subject.Blueprint.Title)),
			cell(orDash(item.Reason)),
		})
	}

	pagePerms := Section{
		Title:      "Page Permissions",
		DocsAnchor: "permissions",
		Columns:    []string{"Page Identifier", "Page Title", "Review Reason"},
		Checkbox:   true,
		Empty:      "No page permissions to migrate",
	}
	for _, item := range g.PagePermissions {
		pagePerms.Rows = append(pagePerms.Rows, Row{
			cell(item.Subject.Page.Identifier),
			cell(orDash(item.Subject.Page.Title)),
			cell(orDash(item.Reason)),
		})
	}

	actionPerms := Section{
		Title:      "Action Permissions",
		DocsAnchor: "permissions",
		Columns:    []string{"Action ID", "Action Title", "Blueprint", "Trigger", "Review Reason"},
		Empty:      "No action permissions to migrate manually",
	}
	for _, item := range g.ActionPermissions {
		actionPerms.Rows = append(actionPerms.Rows, actionPermissionRow(item))
	}

	return Group{
		Title:      "Resources that will be migrated automatically",
		DocsAnchor: "resources-that-will-be-migrated-automatically",
		Description: []string{
			"These resources will be migrated automatically when the full migration is executed via the API.",
			"However, if you manage any of these resources through Infrastructure as Code (IaC), GitOps workflows or directly by the API, you will need to update those configurations manually to reflect the changes.",
		},
		Sections: []Section{blueprints, bpPerms, pagePerms, actionPerms},
	}
}

func actionPermissionRow(item teamscan.ReviewItem[teamscan.ActionPermissionSet]) Row {
	action := item.Subject.Action

	return Row{
		cell(action.Identifier),
		cell(orDash(action.Title)),
		cell(orDash(action.Trigger.BlueprintIdentifier)),
		cell(action.Trigger.Type),
		lines(item.Reason),
	}
}

func orDashLines(values []string) []string {
	if len(values) == 0 {
		return cell("-")
	}

	return values
}
