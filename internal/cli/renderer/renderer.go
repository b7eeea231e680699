// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package renderer

import (
	"fmt"
	"strings"

	"github.com/ddddddO/gtree"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/platform-engineering-labs/portctl/internal/admin"
	"github.com/platform-engineering-labs/portctl/internal/cli/display"
	portmodel "github.com/platform-engineering-labs/portctl/internal/port/model"
	"github.com/platform-engineering-labs/portctl/internal/teamscan"
)

type category struct {
	name  string
	items []string
}

func reviewCategories(g teamscan.ReviewGroup) []category {
	return []category{
		{"Calculation Properties", itemNames(g.CalculationProperties, func(s portmodel.Blueprint) string { return s.Identifier })},
		{"Actions & Automations", itemNames(g.Actions, func(s portmodel.Action) string { return s.Identifier })},
		{"Action Dynamic Permissions", itemNames(g.ActionDynamicPermissions, func(s teamscan.ActionPermissionSet) string { return s.Action.Identifier })},
		{"Integrations", itemNames(g.Integrations, func(s portmodel.Integration) string { return s.InstallationID })},
		{"Webhooks", itemNames(g.Webhooks, func(s portmodel.Webhook) string { return s.Identifier })},
		{"Pages", itemNames(g.Pages, func(s teamscan.PageWidget) string {
			widget := s.WidgetTitle
			if widget == "" {
				widget = s.WidgetID
			}
			return s.Page.Identifier + " / " + widget
		})},
	}
}

func automaticCategories(g teamscan.AutomaticGroup) []category {
	var blueprints []string
	for _, m := range g.DirectInheritance {
		blueprints = append(blueprints, m.Blueprint.Identifier+" (direct, relation "+m.Relation+")")
	}
	for _, m := range g.IndirectInheritance {
		blueprints = append(blueprints, m.Blueprint.Identifier+" (inherited via "+m.Path+")")
	}
	for _, m := range g.TeamValues {
		blueprints = append(blueprints, fmt.Sprintf("%s (%d entities)", m.Blueprint.Identifier, m.EntityCount))
	}

	return []category{
		{"Blueprints", blueprints},
		{"Blueprint Permissions", itemNames(g.BlueprintPermissions, func(s teamscan.BlueprintPermissionSet) string { return s.Blueprint.Identifier })},
		{"Page Permissions", itemNames(g.PagePermissions, func(s teamscan.PagePermissionSet) string { return s.Page.Identifier })},
		{"Action Permissions", itemNames(g.ActionPermissions, func(s teamscan.ActionPermissionSet) string { return s.Action.Identifier })},
	}
}

func itemNames[T any](items []teamscan.ReviewItem[T], name func(T) string) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, name(item.Subject))
	}
	return names
}

// RenderScanSummary renders both buckets of a scan as a tree, one branch per report section.
func RenderScanSummary(result *teamscan.ScanResult) (string, error) {
	root := gtree.NewRoot(fmt.Sprintf("Organization %s (run %s)", result.Organization.Name, result.RunID))

	addBucket(root, display.Gold("Needs manual review"), result.ReviewCount(), reviewCategories(result.Review))
	addBucket(root, display.Green("Migrates automatically"), result.AutomaticCount(), automaticCategories(result.Automatic))

	var buf strings.Builder
	if err := gtree.OutputFromRoot(&buf, root); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func addBucket(root *gtree.Node, title string, total int, categories []category) {
	bucket := root.Add(fmt.Sprintf("%s: %s", title, display.Count(total)))
	for _, c := range categories {
		if len(c.items) == 0 {
			continue
		}
		node := bucket.Add(fmt.Sprintf("%s: %s", c.name, display.Count(len(c.items))))

		// gtree merges siblings with identical text, so repeated names get invisible suffixes
		seen := map[string]int{}
		for _, item := range c.items {
			seen[item]++
			node.Add(item + strings.Repeat("\u200B", seen[item]-1))
		}
	}
}

// RenderScanCounts renders the per-section counts as a table.
func RenderScanCounts(result *teamscan.ScanResult) (string, error) {
	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.On}},
		})))
	table.Header(display.LightBlue("Section"), "Bucket", "Count")

	var rows [][]string
	for _, c := range reviewCategories(result.Review) {
		rows = append(rows, []string{c.name, display.Gold("review"), display.Count(len(c.items))})
	}
	for _, c := range automaticCategories(result.Automatic) {
		rows = append(rows, []string{c.name, display.Green("automatic"), display.Count(len(c.items))})
	}

	if err := table.Bulk(rows); err != nil {
		return "", fmt.Errorf("error rendering scan counts: %v", err)
	}
	if err := table.Render(); err != nil {
		return "", fmt.Errorf("error rendering scan counts: %v", err)
	}

	return buf.String(), nil
}

// RenderAdminResult renders the outcome of a bulk operation: a summary line, then a table of
// failed and skipped items when there are any.
func RenderAdminResult(res *admin.Result) (string, error) {
	summary := fmt.Sprintf("%s %s succeeded, %s skipped, %s failed\n",
		display.Gold(res.Operation+":"),
		display.Count(len(res.Succeeded)),
		display.Count(len(res.Skipped)),
		display.FailedCount(len(res.Failed)))

	if len(res.Failed) == 0 && len(res.Skipped) == 0 {
		return summary, nil
	}

	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRowAutoWrap(tw.WrapBreak),
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.On, ShowHeader: tw.On}},
		})))
	table.Header(display.LightBlue("Item"), "Outcome", "Reason")

	rows := make([][]string, 0, len(res.Failed)+len(res.Skipped))
	for _, o := range res.Failed {
		rows = append(rows, []string{display.LightBlue(o.ID), display.Red("failed"), o.Reason})
	}
	for _, o := range res.Skipped {
		rows = append(rows, []string{display.LightBlue(o.ID), display.Grey("skipped"), o.Reason})
	}

	if err := table.Bulk(rows); err != nil {
		return "", fmt.Errorf("error rendering results: %v", err)
	}
	if err := table.Render(); err != nil {
		return "", fmt.Errorf("error rendering results: %v", err)
	}

	return buf.String() + "\n" + summary, nil
}

func RenderPageOrder(order *admin.PageOrder) (string, error) {
	root := gtree.NewRoot(display.Gold("Page order"))
	for i, id := range order.PageOrder {
		label := fmt.Sprintf("%d. %s", i+1, id)
		if id == order.DefaultPage {
			label += display.Green(" (default)")
		}
		root.Add(label)
	}

	var buf strings.Builder
	if err := gtree.OutputFromRoot(&buf, root); err != nil {
		return "", err
	}
	for _, id := range order.Missing {
		fmt.Fprintf(&buf, "%s pinned page %s is not in the page order\n", display.Gold("Warning:"), id)
	}

	return buf.String(), nil
}
