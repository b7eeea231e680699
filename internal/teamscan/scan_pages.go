// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package teamscan

import (
	"fmt"
	"slices"
	"strings"

	portmodel "github.com/platform-engineering-labs/portctl/internal/port/model"
)

const ReasonWidgetReferencesTeam = "Widget configuration references team relations"

// ScanPages reports every widget, nested dashboard widgets included, whose table configuration
// refers to one of the team relation identifiers. A page yields one item per matching widget.
func ScanPages(pages []portmodel.Page, relationIDs []string, maxDepth int) []ReviewItem[PageWidget] {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	var items []ReviewItem[PageWidget]
	for _, page := range pages {
		for _, widget := range page.Widgets {
			scanWidget(page, widget, relationIDs, 0, maxDepth, &items)
		}
	}

	return items
}

func scanWidget(page portmodel.Page, widget portmodel.Widget, ids []string, depth, maxDepth int, out *[]ReviewItem[PageWidget]) {
	if depth > maxDepth {
		return
	}

	if refs := widgetReferences(widget, ids); len(refs) > 0 {
		blueprint := widget.Blueprint
		if blueprint == "" {
			if configured := widget.ConfiguredBlueprints(); len(configured) > 0 {
				blueprint = configured[0]
			}
		}

		*out = append(*out, ReviewItem[PageWidget]{
			Subject: PageWidget{
				Page:        page,
				WidgetID:    widget.ID,
				WidgetTitle: widget.Title,
				Blueprint:   blueprint,
			},
			Locations: refs,
			Reason:    ReasonWidgetReferencesTeam,
		})
	}

	if widget.Type == portmodel.WidgetTypeDashboard {
		for _, nested := range widget.Widgets {
			scanWidget(page, nested, ids, depth+1, maxDepth, out)
		}
	}
}

func widgetReferences(widget portmodel.Widget, ids []string) []string {
	var refs []string

	if slices.ContainsFunc(widget.ExcludedFields, func(field string) bool {
		return slices.ContainsFunc(ids, func(id string) bool {
			return referencesField("relations."+id, field)
		})
	}) {
		refs = append(refs, "Team field in excludedFields")
	}

	for _, bp := range widget.ConfiguredBlueprints() {
		refs = append(refs, blueprintConfigReferences(widget.BlueprintConfig[bp], ids)...)
	}

	return dedupe(refs)
}

// referencesField reports whether field is name or one of its sub-fields.
func referencesField(name, field string) bool {
	return field == name || strings.HasPrefix(field, name+".")
}

func blueprintConfigReferences(cfg portmodel.QueryBuilderConfig, ids []string) []string {
	var refs []string

	for _, id := range ids {
		if ps := cfg.PropertiesSettings; ps != nil {
			if slices.Contains(ps.Shown, id) {
				refs = append(refs, fmt.Sprintf("%s in shown properties", id))
			}
			if slices.Contains(ps.Hidden, id) {
				refs = append(refs, fmt.Sprintf("%s in hidden properties", id))
			}
			if slices.Contains(ps.Order, id) {
				refs = append(refs, fmt.Sprintf("%s in properties order", id))
			}
		}

		if gs := cfg.GroupSettings; gs != nil && slices.Contains(gs.GroupBy, id) {
			refs = append(refs, fmt.Sprintf("%s in group by", id))
		}

		if ss := cfg.SortSettings; ss != nil {
			for _, sort := range ss.SortBy {
				if referencesField(id, sort.Property) {
					refs = append(refs, fmt.Sprintf("%s in sort settings", id))
				}
			}
		}

		if fs := cfg.FilterSettings; fs != nil && fs.FilterBy != nil {
			if rulesReference(fs.FilterBy.Rules, id, 0) {
				refs = append(refs, fmt.Sprintf("%s in filter rules", id))
			}
		}
	}

	return refs
}

func rulesReference(rules []portmodel.Rule, id string, depth int) bool {
	if depth > DefaultMaxDepth {
		return false
	}

	for _, rule := range rules {
		if referencesField(id, rule.Property) || rulesReference(rule.Rules, id, depth+1) {
			return true
		}
	}

	return false
}
