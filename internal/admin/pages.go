// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package admin

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/platform-engineering-labs/portctl/internal/imconc"
	portmodel "github.com/platform-engineering-labs/portctl/internal/port/model"
	"github.com/tidwall/sjson"
)

type PageOrder struct {
	PageOrder   []string `json:"pageOrder" yaml:"pageOrder"`
	DefaultPage string   `json:"defaultPage,omitempty" yaml:"defaultPage,omitempty"`
	// Missing lists pinned identifiers that are not part of the organization's page order.
	Missing []string `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// ArrangePageOrder returns current sorted alphabetically when pinned is empty. Otherwise the
// pinned identifiers come first, in the given order, followed by the rest in their current
// order.
func ArrangePageOrder(current, pinned []string) (order, missing []string) {
	if len(pinned) == 0 {
		order = slices.Clone(current)
		slices.Sort(order)
		return order, nil
	}

	order = make([]string, 0, len(current))
	for _, id := range pinned {
		if !slices.Contains(current, id) {
			missing = append(missing, id)
			continue
		}
		if !slices.Contains(order, id) {
			order = append(order, id)
		}
	}
	for _, id := range current {
		if !slices.Contains(pinned, id) {
			order = append(order, id)
		}
	}

	return order, missing
}

// SortPageOrder rewrites the organization's sidebar page order. The organization document is
// written back as fetched, minus its id, so fields the client does not model survive.
func SortPageOrder(ctx context.Context, c Client, pinned []string) (*PageOrder, error) {
	org, err := c.Organization(ctx)
	if err != nil {
		return nil, err
	}

	order, missing := ArrangePageOrder(org.PageOrder, pinned)
	for _, id := range missing {
		slog.Warn("Pinned page is not in the page order", "page", id)
	}

	doc, err := sjson.SetBytes(org.Raw, "pageOrder", order)
	if err != nil {
		return nil, fmt.Errorf("failed to set page order: %w", err)
	}
	if doc, err = sjson.DeleteBytes(doc, "id"); err != nil {
		return nil, fmt.Errorf("failed to strip organization id: %w", err)
	}

	defaultPage := org.DefaultPage
	if defaultPage == "" && len(pinned) > 0 {
		defaultPage = pinned[0]
		if doc, err = sjson.SetBytes(doc, "defaultPage", defaultPage); err != nil {
			return nil, fmt.Errorf("failed to set default page: %w", err)
		}
	}

	if err := c.UpdateOrganization(ctx, doc); err != nil {
		return nil, err
	}
	slog.Info("Organization page order updated", "pages", len(order))

	return &PageOrder{PageOrder: order, DefaultPage: defaultPage, Missing: missing}, nil
}

// SetPagesVisibility shows or hides in the sidebar every page whose title is in titles.
func SetPagesVisibility(ctx context.Context, c Client, titles []string, show bool) (*Result, error) {
	pages, err := c.Pages(ctx)
	if err != nil {
		return nil, err
	}

	var matched []portmodel.Page
	for _, page := range pages {
		if slices.Contains(titles, page.Title) {
			matched = append(matched, page)
		}
	}

	results := imconc.ForEach(ctx, matched, 0, func(ctx context.Context, page portmodel.Page) (struct{}, error) {
		doc, err := sjson.SetBytes(page.Raw, "showInSidebar", show)
		if err != nil {
			return struct{}{}, fmt.Errorf("failed to set visibility of page %s: %w", page.Identifier, err)
		}
		return struct{}{}, c.UpdatePage(ctx, page.Identifier, doc)
	})

	res := NewResult("pages visibility")
	for i, r := range results {
		if r.Err != nil {
			res.fail(matched[i].Identifier, r.Err)
			continue
		}
		res.succeed(matched[i].Identifier)
	}
	for _, title := range titles {
		if !slices.ContainsFunc(matched, func(p portmodel.Page) bool { return p.Title == title }) {
			res.skip(title, "no page with this title")
		}
	}

	return res, nil
}
