// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package model

import (
	"encoding/json"
	"sort"
)

const WidgetTypeDashboard = "dashboard-widget"

type PropertiesSettings struct {
	Hidden []string `json:"hidden,omitempty"`
	Shown  []string `json:"shown,omitempty"`
	Order  []string `json:"order,omitempty"`
}

type GroupSettings struct {
	GroupBy []string `json:"groupBy,omitempty"`
}

type SortBy struct {
	Property string `json:"property"`
	Order    string `json:"order,omitempty"`
}

type SortSettings struct {
	SortBy []SortBy `json:"sortBy,omitempty"`
}

type FilterSettings struct {
	FilterBy *RuleSet `json:"filterBy,omitempty"`
}

// QueryBuilderConfig is the per-blueprint table configuration of a widget.
type QueryBuilderConfig struct {
	PropertiesSettings *PropertiesSettings `json:"propertiesSettings,omitempty"`
	GroupSettings      *GroupSettings      `json:"groupSettings,omitempty"`
	SortSettings       *SortSettings       `json:"sortSettings,omitempty"`
	FilterSettings     *FilterSettings     `json:"filterSettings,omitempty"`
}

type Widget struct {
	ID              string                        `json:"id"`
	Title           string                        `json:"title,omitempty"`
	Type            string                        `json:"type"`
	Blueprint       string                        `json:"blueprint,omitempty"`
	ExcludedFields  []string                      `json:"excludedFields,omitempty"`
	BlueprintConfig map[string]QueryBuilderConfig `json:"blueprintConfig,omitempty"`
	Widgets         []Widget                      `json:"widgets,omitempty"`
}

// ConfiguredBlueprints returns the blueprintConfig keys in a stable order.
func (w *Widget) ConfiguredBlueprints() []string {
	ids := make([]string, 0, len(w.BlueprintConfig))
	for id := range w.BlueprintConfig {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

type Page struct {
	Identifier    string          `json:"identifier" yaml:"identifier"`
	Title         string          `json:"title,omitempty" yaml:"title,omitempty"`
	Type          string          `json:"type,omitempty" yaml:"type,omitempty"`
	Sidebar       string          `json:"sidebar,omitempty" yaml:"sidebar,omitempty"`
	ShowInSidebar *bool           `json:"showInSidebar,omitempty" yaml:"showInSidebar,omitempty"`
	Widgets       []Widget        `json:"widgets,omitempty" yaml:"-"`
	Raw           json.RawMessage `json:"-" yaml:"-"`
}

func (p *Page) UnmarshalJSON(data []byte) error {
	type plain Page
	var pl plain
	if err := json.Unmarshal(data, &pl); err != nil {
		return err
	}
	*p = Page(pl)
	p.Raw = append(json.RawMessage(nil), data...)

	return nil
}

type PagesResponse struct {
	Pages []Page `json:"pages"`
}
