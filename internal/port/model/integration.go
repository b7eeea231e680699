// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package model

import "encoding/json"

type Integration struct {
	InstallationID      string          `json:"installationId" yaml:"installationId"`
	Title               string          `json:"title,omitempty" yaml:"title,omitempty"`
	InstallationAppType string          `json:"installationAppType,omitempty" yaml:"installationAppType,omitempty"`
	Config              json.RawMessage `json:"config,omitempty" yaml:"-"`
}

// HasConfig reports whether the mapping lives in Port. Integrations without it are
// configured from a GitOps file instead.
func (i *Integration) HasConfig() bool {
	return len(i.Config) > 0 && string(i.Config) != "null"
}

type IntegrationsResponse struct {
	Integrations []Integration `json:"integrations"`
}

type WebhookEntityMapping struct {
	Identifier json.RawMessage            `json:"identifier,omitempty" yaml:"-"`
	Title      json.RawMessage            `json:"title,omitempty" yaml:"-"`
	Team       json.RawMessage            `json:"team,omitempty" yaml:"-"`
	Properties map[string]json.RawMessage `json:"properties,omitempty" yaml:"-"`
	Relations  map[string]json.RawMessage `json:"relations,omitempty" yaml:"-"`
}

type WebhookMapping struct {
	Blueprint string                `json:"blueprint" yaml:"blueprint"`
	Filter    string                `json:"filter,omitempty" yaml:"filter,omitempty"`
	Entity    *WebhookEntityMapping `json:"entity,omitempty" yaml:"-"`
}

type Webhook struct {
	Identifier string           `json:"identifier" yaml:"identifier"`
	Title      string           `json:"title,omitempty" yaml:"title,omitempty"`
	Enabled    bool             `json:"enabled" yaml:"enabled"`
	Mappings   []WebhookMapping `json:"mappings,omitempty" yaml:"mappings,omitempty"`
}

type WebhooksResponse struct {
	Integrations []Webhook `json:"integrations"`
}
