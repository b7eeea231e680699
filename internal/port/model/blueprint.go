// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package model

import (
	"encoding/json"
	"strings"
)

type Relation struct {
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Target   string `json:"target" yaml:"target"`
	Required bool   `json:"required" yaml:"required"`
	Many     bool   `json:"many" yaml:"many"`
}

// TeamInheritance declares the relation chain that supplies ownership, e.g. "service.owner".
type TeamInheritance struct {
	Path string `json:"path" yaml:"path"`
}

func (t *TeamInheritance) Segments() []string {
	if t == nil || t.Path == "" {
		return nil
	}

	return strings.Split(t.Path, ".")
}

type CalculationProperty struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Calculation string `json:"calculation" yaml:"calculation"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
}

// UnmarshalJSON accepts the API's object form as well as a bare expression string.
func (c *CalculationProperty) UnmarshalJSON(data []byte) error {
	var expr string
	if err := json.Unmarshal(data, &expr); err == nil {
		*c = CalculationProperty{Calculation: expr}
		return nil
	}

	type plain CalculationProperty
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = CalculationProperty(p)

	return nil
}

// Blueprint keeps the full API document in Raw so it can be written to another organization
// unchanged.
type Blueprint struct {
	Identifier            string                         `json:"identifier" yaml:"identifier"`
	Title                 string                         `json:"title,omitempty" yaml:"title,omitempty"`
	Relations             map[string]Relation            `json:"relations,omitempty" yaml:"relations,omitempty"`
	TeamInheritance       *TeamInheritance               `json:"teamInheritance,omitempty" yaml:"teamInheritance,omitempty"`
	CalculationProperties map[string]CalculationProperty `json:"calculationProperties,omitempty" yaml:"calculationProperties,omitempty"`
	Raw                   json.RawMessage                `json:"-" yaml:"-"`
}

func (b *Blueprint) UnmarshalJSON(data []byte) error {
	type plain Blueprint
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*b = Blueprint(p)
	b.Raw = append(json.RawMessage(nil), data...)

	return nil
}

type BlueprintsResponse struct {
	Blueprints []Blueprint `json:"blueprints"`
}

type BlueprintResponse struct {
	Blueprint Blueprint `json:"blueprint"`
}

// Permissions are kept as the raw document: their nesting differs per resource kind and
// the scanners only ever walk them.
type PermissionsResponse struct {
	Permissions json.RawMessage `json:"permissions"`
}
