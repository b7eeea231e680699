// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package model

import "encoding/json"

type Organization struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	PageOrder   []string        `json:"pageOrder,omitempty" yaml:"pageOrder,omitempty"`
	DefaultPage string          `json:"defaultPage,omitempty" yaml:"defaultPage,omitempty"`
	Raw         json.RawMessage `json:"-" yaml:"-"`
}

func (o *Organization) UnmarshalJSON(data []byte) error {
	type plain Organization
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*o = Organization(p)
	o.Raw = append(json.RawMessage(nil), data...)

	return nil
}

type OrganizationResponse struct {
	Organization Organization `json:"organization"`
}

type Entity struct {
	Identifier string         `json:"identifier"`
	Title      string         `json:"title,omitempty"`
	Blueprint  string         `json:"blueprint,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

type EntitiesResponse struct {
	Entities []Entity `json:"entities"`
}

type EntityDocumentsResponse struct {
	Entities []json.RawMessage `json:"entities"`
}

// Rule is a single search condition. Nested rule sets are expressed with Combinator/Rules.
type Rule struct {
	Property   string `json:"property,omitempty"`
	Operator   string `json:"operator,omitempty"`
	Value      any    `json:"value,omitempty"`
	Combinator string `json:"combinator,omitempty"`
	Rules      []Rule `json:"rules,omitempty"`
}

type RuleSet struct {
	Combinator string `json:"combinator"`
	Rules      []Rule `json:"rules"`
}

type SearchOptions struct {
	Include                     []string
	ExcludeCalculatedProperties bool
	AttachTitleToRelation       bool
}

const UserStatusInvited = "INVITED"

type User struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Status    string `json:"status"`
}

type UsersResponse struct {
	Users []User `json:"users"`
}
