// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package model

import "encoding/json"

const (
	TriggerSelfService = "self-service"
	TriggerAutomation  = "automation"
)

type ActionTrigger struct {
	Type                string `json:"type" yaml:"type"`
	Operation           string `json:"operation,omitempty" yaml:"operation,omitempty"`
	BlueprintIdentifier string `json:"blueprintIdentifier,omitempty" yaml:"blueprintIdentifier,omitempty"`
}

// Action is a self-service action or an automation. Raw holds the full document as returned
// by the API; everything not modelled here is only ever inspected through it.
type Action struct {
	Identifier string          `json:"identifier" yaml:"identifier"`
	Title      string          `json:"title,omitempty" yaml:"title,omitempty"`
	Trigger    ActionTrigger   `json:"trigger" yaml:"trigger"`
	Raw        json.RawMessage `json:"-" yaml:"-"`
}

func (a *Action) UnmarshalJSON(data []byte) error {
	type plain Action
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = Action(p)
	a.Raw = append(json.RawMessage(nil), data...)

	return nil
}

type ActionsResponse struct {
	Actions []Action `json:"actions"`
}

type PermissionRule struct {
	Roles       []string        `json:"roles,omitempty" yaml:"roles,omitempty"`
	Users       []string        `json:"users,omitempty" yaml:"users,omitempty"`
	Teams       []string        `json:"teams,omitempty" yaml:"teams,omitempty"`
	OwnedByTeam bool            `json:"ownedByTeam,omitempty" yaml:"ownedByTeam,omitempty"`
	Policy      json.RawMessage `json:"policy,omitempty" yaml:"-"`
}

func (r *PermissionRule) HasTeams() bool {
	return r != nil && len(r.Teams) > 0
}

func (r *PermissionRule) HasPolicy() bool {
	return r != nil && len(r.Policy) > 0 && string(r.Policy) != "null"
}

type ActionPermissions struct {
	Execute *PermissionRule `json:"execute,omitempty" yaml:"execute,omitempty"`
	Approve *PermissionRule `json:"approve,omitempty" yaml:"approve,omitempty"`
}

type ActionPermissionsResponse struct {
	Permissions ActionPermissions `json:"permissions"`
}

const (
	RunStatusInProgress = "IN_PROGRESS"
	RunStatusSuccess    = "SUCCESS"
	RunStatusFailure    = "FAILURE"
)

type ActionRun struct {
	ID     string `json:"id" yaml:"id"`
	Status string `json:"status" yaml:"status"`
}

type ActionRunsResponse struct {
	Runs []ActionRun `json:"runs"`
}

type ActionRunResponse struct {
	Run ActionRun `json:"run"`
}
