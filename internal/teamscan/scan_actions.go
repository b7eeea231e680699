// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package teamscan

import (
	"fmt"
	"strings"

	portmodel "github.com/platform-engineering-labs/portctl/internal/port/model"
	"github.com/tidwall/gjson"
)

const (
	ReasonActionReferencesTeam  = "Action configuration references team"
	ReasonExplicitExecuteTeams  = "Explicit teams in Execute permissions"
	ReasonExplicitApproveTeams  = "Explicit teams in Approve permissions"
	reasonTeamPropertyInMapping = "Action maps value to team property in entity mapping"
	entityMappingPath           = "invocationMethod.body.mapping.entity"
	dynamicPermissionsPrefix    = "Dynamic permissions - "
)

// actionLocations tags a match by the part of the action it was found in.
var actionLocations = []struct {
	prefix string
	tag    string
}{
	{"trigger.condition", "Team reference in trigger conditions"},
	{"invocationMethod.mapping", "Team reference in mapping configuration"},
	{"invocationMethod.url", "Team reference in webhook URL"},
	{"invocationMethod.body", "Team reference in webhook body"},
}

func describeActionMatch(m Match) string {
	for _, loc := range actionLocations {
		if strings.HasPrefix(m.Path, loc.prefix) {
			return fmt.Sprintf("%s (%s)", loc.tag, m.Pattern())
		}
	}

	return Describe(m)
}

// ScanActions flags actions and automations that reference the team meta-property or a team
// relation. Assignments in the entity mapping are reported first.
func ScanActions(actions []portmodel.Action, relationIDs []string, m *Matcher) []ReviewItem[portmodel.Action] {
	var items []ReviewItem[portmodel.Action]

	for _, action := range actions {
		var locations []string

		if len(action.Raw) > 0 && gjson.ValidBytes(action.Raw) {
			entity := gjson.GetBytes(action.Raw, entityMappingPath)
			if entity.IsObject() {
				if entity.Get("team").Exists() {
					locations = append(locations, reasonTeamPropertyInMapping)
				}
				relations := entity.Get("relations")
				for _, id := range relationIDs {
					if relations.IsObject() && relations.Get(gjson.Escape(id)).Exists() {
						locations = append(locations, fmt.Sprintf("Action maps value to %q relation in entity mapping", id))
					}
				}
			}
		}

		locations = append(locations, Distinct(m.MatchJSON(action.Raw), describeActionMatch)...)

		if len(locations) > 0 {
			items = append(items, ReviewItem[portmodel.Action]{
				Subject:   action,
				Locations: locations,
				Reason:    ReasonActionReferencesTeam,
			})
		}
	}

	return items
}

func describePolicyMatch(m Match) string {
	if m.Kind == MatchTeamRelation {
		return fmt.Sprintf("%sfound reference to old team relation identifier (%s)", dynamicPermissionsPrefix, m.Pattern())
	}

	return Describe(m)
}

// ScanActionPermissions splits permission sets into those granting explicit teams, which the
// migration handles, and those whose dynamic policies reference team constructs, which need
// review. Execute takes precedence over approve in both checks.
func ScanActionPermissions(sets []ActionPermissionSet, m *Matcher) (explicit, dynamic []ReviewItem[ActionPermissionSet]) {
	for _, set := range sets {
		perms := set.Permissions

		switch {
		case perms.Execute.HasTeams():
			explicit = append(explicit, ReviewItem[ActionPermissionSet]{
				Subject:   set,
				Locations: []string{"execute.teams"},
				Reason:    ReasonExplicitExecuteTeams,
			})
		case perms.Approve.HasTeams():
			explicit = append(explicit, ReviewItem[ActionPermissionSet]{
				Subject:   set,
				Locations: []string{"approve.teams"},
				Reason:    ReasonExplicitApproveTeams,
			})
		}

		for _, block := range []struct {
			name string
			rule *portmodel.PermissionRule
		}{
			{"execute", perms.Execute},
			{"approve", perms.Approve},
		} {
			if !block.rule.HasPolicy() {
				continue
			}
			matches := m.MatchJSON(block.rule.Policy)
			if len(matches) == 0 {
				continue
			}

			reasons := Distinct(matches, describePolicyMatch)
			locations := Distinct(matches, func(match Match) string {
				if match.Path == "" {
					return block.name + ".policy"
				}
				return block.name + ".policy." + match.Path
			})
			dynamic = append(dynamic, ReviewItem[ActionPermissionSet]{
				Subject:   set,
				Locations: locations,
				Reason:    strings.Join(reasons, "\n"),
			})
			break
		}
	}

	return explicit, dynamic
}
