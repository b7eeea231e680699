// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package teamscan

import (
	"encoding/json"
	"fmt"
	"log/slog"

	portmodel "github.com/platform-engineering-labs/portctl/internal/port/model"
	"github.com/theory/jsonpath"
	"github.com/theory/jsonpath/registry"
	"github.com/tidwall/gjson"
)

const (
	ReasonGitOpsReview        = "GitOps file needs to be reviewed"
	ReasonTeamMapping         = "Team mapping in entity configuration"
	ReasonTeamReferences      = "Contains team references that need to be updated after migration"
	locationDirectTeamMapping = "Direct team mapping in entity configuration"
	locationTeamProperty      = "Reference to team property (.team)"
)

var jsonpathParser = jsonpath.NewParser(jsonpath.WithRegistry(registry.New()))

var (
	teamKeyQuery      = mustParsePath("$..team")
	relationsKeyQuery = mustParsePath("$..relations")
)

func mustParsePath(query string) *jsonpath.Path {
	path, err := jsonpathParser.Parse(query)
	if err != nil {
		panic(fmt.Sprintf("invalid jsonpath query %q: %v", query, err))
	}

	return path
}

type relationIndex map[string][]TeamRelation

func indexRelations(refs []TeamRelation) relationIndex {
	idx := relationIndex{}
	for _, ref := range refs {
		idx[ref.Relation] = append(idx[ref.Relation], ref)
	}

	return idx
}

func (idx relationIndex) mappingLocations(keys map[string]any) []string {
	var out []string
	for _, id := range sortedKeys(keys) {
		for _, ref := range idx[id] {
			out = append(out, fmt.Sprintf("Mapping to team relation '%s' from blueprint '%s'", ref.Relation, ref.Blueprint))
		}
	}

	return out
}

func (idx relationIndex) referenceLocation(m Match) []string {
	if m.Kind == MatchTeamProperty {
		return []string{locationTeamProperty}
	}

	var out []string
	for _, ref := range idx[m.Relation] {
		out = append(out, fmt.Sprintf("Reference to team relation '%s' from blueprint '%s'", ref.Relation, ref.Blueprint))
	}

	return out
}

// ScanIntegrations flags integrations whose mapping assigns the team meta-property or a team
// relation, or whose expressions reference them. Integrations managed from a GitOps file carry
// no config and are always flagged.
func ScanIntegrations(integrations []portmodel.Integration, refs []TeamRelation, m *Matcher) []ReviewItem[portmodel.Integration] {
	idx := indexRelations(refs)
	var items []ReviewItem[portmodel.Integration]

	for _, integration := range integrations {
		if !integration.HasConfig() {
			items = append(items, ReviewItem[portmodel.Integration]{
				Subject: integration,
				Reason:  ReasonGitOpsReview,
			})
			continue
		}

		var config any
		if err := json.Unmarshal(integration.Config, &config); err != nil {
			slog.Warn("Skipping integration with unreadable config", "installationId", integration.InstallationID, "error", err)
			continue
		}

		var mapped []string
		if len(teamKeyQuery.Select(config)) > 0 {
			mapped = append(mapped, locationDirectTeamMapping)
		}
		for _, node := range relationsKeyQuery.Select(config) {
			if relations, ok := node.(map[string]any); ok {
				mapped = append(mapped, idx.mappingLocations(relations)...)
			}
		}
		if len(mapped) > 0 {
			items = append(items, ReviewItem[portmodel.Integration]{
				Subject:   integration,
				Locations: dedupe(mapped),
				Reason:    ReasonTeamMapping,
			})
			continue
		}

		if refs := referenceLocations(idx, m.MatchJSON(integration.Config)); len(refs) > 0 {
			items = append(items, ReviewItem[portmodel.Integration]{
				Subject:   integration,
				Locations: refs,
				Reason:    ReasonTeamReferences,
			})
		}
	}

	return items
}

// ScanWebhooks applies the integration rules to every entity mapping of every webhook.
func ScanWebhooks(webhooks []portmodel.Webhook, refs []TeamRelation, m *Matcher) []ReviewItem[portmodel.Webhook] {
	idx := indexRelations(refs)
	var items []ReviewItem[portmodel.Webhook]

	for _, webhook := range webhooks {
		var mapped, referenced []string

		for _, mapping := range webhook.Mappings {
			entity := mapping.Entity
			if entity == nil {
				continue
			}

			if hasMappingValue(entity.Team) {
				mapped = append(mapped, locationDirectTeamMapping)
			}

			relationKeys := make(map[string]any, len(entity.Relations))
			for key := range entity.Relations {
				relationKeys[key] = nil
			}
			mapped = append(mapped, idx.mappingLocations(relationKeys)...)

			for _, values := range []map[string]json.RawMessage{entity.Properties, entity.Relations} {
				for _, key := range sortedKeys(values) {
					referenced = append(referenced, referenceLocations(idx, m.MatchJSON(values[key]))...)
				}
			}
		}

		switch {
		case len(mapped) > 0:
			items = append(items, ReviewItem[portmodel.Webhook]{
				Subject:   webhook,
				Locations: dedupe(append(mapped, referenced...)),
				Reason:    ReasonTeamMapping,
			})
		case len(referenced) > 0:
			items = append(items, ReviewItem[portmodel.Webhook]{
				Subject:   webhook,
				Locations: dedupe(referenced),
				Reason:    ReasonTeamReferences,
			})
		}
	}

	return items
}

func referenceLocations(idx relationIndex, matches []Match) []string {
	var out []string
	for _, m := range matches {
		out = append(out, idx.referenceLocation(m)...)
	}

	return dedupe(out)
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}

// hasMappingValue reports whether a mapping field is set: absent, null and "" all count as unset.
func hasMappingValue(raw json.RawMessage) bool {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return false
	}
	value := gjson.ParseBytes(raw)

	return value.Type != gjson.Null && !(value.Type == gjson.String && value.Str == "")
}
