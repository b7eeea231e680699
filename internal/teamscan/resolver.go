// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package teamscan

import (
	"sort"

	portmodel "github.com/platform-engineering-labs/portctl/internal/port/model"
)

type InheritanceKind int

const (
	InheritanceNone InheritanceKind = iota
	InheritanceDirect
	InheritanceIndirect
	InheritanceUnresolved
)

func (k InheritanceKind) String() string {
	switch k {
	case InheritanceDirect:
		return "direct"
	case InheritanceIndirect:
		return "indirect"
	case InheritanceUnresolved:
		return "unresolved"
	default:
		return "none"
	}
}

// FindTeamRelations returns every relation targeting the team blueprint, ordered by blueprint
// and relation identifier. The team blueprint's own relations are ignored.
func FindTeamRelations(blueprints []portmodel.Blueprint, teamBlueprint string) []TeamRelation {
	var refs []TeamRelation
	for _, bp := range blueprints {
		if bp.Identifier == teamBlueprint {
			continue
		}
		for id, rel := range bp.Relations {
			if rel.Target == teamBlueprint {
				refs = append(refs, TeamRelation{Blueprint: bp.Identifier, Relation: id})
			}
		}
	}

	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Blueprint != refs[j].Blueprint {
			return refs[i].Blueprint < refs[j].Blueprint
		}
		return refs[i].Relation < refs[j].Relation
	})

	return refs
}

// RelationIDs returns the distinct relation identifiers of refs in first-seen order.
func RelationIDs(refs []TeamRelation) []string {
	seen := make(map[string]struct{}, len(refs))
	var ids []string
	for _, ref := range refs {
		if _, ok := seen[ref.Relation]; ok {
			continue
		}
		seen[ref.Relation] = struct{}{}
		ids = append(ids, ref.Relation)
	}

	return ids
}

func BlueprintLookup(blueprints []portmodel.Blueprint) map[string]portmodel.Blueprint {
	lookup := make(map[string]portmodel.Blueprint, len(blueprints))
	for _, bp := range blueprints {
		lookup[bp.Identifier] = bp
	}

	return lookup
}

// ResolveInheritancePath follows path from bp, one relation per segment, and returns the
// identifier of the blueprint reached. It reports false when a segment names a missing
// relation or a target that is not in lookup. A target equal to teamBlueprint always
// resolves since the API may leave the built-in team blueprint out of listings.
func ResolveInheritancePath(bp portmodel.Blueprint, lookup map[string]portmodel.Blueprint, path []string, teamBlueprint string) (string, bool) {
	current := bp
	reached := bp.Identifier

	for i, segment := range path {
		rel, ok := current.Relations[segment]
		if !ok {
			return "", false
		}

		target, ok := lookup[rel.Target]
		if !ok {
			if rel.Target == teamBlueprint && i == len(path)-1 {
				return teamBlueprint, true
			}
			return "", false
		}

		current = target
		reached = target.Identifier
	}

	return reached, true
}

// ClassifyInheritance classifies the teamInheritance declaration of bp.
func ClassifyInheritance(bp portmodel.Blueprint, lookup map[string]portmodel.Blueprint, teamBlueprint string) InheritanceKind {
	if bp.TeamInheritance == nil {
		return InheritanceNone
	}
	segments := bp.TeamInheritance.Segments()
	if len(segments) == 0 {
		return InheritanceUnresolved
	}

	reached, ok := ResolveInheritancePath(bp, lookup, segments, teamBlueprint)
	if !ok {
		return InheritanceUnresolved
	}
	if reached == teamBlueprint {
		return InheritanceDirect
	}

	return InheritanceIndirect
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
