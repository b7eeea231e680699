// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package teamscan

import (
	"fmt"
	"sort"
	"strings"

	portmodel "github.com/platform-engineering-labs/portctl/internal/port/model"
	"github.com/tidwall/gjson"
)

// ScanCalculationProperties flags blueprints whose calculation properties reference the team
// meta-property or a team relation.
func ScanCalculationProperties(blueprints []portmodel.Blueprint, m *Matcher) []ReviewItem[portmodel.Blueprint] {
	var items []ReviewItem[portmodel.Blueprint]

	for _, bp := range blueprints {
		names := make([]string, 0, len(bp.CalculationProperties))
		for name := range bp.CalculationProperties {
			names = append(names, name)
		}
		sort.Strings(names)

		var locations []string
		for _, name := range names {
			for _, match := range m.MatchString(bp.CalculationProperties[name].Calculation) {
				locations = append(locations, fmt.Sprintf("%s (%s)", name, match.Pattern()))
			}
		}

		if len(locations) > 0 {
			items = append(items, ReviewItem[portmodel.Blueprint]{
				Subject:   bp,
				Locations: locations,
				Reason:    "Calculation properties reference team: " + strings.Join(locations, ", "),
			})
		}
	}

	return items
}

// FindTeamPaths returns the dot-joined path of every object in a permissions document that
// holds a non-empty teams array. The document root is reported as "root".
func FindTeamPaths(raw []byte, maxDepth int) []string {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return nil
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	var paths []string
	findTeamPaths(gjson.ParseBytes(raw), nil, 0, maxDepth, &paths)

	return paths
}

func findTeamPaths(value gjson.Result, path []string, depth, maxDepth int, out *[]string) {
	if depth > maxDepth {
		return
	}

	switch {
	case value.IsArray():
		for i, item := range value.Array() {
			findTeamPaths(item, append(path, fmt.Sprint(i)), depth+1, maxDepth, out)
		}
	case value.IsObject():
		if teams := value.Get("teams"); teams.IsArray() && len(teams.Array()) > 0 {
			if len(path) == 0 {
				*out = append(*out, "root")
			} else {
				*out = append(*out, strings.Join(path, "."))
			}
		}

		value.ForEach(func(key, item gjson.Result) bool {
			if key.String() != "teams" {
				findTeamPaths(item, append(path, key.String()), depth+1, maxDepth, out)
			}
			return true
		})
	}
}

func ScanBlueprintPermissions(sets []BlueprintPermissionSet, maxDepth int) []ReviewItem[BlueprintPermissionSet] {
	var items []ReviewItem[BlueprintPermissionSet]
	for _, set := range sets {
		paths := FindTeamPaths(set.Permissions, maxDepth)
		if len(paths) == 0 {
			continue
		}
		items = append(items, ReviewItem[BlueprintPermissionSet]{
			Subject:   set,
			Locations: paths,
			Reason:    "Found teams in permissions: " + strings.Join(paths, ", "),
		})
	}

	return items
}

func ScanPagePermissions(sets []PagePermissionSet, maxDepth int) []ReviewItem[PagePermissionSet] {
	var items []ReviewItem[PagePermissionSet]
	for _, set := range sets {
		paths := FindTeamPaths(set.Permissions, maxDepth)
		if len(paths) == 0 {
			continue
		}
		items = append(items, ReviewItem[PagePermissionSet]{
			Subject:   set,
			Locations: paths,
			Reason:    "Explicit teams in page permissions: " + strings.Join(paths, ", "),
		})
	}

	return items
}
