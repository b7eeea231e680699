// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package teamscan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/ksuid"
)

type Options struct {
	TeamBlueprint string
	MaxDepth      int
	// Now stamps the result; defaults to time.Now.
	Now func() time.Time
}

// Analyze classifies a snapshot into the review and automatic-migration groups. The team
// value counter is only consulted for blueprints without a teamInheritance declaration,
// sequentially.
func Analyze(ctx context.Context, snap *Snapshot, counter TeamValueCounter, opts Options) (*ScanResult, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	runID := ksuid.New().String()
	log := slog.With("runId", runID)

	result := &ScanResult{
		Organization: snap.Organization,
		RunID:        runID,
		GeneratedAt:  opts.Now().UTC(),
	}

	lookup := BlueprintLookup(snap.Blueprints)
	for _, bp := range snap.Blueprints {
		if bp.Identifier == opts.TeamBlueprint {
			continue
		}

		switch ClassifyInheritance(bp, lookup, opts.TeamBlueprint) {
		case InheritanceDirect:
			result.Automatic.DirectInheritance = append(result.Automatic.DirectInheritance, InheritanceMigration{
				Blueprint: bp,
				Path:      bp.TeamInheritance.Path,
				Relation:  bp.TeamInheritance.Segments()[0],
			})
		case InheritanceIndirect:
			result.Automatic.IndirectInheritance = append(result.Automatic.IndirectInheritance, InheritanceMigration{
				Blueprint: bp,
				Path:      bp.TeamInheritance.Path,
			})
		case InheritanceUnresolved:
			log.Warn("Ignoring blueprint with unresolvable team inheritance", "blueprint", bp.Identifier, "path", bp.TeamInheritance.Path)
		case InheritanceNone:
			count, err := counter.CountTeamValues(ctx, bp.Identifier)
			if err != nil {
				return nil, fmt.Errorf("failed to count team values of %s: %w", bp.Identifier, err)
			}
			if count > 0 {
				result.Automatic.TeamValues = append(result.Automatic.TeamValues, TeamValueMigration{Blueprint: bp, EntityCount: count})
			}
		}
	}

	result.TeamRelations = FindTeamRelations(snap.Blueprints, opts.TeamBlueprint)
	ids := RelationIDs(result.TeamRelations)
	log.Debug("Resolved team relations", "count", len(result.TeamRelations))

	deep := NewMatcher(ids, WithMaxDepth(opts.MaxDepth), WithRawText())
	leaf := NewMatcher(ids, WithMaxDepth(opts.MaxDepth))

	result.Review.CalculationProperties = ScanCalculationProperties(snap.Blueprints, leaf)
	result.Review.Actions = ScanActions(snap.Actions, ids, deep)
	result.Automatic.ActionPermissions, result.Review.ActionDynamicPermissions = ScanActionPermissions(snap.ActionPermissions, deep)
	result.Review.Integrations = ScanIntegrations(snap.Integrations, result.TeamRelations, leaf)
	result.Review.Webhooks = ScanWebhooks(snap.Webhooks, result.TeamRelations, leaf)
	result.Review.Pages = ScanPages(snap.Pages, ids, opts.MaxDepth)
	result.Automatic.BlueprintPermissions = ScanBlueprintPermissions(snap.BlueprintPermissions, opts.MaxDepth)
	result.Automatic.PagePermissions = ScanPagePermissions(snap.PagePermissions, opts.MaxDepth)

	log.Info("Scan complete", "review", result.ReviewCount(), "automatic", result.AutomaticCount())

	return result, nil
}
