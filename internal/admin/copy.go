// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/platform-engineering-labs/portctl/internal/port"
	portmodel "github.com/platform-engineering-labs/portctl/internal/port/model"
)

// CopySource is the organization blueprints and entities are read from.
type CopySource interface {
	Blueprints(ctx context.Context) ([]portmodel.Blueprint, error)
	EntityDocuments(ctx context.Context, blueprint string) ([]json.RawMessage, error)
}

// CopyTarget is the organization they are written to.
type CopyTarget interface {
	CreateBlueprint(ctx context.Context, doc json.RawMessage) error
	UpdateBlueprint(ctx context.Context, id string, doc json.RawMessage) error
	UpsertEntity(ctx context.Context, blueprint string, doc json.RawMessage) error
}

// CopyOrganization copies blueprints and then their entities from src into dst. Blueprints
// are first created with empty relations and mirror properties so their targets need not
// exist yet, then patched with the full document once all of them are in place. A blueprint
// that already exists in dst is only patched. When only is non-empty the copy is limited to
// those blueprints.
//
// Blueprint outcomes use the blueprint identifier, entity outcomes "blueprint/entity".
func CopyOrganization(ctx context.Context, src CopySource, dst CopyTarget, only []string) (*Result, error) {
	blueprints, err := src.Blueprints(ctx)
	if err != nil {
		return nil, err
	}

	res := NewResult("blueprints copy")
	blueprints = selectBlueprints(blueprints, only, res)
	slog.Info("Copying blueprints", "count", len(blueprints))

	copied := make([]portmodel.Blueprint, 0, len(blueprints))
	for _, bp := range blueprints {
		if err := createBlueprintShell(ctx, dst, bp); err != nil {
			res.fail(bp.Identifier, err)
			continue
		}
		copied = append(copied, bp)
	}

	patched := make([]portmodel.Blueprint, 0, len(copied))
	for _, bp := range copied {
		if err := dst.UpdateBlueprint(ctx, bp.Identifier, bp.Raw); err != nil {
			res.fail(bp.Identifier, err)
			continue
		}
		res.succeed(bp.Identifier)
		patched = append(patched, bp)
	}

	for _, bp := range patched {
		copyEntities(ctx, src, dst, bp.Identifier, res)
	}

	return res, nil
}

func selectBlueprints(blueprints []portmodel.Blueprint, only []string, res *Result) []portmodel.Blueprint {
	if len(only) == 0 {
		return blueprints
	}

	byID := make(map[string]portmodel.Blueprint, len(blueprints))
	for _, bp := range blueprints {
		byID[bp.Identifier] = bp
	}

	selected := make([]portmodel.Blueprint, 0, len(only))
	for _, id := range only {
		bp, ok := byID[id]
		if !ok {
			res.skip(id, "blueprint does not exist in the source organization")
			continue
		}
		selected = append(selected, bp)
	}

	return selected
}

func createBlueprintShell(ctx context.Context, dst CopyTarget, bp portmodel.Blueprint) error {
	shell, err := sjson.SetRawBytes(bp.Raw, "relations", []byte("{}"))
	if err != nil {
		return fmt.Errorf("failed to clear relations of blueprint %s: %w", bp.Identifier, err)
	}
	shell, err = sjson.SetRawBytes(shell, "mirrorProperties", []byte("{}"))
	if err != nil {
		return fmt.Errorf("failed to clear mirror properties of blueprint %s: %w", bp.Identifier, err)
	}

	err = dst.CreateBlueprint(ctx, shell)
	var apiErr *port.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
		slog.Debug("Blueprint already exists in target", "blueprint", bp.Identifier)
		return nil
	}

	return err
}

func copyEntities(ctx context.Context, src CopySource, dst CopyTarget, blueprint string, res *Result) {
	docs, err := src.EntityDocuments(ctx, blueprint)
	if err != nil {
		res.fail(blueprint+"/*", err)
		return
	}
	slog.Info("Copying entities", "blueprint", blueprint, "count", len(docs))

	for _, doc := range docs {
		id := blueprint + "/" + gjson.GetBytes(doc, "identifier").String()

		// the API rejects an explicit null icon
		if icon := gjson.GetBytes(doc, "icon"); icon.Exists() && icon.Type == gjson.Null {
			if doc, err = sjson.DeleteBytes(doc, "icon"); err != nil {
				res.fail(id, err)
				continue
			}
		}

		if err := dst.UpsertEntity(ctx, blueprint, doc); err != nil {
			res.fail(id, err)
			continue
		}
		res.succeed(id)
	}
}
