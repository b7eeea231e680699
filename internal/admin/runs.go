// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package admin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/platform-engineering-labs/portctl/internal/imconc"
	portmodel "github.com/platform-engineering-labs/portctl/internal/port/model"
)

const DefaultRunStatus = portmodel.RunStatusSuccess

// CompleteActiveRuns moves every active action run to status, all runs in parallel.
func CompleteActiveRuns(ctx context.Context, c Client, status string) (*Result, error) {
	runs, err := c.ActiveRuns(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("Updating active runs", "count", len(runs), "status", status)

	results := imconc.ForEach(ctx, runs, 0, func(ctx context.Context, run portmodel.ActionRun) (struct{}, error) {
		if err := c.UpdateRunStatus(ctx, run.ID, status); err != nil {
			return struct{}{}, fmt.Errorf("failed to update run %s: %w", run.ID, err)
		}
		return struct{}{}, nil
	})

	res := NewResult("runs complete")
	for i, r := range results {
		if r.Err != nil {
			res.fail(runs[i].ID, r.Err)
			continue
		}
		res.succeed(runs[i].ID)
	}

	return res, nil
}
