// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/platform-engineering-labs/portctl/internal/imconc"
	portmodel "github.com/platform-engineering-labs/portctl/internal/port/model"
)

const DefaultPollInterval = time.Second

var errRunInProgress = errors.New("run is still in progress")

// ActionRunner triggers day-2 actions and reads back their runs.
type ActionRunner interface {
	RunEntityAction(ctx context.Context, blueprint, entity, action string, properties map[string]any) (*portmodel.ActionRun, error)
	ActionRun(ctx context.Context, runID string) (*portmodel.ActionRun, error)
}

type ActionRequest struct {
	Blueprint  string
	Action     string
	Properties map[string]any

	// Wait makes every run finish before the next entity is started.
	Wait         bool
	PollInterval time.Duration
}

// RunEntityActions triggers the action on each entity in order. Without Wait a failed trigger
// is recorded and the next entity is started. With Wait the batch stops at the first run that
// cannot be started or does not end in SUCCESS, and the remaining entities are skipped.
func RunEntityActions(ctx context.Context, c ActionRunner, req ActionRequest, entities []string) (*Result, error) {
	res := NewResult("runs start")

	for i, entity := range entities {
		err := runEntityAction(ctx, c, req, entity)
		if err == nil {
			res.succeed(entity)
			continue
		}

		res.fail(entity, err)
		if req.Wait {
			for _, rest := range entities[i+1:] {
				res.skip(rest, fmt.Sprintf("not started after %s failed", entity))
			}
			break
		}
	}

	return res, nil
}

func runEntityAction(ctx context.Context, c ActionRunner, req ActionRequest, entity string) error {
	run, err := c.RunEntityAction(ctx, req.Blueprint, entity, req.Action, req.Properties)
	if err != nil {
		return err
	}
	slog.Info("Started action run", "blueprint", req.Blueprint, "entity", entity, "action", req.Action, "runId", run.ID)

	if !req.Wait {
		return nil
	}

	return awaitSuccess(ctx, c, run.ID, req.PollInterval)
}

// WaitForRuns waits for all runs in parallel. A run succeeds when it ends in SUCCESS.
func WaitForRuns(ctx context.Context, c ActionRunner, runIDs []string, interval time.Duration) (*Result, error) {
	results := imconc.ForEach(ctx, runIDs, 0, func(ctx context.Context, id string) (struct{}, error) {
		return struct{}{}, awaitSuccess(ctx, c, id, interval)
	})

	res := NewResult("runs wait")
	for i, r := range results {
		if r.Err != nil {
			res.fail(runIDs[i], r.Err)
			continue
		}
		res.succeed(runIDs[i])
	}

	return res, nil
}

func awaitSuccess(ctx context.Context, c ActionRunner, runID string, interval time.Duration) error {
	run, err := WaitForRun(ctx, c, runID, interval)
	if err != nil {
		return err
	}
	if run.Status != portmodel.RunStatusSuccess {
		return fmt.Errorf("run %s ended with status %s", runID, run.Status)
	}

	return nil
}

// WaitForRun polls a run every interval until it leaves IN_PROGRESS and returns its final
// state. API errors end the wait immediately.
func WaitForRun(ctx context.Context, c ActionRunner, runID string, interval time.Duration) (*portmodel.ActionRun, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	var run *portmodel.ActionRun
	err := retry.Do(ctx, retry.NewConstant(interval), func(ctx context.Context) error {
		current, err := c.ActionRun(ctx, runID)
		if err != nil {
			return err
		}
		if current.Status == portmodel.RunStatusInProgress {
			slog.Debug("Action run still in progress", "runId", runID)
			return retry.RetryableError(errRunInProgress)
		}
		run = current
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to wait for run %s: %w", runID, err)
	}
	slog.Info("Action run finished", "runId", runID, "status", run.Status)

	return run, nil
}
