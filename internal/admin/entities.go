// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/platform-engineering-labs/portctl/internal/imconc"
	portmodel "github.com/platform-engineering-labs/portctl/internal/port/model"
)

const ISODateLayout = "2006-01-02T15:04:05.000Z"

var utcDateLayouts = []string{
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05.000 MST",
	"2006-01-02T15:04:05 MST",
	"2006-01-02 15:04:05 -0700 MST",
	"2006-01-02 MST",
	time.UnixDate,
	time.RFC1123,
	time.RFC850,
	"Mon Jan 02 2006 15:04:05 MST",
}

// ParseUTCDate parses the textual UTC dates older integrations wrote into string properties.
func ParseUTCDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range utcDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}

// FixEntityDates rewrites property of every entity of blueprint from a "... UTC" string into an
// ISO-8601 timestamp. Values without UTC, or that cannot be parsed, are left alone.
func FixEntityDates(ctx context.Context, c Client, blueprint, property string) (*Result, error) {
	entities, err := c.BlueprintEntities(ctx, blueprint, "identifier", "properties")
	if err != nil {
		return nil, err
	}

	res := NewResult("entities fix-dates")
	for _, entity := range entities {
		value, _ := entity.Properties[property].(string)
		if !strings.Contains(value, "UTC") {
			res.skip(entity.Identifier, "date already in a valid format")
			continue
		}

		t, err := ParseUTCDate(value)
		if err != nil {
			res.skip(entity.Identifier, "invalid date value")
			continue
		}

		fixed := t.Format(ISODateLayout)
		if err := c.PatchEntityProperties(ctx, blueprint, entity.Identifier, map[string]any{property: fixed}); err != nil {
			res.fail(entity.Identifier, err)
			continue
		}
		slog.Debug("Updated date", "entity", entity.Identifier, "from", value, "to", fixed)
		res.succeed(entity.Identifier)
	}

	return res, nil
}

type entityRef struct {
	blueprint string
	id        string
}

// DeleteEntities deletes every entity of the given blueprints, at most concurrency at a time.
func DeleteEntities(ctx context.Context, c Client, blueprints []string, deleteDependents bool, concurrency int) (*Result, error) {
	var refs []entityRef
	for _, bp := range blueprints {
		entities, err := c.BlueprintEntities(ctx, bp, "identifier")
		if err != nil {
			return nil, err
		}
		slog.Info("Deleting entities", "blueprint", bp, "count", len(entities))
		for _, e := range entities {
			refs = append(refs, entityRef{blueprint: bp, id: e.Identifier})
		}
	}

	results := imconc.ForEach(ctx, refs, concurrency, func(ctx context.Context, ref entityRef) (struct{}, error) {
		return struct{}{}, c.DeleteEntity(ctx, ref.blueprint, ref.id, deleteDependents)
	})

	res := NewResult("entities delete")
	for i, r := range results {
		id := refs[i].blueprint + "/" + refs[i].id
		if r.Err != nil {
			res.fail(id, r.Err)
			continue
		}
		res.succeed(id)
	}

	return res, nil
}

// PurgeInvitedUsers deletes every user that never accepted their invitation.
func PurgeInvitedUsers(ctx context.Context, c Client) (*Result, error) {
	users, err := c.Users(ctx)
	if err != nil {
		return nil, err
	}

	res := NewResult("users purge-invited")
	for _, user := range users {
		if user.Status != portmodel.UserStatusInvited {
			continue
		}
		if err := c.DeleteUser(ctx, user.Email); err != nil {
			res.fail(user.Email, err)
			continue
		}
		slog.Info("Deleted invited user", "email", user.Email)
		res.succeed(user.Email)
	}

	return res, nil
}
