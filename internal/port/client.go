// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package port

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	portmodel "github.com/platform-engineering-labs/portctl/internal/port/model"
	pkgmodel "github.com/platform-engineering-labs/portctl/pkg/model"
	"resty.dev/v3"
)

const RequestIDHeader = "X-Request-ID"

type Client struct {
	endpoint string
	resty    *resty.Client
	cfg      pkgmodel.APIConfig
	tokens   *tokenSource
}

type Option func(*Client)

// WithHTTPClient swaps the underlying transport, mostly for tests.
func WithHTTPClient(net *http.Client) Option {
	return func(c *Client) {
		c.resty = resty.NewWithClient(net)
		c.tokens.resty = c.resty
	}
}

// WithStaticToken skips the client-credentials exchange and always sends token.
func WithStaticToken(token string) Option {
	return func(c *Client) {
		c.tokens.token = token
		c.tokens.static = true
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.tokens.now = now
	}
}

func NewClient(cfg pkgmodel.APIConfig, creds pkgmodel.Credentials, opts ...Option) *Client {
	endpoint := strings.TrimRight(cfg.URL, "/")
	client := resty.New()

	c := &Client{
		endpoint: endpoint,
		resty:    client,
		cfg:      cfg,
		tokens: &tokenSource{
			resty:        client,
			endpoint:     endpoint,
			clientID:     creds.ClientID,
			clientSecret: creds.ClientSecret,
			minTTL:       cfg.MinTokenTTL,
			now:          time.Now,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) Close() error {
	return c.resty.Close()
}

type call struct {
	method string
	path   string
	query  url.Values
	body   any
}

// do issues an authenticated request and decodes a 2xx body into out when out is non-nil.
func (c *Client) do(ctx context.Context, rc call, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	req := c.resty.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		SetHeader(RequestIDHeader, uuid.NewString())

	if len(rc.query) > 0 {
		req.SetQueryParamsFromValues(rc.query)
	}
	if rc.body != nil {
		req.SetContentType("application/json").SetBody(rc.body)
	}

	resp, err := req.Execute(rc.method, c.endpoint+rc.path)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return syscall.ECONNREFUSED
		}

		return err
	}

	//nolint:errcheck
	defer resp.Body.Close()

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return newAPIError(rc.method, rc.path, resp.StatusCode(), resp.Body)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response of %s %s: %w", rc.method, rc.path, err)
	}

	return nil
}

func (c *Client) Organization(ctx context.Context) (*portmodel.Organization, error) {
	var resp portmodel.OrganizationResponse
	if err := c.do(ctx, call{method: http.MethodGet, path: "/v1/organization"}, &resp); err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	return &resp.Organization, nil
}

// UpdateOrganization writes back a full organization document.
func (c *Client) UpdateOrganization(ctx context.Context, doc json.RawMessage) error {
	if err := c.do(ctx, call{method: http.MethodPut, path: "/v1/organization", body: doc}, nil); err != nil {
		return fmt.Errorf("failed to update organization: %w", err)
	}

	return nil
}

func (c *Client) Blueprints(ctx context.Context) ([]portmodel.Blueprint, error) {
	var resp portmodel.BlueprintsResponse
	if err := c.do(ctx, call{method: http.MethodGet, path: "/v1/blueprints"}, &resp); err != nil {
		return nil, fmt.Errorf("failed to list blueprints: %w", err)
	}

	return resp.Blueprints, nil
}

func (c *Client) Blueprint(ctx context.Context, id string) (*portmodel.Blueprint, error) {
	var resp portmodel.BlueprintResponse
	if err := c.do(ctx, call{method: http.MethodGet, path: "/v1/blueprints/" + url.PathEscape(id)}, &resp); err != nil {
		return nil, fmt.Errorf("failed to get blueprint %s: %w", id, err)
	}

	return &resp.Blueprint, nil
}

func (c *Client) BlueprintPermissions(ctx context.Context, id string) (json.RawMessage, error) {
	var resp portmodel.PermissionsResponse
	path := "/v1/blueprints/" + url.PathEscape(id) + "/permissions"
	if err := c.do(ctx, call{method: http.MethodGet, path: path}, &resp); err != nil {
		return nil, fmt.Errorf("failed to get permissions of blueprint %s: %w", id, err)
	}

	return resp.Permissions, nil
}

// CreateBlueprint posts a full blueprint document.
func (c *Client) CreateBlueprint(ctx context.Context, doc json.RawMessage) error {
	if err := c.do(ctx, call{method: http.MethodPost, path: "/v1/blueprints", body: doc}, nil); err != nil {
		return fmt.Errorf("failed to create blueprint: %w", err)
	}

	return nil
}

func (c *Client) UpdateBlueprint(ctx context.Context, id string, doc json.RawMessage) error {
	if err := c.do(ctx, call{method: http.MethodPatch, path: "/v1/blueprints/" + url.PathEscape(id), body: doc}, nil); err != nil {
		return fmt.Errorf("failed to update blueprint %s: %w", id, err)
	}

	return nil
}

// Actions lists actions of the configured API version. An empty triggerType lists all of them.
func (c *Client) Actions(ctx context.Context, triggerType string) ([]portmodel.Action, error) {
	query := url.Values{"version": []string{c.cfg.ActionsVersion}}
	if triggerType != "" {
		query.Set("trigger_type", triggerType)
	}

	var resp portmodel.ActionsResponse
	if err := c.do(ctx, call{method: http.MethodGet, path: "/v1/actions", query: query}, &resp); err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}

	return resp.Actions, nil
}

func (c *Client) ActionPermissions(ctx context.Context, id string) (*portmodel.ActionPermissions, error) {
	var resp portmodel.ActionPermissionsResponse
	path := "/v1/actions/" + url.PathEscape(id) + "/permissions"
	if err := c.do(ctx, call{method: http.MethodGet, path: path}, &resp); err != nil {
		return nil, fmt.Errorf("failed to get permissions of action %s: %w", id, err)
	}

	return &resp.Permissions, nil
}

func (c *Client) SearchEntities(ctx context.Context, query portmodel.RuleSet, opts portmodel.SearchOptions) ([]portmodel.Entity, error) {
	params := url.Values{}
	for _, field := range opts.Include {
		params.Add("include", field)
	}
	if opts.ExcludeCalculatedProperties {
		params.Set("exclude_calculated_properties", "true")
	}
	if opts.AttachTitleToRelation {
		params.Set("attach_title_to_relation", "true")
	}

	var resp portmodel.EntitiesResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: "/v1/entities/search", query: params, body: query}, &resp); err != nil {
		return nil, fmt.Errorf("failed to search entities: %w", err)
	}

	return resp.Entities, nil
}

// BlueprintEntities returns every entity of a blueprint with only the listed fields populated.
func (c *Client) BlueprintEntities(ctx context.Context, blueprint string, include ...string) ([]portmodel.Entity, error) {
	return c.SearchEntities(ctx, portmodel.RuleSet{
		Combinator: "and",
		Rules: []portmodel.Rule{
			{Property: "$blueprint", Operator: "=", Value: blueprint},
		},
	}, portmodel.SearchOptions{Include: include, ExcludeCalculatedProperties: true})
}

// CountTeamValues counts the entities of a blueprint that carry a value in the legacy team
// meta-property.
func (c *Client) CountTeamValues(ctx context.Context, blueprint string) (int, error) {
	entities, err := c.SearchEntities(ctx, portmodel.RuleSet{
		Combinator: "and",
		Rules: []portmodel.Rule{
			{Property: "$team", Operator: "isNotEmpty"},
			{Property: "$blueprint", Operator: "=", Value: blueprint},
		},
	}, portmodel.SearchOptions{Include: []string{"identifier"}, ExcludeCalculatedProperties: true})
	if err != nil {
		return 0, err
	}

	return len(entities), nil
}

func (c *Client) Integrations(ctx context.Context) ([]portmodel.Integration, error) {
	var resp portmodel.IntegrationsResponse
	if err := c.do(ctx, call{method: http.MethodGet, path: "/v1/integration"}, &resp); err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}

	return resp.Integrations, nil
}

func (c *Client) Webhooks(ctx context.Context) ([]portmodel.Webhook, error) {
	var resp portmodel.WebhooksResponse
	if err := c.do(ctx, call{method: http.MethodGet, path: "/v1/webhooks"}, &resp); err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}

	return resp.Integrations, nil
}

func (c *Client) Pages(ctx context.Context) ([]portmodel.Page, error) {
	var resp portmodel.PagesResponse
	query := url.Values{"compact": []string{"false"}}
	if err := c.do(ctx, call{method: http.MethodGet, path: "/v1/pages", query: query}, &resp); err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}

	return resp.Pages, nil
}

func (c *Client) PagePermissions(ctx context.Context, id string) (json.RawMessage, error) {
	var resp portmodel.PermissionsResponse
	path := "/v1/pages/" + url.PathEscape(id) + "/permissions"
	if err := c.do(ctx, call{method: http.MethodGet, path: path}, &resp); err != nil {
		return nil, fmt.Errorf("failed to get permissions of page %s: %w", id, err)
	}

	return resp.Permissions, nil
}

// UpdatePage writes back a full page document.
func (c *Client) UpdatePage(ctx context.Context, id string, doc json.RawMessage) error {
	if err := c.do(ctx, call{method: http.MethodPut, path: "/v1/pages/" + url.PathEscape(id), body: doc}, nil); err != nil {
		return fmt.Errorf("failed to update page %s: %w", id, err)
	}

	return nil
}

func (c *Client) ActiveRuns(ctx context.Context) ([]portmodel.ActionRun, error) {
	var resp portmodel.ActionRunsResponse
	query := url.Values{"active": []string{"true"}}
	if err := c.do(ctx, call{method: http.MethodGet, path: "/v1/actions/runs", query: query}, &resp); err != nil {
		return nil, fmt.Errorf("failed to list active runs: %w", err)
	}

	return resp.Runs, nil
}

func (c *Client) UpdateRunStatus(ctx context.Context, runID, status string) error {
	body := map[string]string{"status": status}
	if err := c.do(ctx, call{method: http.MethodPatch, path: "/v1/actions/runs/" + url.PathEscape(runID), body: body}, nil); err != nil {
		return fmt.Errorf("failed to update run %s: %w", runID, err)
	}

	return nil
}

// ActionRun returns the current state of a single action run.
func (c *Client) ActionRun(ctx context.Context, runID string) (*portmodel.ActionRun, error) {
	var resp portmodel.ActionRunResponse
	if err := c.do(ctx, call{method: http.MethodGet, path: "/v1/actions/runs/" + url.PathEscape(runID)}, &resp); err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", runID, err)
	}

	return &resp.Run, nil
}

// RunEntityAction triggers a day-2 action on an entity and returns the created run.
func (c *Client) RunEntityAction(ctx context.Context, blueprint, entity, action string, properties map[string]any) (*portmodel.ActionRun, error) {
	path := "/v1/blueprints/" + url.PathEscape(blueprint) + "/entities/" + url.PathEscape(entity) +
		"/actions/" + url.PathEscape(action) + "/runs"
	if properties == nil {
		properties = map[string]any{}
	}
	body := map[string]any{"properties": properties}

	var resp portmodel.ActionRunResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: path, body: body}, &resp); err != nil {
		return nil, fmt.Errorf("failed to run action %s on %s/%s: %w", action, blueprint, entity, err)
	}

	return &resp.Run, nil
}

func (c *Client) PatchEntityProperties(ctx context.Context, blueprint, id string, properties map[string]any) error {
	path := "/v1/blueprints/" + url.PathEscape(blueprint) + "/entities/" + url.PathEscape(id)
	body := map[string]any{"properties": properties}
	if err := c.do(ctx, call{method: http.MethodPatch, path: path, body: body}, nil); err != nil {
		return fmt.Errorf("failed to patch entity %s/%s: %w", blueprint, id, err)
	}

	return nil
}

func (c *Client) DeleteEntity(ctx context.Context, blueprint, id string, deleteDependents bool) error {
	path := "/v1/blueprints/" + url.PathEscape(blueprint) + "/entities/" + url.PathEscape(id)
	var query url.Values
	if deleteDependents {
		query = url.Values{"delete_dependents": []string{"true"}}
	}
	if err := c.do(ctx, call{method: http.MethodDelete, path: path, query: query}, nil); err != nil {
		return fmt.Errorf("failed to delete entity %s/%s: %w", blueprint, id, err)
	}

	return nil
}

// EntityDocuments lists the full documents of every entity of a blueprint.
func (c *Client) EntityDocuments(ctx context.Context, blueprint string) ([]json.RawMessage, error) {
	var resp portmodel.EntityDocumentsResponse
	path := "/v1/blueprints/" + url.PathEscape(blueprint) + "/entities"
	if err := c.do(ctx, call{method: http.MethodGet, path: path}, &resp); err != nil {
		return nil, fmt.Errorf("failed to list entities of blueprint %s: %w", blueprint, err)
	}

	return resp.Entities, nil
}

// UpsertEntity creates or replaces an entity, creating missing related entities on the way.
func (c *Client) UpsertEntity(ctx context.Context, blueprint string, doc json.RawMessage) error {
	path := "/v1/blueprints/" + url.PathEscape(blueprint) + "/entities"
	query := url.Values{
		"upsert":                          []string{"true"},
		"validation_only":                 []string{"false"},
		"create_missing_related_entities": []string{"true"},
		"merge":                           []string{"false"},
	}
	if err := c.do(ctx, call{method: http.MethodPost, path: path, query: query, body: doc}, nil); err != nil {
		return fmt.Errorf("failed to upsert entity of blueprint %s: %w", blueprint, err)
	}

	return nil
}

func (c *Client) Users(ctx context.Context) ([]portmodel.User, error) {
	var resp portmodel.UsersResponse
	if err := c.do(ctx, call{method: http.MethodGet, path: "/v1/users"}, &resp); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return resp.Users, nil
}

func (c *Client) DeleteUser(ctx context.Context, email string) error {
	if err := c.do(ctx, call{method: http.MethodDelete, path: "/v1/users/" + url.PathEscape(email)}, nil); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", email, err)
	}

	return nil
}
