// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

//go:build unit

package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/platform-engineering-labs/portctl/internal/port"
	pkgmodel "github.com/platform-engineering-labs/portctl/pkg/model"
)

type recorded struct {
	method string
	path   string
	query  string
	body   []byte
}

type fakeAPI struct {
	mu       sync.Mutex
	calls    []recorded
	mux      *http.ServeMux
	inFlight int
	peak     int
}

func newClient(t *testing.T, routes func(mux *http.ServeMux, api *fakeAPI)) (*port.Client, *fakeAPI) {
	t.Helper()

	api := &fakeAPI{mux: http.NewServeMux()}
	routes(api.mux, api)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		api.mu.Lock()
		api.calls = append(api.calls, recorded{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, body: body})
		api.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(body))
		api.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	cfg := pkgmodel.APIConfig{URL: server.URL, TeamBlueprint: pkgmodel.TeamBlueprintID, ActionsVersion: "v2"}
	client := port.NewClient(cfg, pkgmodel.Credentials{}, port.WithStaticToken("static"))
	t.Cleanup(func() { _ = client.Close() })

	return client, api
}

func (a *fakeAPI) writes(method string) []recorded {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []recorded
	for _, c := range a.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].path < out[j].path })

	return out
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
}

func TestCompleteActiveRuns_ContinuesPastFailures(t *testing.T) {
	client, api := newClient(t, func(mux *http.ServeMux, _ *fakeAPI) {
		mux.HandleFunc("GET /v1/actions/runs", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, `{"ok":true,"runs":[{"id":"r_1","status":"IN_PROGRESS"},{"id":"r_2"},{"id":"r_3"}]}`)
		})
		mux.HandleFunc("PATCH /v1/actions/runs/{id}", func(w http.ResponseWriter, r *http.Request) {
			if r.PathValue("id") == "r_2" {
				w.WriteHeader(http.StatusConflict)
				writeJSON(w, `{"ok":false,"error":"run_finished","message":"run already finished"}`)
				return
			}
			writeJSON(w, `{"ok":true}`)
		})
	})

	res, err := CompleteActiveRuns(context.Background(), client, DefaultRunStatus)
	require.NoError(t, err)

	assert.Equal(t, []string{"r_1", "r_3"}, res.Succeeded)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "r_2", res.Failed[0].ID)
	assert.Contains(t, res.Failed[0].Reason, "run already finished")

	patches := api.writes(http.MethodPatch)
	require.Len(t, patches, 3)
	for _, p := range patches {
		assert.JSONEq(t, `{"status":"SUCCESS"}`, string(p.body))
	}
	assert.Equal(t, "active=true", api.writes(http.MethodGet)[0].query)
}

func TestArrangePageOrder(t *testing.T) {
	current := []string{"services", "$catalog", "domains", "apis"}

	tests := []struct {
		name        string
		pinned      []string
		wantOrder   []string
		wantMissing []string
	}{
		{"alphabetical", nil, []string{"$catalog", "apis", "domains", "services"}, nil},
		{"pinned first", []string{"domains", "services"}, []string{"domains", "services", "$catalog", "apis"}, nil},
		{"unknown pinned", []string{"ghost", "apis"}, []string{"apis", "services", "$catalog", "domains"}, []string{"ghost"}},
		{"duplicate pinned", []string{"apis", "apis"}, []string{"apis", "services", "$catalog", "domains"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, missing := ArrangePageOrder(current, tt.pinned)
			assert.Equal(t, tt.wantOrder, order)
			assert.Equal(t, tt.wantMissing, missing)
		})
	}

	assert.Equal(t, []string{"services", "$catalog", "domains", "apis"}, current, "input is not modified")
}

func TestSortPageOrder_KeepsUnmodelledFields(t *testing.T) {
	client, api := newClient(t, func(mux *http.ServeMux, _ *fakeAPI) {
		mux.HandleFunc("GET /v1/organization", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, `{"ok":true,"organization":{"id":"org_1","name":"Acme","pageOrder":["b","a","c"],"settings":{"theme":"dark"}}}`)
		})
		mux.HandleFunc("PUT /v1/organization", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, `{"ok":true}`)
		})
	})

	order, err := SortPageOrder(context.Background(), client, []string{"c"})
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "b", "a"}, order.PageOrder)
	assert.Equal(t, "c", order.DefaultPage)

	puts := api.writes(http.MethodPut)
	require.Len(t, puts, 1)
	doc := gjson.ParseBytes(puts[0].body)
	assert.False(t, doc.Get("id").Exists())
	assert.Equal(t, "dark", doc.Get("settings.theme").String())
	assert.Equal(t, "Acme", doc.Get("name").String())
	assert.Equal(t, "c", doc.Get("defaultPage").String())
	assert.Equal(t, `["c","b","a"]`, doc.Get("pageOrder").Raw)
}

func TestSetPagesVisibility(t *testing.T) {
	client, api := newClient(t, func(mux *http.ServeMux, _ *fakeAPI) {
		mux.HandleFunc("GET /v1/pages", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, `{"ok":true,"pages":[
				{"identifier":"p1","title":"Services","type":"entities-table","widgets":[],"showInSidebar":true},
				{"identifier":"p2","title":"Other","type":"dashboard"}
			]}`)
		})
		mux.HandleFunc("PUT /v1/pages/{id}", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, `{"ok":true}`)
		})
	})

	res, err := SetPagesVisibility(context.Background(), client, []string{"Services", "Missing"}, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"p1"}, res.Succeeded)
	assert.Equal(t, []Outcome{{ID: "Missing", Reason: "no page with this title"}}, res.Skipped)

	puts := api.writes(http.MethodPut)
	require.Len(t, puts, 1)
	assert.Equal(t, "/v1/pages/p1", puts[0].path)
	doc := gjson.ParseBytes(puts[0].body)
	assert.False(t, doc.Get("showInSidebar").Bool())
	assert.Equal(t, "entities-table", doc.Get("type").String())
}

func TestParseUTCDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2023-04-05 10:11:12 UTC", time.Date(2023, 4, 5, 10, 11, 12, 0, time.UTC)},
		{"Wed Apr  5 10:11:12 UTC 2023", time.Date(2023, 4, 5, 10, 11, 12, 0, time.UTC)},
		{"Wed, 05 Apr 2023 10:11:12 UTC", time.Date(2023, 4, 5, 10, 11, 12, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := ParseUTCDate(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), tt.in)
	}

	_, err := ParseUTCDate("sometime UTC")
	assert.Error(t, err)
}

func TestFixEntityDates(t *testing.T) {
	client, api := newClient(t, func(mux *http.ServeMux, _ *fakeAPI) {
		mux.HandleFunc("POST /v1/entities/search", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, `{"ok":true,"entities":[
				{"identifier":"d1","properties":{"date":"2023-04-05 10:11:12 UTC"}},
				{"identifier":"d2","properties":{"date":"2023-04-05T10:11:12.000Z"}},
				{"identifier":"d3","properties":{"date":"garbage UTC"}},
				{"identifier":"d4","properties":{}}
			]}`)
		})
		mux.HandleFunc("PATCH /v1/blueprints/{bp}/entities/{id}", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, `{"ok":true}`)
		})
	})

	res, err := FixEntityDates(context.Background(), client, "deployment", "date")
	require.NoError(t, err)

	assert.Equal(t, []string{"d1"}, res.Succeeded)
	assert.Len(t, res.Skipped, 3)
	assert.Empty(t, res.Failed)

	patches := api.writes(http.MethodPatch)
	require.Len(t, patches, 1)
	assert.Equal(t, "/v1/blueprints/deployment/entities/d1", patches[0].path)
	assert.JSONEq(t, `{"properties":{"date":"2023-04-05T10:11:12.000Z"}}`, string(patches[0].body))

	search := api.writes(http.MethodPost)
	require.Len(t, search, 1)
	var body map[string]any
	require.NoError(t, json.Unmarshal(search[0].body, &body))
	assert.Equal(t, "and", body["combinator"])
}

func TestDeleteEntities_BoundedConcurrency(t *testing.T) {
	client, api := newClient(t, func(mux *http.ServeMux, api *fakeAPI) {
		mux.HandleFunc("POST /v1/entities/search", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, `{"ok":true,"entities":[{"identifier":"e1"},{"identifier":"e2"},{"identifier":"e3"},{"identifier":"e4"}]}`)
		})
		mux.HandleFunc("DELETE /v1/blueprints/{bp}/entities/{id}", func(w http.ResponseWriter, _ *http.Request) {
			api.mu.Lock()
			api.inFlight++
			if api.inFlight > api.peak {
				api.peak = api.inFlight
			}
			api.mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			api.mu.Lock()
			api.inFlight--
			api.mu.Unlock()
			writeJSON(w, `{"ok":true}`)
		})
	})

	res, err := DeleteEntities(context.Background(), client, []string{"pod", "node"}, true, 2)
	require.NoError(t, err)

	assert.Len(t, res.Succeeded, 8)
	assert.Contains(t, res.Succeeded, "pod/e1")
	assert.Contains(t, res.Succeeded, "node/e4")

	deletes := api.writes(http.MethodDelete)
	require.Len(t, deletes, 8)
	for _, d := range deletes {
		assert.Equal(t, "delete_dependents=true", d.query)
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.LessOrEqual(t, api.peak, 2)
}

func TestPurgeInvitedUsers(t *testing.T) {
	client, api := newClient(t, func(mux *http.ServeMux, _ *fakeAPI) {
		mux.HandleFunc("GET /v1/users", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, `{"ok":true,"users":[
				{"email":"active@acme.io","status":"ACTIVE"},
				{"email":"new@acme.io","status":"INVITED"}
			]}`)
		})
		mux.HandleFunc("DELETE /v1/users/{email}", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, `{"ok":true}`)
		})
	})

	res, err := PurgeInvitedUsers(context.Background(), client)
	require.NoError(t, err)

	assert.Equal(t, []string{"new@acme.io"}, res.Succeeded)
	deletes := api.writes(http.MethodDelete)
	require.Len(t, deletes, 1)
	assert.Equal(t, "/v1/users/new@acme.io", deletes[0].path)
}

func (a *fakeAPI) order() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]string, 0, len(a.calls))
	for _, c := range a.calls {
		out = append(out, c.method+" "+c.path)
	}

	return out
}

func TestCopyOrganization_CreatesShellsBeforePatching(t *testing.T) {
	src, _ := newClient(t, func(mux *http.ServeMux, _ *fakeAPI) {
		mux.HandleFunc("GET /v1/blueprints", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, `{"ok":true,"blueprints":[
				{"identifier":"service","relations":{"team":{"target":"team","many":false}},"mirrorProperties":{"lead":{"path":"team.lead"}}},
				{"identifier":"team","relations":{}}
			]}`)
		})
		mux.HandleFunc("GET /v1/blueprints/{bp}/entities", func(w http.ResponseWriter, r *http.Request) {
			if r.PathValue("bp") == "team" {
				writeJSON(w, `{"ok":true,"entities":[{"identifier":"platform","icon":null}]}`)
				return
			}
			writeJSON(w, `{"ok":true,"entities":[{"identifier":"api","icon":"Service"},{"identifier":"broken"}]}`)
		})
	})
	dst, api := newClient(t, func(mux *http.ServeMux, _ *fakeAPI) {
		mux.HandleFunc("POST /v1/blueprints", func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			if gjson.GetBytes(body, "identifier").String() == "team" {
				w.WriteHeader(http.StatusConflict)
				writeJSON(w, `{"ok":false,"error":"identifier_taken","message":"blueprint exists"}`)
				return
			}
			writeJSON(w, `{"ok":true}`)
		})
		mux.HandleFunc("PATCH /v1/blueprints/{id}", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, `{"ok":true}`)
		})
		mux.HandleFunc("POST /v1/blueprints/{bp}/entities", func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			if gjson.GetBytes(body, "identifier").String() == "broken" {
				w.WriteHeader(http.StatusUnprocessableEntity)
				writeJSON(w, `{"ok":false,"error":"invalid_entity","message":"missing required property"}`)
				return
			}
			writeJSON(w, `{"ok":true}`)
		})
	})

	res, err := CopyOrganization(context.Background(), src, dst, nil)
	require.NoError(t, err)

	assert.Equal(t, "blueprints copy", res.Operation)
	assert.Equal(t, []string{"service", "team", "service/api", "team/platform"}, res.Succeeded)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "service/broken", res.Failed[0].ID)
	assert.Contains(t, res.Failed[0].Reason, "missing required property")

	assert.Equal(t, []string{
		"POST /v1/blueprints",
		"POST /v1/blueprints",
		"PATCH /v1/blueprints/service",
		"PATCH /v1/blueprints/team",
		"POST /v1/blueprints/service/entities",
		"POST /v1/blueprints/service/entities",
		"POST /v1/blueprints/team/entities",
	}, api.order())

	posts := api.writes(http.MethodPost)
	var shell []byte
	for _, p := range posts {
		if p.path == "/v1/blueprints" && gjson.GetBytes(p.body, "identifier").String() == "service" {
			shell = p.body
		}
	}
	require.NotNil(t, shell)
	assert.JSONEq(t, `{}`, gjson.GetBytes(shell, "relations").Raw)
	assert.JSONEq(t, `{}`, gjson.GetBytes(shell, "mirrorProperties").Raw)

	patches := api.writes(http.MethodPatch)
	assert.Equal(t, "team", gjson.GetBytes(patches[0].body, "relations.team.target").String())
	assert.Equal(t, "team.lead", gjson.GetBytes(patches[0].body, "mirrorProperties.lead.path").String())

	for _, p := range posts {
		if p.path != "/v1/blueprints/team/entities" {
			continue
		}
		assert.False(t, gjson.GetBytes(p.body, "icon").Exists())
		assert.Equal(t, "upsert=true&validation_only=false&create_missing_related_entities=true&merge=false", sortedQuery(p.query))
	}
}

func sortedQuery(raw string) string {
	order := []string{"upsert", "validation_only", "create_missing_related_entities", "merge"}
	values, _ := url.ParseQuery(raw)
	parts := make([]string, 0, len(order))
	for _, k := range order {
		parts = append(parts, k+"="+values.Get(k))
	}

	return strings.Join(parts, "&")
}

func TestCopyOrganization_SelectedBlueprints(t *testing.T) {
	src, _ := newClient(t, func(mux *http.ServeMux, _ *fakeAPI) {
		mux.HandleFunc("GET /v1/blueprints", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, `{"ok":true,"blueprints":[{"identifier":"service"},{"identifier":"team"}]}`)
		})
		mux.HandleFunc("GET /v1/blueprints/{bp}/entities", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, `{"ok":true,"entities":[]}`)
		})
	})
	dst, api := newClient(t, func(mux *http.ServeMux, _ *fakeAPI) {
		mux.HandleFunc("POST /v1/blueprints", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, `{"ok":true}`)
		})
		mux.HandleFunc("PATCH /v1/blueprints/{id}", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, `{"ok":true}`)
		})
	})

	res, err := CopyOrganization(context.Background(), src, dst, []string{"team", "cluster"})
	require.NoError(t, err)

	assert.Equal(t, []string{"team"}, res.Succeeded)
	assert.Equal(t, []Outcome{{ID: "cluster", Reason: "blueprint does not exist in the source organization"}}, res.Skipped)
	assert.Equal(t, []string{"POST /v1/blueprints", "PATCH /v1/blueprints/team"}, api.order())
}

func TestCopyOrganization_FailedCreateSkipsLaterPhases(t *testing.T) {
	src, srcAPI := newClient(t, func(mux *http.ServeMux, _ *fakeAPI) {
		mux.HandleFunc("GET /v1/blueprints", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, `{"ok":true,"blueprints":[{"identifier":"service"}]}`)
		})
	})
	dst, api := newClient(t, func(mux *http.ServeMux, _ *fakeAPI) {
		mux.HandleFunc("POST /v1/blueprints", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			writeJSON(w, `{"ok":false,"error":"invalid_blueprint","message":"bad schema"}`)
		})
	})

	res, err := CopyOrganization(context.Background(), src, dst, nil)
	require.NoError(t, err)

	require.Len(t, res.Failed, 1)
	assert.Equal(t, "service", res.Failed[0].ID)
	assert.Empty(t, res.Succeeded)
	assert.Empty(t, api.writes(http.MethodPatch))
	assert.Equal(t, []string{"GET /v1/blueprints"}, srcAPI.order())
}

type runScript struct {
	mu       sync.Mutex
	pending  map[string]int
	final    map[string]string
	polls    map[string]int
	started  []string
	runOfEnt map[string]string
}

func (s *runScript) routes(mux *http.ServeMux, _ *fakeAPI) {
	mux.HandleFunc("POST /v1/blueprints/{bp}/entities/{entity}/actions/{action}/runs", func(w http.ResponseWriter, r *http.Request) {
		entity := r.PathValue("entity")
		s.mu.Lock()
		runID, ok := s.runOfEnt[entity]
		s.started = append(s.started, entity)
		s.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, `{"ok":false,"error":"not_found","message":"entity not found"}`)
			return
		}
		writeJSON(w, `{"ok":true,"run":{"id":"`+runID+`","status":"IN_PROGRESS"}}`)
	})
	mux.HandleFunc("GET /v1/actions/runs/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		s.mu.Lock()
		defer s.mu.Unlock()
		final, ok := s.final[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, `{"ok":false,"error":"not_found","message":"run not found"}`)
			return
		}
		s.polls[id]++
		status := final
		if s.polls[id] <= s.pending[id] {
			status = "IN_PROGRESS"
		}
		writeJSON(w, `{"ok":true,"run":{"id":"`+id+`","status":"`+status+`"}}`)
	})
}

func newRunScript() *runScript {
	return &runScript{
		pending:  map[string]int{},
		final:    map[string]string{},
		polls:    map[string]int{},
		runOfEnt: map[string]string{},
	}
}

func TestRunEntityActions_WaitStopsAtFirstUnsuccessfulRun(t *testing.T) {
	script := newRunScript()
	script.runOfEnt = map[string]string{"acme": "r_1", "globex": "r_2", "initech": "r_3"}
	script.final = map[string]string{"r_1": "SUCCESS", "r_2": "FAILURE", "r_3": "SUCCESS"}
	script.pending = map[string]int{"r_1": 2, "r_2": 1}
	client, api := newClient(t, script.routes)

	res, err := RunEntityActions(context.Background(), client, ActionRequest{
		Blueprint:    "organization",
		Action:       "delete_org",
		Properties:   map[string]any{"reason": "Deleted by script"},
		Wait:         true,
		PollInterval: time.Millisecond,
	}, []string{"acme", "globex", "initech"})
	require.NoError(t, err)

	assert.Equal(t, []string{"acme"}, res.Succeeded)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "globex", res.Failed[0].ID)
	assert.Contains(t, res.Failed[0].Reason, "run r_2 ended with status FAILURE")
	assert.Equal(t, []Outcome{{ID: "initech", Reason: "not started after globex failed"}}, res.Skipped)

	script.mu.Lock()
	defer script.mu.Unlock()
	assert.Equal(t, []string{"acme", "globex"}, script.started)
	assert.Equal(t, 3, script.polls["r_1"])

	posts := api.writes(http.MethodPost)
	assert.JSONEq(t, `{"properties":{"reason":"Deleted by script"}}`, string(posts[0].body))
}

func TestRunEntityActions_WithoutWaitStartsEveryEntity(t *testing.T) {
	script := newRunScript()
	script.runOfEnt = map[string]string{"acme": "r_1", "initech": "r_3"}
	client, _ := newClient(t, script.routes)

	res, err := RunEntityActions(context.Background(), client, ActionRequest{Blueprint: "organization", Action: "delete_org"},
		[]string{"acme", "globex", "initech"})
	require.NoError(t, err)

	assert.Equal(t, []string{"acme", "initech"}, res.Succeeded)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "globex", res.Failed[0].ID)
	assert.Empty(t, res.Skipped)

	script.mu.Lock()
	defer script.mu.Unlock()
	assert.Empty(t, script.polls)
}

func TestWaitForRuns(t *testing.T) {
	script := newRunScript()
	script.final = map[string]string{"r_1": "SUCCESS", "r_2": "FAILURE"}
	script.pending = map[string]int{"r_1": 1}
	client, _ := newClient(t, script.routes)

	res, err := WaitForRuns(context.Background(), client, []string{"r_1", "r_2", "r_missing"}, time.Millisecond)
	require.NoError(t, err)

	assert.Equal(t, "runs wait", res.Operation)
	assert.Equal(t, []string{"r_1"}, res.Succeeded)
	require.Len(t, res.Failed, 2)
	assert.Equal(t, "r_2", res.Failed[0].ID)
	assert.Equal(t, "r_missing", res.Failed[1].ID)
	assert.Contains(t, res.Failed[1].Reason, "run not found")
}

func TestWaitForRun_StopsWhenContextEnds(t *testing.T) {
	script := newRunScript()
	script.final = map[string]string{"r_1": "SUCCESS"}
	script.pending = map[string]int{"r_1": 1 << 20}
	client, _ := newClient(t, script.routes)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := WaitForRun(ctx, client, "r_1", 5*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
