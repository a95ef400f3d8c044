// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wandb reads runs from a Weights & Biases server through its
// GraphQL API.
package wandb

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/context/ctxhttp"
	"golang.org/x/oauth2"

	"github.com/rlperf/runstat/runfmt"
	"github.com/rlperf/runstat/storage"
)

// DefaultBaseURL is the public W&B API server.
const DefaultBaseURL = "https://api.wandb.ai"

// DefaultPerPage is the page size used when Client.PerPage is zero.
const DefaultPerPage = 50

// A Client queries a W&B server. The zero Client queries
// DefaultBaseURL without credentials.
type Client struct {
	// BaseURL is the server URL, without the /graphql suffix.
	BaseURL string

	// APIKey is sent as HTTP basic credentials for user "api".
	APIKey string

	// HTTPClient is used for requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client

	// PerPage is the number of runs fetched per request.
	PerPage int

	// History requests up to HistorySamples per-step samples with
	// each run.
	History        bool
	HistorySamples int

	// Logger receives a debug message per page. If nil, nothing is
	// logged.
	Logger *zap.Logger
}

// An APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return "wandb: " + e.Status
	}
	return fmt.Sprintf("wandb: %s: %s", e.Status, e.Body)
}

const runsQuery = `query Runs($entity: String!, $project: String!, $cursor: String, $perPage: Int!, $samples: Int, $withHistory: Boolean!) {
  project(name: $project, entityName: $entity) {
    runs(after: $cursor, first: $perPage) {
      edges {
        node {
          name
          displayName
          state
          summaryMetrics
          history(samples: $samples) @include(if: $withHistory)
        }
        cursor
      }
      pageInfo {
        endCursor
        hasNextPage
      }
    }
  }
}`

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type response struct {
	Data struct {
		Project *struct {
			Runs struct {
				Edges []struct {
					Node node `json:"node"`
				} `json:"edges"`
				PageInfo struct {
					EndCursor   string `json:"endCursor"`
					HasNextPage bool   `json:"hasNextPage"`
				} `json:"pageInfo"`
			} `json:"runs"`
		} `json:"project"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type node struct {
	Name           string   `json:"name"`
	DisplayName    string   `json:"displayName"`
	State          string   `json:"state"`
	SummaryMetrics string   `json:"summaryMetrics"`
	History        []string `json:"history"`
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c *Client) httpClient(ctx context.Context) *http.Client {
	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	if c.APIKey == "" {
		return hc
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: base64.StdEncoding.EncodeToString([]byte("api:" + c.APIKey)),
		TokenType:   "Basic",
	})
	return oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, hc), ts)
}

// Query returns the runs of the project named by path, which has the
// form "entity/project". Pages are fetched as the query advances.
func (c *Client) Query(ctx context.Context, path string) *storage.Query {
	entity, project, ok := strings.Cut(path, "/")
	if !ok || entity == "" || project == "" || strings.Contains(project, "/") {
		return storage.ErrQuery(fmt.Errorf("wandb: bad path %q, want entity/project", path))
	}
	hc := c.httpClient(ctx)

	var (
		buf    []*runfmt.Run
		cursor string
		more   = true
		page   int
	)
	return storage.NewQuery(func() (*runfmt.Run, error) {
		for len(buf) == 0 {
			if !more {
				return nil, io.EOF
			}
			var err error
			buf, cursor, more, err = c.fetch(ctx, hc, entity, project, cursor)
			if err != nil {
				return nil, err
			}
			page++
			c.logger().Debug("fetched runs", zap.String("path", path), zap.Int("page", page), zap.Int("runs", len(buf)))
		}
		run := buf[0]
		buf = buf[1:]
		return run, nil
	}, nil)
}

// fetch requests one page of runs starting after cursor.
func (c *Client) fetch(ctx context.Context, hc *http.Client, entity, project, cursor string) (runs []*runfmt.Run, next string, more bool, err error) {
	perPage := c.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	vars := map[string]any{
		"entity":      entity,
		"project":     project,
		"perPage":     perPage,
		"withHistory": c.History,
	}
	if cursor != "" {
		vars["cursor"] = cursor
	}
	if c.History && c.HistorySamples > 0 {
		vars["samples"] = c.HistorySamples
	}
	body, err := json.Marshal(request{Query: runsQuery, Variables: vars})
	if err != nil {
		return nil, "", false, err
	}

	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	resp, err := ctxhttp.Post(ctx, hc, strings.TrimSuffix(base, "/")+"/graphql", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, "", false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return nil, "", false, &APIError{resp.StatusCode, resp.Status, strings.TrimSpace(string(msg))}
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, "", false, fmt.Errorf("wandb: decoding response: %w", err)
	}
	if len(r.Errors) > 0 {
		msgs := make([]string, len(r.Errors))
		for i, e := range r.Errors {
			msgs[i] = e.Message
		}
		return nil, "", false, fmt.Errorf("wandb: %s", strings.Join(msgs, "; "))
	}
	if r.Data.Project == nil {
		return nil, "", false, fmt.Errorf("wandb: project %s/%s not found", entity, project)
	}

	rs := r.Data.Project.Runs
	for _, e := range rs.Edges {
		run, err := e.Node.run()
		if err != nil {
			return nil, "", false, err
		}
		runs = append(runs, run)
	}
	return runs, rs.PageInfo.EndCursor, rs.PageInfo.HasNextPage, nil
}

// run converts a GraphQL run node to a Run.
func (n *node) run() (*runfmt.Run, error) {
	run := &runfmt.Run{Name: n.DisplayName, State: runfmt.State(n.State)}
	if run.Name == "" {
		run.Name = n.Name
	}
	if n.SummaryMetrics != "" {
		if err := decodeJSON(n.SummaryMetrics, &run.Summary); err != nil {
			return nil, fmt.Errorf("wandb: run %s: summary: %w", n.Name, err)
		}
	}
	for _, h := range n.History {
		var step map[string]any
		if err := decodeJSON(h, &step); err != nil {
			return nil, fmt.Errorf("wandb: run %s: history: %w", n.Name, err)
		}
		run.History = append(run.History, step)
	}
	return run, nil
}

func decodeJSON(s string, v any) error {
	d := json.NewDecoder(strings.NewReader(s))
	d.UseNumber()
	return d.Decode(v)
}
