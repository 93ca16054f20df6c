// Package client is a typed Go client for the LangChain Flow API,
// including a polling watcher for live run observation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client talks to the REST API. The zero value is not usable; construct
// with New.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the bearer token up front.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken swaps the bearer token, e.g. after Login or a refresh.
func (c *Client) SetToken(token string) { c.token = token }

// APIError is a non-2xx response surfaced to the caller.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return &APIError{StatusCode: res.StatusCode, Message: "undecodable response"}
	}
	if res.StatusCode >= 400 || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(res.StatusCode)
		}
		return &APIError{StatusCode: res.StatusCode, Message: msg}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// TokenPair mirrors the API's token response.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// User is the API's user resource.
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

type authResponse struct {
	User   *User      `json:"user"`
	Tokens *TokenPair `json:"tokens"`
}

// Login authenticates and installs the access token on the client.
func (c *Client) Login(ctx context.Context, username, password string) (*User, *TokenPair, error) {
	var out authResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &out)
	if err != nil {
		return nil, nil, err
	}
	if out.Tokens != nil {
		c.token = out.Tokens.AccessToken
	}
	return out.User, out.Tokens, nil
}

// Register creates an account and installs the access token.
func (c *Client) Register(ctx context.Context, username, email, password string) (*User, *TokenPair, error) {
	var out authResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, nil, err
	}
	if out.Tokens != nil {
		c.token = out.Tokens.AccessToken
	}
	return out.User, out.Tokens, nil
}

// Project is the API's project resource.
type Project struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	GithubRepo  string    `json:"githubRepo"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Run is the API's run resource.
type Run struct {
	ID          uuid.UUID      `json:"id"`
	ProjectID   uuid.UUID      `json:"projectId"`
	Name        string         `json:"name"`
	Status      string         `json:"status"`
	TriggerType string         `json:"triggerType"`
	Config      map[string]any `json:"config"`
	StartedAt   *time.Time     `json:"startedAt"`
	CompletedAt *time.Time     `json:"completedAt"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// Terminal reports whether the run reached a final status.
func (r *Run) Terminal() bool {
	switch r.Status {
	case "completed", "failed", "cancelled":
		return true
	}
	return false
}

// LogEntry is the API's log resource.
type LogEntry struct {
	ID        uuid.UUID      `json:"id"`
	ProjectID uuid.UUID      `json:"projectId"`
	RunID     *uuid.UUID     `json:"runId"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"metadata"`
	Source    string         `json:"source"`
	Timestamp time.Time      `json:"timestamp"`
}

func (c *Client) CreateProject(ctx context.Context, name, description string) (*Project, error) {
	var out Project
	err := c.do(ctx, http.MethodPost, "/api/projects", map[string]string{
		"name":        name,
		"description": description,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var out []Project
	if err := c.do(ctx, http.MethodGet, "/api/projects", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateRun queues a new run for a project.
func (c *Client) CreateRun(ctx context.Context, projectID uuid.UUID, name, triggerType string, config map[string]any) (*Run, error) {
	var out Run
	err := c.do(ctx, http.MethodPost, "/api/runs", map[string]any{
		"projectId":   projectID.String(),
		"name":        name,
		"triggerType": triggerType,
		"config":      config,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var out Run
	if err := c.do(ctx, http.MethodGet, "/api/runs/"+url.PathEscape(runID.String()), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var out Run
	if err := c.do(ctx, http.MethodPost, "/api/runs/"+url.PathEscape(runID.String())+"/cancel", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RunLogs returns the run's log entries in event order.
func (c *Client) RunLogs(ctx context.Context, runID uuid.UUID) ([]LogEntry, error) {
	var out []LogEntry
	if err := c.do(ctx, http.MethodGet, "/api/runs/"+url.PathEscape(runID.String())+"/logs", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GraphNode is one step of a run's execution graph.
type GraphNode struct {
	ID       uuid.UUID      `json:"id"`
	RunID    uuid.UUID      `json:"runId"`
	NodeID   string         `json:"nodeId"`
	Label    string         `json:"label"`
	Type     string         `json:"type"`
	Status   string         `json:"status"`
	Metadata map[string]any `json:"metadata"`
}

// GraphEdge is a transition between two node ids of the same run.
type GraphEdge struct {
	ID           uuid.UUID `json:"id"`
	RunID        uuid.UUID `json:"runId"`
	SourceNodeID string    `json:"sourceNodeId"`
	TargetNodeID string    `json:"targetNodeId"`
	Type         string    `json:"type"`
}

// Graph is a run's node/edge snapshot.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// RunGraph returns the run's current graph snapshot.
func (c *Client) RunGraph(ctx context.Context, runID uuid.UUID) (*Graph, error) {
	var out Graph
	if err := c.do(ctx, http.MethodGet, "/api/runs/"+url.PathEscape(runID.String())+"/graph", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CostBreakdown is the per service+model slice of a cost summary.
type CostBreakdown struct {
	Service string  `json:"service"`
	Model   string  `json:"model"`
	Tokens  int64   `json:"tokens"`
	Cost    float64 `json:"cost"`
}

// CostSummary aggregates a run's spend.
type CostSummary struct {
	RunID       uuid.UUID       `json:"runId"`
	TotalCost   float64         `json:"totalCost"`
	TotalTokens int64           `json:"totalTokens"`
	EventCount  int             `json:"eventCount"`
	Breakdown   []CostBreakdown `json:"breakdown"`
	TopSpenders []CostBreakdown `json:"topSpenders"`
}

// RunCostSummary fetches the server-side cost aggregation for one run.
func (c *Client) RunCostSummary(ctx context.Context, runID uuid.UUID) (*CostSummary, error) {
	var out CostSummary
	if err := c.do(ctx, http.MethodGet, "/api/runs/"+url.PathEscape(runID.String())+"/costs/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
