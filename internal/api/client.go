package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kivo360/omoictl/models"
)

// DefaultTimeout bounds every backend request. Panels surface timeouts the
// same as any other save/load failure.
const DefaultTimeout = 15 * time.Second

// Client is the HTTP implementation of Provider.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ Provider = (*Client)(nil)

// NewClient returns a client for the backend at baseURL. token may be empty
// for unauthenticated deployments. A non-positive timeout falls back to
// DefaultTimeout.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		// FastAPI-style error bodies carry a "detail" field.
		_ = json.Unmarshal(raw, apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// GetSpecDrivenSettings fetches a project's spec-driven settings.
func (c *Client) GetSpecDrivenSettings(ctx context.Context, projectID string) (models.SpecDrivenSettings, error) {
	var out models.SpecDrivenSettings
	path := fmt.Sprintf("/api/v1/projects/%s/settings/spec-driven", url.PathEscape(projectID))
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// UpdateSpecDrivenSettings applies a partial settings update and returns the
// settings as stored.
func (c *Client) UpdateSpecDrivenSettings(ctx context.Context, projectID string, patch models.SpecDrivenSettingsPatch) (models.SpecDrivenSettings, error) {
	var out models.SpecDrivenSettings
	path := fmt.Sprintf("/api/v1/projects/%s/settings/spec-driven", url.PathEscape(projectID))
	err := c.do(ctx, http.MethodPatch, path, patch, &out)
	return out, err
}

// ResetSpecDrivenSettings restores a project's settings to backend defaults.
func (c *Client) ResetSpecDrivenSettings(ctx context.Context, projectID string) (models.SpecDrivenSettings, error) {
	var out models.SpecDrivenSettings
	path := fmt.Sprintf("/api/v1/projects/%s/settings/spec-driven/reset", url.PathEscape(projectID))
	err := c.do(ctx, http.MethodPost, path, nil, &out)
	return out, err
}

// ListSandboxResources fetches resource records for all active sandboxes.
func (c *Client) ListSandboxResources(ctx context.Context) ([]models.SandboxResource, error) {
	var out struct {
		Sandboxes []models.SandboxResource `json:"sandboxes"`
	}
	err := c.do(ctx, http.MethodGet, "/api/v1/resources/sandboxes", nil, &out)
	return out.Sandboxes, err
}

// GetSandboxResource fetches one sandbox's resource record.
func (c *Client) GetSandboxResource(ctx context.Context, sandboxID string) (models.SandboxResource, error) {
	var out models.SandboxResource
	path := fmt.Sprintf("/api/v1/resources/sandboxes/%s", url.PathEscape(sandboxID))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return out, err
	}
	if err := models.ValidateStruct(&out); err != nil {
		return out, fmt.Errorf("invalid resource payload: %w", err)
	}
	return out, nil
}

// GetResourceSummary fetches aggregate allocation and usage stats.
func (c *Client) GetResourceSummary(ctx context.Context) (models.ResourceSummary, error) {
	var out models.ResourceSummary
	err := c.do(ctx, http.MethodGet, "/api/v1/resources/summary", nil, &out)
	return out, err
}

// UpdateAllocation applies a partial allocation update to one sandbox and
// returns the record as stored.
func (c *Client) UpdateAllocation(ctx context.Context, sandboxID string, patch models.ResourceAllocationPatch) (models.SandboxResource, error) {
	var out models.SandboxResource
	path := fmt.Sprintf("/api/v1/resources/sandboxes/%s/allocation", url.PathEscape(sandboxID))
	err := c.do(ctx, http.MethodPatch, path, patch, &out)
	return out, err
}

// ListSpecs fetches spec summaries, optionally filtered by project.
func (c *Client) ListSpecs(ctx context.Context, projectID string) ([]models.Spec, error) {
	var out struct {
		Specs []models.Spec `json:"specs"`
	}
	path := "/api/v1/specs"
	if projectID != "" {
		path += "?project_id=" + url.QueryEscape(projectID)
	}
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out.Specs, err
}

// GetSpec fetches one spec summary.
func (c *Client) GetSpec(ctx context.Context, specID string) (models.Spec, error) {
	var out models.Spec
	path := fmt.Sprintf("/api/v1/specs/%s", url.PathEscape(specID))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return out, err
	}
	if err := models.ValidateStruct(&out); err != nil {
		return out, fmt.Errorf("invalid spec payload: %w", err)
	}
	return out, nil
}

// ListAgents fetches the registered agents.
func (c *Client) ListAgents(ctx context.Context) (models.AgentList, error) {
	var out models.AgentList
	err := c.do(ctx, http.MethodGet, "/api/v1/agents", nil, &out)
	return out, err
}
