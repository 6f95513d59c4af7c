// Package client is an HTTP client for the clearance API, used by the
// CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/lawtocode/clearance/internal/dcl"
	"github.com/lawtocode/clearance/internal/proof"
	"github.com/lawtocode/clearance/internal/store"
)

// Client is an HTTP client for the clearance API
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Parse sends law text to /v1/dcl/parse and returns the schema.
func (c *Client) Parse(ctx context.Context, lawTitle, lawText string) (*dcl.Schema, error) {
	var schema dcl.Schema
	err := c.post(ctx, "/v1/dcl/parse", map[string]any{
		"law_title": lawTitle,
		"law_text":  lawText,
	}, &schema)
	if err != nil {
		return nil, err
	}
	return &schema, nil
}

// Check runs a clearance check and returns the proof log.
func (c *Client) Check(ctx context.Context, lawTitle, lawText string, data any) (*proof.Log, error) {
	var logEntry proof.Log
	err := c.post(ctx, "/v1/clearance/check", map[string]any{
		"law_title": lawTitle,
		"law_text":  lawText,
		"data":      data,
	}, &logEntry)
	if err != nil {
		return nil, err
	}
	return &logEntry, nil
}

// ListProofs retrieves recent proof records.
func (c *Client) ListProofs(ctx context.Context, limit int) ([]store.ProofRecord, error) {
	u, err := url.Parse(c.BaseURL + "/v1/proofs")
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if limit > 0 {
		q := u.Query()
		q.Set("limit", strconv.Itoa(limit))
		u.RawQuery = q.Encode()
	}

	var out struct {
		Proofs []store.ProofRecord `json:"proofs"`
	}
	if err := c.get(ctx, u.String(), &out); err != nil {
		return nil, err
	}
	return out.Proofs, nil
}

// GetProof retrieves a stored proof record by hash.
func (c *Client) GetProof(ctx context.Context, hash string) (*store.ProofRecord, error) {
	var rec store.ProofRecord
	if err := c.get(ctx, c.BaseURL+"/v1/proofs/"+url.PathEscape(hash), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListUseCases retrieves all registered use cases.
func (c *Client) ListUseCases(ctx context.Context) ([]store.UseCase, error) {
	var out struct {
		UseCases []store.UseCase `json:"usecases"`
	}
	if err := c.get(ctx, c.BaseURL+"/v1/usecases", &out); err != nil {
		return nil, err
	}
	return out.UseCases, nil
}

// CreateUseCase registers a use case (requires the admin API key).
func (c *Client) CreateUseCase(ctx context.Context, params store.UseCaseParams) (*store.UseCase, error) {
	var uc store.UseCase
	if err := c.post(ctx, "/v1/usecases", params, &uc); err != nil {
		return nil, err
	}
	return &uc, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
