// Package adminclient calls the storefront's operator listener. The seed
// and importer commands use it so every cart change goes through the
// running storefront's live stores.
package adminclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

// SeedResult describes a seeded cart.
type SeedResult struct {
	ProfileID string          `json:"profile_id"`
	Lines     int             `json:"lines"`
	Units     int             `json:"units"`
	Total     decimal.Decimal `json:"total"`
}

// ImportResult reports an import.
type ImportResult struct {
	ProfileID string `json:"profile_id"`
	Added     int    `json:"added"`
	Skipped   int    `json:"skipped"`
	Units     int    `json:"units"`
}

// Error is a non-2xx answer from the admin listener.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("admin api: status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Seed replaces the cart of profileID with the demo cart. An empty
// profileID asks the storefront to issue a new profile.
func (c *Client) Seed(ctx context.Context, profileID string) (SeedResult, error) {
	path := "/admin/profiles/seed"
	if profileID != "" {
		path = "/admin/profiles/" + url.PathEscape(profileID) + "/seed"
	}
	var out SeedResult
	err := c.post(ctx, path, "", nil, &out)
	return out, err
}

// Import sends a merch CSV for profileID. The storefront adds nothing when
// any row is malformed.
func (c *Client) Import(ctx context.Context, profileID string, csv io.Reader) (ImportResult, error) {
	var out ImportResult
	err := c.post(ctx, "/admin/profiles/"+url.PathEscape(profileID)+"/import", "text/csv", csv, &out)
	return out, err
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &e) != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(raw))
		}
		return &Error{StatusCode: resp.StatusCode, Message: e.Error}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
