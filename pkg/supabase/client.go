// Package supabase provides a generic PostgREST query client for the
// hosted relational store backing the Luna API.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to a Supabase project's REST and auth endpoints.
type Client struct {
	URL        string
	ServiceKey string
	HTTPClient *http.Client
}

// NewClient creates a new Supabase client authenticated with the service key.
func NewClient(url, serviceKey string) *Client {
	return &Client{
		URL:        url,
		ServiceKey: serviceKey,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) setAuth(req *http.Request) {
	req.Header.Set("apikey", c.ServiceKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.ServiceKey))
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("supabase error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// Query executes a filtered select on a table. Filter values use PostgREST
// operator syntax, e.g. {"user_id": "eq.<id>", "order": "recorded_at.desc"}.
func (c *Client) Query(ctx context.Context, table string, query map[string]interface{}) ([]byte, error) {
	url := fmt.Sprintf("%s/rest/v1/%s", c.URL, table)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	for key, value := range query {
		q.Add(key, fmt.Sprintf("%v", value))
	}
	req.URL.RawQuery = q.Encode()
	c.setAuth(req)

	return c.do(req)
}

// Insert inserts one record or a slice of records into a table.
func (c *Client) Insert(ctx context.Context, table string, data interface{}) ([]byte, error) {
	url := fmt.Sprintf("%s/rest/v1/%s", c.URL, table)

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}

	c.setAuth(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	return c.do(req)
}

// Upsert inserts records, merging with existing rows on conflict.
// onConflict names the unique columns, e.g. "user_id,external_id".
func (c *Client) Upsert(ctx context.Context, table string, data interface{}, onConflict string) ([]byte, error) {
	url := fmt.Sprintf("%s/rest/v1/%s", c.URL, table)

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}

	c.setAuth(req)
	req.Header.Set("Content-Type", "application/json")
	// resolution=merge-duplicates updates the existing row instead of erroring
	req.Header.Set("Prefer", "return=representation,resolution=merge-duplicates")

	q := req.URL.Query()
	q.Add("on_conflict", onConflict)
	req.URL.RawQuery = q.Encode()

	return c.do(req)
}

// UpdateWhere patches all records matching the filter.
func (c *Client) UpdateWhere(ctx context.Context, table string, query map[string]interface{}, data interface{}) ([]byte, error) {
	url := fmt.Sprintf("%s/rest/v1/%s", c.URL, table)

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	for key, value := range query {
		q.Add(key, fmt.Sprintf("%v", value))
	}
	req.URL.RawQuery = q.Encode()

	c.setAuth(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	return c.do(req)
}

// DeleteWhere deletes all records matching the filter.
func (c *Client) DeleteWhere(ctx context.Context, table string, query map[string]interface{}) error {
	url := fmt.Sprintf("%s/rest/v1/%s", c.URL, table)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}

	q := req.URL.Query()
	for key, value := range query {
		q.Add(key, fmt.Sprintf("%v", value))
	}
	req.URL.RawQuery = q.Encode()
	c.setAuth(req)

	_, err = c.do(req)
	return err
}

// Delete deletes a single record by id.
func (c *Client) Delete(ctx context.Context, table string, id string) error {
	return c.DeleteWhere(ctx, table, map[string]interface{}{"id": fmt.Sprintf("eq.%s", id)})
}

// User represents an authenticated Supabase user.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// VerifyToken validates a user JWT against the Supabase auth endpoint.
func (c *Client) VerifyToken(ctx context.Context, token string) (*User, error) {
	url := fmt.Sprintf("%s/auth/v1/user", c.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("apikey", c.ServiceKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}

	return &user, nil
}
