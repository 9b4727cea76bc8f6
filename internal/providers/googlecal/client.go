// Package googlecal wraps the Google Calendar events API.
package googlecal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrUnauthorized is returned when Google rejects the access token.
var ErrUnauthorized = errors.New("googlecal: unauthorized")

// Client talks to the Google Calendar API for one app registration.
type Client struct {
	http         *resty.Client
	tokenURL     string
	clientID     string
	clientSecret string
}

// NewClient creates a Google Calendar API client.
func NewClient(baseURL, tokenURL, clientID, clientSecret string) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetHeader("Accept", "application/json")

	return &Client{
		http:         http,
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// EventTime is either a timed instant or an all-day date.
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"` // RFC 3339
	Date     string `json:"date,omitempty"`     // YYYY-MM-DD, all-day
}

// Event is one calendar entry.
type Event struct {
	ID      string    `json:"id"`
	Summary string    `json:"summary"`
	Status  string    `json:"status"`
	Start   EventTime `json:"start"`
	End     EventTime `json:"end"`
}

// EventList is the events list response.
type EventList struct {
	Items         []Event `json:"items"`
	NextPageToken string  `json:"nextPageToken"`
}

// TokenResponse is the OAuth token endpoint response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// ListEvents fetches the primary calendar's events in [timeMin, timeMax],
// with recurring events expanded to single instances. Pagination is
// followed until exhausted.
func (c *Client) ListEvents(ctx context.Context, accessToken string, timeMin, timeMax time.Time) ([]Event, error) {
	var all []Event
	pageToken := ""

	for {
		params := map[string]string{
			"timeMin":      timeMin.Format(time.RFC3339),
			"timeMax":      timeMax.Format(time.RFC3339),
			"singleEvents": "true",
			"orderBy":      "startTime",
			"maxResults":   "250",
		}
		if pageToken != "" {
			params["pageToken"] = pageToken
		}

		var out EventList
		resp, err := c.http.R().
			SetContext(ctx).
			SetAuthToken(accessToken).
			SetQueryParams(params).
			SetResult(&out).
			Get("/calendars/primary/events")
		if err != nil {
			return nil, fmt.Errorf("failed to list events: %w", err)
		}
		if resp.StatusCode() == 401 {
			return nil, ErrUnauthorized
		}
		if resp.IsError() {
			return nil, fmt.Errorf("calendar API error (status %d): %s", resp.StatusCode(), resp.String())
		}

		all = append(all, out.Items...)
		if out.NextPageToken == "" {
			return all, nil
		}
		pageToken = out.NextPageToken
	}
}

// RefreshToken exchanges a refresh token for a new access token. Google
// omits the refresh token from the response; the caller keeps the old one.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	var out TokenResponse
	resp, err := resty.New().SetTimeout(30 * time.Second).R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    "refresh_token",
			"refresh_token": refreshToken,
			"client_id":     c.clientID,
			"client_secret": c.clientSecret,
		}).
		SetResult(&out).
		Post(c.tokenURL)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	if resp.StatusCode() == 400 || resp.StatusCode() == 401 {
		return nil, ErrUnauthorized
	}
	if resp.IsError() {
		return nil, fmt.Errorf("google token error (status %d): %s", resp.StatusCode(), resp.String())
	}
	if out.RefreshToken == "" {
		out.RefreshToken = refreshToken
	}
	return &out, nil
}
