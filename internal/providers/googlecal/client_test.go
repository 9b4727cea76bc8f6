package googlecal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEventsPagination(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/calendars/primary/events", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("singleEvents"))
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pageToken") == "" {
			fmt.Fprint(w, `{"items":[{"id":"ev1","summary":"Standup","start":{"dateTime":"2025-03-10T08:30:00Z"},"end":{"dateTime":"2025-03-10T08:45:00Z"}}],"nextPageToken":"p2"}`)
			return
		}
		fmt.Fprint(w, `{"items":[{"id":"ev2","summary":"Offsite","start":{"date":"2025-03-11"},"end":{"date":"2025-03-12"}}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.URL+"/token", "id", "secret")
	events, err := client.ListEvents(context.Background(), "token",
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	require.Len(t, events, 2)
	assert.Equal(t, "Standup", events[0].Summary)
	assert.Empty(t, events[0].Start.Date)
	assert.Equal(t, "2025-03-11", events[1].Start.Date)
}

func TestListEventsUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.URL+"/token", "id", "secret")
	_, err := client.ListEvents(context.Background(), "stale", time.Now().Add(-time.Hour), time.Now())
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestRefreshTokenKeepsOldRefreshToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "id", r.FormValue("client_id"))
		w.Header().Set("Content-Type", "application/json")
		// Google does not echo the refresh token back
		fmt.Fprint(w, `{"access_token":"fresh","expires_in":3599}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.URL+"/token", "id", "secret")
	token, err := client.RefreshToken(context.Background(), "keep-me")
	require.NoError(t, err)

	assert.Equal(t, "fresh", token.AccessToken)
	assert.Equal(t, "keep-me", token.RefreshToken)
}
