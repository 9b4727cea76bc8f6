// Package fitbit wraps the Fitbit Web API endpoints the collector needs.
package fitbit

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrUnauthorized is returned when Fitbit rejects the access token. The
// collector reacts by attempting a refresh, then flagging the integration
// for reconnection.
var ErrUnauthorized = errors.New("fitbit: unauthorized")

// Client talks to the Fitbit Web API on behalf of one app registration.
type Client struct {
	http         *resty.Client
	tokenURL     string
	clientID     string
	clientSecret string
}

// NewClient creates a Fitbit API client.
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

// ActivitySummary is the daily activity rollup.
type ActivitySummary struct {
	Steps            int     `json:"steps"`
	CaloriesOut      int     `json:"caloriesOut"`
	ActivityCalories int     `json:"activityCalories"`
	RestingHeartRate int     `json:"restingHeartRate"`
	Elevation        float64 `json:"elevation"`
}

// DailyActivity is the response of the daily activity endpoint.
type DailyActivity struct {
	Summary ActivitySummary `json:"summary"`
}

// SleepSession is one logged sleep period.
type SleepSession struct {
	LogID         int64  `json:"logId"`
	StartTime     string `json:"startTime"` // 2024-01-15T23:10:00.000
	EndTime       string `json:"endTime"`
	MinutesAsleep int    `json:"minutesAsleep"`
	Efficiency    int    `json:"efficiency"`
	IsMainSleep   bool   `json:"isMainSleep"`
}

// SleepRange is the response of the sleep date-range endpoint.
type SleepRange struct {
	Sleep []SleepSession `json:"sleep"`
}

// HeartDay is one day of the heart rate time series.
type HeartDay struct {
	DateTime string `json:"dateTime"`
	Value    struct {
		RestingHeartRate int `json:"restingHeartRate"`
	} `json:"value"`
}

// HeartRate is the response of the heart rate time series endpoint.
type HeartRate struct {
	ActivitiesHeart []HeartDay `json:"activities-heart"`
}

// FoodLogEntry is one logged food item.
type FoodLogEntry struct {
	LogID      int64  `json:"logId"`
	LogDate    string `json:"logDate"` // YYYY-MM-DD
	LoggedFood struct {
		Name     string  `json:"name"`
		Brand    string  `json:"brand"`
		Calories float64 `json:"calories"`
	} `json:"loggedFood"`
	NutritionalValues struct {
		Calories float64 `json:"calories"`
		Protein  float64 `json:"protein"`
		Carbs    float64 `json:"carbs"`
		Fat      float64 `json:"fat"`
		Fiber    float64 `json:"fiber"`
		Sodium   float64 `json:"sodium"`
		Sugars   float64 `json:"sugars"`
	} `json:"nutritionalValues"`
}

// FoodLog is the response of the food log endpoint.
type FoodLog struct {
	Foods   []FoodLogEntry `json:"foods"`
	Summary struct {
		Calories float64 `json:"calories"`
	} `json:"summary"`
}

// TokenResponse is the OAuth token endpoint response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

func checkStatus(resp *resty.Response) error {
	if resp.StatusCode() == 401 {
		return ErrUnauthorized
	}
	if resp.IsError() {
		return fmt.Errorf("fitbit API error (status %d): %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// GetDailyActivity fetches the activity summary for one date (YYYY-MM-DD).
func (c *Client) GetDailyActivity(ctx context.Context, accessToken, date string) (*DailyActivity, error) {
	var out DailyActivity
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&out).
		Get(fmt.Sprintf("/1/user/-/activities/date/%s.json", date))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily activity: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSleepRange fetches sleep sessions overlapping [startDate, endDate].
// Uses the v1.2 sleep API, which reports stage-based sessions.
func (c *Client) GetSleepRange(ctx context.Context, accessToken, startDate, endDate string) (*SleepRange, error) {
	var out SleepRange
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&out).
		Get(fmt.Sprintf("/1.2/user/-/sleep/date/%s/%s.json", startDate, endDate))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sleep: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetHeartRate fetches the heart rate series for one date.
func (c *Client) GetHeartRate(ctx context.Context, accessToken, date string) (*HeartRate, error) {
	var out HeartRate
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&out).
		Get(fmt.Sprintf("/1/user/-/activities/heart/date/%s/1d.json", date))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch heart rate: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetFoodLog fetches logged foods for one date.
func (c *Client) GetFoodLog(ctx context.Context, accessToken, date string) (*FoodLog, error) {
	var out FoodLog
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&out).
		Get(fmt.Sprintf("/1/user/-/foods/log/date/%s.json", date))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch food log: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshToken exchanges a refresh token for a new token pair. Fitbit
// requires Basic auth with the app credentials.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	basic := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))

	var out TokenResponse
	resp, err := resty.New().SetTimeout(30 * time.Second).R().
		SetContext(ctx).
		SetHeader("Authorization", "Basic "+basic).
		SetFormData(map[string]string{
			"grant_type":    "refresh_token",
			"refresh_token": refreshToken,
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
		return nil, fmt.Errorf("fitbit token error (status %d): %s", resp.StatusCode(), resp.String())
	}
	return &out, nil
}
