// Package weather fetches daily weather aggregates from an Open-Meteo
// compatible API. No API key is needed.
package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client talks to the weather API.
type Client struct {
	http *resty.Client
}

// NewClient creates a weather API client.
func NewClient(baseURL string) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetHeader("Accept", "application/json")

	return &Client{http: http}
}

type forecastResponse struct {
	Daily struct {
		Time                   []string  `json:"time"`
		Temperature2mMax       []float64 `json:"temperature_2m_max"`
		Temperature2mMin       []float64 `json:"temperature_2m_min"`
		PrecipitationSum       []float64 `json:"precipitation_sum"`
		RelativeHumidity2mMean []float64 `json:"relative_humidity_2m_mean"`
		SurfacePressureMean    []float64 `json:"surface_pressure_mean"`
		WeatherCode            []int     `json:"weather_code"`
	} `json:"daily"`
}

// Daily holds one day of weather aggregates.
type Daily struct {
	Date            string
	TemperatureHigh float64
	TemperatureLow  float64
	PrecipitationMM float64
	HumidityAvg     float64
	PressureHPA     float64
	WeatherCode     int
}

// GetDaily fetches the daily aggregates for one date at one location.
// The timezone parameter makes the API bucket the day in local time.
func (c *Client) GetDaily(ctx context.Context, latitude, longitude float64, date, timezone string) (*Daily, error) {
	var out forecastResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":   fmt.Sprintf("%.4f", latitude),
			"longitude":  fmt.Sprintf("%.4f", longitude),
			"daily":      "temperature_2m_max,temperature_2m_min,precipitation_sum,relative_humidity_2m_mean,surface_pressure_mean,weather_code",
			"timezone":   timezone,
			"start_date": date,
			"end_date":   date,
		}).
		SetResult(&out).
		Get("/v1/forecast")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weather: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("weather API error (status %d): %s", resp.StatusCode(), resp.String())
	}

	d := out.Daily
	if len(d.Time) == 0 {
		return nil, fmt.Errorf("weather API returned no data for %s", date)
	}

	daily := &Daily{Date: d.Time[0]}
	if len(d.Temperature2mMax) > 0 {
		daily.TemperatureHigh = d.Temperature2mMax[0]
	}
	if len(d.Temperature2mMin) > 0 {
		daily.TemperatureLow = d.Temperature2mMin[0]
	}
	if len(d.PrecipitationSum) > 0 {
		daily.PrecipitationMM = d.PrecipitationSum[0]
	}
	if len(d.RelativeHumidity2mMean) > 0 {
		daily.HumidityAvg = d.RelativeHumidity2mMean[0]
	}
	if len(d.SurfacePressureMean) > 0 {
		daily.PressureHPA = d.SurfacePressureMean[0]
	}
	if len(d.WeatherCode) > 0 {
		daily.WeatherCode = d.WeatherCode[0]
	}

	return daily, nil
}
