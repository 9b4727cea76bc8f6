package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDaily(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		assert.Equal(t, "52.5200", r.URL.Query().Get("latitude"))
		assert.Equal(t, "Europe/Berlin", r.URL.Query().Get("timezone"))
		assert.Equal(t, "2025-03-10", r.URL.Query().Get("start_date"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"daily":{
			"time":["2025-03-10"],
			"temperature_2m_max":[11.4],
			"temperature_2m_min":[3.2],
			"precipitation_sum":[0.6],
			"relative_humidity_2m_mean":[71],
			"surface_pressure_mean":[1009.3],
			"weather_code":[61]
		}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	daily, err := client.GetDaily(context.Background(), 52.52, 13.405, "2025-03-10", "Europe/Berlin")
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", daily.Date)
	assert.Equal(t, 11.4, daily.TemperatureHigh)
	assert.Equal(t, 1009.3, daily.PressureHPA)
	assert.Equal(t, 61, daily.WeatherCode)
}

func TestGetDailyNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"daily":{"time":[]}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.GetDaily(context.Background(), 0, 0, "2025-03-10", "UTC")
	assert.Error(t, err)
}
