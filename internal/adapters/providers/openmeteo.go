package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/madridistaai/madridista/internal/core/domain"
)

// OpenMeteo returns venue forecasts via the free Open-Meteo API. Cities
// are geocoded first, then the hourly forecast nearest kickoff is read.
type OpenMeteo struct {
	client  *http.Client
	baseURL string
	geoURL  string
}

func NewOpenMeteo(baseURL string) *OpenMeteo {
	if baseURL == "" {
		baseURL = "https://api.open-meteo.com/v1"
	}
	return &OpenMeteo{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
		geoURL:  "https://geocoding-api.open-meteo.com/v1",
	}
}

// Forecast returns the forecast for a city at the hour closest to at.
func (o *OpenMeteo) Forecast(ctx context.Context, city string, at time.Time) (*domain.Weather, error) {
	lat, lon, err := o.geocode(ctx, city)
	if err != nil {
		return nil, err
	}

	q := url.Values{
		"latitude":  {fmt.Sprintf("%.4f", lat)},
		"longitude": {fmt.Sprintf("%.4f", lon)},
		"hourly":    {"temperature_2m,precipitation,wind_speed_10m"},
		"timezone":  {"UTC"},
	}
	endpoint := o.baseURL + "/forecast?" + q.Encode()

	var payload struct {
		Hourly struct {
			Time          []string  `json:"time"`
			Temperature   []float64 `json:"temperature_2m"`
			Precipitation []float64 `json:"precipitation"`
			WindSpeed     []float64 `json:"wind_speed_10m"`
		} `json:"hourly"`
	}
	if err := o.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	if len(payload.Hourly.Time) == 0 {
		return nil, fmt.Errorf("no forecast data for %s", city)
	}

	// Pick the hour nearest kickoff; matches beyond the horizon get the
	// last available hour.
	best, bestDiff := 0, time.Duration(1<<62)
	for i, ts := range payload.Hourly.Time {
		t, err := time.Parse("2006-01-02T15:04", ts)
		if err != nil {
			continue
		}
		diff := t.Sub(at.UTC())
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			best, bestDiff = i, diff
		}
	}

	wx := &domain.Weather{
		TempC:         payload.Hourly.Temperature[best],
		Precipitation: payload.Hourly.Precipitation[best],
		WindKPH:       payload.Hourly.WindSpeed[best],
	}
	switch {
	case wx.Precipitation > 1:
		wx.Summary = "rain likely"
	case wx.WindKPH > 30:
		wx.Summary = "windy"
	default:
		wx.Summary = "fair"
	}
	return wx, nil
}

func (o *OpenMeteo) geocode(ctx context.Context, city string) (float64, float64, error) {
	endpoint := o.geoURL + "/search?count=1&name=" + url.QueryEscape(city)

	var payload struct {
		Results []struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := o.get(ctx, endpoint, &payload); err != nil {
		return 0, 0, err
	}
	if len(payload.Results) == 0 {
		return 0, 0, fmt.Errorf("city not found: %s", city)
	}
	return payload.Results[0].Latitude, payload.Results[0].Longitude, nil
}

func (o *OpenMeteo) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("open-meteo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("open-meteo returned status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
