package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ExchangeRate converts transfer fees through the exchangerate.host API.
type ExchangeRate struct {
	client  *http.Client
	baseURL string
}

func NewExchangeRate(baseURL string) *ExchangeRate {
	if baseURL == "" {
		baseURL = "https://api.exchangerate.host"
	}
	return &ExchangeRate{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
	}
}

// Convert converts an amount between two ISO currency codes.
func (e *ExchangeRate) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	q := url.Values{
		"from":   {from},
		"to":     {to},
		"amount": {fmt.Sprintf("%f", amount)},
	}
	endpoint := e.baseURL + "/convert?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("exchangerate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("exchangerate returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Success bool     `json:"success"`
		Result  *float64 `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	if !payload.Success || payload.Result == nil {
		return 0, fmt.Errorf("conversion %s->%s failed", from, to)
	}
	return *payload.Result, nil
}
