// Package weather wraps the third-party 5-day/3-hour forecast feed
// behind a small client. It returns raw samples; turning them into day
// summaries is the views package's job.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/daybook-app/daybook/config"
	"github.com/daybook-app/daybook/model"
)

// ErrProvider marks every failure originating at the forecast provider,
// whether the network, a non-success status or an undecodable body.
var ErrProvider = errors.New("forecast provider error")

// Client fetches the provider's forecast feed. Transient faults retry
// with exponential backoff; a 4xx answer is permanent and fails
// immediately.
type Client struct {
	baseURL    string
	apiKey     string
	units      string
	httpClient *http.Client
	maxRetries uint64

	// newBackOff is swappable so tests run with near-zero intervals.
	newBackOff func() backoff.BackOff
}

func NewClient(cfg config.WeatherConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		units:      cfg.Units,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 5 * time.Second
			return b
		},
	}
}

// forecastResponse mirrors the fields of the provider payload the
// journal consumes.
type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Main string `json:"main"`
			Icon string `json:"icon"`
		} `json:"weather"`
	} `json:"list"`
}

// Forecast fetches the 3-hour samples for city, in feed order.
func (c *Client) Forecast(ctx context.Context, city string) ([]model.ForecastSample, error) {
	u, err := url.Parse(c.baseURL + "/forecast")
	if err != nil {
		return nil, fmt.Errorf("%w: bad base url: %v", ErrProvider, err)
	}
	q := u.Query()
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", c.units)
	u.RawQuery = q.Encode()

	var samples []model.ForecastSample
	operation := func() error {
		var fetchErr error
		samples, fetchErr = c.fetch(ctx, u.String())
		return fetchErr
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return samples, nil
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]model.ForecastSample, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: %v", ErrProvider, err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: provider returned %d", ErrProvider, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, backoff.Permanent(fmt.Errorf("%w: provider returned %d", ErrProvider, resp.StatusCode))
	}

	var payload forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: decode response: %v", ErrProvider, err))
	}

	samples := make([]model.ForecastSample, 0, len(payload.List))
	for _, item := range payload.List {
		s := model.ForecastSample{
			Time: time.Unix(item.Dt, 0).UTC(),
			Temp: item.Main.Temp,
		}
		if len(item.Weather) > 0 {
			s.Condition = item.Weather[0].Main
			s.Icon = item.Weather[0].Icon
		}
		samples = append(samples, s)
	}
	return samples, nil
}
