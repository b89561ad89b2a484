// Package weatherapi is a minimal OpenWeatherMap client covering the two
// calls the weather specialist needs: current conditions and the short-range
// forecast.
package weatherapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxResponseBytes = 1 << 20

type Config struct {
	BaseURL string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.openweathermap.org/data/2.5"`
	APIKey  string        `envconfig:"API_KEY" split_words:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// Current is an observation for a single location.
type Current struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Description string  `json:"description"`
	WindSpeed   float64 `json:"wind_speed"`
	Pressure    float64 `json:"pressure"`
}

// ForecastEntry is one three-hour slot of the short-range forecast.
type ForecastEntry struct {
	Time        string  `json:"time"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Description string  `json:"description"`
	Rainfall    float64 `json:"rainfall"`
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("weatherapi: api key is required")
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		http:    &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type conditionsPayload struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain struct {
		ThreeHour float64 `json:"3h"`
	} `json:"rain"`
	DtTxt string `json:"dt_txt"`
}

type forecastPayload struct {
	List []conditionsPayload `json:"list"`
}

func (c *Client) Current(ctx context.Context, location string) (Current, error) {
	var payload conditionsPayload
	if err := c.get(ctx, "/weather", location, &payload); err != nil {
		return Current{}, err
	}
	return Current{
		Temperature: payload.Main.Temp,
		Humidity:    payload.Main.Humidity,
		Description: description(payload),
		WindSpeed:   payload.Wind.Speed,
		Pressure:    payload.Main.Pressure,
	}, nil
}

// Forecast returns up to eight three-hour slots, covering the next 24 hours.
func (c *Client) Forecast(ctx context.Context, location string) ([]ForecastEntry, error) {
	var payload forecastPayload
	if err := c.get(ctx, "/forecast", location, &payload); err != nil {
		return nil, err
	}

	slots := payload.List
	if len(slots) > 8 {
		slots = slots[:8]
	}
	entries := make([]ForecastEntry, 0, len(slots))
	for _, slot := range slots {
		entries = append(entries, ForecastEntry{
			Time:        slot.DtTxt,
			Temperature: slot.Main.Temp,
			Humidity:    slot.Main.Humidity,
			Description: description(slot),
			Rainfall:    slot.Rain.ThreeHour,
		})
	}
	return entries, nil
}

func (c *Client) get(ctx context.Context, path, location string, out any) error {
	query := url.Values{}
	query.Set("q", location)
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("weatherapi: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("weatherapi: %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("weatherapi: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("weatherapi: %s: unexpected status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("weatherapi: decode response: %w", err)
	}
	return nil
}

func description(p conditionsPayload) string {
	if len(p.Weather) == 0 {
		return ""
	}
	return p.Weather[0].Description
}
