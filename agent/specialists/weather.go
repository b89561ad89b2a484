// Package specialists implements the weather, crop and finance domain
// handlers behind the contract.Specialist interface. Each produces a partial
// structured answer with a confidence score; the orchestration core treats
// the payloads as opaque.
package specialists

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	contractx "krishisetu/agent/contract"
	"krishisetu/pkg/weatherapi"
)

const defaultLocation = "Mumbai"

// WeatherProvider supplies observations and forecasts for a location.
// weatherapi.Client implements it against OpenWeatherMap; StaticWeather
// backs it with seasonal normals when no API key is configured.
type WeatherProvider interface {
	Current(ctx context.Context, location string) (weatherapi.Current, error)
	Forecast(ctx context.Context, location string) ([]weatherapi.ForecastEntry, error)
}

type Weather struct {
	provider WeatherProvider
	advisor  *Advisor
	keywords []string
}

func NewWeather(provider WeatherProvider, advisor *Advisor) *Weather {
	return &Weather{
		provider: provider,
		advisor:  advisor,
		keywords: []string{
			"weather", "temperature", "rain", "irrigation", "humidity",
			"forecast", "drought", "flood", "monsoon", "climate", "moisture",
			"मौसम", "बारिश", "सिंचाई",
		},
	}
}

func (w *Weather) Category() contractx.Category { return contractx.CategoryWeather }
func (w *Weather) Name() string { return "Weather Agent" }

func (w *Weather) Capabilities() []string {
	return []string{"Weather forecasting", "Irrigation advice", "Soil moisture analysis"}
}

func (w *Weather) Invoke(ctx context.Context, q contractx.Query, entities map[string]string) (contractx.SpecialistResult, error) {
	location := entities[contractx.ContextLocation]
	if location == "" {
		location = defaultLocation
	}

	current, err := w.provider.Current(ctx, location)
	if err != nil {
		return contractx.SpecialistResult{}, fmt.Errorf("fetch current weather for %s: %w", location, err)
	}
	forecast, err := w.provider.Forecast(ctx, location)
	if err != nil {
		return contractx.SpecialistResult{}, fmt.Errorf("fetch forecast for %s: %w", location, err)
	}

	data := map[string]any{
		"location":                  location,
		"current_weather":           current,
		"forecast":                  forecast,
		"irrigation_recommendation": analyzeIrrigation(current),
		"timestamp":                 time.Now().UTC().Format(time.RFC3339),
	}
	w.enrich(ctx, q.Text, data)

	return contractx.SpecialistResult{
		Category:   contractx.CategoryWeather,
		Source:     w.Name(),
		Confidence: keywordConfidence(q.Text, w.keywords),
		Data:       data,
		Outcome:    contractx.OutcomeSuccess,
	}, nil
}

func (w *Weather) enrich(ctx context.Context, query string, data map[string]any) {
	if w.advisor == nil {
		return
	}
	advisory, err := w.advisor.Advise(ctx,
		"You are an agricultural meteorologist advising Indian farmers on irrigation and weather risk.",
		query, data)
	if err != nil {
		log.Warn().Err(err).Str("specialist", w.Name()).Msg("advisory enrichment failed")
		return
	}
	data["advisory"] = advisory
}

// IrrigationAdvice is the weather specialist's irrigation verdict.
type IrrigationAdvice struct {
	Recommendation string `json:"recommendation"`
	Priority       string `json:"priority"`
	Reasoning      string `json:"reasoning"`
	NextIrrigation string `json:"next_irrigation"`
}

// analyzeIrrigation maps temperature and humidity bands to an irrigation
// recommendation. The bands mirror common agronomic guidance: hot and dry
// means irrigate now, mild and humid means hold off.
func analyzeIrrigation(cur weatherapi.Current) IrrigationAdvice {
	advice := IrrigationAdvice{
		Reasoning: fmt.Sprintf("Temperature: %.1f°C, Humidity: %.0f%%", cur.Temperature, cur.Humidity),
	}
	switch {
	case cur.Temperature > 30 && cur.Humidity < 50:
		advice.Recommendation = "High irrigation needed - high temperature and low humidity"
		advice.Priority = "High"
		advice.NextIrrigation = "Within 24 hours"
	case cur.Temperature > 25 && cur.Humidity < 60:
		advice.Recommendation = "Moderate irrigation recommended"
		advice.Priority = "Medium"
		advice.NextIrrigation = "Within 48 hours"
	default:
		advice.Recommendation = "Low irrigation needed - favorable conditions"
		advice.Priority = "Low"
		advice.NextIrrigation = "Within 72 hours"
	}
	return advice
}
