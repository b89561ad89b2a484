package specialists

import (
	"context"
	"errors"
	"testing"

	contractx "krishisetu/agent/contract"
	"krishisetu/pkg/weatherapi"
)

type fakeProvider struct {
	current     weatherapi.Current
	forecast    []weatherapi.ForecastEntry
	currentErr  error
	forecastErr error
	lastLoc     string
}

func (f *fakeProvider) Current(ctx context.Context, location string) (weatherapi.Current, error) {
	f.lastLoc = location
	return f.current, f.currentErr
}

func (f *fakeProvider) Forecast(ctx context.Context, location string) ([]weatherapi.ForecastEntry, error) {
	return f.forecast, f.forecastErr
}

func TestWeatherInvoke(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		current: weatherapi.Current{Temperature: 32, Humidity: 45, Description: "clear sky"},
		forecast: []weatherapi.ForecastEntry{
			{Time: "2026-08-27 09:00:00", Temperature: 31, Humidity: 50},
		},
	}
	w := NewWeather(provider, nil)

	res, err := w.Invoke(context.Background(),
		contractx.Query{Text: "do I need irrigation today"},
		map[string]string{contractx.ContextLocation: "Nagpur"})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	if res.Outcome != contractx.OutcomeSuccess {
		t.Fatalf("outcome = %s", res.Outcome)
	}
	if provider.lastLoc != "Nagpur" {
		t.Fatalf("provider got location %q, want Nagpur", provider.lastLoc)
	}
	if res.Confidence <= 0 || res.Confidence > 1 {
		t.Fatalf("confidence = %f out of range", res.Confidence)
	}

	advice, ok := res.Data["irrigation_recommendation"].(IrrigationAdvice)
	if !ok {
		t.Fatalf("irrigation_recommendation missing: %v", res.Data)
	}
	if advice.Priority != "High" {
		t.Fatalf("priority = %s, want High for 32°C and 45%% humidity", advice.Priority)
	}
}

func TestWeatherInvokeDefaultsLocation(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{current: weatherapi.Current{Temperature: 22, Humidity: 70}}
	w := NewWeather(provider, nil)

	if _, err := w.Invoke(context.Background(), contractx.Query{Text: "weather"}, nil); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if provider.lastLoc != defaultLocation {
		t.Fatalf("location = %q, want default %q", provider.lastLoc, defaultLocation)
	}
}

func TestWeatherInvokePropagatesProviderError(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{currentErr: errors.New("api unreachable")}
	w := NewWeather(provider, nil)

	_, err := w.Invoke(context.Background(), contractx.Query{Text: "weather"}, nil)
	if err == nil {
		t.Fatal("want error when the provider is down")
	}
}

func TestAnalyzeIrrigationBands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		temp, hum    float64
		wantPriority string
	}{
		{"hot and dry", 34, 40, "High"},
		{"warm", 27, 55, "Medium"},
		{"mild and humid", 22, 75, "Low"},
		{"hot but humid", 33, 80, "Low"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := analyzeIrrigation(weatherapi.Current{Temperature: tc.temp, Humidity: tc.hum})
			if got.Priority != tc.wantPriority {
				t.Fatalf("priority = %s, want %s", got.Priority, tc.wantPriority)
			}
		})
	}
}

func TestStaticWeatherImplementsProvider(t *testing.T) {
	t.Parallel()

	var _ WeatherProvider = NewStaticWeather()

	s := NewStaticWeather()
	cur, err := s.Current(context.Background(), "Mumbai")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if cur.Temperature == 0 {
		t.Fatal("seasonal normal temperature must be set")
	}

	fc, err := s.Forecast(context.Background(), "Mumbai")
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if len(fc) != 8 {
		t.Fatalf("forecast entries = %d, want 8", len(fc))
	}
}
