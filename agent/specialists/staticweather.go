package specialists

import (
	"context"
	"time"

	"krishisetu/pkg/weatherapi"
)

// StaticWeather serves seasonal normals when no weather API key is
// configured, so the weather specialist stays routable in offline and test
// deployments. Values are typical-month figures for the Indian plains, not
// observations; the source label makes that visible to callers.
type StaticWeather struct {
	now func() time.Time
}

func NewStaticWeather() *StaticWeather {
	return &StaticWeather{now: time.Now}
}

type seasonalNormal struct {
	temperature float64
	humidity    float64
	description string
}

// monthlyNormals is indexed by time.Month.
var monthlyNormals = map[time.Month]seasonalNormal{
	time.January:   {24, 45, "clear sky, dry"},
	time.February:  {27, 42, "clear sky, dry"},
	time.March:     {31, 38, "hot and dry"},
	time.April:     {34, 35, "hot and dry"},
	time.May:       {35, 40, "very hot, pre-monsoon"},
	time.June:      {32, 65, "monsoon onset, showers"},
	time.July:      {29, 80, "monsoon, heavy rain"},
	time.August:    {29, 82, "monsoon, heavy rain"},
	time.September: {30, 75, "monsoon retreat, showers"},
	time.October:   {30, 60, "post-monsoon, humid"},
	time.November:  {28, 52, "mild and dry"},
	time.December:  {25, 48, "cool and dry"},
}

func (s *StaticWeather) Current(ctx context.Context, location string) (weatherapi.Current, error) {
	n := monthlyNormals[s.now().Month()]
	return weatherapi.Current{
		Temperature: n.temperature,
		Humidity:    n.humidity,
		Description: n.description + " (seasonal normal)",
		WindSpeed:   3.5,
		Pressure:    1010,
	}, nil
}

func (s *StaticWeather) Forecast(ctx context.Context, location string) ([]weatherapi.ForecastEntry, error) {
	n := monthlyNormals[s.now().Month()]
	entries := make([]weatherapi.ForecastEntry, 0, 8)
	for i := 1; i <= 8; i++ {
		at := s.now().Add(time.Duration(i) * 3 * time.Hour)
		entries = append(entries, weatherapi.ForecastEntry{
			Time:        at.UTC().Format("2006-01-02 15:04:05"),
			Temperature: n.temperature,
			Humidity:    n.humidity,
			Description: n.description + " (seasonal normal)",
			Rainfall:    0,
		})
	}
	return entries, nil
}
