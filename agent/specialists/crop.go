package specialists

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	contractx "krishisetu/agent/contract"
)

type Crop struct {
	advisor  *Advisor
	keywords []string
}

func NewCrop(advisor *Advisor) *Crop {
	return &Crop{
		advisor: advisor,
		keywords: []string{
			"crop", "seed", "variety", "planting", "harvest", "yield",
			"pest", "disease", "fertilizer", "soil", "season",
			"फसल", "बीज", "किस्म",
		},
	}
}

func (c *Crop) Category() contractx.Category { return contractx.CategoryCrop }
func (c *Crop) Name() string { return "Crop Agent" }

func (c *Crop) Capabilities() []string {
	return []string{"Crop recommendations", "Market analysis", "Pest management"}
}

func (c *Crop) Invoke(ctx context.Context, q contractx.Query, entities map[string]string) (contractx.SpecialistResult, error) {
	soil := entities[contractx.ContextSoilType]
	if soil == "" {
		soil = "Alluvial"
	}
	season := entities[contractx.ContextSeason]
	if season == "" {
		season = "Kharif"
	}

	recommendations := recommendCrops(season, soil)
	data := map[string]any{
		"season":               season,
		"soil_type":            soil,
		"recommendations":      recommendations,
		"suitability_analysis": analyzeSuitability(recommendations, entities),
		"market_data":          marketSnapshot(recommendations),
		"crop_calendar":        cropCalendar(season),
		"timestamp":            time.Now().UTC().Format(time.RFC3339),
	}
	c.enrich(ctx, q.Text, data)

	return contractx.SpecialistResult{
		Category:   contractx.CategoryCrop,
		Source:     c.Name(),
		Confidence: keywordConfidence(q.Text, c.keywords),
		Data:       data,
		Outcome:    contractx.OutcomeSuccess,
	}, nil
}

func (c *Crop) enrich(ctx context.Context, query string, data map[string]any) {
	if c.advisor == nil {
		return
	}
	advisory, err := c.advisor.Advise(ctx,
		"You are an agricultural scientist advising Indian farmers on crop selection and management.",
		query, data)
	if err != nil {
		log.Warn().Err(err).Str("specialist", c.Name()).Msg("advisory enrichment failed")
		return
	}
	data["advisory"] = advisory
}
