package specialists

import (
	"strconv"

	contractx "krishisetu/agent/contract"
)

// Seasons are the Indian cropping seasons the calendar covers.
var Seasons = []string{"Kharif", "Rabi", "Zaid"}

// MajorCrops lists the crop groups the advisory tables cover.
var MajorCrops = []string{
	"Rice", "Wheat", "Maize", "Cotton", "Sugarcane", "Pulses",
	"Oilseeds", "Vegetables", "Fruits", "Spices",
}

// CropRecommendation is one entry in the season × soil recommendation table.
type CropRecommendation struct {
	Name      string   `json:"name"`
	Varieties []string `json:"varieties"`
	Duration  int      `json:"duration_days"`
	WaterNeed string   `json:"water_need"`
}

// cropTable maps season → soil type → recommended crops. The entries are a
// static agronomy snapshot, not a live database.
var cropTable = map[string]map[string][]CropRecommendation{
	"Kharif": {
		"Alluvial": {
			{Name: "Rice", Varieties: []string{"IR64", "Swarna", "Pusa Basmati"}, Duration: 120, WaterNeed: "High"},
			{Name: "Maize", Varieties: []string{"Hybrid Maize", "Sweet Corn"}, Duration: 90, WaterNeed: "Medium"},
			{Name: "Cotton", Varieties: []string{"BT Cotton", "Desi Cotton"}, Duration: 150, WaterNeed: "Medium"},
		},
		"Black": {
			{Name: "Soybean", Varieties: []string{"JS-335", "JS-9305"}, Duration: 100, WaterNeed: "Medium"},
			{Name: "Groundnut", Varieties: []string{"TMV-2", "JL-24"}, Duration: 110, WaterNeed: "Low"},
		},
	},
	"Rabi": {
		"Alluvial": {
			{Name: "Wheat", Varieties: []string{"HD-2967", "PBW-343"}, Duration: 140, WaterNeed: "Medium"},
			{Name: "Mustard", Varieties: []string{"Pusa Bold", "RH-30"}, Duration: 120, WaterNeed: "Low"},
		},
		"Black": {
			{Name: "Chickpea", Varieties: []string{"JG-11", "Pusa-372"}, Duration: 130, WaterNeed: "Low"},
			{Name: "Lentil", Varieties: []string{"PL-406", "PL-639"}, Duration: 110, WaterNeed: "Low"},
		},
	},
	"Zaid": {
		"Alluvial": {
			{Name: "Watermelon", Varieties: []string{"Sugar Baby", "Arka Manik"}, Duration: 80, WaterNeed: "High"},
			{Name: "Cucumber", Varieties: []string{"Japanese Long Green"}, Duration: 60, WaterNeed: "Medium"},
		},
	},
}

func recommendCrops(season, soil string) []CropRecommendation {
	return cropTable[season][soil]
}

// analyzeSuitability scores each recommended crop against the caller's
// context: water availability and land area tilt the score.
func analyzeSuitability(crops []CropRecommendation, entities map[string]string) map[string]any {
	landArea := 2.0
	if raw, ok := entities[contractx.ContextLandArea]; ok {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			landArea = v
		}
	}

	analysis := make(map[string]any, len(crops))
	for _, crop := range crops {
		score := 60
		var factors []string
		if crop.WaterNeed == "Low" {
			score += 15
			factors = append(factors, "low water requirement suits uncertain irrigation")
		}
		if crop.Duration <= 100 {
			score += 10
			factors = append(factors, "short duration lowers weather exposure")
		}
		if landArea < 2 && crop.WaterNeed == "High" {
			score -= 15
			factors = append(factors, "high water need is costly on small holdings")
		}
		analysis[crop.Name] = map[string]any{
			"score":   score,
			"factors": factors,
		}
	}
	return analysis
}

// marketSnapshot attaches a static price snapshot per recommended crop.
// Prices are indicative mandi figures in INR per quintal.
var mandiPrices = map[string]int{
	"Rice": 2200, "Wheat": 2300, "Maize": 2100, "Cotton": 6600,
	"Soybean": 4600, "Groundnut": 6300, "Chickpea": 5400, "Lentil": 6100,
	"Mustard": 5600, "Watermelon": 1200, "Cucumber": 1500,
}

func marketSnapshot(crops []CropRecommendation) []map[string]any {
	snapshot := make([]map[string]any, 0, len(crops))
	for _, crop := range crops {
		price, ok := mandiPrices[crop.Name]
		if !ok {
			continue
		}
		snapshot = append(snapshot, map[string]any{
			"crop":              crop.Name,
			"price_per_quintal": price,
			"currency":          "INR",
		})
	}
	return snapshot
}

func cropCalendar(season string) map[string]string {
	switch season {
	case "Kharif":
		return map[string]string{"sowing": "June-July", "harvest": "September-October"}
	case "Rabi":
		return map[string]string{"sowing": "October-November", "harvest": "March-April"}
	case "Zaid":
		return map[string]string{"sowing": "March-April", "harvest": "June"}
	default:
		return map[string]string{}
	}
}
