package specialists

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	contractx "krishisetu/agent/contract"
)

// LoanOption describes one credit product available to farmers.
type LoanOption struct {
	Name         string   `json:"name"`
	Institution  string   `json:"institution"`
	InterestRate string   `json:"interest_rate"`
	MaxAmount    string   `json:"max_amount"`
	Tenure       string   `json:"tenure"`
	Eligibility  string   `json:"eligibility"`
	Features     []string `json:"features"`
}

// Scheme describes a government support programme.
type Scheme struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Coverage    string   `json:"coverage"`
	Premium     string   `json:"premium"`
	Benefits    []string `json:"benefits"`
}

type Finance struct {
	advisor  *Advisor
	keywords []string
}

func NewFinance(advisor *Advisor) *Finance {
	return &Finance{
		advisor: advisor,
		keywords: []string{
			"loan", "credit", "finance", "money", "bank", "scheme", "subsidy",
			"insurance", "market", "price", "profit", "investment", "budget",
			"ऋण", "योजना", "बीमा",
		},
	}
}

func (f *Finance) Category() contractx.Category { return contractx.CategoryFinance }
func (f *Finance) Name() string { return "Finance Agent" }

func (f *Finance) Capabilities() []string {
	return []string{"Loan guidance", "Government schemes", "Insurance options", "Eligibility estimates"}
}

func (f *Finance) Invoke(ctx context.Context, q contractx.Query, entities map[string]string) (contractx.SpecialistResult, error) {
	farmerType := entities[contractx.ContextFarmerType]
	if farmerType == "" {
		farmerType = "small"
	}
	landArea := 2.0
	if raw, ok := entities[contractx.ContextLandArea]; ok {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			landArea = v
		}
	}
	state := entities[contractx.ContextState]
	if state == "" {
		state = "Maharashtra"
	}
	crop := entities[contractx.ContextCropType]

	data := map[string]any{
		"loan_options":       loanOptions(farmerType, landArea),
		"government_schemes": governmentSchemes(state),
		"market_analysis":    marketTrends(crop),
		"insurance_options":  insuranceOptions(landArea),
		"loan_eligibility":   loanEligibility(farmerType, landArea, entities),
		"timestamp":          time.Now().UTC().Format(time.RFC3339),
	}
	f.enrich(ctx, q.Text, data)

	return contractx.SpecialistResult{
		Category:   contractx.CategoryFinance,
		Source:     f.Name(),
		Confidence: keywordConfidence(q.Text, f.keywords),
		Data:       data,
		Outcome:    contractx.OutcomeSuccess,
	}, nil
}

func (f *Finance) enrich(ctx context.Context, query string, data map[string]any) {
	if f.advisor == nil {
		return
	}
	advisory, err := f.advisor.Advise(ctx,
		"You are a rural banking expert advising Indian farmers on credit, schemes and insurance.",
		query, data)
	if err != nil {
		log.Warn().Err(err).Str("specialist", f.Name()).Msg("advisory enrichment failed")
		return
	}
	data["advisory"] = advisory
}

var allLoanOptions = []LoanOption{
	{
		Name:         "Kisan Credit Card (KCC)",
		Institution:  "All Banks",
		InterestRate: "7.0%",
		MaxAmount:    "₹3,00,000",
		Tenure:       "5 years",
		Eligibility:  "All farmers",
		Features:     []string{"No collateral for loans up to ₹1.6 lakh", "Flexible repayment", "Crop insurance included"},
	},
	{
		Name:         "PM-KISAN",
		Institution:  "Government of India",
		InterestRate: "0%",
		MaxAmount:    "₹6,000/year",
		Tenure:       "Annual",
		Eligibility:  "Small and marginal farmers",
		Features:     []string{"Direct benefit transfer", "No repayment required", "Three installments per year"},
	},
	{
		Name:         "Agricultural Term Loan",
		Institution:  "NABARD",
		InterestRate: "8.5%",
		MaxAmount:    "₹10,00,000",
		Tenure:       "3-7 years",
		Eligibility:  "Farmers with land documents",
		Features:     []string{"For farm mechanization", "Infrastructure development", "Collateral required"},
	},
	{
		Name:         "Microfinance Loan",
		Institution:  "MFIs",
		InterestRate: "18-24%",
		MaxAmount:    "₹50,000",
		Tenure:       "1-2 years",
		Eligibility:  "Small farmers, women farmers",
		Features:     []string{"Group lending", "Weekly/monthly repayment", "No collateral"},
	},
}

// loanOptions narrows the product list by holding profile. Small holdings get
// the collateral-free products; medium holdings get the bankable ones; large
// holdings see everything.
func loanOptions(farmerType string, landArea float64) []LoanOption {
	switch {
	case farmerType == "small" && landArea < 2:
		return lo.Filter(allLoanOptions, func(l LoanOption, _ int) bool {
			return l.Name == "Kisan Credit Card (KCC)" || l.Name == "PM-KISAN" || l.Name == "Microfinance Loan"
		})
	case farmerType == "medium" && landArea >= 2 && landArea <= 10:
		return lo.Filter(allLoanOptions, func(l LoanOption, _ int) bool {
			return l.Name == "Kisan Credit Card (KCC)" || l.Name == "Agricultural Term Loan"
		})
	default:
		return allLoanOptions
	}
}

var nationalSchemes = []Scheme{
	{
		Name:        "PM Fasal Bima Yojana",
		Description: "Crop insurance scheme covering yield and weather risks",
		Coverage:    "All food crops, oilseeds, and commercial crops",
		Premium:     "2% for Kharif, 1.5% for Rabi, 5% for commercial crops",
		Benefits:    []string{"Yield loss coverage", "Weather risk coverage", "Post-harvest losses"},
	},
	{
		Name:        "PM-KISAN",
		Description: "Direct income support of ₹6,000 per year to farmers",
		Coverage:    "Small and marginal farmers",
		Premium:     "Free",
		Benefits:    []string{"Direct bank transfer", "No repayment", "Three installments"},
	},
	{
		Name:        "Kisan Samman Nidhi",
		Description: "Pension scheme for small and marginal farmers",
		Coverage:    "Farmers aged 60-80 years",
		Premium:     "₹55-200 per month",
		Benefits:    []string{"Monthly pension", "Life insurance", "Accident coverage"},
	},
	{
		Name:        "Soil Health Card Scheme",
		Description: "Free soil testing and recommendations",
		Coverage:    "All farmers",
		Premium:     "Free",
		Benefits:    []string{"Soil testing", "Fertilizer recommendations", "Crop-specific advice"},
	},
}

var stateSchemes = map[string][]Scheme{
	"Maharashtra": {
		{
			Name:        "Maharashtra Krishi Sanjivani Yojana",
			Description: "Weather-based crop insurance",
			Coverage:    "All crops in Maharashtra",
			Premium:     "Subsidized rates",
			Benefits:    []string{"Weather risk coverage", "Quick claim settlement"},
		},
	},
	"Punjab": {
		{
			Name:        "Punjab Kisan Vikas Yojana",
			Description: "Support for crop diversification",
			Coverage:    "Farmers switching from paddy",
			Premium:     "Free",
			Benefits:    []string{"Financial assistance", "Technical support", "Market linkage"},
		},
	},
}

func governmentSchemes(state string) []Scheme {
	schemes := make([]Scheme, 0, len(nationalSchemes)+1)
	schemes = append(schemes, nationalSchemes...)
	return append(schemes, stateSchemes[state]...)
}

var cropTrends = map[string]map[string]any{
	"Rice": {
		"current_price": 1800,
		"trend":         "Stable",
		"forecast":      "Expected to remain stable",
		"factors":       []string{"Good monsoon", "Government procurement", "Export demand"},
	},
	"Wheat": {
		"current_price": 2100,
		"trend":         "Rising",
		"forecast":      "Expected to increase by 5-10%",
		"factors":       []string{"Reduced production", "Increased demand", "Export opportunities"},
	},
	"Cotton": {
		"current_price": 5500,
		"trend":         "Falling",
		"forecast":      "Expected to stabilize",
		"factors":       []string{"Global price pressure", "Textile industry slowdown"},
	},
}

func marketTrends(crop string) map[string]any {
	if trend, ok := cropTrends[crop]; ok {
		return trend
	}
	return map[string]any{
		"current_price": 0,
		"trend":         "Unknown",
		"forecast":      "Data not available",
		"factors":       []string{},
	}
}

func insuranceOptions(landArea float64) []map[string]any {
	return []map[string]any{
		{
			"name":         "PM Fasal Bima Yojana",
			"coverage":     "Yield loss, weather risk, post-harvest losses",
			"premium_rate": "2% for Kharif, 1.5% for Rabi",
			"sum_insured":  fmt.Sprintf("₹%.0f", landArea*50000),
			"features":     []string{"Government subsidy", "Quick settlement", "Comprehensive coverage"},
		},
		{
			"name":         "Weather-Based Crop Insurance",
			"coverage":     "Weather-related losses",
			"premium_rate": "3-5%",
			"sum_insured":  fmt.Sprintf("₹%.0f", landArea*40000),
			"features":     []string{"Weather station data", "Automatic settlement", "No crop cutting experiments"},
		},
		{
			"name":         "Crop Insurance for Horticulture",
			"coverage":     "Fruits and vegetables",
			"premium_rate": "5-8%",
			"sum_insured":  fmt.Sprintf("₹%.0f", landArea*60000),
			"features":     []string{"Specialized coverage", "Market price protection", "Quality loss coverage"},
		},
	}
}

// loanEligibility estimates the bankable amount from a base of ₹50,000 per
// hectare, scaled by holding class and reported credit standing.
func loanEligibility(farmerType string, landArea float64, entities map[string]string) map[string]any {
	base := landArea * 50000

	multiplier := 1.0
	switch farmerType {
	case "small":
		multiplier = 0.8
	case "large":
		multiplier = 1.2
	}

	creditScore := entities["credit_score"]
	if creditScore == "" {
		creditScore = "good"
	}
	creditMultiplier := 1.0
	switch creditScore {
	case "excellent":
		creditMultiplier = 1.2
	case "good":
		creditMultiplier = 1.0
	default:
		creditMultiplier = 0.7
	}

	eligible := base * multiplier * creditMultiplier
	return map[string]any{
		"eligible_amount": fmt.Sprintf("₹%.0f", eligible),
		"factors": []string{
			fmt.Sprintf("Land area: %.1f hectares", landArea),
			fmt.Sprintf("Farmer type: %s", farmerType),
			fmt.Sprintf("Credit score: %s", creditScore),
		},
		"recommendations": []string{
			"Maintain good credit history",
			"Keep land documents updated",
			"Consider crop insurance for better terms",
		},
	}
}
