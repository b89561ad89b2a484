package contract

import "time"

// Category identifies the advisory domain a query (or a fragment of it)
// belongs to.
type Category string

const (
	CategoryWeather Category = "weather"
	CategoryCrop    Category = "crop"
	CategoryFinance Category = "finance"
	// CategoryGeneral is the fallback when no domain keyword matches.
	// It resolves to every registered specialist.
	CategoryGeneral Category = "general"
)

// RoutableCategories lists the categories specialists can register under,
// in scoring/tie-break order. General is not routable; it fans out.
var RoutableCategories = []Category{CategoryWeather, CategoryCrop, CategoryFinance}

// Well-known context keys. Context values are loosely typed strings; the
// specialists parse what they need.
const (
	ContextLocation   = "location"
	ContextCropType   = "crop_type"
	ContextFarmerType = "farmer_type"
	ContextLandArea   = "land_area"
	ContextState      = "state"
	ContextSeason     = "season"
	ContextSoilType   = "soil_type"
)

// Query is an inbound advisory request. It is constructed once per request
// and never mutated afterwards.
type Query struct {
	Text          string            `json:"text"`
	Context       map[string]string `json:"context,omitempty"`
	Language      string            `json:"language,omitempty"`
	Comprehensive bool              `json:"comprehensive,omitempty"`
}

// Classification is the classifier's verdict for a query. Primary is always
// set; it defaults to General when nothing matched.
type Classification struct {
	Language    string            `json:"language"`
	Primary     Category          `json:"primary"`
	Secondaries []Category        `json:"secondaries,omitempty"`
	Entities    map[string]string `json:"entities,omitempty"`
}

// Outcome states how a single specialist invocation ended.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeTimeout Outcome = "timeout"
)

// SpecialistResult is one specialist's partial answer. Data is opaque to the
// core: only Confidence (in [0,1]) and the Source label are interpreted.
type SpecialistResult struct {
	Category   Category       `json:"category"`
	Source     string         `json:"source"`
	Confidence float64        `json:"confidence"`
	Data       map[string]any `json:"data,omitempty"`
	Outcome    Outcome        `json:"outcome"`
	Reason     string         `json:"reason,omitempty"`
	Elapsed    time.Duration  `json:"elapsed"`
}

// Failure surfaces one specialist's failure or timeout to the caller.
type Failure struct {
	Category Category `json:"category"`
	Reason   string   `json:"reason"`
}

// SynthesizedResponse is the merged answer returned to the transport layer.
// Confidence is always present: 0 with Success=false when every targeted
// specialist failed.
type SynthesizedResponse struct {
	Success    bool           `json:"success"`
	Data       map[string]any `json:"data,omitempty"`
	Confidence float64        `json:"confidence"`
	Sources    []string       `json:"sources,omitempty"`
	Failures   []Failure      `json:"failures,omitempty"`
}
