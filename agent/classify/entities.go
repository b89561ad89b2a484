package classify

import (
	"regexp"
	"strings"

	contractx "krishisetu/agent/contract"
)

type dictEntry struct {
	match     string
	canonical string
}

// knownLocations maps lowercase city and state names to their canonical
// form. Scanning is by substring, earliest occurrence in the text wins, so
// multi-word names must precede their prefixes where they share one.
var knownLocations = []dictEntry{
	{"mumbai", "Mumbai"}, {"delhi", "Delhi"}, {"bangalore", "Bangalore"},
	{"chennai", "Chennai"}, {"kolkata", "Kolkata"}, {"hyderabad", "Hyderabad"},
	{"pune", "Pune"}, {"ahmedabad", "Ahmedabad"}, {"jaipur", "Jaipur"},
	{"lucknow", "Lucknow"}, {"patna", "Patna"}, {"bhopal", "Bhopal"},
	{"chandigarh", "Chandigarh"}, {"guwahati", "Guwahati"}, {"shimla", "Shimla"},
	{"dehradun", "Dehradun"}, {"srinagar", "Srinagar"}, {"panaji", "Panaji"},
	{"nagpur", "Nagpur"}, {"indore", "Indore"},
	{"tamil nadu", "Tamil Nadu"}, {"andhra pradesh", "Andhra Pradesh"},
	{"madhya pradesh", "Madhya Pradesh"}, {"uttar pradesh", "Uttar Pradesh"},
	{"himachal pradesh", "Himachal Pradesh"}, {"arunachal pradesh", "Arunachal Pradesh"},
	{"west bengal", "West Bengal"}, {"jammu and kashmir", "Jammu and Kashmir"},
	{"karnataka", "Karnataka"}, {"maharashtra", "Maharashtra"},
	{"telangana", "Telangana"}, {"kerala", "Kerala"}, {"gujarat", "Gujarat"},
	{"rajasthan", "Rajasthan"}, {"bihar", "Bihar"}, {"odisha", "Odisha"},
	{"jharkhand", "Jharkhand"}, {"chhattisgarh", "Chhattisgarh"},
	{"uttarakhand", "Uttarakhand"}, {"punjab", "Punjab"}, {"haryana", "Haryana"},
	{"assam", "Assam"}, {"manipur", "Manipur"}, {"meghalaya", "Meghalaya"},
	{"mizoram", "Mizoram"}, {"nagaland", "Nagaland"}, {"sikkim", "Sikkim"},
	{"tripura", "Tripura"}, {"goa", "Goa"}, {"ladakh", "Ladakh"},
}

// knownCrops maps crop mentions (English and Hindi) to the canonical crop
// name used by the crop specialist's tables.
var knownCrops = []dictEntry{
	{"rice", "Rice"}, {"paddy", "Rice"}, {"wheat", "Wheat"}, {"maize", "Maize"},
	{"cotton", "Cotton"}, {"sugarcane", "Sugarcane"}, {"soybean", "Soybean"},
	{"groundnut", "Groundnut"}, {"chickpea", "Chickpea"}, {"lentil", "Lentil"},
	{"mustard", "Mustard"}, {"pulses", "Pulses"}, {"oilseeds", "Oilseeds"},
	{"vegetables", "Vegetables"}, {"fruits", "Fruits"}, {"spices", "Spices"},
	{"चावल", "Rice"}, {"धान", "Rice"}, {"गेहूं", "Wheat"}, {"मक्का", "Maize"},
	{"कपास", "Cotton"}, {"गन्ना", "Sugarcane"}, {"दालें", "Pulses"},
	{"तिलहन", "Oilseeds"}, {"सब्जियां", "Vegetables"}, {"फल", "Fruits"},
}

var landAreaPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:hectares?|acres?|हेक्टेयर|एकड़)`)

// extractEntities pulls location, crop and land-area mentions out of the raw
// text. Results are best-effort; absent entities are simply omitted.
func extractEntities(text string) map[string]string {
	lower := strings.ToLower(text)
	entities := make(map[string]string)

	if loc, ok := earliestMatch(lower, knownLocations); ok {
		entities[contractx.ContextLocation] = loc
	}
	if crop, ok := earliestMatch(lower, knownCrops); ok {
		entities[contractx.ContextCropType] = crop
	}
	if m := landAreaPattern.FindStringSubmatch(lower); m != nil {
		entities[contractx.ContextLandArea] = m[1]
	}
	return entities
}

// earliestMatch returns the canonical value of the entry occurring first in
// the text. Ties on position go to the longer match so that "tamil nadu"
// beats a hypothetical "tamil" entry.
func earliestMatch(lower string, dict []dictEntry) (string, bool) {
	best := -1
	bestLen := 0
	var canonical string
	for _, e := range dict {
		idx := strings.Index(lower, e.match)
		if idx < 0 {
			continue
		}
		if best == -1 || idx < best || (idx == best && len(e.match) > bestLen) {
			best = idx
			bestLen = len(e.match)
			canonical = e.canonical
		}
	}
	return canonical, best >= 0
}
