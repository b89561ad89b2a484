package classify

import (
	contractx "krishisetu/agent/contract"
)

// categoryKeywords holds the per-language keyword sets each category is
// scored against. English is always consulted as a fallback alongside the
// detected language. A keyword may belong to more than one category
// ("market", "price"); such hits score every owning category.
var categoryKeywords = map[contractx.Category]map[string][]string{
	contractx.CategoryWeather: {
		"en": {
			"weather", "temperature", "rain", "irrigation", "humidity",
			"forecast", "drought", "flood", "monsoon", "climate", "moisture",
		},
		"hi": {"मौसम", "बारिश", "तापमान", "सिंचाई", "पानी", "नमी"},
		"ta": {"வானிலை", "மழை", "வெப்பநிலை", "நீர்ப்பாசனம்", "தண்ணீர்", "ஈரப்பதம்"},
		"te": {"వాతావరణం", "వర్షం", "ఉష్ణోగ్రత", "నీరు", "తేమ"},
	},
	contractx.CategoryCrop: {
		"en": {
			"crop", "seed", "variety", "planting", "harvest", "yield",
			"pest", "disease", "fertilizer", "soil", "market", "price",
		},
		"hi": {"फसल", "बीज", "किस्म", "रोपण", "उपज", "कीट", "रोग", "खाद", "मिट्टी"},
		"ta": {"பயிர்", "விதை", "வகை", "நடவு", "அறுவடை", "மகசூல்"},
		"te": {"పంట", "విత్తనం", "రకం", "నాటడం"},
	},
	contractx.CategoryFinance: {
		"en": {
			"loan", "credit", "finance", "money", "bank", "scheme",
			"subsidy", "insurance", "investment", "market", "price",
		},
		"hi": {"ऋण", "क्रेडिट", "वित्त", "पैसा", "बैंक", "योजना", "सब्सिडी", "बीमा"},
		"ta": {"கடன்", "நிதி", "பணம்", "வங்கி", "திட்டம்"},
		"te": {"రుణం", "క్రెడిట్", "డబ్బు", "బ్యాంక్", "పథకం"},
	},
}

// keywordOwner records which category and language a pattern belongs to.
type keywordOwner struct {
	category contractx.Category
	lang     string
}
