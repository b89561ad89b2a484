package classify

import (
	"unicode"

	"github.com/abadojack/whatlanggo"
)

// SupportedLanguages are the ISO 639-1 codes the system accepts, with "en"
// as the default when detection finds nothing.
var SupportedLanguages = []string{"en", "hi", "ta", "te", "bn", "mr", "gu", "kn", "ml", "pa"}

const DefaultLanguage = "en"

// scriptDensityThreshold is the minimum share of letter runes that must
// belong to a script before its language is chosen. 0.3 tolerates queries
// that mix an Indic script with Latin crop or place names.
const scriptDensityThreshold = 0.3

type scriptSignature struct {
	lang   string
	script *unicode.RangeTable
}

// scriptSignatures is the fixed detection order. The first signature whose
// density clears the threshold wins, so the order doubles as the tie-break
// priority. Devanagari is shared by Hindi and Marathi and is disambiguated
// separately.
var scriptSignatures = []scriptSignature{
	{lang: "hi", script: unicode.Devanagari},
	{lang: "bn", script: unicode.Bengali},
	{lang: "ta", script: unicode.Tamil},
	{lang: "te", script: unicode.Telugu},
	{lang: "gu", script: unicode.Gujarati},
	{lang: "kn", script: unicode.Kannada},
	{lang: "ml", script: unicode.Malayalam},
	{lang: "pa", script: unicode.Gurmukhi},
}

// IsSupportedLanguage reports whether code is one of SupportedLanguages.
func IsSupportedLanguage(code string) bool {
	for _, l := range SupportedLanguages {
		if l == code {
			return true
		}
	}
	return false
}

func detectLanguage(text string) string {
	counts := make([]int, len(scriptSignatures))
	letters := 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		for i, sig := range scriptSignatures {
			if unicode.Is(sig.script, r) {
				counts[i]++
			}
		}
	}
	if letters == 0 {
		return DefaultLanguage
	}
	for i, sig := range scriptSignatures {
		if float64(counts[i])/float64(letters) >= scriptDensityThreshold {
			if sig.lang == "hi" {
				return disambiguateDevanagari(text)
			}
			return sig.lang
		}
	}
	return DefaultLanguage
}

// disambiguateDevanagari separates Hindi from Marathi, both written in
// Devanagari, using whatlanggo's trigram profiles. Hindi is the default:
// it is first in the language priority list.
func disambiguateDevanagari(text string) string {
	if whatlanggo.Detect(text).Lang == whatlanggo.Mar {
		return "mr"
	}
	return "hi"
}
