// Package classify detects the language and advisory category of a raw
// query and extracts routable entities from its text. Classification is a
// pure function of the query: no I/O, no external calls, and it never
// fails: unmatched input degrades to the General category.
package classify

import (
	"fmt"
	"strings"

	goahocorasick "github.com/anknown/ahocorasick"

	contractx "krishisetu/agent/contract"
)

// Classifier scores query text against the category keyword sets with a
// single Aho-Corasick automaton built at construction time. It is immutable
// and safe for concurrent use.
type Classifier struct {
	matcher   *goahocorasick.Machine
	byPattern map[string][]keywordOwner
}

func New() (*Classifier, error) {
	byPattern := make(map[string][]keywordOwner)
	for _, cat := range contractx.RoutableCategories {
		for lang, words := range categoryKeywords[cat] {
			for _, w := range words {
				key := strings.ToLower(w)
				byPattern[key] = append(byPattern[key], keywordOwner{category: cat, lang: lang})
			}
		}
	}

	patterns := make([][]rune, 0, len(byPattern))
	for p := range byPattern {
		patterns = append(patterns, []rune(p))
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, fmt.Errorf("build keyword automaton: %w", err)
	}

	return &Classifier{matcher: m, byPattern: byPattern}, nil
}

func MustNew() *Classifier {
	c, err := New()
	if err != nil {
		panic(err)
	}
	return c
}

// Classify determines language, primary and secondary categories, and
// extracted entities for q. Explicit context always wins over inferred
// entities on key collision.
func (c *Classifier) Classify(q contractx.Query) contractx.Classification {
	lang := strings.TrimSpace(q.Language)
	if !IsSupportedLanguage(lang) {
		lang = detectLanguage(q.Text)
	}

	scores := c.scoreCategories(q.Text, lang)
	primary, secondaries := rankCategories(scores, q.Comprehensive)

	entities := extractEntities(q.Text)
	for k, v := range q.Context {
		entities[k] = v
	}

	return contractx.Classification{
		Language:    lang,
		Primary:     primary,
		Secondaries: secondaries,
		Entities:    entities,
	}
}

// scoreCategories counts distinct keyword hits per category, restricted to
// the detected language plus the English fallback set.
func (c *Classifier) scoreCategories(text, lang string) map[contractx.Category]int {
	scores := make(map[contractx.Category]int, len(contractx.RoutableCategories))
	seen := make(map[string]struct{})

	hits := c.matcher.MultiPatternSearch([]rune(strings.ToLower(text)), false)
	for _, hit := range hits {
		pattern := string(hit.Word)
		if _, dup := seen[pattern]; dup {
			continue
		}
		seen[pattern] = struct{}{}
		for _, owner := range c.byPattern[pattern] {
			if owner.lang == lang || owner.lang == "en" {
				scores[owner.category]++
			}
		}
	}
	return scores
}

// rankCategories picks the highest-scoring non-zero category as primary,
// breaking ties by the fixed order of RoutableCategories. Secondary
// categories are only collected for comprehensive queries: every other
// category with at least one hit, in the same fixed order.
func rankCategories(scores map[contractx.Category]int, comprehensive bool) (contractx.Category, []contractx.Category) {
	primary := contractx.CategoryGeneral
	best := 0
	for _, cat := range contractx.RoutableCategories {
		if scores[cat] > best {
			best = scores[cat]
			primary = cat
		}
	}
	if primary == contractx.CategoryGeneral || !comprehensive {
		return primary, nil
	}

	var secondaries []contractx.Category
	for _, cat := range contractx.RoutableCategories {
		if cat != primary && scores[cat] >= 1 {
			secondaries = append(secondaries, cat)
		}
	}
	return primary, secondaries
}
