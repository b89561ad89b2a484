// Package synthesize merges the specialists' partial results into one
// response. The merge is deliberately simple and auditable: domains stay
// siloed (no field-level merging across categories) and the aggregate
// confidence is the unweighted mean of the successful results.
package synthesize

import (
	"github.com/samber/lo"

	contractx "krishisetu/agent/contract"
)

// Synthesize combines results into a single response. Success requires at
// least one successful result; with none, the response carries confidence 0
// and the full failure list. Result order is preserved, so a deterministic
// dispatch order yields a deterministic response.
func Synthesize(results []contractx.SpecialistResult) contractx.SynthesizedResponse {
	successes := lo.Filter(results, func(r contractx.SpecialistResult, _ int) bool {
		return r.Outcome == contractx.OutcomeSuccess
	})
	failures := lo.FilterMap(results, func(r contractx.SpecialistResult, _ int) (contractx.Failure, bool) {
		if r.Outcome == contractx.OutcomeSuccess {
			return contractx.Failure{}, false
		}
		return contractx.Failure{Category: r.Category, Reason: r.Reason}, true
	})

	resp := contractx.SynthesizedResponse{Failures: failures}
	if len(successes) == 0 {
		return resp
	}

	resp.Success = true
	resp.Confidence = lo.SumBy(successes, func(r contractx.SpecialistResult) float64 {
		return r.Confidence
	}) / float64(len(successes))
	resp.Sources = lo.Map(successes, func(r contractx.SpecialistResult, _ int) string {
		return r.Source
	})
	resp.Data = mergePayloads(successes)
	return resp
}

// mergePayloads surfaces a lone success as the unified payload; multiple
// successes stay keyed by category. Two successes in the same category (a
// registry may map one category to several specialists) are grouped into a
// list under that key rather than silently overwritten.
func mergePayloads(successes []contractx.SpecialistResult) map[string]any {
	if len(successes) == 1 {
		return successes[0].Data
	}

	merged := make(map[string]any, len(successes))
	for _, r := range successes {
		key := string(r.Category)
		switch existing := merged[key].(type) {
		case nil:
			merged[key] = r.Data
		case []any:
			merged[key] = append(existing, r.Data)
		default:
			merged[key] = []any{existing, r.Data}
		}
	}
	return merged
}
