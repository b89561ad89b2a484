// Package dispatch fans a classified query out to its target specialists,
// runs them concurrently under a bounded time budget, and collects every
// outcome. Partial failure is always tolerated: one specialist failing or
// timing out never blocks or cancels the others, and the dispatcher itself
// never returns an error; a fully failed fan-out is just a list of failed
// results for the synthesizer to judge.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	contractx "krishisetu/agent/contract"
	registryx "krishisetu/agent/registry"
)

const timeoutReason = "specialist timed out"

type Config struct {
	SpecialistTimeout time.Duration `envconfig:"SPECIALIST_TIMEOUT" split_words:"true" default:"5s"`
}

type Dispatcher struct {
	registry *registryx.Registry
	timeout  time.Duration
}

func New(reg *registryx.Registry, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{registry: reg, timeout: timeout}
}

// Timeout is the per-specialist budget, which is also the hard ceiling of a
// whole dispatch since all targets run concurrently.
func (d *Dispatcher) Timeout() time.Duration {
	return d.timeout
}

// Dispatch invokes every target specialist concurrently and returns one
// result per target, in deterministic target order regardless of completion
// timing. Stragglers still running at the deadline are recorded as Timeout
// and abandoned; their eventual results are discarded.
func (d *Dispatcher) Dispatch(ctx context.Context, cls contractx.Classification, q contractx.Query) []contractx.SpecialistResult {
	targets := d.targets(cls, q)

	runCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	// One buffered slot per target keeps result order independent of
	// completion order and lets abandoned goroutines finish without leaking.
	slots := make([]chan contractx.SpecialistResult, len(targets))
	for i, sp := range targets {
		slots[i] = make(chan contractx.SpecialistResult, 1)
		go func(slot chan<- contractx.SpecialistResult, sp contractx.Specialist) {
			slot <- invoke(runCtx, sp, q, cls.Entities)
		}(slots[i], sp)
	}

	results := make([]contractx.SpecialistResult, len(targets))
	for i, sp := range targets {
		select {
		case res := <-slots[i]:
			results[i] = res
		case <-runCtx.Done():
			results[i] = contractx.SpecialistResult{
				Category: sp.Category(),
				Source:   sp.Name(),
				Outcome:  contractx.OutcomeTimeout,
				Reason:   timeoutReason,
				Elapsed:  d.timeout,
			}
			log.Warn().
				Str("specialist", sp.Name()).
				Dur("timeout", d.timeout).
				Msg("specialist abandoned at deadline")
		}
	}
	return results
}

// targets resolves the deterministic fan-out set: the primary category,
// plus the secondaries when the query is comprehensive, expanded through the
// registry with duplicates removed in first-seen order. An empty set falls
// back to the full registry (the General behavior).
func (d *Dispatcher) targets(cls contractx.Classification, q contractx.Query) []contractx.Specialist {
	cats := []contractx.Category{cls.Primary}
	if q.Comprehensive {
		cats = append(cats, cls.Secondaries...)
	}

	seen := make(map[contractx.Specialist]struct{})
	var targets []contractx.Specialist
	for _, cat := range cats {
		for _, sp := range d.registry.Resolve(cat) {
			if _, dup := seen[sp]; dup {
				continue
			}
			seen[sp] = struct{}{}
			targets = append(targets, sp)
		}
	}
	if len(targets) == 0 {
		targets = d.registry.All()
	}
	return targets
}

// invoke wraps a single specialist call so that errors, invalid payloads and
// panics all become Failure results instead of propagating. A deadline error
// is recorded as Timeout so both straggler paths agree.
func invoke(ctx context.Context, sp contractx.Specialist, q contractx.Query, entities map[string]string) (res contractx.SpecialistResult) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res = failed(sp, fmt.Sprintf("specialist panic: %v", p), time.Since(start))
		}
	}()

	r, err := sp.Invoke(ctx, q, entities)
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return contractx.SpecialistResult{
				Category: sp.Category(),
				Source:   sp.Name(),
				Outcome:  contractx.OutcomeTimeout,
				Reason:   timeoutReason,
				Elapsed:  elapsed,
			}
		}
		return failed(sp, err.Error(), elapsed)
	}

	if r.Confidence < 0 || r.Confidence > 1 {
		return failed(sp, fmt.Sprintf("invalid payload: confidence %.3f out of [0,1]", r.Confidence), elapsed)
	}

	r.Category = sp.Category()
	if r.Source == "" {
		r.Source = sp.Name()
	}
	if r.Outcome == "" {
		r.Outcome = contractx.OutcomeSuccess
	}
	r.Elapsed = elapsed
	return r
}

func failed(sp contractx.Specialist, reason string, elapsed time.Duration) contractx.SpecialistResult {
	return contractx.SpecialistResult{
		Category: sp.Category(),
		Source:   sp.Name(),
		Outcome:  contractx.OutcomeFailure,
		Reason:   reason,
		Elapsed:  elapsed,
	}
}
