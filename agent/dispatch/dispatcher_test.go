package dispatch

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	contractx "krishisetu/agent/contract"
	registryx "krishisetu/agent/registry"
)

type fakeSpecialist struct {
	category   contractx.Category
	name       string
	confidence float64
	delay      time.Duration
	err        error
	panics     bool
	honorCtx   bool
}

func (f *fakeSpecialist) Category() contractx.Category { return f.category }
func (f *fakeSpecialist) Name() string { return f.name }
func (f *fakeSpecialist) Capabilities() []string { return nil }

func (f *fakeSpecialist) Invoke(ctx context.Context, q contractx.Query, entities map[string]string) (contractx.SpecialistResult, error) {
	if f.panics {
		panic("boom")
	}
	if f.delay > 0 {
		if f.honorCtx {
			select {
			case <-time.After(f.delay):
			case <-ctx.Done():
				return contractx.SpecialistResult{}, ctx.Err()
			}
		} else {
			time.Sleep(f.delay)
		}
	}
	if f.err != nil {
		return contractx.SpecialistResult{}, f.err
	}
	return contractx.SpecialistResult{
		Category:   f.category,
		Source:     f.name,
		Confidence: f.confidence,
		Data:       map[string]any{"from": f.name},
		Outcome:    contractx.OutcomeSuccess,
	}, nil
}

func newRegistry(t *testing.T, specialists ...contractx.Specialist) *registryx.Registry {
	t.Helper()
	r, err := registryx.New(specialists...)
	if err != nil {
		t.Fatalf("registry.New: %v", err)
	}
	return r
}

func classification(primary contractx.Category, secondaries ...contractx.Category) contractx.Classification {
	return contractx.Classification{Language: "en", Primary: primary, Secondaries: secondaries}
}

func TestDispatchSingleTargetWhenNotComprehensive(t *testing.T) {
	t.Parallel()

	weather := &fakeSpecialist{category: contractx.CategoryWeather, name: "weather", confidence: 0.8}
	crop := &fakeSpecialist{category: contractx.CategoryCrop, name: "crop", confidence: 0.6}
	finance := &fakeSpecialist{category: contractx.CategoryFinance, name: "finance", confidence: 0.5}
	d := New(newRegistry(t, weather, crop, finance), time.Second)

	results := d.Dispatch(context.Background(),
		classification(contractx.CategoryWeather, contractx.CategoryCrop),
		contractx.Query{Text: "rain", Comprehensive: false})

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Source != "weather" {
		t.Fatalf("source = %s, want weather", results[0].Source)
	}
}

func TestDispatchComprehensiveFansOutToSecondaries(t *testing.T) {
	t.Parallel()

	weather := &fakeSpecialist{category: contractx.CategoryWeather, name: "weather", confidence: 0.8}
	crop := &fakeSpecialist{category: contractx.CategoryCrop, name: "crop", confidence: 0.6}
	finance := &fakeSpecialist{category: contractx.CategoryFinance, name: "finance", confidence: 0.5}
	d := New(newRegistry(t, weather, crop, finance), time.Second)

	results := d.Dispatch(context.Background(),
		classification(contractx.CategoryWeather, contractx.CategoryCrop),
		contractx.Query{Text: "rain and crops", Comprehensive: true})

	if len(results) != 2 {
		t.Fatalf("got %d results, want exactly primary+secondary", len(results))
	}
	if results[0].Source != "weather" || results[1].Source != "crop" {
		t.Fatalf("sources = [%s %s], want [weather crop]", results[0].Source, results[1].Source)
	}
}

func TestDispatchGeneralFansOutToAll(t *testing.T) {
	t.Parallel()

	weather := &fakeSpecialist{category: contractx.CategoryWeather, name: "weather", confidence: 0.8}
	crop := &fakeSpecialist{category: contractx.CategoryCrop, name: "crop", confidence: 0.6}
	finance := &fakeSpecialist{category: contractx.CategoryFinance, name: "finance", confidence: 0.5}
	d := New(newRegistry(t, weather, crop, finance), time.Second)

	results := d.Dispatch(context.Background(),
		classification(contractx.CategoryGeneral),
		contractx.Query{Text: "hello"})

	if len(results) != 3 {
		t.Fatalf("got %d results, want full fan-out", len(results))
	}
}

func TestDispatchOrderIsDeterministicUnderRandomDelays(t *testing.T) {
	t.Parallel()

	weather := &fakeSpecialist{category: contractx.CategoryWeather, name: "weather", confidence: 0.8}
	crop := &fakeSpecialist{category: contractx.CategoryCrop, name: "crop", confidence: 0.6}
	finance := &fakeSpecialist{category: contractx.CategoryFinance, name: "finance", confidence: 0.5}
	d := New(newRegistry(t, weather, crop, finance), 2*time.Second)

	for i := 0; i < 20; i++ {
		weather.delay = time.Duration(rand.Intn(20)) * time.Millisecond
		crop.delay = time.Duration(rand.Intn(20)) * time.Millisecond
		finance.delay = time.Duration(rand.Intn(20)) * time.Millisecond

		results := d.Dispatch(context.Background(),
			classification(contractx.CategoryGeneral),
			contractx.Query{Text: "everything"})

		want := []string{"weather", "crop", "finance"}
		for j, name := range want {
			if results[j].Source != name {
				t.Fatalf("iteration %d: results[%d] = %s, want %s", i, j, results[j].Source, name)
			}
		}
	}
}

func TestDispatchAbandonsStragglerAtDeadline(t *testing.T) {
	t.Parallel()

	slow := &fakeSpecialist{category: contractx.CategoryWeather, name: "slow", delay: time.Minute, honorCtx: true}
	crop := &fakeSpecialist{category: contractx.CategoryCrop, name: "crop", confidence: 0.6}
	finance := &fakeSpecialist{category: contractx.CategoryFinance, name: "finance", confidence: 0.5}
	d := New(newRegistry(t, slow, crop, finance), 50*time.Millisecond)

	start := time.Now()
	results := d.Dispatch(context.Background(),
		classification(contractx.CategoryGeneral),
		contractx.Query{Text: "everything"})
	elapsed := time.Since(start)

	if elapsed > time.Second {
		t.Fatalf("dispatch took %v, must not wait for the straggler", elapsed)
	}
	if results[0].Outcome != contractx.OutcomeTimeout {
		t.Fatalf("slow outcome = %s, want timeout", results[0].Outcome)
	}
	if results[1].Outcome != contractx.OutcomeSuccess || results[2].Outcome != contractx.OutcomeSuccess {
		t.Fatalf("fast specialists must still succeed, got %s and %s", results[1].Outcome, results[2].Outcome)
	}
}

func TestDispatchPanicBecomesFailure(t *testing.T) {
	t.Parallel()

	panicky := &fakeSpecialist{category: contractx.CategoryWeather, name: "panicky", panics: true}
	crop := &fakeSpecialist{category: contractx.CategoryCrop, name: "crop", confidence: 0.6}
	finance := &fakeSpecialist{category: contractx.CategoryFinance, name: "finance", confidence: 0.5}
	d := New(newRegistry(t, panicky, crop, finance), time.Second)

	results := d.Dispatch(context.Background(),
		classification(contractx.CategoryWeather),
		contractx.Query{Text: "rain"})

	if results[0].Outcome != contractx.OutcomeFailure {
		t.Fatalf("outcome = %s, want failure", results[0].Outcome)
	}
	if results[0].Reason == "" {
		t.Fatal("failure reason must be populated")
	}
}

func TestDispatchErrorBecomesFailure(t *testing.T) {
	t.Parallel()

	broken := &fakeSpecialist{category: contractx.CategoryWeather, name: "broken", err: errors.New("upstream unavailable")}
	crop := &fakeSpecialist{category: contractx.CategoryCrop, name: "crop", confidence: 0.6}
	finance := &fakeSpecialist{category: contractx.CategoryFinance, name: "finance", confidence: 0.5}
	d := New(newRegistry(t, broken, crop, finance), time.Second)

	results := d.Dispatch(context.Background(),
		classification(contractx.CategoryWeather),
		contractx.Query{Text: "rain"})

	if results[0].Outcome != contractx.OutcomeFailure {
		t.Fatalf("outcome = %s, want failure", results[0].Outcome)
	}
	if results[0].Reason != "upstream unavailable" {
		t.Fatalf("reason = %q, want the specialist error", results[0].Reason)
	}
}

func TestDispatchDeadlineErrorBecomesTimeout(t *testing.T) {
	t.Parallel()

	expired := &fakeSpecialist{category: contractx.CategoryWeather, name: "expired", err: context.DeadlineExceeded}
	crop := &fakeSpecialist{category: contractx.CategoryCrop, name: "crop", confidence: 0.6}
	finance := &fakeSpecialist{category: contractx.CategoryFinance, name: "finance", confidence: 0.5}
	d := New(newRegistry(t, expired, crop, finance), time.Second)

	results := d.Dispatch(context.Background(),
		classification(contractx.CategoryWeather),
		contractx.Query{Text: "rain"})

	if results[0].Outcome != contractx.OutcomeTimeout {
		t.Fatalf("outcome = %s, want timeout", results[0].Outcome)
	}
}

func TestDispatchRejectsOutOfRangeConfidence(t *testing.T) {
	t.Parallel()

	inflated := &fakeSpecialist{category: contractx.CategoryWeather, name: "inflated", confidence: 1.5}
	crop := &fakeSpecialist{category: contractx.CategoryCrop, name: "crop", confidence: 0.6}
	finance := &fakeSpecialist{category: contractx.CategoryFinance, name: "finance", confidence: 0.5}
	d := New(newRegistry(t, inflated, crop, finance), time.Second)

	results := d.Dispatch(context.Background(),
		classification(contractx.CategoryWeather),
		contractx.Query{Text: "rain"})

	if results[0].Outcome != contractx.OutcomeFailure {
		t.Fatalf("outcome = %s, want failure for confidence out of range", results[0].Outcome)
	}
}

func TestDispatchDeduplicatesTargets(t *testing.T) {
	t.Parallel()

	weather := &fakeSpecialist{category: contractx.CategoryWeather, name: "weather", confidence: 0.8}
	crop := &fakeSpecialist{category: contractx.CategoryCrop, name: "crop", confidence: 0.6}
	finance := &fakeSpecialist{category: contractx.CategoryFinance, name: "finance", confidence: 0.5}
	d := New(newRegistry(t, weather, crop, finance), time.Second)

	// Primary repeated in secondaries must not double-invoke.
	results := d.Dispatch(context.Background(),
		classification(contractx.CategoryWeather, contractx.CategoryWeather),
		contractx.Query{Text: "rain", Comprehensive: true})

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 after dedup", len(results))
	}
}
