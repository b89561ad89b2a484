// Package orchestrator is the facade the transport layer calls. It strictly
// sequences classify → dispatch → synthesize, holds no per-request state,
// and never blocks past the dispatcher's time budget.
package orchestrator

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/compose"

	classifyx "krishisetu/agent/classify"
	contractx "krishisetu/agent/contract"
	dispatchx "krishisetu/agent/dispatch"
)

type Orchestrator struct {
	classifier *classifyx.Classifier
	dispatcher *dispatchx.Dispatcher

	graphRunner compose.Runnable[contractx.Query, contractx.SynthesizedResponse]
}

func New(classifier *classifyx.Classifier, dispatcher *dispatchx.Dispatcher) (*Orchestrator, error) {
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}
	if dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}

	o := &Orchestrator{
		classifier: classifier,
		dispatcher: dispatcher,
	}

	graphRunner, err := o.compileHandleQueryGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// Handle classifies the query, fans it out, and merges the partial results.
// Every reachable input yields a well-formed response: classification never
// fails, the dispatcher contains all specialist errors, and a total failure
// comes back as Success=false with confidence 0 rather than an error.
func (o *Orchestrator) Handle(ctx context.Context, q contractx.Query) (contractx.SynthesizedResponse, error) {
	return o.graphRunner.Invoke(ctx, q)
}
