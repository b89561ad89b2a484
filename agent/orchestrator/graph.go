package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	contractx "krishisetu/agent/contract"
	synthesizex "krishisetu/agent/synthesize"
)

// pipelineState carries the query through the pipeline nodes. It lives for
// one Handle call only.
type pipelineState struct {
	Query          contractx.Query
	Classification contractx.Classification
	Results        []contractx.SpecialistResult
}

func (o *Orchestrator) compileHandleQueryGraph(
	ctx context.Context,
) (compose.Runnable[contractx.Query, contractx.SynthesizedResponse], error) {
	graph := compose.NewGraph[contractx.Query, contractx.SynthesizedResponse]()

	if err := graph.AddLambdaNode("classify_query",
		compose.InvokableLambda(func(ctx context.Context, q contractx.Query) (*pipelineState, error) {
			return &pipelineState{
				Query:          q,
				Classification: o.classifier.Classify(q),
			}, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify_query: %w", err)
	}

	if err := graph.AddLambdaNode("dispatch_specialists",
		compose.InvokableLambda(func(ctx context.Context, in *pipelineState) (*pipelineState, error) {
			in.Results = o.dispatcher.Dispatch(ctx, in.Classification, in.Query)
			return in, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node dispatch_specialists: %w", err)
	}

	if err := graph.AddLambdaNode("synthesize_response",
		compose.InvokableLambda(func(ctx context.Context, in *pipelineState) (contractx.SynthesizedResponse, error) {
			return synthesizex.Synthesize(in.Results), nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node synthesize_response: %w", err)
	}

	edges := [][2]string{
		{compose.START, "classify_query"},
		{"classify_query", "dispatch_specialists"},
		{"dispatch_specialists", "synthesize_response"},
		{"synthesize_response", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.handle_query"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
