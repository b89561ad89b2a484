package specialists

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
)

// Advisor turns a specialist's structured findings into a short free-text
// advisory using an LLM behind OpenRouter. It is optional: specialists work
// without it, and advisor failures degrade the enrichment, never the result.
type Advisor struct {
	client *openaisdk.Client
	model  string
}

func NewAdvisor(client *openaisdk.Client, model string) (*Advisor, error) {
	if client == nil {
		return nil, errors.New("openrouter client is required")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, errors.New("advisor model is required")
	}
	return &Advisor{client: client, model: model}, nil
}

func (a *Advisor) Advise(ctx context.Context, persona, query string, facts map[string]any) (string, error) {
	factsJSON, err := json.Marshal(facts)
	if err != nil {
		return "", fmt.Errorf("marshal advisor facts: %w", err)
	}

	resp, err := a.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(a.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(persona),
			openaisdk.UserMessage(fmt.Sprintf(
				"Farmer question: %s\n\nStructured findings:\n%s\n\nWrite a short, practical advisory for the farmer.",
				query, factsJSON,
			)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("advisor completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("advisor returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
