package llm

import (
	"context"
	"strings"

	"github.com/adri1972/claritycash/internal/openai"
)

// OpenAI is the alternative advice provider, selected with
// llm.provider = "openai" in the config file.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, model string) (*OpenAI, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &Error{Kind: FailNoKey}
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAI{client: openai.NewClient(apiKey), model: model}, nil
}

func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateResponse(ctx, openai.ResponseRequest{
		Model:           o.model,
		MaxOutputTokens: 1200,
		Input:           []openai.ResponseInput{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", classifyAPIError(err)
	}
	text := strings.TrimSpace(strings.Join(resp.Output, "\n"))
	if text == "" {
		return "", &Error{Kind: FailEmptyResponse}
	}
	return text, nil
}
