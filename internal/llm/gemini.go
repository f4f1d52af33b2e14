package llm

import (
	"context"
	"strings"

	"google.golang.org/genai"
)

// Gemini calls the Gemini API through the official client. Each user brings
// their own API key; there is no server in between.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini builds the client. An empty key fails immediately with NO_KEY
// so callers can fall back without a network round trip.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, &Error{Kind: FailNoKey}
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, classifyAPIError(err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", classifyAPIError(err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &Error{Kind: FailEmptyResponse}
	}
	return text, nil
}
