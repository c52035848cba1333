package infra

import (
	"context"
	"errors"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient generates structured JSON replies from the Gemini API. It is
// consumed through the insights service's TextGenerator interface so tests can
// substitute a stub.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient dials the API. Returns an error when no key is configured;
// the caller then wires a nil generator and insights degrade gracefully.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: no API key configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: client, model: model}, nil
}

// GenerateJSON sends prompt and returns the raw text of the first candidate.
// The response is constrained to JSON via the response MIME type and schema,
// but callers still treat the payload as untrusted and parse defensively.
func (g *GeminiClient) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	m := g.client.GenerativeModel(g.model)
	m.ResponseMIMEType = "application/json"
	m.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"insights": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title":       {Type: genai.TypeString},
						"description": {Type: genai.TypeString},
					},
					Required: []string{"title", "description"},
				},
			},
		},
		Required: []string{"insights"},
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: empty response")
	}

	var out string
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out += string(txt)
		}
	}
	return out, nil
}

func (g *GeminiClient) Close() error {
	return g.client.Close()
}
