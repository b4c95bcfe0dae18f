package bot

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/kruxfinance/support-chat/internal/domain"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiGenerator calls the Gemini API through google.golang.org/genai.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini-backed generator.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, systemPrompt string, transcript []domain.Message) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, geminiContents(transcript), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return resp.Text(), nil
}

func geminiContents(transcript []domain.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(transcript))
	for _, msg := range transcript {
		role := genai.Role(genai.RoleModel)
		if msg.Sender == domain.SenderCustomer {
			role = genai.RoleUser
		}
		contents = append(contents, genai.NewContentFromText(msg.Text, role))
	}
	return contents
}
