// Package generator produces the daily bonus-trivia question through the
// Anthropic API, with a mock client for local development.
package generator

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

// LLMClient is the interface both generator implementations satisfy.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error)
}

// LLMResponse holds the raw response content and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// Generator wraps an LLMClient with trivia-specific methods.
type Generator struct {
	llm   LLMClient
	model string
}

func NewGenerator(model string, mock bool) *Generator {
	if mock {
		log.Println("[generator] using mock data")
		return &Generator{llm: NewMockClient(), model: "mock"}
	}
	log.Println("[generator] using Anthropic API:", model)
	return &Generator{llm: NewAPIClient(model), model: model}
}

func (g *Generator) ModelName() string {
	return g.model
}

// GenerateDailyTrivia produces one multiple-choice trivia question themed
// for the given date.
func (g *Generator) GenerateDailyTrivia(ctx context.Context, date time.Time) (*GeneratedTrivia, *LLMResponse, error) {
	systemPrompt := TriviaSystemPrompt()
	userPrompt := BuildTriviaUserPrompt(date)

	resp, err := g.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, nil, fmt.Errorf("generate daily trivia: %w", err)
	}

	trivia, err := ParseResponse(resp.Content)
	if err != nil {
		return nil, resp, fmt.Errorf("parse trivia response: %w", err)
	}

	return trivia, resp, nil
}

// ── APIClient — Anthropic SDK (Production) ─────────────────

type APIClient struct {
	client *anthropic.Client
	model  string
}

func NewAPIClient(model string) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &APIClient{client: &client, model: model}
}

func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   2048,
		Temperature: param.NewOpt(0.8),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := c.callWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return &LLMResponse{
		Content:      responseText,
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

func (c *APIClient) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			sleepDuration := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("[generator] retrying Anthropic API call in %v (attempt %d)", sleepDuration, attempt+1)
			time.Sleep(sleepDuration)
		}

		message, err := c.client.Messages.New(ctx, params)
		if err == nil {
			return message, nil
		}
		lastErr = err
		log.Printf("[generator] Anthropic API attempt %d failed: %v", attempt+1, err)
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}

// ── MockClient — Local Development ─────────────────────────

type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	mockJSON := `{
		"question": "[Mock] Who interpreted Pharaoh's dreams of seven fat and seven lean cows?",
		"choices": [
			{"id": "A", "text": "Moses"},
			{"id": "B", "text": "Joseph"},
			{"id": "C", "text": "Daniel"},
			{"id": "D", "text": "Aaron"}
		],
		"correct_answer_id": "B",
		"reference": "Genesis 41:25"
	}`
	return &LLMResponse{
		Content:      mockJSON,
		PromptTokens: 300,
		OutputTokens: 150,
	}, nil
}
