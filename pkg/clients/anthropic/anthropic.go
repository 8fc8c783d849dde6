package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
	model      = "claude-3-haiku-20240307"
	maxTokens  = 1024
)

// Client defines the AI text generation used by the assistant.
type Client interface {
	AnswerQuestion(ctx context.Context, question, facts string, history []Message) (string, error)
}

type anthropicClient struct {
	httpClient *resty.Client
}

// NewClient creates a configured Anthropic client.
func NewClient(apiKey string) Client {
	client := resty.New().
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(15 * time.Second)

	return &anthropicClient{httpClient: client}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []Message `json:"messages"`
}

// Message is one turn of an Anthropic conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// AnswerQuestion asks the model a business question grounded on the provided
// analytics facts. The model is instructed to answer only from the facts and
// to say so when they do not cover the question.
func (c *anthropicClient) AnswerQuestion(ctx context.Context, question, facts string, history []Message) (string, error) {
	systemPrompt := fmt.Sprintf(`You are a business analytics assistant for an e-commerce operation.

Current date: %s

You are given the latest analytics facts as JSON, computed from the sales
ledger and the inventory snapshot:

%s

RULES:
- Answer ONLY from the facts above. Do not invent numbers.
- If the facts do not cover the question, say so and suggest which report would.
- Monetary figures keep two decimals. Be concise; this is read on a phone.
`, time.Now().UTC().Format("2006-01-02"), facts)

	messages := append(append([]Message{}, history...), Message{Role: "user", Content: question})

	reqBody := messageRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages:  messages,
	}

	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post(apiURL)

	if err != nil {
		return "", fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("anthropic api error: %s", resp.String())
	}
	if len(respBody.Content) == 0 {
		return "", fmt.Errorf("empty response from ai")
	}

	return strings.TrimSpace(respBody.Content[0].Text), nil
}
