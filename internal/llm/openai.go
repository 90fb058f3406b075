package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

var openaiAliases = map[string]string{
	"gpt-mini": "gpt-4o-mini",
	"gpt":      "gpt-4o",
}

// chatProvider speaks the OpenAI chat completions API. OpenRouter and
// other compatible gateways reuse it with a different base URL.
type chatProvider struct {
	name   string
	client *openai.Client
	model  string
}

func newOpenAI(b Backend) (*chatProvider, error) {
	if b.APIKey == "" {
		return nil, errMissingKey
	}
	return &chatProvider{
		name:   "openai",
		client: openaiClient(b.APIKey, b.BaseURL),
		model:  resolveModel(b.Model, openaiAliases),
	}, nil
}

// newOpenRouter passes model ids through untouched; OpenRouter names
// models as "vendor/model".
func newOpenRouter(b Backend) (*chatProvider, error) {
	if b.APIKey == "" {
		return nil, errMissingKey
	}
	base := b.BaseURL
	if base == "" {
		base = openRouterBaseURL
	}
	return &chatProvider{
		name:   "openrouter",
		client: openaiClient(b.APIKey, base),
		model:  b.Model,
	}, nil
}

func openaiClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

func (p *chatProvider) Name() string  { return p.name }
func (p *chatProvider) Model() string { return p.model }

func (p *chatProvider) Complete(ctx context.Context, pr Prompt) (*Completion, error) {
	req := openai.ChatCompletionRequest{
		Model:               p.model,
		MaxCompletionTokens: pr.MaxTokens,
		Temperature:         float32(pr.Temperature),
	}
	if pr.System != "" {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: pr.System,
		})
	}
	req.Messages = append(req.Messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: pr.User,
	})
	if pr.Schema != nil {
		def, err := json.Marshal(pr.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("encode schema %s: %w", pr.Schema.Name, err)
		}
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   pr.Schema.Name,
				Schema: json.RawMessage(def),
				Strict: true,
			},
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, p.mapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &Error{Kind: Malformed, Backend: p.name, Err: errors.New("no choices")}
	}

	choice := resp.Choices[0]
	c := &Completion{
		Text:   choice.Message.Content,
		Model:  resp.Model,
		Usage:  Usage{Input: resp.Usage.PromptTokens, Output: resp.Usage.CompletionTokens},
		Finish: FinishStop,
	}
	if choice.FinishReason == openai.FinishReasonLength {
		c.Finish = FinishLength
	}
	return settle(p.name, pr, c)
}

func (p *chatProvider) mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fromStatus(p.name, apiErr.HTTPStatusCode, nil, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fromStatus(p.name, reqErr.HTTPStatusCode, nil, err)
	}
	return fromStatus(p.name, 0, nil, err)
}
