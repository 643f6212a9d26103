package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/rickdevqrz/veredicto/internal/model"
)

// OpenAIProvider implements the Provider interface for OpenAI models
type OpenAIProvider struct {
	client *openai.Client
	cfg    model.LLMConfig
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(cfg model.LLMConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

// Judge reviews an article using OpenAI's Chat Completions API
func (p *OpenAIProvider) Judge(ctx context.Context, req JudgeRequest) (*JudgeResponse, error) {
	prompt := buildJudgePrompt(req.Article, req.Sources)

	modelName := req.Model
	if modelName == "" {
		modelName = p.cfg.Model
	}
	if modelName == "" {
		modelName = openai.GPT4oMini
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.cfg.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 700
	}

	timeout := time.Duration(p.cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You review news articles strictly against the provided evidence and answer in JSON only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.2,
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	parsed, err := parseJudgeResponse(strings.TrimSpace(resp.Choices[0].Message.Content), req.Sources)
	if err != nil {
		return nil, err
	}
	parsed.Model = modelName
	parsed.TokensUsed = resp.Usage.TotalTokens
	return parsed, nil
}
