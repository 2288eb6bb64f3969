package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// placeholderToken satisfies the client for local servers that ignore auth.
const placeholderToken = "sk-local"

// OpenAIClient talks to any OpenAI-compatible chat endpoint (LM Studio,
// vLLM, llama.cpp server, hosted APIs) through langchaingo.
type OpenAIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewOpenAIClient creates a client for baseURL (e.g., http://127.0.0.1:1234/v1).
func NewOpenAIClient(baseURL, apiKey string, httpTimeout time.Duration) *OpenAIClient {
	if apiKey == "" {
		apiKey = placeholderToken
	}
	if httpTimeout < 0 {
		httpTimeout = 0
	}
	return &OpenAIClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: httpTimeout},
	}
}

// Generate sends the conversation in one request and returns the first choice.
func (c *OpenAIClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if req.Model == "" {
		return nil, errors.New("model cannot be empty")
	}
	if len(req.Messages) == 0 {
		return nil, errors.New("messages cannot be empty")
	}
	log.Debug().Str("base_url", c.baseURL).Str("model", req.Model).Int("messages", len(req.Messages)).Msg("openai-compatible generate")
	opts := []openai.Option{
		openai.WithToken(c.apiKey),
		openai.WithModel(req.Model),
		openai.WithHTTPClient(c.httpClient),
	}
	if c.baseURL != "" {
		opts = append(opts, openai.WithBaseURL(c.baseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("init openai client: %w", err)
	}

	content := make([]llms.MessageContent, len(req.Messages))
	for i, m := range req.Messages {
		content[i] = llms.TextParts(chatMessageType(m.Role), m.Content)
	}
	var callOpts []llms.CallOption
	if req.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.Temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(req.Temperature))
	}

	resp, err := llm.GenerateContent(ctx, content, callOpts...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var netErr net.Error
		if errors.As(err, &netErr) {
			return nil, &UnreachableError{Host: c.baseURL, Err: err}
		}
		return nil, fmt.Errorf("openai-compatible generate: %w", err)
	}
	// The reply text is passed through unchecked, blank included.
	var reply string
	if resp != nil && len(resp.Choices) > 0 {
		reply = resp.Choices[0].Content
	}
	return &GenerateResponse{
		Choices:   []Choice{{Message: Message{Role: "assistant", Content: reply}}},
		RequestID: fmt.Sprintf("openai_%d", time.Now().UnixNano()),
	}, nil
}

func chatMessageType(role string) schema.ChatMessageType {
	switch role {
	case "system":
		return schema.ChatMessageTypeSystem
	case "assistant":
		return schema.ChatMessageTypeAI
	default:
		return schema.ChatMessageTypeHuman
	}
}
