package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/planweave/planweave/internal/errors"
	"github.com/planweave/planweave/internal/schema"
)

const openAIDefaultBaseURL = "https://api.openai.com/v1"

// OpenAIClient implements Client for the OpenAI chat completions API.
// OpenAI is the strict tier: the schema is enforced by the backend's
// constrained decoding via the json_schema response format.
type OpenAIClient struct {
	cfg    Config
	client *http.Client
}

// OpenAI API request/response structures
type openAIRequest struct {
	Model          string                `json:"model"`
	Messages       []openAIMessage       `json:"messages"`
	Temperature    float64               `json:"temperature,omitempty"`
	MaxTokens      int                   `json:"max_tokens,omitempty"`
	ResponseFormat *openAIResponseFormat `json:"response_format,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *openAIJSONSchema `json:"json_schema,omitempty"`
}

type openAIJSONSchema struct {
	Name   string             `json:"name"`
	Schema *schema.Definition `json:"schema"`
	Strict bool               `json:"strict"`
}

type openAIResponse struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Choices []openAIChoice `json:"choices"`
	Usage   openAIUsage    `json:"usage"`
	Error   *openAIError   `json:"error,omitempty"`
}

type openAIChoice struct {
	Index        int           `json:"index"`
	Message      openAIMessage `json:"message"`
	FinishReason string        `json:"finish_reason,omitempty"`
}

type openAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type openAIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// NewOpenAIClient creates a client for the OpenAI API.
func NewOpenAIClient(cfg Config) (*OpenAIClient, error) {
	cfg.Identity = OpenAI
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = openAIDefaultBaseURL
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, errors.NewProviderInitError(string(OpenAI), err)
	}

	return &OpenAIClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

// Generate implements Client.Generate
func (c *OpenAIClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	return c.complete(ctx, req, nil)
}

// GenerateStructured implements Client.GenerateStructured using the
// strict json_schema response format.
func (c *OpenAIClient) GenerateStructured(ctx context.Context, req *GenerateRequest, def *schema.Definition) (*GenerateResponse, error) {
	format := &openAIResponseFormat{
		Type: "json_schema",
		JSONSchema: &openAIJSONSchema{
			Name:   "response",
			Schema: def,
			Strict: true,
		},
	}
	return c.complete(ctx, req, format)
}

func (c *OpenAIClient) complete(ctx context.Context, req *GenerateRequest, format *openAIResponseFormat) (*GenerateResponse, error) {
	startTime := time.Now()

	oaiReq := openAIRequest{
		Model:          c.cfg.Model,
		Messages:       []openAIMessage{{Role: "user", Content: req.Prompt}},
		Temperature:    c.cfg.Temperature,
		MaxTokens:      c.cfg.MaxTokens,
		ResponseFormat: format,
	}

	reqBody, err := json.Marshal(oaiReq)
	if err != nil {
		return nil, errors.NewGenerationError(string(OpenAI), fmt.Errorf("marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return nil, errors.NewGenerationError(string(OpenAI), fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, errors.NewGenerationError(string(OpenAI), fmt.Errorf("send request: %w", err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errors.NewGenerationError(string(OpenAI), fmt.Errorf("read response: %w", err))
	}

	if httpResp.StatusCode != http.StatusOK {
		var errResp openAIResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != nil {
			return nil, errors.NewGenerationError(string(OpenAI),
				fmt.Errorf("%s (status %d)", errResp.Error.Message, httpResp.StatusCode))
		}
		return nil, errors.NewGenerationError(string(OpenAI),
			fmt.Errorf("http %d: %s", httpResp.StatusCode, respBody))
	}

	var oaiResp openAIResponse
	if err := json.Unmarshal(respBody, &oaiResp); err != nil {
		return nil, errors.NewGenerationError(string(OpenAI), fmt.Errorf("unmarshal response: %w", err))
	}
	if len(oaiResp.Choices) == 0 {
		return nil, errors.NewGenerationError(string(OpenAI), fmt.Errorf("response carried no choices"))
	}

	choice := oaiResp.Choices[0]
	return &GenerateResponse{
		Content:      choice.Message.Content,
		Model:        oaiResp.Model,
		Provider:     OpenAI,
		TokensUsed:   oaiResp.Usage.TotalTokens,
		InputTokens:  oaiResp.Usage.PromptTokens,
		OutputTokens: oaiResp.Usage.CompletionTokens,
		FinishReason: choice.FinishReason,
		Latency:      time.Since(startTime),
	}, nil
}

// Capabilities implements Client.Capabilities
func (c *OpenAIClient) Capabilities() *Capabilities {
	return &Capabilities{
		StructuredOutput: TierStrict,
		MaxOutputTokens:  outputTokenLimits[OpenAI],
	}
}

// Info implements Client.Info
func (c *OpenAIClient) Info() *Info {
	return &Info{Identity: OpenAI, Model: c.cfg.Model, Endpoint: c.cfg.BaseURL}
}

// Close implements Client.Close
func (c *OpenAIClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
