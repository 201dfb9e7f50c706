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

const mistralDefaultBaseURL = "https://api.mistral.ai/v1"

// MistralClient implements Client for the Mistral chat API. Mistral is the
// loose-JSON tier: structured calls combine json_object mode with the
// schema rendered into the prompt, but field types are not enforced by the
// backend.
type MistralClient struct {
	cfg    Config
	client *http.Client
}

// Mistral API request/response structures
type mistralRequest struct {
	Model          string                 `json:"model"`
	Messages       []mistralMessage       `json:"messages"`
	Temperature    float64                `json:"temperature,omitempty"`
	MaxTokens      int                    `json:"max_tokens,omitempty"`
	ResponseFormat *mistralResponseFormat `json:"response_format,omitempty"`
}

type mistralMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type mistralResponseFormat struct {
	Type string `json:"type"`
}

type mistralResponse struct {
	ID      string          `json:"id"`
	Model   string          `json:"model"`
	Choices []mistralChoice `json:"choices"`
	Usage   mistralUsage    `json:"usage"`
}

type mistralChoice struct {
	Index        int            `json:"index"`
	Message      mistralMessage `json:"message"`
	FinishReason string         `json:"finish_reason,omitempty"`
}

type mistralUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type mistralError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NewMistralClient creates a client for the Mistral API.
func NewMistralClient(cfg Config) (*MistralClient, error) {
	cfg.Identity = Mistral
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = mistralDefaultBaseURL
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, errors.NewProviderInitError(string(Mistral), err)
	}

	return &MistralClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

// Generate implements Client.Generate
func (c *MistralClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	return c.complete(ctx, req.Prompt, nil)
}

// GenerateStructured implements Client.GenerateStructured: json_object
// mode plus the schema described in the prompt.
func (c *MistralClient) GenerateStructured(ctx context.Context, req *GenerateRequest, def *schema.Definition) (*GenerateResponse, error) {
	return c.complete(ctx, schemaPrompt(req.Prompt, def), &mistralResponseFormat{Type: "json_object"})
}

func (c *MistralClient) complete(ctx context.Context, prompt string, format *mistralResponseFormat) (*GenerateResponse, error) {
	startTime := time.Now()

	mReq := mistralRequest{
		Model:          c.cfg.Model,
		Messages:       []mistralMessage{{Role: "user", Content: prompt}},
		Temperature:    c.cfg.Temperature,
		MaxTokens:      c.cfg.MaxTokens,
		ResponseFormat: format,
	}

	reqBody, err := json.Marshal(mReq)
	if err != nil {
		return nil, errors.NewGenerationError(string(Mistral), fmt.Errorf("marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return nil, errors.NewGenerationError(string(Mistral), fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, errors.NewGenerationError(string(Mistral), fmt.Errorf("send request: %w", err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errors.NewGenerationError(string(Mistral), fmt.Errorf("read response: %w", err))
	}

	if httpResp.StatusCode != http.StatusOK {
		var errResp mistralError
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return nil, errors.NewGenerationError(string(Mistral),
				fmt.Errorf("%s (status %d)", errResp.Message, httpResp.StatusCode))
		}
		return nil, errors.NewGenerationError(string(Mistral),
			fmt.Errorf("http %d: %s", httpResp.StatusCode, respBody))
	}

	var mResp mistralResponse
	if err := json.Unmarshal(respBody, &mResp); err != nil {
		return nil, errors.NewGenerationError(string(Mistral), fmt.Errorf("unmarshal response: %w", err))
	}
	if len(mResp.Choices) == 0 {
		return nil, errors.NewGenerationError(string(Mistral), fmt.Errorf("response carried no choices"))
	}

	choice := mResp.Choices[0]
	return &GenerateResponse{
		Content:      choice.Message.Content,
		Model:        mResp.Model,
		Provider:     Mistral,
		TokensUsed:   mResp.Usage.TotalTokens,
		InputTokens:  mResp.Usage.PromptTokens,
		OutputTokens: mResp.Usage.CompletionTokens,
		FinishReason: choice.FinishReason,
		Latency:      time.Since(startTime),
	}, nil
}

// Capabilities implements Client.Capabilities
func (c *MistralClient) Capabilities() *Capabilities {
	return &Capabilities{
		StructuredOutput: TierJSON,
		MaxOutputTokens:  outputTokenLimits[Mistral],
	}
}

// Info implements Client.Info
func (c *MistralClient) Info() *Info {
	return &Info{Identity: Mistral, Model: c.cfg.Model, Endpoint: c.cfg.BaseURL}
}

// Close implements Client.Close
func (c *MistralClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
