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

const groqDefaultBaseURL = "https://api.groq.com/openai/v1"

// GroqClient implements Client for the Groq API. Groq exposes an
// OpenAI-compatible chat completions surface, so the openAI* wire structs
// are reused. Groq is the loose-JSON tier: json_object mode guarantees a
// JSON object but does not enforce the schema's field types; conformance
// is advisory and rides on the prompt wording.
type GroqClient struct {
	cfg    Config
	client *http.Client
}

// NewGroqClient creates a client for the Groq API.
func NewGroqClient(cfg Config) (*GroqClient, error) {
	cfg.Identity = Groq
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = groqDefaultBaseURL
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, errors.NewProviderInitError(string(Groq), err)
	}

	return &GroqClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

// Generate implements Client.Generate
func (c *GroqClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	return c.complete(ctx, req, nil)
}

// GenerateStructured implements Client.GenerateStructured using Groq's
// json_object mode. The schema itself is not transmitted; the prompt is
// expected to describe the target shape.
func (c *GroqClient) GenerateStructured(ctx context.Context, req *GenerateRequest, _ *schema.Definition) (*GenerateResponse, error) {
	return c.complete(ctx, req, &openAIResponseFormat{Type: "json_object"})
}

func (c *GroqClient) complete(ctx context.Context, req *GenerateRequest, format *openAIResponseFormat) (*GenerateResponse, error) {
	startTime := time.Now()

	groqReq := openAIRequest{
		Model:          c.cfg.Model,
		Messages:       []openAIMessage{{Role: "user", Content: req.Prompt}},
		Temperature:    c.cfg.Temperature,
		MaxTokens:      c.cfg.MaxTokens,
		ResponseFormat: format,
	}

	reqBody, err := json.Marshal(groqReq)
	if err != nil {
		return nil, errors.NewGenerationError(string(Groq), fmt.Errorf("marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return nil, errors.NewGenerationError(string(Groq), fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, errors.NewGenerationError(string(Groq), fmt.Errorf("send request: %w", err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errors.NewGenerationError(string(Groq), fmt.Errorf("read response: %w", err))
	}

	if httpResp.StatusCode != http.StatusOK {
		var errResp openAIResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != nil {
			return nil, errors.NewGenerationError(string(Groq),
				fmt.Errorf("%s (status %d)", errResp.Error.Message, httpResp.StatusCode))
		}
		return nil, errors.NewGenerationError(string(Groq),
			fmt.Errorf("http %d: %s", httpResp.StatusCode, respBody))
	}

	var groqResp openAIResponse
	if err := json.Unmarshal(respBody, &groqResp); err != nil {
		return nil, errors.NewGenerationError(string(Groq), fmt.Errorf("unmarshal response: %w", err))
	}
	if len(groqResp.Choices) == 0 {
		return nil, errors.NewGenerationError(string(Groq), fmt.Errorf("response carried no choices"))
	}

	choice := groqResp.Choices[0]
	return &GenerateResponse{
		Content:      choice.Message.Content,
		Model:        groqResp.Model,
		Provider:     Groq,
		TokensUsed:   groqResp.Usage.TotalTokens,
		InputTokens:  groqResp.Usage.PromptTokens,
		OutputTokens: groqResp.Usage.CompletionTokens,
		FinishReason: choice.FinishReason,
		Latency:      time.Since(startTime),
	}, nil
}

// Capabilities implements Client.Capabilities
func (c *GroqClient) Capabilities() *Capabilities {
	return &Capabilities{
		StructuredOutput: TierJSON,
		MaxOutputTokens:  outputTokenLimits[Groq],
	}
}

// Info implements Client.Info
func (c *GroqClient) Info() *Info {
	return &Info{Identity: Groq, Model: c.cfg.Model, Endpoint: c.cfg.BaseURL}
}

// Close implements Client.Close
func (c *GroqClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
