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

const googleDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GoogleClient implements Client for the Google Generative Language API.
// Google is the no-structure tier here: structured calls append a
// human-readable schema rendering to the prompt and the raw text is parsed
// downstream, best effort.
type GoogleClient struct {
	cfg    Config
	client *http.Client
}

// Google Generative Language API request/response structures
type googleRequest struct {
	Contents         []googleContent         `json:"contents"`
	GenerationConfig *googleGenerationConfig `json:"generationConfig,omitempty"`
}

type googleContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []googlePart `json:"parts"`
}

type googlePart struct {
	Text string `json:"text"`
}

type googleGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type googleResponse struct {
	Candidates    []googleCandidate `json:"candidates"`
	UsageMetadata *googleUsage      `json:"usageMetadata,omitempty"`
	ModelVersion  string            `json:"modelVersion,omitempty"`
	Error         *googleError      `json:"error,omitempty"`
}

type googleCandidate struct {
	Content      googleContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type googleUsage struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type googleError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// NewGoogleClient creates a client for the Google Generative Language API.
func NewGoogleClient(cfg Config) (*GoogleClient, error) {
	cfg.Identity = Google
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = googleDefaultBaseURL
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, errors.NewProviderInitError(string(Google), err)
	}

	return &GoogleClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

// Generate implements Client.Generate
func (c *GoogleClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	return c.generateContent(ctx, req.Prompt)
}

// GenerateStructured implements Client.GenerateStructured by describing
// the schema inside the prompt; the backend offers no enforcement.
func (c *GoogleClient) GenerateStructured(ctx context.Context, req *GenerateRequest, def *schema.Definition) (*GenerateResponse, error) {
	return c.generateContent(ctx, schemaPrompt(req.Prompt, def))
}

func (c *GoogleClient) generateContent(ctx context.Context, prompt string) (*GenerateResponse, error) {
	startTime := time.Now()

	gReq := googleRequest{
		Contents: []googleContent{{
			Role:  "user",
			Parts: []googlePart{{Text: prompt}},
		}},
		GenerationConfig: &googleGenerationConfig{
			Temperature:     c.cfg.Temperature,
			MaxOutputTokens: c.cfg.MaxTokens,
		},
	}

	reqBody, err := json.Marshal(gReq)
	if err != nil {
		return nil, errors.NewGenerationError(string(Google), fmt.Errorf("marshal request: %w", err))
	}

	// The credential travels as a query parameter on this API.
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.cfg.BaseURL, c.cfg.Model, url.QueryEscape(c.cfg.APIKey))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, errors.NewGenerationError(string(Google), fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, errors.NewGenerationError(string(Google), fmt.Errorf("send request: %w", err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errors.NewGenerationError(string(Google), fmt.Errorf("read response: %w", err))
	}

	if httpResp.StatusCode != http.StatusOK {
		var errResp googleResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != nil {
			return nil, errors.NewGenerationError(string(Google),
				fmt.Errorf("%s (status %d, %s)", errResp.Error.Message, httpResp.StatusCode, errResp.Error.Status))
		}
		return nil, errors.NewGenerationError(string(Google),
			fmt.Errorf("http %d: %s", httpResp.StatusCode, respBody))
	}

	var gResp googleResponse
	if err := json.Unmarshal(respBody, &gResp); err != nil {
		return nil, errors.NewGenerationError(string(Google), fmt.Errorf("unmarshal response: %w", err))
	}
	if len(gResp.Candidates) == 0 || len(gResp.Candidates[0].Content.Parts) == 0 {
		return nil, errors.NewGenerationError(string(Google), fmt.Errorf("response carried no candidates"))
	}

	candidate := gResp.Candidates[0]
	content := ""
	for _, part := range candidate.Content.Parts {
		content += part.Text
	}

	resp := &GenerateResponse{
		Content:      content,
		Model:        gResp.ModelVersion,
		Provider:     Google,
		FinishReason: candidate.FinishReason,
		Latency:      time.Since(startTime),
	}
	if resp.Model == "" {
		resp.Model = c.cfg.Model
	}
	if gResp.UsageMetadata != nil {
		resp.TokensUsed = gResp.UsageMetadata.TotalTokenCount
		resp.InputTokens = gResp.UsageMetadata.PromptTokenCount
		resp.OutputTokens = gResp.UsageMetadata.CandidatesTokenCount
	}
	return resp, nil
}

// Capabilities implements Client.Capabilities
func (c *GoogleClient) Capabilities() *Capabilities {
	return &Capabilities{
		StructuredOutput: TierNone,
		MaxOutputTokens:  outputTokenLimits[Google],
	}
}

// Info implements Client.Info
func (c *GoogleClient) Info() *Info {
	return &Info{Identity: Google, Model: c.cfg.Model, Endpoint: c.cfg.BaseURL}
}

// Close implements Client.Close
func (c *GoogleClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
