package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/planweave/planweave/internal/errors"
	"github.com/planweave/planweave/internal/schema"
)

func TestNewMistralClient(t *testing.T) {
	client, err := NewMistralClient(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewMistralClient() error = %v", err)
	}
	if client.cfg.Model != "mistral-large-latest" {
		t.Errorf("default model = %s", client.cfg.Model)
	}
	if client.Capabilities().StructuredOutput != TierJSON {
		t.Errorf("tier = %s, want json", client.Capabilities().StructuredOutput)
	}
}

func TestMistralGenerateStructured(t *testing.T) {
	def := schema.Object(map[string]*schema.Definition{
		"summary": schema.String(""),
	}, "summary")

	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		var req mistralRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}

		// Mistral's loose tier combines json_object mode with the schema
		// described in the prompt.
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_object" {
			t.Fatalf("expected json_object response format, got %+v", req.ResponseFormat)
		}
		prompt := req.Messages[0].Content
		if !strings.Contains(prompt, "summarize this") || !strings.Contains(prompt, `"summary"`) {
			t.Errorf("prompt should carry goal and schema rendering: %q", prompt)
		}

		resp := mistralResponse{
			Model: "mistral-large-latest",
			Choices: []mistralChoice{{
				Message:      mistralMessage{Role: "assistant", Content: `{"summary":"done"}`},
				FinishReason: "stop",
			}},
			Usage: mistralUsage{PromptTokens: 8, CompletionTokens: 4, TotalTokens: 12},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))

	client, err := NewMistralClient(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewMistralClient() error = %v", err)
	}

	resp, err := client.GenerateStructured(context.Background(), NewGenerateRequest("summarize this"), def)
	if err != nil {
		t.Fatalf("GenerateStructured() error = %v", err)
	}
	if resp.Content != `{"summary":"done"}` {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.TokensUsed != 12 {
		t.Errorf("tokens used = %d, want 12", resp.TokensUsed)
	}
}

func TestMistralGenerateError(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"service overloaded","type":"overloaded"}`))
	}))

	client, err := NewMistralClient(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewMistralClient() error = %v", err)
	}

	_, err = client.Generate(context.Background(), NewGenerateRequest("hello"))
	if !errors.HasCode(err, errors.ErrCodeGeneration) {
		t.Fatalf("error code = %s, want %s", errors.Code(err), errors.ErrCodeGeneration)
	}
	if !strings.Contains(err.Error(), "service overloaded") {
		t.Errorf("backend detail missing: %v", err)
	}
}
