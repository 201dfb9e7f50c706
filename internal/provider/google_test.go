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

func TestNewGoogleClient(t *testing.T) {
	client, err := NewGoogleClient(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewGoogleClient() error = %v", err)
	}
	if client.cfg.Model != "gemini-2.5-flash" {
		t.Errorf("default model = %s", client.cfg.Model)
	}

	if _, err := NewGoogleClient(Config{APIKey: "k", BaseURL: "::bad::"}); !errors.HasCode(err, errors.ErrCodeProviderInit) {
		t.Errorf("malformed endpoint error code = %s", errors.Code(err))
	}
}

func TestGoogleGenerate(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-2.5-flash:generateContent") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("credential must travel as the key query parameter, got %q", r.URL.Query().Get("key"))
		}

		var req googleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "hello" {
			t.Errorf("unexpected contents: %+v", req.Contents)
		}
		if req.GenerationConfig == nil || req.GenerationConfig.MaxOutputTokens != 2048 {
			t.Errorf("generation config missing clamped defaults: %+v", req.GenerationConfig)
		}

		resp := googleResponse{
			Candidates: []googleCandidate{{
				Content:      googleContent{Role: "model", Parts: []googlePart{{Text: "hi there"}}},
				FinishReason: "STOP",
			}},
			UsageMetadata: &googleUsage{PromptTokenCount: 3, CandidatesTokenCount: 2, TotalTokenCount: 5},
			ModelVersion:  "gemini-2.5-flash",
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))

	client, err := NewGoogleClient(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewGoogleClient() error = %v", err)
	}

	resp, err := client.Generate(context.Background(), NewGenerateRequest("hello"))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Content != "hi there" {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.TokensUsed != 5 {
		t.Errorf("tokens used = %d, want 5", resp.TokensUsed)
	}
}

func TestGoogleGenerateStructuredInjectsSchema(t *testing.T) {
	def := schema.Object(map[string]*schema.Definition{
		"haiku": schema.String(""),
	}, "haiku")

	var gotPrompt string
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req googleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		gotPrompt = req.Contents[0].Parts[0].Text

		resp := googleResponse{
			Candidates: []googleCandidate{{
				Content: googleContent{Parts: []googlePart{{Text: `{"haiku":"leaves fall"}`}}},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))

	client, err := NewGoogleClient(Config{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewGoogleClient() error = %v", err)
	}

	resp, err := client.GenerateStructured(context.Background(), NewGenerateRequest("write a haiku"), def)
	if err != nil {
		t.Fatalf("GenerateStructured() error = %v", err)
	}
	if resp.Content != `{"haiku":"leaves fall"}` {
		t.Errorf("content = %q", resp.Content)
	}

	// No native structural support: the schema must ride in the prompt.
	if !strings.Contains(gotPrompt, "write a haiku") {
		t.Errorf("original prompt missing: %q", gotPrompt)
	}
	if !strings.Contains(gotPrompt, `"haiku"`) || !strings.Contains(gotPrompt, "Respond with valid JSON") {
		t.Errorf("schema rendering missing from prompt: %q", gotPrompt)
	}
}

func TestGoogleGenerateError(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(googleResponse{
			Error: &googleError{Code: 400, Message: "API key not valid", Status: "INVALID_ARGUMENT"},
		})
	}))

	client, err := NewGoogleClient(Config{APIKey: "bad", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewGoogleClient() error = %v", err)
	}

	_, err = client.Generate(context.Background(), NewGenerateRequest("hello"))
	if !errors.HasCode(err, errors.ErrCodeGeneration) {
		t.Fatalf("error code = %s, want %s", errors.Code(err), errors.ErrCodeGeneration)
	}
	if !strings.Contains(err.Error(), "API key not valid") {
		t.Errorf("backend detail missing: %v", err)
	}
}

func TestGoogleCapabilities(t *testing.T) {
	client, err := NewGoogleClient(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewGoogleClient() error = %v", err)
	}
	if client.Capabilities().StructuredOutput != TierNone {
		t.Errorf("tier = %s, want none", client.Capabilities().StructuredOutput)
	}
}
