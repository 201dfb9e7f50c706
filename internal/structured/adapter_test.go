package structured

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planweave/planweave/internal/errors"
	"github.com/planweave/planweave/internal/provider"
	"github.com/planweave/planweave/internal/schema"
)

// stubClient scripts the structured and plain generation paths
// independently and counts how often each was hit.
type stubClient struct {
	structuredContent string
	structuredErr     error
	plainContent      string
	plainErr          error

	structuredCalls int
	plainCalls      int
	lastPrompt      string
}

func (s *stubClient) Generate(_ context.Context, req *provider.GenerateRequest) (*provider.GenerateResponse, error) {
	s.plainCalls++
	s.lastPrompt = req.Prompt
	if s.plainErr != nil {
		return nil, s.plainErr
	}
	return &provider.GenerateResponse{Content: s.plainContent, Provider: provider.OpenAI}, nil
}

func (s *stubClient) GenerateStructured(_ context.Context, req *provider.GenerateRequest, _ *schema.Definition) (*provider.GenerateResponse, error) {
	s.structuredCalls++
	s.lastPrompt = req.Prompt
	if s.structuredErr != nil {
		return nil, s.structuredErr
	}
	return &provider.GenerateResponse{Content: s.structuredContent, Provider: provider.OpenAI}, nil
}

func (s *stubClient) Capabilities() *provider.Capabilities {
	return &provider.Capabilities{StructuredOutput: provider.TierStrict}
}

func (s *stubClient) Info() *provider.Info {
	return &provider.Info{Identity: provider.OpenAI, Model: "gpt-4o"}
}

func (s *stubClient) Close() error { return nil }

func testSchema() *schema.Definition {
	return schema.Object(map[string]*schema.Definition{
		"answer": schema.String("the answer"),
	}, "answer")
}

func TestGenerateNativeSuccess(t *testing.T) {
	stub := &stubClient{structuredContent: `{"answer": "42"}`}
	adapter := New(stub)

	raw, err := adapter.Generate(context.Background(), provider.NewGenerateRequest("question"), testSchema())
	require.NoError(t, err)
	assert.JSONEq(t, `{"answer": "42"}`, string(raw))
	assert.Equal(t, 1, stub.structuredCalls)
	assert.Equal(t, 0, stub.plainCalls, "no fallback when the native path succeeds")
}

func TestGenerateFallbackAfterTransportError(t *testing.T) {
	stub := &stubClient{
		structuredErr: errors.New(errors.ErrCodeGeneration, "rate limited"),
		plainContent:  `{"answer": "42"}`,
	}
	adapter := New(stub)

	req := provider.NewGenerateRequest("question")
	raw, err := adapter.Generate(context.Background(), req, testSchema())
	require.NoError(t, err)
	assert.JSONEq(t, `{"answer": "42"}`, string(raw))
	assert.Equal(t, 1, stub.structuredCalls)
	assert.Equal(t, 1, stub.plainCalls)
	assert.Equal(t, "question", stub.lastPrompt, "fallback uses the original prompt")
}

func TestGenerateFallbackAfterParseFailure(t *testing.T) {
	stub := &stubClient{
		structuredContent: "Sure! Here is your plan:",
		plainContent:      `{"answer": "42"}`,
	}
	adapter := New(stub)

	raw, err := adapter.Generate(context.Background(), provider.NewGenerateRequest("question"), testSchema())
	require.NoError(t, err)
	assert.JSONEq(t, `{"answer": "42"}`, string(raw))
	assert.Equal(t, 1, stub.plainCalls)
}

func TestGenerateBothAttemptsFail(t *testing.T) {
	stub := &stubClient{
		structuredErr: errors.New(errors.ErrCodeGeneration, "rate limited"),
		plainContent:  "still not json",
	}
	adapter := New(stub)

	_, err := adapter.Generate(context.Background(), provider.NewGenerateRequest("question"), testSchema())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeStructuredGeneration, errors.Code(err))
	assert.Equal(t, "still not json", errors.Detail(err), "the last raw output is kept for diagnostics")
	assert.Equal(t, 1, stub.plainCalls, "exactly one fallback attempt")
}

func TestGenerateFallbackTransportFailure(t *testing.T) {
	stub := &stubClient{
		structuredContent: "not json",
		plainErr:          errors.New(errors.ErrCodeGeneration, "connection reset"),
	}
	adapter := New(stub)

	_, err := adapter.Generate(context.Background(), provider.NewGenerateRequest("question"), testSchema())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeStructuredGeneration, errors.Code(err))
	assert.Equal(t, 1, stub.structuredCalls)
	assert.Equal(t, 1, stub.plainCalls)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{"plain object", `{"a": 1}`, `{"a": 1}`, false},
		{"surrounding whitespace", "\n  {\"a\": 1}\n", `{"a": 1}`, false},
		{"fenced with language tag", "```json\n{\"a\": 1}\n```", `{"a": 1}`, false},
		{"fenced without tag", "```\n[1, 2]\n```", `[1, 2]`, false},
		{"array", `[1, 2, 3]`, `[1, 2, 3]`, false},
		{"prose", "The plan has three steps.", "", true},
		{"truncated object", `{"a": `, "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := Parse(tt.content)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(raw))
		})
	}
}

func TestParseResultIsDecodable(t *testing.T) {
	raw, err := Parse("```json\n{\"tasks\": []}\n```")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "tasks")
}
