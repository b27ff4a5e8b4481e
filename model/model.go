package model

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hupe1980/deskbrief/core"
)

// Request captures the normalized model input produced by the gateway.
type Request struct {
	// Contents is the full ordered turn history including the priming pair.
	Contents []core.Content
	// Temperature overrides the backend default when non-nil.
	Temperature *float64
	// ResponseSchema, when non-nil, instructs the backend to produce a JSON
	// reply conforming to the given JSON schema.
	ResponseSchema map[string]any
}

// Usage captures token usage statistics for a response.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the completed model reply for one request.
type Response struct {
	Content      core.Content `json:"content"`
	FinishReason string       `json:"finish_reason"`
	Usage        *Usage       `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name           string `json:"name"`
	Provider       string `json:"provider"` // "gemini", "openai", "anthropic", "mock"
	SupportsSchema bool   `json:"supports_schema"`
}

// Model is the minimal interface the gateway requires to drive generation.
// The gateway is strictly request/response, so the contract is synchronous;
// the model call is the only suspension point in a request cycle.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests and local
// development without backend credentials.
type MockModel struct {
	info      Info
	responses map[string]string
	err       error
}

// NewMockModel constructs a MockModel with schema support enabled.
func NewMockModel() *MockModel {
	return &MockModel{
		info:      Info{Name: "mock", Provider: "mock", SupportsSchema: true},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) { m.responses[prompt] = response }

// Fail makes every subsequent Generate call return err.
func (m *MockModel) Fail(err error) { m.err = err }

// Generate implements Model; echoes a canned or derived completion for the
// last user turn. With a ResponseSchema set it falls back to an empty but
// well-formed extraction document so structured flows stay parseable.
func (m *MockModel) Generate(_ context.Context, req Request) (*Response, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(req.Contents) == 0 {
		return nil, fmt.Errorf("no contents provided")
	}
	inputText := req.Contents[len(req.Contents)-1].Text()
	full, ok := m.responses[inputText]
	if !ok {
		if req.ResponseSchema != nil {
			raw, _ := json.Marshal(map[string]any{"action_points": []any{}, "consider_points": []any{}})
			full = string(raw)
		} else {
			full = fmt.Sprintf("Mock response to: %s", inputText)
		}
	}
	return &Response{
		Content:      core.NewModelContent(full),
		FinishReason: "stop",
	}, nil
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
