// Package gemini provides a model wrapper for the Google Gemini API. It
// adapts deskbrief's normalized Request/Response structures into genai
// contents and back, including schema-constrained JSON output for the
// structured extraction mode.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/hupe1980/deskbrief/core"
	"github.com/hupe1980/deskbrief/model"
)

// Interface compliance check.
var _ model.Model = (*Model)(nil)

// Options configure the Gemini model adapter.
type Options struct {
	Model string
}

// Model wraps the Gemini API behind the generic model.Model interface.
type Model struct {
	client *genai.Client
	opts   Options
}

// New creates a new Gemini model with the given API key and options.
func New(ctx context.Context, apiKey string, optFns ...func(o *Options)) (*Model, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return NewFromClient(gc, optFns...), nil
}

// NewFromClient creates a new Gemini model from an existing client.
func NewFromClient(client *genai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{Model: "gemini-2.5-pro"}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Generate implements non-streaming generation against the Gemini API.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	contents := ConvertContents(req.Contents)
	config := buildConfig(req)

	resp, err := m.client.Models.GenerateContent(ctx, m.opts.Model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini api error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	cand := resp.Candidates[0]
	out := &model.Response{
		Content:      convertCandidate(cand.Content),
		FinishReason: string(cand.FinishReason),
	}
	if resp.UsageMetadata != nil {
		out.Usage = &model.Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return out, nil
}

func buildConfig(req model.Request) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if req.Temperature != nil {
		temp := float32(*req.Temperature)
		config.Temperature = &temp
	}
	if req.ResponseSchema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseJsonSchema = req.ResponseSchema
	}
	return config
}

// ConvertContents converts deskbrief contents to genai contents. Gemini
// natively uses the user/model role pair, so roles pass through unchanged.
// Exported for testing.
func ConvertContents(contents []core.Content) []*genai.Content {
	result := make([]*genai.Content, 0, len(contents))
	for _, c := range contents {
		var parts []*genai.Part
		for _, p := range c.Parts {
			if tp, ok := p.(core.TextPart); ok {
				parts = append(parts, &genai.Part{Text: tp.Text})
			}
		}
		if len(parts) == 0 {
			continue
		}
		result = append(result, &genai.Content{Role: c.Role, Parts: parts})
	}
	return result
}

func convertCandidate(content *genai.Content) core.Content {
	out := core.Content{Role: core.RoleModel}
	for _, p := range content.Parts {
		if p.Text != "" && !p.Thought {
			out.Parts = append(out.Parts, core.TextPart{Text: p.Text})
		}
	}
	return out
}

// Info returns metadata describing this Gemini model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:           m.opts.Model,
		Provider:       "gemini",
		SupportsSchema: true,
	}
}
