// Package llm adapts the Gemini API to the core Generator and Transcriber
// boundaries.
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"omniquery/internal/core"
)

// Gemini wraps a genai client bound to one resolved model name.
type Gemini struct {
	client    *genai.Client
	modelName string
}

// NewGemini creates the client with a resolved model. The configured model
// is preferred, then the fallbacks in order; no usable candidate or a
// missing API key is a construction-time failure.
func NewGemini(ctx context.Context, apiKey, configuredModel string, fallbacks []string) (*Gemini, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	modelName, err := ResolveModel(configuredModel, fallbacks)
	if err != nil {
		return nil, err
	}

	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Gemini{client: cl, modelName: modelName}, nil
}

// ResolveModel picks the model to use: the configured name when set,
// otherwise the first non-empty fallback. The order is deterministic and
// an empty candidate set is an error.
func ResolveModel(configured string, fallbacks []string) (string, error) {
	candidates := append([]string{configured}, fallbacks...)
	for _, name := range candidates {
		if strings.TrimSpace(name) != "" {
			return strings.TrimSpace(name), nil
		}
	}
	return "", fmt.Errorf("no generation model configured; tried %d candidates", len(candidates))
}

// ModelName returns the resolved model.
func (g *Gemini) ModelName() string { return g.modelName }

func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Generate sends one prompt and maps the response into the backend-neutral
// shape; the pipeline decides how to read it.
func (g *Gemini) Generate(ctx context.Context, prompt string) (*core.GenerateResponse, error) {
	m := g.client.GenerativeModel(g.modelName)

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	out := &core.GenerateResponse{Raw: resp}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		var parts []string
		for _, p := range cand.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				parts = append(parts, string(t))
			}
		}
		out.Candidates = append(out.Candidates, core.GenerateCandidate{Parts: parts})
	}
	return out, nil
}

// Transcribe sends an audio or video payload to the multimodal model and
// returns the plain transcript.
func (g *Gemini) Transcribe(ctx context.Context, mimeType string, data []byte) (string, error) {
	m := g.client.GenerativeModel(g.modelName)

	resp, err := m.GenerateContent(ctx,
		genai.Blob{MIMEType: mimeType, Data: data},
		genai.Text("Transcribe the spoken content of this recording. Return only the transcript text."),
	)
	if err != nil {
		return "", fmt.Errorf("gemini transcribe: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return strings.TrimSpace(b.String()), nil
}

var _ core.Generator = (*Gemini)(nil)
var _ core.Transcriber = (*Gemini)(nil)
