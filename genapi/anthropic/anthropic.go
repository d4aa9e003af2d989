// Package anthropic provides an optional prompt enricher backed by the
// Anthropic Claude API. When wired into the pipeline it rewrites a terse
// user prompt into a richer image-generation prompt before stage one;
// enrichment failures fall back to the original prompt so generation never
// blocks on it.
package anthropic

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const systemPrompt = "You rewrite short object descriptions into vivid, concrete prompts " +
	"for a 2D image generator whose output seeds a 3D model generator. Keep the subject " +
	"centered, on a plain background, and reply with the rewritten prompt only."

// Options configures the Anthropic enricher (model id, max tokens, API key).
type Options struct {
	Model     anthropic.Model
	MaxTokens int64
	APIKey    string
}

// Enricher wraps the Anthropic Messages API behind the pipeline's Enricher interface.
type Enricher struct {
	client *anthropic.Client
	opts   Options
}

// New creates a new Enricher using the official client.
func New(optFns ...func(o *Options)) *Enricher {
	opts := Options{
		Model:     anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens: 256,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Enricher{client: &client, opts: opts}
}

// NewFromClient creates a new Enricher from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Enricher {
	opts := Options{
		Model:     anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens: 256,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Enricher{client: client, opts: opts}
}

// Enrich rewrites prompt for image generation. On any failure (or an empty
// completion) the original prompt is returned with the error; callers treat
// enrichment as best-effort.
func (e *Enricher) Enrich(ctx context.Context, prompt string) (string, error) {
	resp, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     e.opts.Model,
		MaxTokens: e.opts.MaxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return prompt, err
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	enriched := strings.TrimSpace(sb.String())
	if enriched == "" {
		return prompt, nil
	}
	return enriched, nil
}
