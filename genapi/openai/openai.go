// Package openai provides an ImageGenerator backed by the OpenAI Images API.
// It is a drop-in alternative to the plain HTTP image endpoint client for
// deployments that generate seed images with DALL·E instead of a self-hosted
// service.
package openai

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/hupe1980/assetmesh/core"
	"github.com/hupe1980/assetmesh/genapi"
	"github.com/openai/openai-go"
)

// Options configure the OpenAI image generator. Fields mirror a subset of
// Images API parameters intentionally kept minimal; extend via functional
// options without breaking callers.
type Options struct {
	Model openai.ImageModel
	Size  openai.ImageGenerateParamsSize
}

// ImageGenerator wraps the OpenAI Images API behind the genapi.ImageGenerator interface.
type ImageGenerator struct {
	client *openai.Client
	opts   Options
}

// New creates a new OpenAI image generator using the official client.
func New(optFns ...func(o *Options)) *ImageGenerator {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates a new OpenAI image generator from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *ImageGenerator {
	opts := Options{
		Model: openai.ImageModelDallE3,
		Size:  openai.ImageGenerateParamsSize1024x1024,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &ImageGenerator{client: client, opts: opts}
}

// Compile-time interface assertion.
var _ genapi.ImageGenerator = (*ImageGenerator)(nil)

// GenerateImage implements genapi.ImageGenerator. Failures are reported as
// ServiceError so the pipeline treats DALL·E exactly like any other image
// endpoint.
func (g *ImageGenerator) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := g.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          g.opts.Model,
		Size:           g.opts.Size,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	})
	if err != nil {
		return nil, &core.ServiceError{Endpoint: "image", Message: "Could not generate image", Err: err}
	}
	if len(resp.Data) == 0 {
		return nil, &core.ServiceError{Endpoint: "image", Message: "Could not generate image", Err: fmt.Errorf("no image returned")}
	}
	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, &core.ServiceError{Endpoint: "image", Message: "Could not generate image", Err: fmt.Errorf("decode image payload: %w", err)}
	}
	return data, nil
}
