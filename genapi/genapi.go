// Package genapi defines the generation-endpoint contracts and their HTTP
// implementations. The remote services are opaque request/response endpoints:
// any non-2xx status (or transport failure) is a ServiceFailure carrying a
// user-facing message, never a crash.
//
// Backends are swappable: sub-packages provide alternative generators (e.g.
// openai for DALL·E image generation) behind the same interfaces, and the
// anthropic sub-package offers optional prompt enrichment ahead of stage one.
package genapi

import "context"

// ImageGenerator produces a binary image payload for a text prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// ModelGenerator produces a binary 3D-model payload (glTF binary) from a seed
// image.
type ModelGenerator interface {
	GenerateModel(ctx context.Context, image []byte) ([]byte, error)
}
