package genapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hupe1980/assetmesh/core"
)

// userMsgImage is the human-readable message surfaced when stage one fails.
const userMsgImage = "Could not generate image"

// ImageClientOptions configures an ImageClient.
type ImageClientOptions struct {
	// HTTPClient performs the requests. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// ImageClient calls the image generation endpoint: request is a JSON body
// {"prompt": ...}, response is the raw image bytes.
type ImageClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewImageClient constructs an ImageClient for the given endpoint URL.
func NewImageClient(endpoint string, optFns ...func(o *ImageClientOptions)) *ImageClient {
	opts := ImageClientOptions{HTTPClient: http.DefaultClient}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &ImageClient{endpoint: endpoint, httpClient: opts.HTTPClient}
}

// Compile-time interface assertion.
var _ ImageGenerator = (*ImageClient)(nil)

// GenerateImage implements ImageGenerator.
func (c *ImageClient) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return nil, fmt.Errorf("encode image request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &core.ServiceError{Endpoint: "image", Message: userMsgImage, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &core.ServiceError{Endpoint: "image", StatusCode: resp.StatusCode, Message: userMsgImage}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &core.ServiceError{Endpoint: "image", Message: userMsgImage, Err: err}
	}
	return data, nil
}
