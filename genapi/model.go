package genapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/hupe1980/assetmesh/core"
)

// userMsgModel is the human-readable message surfaced when stage two fails.
const userMsgModel = "Could not create model"

// seedImageFilename is the form filename the model endpoint expects for the
// uploaded seed image.
const seedImageFilename = "seed_image.png"

// ModelClientOptions configures a ModelClient.
type ModelClientOptions struct {
	// HTTPClient performs the requests. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// ModelClient calls the model generation endpoint: request is a multipart
// upload with the seed image under the "image_file" field, response is the
// raw glTF-binary model bytes.
type ModelClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewModelClient constructs a ModelClient for the given endpoint URL.
func NewModelClient(endpoint string, optFns ...func(o *ModelClientOptions)) *ModelClient {
	opts := ModelClientOptions{HTTPClient: http.DefaultClient}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &ModelClient{endpoint: endpoint, httpClient: opts.HTTPClient}
}

// Compile-time interface assertion.
var _ ModelGenerator = (*ModelClient)(nil)

// GenerateModel implements ModelGenerator.
func (c *ModelClient) GenerateModel(ctx context.Context, image []byte) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image_file", seedImageFilename)
	if err != nil {
		return nil, fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("write multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("build model request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &core.ServiceError{Endpoint: "model", Message: userMsgModel, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &core.ServiceError{Endpoint: "model", StatusCode: resp.StatusCode, Message: userMsgModel}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &core.ServiceError{Endpoint: "model", Message: userMsgModel, Err: err}
	}
	return data, nil
}
