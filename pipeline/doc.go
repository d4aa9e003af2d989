// Package pipeline implements the two-stage generation state machine that
// turns a user prompt into a persisted asset: a seed image is obtained from
// the image endpoint (or staged directly from an upload with a label), then a
// 3D model is obtained from the model endpoint and the (prompt, image, model)
// triple is persisted with the default scale.
//
// One pipeline instance serves one user session. At most one run may be in a
// pending state at a time; both stages mutate the shared staged prompt/image,
// so concurrent runs are rejected with ErrBusy rather than queued.
//
// Failure semantics follow the error taxonomy: endpoint failures surface a
// human-readable message and return the relevant entry point to a retryable
// state; a persist failure after a successful generation keeps the model
// payload in memory for one explicit RetryPersist.
package pipeline
