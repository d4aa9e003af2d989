package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/assetmesh/core"
	"github.com/hupe1980/assetmesh/genapi"
	"github.com/hupe1980/assetmesh/logging"
)

// State identifies the pipeline's position in the prompt→image→model flow.
type State int

const (
	// StateIdle means no generation has been started.
	StateIdle State = iota
	// StateImagePending means the image endpoint request is in flight.
	StateImagePending
	// StateImageReady means a seed image is staged and model generation may start.
	StateImageReady
	// StateModelPending means the model endpoint request is in flight.
	StateModelPending
	// StatePersisted means the last run completed and was stored.
	StatePersisted
	// StateError means the last stage failed; UserError carries the message.
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateImagePending:
		return "image-pending"
	case StateImageReady:
		return "image-ready"
	case StateModelPending:
		return "model-pending"
	case StatePersisted:
		return "persisted"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Controls reports which generation entry points should currently be enabled.
// Every failure path leaves the relevant control re-enabled for retry.
type Controls struct {
	GenerateImage bool
	GenerateModel bool
}

// Enricher optionally rewrites a prompt before image generation. Enrichment
// is best-effort: on error the original prompt is used.
type Enricher interface {
	Enrich(ctx context.Context, prompt string) (string, error)
}

// Options configures a Pipeline.
type Options struct {
	// Enricher rewrites prompts ahead of stage one. Nil disables enrichment.
	Enricher Enricher
	// OnPersist is invoked with the new asset id after a successful persist,
	// before LibraryChanged is published. Used to auto-instantiate the asset.
	OnPersist func(assetID int64)
	// Logger receives stage transitions. Defaults to NoOp.
	Logger logging.Logger
}

// Pipeline drives one user session's two-stage generation flow as a stateful,
// resumable sequence: Idle → ImagePending → ImageReady → ModelPending →
// Persisted, with Error reachable from both pending states.
//
// Two entry paths converge on ImageReady: SubmitPrompt (generate an image
// from text) and StageImage (user-uploaded image plus label). Both emit the
// same ImageReady event shape on the bus.
//
// Only one run may be in a pending state at a time; concurrent requests fail
// with core.ErrBusy. All methods are safe for concurrent use.
type Pipeline struct {
	mu        sync.Mutex
	state     State
	prompt    string
	image     []byte
	model     []byte // retained after a persist failure for RetryPersist
	userErr   string
	images    genapi.ImageGenerator
	models    genapi.ModelGenerator
	store     core.AssetStore
	bus       core.Bus
	enricher  Enricher
	onPersist func(int64)
	logger    logging.Logger
}

// New constructs a Pipeline over the given generators, store and bus.
func New(images genapi.ImageGenerator, models genapi.ModelGenerator, store core.AssetStore, eventBus core.Bus, optFns ...func(o *Options)) *Pipeline {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Pipeline{
		state:     StateIdle,
		images:    images,
		models:    models,
		store:     store,
		bus:       eventBus,
		enricher:  opts.Enricher,
		onPersist: opts.OnPersist,
		logger:    opts.Logger,
	}
}

// State returns the current pipeline state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// UserError returns the human-readable message for the last failure, or ""
// when the pipeline is healthy.
func (p *Pipeline) UserError() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.userErr
}

// Controls derives the enabled/disabled configuration of the two generation
// entry points from the current state.
func (p *Pipeline) Controls() Controls {
	p.mu.Lock()
	defer p.mu.Unlock()
	pending := p.state == StateImagePending || p.state == StateModelPending
	return Controls{
		GenerateImage: !pending,
		GenerateModel: !pending && p.image != nil,
	}
}

// SubmitPrompt runs stage one: it sends prompt to the image endpoint, stages
// the returned image and publishes ImageReady. The prompt must be non-empty.
// While a run is pending, further submissions fail with core.ErrBusy.
func (p *Pipeline) SubmitPrompt(ctx context.Context, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("prompt must not be empty")
	}

	p.mu.Lock()
	if p.state == StateImagePending || p.state == StateModelPending {
		p.mu.Unlock()
		return core.ErrBusy
	}
	p.state = StateImagePending
	p.mu.Unlock()
	p.logger.Debug("image generation started", "prompt", prompt)

	if p.enricher != nil {
		enriched, err := p.enricher.Enrich(ctx, prompt)
		if err != nil {
			p.logger.Warn("prompt enrichment failed, using original prompt", "error", err)
		} else {
			prompt = enriched
		}
	}

	image, err := p.images.GenerateImage(ctx, prompt)
	if err != nil {
		p.mu.Lock()
		p.state = StateError
		p.userErr = userMessage(err, "Could not generate image")
		p.mu.Unlock()
		p.logger.Error("image generation failed", "error", err)
		return fmt.Errorf("generate image: %w", err)
	}

	p.stage(prompt, image)
	return nil
}

// StageImage is the upload/label entry path: it stages a user-provided image
// with a user-supplied label, skipping the image endpoint. It converges on
// the same ImageReady state and event shape as SubmitPrompt.
func (p *Pipeline) StageImage(label string, image []byte) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return fmt.Errorf("label must not be empty")
	}
	if len(image) == 0 {
		return fmt.Errorf("image must not be empty")
	}

	p.mu.Lock()
	if p.state == StateImagePending || p.state == StateModelPending {
		p.mu.Unlock()
		return core.ErrBusy
	}
	p.mu.Unlock()

	p.stage(label, image)
	return nil
}

// stage records the prompt/image pair, enters ImageReady and publishes the
// event. Publishing happens outside the lock: bus delivery is synchronous and
// subscribers may call back into the pipeline.
func (p *Pipeline) stage(prompt string, image []byte) {
	p.mu.Lock()
	p.prompt = prompt
	p.image = image
	p.model = nil
	p.state = StateImageReady
	p.userErr = ""
	p.mu.Unlock()

	p.logger.Info("image staged", "prompt", prompt, "bytes", len(image))
	p.bus.PublishImageReady(core.NewImageReady(prompt, image))
}

// GenerateModel runs stage two: it sends the staged image to the model
// endpoint, persists the (prompt, image, model) triple and publishes
// LibraryChanged. It requires a staged image; without one it fails with
// core.ErrNoStagedImage (non-fatal, the pipeline keeps awaiting an image).
//
// A store failure after a successful generation does not discard the model:
// the payload stays in memory, addressable for RetryPersist.
func (p *Pipeline) GenerateModel(ctx context.Context) (int64, error) {
	p.mu.Lock()
	if p.state == StateImagePending || p.state == StateModelPending {
		p.mu.Unlock()
		return 0, core.ErrBusy
	}
	if p.image == nil {
		p.userErr = "Generate an image first"
		p.mu.Unlock()
		return 0, core.ErrNoStagedImage
	}
	image := p.image
	p.state = StateModelPending
	p.mu.Unlock()
	p.logger.Debug("model generation started")

	model, err := p.models.GenerateModel(ctx, image)
	if err != nil {
		p.mu.Lock()
		p.state = StateError
		p.userErr = userMessage(err, "Could not create model")
		p.mu.Unlock()
		p.logger.Error("model generation failed", "error", err)
		return 0, fmt.Errorf("generate model: %w", err)
	}

	return p.persist(ctx, model)
}

// RetryPersist retries storing a generated model after a persist failure.
// It fails if no generated model is being held.
func (p *Pipeline) RetryPersist(ctx context.Context) (int64, error) {
	p.mu.Lock()
	if p.model == nil {
		p.mu.Unlock()
		return 0, fmt.Errorf("no generated model awaiting persistence")
	}
	model := p.model
	p.mu.Unlock()

	return p.persist(ctx, model)
}

func (p *Pipeline) persist(ctx context.Context, model []byte) (int64, error) {
	p.mu.Lock()
	prompt, image := p.prompt, p.image
	p.mu.Unlock()

	id, err := p.store.Create(ctx, prompt, image, model)
	if err != nil {
		// The generated payload is held for one explicit retry; it is not
		// re-queued automatically.
		p.mu.Lock()
		p.state = StateImageReady
		p.model = model
		p.mu.Unlock()
		p.logger.Error("persisting generated asset failed", "prompt", prompt, "error", err)
		return 0, fmt.Errorf("persist generated asset: %w", err)
	}

	p.mu.Lock()
	p.state = StatePersisted
	p.prompt = ""
	p.image = nil
	p.model = nil
	p.userErr = ""
	p.mu.Unlock()
	p.logger.Info("asset persisted", "asset_id", id)

	if p.onPersist != nil {
		p.onPersist(id)
	}
	p.bus.PublishLibraryChanged(core.NewLibraryChanged())
	return id, nil
}

// userMessage extracts the user-facing message from a ServiceError, falling
// back to a stage default.
func userMessage(err error, fallback string) string {
	var svcErr *core.ServiceError
	if errors.As(err, &svcErr) && svcErr.Message != "" {
		return svcErr.Message
	}
	return fallback
}
