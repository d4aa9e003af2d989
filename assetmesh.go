// Package assetmesh provides a high-level façade over the generative asset
// lifecycle: the two-stage prompt→image→model pipeline, the persistent asset
// store, the live scene instances and the synchronized library surfaces.
// Most applications interact with this package by:
//  1. Creating an AssetMesh via New() with the two generation endpoints
//     (optionally overriding the default in-memory store and headless
//     collaborators)
//  2. Registering one or more library surfaces
//  3. Calling Open() once, then driving the pipeline and surface actions
//
// The façade wires the store, event bus, resource handles, pipeline, scene
// manager and library synchronizer together while keeping setup concise. All
// defaults are safe for local development and testing; production deployments
// typically supply the durable sqlite store, a real renderer and a structured
// logger.
package assetmesh

import (
	"context"

	"github.com/hupe1980/assetmesh/bus"
	"github.com/hupe1980/assetmesh/core"
	"github.com/hupe1980/assetmesh/genapi"
	"github.com/hupe1980/assetmesh/handle"
	"github.com/hupe1980/assetmesh/library"
	"github.com/hupe1980/assetmesh/logging"
	"github.com/hupe1980/assetmesh/pipeline"
	"github.com/hupe1980/assetmesh/scene"
	"github.com/hupe1980/assetmesh/store"
)

// Options configures the AssetMesh instance.
type Options struct {
	// Store holds the asset records. Defaults to the in-memory store.
	Store core.AssetStore
	// Bus carries ImageReady and LibraryChanged events. Defaults to the
	// in-process synchronous bus.
	Bus core.Bus
	// Renderer, Detector, Panels and Saver are the scene collaborators.
	// They default to the headless implementations.
	Renderer core.Renderer
	Detector core.ImmersiveDetector
	Panels   core.PanelController
	Saver    core.FileSaver
	// Enricher optionally rewrites prompts before image generation.
	Enricher pipeline.Enricher
	// AutoInstantiate spawns every freshly persisted asset into the scene.
	AutoInstantiate bool
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// AssetMesh is the high-level façade aggregating the store, bus, pipeline,
// scene manager and library synchronizer.
type AssetMesh struct {
	opts     Options
	store    core.AssetStore
	bus      core.Bus
	handles  *handle.Manager
	scene    *scene.Manager
	pipeline *pipeline.Pipeline
	library  *library.Synchronizer
}

// New creates a new AssetMesh over the two generation endpoints. Any unset
// collaborator is initialized with its in-memory or headless default.
func New(images genapi.ImageGenerator, models genapi.ModelGenerator, optFns ...func(o *Options)) *AssetMesh {
	opts := Options{
		Store:           store.NewInMemoryStore(),
		Bus:             bus.New(),
		Renderer:        scene.NoopRenderer{},
		Detector:        scene.StaticDetector{},
		Panels:          scene.NoopPanels{},
		Saver:           scene.NoopSaver{},
		AutoInstantiate: true,
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	handles := handle.NewManager(func(o *handle.Options) {
		o.Logger = opts.Logger
	})

	sceneMgr := scene.NewManager(opts.Store, handles, func(o *scene.Options) {
		o.Renderer = opts.Renderer
		o.Detector = opts.Detector
		o.Panels = opts.Panels
		o.Saver = opts.Saver
		o.Logger = opts.Logger
	})

	pipe := pipeline.New(images, models, opts.Store, opts.Bus, func(o *pipeline.Options) {
		o.Enricher = opts.Enricher
		o.Logger = opts.Logger
		if opts.AutoInstantiate {
			o.OnPersist = func(assetID int64) {
				if _, err := sceneMgr.Instantiate(context.Background(), assetID); err != nil {
					opts.Logger.Error("auto-instantiate failed", "asset_id", assetID, "error", err)
				}
			}
		}
	})

	lib := library.New(opts.Store, handles, opts.Bus, func(o *library.Options) {
		o.Logger = opts.Logger
		o.OnAddToScene = func(ctx context.Context, assetID int64) error {
			_, err := sceneMgr.Instantiate(ctx, assetID)
			return err
		}
		o.OnDownload = sceneMgr.Download
	})

	return &AssetMesh{
		opts:     opts,
		store:    opts.Store,
		bus:      opts.Bus,
		handles:  handles,
		scene:    sceneMgr,
		pipeline: pipe,
		library:  lib,
	}
}

// Open performs the store's one-time setup and the first library render.
func (m *AssetMesh) Open(ctx context.Context) error {
	if err := m.store.Open(ctx); err != nil {
		return err
	}
	return m.library.Refresh(ctx)
}

// Close unsubscribes the library synchronizer from the bus.
func (m *AssetMesh) Close() {
	m.library.Close()
}

// RegisterSurface registers a library view surface.
func (m *AssetMesh) RegisterSurface(name string, view library.View, optFns ...func(o *library.SurfaceOptions)) error {
	return m.library.RegisterSurface(name, view, optFns...)
}

// Pipeline returns the generation pipeline.
func (m *AssetMesh) Pipeline() *pipeline.Pipeline { return m.pipeline }

// Scene returns the scene instance manager.
func (m *AssetMesh) Scene() *scene.Manager { return m.scene }

// Library returns the library synchronizer.
func (m *AssetMesh) Library() *library.Synchronizer { return m.library }

// Store returns the asset store.
func (m *AssetMesh) Store() core.AssetStore { return m.store }

// Bus returns the event bus.
func (m *AssetMesh) Bus() core.Bus { return m.bus }

// Handles returns the resource handle manager.
func (m *AssetMesh) Handles() *handle.Manager { return m.handles }
