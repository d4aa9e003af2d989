package scene

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/assetmesh/core"
	"github.com/hupe1980/assetmesh/handle"
	"github.com/hupe1980/assetmesh/internal/util"
	"github.com/hupe1980/assetmesh/logging"
)

// modelExt is the download extension for stored model payloads.
const modelExt = ".glb"

// instance is the manager's record of one live scene object.
type instance struct {
	assetID int64
	name    string
	scale   float64
	handle  *handle.Handle
	loaded  bool
}

// Options configures a Manager.
type Options struct {
	// Renderer receives spawn/despawn/transform calls. Defaults to a
	// headless no-op renderer.
	Renderer core.Renderer
	// Detector routes editing panels between desktop and immersive.
	// Defaults to never-immersive.
	Detector core.ImmersiveDetector
	// Panels owns the single editing surface. Defaults to no-op.
	Panels core.PanelController
	// Saver performs save-to-device for downloads. Defaults to no-op.
	Saver core.FileSaver
	// Logger receives diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Manager owns the live scene instances created from stored assets: it
// instantiates them, tracks the single selected instance, applies clamped
// scale edits to both the live object and the stored record, and mediates
// downloads. All methods are safe for concurrent use.
type Manager struct {
	mu        sync.Mutex
	store     core.AssetStore
	handles   *handle.Manager
	renderer  core.Renderer
	detector  core.ImmersiveDetector
	panels    core.PanelController
	saver     core.FileSaver
	selection *Selection
	instances map[string]*instance
	logger    logging.Logger
}

// NewManager constructs a Manager over the given store and handle manager.
func NewManager(store core.AssetStore, handles *handle.Manager, optFns ...func(o *Options)) *Manager {
	opts := Options{
		Renderer: NoopRenderer{},
		Detector: StaticDetector{},
		Panels:   NoopPanels{},
		Saver:    NoopSaver{},
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Manager{
		store:     store,
		handles:   handles,
		renderer:  opts.Renderer,
		detector:  opts.Detector,
		panels:    opts.Panels,
		saver:     opts.Saver,
		selection: &Selection{},
		instances: make(map[string]*instance),
		logger:    opts.Logger,
	}
}

// Selection exposes the selection manager.
func (m *Manager) Selection() *Selection { return m.selection }

// Instantiate creates a live scene object from the stored asset and returns
// its instance id before the model load completes (the renderer loads
// asynchronously and reports completion via ModelLoaded). The id embeds the
// asset id and creation time so duplicates of the same asset never collide.
func (m *Manager) Instantiate(ctx context.Context, assetID int64) (string, error) {
	rec, err := m.store.Get(ctx, assetID)
	if err != nil {
		return "", fmt.Errorf("instantiate asset %d: %w", assetID, err)
	}

	h := m.handles.Acquire(rec.Model)
	instanceID := fmt.Sprintf("model-%d-%d", assetID, time.Now().UnixNano())

	pos := core.DefaultSpawnPosition
	pos.Y = rec.Scale / 2 // base rests on the ground

	m.mu.Lock()
	m.instances[instanceID] = &instance{assetID: assetID, name: rec.Prompt, scale: rec.Scale, handle: h}
	m.mu.Unlock()

	if err := m.renderer.Spawn(instanceID, h.URI(), rec.Prompt, rec.Scale, pos); err != nil {
		m.mu.Lock()
		delete(m.instances, instanceID)
		m.mu.Unlock()
		h.Release()
		return "", fmt.Errorf("spawn instance %s: %w", instanceID, err)
	}

	m.logger.Info("instance spawned", "instance_id", instanceID, "asset_id", assetID)
	return instanceID, nil
}

// ModelLoaded is the renderer's load-completion signal. It releases the
// model handle held for the load; removal may have released it already.
func (m *Manager) ModelLoaded(instanceID string) {
	m.mu.Lock()
	inst, ok := m.instances[instanceID]
	if ok {
		inst.loaded = true
	}
	m.mu.Unlock()
	if !ok {
		return
	}
	inst.handle.Release()
	m.logger.Debug("instance load complete", "instance_id", instanceID)
}

// Remove destroys the scene object, releases its handle if the load never
// finished, and closes any editing surface attached to it.
func (m *Manager) Remove(instanceID string) {
	m.mu.Lock()
	inst, ok := m.instances[instanceID]
	if ok {
		delete(m.instances, instanceID)
	}
	m.mu.Unlock()
	if !ok {
		return
	}

	m.renderer.Despawn(instanceID)
	inst.handle.Release()

	if m.selection.Current() == instanceID {
		m.selection.Deselect()
		m.panels.Close()
	}
	m.logger.Info("instance removed", "instance_id", instanceID)
}

// RemoveSelected removes the currently selected instance, if any.
func (m *Manager) RemoveSelected() {
	if id := m.selection.Current(); id != "" {
		m.Remove(id)
	}
}

// SetScale clamps newScale into the editing range, applies it to the live
// object with the vertical offset that keeps the object's base anchored
// (Δy = (new − old) / 2), and persists it to the originating record. The
// clamped value is returned. A persistence failure is logged and returned
// but never reverts the applied visual scale: visual state is authoritative
// for the session, storage is best-effort.
func (m *Manager) SetScale(ctx context.Context, instanceID string, newScale float64) (float64, error) {
	clamped := core.ClampScale(newScale)

	m.mu.Lock()
	inst, ok := m.instances[instanceID]
	if !ok {
		m.mu.Unlock()
		return 0, fmt.Errorf("unknown instance %s", instanceID)
	}
	deltaY := (clamped - inst.scale) / 2
	inst.scale = clamped
	assetID := inst.assetID
	m.mu.Unlock()

	m.renderer.SetTransform(instanceID, clamped, deltaY)

	if err := m.store.UpdateScale(ctx, assetID, clamped); err != nil {
		m.logger.Error("persisting scale failed", "asset_id", assetID, "scale", clamped, "error", err)
		return clamped, fmt.Errorf("persist scale for asset %d: %w", assetID, err)
	}
	return clamped, nil
}

// Select makes instanceID the sole selected instance and opens exactly one
// editing surface, chosen by immersive capability. Selecting the selected
// instance again deselects it and closes the surface; selecting a different
// instance replaces the open surface.
func (m *Manager) Select(ctx context.Context, instanceID string) error {
	m.mu.Lock()
	inst, ok := m.instances[instanceID]
	var name string
	var scale float64
	if ok {
		name, scale = inst.name, inst.scale
	}
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown instance %s", instanceID)
	}

	if m.selection.Current() == instanceID {
		m.selection.Deselect()
		m.panels.Close()
		return nil
	}

	m.selection.Select(instanceID)
	m.panels.Close()

	immersive, err := m.detector.ImmersiveAvailable(ctx)
	if err != nil {
		m.logger.Warn("immersive capability check failed, using desktop panel", "error", err)
		immersive = false
	}
	if immersive {
		m.panels.OpenImmersive(instanceID, name, scale)
	} else {
		m.panels.OpenDesktop(instanceID, name, scale)
	}
	return nil
}

// Download obtains a short-lived handle for the stored model and triggers a
// save-to-device action named after the prompt (whitespace replaced,
// extension fixed). The handle is released when the save returns.
func (m *Manager) Download(ctx context.Context, assetID int64) error {
	rec, err := m.store.Get(ctx, assetID)
	if err != nil {
		return fmt.Errorf("download asset %d: %w", assetID, err)
	}
	filename := util.SafeFilename(rec.Prompt) + modelExt
	return m.handles.With(rec.Model, func(h *handle.Handle) error {
		if err := m.saver.Save(filename, h.Bytes()); err != nil {
			return fmt.Errorf("save %s: %w", filename, err)
		}
		return nil
	})
}

// InstanceCount returns the number of live instances.
func (m *Manager) InstanceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.instances)
}
