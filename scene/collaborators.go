package scene

import (
	"context"
	"os"
	"path/filepath"

	"github.com/hupe1980/assetmesh/core"
)

// Compile time checks to ensure the defaults satisfy the collaborator
// interfaces.
var (
	_ core.Renderer          = NoopRenderer{}
	_ core.ImmersiveDetector = StaticDetector{}
	_ core.PanelController   = NoopPanels{}
	_ core.FileSaver         = NoopSaver{}
	_ core.FileSaver         = DiskSaver{}
)

// NoopRenderer is a headless core.Renderer for tests and wiring without a
// scene runtime attached.
type NoopRenderer struct{}

// Spawn implements core.Renderer.
func (NoopRenderer) Spawn(string, string, string, float64, core.Position) error { return nil }

// Despawn implements core.Renderer.
func (NoopRenderer) Despawn(string) {}

// SetTransform implements core.Renderer.
func (NoopRenderer) SetTransform(string, float64, float64) {}

// StaticDetector is a core.ImmersiveDetector with a fixed answer. The zero
// value reports no immersive capability (desktop).
type StaticDetector struct {
	Immersive bool
}

// ImmersiveAvailable implements core.ImmersiveDetector.
func (d StaticDetector) ImmersiveAvailable(context.Context) (bool, error) {
	return d.Immersive, nil
}

// NoopPanels is a core.PanelController that ignores all calls.
type NoopPanels struct{}

// OpenDesktop implements core.PanelController.
func (NoopPanels) OpenDesktop(string, string, float64) {}

// OpenImmersive implements core.PanelController.
func (NoopPanels) OpenImmersive(string, string, float64) {}

// Close implements core.PanelController.
func (NoopPanels) Close() {}

// NoopSaver is a core.FileSaver that discards the payload.
type NoopSaver struct{}

// Save implements core.FileSaver.
func (NoopSaver) Save(string, []byte) error { return nil }

// DiskSaver is a core.FileSaver writing downloads into Dir.
type DiskSaver struct {
	Dir string
}

// Save implements core.FileSaver.
func (s DiskSaver) Save(filename string, data []byte) error {
	return os.WriteFile(filepath.Join(s.Dir, filename), data, 0o644)
}
