package core

import "context"

// Position is a point in scene space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// DefaultSpawnPosition is where freshly instantiated objects are placed so
// they do not overlap the user's viewpoint. Y is overridden per instance so
// the object's base rests on the ground (y = scale/2).
var DefaultSpawnPosition = Position{X: 3, Y: 0.5, Z: -3}

// Renderer is the rendering/scene-graph runtime collaborator. Spawn is
// non-blocking: the runtime loads the model asynchronously from the given
// resource URI and reports completion by calling the scene manager's
// ModelLoaded. The URI stays resolvable until the instance's handle is
// released.
type Renderer interface {
	Spawn(instanceID, modelURI, name string, scale float64, pos Position) error
	Despawn(instanceID string)
	SetTransform(instanceID string, scale float64, deltaY float64)
}

// ImmersiveDetector reports whether an immersive (headset) session is
// available. The answer routes editing panels between the desktop and the
// in-scene surface.
type ImmersiveDetector interface {
	ImmersiveAvailable(ctx context.Context) (bool, error)
}

// PanelController owns the single editing surface attached to the selected
// instance. At most one panel is open at a time; opening a panel for another
// instance replaces the current one.
type PanelController interface {
	OpenDesktop(instanceID, name string, scale float64)
	OpenImmersive(instanceID, name string, scale float64)
	Close()
}

// FileSaver triggers a save-to-device action for a downloaded model payload.
type FileSaver interface {
	Save(filename string, data []byte) error
}
