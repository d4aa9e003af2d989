// Package core provides the foundational domain types and interfaces used by
// AssetMesh. It defines the core abstractions for:
//
//   - AssetRecord (the sole persistent entity: prompt, image, model, scale)
//   - AssetStore (pluggable keyed persistence with a one-time Open step)
//   - Events + Bus (typed, synchronously delivered publish/subscribe)
//   - External collaborators (Renderer, ImmersiveDetector, PanelController,
//     FileSaver) specified only at their interface boundary
//   - The error taxonomy shared by all components
//
// The package intentionally keeps implementation concerns (persistence,
// pipeline orchestration, concrete surfaces) out of scope, exposing small
// interfaces to enable custom backends and extensions.
package core
