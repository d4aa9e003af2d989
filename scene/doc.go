// Package scene manages the live objects instantiated from stored assets.
//
// The Manager owns instance lifetime: it acquires a resource handle for the
// model payload at spawn time, releases it when the renderer reports load
// completion (or when the instance is removed first, whichever happens
// earlier), and tears down selection and editing surfaces on removal. Scale
// edits are clamped, applied to the live object with base anchoring, and
// persisted to the originating record.
//
// Rendering, immersive detection, editing panels and file saving are
// collaborator interfaces defined in core; headless defaults are provided so
// the package works without a scene runtime attached.
package scene
