// Package store houses concrete implementations of the core.AssetStore.
// The interface itself (and the AssetRecord struct) live in the core package
// to centralize domain contracts. Keeping only implementations here prevents
// higher level packages (pipeline, scene, library) from depending on
// concrete storage.
//
// Two backends are provided: a volatile InMemoryStore for tests and demos,
// and a durable sqlite implementation in the sqlite sub-package. Additional
// backends can be added in sub-packages without changing any calling code —
// only the wiring layer decides which implementation to instantiate.
package store
