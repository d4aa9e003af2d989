package core

import (
	"context"
	"time"
)

// Scale bounds enforced at the scale-editing boundary (scene manager and
// editing panels). The store itself accepts any positive value since initial
// values and imported data may originate elsewhere.
const (
	MinScale     = 0.25
	MaxScale     = 5.0
	DefaultScale = 1.0
)

// ClampScale clamps s into [MinScale, MaxScale].
func ClampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}

// AssetRecord is the sole persistent entity: one generated (prompt, image,
// model) triple plus its uniform display scale. IDs are assigned by the store
// on creation, are monotonic and never reused, and are immutable afterwards.
type AssetRecord struct {
	ID      int64     `json:"id"`
	Prompt  string    `json:"prompt"`
	Image   []byte    `json:"image"`
	Model   []byte    `json:"model"`
	Scale   float64   `json:"scale"`
	Created time.Time `json:"created"`
}

// AssetStore persists asset records and their binary payloads. It is the
// single source of truth for asset state: no other component may cache
// authoritative state beyond one rendering pass.
//
// Contract:
//   - Every operation fails with ErrStoreUninitialized until Open has
//     completed once.
//   - Create always returns a freshly assigned id; it never fails silently.
//   - Get and UpdateScale report a missing id as ErrNotFound.
//   - Delete on a missing id is a no-op, not an error.
//   - GetAll returns records in creation (id) order.
//
// Implementations must be safe for concurrent use and must return defensive
// copies of binary payloads.
type AssetStore interface {
	Open(ctx context.Context) error
	Create(ctx context.Context, prompt string, image, model []byte) (int64, error)
	Get(ctx context.Context, id int64) (AssetRecord, error)
	GetAll(ctx context.Context) ([]AssetRecord, error)
	UpdateScale(ctx context.Context, id int64, scale float64) error
	Delete(ctx context.Context, id int64) error
}
