// Package sqlite provides the durable AssetStore backend. It persists asset
// records (including binary payloads) in a single sqlite table via gorm with
// a pure-Go driver, so library assets survive process restarts without cgo.
//
// Open performs the versioned setup step: on a fresh database the schema is
// migrated from "does not exist" to version 1 (create-if-absent); on an
// existing database it is a no-op.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/hupe1980/assetmesh/core"
	"github.com/hupe1980/assetmesh/logging"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// assetRow is the persisted shape of core.AssetRecord. The table name matches
// the keyed object collection the schema versioning refers to.
type assetRow struct {
	ID      int64 `gorm:"primaryKey;autoIncrement"`
	Prompt  string
	Image   []byte
	Model   []byte
	Scale   float64
	Created time.Time
}

// TableName implements gorm's Tabler.
func (assetRow) TableName() string { return "generated_assets" }

// Options configures the sqlite Store.
type Options struct {
	// Logger receives store diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Store is a durable core.AssetStore backed by a sqlite database file (or
// ":memory:" for tests). Safe for concurrent use; sqlite serializes writes.
type Store struct {
	mu     sync.RWMutex
	path   string
	db     *gorm.DB
	logger logging.Logger
}

// New constructs a Store for the given database path. No I/O happens until
// Open.
func New(path string, optFns ...func(o *Options)) *Store {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{path: path, logger: opts.Logger}
}

// Compile-time interface assertion.
var _ core.AssetStore = (*Store)(nil)

// Open opens the database and migrates the schema. Idempotent.
func (s *Store) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return nil
	}
	db, err := gorm.Open(sqlite.Open(s.path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&assetRow{}); err != nil {
		return fmt.Errorf("migrate generated_assets: %w", err)
	}
	s.db = db
	s.logger.Info("asset database opened", "path", s.path)
	return nil
}

func (s *Store) conn() (*gorm.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, core.ErrStoreUninitialized
	}
	return s.db, nil
}

// Create stores a new record with the default scale and returns its id.
func (s *Store) Create(ctx context.Context, prompt string, image, model []byte) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	row := assetRow{
		Prompt:  prompt,
		Image:   image,
		Model:   model,
		Scale:   core.DefaultScale,
		Created: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("create asset: %w", err)
	}
	return row.ID, nil
}

// Get returns the record or core.ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (core.AssetRecord, error) {
	db, err := s.conn()
	if err != nil {
		return core.AssetRecord{}, err
	}
	var row assetRow
	if err := db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return core.AssetRecord{}, core.ErrNotFound
		}
		return core.AssetRecord{}, fmt.Errorf("get asset %d: %w", id, err)
	}
	return row.record(), nil
}

// GetAll returns every record in creation order.
func (s *Store) GetAll(ctx context.Context) ([]core.AssetRecord, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	var rows []assetRow
	if err := db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("get all assets: %w", err)
	}
	records := make([]core.AssetRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record())
	}
	return records, nil
}

// UpdateScale sets the stored scale for id or returns core.ErrNotFound.
func (s *Store) UpdateScale(ctx context.Context, id int64, scale float64) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if scale <= 0 {
		return fmt.Errorf("scale must be positive, got %v", scale)
	}
	res := db.WithContext(ctx).Model(&assetRow{}).Where("id = ?", id).Update("scale", scale)
	if res.Error != nil {
		return fmt.Errorf("update asset %d scale: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return core.ErrNotFound
	}
	return nil
}

// Delete removes the record if present. Deleting a missing id is a no-op.
func (s *Store) Delete(ctx context.Context, id int64) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Delete(&assetRow{}, id).Error; err != nil {
		return fmt.Errorf("delete asset %d: %w", id, err)
	}
	return nil
}

func (r assetRow) record() core.AssetRecord {
	return core.AssetRecord{
		ID:      r.ID,
		Prompt:  r.Prompt,
		Image:   r.Image,
		Model:   r.Model,
		Scale:   r.Scale,
		Created: r.Created,
	}
}
