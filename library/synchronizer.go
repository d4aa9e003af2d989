package library

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/assetmesh/core"
	"github.com/hupe1980/assetmesh/handle"
	"github.com/hupe1980/assetmesh/internal/util"
	"github.com/hupe1980/assetmesh/logging"
)

// DefaultItemsPerPage is the page size of a paginated surface unless
// overridden at registration.
const DefaultItemsPerPage = 4

// SurfaceOptions configures one registered surface.
type SurfaceOptions struct {
	// Paginated slices the asset set into pages of ItemsPerPage cards.
	Paginated bool
	// ItemsPerPage is the page size for a paginated surface.
	ItemsPerPage int
	// WrapTitlesAt, when positive, word-wraps card titles at the given
	// width. Zero leaves titles unwrapped.
	WrapTitlesAt int
}

// WithPagination marks the surface as paginated with the given page size;
// zero or negative selects DefaultItemsPerPage.
func WithPagination(itemsPerPage int) func(o *SurfaceOptions) {
	return func(o *SurfaceOptions) {
		o.Paginated = true
		if itemsPerPage > 0 {
			o.ItemsPerPage = itemsPerPage
		}
	}
}

// WithTitleWrap word-wraps card titles at width.
func WithTitleWrap(width int) func(o *SurfaceOptions) {
	return func(o *SurfaceOptions) {
		o.WrapTitlesAt = width
	}
}

// surface is the synchronizer's record of one registered view.
type surface struct {
	name   string
	view   View
	opts   SurfaceOptions
	page   int
	states map[int64]CardState
	active int64 // asset id with the open overlay, 0 = none
}

// Options configures a Synchronizer.
type Options struct {
	// OnAddToScene handles a card's add action, typically by instantiating
	// the asset in the scene.
	OnAddToScene func(ctx context.Context, assetID int64) error
	// OnDownload handles a card's download action.
	OnDownload func(ctx context.Context, assetID int64) error
	// Logger receives diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Synchronizer keeps every registered surface consistent with the asset
// store. Each LibraryChanged event (and each explicit Refresh) triggers a
// full rebuild: all assets are re-read, every surface is cleared and
// re-rendered, and paginated surfaces return to page zero. Surfaces never
// hold authoritative asset state beyond one render pass.
type Synchronizer struct {
	mu          sync.Mutex
	store       core.AssetStore
	handles     *handle.Manager
	bus         core.Bus
	surfaces    map[string]*surface
	order       []string
	onAdd       func(ctx context.Context, assetID int64) error
	onDownload  func(ctx context.Context, assetID int64) error
	logger      logging.Logger
	unsubscribe func()
}

// New constructs a Synchronizer and subscribes it to LibraryChanged events.
// Call Close to unsubscribe.
func New(store core.AssetStore, handles *handle.Manager, b core.Bus, optFns ...func(o *Options)) *Synchronizer {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	s := &Synchronizer{
		store:      store,
		handles:    handles,
		bus:        b,
		surfaces:   make(map[string]*surface),
		onAdd:      opts.OnAddToScene,
		onDownload: opts.OnDownload,
		logger:     opts.Logger,
	}
	s.unsubscribe = b.SubscribeLibraryChanged(func(core.LibraryChanged) {
		if err := s.Refresh(context.Background()); err != nil {
			s.logger.Error("library refresh failed", "error", err)
		}
	})
	return s
}

// Close unsubscribes the synchronizer from the bus.
func (s *Synchronizer) Close() {
	s.unsubscribe()
}

// RegisterSurface registers a named view. Paginated surfaces default to
// DefaultItemsPerPage. The surface stays empty until the next Refresh.
func (s *Synchronizer) RegisterSurface(name string, view View, optFns ...func(o *SurfaceOptions)) error {
	opts := SurfaceOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Paginated && opts.ItemsPerPage <= 0 {
		opts.ItemsPerPage = DefaultItemsPerPage
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.surfaces[name]; exists {
		return fmt.Errorf("surface %q already registered", name)
	}
	s.surfaces[name] = &surface{name: name, view: view, opts: opts, states: make(map[int64]CardState)}
	s.order = append(s.order, name)
	return nil
}

// Refresh re-reads all assets and rebuilds every surface from scratch.
// Paginated surfaces reset to page zero.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	records, err := s.store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("read assets: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range s.order {
		sf := s.surfaces[name]
		sf.page = 0
		s.renderLocked(sf, records)
	}
	s.logger.Debug("library refreshed", "assets", len(records), "surfaces", len(s.order))
	return nil
}

// renderLocked clears and re-renders one surface from records. Card image
// handles live only for the duration of each ShowCard call.
func (s *Synchronizer) renderLocked(sf *surface, records []core.AssetRecord) {
	sf.view.Clear()
	sf.states = make(map[int64]CardState)
	sf.active = 0

	visible := records
	if sf.opts.Paginated {
		start := sf.page * sf.opts.ItemsPerPage
		if start >= len(records) {
			visible = nil
		} else {
			end := start + sf.opts.ItemsPerPage
			if end > len(records) {
				end = len(records)
			}
			visible = records[start:end]
		}
	}

	for _, rec := range visible {
		title := rec.Prompt
		if sf.opts.WrapTitlesAt > 0 {
			title = util.WrapText(rec.Prompt, sf.opts.WrapTitlesAt)
		}
		sf.states[rec.ID] = CardNormal
		card := Card{AssetID: rec.ID, Title: title, Prompt: rec.Prompt, Scale: rec.Scale}
		_ = s.handles.With(rec.Image, func(h *handle.Handle) error {
			card.ImageURI = h.URI()
			sf.view.ShowCard(card)
			return nil
		})
	}

	if pv, ok := sf.view.(PagedView); ok && sf.opts.Paginated {
		prev := sf.page > 0
		next := (sf.page+1)*sf.opts.ItemsPerPage < len(records)
		pv.SetPagination(prev, next)
	}
}

// SelectCard toggles the card's overlay. Opening one card's overlay forces
// every other card on the same surface back to normal; a card in
// delete-pending state ignores selection until confirmed or cancelled.
func (s *Synchronizer) SelectCard(surfaceName string, assetID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sf, err := s.surfaceLocked(surfaceName)
	if err != nil {
		return err
	}
	state, ok := sf.states[assetID]
	if !ok {
		return fmt.Errorf("surface %q has no card for asset %d", surfaceName, assetID)
	}

	switch state {
	case CardDeletePending:
		return nil
	case CardOverlayOpen:
		sf.states[assetID] = CardNormal
		sf.active = 0
		sf.view.SetCardState(assetID, CardNormal)
	default:
		if sf.active != 0 {
			sf.states[sf.active] = CardNormal
			sf.view.SetCardState(sf.active, CardNormal)
		}
		sf.states[assetID] = CardOverlayOpen
		sf.active = assetID
		sf.view.SetCardState(assetID, CardOverlayOpen)
	}
	return nil
}

// RequestDelete moves an overlay-open card into delete-pending, swapping the
// primary actions for confirm/cancel controls.
func (s *Synchronizer) RequestDelete(surfaceName string, assetID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sf, err := s.surfaceLocked(surfaceName)
	if err != nil {
		return err
	}
	if sf.states[assetID] != CardOverlayOpen {
		return fmt.Errorf("asset %d on surface %q is not awaiting a delete request", assetID, surfaceName)
	}
	sf.states[assetID] = CardDeletePending
	sf.view.SetCardState(assetID, CardDeletePending)
	return nil
}

// CancelDelete returns a delete-pending card to its overlay, restoring the
// primary actions.
func (s *Synchronizer) CancelDelete(surfaceName string, assetID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sf, err := s.surfaceLocked(surfaceName)
	if err != nil {
		return err
	}
	if sf.states[assetID] != CardDeletePending {
		return fmt.Errorf("asset %d on surface %q has no pending delete", assetID, surfaceName)
	}
	sf.states[assetID] = CardOverlayOpen
	sf.view.SetCardState(assetID, CardOverlayOpen)
	return nil
}

// ConfirmDelete deletes the asset from the store, removes the card from the
// confirming surface immediately, and publishes LibraryChanged so every
// other surface reconciles. A store failure reverts the card to its overlay
// and still publishes LibraryChanged to force all surfaces back to a
// consistent view.
func (s *Synchronizer) ConfirmDelete(ctx context.Context, surfaceName string, assetID int64) error {
	s.mu.Lock()
	sf, err := s.surfaceLocked(surfaceName)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if sf.states[assetID] != CardDeletePending {
		s.mu.Unlock()
		return fmt.Errorf("asset %d on surface %q has no pending delete", assetID, surfaceName)
	}
	s.mu.Unlock()

	if err := s.store.Delete(ctx, assetID); err != nil {
		s.mu.Lock()
		if _, ok := sf.states[assetID]; ok {
			sf.states[assetID] = CardOverlayOpen
			sf.view.SetCardState(assetID, CardOverlayOpen)
		}
		s.mu.Unlock()
		s.logger.Error("asset delete failed", "asset_id", assetID, "error", err)
		s.bus.PublishLibraryChanged(core.NewLibraryChanged())
		return fmt.Errorf("delete asset %d: %w", assetID, err)
	}

	s.mu.Lock()
	delete(sf.states, assetID)
	if sf.active == assetID {
		sf.active = 0
	}
	sf.view.RemoveCard(assetID)
	s.mu.Unlock()

	s.logger.Info("asset deleted", "asset_id", assetID, "surface", surfaceName)
	s.bus.PublishLibraryChanged(core.NewLibraryChanged())
	return nil
}

// AddToScene routes a card's add action to the configured handler.
func (s *Synchronizer) AddToScene(ctx context.Context, assetID int64) error {
	if s.onAdd == nil {
		return fmt.Errorf("no add-to-scene handler configured")
	}
	return s.onAdd(ctx, assetID)
}

// Download routes a card's download action to the configured handler.
func (s *Synchronizer) Download(ctx context.Context, assetID int64) error {
	if s.onDownload == nil {
		return fmt.Errorf("no download handler configured")
	}
	return s.onDownload(ctx, assetID)
}

// NextPage advances a paginated surface one page, if more assets remain, and
// re-renders it from a fresh store read.
func (s *Synchronizer) NextPage(ctx context.Context, surfaceName string) error {
	return s.turnPage(ctx, surfaceName, +1)
}

// PrevPage moves a paginated surface back one page, if not already on the
// first, and re-renders it from a fresh store read.
func (s *Synchronizer) PrevPage(ctx context.Context, surfaceName string) error {
	return s.turnPage(ctx, surfaceName, -1)
}

func (s *Synchronizer) turnPage(ctx context.Context, surfaceName string, delta int) error {
	records, err := s.store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("read assets: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sf, err := s.surfaceLocked(surfaceName)
	if err != nil {
		return err
	}
	if !sf.opts.Paginated {
		return fmt.Errorf("surface %q is not paginated", surfaceName)
	}

	page := sf.page + delta
	if page < 0 {
		page = 0
	}
	lastPage := 0
	if len(records) > 0 {
		lastPage = (len(records) - 1) / sf.opts.ItemsPerPage
	}
	if page > lastPage {
		page = lastPage
	}
	sf.page = page
	s.renderLocked(sf, records)
	return nil
}

// Page returns the current page index of a paginated surface.
func (s *Synchronizer) Page(surfaceName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sf, ok := s.surfaces[surfaceName]; ok {
		return sf.page
	}
	return 0
}

// CardStateOf reports the current state of a rendered card. The second
// return is false when the surface does not currently render the asset.
func (s *Synchronizer) CardStateOf(surfaceName string, assetID int64) (CardState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sf, ok := s.surfaces[surfaceName]
	if !ok {
		return CardNormal, false
	}
	state, ok := sf.states[assetID]
	return state, ok
}

func (s *Synchronizer) surfaceLocked(name string) (*surface, error) {
	sf, ok := s.surfaces[name]
	if !ok {
		return nil, fmt.Errorf("unknown surface %q", name)
	}
	return sf, nil
}
