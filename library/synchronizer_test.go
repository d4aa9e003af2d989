package library

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/assetmesh/bus"
	"github.com/hupe1980/assetmesh/core"
	"github.com/hupe1980/assetmesh/handle"
	"github.com/hupe1980/assetmesh/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeView records every call so tests can assert the exact render sequence.
type fakeView struct {
	clears      int
	cards       []Card // cards shown since the last Clear
	states      map[int64]CardState
	removals    []int64
	prevVisible bool
	nextVisible bool
	pagedCalls  int
}

func newFakeView() *fakeView {
	return &fakeView{states: make(map[int64]CardState)}
}

func (v *fakeView) Clear() {
	v.clears++
	v.cards = nil
	v.states = make(map[int64]CardState)
}

func (v *fakeView) ShowCard(c Card) { v.cards = append(v.cards, c) }

func (v *fakeView) SetCardState(assetID int64, state CardState) { v.states[assetID] = state }

func (v *fakeView) RemoveCard(assetID int64) {
	v.removals = append(v.removals, assetID)
	for i, c := range v.cards {
		if c.AssetID == assetID {
			v.cards = append(v.cards[:i], v.cards[i+1:]...)
			break
		}
	}
}

func (v *fakeView) SetPagination(prev, next bool) {
	v.pagedCalls++
	v.prevVisible = prev
	v.nextVisible = next
}

func (v *fakeView) titles() []string {
	titles := make([]string, 0, len(v.cards))
	for _, c := range v.cards {
		titles = append(titles, c.Title)
	}
	return titles
}

// deleteFailStore makes Delete fail while the rest of the store behaves
// normally.
type deleteFailStore struct {
	core.AssetStore
}

func (s *deleteFailStore) Delete(context.Context, int64) error {
	return errors.New("transaction aborted")
}

func newTestSync(t *testing.T, optFns ...func(o *Options)) (*Synchronizer, *store.InMemoryStore, *bus.Bus) {
	t.Helper()
	s := store.NewInMemoryStore()
	require.NoError(t, s.Open(context.Background()))
	b := bus.New()
	sync := New(s, handle.NewManager(), b, optFns...)
	t.Cleanup(sync.Close)
	return sync, s, b
}

func seed(t *testing.T, s core.AssetStore, prompts ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(prompts))
	for _, p := range prompts {
		id, err := s.Create(context.Background(), p, []byte("IMG-"+p), []byte("MDL-"+p))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestSynchronizer_RefreshRendersAllSurfaces(t *testing.T) {
	ctx := context.Background()
	sync, s, _ := newTestSync(t)
	list := newFakeView()
	carousel := newFakeView()
	require.NoError(t, sync.RegisterSurface("list", list))
	require.NoError(t, sync.RegisterSurface("carousel", carousel, WithPagination(0)))

	seed(t, s, "red chair", "blue lamp")
	require.NoError(t, sync.Refresh(ctx))

	assert.Equal(t, []string{"red chair", "blue lamp"}, list.titles())
	assert.Equal(t, []string{"red chair", "blue lamp"}, carousel.titles())
	assert.Equal(t, 1.0, list.cards[0].Scale)
	assert.NotEmpty(t, list.cards[0].ImageURI)
}

func TestSynchronizer_TitleWrapOnListSurface(t *testing.T) {
	ctx := context.Background()
	sync, s, _ := newTestSync(t)
	list := newFakeView()
	require.NoError(t, sync.RegisterSurface("list", list, WithTitleWrap(10)))

	seed(t, s, "a cat wearing a wizard hat")
	require.NoError(t, sync.Refresh(ctx))

	require.Len(t, list.cards, 1)
	assert.Equal(t, "a cat\nwearing a\nwizard hat", list.cards[0].Title)
	assert.Equal(t, "a cat wearing a wizard hat", list.cards[0].Prompt)
}

func TestSynchronizer_ImageHandlesAreShortLived(t *testing.T) {
	ctx := context.Background()
	s := store.NewInMemoryStore()
	require.NoError(t, s.Open(ctx))
	handles := handle.NewManager()
	sync := New(s, handles, bus.New())
	t.Cleanup(sync.Close)
	require.NoError(t, sync.RegisterSurface("list", newFakeView()))

	seed(t, s, "red chair", "blue lamp")
	require.NoError(t, sync.Refresh(ctx))
	assert.Zero(t, handles.Active(), "render-pass handles must be released")
}

func TestSynchronizer_PaginationSlicingAndVisibility(t *testing.T) {
	ctx := context.Background()
	sync, s, _ := newTestSync(t)
	carousel := newFakeView()
	require.NoError(t, sync.RegisterSurface("carousel", carousel, WithPagination(4)))

	seed(t, s, "a", "b", "c", "d", "e", "f")
	require.NoError(t, sync.Refresh(ctx))

	assert.Equal(t, []string{"a", "b", "c", "d"}, carousel.titles())
	assert.False(t, carousel.prevVisible)
	assert.True(t, carousel.nextVisible)

	require.NoError(t, sync.NextPage(ctx, "carousel"))
	assert.Equal(t, 1, sync.Page("carousel"))
	assert.Equal(t, []string{"e", "f"}, carousel.titles())
	assert.True(t, carousel.prevVisible)
	assert.False(t, carousel.nextVisible)

	// advancing past the last page stays on it
	require.NoError(t, sync.NextPage(ctx, "carousel"))
	assert.Equal(t, 1, sync.Page("carousel"))

	require.NoError(t, sync.PrevPage(ctx, "carousel"))
	assert.Equal(t, 0, sync.Page("carousel"))
	assert.Equal(t, []string{"a", "b", "c", "d"}, carousel.titles())

	// going back past the first page stays on it
	require.NoError(t, sync.PrevPage(ctx, "carousel"))
	assert.Equal(t, 0, sync.Page("carousel"))
}

func TestSynchronizer_RefreshResetsPage(t *testing.T) {
	ctx := context.Background()
	sync, s, _ := newTestSync(t)
	carousel := newFakeView()
	require.NoError(t, sync.RegisterSurface("carousel", carousel, WithPagination(4)))

	seed(t, s, "a", "b", "c", "d", "e")
	require.NoError(t, sync.Refresh(ctx))
	require.NoError(t, sync.NextPage(ctx, "carousel"))
	require.Equal(t, 1, sync.Page("carousel"))

	require.NoError(t, sync.Refresh(ctx))
	assert.Equal(t, 0, sync.Page("carousel"))
	assert.Equal(t, []string{"a", "b", "c", "d"}, carousel.titles())
}

func TestSynchronizer_SelectTogglesOverlay(t *testing.T) {
	ctx := context.Background()
	sync, s, _ := newTestSync(t)
	list := newFakeView()
	require.NoError(t, sync.RegisterSurface("list", list))
	ids := seed(t, s, "red chair", "blue lamp")
	require.NoError(t, sync.Refresh(ctx))

	require.NoError(t, sync.SelectCard("list", ids[0]))
	state, _ := sync.CardStateOf("list", ids[0])
	assert.Equal(t, CardOverlayOpen, state)

	// selecting another card closes the first overlay
	require.NoError(t, sync.SelectCard("list", ids[1]))
	state, _ = sync.CardStateOf("list", ids[0])
	assert.Equal(t, CardNormal, state)
	state, _ = sync.CardStateOf("list", ids[1])
	assert.Equal(t, CardOverlayOpen, state)
	assert.Equal(t, CardNormal, list.states[ids[0]])

	// selecting the open card again toggles it closed
	require.NoError(t, sync.SelectCard("list", ids[1]))
	state, _ = sync.CardStateOf("list", ids[1])
	assert.Equal(t, CardNormal, state)

	assert.Error(t, sync.SelectCard("list", 999))
	assert.Error(t, sync.SelectCard("nope", ids[0]))
}

func TestSynchronizer_DeleteConfirmationFlow(t *testing.T) {
	ctx := context.Background()
	sync, s, _ := newTestSync(t)
	list := newFakeView()
	require.NoError(t, sync.RegisterSurface("list", list))
	ids := seed(t, s, "red chair")
	require.NoError(t, sync.Refresh(ctx))

	// delete must be requested from an open overlay
	assert.Error(t, sync.RequestDelete("list", ids[0]))

	require.NoError(t, sync.SelectCard("list", ids[0]))
	require.NoError(t, sync.RequestDelete("list", ids[0]))
	state, _ := sync.CardStateOf("list", ids[0])
	assert.Equal(t, CardDeletePending, state)

	// a pending card ignores selection
	require.NoError(t, sync.SelectCard("list", ids[0]))
	state, _ = sync.CardStateOf("list", ids[0])
	assert.Equal(t, CardDeletePending, state)

	// cancel restores the primary actions
	require.NoError(t, sync.CancelDelete("list", ids[0]))
	state, _ = sync.CardStateOf("list", ids[0])
	assert.Equal(t, CardOverlayOpen, state)

	// confirm without a pending request is rejected
	_, err := s.Get(ctx, ids[0])
	require.NoError(t, err)
	assert.Error(t, sync.ConfirmDelete(ctx, "list", ids[0]))
}

func TestSynchronizer_ConfirmDeleteReconcilesSurfaces(t *testing.T) {
	ctx := context.Background()
	sync, s, _ := newTestSync(t)
	list := newFakeView()
	carousel := newFakeView()
	require.NoError(t, sync.RegisterSurface("list", list))
	require.NoError(t, sync.RegisterSurface("carousel", carousel, WithPagination(4)))
	ids := seed(t, s, "red chair", "blue lamp")
	require.NoError(t, sync.Refresh(ctx))

	require.NoError(t, sync.SelectCard("list", ids[0]))
	require.NoError(t, sync.RequestDelete("list", ids[0]))
	require.NoError(t, sync.ConfirmDelete(ctx, "list", ids[0]))

	// the confirming surface removed the card immediately, and the
	// published LibraryChanged rebuilt both surfaces from the store
	assert.Equal(t, []int64{ids[0]}, list.removals)
	assert.Equal(t, []string{"blue lamp"}, list.titles())
	assert.Equal(t, []string{"blue lamp"}, carousel.titles())

	_, err := s.Get(ctx, ids[0])
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestSynchronizer_DeleteFailureRevertsAndReconciles(t *testing.T) {
	ctx := context.Background()
	s := store.NewInMemoryStore()
	require.NoError(t, s.Open(ctx))
	b := bus.New()
	changes := 0
	b.SubscribeLibraryChanged(func(core.LibraryChanged) { changes++ })

	sync := New(&deleteFailStore{AssetStore: s}, handle.NewManager(), b)
	t.Cleanup(sync.Close)
	list := newFakeView()
	require.NoError(t, sync.RegisterSurface("list", list))
	ids := seed(t, s, "red chair")
	require.NoError(t, sync.Refresh(ctx))

	require.NoError(t, sync.SelectCard("list", ids[0]))
	require.NoError(t, sync.RequestDelete("list", ids[0]))
	err := sync.ConfirmDelete(ctx, "list", ids[0])
	require.Error(t, err)

	// LibraryChanged fires anyway to force surfaces back into consistency,
	// which rebuilds the card in its normal state
	assert.Equal(t, 1, changes)
	assert.Empty(t, list.removals)
	assert.Equal(t, []string{"red chair"}, list.titles())
	state, ok := sync.CardStateOf("list", ids[0])
	require.True(t, ok)
	assert.Equal(t, CardNormal, state)
}

func TestSynchronizer_RebuildsOnLibraryChangedEvent(t *testing.T) {
	ctx := context.Background()
	sync, s, b := newTestSync(t)
	list := newFakeView()
	require.NoError(t, sync.RegisterSurface("list", list))
	require.NoError(t, sync.Refresh(ctx))
	assert.Empty(t, list.titles())

	seed(t, s, "red chair")
	b.PublishLibraryChanged(core.NewLibraryChanged())
	assert.Equal(t, []string{"red chair"}, list.titles())

	sync.Close()
	seed(t, s, "blue lamp")
	b.PublishLibraryChanged(core.NewLibraryChanged())
	assert.Equal(t, []string{"red chair"}, list.titles(), "a closed synchronizer stops reacting")
}

func TestSynchronizer_ActionRouting(t *testing.T) {
	ctx := context.Background()
	var added, downloaded []int64
	sync, s, _ := newTestSync(t, func(o *Options) {
		o.OnAddToScene = func(_ context.Context, id int64) error { added = append(added, id); return nil }
		o.OnDownload = func(_ context.Context, id int64) error { downloaded = append(downloaded, id); return nil }
	})
	ids := seed(t, s, "red chair")

	require.NoError(t, sync.AddToScene(ctx, ids[0]))
	require.NoError(t, sync.Download(ctx, ids[0]))
	assert.Equal(t, []int64{ids[0]}, added)
	assert.Equal(t, []int64{ids[0]}, downloaded)

	bare, _, _ := newTestSync(t)
	assert.Error(t, bare.AddToScene(ctx, 1))
	assert.Error(t, bare.Download(ctx, 1))
}

func TestSynchronizer_DuplicateSurfaceRejected(t *testing.T) {
	sync, _, _ := newTestSync(t)
	require.NoError(t, sync.RegisterSurface("list", newFakeView()))
	assert.Error(t, sync.RegisterSurface("list", newFakeView()))
}
