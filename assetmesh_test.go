package assetmesh

import (
	"context"
	"testing"

	"github.com/hupe1980/assetmesh/core"
	"github.com/hupe1980/assetmesh/library"
	"github.com/hupe1980/assetmesh/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubImageGen struct{ data []byte }

func (s *stubImageGen) GenerateImage(context.Context, string) ([]byte, error) {
	return s.data, nil
}

type stubModelGen struct{ data []byte }

func (s *stubModelGen) GenerateModel(context.Context, []byte) ([]byte, error) {
	return s.data, nil
}

// listView is a minimal library.View recording rendered cards.
type listView struct {
	cards []library.Card
}

func (v *listView) Clear() { v.cards = nil }

func (v *listView) ShowCard(c library.Card) { v.cards = append(v.cards, c) }

func (v *listView) SetCardState(int64, library.CardState) {}
func (v *listView) RemoveCard(assetID int64) {
	for i, c := range v.cards {
		if c.AssetID == assetID {
			v.cards = append(v.cards[:i], v.cards[i+1:]...)
			return
		}
	}
}

func TestAssetMesh_EndToEnd(t *testing.T) {
	ctx := context.Background()
	mesh := New(&stubImageGen{data: []byte("IMG")}, &stubModelGen{data: []byte("MDL")})
	t.Cleanup(mesh.Close)

	view := &listView{}
	require.NoError(t, mesh.RegisterSurface("list", view))
	require.NoError(t, mesh.Open(ctx))
	assert.Empty(t, view.cards)

	require.NoError(t, mesh.Pipeline().SubmitPrompt(ctx, "red chair"))
	id, err := mesh.Pipeline().GenerateModel(ctx)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StatePersisted, mesh.Pipeline().State())

	// persist auto-instantiated the asset and reconciled the surface
	assert.Equal(t, 1, mesh.Scene().InstanceCount())
	require.Len(t, view.cards, 1)
	assert.Equal(t, "red chair", view.cards[0].Title)

	rec, err := mesh.Store().Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("MDL"), rec.Model)
	assert.Equal(t, core.DefaultScale, rec.Scale)
}

func TestAssetMesh_AddToSceneAndDownloadRouting(t *testing.T) {
	ctx := context.Background()
	mesh := New(&stubImageGen{data: []byte("IMG")}, &stubModelGen{data: []byte("MDL")}, func(o *Options) {
		o.AutoInstantiate = false
	})
	t.Cleanup(mesh.Close)
	require.NoError(t, mesh.Open(ctx))

	id, err := mesh.Store().Create(ctx, "blue lamp", []byte("IMG"), []byte("MDL"))
	require.NoError(t, err)

	require.NoError(t, mesh.Library().AddToScene(ctx, id))
	assert.Equal(t, 1, mesh.Scene().InstanceCount())

	require.NoError(t, mesh.Library().Download(ctx, id))
	assert.Zero(t, mesh.Handles().Active(), "no handles may leak past a download")
}

func TestAssetMesh_OpenBeforeUseIsRequired(t *testing.T) {
	mesh := New(&stubImageGen{}, &stubModelGen{})
	t.Cleanup(mesh.Close)
	_, err := mesh.Store().GetAll(context.Background())
	assert.ErrorIs(t, err, core.ErrStoreUninitialized)
}
