package library

// CardState is the per-card UI sub-state within one surface.
type CardState int

const (
	// CardNormal shows the card with no action controls.
	CardNormal CardState = iota
	// CardOverlayOpen shows the primary actions (add, download, delete).
	CardOverlayOpen
	// CardDeletePending shows the confirm/cancel controls in place of the
	// primary actions.
	CardDeletePending
)

// String implements fmt.Stringer.
func (s CardState) String() string {
	switch s {
	case CardNormal:
		return "normal"
	case CardOverlayOpen:
		return "overlay_open"
	case CardDeletePending:
		return "delete_pending"
	default:
		return "unknown"
	}
}

// Card is the per-asset projection handed to a View during a render pass.
type Card struct {
	// AssetID identifies the underlying asset record.
	AssetID int64
	// Title is the display label, wrapped per the surface's options.
	Title string
	// Prompt is the raw, unwrapped prompt text.
	Prompt string
	// Scale is the stored display scale.
	Scale float64
	// ImageURI resolves to the seed image for the duration of the ShowCard
	// call only; the handle behind it is released when ShowCard returns, so
	// a View must consume (decode or copy) the image synchronously.
	ImageURI string
}

// View is one rendered surface of asset cards. The Synchronizer drives it:
// Clear then ShowCard per asset on every render pass, SetCardState on
// selection and delete-confirmation transitions, RemoveCard on a confirmed
// delete. Implementations must not call back into the Synchronizer from
// these methods.
type View interface {
	Clear()
	ShowCard(c Card)
	SetCardState(assetID int64, state CardState)
	RemoveCard(assetID int64)
}

// PagedView is a View with pagination controls whose visibility the
// Synchronizer recomputes on every render pass.
type PagedView interface {
	View
	SetPagination(prevVisible, nextVisible bool)
}
