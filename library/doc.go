// Package library keeps every rendered asset surface consistent with the
// asset store.
//
// A Synchronizer holds N registered surfaces: typically one unbounded scroll
// list and one paginated carousel. All surfaces project the same underlying
// asset set; on every LibraryChanged event the synchronizer re-reads the
// store and rebuilds every surface from scratch rather than diffing
// incrementally, which is acceptable because personal libraries stay small.
//
// Each rendered card walks a small state machine driven by user actions:
// normal, overlay open (primary actions visible), delete pending
// (confirm/cancel visible). At most one card per surface has its overlay
// open. Confirming a delete mutates the store, removes the card from the
// confirming surface immediately, and publishes LibraryChanged so the other
// surfaces reconcile on their next rebuild.
package library
