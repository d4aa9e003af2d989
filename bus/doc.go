// Package bus contains the in-process implementation of the core.Bus
// publish/subscribe contract. The canonical interface and the two event
// shapes (ImageReady, LibraryChanged) live in the core package to keep
// domain contracts central; this package only provides delivery mechanics.
//
// Delivery is synchronous: a Publish call returns after every registered
// subscriber has run. This gives the ordering guarantee the library
// synchronizer depends on (a re-render triggered by a mutation always
// observes the completed mutation) without hidden goroutines.
package bus
