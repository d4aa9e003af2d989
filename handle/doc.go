// Package handle implements the resource handle manager: it wraps binary
// payloads in transient, revocable, addressable handles for display,
// loading and download.
//
// Ownership rules (leaking a handle is a defect, not an inefficiency):
//
//   - Short-lived purposes (one render pass, one download) must use
//     Manager.With, which releases on return.
//   - Long-lived purposes (a live scene instance's model) hold the handle
//     until the instance's "finished loading" signal or its removal,
//     whichever comes first. Handle.Release is idempotent so the two
//     triggers may race safely, but revocation never happens eagerly while
//     a load may still be in flight.
package handle
