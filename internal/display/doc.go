// Package display owns the emulated VFD state.
//
// Ownership boundary:
// - character bitmap store (factory and custom slots)
// - 2x40 cell grid, cursor and brightness
// - display-update interpretation
// - collaborator notifications
//
// The client loop is the only writer. Readers (admin HTTP, previews) go
// through Display, which serializes access with a read/write lock.
package display
