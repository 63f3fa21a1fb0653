// Package loginmodal is the open/closed flag behind the login overlay.
package loginmodal

import "sync/atomic"

// Signal is safe for concurrent use. The zero value is closed.
type Signal struct {
	open atomic.Bool
}

// Open raises the modal. Any guard or screen may call it.
func (s *Signal) Open() { s.open.Store(true) }

// Close dismisses the modal. Only the UI root calls it.
func (s *Signal) Close() { s.open.Store(false) }

// IsOpen reports whether the overlay should be drawn.
func (s *Signal) IsOpen() bool { return s.open.Load() }

// CloseIfAuthenticated closes an open modal once the session is authenticated
// and reports whether it did.
func (s *Signal) CloseIfAuthenticated(authenticated bool) bool {
	if !authenticated {
		return false
	}
	return s.open.CompareAndSwap(true, false)
}
