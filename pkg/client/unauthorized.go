package client

import (
	"log/slog"

	"github.com/pasarkampus/pasar/internal/lib/sl"
)

// SessionClearer is the part of the session store the 401 reaction needs.
type SessionClearer interface {
	Logout()
}

// TokenRemover deletes the directly persisted token copy.
type TokenRemover interface {
	RemoveToken() error
}

// Locator reports the current location and can force navigation to the root.
type Locator interface {
	Current() string
	Reset()
}

// ForcedLogout clears the session and sends the user home when the API
// rejects the token, unless Exempt says the current location expects 401s
// (the OAuth callback, mid token exchange). Both steps are idempotent, so
// concurrent 401s are harmless.
type ForcedLogout struct {
	Session  SessionClearer
	Tokens   TokenRemover
	Location Locator
	Exempt   func(path string) bool
	Log      *slog.Logger
}

// HandleUnauthorized implements UnauthorizedHandler.
func (f *ForcedLogout) HandleUnauthorized() {
	log := f.Log
	if log == nil {
		log = sl.Discard()
	}
	path := ""
	if f.Location != nil {
		path = f.Location.Current()
	}
	if f.Exempt != nil && f.Exempt(path) {
		log.Debug("401 ignored on exempt location", slog.String("path", path))
		return
	}

	log.Info("token rejected, logging out", slog.String("path", path))
	if f.Session != nil {
		f.Session.Logout()
	}
	if f.Tokens != nil {
		if err := f.Tokens.RemoveToken(); err != nil {
			log.Warn("remove token copy", sl.Err(err))
		}
	}
	if f.Location != nil {
		f.Location.Reset()
	}
}
