package oauth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pasarkampus/pasar/internal/lib/sl"
	"github.com/pasarkampus/pasar/internal/route"
	"github.com/pasarkampus/pasar/pkg/client"
	"github.com/pasarkampus/pasar/pkg/domain"
)

// SessionLogin is the part of the session store the callback needs.
type SessionLogin interface {
	Login(user *domain.User, token string)
}

// TokenStore persists the raw token copy.
type TokenStore interface {
	SaveToken(token string) error
	RemoveToken() error
}

// Navigator moves the current location.
type Navigator interface {
	Navigate(path string)
	Reset()
}

// Completer turns a callback token into a logged-in session.
type Completer struct {
	Session SessionLogin
	Tokens  TokenStore
	API     *client.Client
	Nav     Navigator
	Log     *slog.Logger
}

// Complete stores the token copy, sits on the callback location while the
// token is checked (so a 401 there does not force a logout), logs the user in
// and lands on the screen for their role. On failure the token copy is
// dropped and the location reset.
func (c *Completer) Complete(ctx context.Context, token string) (*domain.User, error) {
	log := c.Log
	if log == nil {
		log = sl.Discard()
	}
	c.Nav.Navigate(route.AuthCallback)

	if err := c.Tokens.SaveToken(token); err != nil {
		log.Warn("persist token copy", sl.Err(err))
	}

	user, err := c.API.WithToken(token).GetMe(ctx)
	if err != nil {
		if rmErr := c.Tokens.RemoveToken(); rmErr != nil {
			log.Warn("remove token copy", sl.Err(rmErr))
		}
		c.Nav.Reset()
		return nil, fmt.Errorf("oauth.Complete: %w", err)
	}

	c.Session.Login(user, token)
	log.Info("signed in via google", slog.Int64("user_id", user.ID), slog.String("role", string(user.Role)))
	if user.Role.IsAdmin() {
		c.Nav.Navigate(route.AdminDashboard)
	} else {
		c.Nav.Navigate(route.Home)
	}
	return user, nil
}
