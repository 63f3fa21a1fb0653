package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pasarkampus/pasar/internal/lib/sl"
	"github.com/pasarkampus/pasar/pkg/domain"
)

// UserFetcher answers "who am I" for the current token.
type UserFetcher interface {
	GetMe(ctx context.Context) (*domain.User, error)
}

// Store is the single source of truth for who is logged in.
//
// Every mutation bumps a generation counter so an async FetchUser that
// started before a logout can't resurrect the user afterwards.
type Store struct {
	mu      sync.RWMutex
	state   State
	gen     uint64
	storage Storage
	log     *slog.Logger

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger; the default discards.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Open creates a store rehydrated from storage. A corrupt or unreadable
// document starts the session empty rather than failing start-up.
func Open(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		log:     sl.Discard(),
		subs:    make(map[int]func(State)),
	}
	for _, o := range opts {
		o(s)
	}
	st, err := storage.Load()
	if err != nil {
		s.log.Warn("rehydrate session", sl.Err(err))
		st = State{}
	}
	s.state = st.normalize()
	return s
}

// State returns a snapshot of the session.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Token returns the bearer token, falling back to the persisted token copy
// when the store holds none (the copy can be written before the store is).
func (s *Store) Token() string {
	s.mu.RLock()
	tok := s.state.Token
	s.mu.RUnlock()
	if tok != "" {
		return tok
	}
	tok, err := s.storage.Token()
	if err != nil {
		s.log.Warn("read token copy", sl.Err(err))
		return ""
	}
	return tok
}

// Login replaces user, token and the authenticated flag in one step.
func (s *Store) Login(user *domain.User, token string) {
	var u *domain.User
	if user != nil {
		cp := *user
		u = &cp
	}
	s.commit(State{User: u, Token: token}, func() {
		if err := s.storage.SaveToken(token); err != nil {
			s.log.Warn("persist token copy", sl.Err(err))
		}
	})
	s.log.Info("logged in", slog.String("role", string(s.State().Role())))
}

// Logout clears the session. Calling it on an empty session changes nothing.
func (s *Store) Logout() {
	s.commit(State{}, func() {
		if err := s.storage.RemoveToken(); err != nil {
			s.log.Warn("remove token copy", sl.Err(err))
		}
	})
}

// UpdateUser shallow-merges the non-empty fields of partial into the user.
// The token is untouched, so the authenticated flag can't change either.
func (s *Store) UpdateUser(partial domain.User) {
	s.mu.Lock()
	merged, err := mergeUser(s.state.User, partial)
	if err != nil {
		s.mu.Unlock()
		s.log.Error("merge user", sl.Err(err))
		return
	}
	next := s.state
	next.User = merged
	s.applyLocked(next)
	snap := s.state.clone()
	s.mu.Unlock()
	s.notify(snap)
}

// SetUser replaces the user record wholesale.
func (s *Store) SetUser(user *domain.User) {
	s.mu.Lock()
	s.setUserLocked(user)
	snap := s.state.clone()
	s.mu.Unlock()
	s.notify(snap)
}

func (s *Store) setUserLocked(user *domain.User) {
	next := s.state
	next.User = nil
	if user != nil {
		cp := *user
		next.User = &cp
	}
	s.applyLocked(next)
}

// FetchUser refreshes the user from the server. Failures are logged and
// otherwise ignored: they may be transient, and reacting to a rejected token
// is the HTTP client's job. A response that arrives after the session changed
// is dropped.
func (s *Store) FetchUser(ctx context.Context, f UserFetcher) {
	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()
	if s.Token() == "" {
		s.log.Debug("fetch current user skipped: no token")
		return
	}

	user, err := f.GetMe(ctx)
	if err != nil {
		s.log.Error("fetch current user", sl.Err(err))
		return
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		s.log.Debug("discarding stale current user", slog.Int64("user_id", user.ID))
		return
	}
	s.setUserLocked(user)
	snap := s.state.clone()
	s.mu.Unlock()
	s.notify(snap)
}

// Subscribe registers fn to receive every new state. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(State)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Claims is what the client can read from a JWT bearer token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenClaims decodes the current token without verifying it; the server is
// trusted and does the verification. ok is false for opaque tokens.
func (s *Store) TokenClaims() (Claims, bool) {
	return ParseClaims(s.Token())
}

// ParseClaims decodes registered claims from an unverified JWT.
func ParseClaims(token string) (Claims, bool) {
	if token == "" {
		return Claims{}, false
	}
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &rc); err != nil {
		return Claims{}, false
	}
	c := Claims{Subject: rc.Subject}
	if rc.IssuedAt != nil {
		c.IssuedAt = rc.IssuedAt.Time
	}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c, true
}

// commit replaces the whole state, persists it, runs after under the lock
// and notifies subscribers once the lock is released.
func (s *Store) commit(next State, after func()) {
	s.mu.Lock()
	s.applyLocked(next)
	if after != nil {
		after()
	}
	snap := s.state.clone()
	s.mu.Unlock()
	s.notify(snap)
}

func (s *Store) applyLocked(next State) {
	s.state = next.normalize()
	s.gen++
	if err := s.storage.Save(s.state); err != nil {
		s.log.Warn("persist session", sl.Err(err))
	}
}

func (s *Store) notify(st State) {
	s.subMu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(st.clone())
	}
}
