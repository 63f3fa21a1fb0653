// Package notify keeps the admin notification counts fresh.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/pasarkampus/pasar/internal/lib/sl"
	"github.com/pasarkampus/pasar/pkg/domain"
)

// DefaultInterval is how often the dashboard refetches counts.
const DefaultInterval = 30 * time.Second

// ErrThrottled is returned by Refresh when the user asks too often.
var ErrThrottled = errors.New("notify: refresh throttled")

// Source fetches the current notification summary.
type Source interface {
	AdminNotifications(ctx context.Context) (*domain.NotificationSummary, error)
}

// Poller refetches the summary on a fixed interval and replaces its snapshot.
// A failed fetch keeps the previous snapshot.
type Poller struct {
	src      Source
	interval time.Duration
	limiter  *rate.Limiter
	log      *slog.Logger

	mu      sync.RWMutex
	snap    domain.NotificationSummary
	fetched time.Time
	lastErr error
}

// Option configures a Poller.
type Option func(*Poller)

// WithLogger sets the logger; the default discards.
func WithLogger(l *slog.Logger) Option {
	return func(p *Poller) { p.log = l }
}

// WithLimiter replaces the manual refresh limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(p *Poller) { p.limiter = l }
}

// New returns a poller over src. A non-positive interval uses DefaultInterval.
func New(src Source, interval time.Duration, opts ...Option) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	p := &Poller{
		src:      src,
		interval: interval,
		// One manual refresh every 5s, burst of 2.
		limiter: rate.NewLimiter(rate.Every(5*time.Second), 2),
		log:     sl.Discard(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Interval returns the polling period.
func (p *Poller) Interval() time.Duration { return p.interval }

// Run fetches immediately, then every interval, until ctx is done. onUpdate
// receives each successfully fetched summary. Run returns ctx.Err().
func (p *Poller) Run(ctx context.Context, onUpdate func(domain.NotificationSummary)) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if s, err := p.Poll(ctx); err == nil {
			if onUpdate != nil {
				onUpdate(s)
			}
		} else if ctx.Err() == nil {
			p.log.Warn("poll notifications", sl.Err(err))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Poll fetches once, unthrottled, and replaces the snapshot on success.
func (p *Poller) Poll(ctx context.Context) (domain.NotificationSummary, error) {
	s, err := p.src.AdminNotifications(ctx)
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.lastErr = err
		return p.snap, fmt.Errorf("notify.Poll: %w", err)
	}
	p.snap = *s
	p.fetched = time.Now()
	p.lastErr = nil
	return p.snap, nil
}

// Refresh is a user-triggered Poll, rate limited.
func (p *Poller) Refresh(ctx context.Context) (domain.NotificationSummary, error) {
	if !p.limiter.Allow() {
		p.log.Debug("manual refresh throttled")
		return p.Snapshot(), ErrThrottled
	}
	return p.Poll(ctx)
}

// Snapshot returns the last fetched summary.
func (p *Poller) Snapshot() domain.NotificationSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

// FetchedAt is when the snapshot was taken; zero before the first success.
func (p *Poller) FetchedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fetched
}

// Err is the error of the latest fetch, nil after a success.
func (p *Poller) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}
