package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pasarkampus/pasar/internal/notify"
	"github.com/pasarkampus/pasar/pkg/domain"
)

// bellMsg carries a freshly polled notification summary.
type bellMsg struct {
	summary domain.NotificationSummary
}

// bell runs the notification poller while an admin screen is shown. It is a
// pointer shared by every copy of App.
type bell struct {
	poller  *notify.Poller
	updates chan domain.NotificationSummary

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

func newBell(p *notify.Poller) *bell {
	return &bell{poller: p, updates: make(chan domain.NotificationSummary, 1)}
}

// start launches the poller unless it is already running and returns the
// command that waits for its first update.
func (b *bell) start() tea.Cmd {
	if b.poller == nil {
		return nil
	}
	b.mu.Lock()
	if b.cancel != nil {
		b.mu.Unlock()
		return nil
	}
	b.ctx, b.cancel = context.WithCancel(context.Background())
	ctx := b.ctx
	b.mu.Unlock()

	go b.poller.Run(ctx, b.publish) //nolint:errcheck // returns ctx.Err() on stop
	return b.wait()
}

// publish keeps only the newest summary in the channel.
func (b *bell) publish(s domain.NotificationSummary) {
	select {
	case b.updates <- s:
		return
	default:
	}
	select {
	case <-b.updates:
	default:
	}
	select {
	case b.updates <- s:
	default:
	}
}

// wait blocks for the next update of the current run; it yields nil once
// the run is stopped.
func (b *bell) wait() tea.Cmd {
	b.mu.Lock()
	ctx := b.ctx
	b.mu.Unlock()
	if ctx == nil || ctx.Err() != nil {
		return nil
	}
	ch := b.updates
	return func() tea.Msg {
		select {
		case s := <-ch:
			return bellMsg{summary: s}
		case <-ctx.Done():
			return nil
		}
	}
}

func (b *bell) running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cancel != nil
}

func (b *bell) stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}

// total is the badge count, zero when nothing is polled.
func (b *bell) total() int {
	if b.poller == nil || !b.running() {
		return 0
	}
	return b.poller.Snapshot().Total()
}
