package route

import (
	"sync"

	"github.com/pasarkampus/pasar/pkg/session"
)

// maxRedirects bounds guard chains; the real table never needs more than two hops.
const maxRedirects = 8

// Opener raises the login modal.
type Opener interface {
	Open()
}

// Resolution is where a navigation request ends up.
type Resolution struct {
	Path   string
	Route  Route
	Params Params
}

// Resolve runs guards from path until a route renders. Unknown paths fall
// back to Home. When a guard asks for the login modal, modal is opened.
func Resolve(path string, st session.State, modal Opener) Resolution {
	for range maxRedirects {
		r, params, ok := Match(path)
		if !ok {
			path = Home
			continue
		}
		d := r.Guard.Check(st)
		if d.OpenLogin && modal != nil {
			modal.Open()
		}
		if d.Action == Render {
			return Resolution{Path: path, Route: r, Params: params}
		}
		path = d.Target
	}
	home, _, _ := Match(Home)
	return Resolution{Path: Home, Route: home}
}

// Navigator holds the current location. HTTP goroutines read it while the
// UI goroutine writes it, so it is lock-protected.
type Navigator struct {
	mu      sync.Mutex
	current string
	history []string

	subs    map[int]func(string)
	nextSub int
}

// NewNavigator starts at start, or Home when start is empty.
func NewNavigator(start string) *Navigator {
	if start == "" {
		start = Home
	}
	return &Navigator{current: start, subs: make(map[int]func(string))}
}

// Current returns the current path.
func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Navigate moves to path without running guards. Navigating to the current
// path is a no-op.
func (n *Navigator) Navigate(path string) {
	n.mu.Lock()
	if path == n.current {
		n.mu.Unlock()
		return
	}
	n.history = append(n.history, n.current)
	n.current = path
	n.mu.Unlock()
	n.notify(path)
}

// Reset performs a full navigation to the root and forgets history.
func (n *Navigator) Reset() {
	n.mu.Lock()
	changed := n.current != Home
	n.current = Home
	n.history = nil
	n.mu.Unlock()
	if changed {
		n.notify(Home)
	}
}

// Go resolves path through the guards and moves to the result.
func (n *Navigator) Go(path string, st session.State, modal Opener) Resolution {
	res := Resolve(path, st, modal)
	n.Navigate(res.Path)
	return res
}

// Back returns to the previous path, re-checking its guard. At the root of
// history it stays put.
func (n *Navigator) Back(st session.State, modal Opener) Resolution {
	n.mu.Lock()
	if len(n.history) == 0 {
		cur := n.current
		n.mu.Unlock()
		return Resolve(cur, st, modal)
	}
	prev := n.history[len(n.history)-1]
	n.history = n.history[:len(n.history)-1]
	n.mu.Unlock()

	res := Resolve(prev, st, modal)
	n.mu.Lock()
	changed := n.current != res.Path
	n.current = res.Path
	n.mu.Unlock()
	if changed {
		n.notify(res.Path)
	}
	return res
}

// Subscribe registers fn for every location change. The returned func unsubscribes.
func (n *Navigator) Subscribe(fn func(path string)) func() {
	n.mu.Lock()
	id := n.nextSub
	n.nextSub++
	n.subs[id] = fn
	n.mu.Unlock()
	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

func (n *Navigator) notify(path string) {
	n.mu.Lock()
	fns := make([]func(string), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()
	for _, fn := range fns {
		fn(path)
	}
}
