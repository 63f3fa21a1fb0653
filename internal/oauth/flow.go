// Package oauth runs the browser handoff to the campus identity provider and
// turns its callback into a session.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pasarkampus/pasar/internal/browser"
	"github.com/pasarkampus/pasar/internal/lib/sl"
	"github.com/pasarkampus/pasar/pkg/client"
	"github.com/pasarkampus/pasar/pkg/domain"
)

// DefaultTimeout is how long Wait waits for the browser to come back.
const DefaultTimeout = 2 * time.Minute

// CallbackPath is where the identity provider sends the browser back.
const CallbackPath = "/auth/callback"

// ErrTimeout means no callback arrived in time.
var ErrTimeout = errors.New("oauth: no callback received in time")

// ErrStateMismatch means the callback did not carry our state (possible CSRF).
var ErrStateMismatch = errors.New("oauth: callback state mismatch")

// CallbackError is a failure code reported by the identity provider.
type CallbackError struct {
	Code string
}

func (e *CallbackError) Error() string {
	return domain.OAuthErrorMessage(e.Code)
}

// Flow configures the handoff.
type Flow struct {
	// SiteURL is the web origin serving /auth/google.
	SiteURL string
	// Open shows the login URL to the user; defaults to browser.Open.
	Open    func(url string) error
	Timeout time.Duration
	Log     *slog.Logger
}

// Pending is a started handoff waiting for its callback.
type Pending struct {
	url      string
	srv      *http.Server
	resultCh chan result
	timeout  time.Duration
	log      *slog.Logger
}

type result struct {
	token string
	err   error
}

// Start listens on an ephemeral localhost port and builds the login URL.
// The caller must Close the returned Pending.
func (f *Flow) Start() (*Pending, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("oauth.Start: listen: %w", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	state := uuid.NewString()

	log := f.Log
	if log == nil {
		log = sl.Discard()
	}
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	p := &Pending{
		resultCh: make(chan result, 1),
		timeout:  timeout,
		log:      log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc(CallbackPath, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "invalid state", http.StatusForbidden)
			p.deliver(result{err: ErrStateMismatch})
			return
		}
		if code := q.Get("error"); code != "" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprintf(w, callbackHTML, "gagal masuk", domain.OAuthErrorMessage(code)) //nolint:errcheck
			p.deliver(result{err: &CallbackError{Code: code}})
			return
		}
		token := q.Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusBadRequest)
			p.deliver(result{err: &CallbackError{Code: domain.OAuthFailed}})
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, callbackHTML, "berhasil masuk", "Kembali ke terminal Anda.") //nolint:errcheck
		p.deliver(result{token: token})
	})

	p.srv = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := p.srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			p.deliver(result{err: fmt.Errorf("oauth: callback server: %w", err)})
		}
	}()

	params := url.Values{}
	params.Set("cli_port", strconv.Itoa(port))
	params.Set("state", state)
	p.url = client.GoogleLoginURL(f.SiteURL, params)
	log.Debug("oauth callback listening", slog.Int("port", port))
	return p, nil
}

// Run starts the handoff, opens the login URL and waits for the token.
func (f *Flow) Run(ctx context.Context) (string, error) {
	p, err := f.Start()
	if err != nil {
		return "", err
	}
	defer p.Close()

	open := f.Open
	if open == nil {
		open = browser.Open
	}
	if err := open(p.URL()); err != nil {
		p.log.Warn("open browser", sl.Err(err))
		fmt.Printf("Tidak bisa membuka browser. Buka URL ini secara manual:\n  %s\n", p.URL())
	}
	return p.Wait(ctx)
}

// URL is the login URL to open in a browser.
func (p *Pending) URL() string { return p.url }

// Wait blocks until the callback delivers a token or an error, the timeout
// passes, or ctx is done.
func (p *Pending) Wait(ctx context.Context) (string, error) {
	timer := time.NewTimer(p.timeout)
	defer timer.Stop()
	select {
	case r := <-p.resultCh:
		return r.token, r.err
	case <-timer.C:
		return "", ErrTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Close shuts the callback server down.
func (p *Pending) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	p.srv.Shutdown(ctx) //nolint:errcheck
}

// deliver keeps the first result; later callbacks are ignored.
func (p *Pending) deliver(r result) {
	select {
	case p.resultCh <- r:
	default:
	}
}

const callbackHTML = `<!DOCTYPE html>
<html lang="id">
<head>
<meta charset="UTF-8">
<title>Pasar Kampus</title>
<style>
body{background:#0f1115;color:#e6e6e6;font-family:monospace;height:100vh;display:flex;align-items:center;justify-content:center}
.card{text-align:center}
.logo{font-size:28px;font-weight:700;letter-spacing:10px;color:#f59e0b;margin-bottom:20px}
.msg{font-size:14px;color:#34d399;margin-bottom:8px}
.sub{font-size:12px;color:#6b7280}
</style>
</head>
<body>
<div class="card">
  <div class="logo">PASAR</div>
  <div class="msg">%s</div>
  <div class="sub">%s</div>
</div>
</body>
</html>`
