package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pasarkampus/pasar/internal/config"
	"github.com/pasarkampus/pasar/internal/lib/sl"
	"github.com/pasarkampus/pasar/internal/loginmodal"
	"github.com/pasarkampus/pasar/internal/notify"
	"github.com/pasarkampus/pasar/internal/oauth"
	"github.com/pasarkampus/pasar/internal/route"
	"github.com/pasarkampus/pasar/internal/tui"
	"github.com/pasarkampus/pasar/pkg/client"
	"github.com/pasarkampus/pasar/pkg/session"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	cmd := ""
	if len(args) > 0 {
		cmd = args[0]
	}
	switch cmd {
	case "--version", "version", "-v":
		fmt.Fprintln(out, "pasar "+version)
		return nil
	case "help", "--help", "-h":
		printHelp(out)
		return nil
	case "", "login", "logout", "whoami":
	default:
		printHelp(out)
		return fmt.Errorf("perintah tidak dikenal: %q", cmd)
	}

	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	switch cmd {
	case "login":
		return a.login(out)
	case "logout":
		return a.logout(out)
	case "whoami":
		return a.whoami(out)
	default:
		return a.runTUI()
	}
}

// app is the wired client: one session, one navigator and one API client
// shared by the subcommands and the TUI.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	logFile io.Closer
	storage session.Storage
	store   *session.Store
	nav     *route.Navigator
	modal   *loginmodal.Signal
	api     *client.Client
}

func setup() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: sl.Discard()}
	if err := os.MkdirAll(cfg.Home, 0700); err != nil {
		return nil, fmt.Errorf("create %s: %w", cfg.Home, err)
	}
	if f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600); err == nil {
		a.logFile = f
		a.log = sl.New(f, cfg.LogLevel).With(slog.String("version", version))
	}

	a.storage = sessionStorage(cfg)
	a.store = session.Open(a.storage, session.WithLogger(a.log))
	a.nav = route.NewNavigator(route.Home)
	a.modal = &loginmodal.Signal{}

	onUnauthorized := &client.ForcedLogout{
		Session:  a.store,
		Tokens:   a.storage,
		Location: a.nav,
		Exempt:   route.ExemptFromForcedLogout,
		Log:      a.log,
	}
	a.api = client.New(cfg.APIURL, tokenSource(cfg, a.store),
		client.WithUnauthorizedHandler(onUnauthorized),
		client.WithLogger(a.log),
		client.WithTimeout(cfg.HTTPTimeout),
	)
	a.log.Debug("client ready", slog.String("api", cfg.APIURL), slog.String("home", cfg.Home))
	return a, nil
}

func (a *app) close() {
	if a.logFile != nil {
		a.logFile.Close() //nolint:errcheck
	}
}

// sessionStorage keeps the session on disk, except for a PASAR_TOKEN account:
// that one lives for the process only, so unsetting the variable ends it and
// the session saved on disk stays untouched.
func sessionStorage(cfg *config.Config) session.Storage {
	if cfg.Token != "" {
		return session.NewMemoryStorage(session.State{})
	}
	return session.NewFileStorage(cfg.Home)
}

// tokenSource prefers PASAR_TOKEN over the session and its persisted copy.
func tokenSource(cfg *config.Config, store *session.Store) client.TokenSource {
	if cfg.Token != "" {
		return client.StaticToken(cfg.Token)
	}
	return store
}

// adoptEnvToken logs the PASAR_TOKEN account into the session so screens
// that read the session see it.
func (a *app) adoptEnvToken(ctx context.Context) {
	if a.cfg.Token == "" || a.store.State().Token == a.cfg.Token {
		return
	}
	user, err := a.api.WithToken(a.cfg.Token).GetMe(ctx)
	if err != nil {
		a.log.Warn("PASAR_TOKEN rejected", sl.Err(err))
		return
	}
	a.store.Login(user, a.cfg.Token)
}

func (a *app) completer() *oauth.Completer {
	return &oauth.Completer{Session: a.store, Tokens: a.storage, API: a.api, Nav: a.nav, Log: a.log}
}

func (a *app) flow() *oauth.Flow {
	return &oauth.Flow{SiteURL: a.cfg.BaseURL, Log: a.log}
}

func (a *app) runTUI() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPTimeout)
	a.adoptEnvToken(ctx)
	cancel()

	m := tui.NewApp(tui.Deps{
		Client:    a.api,
		Session:   a.store,
		Nav:       a.nav,
		Modal:     a.modal,
		Poller:    notify.New(a.api, a.cfg.PollInterval, notify.WithLogger(a.log)),
		OAuth:     a.flow(),
		Completer: a.completer(),
		SiteURL:   a.cfg.BaseURL,
		Version:   version,
		Log:       a.log,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func (a *app) login(out io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintln(out, "Membuka browser untuk masuk dengan Google...")
	token, err := a.flow().Run(ctx)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	user, err := a.completer().Complete(ctx, token)
	if err != nil {
		return fmt.Errorf("login: akun ditolak: %s", client.Message(err))
	}
	fmt.Fprintf(out, "Masuk sebagai %s (%s)\n\n", user.DisplayName(), user.Role.Label())
	stop()
	return a.runTUI()
}

func (a *app) logout(out io.Writer) error {
	if !a.store.State().IsAuthenticated && a.store.Token() == "" {
		fmt.Fprintln(out, "Belum masuk.")
		return nil
	}
	a.store.Logout()
	fmt.Fprintln(out, "Berhasil keluar.")
	return nil
}

func (a *app) whoami(out io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPTimeout)
	defer cancel()
	a.adoptEnvToken(ctx)

	if !a.store.State().IsAuthenticated {
		printAnonymous(out)
		return nil
	}
	// A rejected token logs the session out through the client.
	a.store.FetchUser(ctx, a.api)
	st := a.store.State()
	if !st.IsAuthenticated {
		fmt.Fprintln(out, "Sesi sudah berakhir. Masuk lagi: pasar login")
		return nil
	}
	printUser(out, st, time.Now())
	return nil
}
