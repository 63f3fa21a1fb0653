package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pasarkampus/pasar/internal/browser"
	"github.com/pasarkampus/pasar/internal/oauth"
	"github.com/pasarkampus/pasar/pkg/client"
	"github.com/pasarkampus/pasar/pkg/domain"
)

type loginPhase int

const (
	loginIdle loginPhase = iota
	loginWaiting
	loginChecking
	loginFailed
)

// loginEnv is what the modal needs from the root to run the Google handoff.
type loginEnv struct {
	flow      *oauth.Flow
	completer *oauth.Completer
}

func (a App) loginEnv() loginEnv {
	return loginEnv{flow: a.oauth, completer: a.completer}
}

// loginStarts numbers every handoff start across modal instances.
var loginStarts atomic.Uint64

// loginModel is the login modal overlay. Messages from a flow the user has
// dismissed are matched against starting or pending and dropped.
type loginModel struct {
	phase     loginPhase
	starting  uint64
	pending   *oauth.Pending
	stopWait  context.CancelFunc
	url       string
	err       string
	statusMsg string
	dismissed bool
}

type loginStartedMsg struct {
	start   uint64
	pending *oauth.Pending
	err     error
}

type loginTokenMsg struct {
	pending *oauth.Pending
	token   string
	err     error
}

type loginDoneMsg struct {
	pending *oauth.Pending
	user    *domain.User
	err     error
}

func newLoginModel() loginModel {
	return loginModel{}
}

func (m loginModel) Update(msg tea.Msg, env loginEnv) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKeys(msg, env)

	case loginStartedMsg:
		if msg.start == 0 || msg.start != m.starting {
			// Started for a modal that has since been dismissed.
			if msg.pending != nil {
				msg.pending.Close()
			}
			return m, nil
		}
		m.starting = 0
		if msg.err != nil {
			m.phase = loginFailed
			m.err = "tidak bisa memulai login"
			return m, nil
		}
		m.pending = msg.pending
		m.url = msg.pending.URL()
		m.phase = loginWaiting
		ctx, cancel := context.WithCancel(context.Background())
		m.stopWait = cancel
		p := msg.pending
		return m, func() tea.Msg {
			token, err := p.Wait(ctx)
			return loginTokenMsg{pending: p, token: token, err: err}
		}

	case loginTokenMsg:
		if msg.pending != m.pending || m.pending == nil {
			return m, nil
		}
		m.pending.Close()
		if msg.err != nil {
			m.phase = loginFailed
			m.err = loginErrorMessage(msg.err)
			return m, nil
		}
		if env.completer == nil {
			m.phase = loginFailed
			m.err = "login tidak tersedia"
			return m, nil
		}
		m.phase = loginChecking
		p, c, token := msg.pending, env.completer, msg.token
		return m, func() tea.Msg {
			user, err := c.Complete(context.Background(), token)
			return loginDoneMsg{pending: p, user: user, err: err}
		}

	case loginDoneMsg:
		if msg.pending != m.pending || msg.err == nil {
			// Success closes the modal through the session subscription.
			return m, nil
		}
		m.phase = loginFailed
		m.err = "akun ditolak: " + client.Message(msg.err)
		return m, nil
	}
	return m, nil
}

func (m loginModel) updateKeys(msg tea.KeyMsg, env loginEnv) (loginModel, tea.Cmd) {
	m.statusMsg = ""
	switch msg.String() {
	case "esc", "q":
		m.cancel()
		m.dismissed = true
	case "enter":
		if m.phase == loginWaiting || m.phase == loginChecking {
			return m, nil
		}
		if env.flow == nil {
			m.phase = loginFailed
			m.err = "login tidak tersedia"
			return m, nil
		}
		m.cancel()
		m.phase = loginWaiting
		m.err = ""
		start := loginStarts.Add(1)
		m.starting = start
		flow := env.flow
		open := flow.Open
		if open == nil {
			open = browser.Open
		}
		return m, func() tea.Msg {
			p, err := flow.Start()
			if err == nil {
				open(p.URL()) //nolint:errcheck // the URL is shown as a fallback
			}
			return loginStartedMsg{start: start, pending: p, err: err}
		}
	case "y":
		if m.url != "" {
			if err := clipboard.WriteAll(m.url); err != nil {
				m.statusMsg = "gagal menyalin"
			} else {
				m.statusMsg = "URL disalin"
			}
		}
	}
	return m, nil
}

// cancel abandons any flow in progress.
func (m loginModel) cancel() {
	if m.stopWait != nil {
		m.stopWait()
	}
	if m.pending != nil {
		m.pending.Close()
	}
}

func loginErrorMessage(err error) string {
	var cbErr *oauth.CallbackError
	switch {
	case errors.As(err, &cbErr):
		return cbErr.Error()
	case errors.Is(err, oauth.ErrTimeout):
		return "waktu login habis, coba lagi"
	case errors.Is(err, context.Canceled):
		return "login dibatalkan"
	default:
		return "login gagal"
	}
}

func (m loginModel) View(width int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerLine(selectedStyle.Render("Masuk ke Pasar Kampus"), 21, width) + "\n\n")
	b.WriteString(" " + dimStyle.Render("Gunakan akun Google kampus (@kampus.ac.id).") + "\n\n")

	switch m.phase {
	case loginIdle:
		b.WriteString(" " + helpEntry("enter", "masuk dengan Google") + "\n")
	case loginWaiting:
		b.WriteString(" " + warnStyle.Render("menunggu login di browser...") + "\n")
		if m.url != "" {
			fmt.Fprintf(&b, "\n %s\n %s\n", metaStyle.Render("Jika browser tidak terbuka, buka URL ini:"), normalStyle.Render(m.url))
		}
	case loginChecking:
		b.WriteString(" " + dimStyle.Render("memeriksa akun...") + "\n")
	case loginFailed:
		b.WriteString(" " + errorStyle.Render(m.err) + "\n\n")
		b.WriteString(" " + helpEntry("enter", "coba lagi") + "\n")
	}
	if m.statusMsg != "" {
		b.WriteString("\n " + okStyle.Render(m.statusMsg) + "\n")
	}
	return b.String()
}

func (m loginModel) helpKeys() string {
	if m.phase == loginWaiting && m.url != "" {
		return helpBar("y", "salin URL", "esc", "batal")
	}
	return helpBar("enter", "masuk", "esc", "tutup")
}
