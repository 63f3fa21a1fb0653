package tui

import (
	"context"
	"net/http"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pasarkampus/pasar/internal/route"
	"github.com/pasarkampus/pasar/pkg/client"
	"github.com/pasarkampus/pasar/pkg/domain"
	"github.com/pasarkampus/pasar/pkg/session"
)

type adminLoginMsg struct {
	user  *domain.User
	token string
	err   error
}

// adminLoginModel is the email/password form of the back-office.
type adminLoginModel struct {
	client  *client.Client
	session *session.Store
	form    form
	sending bool
	width   int
}

func newAdminLoginModel(c *client.Client, s *session.Store) adminLoginModel {
	return adminLoginModel{
		client:  c,
		session: s,
		form: newForm(
			formField{key: "email", label: "Email", placeholder: "admin@kampus.ac.id"},
			formField{key: "password", label: "Password", secret: true},
		),
	}
}

func (m adminLoginModel) Update(msg tea.Msg) (adminLoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case adminLoginMsg:
		m.sending = false
		switch {
		case client.IsStatus(msg.err, http.StatusUnauthorized):
			m.form.err = "email atau password salah"
		case msg.err != nil:
			m.form.err = "gagal masuk: " + client.Message(msg.err)
		case msg.user == nil || !msg.user.Role.IsAdmin():
			// Credentials were fine but this is not a back-office account.
			m.form.err = "akun ini tidak memiliki akses admin"
		default:
			m.session.Login(msg.user, msg.token)
			return m, func() tea.Msg { return navigateMsg{path: route.AdminDashboard} }
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.sending {
			return m, nil
		}
		if msg.String() == "esc" {
			return m, func() tea.Msg { return navigateMsg{path: route.Home} }
		}
		var submit bool
		m.form, submit = m.form.update(keyText(msg))
		if !submit {
			return m, nil
		}
		req := client.LoginRequest{
			Email:    m.form.value("email"),
			Password: m.form.fields[1].value,
		}
		if err := validate.Struct(req); err != nil {
			m.form.err = validationMessage(err)
			return m, nil
		}
		m.sending = true
		c := m.client
		return m, func() tea.Msg {
			u, token, err := c.Login(context.Background(), req)
			return adminLoginMsg{user: u, token: token, err: err}
		}
	}
	return m, nil
}

func (m adminLoginModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + selectedStyle.Render("Masuk admin") + "\n")
	b.WriteString(" " + dimStyle.Render("Khusus pengelola Pasar Kampus.") + "\n\n")
	b.WriteString(m.form.view())
	if m.sending {
		b.WriteString("\n " + dimStyle.Render("memeriksa...") + "\n")
	}
	return b.String()
}
