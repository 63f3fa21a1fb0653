package tui

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pasarkampus/pasar/internal/route"
	"github.com/pasarkampus/pasar/pkg/client"
	"github.com/pasarkampus/pasar/pkg/domain"
	"github.com/pasarkampus/pasar/pkg/session"
)

type profileRefreshedMsg struct{}

type profileSavedMsg struct {
	user *domain.User
	err  error
}

// profileModel shows the logged-in user. The user record is read from the
// session store on every render, so background refreshes show up as-is.
type profileModel struct {
	client    *client.Client
	session   *session.Store
	editing   bool
	edit      form
	saving    bool
	statusMsg string
	width     int
}

func newProfileModel(c *client.Client, s *session.Store) profileModel {
	return profileModel{client: c, session: s}
}

func (m profileModel) Init() tea.Cmd {
	if m.client == nil {
		return nil
	}
	s, c := m.session, m.client
	return func() tea.Msg {
		s.FetchUser(context.Background(), c)
		return profileRefreshedMsg{}
	}
}

func (m profileModel) user() *domain.User {
	return m.session.State().User
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.edit.err = "gagal menyimpan: " + client.Message(msg.err)
			return m, nil
		}
		m.session.UpdateUser(domain.User{Name: msg.user.Name, Phone: msg.user.Phone})
		m.editing = false
		m.statusMsg = "profil disimpan"
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		if m.editing {
			return m.updateEdit(msg)
		}
		switch msg.String() {
		case "e":
			u := m.user()
			if u == nil {
				return m, nil
			}
			m.editing = true
			m.edit = newForm(
				formField{key: "nama", label: "Nama", value: u.Name},
				formField{key: "no_hp", label: "No. HP", value: u.Phone, placeholder: "08xxxxxxxxxx"},
			)
		case "v":
			if canRequestVerification(m.user()) {
				return m, func() tea.Msg { return navigateMsg{path: route.Verification} }
			}
		case "esc":
			return m, func() tea.Msg { return navigateMsg{path: route.Home} }
		}
	}
	return m, nil
}

func (m profileModel) updateEdit(msg tea.KeyMsg) (profileModel, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	if msg.String() == "esc" {
		m.editing = false
		return m, nil
	}
	var submit bool
	m.edit, submit = m.edit.update(keyText(msg))
	if !submit {
		return m, nil
	}
	req := client.ProfileUpdate{Name: m.edit.value("nama"), Phone: m.edit.value("no_hp")}
	if err := validate.Struct(req); err != nil {
		m.edit.err = validationMessage(err)
		return m, nil
	}
	m.saving = true
	c := m.client
	return m, func() tea.Msg {
		u, err := c.UpdateProfile(context.Background(), req)
		return profileSavedMsg{user: u, err: err}
	}
}

// canRequestVerification is true for buyers with no open or granted request.
func canRequestVerification(u *domain.User) bool {
	if u == nil || u.Role != domain.RoleBuyer {
		return false
	}
	return u.VerificationStatus != domain.VerificationPending && u.VerificationStatus != domain.VerificationApproved
}

func verificationLabel(s domain.VerificationStatus) string {
	switch s {
	case domain.VerificationPending:
		return "menunggu persetujuan"
	case domain.VerificationApproved:
		return "terverifikasi"
	case domain.VerificationRejected:
		return "ditolak"
	default:
		return "belum diajukan"
	}
}

func (m profileModel) View() string {
	u := m.user()
	if u == nil {
		return "\n " + dimStyle.Render("memuat profil...")
	}

	var b strings.Builder
	b.WriteString("\n " + selectedStyle.Render(u.DisplayName()) + "  " + RoleStyle(u.Role).Render(u.Role.Label()) + "\n")
	b.WriteString(" " + metaStyle.Render(u.Email) + "\n\n")

	row := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&b, " %s %s\n", metaStyle.Render(fmt.Sprintf("%-12s", label)), normalStyle.Render(value))
	}
	row("NIM", u.StudentID)
	row("Fakultas", u.Faculty)
	row("No. HP", u.Phone)
	if !u.CreatedAt.IsZero() {
		row("Bergabung", u.CreatedAt.Format("02 Jan 2006"))
	}
	status := string(u.VerificationStatus)
	fmt.Fprintf(&b, " %s %s\n", metaStyle.Render(fmt.Sprintf("%-12s", "Verifikasi")),
		statusStyle(status).Render(verificationLabel(u.VerificationStatus)))

	if claims, ok := m.session.TokenClaims(); ok && !claims.ExpiresAt.IsZero() {
		left := time.Until(claims.ExpiresAt)
		if left > 0 {
			row("Sesi", "berakhir "+claims.ExpiresAt.Format("02 Jan 15:04"))
		} else {
			fmt.Fprintf(&b, " %s %s\n", metaStyle.Render(fmt.Sprintf("%-12s", "Sesi")), warnStyle.Render("kedaluwarsa"))
		}
	}

	if m.editing {
		b.WriteString("\n " + sectionHeaderStyle.Render("── UBAH PROFIL ──") + "\n" + m.edit.view())
		if m.saving {
			b.WriteString(" " + dimStyle.Render("menyimpan...") + "\n")
		}
	}
	if m.statusMsg != "" {
		b.WriteString("\n " + okStyle.Render(m.statusMsg) + "\n")
	}
	return b.String()
}

func (m profileModel) helpKeys() string {
	if m.editing {
		return helpBar("tab", "pindah", "ctrl+s", "simpan", "esc", "batal")
	}
	if canRequestVerification(m.user()) {
		return helpBar("e", "ubah", "v", "jadi penjual", "esc", "beranda")
	}
	return helpBar("e", "ubah", "esc", "beranda")
}

type verificationLoadedMsg struct {
	req *domain.VerificationRequest
	err error
}

type verificationSentMsg struct {
	req *domain.VerificationRequest
	err error
}

// verificationModel is the seller verification request form.
type verificationModel struct {
	client   *client.Client
	session  *session.Store
	form     form
	previous *domain.VerificationRequest
	sending  bool
	width    int
}

func newVerificationModel(c *client.Client, s *session.Store) verificationModel {
	fields := []formField{
		{key: "nim", label: "NIM", placeholder: "nomor induk mahasiswa"},
		{key: "fakultas", label: "Fakultas", placeholder: "mis. Teknik"},
		{key: "no_hp", label: "No. HP", placeholder: "08xxxxxxxxxx"},
	}
	if u := s.State().User; u != nil {
		fields[0].value, fields[1].value, fields[2].value = u.StudentID, u.Faculty, u.Phone
	}
	return verificationModel{client: c, session: s, form: newForm(fields...)}
}

func (m verificationModel) Init() tea.Cmd {
	if m.client == nil {
		return nil
	}
	c := m.client
	return func() tea.Msg {
		req, err := c.GetVerification(context.Background())
		return verificationLoadedMsg{req: req, err: err}
	}
}

func (m verificationModel) Update(msg tea.Msg) (verificationModel, tea.Cmd) {
	switch msg := msg.(type) {
	case verificationLoadedMsg:
		// 404 means no request yet.
		if msg.err == nil {
			m.previous = msg.req
		}
		return m, nil

	case verificationSentMsg:
		m.sending = false
		if msg.err != nil {
			if client.IsStatus(msg.err, http.StatusConflict) {
				m.form.err = "pengajuan sebelumnya masih diproses"
			} else {
				m.form.err = "gagal mengirim: " + client.Message(msg.err)
			}
			return m, nil
		}
		m.session.UpdateUser(domain.User{
			VerificationStatus: domain.VerificationPending,
			StudentID:          msg.req.StudentID,
			Faculty:            msg.req.Faculty,
			Phone:              msg.req.Phone,
		})
		return m, func() tea.Msg { return navigateMsg{path: route.Profile} }

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.sending {
			return m, nil
		}
		if msg.String() == "esc" {
			return m, func() tea.Msg { return navigateMsg{path: route.Profile} }
		}
		var submit bool
		m.form, submit = m.form.update(keyText(msg))
		if !submit {
			return m, nil
		}
		req := client.VerificationSubmission{
			StudentID: m.form.value("nim"),
			Faculty:   m.form.value("fakultas"),
			Phone:     m.form.value("no_hp"),
		}
		if err := validate.Struct(req); err != nil {
			m.form.err = validationMessage(err)
			return m, nil
		}
		m.sending = true
		c := m.client
		return m, func() tea.Msg {
			v, err := c.SubmitVerification(context.Background(), req)
			if err == nil && v == nil {
				v = &domain.VerificationRequest{StudentID: req.StudentID, Faculty: req.Faculty, Phone: req.Phone}
			}
			return verificationSentMsg{req: v, err: err}
		}
	}
	return m, nil
}

func (m verificationModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + selectedStyle.Render("Verifikasi penjual") + "\n")
	b.WriteString(" " + dimStyle.Render("Isi data mahasiswa untuk mulai berjualan. Admin akan meninjau pengajuan Anda.") + "\n\n")
	if p := m.previous; p != nil && p.Status == domain.VerificationRejected {
		b.WriteString(" " + errorStyle.Render("Pengajuan sebelumnya ditolak"))
		if p.Note != "" {
			b.WriteString(metaStyle.Render(": " + p.Note))
		}
		b.WriteString("\n\n")
	}
	b.WriteString(m.form.view())
	if m.sending {
		b.WriteString("\n " + dimStyle.Render("mengirim...") + "\n")
	}
	return b.String()
}
