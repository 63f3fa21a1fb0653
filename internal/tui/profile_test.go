package tui

import (
	"net/http"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang-jwt/jwt/v5"

	"github.com/pasarkampus/pasar/internal/route"
	"github.com/pasarkampus/pasar/pkg/domain"
	"github.com/pasarkampus/pasar/pkg/session"
)

func TestProfileShowsSessionUser(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	st := loggedIn(domain.RoleBuyer)
	st.Token = tok
	st.User.StudentID = "1301194001"
	store := session.Open(session.NewMemoryStorage(st))

	m := newProfileModel(nil, store)
	view := m.View()
	for _, want := range []string{"Budi", "budi@kampus.ac.id", "1301194001", "belum diajukan", "berakhir"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestProfileRefreshUpdatesStore(t *testing.T) {
	_, c := newFakeAPI(t, map[string]any{
		"GET /auth/me": domain.User{ID: 1, Name: "Budi Santoso", Role: domain.RoleSeller},
	})
	store := session.Open(session.NewMemoryStorage(loggedIn(domain.RoleBuyer)))
	m := newProfileModel(c, store)
	m, _ = m.Update(m.Init()())

	if got := store.State().User.Name; got != "Budi Santoso" {
		t.Errorf("Name = %q, want refreshed name", got)
	}
	if !strings.Contains(m.View(), "Penjual") {
		t.Error("expected the refreshed role in view")
	}
}

func TestProfileEditSavesAndMerges(t *testing.T) {
	api, c := newFakeAPI(t, map[string]any{
		"PUT /auth/me": domain.User{ID: 1, Name: "Budi", Phone: "081298765432"},
	})
	store := session.Open(session.NewMemoryStorage(loggedIn(domain.RoleBuyer)))
	m := newProfileModel(c, store)

	m, _ = m.Update(key("e"))
	if !m.editing {
		t.Fatal("expected edit form")
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("081298765432"), Paste: true})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatalf("expected save command, err=%q", m.edit.err)
	}
	m, _ = m.Update(cmd())

	if call := api.last(); call.method != http.MethodPut || call.body["no_hp"] != "081298765432" {
		t.Errorf("unexpected call %s %v", call.method, call.body)
	}
	st := store.State()
	if st.User.Phone != "081298765432" || st.User.Email != "budi@kampus.ac.id" {
		t.Errorf("expected merged user, got %+v", st.User)
	}
	if !st.IsAuthenticated || st.Token != "tok" {
		t.Error("profile update must not touch the token")
	}
	if m.editing {
		t.Error("expected form closed")
	}
}

func TestProfileEditRejectsBadPhone(t *testing.T) {
	store := session.Open(session.NewMemoryStorage(loggedIn(domain.RoleBuyer)))
	m := newProfileModel(nil, store)
	m, _ = m.Update(key("e"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("08-12"), Paste: true})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Fatal("expected validation to stop the request")
	}
	if m.edit.err != "No. HP hanya boleh berisi angka" {
		t.Errorf("err = %q", m.edit.err)
	}
}

func TestProfileVerificationKey(t *testing.T) {
	tests := []struct {
		name   string
		role   domain.Role
		status domain.VerificationStatus
		want   bool
	}{
		{"buyer", domain.RoleBuyer, domain.VerificationNone, true},
		{"buyer rejected", domain.RoleBuyer, domain.VerificationRejected, true},
		{"buyer pending", domain.RoleBuyer, domain.VerificationPending, false},
		{"seller", domain.RoleSeller, domain.VerificationApproved, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := loggedIn(tc.role)
			st.User.VerificationStatus = tc.status
			m := newProfileModel(nil, session.Open(session.NewMemoryStorage(st)))
			_, cmd := m.Update(key("v"))
			if got := cmd != nil; got != tc.want {
				t.Fatalf("got command=%v, want %v", got, tc.want)
			}
			if cmd != nil {
				if msg := cmd().(navigateMsg); msg.path != route.Verification {
					t.Errorf("navigate to %q, want %q", msg.path, route.Verification)
				}
			}
		})
	}
}

func TestVerificationSubmit(t *testing.T) {
	api, c := newFakeAPI(t, map[string]any{
		"POST /seller/verification": domain.VerificationRequest{ID: 9, StudentID: "1301194001", Faculty: "Informatika", Phone: "081234567890", Status: domain.VerificationPending},
	})
	store := session.Open(session.NewMemoryStorage(loggedIn(domain.RoleBuyer)))
	m := newVerificationModel(c, store)

	for _, v := range []string{"1301194001", "Informatika", "081234567890"} {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(v), Paste: true})
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	}
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatalf("expected submit, err=%q", m.form.err)
	}
	_, next := m.Update(cmd())
	if next == nil {
		t.Fatal("expected navigation back to the profile")
	}
	if msg := next().(navigateMsg); msg.path != route.Profile {
		t.Errorf("navigate to %q", msg.path)
	}
	if call := api.last(); call.body["nim"] != "1301194001" {
		t.Errorf("unexpected body %v", call.body)
	}
	u := store.State().User
	if u.VerificationStatus != domain.VerificationPending || u.Faculty != "Informatika" {
		t.Errorf("expected pending status merged into the user, got %+v", u)
	}
}

func TestVerificationConflict(t *testing.T) {
	api, c := newFakeAPI(t, nil)
	api.fail("POST /seller/verification", http.StatusConflict)
	store := session.Open(session.NewMemoryStorage(loggedIn(domain.RoleBuyer)))
	m := newVerificationModel(c, store)
	m.form.fields[0].value = "1301194001"
	m.form.fields[1].value = "Informatika"
	m.form.fields[2].value = "081234567890"

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatalf("expected submit, err=%q", m.form.err)
	}
	m, _ = m.Update(cmd())
	if !strings.Contains(m.form.err, "masih diproses") {
		t.Errorf("err = %q", m.form.err)
	}
	if store.State().User.VerificationStatus != domain.VerificationNone {
		t.Error("a failed submission must not change the user")
	}
}
