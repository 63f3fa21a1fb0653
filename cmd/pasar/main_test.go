package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pasarkampus/pasar/internal/config"
	"github.com/pasarkampus/pasar/pkg/client"
	"github.com/pasarkampus/pasar/pkg/domain"
	"github.com/pasarkampus/pasar/pkg/session"
)

// testEnv points the client at apiURL with a fresh home directory.
func testEnv(t *testing.T, apiURL string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("PASAR_CONFIG", "")
	t.Setenv("PASAR_TOKEN", "")
	t.Setenv("PASAR_HOME", home)
	t.Setenv("PASAR_API_URL", apiURL)
	return home
}

func seedSession(t *testing.T, home string, user domain.User, token string) {
	t.Helper()
	fs := session.NewFileStorage(home)
	if err := fs.Save(session.State{User: &user, Token: token, IsAuthenticated: true}); err != nil {
		t.Fatal(err)
	}
	if err := fs.SaveToken(token); err != nil {
		t.Fatal(err)
	}
}

// meServer answers GET /auth/me for the given bearer tokens and 401 otherwise.
func meServer(t *testing.T, users map[string]domain.User) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/me" {
			http.NotFound(w, r)
			return
		}
		u, ok := users[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "token tidak valid"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(u) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunVersion(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"--version"}, &out); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != "pasar "+version {
		t.Errorf("version output = %q", got)
	}
}

func TestRunHelp(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"help"}, &out); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"pasar login", "pasar logout", "pasar whoami"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestRunUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"jualan"}, &out)
	if err == nil || !strings.Contains(err.Error(), "jualan") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
	if !strings.Contains(out.String(), "Perintah") {
		t.Error("expected help after an unknown command")
	}
}

func TestWhoamiAnonymous(t *testing.T) {
	srv := meServer(t, nil)
	testEnv(t, srv.URL)

	var out bytes.Buffer
	if err := run([]string{"whoami"}, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Belum masuk") {
		t.Errorf("expected anonymous notice, got %q", out.String())
	}
}

func TestWhoamiRefreshesUser(t *testing.T) {
	srv := meServer(t, map[string]domain.User{
		"tok": {ID: 1, Name: "Budi Santoso", Email: "budi@kampus.ac.id", Role: domain.RoleSeller, VerificationStatus: domain.VerificationApproved},
	})
	home := testEnv(t, srv.URL)
	seedSession(t, home, domain.User{ID: 1, Name: "Budi", Role: domain.RoleBuyer}, "tok")

	var out bytes.Buffer
	if err := run([]string{"whoami"}, &out); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{"Budi Santoso", "budi@kampus.ac.id", "Penjual", "terverifikasi"} {
		if !strings.Contains(got, want) {
			t.Errorf("whoami output missing %q:\n%s", want, got)
		}
	}

	st, err := session.NewFileStorage(home).Load()
	if err != nil {
		t.Fatal(err)
	}
	if st.User == nil || st.User.Role != domain.RoleSeller {
		t.Errorf("expected refreshed user persisted, got %+v", st.User)
	}
}

func TestWhoamiRejectedTokenLogsOut(t *testing.T) {
	srv := meServer(t, nil)
	home := testEnv(t, srv.URL)
	seedSession(t, home, domain.User{ID: 1, Name: "Budi", Role: domain.RoleBuyer}, "expired")

	var out bytes.Buffer
	if err := run([]string{"whoami"}, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Sesi sudah berakhir") {
		t.Errorf("expected session-ended notice, got %q", out.String())
	}

	fs := session.NewFileStorage(home)
	st, _ := fs.Load()
	if st.IsAuthenticated || st.Token != "" || st.User != nil {
		t.Errorf("expected cleared session on disk, got %+v", st)
	}
	if tok, _ := fs.Token(); tok != "" {
		t.Errorf("expected token copy removed, got %q", tok)
	}
}

func TestWhoamiAdoptsEnvToken(t *testing.T) {
	srv := meServer(t, map[string]domain.User{
		"env-tok": {ID: 9, Name: "Admin", Email: "admin@kampus.ac.id", Role: domain.RoleAdmin},
	})
	home := testEnv(t, srv.URL)
	t.Setenv("PASAR_TOKEN", "env-tok")

	var out bytes.Buffer
	if err := run([]string{"whoami"}, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "admin@kampus.ac.id") {
		t.Errorf("expected env token account, got %q", out.String())
	}
	if strings.Contains(out.String(), "verifikasi") {
		t.Error("admins have no seller verification line")
	}
	fs := session.NewFileStorage(home)
	if st, _ := fs.Load(); st.Token != "" || st.User != nil {
		t.Errorf("env token session must not be written to disk, got %+v", st)
	}
	if tok, _ := fs.Token(); tok != "" {
		t.Errorf("env token must not be written as the token copy, got %q", tok)
	}
}

func TestEnvTokenLeavesSavedSessionAlone(t *testing.T) {
	srv := meServer(t, map[string]domain.User{
		"tok":     {ID: 1, Name: "Budi", Email: "budi@kampus.ac.id", Role: domain.RoleBuyer},
		"env-tok": {ID: 9, Name: "Admin", Email: "admin@kampus.ac.id", Role: domain.RoleAdmin},
	})
	home := testEnv(t, srv.URL)
	seedSession(t, home, domain.User{ID: 1, Name: "Budi", Role: domain.RoleBuyer}, "tok")

	t.Setenv("PASAR_TOKEN", "env-tok")
	var out bytes.Buffer
	if err := run([]string{"whoami"}, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "admin@kampus.ac.id") {
		t.Fatalf("expected env token account, got %q", out.String())
	}

	// Once the variable is gone the saved session is back.
	t.Setenv("PASAR_TOKEN", "")
	out.Reset()
	if err := run([]string{"whoami"}, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "budi@kampus.ac.id") || strings.Contains(out.String(), "admin@") {
		t.Errorf("expected the saved account after unsetting PASAR_TOKEN, got %q", out.String())
	}
}

func TestLogout(t *testing.T) {
	srv := meServer(t, nil)
	home := testEnv(t, srv.URL)
	seedSession(t, home, domain.User{ID: 1, Name: "Budi", Role: domain.RoleBuyer}, "tok")

	var out bytes.Buffer
	if err := run([]string{"logout"}, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Berhasil keluar") {
		t.Errorf("got %q", out.String())
	}
	fs := session.NewFileStorage(home)
	if st, _ := fs.Load(); st.Token != "" || st.User != nil {
		t.Errorf("expected cleared session, got %+v", st)
	}
	if tok, _ := fs.Token(); tok != "" {
		t.Errorf("expected token copy removed, got %q", tok)
	}

	out.Reset()
	if err := run([]string{"logout"}, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Belum masuk") {
		t.Errorf("second logout: got %q", out.String())
	}
}

func TestTokenSourcePrecedence(t *testing.T) {
	store := session.Open(session.NewMemoryStorage(session.State{
		User: &domain.User{ID: 1}, Token: "stored", IsAuthenticated: true,
	}))

	if got := tokenSource(&config.Config{}, store).Token(); got != "stored" {
		t.Errorf("without PASAR_TOKEN: got %q, want stored", got)
	}
	src := tokenSource(&config.Config{Token: "env"}, store)
	if _, ok := src.(client.StaticToken); !ok || src.Token() != "env" {
		t.Errorf("with PASAR_TOKEN: got %q, want env", src.Token())
	}
}

func TestPrintUserSessionExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sign := func(exp time.Time) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		}).SignedString([]byte("k"))
		if err != nil {
			t.Fatal(err)
		}
		return tok
	}
	user := &domain.User{Name: "Budi", Role: domain.RoleBuyer}

	var out bytes.Buffer
	printUser(&out, session.State{User: user, Token: sign(now.Add(24 * time.Hour))}, now)
	if !strings.Contains(out.String(), "berakhir") {
		t.Errorf("expected expiry line, got %q", out.String())
	}

	out.Reset()
	printUser(&out, session.State{User: user, Token: sign(now.Add(-time.Hour))}, now)
	if !strings.Contains(out.String(), "kedaluwarsa") {
		t.Errorf("expected expired line, got %q", out.String())
	}

	out.Reset()
	printUser(&out, session.State{User: user, Token: "opaque"}, now)
	if strings.Contains(out.String(), "sesi") {
		t.Errorf("opaque token should print no session line, got %q", out.String())
	}
}
