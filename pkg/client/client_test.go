package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pasarkampus/pasar/pkg/domain"
	"github.com/pasarkampus/pasar/pkg/session"
)

// fakeLocation records resets of the current path.
type fakeLocation struct {
	mu     sync.Mutex
	path   string
	resets int
}

func (l *fakeLocation) Current() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

func (l *fakeLocation) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.path = "/"
	l.resets++
}

func exemptCallback(path string) bool { return path == "/auth/callback" }

func unauthorizedServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "token tidak valid"}) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/me" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "not authenticated"}) //nolint:errcheck
			return
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}
		json.NewEncoder(w).Encode(domain.User{ //nolint:errcheck
			Name: "Budi",
			Role: domain.RoleBuyer,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("test-token"))
	me, err := c.GetMe(context.Background())
	if err != nil {
		t.Fatalf("GetMe() error: %v", err)
	}
	if me.Name != "Budi" {
		t.Errorf("Name = %q, want %q", me.Name, "Budi")
	}
	if me.Role != domain.RoleBuyer {
		t.Errorf("Role = %q, want %q", me.Role, domain.RoleBuyer)
	}
}

func TestNoTokenSendsUnauthenticated(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]domain.Banner{}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	if _, err := c.ListBanners(context.Background()); err != nil {
		t.Fatalf("ListBanners() error: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want none", gotAuth)
	}
}

func TestTokenReadFromSessionThenCopy(t *testing.T) {
	var gotAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(domain.User{Name: "Budi"}) //nolint:errcheck
	}))
	defer srv.Close()

	mem := session.NewMemoryStorage(session.State{})
	store := session.Open(mem)
	c := New(srv.URL, store)

	// Only the persisted copy exists, as right after the OAuth callback.
	if err := mem.SaveToken("copy-token"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetMe(context.Background()); err != nil {
		t.Fatalf("GetMe() error: %v", err)
	}

	store.Login(&domain.User{Name: "Budi"}, "store-token")
	if _, err := c.GetMe(context.Background()); err != nil {
		t.Fatalf("GetMe() error: %v", err)
	}

	want := []string{"Bearer copy-token", "Bearer store-token"}
	for i := range want {
		if gotAuth[i] != want[i] {
			t.Errorf("request %d Authorization = %q, want %q", i, gotAuth[i], want[i])
		}
	}
}

func TestUnauthorizedForcesLogout(t *testing.T) {
	srv := unauthorizedServer(t)

	mem := session.NewMemoryStorage(session.State{})
	store := session.Open(mem)
	store.Login(&domain.User{Name: "Budi", Role: domain.RoleBuyer}, "expired")
	loc := &fakeLocation{path: "/produk/123"}

	c := New(srv.URL, store, WithUnauthorizedHandler(&ForcedLogout{
		Session:  store,
		Tokens:   mem,
		Location: loc,
		Exempt:   exemptCallback,
	}))

	_, err := c.GetProduct(context.Background(), 123)
	if !IsUnauthorized(err) {
		t.Fatalf("expected 401 error passed to caller, got %v", err)
	}
	st := store.State()
	if st.IsAuthenticated || st.User != nil || st.Token != "" {
		t.Errorf("expected cleared session, got %+v", st)
	}
	if tok, _ := mem.Token(); tok != "" {
		t.Errorf("token copy = %q, want removed", tok)
	}
	if loc.Current() != "/" {
		t.Errorf("location = %q, want /", loc.Current())
	}
}

func TestUnauthorizedOnCallbackIsIgnored(t *testing.T) {
	srv := unauthorizedServer(t)

	mem := session.NewMemoryStorage(session.State{})
	store := session.Open(mem)
	store.Login(&domain.User{Name: "Budi"}, "fresh")
	loc := &fakeLocation{path: "/auth/callback"}

	c := New(srv.URL, store, WithUnauthorizedHandler(&ForcedLogout{
		Session:  store,
		Tokens:   mem,
		Location: loc,
		Exempt:   exemptCallback,
	}))

	if _, err := c.GetMe(context.Background()); err == nil {
		t.Fatal("expected 401 error")
	}
	if !store.State().IsAuthenticated {
		t.Error("session cleared on the callback route")
	}
	if tok, _ := mem.Token(); tok != "fresh" {
		t.Errorf("token copy = %q, want kept", tok)
	}
	if loc.resets != 0 || loc.Current() != "/auth/callback" {
		t.Errorf("navigation happened: path=%q resets=%d", loc.Current(), loc.resets)
	}
}

func TestConcurrentUnauthorizedIsIdempotent(t *testing.T) {
	srv := unauthorizedServer(t)

	mem := session.NewMemoryStorage(session.State{})
	store := session.Open(mem)
	store.Login(&domain.User{Name: "Budi"}, "expired")
	loc := &fakeLocation{path: "/admin/users"}
	c := New(srv.URL, store, WithUnauthorizedHandler(&ForcedLogout{
		Session: store, Tokens: mem, Location: loc, Exempt: exemptCallback,
	}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.ListBanners(context.Background()) //nolint:errcheck
		}()
	}
	wg.Wait()

	if store.State() != (session.State{}) {
		t.Errorf("expected empty session, got %+v", store.State())
	}
	if loc.Current() != "/" {
		t.Errorf("location = %q, want /", loc.Current())
	}
}

func TestOtherErrorsPassThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"message": "akses ditolak"}) //nolint:errcheck
	}))
	defer srv.Close()

	store := session.Open(session.NewMemoryStorage(session.State{}))
	store.Login(&domain.User{Name: "Budi"}, "tok")
	loc := &fakeLocation{path: "/admin/activity-logs"}
	c := New(srv.URL, store, WithUnauthorizedHandler(&ForcedLogout{Session: store, Location: loc}))

	_, err := c.ListActivityLogs(context.Background(), nil)
	if !IsStatus(err, http.StatusForbidden) {
		t.Fatalf("expected 403, got %v", err)
	}
	if Message(err) != "akses ditolak" {
		t.Errorf("Message() = %q, want %q", Message(err), "akses ditolak")
	}
	if !store.State().IsAuthenticated {
		t.Error("403 must not clear the session")
	}
	if loc.resets != 0 {
		t.Error("403 must not navigate")
	}
}

func TestHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "boom"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	_, err := c.GetMe(context.Background())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if got := err.Error(); !strings.Contains(got, "HTTP 500") || !strings.Contains(got, "boom") {
		t.Errorf("error = %q, want it to contain 'HTTP 500' and 'boom'", got)
	}
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			http.NotFound(w, r)
			return
		}
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Email != "admin@kampus.ac.id" || req.Password != "rahasia123" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "email atau password salah"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"token": "admintok",
			"id":    1,
			"nama":  "Admin Kampus",
			"email": req.Email,
			"role":  "admin",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	user, token, err := c.Login(context.Background(), LoginRequest{Email: "admin@kampus.ac.id", Password: "rahasia123"})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if token != "admintok" {
		t.Errorf("token = %q, want %q", token, "admintok")
	}
	if user.Role != domain.RoleAdmin || user.Name != "Admin Kampus" {
		t.Errorf("user = %+v", user)
	}

	_, _, err = c.Login(context.Background(), LoginRequest{Email: "admin@kampus.ac.id", Password: "salah"})
	if !IsUnauthorized(err) {
		t.Errorf("expected 401 for bad credentials, got %v", err)
	}
}

func TestListProductsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/products" || q.Get("search") != "buku kalkulus" || q.Get("kategori") != "buku" || q.Get("page") != "2" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		json.NewEncoder(w).Encode(domain.Page[domain.Product]{ //nolint:errcheck
			Data:  []domain.Product{{ID: 1, Name: "Kalkulus Purcell", Price: 75000}},
			Total: 21,
			Page:  2,
			Limit: 20,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	page, err := c.ListProducts(context.Background(), ProductQuery{Search: "buku kalkulus", Category: "buku", Page: 2, Limit: 20})
	if err != nil {
		t.Fatalf("ListProducts() error: %v", err)
	}
	if page.Total != 21 || len(page.Data) != 1 || page.Data[0].Name != "Kalkulus Purcell" {
		t.Errorf("page = %+v", page)
	}
}

func TestDoRequest_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(5 * time.Second)              // slow server
		json.NewEncoder(w).Encode(domain.User{}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := c.GetMe(ctx)
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
}
