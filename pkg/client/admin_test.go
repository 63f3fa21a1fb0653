package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/pasarkampus/pasar/pkg/domain"
)

func TestListUsersPassesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/users" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("role") != "penjual" {
			t.Errorf("role filter = %q, want penjual", r.URL.Query().Get("role"))
		}
		json.NewEncoder(w).Encode(domain.Page[domain.User]{ //nolint:errcheck
			Data:  []domain.User{{ID: 4, Name: "Dewi", Role: domain.RoleSeller}},
			Total: 1,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	page, err := c.ListUsers(context.Background(), url.Values{"role": {"penjual"}})
	if err != nil {
		t.Fatalf("ListUsers() error: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].Name != "Dewi" {
		t.Errorf("page = %+v", page)
	}
}

func TestModerationEndpoints(t *testing.T) {
	type call struct {
		method string
		path   string
		body   map[string]string
	}
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck // empty bodies are expected
		calls = append(calls, call{r.Method, r.URL.Path, body})
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	ctx := context.Background()
	steps := []func() error{
		func() error { return c.SetUserBanned(ctx, 5, true) },
		func() error { return c.SetUserBanned(ctx, 5, false) },
		func() error { return c.SetUserRole(ctx, 5, domain.RoleAdmin) },
		func() error { return c.SetProductStatus(ctx, 9, domain.ProductBlocked) },
		func() error { return c.DeleteProduct(ctx, 9) },
		func() error { return c.ResolveReport(ctx, 2, domain.ReportResolved) },
		func() error { return c.ToggleBanner(ctx, 3) },
		func() error { return c.DeleteBanner(ctx, 3) },
		func() error { return c.ReviewVerification(ctx, 8, true, "") },
		func() error { return c.ReviewVerification(ctx, 8, false, "foto KTM buram") },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	want := []call{
		{http.MethodPut, "/admin/users/5/ban", nil},
		{http.MethodPut, "/admin/users/5/unban", nil},
		{http.MethodPut, "/admin/users/5/role", map[string]string{"role": "admin"}},
		{http.MethodPut, "/admin/products/9/status", map[string]string{"status": "diblokir"}},
		{http.MethodDelete, "/admin/products/9", nil},
		{http.MethodPut, "/admin/reports/2/status", map[string]string{"status": "resolved"}},
		{http.MethodPut, "/admin/banners/3/toggle", nil},
		{http.MethodDelete, "/admin/banners/3", nil},
		{http.MethodPut, "/admin/verifications/8/approve", map[string]string{"catatan": ""}},
		{http.MethodPut, "/admin/verifications/8/reject", map[string]string{"catatan": "foto KTM buram"}},
	}
	if len(calls) != len(want) {
		t.Fatalf("got %d calls, want %d", len(calls), len(want))
	}
	for i := range want {
		if calls[i].method != want[i].method || calls[i].path != want[i].path {
			t.Errorf("call %d = %s %s, want %s %s", i, calls[i].method, calls[i].path, want[i].method, want[i].path)
		}
		for k, v := range want[i].body {
			if calls[i].body[k] != v {
				t.Errorf("call %d body[%q] = %q, want %q", i, k, calls[i].body[k], v)
			}
		}
	}
}

func TestAdminNotifications(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(domain.NotificationSummary{ //nolint:errcheck
			PendingVerifications: 3,
			PendingReports:       1,
			Items:                []domain.Notification{{ID: 1, Message: "Verifikasi baru dari Dewi"}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	s, err := c.AdminNotifications(context.Background())
	if err != nil {
		t.Fatalf("AdminNotifications() error: %v", err)
	}
	if s.Total() != 4 || len(s.Items) != 1 {
		t.Errorf("summary = %+v", s)
	}
}
