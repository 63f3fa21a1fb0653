package route

import (
	"strconv"
	"strings"
)

// Screen paths.
const (
	Home           = "/"
	Product        = "/produk/:id"
	Profile        = "/profil"
	Verification   = "/profil/verifikasi"
	AuthCallback   = "/auth/callback"
	AdminLogin     = "/admin/login"
	AdminDashboard = "/admin/dashboard"
	AdminUsers     = "/admin/users"
	AdminProducts  = "/admin/products"
	AdminReports   = "/admin/reports"
	AdminBanners   = "/admin/banners"
	AdminVerify    = "/admin/verifications"
	AdminActivity  = "/admin/activity-logs"
)

// Route binds a path pattern to its guard.
type Route struct {
	Pattern string
	Guard   Guard
	Title   string
}

// Params holds the values of :name segments.
type Params map[string]string

// Table is the full route table, in menu order.
var Table = []Route{
	{Home, Public, "Beranda"},
	{Product, Public, "Produk"},
	{Profile, Authenticated, "Profil"},
	{Verification, Authenticated, "Verifikasi Penjual"},
	{AuthCallback, Public, "Masuk"},
	{AdminLogin, Public, "Login Admin"},
	{AdminDashboard, Admin, "Dashboard"},
	{AdminUsers, Admin, "Pengguna"},
	{AdminProducts, Admin, "Produk"},
	{AdminReports, Admin, "Laporan"},
	{AdminBanners, Admin, "Banner"},
	{AdminVerify, Admin, "Verifikasi"},
	{AdminActivity, SuperAdmin, "Log Aktivitas"},
}

// Match finds the route for path. A query string is ignored.
func Match(path string) (Route, Params, bool) {
	path = StripQuery(path)
	for _, r := range Table {
		if params, ok := matchPattern(r.Pattern, path); ok {
			return r, params, true
		}
	}
	return Route{}, nil, false
}

// StripQuery drops everything from the first '?'.
func StripQuery(path string) string {
	p, _, _ := strings.Cut(path, "?")
	if p == "" {
		return Home
	}
	return p
}

func matchPattern(pattern, path string) (Params, bool) {
	want := splitPath(pattern)
	got := splitPath(path)
	if len(want) != len(got) {
		return nil, false
	}
	var params Params
	for i, seg := range want {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			if got[i] == "" {
				return nil, false
			}
			if params == nil {
				params = Params{}
			}
			params[name] = got[i]
			continue
		}
		if seg != got[i] {
			return nil, false
		}
	}
	return params, true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// ProductPath builds the detail path of a product.
func ProductPath(id int64) string {
	return strings.Replace(Product, ":id", strconv.FormatInt(id, 10), 1)
}

// ExemptFromForcedLogout is the default 401 policy: the OAuth callback
// expects a rejected token while the fresh one is being exchanged.
func ExemptFromForcedLogout(path string) bool {
	return StripQuery(path) == AuthCallback
}
