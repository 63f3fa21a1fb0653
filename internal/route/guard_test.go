package route_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pasarkampus/pasar/internal/route"
	"github.com/pasarkampus/pasar/pkg/domain"
	"github.com/pasarkampus/pasar/pkg/session"
)

func as(role domain.Role) session.State {
	return session.State{
		User:            &domain.User{ID: 1, Name: "Budi", Role: role},
		Token:           "tok123",
		IsAuthenticated: true,
	}
}

func TestRequireAuth(t *testing.T) {
	cases := []struct {
		name string
		st   session.State
		want route.Decision
	}{
		{"anonymous", session.State{}, route.Decision{Action: route.Redirect, Target: route.Home, OpenLogin: true}},
		{"buyer", as(domain.RoleBuyer), route.Decision{Action: route.Render}},
		{"seller", as(domain.RoleSeller), route.Decision{Action: route.Render}},
		{"admin", as(domain.RoleAdmin), route.Decision{Action: route.Redirect, Target: route.AdminDashboard}},
		{"super admin", as(domain.RoleSuperAdmin), route.Decision{Action: route.Redirect, Target: route.AdminDashboard}},
		{"token without user", session.State{Token: "tok"}, route.Decision{Action: route.Redirect, Target: route.Home, OpenLogin: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, route.RequireAuth(tc.st))
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	toLogin := route.Decision{Action: route.Redirect, Target: route.AdminLogin}
	assert.Equal(t, toLogin, route.RequireAdmin(session.State{}))
	assert.Equal(t, toLogin, route.RequireAdmin(session.State{Token: "tok"}))
	assert.Equal(t, toLogin, route.RequireAdmin(session.State{User: &domain.User{Role: domain.RoleAdmin}}))
	assert.Equal(t, toLogin, route.RequireAdmin(as(domain.RoleBuyer)))
	assert.Equal(t, toLogin, route.RequireAdmin(as(domain.RoleSeller)))
	assert.Equal(t, route.Render, route.RequireAdmin(as(domain.RoleAdmin)).Action)
	assert.Equal(t, route.Render, route.RequireAdmin(as(domain.RoleSuperAdmin)).Action)
	assert.False(t, route.RequireAdmin(session.State{}).OpenLogin)
}

func TestRequireSuperAdmin(t *testing.T) {
	// No identity at all: login.
	assert.Equal(t, route.Decision{Action: route.Redirect, Target: route.AdminLogin}, route.RequireSuperAdmin(session.State{}))
	// A valid admin with too little privilege: dashboard, never login.
	assert.Equal(t, route.Decision{Action: route.Redirect, Target: route.AdminDashboard}, route.RequireSuperAdmin(as(domain.RoleAdmin)))
	assert.Equal(t, route.Decision{Action: route.Redirect, Target: route.AdminDashboard}, route.RequireSuperAdmin(as(domain.RoleBuyer)))
	assert.Equal(t, route.Render, route.RequireSuperAdmin(as(domain.RoleSuperAdmin)).Action)
}

func TestGuardCheck(t *testing.T) {
	st := as(domain.RoleAdmin)
	assert.Equal(t, route.Render, route.Public.Check(session.State{}).Action)
	assert.Equal(t, route.RequireAuth(st), route.Authenticated.Check(st))
	assert.Equal(t, route.RequireAdmin(st), route.Admin.Check(st))
	assert.Equal(t, route.RequireSuperAdmin(st), route.SuperAdmin.Check(st))
	assert.Equal(t, "super_admin", route.SuperAdmin.String())
}
