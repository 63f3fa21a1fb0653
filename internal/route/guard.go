// Package route maps screen paths to the authorization guard that protects them.
package route

import "github.com/pasarkampus/pasar/pkg/session"

// Guard is the authorization requirement of a route.
type Guard int

const (
	Public Guard = iota
	Authenticated
	Admin
	SuperAdmin
)

func (g Guard) String() string {
	switch g {
	case Authenticated:
		return "authenticated"
	case Admin:
		return "admin"
	case SuperAdmin:
		return "super_admin"
	default:
		return "public"
	}
}

// Action is what the router does after a guard ran.
type Action int

const (
	Render Action = iota
	Redirect
)

// Decision is the outcome of a guard. OpenLogin asks the caller to raise the
// login modal; guards never do it themselves.
type Decision struct {
	Action    Action
	Target    string
	OpenLogin bool
}

var render = Decision{Action: Render}

func redirect(target string) Decision {
	return Decision{Action: Redirect, Target: target}
}

// Check runs the guard against a session snapshot.
func (g Guard) Check(st session.State) Decision {
	switch g {
	case Authenticated:
		return RequireAuth(st)
	case Admin:
		return RequireAdmin(st)
	case SuperAdmin:
		return RequireSuperAdmin(st)
	default:
		return render
	}
}

// RequireAuth protects buyer and seller screens. Anonymous visitors are sent
// home with the login modal up; admins belong on the back-office.
func RequireAuth(st session.State) Decision {
	if !st.IsAuthenticated {
		d := redirect(Home)
		d.OpenLogin = true
		return d
	}
	if st.Role().IsAdmin() {
		return redirect(AdminDashboard)
	}
	return render
}

// RequireAdmin protects the back-office.
func RequireAdmin(st session.State) Decision {
	if st.Token == "" || st.User == nil {
		return redirect(AdminLogin)
	}
	if !st.User.Role.IsAdmin() {
		return redirect(AdminLogin)
	}
	return render
}

// RequireSuperAdmin protects super-admin screens. A plain admin is a valid
// identity with too little privilege, so it goes to the dashboard, not to login.
func RequireSuperAdmin(st session.State) Decision {
	if st.Token == "" || st.User == nil {
		return redirect(AdminLogin)
	}
	if !st.User.Role.IsSuperAdmin() {
		return redirect(AdminDashboard)
	}
	return render
}
