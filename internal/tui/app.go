package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pasarkampus/pasar/internal/browser"
	"github.com/pasarkampus/pasar/internal/lib/sl"
	"github.com/pasarkampus/pasar/internal/loginmodal"
	"github.com/pasarkampus/pasar/internal/notify"
	"github.com/pasarkampus/pasar/internal/oauth"
	"github.com/pasarkampus/pasar/internal/route"
	"github.com/pasarkampus/pasar/pkg/client"
	"github.com/pasarkampus/pasar/pkg/session"
)

type screen int

const (
	screenHome screen = iota
	screenProduct
	screenProfile
	screenVerification
	screenCallback
	screenAdminLogin
	screenDashboard
	screenAdminTable
)

// navigateMsg asks the root to go to a path; guards decide where it lands.
type navigateMsg struct {
	path string
}

// backMsg returns to the previous screen.
type backMsg struct{}

// openLoginMsg raises the login modal.
type openLoginMsg struct{}

// syncMsg means the session or the location changed outside Update
// (a 401 reset, a finished OAuth callback, a background FetchUser).
type syncMsg struct{}

// Deps is everything the TUI talks to.
type Deps struct {
	Client    *client.Client
	Session   *session.Store
	Nav       *route.Navigator
	Modal     *loginmodal.Signal
	Poller    *notify.Poller
	OAuth     *oauth.Flow
	Completer *oauth.Completer
	SiteURL   string
	Version   string
	Log       *slog.Logger
}

// App is the root Bubbletea model.
type App struct {
	client    *client.Client
	session   *session.Store
	nav       *route.Navigator
	modal     *loginmodal.Signal
	oauth     *oauth.Flow
	completer *oauth.Completer
	siteURL   string
	version   string
	log       *slog.Logger

	changes chan struct{}
	bell    *bell

	screen     screen
	path       string
	home       homeModel
	product    productModel
	profile    profileModel
	verify     verificationModel
	adminLogin adminLoginModel
	dashboard  dashboardModel
	table      adminTableModel
	login      loginModel

	helpOpen   bool
	helpCursor int
	updateTag  string
	width      int
	height     int
	frame      int // logo shimmer animation frame
}

// NewApp creates the TUI and lands on the navigator's current path, guards applied.
func NewApp(d Deps) App {
	if d.Session == nil {
		d.Session = session.Open(session.NewMemoryStorage(session.State{}))
	}
	if d.Nav == nil {
		d.Nav = route.NewNavigator(route.Home)
	}
	if d.Modal == nil {
		d.Modal = &loginmodal.Signal{}
	}
	if d.Log == nil {
		d.Log = sl.Discard()
	}
	if d.Poller == nil && d.Client != nil {
		d.Poller = notify.New(d.Client, notify.DefaultInterval, notify.WithLogger(d.Log))
	}

	changes := make(chan struct{}, 1)
	a := App{
		client:    d.Client,
		session:   d.Session,
		nav:       d.Nav,
		modal:     d.Modal,
		oauth:     d.OAuth,
		completer: d.Completer,
		siteURL:   d.SiteURL,
		version:   d.Version,
		log:       d.Log,
		changes:   changes,
		bell:      newBell(d.Poller),
		login:     newLoginModel(),
	}

	// Subscribers run on whatever goroutine mutated the state; the 1-slot
	// channel coalesces them into a single syncMsg.
	poke := func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}
	a.session.Subscribe(func(session.State) { poke() })
	a.nav.Subscribe(func(string) { poke() })

	a, _ = a.navigate(a.nav.Current())
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		shimmerTickCmd(),
		a.waitForChange(),
		a.screenInit(),
		a.fetchUser(),
		a.bellCmd(),
		checkVersion(a.version),
	)
}

func (a App) waitForChange() tea.Cmd {
	ch := a.changes
	return func() tea.Msg {
		<-ch
		return syncMsg{}
	}
}

// fetchUser refreshes the persisted user in the background; the store
// ignores failures and drops stale answers.
func (a App) fetchUser() tea.Cmd {
	if a.client == nil {
		return nil
	}
	s, c := a.session, a.client
	return func() tea.Msg {
		s.FetchUser(context.Background(), c)
		return nil
	}
}

// navigate runs the guards for path and switches screens if the result moved.
func (a App) navigate(path string) (App, tea.Cmd) {
	return a.goTo(path, a.modal)
}

// goTo is navigate with the opener guards may raise; nil redirects quietly.
func (a App) goTo(path string, modal route.Opener) (App, tea.Cmd) {
	res := a.nav.Go(path, a.session.State(), modal)
	if res.Path == a.path && a.path != "" {
		return a, nil
	}
	return a.enter(res)
}

func (a App) enter(res route.Resolution) (App, tea.Cmd) {
	a.log.Debug("enter screen", slog.String("from", a.path), slog.String("to", res.Path))
	a.path = res.Path
	st := a.session.State()

	switch res.Route.Pattern {
	case route.Product:
		id, _ := strconv.ParseInt(res.Params["id"], 10, 64) //nolint:errcheck // 0 renders "not found"
		a.screen = screenProduct
		a.product = newProductModel(a.client, a.session, a.siteURL, id)
	case route.Profile:
		a.screen = screenProfile
		a.profile = newProfileModel(a.client, a.session)
	case route.Verification:
		a.screen = screenVerification
		a.verify = newVerificationModel(a.client, a.session)
	case route.AuthCallback:
		a.screen = screenCallback
	case route.AdminLogin:
		a.screen = screenAdminLogin
		a.adminLogin = newAdminLoginModel(a.client, a.session)
	case route.AdminDashboard:
		a.screen = screenDashboard
		a.dashboard = newDashboardModel(a.client, a.bell.poller)
	case route.AdminUsers, route.AdminProducts, route.AdminReports,
		route.AdminBanners, route.AdminVerify, route.AdminActivity:
		a.screen = screenAdminTable
		a.table = newAdminTableModel(a.client, tableKindFor(res.Route.Pattern), st.Role().IsSuperAdmin())
	default:
		a.screen = screenHome
		if !a.home.started {
			a.home = newHomeModel(a.client)
		}
	}
	a = a.resize()

	var bellCmd tea.Cmd
	if res.Route.Guard == route.Admin || res.Route.Guard == route.SuperAdmin {
		bellCmd = a.bell.start()
	} else {
		a.bell.stop()
	}
	return a, tea.Batch(a.screenInit(), bellCmd)
}

func (a App) bellCmd() tea.Cmd {
	if a.bell.running() {
		return a.bell.wait()
	}
	return nil
}

func (a App) screenInit() tea.Cmd {
	switch a.screen {
	case screenHome:
		return a.home.Init()
	case screenProduct:
		return a.product.Init()
	case screenProfile:
		return a.profile.Init()
	case screenVerification:
		return a.verify.Init()
	case screenDashboard:
		return a.dashboard.Init()
	case screenAdminTable:
		return a.table.Init()
	}
	return nil
}

// resize hands the body size to every sub-model.
func (a App) resize() App {
	// Chrome: header(2) + tabs(1) + status(1) + help(1) = 5 lines
	body := tea.WindowSizeMsg{Width: a.width, Height: a.height - 5}
	a.home, _ = a.home.Update(body)
	a.product, _ = a.product.Update(body)
	a.profile, _ = a.profile.Update(body)
	a.verify, _ = a.verify.Update(body)
	a.adminLogin, _ = a.adminLogin.Update(body)
	a.dashboard, _ = a.dashboard.Update(body)
	a.table, _ = a.table.Update(body)
	return a
}

// sync reconciles the screen with the store and navigator after an
// outside change, and closes the login modal once someone is logged in.
// Outside changes never raise the modal, including the moment between a
// forced logout clearing the session and resetting the location.
func (a App) sync() (App, tea.Cmd) {
	st := a.session.State()
	if a.modal.CloseIfAuthenticated(st.IsAuthenticated) {
		a.login = newLoginModel()
	}
	cur := a.nav.Current()
	if cur == a.path {
		// Same location, but the session may no longer pass its guard.
		res := route.Resolve(cur, st, nil)
		if res.Path == cur {
			return a, nil
		}
		cur = res.Path
	}
	return a.goTo(cur, nil)
}

func (a App) logout() (App, tea.Cmd) {
	wasAdmin := a.session.State().Role().IsAdmin()
	a.session.Logout()
	a.bell.stop()
	if wasAdmin {
		return a.navigate(route.AdminLogin)
	}
	a.nav.Reset()
	a.path = ""
	return a.navigate(route.Home)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a.resize(), nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case syncMsg:
		var cmd tea.Cmd
		a, cmd = a.sync()
		return a, tea.Batch(cmd, a.waitForChange())

	case versionCheckMsg:
		if msg.hasUpdate {
			a.updateTag = msg.latestVersion
		}
		return a, nil

	case bellMsg:
		a.dashboard, _ = a.dashboard.Update(msg)
		return a, a.bell.wait()

	case navigateMsg:
		return a.navigate(msg.path)

	case backMsg:
		res := a.nav.Back(a.session.State(), a.modal)
		if res.Path == a.path {
			return a, nil
		}
		return a.enter(res)

	case openLoginMsg:
		a.modal.Open()
		return a, nil

	case loginStartedMsg, loginTokenMsg, loginDoneMsg:
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg, a.loginEnv())
		return a, cmd

	// Async results go to their screen even if the user has moved on.
	case productsLoadedMsg, bannersLoadedMsg:
		var cmd tea.Cmd
		a.home, cmd = a.home.Update(msg)
		return a, cmd
	case productLoadedMsg, reportSentMsg, copyResultMsg:
		var cmd tea.Cmd
		a.product, cmd = a.product.Update(msg)
		return a, cmd
	case profileSavedMsg, profileRefreshedMsg:
		var cmd tea.Cmd
		a.profile, cmd = a.profile.Update(msg)
		return a, cmd
	case verificationLoadedMsg, verificationSentMsg:
		var cmd tea.Cmd
		a.verify, cmd = a.verify.Update(msg)
		return a, cmd
	case adminLoginMsg:
		var cmd tea.Cmd
		a.adminLogin, cmd = a.adminLogin.Update(msg)
		return a, cmd
	case statsLoadedMsg, notificationsRefreshedMsg, notificationsReadMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.Update(msg)
		return a, cmd
	case rowsLoadedMsg, actionDoneMsg:
		var cmd tea.Cmd
		a.table, cmd = a.table.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.login.cancel()
			return a, tea.Quit
		}

		if a.helpOpen {
			return a.updateHelp(msg)
		}

		// Login modal captures all keys when open
		if a.modal.IsOpen() {
			var cmd tea.Cmd
			a.login, cmd = a.login.Update(msg, a.loginEnv())
			if a.login.dismissed {
				a.login = newLoginModel()
				a.modal.Close()
			}
			return a, cmd
		}

		if !a.isEditing() {
			if next, cmd, ok := a.globalKey(msg.String()); ok {
				return next, cmd
			}
		}
	}

	var cmd tea.Cmd
	switch a.screen {
	case screenHome:
		a.home, cmd = a.home.Update(msg)
	case screenProduct:
		a.product, cmd = a.product.Update(msg)
	case screenProfile:
		a.profile, cmd = a.profile.Update(msg)
	case screenVerification:
		a.verify, cmd = a.verify.Update(msg)
	case screenAdminLogin:
		a.adminLogin, cmd = a.adminLogin.Update(msg)
	case screenDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case screenAdminTable:
		a.table, cmd = a.table.Update(msg)
	}
	return a, cmd
}

func (a App) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "esc":
		a.helpOpen = false
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.helpCursor < len(helpItems)-1 {
			a.helpCursor++
		}
	case "k", "up":
		if a.helpCursor > 0 {
			a.helpCursor--
		}
	case "enter":
		item := helpItems[a.helpCursor]
		if a.siteURL != "" {
			browser.Open(strings.TrimRight(a.siteURL, "/") + item.path) //nolint:errcheck // best-effort browser open
		}
	}
	return a, nil
}

// globalKey handles keys that work on every screen outside text input.
func (a App) globalKey(key string) (App, tea.Cmd, bool) {
	switch key {
	case "q":
		return a, tea.Quit, true
	case "h":
		a.helpOpen = true
		a.helpCursor = 0
		return a, nil, true
	case "L":
		if !a.session.State().IsAuthenticated {
			a.modal.Open()
		}
		return a, nil, true
	case "O":
		if a.session.State().IsAuthenticated {
			next, cmd := a.logout()
			return next, cmd, true
		}
		return a, nil, true
	}
	for _, t := range a.tabs() {
		if t.key == key {
			next, cmd := a.navigate(t.path)
			return next, cmd, true
		}
	}
	return a, nil, false
}

func (a App) isEditing() bool {
	switch a.screen {
	case screenHome:
		return a.home.editing
	case screenProduct:
		return a.product.reporting
	case screenProfile:
		return a.profile.editing
	case screenVerification, screenAdminLogin:
		return true
	case screenAdminTable:
		return a.table.editing()
	}
	return false
}

type tab struct {
	key   string
	label string
	path  string
}

// tabs depend on who is logged in: admins get the back-office.
func (a App) tabs() []tab {
	st := a.session.State()
	if st.IsAuthenticated && st.Role().IsAdmin() {
		tabs := []tab{
			{"1", "Dashboard", route.AdminDashboard},
			{"2", "Pengguna", route.AdminUsers},
			{"3", "Produk", route.AdminProducts},
			{"4", "Laporan", route.AdminReports},
			{"5", "Banner", route.AdminBanners},
			{"6", "Verifikasi", route.AdminVerify},
		}
		if st.Role().IsSuperAdmin() {
			tabs = append(tabs, tab{"7", "Log", route.AdminActivity})
		}
		return tabs
	}
	tabs := []tab{
		{"1", "Beranda", route.Home},
		{"2", "Profil", route.Profile},
	}
	if !st.IsAuthenticated {
		tabs = append(tabs, tab{"3", "Admin", route.AdminLogin})
	}
	return tabs
}

func (a App) View() string {
	st := a.session.State()

	logo := renderShimmerLogo(a.frame)
	header := centerLine(logo, lipgloss.Width(logo), a.width)

	var who string
	if st.IsAuthenticated {
		who = normalStyle.Render(st.User.DisplayName()) + metaStyle.Render(" · ") + RoleStyle(st.User.Role).Render(st.User.Role.Label())
		if n := a.bell.total(); st.Role().IsAdmin() && n > 0 {
			who += "  " + badgeStyle.Render(fmt.Sprintf(" %d ", n))
		}
	} else {
		who = metaStyle.Render("belum masuk")
	}
	header += "\n" + centerLine(who, lipgloss.Width(who), a.width)

	tabs := a.tabs()
	colWidth := a.width / max(len(tabs), 1)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if route.StripQuery(a.path) == t.path {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.label)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.label)
		}
		lw := lipgloss.Width(label)
		left := max((colWidth-lw)/2, 0)
		right := max(colWidth-lw-left, 0)
		tabBar.WriteString(strings.Repeat(" ", left) + label + strings.Repeat(" ", right))
	}

	var body, help string
	switch a.screen {
	case screenHome:
		body = a.home.View()
		help = a.home.helpKeys()
	case screenProduct:
		body = a.product.View()
		help = a.product.helpKeys()
	case screenProfile:
		body = a.profile.View()
		help = a.profile.helpKeys()
	case screenVerification:
		body = a.verify.View()
		help = helpBar("tab", "pindah", "ctrl+s", "kirim", "esc", "kembali")
	case screenCallback:
		body = "\n " + dimStyle.Render("memproses login...")
	case screenAdminLogin:
		body = a.adminLogin.View()
		help = helpBar("tab", "pindah", "enter", "masuk", "esc", "beranda")
	case screenDashboard:
		body = a.dashboard.View()
		help = a.dashboard.helpKeys()
	case screenAdminTable:
		body = a.table.View()
		help = a.table.helpKeys()
	}
	if !a.isEditing() {
		if st.IsAuthenticated {
			help += "  " + helpEntry("O", "keluar")
		} else {
			help += "  " + helpEntry("L", "masuk")
		}
		help += "  " + helpEntry("h", "bantuan") + "  " + helpEntry("q", "tutup")
	}

	if a.modal.IsOpen() {
		body = a.login.View(a.width)
		help = a.login.helpKeys()
	}
	if a.helpOpen {
		body = helpView(a.helpCursor)
		help = helpBar("j/k", "pilih", "enter", "buka", "esc", "tutup")
	}

	status := ""
	if a.updateTag != "" {
		status = " " + warnStyle.Render("versi baru "+a.updateTag+" tersedia")
	}

	chrome := 5
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, tabBar.String(), body, status, help)
}
