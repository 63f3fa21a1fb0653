package tui

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pasarkampus/pasar/internal/route"
	"github.com/pasarkampus/pasar/internal/table"
	"github.com/pasarkampus/pasar/pkg/client"
	"github.com/pasarkampus/pasar/pkg/domain"
)

type tableKind int

const (
	kindUsers tableKind = iota
	kindProducts
	kindReports
	kindBanners
	kindVerifications
	kindActivity
)

func tableKindFor(pattern string) tableKind {
	switch pattern {
	case route.AdminProducts:
		return kindProducts
	case route.AdminReports:
		return kindReports
	case route.AdminBanners:
		return kindBanners
	case route.AdminVerify:
		return kindVerifications
	case route.AdminActivity:
		return kindActivity
	default:
		return kindUsers
	}
}

// tableSpec describes one admin table: its columns and which query key the
// f key cycles through.
type tableSpec struct {
	title     string
	columns   []column
	filterKey string
	filters   []string
}

type column struct {
	title string
	width int // 0 takes the remaining width
}

var tableSpecs = map[tableKind]tableSpec{
	kindUsers: {
		title:     "Pengguna",
		columns:   []column{{"ID", 6}, {"Nama", 0}, {"Email", 28}, {"Role", 12}, {"Status", 10}},
		filterKey: "role",
		filters:   roleNames(),
	},
	kindProducts: {
		title:     "Produk",
		columns:   []column{{"ID", 6}, {"Nama", 0}, {"Harga", 14}, {"Penjual", 18}, {"Status", 10}},
		filterKey: "status",
		filters: []string{
			string(domain.ProductActive), string(domain.ProductInactive),
			string(domain.ProductSold), string(domain.ProductBlocked),
		},
	},
	kindReports: {
		title:     "Laporan",
		columns:   []column{{"ID", 6}, {"Produk", 0}, {"Alasan", 18}, {"Pelapor", 16}, {"Status", 10}},
		filterKey: "status",
		filters:   []string{string(domain.ReportPending), string(domain.ReportResolved), string(domain.ReportRejected)},
	},
	kindBanners: {
		title:   "Banner",
		columns: []column{{"ID", 6}, {"Judul", 0}, {"Urutan", 8}, {"Status", 10}},
	},
	kindVerifications: {
		title:     "Verifikasi penjual",
		columns:   []column{{"ID", 6}, {"Nama", 0}, {"NIM", 16}, {"Fakultas", 16}, {"Status", 10}},
		filterKey: "status",
		filters: []string{
			string(domain.VerificationPending), string(domain.VerificationApproved), string(domain.VerificationRejected),
		},
	},
	kindActivity: {
		title:   "Log aktivitas",
		columns: []column{{"Waktu", 12}, {"Admin", 16}, {"Aksi", 18}, {"Target", 0}},
	},
}

func roleNames() []string {
	out := make([]string, len(domain.Roles))
	for i, r := range domain.Roles {
		out[i] = string(r)
	}
	return out
}

// tableRow is one rendered record. status drives the color of the last cell.
type tableRow struct {
	id     int64
	cells  []string
	status string
	banned bool
}

type rowsLoadedMsg struct {
	kind  tableKind
	rows  []tableRow
	total int
	err   error
}

type actionDoneMsg struct {
	done string
	err  error
}

// confirmPrompt asks y/n before a destructive action runs.
type confirmPrompt struct {
	question string
	run      tea.Cmd
}

type formPurpose int

const (
	formNone formPurpose = iota
	formRole
	formBanner
	formRejectNote
)

// adminTableModel is every back-office list: a table.State for paging, a
// search line, and per-kind moderation keys.
type adminTableModel struct {
	client     *client.Client
	kind       tableKind
	superAdmin bool
	list       table.State
	rows       []tableRow
	cursor     int
	searching  bool
	draft      string
	purpose    formPurpose
	form       form
	target     int64
	confirm    *confirmPrompt
	loading    bool
	err        error
	statusMsg  string
	width      int
	height     int
}

func newAdminTableModel(c *client.Client, kind tableKind, superAdmin bool) adminTableModel {
	return adminTableModel{
		client:     c,
		kind:       kind,
		superAdmin: superAdmin,
		list:       table.New(tableSpecs[kind].filterKey),
		loading:    true,
	}
}

func (m adminTableModel) editing() bool {
	return m.searching || m.purpose != formNone || m.confirm != nil
}

func (m adminTableModel) Init() tea.Cmd {
	return m.load()
}

func (m adminTableModel) load() tea.Cmd {
	if m.client == nil {
		return nil
	}
	c, kind, q := m.client, m.kind, m.list.Query()
	return func() tea.Msg {
		rows, total, err := fetchRows(context.Background(), c, kind, q)
		return rowsLoadedMsg{kind: kind, rows: rows, total: total, err: err}
	}
}

func fetchRows(ctx context.Context, c *client.Client, kind tableKind, q url.Values) ([]tableRow, int, error) {
	switch kind {
	case kindProducts:
		page, err := c.ListAdminProducts(ctx, q)
		if err != nil {
			return nil, 0, err
		}
		rows := make([]tableRow, len(page.Data))
		for i, p := range page.Data {
			seller := "-"
			if p.Seller != nil {
				seller = p.Seller.DisplayName()
			}
			rows[i] = tableRow{id: p.ID, status: string(p.Status), cells: []string{
				strconv.FormatInt(p.ID, 10), oneLine(p.Name), domain.FormatRupiah(p.Price), seller, string(p.Status),
			}}
		}
		return rows, page.Total, nil

	case kindReports:
		page, err := c.ListReports(ctx, q)
		if err != nil {
			return nil, 0, err
		}
		rows := make([]tableRow, len(page.Data))
		for i, r := range page.Data {
			product := "#" + strconv.FormatInt(r.ProductID, 10)
			if r.Product != nil {
				product = oneLine(r.Product.Name)
			}
			reporter := "-"
			if r.Reporter != nil {
				reporter = r.Reporter.DisplayName()
			}
			rows[i] = tableRow{id: r.ID, status: string(r.Status), cells: []string{
				strconv.FormatInt(r.ID, 10), product, r.Reason, reporter, string(r.Status),
			}}
		}
		return rows, page.Total, nil

	case kindBanners:
		page, err := c.ListAdminBanners(ctx, q)
		if err != nil {
			return nil, 0, err
		}
		rows := make([]tableRow, len(page.Data))
		for i, b := range page.Data {
			status := string(domain.ProductInactive)
			if b.Active {
				status = string(domain.ProductActive)
			}
			rows[i] = tableRow{id: b.ID, status: status, cells: []string{
				strconv.FormatInt(b.ID, 10), b.Title, strconv.Itoa(b.Order), status,
			}}
		}
		return rows, page.Total, nil

	case kindVerifications:
		page, err := c.ListVerifications(ctx, q)
		if err != nil {
			return nil, 0, err
		}
		rows := make([]tableRow, len(page.Data))
		for i, v := range page.Data {
			name := "user #" + strconv.FormatInt(v.UserID, 10)
			if v.User != nil {
				name = v.User.DisplayName()
			}
			rows[i] = tableRow{id: v.ID, status: string(v.Status), cells: []string{
				strconv.FormatInt(v.ID, 10), name, v.StudentID, v.Faculty, string(v.Status),
			}}
		}
		return rows, page.Total, nil

	case kindActivity:
		page, err := c.ListActivityLogs(ctx, q)
		if err != nil {
			return nil, 0, err
		}
		rows := make([]tableRow, len(page.Data))
		for i, l := range page.Data {
			target := fmt.Sprintf("%s #%d", l.TargetType, l.TargetID)
			if l.Detail != "" {
				target += " · " + oneLine(l.Detail)
			}
			rows[i] = tableRow{id: l.ID, cells: []string{formatTime(l.CreatedAt), l.AdminName, l.Action, target}}
		}
		return rows, page.Total, nil

	default:
		page, err := c.ListUsers(ctx, q)
		if err != nil {
			return nil, 0, err
		}
		rows := make([]tableRow, len(page.Data))
		for i, u := range page.Data {
			status := "aktif"
			if u.Banned {
				status = "banned"
			}
			rows[i] = tableRow{id: u.ID, status: status, banned: u.Banned, cells: []string{
				strconv.FormatInt(u.ID, 10), u.DisplayName(), u.Email, string(u.Role), status,
			}}
		}
		return rows, page.Total, nil
	}
}

func (m adminTableModel) Update(msg tea.Msg) (adminTableModel, tea.Cmd) {
	switch msg := msg.(type) {
	case rowsLoadedMsg:
		if msg.kind != m.kind {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.rows = msg.rows
			m.list = m.list.SetTotal(msg.total)
		}
		if m.cursor >= len(m.rows) {
			m.cursor = max(len(m.rows)-1, 0)
		}
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.statusMsg = "gagal: " + client.Message(msg.err)
			return m, nil
		}
		m.statusMsg = msg.done
		m.purpose = formNone
		m.loading = true
		return m, m.load()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		switch {
		case m.confirm != nil:
			return m.updateConfirm(msg)
		case m.searching:
			return m.updateSearch(msg)
		case m.purpose != formNone:
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m adminTableModel) updateConfirm(msg tea.KeyMsg) (adminTableModel, tea.Cmd) {
	run := m.confirm.run
	m.confirm = nil
	if msg.String() == "y" {
		return m, run
	}
	m.statusMsg = "dibatalkan"
	return m, nil
}

func (m adminTableModel) updateSearch(msg tea.KeyMsg) (adminTableModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		return m.reload(m.list.SetSearch(m.draft))
	case "esc":
		m.searching = false
		m.draft = ""
		return m.reload(m.list.SetSearch(""))
	default:
		m.draft = editRune(m.draft, keyText(msg))
	}
	return m, nil
}

func (m adminTableModel) reload(next table.State) (adminTableModel, tea.Cmd) {
	if next == m.list {
		return m, nil
	}
	m.list = next
	m.cursor = 0
	m.loading = true
	return m, m.load()
}

// action wraps a client call into a command that reports done on success.
func (m adminTableModel) action(done string, call func(context.Context, *client.Client) error) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		return actionDoneMsg{done: done, err: call(context.Background(), c)}
	}
}

func (m adminTableModel) ask(question string, run tea.Cmd) adminTableModel {
	m.confirm = &confirmPrompt{question: question, run: run}
	return m
}

func (m adminTableModel) updateList(msg tea.KeyMsg) (adminTableModel, tea.Cmd) {
	key := msg.String()
	switch key {
	case "j", "down":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "/":
		m.searching = true
		m.draft = m.list.Search
		return m, nil
	case "f":
		if spec := tableSpecs[m.kind]; len(spec.filters) > 0 {
			return m.reload(m.list.CycleFilter(spec.filters))
		}
		return m, nil
	case "n", "right":
		return m.reload(m.list.NextPage())
	case "p", "left":
		return m.reload(m.list.PrevPage())
	case "r":
		m.loading = true
		return m, m.load()
	}

	if m.kind == kindBanners && key == "c" {
		m.purpose = formBanner
		m.form = newForm(
			formField{key: "judul", label: "Judul"},
			formField{key: "gambar", label: "URL gambar", placeholder: "https://"},
			formField{key: "link", label: "Tautan", placeholder: "opsional"},
			formField{key: "urutan", label: "Urutan", value: "0"},
		)
		return m, nil
	}

	if m.cursor >= len(m.rows) {
		return m, nil
	}
	row := m.rows[m.cursor]
	id := row.id

	switch m.kind {
	case kindUsers:
		switch key {
		case "b":
			if row.banned {
				return m, m.action("pengguna dipulihkan", func(ctx context.Context, c *client.Client) error {
					return c.SetUserBanned(ctx, id, false)
				})
			}
			return m.ask(fmt.Sprintf("Blokir pengguna #%d?", id), m.action("pengguna diblokir", func(ctx context.Context, c *client.Client) error {
				return c.SetUserBanned(ctx, id, true)
			})), nil
		case "R":
			if !m.superAdmin {
				m.statusMsg = "hanya super admin yang bisa mengubah role"
				return m, nil
			}
			m.purpose = formRole
			m.target = id
			m.form = newForm(formField{key: "role", label: "Role", value: row.cells[3], options: roleNames()})
		}

	case kindProducts:
		switch key {
		case "x":
			return m.ask(fmt.Sprintf("Blokir produk #%d?", id), m.action("produk diblokir", func(ctx context.Context, c *client.Client) error {
				return c.SetProductStatus(ctx, id, domain.ProductBlocked)
			})), nil
		case "a":
			return m, m.action("produk diaktifkan", func(ctx context.Context, c *client.Client) error {
				return c.SetProductStatus(ctx, id, domain.ProductActive)
			})
		case "D":
			return m.ask(fmt.Sprintf("Hapus produk #%d secara permanen?", id), m.action("produk dihapus", func(ctx context.Context, c *client.Client) error {
				return c.DeleteProduct(ctx, id)
			})), nil
		}

	case kindReports:
		switch key {
		case "s":
			return m, m.action("laporan diselesaikan", func(ctx context.Context, c *client.Client) error {
				return c.ResolveReport(ctx, id, domain.ReportResolved)
			})
		case "x":
			return m, m.action("laporan ditolak", func(ctx context.Context, c *client.Client) error {
				return c.ResolveReport(ctx, id, domain.ReportRejected)
			})
		}

	case kindBanners:
		switch key {
		case "t":
			return m, m.action("banner diubah", func(ctx context.Context, c *client.Client) error {
				return c.ToggleBanner(ctx, id)
			})
		case "D":
			return m.ask(fmt.Sprintf("Hapus banner #%d?", id), m.action("banner dihapus", func(ctx context.Context, c *client.Client) error {
				return c.DeleteBanner(ctx, id)
			})), nil
		}

	case kindVerifications:
		switch key {
		case "a":
			return m.ask(fmt.Sprintf("Setujui pengajuan #%d?", id), m.action("pengajuan disetujui", func(ctx context.Context, c *client.Client) error {
				return c.ReviewVerification(ctx, id, true, "")
			})), nil
		case "x":
			m.purpose = formRejectNote
			m.target = id
			m.form = newForm(formField{key: "catatan", label: "Alasan penolakan"})
		}
	}
	return m, nil
}

func (m adminTableModel) updateForm(msg tea.KeyMsg) (adminTableModel, tea.Cmd) {
	if msg.String() == "esc" {
		m.purpose = formNone
		return m, nil
	}
	var submit bool
	m.form, submit = m.form.update(keyText(msg))
	if !submit {
		return m, nil
	}
	id := m.target

	switch m.purpose {
	case formRole:
		role := domain.Role(m.form.value("role"))
		if !domain.ValidRole(string(role)) {
			m.form.err = "role tidak valid"
			return m, nil
		}
		return m, m.action("role diubah", func(ctx context.Context, c *client.Client) error {
			return c.SetUserRole(ctx, id, role)
		})

	case formRejectNote:
		note := m.form.value("catatan")
		if note == "" {
			m.form.err = "alasan penolakan wajib diisi"
			return m, nil
		}
		return m, m.action("pengajuan ditolak", func(ctx context.Context, c *client.Client) error {
			return c.ReviewVerification(ctx, id, false, note)
		})

	case formBanner:
		order, err := strconv.Atoi(m.form.value("urutan"))
		if err != nil {
			m.form.err = "Urutan harus berupa angka"
			return m, nil
		}
		req := client.BannerRequest{
			Title:    m.form.value("judul"),
			ImageURL: m.form.value("gambar"),
			LinkURL:  m.form.value("link"),
			Order:    order,
		}
		if err := validate.Struct(req); err != nil {
			m.form.err = validationMessage(err)
			return m, nil
		}
		return m, m.action("banner dibuat", func(ctx context.Context, c *client.Client) error {
			_, err := c.CreateBanner(ctx, req)
			return err
		})
	}
	return m, nil
}

// columnWidths gives the flexible column whatever the fixed ones leave.
func columnWidths(cols []column, total int) []int {
	widths := make([]int, len(cols))
	fixed := 0
	for i, c := range cols {
		widths[i] = c.width
		fixed += c.width + 1
	}
	for i, c := range cols {
		if c.width == 0 {
			widths[i] = max(total-fixed-4, 10)
		}
	}
	return widths
}

func (m adminTableModel) View() string {
	spec := tableSpecs[m.kind]
	var b strings.Builder

	b.WriteString("\n " + selectedStyle.Render(spec.title))
	if m.list.Filter != "" {
		b.WriteString("  " + metaStyle.Render(spec.filterKey+": ") + normalStyle.Render(m.list.Filter))
	}
	switch {
	case m.searching:
		b.WriteString("  " + searchStyle.Render("/ ") + renderInput(m.draft, "cari...", true, false))
	case m.list.Search != "":
		b.WriteString("  " + searchStyle.Render("/ ") + normalStyle.Render(m.list.Search))
	}
	b.WriteString("\n\n")

	widths := columnWidths(spec.columns, m.width)
	b.WriteString("   ")
	for i, c := range spec.columns {
		b.WriteString(sectionHeaderStyle.Render(padRight(c.title, widths[i])) + " ")
	}
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(" " + errorStyle.Render("gagal memuat: "+client.Message(m.err)) + "\n")
	case m.loading && len(m.rows) == 0:
		b.WriteString(" " + dimStyle.Render("memuat...") + "\n")
	case len(m.rows) == 0:
		b.WriteString(" " + dimStyle.Render("tidak ada data") + "\n")
	}

	for i, row := range m.rows {
		cursor := "  "
		style := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸ ")
			style = selectedStyle
		}
		b.WriteString(" " + cursor)
		for j, cell := range row.cells {
			text := padRight(cell, widths[j])
			if j == len(row.cells)-1 && row.status != "" {
				b.WriteString(statusStyle(row.status).Render(text) + " ")
				continue
			}
			b.WriteString(style.Render(text) + " ")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n %s\n", metaStyle.Render(fmt.Sprintf("halaman %d/%d · %d data", m.list.Page, m.list.TotalPages(), m.list.Total)))

	if m.purpose != formNone {
		b.WriteString("\n" + m.form.view())
	}
	if m.confirm != nil {
		b.WriteString("\n " + warnStyle.Render(m.confirm.question) + " " + helpEntry("y", "ya") + "  " + helpEntry("n", "batal") + "\n")
	}
	if m.statusMsg != "" {
		b.WriteString("\n " + okStyle.Render(m.statusMsg) + "\n")
	}
	return b.String()
}

func (m adminTableModel) helpKeys() string {
	switch {
	case m.confirm != nil:
		return helpBar("y", "ya", "n", "batal")
	case m.searching:
		return helpBar("enter", "cari", "esc", "batal")
	case m.purpose != formNone:
		return helpBar("tab", "pindah", "ctrl+s", "kirim", "esc", "batal")
	}
	pairs := []string{"j/k", "pilih", "/", "cari", "n/p", "halaman"}
	if len(tableSpecs[m.kind].filters) > 0 {
		pairs = append(pairs, "f", "filter")
	}
	switch m.kind {
	case kindUsers:
		pairs = append(pairs, "b", "blokir")
		if m.superAdmin {
			pairs = append(pairs, "R", "role")
		}
	case kindProducts:
		pairs = append(pairs, "x", "blokir", "a", "aktifkan", "D", "hapus")
	case kindReports:
		pairs = append(pairs, "s", "selesai", "x", "tolak")
	case kindBanners:
		pairs = append(pairs, "c", "buat", "t", "aktif/nonaktif", "D", "hapus")
	case kindVerifications:
		pairs = append(pairs, "a", "setujui", "x", "tolak")
	}
	return helpBar(pairs...)
}
