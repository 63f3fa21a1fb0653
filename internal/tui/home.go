package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pasarkampus/pasar/internal/route"
	"github.com/pasarkampus/pasar/internal/table"
	"github.com/pasarkampus/pasar/pkg/client"
	"github.com/pasarkampus/pasar/pkg/domain"
)

type productsLoadedMsg struct {
	page *domain.Page[domain.Product]
	err  error
}

type bannersLoadedMsg struct {
	banners []domain.Banner
	err     error
}

// homeModel is the public landing screen: banners on top, then a paginated
// product list with search and a category filter.
type homeModel struct {
	client   *client.Client
	started  bool
	banners  []domain.Banner
	banner   int
	products []domain.Product
	list     table.State
	cursor   int
	editing  bool // typing a search term
	draft    string
	loading  bool
	err      error
	width    int
	height   int
}

func newHomeModel(c *client.Client) homeModel {
	return homeModel{
		client:  c,
		started: true,
		list:    table.New("kategori"),
		loading: true,
	}
}

func (m homeModel) query() client.ProductQuery {
	return client.ProductQuery{
		Search:   m.list.Search,
		Category: m.list.Filter,
		Page:     m.list.Page,
		Limit:    m.list.Limit,
	}
}

func (m homeModel) loadProducts() tea.Cmd {
	if m.client == nil {
		return nil
	}
	c, q := m.client, m.query()
	return func() tea.Msg {
		page, err := c.ListProducts(context.Background(), q)
		return productsLoadedMsg{page: page, err: err}
	}
}

func (m homeModel) loadBanners() tea.Cmd {
	if m.client == nil {
		return nil
	}
	c := m.client
	return func() tea.Msg {
		banners, err := c.ListBanners(context.Background())
		return bannersLoadedMsg{banners: banners, err: err}
	}
}

func (m homeModel) Init() tea.Cmd {
	return tea.Batch(m.loadBanners(), m.loadProducts())
}

func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case productsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.products = msg.page.Data
			m.list = m.list.SetTotal(msg.page.Total)
		}
		if m.cursor >= len(m.products) {
			m.cursor = 0
		}
		return m, nil

	case bannersLoadedMsg:
		// Banners are decoration; a failure just hides them.
		if msg.err == nil {
			m.banners = msg.banners
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m homeModel) updateSearch(msg tea.KeyMsg) (homeModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editing = false
		return m.reload(m.list.SetSearch(m.draft))
	case "esc":
		m.editing = false
		m.draft = ""
		return m.reload(m.list.SetSearch(""))
	default:
		m.draft = editRune(m.draft, keyText(msg))
	}
	return m, nil
}

func (m homeModel) updateList(msg tea.KeyMsg) (homeModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.products)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if m.cursor < len(m.products) {
			path := route.ProductPath(m.products[m.cursor].ID)
			return m, func() tea.Msg { return navigateMsg{path: path} }
		}
	case "/":
		m.editing = true
		m.draft = m.list.Search
	case "f":
		return m.reload(m.list.CycleFilter(domain.Categories))
	case "n", "right":
		return m.reload(m.list.NextPage())
	case "p", "left":
		return m.reload(m.list.PrevPage())
	case "b":
		if len(m.banners) > 0 {
			m.banner = (m.banner + 1) % len(m.banners)
		}
	case "r":
		m.loading = true
		return m, tea.Batch(m.loadBanners(), m.loadProducts())
	}
	return m, nil
}

// reload fetches again only when the list state actually moved.
func (m homeModel) reload(next table.State) (homeModel, tea.Cmd) {
	if next == m.list {
		return m, nil
	}
	m.list = next
	m.cursor = 0
	m.loading = true
	return m, m.loadProducts()
}

func (m homeModel) View() string {
	var b strings.Builder

	if n := len(m.banners); n > 0 {
		bn := m.banners[m.banner%n]
		b.WriteString("\n " + accentStyle.Render("▌ ") + selectedStyle.Render(bn.Title))
		if n > 1 {
			b.WriteString(metaStyle.Render(fmt.Sprintf("  %d/%d", m.banner%n+1, n)))
		}
		b.WriteString("\n")
	}

	// Search / filter line
	b.WriteString("\n ")
	switch {
	case m.editing:
		b.WriteString(searchStyle.Render("/ ") + renderInput(m.draft, "cari produk...", true, false))
	case m.list.Search != "":
		b.WriteString(searchStyle.Render("/ ") + normalStyle.Render(m.list.Search))
	default:
		b.WriteString(metaStyle.Render("/ cari"))
	}
	category := "semua"
	if m.list.Filter != "" {
		category = m.list.Filter
	}
	b.WriteString("   " + metaStyle.Render("kategori: ") + normalStyle.Render(category) + "\n\n")

	switch {
	case m.err != nil:
		b.WriteString(" " + errorStyle.Render("gagal memuat produk: "+client.Message(m.err)) + "\n")
		return b.String()
	case m.loading && len(m.products) == 0:
		b.WriteString(" " + dimStyle.Render("memuat...") + "\n")
		return b.String()
	case len(m.products) == 0:
		b.WriteString(" " + dimStyle.Render("belum ada produk") + "\n")
		return b.String()
	}

	nameWidth := max(m.width-40, 20)
	for i, p := range m.products {
		cursor := "  "
		style := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸ ")
			style = selectedStyle
		}
		fmt.Fprintf(&b, " %s%s %s  %s\n",
			cursor,
			style.Render(padRight(oneLine(p.Name), nameWidth)),
			priceStyle.Render(fmt.Sprintf("%14s", domain.FormatRupiah(p.Price))),
			metaStyle.Render(p.Category),
		)
	}

	fmt.Fprintf(&b, "\n %s\n", metaStyle.Render(fmt.Sprintf("halaman %d/%d · %d produk", m.list.Page, m.list.TotalPages(), m.list.Total)))
	return b.String()
}

func (m homeModel) helpKeys() string {
	if m.editing {
		return helpBar("enter", "cari", "esc", "batal")
	}
	return helpBar("j/k", "pilih", "enter", "detail", "/", "cari", "f", "kategori", "n/p", "halaman")
}
