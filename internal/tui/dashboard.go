package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pasarkampus/pasar/internal/notify"
	"github.com/pasarkampus/pasar/pkg/client"
	"github.com/pasarkampus/pasar/pkg/domain"
)

type statsLoadedMsg struct {
	stats *domain.DashboardStats
	err   error
}

type notificationsRefreshedMsg struct {
	summary domain.NotificationSummary
	err     error
}

type notificationsReadMsg struct{ err error }

// dashboardModel shows analytics plus the polled notification list.
type dashboardModel struct {
	client    *client.Client
	poller    *notify.Poller
	stats     *domain.DashboardStats
	summary   domain.NotificationSummary
	cursor    int
	err       error
	statusMsg string
	width     int
	height    int
}

func newDashboardModel(c *client.Client, p *notify.Poller) dashboardModel {
	m := dashboardModel{client: c, poller: p}
	if p != nil {
		m.summary = p.Snapshot()
	}
	return m
}

func (m dashboardModel) Init() tea.Cmd {
	if m.client == nil {
		return nil
	}
	c := m.client
	return func() tea.Msg {
		s, err := c.GetDashboardStats(context.Background())
		return statsLoadedMsg{stats: s, err: err}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.stats = msg.stats
		}
		return m, nil

	case bellMsg:
		m.summary = msg.summary
		if m.cursor >= len(m.summary.Items) {
			m.cursor = 0
		}
		return m, nil

	case notificationsRefreshedMsg:
		switch {
		case errors.Is(msg.err, notify.ErrThrottled):
			m.statusMsg = "tunggu sebentar sebelum memuat ulang"
		case msg.err != nil:
			m.statusMsg = "gagal memuat notifikasi"
		default:
			m.summary = msg.summary
			m.statusMsg = "diperbarui"
		}
		return m, nil

	case notificationsReadMsg:
		if msg.err != nil {
			m.statusMsg = "gagal menandai: " + client.Message(msg.err)
			return m, nil
		}
		m.statusMsg = "semua notifikasi ditandai dibaca"
		return m, m.poll(false)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.summary.Items)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "r":
			return m, tea.Batch(m.Init(), m.poll(true))
		case "m":
			if m.client == nil {
				return m, nil
			}
			c := m.client
			return m, func() tea.Msg {
				return notificationsReadMsg{err: c.MarkNotificationsRead(context.Background())}
			}
		}
	}
	return m, nil
}

// poll fetches the notification summary now; manual refreshes are throttled.
func (m dashboardModel) poll(manual bool) tea.Cmd {
	if m.poller == nil {
		return nil
	}
	p := m.poller
	return func() tea.Msg {
		var (
			s   domain.NotificationSummary
			err error
		)
		if manual {
			s, err = p.Refresh(context.Background())
		} else {
			s, err = p.Poll(context.Background())
		}
		return notificationsRefreshedMsg{summary: s, err: err}
	}
}

func (m dashboardModel) View() string {
	var b strings.Builder

	b.WriteString("\n " + sectionHeaderStyle.Render("── RINGKASAN ──") + "\n")
	switch {
	case m.err != nil:
		b.WriteString(" " + errorStyle.Render("gagal memuat statistik: "+client.Message(m.err)) + "\n")
	case m.stats == nil:
		b.WriteString(" " + dimStyle.Render("memuat...") + "\n")
	default:
		s := m.stats
		stat := func(label string, n int, style func(...string) string) {
			fmt.Fprintf(&b, " %s %s\n", metaStyle.Render(fmt.Sprintf("%-22s", label)), style(fmt.Sprintf("%d", n)))
		}
		stat("Pengguna", s.TotalUsers, normalStyle.Render)
		stat("Penjual", s.TotalSellers, normalStyle.Render)
		stat("Pengguna baru (7 hari)", s.NewUsersThisWeek, okStyle.Render)
		stat("Produk", s.TotalProducts, normalStyle.Render)
		stat("Produk aktif", s.ActiveProducts, okStyle.Render)
		stat("Laporan menunggu", s.PendingReports, warnStyle.Render)
		stat("Verifikasi menunggu", s.PendingVerifications, warnStyle.Render)
	}

	sum := m.summary
	b.WriteString("\n " + sectionHeaderStyle.Render("── NOTIFIKASI ──"))
	if sum.Total() > 0 {
		b.WriteString("  " + badgeStyle.Render(fmt.Sprintf(" %d ", sum.Total())))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, " %s  %s  %s\n",
		metaStyle.Render(fmt.Sprintf("verifikasi %d", sum.PendingVerifications)),
		metaStyle.Render(fmt.Sprintf("laporan %d", sum.PendingReports)),
		metaStyle.Render(fmt.Sprintf("belum dibaca %d", sum.Unread)),
	)
	if len(sum.Items) == 0 {
		b.WriteString(" " + dimStyle.Render("tidak ada notifikasi") + "\n")
	}
	msgWidth := max(m.width-20, 20)
	for i, n := range sum.Items {
		cursor := "  "
		style := normalStyle
		if !n.Read {
			style = selectedStyle
		}
		if i == m.cursor {
			cursor = accentStyle.Render("▸ ")
		}
		fmt.Fprintf(&b, " %s%s %s\n", cursor, style.Render(padRight(oneLine(n.Message), msgWidth)), metaStyle.Render(formatTime(n.CreatedAt)))
	}
	if m.poller != nil {
		if at := m.poller.FetchedAt(); !at.IsZero() {
			b.WriteString("\n " + metaStyle.Render("diperbarui "+formatTime(at)+fmt.Sprintf(", setiap %s", m.poller.Interval())) + "\n")
		}
	}
	if m.statusMsg != "" {
		b.WriteString("\n " + okStyle.Render(m.statusMsg) + "\n")
	}
	return b.String()
}

func (m dashboardModel) helpKeys() string {
	return helpBar("j/k", "pilih", "r", "muat ulang", "m", "tandai dibaca")
}
