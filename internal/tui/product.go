package tui

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pasarkampus/pasar/internal/route"
	"github.com/pasarkampus/pasar/pkg/client"
	"github.com/pasarkampus/pasar/pkg/domain"
	"github.com/pasarkampus/pasar/pkg/session"
)

type productLoadedMsg struct {
	id      int64
	product *domain.Product
	err     error
}

type reportSentMsg struct{ err error }

// productModel is the product detail screen.
type productModel struct {
	client    *client.Client
	session   *session.Store
	siteURL   string
	id        int64
	product   *domain.Product
	reporting bool
	report    form
	sending   bool
	err       error
	statusMsg string
	width     int
}

func newProductModel(c *client.Client, s *session.Store, siteURL string, id int64) productModel {
	return productModel{client: c, session: s, siteURL: siteURL, id: id}
}

func newReportForm() form {
	return newForm(
		formField{key: "alasan", label: "Alasan", value: domain.ReportReasons[0], options: domain.ReportReasons},
		formField{key: "deskripsi", label: "Deskripsi", placeholder: "ceritakan masalahnya (opsional)"},
	)
}

func (m productModel) Init() tea.Cmd {
	if m.client == nil || m.id <= 0 {
		return nil
	}
	c, id := m.client, m.id
	return func() tea.Msg {
		p, err := c.GetProduct(context.Background(), id)
		return productLoadedMsg{id: id, product: p, err: err}
	}
}

func (m productModel) authenticated() bool {
	return m.session != nil && m.session.State().IsAuthenticated
}

// contact is what "c" copies: the seller's phone, else their email.
func (m productModel) contact() string {
	if m.product == nil || m.product.Seller == nil {
		return ""
	}
	if m.product.Seller.Phone != "" {
		return m.product.Seller.Phone
	}
	return m.product.Seller.Email
}

func (m productModel) link() string {
	return strings.TrimRight(m.siteURL, "/") + route.ProductPath(m.id)
}

func (m productModel) Update(msg tea.Msg) (productModel, tea.Cmd) {
	switch msg := msg.(type) {
	case productLoadedMsg:
		if msg.id != m.id {
			return m, nil
		}
		m.err = msg.err
		m.product = msg.product
		return m, nil

	case reportSentMsg:
		m.sending = false
		if msg.err != nil {
			m.report.err = "gagal mengirim laporan: " + client.Message(msg.err)
			return m, nil
		}
		m.reporting = false
		m.statusMsg = "laporan terkirim, terima kasih"
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("gagal menyalin: %v", msg.err)
		} else {
			m.statusMsg = msg.what + " disalin"
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		if m.reporting {
			return m.updateReport(msg)
		}
		switch msg.String() {
		case "esc", "backspace":
			return m, func() tea.Msg { return backMsg{} }
		case "c":
			if text := m.contact(); text != "" {
				return m, copyCmd(text, "kontak penjual")
			}
		case "y":
			if m.product != nil {
				return m, copyCmd(m.link(), "tautan")
			}
		case "r":
			if m.product == nil {
				return m, nil
			}
			if !m.authenticated() {
				return m, func() tea.Msg { return openLoginMsg{} }
			}
			m.reporting = true
			m.report = newReportForm()
		}
	}
	return m, nil
}

func (m productModel) updateReport(msg tea.KeyMsg) (productModel, tea.Cmd) {
	if m.sending {
		return m, nil
	}
	if msg.String() == "esc" {
		m.reporting = false
		return m, nil
	}
	var submit bool
	m.report, submit = m.report.update(keyText(msg))
	if !submit {
		return m, nil
	}
	req := client.ReportRequest{
		ProductID:   m.id,
		Reason:      m.report.value("alasan"),
		Description: m.report.value("deskripsi"),
	}
	if err := validate.Struct(req); err != nil {
		m.report.err = validationMessage(err)
		return m, nil
	}
	m.sending = true
	c := m.client
	return m, func() tea.Msg {
		_, err := c.ReportProduct(context.Background(), req)
		return reportSentMsg{err: err}
	}
}

type copyResultMsg struct {
	what string
	err  error
}

func copyCmd(text, what string) tea.Cmd {
	return func() tea.Msg {
		return copyResultMsg{what: what, err: clipboard.WriteAll(text)}
	}
}

func (m productModel) View() string {
	if m.err != nil {
		if client.IsStatus(m.err, http.StatusNotFound) {
			return "\n " + dimStyle.Render("produk tidak ditemukan")
		}
		return "\n " + errorStyle.Render("gagal memuat produk: "+client.Message(m.err))
	}
	if m.id <= 0 {
		return "\n " + dimStyle.Render("produk tidak ditemukan")
	}
	if m.product == nil {
		return "\n " + dimStyle.Render("memuat...")
	}

	p := m.product
	cardWidth := max(min(60, m.width-4), 30)
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Background(surfaceColor).
		Padding(1, 2).
		Width(cardWidth)

	var sb strings.Builder
	sb.WriteString(selectedStyle.Render(p.Name) + "\n")
	sb.WriteString(priceStyle.Render(domain.FormatRupiah(p.Price)))
	sb.WriteString("  " + statusStyle(string(p.Status)).Render(string(p.Status)) + "\n")

	meta := []string{p.Category}
	if p.Condition != "" {
		meta = append(meta, p.Condition)
	}
	meta = append(meta, fmt.Sprintf("%d kali dilihat", p.Views), formatTime(p.CreatedAt))
	sb.WriteString(metaStyle.Render(strings.Join(meta, " · ")) + "\n")

	if p.Description != "" {
		sb.WriteString("\n" + normalStyle.Render(p.Description) + "\n")
	}

	if p.Seller != nil {
		sb.WriteString("\n" + sectionHeaderStyle.Render("── PENJUAL ──") + "\n")
		sb.WriteString(normalStyle.Render(p.Seller.DisplayName()))
		if p.Seller.Faculty != "" {
			sb.WriteString(" · " + metaStyle.Render(p.Seller.Faculty))
		}
		sb.WriteString("\n")
		if c := m.contact(); c != "" {
			sb.WriteString(metaStyle.Render(c) + "\n")
		}
	}

	out := "\n" + border.Render(sb.String())
	if m.reporting {
		out += "\n\n " + sectionHeaderStyle.Render("── LAPORKAN PRODUK ──") + "\n" + m.report.view()
		if m.sending {
			out += " " + dimStyle.Render("mengirim...") + "\n"
		}
	}
	if m.statusMsg != "" {
		out += "\n " + okStyle.Render(m.statusMsg)
	}
	return out
}

func (m productModel) helpKeys() string {
	if m.reporting {
		return helpBar("tab", "pindah", "←/→", "alasan", "ctrl+s", "kirim", "esc", "batal")
	}
	return helpBar("c", "salin kontak", "y", "salin tautan", "r", "laporkan", "esc", "kembali")
}
