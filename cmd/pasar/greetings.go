package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pasarkampus/pasar/pkg/domain"
	"github.com/pasarkampus/pasar/pkg/session"
)

var anonymousGreetings = [...]string{
	"Lapak teman sekampus sudah buka. Kamu belum.",
	"Buku bekas semester lalu masih dicari adik tingkat.",
	"Ada yang jual kalkulator ilmiah murah. Mungkin itu milikmu dulu.",
	"Jaket himpunan ukuran L baru saja terjual. Yang M masih ada.",
	"Titip jual itu gratis. Masuk dulu, baru bisa jualan.",
	"Penjual terverifikasi hari ini lebih banyak dari kemarin.",
	"Kos-kosan butuh rice cooker. Kamu punya dua.",
	"Kamu bisa lihat-lihat tanpa masuk. Tapi lapor dan jualan butuh akun.",
}

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")).Bold(true)
	quoteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	cmdStyle   = lipgloss.NewStyle().Bold(true)
	descStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#34d399"))
)

func printHelp(out io.Writer) {
	title := titleStyle.Render("P A S A R   K A M P U S")
	commands := []struct{ cmd, desc string }{
		{"pasar", "Buka pasar (TUI interaktif)"},
		{"pasar login", "Masuk dengan akun Google kampus"},
		{"pasar logout", "Hapus sesi di perangkat ini"},
		{"pasar whoami", "Tampilkan akun yang sedang masuk"},
		{"pasar --version", "Tampilkan versi"},
		{"pasar help", "Bantuan ini"},
	}

	fmt.Fprintf(out, "\n  %s\n\n  Perintah:\n", title)
	for _, c := range commands {
		fmt.Fprintf(out, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-18s", c.cmd)), descStyle.Render(c.desc))
	}
	fmt.Fprintf(out, "\n  %s\n", descStyle.Render("Konfigurasi: PASAR_API_URL, PASAR_HOME, PASAR_TOKEN, PASAR_CONFIG"))
	fmt.Fprintf(out, "  %s\n\n", descStyle.Render("Sesi dari PASAR_TOKEN hanya berlaku selama proses berjalan dan tidak disimpan ke disk."))
}

func printAnonymous(out io.Writer) {
	msg := anonymousGreetings[rand.IntN(len(anonymousGreetings))]
	fmt.Fprintf(out, "\n%s\n\n%s\n\n%s\n\n",
		titleStyle.Render("PASAR KAMPUS"),
		quoteStyle.Render(msg),
		descStyle.Render("Belum masuk. Untuk masuk: pasar login"),
	)
}

func printUser(out io.Writer, st session.State, now time.Time) {
	u := st.User
	fmt.Fprintf(out, "%s  %s\n", cmdStyle.Render(u.DisplayName()), descStyle.Render(u.Email))
	fmt.Fprintf(out, "peran       %s\n", u.Role.Label())
	if !u.Role.IsAdmin() {
		fmt.Fprintf(out, "verifikasi  %s\n", verificationText(u.VerificationStatus))
	}
	if c, ok := session.ParseClaims(st.Token); ok && !c.ExpiresAt.IsZero() {
		if c.ExpiresAt.After(now) {
			fmt.Fprintf(out, "sesi        %s\n", okStyle.Render("berakhir "+c.ExpiresAt.Local().Format("02 Jan 2006 15:04")))
		} else {
			fmt.Fprintf(out, "sesi        %s\n", descStyle.Render("kedaluwarsa"))
		}
	}
}

func verificationText(s domain.VerificationStatus) string {
	switch s {
	case domain.VerificationPending:
		return "menunggu persetujuan"
	case domain.VerificationApproved:
		return "terverifikasi"
	case domain.VerificationRejected:
		return "ditolak"
	default:
		return "belum diajukan"
	}
}
