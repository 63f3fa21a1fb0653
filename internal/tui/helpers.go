package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// formatTime renders a relative timestamp in Indonesian.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "baru saja"
	case d < time.Hour:
		return fmt.Sprintf("%dm lalu", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dj lalu", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dh lalu", int(d.Hours()/24))
	default:
		return t.Format("02 Jan 2006")
	}
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// oneLine collapses newlines and runs of whitespace so descriptions fit a row.
func oneLine(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// padRight pads s with spaces to width runes, truncating if longer.
func padRight(s string, width int) string {
	s = truncStr(s, width)
	if n := utf8.RuneCountInString(s); n < width {
		s += strings.Repeat(" ", width-n)
	}
	return s
}

// centerLine left-pads s so it sits in the middle of width columns.
func centerLine(s string, sWidth, width int) string {
	pad := (width - sWidth) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}
