package tui

import (
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// maxInputLen is the maximum number of runes allowed in search and form inputs.
const maxInputLen = 500

// namedKeys are key names bubbletea reports for non-printable keys.
var namedKeys = map[string]bool{
	"enter": true, "esc": true, "tab": true, "backspace": true, "delete": true,
	"up": true, "down": true, "left": true, "right": true,
	"home": true, "end": true, "pgup": true, "pgdown": true, "insert": true,
}

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware), single printable characters and pasted
// text. Returns the text unchanged for named keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	if key == "backspace" {
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	}
	if !printable(key) {
		return text
	}
	room := maxInputLen - utf8.RuneCountInString(text)
	if room <= 0 {
		return text
	}
	if runes := []rune(key); len(runes) > room {
		key = string(runes[:room])
	}
	return text + key
}

// keyText is the text a key press would insert. Pasted runes arrive without
// the brackets msg.String() wraps them in.
func keyText(msg tea.KeyMsg) string {
	switch {
	case msg.Type == tea.KeyRunes && !msg.Alt:
		return string(msg.Runes)
	case msg.Type == tea.KeySpace:
		return " "
	default:
		return msg.String()
	}
}

func printable(key string) bool {
	if key == "" || namedKeys[key] {
		return false
	}
	if utf8.RuneCountInString(key) == 1 {
		return true
	}
	for _, mod := range []string{"ctrl+", "alt+", "shift+"} {
		if strings.HasPrefix(key, mod) {
			return false
		}
	}
	// f1..f20
	if len(key) <= 3 && key[0] == 'f' && key[1] >= '0' && key[1] <= '9' {
		return false
	}
	return true
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// renderInput renders a one-line text input with a block cursor when focused.
func renderInput(value, placeholder string, focused, secret bool) string {
	shown := value
	if secret {
		shown = strings.Repeat("•", utf8.RuneCountInString(value))
	}
	if !focused {
		if value == "" {
			return inputPlaceholderStyle.Render(placeholder)
		}
		return normalStyle.Render(shown)
	}
	return selectedStyle.Render(shown) + accentStyle.Render("█")
}
