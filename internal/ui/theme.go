package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// accentColor is the configured accent, empty when accent coloring is
// disabled.
var accentColor string

// ConfigureTheme applies the configured accent color to the shared
// styles. Accepts an ANSI 256 code ("0"-"255") or a hex color
// ("#RRGGBB" / "#RGB"); "none", "off", "default" and anything
// unparseable disable the accent.
func ConfigureTheme(accent string) {
	color, ok := normalizeAccentColor(accent)
	if !ok {
		accentColor = ""
		Accent = lipgloss.NewStyle()
		AccentBold = lipgloss.NewStyle().Bold(true)
		return
	}
	accentColor = color
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}

// AccentColor returns the configured accent color, ok=false when the
// accent is disabled or ConfigureTheme was never called.
func AccentColor() (string, bool) {
	return accentColor, accentColor != ""
}

func normalizeAccentColor(s string) (string, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "none", "off", "default":
		return "", false
	}

	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) == 3 {
			hex = strings.Repeat(string(hex[0]), 2) +
				strings.Repeat(string(hex[1]), 2) +
				strings.Repeat(string(hex[2]), 2)
		}
		if len(hex) != 6 {
			return "", false
		}
		if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
			return "", false
		}
		return "#" + hex, true
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 255 {
		return "", false
	}
	return strconv.Itoa(n), true
}
