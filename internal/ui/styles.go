package ui

import "github.com/charmbracelet/lipgloss"

// Palette: default terminal foreground for primary text, one accent for
// entry IDs and paths, gray for secondary text. Success and failure are
// conveyed by symbols, not color. The accent can be overridden from
// imagrc.toml via ConfigureTheme.

var (
	// Accent styles entry IDs, file paths and highlights.
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFD7"))

	// Muted styles secondary info and hints.
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold is plain emphasis.
	Bold = lipgloss.NewStyle().Bold(true)

	// AccentBold combines the accent color with bold.
	AccentBold = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFD7")).Bold(true)
)
