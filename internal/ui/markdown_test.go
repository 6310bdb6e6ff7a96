package ui

import (
	"strings"
	"testing"
)

func TestRenderMarkdownTrailingNewline(t *testing.T) {
	t.Parallel()

	out, err := RenderMarkdown("# Heading", 80)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("rendered markdown should end with a newline, got %q", out)
	}
	if strings.HasSuffix(out, "\n\n") {
		t.Fatalf("rendered markdown should end with exactly one newline, got %q", out)
	}
}

func TestRenderMarkdownZeroWidthUsesDefault(t *testing.T) {
	t.Parallel()

	out, err := RenderMarkdown("hello", 0)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Fatalf("expected non-empty rendered output")
	}
}

func TestEntryMarkdownStyle(t *testing.T) {
	style := entryMarkdownStyle()

	for name, underline := range map[string]*bool{"H1": style.H1.Underline, "H2": style.H2.Underline} {
		if underline == nil || !*underline {
			t.Errorf("expected %s headings to be underlined", name)
		}
	}
	if style.Code.Color == nil {
		t.Errorf("expected inline code to have a color")
	}
	if style.CodeBlock.StylePrimitive.Color == nil {
		t.Errorf("expected code blocks to have a color")
	}
	if style.CodeBlock.Theme == "" {
		t.Errorf("expected code blocks to use a syntax theme")
	}
}

func TestConfigureMarkdownCodeTheme(t *testing.T) {
	orig := markdownCodeTheme
	t.Cleanup(func() {
		markdownCodeTheme = orig
	})

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"known theme", "dracula", "dracula"},
		{"case insensitive", "DrAcUlA", "dracula"},
		{"unknown falls back", "not-a-real-theme", defaultCodeTheme},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ConfigureMarkdownCodeTheme(tc.in)
			if markdownCodeTheme != tc.want {
				t.Fatalf("ConfigureMarkdownCodeTheme(%q) set %q, want %q", tc.in, markdownCodeTheme, tc.want)
			}
		})
	}

	ConfigureMarkdownCodeTheme("dracula")
	if style := entryMarkdownStyle(); style.CodeBlock.Theme != "dracula" {
		t.Fatalf("expected configured theme in style, got %q", style.CodeBlock.Theme)
	}
}
