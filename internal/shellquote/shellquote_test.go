package shellquote

import "testing"

func TestQuote(t *testing.T) {
	cases := map[string]string{
		"plain":        "'plain'",
		"with space":   "'with space'",
		"it's":         `'it'\''s'`,
		"/tmp/a.entry": "'/tmp/a.entry'",
	}
	for in, want := range cases {
		if got := Quote(in); got != want {
			t.Errorf("Quote(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestQuoteIfNeeded(t *testing.T) {
	if got := QuoteIfNeeded("plain"); got != "plain" {
		t.Errorf("plain string was quoted: %q", got)
	}
	if got := QuoteIfNeeded("a b"); got != "'a b'" {
		t.Errorf("QuoteIfNeeded(\"a b\") = %q", got)
	}
	if got := QuoteIfNeeded("a|b"); got != "'a|b'" {
		t.Errorf("QuoteIfNeeded(\"a|b\") = %q", got)
	}
}
