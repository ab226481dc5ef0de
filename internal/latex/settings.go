package latex

import (
	"strings"
	"unicode/utf8"
)

// DefaultInlineDelimiter is used for inline code when Settings leaves the
// delimiter empty: \lstinline{...}
const DefaultInlineDelimiter = "{}"

// Settings is the resolved rendering configuration for one conversion.
// The zero value renders with verbatim listings and the default inline
// delimiter.
type Settings struct {
	// InlineDelimiter wraps inline code. One character is used on both
	// sides ("{" pairs with "}"), two characters are an open/close pair,
	// longer values use their first and last character. Empty means
	// DefaultInlineDelimiter.
	InlineDelimiter string

	// MintedListings selects minted environments for code blocks instead
	// of verbatim.
	MintedListings bool

	// Standalone wraps the body in a complete article document.
	Standalone bool
}

// inlineDelimiters resolves the configured delimiter into an open/close pair
func (s Settings) inlineDelimiters() (string, string) {
	d := strings.TrimSpace(s.InlineDelimiter)
	if d == "" {
		d = DefaultInlineDelimiter
	}

	first, size := utf8.DecodeRuneInString(d)
	if size == len(d) {
		if first == '{' {
			return "{", "}"
		}
		return d, d
	}

	last, _ := utf8.DecodeLastRuneInString(d)
	return string(first), string(last)
}
