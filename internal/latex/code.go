package latex

import (
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/gerunddev/mdlatex/internal/mdast"
)

// fallbackDelimiters are tried in order when inline code contains the
// configured closing delimiter.
const fallbackDelimiters = "|!+@=/"

// mintedLanguage maps a fence info language onto a Pygments lexer alias.
// chroma mirrors the Pygments lexer set, so its first alias is a name
// minted accepts. Unknown languages pass through lowercased.
func mintedLanguage(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return ""
	}
	if l := lexers.Get(lang); l != nil {
		if aliases := l.Config().Aliases; len(aliases) > 0 {
			return aliases[0]
		}
	}
	return strings.ToLower(lang)
}

// codeBlock emits the payload unescaped inside a listing environment
func (r *renderer) codeBlock(c *mdast.Code) string {
	body := c.Value
	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}

	if !r.settings.MintedListings {
		return "\\begin{verbatim}\n" + body + "\\end{verbatim}\n\n"
	}

	r.need("minted")
	open := `\begin{minted}`
	if lang := mintedLanguage(c.Lang); lang != "" {
		open += "{" + lang + "}"
	}
	return open + "\n" + body + "\\end{minted}\n\n"
}

// inlineCode wraps the payload, unescaped, in \lstinline delimiters.
// A payload no delimiter can enclose is escaped into \texttt instead.
func (r *renderer) inlineCode(c *mdast.InlineCode) string {
	open, close := r.settings.inlineDelimiters()
	if conflicts(c.Value, open, close) {
		found := false
		for _, d := range fallbackDelimiters {
			if !strings.ContainsRune(c.Value, d) {
				open, close, found = string(d), string(d), true
				break
			}
		}
		if !found {
			return `\texttt{` + Escape(c.Value) + "}"
		}
	}
	r.need("listings")
	return `\lstinline` + open + c.Value + close
}

// conflicts reports whether value would end the inline code early.
// Braces may nest as long as they balance.
func conflicts(value, open, close string) bool {
	if open == "{" && close == "}" {
		depth := 0
		for _, ch := range value {
			switch ch {
			case '{':
				depth++
			case '}':
				depth--
				if depth < 0 {
					return true
				}
			}
		}
		return depth != 0
	}
	return strings.Contains(value, close)
}
