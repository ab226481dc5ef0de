package latex

import "strings"

// specials maps every character LaTeX reserves to a form that typesets
// the character itself. The replacer scans the input once, so the
// backslashes it emits are never escaped again.
var specials = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// Escape makes literal text safe to emit as LaTeX source
func Escape(s string) string {
	return specials.Replace(s)
}

// urlSpecials are escaped inside \href and \url targets. hyperref reads
// \% and \# back as the bare characters, and unlike the raw forms they
// survive when the command sits in another command's argument. Other
// characters stay raw so the target remains a working link.
var urlSpecials = strings.NewReplacer(`%`, `\%`, `#`, `\#`)

// escapeURL prepares a link target for \href or \url
func escapeURL(s string) string {
	return urlSpecials.Replace(s)
}

// comment turns arbitrary text into LaTeX comment lines
func comment(s string) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return "%\n"
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = "% " + line
	}
	return strings.Join(lines, "\n") + "\n"
}
