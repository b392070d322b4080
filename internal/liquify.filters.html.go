package internal

import (
	"html"
	"regexp"
	"strings"
)

// Patterns for the HTML-oriented filters, compiled once.
var (
	htmlEntityPattern = regexp.MustCompile(`&(?:[a-zA-Z]+|#[0-9]+|#x[0-9a-fA-F]+);`)
	htmlTagPattern    = regexp.MustCompile(`(?s)<[^>]*>`)
)

// registerHTMLFilters registers the HTML escaping and markup-stripping
// filters.
func registerHTMLFilters(r *FilterRegistry) {
	r.MustRegister(&Filter{
		Name: FilterNameEscape,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			return Str(html.EscapeString(input.Render())), nil
		},
	})

	r.MustRegister(&Filter{
		Name: FilterNameEscapeOnce,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			return Str(escapeOnce(input.Render())), nil
		},
	})

	r.MustRegister(&Filter{
		Name: FilterNameStripHTML,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			return Str(htmlTagPattern.ReplaceAllString(input.Render(), StringValueEmpty)), nil
		},
	})

	r.MustRegister(&Filter{
		Name: FilterNameNewlineToBr,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			s := input.Render()
			s = strings.ReplaceAll(s, "\r\n", "\n")
			return Str(strings.ReplaceAll(s, "\n", "<br />\n")), nil
		},
	})

	r.MustRegister(&Filter{
		Name: FilterNameStripNewlines,
		Fn: func(input Value, args []Value, kwargs map[string]Value) (Value, error) {
			s := input.Render()
			s = strings.ReplaceAll(s, "\r", StringValueEmpty)
			return Str(strings.ReplaceAll(s, "\n", StringValueEmpty)), nil
		},
	})
}

// escapeOnce escapes HTML special characters while leaving existing
// entity references intact.
func escapeOnce(s string) string {
	var sb strings.Builder
	last := 0
	for _, loc := range htmlEntityPattern.FindAllStringIndex(s, -1) {
		sb.WriteString(html.EscapeString(s[last:loc[0]]))
		sb.WriteString(s[loc[0]:loc[1]])
		last = loc[1]
	}
	sb.WriteString(html.EscapeString(s[last:]))
	return sb.String()
}
