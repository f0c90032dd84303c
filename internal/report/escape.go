package report

import "strings"

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Esc escapes the three HTML-active characters. Every document-derived string
// passes through it before being embedded in HTML output; fixed UI strings do
// not.
func Esc(s string) string {
	return htmlEscaper.Replace(s)
}
