package report

import (
	"regexp"
	"strings"
)

type replacement struct {
	pattern *regexp.Regexp
	with    string
}

// Applied in order; later patterns assume earlier ones already ran
var markupReplacements = []replacement{
	{regexp.MustCompile(`\{[^}]*\}`), ""},          // {code}, {color:red}, {noformat}
	{regexp.MustCompile(`\[~[^\]]*\]`), ""},        // [~user] mentions
	{regexp.MustCompile(`\[[^\]]*\|[^\]]*\]`), ""}, // [text|url] links
	{regexp.MustCompile(`h[1-6]\. `), ""},          // headings
	{regexp.MustCompile(`[*_#]+`), ""},             // emphasis
	{regexp.MustCompile(`\n+`), " "},
	{regexp.MustCompile(`[\s\p{Zs}]+`), " "}, // includes no-break and em spaces
}

// CleanMarkup strips wiki markup tokens and collapses whitespace
func CleanMarkup(text string) string {
	if text == "" {
		return ""
	}
	for _, r := range markupReplacements {
		text = r.pattern.ReplaceAllString(text, r.with)
	}
	return strings.TrimSpace(text)
}

// Truncate caps text at limit characters, ending in "..." when cut
func Truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
