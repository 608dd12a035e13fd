package render

import (
	"html"
	"html/template"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	urlRegex     = regexp.MustCompile(`https?://[^\s<]+`)
	mentionRegex = regexp.MustCompile(`(\S*@+\S*)`)
	blankTarget  = regexp.MustCompile(`^_blank$`)
)

// Collapsed cards clip the body at this height; the toggle only appears for
// bodies likely to exceed it.
const (
	CollapsedHeightPx = 222
	collapseRunes     = 320
	collapseLines     = 6
)

// BodyPolicy is the sanitizer applied to formatted bodies: user-generated
// content rules plus target="_blank" on links.
func BodyPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("target").Matching(blankTarget).OnElements("a")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^mention$`)).OnElements("span")
	return p
}

// FormatBody turns plain publication content into HTML: @-tokens get a space
// on each side and a mention span, the text is escaped, bare http(s) URLs
// become links opening in a new tab and newlines become "<br> ".
func FormatBody(content string) string {
	if content == "" {
		return ""
	}
	padded := mentionRegex.ReplaceAllString(content, " $1 ")
	escaped := html.EscapeString(padded)
	marked := mentionRegex.ReplaceAllStringFunc(escaped, func(tok string) string {
		// URLs with an @ in the path are linked below instead
		if strings.Contains(tok, "://") {
			return tok
		}
		return `<span class="mention">` + tok + `</span>`
	})
	linked := urlRegex.ReplaceAllStringFunc(marked, func(u string) string {
		// escaped twice would turn &amp; into &amp;amp;
		u = html.UnescapeString(u)
		return `<a href="` + html.EscapeString(u) + `" target="_blank">` + html.EscapeString(u) + `</a>`
	})
	return strings.ReplaceAll(linked, "\n", "<br> ")
}

// SanitizedBody formats and sanitizes content for direct inclusion in a page.
func SanitizedBody(p *bluemonday.Policy, content string) template.HTML {
	return template.HTML(p.Sanitize(FormatBody(content)))
}

// Collapsible reports whether the body should get a show more/less toggle.
func Collapsible(content string) bool {
	return utf8.RuneCountInString(content) > collapseRunes || strings.Count(content, "\n") >= collapseLines
}
