package vignette

import (
	"strings"

	"golang.org/x/net/html"
)

// parseMarkup turns caption markup into display lines. Newlines are
// normalized to <br> first; <br> and the end of block elements start a new
// line, other tags are dropped and runs of whitespace collapse to one space.
// Ruby annotations (<rt> and <rp>) are dropped with their text, keeping the
// base text only.
func parseMarkup(markup string) []string {
	markup = strings.ReplaceAll(markup, "\r\n", "\n")
	markup = strings.ReplaceAll(markup, "\n", "<br>")

	var (
		lines []string
		cur   strings.Builder
		// depth of open rt/rp elements
		annotation int
	)
	flush := func() {
		lines = append(lines, strings.TrimSpace(cur.String()))
		cur.Reset()
	}

	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF is the only error a strings.Reader produces.
			if cur.Len() > 0 || len(lines) == 0 {
				flush()
			}
			return trimTrailingEmpty(lines)
		case html.TextToken:
			if annotation == 0 {
				writeCollapsed(&cur, string(z.Text()))
			}
		case html.StartTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "br":
				flush()
			case "rt", "rp":
				annotation++
			}
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if string(name) == "br" {
				flush()
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch tag := string(name); {
			case tag == "rt" || tag == "rp":
				annotation = max(annotation-1, 0)
			case tag == "ruby":
				// </rt> may be omitted before </ruby>.
				annotation = 0
			case isBlockTag(tag) && cur.Len() > 0:
				flush()
			}
		}
	}
}

func writeCollapsed(b *strings.Builder, s string) {
	space := b.Len() > 0 && strings.HasSuffix(b.String(), " ")
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' {
			if !space && b.Len() > 0 {
				b.WriteByte(' ')
				space = true
			}
			continue
		}
		b.WriteRune(r)
		space = false
	}
}

func isBlockTag(name string) bool {
	switch name {
	case "p", "div", "h1", "h2", "h3", "li":
		return true
	}
	return false
}

func trimTrailingEmpty(lines []string) []string {
	for len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
