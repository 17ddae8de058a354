// Package handout renders a deck's slides as a Markdown and HTML handout.
package handout

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"

	"slidewiz/internal/content"
)

// Markdown lists every slide as a section with its bullets and notes.
func Markdown(title string, slides []content.SlideRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escape(title))

	for i, s := range slides {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, escape(s.Title))
		for _, bullet := range s.Bullets {
			fmt.Fprintf(&b, "- %s\n", escape(bullet))
		}
		if len(s.Bullets) > 0 {
			b.WriteString("\n")
		}
		if s.Notes != "" {
			fmt.Fprintf(&b, "> %s\n\n", escape(s.Notes))
		}
	}
	return b.String()
}

// HTML converts the Markdown handout into a standalone page.
func HTML(title string, slides []content.SlideRecord) ([]byte, error) {
	var body bytes.Buffer
	if err := goldmark.Convert([]byte(Markdown(title, slides)), &body); err != nil {
		return nil, fmt.Errorf("render handout: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(title))
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// Filename swaps the deck extension for .html.
func Filename(deckFilename string) string {
	return strings.TrimSuffix(deckFilename, ".pptx") + ".html"
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	"#", `\#`,
)

func escape(s string) string {
	return markdownEscaper.Replace(strings.TrimSpace(s))
}
