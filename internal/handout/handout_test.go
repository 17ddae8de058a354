package handout

import (
	"strings"
	"testing"

	"slidewiz/internal/content"
)

func testSlides() []content.SlideRecord {
	return []content.SlideRecord{
		{Title: "Introduction", Bullets: []string{"First *point*", "Second"}, Notes: "Start slowly."},
		{Title: "Case_studies", Bullets: nil},
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown("Solar & Wind", testSlides())

	for _, want := range []string{
		"# Solar & Wind\n",
		"## 1. Introduction\n",
		"- First \\*point\\*\n",
		"> Start slowly.\n",
		"## 2. Case\\_studies\n",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown() missing %q:\n%s", want, md)
		}
	}
}

func TestHTML(t *testing.T) {
	page, err := HTML("Solar <Wind>", testSlides())
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	s := string(page)

	for _, want := range []string{
		"<title>Solar &lt;Wind&gt;</title>",
		"<h2>1. Introduction</h2>",
		"<li>First *point*</li>",
		"<blockquote>",
		"Case_studies",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("HTML() missing %q:\n%s", want, s)
		}
	}
	if strings.Contains(s, "<Wind>") {
		t.Error("HTML() contains unescaped title")
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("Solar_Energy.pptx"); got != "Solar_Energy.html" {
		t.Errorf("Filename() = %q", got)
	}
}
