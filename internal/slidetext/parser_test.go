package slidetext

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantBullets []string
		wantNotes   string
	}{
		{
			name:        "dashBullets",
			input:       "- First point\n- Second point\nA short note.",
			wantBullets: []string{"First point", "Second point"},
			wantNotes:   "A short note.",
		},
		{
			name:        "mixedMarkers",
			input:       "1. Numbered\n• Glyph\n-NoSpace\nNote one\nNote two",
			wantBullets: []string{"Numbered", "Glyph", "NoSpace"},
			wantNotes:   "Note one Note two",
		},
		{
			name:        "notesBetweenBullets",
			input:       "Intro line\n- Alpha\nMiddle\n- Beta",
			wantBullets: []string{"Alpha", "Beta"},
			wantNotes:   "Intro line Middle",
		},
		{
			name:        "fallbackFirstFour",
			input:       "one\ntwo\nthree\nfour\nfive\nsix",
			wantBullets: []string{"one", "two", "three", "four"},
			wantNotes:   "five six",
		},
		{
			name:        "fallbackFewLines",
			input:       "only\ntwo",
			wantBullets: []string{"only", "two"},
			wantNotes:   "",
		},
		{
			name:        "whitespaceAndBlankLines",
			input:       "\n   - Padded   \n\n\t\n  trailing note  \n",
			wantBullets: []string{"Padded"},
			wantNotes:   "trailing note",
		},
		{
			name:        "crlf",
			input:       "- One\r\n- Two\r\nNote\r\n",
			wantBullets: []string{"One", "Two"},
			wantNotes:   "Note",
		},
		{
			name:        "empty",
			input:       "",
			wantBullets: nil,
			wantNotes:   "",
		},
		{
			name:        "multiDigitNumbering",
			input:       "10. Tenth\n11. Eleventh",
			wantBullets: []string{"Tenth", "Eleventh"},
			wantNotes:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bullets, notes := Parse(tt.input)
			if !reflect.DeepEqual(bullets, tt.wantBullets) {
				t.Errorf("Parse() bullets = %q, want %q", bullets, tt.wantBullets)
			}
			if notes != tt.wantNotes {
				t.Errorf("Parse() notes = %q, want %q", notes, tt.wantNotes)
			}
		})
	}
}

func TestParseCapsBullets(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 20; i++ {
		fmt.Fprintf(&b, "- bullet %d\n", i)
	}

	bullets, _ := Parse(b.String())
	if len(bullets) != MaxBullets {
		t.Fatalf("Parse() returned %d bullets, want %d", len(bullets), MaxBullets)
	}
	if bullets[0] != "bullet 1" || bullets[5] != "bullet 6" {
		t.Errorf("Parse() kept wrong bullets: %q", bullets)
	}
}

func TestParseKeepsOrder(t *testing.T) {
	bullets, notes := Parse("- c\nx\n- a\ny\n- b")
	if !reflect.DeepEqual(bullets, []string{"c", "a", "b"}) {
		t.Errorf("bullets = %q, want original order", bullets)
	}
	if notes != "x y" {
		t.Errorf("notes = %q, want %q", notes, "x y")
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		name    string
		bullets []string
		want    int
	}{
		{name: "nil", bullets: nil, want: 0},
		{name: "single", bullets: []string{"one two three"}, want: 3},
		{name: "several", bullets: []string{"a b", "  c  ", "d\te"}, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WordCount(tt.bullets); got != tt.want {
				t.Errorf("WordCount() = %d, want %d", got, tt.want)
			}
		})
	}
}
