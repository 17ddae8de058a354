package slidetext

import (
	"regexp"
	"strings"
)

const (
	MaxBullets      = 6
	fallbackBullets = 4
)

var bulletPattern = regexp.MustCompile(`^(-|•|\d+\.)\s*`)

// Parse splits generated slide text into bullets and speaker notes.
//
// Lines starting with "-", "•" or "<digits>." become bullets with the marker
// removed; every other non-empty line is a note. Text without any marked line
// falls back to its first four lines as bullets.
func Parse(text string) ([]string, string) {
	lines := nonEmptyLines(text)

	var bullets, notes []string
	for _, line := range lines {
		if bulletPattern.MatchString(line) {
			bullets = append(bullets, strings.TrimSpace(bulletPattern.ReplaceAllString(line, "")))
			continue
		}
		notes = append(notes, line)
	}

	if len(bullets) == 0 && len(lines) > 0 {
		n := min(fallbackBullets, len(lines))
		bullets = append([]string(nil), lines[:n]...)
		notes = lines[n:]
	}

	if len(bullets) > MaxBullets {
		bullets = bullets[:MaxBullets]
	}

	return bullets, strings.TrimSpace(strings.Join(notes, " "))
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// WordCount counts whitespace-separated words across all bullets.
func WordCount(bullets []string) int {
	return len(strings.Fields(strings.Join(bullets, " ")))
}
