package wizard

import (
	"fmt"
	"strings"
)

// DefaultOutline proposes section titles for subject, at most count of them.
func DefaultOutline(subject string, count int) []string {
	subject = strings.TrimSpace(subject)
	sections := []string{
		fmt.Sprintf("Introduction to %s", subject),
		fmt.Sprintf("Importance of %s", subject),
		fmt.Sprintf("Key technologies in %s", subject),
		"Case studies",
		"Conclusion & Recommendations",
	}
	if count < len(sections) && count >= 0 {
		sections = sections[:count]
	}
	return sections
}

// finalSections trims the edited outline, appends extra and keeps the first
// limit non-empty sections.
func finalSections(outline []string, extra string, limit int) []string {
	all := append(append([]string(nil), outline...), extra)

	var out []string
	for _, s := range all {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
