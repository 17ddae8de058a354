package content

import (
	"fmt"
	"strings"
)

type Audience string

const (
	AudienceExecutive   Audience = "Executive"
	AudienceTechnical   Audience = "Technical"
	AudienceMarketing   Audience = "Marketing"
	AudienceEducational Audience = "Educational"
)

var audienceTones = map[Audience]string{
	AudienceExecutive:   "focus on outcomes, costs and decisions; avoid jargon",
	AudienceTechnical:   "be precise about mechanisms, architecture and trade-offs",
	AudienceMarketing:   "emphasise benefits, customer value and a clear call to action",
	AudienceEducational: "explain concepts step by step with simple examples",
}

// Audiences lists the presets in display order.
func Audiences() []Audience {
	return []Audience{AudienceExecutive, AudienceTechnical, AudienceMarketing, AudienceEducational}
}

// Tone returns the guidance passed into the slide prompt.
func (a Audience) Tone() string {
	return audienceTones[a]
}

// ParseAudience matches a preset name case-insensitively.
func ParseAudience(s string) (Audience, error) {
	for _, a := range Audiences() {
		if strings.EqualFold(strings.TrimSpace(s), string(a)) {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown audience %q", s)
}
