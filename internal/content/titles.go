package content

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"slidewiz/internal/llm"
	"slidewiz/internal/notify"
	"slidewiz/pkg/prompts"
)

var listMarkerPattern = regexp.MustCompile(`^[-\d.)\s]+`)

type TitleGenerator struct {
	llm      llm.Generator
	prompts  *prompts.Prompts
	timeout  time.Duration
	reporter notify.Reporter
}

func NewTitleGenerator(gen llm.Generator, p *prompts.Prompts, timeout time.Duration, reporter notify.Reporter) *TitleGenerator {
	if p == nil {
		p = prompts.Default()
	}
	return &TitleGenerator{
		llm:      gen,
		prompts:  p,
		timeout:  timeout,
		reporter: notify.OrDefault(reporter),
	}
}

// Generate asks for count candidate titles for subject. Failures are reported
// and yield an empty slice so the caller can offer a retry.
func (g *TitleGenerator) Generate(ctx context.Context, subject string, count int) []string {
	if count <= 0 {
		return nil
	}

	prompt, err := g.prompts.RenderTitles(prompts.TitlesParams{Subject: subject, Count: count})
	if err != nil {
		g.reporter.Warn("Could not build title prompt", err)
		return nil
	}

	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	slog.Debug("Generating titles", "subject", subject, "count", count)
	text, err := g.llm.Generate(ctx, g.prompts.System.Titles, prompt)
	if err != nil {
		g.reporter.Warn("Title generation failed", err)
		return nil
	}

	return parseTitles(text, count)
}

func parseTitles(text string, count int) []string {
	var titles []string
	for _, line := range strings.Split(text, "\n") {
		title := strings.TrimSpace(listMarkerPattern.ReplaceAllString(strings.TrimSpace(line), ""))
		if title == "" {
			continue
		}
		titles = append(titles, title)
		if len(titles) == count {
			break
		}
	}
	return titles
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
