package content

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"slidewiz/internal/llm"
	"slidewiz/internal/notify"
	"slidewiz/internal/slidetext"
	"slidewiz/pkg/prompts"
)

// FailedBullet is the single bullet of a slide whose generation failed.
const FailedBullet = "(Unable to generate slide)"

var imageKeywordPattern = regexp.MustCompile(`(?im)ImageKeyword\s*:\s*(.+)$`)

type SlideRequest struct {
	DeckTitle           string
	SectionTitle        string
	Audience            Audience
	IncludeImageKeyword bool
}

type SlideContent struct {
	Bullets      []string
	Notes        string
	ImageKeyword string
}

// Failed reports whether c is the placeholder produced on error.
func (c SlideContent) Failed() bool {
	return len(c.Bullets) == 1 && c.Bullets[0] == FailedBullet && c.Notes == "" && c.ImageKeyword == ""
}

// Record turns c into a SlideRecord titled title.
func (c SlideContent) Record(title string) SlideRecord {
	r := SlideRecord{Title: title, Notes: c.Notes, ImageKeyword: c.ImageKeyword}
	r.SetBullets(c.Bullets)
	return r
}

func failedContent() SlideContent {
	return SlideContent{Bullets: []string{FailedBullet}}
}

type SlideGenerator struct {
	llm      llm.Generator
	prompts  *prompts.Prompts
	timeout  time.Duration
	reporter notify.Reporter
}

func NewSlideGenerator(gen llm.Generator, p *prompts.Prompts, timeout time.Duration, reporter notify.Reporter) *SlideGenerator {
	if p == nil {
		p = prompts.Default()
	}
	return &SlideGenerator{
		llm:      gen,
		prompts:  p,
		timeout:  timeout,
		reporter: notify.OrDefault(reporter),
	}
}

// Generate drafts one slide. It never fails: on error it reports a warning
// and returns the placeholder content.
func (g *SlideGenerator) Generate(ctx context.Context, req SlideRequest) SlideContent {
	prompt, err := g.prompts.RenderSlide(prompts.SlideParams{
		DeckTitle:           req.DeckTitle,
		SectionTitle:        req.SectionTitle,
		Audience:            string(req.Audience),
		Tone:                req.Audience.Tone(),
		IncludeImageKeyword: req.IncludeImageKeyword,
	})
	if err != nil {
		g.reporter.Warn("Could not build slide prompt", err)
		return failedContent()
	}

	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	slog.Info("Generating slide", "section", req.SectionTitle)
	text, err := g.llm.Generate(ctx, g.prompts.System.Slide, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = llm.ErrEmptyResponse
	}
	if err != nil {
		g.reporter.Warn(fmt.Sprintf("Slide generation failed for %q", req.SectionTitle), err)
		return failedContent()
	}

	return parseSlide(text)
}

func parseSlide(text string) SlideContent {
	var keyword string
	if m := imageKeywordPattern.FindStringSubmatch(text); m != nil {
		keyword = strings.TrimSpace(m[1])
		text = imageKeywordPattern.ReplaceAllString(text, "")
	}

	bullets, notes := slidetext.Parse(text)
	content := SlideContent{Notes: notes, ImageKeyword: keyword}
	content.Bullets = cleanBullets(bullets)
	return content
}

func cleanBullets(bullets []string) []string {
	out := make([]string, 0, len(bullets))
	for _, b := range bullets {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		out = append(out, b)
		if len(out) == slidetext.MaxBullets {
			break
		}
	}
	return out
}
