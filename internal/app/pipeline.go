package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"slidewiz/internal/content"
	"slidewiz/internal/wizard"
)

// GenerateRequest drives the wizard without a user. Empty fields fall back
// to config and to the first generated title.
type GenerateRequest struct {
	Subject    string
	Title      string
	Audience   content.Audience
	SlideCount int
	Images     bool
	Sections   []string
}

type GenerateResult struct {
	State wizard.State
	Save  *SaveResult
}

var ErrNoTitles = errors.New("no titles generated")

type Pipeline struct {
	service *Service
}

func NewPipeline(service *Service) *Pipeline {
	return &Pipeline{service: service}
}

func (pipeline *Pipeline) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	cfg := pipeline.service.Config()
	flow := pipeline.service.NewFlow()

	if req.SlideCount == 0 {
		req.SlideCount = cfg.Content.SlideCount
	}
	if req.Audience == "" {
		audience, err := pipeline.service.DefaultAudience()
		if err != nil {
			return nil, err
		}
		req.Audience = audience
	}

	slog.Info("Generating titles...", "subject", req.Subject)
	titles, err := flow.SubmitTopic(ctx, wizard.Topic{
		Subject:       req.Subject,
		Audience:      req.Audience,
		SlideCount:    req.SlideCount,
		IncludeImages: req.Images,
	})
	if err != nil {
		return nil, err
	}

	title := req.Title
	if title == "" {
		if len(titles) == 0 {
			return nil, ErrNoTitles
		}
		title = titles[0]
	}
	if err := flow.ChooseTitle(title); err != nil {
		return nil, err
	}

	sections := req.Sections
	if len(sections) == 0 {
		sections = flow.State().Outline
	}

	slog.Info("Generating slides...", "title", title, "sections", len(sections))
	if err := flow.ConfirmOutline(ctx, sections, ""); err != nil {
		return nil, err
	}

	for _, i := range flow.WordySlides() {
		slog.Warn("Slide is wordy", "slide", i+1, "limit", flow.MaxWords())
	}

	slog.Info("Assembling deck...")
	if _, err := flow.Finalize(); err != nil {
		return nil, err
	}

	state := flow.State()
	saved, err := pipeline.service.Save(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("save deck: %w", err)
	}

	return &GenerateResult{State: state, Save: saved}, nil
}
