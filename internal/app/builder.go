package app

import (
	"context"
	"fmt"

	"google.golang.org/api/option"

	"slidewiz/internal/content"
	"slidewiz/internal/deck"
	"slidewiz/internal/imagesearch"
	"slidewiz/internal/llm"
	"slidewiz/internal/notify"
	"slidewiz/internal/storage"
	"slidewiz/pkg/config"
	"slidewiz/pkg/prompts"
)

type BuildOptions struct {
	Reporter notify.Reporter
	Prompt   PromptFunc
	// Generator replaces the configured text provider when set.
	Generator llm.Generator
}

func BuildService(ctx context.Context, cfg *config.Config, opts BuildOptions) (*Service, error) {
	p, err := prompts.Load()
	if err != nil {
		return nil, err
	}

	if err := resolveCredentials(ctx, cfg, opts.Prompt, opts.Generator == nil); err != nil {
		return nil, err
	}

	reporter := notify.OrDefault(opts.Reporter)

	generator := opts.Generator
	if generator == nil {
		generator, err = llm.New(ctx, llm.Settings{
			Provider: cfg.LLM.Provider,
			APIKey:   cfg.TextAPIKey(),
			Model:    cfg.LLM.Model,
			BaseURL:  cfg.LLM.BaseURL,
		})
		if err != nil {
			return nil, err
		}
	}

	localStorage := storage.NewLocalStorage(cfg.Images.Dir, cfg.Output.Dir)
	if err := localStorage.EnsureDirectories(); err != nil {
		return nil, err
	}

	var searcher imagesearch.Searcher
	if cfg.PexelsAPIKey != "" {
		searcher = imagesearch.NewClient(cfg.PexelsAPIKey,
			imagesearch.WithBaseURL(cfg.Images.SearchURL),
			imagesearch.WithTimeouts(cfg.Images.SearchTimeout, cfg.Images.FetchTimeout),
			imagesearch.WithMaxBytes(cfg.Images.MaxBytes),
		)
	}

	var remote *storage.GCSStorage
	if cfg.GCS.Enabled {
		remote, err = newGCSStorage(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	return NewService(ServiceOptions{
		Config:    cfg,
		Titles:    content.NewTitleGenerator(generator, p, cfg.LLM.Timeout, reporter),
		Slides:    content.NewSlideGenerator(generator, p, cfg.LLM.Timeout, reporter),
		Images:    imagesearch.NewResolver(searcher, localStorage, reporter),
		Assembler: deck.NewAssembler(cfg.Content.Subtitle, reporter),
		Storage:   localStorage,
		Remote:    remote,
		Reporter:  reporter,
	}), nil
}

func newGCSStorage(ctx context.Context, cfg *config.Config) (*storage.GCSStorage, error) {
	var opts []option.ClientOption
	credsOpt, err := storage.CredentialsOption(ctx, cfg.GCS.CredentialsFile)
	if err != nil {
		return nil, err
	}
	if credsOpt != nil {
		opts = append(opts, credsOpt)
	}

	gcs, err := storage.NewGCSStorage(ctx, cfg.GCS.Bucket, cfg.GCS.Prefix, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs: %w", err)
	}
	return gcs, nil
}

// BuildRemote opens only the configured deck bucket, for commands that do
// not generate anything.
func BuildRemote(ctx context.Context, cfg *config.Config) (*storage.GCSStorage, error) {
	if !cfg.GCS.Enabled {
		return nil, nil
	}
	return newGCSStorage(ctx, cfg)
}
