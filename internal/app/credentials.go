package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"slidewiz/internal/credentials"
	"slidewiz/pkg/config"
)

const pexelsKeyEnv = "PEXELS_API_KEY"

var envAliases = map[string][]string{
	"G_API_KEY": {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
}

// PromptFunc asks the user for a credential. It is nil when running
// non-interactively.
type PromptFunc func(ctx context.Context, key string) (string, error)

// resolveCredentials fills missing keys in cfg from Secret Manager and the
// prompt. The text key is required unless requireText is false; a missing
// image key only disables images.
func resolveCredentials(ctx context.Context, cfg *config.Config, prompt PromptFunc, requireText bool) error {
	sources := []credentials.Source{credentials.NewEnvSource(envAliases)}

	if cfg.Secrets.Project != "" {
		sm, err := credentials.NewSecretManagerSource(ctx, cfg.Secrets.Project, cfg.Secrets.Names)
		if err != nil {
			slog.Warn("Secret Manager unavailable", "error", err)
		} else {
			defer func() { _ = sm.Close() }()
			sources = append(sources, sm)
		}
	}
	if prompt != nil {
		sources = append(sources, &credentials.PromptSource{Ask: prompt})
	}
	resolver := credentials.NewResolver(sources...)

	if cfg.TextAPIKey() == "" {
		key, err := resolver.Resolve(ctx, cfg.TextAPIKeyEnv())
		switch {
		case err == nil:
			cfg.SetTextAPIKey(key)
		case requireText:
			return fmt.Errorf("%s provider: %w", cfg.LLM.Provider, err)
		}
	}

	if cfg.PexelsAPIKey == "" {
		key, err := resolver.Resolve(ctx, pexelsKeyEnv)
		if err != nil && !errors.Is(err, credentials.ErrMissing) {
			return err
		}
		cfg.PexelsAPIKey = key
		if key == "" {
			slog.Info("No Pexels API key, images disabled")
		}
	}

	return nil
}
