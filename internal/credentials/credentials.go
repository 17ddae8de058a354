// Package credentials looks up API keys from an ordered list of sources:
// the environment, GCP Secret Manager, and finally the user.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

var ErrMissing = errors.New("credential missing")

type Source interface {
	Name() string
	Lookup(ctx context.Context, key string) (string, error)
}

type Resolver struct {
	sources []Source
}

func NewResolver(sources ...Source) *Resolver {
	var kept []Source
	for _, s := range sources {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &Resolver{sources: kept}
}

// Resolve returns the first non-empty value for key. A source that fails for
// another reason than a missing value is logged and skipped.
func (r *Resolver) Resolve(ctx context.Context, key string) (string, error) {
	for _, s := range r.sources {
		value, err := s.Lookup(ctx, key)
		if err != nil {
			if !errors.Is(err, ErrMissing) {
				slog.Warn("Credential source failed", "source", s.Name(), "key", key, "error", err)
			}
			continue
		}
		if value = strings.TrimSpace(value); value != "" {
			slog.Debug("Credential resolved", "source", s.Name(), "key", key)
			return value, nil
		}
	}
	return "", fmt.Errorf("%s: %w", key, ErrMissing)
}

// EnvSource reads environment variables. Aliases lists extra variable names
// tried for a key.
type EnvSource struct {
	Aliases map[string][]string
	lookup  func(string) (string, bool)
}

func NewEnvSource(aliases map[string][]string) *EnvSource {
	return &EnvSource{Aliases: aliases, lookup: os.LookupEnv}
}

func (s *EnvSource) Name() string { return "env" }

func (s *EnvSource) Lookup(_ context.Context, key string) (string, error) {
	lookup := s.lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, name := range append([]string{key}, s.Aliases[key]...) {
		if v, ok := lookup(name); ok && strings.TrimSpace(v) != "" {
			return v, nil
		}
	}
	return "", ErrMissing
}

// PromptSource asks the user. An empty answer counts as missing.
type PromptSource struct {
	Ask func(ctx context.Context, key string) (string, error)
}

func (s *PromptSource) Name() string { return "prompt" }

func (s *PromptSource) Lookup(ctx context.Context, key string) (string, error) {
	if s.Ask == nil {
		return "", ErrMissing
	}
	v, err := s.Ask(ctx, key)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(v) == "" {
		return "", ErrMissing
	}
	return v, nil
}
