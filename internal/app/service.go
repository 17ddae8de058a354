package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"slidewiz/internal/content"
	"slidewiz/internal/deck"
	"slidewiz/internal/handout"
	"slidewiz/internal/imagesearch"
	"slidewiz/internal/notify"
	"slidewiz/internal/storage"
	"slidewiz/internal/wizard"
	"slidewiz/pkg/config"
)

type Service struct {
	cfg       *config.Config
	titles    *content.TitleGenerator
	slides    *content.SlideGenerator
	images    *imagesearch.Resolver
	assembler *deck.Assembler
	storage   *storage.LocalStorage
	remote    *storage.GCSStorage
	reporter  notify.Reporter
}

type ServiceOptions struct {
	Config    *config.Config
	Titles    *content.TitleGenerator
	Slides    *content.SlideGenerator
	Images    *imagesearch.Resolver
	Assembler *deck.Assembler
	Storage   *storage.LocalStorage
	Remote    *storage.GCSStorage
	Reporter  notify.Reporter
}

func NewService(opts ServiceOptions) *Service {
	return &Service{
		cfg:       opts.Config,
		titles:    opts.Titles,
		slides:    opts.Slides,
		images:    opts.Images,
		assembler: opts.Assembler,
		storage:   opts.Storage,
		remote:    opts.Remote,
		reporter:  notify.OrDefault(opts.Reporter),
	}
}

func (s *Service) Config() *config.Config          { return s.cfg }
func (s *Service) Images() *imagesearch.Resolver   { return s.images }
func (s *Service) Storage() *storage.LocalStorage  { return s.storage }
func (s *Service) Remote() *storage.GCSStorage     { return s.remote }
func (s *Service) Titles() *content.TitleGenerator { return s.titles }
func (s *Service) ImagesAvailable() bool           { return s.images.Enabled() }

func (s *Service) DefaultAudience() (content.Audience, error) {
	return content.ParseAudience(s.cfg.Content.Audience)
}

// NewFlow starts a fresh wizard wired to this service.
func (s *Service) NewFlow() *wizard.Flow {
	return wizard.New(s.titles, s.slides, s.images, s.assembler, s.reporter, wizard.Options{
		TitleCount:    s.cfg.Content.TitleCount,
		MaxWords:      s.cfg.Content.MaxWords,
		ImageKeywords: s.cfg.ImageKeywords(),
	})
}

// SaveResult says where a finished deck ended up.
type SaveResult struct {
	Path        string
	HandoutPath string
	RemoteURL   string
}

// Save writes the deck to the output directory. The handout and the bucket
// upload are optional extras; their failures are only warnings.
func (s *Service) Save(ctx context.Context, state wizard.State) (*SaveResult, error) {
	if state.Output == nil {
		return nil, fmt.Errorf("no deck to save")
	}

	path, err := s.storage.SaveDeck(ctx, state.Output.Filename, state.Output.Data)
	if err != nil {
		return nil, err
	}
	slog.Info("Deck saved", "path", path)
	result := &SaveResult{Path: path}

	if s.cfg.Handout.Enabled {
		result.HandoutPath = s.writeHandout(state)
	}

	if s.remote != nil {
		url, err := s.remote.SaveDeck(ctx, state.Output.Filename, state.Output.Data)
		if err != nil {
			s.reporter.Warn("Upload to Cloud Storage failed", err)
		} else {
			slog.Info("Deck uploaded", "url", url)
			result.RemoteURL = url
		}
	}

	return result, nil
}

func (s *Service) writeHandout(state wizard.State) string {
	page, err := handout.HTML(state.Title, state.Slides)
	if err != nil {
		s.reporter.Warn("Handout not written", err)
		return ""
	}

	path := filepath.Join(s.storage.OutputDir(), handout.Filename(state.Output.Filename))
	if err := os.WriteFile(path, page, 0644); err != nil {
		s.reporter.Warn("Handout not written", err)
		return ""
	}
	return path
}

// ListDecks lists saved decks, from the bucket when one is configured.
func (s *Service) ListDecks(ctx context.Context) ([]storage.DeckInfo, error) {
	var store storage.DeckStore = s.storage
	if s.remote != nil {
		store = s.remote
	}
	return store.ListDecks(ctx)
}

func (s *Service) Close() error {
	if s.remote != nil {
		return s.remote.Close()
	}
	return nil
}
