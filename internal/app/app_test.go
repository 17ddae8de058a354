package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"slidewiz/internal/credentials"
	"slidewiz/internal/deck"
	"slidewiz/internal/notify"
	"slidewiz/pkg/config"
	"slidewiz/pkg/prompts"
)

type scriptedGenerator struct {
	titles string
	slide  string
	err    error
}

func (g *scriptedGenerator) Generate(_ context.Context, systemPrompt, _ string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	if systemPrompt == prompts.Default().System.Titles {
		return g.titles, nil
	}
	return g.slide, nil
}

func clearCredentialEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"G_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY", "GROQ_API_KEY", "OPENAI_API_KEY", "PEXELS_API_KEY", "GOOGLE_CLOUD_PROJECT"} {
		t.Setenv(key, "")
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	clearCredentialEnv(t)

	cfg, err := config.LoadFrom(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	dir := t.TempDir()
	cfg.Images.Dir = filepath.Join(dir, "images")
	cfg.Output.Dir = filepath.Join(dir, "output")
	cfg.Content.SlideCount = 3
	return cfg
}

func TestBuildServiceMissingTextKey(t *testing.T) {
	cfg := testConfig(t)

	_, err := BuildService(context.Background(), cfg, BuildOptions{})
	if !errors.Is(err, credentials.ErrMissing) {
		t.Fatalf("BuildService() error = %v, want ErrMissing", err)
	}
}

func TestBuildServicePromptsForKeys(t *testing.T) {
	cfg := testConfig(t)

	var asked []string
	prompt := func(_ context.Context, key string) (string, error) {
		asked = append(asked, key)
		if key == "G_API_KEY" {
			return "typed-key", nil
		}
		return "", nil
	}

	svc, err := BuildService(context.Background(), cfg, BuildOptions{Prompt: prompt, Reporter: &notify.Collector{}})
	if err != nil {
		t.Fatalf("BuildService() error = %v", err)
	}
	defer func() { _ = svc.Close() }()

	if cfg.GeminiAPIKey != "typed-key" {
		t.Errorf("GeminiAPIKey = %q, want typed-key", cfg.GeminiAPIKey)
	}
	if strings.Join(asked, ",") != "G_API_KEY,PEXELS_API_KEY" {
		t.Errorf("asked = %v", asked)
	}
	if svc.ImagesAvailable() {
		t.Error("images enabled without a Pexels key")
	}
}

func TestBuildServiceEnvKeys(t *testing.T) {
	cfg := testConfig(t)
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("PEXELS_API_KEY", "px")

	svc, err := BuildService(context.Background(), cfg, BuildOptions{Reporter: &notify.Collector{}})
	if err != nil {
		t.Fatalf("BuildService() error = %v", err)
	}
	if cfg.GeminiAPIKey != "from-env" || cfg.PexelsAPIKey != "px" {
		t.Errorf("keys = %q, %q", cfg.GeminiAPIKey, cfg.PexelsAPIKey)
	}
	if !svc.ImagesAvailable() {
		t.Error("images disabled with a Pexels key")
	}
}

func TestPipelineGenerate(t *testing.T) {
	cfg := testConfig(t)
	cfg.Handout.Enabled = true

	gen := &scriptedGenerator{
		titles: "1. Solar Futures\n2. Bright Ideas",
		slide:  "- Point one\n- Point two\nA short note.\nImageKeyword: solar farm",
	}
	warnings := &notify.Collector{}
	svc, err := BuildService(context.Background(), cfg, BuildOptions{Generator: gen, Reporter: warnings})
	if err != nil {
		t.Fatalf("BuildService() error = %v", err)
	}

	result, err := NewPipeline(svc).Generate(context.Background(), GenerateRequest{Subject: "Solar power", Images: true})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if result.State.Title != "Solar Futures" {
		t.Errorf("Title = %q, want first generated title", result.State.Title)
	}
	if len(result.State.Slides) != 3 {
		t.Fatalf("slides = %d, want 3", len(result.State.Slides))
	}
	for _, s := range result.State.Slides {
		if s.ImageKeyword != "solar farm" || s.ImageLocalPath != "" {
			t.Errorf("slide %+v: keyword kept, no image expected", s)
		}
	}

	if filepath.Base(result.Save.Path) != "Solar_Futures.pptx" {
		t.Errorf("saved to %s", result.Save.Path)
	}
	summary, err := deck.InspectFile(result.Save.Path)
	if err != nil {
		t.Fatalf("InspectFile() error = %v", err)
	}
	if len(summary.Slides) != 5 {
		t.Errorf("deck has %d slides, want 5", len(summary.Slides))
	}
	if summary.Slides[1].Title != "Introduction to Solar power" {
		t.Errorf("first content slide = %q", summary.Slides[1].Title)
	}

	if _, err := os.Stat(result.Save.HandoutPath); err != nil {
		t.Errorf("handout missing: %v", err)
	}

	decks, err := svc.ListDecks(context.Background())
	if err != nil || len(decks) != 1 {
		t.Errorf("ListDecks() = %v, %v", decks, err)
	}
}

func TestPipelineExplicitSections(t *testing.T) {
	cfg := testConfig(t)
	gen := &scriptedGenerator{slide: "- only"}
	svc, err := BuildService(context.Background(), cfg, BuildOptions{Generator: gen, Reporter: &notify.Collector{}})
	if err != nil {
		t.Fatal(err)
	}

	result, err := NewPipeline(svc).Generate(context.Background(), GenerateRequest{
		Subject:    "Go",
		Title:      "Go in Production",
		SlideCount: 2,
		Sections:   []string{"Why Go", "Tooling", "Dropped"},
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got := result.State.Outline; len(got) != 2 || got[1] != "Tooling" {
		t.Errorf("Outline = %q", got)
	}
	if result.Save.HandoutPath != "" {
		t.Error("handout written while disabled")
	}
}

func TestPipelineNoTitles(t *testing.T) {
	cfg := testConfig(t)
	warnings := &notify.Collector{}
	svc, err := BuildService(context.Background(), cfg, BuildOptions{
		Generator: &scriptedGenerator{err: errors.New("quota exceeded")},
		Reporter:  warnings,
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = NewPipeline(svc).Generate(context.Background(), GenerateRequest{Subject: "x"})
	if !errors.Is(err, ErrNoTitles) {
		t.Errorf("Generate() error = %v, want ErrNoTitles", err)
	}
	if warnings.Len() == 0 {
		t.Error("title failure not reported")
	}
}

func TestServiceSaveWithoutOutput(t *testing.T) {
	cfg := testConfig(t)
	svc, err := BuildService(context.Background(), cfg, BuildOptions{Generator: &scriptedGenerator{}, Reporter: &notify.Collector{}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Save(context.Background(), svc.NewFlow().State()); err == nil {
		t.Error("Save() without a deck succeeded")
	}
}
