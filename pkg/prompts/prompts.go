package prompts

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

const defaultPromptsPath = "prompts.yaml"

//go:embed prompts.yaml
var defaultPrompts []byte

type Prompts struct {
	System SystemPrompts `yaml:"system"`
	Titles TitlePrompts  `yaml:"titles"`
	Slide  SlidePrompts  `yaml:"slide"`
}

type SystemPrompts struct {
	Titles string `yaml:"titles"`
	Slide  string `yaml:"slide"`
}

type TitlePrompts struct {
	Generate string `yaml:"generate"`
}

type SlidePrompts struct {
	Generate string `yaml:"generate"`
}

type TitlesParams struct {
	Subject string
	Count   int
}

type SlideParams struct {
	DeckTitle           string
	SectionTitle        string
	Audience            string
	Tone                string
	IncludeImageKeyword bool
}

// Default returns the prompts compiled into the binary.
func Default() *Prompts {
	var p Prompts
	if err := yaml.Unmarshal(defaultPrompts, &p); err != nil {
		panic(fmt.Sprintf("embedded prompts.yaml is invalid: %v", err))
	}
	return &p
}

// Load reads prompts.yaml from the working directory, falling back to the
// embedded defaults when the file does not exist.
func Load() (*Prompts, error) {
	p, err := LoadFrom(defaultPromptsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return p, err
}

// LoadFrom reads prompts from path. Keys missing from the file keep their
// embedded default.
func LoadFrom(path string) (*Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	p := Default()
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file: %w", err)
	}

	return p, nil
}

func (p *Prompts) RenderTitles(params TitlesParams) (string, error) {
	return render(p.Titles.Generate, params)
}

func (p *Prompts) RenderSlide(params SlideParams) (string, error) {
	return render(p.Slide.Generate, params)
}

func render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
