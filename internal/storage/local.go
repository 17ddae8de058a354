package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var _ DeckStore = (*LocalStorage)(nil)

type LocalStorage struct {
	imageDir  string
	outputDir string
}

func NewLocalStorage(imageDir, outputDir string) *LocalStorage {
	return &LocalStorage{
		imageDir:  imageDir,
		outputDir: outputDir,
	}
}

func (s *LocalStorage) ImageDir() string  { return s.imageDir }
func (s *LocalStorage) OutputDir() string { return s.outputDir }

// SaveImage writes a downloaded image under the image directory.
func (s *LocalStorage) SaveImage(data []byte, filename string) (string, error) {
	if err := os.MkdirAll(s.imageDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}

	path := filepath.Join(s.imageDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return path, nil
}

// SaveDeck writes the deck through a temp file and a rename so a failed write
// never leaves a truncated .pptx behind.
func (s *LocalStorage) SaveDeck(_ context.Context, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(s.outputDir, filename)
	tmp, err := os.CreateTemp(s.outputDir, "."+filename+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write deck: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write deck: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("failed to move deck into place: %w", err)
	}

	return path, nil
}

// ListDecks returns the .pptx files in the output directory, newest first.
func (s *LocalStorage) ListDecks(_ context.Context) ([]DeckInfo, error) {
	entries, err := os.ReadDir(s.outputDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	var decks []DeckInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pptx") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		decks = append(decks, DeckInfo{
			Name:     entry.Name(),
			Location: filepath.Join(s.outputDir, entry.Name()),
			Size:     info.Size(),
			Updated:  info.ModTime(),
		})
	}

	sort.Slice(decks, func(i, j int) bool {
		return decks[i].Updated.After(decks[j].Updated)
	})
	return decks, nil
}

func (s *LocalStorage) EnsureDirectories() error {
	if err := os.MkdirAll(s.imageDir, 0755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}

	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	return nil
}
