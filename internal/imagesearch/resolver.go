package imagesearch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"slidewiz/internal/notify"
	"slidewiz/pkg/httputil"
)

const maxKeywordSlug = 40

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
	DownloadImage(ctx context.Context, imageURL string) ([]byte, error)
}

// ImageWriter persists downloaded bytes and returns the file path.
type ImageWriter interface {
	SaveImage(data []byte, filename string) (string, error)
}

// Resolver turns an image keyword into a local image file. It never returns
// an error; every failure is reported and yields no image.
type Resolver struct {
	searcher Searcher
	writer   ImageWriter
	reporter notify.Reporter
}

// NewResolver returns a Resolver. A nil searcher disables image lookup.
func NewResolver(searcher Searcher, writer ImageWriter, reporter notify.Reporter) *Resolver {
	return &Resolver{
		searcher: searcher,
		writer:   writer,
		reporter: notify.OrDefault(reporter),
	}
}

// Enabled reports whether a search credential was configured.
func (r *Resolver) Enabled() bool {
	return r != nil && r.searcher != nil && r.writer != nil
}

func (r *Resolver) Resolve(ctx context.Context, keyword string) (string, bool) {
	keyword = strings.TrimSpace(keyword)
	if !r.Enabled() || keyword == "" {
		return "", false
	}

	imageURL, err := r.searcher.Search(ctx, keyword)
	switch {
	case errors.Is(err, ErrNoResults):
		slog.Info("No image found", "keyword", keyword)
		return "", false
	case httputil.IsAuthOrRateLimit(err):
		r.reporter.Warn("Image search authorization or rate limit problem", err)
		return "", false
	case err != nil:
		r.reporter.Warn(fmt.Sprintf("Image search failed for %q", keyword), err)
		return "", false
	}

	data, err := r.searcher.DownloadImage(ctx, imageURL)
	if err != nil {
		r.reporter.Warn(fmt.Sprintf("Image download failed for %q", keyword), err)
		return "", false
	}

	path, err := r.writer.SaveImage(data, FileName(keyword, data))
	if err != nil {
		r.reporter.Warn("Could not save image", err)
		return "", false
	}

	slog.Debug("Image saved", "keyword", keyword, "path", path)
	return path, true
}

// FileName builds a unique file name for an image found for keyword. The
// extension follows the detected content type.
func FileName(keyword string, data []byte) string {
	slug := nonAlphanumeric.ReplaceAllString(strings.ToLower(keyword), "_")
	if len(slug) > maxKeywordSlug {
		slug = slug[:maxKeywordSlug]
	}

	ext := ".jpg"
	if m := mimetype.Detect(data); strings.HasPrefix(m.String(), "image/") && m.Extension() != "" {
		ext = m.Extension()
	}

	return fmt.Sprintf("pexels_%s_%s%s", slug, uuid.NewString(), ext)
}
