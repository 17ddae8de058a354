package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const pptxContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

var _ DeckStore = (*GCSStorage)(nil)

// GCSStorage keeps finished decks under a prefix of a Cloud Storage bucket.
type GCSStorage struct {
	client *storage.Client
	bucket string
	prefix string
}

func NewGCSStorage(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (*GCSStorage, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSStorage{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

// CredentialsOption loads a service-account key file. An empty path returns
// nil so the client falls back to application default credentials.
func CredentialsOption(ctx context.Context, credentialsFile string) (option.ClientOption, error) {
	if credentialsFile == "" {
		return nil, nil
	}

	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, storage.ScopeReadWrite)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	return option.WithCredentials(creds), nil
}

func (s *GCSStorage) Close() error {
	return s.client.Close()
}

func (s *GCSStorage) objectName(filename string) string {
	if s.prefix == "" {
		return filename
	}
	return path.Join(s.prefix, filename)
}

func (s *GCSStorage) SaveDeck(ctx context.Context, filename string, data []byte) (string, error) {
	name := s.objectName(filename)

	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	w.ContentType = pptxContentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to upload deck: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to upload deck: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", s.bucket, name), nil
}

func (s *GCSStorage) ListDecks(ctx context.Context) ([]DeckInfo, error) {
	query := &storage.Query{}
	if s.prefix != "" {
		query.Prefix = s.prefix + "/"
	}

	var decks []DeckInfo
	it := s.client.Bucket(s.bucket).Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		if !strings.EqualFold(path.Ext(attrs.Name), ".pptx") {
			continue
		}
		decks = append(decks, DeckInfo{
			Name:     path.Base(attrs.Name),
			Location: fmt.Sprintf("gs://%s/%s", s.bucket, attrs.Name),
			Size:     attrs.Size,
			Updated:  attrs.Updated,
		})
	}

	sort.Slice(decks, func(i, j int) bool {
		return decks[i].Updated.After(decks[j].Updated)
	})
	return decks, nil
}
