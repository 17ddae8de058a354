package credentials

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

type accessFunc func(ctx context.Context, name string) ([]byte, error)

// SecretManagerSource reads the latest version of a secret per key. Keys
// without an explicit mapping use the key lowercased with "_" turned into "-".
type SecretManagerSource struct {
	project string
	names   map[string]string
	access  accessFunc
	close   func() error
}

func NewSecretManagerSource(ctx context.Context, project string, names map[string]string, opts ...option.ClientOption) (*SecretManagerSource, error) {
	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create secret manager client: %w", err)
	}

	access := func(ctx context.Context, name string) ([]byte, error) {
		resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
		if err != nil {
			return nil, err
		}
		return resp.GetPayload().GetData(), nil
	}

	return &SecretManagerSource{
		project: project,
		names:   names,
		access:  access,
		close:   client.Close,
	}, nil
}

func (s *SecretManagerSource) Name() string { return "secret-manager" }

func (s *SecretManagerSource) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func (s *SecretManagerSource) SecretName(key string) string {
	secret := s.names[key]
	if secret == "" {
		secret = strings.ReplaceAll(strings.ToLower(key), "_", "-")
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", s.project, secret)
}

func (s *SecretManagerSource) Lookup(ctx context.Context, key string) (string, error) {
	if s.project == "" {
		return "", ErrMissing
	}
	data, err := s.access(ctx, s.SecretName(key))
	if err != nil {
		return "", fmt.Errorf("access secret: %w", err)
	}
	if v := strings.TrimSpace(string(data)); v != "" {
		return v, nil
	}
	return "", ErrMissing
}
