package credentials

import (
	"context"
	"errors"
	"testing"
)

type recordingSource struct {
	name   string
	values map[string]string
	err    error
	calls  int
}

func (s *recordingSource) Name() string { return s.name }

func (s *recordingSource) Lookup(_ context.Context, key string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	return "", ErrMissing
}

func TestResolverOrder(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		secret    map[string]string
		secretErr error
		prompt    map[string]string
		want      string
		wantErr   bool
		wantAsked bool
	}{
		{name: "envWins", env: map[string]string{"K": "from-env"}, secret: map[string]string{"K": "from-secret"}, want: "from-env"},
		{name: "secretNext", secret: map[string]string{"K": "from-secret"}, prompt: map[string]string{"K": "typed"}, want: "from-secret"},
		{name: "promptLast", prompt: map[string]string{"K": "typed"}, want: "typed", wantAsked: true},
		{name: "secretErrorSkipped", secretErr: errors.New("permission denied"), prompt: map[string]string{"K": "typed"}, want: "typed", wantAsked: true},
		{name: "blankIgnored", env: map[string]string{"K": "   "}, prompt: map[string]string{"K": "typed"}, want: "typed", wantAsked: true},
		{name: "missing", wantErr: true, wantAsked: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := &recordingSource{name: "env", values: tt.env}
			secret := &recordingSource{name: "secret", values: tt.secret, err: tt.secretErr}
			prompt := &recordingSource{name: "prompt", values: tt.prompt}

			got, err := NewResolver(env, nil, secret, prompt).Resolve(context.Background(), "K")
			if tt.wantErr {
				if !errors.Is(err, ErrMissing) {
					t.Fatalf("Resolve() error = %v, want ErrMissing", err)
				}
			} else if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
			if (prompt.calls > 0) != tt.wantAsked {
				t.Errorf("prompt asked = %v, want %v", prompt.calls > 0, tt.wantAsked)
			}
		})
	}
}

func TestEnvSource(t *testing.T) {
	t.Setenv("G_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "gem-key")

	s := NewEnvSource(map[string][]string{"G_API_KEY": {"GEMINI_API_KEY", "GOOGLE_API_KEY"}})
	got, err := s.Lookup(context.Background(), "G_API_KEY")
	if err != nil || got != "gem-key" {
		t.Errorf("Lookup() = %q, %v, want alias value", got, err)
	}

	if _, err := s.Lookup(context.Background(), "SLIDEWIZ_UNSET_KEY"); !errors.Is(err, ErrMissing) {
		t.Errorf("Lookup(unset) error = %v, want ErrMissing", err)
	}
}

func TestPromptSource(t *testing.T) {
	var asked string
	s := &PromptSource{Ask: func(_ context.Context, key string) (string, error) {
		asked = key
		return "", nil
	}}

	if _, err := s.Lookup(context.Background(), "PEXELS_API_KEY"); !errors.Is(err, ErrMissing) {
		t.Errorf("empty answer error = %v, want ErrMissing", err)
	}
	if asked != "PEXELS_API_KEY" {
		t.Errorf("asked for %q", asked)
	}

	if _, err := (&PromptSource{}).Lookup(context.Background(), "X"); !errors.Is(err, ErrMissing) {
		t.Errorf("nil Ask error = %v", err)
	}
}

func TestSecretManagerSource(t *testing.T) {
	var requested []string
	s := &SecretManagerSource{
		project: "my-proj",
		names:   map[string]string{"PEXELS_API_KEY": "pexels"},
		access: func(_ context.Context, name string) ([]byte, error) {
			requested = append(requested, name)
			if name == "projects/my-proj/secrets/pexels/versions/latest" {
				return []byte("px-secret\n"), nil
			}
			return nil, errors.New("not found")
		},
	}

	got, err := s.Lookup(context.Background(), "PEXELS_API_KEY")
	if err != nil || got != "px-secret" {
		t.Errorf("Lookup() = %q, %v", got, err)
	}

	if _, err := s.Lookup(context.Background(), "G_API_KEY"); err == nil {
		t.Error("Lookup() of unknown secret succeeded")
	}
	if requested[1] != "projects/my-proj/secrets/g-api-key/versions/latest" {
		t.Errorf("default secret name = %q", requested[1])
	}

	noProject := &SecretManagerSource{access: s.access}
	if _, err := noProject.Lookup(context.Background(), "PEXELS_API_KEY"); !errors.Is(err, ErrMissing) {
		t.Errorf("no project error = %v, want ErrMissing", err)
	}
	if err := noProject.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}
