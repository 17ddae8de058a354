package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantErr    bool
	}{
		{name: "ok", statusCode: http.StatusOK, wantErr: false},
		{name: "noContent", statusCode: http.StatusNoContent, wantErr: false},
		{name: "unauthorized", statusCode: http.StatusUnauthorized, body: "bad key", wantErr: true},
		{name: "serverError", statusCode: http.StatusInternalServerError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			resp, err := server.Client().Get(server.URL)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer resp.Body.Close()

			err = CheckStatus(resp)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckStatus() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}

			var statusErr *StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("CheckStatus() error type = %T, want *StatusError", err)
			}
			if statusErr.StatusCode != tt.statusCode {
				t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, tt.statusCode)
			}
			if !strings.Contains(err.Error(), tt.body) {
				t.Errorf("error %q does not contain body %q", err.Error(), tt.body)
			}
		})
	}
}

func TestIsAuthOrRateLimit(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
		{name: "unauthorized", err: &StatusError{StatusCode: 401}, want: true},
		{name: "forbidden", err: &StatusError{StatusCode: 403}, want: true},
		{name: "tooManyRequests", err: &StatusError{StatusCode: 429}, want: true},
		{name: "wrapped", err: fmt.Errorf("search: %w", &StatusError{StatusCode: 429}), want: true},
		{name: "notFound", err: &StatusError{StatusCode: 404}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAuthOrRateLimit(tt.err); got != tt.want {
				t.Errorf("IsAuthOrRateLimit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadLimited(t *testing.T) {
	data, err := ReadLimited(strings.NewReader("hello"), 5)
	if err != nil {
		t.Fatalf("ReadLimited() error = %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("ReadLimited() = %q, want hello", data)
	}

	if _, err := ReadLimited(strings.NewReader("hello!"), 5); err == nil {
		t.Error("ReadLimited() should fail when body exceeds limit")
	}
}

func TestNewClientTimeout(t *testing.T) {
	if got := NewClient(0).Timeout; got != defaultTimeout {
		t.Errorf("NewClient(0).Timeout = %v, want %v", got, defaultTimeout)
	}
	if got := NewClient(3 * time.Second).Timeout; got != 3*time.Second {
		t.Errorf("NewClient(3s).Timeout = %v, want 3s", got)
	}
}

func TestIsTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(20 * time.Millisecond)
	_, err := client.Get(server.URL)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !IsTimeout(err) {
		t.Errorf("IsTimeout(%v) = false, want true", err)
	}
	if IsTimeout(errors.New("other")) {
		t.Error("IsTimeout() = true for non-network error")
	}
}
