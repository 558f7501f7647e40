package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	tokens := &MemoryTokenStore{}
	tokens.SetToken("abc123")
	c := NewClient(ts.URL, tokens)

	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.Get(context.Background(), "/api/accounts", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotAuth != "Bearer abc123" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
	if !out.OK {
		t.Fatal("response not decoded")
	}
}

func TestRequestErrorUsesServerMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	}))
	defer ts.Close()

	var notified atomic.Int32
	c := NewClient(ts.URL, &MemoryTokenStore{}, WithNotifier(func(error) {
		notified.Add(1)
	}))

	err := c.Get(context.Background(), "/api/accounts/99", nil)
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("err = %T %v, want *RequestError", err, err)
	}
	if reqErr.StatusCode != http.StatusNotFound || reqErr.Message != "not found" {
		t.Fatalf("request error = %+v", reqErr)
	}
	if notified.Load() != 1 {
		t.Fatalf("notifier invoked %d times, want 1", notified.Load())
	}
}

func TestRequestErrorFallsBackToStatusText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream broke"))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, &MemoryTokenStore{})
	err := c.Get(context.Background(), "/", nil)

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("err = %T, want *RequestError", err)
	}
	if reqErr.Message != http.StatusText(http.StatusBadGateway) {
		t.Fatalf("message = %q", reqErr.Message)
	}
}

func TestNoContentSkipsDecode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, &MemoryTokenStore{})
	var out map[string]any
	if err := c.Delete(context.Background(), "/api/accounts/1", &out); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if out != nil {
		t.Fatalf("out = %v, want untouched nil", out)
	}
}

func TestRetryStopsAfterSuccess(t *testing.T) {
	var calls atomic.Int32
	err := Retry(context.Background(), func(context.Context) error {
		if calls.Add(1) < 2 {
			return errors.New("flaky")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
}

func TestRetryReturnsLastError(t *testing.T) {
	var calls atomic.Int32
	sentinel := errors.New("still broken")
	err := Retry(context.Background(), func(context.Context) error {
		calls.Add(1)
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want sentinel", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d, want 3", calls.Load())
	}
}

func TestFileTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "token.json")
	s := NewFileTokenStore(path)

	if got := s.Token(); got != "" {
		t.Fatalf("fresh store token = %q, want empty", got)
	}
	if err := s.SetToken("tok-1"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	if got := s.Token(); got != "tok-1" {
		t.Fatalf("token = %q, want tok-1", got)
	}

	// A second store over the same path sees the persisted token.
	if got := NewFileTokenStore(path).Token(); got != "tok-1" {
		t.Fatalf("reloaded token = %q", got)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := s.Token(); got != "" {
		t.Fatalf("cleared token = %q, want empty", got)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("second clear should be a no-op: %v", err)
	}
}
