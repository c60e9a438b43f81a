package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("https://example.com")
	if c.httpClient.Timeout != 10*time.Second {
		t.Fatalf("timeout=%v, want 10s", c.httpClient.Timeout)
	}
	if c.maxRetries != 2 || c.retryBackoff != 500*time.Millisecond {
		t.Fatalf("unexpected retry defaults: %d %v", c.maxRetries, c.retryBackoff)
	}

	hc := &http.Client{}
	c = NewClient("https://example.com", WithHTTPClient(hc), WithTimeout(3*time.Second), WithRetries(5, time.Millisecond))
	if c.httpClient != hc || hc.Timeout != 3*time.Second || c.maxRetries != 5 || c.retryBackoff != time.Millisecond {
		t.Fatalf("options not applied: %+v", c)
	}
}

func TestClientGet_RetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`ok`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithRetries(3, time.Millisecond))
	body, err := c.get(context.Background(), "/", nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if string(body) != "ok" || calls.Load() != 3 {
		t.Fatalf("body=%q calls=%d", body, calls.Load())
	}
}

func TestClientGet_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithRetries(3, time.Millisecond))
	_, err := c.get(context.Background(), "/", nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 APIError, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls=%d, want 1", calls.Load())
	}
}

func TestClientGet_GivesUpAfterMaxRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithRetries(1, time.Millisecond))
	_, err := c.get(context.Background(), "/", nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || !apiErr.IsRetryable() {
		t.Fatalf("expected wrapped retryable APIError, got %v", err)
	}
}

func TestClientGet_ContextCancelledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewClient(srv.URL, WithRetries(5, time.Second))
	_, err := c.get(ctx, "/", nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
