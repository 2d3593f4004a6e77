package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestInstrumentedClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Token"); got != "abc" {
			t.Errorf("X-Token header = %q, want abc", got)
		}
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte(`{"kind":"linear"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c, err := NewInstrumentedClient(
		WithProviderName("test"),
		WithHeaders(map[string]string{"X-Token": "abc"}),
	)
	if err != nil {
		t.Fatalf("NewInstrumentedClient() error = %v", err)
	}

	tests := []struct {
		name        string
		path        string
		wantSuccess bool
	}{
		{name: "ok", path: "/ok", wantSuccess: true},
		{name: "not_found", path: "/missing", wantSuccess: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := c.Get(context.Background(), srv.URL+tt.path)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if resp.IsSuccess() != tt.wantSuccess {
				t.Errorf("IsSuccess() = %v, want %v (status %d)", resp.IsSuccess(), tt.wantSuccess, resp.StatusCode)
			}
		})
	}
}

func TestInstrumentedClient_BodyCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer srv.Close()

	c, err := NewInstrumentedClient(WithMaxBodyBytes(16))
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Get(context.Background(), srv.URL)
	if !errors.Is(err, ErrBodyTooLarge) {
		t.Errorf("Get() error = %v, want ErrBodyTooLarge", err)
	}
}

func TestInstrumentedClient_RateLimit(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	// One request per minute, burst of one.
	c, err := NewInstrumentedClient(WithRateLimit(1))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Get(context.Background(), srv.URL); err != nil {
		t.Fatalf("first Get() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := c.Get(ctx, srv.URL); err == nil {
		t.Fatal("second Get() should be throttled")
	}
	if hits != 1 {
		t.Errorf("server hits = %d, want 1", hits)
	}
}
