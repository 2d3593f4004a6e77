package metrics

import (
	"context"
	"testing"
	"time"
)

func TestGetReaders_OtelCollector(t *testing.T) {
	cfg := Config{}
	cfg = WithProviderConfig(NewOtelCollectorConfig("http://localhost:4317", map[string]string{"x-team": "pricing"}, true))(cfg)

	readers, err := getReaders(context.Background(), cfg)
	if err != nil {
		t.Fatalf("getReaders() error = %v", err)
	}
	if len(readers) != 1 {
		t.Fatalf("readers = %d, want 1", len(readers))
	}
	// Nothing listens on the endpoint; shutdown only needs to return.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = readers[0].Shutdown(ctx)
}

func TestGetReaders_None(t *testing.T) {
	readers, err := getReaders(context.Background(), Config{})
	if err != nil {
		t.Fatalf("getReaders() error = %v", err)
	}
	if len(readers) != 0 {
		t.Errorf("readers = %d, want 0", len(readers))
	}
}

func TestWithPort(t *testing.T) {
	tests := []struct {
		name string
		port string
		want string
	}{
		{name: "set", port: "9090", want: "9090"},
		{name: "empty_keeps_default", port: "", want: "2223"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WithPort(tt.port)(PromServerConfig{port: "2223"})
			if got.port != tt.want {
				t.Errorf("port = %q, want %q", got.port, tt.want)
			}
		})
	}
}
