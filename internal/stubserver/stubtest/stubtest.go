// Package stubtest starts stub backends for client tests.
package stubtest

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/posadmin/internal/config"
	"github.com/simp-lee/posadmin/internal/stubserver"
	"github.com/simp-lee/posadmin/internal/transport"
)

// Backend is a running stub server and a transport client bound to it.
type Backend struct {
	Server *stubserver.Server
	HTTP   *httptest.Server
	Client *transport.Client
}

// Store returns the tables behind the server.
func (b *Backend) Store() *stubserver.Store {
	return b.Server.Store()
}

// Start runs a stub backend, seeded with the demo catalog when seed is set,
// and closes it when the test ends. The client does not retry.
func Start(t testing.TB, seed bool) *Backend {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv, err := stubserver.New(&config.StubConfig{Host: "127.0.0.1", Port: 1, Mode: gin.TestMode}, logger)
	if err != nil {
		t.Fatalf("stubserver.New() error = %v", err)
	}
	if seed {
		srv.Store().Seed(time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
	}

	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(hs.Close)

	tc, err := transport.New(transport.Config{BaseURL: hs.URL, Timeout: 5 * time.Second}, nil, transport.WithLogger(logger))
	if err != nil {
		t.Fatalf("transport.New() error = %v", err)
	}
	return &Backend{Server: srv, HTTP: hs, Client: tc}
}

// Logger returns a logger writing to w, for asserting on absorbed failures.
func Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, nil))
}
