// Package testutil holds helpers shared by server and endpoint tests.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jackzampolin/labrelay/internal/api"
)

// ServerConfig returns configuration values for creating a test server.
// This avoids importing the server package directly.
type ServerConfig struct {
	Host   string
	Port   string
	Logger *slog.Logger
}

// NewServerConfig creates configuration for a test server on a free port.
func NewServerConfig(t *testing.T) ServerConfig {
	t.Helper()

	port, err := FindFreePort()
	if err != nil {
		t.Fatalf("failed to find free port for HTTP: %v", err)
	}

	return ServerConfig{
		Host:   "127.0.0.1",
		Port:   port,
		Logger: Logger(),
	}
}

// URL returns the server URL for the given config.
func (c ServerConfig) URL() string {
	return fmt.Sprintf("http://%s:%s", c.Host, c.Port)
}

// Logger returns a logger that discards output below warnings.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// WaitForServer polls the /health endpoint until the server answers.
func WaitForServer(url string, timeout time.Duration) error {
	return api.WaitForHealthy(context.Background(), url, timeout, 50*time.Millisecond)
}

// WaitForShutdown waits for a channel to receive a value or timeout.
func WaitForShutdown(done <-chan error, timeout time.Duration) error {
	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("timeout waiting for shutdown")
	}
}

// FindFreePort finds an available TCP port and returns it as a string.
func FindFreePort() (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	defer listener.Close()
	return fmt.Sprintf("%d", listener.Addr().(*net.TCPAddr).Port), nil
}

// VendorReply builds a 200 body whose free-text response field is text.
func VendorReply(text string) string {
	data, _ := json.Marshal(map[string]any{"response": text})
	return string(data)
}

// FakeVendor is an httptest stand-in for the extraction API.
type FakeVendor struct {
	*httptest.Server

	mu        sync.Mutex
	status    int
	body      string
	calls     int
	lastKey   string
	lastReqID string
	lastFile  string
	lastBytes []byte
}

// NewFakeVendor starts a vendor that answers every request with status and body.
// It is closed when the test ends.
func NewFakeVendor(t *testing.T, status int, body string) *FakeVendor {
	t.Helper()

	v := &FakeVendor{status: status, body: body}
	v.Server = httptest.NewServer(http.HandlerFunc(v.handle))
	t.Cleanup(v.Close)
	return v
}

func (v *FakeVendor) handle(w http.ResponseWriter, r *http.Request) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.calls++
	v.lastKey = r.Header.Get("x-api-key")
	v.lastReqID = r.Header.Get("X-Request-ID")
	if f, fh, err := r.FormFile("file"); err == nil {
		v.lastFile = fh.Filename
		v.lastBytes, _ = io.ReadAll(f)
		f.Close()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(v.status)
	io.WriteString(w, v.body)
}

// Reply changes the canned response.
func (v *FakeVendor) Reply(status int, body string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = status
	v.body = body
}

// Calls returns how many requests the vendor received.
func (v *FakeVendor) Calls() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.calls
}

// LastAPIKey returns the x-api-key header of the latest request.
func (v *FakeVendor) LastAPIKey() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastKey
}

// LastRequestID returns the X-Request-ID header of the latest request.
func (v *FakeVendor) LastRequestID() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastReqID
}

// LastFile returns the filename and bytes of the latest uploaded file.
func (v *FakeVendor) LastFile() (string, []byte) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastFile, v.lastBytes
}
