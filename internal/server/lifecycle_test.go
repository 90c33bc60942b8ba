package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackzampolin/labrelay/internal/api"
	"github.com/jackzampolin/labrelay/internal/cardinal"
	"github.com/jackzampolin/labrelay/internal/server/endpoints"
	"github.com/jackzampolin/labrelay/internal/testutil"
)

func vendorClient(baseURL string) *cardinal.Client {
	return cardinal.NewClient(cardinal.Config{APIKey: "test-key", BaseURL: baseURL})
}

func TestServer_FullLifecycle(t *testing.T) {
	cfg := testutil.NewServerConfig(t)
	vendor := testutil.NewFakeVendor(t, http.StatusOK, testutil.VendorReply(
		`{"labs":[{"test":"Cholesterol","value":180,"unit":"mg/dL"}]}`))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	srv, err := New(Config{
		Host:      cfg.Host,
		Port:      cfg.Port,
		Extractor: vendorClient(vendor.URL),
		Logger:    cfg.Logger,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Start server in background
	serverErr := make(chan error, 1)
	serverCtx, serverCancel := context.WithCancel(ctx)

	go func() {
		serverErr <- srv.Start(serverCtx)
	}()

	// Wait for server to be ready
	if err := testutil.WaitForServer(cfg.URL(), 10*time.Second); err != nil {
		serverCancel()
		t.Fatalf("server did not start: %v", err)
	}

	if !srv.IsRunning() {
		t.Error("IsRunning() = false after start")
	}

	t.Run("health_endpoint", func(t *testing.T) {
		resp, err := http.Get(cfg.URL() + "/health")
		if err != nil {
			t.Fatalf("health check failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("health status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var health endpoints.HealthResponse
		if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if health.Status != "ok" {
			t.Errorf("health.Status = %q, want %q", health.Status, "ok")
		}
	})

	t.Run("upload_via_client", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.pdf")
		if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		var resp endpoints.UploadResponse
		if err := api.NewClient(cfg.URL()).PostFile(ctx, "/upload", endpoints.UploadField, path, &resp); err != nil {
			t.Fatalf("PostFile() error = %v", err)
		}
		if resp.PatientView != "✅ Cholesterol normal (180mg/dL)" {
			t.Errorf("patient_view = %q", resp.PatientView)
		}
		if name, _ := vendor.LastFile(); name != "report.pdf" {
			t.Errorf("vendor filename = %q", name)
		}
	})

	t.Run("double_start", func(t *testing.T) {
		if err := srv.Start(ctx); err == nil {
			t.Error("second Start() should fail while running")
		}
	})

	// Trigger shutdown
	serverCancel()

	if err := testutil.WaitForShutdown(serverErr, 35*time.Second); err != nil {
		t.Errorf("server shutdown error: %v", err)
	}
	if srv.IsRunning() {
		t.Error("IsRunning() = true after shutdown")
	}
}

func TestServer_PortInUse(t *testing.T) {
	cfg := testutil.NewServerConfig(t)

	first, err := New(Config{Host: cfg.Host, Port: cfg.Port, Logger: cfg.Logger})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- first.Start(ctx) }()
	defer func() {
		cancel()
		testutil.WaitForShutdown(done, 35*time.Second)
	}()

	if err := testutil.WaitForServer(cfg.URL(), 10*time.Second); err != nil {
		t.Fatalf("server did not start: %v", err)
	}

	second, err := New(Config{Host: cfg.Host, Port: cfg.Port, Logger: cfg.Logger})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := second.Start(context.Background()); err == nil {
		t.Error("Start() on a bound port should fail")
	}
	if second.IsRunning() {
		t.Error("failed server should not report running")
	}
}
