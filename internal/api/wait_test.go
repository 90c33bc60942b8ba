package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestWaitForHealthy(t *testing.T) {
	t.Run("becomes healthy", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(`{"status":"ok"}`))
		}))
		defer server.Close()

		err := WaitForHealthy(context.Background(), server.URL, 2*time.Second, 10*time.Millisecond)
		if err != nil {
			t.Fatalf("WaitForHealthy() error = %v", err)
		}
		if calls.Load() != 3 {
			t.Errorf("calls = %d, want 3", calls.Load())
		}
	})

	t.Run("gives up", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		err := WaitForHealthy(context.Background(), server.URL, 50*time.Millisecond, 10*time.Millisecond)
		if err == nil {
			t.Fatal("expected error when server never becomes healthy")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := WaitForHealthy(ctx, "http://127.0.0.1:1", time.Second, 10*time.Millisecond)
		if err == nil {
			t.Fatal("expected error for cancelled context")
		}
	})
}
