package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackzampolin/labrelay/internal/metrics"
	"github.com/jackzampolin/labrelay/internal/testutil"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRootAndHealth(t *testing.T) {
	h := newTestHandler(t, nil)

	t.Run("root", func(t *testing.T) {
		rec := get(t, h, "/")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var resp RootResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if resp.Message != "API is live" {
			t.Errorf("message = %q", resp.Message)
		}
	})

	t.Run("health", func(t *testing.T) {
		rec := get(t, h, "/health")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var resp HealthResponse
		json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.Status != "ok" {
			t.Errorf("status = %q", resp.Status)
		}
	})

	t.Run("unknown path", func(t *testing.T) {
		if rec := get(t, h, "/nope"); rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("upload requires POST", func(t *testing.T) {
		if rec := get(t, h, "/upload"); rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", rec.Code)
		}
	})
}

func TestSwaggerEndpoint(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := get(t, h, "/swagger.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var doc struct {
		Host  string                    `json:"host"`
		Paths map[string]map[string]any `json:"paths"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("swagger.json is not valid JSON: %v", err)
	}
	if _, ok := doc.Paths["/upload"]["post"]; !ok {
		t.Errorf("swagger doc missing POST /upload: %v", doc.Paths)
	}
	if _, ok := doc.Paths["/health"]["get"]; !ok {
		t.Error("swagger doc missing GET /health")
	}

	t.Run("host override", func(t *testing.T) {
		out, err := readSwaggerDoc("relay.example.com")
		if err != nil {
			t.Fatalf("readSwaggerDoc() error = %v", err)
		}
		if !strings.Contains(out, `"host": "relay.example.com"`) {
			t.Errorf("host not overridden in doc")
		}
	})

	t.Run("ui", func(t *testing.T) {
		rec := get(t, h, "/swagger")
		if !strings.Contains(rec.Body.String(), "/swagger.json") {
			t.Error("swagger ui should reference /swagger.json")
		}
	})
}

func TestStaticEndpoint(t *testing.T) {
	h := newTestHandler(t, nil)

	t.Run("index", func(t *testing.T) {
		rec := get(t, h, "/ui/")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "<form") {
			t.Error("index should contain the upload form")
		}
	})

	t.Run("asset", func(t *testing.T) {
		rec := get(t, h, "/ui/app.js")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "/upload") {
			t.Error("app.js should post to /upload")
		}
	})

	t.Run("unknown path falls back to index", func(t *testing.T) {
		rec := get(t, h, "/ui/reports/42")
		if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
			t.Errorf("content type = %q", rec.Header().Get("Content-Type"))
		}
	})
}

func TestMetricsEndpoint(t *testing.T) {
	vendor := testutil.NewFakeVendor(t, http.StatusOK, testutil.VendorReply(fencedGlucose))
	h := newTestHandler(t, vendorClient(vendor))

	doUpload(t, h, uploadRequest(t, "a.pdf", "application/pdf", []byte("x")))
	vendor.Reply(http.StatusInternalServerError, "server error")
	doUpload(t, h, uploadRequest(t, "b.pdf", "application/pdf", []byte("y")))

	rec := get(t, h, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp MetricsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	s := resp.Summary
	if s.Count != 2 || s.SuccessCount != 1 || s.ErrorCount != 1 {
		t.Errorf("unexpected summary: %+v", s)
	}
	if s.ByOutcome["parsed"] != 1 || s.ByOutcome[metrics.OutcomeVendorError] != 1 {
		t.Errorf("ByOutcome = %v", s.ByOutcome)
	}
	if s.LabCount != 1 || s.AbnormalCount != 1 {
		t.Errorf("LabCount = %d AbnormalCount = %d", s.LabCount, s.AbnormalCount)
	}
	if len(resp.Recent) != 2 || resp.Recent[0].Filename != "b.pdf" {
		t.Fatalf("recent should be newest first: %+v", resp.Recent)
	}
	if resp.Recent[0].VendorStatus != http.StatusInternalServerError {
		t.Errorf("VendorStatus = %d", resp.Recent[0].VendorStatus)
	}

	t.Run("limit", func(t *testing.T) {
		rec := get(t, h, "/metrics?limit=1")
		var resp MetricsResponse
		json.Unmarshal(rec.Body.Bytes(), &resp)
		if len(resp.Recent) != 1 {
			t.Errorf("len(recent) = %d, want 1", len(resp.Recent))
		}
	})

	t.Run("bad limit", func(t *testing.T) {
		if rec := get(t, h, "/metrics?limit=abc"); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}
