package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Vendor.APIKey != "${CARDINAL_API_KEY}" {
		t.Error("expected CARDINAL_API_KEY placeholder")
	}
	if cfg.VendorTimeout() != 60*time.Second {
		t.Errorf("expected 60s vendor timeout, got %v", cfg.VendorTimeout())
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("unexpected allowed origins: %v", cfg.CORS.AllowedOrigins)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		t.Setenv("TEST_API_KEY", "secret123")

		result := ResolveEnvVars("${TEST_API_KEY}")
		if result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		t.Setenv("CARDINAL_API_KEY", "")
		cfg := DefaultConfig()
		if err := cfg.Validate(); !errors.Is(err, ErrMissingAPIKey) {
			t.Errorf("Validate() error = %v, want ErrMissingAPIKey", err)
		}
	})

	t.Run("key from environment", func(t *testing.T) {
		t.Setenv("CARDINAL_API_KEY", "ck-123")
		cfg := DefaultConfig()
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
		if cfg.ResolvedAPIKey() != "ck-123" {
			t.Errorf("ResolvedAPIKey() = %q", cfg.ResolvedAPIKey())
		}
	})

	t.Run("non-positive timeout", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Vendor.APIKey = "literal"
		cfg.Vendor.TimeoutSeconds = 0
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for zero timeout")
		}
	})

	t.Run("bad port", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Vendor.APIKey = "literal"
		cfg.Server.Port = 70000
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for out of range port")
		}
	})
}

func TestConfig_ListenAddr(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.ListenAddr(); got != "0.0.0.0:8000" {
		t.Errorf("ListenAddr() = %q", got)
	}
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.yaml")
		writeConfig(t, configFile, `
server:
  port: 9100
vendor:
  api_key: "literal-key"
`)

		mgr, err := NewManager(configFile, "")
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.Server.Port != 9100 {
			t.Errorf("expected port 9100, got %d", cfg.Server.Port)
		}
		if cfg.Vendor.APIKey != "literal-key" {
			t.Errorf("expected literal-key, got %s", cfg.Vendor.APIKey)
		}
		// Unset keys fall back to defaults.
		if cfg.Vendor.TimeoutSeconds != 60 {
			t.Errorf("expected default timeout 60, got %d", cfg.Vendor.TimeoutSeconds)
		}
		if mgr.ConfigFileUsed() != configFile {
			t.Errorf("ConfigFileUsed() = %q", mgr.ConfigFileUsed())
		}
	})

	t.Run("no config file uses defaults", func(t *testing.T) {
		tmpDir := t.TempDir()
		wd, _ := os.Getwd()
		if err := os.Chdir(tmpDir); err != nil {
			t.Fatal(err)
		}
		defer os.Chdir(wd)

		mgr, err := NewManager("", filepath.Join(tmpDir, "missing"))
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if mgr.Get().Server.Port != 8000 {
			t.Errorf("expected default port, got %d", mgr.Get().Server.Port)
		}
		if mgr.ConfigFileUsed() != "" {
			t.Errorf("ConfigFileUsed() = %q, want empty", mgr.ConfigFileUsed())
		}
	})

	t.Run("finds config in search dir", func(t *testing.T) {
		homeDir := t.TempDir()
		writeConfig(t, filepath.Join(homeDir, "config.yaml"), "server:\n  port: 9200\n")

		wd, _ := os.Getwd()
		if err := os.Chdir(t.TempDir()); err != nil {
			t.Fatal(err)
		}
		defer os.Chdir(wd)

		mgr, err := NewManager("", homeDir)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if mgr.Get().Server.Port != 9200 {
			t.Errorf("expected port 9200, got %d", mgr.Get().Server.Port)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		writeConfig(t, configFile, "server:\n  port: 9100\n")
		t.Setenv("LABRELAY_SERVER_PORT", "9300")

		mgr, err := NewManager(configFile, "")
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if mgr.Get().Server.Port != 9300 {
			t.Errorf("expected port 9300 from env, got %d", mgr.Get().Server.Port)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		configFile := filepath.Join(t.TempDir(), "config.yaml")
		writeConfig(t, configFile, "server: [unterminated\n")

		if _, err := NewManager(configFile, ""); err == nil {
			t.Error("expected error for invalid yaml")
		}
	})
}

func TestManager_Value(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, configFile, "vendor:\n  timeout_seconds: 15\n")

	mgr, err := NewManager(configFile, "")
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	v, err := mgr.Value("vendor.timeout_seconds")
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if v != 15 {
		t.Errorf("Value() = %v, want 15", v)
	}

	if _, err := mgr.Value("vendor.nope"); err == nil {
		t.Error("expected error for unknown key")
	}
	if _, err := mgr.Value("bad key"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestManager_OnChange_Multiple(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, configFile, "server:\n  port: 8000\n")

	mgr, err := NewManager(configFile, "")
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})

	mgr.mu.RLock()
	if len(mgr.callbacks) != 3 {
		t.Errorf("expected 3 callbacks, got %d", len(mgr.callbacks))
	}
	mgr.mu.RUnlock()
}

func TestManager_Get_ThreadSafe(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, configFile, "server:\n  port: 8000\n")

	mgr, err := NewManager(configFile, "")
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				cfg := mgr.Get()
				_ = cfg.Server.Port
			}
			done <- struct{}{}
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestManager_WatchConfig(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, configFile, "vendor:\n  api_key: \"initial_value\"\n")

	mgr, err := NewManager(configFile, "")
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	if got := mgr.Get().Vendor.APIKey; got != "initial_value" {
		t.Errorf("initial value mismatch: expected initial_value, got %s", got)
	}

	var callbackCount atomic.Int32
	var lastValue atomic.Value

	mgr.OnChange(func(cfg *Config) {
		callbackCount.Add(1)
		lastValue.Store(cfg.Vendor.APIKey)
	})

	mgr.WatchConfig()

	// Give fsnotify time to set up the watcher
	time.Sleep(100 * time.Millisecond)

	writeConfig(t, configFile, "vendor:\n  api_key: \"updated_value\"\n")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if callbackCount.Load() > 0 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if callbackCount.Load() == 0 {
		t.Fatal("callback was not invoked after config file change")
	}

	if got := mgr.Get().Vendor.APIKey; got != "updated_value" {
		t.Errorf("config not updated: expected updated_value, got %s", got)
	}
	if v := lastValue.Load(); v != "updated_value" {
		t.Errorf("callback received wrong value: expected updated_value, got %v", v)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written config: %v", err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "# labrelay configuration") {
		t.Error("expected header comment")
	}
	if !strings.Contains(content, "${CARDINAL_API_KEY}") {
		t.Error("expected api key placeholder in written config")
	}

	// Written file must load back to the defaults.
	mgr, err := NewManager(path, "")
	if err != nil {
		t.Fatalf("NewManager() on written default error = %v", err)
	}
	cfg := mgr.Get()
	want := DefaultConfig()
	if cfg.Server != want.Server || cfg.Vendor != want.Vendor {
		t.Errorf("round-tripped config = %+v, want %+v", cfg, want)
	}
	if strings.Join(cfg.CORS.AllowedOrigins, ",") != strings.Join(want.CORS.AllowedOrigins, ",") {
		t.Errorf("allowed origins = %v", cfg.CORS.AllowedOrigins)
	}
}
