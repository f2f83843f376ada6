package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "adswatch.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("expected defaults, got: %v", err)
	}
	if cfg.Source.URL != DefaultDatabaseURL {
		t.Errorf("expected url %q, got %q", DefaultDatabaseURL, cfg.Source.URL)
	}
	if cfg.Inspect.TreeID != "default" || cfg.Inspect.RecentLimit != 3 || cfg.Inspect.Timeout != 5*time.Second {
		t.Errorf("unexpected inspect defaults: %+v", cfg.Inspect)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "source:\n  url: postgres://file@db:5432/ads\ninspect:\n  recentLimit: 5\n  timeout: 2s\n")
	t.Setenv(EnvDatabaseURL, "postgres://env@db:5432/ads")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected valid config, got: %v", err)
	}
	if cfg.Source.URL != "postgres://env@db:5432/ads" {
		t.Errorf("expected env url to win, got %q", cfg.Source.URL)
	}
	if cfg.Inspect.RecentLimit != 5 {
		t.Errorf("expected recentLimit 5, got %d", cfg.Inspect.RecentLimit)
	}
	if cfg.Inspect.Timeout != 2*time.Second {
		t.Errorf("expected timeout 2s, got %s", cfg.Inspect.Timeout)
	}
	if cfg.Inspect.TreeID != DefaultTreeID {
		t.Errorf("expected tree id to keep its default, got %q", cfg.Inspect.TreeID)
	}
}

func TestLoadConfig_FileURL(t *testing.T) {
	path := writeConfig(t, "source:\n  url: sqlite:///tmp/ads.db\n")
	t.Setenv(EnvDatabaseURL, "")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected valid config, got: %v", err)
	}
	if cfg.Source.URL != "sqlite:///tmp/ads.db" {
		t.Errorf("expected file url, got %q", cfg.Source.URL)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing file, got nil")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "")
	cases := map[string]string{
		"limit too small": "inspect:\n  recentLimit: 0\n",
		"limit too large": "inspect:\n  recentLimit: 1000\n",
		"empty tree id":   "inspect:\n  treeId: \"\"\n",
		"bad timeout":     "inspect:\n  timeout: -1s\n",
		"not yaml":        "source: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, body)); err == nil {
				t.Fatalf("expected validation error, got nil")
			}
		})
	}
}

func TestLoadConfig_Example(t *testing.T) {
	path := "../../examples/adswatch.yaml"
	if _, err := os.Stat(path); err != nil {
		t.Skip("examples config not present")
	}
	t.Setenv(EnvDatabaseURL, "")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected valid config, got: %v", err)
	}
	if *cfg != *Default() {
		t.Fatalf("expected example to match defaults, got %+v", cfg)
	}
}
