package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		// Defaults fail validation only for database credentials.
		if !strings.Contains(err.Error(), "database.user") {
			t.Fatalf("unexpected error: %v", err)
		}
		return
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Search.BatchSize != defaultBatchSize {
		t.Fatalf("expected default batch size, got %d", cfg.Search.BatchSize)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[search]
nodes = ["http://node-a:9500/", " http://node-b:9501 "]
index = "resumes"

[database]
user = "mapper"
name = "catalog"

[checkpoint]
path = "` + filepath.Join(dir, "processed.txt") + `"

[logging]
format = "JSON"
log_dir = "` + filepath.Join(dir, "logs") + `"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %s to be found, got %s exists=%v", path, resolved, exists)
	}
	if got := cfg.Search.Nodes[0]; got != "http://node-a:9500" {
		t.Fatalf("expected trailing slash trimmed, got %q", got)
	}
	if got := cfg.Search.Nodes[1]; got != "http://node-b:9501" {
		t.Fatalf("expected whitespace trimmed, got %q", got)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected lowercased format, got %q", cfg.Logging.Format)
	}
	if cfg.ScrollWindow() != 5*time.Minute {
		t.Fatalf("expected default scroll window, got %s", cfg.ScrollWindow())
	}
	if cfg.Search.MaxInFlight != defaultMaxInFlight {
		t.Fatalf("expected default max_in_flight, got %d", cfg.Search.MaxInFlight)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no nodes", func(c *Config) { c.Search.Nodes = nil }, "search.nodes"},
		{"bad node URL", func(c *Config) { c.Search.Nodes = []string{"not a url"} }, "search.nodes"},
		{"zero batch", func(c *Config) { c.Search.BatchSize = 0 }, "search.batch_size"},
		{"bad scroll", func(c *Config) { c.Search.ScrollWindow = "whenever" }, "search.scroll_window"},
		{"zero permit", func(c *Config) { c.Search.MaxInFlight = 0 }, "search.max_in_flight"},
		{"no user", func(c *Config) { c.Database.User = "" }, "database.user"},
		{"no name", func(c *Config) { c.Database.Name = "" }, "database.name"},
		{"zero workers", func(c *Config) { c.Pipeline.Workers = 0 }, "pipeline.workers"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Database.User = "mapper"
			cfg.Database.Name = "catalog"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("create sample: %v", err)
	}
	cfg, _, exists, err := Load(path)
	if err == nil {
		if !exists {
			t.Fatal("expected sample config to exist")
		}
		_ = cfg
		t.Fatal("expected sample to fail validation until credentials are set")
	}
	if !strings.Contains(err.Error(), "database.user") {
		t.Fatalf("expected credential validation error, got %v", err)
	}
}
