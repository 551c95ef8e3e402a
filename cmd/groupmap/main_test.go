package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"groupmap/internal/pipeline"
)

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	cmd := newRootCommand()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"config", "init", "--path", target})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample config: %v", err)
	}
	if !strings.Contains(string(data), "[search]") {
		t.Fatalf("sample config missing search section:\n%s", data)
	}
	if !strings.Contains(out.String(), target) {
		t.Fatalf("expected output to mention %s, got %q", target, out.String())
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("existing"), 0o644); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	cmd := newRootCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"config", "init", "--path", target})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error when target exists")
	}
}

func TestRenderSummary(t *testing.T) {
	rendered := renderSummary(pipeline.Summary{
		Total:       10,
		Done:        7,
		Skipped:     2,
		Failed:      1,
		Memberships: 345,
	}, 0)

	for _, want := range []string{"Done", "7", "Skipped", "2", "Failed", "1", "345"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("summary table missing %q:\n%s", want, rendered)
		}
	}
}
