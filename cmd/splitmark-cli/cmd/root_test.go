package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "splitmark.yaml")
	body := "cache_path: " + filepath.Join(dir, "volumes.db") + "\n" +
		"output_dir: " + dir + "\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_ReleasesServicesWhenCommandFails(t *testing.T) {
	cfgPath := writeTestConfig(t)
	missing := filepath.Join(t.TempDir(), "missing_title_pages.json")

	err := run(context.Background(), []string{"validate", missing, "--config", cfgPath})
	if err == nil {
		t.Fatal("expected an error for a missing sidecar")
	}
	if svc != nil {
		t.Error("volume cache left open after a failing command")
	}
	if logger != nil {
		t.Error("logger not flushed after a failing command")
	}
}

func TestRun_ReleasesServicesOnSuccess(t *testing.T) {
	cfgPath := writeTestConfig(t)

	if err := run(context.Background(), []string{"kanji", "get", "樂", "--config", cfgPath}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc != nil || logger != nil {
		t.Error("services not released after a successful command")
	}
}
