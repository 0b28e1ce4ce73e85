package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRun(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XCMCP_HOME", tmpDir)

	if err := run(false); err != nil {
		t.Fatalf("run(false) failed: %v", err)
	}

	// Startup creates the log directory under the app dir.
	if _, err := os.Stat(filepath.Join(tmpDir, "logs")); os.IsNotExist(err) {
		t.Errorf("expected log directory under %s", tmpDir)
	}
}

func TestRunBrokenManifestDir(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XCMCP_HOME", tmpDir)

	cfg := "manifest_dir = \"" + filepath.Join(tmpDir, "does-not-exist") + "\"\n"
	if err := os.WriteFile(filepath.Join(tmpDir, "xcmcp.toml"), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	if err := run(false); err == nil {
		t.Error("expected startup to fail on a missing manifest directory")
	}
}
