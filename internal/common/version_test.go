package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetFullVersion(t *testing.T) {
	got := GetFullVersion()
	if !strings.Contains(got, GetVersion()) || !strings.Contains(got, "build:") {
		t.Errorf("GetFullVersion() = %q", got)
	}
}

func TestLoadVersionFile_OnlyFillsDefaults(t *testing.T) {
	origVersion, origBuild, origCommit := Version, Build, GitCommit
	t.Cleanup(func() { Version, Build, GitCommit = origVersion, origBuild, origCommit })

	Version, Build, GitCommit = "dev", "unknown", "abc1234"

	path := filepath.Join(t.TempDir(), ".version")
	content := "# generated\nversion: 1.2.3\nbuild: 2026-01-01\ncommit: ffffff\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	loadVersionFile(path)

	if Version != "1.2.3" {
		t.Errorf("Version = %q, want 1.2.3", Version)
	}
	if Build != "2026-01-01" {
		t.Errorf("Build = %q, want 2026-01-01", Build)
	}
	if GitCommit != "abc1234" {
		t.Errorf("GitCommit = %q, ldflags value should win", GitCommit)
	}
}
