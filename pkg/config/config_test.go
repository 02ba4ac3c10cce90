package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/thomasrohde/fp/pkg/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadProjectFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, config.ProjectFile), "maxSteps: 500\nlogLevel: verbose\npretty: true\n")

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxSteps != 500 || cfg.LogLevel != "verbose" || !cfg.Pretty || cfg.JSON {
		t.Errorf("got %+v", cfg)
	}
	if cfg.Path != filepath.Join(dir, config.ProjectFile) {
		t.Errorf("Path = %q", cfg.Path)
	}
}

func TestLoadUserFileWhenNoProjectFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, filepath.Join(home, config.UserDir, config.UserFile), "json: true\n")

	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.JSON || cfg.LogLevel != "info" {
		t.Errorf("got %+v", cfg)
	}
}

func TestProjectFileWins(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, filepath.Join(home, config.UserDir, config.UserFile), "maxSteps: 1\n")
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, config.ProjectFile), "maxSteps: 2\n")

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxSteps != 2 {
		t.Errorf("MaxSteps = %d, want 2", cfg.MaxSteps)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := config.Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *config.Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestEmptyFileGivesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, config.ProjectFile), "")
	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "info" || cfg.MaxSteps != 0 {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown field", "allow: [fs.read]\n"},
		{"negative steps", "maxSteps: -3\n"},
		{"bad yaml", "maxSteps: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, config.ProjectFile), tt.content)
			if _, err := config.Load(dir); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
