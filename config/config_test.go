package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(New(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Path != "./alr.db" || cfg.Labeling.DocID != 1 || cfg.Labeling.Listener != "o" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Labeling.Tolerance != 0 || cfg.Pipeline.LogLvl != "info" || cfg.Paths.Outputs != "outputs" {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoad_EnvDirectory(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("CONFIG_ENV", "test")

	if err := os.MkdirAll(filepath.Join(dir, "config", "test"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := "labeling:\n  doc_id: 12\n  listener: a\n"
	if err := os.WriteFile(filepath.Join(dir, "config", "test", "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(New(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Labeling.DocID != 12 || cfg.Labeling.Listener != "a" {
		t.Errorf("labeling = %+v, want doc 12 listener a", cfg.Labeling)
	}
	if cfg.Store.Path != "./alr.db" {
		t.Errorf("store.path = %q, want default", cfg.Store.Path)
	}
}

func TestLoad_ExplicitFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alr.yaml")
	yaml := "store:\n  path: /data/alr.db\nlabeling:\n  tolerance: 0.001\nservices:\n  visualization:\n    url: http://viz:8000\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ALR_LABELING_LISTENER", "b")

	cfg, err := Load(New(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Path != "/data/alr.db" {
		t.Errorf("store.path = %q", cfg.Store.Path)
	}
	if cfg.Labeling.Tolerance != 0.001 {
		t.Errorf("tolerance = %v", cfg.Labeling.Tolerance)
	}
	if cfg.Labeling.Listener != "b" {
		t.Errorf("listener = %q, want env override b", cfg.Labeling.Listener)
	}
	if cfg.Services.Visualization.URL != "http://viz:8000" {
		t.Errorf("visualization url = %q", cfg.Services.Visualization.URL)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load() expected error for a missing config file")
	}
}

func TestRoot_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Root)
		errPart string
	}{
		{name: "valid", mutate: func(*Root) {}},
		{name: "empty listener", mutate: func(r *Root) { r.Labeling.Listener = "" }, errPart: "listener"},
		{name: "negative tolerance", mutate: func(r *Root) { r.Labeling.Tolerance = -1 }, errPart: "tolerance"},
		{name: "empty store path", mutate: func(r *Root) { r.Store.Path = "" }, errPart: "store.path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Root{}
			r.Store.Path = "alr.db"
			r.Labeling.Listener = "o"
			tt.mutate(r)

			err := r.Validate()
			if tt.errPart == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.errPart)
			}
		})
	}
}
