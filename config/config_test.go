package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultFillsCatalogs(t *testing.T) {
	cfg := Default()
	if len(cfg.Catalog.StoryTypes) == 0 || len(cfg.Catalog.Voices) != 6 {
		t.Errorf("catalogs = %+v", cfg.Catalog)
	}
	if cfg.Server.Workers <= 0 || cfg.Server.QueueSize <= 0 {
		t.Errorf("pool sizing = %+v", cfg.Server)
	}
	if cfg.Story.CharLimitMin >= cfg.Story.CharLimitMax {
		t.Errorf("char limits = %+v", cfg.Story)
	}
}

func TestLoadOverridesAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: "9100"
  workers: 4
story_generation:
  char_limit_min: 800
images:
  provider: fal
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9100" || cfg.Server.Workers != 4 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Story.CharLimitMin != 800 {
		t.Errorf("char_limit_min = %d", cfg.Story.CharLimitMin)
	}
	if cfg.Images.Provider != "fal" {
		t.Errorf("provider = %q", cfg.Images.Provider)
	}
	// unset fields still get defaults
	if cfg.Story.CharLimitMax != 2000 || cfg.OpenAI.Model == "" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
