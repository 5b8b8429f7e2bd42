package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.OCR.ConfidenceThreshold != 60 {
		t.Fatalf("ConfidenceThreshold = %v, want 60", cfg.OCR.ConfidenceThreshold)
	}
	if len(cfg.OCR.Languages) != 2 || cfg.OCR.Languages[0] != "eng" || cfg.OCR.Languages[1] != "ara" {
		t.Fatalf("Languages = %v, want [eng ara]", cfg.OCR.Languages)
	}
	if cfg.OCR.DPI != 300 {
		t.Fatalf("DPI = %v, want 300", cfg.OCR.DPI)
	}
	if !cfg.MRZ.FallbackEnabled {
		t.Fatal("FallbackEnabled should default to true")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "idkit.yaml")
	data := []byte("ocr:\n  confidence_threshold: 75\n  dpi: 600\nlog:\n  level: debug\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OCR.ConfidenceThreshold != 75 {
		t.Fatalf("ConfidenceThreshold = %v, want 75", cfg.OCR.ConfidenceThreshold)
	}
	if cfg.OCR.DPI != 600 {
		t.Fatalf("DPI = %v, want 600", cfg.OCR.DPI)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("Level = %q, want debug", cfg.Log.Level)
	}
	// Unset keys keep their defaults.
	if len(cfg.OCR.Languages) != 2 {
		t.Fatalf("Languages = %v, want defaults", cfg.OCR.Languages)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/idkit.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("IDKIT_OCR_DPI", "450")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OCR.DPI != 450 {
		t.Fatalf("DPI = %v, want 450 from env", cfg.OCR.DPI)
	}
}
