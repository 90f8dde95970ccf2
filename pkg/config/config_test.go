package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_NewFile_Defaults(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "highpoint.yaml")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rays.FullCircleCount != 72 {
		t.Errorf("expected default full_circle_count 72, got %d", cfg.Rays.FullCircleCount)
	}
	if cfg.Output.ResultsLimit != 25 {
		t.Errorf("expected default results_limit 25, got %d", cfg.Output.ResultsLimit)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read config file: %v", err)
	}
	if !strings.Contains(string(content), "full_circle_count: 72") {
		t.Error("config file missing default full_circle_count")
	}
}

func TestLoad_ExistingFile_Override(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "highpoint.yaml")

	if err := os.WriteFile(configPath, []byte("rays:\n  min_fov_deg: 45\noutput:\n  results_limit: 5\n"), 0o644); err != nil {
		t.Fatalf("failed to seed config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rays.MinFovDeg != 45 {
		t.Errorf("expected min_fov_deg 45, got %v", cfg.Rays.MinFovDeg)
	}
	if cfg.Output.ResultsLimit != 5 {
		t.Errorf("expected results_limit 5, got %d", cfg.Output.ResultsLimit)
	}
	// Untouched fields still carry their defaults.
	if cfg.Rays.FullCircleCount != 72 {
		t.Errorf("expected untouched full_circle_count to stay default 72, got %d", cfg.Rays.FullCircleCount)
	}
}

func TestLoad_RejectsTooFewRays(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "highpoint.yaml")

	if err := os.WriteFile(configPath, []byte("rays:\n  full_circle_count: 2\n"), 0o644); err != nil {
		t.Fatalf("failed to seed config file: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Fatal("expected validation error for full_circle_count < 4")
	}
}

func TestLoad_EnvOverridesElevationFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "highpoint.yaml")

	t.Setenv("HIGHPOINT_ELEVATION_FILE", "/custom/dem.bin")
	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Input.ElevationFile != "/custom/dem.bin" {
		t.Errorf("expected env override to apply, got %q", cfg.Input.ElevationFile)
	}
}

func TestConfig_Build(t *testing.T) {
	cfg := DefaultConfig()
	req := cfg.Build()

	if req.RaysFullCircle != cfg.Rays.FullCircleCount {
		t.Errorf("RaysFullCircle mismatch: %d vs %d", req.RaysFullCircle, cfg.Rays.FullCircleCount)
	}
	if req.MaxWalkMinutes != 15 {
		t.Errorf("expected MaxWalkMinutes 15, got %v", req.MaxWalkMinutes)
	}
	if req.HasMaxDriveMinutes {
		t.Error("expected HasMaxDriveMinutes false by default")
	}

	drive := Duration(20 * time.Minute)
	cfg.Access.MaxDrive = &drive
	req = cfg.Build()
	if !req.HasMaxDriveMinutes || req.MaxDriveMinutes != 20 {
		t.Errorf("expected MaxDriveMinutes 20 when set, got %v (has=%v)", req.MaxDriveMinutes, req.HasMaxDriveMinutes)
	}
}
