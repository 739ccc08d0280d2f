package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if got := cfg.GetPort(); got != "/dev/ttyACM1" {
		t.Errorf("GetPort = %q", got)
	}
	if got := cfg.GetBaudRate(); got != 115200 {
		t.Errorf("GetBaudRate = %d", got)
	}
	if got := cfg.GetIdleTimeout(); got != 10*time.Second {
		t.Errorf("GetIdleTimeout = %v", got)
	}
	if got := cfg.GetSettleDelay(); got != 5*time.Second {
		t.Errorf("GetSettleDelay = %v", got)
	}
	if got := cfg.GetRenderEvery(); got != 10 {
		t.Errorf("GetRenderEvery = %d", got)
	}
	if got := cfg.GetMaxDistanceInches(); got != 30 {
		t.Errorf("GetMaxDistanceInches = %v", got)
	}
	if got := cfg.GetArmR1Inches(); got != 2.0 {
		t.Errorf("GetArmR1Inches = %v", got)
	}
	if got := cfg.GetArmR2Inches(); got != 1.6 {
		t.Errorf("GetArmR2Inches = %v", got)
	}
	if got := cfg.GetCalibrationSlope(); got != 0.0069 {
		t.Errorf("GetCalibrationSlope = %v", got)
	}
	if got := cfg.GetCalibrationIntercept(); got != -0.0751 {
		t.Errorf("GetCalibrationIntercept = %v", got)
	}
	if got := cfg.GetOutDir(); got != "." {
		t.Errorf("GetOutDir = %q", got)
	}
}

func TestLoadPartialOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scanner.json")
	content := `{"port": "/dev/ttyUSB0", "idle_timeout": "2s", "arm_r2_inches": 1.75}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if got := cfg.GetPort(); got != "/dev/ttyUSB0" {
		t.Errorf("GetPort = %q, want override", got)
	}
	if got := cfg.GetIdleTimeout(); got != 2*time.Second {
		t.Errorf("GetIdleTimeout = %v, want 2s", got)
	}
	if got := cfg.GetArmR2Inches(); got != 1.75 {
		t.Errorf("GetArmR2Inches = %v, want 1.75", got)
	}

	// Untouched fields keep their defaults.
	if got := cfg.GetBaudRate(); got != 115200 {
		t.Errorf("GetBaudRate = %d, want default", got)
	}
	if got := cfg.GetMaxDistanceInches(); got != 30 {
		t.Errorf("GetMaxDistanceInches = %v, want default", got)
	}
}

func TestLoadRejectsNonJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scanner.yaml")
	if err := os.WriteFile(path, []byte("port: /dev/ttyUSB0"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load of a .yaml file succeeded, want error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("Load of a missing file succeeded, want error")
	}
}

func TestValidate(t *testing.T) {
	bad := -1
	if err := (&Config{BaudRate: &bad}).Validate(); err == nil {
		t.Error("negative baud rate passed validation")
	}

	badDur := "soon"
	if err := (&Config{IdleTimeout: &badDur}).Validate(); err == nil {
		t.Error("unparseable idle_timeout passed validation")
	}

	lo, hi := 30.0, 10.0
	if err := (&Config{MinDistanceInches: &lo, MaxDistanceInches: &hi}).Validate(); err == nil {
		t.Error("inverted distance range passed validation")
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("defaults failed validation: %v", err)
	}
}
