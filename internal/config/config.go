// Package config holds the scanner's session configuration. All fields are
// optional pointers so a partial JSON file can override just the values it
// names; the Get* accessors supply rig defaults for everything else.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Rig defaults. The port and bit rate must match the firmware flashed on the
// scanning rig's microcontroller.
const (
	DefaultPort        = "/dev/ttyACM1"
	DefaultBaudRate    = 115200
	DefaultReadTimeout = 5 * time.Second
	DefaultSettleDelay = 5 * time.Second
	DefaultIdleTimeout = 10 * time.Second
	DefaultRenderEvery = 10

	DefaultMinDistanceInches = 0.0
	DefaultMaxDistanceInches = 30.0

	DefaultArmR1Inches = 2.0
	DefaultArmR2Inches = 1.6

	DefaultCalibrationSlope     = 0.0069
	DefaultCalibrationIntercept = -0.0751

	DefaultOutDir = "."
)

// Config is the root configuration for a scan session. Duration fields are
// JSON strings like "10s" so config files stay readable.
type Config struct {
	Port        *string `json:"port,omitempty"`
	BaudRate    *int    `json:"baud_rate,omitempty"`
	ReadTimeout *string `json:"read_timeout,omitempty"`
	SettleDelay *string `json:"settle_delay,omitempty"`
	IdleTimeout *string `json:"idle_timeout,omitempty"`
	RenderEvery *int    `json:"render_every,omitempty"`

	MinDistanceInches *float64 `json:"min_distance_inches,omitempty"`
	MaxDistanceInches *float64 `json:"max_distance_inches,omitempty"`

	ArmR1Inches *float64 `json:"arm_r1_inches,omitempty"`
	ArmR2Inches *float64 `json:"arm_r2_inches,omitempty"`

	CalibrationSlope     *float64 `json:"calibration_slope,omitempty"`
	CalibrationIntercept *float64 `json:"calibration_intercept,omitempty"`

	OutDir *string `json:"out_dir,omitempty"`
}

// Default returns a Config with no overrides set; every accessor yields the
// rig default.
func Default() *Config {
	return &Config{}
}

// Load reads a Config from a JSON file. Fields omitted from the file retain
// their defaults, so partial configs are safe.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cleanPath, err)
	}
	return cfg, nil
}

// Validate checks ranges on the overridden fields.
func (c *Config) Validate() error {
	if c.BaudRate != nil && *c.BaudRate <= 0 {
		return fmt.Errorf("baud_rate must be positive, got %d", *c.BaudRate)
	}
	if c.RenderEvery != nil && *c.RenderEvery <= 0 {
		return fmt.Errorf("render_every must be positive, got %d", *c.RenderEvery)
	}
	for name, field := range map[string]*string{
		"read_timeout": c.ReadTimeout,
		"settle_delay": c.SettleDelay,
		"idle_timeout": c.IdleTimeout,
	} {
		if field == nil {
			continue
		}
		d, err := time.ParseDuration(*field)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if d < 0 {
			return fmt.Errorf("%s must not be negative, got %s", name, d)
		}
	}
	if c.GetMinDistanceInches() >= c.GetMaxDistanceInches() {
		return fmt.Errorf("min_distance_inches %.2f must be below max_distance_inches %.2f",
			c.GetMinDistanceInches(), c.GetMaxDistanceInches())
	}
	if c.ArmR1Inches != nil && *c.ArmR1Inches < 0 {
		return fmt.Errorf("arm_r1_inches must not be negative, got %.2f", *c.ArmR1Inches)
	}
	if c.ArmR2Inches != nil && *c.ArmR2Inches < 0 {
		return fmt.Errorf("arm_r2_inches must not be negative, got %.2f", *c.ArmR2Inches)
	}
	return nil
}

func (c *Config) GetPort() string {
	if c.Port != nil {
		return *c.Port
	}
	return DefaultPort
}

func (c *Config) GetBaudRate() int {
	if c.BaudRate != nil {
		return *c.BaudRate
	}
	return DefaultBaudRate
}

func (c *Config) GetReadTimeout() time.Duration {
	return c.duration(c.ReadTimeout, DefaultReadTimeout)
}

func (c *Config) GetSettleDelay() time.Duration {
	return c.duration(c.SettleDelay, DefaultSettleDelay)
}

func (c *Config) GetIdleTimeout() time.Duration {
	return c.duration(c.IdleTimeout, DefaultIdleTimeout)
}

func (c *Config) GetRenderEvery() int {
	if c.RenderEvery != nil {
		return *c.RenderEvery
	}
	return DefaultRenderEvery
}

func (c *Config) GetMinDistanceInches() float64 {
	if c.MinDistanceInches != nil {
		return *c.MinDistanceInches
	}
	return DefaultMinDistanceInches
}

func (c *Config) GetMaxDistanceInches() float64 {
	if c.MaxDistanceInches != nil {
		return *c.MaxDistanceInches
	}
	return DefaultMaxDistanceInches
}

func (c *Config) GetArmR1Inches() float64 {
	if c.ArmR1Inches != nil {
		return *c.ArmR1Inches
	}
	return DefaultArmR1Inches
}

func (c *Config) GetArmR2Inches() float64 {
	if c.ArmR2Inches != nil {
		return *c.ArmR2Inches
	}
	return DefaultArmR2Inches
}

func (c *Config) GetCalibrationSlope() float64 {
	if c.CalibrationSlope != nil {
		return *c.CalibrationSlope
	}
	return DefaultCalibrationSlope
}

func (c *Config) GetCalibrationIntercept() float64 {
	if c.CalibrationIntercept != nil {
		return *c.CalibrationIntercept
	}
	return DefaultCalibrationIntercept
}

func (c *Config) GetOutDir() string {
	if c.OutDir != nil {
		return *c.OutDir
	}
	return DefaultOutDir
}

// duration parses an optional duration string, falling back to the default
// when unset or unparseable. Load validates strings up front; the fallback
// here covers configs built in code.
func (c *Config) duration(field *string, def time.Duration) time.Duration {
	if field == nil {
		return def
	}
	d, err := time.ParseDuration(*field)
	if err != nil {
		return def
	}
	return d
}
