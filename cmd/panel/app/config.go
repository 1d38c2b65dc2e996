package app

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/drone-gcs/movingmap/internal/panel"
)

// Config represents the main application configuration
type Config struct {
	Settings  Settings       `yaml:"settings"`
	Panel     PanelConfig    `yaml:"panel"`
	Source    SourceConfig   `yaml:"source"`
	Storage   StorageConfig  `yaml:"storage"`
	Snapshots SnapshotConfig `yaml:"snapshots"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// Level parses the configured log level. An empty value means info.
func (s Settings) Level() (slog.Level, error) {
	if s.LogLevel == "" {
		return slog.LevelInfo, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s.LogLevel, err)
	}
	return level, nil
}

// PanelConfig represents the moving-map panel settings. Colors are given
// as hex strings, e.g. "#0000ff".
type PanelConfig struct {
	PixelsPerMeter  float64 `yaml:"pixelsPerMeter"`
	MaxTracks       int     `yaml:"maxTracks"`
	TakeoffAltitude float64 `yaml:"takeoffAltitude"`
	AltitudeMin     float64 `yaml:"altitudeMin"`
	AltitudeMax     float64 `yaml:"altitudeMax"`
	TrackColorLow   string  `yaml:"trackColorLow"`
	TrackColorHigh  string  `yaml:"trackColorHigh"`
}

// SourceConfig represents the telemetry source process. An empty command
// reads telemetry from stdin and publishes commands to stdout.
type SourceConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// StorageConfig represents flight log storage settings
type StorageConfig struct {
	DataDirectory string `yaml:"dataDirectory"`
	VehicleID     string `yaml:"vehicleID"`
}

// SnapshotConfig represents periodic map snapshot settings
type SnapshotConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Interval        string `yaml:"interval"`
	OutputDirectory string `yaml:"outputDirectory"`
	Width           int    `yaml:"width"`
	Height          int    `yaml:"height"`
	FontPath        string `yaml:"fontPath"`
}

// IntervalDuration parses the snapshot interval. An empty value means 30s.
func (c SnapshotConfig) IntervalDuration() (time.Duration, error) {
	if c.Interval == "" {
		return 30 * time.Second, nil
	}

	d, err := time.ParseDuration(c.Interval)
	if err != nil {
		return 0, fmt.Errorf("invalid snapshot interval %q: %w", c.Interval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("snapshot interval must be positive, got %q", c.Interval)
	}
	return d, nil
}

// LoadConfig reads and parses the YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}

	var config Config
	if err = yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	return &config, nil
}

// panelConfig maps the YAML panel section onto the panel's config,
// resolving hex colors. Empty colors fall through to the panel defaults.
func (c *Config) panelConfig() (panel.Config, error) {
	cfg := panel.Config{
		PixelsPerMeter:  c.Panel.PixelsPerMeter,
		MaxTracks:       c.Panel.MaxTracks,
		TakeoffAltitude: c.Panel.TakeoffAltitude,
		AltitudeMin:     c.Panel.AltitudeMin,
		AltitudeMax:     c.Panel.AltitudeMax,
	}

	if c.Panel.TrackColorLow != "" {
		low, err := parseHexColor(c.Panel.TrackColorLow)
		if err != nil {
			return panel.Config{}, fmt.Errorf("trackColorLow: %w", err)
		}
		cfg.TrackColorLow = low
	}
	if c.Panel.TrackColorHigh != "" {
		high, err := parseHexColor(c.Panel.TrackColorHigh)
		if err != nil {
			return panel.Config{}, fmt.Errorf("trackColorHigh: %w", err)
		}
		cfg.TrackColorHigh = high
	}

	return cfg, nil
}

func parseHexColor(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parsing color %q: %w", s, err)
	}

	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
