package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spektr-org/innings/render"
)

// ============================================================================
// CONFIG — Run settings from an optional YAML file
// ============================================================================
// Missing keys keep their defaults. The CLI applies flag overrides on top
// of the loaded values and calls Validate.
// ============================================================================

// Config holds the settings of one report run.
type Config struct {
	Input     string `yaml:"input"`
	OutputDir string `yaml:"output_dir"`
	Backend   string `yaml:"backend"`
	Format    string `yaml:"format"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Workbook  string `yaml:"workbook,omitempty"`
	CSV       string `yaml:"csv,omitempty"`
	Parallel  int    `yaml:"parallel"`
}

// Default returns the settings used when no file or flag says otherwise.
func Default() Config {
	return Config{
		Input:     "csk_deliveries.csv",
		OutputDir: ".",
		Backend:   render.BackendPlot,
		Format:    render.FormatPNG,
		Width:     render.DefaultSize.Width,
		Height:    render.DefaultSize.Height,
	}
}

// Load reads the YAML file at path over the defaults. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Input == "" {
		errs = append(errs, errors.New("input is required"))
	}
	if c.Backend != render.BackendPlot && c.Backend != render.BackendGoChart {
		errs = append(errs, fmt.Errorf("backend must be %q or %q, got %q",
			render.BackendPlot, render.BackendGoChart, c.Backend))
	}
	if !render.ValidFormat(c.Format) {
		errs = append(errs, fmt.Errorf("format must be %q or %q, got %q",
			render.FormatPNG, render.FormatSVG, c.Format))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("size must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.Parallel < 0 {
		errs = append(errs, fmt.Errorf("parallel must not be negative, got %d", c.Parallel))
	}
	return errors.Join(errs...)
}

// Size returns the configured image size.
func (c Config) Size() render.Size {
	return render.Size{Width: c.Width, Height: c.Height}
}
