package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/innings/render"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "csk_deliveries.csv", cfg.Input)
	assert.Equal(t, render.Size{Width: 1000, Height: 500}, cfg.Size())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "innings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
input: data/ipl.csv
output_dir: charts
backend: gochart
format: svg
parallel: 4
workbook: charts/series.xlsx
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "data/ipl.csv", cfg.Input)
	assert.Equal(t, "charts", cfg.OutputDir)
	assert.Equal(t, render.BackendGoChart, cfg.Backend)
	assert.Equal(t, render.FormatSVG, cfg.Format)
	assert.Equal(t, 4, cfg.Parallel)
	assert.Equal(t, "charts/series.xlsx", cfg.Workbook)
	assert.Empty(t, cfg.CSV)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, 1000, cfg.Width)
	assert.Equal(t, 500, cfg.Height)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("width: [1, 2"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"backend", func(c *Config) { c.Backend = "matplotlib" }, "backend"},
		{"format", func(c *Config) { c.Format = "jpeg" }, "format"},
		{"size", func(c *Config) { c.Width = 0 }, "size"},
		{"parallel", func(c *Config) { c.Parallel = -2 }, "parallel"},
		{"input", func(c *Config) { c.Input = "" }, "input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}

	t.Run("reports every problem", func(t *testing.T) {
		cfg := Default()
		cfg.Backend = "x"
		cfg.Format = "y"
		err := cfg.Validate()
		assert.ErrorContains(t, err, "backend")
		assert.ErrorContains(t, err, "format")
	})
}
