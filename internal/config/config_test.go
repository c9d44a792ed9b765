package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{
			name: "defaults are valid",
			opts: DefaultOptions("run.xlsx"),
		},
		{
			name: "peak mode 2 is valid",
			opts: Options{InputFile: "run.xlsx", PeakMode: PeakAverageOfThree, PostStdSearchSeconds: 60},
		},
		{
			name:    "missing input file",
			opts:    Options{PeakMode: 1, PostStdSearchSeconds: 300},
			wantErr: true,
		},
		{
			name:    "peak mode out of range",
			opts:    Options{InputFile: "run.xlsx", PeakMode: 3, PostStdSearchSeconds: 300},
			wantErr: true,
		},
		{
			name:    "negative base cycles",
			opts:    Options{InputFile: "run.xlsx", BaseCycles: -1, PeakMode: 1, PostStdSearchSeconds: 300},
			wantErr: true,
		},
		{
			name:    "zero search window",
			opts:    Options{InputFile: "run.xlsx", PeakMode: 1, PostStdSearchSeconds: 0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions("2023_04_17_A.xlsx")

	assert.Equal(t, "2023_04_17_A.xlsx", opts.InputFile)
	assert.Equal(t, 0, opts.BaseCycles)
	assert.Equal(t, PeakHighestValue, opts.PeakMode)
	assert.Equal(t, 300.0, opts.PostStdSearchSeconds)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CALCIUM_LOGGING_LEVEL", "debug")
	t.Setenv("CALCIUM_LOGGING_OUTPUT", "stderr")

	// Run from a directory without calcium.yaml so env values win.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFileOverridesEnv(t *testing.T) {
	t.Setenv("CALCIUM_LOGGING_LEVEL", "info")

	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "calcium.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("logging:\n  level: warn\n"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2023_04_17_A.xlsx", "2023_04_17_A_analysis.xlsx"},
		{filepath.Join("data", "2023_04_17_B.xlsx"), filepath.Join("data", "2023_04_17_B_analysis.xlsx")},
		{"plain.xlsx", "plain_analysis.xlsx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OutputPath(tt.in))
	}
}

func TestRunLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2023_04_17_A.xlsx", "A"},
		{filepath.Join("some", "dir", "2024_01_02_c.xlsx"), "c"},
		{"experiment.xlsx", ""},
		{"2023_04_17.xlsx", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RunLabel(tt.in))
	}
}
