package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revstat/revstat/pkg/analytics"
	"github.com/revstat/revstat/pkg/config"
	"github.com/revstat/revstat/pkg/reviewlog"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.Input.Format)
	assert.Equal(t, "honest", cfg.Input.Policy)
	assert.Equal(t, 1, cfg.Pipeline.ActivityThreshold)
	assert.Equal(t, []int{7, 30}, cfg.Pipeline.Windows)
	assert.Equal(t, 3, cfg.Pipeline.MinGapDays)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "light", cfg.Output.Theme)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	configContent := `
input:
  format: csv
  policy: gross
  max_file_size: "8MB"

pipeline:
  activity_threshold: 5
  windows: [3, 14]
  min_gap_days: 2

output:
  format: plot
  theme: dark
`

	tmpDir := t.TempDir()

	tmpFile, err := os.CreateTemp(tmpDir, "revstat-*.yaml")
	require.NoError(t, err)

	_, writeErr := tmpFile.WriteString(configContent)
	require.NoError(t, writeErr)

	tmpFile.Close()

	cfg, loadErr := config.LoadConfig(tmpFile.Name())
	require.NoError(t, loadErr)

	assert.Equal(t, "csv", cfg.Input.Format)
	assert.Equal(t, "gross", cfg.Input.Policy)
	assert.Equal(t, uint64(8000000), cfg.MaxFileSizeBytes())
	assert.Equal(t, 5, cfg.Pipeline.ActivityThreshold)
	assert.Equal(t, []int{3, 14}, cfg.Pipeline.Windows)
	assert.Equal(t, 2, cfg.Pipeline.MinGapDays)
	assert.Equal(t, "plot", cfg.Output.Format)
	assert.Equal(t, "dark", cfg.Output.Theme)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("REVSTAT_INPUT_POLICY", "all")
	t.Setenv("REVSTAT_OUTPUT_FORMAT", "json")
	t.Setenv("REVSTAT_PIPELINE_MIN_GAP_DAYS", "5")

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "all", cfg.Input.Policy)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 5, cfg.Pipeline.MinGapDays)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "unknown_policy",
			content: "input:\n  policy: generous\n",
			wantErr: reviewlog.ErrUnknownPolicy,
		},
		{
			name:    "unknown_input_format",
			content: "input:\n  format: parquet\n",
			wantErr: config.ErrInvalidInputFormat,
		},
		{
			name:    "bad_max_file_size",
			content: "input:\n  max_file_size: lots\n",
			wantErr: config.ErrInvalidMaxFileSize,
		},
		{
			name:    "negative_threshold",
			content: "pipeline:\n  activity_threshold: -1\n",
			wantErr: config.ErrInvalidThreshold,
		},
		{
			name:    "zero_window",
			content: "pipeline:\n  windows: [7, 0]\n",
			wantErr: config.ErrInvalidWindow,
		},
		{
			name:    "zero_min_gap",
			content: "pipeline:\n  min_gap_days: 0\n",
			wantErr: config.ErrInvalidMinGap,
		},
		{
			name:    "unknown_output_format",
			content: "output:\n  format: pdf\n",
			wantErr: config.ErrInvalidOutput,
		},
		{
			name:    "unknown_theme",
			content: "output:\n  theme: sepia\n",
			wantErr: config.ErrInvalidTheme,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := t.TempDir()

			tmpFile, err := os.CreateTemp(tmpDir, "revstat-*.yaml")
			require.NoError(t, err)

			_, writeErr := tmpFile.WriteString(tc.content)
			require.NoError(t, writeErr)

			tmpFile.Close()

			_, loadErr := config.LoadConfig(tmpFile.Name())
			require.ErrorIs(t, loadErr, tc.wantErr)
		})
	}
}

func TestAnalyticsOptionsMapping(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	opts := cfg.AnalyticsOptions()
	assert.Equal(t, analytics.DefaultOptions(), opts)
}
