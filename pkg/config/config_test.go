package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NotNil(t, cfg.Validation.AutoTrim)
	assert.True(t, *cfg.Validation.AutoTrim)
	assert.Equal(t, DefaultValidationMode, cfg.Validation.Mode)
	assert.Empty(t, cfg.Validation.Messages.Error)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
	assert.False(t, cfg.Log.EnableFile)
	require.NoError(t, cfg.Validate())
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	// 目录中没有配置文件时同样只使用默认值
	cfg, err = Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	writeFile(t, path, `
validation:
  auto_trim: false
  mode: accumulate
  messages:
    required: "请填写{attribute}"
    range_max: "{attribute} 不能超过 {max}"
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Validation.AutoTrim)
	assert.False(t, *cfg.Validation.AutoTrim)
	assert.Equal(t, "accumulate", cfg.Validation.Mode)
	assert.Equal(t, "请填写{attribute}", cfg.Validation.Messages.Required)
	assert.Equal(t, "{attribute} 不能超过 {max}", cfg.Validation.Messages.RangeMax)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	// 未配置的字段保持默认值
	assert.Equal(t, DefaultLogMaxSize, cfg.Log.MaxSize)
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "configs", "config.json"), `{"validation": {"mode": "accumulate"}}`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "accumulate", cfg.Validation.Mode)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[validation]
mode = "halt"
`)
	t.Setenv("KATYDID_FORM_VALIDATION_MODE", "accumulate")
	t.Setenv("KATYDID_FORM_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "accumulate", cfg.Validation.Mode)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown mode", "validation:\n  mode: parallel\n"},
		{"unknown log level", "log:\n  level: verbose\n"},
		{"file logging without path", "log:\n  enable_file: true\n  file_path: \"\"\n"},
		{"negative rotation size", "log:\n  max_size_mb: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			writeFile(t, path, tt.content)

			_, err := Load(path)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}
