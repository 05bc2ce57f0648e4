package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"SHEETCLEAN_INPUT", "SHEETCLEAN_OUTPUT", "SHEETCLEAN_EMAIL_DOMAIN",
		"SHEETCLEAN_COORDINATE_PRECISION", "SHEETCLEAN_SHEET_NAME", "LOG_LEVEL",
		"SHEETCLEAN_COLOR", "SHEETCLEAN_LOCAL_COLOR_NAMES",
		"SHEETCLEAN_BATCH_INPUT_DIR", "SHEETCLEAN_BATCH_OUTPUT_DIR",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 6, cfg.CoordinatePrecision)
	assert.Equal(t, "Data", cfg.SheetName)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SHEETCLEAN_EMAIL_DOMAIN", "@example.org")
	t.Setenv("SHEETCLEAN_COORDINATE_PRECISION", "4")
	t.Setenv("SHEETCLEAN_SHEET_NAME", "Outlets")
	t.Setenv("SHEETCLEAN_COLOR", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "example.org", cfg.EmailDomain)
	assert.Equal(t, 4, cfg.CoordinatePrecision)
	assert.Equal(t, "Outlets", cfg.SheetName)
	assert.True(t, cfg.Color)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("SHEETCLEAN_COORDINATE_PRECISION", "-2")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("SHEETCLEAN_COORDINATE_PRECISION", "")
	t.Setenv("SHEETCLEAN_EMAIL_DOMAIN", "localhost")
	_, err = Load()
	assert.Error(t, err)
}
