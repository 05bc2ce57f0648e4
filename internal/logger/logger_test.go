package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewUnknownLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, New(&bytes.Buffer{}, "loud").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New(&bytes.Buffer{}, "").GetLevel())
	assert.Equal(t, zerolog.DebugLevel, New(&bytes.Buffer{}, " DEBUG ").GetLevel())
}
