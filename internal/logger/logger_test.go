package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

func TestIsDevelopment(t *testing.T) {
	assert.True(t, IsDevelopment(""))
	assert.True(t, IsDevelopment("dev"))
	assert.False(t, IsDevelopment("production"))
}

func TestNewProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewProduction(&buf)
	l.Info().Str("operation", "b2c_payment").Msg("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "b2c_payment", entry["operation"])
	assert.Equal(t, "hello", entry["message"])
}

func TestNewDevelopmentColorsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewDevelopment(&buf)
	l.Warn().Msg("careful")

	assert.Contains(t, buf.String(), colorize("WRN", colorRed))
	assert.Contains(t, buf.String(), "careful")
}
