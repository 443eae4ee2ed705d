package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_StructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Info().Str("game_id", "g-1").Msg("game settled")

	var output map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output), "logger output should be valid JSON")

	assert.Equal(t, "game settled", output["message"])
	assert.Equal(t, "g-1", output["game_id"])
	assert.Equal(t, "info", output["level"])
	assert.Contains(t, output, "time")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level      string
		debugShown bool
		infoShown  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{" WARN ", false, false},
		{"error", false, false},
		{"invalid", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(tt.level, &buf)

			log.Debug().Msg("d")
			assert.Equal(t, tt.debugShown, buf.Len() > 0)

			buf.Reset()
			log.Info().Msg("i")
			assert.Equal(t, tt.infoShown, buf.Len() > 0)
		})
	}
}

func TestComponent_AddsField(t *testing.T) {
	var buf bytes.Buffer
	log := Component(NewWithWriter("info", &buf), "sweeper")

	log.Info().Msg("tick")

	var output map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Equal(t, "sweeper", output["component"])
}

func TestNew_PrettyMode(t *testing.T) {
	log := New("info", true, "node-a")
	log.Info().Msg("pretty mode test")
}
