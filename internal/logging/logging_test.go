package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"foodgram.io/backend/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "warn", Output: &buf})
	t.Cleanup(func() {
		logging.Init(logging.Config{})
	})

	log.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	log.Warn().Str("recipe", "abc").Msg("kept")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "abc", entry["recipe"])
	assert.Equal(t, "kept", entry["message"])
}
