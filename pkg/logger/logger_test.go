package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Accesos-api/pkg/logger"
)

func TestNew_JSONConNivelYComponente(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Out: &buf})

	log.Info().Msg("descartado")
	log.Named("scheduler").Warn().Str("job", "pending-reminder").Msg("aviso")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "una sola línea JSON: %s", buf.String())
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "scheduler", entry["component"])
	assert.Equal(t, "pending-reminder", entry["job"])
	assert.Equal(t, "aviso", entry["message"])
}

func TestNop_NoEscribe(t *testing.T) {
	assert.NotPanics(t, func() { logger.Nop().Named("x").Error().Msg("nada") })
}
