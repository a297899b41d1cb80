package observability

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Robak132/MacrosCompanionModules/internal/config"
)

func TestNewLogger_JSON(t *testing.T) {
	cfg := config.LoggingConfig{Level: "info", Format: "json"}
	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewLogger_Console(t *testing.T) {
	cfg := config.LoggingConfig{Level: "debug", Format: "console", Output: "stderr"}
	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	cfg := config.LoggingConfig{Level: "trace", Format: "json"}
	_, err := NewLogger(cfg)
	assert.Error(t, err)
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	cfg := config.LoggingConfig{Level: "info", Format: "xml"}
	_, err := NewLogger(cfg)
	assert.Error(t, err)
}

func TestNewLogger_FileOutputCarriesPeerRole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macros.log")
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: "json", Output: path}, PeerRole(false))
	require.NoError(t, err)

	logger.Info("relay connected")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	assert.Equal(t, "relay connected", entry["msg"])
	assert.Equal(t, "relay", entry["peer"])
}

func TestNewLogger_AllLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := config.LoggingConfig{Level: level, Format: "json"}
		logger, err := NewLogger(cfg)
		require.NoError(t, err, "level %q should be valid", level)
		assert.NotNil(t, logger)
	}
}
