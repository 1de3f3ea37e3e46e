package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/user/scanmerge/pkg/config"
)

func TestNewLogger(t *testing.T) {
	t.Run("should write structured JSON", func(t *testing.T) {
		buf := new(bytes.Buffer)
		logger := newLogger(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "scanmerge"}, zapcore.AddSync(buf))

		logger.Info("document skipped", zap.String("document", "broken"))
		logger.Debug("hidden")
		require.NoError(t, logger.Sync())

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 1)

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "scanmerge", entry["logger"])
		assert.Equal(t, "document skipped", entry["msg"])
		assert.Equal(t, "broken", entry["document"])
	})

	t.Run("should fall back to info on a bad level", func(t *testing.T) {
		buf := new(bytes.Buffer)
		logger := newLogger(config.LoggerConfig{Level: "loud", Format: "json"}, zapcore.AddSync(buf))
		logger.Debug("hidden")
		logger.Info("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("should honor the debug switch", func(t *testing.T) {
		DebugEnabled = true
		defer func() { DebugEnabled = false }()

		buf := new(bytes.Buffer)
		logger := newLogger(config.LoggerConfig{Level: "warn", Format: "console"}, zapcore.AddSync(buf))
		logger.Debug("debug line")
		assert.Contains(t, buf.String(), "debug line")
	})

	t.Run("should tee to a rotated log file", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "scanmerge.log")
		logger := newLogger(config.LoggerConfig{Level: "info", Format: "console", LogFile: logFile, MaxSize: 1}, zapcore.AddSync(new(bytes.Buffer)))
		logger.Info("persisted")
		_ = logger.Sync()

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"persisted"`)
	})
}

func TestGetLoggerFallback(t *testing.T) {
	assert.NotNil(t, GetLogger())
}
