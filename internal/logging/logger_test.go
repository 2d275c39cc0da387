package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "TRACE", TRACE.String())
	assert.Equal(t, "ERROR", ERROR.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel(" debug ")
	require.NoError(t, err)
	assert.Equal(t, DEBUG, level)

	level, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, INFO, level, "Пустая строка означает INFO")

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLogger_JSONLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLoggerWithOptions("calc", Options{Level: WARN, JSON: true, Out: &buf})
	require.NoError(t, err)

	logger.Info("не должно попасть в вывод")
	logger.Warn("шаг %d пропущен", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "INFO должен быть отфильтрован")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "calc", entry["component"])
	assert.Equal(t, "шаг 3 пропущен", entry["message"])
}

func TestLogger_FileSink(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer

	logger, err := NewLoggerWithOptions("cli", Options{Level: DEBUG, JSON: true, Dir: dir, Out: &buf})
	require.NoError(t, err)
	logger.Debug("hello %s", "file")
	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close(), "Повторное закрытие безопасно")

	matches, err := filepath.Glob(filepath.Join(dir, "cli_*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
	assert.Contains(t, buf.String(), "hello file")
}

func TestLoggerManager(t *testing.T) {
	var buf bytes.Buffer
	lm := NewLoggerManager(Options{Level: ERROR, JSON: true, Out: &buf})

	calc, err := lm.GetLogger("calc")
	require.NoError(t, err)
	again, err := lm.GetLogger("calc")
	require.NoError(t, err)
	assert.Same(t, calc, again, "Логгер компонента должен переиспользоваться")

	_ = lm.MustGetLogger("cli")
	assert.Equal(t, []string{"calc", "cli"}, lm.ListComponents())

	calc.Info("скрыто")
	assert.Empty(t, buf.String())

	require.NoError(t, lm.SetLogLevel("calc", INFO))
	calc.Info("видно")
	assert.Contains(t, buf.String(), "видно")

	assert.Error(t, lm.SetLogLevel("missing", INFO))
	require.NoError(t, lm.CloseAll())
	assert.Empty(t, lm.ListComponents())
}
