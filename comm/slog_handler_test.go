package comm

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogHandler_EmitsDebugInJSONModeWithoutVerbose(t *testing.T) {
	output := captureJSONLogs(t, func() {
		logger := slog.New(NewSlogHandler(slog.LevelDebug))
		logger.Debug("extracted entry",
			slog.String("entry", "a/c.txt"),
			slog.Any("progress", []any{2, 3}),
			slog.Duration("took", 2500*time.Nanosecond),
		)
	})

	require.Len(t, output, 1)
	logObj := output[0]

	assert.EqualValues(t, "log", logObj["type"])
	assert.EqualValues(t, "debug", logObj["level"])
	assert.EqualValues(t, "extracted entry", logObj["message"])
	assert.EqualValues(t, "a/c.txt", logObj["entry"])
	assert.Contains(t, logObj, "time")
	assert.EqualValues(t, "2.5µs", logObj["took"])

	progress, ok := logObj["progress"].([]any)
	require.True(t, ok, "progress should be an array, got %#v", logObj["progress"])
	assert.Len(t, progress, 2)
}

func TestSlogHandler_WithAttrsAndGroup(t *testing.T) {
	output := captureJSONLogs(t, func() {
		logger := slog.New(NewSlogHandler(slog.LevelDebug)).
			WithGroup("install").
			With("component", "controller")
		logger.Info("state change", slog.String("to", "extracting"))
	})

	require.Len(t, output, 1)
	logObj := output[0]

	assert.EqualValues(t, "controller", logObj["install.component"])
	assert.EqualValues(t, "extracting", logObj["install.to"])
	assert.EqualValues(t, "info", logObj["level"])
}

func TestSlogHandler_RespectsLevel(t *testing.T) {
	output := captureJSONLogs(t, func() {
		logger := slog.New(NewSlogHandler(slog.LevelWarn))
		logger.Info("too chatty")
		logger.Warn("could not open folder")
	})

	require.Len(t, output, 1)
	assert.EqualValues(t, "warning", output[0]["level"])
}

func TestSend_FiltersDebugWithoutVerbose(t *testing.T) {
	output := captureJSONLogs(t, func() {
		Debugf("drop rejected: %s", "foreign payload")
		Logf("installing to %s", "/tmp/Applications")
		Result(map[string]string{"dir": "/tmp/Applications"})
	})

	require.Len(t, output, 2)
	assert.EqualValues(t, "installing to /tmp/Applications", output[0]["message"])
	assert.EqualValues(t, "result", output[1]["type"])
}

type testOutcome int

func (o testOutcome) String() string {
	return "rejected"
}

func TestSlogHandler_ReadableValues(t *testing.T) {
	output := captureJSONLogs(t, func() {
		logger := slog.New(NewSlogHandler(slog.LevelInfo))
		logger.Error("installation failed",
			slog.Any("error", errors.New("archive not found")),
			slog.Any("outcome", testOutcome(1)),
			slog.Group("entry", slog.Int("index", 2), slog.String("name", "a/c.txt")),
		)
	})

	require.Len(t, output, 1)
	logObj := output[0]

	assert.EqualValues(t, "error", logObj["level"])
	assert.EqualValues(t, "archive not found", logObj["error"])
	assert.EqualValues(t, "rejected", logObj["outcome"])
	assert.EqualValues(t, 2, logObj["entry.index"])
	assert.EqualValues(t, "a/c.txt", logObj["entry.name"])
}

func TestSlogHandler_WithAttrsDoesNotLeak(t *testing.T) {
	output := captureJSONLogs(t, func() {
		base := slog.New(NewSlogHandler(slog.LevelInfo))
		base.With("dir", "/Applications").Info("installer ready")
		base.Info("installation complete")
	})

	require.Len(t, output, 2)
	assert.EqualValues(t, "/Applications", output[0]["dir"])
	assert.NotContains(t, output[1], "dir")
}

func TestFormatFields(t *testing.T) {
	fields := JsonMessage{
		"b": 2,
		"a": "one",
	}
	assert.EqualValues(t, "a=one b=2", formatFields(fields))
	assert.EqualValues(t, "", formatFields(JsonMessage{}))
}

func captureJSONLogs(t *testing.T, fn func()) []map[string]any {
	t.Helper()

	oldSettings := *settings
	defer func() {
		*settings = oldSettings
	}()
	Configure(false, false, false, true, false)

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() {
		os.Stdout = oldStdout
	}()

	fn()

	require.NoError(t, w.Close())

	outBytes, err := io.ReadAll(r)
	require.NoError(t, err)

	var output []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(outBytes), []byte{'\n'}) {
		if len(line) == 0 {
			continue
		}
		var obj map[string]any
		require.NoError(t, json.Unmarshal(line, &obj), "line %q", string(line))
		output = append(output, obj)
	}

	return output
}
