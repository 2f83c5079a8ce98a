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

	"jobboard/internal/config"
	"jobboard/internal/logging/adapters"
)

func TestMultiLoggerLevelsAndFields(t *testing.T) {
	logger, mem := NewCapture()
	logger.SetLevel(WarnLevel)

	logger.Info("dropped")
	logger.WithField("job_id", 7).Warn("kept", map[string]interface{}{"employer_id": 3})

	entries := mem.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Message)
	assert.Equal(t, 7, entries[0].Fields["job_id"])
	assert.Equal(t, 3, entries[0].Fields["employer_id"])
}

func TestDerivedLoggerSharesAdapters(t *testing.T) {
	root := NewMultiLogger()
	child := root.WithField("component", "jobs")

	mem := adapters.NewMemoryAdapter("late")
	require.NoError(t, root.AddAdapter(mem))

	child.Info("hello")
	assert.Equal(t, []string{"hello"}, mem.Messages(DebugLevel))
	assert.Error(t, root.AddAdapter(mem))
	assert.NoError(t, root.RemoveAdapter("late"))
	assert.Error(t, root.RemoveAdapter("late"))
}

func TestCorrelationFieldsAreLifted(t *testing.T) {
	logger, mem := NewCapture()
	logger.WithFields(map[string]interface{}{"component": "applications", "request_id": "req-1"}).
		Info("application submitted", map[string]interface{}{"user_id": "u-9", "job_id": 4})

	entries := mem.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "applications", entries[0].Component)
	assert.Equal(t, "req-1", entries[0].RequestID)
	assert.Equal(t, "u-9", entries[0].UserID)
	assert.Equal(t, map[string]interface{}{"job_id": 4}, entries[0].Fields)

	var buf bytes.Buffer
	text := NewMultiLogger()
	require.NoError(t, text.AddAdapter(adapters.NewWriterAdapter("buf", adapters.StdoutConfig{Format: "text"}, &buf)))
	text.WithField("component", "otp").Warn("rate limited", map[string]interface{}{"request_id": "req-2"})
	assert.Contains(t, buf.String(), "[WARN] (otp) rate limited request_id=req-2")
}

func TestWriterAdapterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewMultiLogger()
	require.NoError(t, logger.AddAdapter(adapters.NewWriterAdapter("buf", adapters.StdoutConfig{Format: "json"}, &buf)))

	logger.Error("send failed", map[string]interface{}{"error": assert.AnError})

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "error", record["level"])
	assert.Equal(t, "send failed", record["message"])
	assert.Equal(t, assert.AnError.Error(), record["error"])

	buf.Reset()
	logger.WithField("request_id", "req-3").Info("ok")
	record = nil
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "req-3", record["request_id"])
}

func TestWriterAdapterText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewMultiLogger()
	require.NoError(t, logger.AddAdapter(adapters.NewWriterAdapter("buf", adapters.StdoutConfig{Format: "text"}, &buf)))

	logger.Info("otp issued", map[string]interface{}{"phone": "+15550100", "attempt": 1})
	line := buf.String()
	assert.Contains(t, line, "[INFO] otp issued attempt=1 phone=+15550100")
}

func TestFileAdapterRotates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "app.log")

	fa, err := adapters.NewFileAdapter("file", adapters.FileConfig{
		FilePath:   path,
		MaxSize:    64,
		MaxBackups: 1,
		CreateDirs: true,
	})
	require.NoError(t, err)

	logger := NewMultiLogger()
	require.NoError(t, logger.AddAdapter(fa))
	for i := 0; i < 10; i++ {
		logger.Info(strings.Repeat("x", 40))
	}
	require.NoError(t, fa.Health())
	require.NoError(t, logger.Close())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	// active file plus at most one backup
	assert.LessOrEqual(t, len(entries), 2)
	assert.Error(t, fa.Health())
}

func TestManagerFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "debug"
	cfg.Logging.Adapters = []config.LogAdapter{{Name: "mem", Type: "memory", Enabled: true}}

	m := NewManager()
	require.NoError(t, m.Initialize(cfg))
	assert.Equal(t, DebugLevel, m.GetLogger().GetLevel())
	require.NoError(t, m.Close())

	cfg.Logging.Adapters[0].Type = "carrier-pigeon"
	assert.Error(t, NewManager().Initialize(cfg))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, WarnLevel, ParseLogLevel("WARNING"))
	assert.Equal(t, ErrorLevel, ParseLogLevel("error"))
	assert.Equal(t, InfoLevel, ParseLogLevel("nonsense"))
}
