package logging_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/ecis/inspection-gin/internal/config"
	"github.com/ecis/inspection-gin/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewLogger 测试默认日志记录器
func TestNewLogger(t *testing.T) {
	logger := logging.NewLogger()
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	logger.WithField("inspection_id", "ins-001").Info("inspection completed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "inspection completed", entry["msg"])
	assert.Equal(t, "ins-001", entry["inspection_id"])
	assert.Equal(t, "info", entry["level"])
}

// TestNewLoggerFromConfig 测试按配置创建日志记录器
func TestNewLoggerFromConfig(t *testing.T) {
	logger, err := logging.NewLoggerFromConfig(&config.LogConfig{
		Level:  "warn",
		Format: "json",
		Output: "stdout",
	})
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.Info("dropped")
	assert.Empty(t, buf.String())

	logger.Warn("kept")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, logging.ServiceName, entry["service"])
}

// TestNewLoggerFromConfigFile 测试输出到文件
func TestNewLoggerFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := logging.NewLoggerFromConfig(&config.LogConfig{
		Level:  "bogus",
		Format: "text",
		Output: "file",
		Dir:    dir,
	})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.FileExists(t, filepath.Join(dir, logging.ServiceName+".log"))
}

// TestSetLogger 测试替换默认日志记录器
func TestSetLogger(t *testing.T) {
	original := logging.GetLogger()
	defer logging.SetLogger(original)

	custom := logrus.New()
	logging.SetLogger(custom)
	assert.Same(t, custom, logging.GetLogger())

	logging.SetLoggerLevel(logrus.ErrorLevel)
	assert.Equal(t, logrus.ErrorLevel, custom.GetLevel())
}
