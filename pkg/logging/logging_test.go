/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logging_test.go
Description: Tests for logger configuration, formatting, file output and cleanup.
*/

package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kleascm/blobscan/pkg/logging"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerConfigValidate(t *testing.T) {
	cfg := logging.DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg = logging.DefaultConfig()
	cfg.Format = "xml"
	assert.Error(t, cfg.Validate())

	cfg = logging.DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cfg.MaxFiles = 0
	assert.Error(t, cfg.Validate())
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.LogLevelDebug,
		Format: logging.LogFormatCustom,
	}, &buf)
	require.NoError(t, err)
	defer logger.Close()

	log := logger.GetLogger()
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.Trace("hidden")
	log.Debug("shown")
	log.WithField("size", 32).Info("VOID")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "DEBUG shown")
	assert.Contains(t, out, "INFO  VOID size=32")
}

func TestCustomFormatterSortsFields(t *testing.T) {
	f := &logging.CustomFormatter{}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Now(),
		Level:   logrus.InfoLevel,
		Message: "SUMMARY",
		Data: logrus.Fields{
			"source":  "a.moc3",
			"scan_id": "123",
			"types":   map[string]int{"u8": 2, "bool": 1},
		},
	}

	out, err := f.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "INFO  SUMMARY scan_id=123 source=a.moc3 types={bool:1,u8:2}\n", string(out))
}

func TestLoggerFileOutput(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	logger, err := logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.LogLevelInfo,
		Format:    logging.LogFormatJSON,
		OutputDir: dir,
		MaxFiles:  3,
	}, &console)
	require.NoError(t, err)

	logger.GetLogger().Info("written to both")
	path := logger.FilePath()
	require.NotEmpty(t, path)
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"written to both"`)
	assert.Contains(t, console.String(), "written to both")
}

func TestLoggerCleanup(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"blobscan_2001-01-01_00-00-00.log",
		"blobscan_2001-01-02_00-00-00.log",
		"blobscan_2001-01-03_00-00-00.log",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	logger, err := logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.LogLevelInfo,
		Format:    logging.LogFormatText,
		OutputDir: dir,
		MaxFiles:  2,
	}, &bytes.Buffer{})
	require.NoError(t, err)
	require.NoError(t, logger.Close())

	files, err := filepath.Glob(filepath.Join(dir, "blobscan_*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.NotContains(t, files, filepath.Join(dir, "blobscan_2001-01-01_00-00-00.log"))
	assert.NotContains(t, files, filepath.Join(dir, "blobscan_2001-01-02_00-00-00.log"))
}
