package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutput_LevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(&buf, "warn", "json")
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	logger.Info("dropped")
	assert.Empty(t, buf.String())

	logger.WithField("order", "o1").Warn("kept")
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "o1", line["order"])
}

func TestNewWithOutput_BadLevelFallsBackToInfo(t *testing.T) {
	logger := NewWithOutput(&bytes.Buffer{}, "loud", "text")
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestTemporalLogger_KeyVals(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(&buf, "debug", "json")

	NewTemporalLogger(logger).With("workflow", "payment").Info("started", "orderID", "o1", "dangling")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "started", line["msg"])
	assert.Equal(t, "temporal", line["component"])
	assert.Equal(t, "payment", line["workflow"])
	assert.Equal(t, "o1", line["orderID"])
	assert.Equal(t, "", line["dangling"])
}
