package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_ExplicitLevelAndJSON(t *testing.T) {
	var buf bytes.Buffer
	InitTo(&buf, "debug", "json")

	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())
	ForComponent("session").WithField("tier", "hard").Debug("started")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "session", line["component"])
	assert.Equal(t, "hard", line["tier"])
	assert.Equal(t, "started", line["msg"])
}

func TestInit_EnvFallback(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "text")

	var buf bytes.Buffer
	InitTo(&buf, "", "")
	assert.Equal(t, logrus.WarnLevel, Log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, Log.Formatter)

	Log.Info("hidden")
	assert.Empty(t, buf.String())
}

func TestInit_BadLevelDefaultsToInfo(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	var buf bytes.Buffer
	InitTo(&buf, "chatty", "")
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}
