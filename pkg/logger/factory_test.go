package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	var buf bytes.Buffer
	log := New(WithOutput(&buf))

	log.Info("hello", slog.String("k", "v"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record), "default format is JSON")
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "v", record["k"])
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(WithOutput(&buf), WithLevel(slog.LevelWarn))

	log.Info("dropped")
	log.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(WithOutput(&buf), WithFormat(FormatText))

	log.Info("hello")

	assert.True(t, strings.HasPrefix(buf.String(), "time="), "text handler output")
}

func TestNew_InvalidFormatPanics(t *testing.T) {
	assert.Panics(t, func() {
		New(WithFormat("xml"))
	})
}

func TestNew_ServiceAttr(t *testing.T) {
	var buf bytes.Buffer
	log := New(WithOutput(&buf), WithService("notify-worker"))

	log.Info("hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "notify-worker", record["service"])
}

func TestAttrs(t *testing.T) {
	assert.Equal(t, slog.Attr{}, Error(nil))
	assert.Equal(t, "user_id", UserID("u").Key)
	assert.Equal(t, "notification_id", NotificationID("n").Key)
	assert.Equal(t, "task_id", TaskID("t").Key)
	assert.Equal(t, "channel", Channel("push").Key)
	assert.Equal(t, "claimed", Count("claimed", 3).Key)
}
