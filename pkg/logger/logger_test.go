package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "debug", Format: "json", Output: &buf})
	log.Debug("hello", "pool_id", "abc")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "hello", line["msg"])
	require.Equal(t, "lci-tracker", line["service"])
	require.Equal(t, "abc", line["pool_id"])
}

func TestNewTextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Format: "text", Output: &buf})
	log.Info("dropped")
	log.Warn("kept")

	out := buf.String()
	require.NotContains(t, out, "dropped")
	require.True(t, strings.Contains(out, "msg=kept"))
}
