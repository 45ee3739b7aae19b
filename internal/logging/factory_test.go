package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dmitrijs2005/govadmin/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, flush, err := New(Options{Format: FormatText, Level: "warn", Output: &buf})
	require.NoError(t, err)
	defer flush()

	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "k=v")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(Options{Format: FormatJSON, Output: &buf})
	require.NoError(t, err)

	log.Info(context.Background(), "hello", "resource", "Noticia")

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, "hello", m["msg"])
	assert.Equal(t, "Noticia", m["resource"])
}

func TestNew_ZapWritesJSONAndWith(t *testing.T) {
	var buf bytes.Buffer
	log, flush, err := New(Options{Format: FormatZap, Level: "debug", Output: &buf})
	require.NoError(t, err)

	log.With("component", "transport").Debug(context.Background(), "dispatch", "path", "/Auth/login")
	require.NoError(t, flush())

	line := strings.TrimSpace(buf.String())
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &m))
	assert.Equal(t, "dispatch", m["msg"])
	assert.Equal(t, "transport", m["component"])
	assert.Equal(t, "/Auth/login", m["path"])
	assert.Equal(t, "debug", m["level"])
}

func TestNew_ZapReadsContextAttributes(t *testing.T) {
	var buf bytes.Buffer
	log, flush, err := New(Options{Format: FormatZap, Level: "info", Output: &buf})
	require.NoError(t, err)

	ctx := ContextWith(context.Background(), "request_id", "r-9")
	log.Info(ctx, "authority lost", "generation", 3)
	require.NoError(t, flush())

	var m map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &m))
	assert.Equal(t, "r-9", m["request_id"])
	assert.EqualValues(t, 3, m["generation"])
}

func TestNew_UnknownFormat(t *testing.T) {
	_, _, err := New(Options{Format: "xml"})
	require.ErrorIs(t, err, common.ErrUnknownLogFormat)
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := Nop().With("a", 1)
	l.Debug(context.Background(), "x")
	l.Info(context.Background(), "x")
	l.Warn(context.Background(), "x")
	l.Error(context.Background(), "x")
}
