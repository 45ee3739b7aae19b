package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	tests := []struct {
		level string
		msg   string
		attr  string
	}{
		{"DEBUG", "dbg", "a=1"},
		{"INFO", "inf", "b=2"},
		{"WARN", "wrn", "c=3"},
		{"ERROR", "err", "d=4"},
	}
	for i, tc := range tests {
		assert.Contains(t, lines[i], "level="+tc.level)
		assert.Contains(t, lines[i], "msg="+tc.msg)
		assert.Contains(t, lines[i], tc.attr)
	}
}

func TestSlogLogger_With(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("component", "transport").Info(context.Background(), "hello", "k", "v")

	out := buf.String()
	for _, s := range []string{"level=INFO", "msg=hello", "component=transport", "k=v"} {
		assert.Contains(t, out, s)
	}
}

func TestSlogLogger_ContextAttributes(t *testing.T) {
	log, buf := newTestLogger(t)

	ctx := ContextWith(context.Background(), "request_id", "r-1")
	ctx = ContextWith(ctx, "resource", "noticias")
	log.Warn(ctx, "slow response", "ms", 1200)

	out := buf.String()
	assert.Contains(t, out, "request_id=r-1 resource=noticias ms=1200")

	buf.Reset()
	log.Info(context.Background(), "plain")
	assert.NotContains(t, buf.String(), "request_id")
}

func TestSlogLogger_NilContext(t *testing.T) {
	log, buf := newTestLogger(t)

	//nolint:staticcheck // nil context is tolerated
	log.Info(nil, "ctx-ok")
	assert.Contains(t, buf.String(), "msg=ctx-ok")
}

func TestContextWith_DoesNotAliasParent(t *testing.T) {
	parent := ContextWith(context.Background(), "a", 1)
	left := ContextWith(parent, "b", 2)
	right := ContextWith(parent, "c", 3)

	assert.Equal(t, []any{"a", 1}, fromContext(parent))
	assert.Equal(t, []any{"a", 1, "b", 2}, fromContext(left))
	assert.Equal(t, []any{"a", 1, "c", 3}, fromContext(right))
	assert.Equal(t, []any{"x"}, withContext(context.Background(), []any{"x"}))
}
