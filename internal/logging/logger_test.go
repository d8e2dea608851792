package logging

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{" error ", zapcore.ErrorLevel},
		{"warn", zapcore.WarnLevel},
		{"", zapcore.WarnLevel},
		{"verbose", zapcore.WarnLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "level %q", tt.in)
	}
}

func TestNew(t *testing.T) {
	l, err := New(Config{Level: "debug", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	require.NotNil(t, l)
	l.Debug("hello", String("k", "v"))
}

func TestWithAttachesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core)).With(String("platform", "moltx"))

	l.Warn("discover failed", Error(errors.New("boom")), Int("limit", 10))

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "moltx", ctx["platform"])
	assert.Equal(t, "boom", ctx["error"])
	assert.EqualValues(t, 10, ctx["limit"])
}

func TestNopDiscards(t *testing.T) {
	l := NewNop()
	l.Error("ignored")
	assert.NoError(t, l.Sync())
}

func TestWithRedaction(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	mask := func(s string) string { return strings.ReplaceAll(s, "sk_live_1234", "[REDACTED]") }
	l := WithRedaction(FromZap(zap.New(core)), mask).With(String("endpoint", "https://x.test?key=sk_live_1234"))

	l.Warn("call with sk_live_1234 failed",
		Error(errors.New(`Get "https://x.test?key=sk_live_1234": refused`)),
		String("platform", "moltx"),
		Int("attempt", 2))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "call with [REDACTED] failed", entries[0].Message)
	ctx := entries[0].ContextMap()
	assert.Equal(t, `Get "https://x.test?key=[REDACTED]": refused`, ctx["error"])
	assert.Equal(t, "https://x.test?key=[REDACTED]", ctx["endpoint"])
	assert.Equal(t, "moltx", ctx["platform"])
	assert.EqualValues(t, 2, ctx["attempt"])
}

func TestWithRedactionNilFunc(t *testing.T) {
	base := NewNop()
	assert.Equal(t, base, WithRedaction(base, nil))
}
