package logger_test

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/framecast/core/logger"
)

func TestGroup(t *testing.T) {
	t.Parallel()
	attr := logger.Group("frame", slog.Int("w", 960), slog.Int("h", 540))
	require.Equal(t, "frame", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "w", g[0].Key)
	assert.Equal(t, "h", g[1].Key)
}

// ============================================================================
// Error Handling Tests
// ============================================================================

func TestError(t *testing.T) {
	t.Parallel()
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestErrors(t *testing.T) {
	t.Parallel()
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "0", g[0].Key)
	assert.Equal(t, "2", g[1].Key)

	assert.True(t, logger.Errors(nil, nil).Equal(slog.Attr{}))
}

// ============================================================================
// Identifier Tests
// ============================================================================

func TestSessionID(t *testing.T) {
	t.Parallel()
	attr := logger.SessionID("abc")
	require.Equal(t, "session_id", attr.Key)
	assert.Equal(t, "abc", attr.Value.String())
	assert.True(t, logger.SessionID("").Equal(slog.Attr{}))
}

func TestRequestID(t *testing.T) {
	t.Parallel()
	attr := logger.RequestID("req-1")
	require.Equal(t, "request_id", attr.Key)
	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
}

func TestID(t *testing.T) {
	t.Parallel()
	attr := logger.ID("count", 42)
	require.Equal(t, "count", attr.Key)
	assert.EqualValues(t, 42, attr.Value.Any())
	assert.True(t, logger.ID("key", nil).Equal(slog.Attr{}))
}

// ============================================================================
// Frame Tests
// ============================================================================

func TestFrameAttrs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(7), logger.Sequence(7).Value.Uint64())
	assert.Equal(t, "seq", logger.Sequence(7).Key)
	assert.Equal(t, "lagged", logger.Lagged(3).Key)
	assert.Equal(t, "delivered", logger.Delivered(3).Key)
	assert.Equal(t, "960x540", logger.FrameSize(960, 540).Value.String())
	assert.Equal(t, 33*time.Millisecond, logger.Interval(33*time.Millisecond).Value.Duration())
}

func TestMessage(t *testing.T) {
	t.Parallel()
	attr := logger.Message("hello")
	assert.Equal(t, "hello", attr.Value.String())

	long := strings.Repeat("x", 1000)
	assert.Len(t, logger.Message(long).Value.String(), 256)
}

func TestRemoteAddr(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "remote_addr", logger.RemoteAddr("1.2.3.4:5").Key)
	assert.True(t, logger.RemoteAddr("").Equal(slog.Attr{}))
}
