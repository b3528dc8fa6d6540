package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/framecast/core/session"
	"github.com/dmitrymomot/framecast/pkg/broadcast"
)

type harness struct {
	ring     *broadcast.Ring[[]byte]
	sessions chan *session.Session
	results  chan error
	url      string
}

func newHarness(t *testing.T, opts ...session.Option) *harness {
	t.Helper()

	h := &harness{
		ring:     broadcast.NewRing[[]byte](4),
		sessions: make(chan *session.Session, 8),
		results:  make(chan error, 8),
	}

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s := session.New(conn, h.ring.Subscribe(), opts...)
		h.sessions <- s
		h.results <- s.Run(context.Background())
	}))
	t.Cleanup(server.Close)

	h.url = "ws" + strings.TrimPrefix(server.URL, "http")
	return h
}

func (h *harness) dial(t *testing.T) (*websocket.Conn, *session.Session) {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(h.url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	select {
	case s := <-h.sessions:
		return conn, s
	case <-time.After(time.Second):
		t.Fatal("session was not created")
		return nil, nil
	}
}

func (h *harness) result(t *testing.T) error {
	t.Helper()

	select {
	case err := <-h.results:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("session did not finish")
		return nil
	}
}

func readBinary(t *testing.T, conn *websocket.Conn) []byte {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	msgType, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, msgType)
	return data
}

func waitSubscribers(t *testing.T, ring *broadcast.Ring[[]byte], n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return ring.Stats().Subscribers == n
	}, time.Second, 5*time.Millisecond)
}

func TestSession_RelaysInOrder(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	conn, s := h.dial(t)
	waitSubscribers(t, h.ring, 1)
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, session.StateActive, s.State())

	for i := byte(1); i <= 3; i++ {
		h.ring.Publish([]byte{i})
		assert.Equal(t, []byte{i}, readBinary(t, conn))
	}
	assert.Eventually(t, func() bool { return s.Sent() == 3 }, time.Second, 5*time.Millisecond)
}

func TestSession_IgnoresTextMessages(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	conn, s := h.dial(t)
	waitSubscribers(t, h.ring, 1)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hello")))
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0xff}))

	h.ring.Publish([]byte("frame"))
	assert.Equal(t, []byte("frame"), readBinary(t, conn))
	assert.Equal(t, session.StateActive, s.State())
}

func TestSession_PeerClose(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	conn, s := h.dial(t)
	waitSubscribers(t, h.ring, 1)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")))

	assert.NoError(t, h.result(t))
	assert.Equal(t, session.StateClosed, s.State())
	assert.Equal(t, 0, h.ring.Stats().Subscribers)
}

func TestSession_StreamEnd(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	conn, s := h.dial(t)
	waitSubscribers(t, h.ring, 1)

	h.ring.Publish([]byte("last"))
	h.ring.Close()

	assert.Equal(t, []byte("last"), readBinary(t, conn))

	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)

	assert.NoError(t, h.result(t))
	assert.Equal(t, session.StateClosed, s.State())
}

func TestSession_Isolation(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	connA, _ := h.dial(t)
	connB, _ := h.dial(t)
	connC, _ := h.dial(t)
	waitSubscribers(t, h.ring, 3)

	require.NoError(t, connB.Close())
	_ = h.result(t)
	waitSubscribers(t, h.ring, 2)

	// Stay within capacity so no frame is lagged out.
	n := h.ring.Capacity()
	for i := 1; i <= n; i++ {
		h.ring.Publish([]byte{byte(i)})
	}
	for _, conn := range []*websocket.Conn{connA, connC} {
		for i := 1; i <= n; i++ {
			assert.Equal(t, []byte{byte(i)}, readBinary(t, conn))
		}
	}
}

func TestSession_RunTwice(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	_, s := h.dial(t)
	waitSubscribers(t, h.ring, 1)

	assert.ErrorIs(t, s.Run(context.Background()), session.ErrAlreadyStarted)
}

func TestSession_IdleTimeout(t *testing.T) {
	t.Parallel()

	h := newHarness(t, session.WithIdleTimeout(50*time.Millisecond), session.WithID("idle"))

	// A raw dialer that never reads never answers pings.
	conn, _, err := websocket.DefaultDialer.Dial(h.url, nil)
	require.NoError(t, err)
	defer conn.Close()

	s := <-h.sessions
	assert.Equal(t, "idle", s.ID())

	err = h.result(t)
	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrReceive)
	assert.Equal(t, session.StateClosed, s.State())
}

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "active", session.StateActive.String())
	assert.Equal(t, "terminating", session.StateTerminating.String())
	assert.Equal(t, "closed", session.StateClosed.String())
	assert.Equal(t, "unknown", session.State(42).String())
}
