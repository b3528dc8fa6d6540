package acceptor_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/framecast/core/acceptor"
)

func startServer(t *testing.T, acc *acceptor.Acceptor) string {
	t.Helper()
	server := httptest.NewServer(acc)
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func acceptWithTimeout(t *testing.T, acc *acceptor.Acceptor) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	conn, err := acc.Accept(ctx)
	require.NoError(t, err)
	return conn
}

func dialAsync(t *testing.T, wsURL string, header http.Header) <-chan *websocket.Conn {
	t.Helper()
	ch := make(chan *websocket.Conn, 1)
	go func() {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
		if err != nil {
			close(ch)
			return
		}
		ch <- conn
	}()
	return ch
}

func closeDialed(ch <-chan *websocket.Conn) {
	if conn, ok := <-ch; ok {
		conn.Close()
	}
}

func TestAcceptor_Accept(t *testing.T) {
	t.Parallel()

	t.Run("delivers_upgraded_connection", func(t *testing.T) {
		t.Parallel()
		acc := acceptor.New(acceptor.WithAllowAnyOrigin())
		defer acc.Close()
		wsURL := startServer(t, acc)

		dialed := dialAsync(t, wsURL, nil)

		server := acceptWithTimeout(t, acc)
		defer server.Close()

		client, ok := <-dialed
		require.True(t, ok)
		defer client.Close()

		require.NoError(t, server.WriteMessage(websocket.BinaryMessage, []byte{1, 2, 3}))
		msgType, data, err := client.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, websocket.BinaryMessage, msgType)
		assert.Equal(t, []byte{1, 2, 3}, data)
		assert.Equal(t, 1, acc.Active())
	})

	t.Run("context_cancelled", func(t *testing.T) {
		t.Parallel()
		acc := acceptor.New()
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := acc.Accept(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("closed", func(t *testing.T) {
		t.Parallel()
		acc := acceptor.New()
		acc.Close()
		acc.Close()

		_, err := acc.Accept(context.Background())
		assert.ErrorIs(t, err, acceptor.ErrClosed)
	})
}

func TestAcceptor_RejectsPlainRequests(t *testing.T) {
	t.Parallel()

	acc := acceptor.New()
	defer acc.Close()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	acc.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "websocket upgrade required")
}

func TestAcceptor_MaxConns(t *testing.T) {
	t.Parallel()

	acc := acceptor.New(acceptor.WithAllowAnyOrigin(), acceptor.WithMaxConns(1))
	defer acc.Close()
	wsURL := startServer(t, acc)

	firstClient := dialAsync(t, wsURL, nil)
	first := acceptWithTimeout(t, acc)
	defer closeDialed(firstClient)
	defer first.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	if resp.Body != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
	assert.Equal(t, uint64(1), acc.Refused())

	acc.Release()

	secondClient := dialAsync(t, wsURL, nil)
	second := acceptWithTimeout(t, acc)
	defer closeDialed(secondClient)
	defer second.Close()
}

func TestAcceptor_CloseRejectsPendingHandshake(t *testing.T) {
	t.Parallel()

	acc := acceptor.New(acceptor.WithAllowAnyOrigin())
	wsURL := startServer(t, acc)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Nobody accepts; closing must release the waiting handler with a close frame.
	time.Sleep(20 * time.Millisecond)
	acc.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
	assert.Equal(t, 0, acc.Active())
}

func TestAcceptor_ClosedRefusesUpgrade(t *testing.T) {
	t.Parallel()

	acc := acceptor.New(acceptor.WithAllowAnyOrigin())
	wsURL := startServer(t, acc)
	acc.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestAcceptor_OriginCheck(t *testing.T) {
	t.Parallel()

	allowed := "http://allowed.example.com"
	acc := acceptor.New(acceptor.WithOriginCheck(func(r *http.Request) bool {
		return r.Header.Get("Origin") == allowed
	}))
	defer acc.Close()
	wsURL := startServer(t, acc)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": []string{"http://evil.example.com"}})
	require.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	}
	assert.Eventually(t, func() bool { return acc.Active() == 0 }, time.Second, 5*time.Millisecond)

	client := dialAsync(t, wsURL, http.Header{"Origin": []string{allowed}})
	conn := acceptWithTimeout(t, acc)
	defer conn.Close()
	defer closeDialed(client)
}

func TestAcceptor_UpgraderOptions(t *testing.T) {
	t.Parallel()

	acc := acceptor.New(
		acceptor.WithAllowAnyOrigin(),
		acceptor.WithReadBuffer(2048),
		acceptor.WithWriteBuffer(2048),
		acceptor.WithHandshakeTimeout(time.Second),
		// Zero values keep the defaults.
		acceptor.WithReadBuffer(0),
		acceptor.WithHandshakeTimeout(0),
	)
	defer acc.Close()
	wsURL := startServer(t, acc)

	client := dialAsync(t, wsURL, nil)
	conn := acceptWithTimeout(t, acc)
	defer conn.Close()
	defer closeDialed(client)

	payload := make([]byte, 8192)
	payload[len(payload)-1] = 0x7f
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, payload))
}
