// Package acceptor turns inbound HTTP requests into WebSocket connections and hands
// them to a single consumer.
//
// An Acceptor is an http.Handler. Each request is upgraded with gorilla/websocket and
// the resulting *websocket.Conn is delivered through Accept (or the Conns channel when
// the consumer multiplexes with select). The handler blocks until the connection is
// taken, so a consumer that stops accepting applies no hidden buffering.
//
//	acc := acceptor.New(acceptor.WithAllowAnyOrigin())
//	mux.Handle("/ws", acc)
//
//	for {
//		conn, err := acc.Accept(ctx)
//		if err != nil {
//			return err
//		}
//		go serve(conn, acc.Release)
//	}
//
// By default the number of connections is unbounded. WithMaxConns sets a cap; requests
// over the cap get 503 before the handshake, and owners must call Release when an
// accepted connection is finished.
//
// Close stops delivery: pending and future upgrades are answered with a going-away
// close frame or 503.
package acceptor
