// Package scheduler drives the frame broadcast: a single loop that produces a payload on
// every tick, publishes it to the ring and turns accepted WebSocket connections into
// sessions.
//
// The loop multiplexes three event sources with one select: the ticker, the acceptor's
// hand-off channel and context cancellation. When several are ready at once Go picks one
// at random, so neither frame production nor new connections can starve the other.
// Missed ticks are dropped by time.Ticker; the loop never catches up.
//
// A produce failure is fatal. The loop releases the source, closes the ring so every
// session winds down with a close frame, and Start returns an error wrapping
// ErrSourceFailed.
//
// Basic usage:
//
//	loop := scheduler.New(producer, ring, acc,
//		scheduler.WithInterval(33*time.Millisecond),
//		scheduler.WithLogger(log),
//	)
//	g.Go(loop.Run(ctx))
//
// Sessions are not bound to the loop's context. Stopping the loop closes the ring, which
// lets each session flush and send a close frame. Wait blocks until they are gone and
// cancels stragglers after its timeout.
package scheduler
