// Package session relays broadcast payloads to one WebSocket peer.
//
// A Session owns a connection and a broadcast subscriber. Run starts two directions:
//   - outbound: waits for the next payload and writes it as a binary message
//   - inbound: reads peer messages; text is logged and ignored, a close frame ends the session
//
// The first direction to stop trips a shared latch that cancels the other, closes the
// connection and unregisters the subscriber. State moves Active -> Terminating -> Closed
// and never back.
//
// Errors stay inside the session. Run returns nil for orderly endings (peer close,
// stream end, parent context cancelled) and an error wrapping ErrSend or ErrReceive
// otherwise; callers usually only log it.
//
// Optional idle detection: WithIdleTimeout sends pings at half the timeout and drops
// peers that stay silent for the full timeout.
package session
