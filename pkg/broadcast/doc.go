// Package broadcast provides a single-producer, multi-consumer ring with lossy delivery.
//
// A Ring keeps the most recent N published values. Every subscriber owns an independent
// read cursor, so a slow consumer never blocks the producer or other consumers. When a
// cursor falls behind the oldest retained value it is snapped forward and the skipped
// values are counted as lag instead of being delivered.
//
// # Usage
//
//	ring := broadcast.NewRing[[]byte](10)
//	defer ring.Close()
//
//	sub := ring.Subscribe()
//	defer sub.Close()
//
//	go func() {
//		for {
//			frame, err := sub.Next(ctx)
//			if err != nil {
//				return // ErrClosed, ErrSubscriberClosed or ctx.Err()
//			}
//			send(frame)
//		}
//	}()
//
//	ring.Publish(frame)
//
// # Delivery Semantics
//
// New subscribers start from "now": values published before Subscribe are never
// delivered to them. Values reach a single subscriber in publish order, but different
// subscribers progress independently.
//
// Lag handling:
//
//	ring := broadcast.NewRing[int](3)
//	sub := ring.Subscribe()
//	for i := 1; i <= 10; i++ {
//		ring.Publish(i)
//	}
//	v, _ := sub.Next(ctx) // v == 8, sub.Lagged() == 7
//
// # Shutdown
//
// Close marks the ring as finished. Subscribers drain whatever is still retained and
// newer than their cursor, then receive ErrClosed. Publish after Close discards the
// value and returns sequence 0.
//
// # Thread Safety
//
// All types in this package are safe for concurrent use. A single mutex guards the
// buffer; waiting subscribers park on a notification channel that is replaced on every
// publish, so Next can be cancelled through its context.
package broadcast
