// Package source produces the frames that framecast broadcasts.
//
// A Source captures raw images. An Encoder scales them to a target height while
// preserving the aspect ratio and encodes them as JPEG. A Producer combines both and
// is what the scheduler calls once per tick.
//
// Two sources are provided:
//   - Pattern: a synthetic test card with a moving bar and a QR code carrying the frame
//     number and capture time. Needs no hardware.
//   - Dir: loops over the JPEG and PNG files of a directory.
//
// Capture failures are returned as errors and are treated by the scheduler as fatal;
// sources do not retry.
//
// Target width is computed with integer arithmetic and truncated toward zero:
//
//	source.TargetWidth(1920, 1080, 540) // 960
package source
