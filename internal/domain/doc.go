// Package domain contains the value types shared by every rawframe component.
//
// It has no dependencies on files, timers or logging.
//
// # Types
//
//   - [FrameConfig]: the caller-declared pixel layout (width, height, sample
//     width, signedness, byte order, file offset)
//   - [Grid]: one decoded frame, tagged with its [SampleKind]
//   - [Error]: the structured failure carried by every operation, classified
//     by [Kind] and matchable with errors.Is against the Err* sentinels
package domain
