// Package vidcap provides frame capture and indexing for a video streaming
// client: as encoded decode units arrive from the pipeline, a Session
// records the raw bitstream to disk while building a correlated JSONL sample
// index and, optionally, a per-frame latency stats log.
//
// Example usage:
//
//	cfg := vidcap.DefaultConfig()
//	cfg.BaseDir = dataDir
//	cfg.Format = vidcap.FormatH264
//	cfg.Width, cfg.Height, cfg.FPS = 1920, 1080, 60
//	cfg.OnCapReached = func() { disableCaptureToggle() }
//
//	s := vidcap.NewSession(cfg)
//	defer s.End("stream_closed")
//
//	// from the decode pipeline:
//	s.Ingest(vidcap.Unit{Data: payload, Type: vidcap.UnitPictureData, ...})
//	// from the decode-completion callback:
//	s.FrameDecoded(ptsUS, decoderLatencyMS)
package vidcap

import (
	"github.com/rs/zerolog"

	"github.com/pixelfall-labs/vidcap/internal/capture"
)

// Config holds the immutable configuration for a capture session.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = capture.Config

// Session is one streaming session's capture state. All methods are safe for
// concurrent use; once ended, every operation is a no-op.
type Session = capture.Session

// Unit is a single decode unit delivered by the transport/decode pipeline.
type Unit = capture.Unit

// Format is the negotiated video format bitmask.
type Format = capture.Format

// UnitType tags a decode unit as picture data or codec-specific data.
type UnitType = capture.UnitType

// Video format bits and per-codec mask ranges.
const (
	FormatH264       = capture.FormatH264
	FormatH265       = capture.FormatH265
	FormatH265Main10 = capture.FormatH265Main10
	FormatAV1Main8   = capture.FormatAV1Main8
	FormatAV1Main10  = capture.FormatAV1Main10

	FormatMaskH264 = capture.FormatMaskH264
	FormatMaskH265 = capture.FormatMaskH265
	FormatMaskAV1  = capture.FormatMaskAV1
)

// Decode unit types.
const (
	UnitPictureData = capture.UnitPictureData
	UnitSPS         = capture.UnitSPS
	UnitPPS         = capture.UnitPPS
	UnitVPS         = capture.UnitVPS
)

// Well-known termination reasons.
const (
	ReasonCapReached = capture.ReasonCapReached
	ReasonWriteError = capture.ReasonWriteError
)

// NewSession creates a capture session. A setup failure (or Enabled=false)
// yields a disabled session whose operations are all inert; no error
// surfaces to the decode pipeline.
func NewSession(cfg Config) *Session {
	return capture.NewSession(cfg)
}

// DefaultConfig returns a Config with sensible default values.
// At minimum, you must set BaseDir, Format, Width, Height and FPS.
func DefaultConfig() Config {
	return capture.DefaultConfig()
}

// Logger returns the package-level zerolog logger used by the capture
// subsystem.
func Logger() zerolog.Logger {
	return capture.Logger()
}
