package capture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// MetaFileName is the session metadata file inside a session directory.
const MetaFileName = "session.json"

// Well-known termination reasons. Callers may pass any other reason string
// to End (e.g. "stream_closed").
const (
	ReasonCapReached = "cap_reached"
	ReasonWriteError = "write_error"
)

type sessionState uint8

const (
	stateDisabled sessionState = iota
	stateActive
	stateTerminated
)

func (s sessionState) String() string {
	switch s {
	case stateDisabled:
		return "disabled"
	case stateActive:
		return "active"
	case stateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

var processStart = time.Now()

// uptimeMillis is the device uptime timestamp stamped on every log record.
func uptimeMillis() int64 {
	return time.Since(processStart).Milliseconds()
}

// Session records the raw bitstream of one streaming session to disk while
// building a correlated sample index and, optionally, a per-frame latency
// stats log.
//
// Every public operation runs under a single per-session lock; callers from
// the decode pipeline and from the decode-completion path may arrive on
// different goroutines. Once terminated, all operations are no-ops.
type Session struct {
	mu    sync.Mutex
	state sessionState

	cfg      Config
	capBytes int64
	dir      string

	writer  *bitstreamWriter
	index   *indexLog
	stats   *statsLog
	pending *pendingFrames

	capReached bool

	// estimatedBytes snapshots the writer's byte count at termination, once
	// the file handle is gone.
	estimatedBytes int64

	uptime func() int64
	now    func() time.Time
}

// NewSession creates a capture session for one streaming session. A setup
// failure (or Enabled=false) yields a disabled session whose operations are
// all inert; no error surfaces to the decode pipeline.
func NewSession(cfg Config) *Session {
	s := &Session{
		cfg:      cfg,
		capBytes: cfg.capBytes(),
		pending:  newPendingFrames(),
		uptime:   uptimeMillis,
		now:      time.Now,
	}

	if !cfg.Enabled {
		return s
	}
	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("invalid capture config, capture disabled")
		return s
	}
	if err := s.open(); err != nil {
		logger.Error().Err(err).Msg("capture setup failed, capture disabled")
		s.closeFiles()
		return s
	}
	s.state = stateActive
	return s
}

func (s *Session) open() error {
	codec := s.cfg.Format.CodecLabel()
	name := fmt.Sprintf("%s-%s-%dx%d@%d",
		s.now().Format("20060102-150405"), codec, s.cfg.Width, s.cfg.Height, s.cfg.FPS)
	s.dir = filepath.Join(s.cfg.BaseDir, "captures", name)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create capture directory: %w", err)
	}

	videoFile := "video" + s.cfg.Format.RawExtension()
	w, err := newBitstreamWriter(filepath.Join(s.dir, videoFile), s.capBytes)
	if err != nil {
		return fmt.Errorf("open bitstream file: %w", err)
	}
	s.writer = w

	s.writeMeta(codec, videoFile)

	// Log setup is best-effort: a session without one of its logs still
	// captures the bitstream.
	if s.cfg.StatsEnabled {
		st, err := newStatsLog(filepath.Join(s.dir, StatsFileName), s.uptime)
		if err != nil {
			logger.Error().Err(err).Msg("failed to open stats file")
		} else {
			s.stats = st
			s.stats.sessionStart(codec, s.cfg.Width, s.cfg.Height, s.cfg.FPS, s.capBytes, videoFile, IndexFileName)
		}
	}

	idx, err := newIndexLog(filepath.Join(s.dir, IndexFileName), videoFile, s.uptime)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open sample index file")
	} else {
		s.index = idx
		s.index.sessionStart(codec, s.cfg.Width, s.cfg.Height, s.cfg.FPS, s.capBytes)
	}

	s.stats.captureMode()
	return nil
}

func (s *Session) writeMeta(codec, videoFile string) {
	absDir := s.dir
	if a, err := filepath.Abs(s.dir); err == nil {
		absDir = a
	}
	meta := sessionMeta{
		CreatedWallTime: s.now().Format(time.RFC3339),
		Codec:           codec,
		Width:           s.cfg.Width,
		Height:          s.cfg.Height,
		FPS:             s.cfg.FPS,
		VideoFormatMask: uint32(s.cfg.Format),
		CaptureMode:     captureModeRaw,
		BitstreamFile:   videoFile,
		SampleIndexFile: IndexFileName,
		SessionDir:      absDir,
	}

	f, err := os.Create(filepath.Join(s.dir, MetaFileName))
	if err != nil {
		logger.Warn().Err(err).Msg("failed to write session metadata")
		return
	}
	defer f.Close()
	if err := newLineEncoder(f).Encode(meta); err != nil {
		logger.Warn().Err(err).Msg("failed to write session metadata")
	}
}

// Active reports whether the session is accepting units.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateActive
}

// Dir returns the session directory, or "" for a disabled session.
func (s *Session) Dir() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dir
}

// BytesWritten returns the number of bitstream bytes written so far.
func (s *Session) BytesWritten() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writer == nil {
		return s.estimatedBytes
	}
	return s.writer.bytesWritten
}

// CapReached reports whether the session stopped because the cap was hit.
func (s *Session) CapReached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capReached
}

// Ingest records one decode unit. For picture-data units it captures
// correlation metadata and emits a frame_received diagnostic before the
// payload is appended; the sample or csd index record is only emitted once
// the bytes are on disk. A cap overflow or write failure terminates the
// session.
func (s *Session) Ingest(u Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateActive {
		return
	}

	p := u.payload()

	if u.Type == UnitPictureData {
		s.pending.record(u.PresentationTimeUS, frameMeta{
			frameNumber:   u.FrameNumber,
			frameType:     u.FrameType,
			receiveTimeMS: u.ReceiveTimeMS,
			enqueueTimeMS: u.EnqueueTimeMS,
		})
		s.stats.frameReceived(u, len(p))
	}

	off, err := s.writer.append(p)
	if err != nil {
		if errors.Is(err, errCapExceeded) {
			s.capReached = true
			s.stats.captureStopped(ReasonCapReached)
			s.endLocked(ReasonCapReached)
			if s.cfg.OnCapReached != nil {
				s.cfg.OnCapReached()
			}
		} else {
			logger.Error().Err(err).Msg("failed to write bitstream sample")
			s.endLocked(ReasonWriteError)
		}
		return
	}

	switch {
	case u.Type == UnitPictureData:
		s.index.sample(u, off, len(p))
	case u.Type.csd():
		s.index.csd(u, off, len(p))
	}
}

// FrameDecoded reconciles a decode-completion event against the pending
// table and emits a frame_decoded diagnostic. No-op when the session is not
// active or diagnostics are disabled.
func (s *Session) FrameDecoded(ptsUS, decoderLatencyMS int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateActive || s.stats == nil {
		return
	}

	if m, ok := s.pending.reconcile(ptsUS); ok {
		s.stats.frameDecoded(m, ptsUS, decoderLatencyMS)
	} else {
		s.stats.frameDecodedUnknown(ptsUS, decoderLatencyMS)
	}
}

// End terminates the session with the given reason, emitting matching
// session_end records to both logs before releasing all file handles.
// Calling End on an already terminated (or disabled) session is a no-op.
func (s *Session) End(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endLocked(reason)
}

// endLocked is the single convergence point for explicit termination, cap
// overflow, and write failure. Callers must hold s.mu.
func (s *Session) endLocked(reason string) {
	if s.state != stateActive {
		return
	}

	var estimated int64
	if s.writer != nil {
		estimated = s.writer.bytesWritten
	}
	s.estimatedBytes = estimated
	s.index.sessionEnd(reason, estimated, s.capReached)
	s.stats.sessionEnd(reason, estimated, s.capReached)

	s.state = stateTerminated
	s.pending = newPendingFrames()
	s.closeFiles()

	logger.Info().
		Str("reason", reason).
		Int64("bytes_written", estimated).
		Bool("cap_reached", s.capReached).
		Msg("capture session ended")
}

func (s *Session) closeFiles() {
	if s.writer != nil {
		if err := s.writer.close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close bitstream file")
		}
		s.writer = nil
	}
	s.stats.close()
	s.stats = nil
	s.index.close()
	s.index = nil
}
