package capture

import (
	"bufio"
	"encoding/json"
	"os"
)

// StatsFileName is the frame stats file inside a session directory. It is
// only created when diagnostics are enabled.
const StatsFileName = "frame_stats.jsonl"

// statsLog appends one JSONL record per diagnostic event. Records carry no
// sequence number; the device uptime timestamp alone orders them. Like the
// index log, emission is best-effort.
type statsLog struct {
	f      *os.File
	buf    *bufio.Writer
	enc    *json.Encoder
	uptime func() int64
}

func newStatsLog(path string, uptime func() int64) (*statsLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	buf := bufio.NewWriter(f)
	return &statsLog{f: f, buf: buf, enc: newLineEncoder(buf), uptime: uptime}, nil
}

func (l *statsLog) header(event string) statsHeader {
	return statsHeader{Event: event, UptimeMS: l.uptime()}
}

func (l *statsLog) emit(v any) {
	if l == nil {
		return
	}
	if err := l.enc.Encode(v); err != nil {
		logger.Warn().Err(err).Msg("failed to write stats event")
	}
}

// captureMode records that the session forces raw-only capture regardless of
// any configured mode.
func (l *statsLog) captureMode() {
	if l == nil {
		return
	}
	l.emit(captureModeRecord{
		statsHeader: l.header("capture_mode"),
		VideoFormat: "raw",
		Reason:      "raw_only_forced",
	})
}

func (l *statsLog) sessionStart(codec string, width, height, fps int, capBytes int64, videoFile, indexFile string) {
	if l == nil {
		return
	}
	l.emit(statsSessionStartRecord{
		statsHeader:     l.header("session_start"),
		Codec:           codec,
		Width:           width,
		Height:          height,
		FPS:             fps,
		CapBytes:        capBytes,
		VideoFile:       videoFile,
		SampleIndexFile: indexFile,
	})
}

func (l *statsLog) frameReceived(u Unit, decodeUnitLength int) {
	if l == nil {
		return
	}
	l.emit(frameReceivedRecord{
		statsHeader:           l.header("frame_received"),
		FrameNumber:           u.FrameNumber,
		FrameType:             u.FrameType,
		DecodeUnitLength:      decodeUnitLength,
		HostProcessingLatency: int(u.HostProcessingLatency),
		ReceiveTimeMS:         u.ReceiveTimeMS,
		EnqueueTimeMS:         u.EnqueueTimeMS,
		PTSUS:                 u.PresentationTimeUS,
	})
}

func (l *statsLog) frameDecoded(m frameMeta, ptsUS, decoderLatencyMS int64) {
	if l == nil {
		return
	}
	delay := m.queueDelayMS()
	l.emit(frameDecodedRecord{
		statsHeader:      l.header("frame_decoded"),
		FrameNumber:      m.frameNumber,
		FrameType:        m.frameType,
		PTSUS:            ptsUS,
		DecoderLatencyMS: decoderLatencyMS,
		QueueDelayMS:     &delay,
	})
}

// frameDecodedUnknown is emitted when the completion event carries a
// presentation timestamp that was never recorded; the frame identity fields
// carry the sentinel -1 and no queue delay is reported.
func (l *statsLog) frameDecodedUnknown(ptsUS, decoderLatencyMS int64) {
	if l == nil {
		return
	}
	l.emit(frameDecodedRecord{
		statsHeader:      l.header("frame_decoded"),
		FrameNumber:      -1,
		FrameType:        -1,
		PTSUS:            ptsUS,
		DecoderLatencyMS: decoderLatencyMS,
	})
}

func (l *statsLog) captureStopped(reason string) {
	if l == nil {
		return
	}
	l.emit(captureStoppedRecord{statsHeader: l.header("capture_stopped"), Reason: reason})
}

func (l *statsLog) sessionEnd(reason string, estimatedBytes int64, capReached bool) {
	if l == nil {
		return
	}
	l.emit(statsSessionEndRecord{
		statsHeader:         l.header("session_end"),
		Reason:              reason,
		EstimatedVideoBytes: estimatedBytes,
		CapReached:          capReached,
	})
}

func (l *statsLog) close() {
	if l == nil {
		return
	}
	if err := l.buf.Flush(); err != nil {
		logger.Warn().Err(err).Msg("failed to flush stats log")
	}
	if err := l.f.Close(); err != nil {
		logger.Warn().Err(err).Msg("failed to close stats log")
	}
}
