package capture

import (
	"bufio"
	"encoding/json"
	"os"
)

// IndexFileName is the sample index file inside a session directory.
const IndexFileName = "sample_index.jsonl"

// indexLog appends one JSONL record per structural event to the sample
// index. Every record carries a strictly monotonic per-session sequence
// number starting at 0. Emission is best-effort: a failed write is logged
// and dropped, it never terminates the session.
type indexLog struct {
	f             *os.File
	buf           *bufio.Writer
	enc           *json.Encoder
	seq           uint64
	uptime        func() int64
	bitstreamFile string
}

func newIndexLog(path, bitstreamFile string, uptime func() int64) (*indexLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	buf := bufio.NewWriter(f)
	return &indexLog{
		f:             f,
		buf:           buf,
		enc:           newLineEncoder(buf),
		uptime:        uptime,
		bitstreamFile: bitstreamFile,
	}, nil
}

// header consumes the next sequence number. The number is used up even when
// the subsequent write fails; a dropped line is an accepted degradation.
func (l *indexLog) header(event string) indexHeader {
	h := indexHeader{Event: event, Seq: l.seq, UptimeMS: l.uptime()}
	l.seq++
	return h
}

func (l *indexLog) emit(v any) {
	if l == nil {
		return
	}
	if err := l.enc.Encode(v); err != nil {
		logger.Warn().Err(err).Msg("failed to write index event")
	}
}

func (l *indexLog) sessionStart(codec string, width, height, fps int, capBytes int64) {
	if l == nil {
		return
	}
	l.emit(indexSessionStartRecord{
		indexHeader:   l.header("session_start"),
		Codec:         codec,
		Width:         width,
		Height:        height,
		FPS:           fps,
		CapBytes:      capBytes,
		BitstreamFile: l.bitstreamFile,
		CaptureMode:   captureModeRaw,
	})
}

func (l *indexLog) sample(u Unit, fileOffset int64, sampleSize int) {
	if l == nil {
		return
	}
	l.emit(sampleRecord{
		indexHeader:   l.header("sample"),
		FrameNumber:   u.FrameNumber,
		FrameType:     u.FrameType,
		PTSUS:         u.PresentationTimeUS,
		ReceiveTimeMS: u.ReceiveTimeMS,
		EnqueueTimeMS: u.EnqueueTimeMS,
		FileOffset:    fileOffset,
		SampleSize:    sampleSize,
		BitstreamFile: l.bitstreamFile,
	})
}

func (l *indexLog) csd(u Unit, fileOffset int64, sampleSize int) {
	if l == nil {
		return
	}
	l.emit(csdRecord{
		indexHeader:    l.header("csd"),
		DecodeUnitType: int(u.Type),
		FrameNumber:    u.FrameNumber,
		PTSUS:          u.PresentationTimeUS,
		FileOffset:     fileOffset,
		SampleSize:     sampleSize,
		BitstreamFile:  l.bitstreamFile,
	})
}

func (l *indexLog) sessionEnd(reason string, estimatedBytes int64, capReached bool) {
	if l == nil {
		return
	}
	l.emit(indexSessionEndRecord{
		indexHeader:         l.header("session_end"),
		Reason:              reason,
		EstimatedVideoBytes: estimatedBytes,
		CapReached:          capReached,
	})
}

func (l *indexLog) close() {
	if l == nil {
		return
	}
	if err := l.buf.Flush(); err != nil {
		logger.Warn().Err(err).Msg("failed to flush index log")
	}
	if err := l.f.Close(); err != nil {
		logger.Warn().Err(err).Msg("failed to close index log")
	}
}
