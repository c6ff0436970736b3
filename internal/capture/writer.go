package capture

import (
	"errors"
	"os"
)

// errCapExceeded is returned by append when accepting the payload would push
// the bitstream past the session cap. No bytes are written in that case.
var errCapExceeded = errors.New("capture cap exceeded")

// bitstreamWriter appends raw payloads to the bitstream file and tracks the
// cumulative write offset. It never buffers across calls; durability on
// termination comes from an explicit sync-then-close.
type bitstreamWriter struct {
	f            *os.File
	capBytes     int64
	bytesWritten int64
}

func newBitstreamWriter(path string, capBytes int64) (*bitstreamWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &bitstreamWriter{f: f, capBytes: capBytes}, nil
}

// append writes the payload and returns the offset it was written at, so the
// caller can index the byte range [offset, offset+len(p)).
func (w *bitstreamWriter) append(p []byte) (int64, error) {
	if w.bytesWritten+int64(len(p)) > w.capBytes {
		return 0, errCapExceeded
	}
	off := w.bytesWritten
	if _, err := w.f.Write(p); err != nil {
		return 0, err
	}
	w.bytesWritten += int64(len(p))
	return off, nil
}

func (w *bitstreamWriter) close() error {
	serr := w.f.Sync()
	cerr := w.f.Close()
	if serr != nil {
		return serr
	}
	return cerr
}
