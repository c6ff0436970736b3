package capture

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriterAppendTracksOffsets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "video.h264")
	w, err := newBitstreamWriter(path, 1<<20)
	if err != nil {
		t.Fatalf("newBitstreamWriter: %v", err)
	}

	payloads := [][]byte{
		bytes.Repeat([]byte{0xAA}, 100),
		bytes.Repeat([]byte{0xBB}, 50),
		bytes.Repeat([]byte{0xCC}, 7),
	}
	wantOffsets := []int64{0, 100, 150}

	for i, p := range payloads {
		off, err := w.append(p)
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if off != wantOffsets[i] {
			t.Errorf("append %d: offset = %d, want %d", i, off, wantOffsets[i])
		}
	}
	if w.bytesWritten != 157 {
		t.Errorf("bytesWritten = %d, want 157", w.bytesWritten)
	}
	if err := w.close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(b) != 157 {
		t.Errorf("file size = %d, want 157", len(b))
	}
	if b[0] != 0xAA || b[100] != 0xBB || b[150] != 0xCC {
		t.Errorf("file content does not match appended payloads")
	}
}

func TestWriterCapExceeded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "video.bin")
	w, err := newBitstreamWriter(path, 10)
	if err != nil {
		t.Fatalf("newBitstreamWriter: %v", err)
	}
	defer w.close()

	if _, err := w.append(make([]byte, 8)); err != nil {
		t.Fatalf("append within cap: %v", err)
	}
	if _, err := w.append(make([]byte, 3)); !errors.Is(err, errCapExceeded) {
		t.Fatalf("append over cap: err = %v, want errCapExceeded", err)
	}
	if w.bytesWritten != 8 {
		t.Errorf("bytesWritten after rejection = %d, want 8", w.bytesWritten)
	}

	// A payload that fits exactly at the cap is still accepted.
	off, err := w.append(make([]byte, 2))
	if err != nil {
		t.Fatalf("append at exact cap: %v", err)
	}
	if off != 8 {
		t.Errorf("offset = %d, want 8", off)
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if fi.Size() != 10 {
		t.Errorf("file size = %d, want 10", fi.Size())
	}
}
