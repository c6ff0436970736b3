// Package inspect reads capture session directories back: session metadata,
// sample index summaries, and consistency verification of the index against
// the bitstream file.
package inspect

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pixelfall-labs/vidcap/internal/capture"
)

// Meta mirrors the session.json object written at session creation.
type Meta struct {
	CreatedWallTime string `json:"created_wall_time"`
	Codec           string `json:"codec"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	FPS             int    `json:"fps"`
	VideoFormatMask uint32 `json:"video_format_mask"`
	CaptureMode     string `json:"capture_mode"`
	BitstreamFile   string `json:"bitstream_file"`
	SampleIndexFile string `json:"sample_index_file"`
	SessionDir      string `json:"session_dir"`
}

// indexLine holds the superset of fields across index event types. Pointer
// fields distinguish absent from zero.
type indexLine struct {
	Event               string `json:"event"`
	Seq                 uint64 `json:"seq"`
	FileOffset          *int64 `json:"file_offset"`
	SampleSize          *int64 `json:"sample_size"`
	Reason              string `json:"reason"`
	EstimatedVideoBytes int64  `json:"estimated_video_bytes"`
	CapReached          bool   `json:"cap_reached"`
}

// Summary aggregates one pass over a session's sample index.
type Summary struct {
	Meta Meta

	Events  int
	Samples int
	CSD     int

	// SampleBytes is the sum of sample_size across sample and csd records.
	SampleBytes int64

	// BitstreamBytes is the current size of the bitstream file on disk.
	BitstreamBytes int64

	FirstSeq uint64
	LastSeq  uint64

	// EndReason is empty while the session is still running.
	EndReason  string
	CapReached bool
}

// ReadMeta parses session.json from a session directory.
func ReadMeta(dir string) (Meta, error) {
	b, err := os.ReadFile(filepath.Join(dir, capture.MetaFileName))
	if err != nil {
		return Meta{}, err
	}
	var m Meta
	if err := json.Unmarshal(b, &m); err != nil {
		return Meta{}, fmt.Errorf("bad session metadata: %w", err)
	}
	return m, nil
}

// Inspect streams the sample index of a session directory and returns a
// summary. The session may still be in progress; partial trailing lines are
// ignored.
func Inspect(dir string) (Summary, error) {
	meta, err := ReadMeta(dir)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{Meta: meta}

	err = eachIndexLine(dir, meta, func(ln indexLine) error {
		if sum.Events == 0 {
			sum.FirstSeq = ln.Seq
		}
		sum.Events++
		sum.LastSeq = ln.Seq

		switch ln.Event {
		case "sample":
			sum.Samples++
		case "csd":
			sum.CSD++
		case "session_end":
			sum.EndReason = ln.Reason
			sum.CapReached = ln.CapReached
		}
		if (ln.Event == "sample" || ln.Event == "csd") && ln.SampleSize != nil {
			sum.SampleBytes += *ln.SampleSize
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	if fi, err := os.Stat(filepath.Join(dir, meta.BitstreamFile)); err == nil {
		sum.BitstreamBytes = fi.Size()
	}
	return sum, nil
}

// Verify checks the structural invariants of a completed session directory:
// the seq numbers form the contiguous range 0..N-1, sample/csd byte ranges
// tile the bitstream file exactly, session_start comes first, and at most
// one session_end exists and is last.
func Verify(dir string) error {
	meta, err := ReadMeta(dir)
	if err != nil {
		return err
	}

	var (
		n          int
		total      int64
		afterEnd   bool
		wantedNext uint64
	)

	err = eachIndexLine(dir, meta, func(ln indexLine) error {
		if afterEnd {
			return fmt.Errorf("record after session_end at seq %d", ln.Seq)
		}
		if n == 0 && ln.Event != "session_start" {
			return fmt.Errorf("first record is %q, want session_start", ln.Event)
		}
		if ln.Seq != wantedNext {
			return fmt.Errorf("seq gap: got %d, want %d", ln.Seq, wantedNext)
		}
		wantedNext++
		n++

		switch ln.Event {
		case "sample", "csd":
			if ln.FileOffset == nil || ln.SampleSize == nil {
				return fmt.Errorf("seq %d: %s record missing offset or size", ln.Seq, ln.Event)
			}
			if *ln.FileOffset != total {
				return fmt.Errorf("seq %d: file_offset %d, want %d", ln.Seq, *ln.FileOffset, total)
			}
			total += *ln.SampleSize
		case "session_end":
			afterEnd = true
		}
		return nil
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("empty sample index")
	}

	fi, err := os.Stat(filepath.Join(dir, meta.BitstreamFile))
	if err != nil {
		return fmt.Errorf("bitstream file: %w", err)
	}
	if fi.Size() != total {
		return fmt.Errorf("bitstream file is %d bytes, index accounts for %d", fi.Size(), total)
	}
	return nil
}

func eachIndexLine(dir string, meta Meta, fn func(indexLine) error) error {
	name := meta.SampleIndexFile
	if name == "" {
		name = capture.IndexFileName
	}
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 64*1024)
	for {
		line, err := r.ReadBytes('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var ln indexLine
		if err := json.Unmarshal(line, &ln); err != nil {
			return fmt.Errorf("bad index line: %w", err)
		}
		if err := fn(ln); err != nil {
			return err
		}
	}
}
