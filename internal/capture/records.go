package capture

import (
	"encoding/json"
	"io"
)

// The log line layout predates this package: existing tooling parses the
// index and stats files expecting these exact field names in this exact
// order, with only quotes and backslashes escaped. Struct field order below
// is therefore part of the format; do not reorder.

// newLineEncoder is the one encoder used for every JSONL record and for
// session.json. Encode appends the trailing newline itself.
func newLineEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc
}

const captureModeRaw = "raw_only"

type indexHeader struct {
	Event    string `json:"event"`
	Seq      uint64 `json:"seq"`
	UptimeMS int64  `json:"uptime_ms"`
}

type statsHeader struct {
	Event    string `json:"event"`
	UptimeMS int64  `json:"uptime_ms"`
}

type indexSessionStartRecord struct {
	indexHeader
	Codec         string `json:"codec"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	FPS           int    `json:"fps"`
	CapBytes      int64  `json:"cap_bytes"`
	BitstreamFile string `json:"bitstream_file"`
	CaptureMode   string `json:"capture_mode"`
}

type sampleRecord struct {
	indexHeader
	FrameNumber   int    `json:"frame_number"`
	FrameType     int    `json:"frame_type"`
	PTSUS         int64  `json:"pts_us"`
	ReceiveTimeMS int64  `json:"receive_time_ms"`
	EnqueueTimeMS int64  `json:"enqueue_time_ms"`
	FileOffset    int64  `json:"file_offset"`
	SampleSize    int    `json:"sample_size"`
	BitstreamFile string `json:"bitstream_file"`
}

type csdRecord struct {
	indexHeader
	DecodeUnitType int    `json:"decode_unit_type"`
	FrameNumber    int    `json:"frame_number"`
	PTSUS          int64  `json:"pts_us"`
	FileOffset     int64  `json:"file_offset"`
	SampleSize     int    `json:"sample_size"`
	BitstreamFile  string `json:"bitstream_file"`
}

type indexSessionEndRecord struct {
	indexHeader
	Reason              string `json:"reason"`
	EstimatedVideoBytes int64  `json:"estimated_video_bytes"`
	CapReached          bool   `json:"cap_reached"`
}

type captureModeRecord struct {
	statsHeader
	VideoFormat string `json:"video_format"`
	Reason      string `json:"reason"`
}

type statsSessionStartRecord struct {
	statsHeader
	Codec           string `json:"codec"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	FPS             int    `json:"fps"`
	CapBytes        int64  `json:"cap_bytes"`
	VideoFile       string `json:"video_file"`
	SampleIndexFile string `json:"sample_index_file"`
}

type frameReceivedRecord struct {
	statsHeader
	FrameNumber           int   `json:"frame_number"`
	FrameType             int   `json:"frame_type"`
	DecodeUnitLength      int   `json:"decode_unit_length"`
	HostProcessingLatency int   `json:"host_processing_latency_0_1ms"`
	ReceiveTimeMS         int64 `json:"receive_time_ms"`
	EnqueueTimeMS         int64 `json:"enqueue_time_ms"`
	PTSUS                 int64 `json:"pts_us"`
}

// frameDecodedRecord covers both the reconciled and the unknown-frame cases.
// When the frame identity is unknown, FrameNumber and FrameType carry the
// sentinel -1 and QueueDelayMS is omitted.
type frameDecodedRecord struct {
	statsHeader
	FrameNumber      int    `json:"frame_number"`
	FrameType        int    `json:"frame_type"`
	PTSUS            int64  `json:"pts_us"`
	DecoderLatencyMS int64  `json:"decoder_latency_ms"`
	QueueDelayMS     *int64 `json:"queue_delay_ms,omitempty"`
}

type captureStoppedRecord struct {
	statsHeader
	Reason string `json:"reason"`
}

type statsSessionEndRecord struct {
	statsHeader
	Reason              string `json:"reason"`
	EstimatedVideoBytes int64  `json:"estimated_video_bytes"`
	CapReached          bool   `json:"cap_reached"`
}

// sessionMeta is the single JSON object written to session.json at creation.
type sessionMeta struct {
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
