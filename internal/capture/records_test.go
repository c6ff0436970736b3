package capture

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// The index and stats formats are consumed by existing tooling; these tests
// pin the exact bytes, including field order and escaping.

func fixedUptime() int64 { return 42 }

func TestIndexLogRecordBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), IndexFileName)
	l, err := newIndexLog(path, "video.h264", fixedUptime)
	if err != nil {
		t.Fatalf("newIndexLog: %v", err)
	}

	l.sessionStart("h264", 1920, 1080, 60, 104857600)
	l.sample(Unit{
		FrameNumber:        7,
		FrameType:          1,
		PresentationTimeUS: 16666,
		ReceiveTimeMS:      100,
		EnqueueTimeMS:      140,
	}, 4096, 2048)
	l.csd(Unit{Type: UnitSPS}, 0, 32)
	l.sessionEnd(`path "C:\tmp"`, 4096, false)
	l.close()

	want := strings.Join([]string{
		`{"event":"session_start","seq":0,"uptime_ms":42,"codec":"h264","width":1920,"height":1080,"fps":60,"cap_bytes":104857600,"bitstream_file":"video.h264","capture_mode":"raw_only"}`,
		`{"event":"sample","seq":1,"uptime_ms":42,"frame_number":7,"frame_type":1,"pts_us":16666,"receive_time_ms":100,"enqueue_time_ms":140,"file_offset":4096,"sample_size":2048,"bitstream_file":"video.h264"}`,
		`{"event":"csd","seq":2,"uptime_ms":42,"decode_unit_type":1,"frame_number":0,"pts_us":0,"file_offset":0,"sample_size":32,"bitstream_file":"video.h264"}`,
		`{"event":"session_end","seq":3,"uptime_ms":42,"reason":"path \"C:\\tmp\"","estimated_video_bytes":4096,"cap_reached":false}`,
	}, "\n") + "\n"

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if string(got) != want {
		t.Errorf("index log mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestStatsLogRecordBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), StatsFileName)
	l, err := newStatsLog(path, fixedUptime)
	if err != nil {
		t.Fatalf("newStatsLog: %v", err)
	}

	l.sessionStart("hevc", 2560, 1440, 120, 1048576, "video.h265", IndexFileName)
	l.captureMode()
	l.frameReceived(Unit{
		FrameNumber:           3,
		FrameType:             0,
		HostProcessingLatency: 12,
		ReceiveTimeMS:         500,
		EnqueueTimeMS:         512,
		PresentationTimeUS:    25000,
	}, 9000)
	l.frameDecoded(frameMeta{frameNumber: 9, receiveTimeMS: 10, enqueueTimeMS: 25}, 33333, 8)
	l.frameDecodedUnknown(44444, 3)
	l.captureStopped(ReasonCapReached)
	l.sessionEnd("stream_closed", 9000, true)
	l.close()

	want := strings.Join([]string{
		`{"event":"session_start","uptime_ms":42,"codec":"hevc","width":2560,"height":1440,"fps":120,"cap_bytes":1048576,"video_file":"video.h265","sample_index_file":"sample_index.jsonl"}`,
		`{"event":"capture_mode","uptime_ms":42,"video_format":"raw","reason":"raw_only_forced"}`,
		`{"event":"frame_received","uptime_ms":42,"frame_number":3,"frame_type":0,"decode_unit_length":9000,"host_processing_latency_0_1ms":12,"receive_time_ms":500,"enqueue_time_ms":512,"pts_us":25000}`,
		`{"event":"frame_decoded","uptime_ms":42,"frame_number":9,"frame_type":0,"pts_us":33333,"decoder_latency_ms":8,"queue_delay_ms":15}`,
		`{"event":"frame_decoded","uptime_ms":42,"frame_number":-1,"frame_type":-1,"pts_us":44444,"decoder_latency_ms":3}`,
		`{"event":"capture_stopped","uptime_ms":42,"reason":"cap_reached"}`,
		`{"event":"session_end","uptime_ms":42,"reason":"stream_closed","estimated_video_bytes":9000,"cap_reached":true}`,
	}, "\n") + "\n"

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read stats: %v", err)
	}
	if string(got) != want {
		t.Errorf("stats log mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestNilLogsAreInert(t *testing.T) {
	var idx *indexLog
	var st *statsLog

	idx.sessionStart("h264", 1, 1, 1, 1)
	idx.sessionEnd("x", 0, false)
	idx.close()
	st.captureMode()
	st.frameDecodedUnknown(1, 1)
	st.sessionEnd("x", 0, false)
	st.close()
}
