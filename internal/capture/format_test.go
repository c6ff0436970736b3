package capture

import "testing"

func TestFormatCodecLabelAndExtension(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		label  string
		rawExt string
	}{
		{"h264", FormatH264, "h264", ".h264"},
		{"h265", FormatH265, "hevc", ".h265"},
		{"h265 main10", FormatH265Main10, "hevc", ".h265"},
		{"av1 main8", FormatAV1Main8, "av1", ".av1"},
		{"av1 main10", FormatAV1Main10, "av1", ".av1"},
		{"unknown", 0, "unknown", ".bin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.format.CodecLabel(); got != tt.label {
				t.Errorf("CodecLabel() = %q, want %q", got, tt.label)
			}
			if got := tt.format.RawExtension(); got != tt.rawExt {
				t.Errorf("RawExtension() = %q, want %q", got, tt.rawExt)
			}
		})
	}
}

func TestUnitPayloadBounds(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}

	tests := []struct {
		name   string
		length int
		want   int
	}{
		{"zero length uses full slice", 0, 5},
		{"in-bounds length truncates", 3, 3},
		{"oversized length uses full slice", 9, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := Unit{Data: data, Length: tt.length}
			if got := len(u.payload()); got != tt.want {
				t.Errorf("payload length = %d, want %d", got, tt.want)
			}
		})
	}
}
