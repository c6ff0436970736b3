package capture

// Format is the negotiated video format bitmask reported by the streaming
// protocol. Individual profile bits are grouped into per-codec mask ranges.
type Format uint32

const (
	FormatH264       Format = 0x0001
	FormatH265       Format = 0x0100
	FormatH265Main10 Format = 0x0200
	FormatAV1Main8   Format = 0x1000
	FormatAV1Main10  Format = 0x2000

	FormatMaskH264 Format = 0x000F
	FormatMaskH265 Format = 0x0F00
	FormatMaskAV1  Format = 0xF000
)

// CodecLabel returns the short codec name used in directory names and log
// records.
func (f Format) CodecLabel() string {
	switch {
	case f&FormatMaskH264 != 0:
		return "h264"
	case f&FormatMaskH265 != 0:
		return "hevc"
	case f&FormatMaskAV1 != 0:
		return "av1"
	default:
		return "unknown"
	}
}

// RawExtension returns the file extension for the raw bitstream file.
func (f Format) RawExtension() string {
	switch {
	case f&FormatMaskH264 != 0:
		return ".h264"
	case f&FormatMaskH265 != 0:
		return ".h265"
	case f&FormatMaskAV1 != 0:
		return ".av1"
	default:
		return ".bin"
	}
}

// UnitType tags a decode unit as picture data or one of the
// codec-specific-data (parameter set) kinds.
type UnitType int

const (
	UnitPictureData UnitType = 0
	UnitSPS         UnitType = 1
	UnitPPS         UnitType = 2
	UnitVPS         UnitType = 3
)

func (t UnitType) csd() bool {
	return t == UnitSPS || t == UnitPPS || t == UnitVPS
}

// Unit is a single decode unit delivered by the transport/decode pipeline.
// The payload is treated as opaque bytes; it is consumed during Ingest and
// never retained.
type Unit struct {
	// Data holds the encoded payload. If Length is positive and within
	// bounds, only Data[:Length] is captured.
	Data   []byte
	Length int

	Type        UnitType
	FrameNumber int
	FrameType   int

	// HostProcessingLatency is measured in 0.1ms units.
	HostProcessingLatency uint16

	ReceiveTimeMS      int64
	EnqueueTimeMS      int64
	PresentationTimeUS int64
}

func (u Unit) payload() []byte {
	if u.Length > 0 && u.Length <= len(u.Data) {
		return u.Data[:u.Length]
	}
	return u.Data
}
