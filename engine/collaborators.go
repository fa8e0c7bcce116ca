package engine

// StreamType enumerates the kinds of stream a MediaFile can carry, per
// spec §4.6/§4.9.
type StreamType int

const (
	StreamVideo StreamType = iota
	StreamAudio
	StreamSubtitle
	StreamAttachment
)

func (t StreamType) keyword() string {
	switch t {
	case StreamVideo:
		return KWStreamTypeVideo
	case StreamAudio:
		return KWStreamTypeAudio
	case StreamSubtitle:
		return KWStreamTypeSubtitle
	case StreamAttachment:
		return KWStreamTypeAttachment
	default:
		return ""
	}
}

// FormatInfo is a MediaFile's file-level probe data, per spec §4.9.
type FormatInfo struct {
	Size     int64
	Duration float64
	BitRate  int64
}

// Stream is the external collaborator interface for a single stream
// within a MediaFile, per spec §4.9.
type Stream interface {
	Idx() int
	MediaFile() MediaFile
	StreamType() StreamType
	// Get returns a raw probe attribute by ffprobe-style key (e.g.
	// "codec_name", "width", "height", "bit_rate", "duration",
	// "bits_per_raw_sample"). ok is false if the key wasn't probed.
	Get(key string) (interface{}, bool)
}

// StreamCriteria filters MediaFile.Streams by type and, optionally, codec.
type StreamCriteria struct {
	Type  StreamType
	Codec string // empty means "any codec"
}

// MediaFile is the external collaborator interface to a probed media
// file, per spec §4.9.
type MediaFile interface {
	Path() string
	Streams() []Stream
	FormatInfo() FormatInfo
	HasChapters() bool
	GetStreams(criteria StreamCriteria) []Stream
}

// Encoder is the external collaborator interface to an FFmpeg-family
// encoder handle, per spec §4.9.
type Encoder interface {
	Executable() string
	Codec() string
	Spec() string
	Clone() Encoder
	SetParameters(kv map[string]string)
	SetRate(mode RateControlMode, bitrate string)
	// Args returns the current -c:v/-c:a and codec-parameter flags this
	// encoder contributes to an ffmpeg command line.
	Args() []string
	// PreferredContainer returns the file extension (without dot) this
	// codec is conventionally muxed into.
	PreferredContainer() string
}

// RateControlMode selects how Encoder.SetRate interprets its bitrate
// argument.
type RateControlMode int

const (
	RateControlCRF RateControlMode = iota
	RateControlVBR
	RateControlCBR
)

// StdioBundle captures a Command's captured standard streams, per spec
// §4.9's "execute() raising on non-zero exit, returning a std streams
// bundle".
type StdioBundle struct {
	Stdout string
	Stderr string
}

// Command is the external collaborator interface wrapping a subprocess
// invocation, per spec §4.9.
type Command interface {
	Execute() (StdioBundle, error)
}

// WorkingDirectory is the external collaborator interface to the
// per-target-file artifact directory, per spec §4.9.
type WorkingDirectory interface {
	// Cwd is the process current directory at WorkingDirectory
	// construction time.
	Cwd() string
	// NewFile returns a unique path for name within the working
	// directory.
	NewFile(name string) string
	// GetFile returns the path to an existing file named name within the
	// working directory.
	GetFile(name string) string
}
