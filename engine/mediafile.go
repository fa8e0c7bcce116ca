package engine

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// HermeticFFProbe is the ffprobe executable path, overridable the same way
// the teacher's streamer.HermeticFFProbe module variable is: set once by
// the CLI/config layer if the deployment bundles its own ffprobe binary.
var HermeticFFProbe = "ffprobe"

type ffprobeFormat struct {
	Size       string            `json:"size"`
	Duration   string            `json:"duration"`
	BitRate    string            `json:"bit_rate"`
	NbChapters string            `json:"-"`
	Tags       map[string]string `json:"tags"`
}

type ffprobeStream struct {
	Index            int    `json:"index"`
	CodecType        string `json:"codec_type"`
	CodecName        string `json:"codec_name"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	BitRate          string `json:"bit_rate"`
	Duration         string `json:"duration"`
	BitsPerRawSample string `json:"bits_per_raw_sample"`
	AttachedPic      int    `json:"attached_pic"`
}

type ffprobeOutput struct {
	Format   ffprobeFormat   `json:"format"`
	Streams  []ffprobeStream `json:"streams"`
	Chapters []struct {
		ID int `json:"id"`
	} `json:"chapters"`
}

// ProbedMediaFile is the concrete MediaFile, populated by running ffprobe
// once per file and parsing its JSON report. Adapted from the teacher's
// streamer.probe() idiom (invoke the configured ffprobe executable via
// exec.Command, tolerate absent fields) generalized from single-field
// "-show_entries" queries to a single "-show_format -show_streams -of
// json" probe, since the engine needs comprehensive per-stream metadata
// rather than one autodetected property at a time.
type ProbedMediaFile struct {
	path    string
	format  FormatInfo
	chapter bool
	streams []*probedStream
}

type probedStream struct {
	idx        int
	streamType StreamType
	mediaFile  *ProbedMediaFile
	attrs      map[string]interface{}
}

func (s *probedStream) Idx() int                { return s.idx }
func (s *probedStream) MediaFile() MediaFile    { return s.mediaFile }
func (s *probedStream) StreamType() StreamType  { return s.streamType }
func (s *probedStream) Get(key string) (interface{}, bool) {
	v, ok := s.attrs[key]
	return v, ok
}

// ProbeMediaFile runs ffprobe against path and builds a ProbedMediaFile.
func ProbeMediaFile(path string) (*ProbedMediaFile, error) {
	args := []string{
		HermeticFFProbe,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		"-show_chapters",
		path,
	}
	cmd := exec.Command(args[0], args[1:]...)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed on %s: %w", path, err)
	}

	var parsed ffprobeOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, fmt.Errorf("ffprobe produced unparseable JSON for %s: %w", path, err)
	}

	mf := &ProbedMediaFile{
		path: path,
		format: FormatInfo{
			Size:     parseInt64(parsed.Format.Size),
			Duration: parseFloat(parsed.Format.Duration),
			BitRate:  parseInt64(parsed.Format.BitRate),
		},
		chapter: len(parsed.Chapters) > 0,
	}

	for _, s := range parsed.Streams {
		st, ok := streamTypeFromFFprobe(s.CodecType, s.AttachedPic)
		if !ok {
			continue
		}
		attrs := map[string]interface{}{
			"codec_name": s.CodecName,
		}
		if s.Width > 0 {
			attrs["width"] = int64(s.Width)
		}
		if s.Height > 0 {
			attrs["height"] = int64(s.Height)
		}
		if br := parseInt64(s.BitRate); br > 0 {
			attrs["bit_rate"] = br
		}
		if d := parseFloat(s.Duration); d > 0 {
			attrs["duration"] = d
		}
		if bps := parseInt64(s.BitsPerRawSample); bps > 0 {
			attrs["bits_per_raw_sample"] = bps
		}
		if s.Width > 0 && s.Height > 0 && attrs["bit_rate"] != nil {
			pixels := float64(s.Width * s.Height)
			if pixels > 0 {
				attrs["bits_per_pixel_per_frame"] = float64(attrs["bit_rate"].(int64)) / pixels
			}
		}
		attrs["size"] = mf.format.Size

		mf.streams = append(mf.streams, &probedStream{
			idx:        s.Index,
			streamType: st,
			mediaFile:  mf,
			attrs:      attrs,
		})
	}

	return mf, nil
}

func streamTypeFromFFprobe(codecType string, attachedPic int) (StreamType, bool) {
	switch strings.ToLower(codecType) {
	case "video":
		if attachedPic == 1 {
			return StreamAttachment, true
		}
		return StreamVideo, true
	case "audio":
		return StreamAudio, true
	case "subtitle":
		return StreamSubtitle, true
	case "attachment":
		return StreamAttachment, true
	default:
		return 0, false
	}
}

func parseInt64(s string) int64 {
	v, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return v
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

func (m *ProbedMediaFile) Path() string          { return m.path }
func (m *ProbedMediaFile) FormatInfo() FormatInfo { return m.format }
func (m *ProbedMediaFile) HasChapters() bool      { return m.chapter }

func (m *ProbedMediaFile) Streams() []Stream {
	out := make([]Stream, len(m.streams))
	for i, s := range m.streams {
		out[i] = s
	}
	return out
}

func (m *ProbedMediaFile) GetStreams(criteria StreamCriteria) []Stream {
	var out []Stream
	for _, s := range m.streams {
		if s.streamType != criteria.Type {
			continue
		}
		if criteria.Codec != "" {
			if codec, ok := s.attrs["codec_name"].(string); !ok || codec != criteria.Codec {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}
