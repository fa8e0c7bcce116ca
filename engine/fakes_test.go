package engine

// fakeStream and fakeMediaFile are minimal MediaFile/Stream test doubles,
// grounded on the teacher's test style of hand-built struct fixtures
// (streamer package tests construct Input/PipelineConfig literals directly
// rather than mocking).
type fakeStream struct {
	idx        int
	streamType StreamType
	mediaFile  *fakeMediaFile
	attrs      map[string]interface{}
}

func (s *fakeStream) Idx() int               { return s.idx }
func (s *fakeStream) MediaFile() MediaFile   { return s.mediaFile }
func (s *fakeStream) StreamType() StreamType { return s.streamType }
func (s *fakeStream) Get(key string) (interface{}, bool) {
	v, ok := s.attrs[key]
	return v, ok
}

type fakeMediaFile struct {
	path     string
	format   FormatInfo
	chapters bool
	streams  []*fakeStream
}

func (m *fakeMediaFile) Path() string          { return m.path }
func (m *fakeMediaFile) FormatInfo() FormatInfo { return m.format }
func (m *fakeMediaFile) HasChapters() bool     { return m.chapters }

func (m *fakeMediaFile) Streams() []Stream {
	out := make([]Stream, len(m.streams))
	for i, s := range m.streams {
		out[i] = s
	}
	return out
}

func (m *fakeMediaFile) GetStreams(criteria StreamCriteria) []Stream {
	var out []Stream
	for _, s := range m.streams {
		if s.streamType != criteria.Type {
			continue
		}
		if criteria.Codec != "" {
			codec, _ := s.attrs["codec_name"].(string)
			if codec != criteria.Codec {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

func newFakeVideoFile(path string, codecs ...string) *fakeMediaFile {
	mf := &fakeMediaFile{path: path, format: FormatInfo{Size: 1000, Duration: 10, BitRate: 500000}}
	for i, codec := range codecs {
		mf.streams = append(mf.streams, &fakeStream{
			idx:        i,
			streamType: StreamVideo,
			mediaFile:  mf,
			attrs:      map[string]interface{}{"codec_name": codec, "width": int64(1920), "height": int64(1080)},
		})
	}
	return mf
}

// fakeStep is a minimal ProcessingStep double used to exercise the sprint
// scheduler without shelling out to ffmpeg/mkvmerge.
type fakeStep struct {
	stepBase
	runFn func(*fakeStep) error
}

func (s *fakeStep) Verify() error { return nil }
func (s *fakeStep) Run() error    { return s.runFn(s) }
