package engine

// dataPointValue is the result of probing one data point: either a single
// scalar (file-level, or a stream-level attribute shared by all matching
// streams) or a set of scalars (one per matching stream), mirroring
// recipe.py's mix of plain values and sets in stream_info.
type dataPointValue struct {
	isSet  bool
	scalar Value
	set    []Value
}

func scalarDP(v Value) dataPointValue     { return dataPointValue{scalar: v} }
func setDP(vs []Value) dataPointValue     { return dataPointValue{isSet: true, set: vs} }

// weakParseDP applies WeakParse across a dataPointValue.
func weakParseDP(dp dataPointValue) dataPointValue {
	if dp.isSet {
		out := make([]Value, len(dp.set))
		for i, v := range dp.set {
			out[i] = WeakParse(v)
		}
		return setDP(out)
	}
	return scalarDP(WeakParse(dp.scalar))
}

// VerifyRule evaluates a single-entry admissibility rule {datapoint: spec}
// against probed info, per spec §4.6. A missing datapoint in info does not
// invalidate (returns true); an active specifier that the data fails does.
func VerifyRule(datapoint string, spec Value, info map[string]dataPointValue) bool {
	raw, ok := info[datapoint]
	if !ok {
		return true
	}
	dp := weakParseDP(raw)

	if spec.Kind != KindMap {
		// Bare scalar equality.
		target := WeakParse(spec)
		if dp.isSet {
			for _, v := range dp.set {
				if !v.Equal(target) {
					return false
				}
			}
			return true
		}
		return dp.scalar.Equal(target)
	}

	for _, key := range spec.Map.Keys() {
		specVal, _ := spec.Map.Get(key)
		switch key {
		case KWDPSMax:
			limit := WeakParse(specVal)
			if dp.isSet {
				for _, v := range dp.set {
					if numericLess(limit, v) {
						return false
					}
				}
			} else if numericLess(limit, dp.scalar) {
				return false
			}
		case KWDPSMin:
			limit := WeakParse(specVal)
			if dp.isSet {
				for _, v := range dp.set {
					if numericLess(v, limit) {
						return false
					}
				}
			} else if numericLess(dp.scalar, limit) {
				return false
			}
		case KWDPSBlacklist:
			list := weakParseList(specVal)
			if dp.isSet {
				for _, v := range dp.set {
					if valueInList(v, list) {
						return false
					}
				}
			} else if valueInList(dp.scalar, list) {
				return false
			}
		case KWDPSWhitelist:
			list := weakParseList(specVal)
			if dp.isSet {
				for _, v := range dp.set {
					if !valueInList(v, list) {
						return false
					}
				}
			} else if !valueInList(dp.scalar, list) {
				return false
			}
		}
	}
	return true
}

func weakParseList(v Value) []Value {
	switch v.Kind {
	case KindList:
		out := make([]Value, len(v.List))
		for i, item := range v.List {
			out[i] = WeakParse(item)
		}
		return out
	default:
		return []Value{WeakParse(v)}
	}
}

func valueInList(v Value, list []Value) bool {
	for _, item := range list {
		if v.Equal(item) {
			return true
		}
	}
	return false
}

func numericLess(a, b Value) bool {
	af, aok := asNumeric(a)
	bf, bok := asNumeric(b)
	if !aok || !bok {
		return false
	}
	return af < bf
}

func asNumeric(v Value) (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.Int), true
	case KindFloat:
		return v.Flt, true
	default:
		return 0, false
	}
}

// ProbeFileInfo builds the file-level data-point map for a MediaFile, per
// spec §4.6.
func ProbeFileInfo(media MediaFile) map[string]dataPointValue {
	fi := media.FormatInfo()
	ext := extensionOf(media.Path())
	return map[string]dataPointValue{
		KWDPExtension:   scalarDP(String(ext)),
		KWDPSize:        scalarDP(Int(fi.Size)),
		KWDPDuration:    scalarDP(Float(fi.Duration)),
		KWDPNbStreams:   scalarDP(Int(int64(len(media.Streams())))),
		KWDPBitrate:     scalarDP(Int(fi.BitRate)),
		KWDPHasChapters: scalarDP(Bool(media.HasChapters())),
	}
}

func extensionOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[i+1:]
		}
		if path[i] == '/' {
			break
		}
	}
	return ""
}

// ProbeStreamTypeInfo aggregates per-stream data points for every stream of
// the given type, per spec §4.6's video/audio/subtitle/attachment
// projections.
func ProbeStreamTypeInfo(media MediaFile, streamType StreamType) map[string]dataPointValue {
	streams := media.GetStreams(StreamCriteria{Type: streamType})
	info := map[string]dataPointValue{
		KWDPNbStreams: scalarDP(Int(int64(len(streams)))),
		KWDPCodec:     setDP(collectStringAttr(streams, "codec_name")),
	}
	if streamType == StreamVideo || streamType == StreamAudio {
		info[KWDPSize] = setDP(collectIntAttr(streams, "size"))
		info[KWDPDuration] = setDP(collectFloatAttr(streams, "duration"))
		info[KWDPBitrate] = setDP(collectIntAttr(streams, "bit_rate"))
	}
	if streamType == StreamVideo {
		info[KWDPWidth] = setDP(collectIntAttr(streams, "width"))
		info[KWDPHeight] = setDP(collectIntAttr(streams, "height"))
		info[KWDPQualityIndex] = setDP(collectFloatAttr(streams, "bits_per_pixel_per_frame"))
		info[KWDPBitDepth] = setDP(collectIntAttr(streams, "bits_per_raw_sample"))
	}
	return info
}

func collectStringAttr(streams []Stream, key string) []Value {
	out := make([]Value, 0, len(streams))
	for _, s := range streams {
		if v, ok := s.Get(key); ok {
			if str, ok := v.(string); ok {
				out = append(out, String(str))
			}
		}
	}
	return out
}

func collectIntAttr(streams []Stream, key string) []Value {
	out := make([]Value, 0, len(streams))
	for _, s := range streams {
		if v, ok := s.Get(key); ok {
			switch n := v.(type) {
			case int64:
				out = append(out, Int(n))
			case int:
				out = append(out, Int(int64(n)))
			}
		}
	}
	return out
}

func collectFloatAttr(streams []Stream, key string) []Value {
	out := make([]Value, 0, len(streams))
	for _, s := range streams {
		if v, ok := s.Get(key); ok {
			switch n := v.(type) {
			case float64:
				out = append(out, Float(n))
			case int64:
				out = append(out, Float(float64(n)))
			}
		}
	}
	return out
}

// ValidateInput checks a candidate media file against a validated recipe's
// input rules, per spec §4.6. It returns (true, nil) if admissible,
// (false, nil) if a rule rejected the file (InputRejected is only
// returned wrapped for callers that want the rejecting rule's identity).
func ValidateInput(recipeRoot Value, media MediaFile, log Logger) (bool, error) {
	if log == nil {
		log = NopLogger{}
	}
	recipeSection, ok := recipeRoot.Map.Get(KWRecipeRoot)
	if !ok {
		return false, NewParameterValidationError("recipe", "missing recipe root")
	}
	inputRule, ok := recipeSection.Map.Get(KWRecipeInput)
	if !ok || inputRule.Kind != KindMap {
		return true, nil
	}

	fileInfo := ProbeFileInfo(media)

	for _, key := range inputRule.Map.Keys() {
		rule, _ := inputRule.Map.Get(key)

		if key == KWStreamTypeRoot {
			if rule.Kind != KindMap {
				continue
			}
			for _, streamTypeName := range rule.Map.Keys() {
				streamRules, _ := rule.Map.Get(streamTypeName)
				if streamRules.Kind != KindMap {
					continue
				}
				streamType := streamTypeFromKeyword(streamTypeName)
				info := ProbeStreamTypeInfo(media, streamType)
				for _, dp := range streamRules.Map.Keys() {
					spec, _ := streamRules.Map.Get(dp)
					if !VerifyRule(dp, spec, info) {
						log.Warnf("file %s invalidated by rule streams.%s.%s", media.Path(), streamTypeName, dp)
						return false, nil
					}
				}
			}
			continue
		}

		if !VerifyRule(key, rule, fileInfo) {
			log.Warnf("file %s invalidated by rule %s", media.Path(), key)
			return false, nil
		}
	}

	return true, nil
}

func streamTypeFromKeyword(kw string) StreamType {
	switch kw {
	case KWStreamTypeVideo:
		return StreamVideo
	case KWStreamTypeAudio:
		return StreamAudio
	case KWStreamTypeSubtitle:
		return StreamSubtitle
	case KWStreamTypeAttachment:
		return StreamAttachment
	default:
		return StreamVideo
	}
}
