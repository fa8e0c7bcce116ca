package engine

// ConditionContext is the read-only bag an `if` branch condition is
// evaluated against, per SPEC_FULL §4.11: resolved arguments plus the
// admitted input's file-level data points.
type ConditionContext map[string]dataPointValue

// NewConditionContext builds a ConditionContext from resolved arguments and
// a probed media file.
func NewConditionContext(arguments map[string]Value, media MediaFile) ConditionContext {
	ctx := ConditionContext{}
	for name, v := range arguments {
		ctx[name] = scalarDP(v)
	}
	for dp, v := range ProbeFileInfo(media) {
		ctx[dp] = v
	}
	return ctx
}

// EvaluateCase selects a stream-processor config {processor, parameters}
// out of a `case` node (a list of single-key {default: ...} / {if: ...}
// maps) per SPEC_FULL §4.11: branches are tried in document order; an
// `if` branch's non-"then" keys are condition fields evaluated the same
// way input-admissibility rules are (VerifyRule), and the first branch
// whose conditions all pass wins. If no `if` branch matches, the
// `default` branch is used. Returns (processorConfig, true) on a match.
func EvaluateCase(caseNode Value, ctx ConditionContext) (Value, bool) {
	if caseNode.Kind != KindList {
		return Value{}, false
	}

	var defaultConfig Value
	haveDefault := false

	for _, entry := range caseNode.List {
		if entry.Kind != KindMap || entry.Map.Len() != 1 {
			continue
		}
		key := entry.Map.Keys()[0]
		value, _ := entry.Map.Get(key)

		switch key {
		case KWDefault:
			defaultConfig = value
			haveDefault = true

		case KWCFIf:
			if value.Kind != KindMap {
				continue
			}
			then, hasThen := value.Map.Get(KWCFThen)
			if !hasThen {
				continue
			}
			if conditionMatches(value, ctx) {
				return then, true
			}
		}
	}

	if haveDefault {
		return defaultConfig, true
	}
	return Value{}, false
}

// conditionMatches evaluates every key of an `if` node other than "then"
// as a {datapoint: spec} admissibility-style rule against ctx, requiring
// all to pass.
func conditionMatches(ifNode Value, ctx ConditionContext) bool {
	for _, key := range ifNode.Map.Keys() {
		if key == KWCFThen {
			continue
		}
		spec, _ := ifNode.Map.Get(key)
		if !VerifyRule(key, spec, ctx) {
			return false
		}
	}
	return true
}

// StreamProcessorConfig is the materialised {processor, parameters} chosen
// for a stream type, per spec §3.
type StreamProcessorConfig struct {
	Processor  string
	Parameters map[string]Value
}

// ResolveStreamProcessorConfig selects and decodes the stream-processor
// config for a given stream type node (which carries "processor",
// "parameters", and "case"), per spec §4.3's `stream-processor.*`
// grammar: the "case" subtree is evaluated to possibly override processor
// and parameters declared at the outer level, with the outer level's own
// processor/parameters acting as the structural default instance.
func ResolveStreamProcessorConfig(node Value, ctx ConditionContext) (StreamProcessorConfig, bool) {
	if node.Kind != KindMap {
		return StreamProcessorConfig{}, false
	}

	chosen := node
	if caseNode, ok := node.Map.Get(KWCFCase); ok {
		if selected, matched := EvaluateCase(caseNode, ctx); matched {
			chosen = selected
		}
	}

	processorName, ok := chosen.Map.Get(KWProcessor)
	if !ok || processorName.Kind != KindString {
		return StreamProcessorConfig{}, false
	}

	params := map[string]Value{}
	if p, ok := chosen.Map.Get(KWProcessorParameters); ok && p.Kind == KindMap {
		for _, k := range p.Map.Keys() {
			v, _ := p.Map.Get(k)
			params[k] = v
		}
	}

	return StreamProcessorConfig{Processor: processorName.Str, Parameters: params}, true
}
