package engine

import (
	"context"
	"fmt"
	"strconv"
)

// stream-processor processor names this engine understands, per SPEC_FULL
// §4.11: a stream-processor config's "processor" field selects one of
// these, generalizing step.py's three concrete ProcessingStep subclasses
// into named, parameter-driven processors a recipe can pick between (e.g.
// via a "case" branch keyed on probed quality data points).
const (
	ProcessorFFmpegSimple = "ffmpeg-simple"
	ProcessorFFmpeg2Pass  = "ffmpeg-2pass"
)

// Post-processing processor names, per SPEC_FULL §4.11/§4.12.
const (
	ProcessorMuxMKV = "mux-mkv"
	ProcessorUpload = "upload"
)

// Binaries bundles the external executable paths the driver wires into the
// steps and commands it builds.
type Binaries struct {
	FFmpeg   string
	Mkvmerge string
}

// RunResult is what ExecuteRecipe returns: the per-stream-type transcoded
// outputs, plus whatever post-processing produced (e.g. a final muxed
// file).
type RunResult struct {
	StreamOutputs  []MediaFile
	MuxedOutput    MediaFile
	UploadedOutput string
}

// ExecuteRecipe runs a validated, argument-loaded Recipe against one
// admitted media file end to end: resolve each declared stream type's
// processor config, build and schedule the corresponding processing
// steps, then run post-processing, per spec §2's top-level pipeline
// (normalize → gatekeep → select configs → schedule steps → post-process).
func ExecuteRecipe(ctx context.Context, recipe *Recipe, media MediaFile, wd WorkingDirectory, bin Binaries, log Logger) (*RunResult, error) {
	if log == nil {
		log = NopLogger{}
	}

	admissible, err := recipe.ValidateInput(media)
	if err != nil {
		return nil, err
	}
	if !admissible {
		return nil, NewInputRejected(media.Path(), "recipe.input")
	}

	condCtx := NewConditionContext(recipe.Arguments(), media)

	var initialSteps []ProcessingStep
	for _, st := range []StreamType{StreamVideo, StreamAudio, StreamSubtitle, StreamAttachment} {
		node, ok := recipe.StreamProcessorNode(st.keyword())
		if !ok {
			continue
		}
		streams := media.GetStreams(StreamCriteria{Type: st})
		if len(streams) == 0 {
			continue
		}

		cfg, ok := ResolveStreamProcessorConfig(node, condCtx)
		if !ok {
			return nil, NewParameterValidationError("stream-processor."+st.keyword(), "no matching case branch and no default")
		}

		for _, stream := range streams {
			step, err := buildStreamStep(ctx, cfg, stream, bin, wd, log)
			if err != nil {
				return nil, err
			}
			initialSteps = append(initialSteps, step)
		}
	}

	var result RunResult
	if len(initialSteps) > 0 {
		outputs, err := RunSprints(log, initialSteps...)
		if err != nil {
			return nil, err
		}
		result.StreamOutputs = outputs
	}

	for _, ppNode := range recipe.PostProcessingNodes() {
		if err := runPostProcessing(ctx, ppNode, condCtx, &result, bin, wd, log); err != nil {
			return nil, err
		}
	}

	return &result, nil
}

func buildStreamStep(ctx context.Context, cfg StreamProcessorConfig, stream Stream, bin Binaries, wd WorkingDirectory, log Logger) (ProcessingStep, error) {
	codec := stringParam(cfg.Parameters, "codec")
	if codec == "" {
		return nil, NewMissingArgumentError("codec")
	}

	switch cfg.Processor {
	case ProcessorFFmpegSimple:
		enc := NewFFmpegEncoder(bin.FFmpeg, codec)
		applyEncoderParameters(enc, cfg.Parameters)
		return NewFFmpegTranscodeStep(ctx, stream, enc, extraArgsParam(cfg.Parameters), wd, log)

	case ProcessorFFmpeg2Pass:
		targetBitrate := stringParam(cfg.Parameters, "target-bitrate")
		if targetBitrate == "" {
			return nil, NewMissingArgumentError("target-bitrate")
		}
		enc := NewFFmpegEncoder(bin.FFmpeg, codec)
		applyEncoderParameters(enc, cfg.Parameters)
		return NewFFmpegTwoPassStep(ctx, stream, enc, targetBitrate, extraArgsParam(cfg.Parameters), "", wd, log)

	default:
		return nil, NewParameterValidationError("stream-processor", fmt.Sprintf("unknown processor %q", cfg.Processor))
	}
}

func applyEncoderParameters(enc Encoder, params map[string]Value) {
	kv := map[string]string{}
	for key, v := range params {
		switch key {
		case "codec", "target-bitrate", "crf", "bitrate", "extra-args":
			continue
		default:
			if s, ok := scalarAsString(v); ok {
				kv[key] = s
			}
		}
	}
	if len(kv) > 0 {
		enc.SetParameters(kv)
	}
	if crf := stringParam(params, "crf"); crf != "" {
		enc.SetRate(RateControlCRF, crf)
	} else if bitrate := stringParam(params, "bitrate"); bitrate != "" {
		enc.SetRate(RateControlVBR, bitrate)
	}
}

func extraArgsParam(params map[string]Value) []string {
	v, ok := params["extra-args"]
	if !ok || v.Kind != KindList {
		return nil
	}
	out := make([]string, 0, len(v.List))
	for _, item := range v.List {
		if s, ok := scalarAsString(item); ok {
			out = append(out, s)
		}
	}
	return out
}

func stringParam(params map[string]Value, key string) string {
	v, ok := params[key]
	if !ok {
		return ""
	}
	s, _ := scalarAsString(v)
	return s
}

func scalarAsString(v Value) (string, bool) {
	switch v.Kind {
	case KindString:
		return v.Str, true
	case KindInt:
		return strconv.Itoa(int(v.Int)), true
	case KindBool:
		if v.Bool {
			return "true", true
		}
		return "false", true
	default:
		return "", false
	}
}

func runPostProcessing(ctx context.Context, ppNode Value, condCtx ConditionContext, result *RunResult, bin Binaries, wd WorkingDirectory, log Logger) error {
	if ppNode.Kind != KindMap {
		return nil
	}
	caseNode, ok := ppNode.Map.Get(KWCFCase)
	if !ok {
		return nil
	}
	chosen, ok := EvaluateCase(caseNode, condCtx)
	if !ok {
		return nil
	}
	processorName, ok := chosen.Map.Get(KWProcessor)
	if !ok || processorName.Kind != KindString {
		return NewParameterValidationError("post-processing", "missing processor")
	}
	params := map[string]Value{}
	if p, ok := chosen.Map.Get(KWProcessorParameters); ok && p.Kind == KindMap {
		for _, k := range p.Map.Keys() {
			v, _ := p.Map.Get(k)
			params[k] = v
		}
	}

	switch processorName.Str {
	case ProcessorMuxMKV:
		return runMuxMKV(ctx, result, params, bin, wd, log)
	case ProcessorUpload:
		return runUpload(ctx, result, params)
	default:
		return NewParameterValidationError("post-processing", fmt.Sprintf("unknown processor %q", processorName.Str))
	}
}

func runMuxMKV(ctx context.Context, result *RunResult, params map[string]Value, bin Binaries, wd WorkingDirectory, log Logger) error {
	if len(result.StreamOutputs) == 0 {
		return NewParameterValidationError(ProcessorMuxMKV, "no stream outputs to mux")
	}

	var inputs []Stream
	for _, mf := range result.StreamOutputs {
		inputs = append(inputs, mf.Streams()...)
	}

	mode := MKVMergeModeMerge
	if stringParam(params, "mode") == "join" {
		mode = MKVMergeModeJoin
	}

	outputName := stringParam(params, "output-name")
	if outputName == "" {
		outputName = "output.mkv"
	}
	output := wd.NewFile(outputName)

	step, err := NewMKVMergeStep(ctx, bin.Mkvmerge, inputs, output, mode, wd, log)
	if err != nil {
		return err
	}
	if err := step.Run(); err != nil {
		return err
	}
	res, err := step.Result()
	if err != nil {
		return err
	}
	result.MuxedOutput = res.OutputMediaFile
	return nil
}

func runUpload(ctx context.Context, result *RunResult, params map[string]Value) error {
	destination := stringParam(params, "destination")
	if destination == "" {
		return NewParameterValidationError(ProcessorUpload, "missing destination")
	}
	storageClass := stringParam(params, "storage-class")

	source := result.MuxedOutput
	if source == nil && len(result.StreamOutputs) > 0 {
		source = result.StreamOutputs[0]
	}
	if source == nil {
		return NewParameterValidationError(ProcessorUpload, "nothing produced to upload")
	}

	uploader, err := NewUploadProcessor(ctx, destination, storageClass)
	if err != nil {
		return err
	}
	if err := uploader.Upload(ctx, source.Path()); err != nil {
		return err
	}
	result.UploadedOutput = destination
	return nil
}
