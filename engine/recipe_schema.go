package engine

// Recipe keyword constants, carried over verbatim from the recipe
// language's KW_* constants so the grammar schema below reads the same way
// the recipe documents themselves do.
const (
	KWSpecVersion = "recode-engine"

	KWRecipeRoot           = "recipe"
	KWRecipeInput          = "input"
	KWRecipeArguments      = "arguments"
	KWRecipeStreamProc     = "stream-processor"
	KWRecipePostProcessing = "post-processing"
	KWRecipeOutput         = "output"

	KWStreamTypeRoot       = "streams"
	KWStreamTypeVideo      = "video"
	KWStreamTypeAudio      = "audio"
	KWStreamTypeSubtitle   = "subtitle"
	KWStreamTypeAttachment = "attachment"

	KWArgumentType     = "type"
	KWArgumentValues   = "values"
	KWArgumentRequired = "required"

	KWCFCase = "case"
	KWCFIf   = "if"
	KWCFThen = "then"

	KWDefault = "default"

	KWDPExtension    = "extension"
	KWDPSize         = "size"
	KWDPDuration     = "duration"
	KWDPNbStreams    = "nb-streams"
	KWDPWidth        = "width"
	KWDPHeight       = "height"
	KWDPBitDepth     = "bit-depth"
	KWDPBitrate      = "bitrate"
	KWDPCodec        = "codec"
	KWDPHasChapters  = "has-chapters"
	KWDPQualityIndex = "quality-index"

	KWDPSMax       = "max"
	KWDPSMin       = "min"
	KWDPSBlacklist = "blacklist"
	KWDPSWhitelist = "whitelist"

	KWOutputDirectory = "directory"
	KWOutputSuffix    = "suffix"

	KWProcessor           = "processor"
	KWProcessorParameters = "parameters"
)

// Keyword sets used both by the schema below and by the admissibility
// evaluator, mirroring recipe.py's ALL_* constants.
var (
	AllDPSpecifiers = NewSet(KWDPSMax, KWDPSMin, KWDPSBlacklist, KWDPSWhitelist)

	AllFileDataPoints = NewSet(
		KWDPExtension, KWDPSize, KWDPDuration, KWDPNbStreams, KWDPBitrate, KWDPHasChapters,
	)

	AllStreamTypes = NewSet(
		KWStreamTypeVideo, KWStreamTypeAudio, KWStreamTypeSubtitle, KWStreamTypeAttachment,
	)

	AllGenericStreamDP = NewSet(KWDPNbStreams, KWDPCodec)

	AllAVStreamDP = AllGenericStreamDP.Union(NewSet(KWDPSize, KWDPDuration, KWDPBitrate))

	AllVideoDP = AllAVStreamDP.Union(NewSet(KWDPWidth, KWDPHeight, KWDPQualityIndex, KWDPBitDepth))

	// StreamTypeFilterDP maps a stream type to the data points its
	// admissibility rules may reference, per §4.6.
	StreamTypeFilterDP = map[string]Set{
		KWStreamTypeVideo:      AllVideoDP,
		KWStreamTypeAudio:      AllAVStreamDP,
		KWStreamTypeSubtitle:   AllGenericStreamDP,
		KWStreamTypeAttachment: AllGenericStreamDP,
	}

	// ArgumentTypeNames are the allowed values of an argument spec's
	// "type" field.
	ArgumentTypeNames = NewSet("str", "int", "float", "bool")
)

// BuildRecipeSchema returns the fixed grammar schema for the recipe
// language, per spec §4.3. It is a method value (not a package var) so
// every Validator gets fresh GrammarRule closures; the rules themselves
// are stateless and safe to share, but keeping construction explicit
// avoids any accidental cross-validator usage-tracking leakage.
func BuildRecipeSchema() GrammarSchema {
	var g Grammar

	streamProcessorGrammar := []GrammarRule{
		g.AllOf(NewSet(KWProcessor)),
		g.AllOf(NewSet(KWProcessorParameters)),
	}

	caseStructure := g.NonterminalCollection(NonterminalOpts{
		AllowedItems: NewSet(KWDefault, KWCFIf),
	})

	schema := GrammarSchema{
		DictTreeRoot: g.AllOf(NewSet(KWSpecVersion, KWRecipeRoot)),

		KWSpecVersion: g.TerminalVariable(),

		KWRecipeRoot: g.Combine(
			g.AllOf(NewSet(KWRecipeInput, KWRecipeStreamProc, KWRecipePostProcessing, KWRecipeOutput)),
			g.AnyOf(NewSet(KWRecipeArguments)),
		),

		KWRecipeInput: g.AnyOf(AllFileDataPoints.Union(NewSet(KWStreamTypeRoot))),

		KWStreamTypeRoot:       g.AtLeast1Of(AllStreamTypes),
		KWStreamTypeVideo:      g.AtLeast1Of(AllVideoDP),
		KWStreamTypeAudio:      g.AtLeast1Of(AllAVStreamDP),
		KWStreamTypeSubtitle:   g.AtLeast1Of(AllGenericStreamDP),
		KWStreamTypeAttachment: g.AtLeast1Of(AllGenericStreamDP),

		KWDPExtension:    g.AtLeast1Of(AllDPSpecifiers),
		KWDPSize:         g.AtLeast1Of(AllDPSpecifiers),
		KWDPDuration:     g.AtLeast1Of(AllDPSpecifiers),
		KWDPNbStreams:    g.AtLeast1Of(AllDPSpecifiers),
		KWDPHeight:       g.AtLeast1Of(AllDPSpecifiers),
		KWDPWidth:        g.AtLeast1Of(AllDPSpecifiers),
		KWDPBitrate:      g.AtLeast1Of(AllDPSpecifiers),
		KWDPCodec:        g.AtLeast1Of(AllDPSpecifiers),
		KWDPHasChapters:  g.TerminalVariable(Terminal(KindBool)),
		KWDPQualityIndex: g.AtLeast1Of(AllDPSpecifiers),

		KWRecipeArguments: g.Any(),
		KWRecipeArguments + ".*": g.Combine(
			g.AllOf(NewSet(KWArgumentType, KWArgumentRequired, KWDefault)),
			g.AnyOf(AllDPSpecifiers),
		),
		KWRecipeArguments + ".*." + KWArgumentType: g.TerminalVariable(
			Terminal(KindString).WithAllowedValues(ArgumentTypeNames),
		),
		KWRecipeArguments + ".*." + KWArgumentValues:   g.TerminalCollection(CollectionOpts{Kind: KindString}),
		KWRecipeArguments + ".*." + KWArgumentRequired: g.TerminalVariable(Terminal(KindBool)),
		KWRecipeArguments + ".*." + KWDefault:          g.TerminalVariable(),

		KWDefault: g.Combine(streamProcessorGrammar...),

		KWRecipeStreamProc: g.AtLeast1Of(AllStreamTypes),
		KWRecipeStreamProc + ".*": g.Combine(
			append(append([]GrammarRule{}, streamProcessorGrammar...), g.AllOf(NewSet(KWCFCase)))...,
		),

		KWCFCase: caseStructure,
		KWCFIf:   g.Combine(g.AllOf(NewSet(KWCFThen)), g.Any()),
		KWCFThen: g.Combine(streamProcessorGrammar...),

		KWRecipePostProcessing: g.NonterminalCollection(NonterminalOpts{AllowedItems: NewSet(KWCFCase)}),

		KWRecipeOutput:    g.AllOf(NewSet(KWOutputDirectory, KWOutputSuffix)),
		KWOutputDirectory: g.TerminalVariable(Terminal(KindString)),
		KWOutputSuffix:    g.TerminalVariable(Terminal(KindString)),

		KWDPSMax: g.TerminalVariable(),
		KWDPSMin: g.TerminalVariable(),
		KWDPSBlacklist: g.Combine(
			g.TerminalCollection(CollectionOpts{Kind: KindString}),
			g.TerminalVariable(Terminal(KindString)),
		),
		KWDPSWhitelist: g.Combine(
			g.TerminalCollection(CollectionOpts{Kind: KindString}),
			g.TerminalVariable(Terminal(KindString)),
		),

		KWProcessor:           g.TerminalVariable(Terminal(KindString)),
		KWProcessorParameters: g.Any(),
		KWProcessorParameters + ".*": g.TerminalVariable(),
	}

	return schema
}
