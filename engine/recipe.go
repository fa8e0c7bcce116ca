package engine

import "gopkg.in/yaml.v3"

// Recipe is a validated, weak-parsed recipe document together with its
// resolved arguments, per spec §3's "Validated recipe" and "Resolved
// arguments".
type Recipe struct {
	// Root is the "recipe" subtree (KWRecipeRoot) after validation and
	// WeakLeafParse.
	Root Value

	argumentSpecs map[string]ArgumentSpec
	arguments     map[string]Value
	log           Logger
}

// ParseRecipeYAML decodes a YAML document into the document tree Value
// representation, per SPEC_FULL §2.10's recipe-decoding concern.
func ParseRecipeYAML(data []byte) (Value, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return Value{}, err
	}
	return ValueFromYAMLNode(&node)
}

// NewRecipe validates doc against the recipe schema, applies WeakLeafParse,
// and returns the bound Recipe. Returns a GrammarViolation-flavoured error
// only if the entire document was rejected (the normal case is the
// validator pruning subtrees and logging warnings, per spec §7's grammar
// violation policy).
func NewRecipe(doc Value, log Logger) (*Recipe, error) {
	if log == nil {
		log = NopLogger{}
	}
	validator := NewValidator(BuildRecipeSchema(), log)
	validated := validator.Validate(doc)
	if validated.Kind != KindMap {
		return nil, NewGrammarViolation(DictTreeRoot, "document did not validate against the recipe schema")
	}

	recipeNode, ok := validated.Map.Get(KWRecipeRoot)
	if !ok || recipeNode.Kind != KindMap {
		return nil, NewGrammarViolation(KWRecipeRoot, "missing or invalid recipe root")
	}

	parsed := WeakLeafParse(recipeNode)

	var argumentSpecs map[string]ArgumentSpec
	if argsNode, ok := parsed.Map.Get(KWRecipeArguments); ok {
		argumentSpecs = ParseArgumentSpecs(argsNode)
	} else {
		argumentSpecs = map[string]ArgumentSpec{}
	}

	return &Recipe{
		Root:          parsed,
		argumentSpecs: argumentSpecs,
		log:           log,
	}, nil
}

// LoadArguments resolves actual (user-supplied raw argument values) against
// the recipe's declared argument specs, per spec §4.5, and stores the
// result for later lookup via Argument.
func (r *Recipe) LoadArguments(actual map[string]string) error {
	resolved, err := ResolveArguments(r.argumentSpecs, actual, r.log)
	if err != nil {
		return err
	}
	r.arguments = resolved
	return nil
}

// Argument returns a resolved argument's value, if loaded and present.
func (r *Recipe) Argument(name string) (Value, bool) {
	v, ok := r.arguments[name]
	return v, ok
}

// Arguments returns the full resolved-argument map.
func (r *Recipe) Arguments() map[string]Value {
	return r.arguments
}

// ArgumentSpecs returns the recipe's declared argument specs, keyed by name.
func (r *Recipe) ArgumentSpecs() map[string]ArgumentSpec {
	return r.argumentSpecs
}

// ValidateInput checks media against this recipe's input admissibility
// rules, per spec §4.6.
func (r *Recipe) ValidateInput(media MediaFile) (bool, error) {
	root := NewOrderedMap()
	root.Set(KWRecipeRoot, r.Root)
	return ValidateInput(Map(root), media, r.log)
}

// OutputDirectory returns the recipe's declared output directory.
func (r *Recipe) OutputDirectory() string {
	return r.outputField(KWOutputDirectory)
}

// OutputSuffix returns the recipe's declared output filename suffix.
func (r *Recipe) OutputSuffix() string {
	return r.outputField(KWOutputSuffix)
}

func (r *Recipe) outputField(key string) string {
	output, ok := r.Root.Map.Get(KWRecipeOutput)
	if !ok || output.Kind != KindMap {
		return ""
	}
	v, ok := output.Map.Get(key)
	if !ok || v.Kind != KindString {
		return ""
	}
	return v.Str
}

// StreamProcessorNode returns the "stream-processor.<streamType>" subtree
// for the given stream type keyword, if declared.
func (r *Recipe) StreamProcessorNode(streamType string) (Value, bool) {
	sp, ok := r.Root.Map.Get(KWRecipeStreamProc)
	if !ok || sp.Kind != KindMap {
		return Value{}, false
	}
	return sp.Map.Get(streamType)
}

// PostProcessingNodes returns the recipe's "post-processing" list of
// single-key {case: ...} maps, per spec §4.3.
func (r *Recipe) PostProcessingNodes() []Value {
	pp, ok := r.Root.Map.Get(KWRecipePostProcessing)
	if !ok || pp.Kind != KindList {
		return nil
	}
	return pp.List
}
