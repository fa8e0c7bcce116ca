// Command recode-engine runs or validates a recipe against a media file,
// per SPEC_FULL §6.1.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/koodeyo-media/recode-engine-go/engine"
	"github.com/spf13/cobra"
)

var (
	recipePath  string
	inputPath   string
	configPath  string
	rawArgs     []string
	quiet       bool
	debugLogs   bool
)

var rootCmd = &cobra.Command{
	Use:   "recode-engine",
	Short: "A declarative media transcoding orchestrator",
	Long: `recode-engine evaluates a recipe document against a media file, selects
stream-processor configurations, and schedules the transcoding steps they
describe.`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a recipe against an input media file",
	RunE:  runRun,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a recipe document without running it",
	RunE:  runValidate,
}

func main() {
	runCmd.Flags().StringVar(&recipePath, "recipe", "", "path to the recipe YAML file (required)")
	runCmd.Flags().StringVar(&inputPath, "input", "", "path to the input media file (required)")
	runCmd.Flags().StringVar(&configPath, "config", "", "path to an engine configuration YAML file (optional)")
	runCmd.Flags().StringArrayVar(&rawArgs, "arg", nil, "recipe argument as key=value (repeatable)")
	runCmd.MarkFlagRequired("recipe")
	runCmd.MarkFlagRequired("input")

	validateCmd.Flags().StringVar(&recipePath, "recipe", "", "path to the recipe YAML file (required)")
	validateCmd.MarkFlagRequired("recipe")

	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress informational log output")
	rootCmd.PersistentFlags().BoolVar(&debugLogs, "debug", false, "enable debug-level log output")

	rootCmd.AddCommand(runCmd, validateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*engine.EngineConfig, error) {
	if configPath == "" {
		cfg, err := engine.NewDefaultEngineConfig()
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", configPath, err)
	}
	return engine.LoadEngineConfig(data)
}

func loadRecipe(log engine.Logger) (*engine.Recipe, error) {
	data, err := os.ReadFile(recipePath)
	if err != nil {
		return nil, fmt.Errorf("reading recipe %s: %w", recipePath, err)
	}
	doc, err := engine.ParseRecipeYAML(data)
	if err != nil {
		return nil, fmt.Errorf("parsing recipe %s: %w", recipePath, err)
	}
	return engine.NewRecipe(doc, log)
}

func parseArgFlags(raw []string) (map[string]string, error) {
	out := map[string]string{}
	for _, kv := range raw {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid --arg %q, expected key=value", kv)
		}
		out[parts[0]] = parts[1]
	}
	return out, nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Quiet, cfg.DebugLogs = quiet, debugLogs
	log := cfg.Logger()

	recipe, err := loadRecipe(log)
	if err != nil {
		return err
	}
	fmt.Printf("recipe %s is valid; %d argument(s) declared\n\n", recipePath, len(recipe.ArgumentSpecs()))
	fmt.Print(recipe.Root.Dump(0))
	return nil
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Quiet, cfg.DebugLogs = quiet, debugLogs
	cfg.ApplyBinaryPaths()
	log := cfg.Logger()

	recipe, err := loadRecipe(log)
	if err != nil {
		return err
	}

	actualArgs, err := parseArgFlags(rawArgs)
	if err != nil {
		return err
	}
	if err := recipe.LoadArguments(actualArgs); err != nil {
		return err
	}

	media, err := engine.ProbeMediaFile(inputPath)
	if err != nil {
		return err
	}

	wd, err := engine.NewDirWorkingDirectory(cfg.WorkingDirRoot, inputPath)
	if err != nil {
		return fmt.Errorf("creating working directory: %w", err)
	}

	bin := engine.Binaries{FFmpeg: cfg.FFmpegPath, Mkvmerge: cfg.MkvmergePath}

	result, err := engine.ExecuteRecipe(context.Background(), recipe, media, wd, bin, log)
	if err != nil {
		return err
	}

	for _, out := range result.StreamOutputs {
		fmt.Println(out.Path())
	}
	if result.MuxedOutput != nil {
		fmt.Println(result.MuxedOutput.Path())
	}
	if result.UploadedOutput != "" {
		fmt.Printf("uploaded to %s\n", result.UploadedOutput)
	}

	return nil
}
