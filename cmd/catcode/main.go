package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/ForteScarlet/CatCode/pkg/catcode"
	"github.com/ForteScarlet/CatCode/pkg/protocol"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatCBOR = "cbor"
)

const (
	version = "0.1.0"
	usage   = `catcode - A scanner for text containing cat codes

Usage:
  catcode [options]

Options:
  -h, --help              Show this help message
  -v, --version           Show version information
  --input <file>          Input file (defaults to stdin)
  --output <file>         Output file (defaults to stdout)
  --namespace <name>      Code type to recognize (default CAT)
  --format <format>       Output format: json, yaml or cbor (default json)
  --strict                Stop at the first malformed code
  --exit0                 Exit with code 0 even on scan errors (suppress stderr)
  --vocab <file>          YAML vocabulary file extending the known subtypes (optional)
  --make-vocab            Generate default vocabulary YAML to stdout
  --config <file>         YAML config file (optional)
  --verbose               Log debug diagnostics to stderr

Every option except --input, --output, --config and --make-vocab may also be
set in the config file or through a CATCODE_<OPTION> environment variable.
Command-line flags take precedence over the environment, which takes
precedence over the config file.

Examples:
  catcode                                      # Read from stdin, write to stdout
  catcode --input chat.txt                     # Read from file, write to stdout
  catcode --namespace CQ --input chat.txt      # Recognize [CQ:...] codes
  catcode --strict --format yaml               # Fail on malformed codes, emit YAML
  catcode --make-vocab > vocab.yaml            # Generate default vocabulary
  echo "hi [CAT:at,code=1]" | catcode          # Read from stdin, write to stdout

The scanner outputs one record per segment: JSON lines, YAML documents or a
CBOR sequence.
`
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var showHelp, showVersion, makeVocab bool
	var inputFile, outputFile, configFile string

	flags := pflag.NewFlagSet("catcode", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.BoolVarP(&showHelp, "help", "h", false, "Show help")
	flags.BoolVarP(&showVersion, "version", "v", false, "Show version")
	flags.BoolVar(&makeVocab, "make-vocab", false, "Generate default vocabulary YAML")
	flags.StringVar(&inputFile, "input", "", "Input file (defaults to stdin)")
	flags.StringVar(&outputFile, "output", "", "Output file (defaults to stdout)")
	flags.StringVar(&configFile, "config", "", "YAML config file (optional)")
	flags.String("namespace", catcode.StandardNamespace, "Code type to recognize")
	flags.String("format", formatJSON, "Output format")
	flags.String("vocab", "", "YAML vocabulary file (optional)")
	flags.Bool("strict", false, "Stop at the first malformed code")
	flags.Bool("exit0", false, "Exit with code 0 even on errors")
	flags.Bool("verbose", false, "Log debug diagnostics")

	flags.Usage = func() {
		fmt.Fprint(stderr, usage)
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		flags.Usage()
		return 1
	}

	if showHelp {
		flags.Usage()
		return 0
	}

	if showVersion {
		fmt.Fprintf(stdout, "catcode version %s\n", version)
		return 0
	}

	if makeVocab {
		if err := generateDefaultVocabulary(stdout); err != nil {
			fmt.Fprintf(stderr, "Error generating default vocabulary: %v\n", err)
			return 1
		}
		return 0
	}

	// Reject any positional arguments
	if flags.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: Unexpected positional arguments. Use --input and --output flags instead.\n\n")
		flags.Usage()
		return 1
	}

	cfg, err := loadConfig(configFile, flags)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger := newLogger(stderr, cfg.Verbose)
	defer func() { _ = logger.Sync() }()
	logger.Debug("configuration loaded",
		zap.String("namespace", cfg.Namespace),
		zap.String("format", cfg.Format),
		zap.Bool("strict", cfg.Strict),
		zap.String("vocab", cfg.Vocab),
	)

	input, err := readInput(inputFile, stdin)
	if err != nil {
		logger.Error("failed to read input", zap.String("input", inputFile), zap.Error(err))
		return 1
	}

	vocab, err := loadVocabulary(cfg.Vocab)
	if err != nil {
		logger.Error("failed to load vocabulary", zap.String("vocab", cfg.Vocab), zap.Error(err))
		return 1
	}

	t := catcode.NewTokenizerWithOptions(input, catcode.TokenizerOptions{
		Namespace: cfg.namespace(),
		Strict:    cfg.Strict,
	})
	segments, scanErr := t.Tokenize()
	logger.Debug("input scanned", zap.Int("bytes", len(input)), zap.Int("segments", len(segments)))

	checkVocabulary(logger, vocab, segments)

	// Prepare output destination
	output := stdout
	var outputCloser io.Closer
	if outputFile != "" {
		file, err := os.Create(outputFile)
		if err != nil {
			logger.Error("failed to create output file", zap.String("output", outputFile), zap.Error(err))
			return 1
		}
		output = file
		outputCloser = file
	}

	// Output segments even if there was an error
	if err := writeSegments(output, cfg.Format, segments); err != nil {
		logger.Error("failed to write segments", zap.String("format", cfg.Format), zap.Error(err))
		return 1
	}

	if outputCloser != nil {
		if err := outputCloser.Close(); err != nil {
			logger.Error("failed to close output file", zap.String("output", outputFile), zap.Error(err))
			return 1
		}
	}

	// Handle the scan error after writing the segments
	if scanErr != nil {
		if cfg.Exit0 {
			return 0
		}
		logger.Error("scan failed", zap.Error(scanErr))
		return 1
	}
	return 0
}

// newLogger writes human-readable diagnostics to w.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)
	return zap.New(core)
}

func readInput(inputFile string, stdin io.Reader) (string, error) {
	var data []byte
	var err error
	if inputFile == "" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(inputFile)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func loadVocabulary(vocabFile string) (*catcode.Vocabulary, error) {
	if vocabFile == "" {
		return catcode.DefaultVocabulary(), nil
	}
	file, err := catcode.LoadVocabularyFile(vocabFile)
	if err != nil {
		return nil, err
	}
	return catcode.ApplyVocabularyToDefaults(file)
}

// checkVocabulary logs a warning for every code the vocabulary rejects.
func checkVocabulary(logger *zap.Logger, vocab *catcode.Vocabulary, segments []*catcode.Segment) {
	for _, segment := range segments {
		if segment.Kind != catcode.CodeSegment {
			continue
		}
		var violation *catcode.Violation
		if !errors.As(vocab.Check(segment.Code()), &violation) {
			continue
		}
		logger.Warn("code does not match the vocabulary",
			zap.String("subtype", violation.Subtype),
			zap.Bool("unknown", violation.Unknown),
			zap.Strings("missing", violation.Missing),
			zap.Strings("one_of", violation.OneOf),
			zap.Strings("unexpected", violation.Unexpected),
			zap.Int("line", segment.Span.Start.Line),
			zap.Int("col", segment.Span.Start.Col),
		)
	}
}

// writeSegments writes one record per segment in format.
func writeSegments(w io.Writer, format string, segments []*catcode.Segment) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		for _, segment := range segments {
			if err := enc.Encode(segment); err != nil {
				return err
			}
		}
		return enc.Close()
	case formatCBOR:
		enc := protocol.NewCBOREncoder(w)
		for _, segment := range segments {
			if err := enc.Encode(segment); err != nil {
				return err
			}
		}
		return nil
	default:
		for _, segment := range segments {
			jsonBytes, err := json.Marshal(segment)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w, string(jsonBytes)); err != nil {
				return err
			}
		}
		return nil
	}
}

// generateDefaultVocabulary writes the default vocabulary in YAML format.
func generateDefaultVocabulary(w io.Writer) error {
	yamlBytes, err := yaml.Marshal(catcode.DefaultVocabularyFile())
	if err != nil {
		return fmt.Errorf("failed to marshal vocabulary to YAML: %w", err)
	}
	_, err = w.Write(yamlBytes)
	return err
}
