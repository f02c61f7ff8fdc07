package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/mfnet/internal/app"
	"github.com/vk/mfnet/internal/hcl"
	"github.com/zclconf/go-cty/cty"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// assignments collects repeated `name=expression` flags.
type assignments map[string]cty.Value

func (a assignments) String() string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	return strings.Join(names, ",")
}

func (a assignments) Set(s string) error {
	name, v, err := hcl.ParseAssignment(s)
	if err != nil {
		return err
	}
	if _, ok := a[name]; ok {
		return fmt.Errorf("%q is set twice", name)
	}
	a[name] = v
	return nil
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("mfnet", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
mfnet - Optimizer for multi-function dataflow networks.

Usage:
  mfnet [options] [NETWORK_PATH]

Arguments:
  NETWORK_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	networkFlag := flagSet.String("network", "", "Path to the network file or directory.")
	nFlag := flagSet.String("n", "", "Path to the network file or directory (shorthand).")
	pipelineFlag := flagSet.String("pipeline", "", "Path to a pipeline YAML file.")
	outputFlag := flagSet.String("o", "", "Write the result to this file instead of stdout.")
	passesFlag := flagSet.String("passes", "", "Comma-separated pass list, e.g. 'deduplicate,remove_unused'. Overrides the pipeline file.")
	iterationsFlag := flagSet.Int("max-iterations", 0, "Maximum number of pipeline iterations. 0 keeps the pipeline setting.")
	seedFlag := flagSet.Uint64("seed", 0, "Seed of the structural hash used by deduplication.")
	formatFlag := flagSet.String("format", app.FormatSummary, "Result format. Options: 'summary', 'dot' or 'none'.")
	evalFlag := flagSet.Bool("eval", false, "Evaluate the network outputs before and after optimization.")
	telemetryFlag := flagSet.String("telemetry", "none", "Telemetry exporter. Options: 'none' or 'stdout'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	set := assignments{}
	flagSet.Var(set, "set", "Bind a network input, e.g. -set 'x=3'. Repeatable.")
	ctxValues := assignments{}
	flagSet.Var(ctxValues, "ctx", "Set an evaluation context value, e.g. -ctx 'time=1.5'. Repeatable.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, usageError("%s", err)
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *networkFlag != "" {
		path = *networkFlag
	} else if *nFlag != "" {
		path = *nFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Network path determined.", "path", path)

	if path == "" {
		slog.Debug("No network path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, usageError("unexpected arguments: %s", strings.Join(flagSet.Args()[1:], " "))
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, usageError("invalid log-format: must be 'text' or 'json'")
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	var passes []string
	if *passesFlag != "" {
		for _, p := range strings.Split(*passesFlag, ",") {
			passes = append(passes, strings.TrimSpace(p))
		}
	}

	var seed *uint64
	flagSet.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seed = seedFlag
		}
	})
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		NetworkPath:   path,
		PipelinePath:  *pipelineFlag,
		OutputPath:    *outputFlag,
		Passes:        passes,
		MaxIterations: *iterationsFlag,
		Seed:          seed,
		Format:        strings.ToLower(*formatFlag),
		Evaluate:      *evalFlag,
		Set:           set,
		Context:       ctxValues,
		Telemetry:     strings.ToLower(*telemetryFlag),
		LogFormat:     logFormat,
		LogLevel:      logLevel,
	})
	if err != nil {
		return nil, false, usageError("%s", err)
	}

	slog.Debug("CLI parser finished successfully.", "network", config.NetworkPath)
	return config, false, nil
}
