package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/flowui/internal/app"
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

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
//
// Values from a --config file are applied first; flags given on the command
// line override them.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("flowui", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
FlowUI - Control panels for hierarchical signal-processing networks.

Usage:
  flowui [options] [PROGRAM_PATH]

Arguments:
  PROGRAM_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to a TOML configuration file.")
	programFlag := flagSet.String("program", "", "Path to the program file or directory.")
	pFlag := flagSet.String("p", "", "Path to the program file or directory (shorthand).")
	labelFlag := flagSet.String("label", "", "Program to show. Defaults to the first one defined.")
	lFlag := flagSet.String("l", "", "Program to show (shorthand).")
	uiURLFlag := flagSet.String("ui-url", "", "socket.io URL of the UI renderer. Empty runs headless.")
	uiNamespaceFlag := flagSet.String("ui-namespace", "", "socket.io namespace of the UI renderer.")
	insecureFlag := flagSet.Bool("insecure-skip-verify", false, "Skip TLS certificate verification for the UI renderer.")
	triggersFlag := flagSet.Bool("triggers", false, "Create buttons for trigger variables.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	dumpFlag := flagSet.Bool("dump", false, "Print the synthesized element tree and exit.")
	watchFlag := flagSet.Bool("watch", false, "Rebuild the UI when program files change.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	cfg := app.Config{}
	if *configFlag != "" {
		fileCfg, err := app.LoadConfigFile(*configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		cfg = fileCfg
		slog.Debug("Config file loaded.", "path", *configFlag)
	}

	set := map[string]bool{}
	flagSet.Visit(func(f *flag.Flag) { set[f.Name] = true })

	overrideString := func(dst *string, val string, names ...string) {
		for _, n := range names {
			if set[n] {
				*dst = val
			}
		}
	}
	overrideString(&cfg.ProgramPath, *programFlag, "program")
	overrideString(&cfg.ProgramPath, *pFlag, "p")
	if cfg.ProgramPath == "" && flagSet.NArg() > 0 {
		cfg.ProgramPath = flagSet.Arg(0)
	}
	overrideString(&cfg.ProgramLabel, *labelFlag, "label")
	overrideString(&cfg.ProgramLabel, *lFlag, "l")
	overrideString(&cfg.UIURL, *uiURLFlag, "ui-url")
	overrideString(&cfg.UINamespace, *uiNamespaceFlag, "ui-namespace")
	if set["insecure-skip-verify"] {
		cfg.InsecureSkipVerify = *insecureFlag
	}
	if set["triggers"] {
		cfg.Triggers = *triggersFlag
	}
	if set["healthcheck-port"] {
		cfg.HealthcheckPort = *healthPortFlag
	}
	if set["dump"] {
		cfg.Dump = *dumpFlag
	}
	if set["watch"] {
		cfg.Watch = *watchFlag
	}
	if set["log-format"] || cfg.LogFormat == "" {
		cfg.LogFormat = *logFormatFlag
	}
	if set["log-level"] || cfg.LogLevel == "" {
		cfg.LogLevel = *logLevelFlag
	}
	slog.Debug("Program path determined.", "path", cfg.ProgramPath)

	if cfg.ProgramPath == "" {
		slog.Debug("No program path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
