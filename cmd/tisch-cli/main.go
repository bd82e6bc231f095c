package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/paveg/tisch/internal/config"
	"github.com/paveg/tisch/internal/logging"
	"github.com/paveg/tisch/internal/version"
)

const defaultDemoRows = 30

func customUsage(w io.Writer) func() {
	return func() {
		fmt.Fprintf(w, "tisch table toolkit CLI (version %s)\n\n", version.Version)
		fmt.Fprintf(w, "Usage: tisch-cli [options]\n\n")
		fmt.Fprintf(w, "Options:\n")
		fmt.Fprintf(w, "  --demo\n\t\tRun basic demo\n")
		fmt.Fprintf(w, "  --rows N\n\t\tNumber of rows in the demo table (default: %d)\n", defaultDemoRows)
		fmt.Fprintf(w, "  --html\n\t\tRender tables as HTML instead of text\n")
		fmt.Fprintf(w, "  --config FILE\n\t\tLoad settings from a .json, .yaml or .yml file\n")
		fmt.Fprintf(w, "  --verbose\n\t\tLog selections and assignments at debug level\n")
		fmt.Fprintf(w, "  -v, --version\n\t\tPrint version information and exit\n")
		fmt.Fprintf(w, "  -h, --help\n\t\tShow this help message and exit\n")
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tisch-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = customUsage(stderr)

	versionFlag := fs.Bool("v", false, "Print version and exit")
	fs.BoolVar(versionFlag, "version", false, "Print version and exit") // alias
	demoFlag := fs.Bool("demo", false, "Run basic demo")
	rowsFlag := fs.Int("rows", defaultDemoRows, "Number of rows in the demo table")
	htmlFlag := fs.Bool("html", false, "Render tables as HTML")
	configFlag := fs.String("config", "", "Configuration file")
	verboseFlag := fs.Bool("verbose", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *versionFlag {
		fmt.Fprint(stdout, version.Info().String())
		return 0
	}

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if *verboseFlag {
		cfg.VerboseLogging = true
	}

	logger, closeLog := logging.SetupLogger(cfg)
	defer closeLog()

	if !*demoFlag {
		fs.Usage()
		return 1
	}

	if err := runDemo(stdout, logger, cfg, *rowsFlag, *htmlFlag); err != nil {
		logger.Error("demo failed", "error", err)
		return 1
	}
	return 0
}

// loadConfig layers file settings, then TISCH_* environment variables,
// over the defaults.
func loadConfig(path string) (config.Config, error) {
	cfg := config.NewConfig()
	if path != "" {
		fileCfg, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("loading config: %w", err)
		}
		cfg = fileCfg
	}

	cfg = cfg.WithDefaults().MergeEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
