// Command match3sim drives the headless match-3 engine from a level
// config and a scripted command stream, dumping the resulting event
// trace and final board state — or, with -serve, exposes a live engine
// over a websocket event stream for a connected renderer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/match3sim/pkg/config"
)

const version = "1.0.0"

var (
	configPath  = flag.String("config", "", "Path to YAML level config file (required)")
	commandPath = flag.String("commands", "", "Path to a JSON scripted command stream")
	outputDir   = flag.String("output", ".", "Output directory for dumped files")
	format      = flag.String("format", "json", "Export format for the final state: json or svg")
	seedFlag    = flag.Uint64("seed", 0, "Override the seed from config (0 = use config seed)")
	serve       = flag.Bool("serve", false, "Serve a live engine over a websocket event stream instead of running a script")
	addr        = flag.String("addr", ":8080", "Listen address for -serve")
	verbose     = flag.Bool("verbose", false, "Enable verbose output")
	versionF    = flag.Bool("version", false, "Print version and exit")
	help        = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("match3sim version %s\n", version)
		os.Exit(0)
	}
	if *help {
		printHelp()
		os.Exit(0)
	}
	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -config flag is required")
		printUsage()
		os.Exit(1)
	}
	if *format != "json" && *format != "svg" {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q, must be one of: json, svg\n", *format)
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadLevelConfig(*configPath)
	if err != nil {
		return fmt.Errorf("loading level config: %w", err)
	}
	if *seedFlag != 0 {
		if *verbose {
			fmt.Printf("overriding seed from %d to %d\n", cfg.Seed, *seedFlag)
		}
		cfg.Seed = *seedFlag
	}

	if *serve {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return runServer(ctx, cfg, *addr, *verbose)
	}

	return runScript(cfg, *commandPath, *outputDir, *format, *verbose)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: match3sim -config <file> [-commands <file>] [-output <dir>] [-format json|svg] [-serve] [-addr :8080]")
}

func printHelp() {
	printUsage()
	fmt.Println()
	flag.PrintDefaults()
}
