/*
Package main implements the kana-to-kanji conversion server and CLI [DBG] application.

KanaBest converts hiragana readings into ranked kanji candidates using a
Viterbi-annotated morpheme lattice and best-first N-best enumeration. It can
operate as a MessagePack IPC server for integration with input method
front ends, or as a CLI application for testing and debugging.

The dictionary is a single msgpack bundle holding morpheme entries, the
connection cost matrix, word class assignments, the segment attach-pair
table and the candidate filter lists.

# Usage

Start the server with default settings:

	kanabest

Use a custom dictionary bundle and enable debug mode:

	kanabest -data /path/to/dictionary.bin -d

Run in CLI mode for interactive testing:

	kanabest -c -limit 10 -mode only_edge

# Configuration

Runtime configuration is managed through a TOML file that supports conversion
defaults, dictionary settings, and server parameters:

	[convert]
	default_limit = 10
	boundary_mode = "strict"
	single_segment = false

	[dict]
	path = "data/dictionary.bin"

	[server]
	max_limit = 64
	max_key_bytes = 300

The config file is automatically created with defaults if it doesn't exist.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Conversion
requests are processed synchronously with microsecond timing information
included in responses.

Send a conversion request:

	{"id": "req1", "op": "convert", "k": "しんこうする", "m": "strict", "l": 10}

Receive candidates with cost ranking:

	{"id": "req1", "s": [{"k": "しんこうする", "v": "進行する", "c": 400, "r": 1}], "c": 1, "t": 145}

# CLI Mode

CLI mode provides an interactive interface for testing and debugging
conversion. It reads readings from stdin and displays candidates with cost
and inner segment information. A '|' in the input fixes a segment boundary:

	inputHandler := cli.NewInputHandler(converter, mode, limit, single, noFilter)
	err := inputHandler.Start()

This mode is primarily intended for development and testing new features
before deploying to server mode.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"kanabest/internal/cli"
	"kanabest/internal/logger"
	"kanabest/internal/utils"
	"kanabest/pkg/config"
	"kanabest/pkg/convert"
	"kanabest/pkg/dictionary"
	"kanabest/pkg/nbest"
	"kanabest/pkg/server"
)

const (
	Version = "0.3.0"
	AppName = "kanabest"
	gh      = "https://github.com/kanabest/kanabest"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	// custom Flags
	showVersion := flag.Bool("version", false, "Show current version")
	dataPath := flag.String("data", defaultConfig.Dict.Path, "Path to the dictionary bundle")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", defaultConfig.Convert.DefaultLimit, "Number of candidates to return")
	modeName := flag.String("mode", defaultConfig.Convert.BoundaryMode, "Boundary mode: strict, only_mid or only_edge")
	single := flag.Bool("single", defaultConfig.Convert.SingleSegment, "Treat the whole reading as one segment")
	noFilter := flag.Bool("no-filter", false, "Disable input filtering (DBG only) - accepts non-kana readings")

	flag.Parse()

	if *showVersion {
		printer := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

		styles := log.DefaultStyles()

		styles.Values["version"] = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		styles.Values["version"] = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})

		styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})

		printer.SetStyles(styles)

		printer.Print("")
		printer.Print("[ KanaBest ] Ranked kana-to-kanji conversion!")
		printer.Print("", "version", Version)
		printer.Print("")
		printer.Print("use -h or --help to see available options")
		printer.Print("Github Repo", "gh", gh)

		os.Exit(0)
	}

	if *debugMode {
		log.SetDefault(logger.NewWithConfig("", log.DebugLevel, true, true, log.TextFormatter))
	} else {
		log.SetLevel(log.WarnLevel)
	}

	mode, err := nbest.ParseBoundaryMode(*modeName)
	if err != nil {
		log.Fatalf("Bad -mode: %v", err)
		os.Exit(1)
	}

	resolvedDataPath := utils.ResolveDataPath(*dataPath)
	log.Debugf("Using dictionary bundle at: %s", resolvedDataPath)

	bundle, err := dictionary.LoadBundle(resolvedDataPath)
	if err != nil {
		log.Fatalf("Failed to load dictionary bundle: %v", err)
		log.Print("Did you forget to run the build or install scripts?")
		os.Exit(1)
	}
	converter := convert.FromBundle(bundle)
	log.Debugf("Dictionary init done: %d entries", converter.Dictionary().Len())

	// CLI would be mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	// NOTE: Server interface has vastly different parameters compared to CLI and what it accepts.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"mode", mode,
			"limit", *limit,
			"single", *single,
			"noFilter", *noFilter)

		inputHandler := cli.NewInputHandler(converter, mode, *limit, *single, *noFilter)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
			os.Exit(1)
		}
		return
	}

	log.Debug("spawning IPC")
	configPath := utils.ResolveDataPath("kanabest-config.toml")
	log.Debugf("Using config file: (%s)", configPath)

	appConfig, err := config.InitConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}
	srv := server.NewServer(converter, appConfig)

	showStartupInfo(resolvedDataPath, converter.Dictionary().Len())

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dataPath string, entries int) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("==========")
	println(" KanaBest ")
	println("==========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Infof("entries: %s", utils.FormatWithCommas(entries))
	log.Infof("dictionary: ( %s )", dataPath)
	log.Info("status: ready")
	println("==========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
