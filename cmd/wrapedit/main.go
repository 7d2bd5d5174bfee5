// Package main is the entry point for wrapedit, a soft-wrapping text
// editor built on the wrapstore engine.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/wrapstore/internal/app"
	"github.com/dshills/wrapstore/internal/engine/inspect"
	"github.com/dshills/wrapstore/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// cliOptions holds the parsed command line.
type cliOptions struct {
	app app.Options

	script  string
	dump    bool
	query   string
	match   string
	save    bool
	batch   bool
	version bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}
	if opts.version {
		fmt.Fprintf(stdout, "wrapedit %s\nCommit: %s\nBuilt: %s\n", version, commit, date)
		return 0
	}

	batch := opts.batch || opts.script != "" || opts.dump || opts.query != "" || opts.match != "" ||
		!term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd()))
	if batch {
		opts.app.LogOutput = stderr
		opts.app.ScriptOutput = stdout
	} else {
		opts.app.Watch = true
	}

	application, err := app.New(opts.app)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	if batch {
		if err := runBatch(application, opts, stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}
	return runInteractive(application, stderr)
}

func parseFlags(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("wrapedit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.app.ConfigPath, "config", "", "Path to settings file")
	fs.StringVar(&opts.app.ConfigPath, "c", "", "Path to settings file (shorthand)")
	fs.IntVar(&opts.app.WrapWidth, "width", -1, "Wrap width, 0 disables wrapping (default from settings)")
	fs.StringVar(&opts.app.Encoding, "encoding", "", "Charset of the input file (default: detect UTF-8/UTF-16)")
	fs.BoolVar(&opts.app.ReadOnly, "R", false, "Open the file read-only")
	fs.StringVar(&opts.script, "script", "", "Run a Lua script against the document")
	fs.BoolVar(&opts.dump, "dump", false, "Print a JSON snapshot of the document")
	fs.StringVar(&opts.query, "query", "", "Print one value from the JSON snapshot (gjson path)")
	fs.StringVar(&opts.match, "match", "", "Print wrapped lines matching a wildcard pattern")
	fs.BoolVar(&opts.save, "save", false, "Save the document after the script runs")
	fs.BoolVar(&opts.batch, "batch", false, "Never start the interactive editor")
	fs.BoolVar(&opts.version, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "wrapedit - soft-wrapping text editor\n\n")
		fmt.Fprintf(stderr, "Usage: wrapedit [options] [file]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  wrapedit notes.txt                      Edit a file\n")
		fmt.Fprintf(stderr, "  wrapedit -width 40 -dump notes.txt      Show the wrapped layout\n")
		fmt.Fprintf(stderr, "  wrapedit -script fix.lua -save a.txt    Edit a file from Lua\n")
		fmt.Fprintf(stderr, "  wrapedit -query lines.#.text a.txt      Query the snapshot\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		opts.app.File = fs.Arg(0)
	default:
		fmt.Fprintf(stderr, "Error: expected at most one file, got %d\n", fs.NArg())
		return opts, errors.New("too many files")
	}
	if opts.save && opts.app.File == "" {
		fmt.Fprintf(stderr, "Error: -save needs a file\n")
		return opts, errors.New("nothing to save")
	}
	return opts, nil
}

// runBatch runs the script, then prints what the flags ask for.
func runBatch(application *app.Application, opts cliOptions, stdout io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.script != "" {
		if err := application.RunScript(ctx, opts.script); err != nil {
			return err
		}
	}
	if opts.save {
		if err := application.File().Save(); err != nil {
			return err
		}
	}

	if !opts.dump && opts.query == "" && opts.match == "" {
		if opts.script == "" {
			_, err := io.WriteString(stdout, application.Document().Text())
			return err
		}
		return nil
	}

	snap, err := inspect.Snapshot(application.Document())
	if err != nil {
		return err
	}
	if opts.dump {
		if _, err := stdout.Write(inspect.Pretty(snap)); err != nil {
			return err
		}
	}
	if opts.query != "" {
		fmt.Fprintln(stdout, inspect.Query(snap, opts.query).String())
	}
	if opts.match != "" {
		for _, i := range inspect.MatchLines(snap, opts.match) {
			fmt.Fprintf(stdout, "%d: %s\n", i+1, inspect.Query(snap, fmt.Sprintf("lines.%d.text", i)).String())
		}
	}
	return nil
}

func runInteractive(application *app.Application, stderr io.Writer) int {
	terminal, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(terminal); err != nil {
		fmt.Fprintf(stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		application.Shutdown()
	}()

	if err := application.Run(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
