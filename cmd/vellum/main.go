// Package main is the entry point for the vellum headless editing core.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/vellum/internal/dispatcher"
	"github.com/dshills/vellum/internal/editor"
	"github.com/dshills/vellum/internal/transport"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()
	if opts.showVersion {
		fmt.Printf("vellum %s (commit %s, built %s)\n", version, commit, date)
		return 0
	}

	editorOpts := []dispatcher.Option{
		editor.WithScrollHeight(opts.scrollHeight),
		editor.WithTabWidth(opts.tabWidth),
	}

	server := transport.New(os.Stdin, os.Stdout, editorOpts...)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		os.Exit(0)
	}()

	if err := server.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type flags struct {
	scrollHeight int
	tabWidth     int
	showVersion  bool
}

func parseFlags() flags {
	var f flags

	flag.IntVar(&f.scrollHeight, "scroll-height", 24, "number of visible lines per tab")
	flag.IntVar(&f.tabWidth, "tab-width", 8, "display width of a tab character")
	flag.BoolVar(&f.showVersion, "version", false, "print version information and exit")
	flag.Parse()

	return f
}
