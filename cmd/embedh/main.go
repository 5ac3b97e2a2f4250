package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/fatih/color"
	"github.com/webbundle/embedh"
	"github.com/webbundle/embedh/cmd/embedh/embedcmd"
	"github.com/webbundle/embedh/cmd/embedh/sloghandler"
	"go.uber.org/automaxprocs/maxprocs"
)

func main() {
	code := run(os.Stdout, os.Stderr, os.Args)
	if code != 0 {
		os.Exit(code)
	}
}

const usageText = `usage: embedh [<args>...] <input.html> <output.h>

embedh - embed web assets into C headers as string literal constants

The generated header declares a single constant whose value is the input
text with every line terminated by \n. The header guard derives from the
output file name and the constant name from the input file name unless
overridden.

Args:
  -guard <NAME>
  	Header guard identifier. (default derived from the output file name)
  -const <name>
  	Constant identifier. (default derived from the input file name)
  -manifest <file>
  	Embed every asset listed in the YAML manifest instead of a single
  	input/output pair. Takes no positional arguments.
  -watch
  	Watch the input file(s) and regenerate on change until interrupted.
  -stdout
  	Print the generated header to stdout instead of writing the output
  	file. Not applicable with -manifest or -watch.
  -w <n>
  	Number of manifest workers. (default the number of CPUs)
  -v
  	Set log verbosity level to "debug". (default "info")
  -log-level
  	Set log verbosity level. (default "info", options: "debug", "info", "warn", "error")
  -version
  	Print the version and exit.
  -help
  	Print help and exit.

Examples:

  embedh web/index.html src/web_bundle.h
  embedh -manifest embedh.yaml -watch
`

func run(stdout, stderr io.Writer, args []string) (code int) {
	cmd := flag.NewFlagSet("embedh", flag.ContinueOnError)
	cmd.SetOutput(io.Discard)
	guardFlag := cmd.String("guard", "", "")
	constFlag := cmd.String("const", "", "")
	manifestFlag := cmd.String("manifest", "", "")
	watchFlag := cmd.Bool("watch", false, "")
	toStdoutFlag := cmd.Bool("stdout", false, "")
	workerCountFlag := cmd.Int("w", runtime.NumCPU(), "")
	verboseFlag := cmd.Bool("v", false, "")
	logLevelFlag := cmd.String("log-level", "info", "")
	versionFlag := cmd.Bool("version", false, "")
	helpFlag := cmd.Bool("help", false, "")
	if err := cmd.Parse(args[1:]); err != nil {
		fmt.Fprint(stderr, usageText)
		return 1
	}
	if *helpFlag {
		fmt.Fprint(stdout, usageText)
		return 0
	}
	if *versionFlag {
		fmt.Fprintln(stdout, embedh.Version())
		return 0
	}

	rest := cmd.Args()
	switch {
	case *manifestFlag == "" && len(rest) != 2,
		*manifestFlag != "" && len(rest) != 0,
		*toStdoutFlag && (*manifestFlag != "" || *watchFlag):
		fmt.Fprint(stderr, usageText)
		return 1
	}

	log := newLogger(*logLevelFlag, *verboseFlag, stderr)

	// Respect container CPU quotas when sizing the worker pool.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, a ...interface{}) {
		log.Debug(fmt.Sprintf(format, a...))
	}))

	ctx, cancel := context.WithCancel(context.Background())
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt)
	go func() {
		<-signalChan
		fmt.Fprintln(stderr, "Stopping...")
		cancel()
	}()

	a := embedcmd.Arguments{
		Manifest:    *manifestFlag,
		GuardName:   *guardFlag,
		ConstName:   *constFlag,
		Watch:       *watchFlag,
		WorkerCount: *workerCountFlag,
	}
	if len(rest) == 2 {
		a.Source, a.Dest = rest[0], rest[1]
	}

	progress := stdout
	if *toStdoutFlag {
		a.FileWriter = embedcmd.WriterFileWriter(stdout)
		progress = io.Discard
	}

	if err := embedcmd.Run(ctx, log, progress, a); err != nil {
		color.New(color.FgRed).Fprint(stderr, "(✗) ")
		fmt.Fprintln(stderr, "Command failed: "+err.Error())
		return 1
	}
	return 0
}

func newLogger(logLevel string, verbose bool, stderr io.Writer) *slog.Logger {
	if verbose {
		logLevel = "debug"
	}
	level := slog.LevelInfo.Level()
	switch logLevel {
	case "debug":
		level = slog.LevelDebug.Level()
	case "warn":
		level = slog.LevelWarn.Level()
	case "error":
		level = slog.LevelError.Level()
	}
	return slog.New(sloghandler.NewHandler(stderr, &slog.HandlerOptions{
		AddSource: logLevel == "debug",
		Level:     level,
	}))
}
