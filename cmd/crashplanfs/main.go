// Command crashplanfs browses a CrashPlan backup log as a filesystem and
// serves it over WebDAV.
package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/jmgilman/go/crashplanfs"
	"github.com/jmgilman/go/crashplanfs/errors"
	"github.com/jmgilman/go/crashplanfs/webdav"
)

const usage = `crashplanfs: browse a CrashPlan backup log as a filesystem

Usage:
  crashplanfs <command> [flags] [path]

Commands:
  ls      list the children of a directory
  stat    describe one entry
  tree    print every entry below a directory
  url     print the download locator of an entry
  gc      collect staged entries that are already backed up
  stage   copy a local directory into the transfer area
  serve   serve the view over WebDAV

Flags:
`

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env is what a command runs against.
type env struct {
	fs     *crashplanfs.FS
	out    io.Writer
	logger *slog.Logger
	addr   string
	prefix string
}

type command func(ctx context.Context, e *env, args []string) error

// run dispatches args[0] to its command. Output goes to stdout and logs to
// stderr.
func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errors.New(errors.CodeInvalidInput, "no command given")
	}

	name := args[0]
	var cmd command
	switch name {
	case "ls":
		cmd = runList
	case "stat":
		cmd = runStat
	case "tree":
		cmd = runTree
	case "url":
		cmd = runURL
	case "gc":
		cmd = runGC
	case "serve":
		cmd = runServe
	case "stage":
		cmd = runStage
	case "-h", "--help", "help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprint(stderr, usage)
		return errors.Newf(errors.CodeInvalidInput, "unknown command %q", name)
	}

	var (
		flags      Config
		configPath string
		addr       string
		prefix     string
	)
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	bindFlags(flagSet, &flags)
	flagSet.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	flagSet.StringVar(&addr, "addr", "127.0.0.1:8080", "listen address for serve")
	flagSet.StringVar(&prefix, "prefix", "", "URL path prefix for serve")
	showHelp := flagSet.BoolP("help", "h", false, "show this help")

	if err := flagSet.Parse(args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(stdout, flagSet)
			return nil
		}
		return err
	}
	if *showHelp {
		printHelp(stdout, flagSet)
		return nil
	}

	var cfg Config
	if configPath != "" {
		loaded, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg = merge(cfg, flags, flagSet)

	logger, err := newLogger(cfg.Log, stderr)
	if err != nil {
		return err
	}
	opts, err := options(cfg, logger)
	if err != nil {
		return err
	}

	cfs, err := crashplanfs.New(opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := cfs.Close(); err != nil {
			logger.Warn("unable to close filesystem", "error", err)
		}
	}()

	e := &env{fs: cfs, out: stdout, logger: logger, addr: addr, prefix: prefix}
	if err := cmd(context.Background(), e, flagSet.Args()); err != nil {
		logger.Error("command failed", "command", name, "error", errors.ToJSON(err))
		return err
	}
	return nil
}

func printHelp(out io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprint(out, usage)
	flagSet.SetOutput(out)
	flagSet.PrintDefaults()
}

// target returns the single optional path argument.
func target(args []string, required bool) (string, error) {
	switch {
	case len(args) > 1:
		return "", errors.Newf(errors.CodeInvalidInput, "expected one path, got %d", len(args))
	case len(args) == 1:
		return args[0], nil
	case required:
		return "", errors.New(errors.CodeInvalidInput, "a path is required")
	default:
		return "/", nil
	}
}

func runList(_ context.Context, e *env, args []string) error {
	name, err := target(args, false)
	if err != nil {
		return err
	}
	names, err := e.fs.ReadDir(name)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(e.out, n)
	}
	return nil
}

func runStat(_ context.Context, e *env, args []string) error {
	name, err := target(args, true)
	if err != nil {
		return err
	}
	info, err := e.fs.Stat(name)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, formatInfo(name, info))
	return nil
}

func runTree(_ context.Context, e *env, args []string) error {
	root, err := target(args, false)
	if err != nil {
		return err
	}
	return e.fs.Walk(root, func(p string, _ fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		fmt.Fprintln(e.out, p)
		return nil
	})
}

func runURL(_ context.Context, e *env, args []string) error {
	name, err := target(args, true)
	if err != nil {
		return err
	}
	u, err := e.fs.URL(name, crashplanfs.PurposeDownload)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, u)
	return nil
}

// runGC reports the collection that ran when the view was opened.
func runGC(_ context.Context, e *env, _ []string) error {
	report := e.fs.LastCollection()
	for _, p := range report.Removed {
		fmt.Fprintf(e.out, "removed %s\n", p)
	}
	for _, p := range report.Failed {
		fmt.Fprintf(e.out, "failed  %s\n", p)
	}
	fmt.Fprintf(e.out, "scanned %d, removed %d, kept %d, failed %d\n",
		report.Scanned, len(report.Removed), len(report.Kept), len(report.Failed))
	if len(report.Failed) > 0 {
		return errors.Newf(errors.CodeStorage, "%d staged entries could not be removed", len(report.Failed))
	}
	return nil
}

// runStage copies the host directory src into dest of the view, which
// defaults to the root.
func runStage(_ context.Context, e *env, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New(errors.CodeInvalidInput, "expected a source directory and an optional destination")
	}
	dest := "/"
	if len(args) == 2 {
		dest = args[1]
	}

	st, err := os.Stat(args[0])
	if err != nil || !st.IsDir() {
		return errors.WithContext(
			errors.New(errors.CodeInvalidInput, "source is not a directory"),
			"source", args[0])
	}
	if err := e.fs.Stage(os.DirFS(args[0]), dest); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "staged %s into %s\n", args[0], dest)
	return nil
}

func formatInfo(name string, info *crashplanfs.Info) string {
	kind := "file"
	if info.IsDir() {
		kind = "dir"
	}
	size := "-"
	if info.Size() >= 0 {
		size = fmt.Sprint(info.Size())
	}
	return fmt.Sprintf("%s\t%s\t%s\t%s\t%s",
		name, kind, info.ModTime().UTC().Format(time.RFC3339), size, info.Source())
}

// runServe serves the view over WebDAV until SIGINT or SIGTERM.
func runServe(ctx context.Context, e *env, _ []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              e.addr,
		Handler:           webdav.NewHandler(e.fs, e.prefix, e.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(e.out, "serving %s on http://%s%s\n", e.fs.Root(), e.addr, e.prefix)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, errors.CodeUnavailable, "webdav server failed")
		}
		return nil
	case <-ctx.Done():
		e.logger.Info("shutting down webdav server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
