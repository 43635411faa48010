// Command warikan splits shared-meal bills.
//
// A bill document is processed into one artifact: point -in at a file for
// single-document mode or at a directory for concurrent batch mode. -watch
// keeps processing documents as they appear, and -serve exposes the engine
// over HTTP instead.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"warikan/internal/batch"
	"warikan/internal/config"
	"warikan/internal/server"
	"warikan/internal/service"
	"warikan/pkg/logging"
)

func main() {
	var (
		in         = flag.String("in", "", "input bill document (file) or directory of documents")
		out        = flag.String("out", "", "directory for output artifacts (default: next to each input)")
		formatName = flag.String("format", "", "output format: json or text (default json)")
		workers    = flag.Int("workers", 0, "worker count for batch mode")
		watch      = flag.Bool("watch", false, "keep watching the input directory for new documents")
		serve      = flag.Bool("serve", false, "serve the split API over HTTP instead of processing files")
		addr       = flag.String("addr", "", "listen address for -serve")
		configPath = flag.String("config", "", "path to a warikan.toml config file")
		noColor    = flag.Bool("no-color", false, "disable colored log output")
	)
	flag.Parse()
	logging.Setup(*noColor)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	// Flags beat config.
	if *formatName == "" {
		*formatName = cfg.Output.Format
	}
	if *out == "" {
		*out = cfg.Output.Dir
	}
	if *workers <= 0 {
		*workers = cfg.Batch.Workers
	}
	if *addr == "" {
		*addr = cfg.Server.Addr
	}

	proc := service.NewProcessor(*formatName, *out)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *serve {
		runServe(ctx, *addr, proc)
		return
	}

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	info, err := os.Stat(*in)
	if err != nil {
		slog.Error("cannot read input", "path", *in, "error", err)
		os.Exit(1)
	}

	if !info.IsDir() {
		if *watch {
			slog.Error("-watch requires a directory input", "path", *in)
			os.Exit(2)
		}
		// Single-document mode: any failure is terminal.
		artifact, err := proc.ProcessFile(*in)
		if err != nil {
			slog.Error("split failed", "path", *in, "error", err)
			os.Exit(1)
		}
		slog.Info("split written", "artifact", artifact)
		return
	}

	runner := batch.NewRunner(proc, *workers)
	if _, err := runner.Run(ctx, *in); err != nil {
		slog.Error("batch failed", "dir", *in, "error", err)
		os.Exit(1)
	}
	if *watch {
		debounce := time.Duration(cfg.Batch.DebounceMs) * time.Millisecond
		if err := runner.Watch(ctx, *in, debounce); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("watch failed", "dir", *in, "error", err)
			os.Exit(1)
		}
	}
}

func runServe(ctx context.Context, addr string, proc *service.Processor) {
	srv := server.New(addr, proc)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("serving split API", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}
}
