package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/bloglist/internal/config"
	"github.com/iudanet/bloglist/internal/logger"
	"github.com/iudanet/bloglist/internal/server"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := flag.NewFlagSet("bloglist-server", flag.ContinueOnError)
	showVersion := flags.Bool("version", false, "Show version information")
	envFile := ".env"
	if v, ok := os.LookupEnv("BLOGLIST_ENV_FILE"); ok {
		envFile = v
	}

	cfg, err := config.Load(flags, os.Args[1:], envFile)
	// -version работает и без настроенного секрета
	if *showVersion {
		printVersion()
		return nil
	}
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		return err
	}
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := server.OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("failed to close storage", slog.Any("error", err))
		}
	}()

	log.Info("Bloglist server starting",
		slog.String("version", Version),
		slog.String("storage", string(cfg.Storage)),
		slog.String("address", cfg.Address))

	return server.New(cfg, log, store, Version).Run(ctx)
}

func printVersion() {
	fmt.Printf("Bloglist Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
