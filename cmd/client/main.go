package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/bloglist/internal/client/api"
	"github.com/iudanet/bloglist/internal/client/auth"
	"github.com/iudanet/bloglist/internal/client/cli"
	"github.com/iudanet/bloglist/internal/client/iocli"
	"github.com/iudanet/bloglist/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", envOr("BLOGLIST_SERVER", "http://localhost:8080"), "Server URL")
	dbPath := flag.String("db", envOr("BLOGLIST_CLIENT_DB", "bloglist-client.db"), "Path to local session database")

	flag.Parse()

	stdio := iocli.NewStdio()

	if *showVersion {
		printVersion()
		return 0
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage(stdio)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Открываем BoltDB с сессией
	boltStorage, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		return 1
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to close database: %v\n", err)
		}
	}()

	apiClient := api.NewClient(*serverURL)
	authService := auth.NewService(apiClient, boltStorage, *serverURL)

	if err := cli.New(stdio, apiClient, authService).Run(ctx, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printVersion() {
	fmt.Printf("Bloglist Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
