package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/algopatterns/dedup/internal/logger"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: dedup <command> [options]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run       - deduplicate a JSONL corpus")
	fmt.Fprintln(os.Stderr, "  shard     - deduplicate independent partitions of a JSONL corpus concurrently")
	fmt.Fprintln(os.Stderr, "  estimate  - print the LSH band split and candidate probability curve")
	fmt.Fprintln(os.Stderr, "\nOptions:")
	fmt.Fprintln(os.Stderr, "  --strategy <exact|fuzzy|soft>  - dedup strategy (default soft)")
	fmt.Fprintln(os.Stderr, "  --input <path>                 - input JSONL, - for stdin")
	fmt.Fprintln(os.Stderr, "  --output <path>                - output JSONL, - for stdout")
	fmt.Fprintln(os.Stderr, "\nRun 'dedup <command> --help' for every option.")
}

func main() {
	// stdout may carry the output corpus, so logs always go to stderr
	logger.SetDefault(logger.New(os.Getenv("ENVIRONMENT"), os.Getenv("LOG_LEVEL"), os.Stderr))

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error

	// route to appropriate command
	switch command {
	case "run":
		err = runCommand(ctx, args)
	case "shard":
		err = shardCommand(ctx, args)
	case "estimate":
		err = estimateCommand(args)
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		usage()
		os.Exit(1)
	}

	if errors.Is(err, flag.ErrHelp) {
		return
	}

	if err != nil {
		stop()
		logger.FatalErr(err, "dedup failed", "command", command)
	}
}
