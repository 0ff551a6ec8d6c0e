package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"codeberg.org/algopatterns/dedup/internal/config"
	"codeberg.org/algopatterns/dedup/internal/shard"
)

func shardCommand(ctx context.Context, args []string) error {
	flags, err := config.ParseShardFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	in, err := openInput(flags.Input)
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck // read-only

	out, err := createOutput(flags.Output)
	if err != nil {
		return err
	}

	s, err := runSharded(ctx, flags, in, out)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	printSummary(os.Stderr, s)
	return nil
}

// splits the JSONL corpus into independent shards, deduplicates them
// concurrently and writes the survivors in input order
func runSharded(ctx context.Context, flags config.Flags, in io.Reader, out io.Writer) (summary, error) {
	by, err := shard.ParsePartitioning(flags.By)
	if err != nil {
		return summary{}, err
	}

	start := time.Now()

	docs, err := readAll(ctx, newReader(in, flags.TextField))
	if err != nil {
		return summary{}, err
	}

	result, err := shard.Run(ctx, docs, shard.Plan{
		Strategy: flags.Strategy,
		Options:  flags.Options,
		Shards:   flags.Shards,
		By:       by,
	})
	if err != nil {
		return summary{}, err
	}

	w := newWriter(out, flags.TextField)
	for _, doc := range result.Documents {
		if err := w.Write(doc); err != nil {
			return summary{}, fmt.Errorf("failed to write output: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return summary{}, fmt.Errorf("failed to write output: %w", err)
	}

	return summary{
		Command:  "shard",
		Strategy: flags.Strategy,
		Stats:    result.Total,
		Shards:   result.Shards,
		Took:     time.Since(start),
	}, nil
}
