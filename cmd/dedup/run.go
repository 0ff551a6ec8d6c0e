package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"codeberg.org/algopatterns/dedup/internal/config"
	"codeberg.org/algopatterns/dedup/internal/dedup"
	"codeberg.org/algopatterns/dedup/internal/logger"
)

// implemented by the MinHash based strategies
type lshParams interface {
	Params() (bands, rows int)
}

func runCommand(ctx context.Context, args []string) error {
	flags, err := config.ParseRunFlags(args, os.Stderr)
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

	s, err := run(ctx, flags, in, out)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	printSummary(os.Stderr, s)
	return nil
}

// deduplicates the JSONL stream in into out. exact and fuzzy dedup admit one
// line at a time; soft dedup needs the whole corpus for its second pass.
func run(ctx context.Context, flags config.Flags, in io.Reader, out io.Writer) (summary, error) {
	d, err := dedup.New(flags.Strategy, flags.Options)
	if err != nil {
		return summary{}, err
	}

	start := time.Now()
	r := newReader(in, flags.TextField)
	w := newWriter(out, flags.TextField)

	var stats dedup.Stats
	if s, ok := d.(dedup.Streamer); ok {
		stats, err = stream(ctx, s, r, w)
	} else {
		stats, err = buffered(ctx, d, r, w)
	}
	if err != nil {
		return summary{}, err
	}

	if err := w.Flush(); err != nil {
		return summary{}, fmt.Errorf("failed to write output: %w", err)
	}

	s := summary{
		Command:  "run",
		Strategy: d.Strategy(),
		Stats:    stats,
		Took:     time.Since(start),
	}

	if p, ok := d.(lshParams); ok {
		s.Bands, s.Rows = p.Params()
	}

	logger.Info("dedup run finished", "summary", stats, "took", s.Took)

	return s, nil
}

func stream(ctx context.Context, s dedup.Streamer, r *reader, w *writer) (dedup.Stats, error) {
	p := newProgress("admit")

	for {
		if err := ctx.Err(); err != nil {
			return dedup.Stats{}, err
		}

		doc, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return dedup.Stats{}, err
		}

		if s.Admit(doc) == dedup.DecisionKept {
			if err := w.Write(doc); err != nil {
				return dedup.Stats{}, fmt.Errorf("failed to write output: %w", err)
			}
		}

		p.Add(1)
	}

	return s.Stats(), nil
}

func buffered(ctx context.Context, d dedup.Deduplicator, r *reader, w *writer) (dedup.Stats, error) {
	docs, err := readAll(ctx, r)
	if err != nil {
		return dedup.Stats{}, err
	}

	for _, doc := range d.Deduplicate(docs) {
		if err := w.Write(doc); err != nil {
			return dedup.Stats{}, fmt.Errorf("failed to write output: %w", err)
		}
	}

	return d.LastCall(), nil
}

func readAll(ctx context.Context, r *reader) ([]dedup.Document, error) {
	p := newProgress("read")

	var docs []dedup.Document
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc, err := r.Next()
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}

		docs = append(docs, doc)
		p.Add(1)
	}
}
