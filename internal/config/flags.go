package config

import (
	"flag"
	"fmt"
	"io"

	"codeberg.org/algopatterns/dedup/internal/dedup"
)

// registers the flags shared by every subcommand
func newFlagSet(name string, output io.Writer) (*flag.FlagSet, *rawFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}

	raw := &rawFlags{}
	fs.StringVar(&raw.strategy, "strategy", string(DefaultStrategy), "dedup strategy: exact, fuzzy or soft")
	fs.Float64Var(&raw.threshold, "threshold", 0, "similarity threshold in [0, 1] (fuzzy 0.8, soft 0.85)")
	fs.IntVar(&raw.ngram, "ngram", dedup.DefaultNgramSize, "shingle length in characters")
	fs.IntVar(&raw.numPerm, "num-perm", dedup.DefaultNumPerm, "MinHash signature length")
	fs.Float64Var(&raw.reweight, "reweight", dedup.DefaultReweightFactor, "soft dedup weight floor")
	fs.Uint64Var(&raw.seed, "seed", 0, "MinHash permutation seed")
	fs.StringVar(&raw.backend, "backend", "xxhash", "hashing backend: xxhash or fnv")
	fs.StringVar(&raw.input, "input", "-", "input JSONL file (- for stdin)")
	fs.StringVar(&raw.output, "output", "-", "output JSONL file (- for stdout)")
	fs.StringVar(&raw.textField, "text-field", dedup.TextKey, "JSON key holding the document text")

	return fs, raw
}

type rawFlags struct {
	strategy  string
	threshold float64
	ngram     int
	numPerm   int
	reweight  float64
	seed      uint64
	backend   string
	input     string
	output    string
	textField string
	shards    int
	by        string
}

// converts parsed flags; only flags given on the command line override defaults
func (r *rawFlags) resolve(fs *flag.FlagSet) (Flags, error) {
	strategy, err := dedup.ParseStrategy(r.strategy)
	if err != nil {
		return Flags{}, err
	}

	f := Flags{
		Strategy:  strategy,
		Input:     r.input,
		Output:    r.output,
		TextField: r.textField,
		Shards:    r.shards,
		By:        r.by,
	}
	f.Options.BackendName = r.backend

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "threshold":
			f.Options.Threshold = &r.threshold
		case "ngram":
			f.Options.NgramSize = &r.ngram
		case "num-perm":
			f.Options.NumPerm = &r.numPerm
		case "reweight":
			f.Options.ReweightFactor = &r.reweight
		case "seed":
			f.Options.Seed = &r.seed
		}
	})

	if f.TextField == "" {
		return Flags{}, fmt.Errorf("text-field must not be empty")
	}

	return f, nil
}

// parses flags for the run subcommand
func ParseRunFlags(args []string, output io.Writer) (Flags, error) {
	fs, raw := newFlagSet("run", output)
	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}

	return raw.resolve(fs)
}

// parses flags for the shard subcommand
func ParseShardFlags(args []string, output io.Writer) (Flags, error) {
	fs, raw := newFlagSet("shard", output)
	fs.IntVar(&raw.shards, "shards", 4, "number of independent partitions")
	fs.StringVar(&raw.by, "by", "hash", "partitioning: hash or range")

	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}

	f, err := raw.resolve(fs)
	if err != nil {
		return Flags{}, err
	}

	if f.Shards <= 0 {
		return Flags{}, fmt.Errorf("shards must be positive, got %d", f.Shards)
	}

	return f, nil
}

// parses flags for the estimate subcommand
func ParseEstimateFlags(args []string, output io.Writer) (Flags, error) {
	fs, raw := newFlagSet("estimate", output)
	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}

	return raw.resolve(fs)
}

// returns the flags the run subcommand uses when none are given
func DefaultRunFlags() Flags {
	return Flags{
		Strategy:  DefaultStrategy,
		Input:     "-",
		Output:    "-",
		TextField: dedup.TextKey,
	}
}
