package dedup

import (
	"fmt"
	"math"
)

const (
	DefaultFuzzyThreshold = 0.8
	DefaultSoftThreshold  = 0.85
	DefaultNgramSize      = 5
	DefaultNumPerm        = 128
	DefaultReweightFactor = 0.5

	// signing cost grows linearly with the signature length
	MaxNumPerm = 1024
)

// holds the MinHash/LSH parameters shared by fuzzy and soft dedup
type SketchConfig struct {
	// minimum estimated Jaccard similarity for two documents to be candidates
	Threshold float64

	// shingle length in characters
	NgramSize int

	// signature length (K)
	NumPerm int

	// selects the permutation family; signatures built with different seeds are not comparable
	Seed uint64
}

func (c SketchConfig) validate() error {
	if math.IsNaN(c.Threshold) || c.Threshold < 0 || c.Threshold > 1 {
		return invalid("threshold", c.Threshold, "must be within [0, 1]")
	}

	if c.NgramSize <= 0 {
		return invalid("ngram_size", c.NgramSize, "must be positive")
	}

	if c.NumPerm <= 0 {
		return invalid("num_perm", c.NumPerm, "must be positive")
	}

	if c.NumPerm > MaxNumPerm {
		return invalid("num_perm", c.NumPerm, fmt.Sprintf("must be at most %d", MaxNumPerm))
	}

	return nil
}

// configures exact dedup
type ExactConfig struct {
	// informational; a single instance behaves the same either way
	Sharded bool
	Backend Backend
}

// returns the exact dedup defaults
func DefaultExactConfig() ExactConfig {
	return ExactConfig{
		Sharded: true,
		Backend: DefaultBackend(),
	}
}

// configures fuzzy dedup
type FuzzyConfig struct {
	SketchConfig
	Backend Backend
}

// returns the fuzzy dedup defaults
func DefaultFuzzyConfig() FuzzyConfig {
	return FuzzyConfig{
		SketchConfig: SketchConfig{
			Threshold: DefaultFuzzyThreshold,
			NgramSize: DefaultNgramSize,
			NumPerm:   DefaultNumPerm,
		},
		Backend: DefaultBackend(),
	}
}

func (c FuzzyConfig) Validate() error {
	if c.Backend == nil {
		return ErrMissingBackend
	}

	return c.SketchConfig.validate()
}

// configures soft dedup
type SoftConfig struct {
	SketchConfig

	// floor weight for documents in large clusters
	ReweightFactor float64
	Backend        Backend
}

// returns the soft dedup defaults
func DefaultSoftConfig() SoftConfig {
	return SoftConfig{
		SketchConfig: SketchConfig{
			Threshold: DefaultSoftThreshold,
			NgramSize: DefaultNgramSize,
			NumPerm:   DefaultNumPerm,
		},
		ReweightFactor: DefaultReweightFactor,
		Backend:        DefaultBackend(),
	}
}

func (c SoftConfig) Validate() error {
	if c.Backend == nil {
		return ErrMissingBackend
	}

	if err := c.SketchConfig.validate(); err != nil {
		return err
	}

	if math.IsNaN(c.ReweightFactor) || c.ReweightFactor < 0 || c.ReweightFactor > 1 {
		return invalid("reweight_factor", c.ReweightFactor, "must be within [0, 1]")
	}

	return nil
}

// Options is the strategy-agnostic parameter set accepted by the dispatcher.
// nil fields fall back to the chosen strategy's defaults; parameters a strategy
// does not use are ignored.
type Options struct {
	Threshold      *float64 `json:"threshold,omitempty"`
	NgramSize      *int     `json:"ngram_size,omitempty"`
	NumPerm        *int     `json:"num_perm,omitempty"`
	ReweightFactor *float64 `json:"reweight_factor,omitempty"`
	Sharded        *bool    `json:"sharded,omitempty"`
	Seed           *uint64  `json:"seed,omitempty"`

	// backend name, "xxhash" (default) or "fnv"
	BackendName string `json:"backend,omitempty"`

	// overrides BackendName when set
	Backend Backend `json:"-"`
}

func (o Options) backend() (Backend, error) {
	if o.Backend != nil {
		return o.Backend, nil
	}

	return BackendByName(o.BackendName)
}

func (o Options) applySketch(c *SketchConfig) {
	if o.Threshold != nil {
		c.Threshold = *o.Threshold
	}
	if o.NgramSize != nil {
		c.NgramSize = *o.NgramSize
	}
	if o.NumPerm != nil {
		c.NumPerm = *o.NumPerm
	}
	if o.Seed != nil {
		c.Seed = *o.Seed
	}
}

// resolves the options against the exact dedup defaults
func (o Options) ExactConfig() (ExactConfig, error) {
	cfg := DefaultExactConfig()
	if o.Sharded != nil {
		cfg.Sharded = *o.Sharded
	}

	backend, err := o.backend()
	if err != nil {
		return cfg, err
	}

	cfg.Backend = backend
	return cfg, nil
}

// resolves the options against the fuzzy dedup defaults
func (o Options) FuzzyConfig() (FuzzyConfig, error) {
	cfg := DefaultFuzzyConfig()
	o.applySketch(&cfg.SketchConfig)

	backend, err := o.backend()
	if err != nil {
		return cfg, err
	}

	cfg.Backend = backend
	return cfg, cfg.Validate()
}

// resolves the options against the soft dedup defaults
func (o Options) SoftConfig() (SoftConfig, error) {
	cfg := DefaultSoftConfig()
	o.applySketch(&cfg.SketchConfig)

	if o.ReweightFactor != nil {
		cfg.ReweightFactor = *o.ReweightFactor
	}

	backend, err := o.backend()
	if err != nil {
		return cfg, err
	}

	cfg.Backend = backend
	return cfg, cfg.Validate()
}

// fills every option left unset in o from base
func (o Options) WithDefaults(base Options) Options {
	if o.Threshold == nil {
		o.Threshold = base.Threshold
	}
	if o.NgramSize == nil {
		o.NgramSize = base.NgramSize
	}
	if o.NumPerm == nil {
		o.NumPerm = base.NumPerm
	}
	if o.ReweightFactor == nil {
		o.ReweightFactor = base.ReweightFactor
	}
	if o.Sharded == nil {
		o.Sharded = base.Sharded
	}
	if o.Seed == nil {
		o.Seed = base.Seed
	}
	if o.BackendName == "" {
		o.BackendName = base.BackendName
	}
	if o.Backend == nil {
		o.Backend = base.Backend
	}

	return o
}
