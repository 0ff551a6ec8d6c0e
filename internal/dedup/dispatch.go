package dedup

// common surface of the exact, fuzzy and soft deduplicators
type Deduplicator interface {
	Strategy() Strategy

	// processes documents strictly in order against the accumulated state
	Deduplicate(docs []Document) []Document

	// clears accumulated state to start a fresh pass
	Reset()

	// cumulative counters since construction or the last Reset
	Stats() Stats

	// counters of the most recent Deduplicate call
	LastCall() Stats
}

// deduplicators that decide one document at a time
type Streamer interface {
	Deduplicator
	Admit(doc Document) Decision
}

var (
	_ Streamer     = (*Exact)(nil)
	_ Streamer     = (*Fuzzy)(nil)
	_ Deduplicator = (*Soft)(nil)
)

// builds the deduplicator for a strategy, resolving options against its defaults
func New(strategy Strategy, opts Options) (Deduplicator, error) {
	strategy, err := ParseStrategy(string(strategy))
	if err != nil {
		return nil, err
	}

	var (
		d     Deduplicator
		build error
	)

	switch strategy {
	case StrategyExact:
		cfg, err := opts.ExactConfig()
		if err != nil {
			return nil, err
		}
		d, build = NewExact(cfg)

	case StrategyFuzzy:
		cfg, err := opts.FuzzyConfig()
		if err != nil {
			return nil, err
		}
		d, build = NewFuzzy(cfg)

	default:
		cfg, err := opts.SoftConfig()
		if err != nil {
			return nil, err
		}
		d, build = NewSoft(cfg)
	}

	if build != nil {
		return nil, build
	}

	return d, nil
}

// runs docs through a fresh deduplicator of the given strategy
func Deduplicate(docs []Document, strategy Strategy, opts Options) ([]Document, error) {
	d, err := New(strategy, opts)
	if err != nil {
		return nil, err
	}

	return d.Deduplicate(docs), nil
}
