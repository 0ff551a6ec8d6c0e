package dedup

import "log/slog"

// counters describing dedup activity, either for one call or cumulative since
// construction or the last Reset
type Stats struct {
	Strategy Strategy `json:"strategy"`
	Calls    int      `json:"calls"`

	// documents received, including skipped ones
	Processed int `json:"processed"`
	Kept      int `json:"kept"`
	Removed   int `json:"removed"`

	// documents with empty text
	Skipped int `json:"skipped"`

	// soft dedup only: clusters currently held and documents weighted below 1
	Clusters   int `json:"clusters,omitempty"`
	Reweighted int `json:"reweighted,omitempty"`
}

// records one decision
func (s *Stats) observe(d Decision) {
	s.Processed++

	switch d {
	case DecisionKept:
		s.Kept++
	case DecisionDuplicate:
		s.Removed++
	case DecisionSkipped:
		s.Skipped++
	}
}

// folds a per-call summary into the cumulative totals
func (s *Stats) add(call Stats) {
	s.Calls++
	s.Processed += call.Processed
	s.Kept += call.Kept
	s.Removed += call.Removed
	s.Skipped += call.Skipped
	s.Reweighted += call.Reweighted
	s.Clusters = call.Clusters
}

// slog attributes for the summary line each call emits
func (s Stats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("strategy", string(s.Strategy)),
		slog.Int("processed", s.Processed),
		slog.Int("kept", s.Kept),
		slog.Int("removed", s.Removed),
		slog.Int("skipped", s.Skipped),
	}

	if s.Strategy == StrategySoft {
		attrs = append(attrs,
			slog.Int("clusters", s.Clusters),
			slog.Int("reweighted", s.Reweighted),
		)
	}

	return slog.GroupValue(attrs...)
}
