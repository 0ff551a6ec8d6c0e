package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"codeberg.org/algopatterns/dedup/internal/config"
	"codeberg.org/algopatterns/dedup/internal/dedup"
)

// similarities at which the candidate curve is sampled
var curvePoints = []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.75, 0.8, 0.85, 0.9, 0.95, 1}

const barWidth = 40

var barStyle = lipgloss.NewStyle().Foreground(colorPurple)

// LSH split chosen for a threshold and signature length
type estimate struct {
	Threshold float64
	NumPerm   int
	Bands     int
	Rows      int
}

func estimateCommand(args []string) error {
	flags, err := config.ParseEstimateFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	e, err := newEstimate(flags)
	if err != nil {
		return err
	}

	e.Print(os.Stdout, term.IsTerminal(os.Stdout.Fd()))
	return nil
}

// resolves the sketch settings of the chosen strategy and picks (B, R)
func newEstimate(flags config.Flags) (estimate, error) {
	var sketch dedup.SketchConfig

	switch flags.Strategy {
	case dedup.StrategyFuzzy:
		cfg, err := flags.Options.FuzzyConfig()
		if err != nil {
			return estimate{}, err
		}
		sketch = cfg.SketchConfig
	case dedup.StrategySoft:
		cfg, err := flags.Options.SoftConfig()
		if err != nil {
			return estimate{}, err
		}
		sketch = cfg.SketchConfig
	default:
		return estimate{}, fmt.Errorf("estimate needs a MinHash strategy (fuzzy or soft), got %q: %w", flags.Strategy, dedup.ErrInvalidConfig)
	}

	bands, rows := dedup.OptimalParams(sketch.Threshold, sketch.NumPerm)

	return estimate{
		Threshold: sketch.Threshold,
		NumPerm:   sketch.NumPerm,
		Bands:     bands,
		Rows:      rows,
	}, nil
}

// writes the split and the probability that a pair with similarity s becomes a candidate
func (e estimate) Print(w io.Writer, styled bool) {
	header := fmt.Sprintf("threshold %.2f, %d permutations: %d bands x %d rows", e.Threshold, e.NumPerm, e.Bands, e.Rows)
	if styled {
		header = titleStyle.Render(header)
	}
	fmt.Fprintln(w, header)

	for _, s := range curvePoints {
		p := dedup.CandidateProbability(s, e.Bands, e.Rows)

		bar := strings.Repeat("#", int(p*barWidth+0.5))
		if styled {
			bar = barStyle.Render(bar)
		}

		fmt.Fprintf(w, "  s=%.2f  p=%.4f  %s\n", s, p, bar)
	}
}
