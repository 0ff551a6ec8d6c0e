package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"codeberg.org/algopatterns/dedup/internal/dedup"
)

var (
	colorWhite  = lipgloss.Color("#FFFFFF")
	colorGray   = lipgloss.Color("#888888")
	colorPurple = lipgloss.Color("#8524a6")
	colorGreen  = lipgloss.Color("#00FF00")
	colorRed    = lipgloss.Color("#FF0000")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPurple).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Width(12)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Bold(true)

	keptStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	removedStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorPurple).
			Padding(0, 1)
)

// outcome of one CLI run
type summary struct {
	Command  string
	Strategy dedup.Strategy
	Stats    dedup.Stats

	// LSH split; zero for exact dedup
	Bands int
	Rows  int

	// per-shard counters of the shard subcommand
	Shards []dedup.Stats

	Took time.Duration
}

type row struct {
	label string
	value string
	style lipgloss.Style
}

func (s summary) rows() []row {
	rows := []row{
		{"strategy", string(s.Strategy), valueStyle},
		{"processed", fmt.Sprint(s.Stats.Processed), valueStyle},
		{"kept", fmt.Sprint(s.Stats.Kept), keptStyle},
		{"removed", fmt.Sprint(s.Stats.Removed), removedStyle},
		{"skipped", fmt.Sprint(s.Stats.Skipped), valueStyle},
	}

	if s.Strategy == dedup.StrategySoft {
		rows = append(rows,
			row{"clusters", fmt.Sprint(s.Stats.Clusters), valueStyle},
			row{"reweighted", fmt.Sprint(s.Stats.Reweighted), valueStyle},
		)
	}

	if s.Bands > 0 {
		rows = append(rows, row{"lsh", fmt.Sprintf("%d bands x %d rows", s.Bands, s.Rows), valueStyle})
	}

	for i, st := range s.Shards {
		rows = append(rows, row{
			fmt.Sprintf("shard %d", i),
			fmt.Sprintf("%d/%d kept", st.Kept, st.Processed),
			valueStyle,
		})
	}

	rows = append(rows, row{"took", s.Took.Round(time.Millisecond).String(), valueStyle})

	return rows
}

// renders the summary as aligned plain text, or as a styled box for terminals
func (s summary) Render(styled bool) string {
	var b strings.Builder

	if !styled {
		fmt.Fprintf(&b, "dedup %s\n", s.Command)
		for _, r := range s.rows() {
			fmt.Fprintf(&b, "  %-11s %s\n", r.label+":", r.value)
		}
		return b.String()
	}

	lines := []string{titleStyle.Render("dedup " + s.Command)}
	for _, r := range s.rows() {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render(r.label),
			r.style.Render(r.value),
		))
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)) + "\n"
}

// writes the summary to f, styled when f is a terminal
func printSummary(f *os.File, s summary) {
	fmt.Fprint(f, s.Render(term.IsTerminal(f.Fd())))
}
