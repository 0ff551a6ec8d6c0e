package main

import (
	"time"

	"golang.org/x/time/rate"

	"codeberg.org/algopatterns/dedup/internal/logger"
)

// logs throughput at most once per second
type progress struct {
	stage     string
	sometimes rate.Sometimes
	start     time.Time
	count     int
}

func newProgress(stage string) *progress {
	return &progress{
		stage:     stage,
		sometimes: rate.Sometimes{Interval: time.Second},
		start:     time.Now(),
	}
}

func (p *progress) Add(n int) {
	p.count += n

	p.sometimes.Do(func() {
		logger.Info("dedup progress",
			"stage", p.stage,
			"documents", p.count,
			"per_second", p.rate(),
		)
	})
}

func (p *progress) rate() int {
	elapsed := time.Since(p.start).Seconds()
	if elapsed <= 0 {
		return 0
	}

	return int(float64(p.count) / elapsed)
}
