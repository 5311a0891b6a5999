//-------------------------------------------------------------------------
//
// pgEdge Superstore ETL
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package sample

import (
	"github.com/pgEdge/pgedge-superstore/internal/logging"
)

// DefaultProgressInterval is how often, in rows, generation progress is
// logged.
const DefaultProgressInterval = 100000

// progress tracks and reports generation progress.
type progress struct {
	total    int
	current  int
	interval int
}

func newProgress(total, interval int) *progress {
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	return &progress{total: total, interval: interval}
}

// update advances the counter and logs when an interval boundary is
// crossed.
func (p *progress) update(rows int) {
	old := p.current
	p.current += rows

	if p.current/p.interval > old/p.interval {
		pct := float64(p.current) / float64(p.total) * 100
		logging.Info().
			Int("rows", p.current).
			Int("total", p.total).
			Float64("percent", pct).
			Msg("Generating sample rows")
	}
}

func (p *progress) done() {
	logging.Info().
		Int("rows", p.current).
		Msg("Sample export complete")
}
