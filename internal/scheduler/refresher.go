// Package scheduler re-runs the pipeline on a fixed interval.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/fortuna/courtside/internal/pipeline"
)

// Refresher triggers pipeline runs: once immediately on start, then on every
// tick. Runs are not cancelled when a new one starts; the pipeline's
// generation check keeps stale results from committing.
type Refresher struct {
	pipeline *pipeline.Pipeline
	interval time.Duration
}

// NewRefresher creates a refresher for the given interval.
func NewRefresher(p *pipeline.Pipeline, interval time.Duration) *Refresher {
	return &Refresher{
		pipeline: p,
		interval: interval,
	}
}

// Start blocks until ctx is cancelled, running the pipeline on the interval.
func (r *Refresher) Start(ctx context.Context) {
	log.Printf("→ Season refresh started (interval: %v)", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.pipeline.Run(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("→ Season refresh stopped")
			return
		case <-ticker.C:
			r.pipeline.Run(ctx)
		}
	}
}
