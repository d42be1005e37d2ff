package bdl

import (
	"context"
	"log"
	"time"

	"golang.org/x/time/rate"
)

const (
	// ChunkSize bounds how many game ids go into a single stats request.
	ChunkSize = 10

	// chunkInterval is the self-imposed pacing between chunk requests, kept
	// under the API's rate limit.
	chunkInterval = 200 * time.Millisecond
)

// ChunkFetchFunc fetches the rows for one chunk of game ids.
type ChunkFetchFunc func(ctx context.Context, gameIDs []int) ([]StatRow, error)

// BatchFetcher splits a large id list into chunks and fetches them strictly
// sequentially, pacing requests with a rate limiter. A failed chunk is
// skipped; the rest of the batch still runs, and the pacing interval still
// elapses before the next request.
type BatchFetcher struct {
	limiter *rate.Limiter
}

// NewBatchFetcher creates a fetcher with the standard 200ms pacing.
func NewBatchFetcher() *BatchFetcher {
	return NewBatchFetcherWithInterval(chunkInterval)
}

// NewBatchFetcherWithInterval overrides the pacing interval (useful for tests).
func NewBatchFetcherWithInterval(interval time.Duration) *BatchFetcher {
	return &BatchFetcher{
		// Burst 1: the first chunk goes out immediately, every later chunk
		// waits out the interval, whether or not the previous chunk failed.
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// FetchAll fetches rows for all game ids in input order and returns the
// concatenation of the successful chunks. An empty id list returns an empty
// result without touching the network. The only error returned is context
// cancellation.
func (b *BatchFetcher) FetchAll(ctx context.Context, gameIDs []int, fetch ChunkFetchFunc) ([]StatRow, error) {
	rows := make([]StatRow, 0, len(gameIDs))

	for start := 0; start < len(gameIDs); start += ChunkSize {
		end := start + ChunkSize
		if end > len(gameIDs) {
			end = len(gameIDs)
		}
		chunk := gameIDs[start:end]

		if err := b.limiter.Wait(ctx); err != nil {
			return rows, err
		}

		chunkRows, err := fetch(ctx, chunk)
		if err != nil {
			log.Printf("[batch] chunk %d-%d failed: %v (skipping)", start, end-1, err)
			continue
		}
		rows = append(rows, chunkRows...)
	}

	return rows, nil
}
