package bdl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// rowsFor turns a chunk of game ids into one marker row per id, so tests can
// check which chunks contributed to the result.
func rowsFor(gameIDs []int) []StatRow {
	rows := make([]StatRow, len(gameIDs))
	for i, id := range gameIDs {
		rows[i] = StatRow{Game: GameRef{ID: id}}
	}
	return rows
}

func TestBatchChunking(t *testing.T) {
	var chunks [][]int
	fetch := func(ctx context.Context, gameIDs []int) ([]StatRow, error) {
		chunks = append(chunks, append([]int(nil), gameIDs...))
		return rowsFor(gameIDs), nil
	}

	b := NewBatchFetcherWithInterval(time.Millisecond)
	rows, err := b.FetchAll(context.Background(), ids(25), fetch)
	require.NoError(t, err)

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 10)
	assert.Len(t, chunks[1], 10)
	assert.Len(t, chunks[2], 5)

	// Input order preserved across chunk boundaries.
	require.Len(t, rows, 25)
	for i, row := range rows {
		assert.Equal(t, i+1, row.Game.ID)
	}
}

func TestBatchSkipsFailedChunk(t *testing.T) {
	call := 0
	fetch := func(ctx context.Context, gameIDs []int) ([]StatRow, error) {
		call++
		if call == 2 {
			return nil, errors.New("upstream hiccup")
		}
		return rowsFor(gameIDs), nil
	}

	b := NewBatchFetcherWithInterval(time.Millisecond)
	rows, err := b.FetchAll(context.Background(), ids(25), fetch)
	require.NoError(t, err)

	// Chunks 1 and 3 survive; the failed chunk contributes nothing.
	require.Len(t, rows, 15)
	assert.Equal(t, 1, rows[0].Game.ID)
	assert.Equal(t, 10, rows[9].Game.ID)
	assert.Equal(t, 21, rows[10].Game.ID)
	assert.Equal(t, 25, rows[14].Game.ID)
	assert.Equal(t, 3, call, "a failed chunk must not abort the batch")
}

func TestBatchEmptyInput(t *testing.T) {
	fetch := func(ctx context.Context, gameIDs []int) ([]StatRow, error) {
		t.Fatal("fetch must not be called for an empty id list")
		return nil, nil
	}

	b := NewBatchFetcher()
	rows, err := b.FetchAll(context.Background(), nil, fetch)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestBatchPacesRequests(t *testing.T) {
	const interval = 40 * time.Millisecond

	var stamps []time.Time
	fetch := func(ctx context.Context, gameIDs []int) ([]StatRow, error) {
		stamps = append(stamps, time.Now())
		return nil, errors.New("fail every chunk")
	}

	b := NewBatchFetcherWithInterval(interval)
	start := time.Now()
	_, err := b.FetchAll(context.Background(), ids(25), fetch)
	require.NoError(t, err)

	require.Len(t, stamps, 3)
	// First chunk goes out immediately; the two later chunks each wait out
	// the interval, even though every chunk failed.
	assert.Less(t, stamps[0].Sub(start), interval)
	assert.GreaterOrEqual(t, stamps[2].Sub(start), 2*interval-5*time.Millisecond)
}

func TestBatchContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	fetch := func(ctx context.Context, gameIDs []int) ([]StatRow, error) {
		cancel() // cancel while the batch is mid-flight
		return rowsFor(gameIDs), nil
	}

	b := NewBatchFetcherWithInterval(10 * time.Millisecond)
	rows, err := b.FetchAll(ctx, ids(25), fetch)
	require.Error(t, err)
	assert.Len(t, rows, 10, "rows fetched before cancellation are kept")
}
