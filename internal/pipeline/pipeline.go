// Package pipeline orchestrates one season-stats run: a shared catalog fetch,
// a games stage and a players stage running as independent tasks, and a
// generation-checked commit of the resulting immutable snapshot.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/fortuna/courtside/internal/aggregate"
	"github.com/fortuna/courtside/internal/bdl"
	"github.com/fortuna/courtside/internal/catalog"
)

// Config parameterizes the pipeline: one tracked team, one season.
type Config struct {
	TeamID int
	Season int
}

// LastGameDetail is the most recent finished game with the tracked team's
// box-score rows, sorted by points descending.
type LastGameDetail struct {
	Game  bdl.Game      `json:"game"`
	Rows  []bdl.StatRow `json:"rows"`
	Won   bool          `json:"won"`
	Label string        `json:"label"`
}

// Snapshot is one run's published output. Values handed to consumers are
// never mutated after commit; a newer run replaces the snapshot wholesale.
type Snapshot struct {
	RunID       string    `json:"run_id"`
	Generation  int64     `json:"generation"`
	GeneratedAt time.Time `json:"generated_at"`
	TeamID      int       `json:"team_id"`
	Season      int       `json:"season"`

	Finished       []bdl.Game       `json:"finished"`
	Upcoming       []bdl.Game       `json:"upcoming"`
	Wins           int              `json:"wins"`
	Losses         int              `json:"losses"`
	TeamPPG        aggregate.Metric `json:"team_ppg"`
	LastGame       *LastGameDetail  `json:"last_game"`
	ConferenceRank *int             `json:"conference_rank"`

	Players []aggregate.PlayerAverages `json:"players"`
	Team    aggregate.TeamSummary      `json:"team"`

	// One readiness flag per stage, so consumers can show distinct
	// loading states.
	GamesLoading   bool `json:"games_loading"`
	PlayersLoading bool `json:"players_loading"`
}

// SnapshotPublisher receives committed snapshots, best-effort.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, snap Snapshot) error
}

// Pipeline owns the latest committed snapshot and runs refreshes against the
// balldontlie API. Runs are tagged with a monotonically increasing
// generation; a run's commits are discarded once a newer run has started, so
// a stale run can never overwrite a fresher result.
type Pipeline struct {
	client *bdl.Client
	batch  *bdl.BatchFetcher
	cfg    Config

	gen atomic.Int64

	mu      sync.RWMutex
	current Snapshot

	publisher SnapshotPublisher
}

// New creates a pipeline. No fetch happens until Run.
func New(client *bdl.Client, batch *bdl.BatchFetcher, cfg Config) *Pipeline {
	return &Pipeline{
		client: client,
		batch:  batch,
		cfg:    cfg,
		current: Snapshot{
			TeamID:         cfg.TeamID,
			Season:         cfg.Season,
			GamesLoading:   true,
			PlayersLoading: true,
		},
	}
}

// SetPublisher attaches an optional snapshot publisher. Call before the
// first Run.
func (p *Pipeline) SetPublisher(pub SnapshotPublisher) {
	p.publisher = pub
}

// Snapshot returns the latest committed snapshot.
func (p *Pipeline) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Run executes one full pipeline pass and reports the run's final snapshot
// and whether it was committed (false when a newer run superseded it).
// There is no cancellation of in-flight runs; superseded runs simply fail to
// commit.
func (p *Pipeline) Run(ctx context.Context) (Snapshot, bool) {
	gen := p.gen.Add(1)
	runID := uuid.NewString()
	start := time.Now()
	log.Printf("[pipeline] run %s (generation %d) starting: team %d season %d",
		runID, gen, p.cfg.TeamID, p.cfg.Season)

	r := &run{p: p}
	r.snap = Snapshot{
		RunID:          runID,
		Generation:     gen,
		GeneratedAt:    time.Now().UTC(),
		TeamID:         p.cfg.TeamID,
		Season:         p.cfg.Season,
		GamesLoading:   true,
		PlayersLoading: true,
	}
	r.update(func(s *Snapshot) {})

	// Single source of truth for the season game list; both stages
	// consume this one fetch.
	games, err := p.client.AllGames(ctx, p.cfg.TeamID, p.cfg.Season)
	if err != nil {
		log.Printf("[pipeline] run %s: season game fetch failed: %v", runID, err)
		committed := r.update(func(s *Snapshot) {
			s.GamesLoading = false
			s.PlayersLoading = false
		})
		return r.final(), committed
	}

	cat := catalog.Build(games, p.cfg.TeamID, p.cfg.Season, time.Now())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		p.runGamesStage(ctx, r, cat)
	}()
	go func() {
		defer wg.Done()
		p.runPlayersStage(ctx, r, cat)
	}()
	wg.Wait()

	committed := r.update(func(s *Snapshot) {
		s.Team = aggregate.Summarize(s.Players, cat.Wins, cat.Losses, cat.PointsPerGame)
		s.GeneratedAt = time.Now().UTC()
	})

	final := r.final()
	if committed {
		log.Printf("[pipeline] run %s committed in %v: %d finished, %d upcoming, %d players",
			runID, time.Since(start).Round(time.Millisecond),
			len(final.Finished), len(final.Upcoming), len(final.Players))
		p.publish(ctx, final)
	} else {
		log.Printf("[pipeline] run %s superseded by a newer run, result discarded", runID)
	}
	return final, committed
}

// runGamesStage fills the game-related half of the snapshot: lists, record,
// PPG, last-game detail and the best-effort conference rank.
func (p *Pipeline) runGamesStage(ctx context.Context, r *run, cat catalog.Catalog) {
	var last *LastGameDetail
	if game, ok := cat.LastFinished(); ok {
		last = &LastGameDetail{
			Game:  game,
			Won:   catalog.Won(game, p.cfg.TeamID),
			Label: gameLabel(game),
		}
		rows, err := p.client.Stats(ctx, []int{game.ID})
		if err != nil {
			log.Printf("[pipeline] last-game box score fetch failed: %v", err)
		} else {
			team := aggregate.FilterTeamRows(rows, p.cfg.TeamID)
			sort.SliceStable(team, func(i, j int) bool {
				return team[i].Points > team[j].Points
			})
			last.Rows = team
		}
	}

	rank := p.fetchConferenceRank(ctx)

	r.update(func(s *Snapshot) {
		s.Finished = cat.Finished
		s.Upcoming = cat.Upcoming
		s.Wins = cat.Wins
		s.Losses = cat.Losses
		s.TeamPPG = cat.PointsPerGame
		s.LastGame = last
		s.ConferenceRank = rank
		s.GamesLoading = false
	})
}

// runPlayersStage batch-fetches box scores for every finished game and folds
// them into per-player season averages.
func (p *Pipeline) runPlayersStage(ctx context.Context, r *run, cat catalog.Catalog) {
	ids := cat.FinishedIDs()
	if len(ids) == 0 {
		r.update(func(s *Snapshot) {
			s.Players = []aggregate.PlayerAverages{}
			s.PlayersLoading = false
		})
		return
	}

	rows, err := p.batch.FetchAll(ctx, ids, func(ctx context.Context, chunk []int) ([]bdl.StatRow, error) {
		return p.client.Stats(ctx, chunk)
	})
	if err != nil {
		log.Printf("[pipeline] box score batch interrupted: %v", err)
	}

	totals := aggregate.Fold(aggregate.FilterTeamRows(rows, p.cfg.TeamID))
	avgs := aggregate.Averages(totals)

	r.update(func(s *Snapshot) {
		s.Players = avgs
		s.PlayersLoading = false
	})
}

// fetchConferenceRank queries the standings, best-effort: any failure or a
// missing row leaves the rank undefined and never aborts the run.
func (p *Pipeline) fetchConferenceRank(ctx context.Context) *int {
	standings, err := p.client.Standings(ctx, p.cfg.Season)
	if err != nil {
		log.Printf("[pipeline] standings fetch failed: %v (continuing without rank)", err)
		return nil
	}
	for _, s := range standings {
		if s.Team.ID == p.cfg.TeamID {
			rank := s.ConferenceRank
			return &rank
		}
	}
	return nil
}

// publish hands a committed snapshot to the publisher, if one is attached.
func (p *Pipeline) publish(ctx context.Context, snap Snapshot) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishSnapshot(ctx, snap); err != nil {
		log.Printf("[pipeline] snapshot publish failed: %v", err)
	}
}

// gameLabel formats a finished game the way the scoreboard shows it,
// visitor first.
func gameLabel(g bdl.Game) string {
	return fmt.Sprintf("%s %d @ %s %d — %s",
		g.VisitorTeam.Abbreviation, g.VisitorTeamScore,
		g.HomeTeam.Abbreviation, g.HomeTeamScore,
		catalog.ParseDate(g.Date).Format("Jan 2, 2006"))
}

// run is the private state of one pipeline pass. Both stages mutate the
// run-local snapshot under its own lock; every mutation is followed by a
// commit attempt against the shared store, which rejects it if a newer
// generation has started.
type run struct {
	p *Pipeline

	mu   sync.Mutex
	snap Snapshot
}

func (r *run) update(mutate func(*Snapshot)) bool {
	r.mu.Lock()
	mutate(&r.snap)
	snap := r.snap
	r.mu.Unlock()
	return r.p.commit(snap)
}

func (r *run) final() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

// commit stores the snapshot unless a newer run has started since.
func (p *Pipeline) commit(snap Snapshot) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if snap.Generation != p.gen.Load() {
		return false
	}
	p.current = snap
	return true
}
