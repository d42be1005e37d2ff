package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"

	"github.com/fortuna/courtside/internal/aggregate"
	"github.com/fortuna/courtside/internal/pipeline"
)

// Handler serves the latest committed pipeline snapshot. Handlers never
// trigger upstream fetches themselves; POST /refresh starts a new run in the
// background.
type Handler struct {
	pipeline *pipeline.Pipeline
}

// NewHandler creates a new handler
func NewHandler(p *pipeline.Pipeline) *Handler {
	return &Handler{pipeline: p}
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "courtside",
	})
}

// GetSnapshot returns the full current snapshot.
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.pipeline.Snapshot())
}

// GetPlayerAverages returns per-player season averages, sorted descending by
// the requested stat key (default pts).
func (h *Handler) GetPlayerAverages(w http.ResponseWriter, r *http.Request) {
	snap := h.pipeline.Snapshot()

	sortKey := r.URL.Query().Get("sort")
	if sortKey == "" {
		sortKey = "pts"
	}
	key, ok := playerSortKeys[sortKey]
	if !ok {
		respondError(w, http.StatusBadRequest, "Unknown sort key: "+sortKey, nil)
		return
	}

	// Committed snapshots are immutable; sort a copy.
	players := make([]aggregate.PlayerAverages, len(snap.Players))
	copy(players, snap.Players)
	sort.SliceStable(players, func(i, j int) bool {
		return key(players[i]) > key(players[j])
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"players": players,
		"sort":    sortKey,
		"loading": snap.PlayersLoading,
	})
}

// playerSortKeys maps query sort keys to stat extractors. Undefined
// percentages sort below every defined value.
var playerSortKeys = map[string]func(aggregate.PlayerAverages) float64{
	"pts":          func(p aggregate.PlayerAverages) float64 { return p.Points },
	"reb":          func(p aggregate.PlayerAverages) float64 { return p.Rebounds },
	"ast":          func(p aggregate.PlayerAverages) float64 { return p.Assists },
	"stl":          func(p aggregate.PlayerAverages) float64 { return p.Steals },
	"blk":          func(p aggregate.PlayerAverages) float64 { return p.Blocks },
	"games_played": func(p aggregate.PlayerAverages) float64 { return float64(p.GamesPlayed) },
	"gp":           func(p aggregate.PlayerAverages) float64 { return float64(p.GamesPlayed) },
	"fg_pct":       func(p aggregate.PlayerAverages) float64 { return p.FGPct.Or(-1) },
	"fg3_pct":      func(p aggregate.PlayerAverages) float64 { return p.FG3Pct.Or(-1) },
	"ft_pct":       func(p aggregate.PlayerAverages) float64 { return p.FTPct.Or(-1) },
}

// GetGames returns the finished and upcoming game lists with the season
// record.
func (h *Handler) GetGames(w http.ResponseWriter, r *http.Request) {
	snap := h.pipeline.Snapshot()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"finished": snap.Finished,
		"upcoming": snap.Upcoming,
		"wins":     snap.Wins,
		"losses":   snap.Losses,
		"team_ppg": snap.TeamPPG,
		"loading":  snap.GamesLoading,
	})
}

// GetLastGame returns the most recent finished game with its box score.
func (h *Handler) GetLastGame(w http.ResponseWriter, r *http.Request) {
	snap := h.pipeline.Snapshot()
	if snap.LastGame == nil {
		if snap.GamesLoading {
			respondJSON(w, http.StatusOK, map[string]interface{}{"loading": true})
			return
		}
		respondError(w, http.StatusNotFound, "No finished games this season", nil)
		return
	}
	respondJSON(w, http.StatusOK, snap.LastGame)
}

// GetTeamSummary returns the team season summary and conference rank.
func (h *Handler) GetTeamSummary(w http.ResponseWriter, r *http.Request) {
	snap := h.pipeline.Snapshot()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"team":            snap.Team,
		"conference_rank": snap.ConferenceRank,
		"loading":         snap.GamesLoading || snap.PlayersLoading,
	})
}

// TriggerRefresh starts a new pipeline run in the background. The in-flight
// run, if any, keeps going; its result will be discarded at commit time.
func (h *Handler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	go h.pipeline.Run(context.Background())
	respondJSON(w, http.StatusAccepted, map[string]string{
		"message": "Refresh started",
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(response)
}
