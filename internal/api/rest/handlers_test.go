package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/courtside/internal/bdl"
	"github.com/fortuna/courtside/internal/pipeline"
)

const teamID = 16

// upstreamFixture serves a tiny two-game season for the pipeline to ingest.
func upstreamFixture(t *testing.T) *httptest.Server {
	t.Helper()

	games := []bdl.Game{
		{
			ID: 1, Date: "2025-11-01", Status: "Final",
			HomeTeam: bdl.Team{ID: teamID, Abbreviation: "MIA"}, HomeTeamScore: 110,
			VisitorTeam: bdl.Team{ID: 2, Abbreviation: "OPP"}, VisitorTeamScore: 100,
		},
		{
			ID: 2, Date: "2025-11-03", Status: "Final",
			HomeTeam: bdl.Team{ID: 3, Abbreviation: "OPP"}, HomeTeamScore: 101,
			VisitorTeam: bdl.Team{ID: teamID, Abbreviation: "MIA"}, VisitorTeamScore: 95,
		},
	}
	stats := map[int][]bdl.StatRow{
		1: {
			{Min: "30", Points: 20, Rebounds: 4, Player: bdl.Player{ID: 7}, Team: bdl.Team{ID: teamID}},
			{Min: "22", Points: 8, Rebounds: 11, Player: bdl.Player{ID: 8}, Team: bdl.Team{ID: teamID}},
		},
		2: {
			{Min: "31", Points: 26, Rebounds: 5, Player: bdl.Player{ID: 7}, Team: bdl.Team{ID: teamID}},
		},
	}

	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.URL.Path {
		case "/games":
			json.NewEncoder(w).Encode(bdl.GamesPage{Data: games})
		case "/stats":
			var rows []bdl.StatRow
			for _, raw := range r.URL.Query()["game_ids[]"] {
				id, _ := strconv.Atoi(raw)
				rows = append(rows, stats[id]...)
			}
			json.NewEncoder(w).Encode(bdl.StatsPage{Data: rows})
		case "/standings":
			json.NewEncoder(w).Encode(bdl.StandingsPage{Data: []bdl.Standing{
				{Team: bdl.Team{ID: teamID}, ConferenceRank: 2},
			}})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func loadedHandler(t *testing.T) *Handler {
	t.Helper()
	server := upstreamFixture(t)
	client := bdl.NewClientWithBaseURL("test-key", server.URL)
	batch := bdl.NewBatchFetcherWithInterval(time.Millisecond)
	p := pipeline.New(client, batch, pipeline.Config{TeamID: teamID, Season: 2025})

	_, committed := p.Run(context.Background())
	require.True(t, committed)

	return NewHandler(p)
}

func TestGetPlayerAveragesSorted(t *testing.T) {
	h := loadedHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/players?sort=reb", nil)
	w := httptest.NewRecorder()
	h.GetPlayerAverages(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Players []struct {
			Player struct {
				ID int `json:"id"`
			} `json:"player"`
			Rebounds float64 `json:"reb"`
		} `json:"players"`
		Sort    string `json:"sort"`
		Loading bool   `json:"loading"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, "reb", body.Sort)
	assert.False(t, body.Loading)
	require.Len(t, body.Players, 2)
	assert.Equal(t, 8, body.Players[0].Player.ID, "11 rpg sorts above 4.5 rpg")
	assert.Equal(t, 7, body.Players[1].Player.ID)
}

func TestGetPlayerAveragesUnknownSortKey(t *testing.T) {
	h := loadedHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/players?sort=vibes", nil)
	w := httptest.NewRecorder()
	h.GetPlayerAverages(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetGames(t *testing.T) {
	h := loadedHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/games", nil)
	w := httptest.NewRecorder()
	h.GetGames(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Finished []bdl.Game `json:"finished"`
		Wins     int        `json:"wins"`
		Losses   int        `json:"losses"`
		TeamPPG  *float64   `json:"team_ppg"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, 1, body.Wins)
	assert.Equal(t, 1, body.Losses)
	require.NotNil(t, body.TeamPPG)
	assert.InDelta(t, 102.5, *body.TeamPPG, 1e-9)
	require.Len(t, body.Finished, 2)
	assert.Equal(t, "2025-11-03", body.Finished[0].Date)
}

func TestGetLastGame(t *testing.T) {
	h := loadedHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/games/last", nil)
	w := httptest.NewRecorder()
	h.GetLastGame(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Game struct {
			ID int `json:"id"`
		} `json:"game"`
		Won bool `json:"won"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Game.ID)
	assert.False(t, body.Won)
}

func TestGetTeamSummary(t *testing.T) {
	h := loadedHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/team", nil)
	w := httptest.NewRecorder()
	h.GetTeamSummary(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		ConferenceRank *int `json:"conference_rank"`
		Loading        bool `json:"loading"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.ConferenceRank)
	assert.Equal(t, 2, *body.ConferenceRank)
	assert.False(t, body.Loading)
}

func TestHealthCheck(t *testing.T) {
	h := loadedHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.HealthCheck(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
