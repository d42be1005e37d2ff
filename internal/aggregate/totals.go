package aggregate

import (
	"sort"

	"github.com/fortuna/courtside/internal/bdl"
)

// PlayerTotals accumulates one player's counting stats across every
// qualifying box-score row in the season.
type PlayerTotals struct {
	Player      bdl.Player `json:"player"`
	GamesPlayed int        `json:"games_played"`
	Points      int        `json:"pts"`
	Rebounds    int        `json:"reb"`
	Assists     int        `json:"ast"`
	Steals      int        `json:"stl"`
	Blocks      int        `json:"blk"`
	FGM         int        `json:"fgm"`
	FGA         int        `json:"fga"`
	FG3M        int        `json:"fg3m"`
	FG3A        int        `json:"fg3a"`
	FTM         int        `json:"ftm"`
	FTA         int        `json:"fta"`
	Turnovers   int        `json:"turnovers"`
}

// DidNotPlay reports whether a minutes value is the did-not-play sentinel.
func DidNotPlay(min string) bool {
	return min == "" || min == "0" || min == "00"
}

// FilterTeamRows keeps rows that belong to the given team and whose player
// actually took the floor.
func FilterTeamRows(rows []bdl.StatRow, teamID int) []bdl.StatRow {
	kept := make([]bdl.StatRow, 0, len(rows))
	for _, row := range rows {
		if row.Team.ID != teamID || DidNotPlay(row.Min) {
			continue
		}
		kept = append(kept, row)
	}
	return kept
}

// Fold accumulates filtered box-score rows into per-player season totals.
// Players appear only if they contributed at least one row; output is ordered
// by player id so repeated runs over the same rows produce identical results.
func Fold(rows []bdl.StatRow) []PlayerTotals {
	byPlayer := make(map[int]*PlayerTotals)

	for _, row := range rows {
		if row.Player.ID == 0 {
			continue
		}
		t, ok := byPlayer[row.Player.ID]
		if !ok {
			t = &PlayerTotals{Player: row.Player}
			byPlayer[row.Player.ID] = t
		}
		t.GamesPlayed++
		t.Points += row.Points
		t.Rebounds += row.Rebounds
		t.Assists += row.Assists
		t.Steals += row.Steals
		t.Blocks += row.Blocks
		t.FGM += row.FGM
		t.FGA += row.FGA
		t.FG3M += row.FG3M
		t.FG3A += row.FG3A
		t.FTM += row.FTM
		t.FTA += row.FTA
		t.Turnovers += row.Turnovers
	}

	totals := make([]PlayerTotals, 0, len(byPlayer))
	for _, t := range byPlayer {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Player.ID < totals[j].Player.ID
	})
	return totals
}
