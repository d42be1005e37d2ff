package aggregate

import "github.com/fortuna/courtside/internal/bdl"

// minGamesForWeighted is the games-played floor for a player to count toward
// the team's weighted per-game averages. Shooting splits ignore it.
const minGamesForWeighted = 5

// PlayerAverages is the read-only per-game view over one player's totals.
type PlayerAverages struct {
	Player      bdl.Player `json:"player"`
	GamesPlayed int        `json:"games_played"`
	Points      float64    `json:"pts"`
	Rebounds    float64    `json:"reb"`
	Assists     float64    `json:"ast"`
	Steals      float64    `json:"stl"`
	Blocks      float64    `json:"blk"`
	FGPct       Metric     `json:"fg_pct"`
	FG3Pct      Metric     `json:"fg3_pct"`
	FTPct       Metric     `json:"ft_pct"`

	// Totals backs the team-wide shooting splits and lets consumers
	// distinguish a true 0% from no attempts.
	Totals PlayerTotals `json:"totals"`
}

// Averages derives per-game rates and shooting percentages from season
// totals. Totals with zero games never occur here (Fold only emits players
// with at least one row), but the guard stays explicit.
func Averages(totals []PlayerTotals) []PlayerAverages {
	avgs := make([]PlayerAverages, 0, len(totals))
	for _, t := range totals {
		if t.GamesPlayed == 0 {
			continue
		}
		games := float64(t.GamesPlayed)
		avgs = append(avgs, PlayerAverages{
			Player:      t.Player,
			GamesPlayed: t.GamesPlayed,
			Points:      float64(t.Points) / games,
			Rebounds:    float64(t.Rebounds) / games,
			Assists:     float64(t.Assists) / games,
			Steals:      float64(t.Steals) / games,
			Blocks:      float64(t.Blocks) / games,
			FGPct:       Ratio(float64(t.FGM), float64(t.FGA)),
			FG3Pct:      Ratio(float64(t.FG3M), float64(t.FG3A)),
			FTPct:       Ratio(float64(t.FTM), float64(t.FTA)),
			Totals:      t,
		})
	}
	return avgs
}

// TeamSummary aggregates the whole roster plus the season record.
type TeamSummary struct {
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	GamesPlayed   int    `json:"games_played"`
	PointsPerGame Metric `json:"points_per_game"`

	// Weighted by games played, over players with >= 5 games.
	ReboundsPerGame Metric `json:"rebounds_per_game"`
	AssistsPerGame  Metric `json:"assists_per_game"`
	StealsPerGame   Metric `json:"steals_per_game"`
	BlocksPerGame   Metric `json:"blocks_per_game"`

	// Made/attempted over every player, no games floor.
	FGPct  Metric `json:"fg_pct"`
	FG3Pct Metric `json:"fg3_pct"`
	FTPct  Metric `json:"ft_pct"`
}

// Summarize computes the team-level aggregates. Wins, losses and
// points-per-game come from finished games directly, not from box scores, so
// the caller supplies them.
func Summarize(avgs []PlayerAverages, wins, losses int, ppg Metric) TeamSummary {
	s := TeamSummary{
		Wins:          wins,
		Losses:        losses,
		GamesPlayed:   wins + losses,
		PointsPerGame: ppg,
	}

	s.ReboundsPerGame = weightedAverage(avgs, func(p PlayerAverages) float64 { return p.Rebounds })
	s.AssistsPerGame = weightedAverage(avgs, func(p PlayerAverages) float64 { return p.Assists })
	s.StealsPerGame = weightedAverage(avgs, func(p PlayerAverages) float64 { return p.Steals })
	s.BlocksPerGame = weightedAverage(avgs, func(p PlayerAverages) float64 { return p.Blocks })

	var fgm, fga, fg3m, fg3a, ftm, fta float64
	for _, p := range avgs {
		fgm += float64(p.Totals.FGM)
		fga += float64(p.Totals.FGA)
		fg3m += float64(p.Totals.FG3M)
		fg3a += float64(p.Totals.FG3A)
		ftm += float64(p.Totals.FTM)
		fta += float64(p.Totals.FTA)
	}
	s.FGPct = Ratio(fgm, fga)
	s.FG3Pct = Ratio(fg3m, fg3a)
	s.FTPct = Ratio(ftm, fta)

	return s
}

// weightedAverage computes sum(stat * games) / sum(games) over players at or
// above the games floor, undefined when no player qualifies.
func weightedAverage(avgs []PlayerAverages, stat func(PlayerAverages) float64) Metric {
	var total, games float64
	for _, p := range avgs {
		if p.GamesPlayed < minGamesForWeighted {
			continue
		}
		total += stat(p) * float64(p.GamesPlayed)
		games += float64(p.GamesPlayed)
	}
	return Ratio(total, games)
}
