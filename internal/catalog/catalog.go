// Package catalog partitions a season's game list for one tracked team into
// the views the pipeline serves: finished games newest-first, the next few
// upcoming games, and the season record.
package catalog

import (
	"sort"
	"time"

	"github.com/fortuna/courtside/internal/aggregate"
	"github.com/fortuna/courtside/internal/bdl"
)

// upcomingLimit caps the upcoming-games view.
const upcomingLimit = 5

// Catalog is the classified season game list for one team.
type Catalog struct {
	TeamID int `json:"team_id"`
	Season int `json:"season"`

	// Finished is sorted most recent first; Upcoming soonest first,
	// truncated to upcomingLimit.
	Finished []bdl.Game `json:"finished"`
	Upcoming []bdl.Game `json:"upcoming"`

	Wins          int              `json:"wins"`
	Losses        int              `json:"losses"`
	PointsPerGame aggregate.Metric `json:"points_per_game"`
}

// ParseDate converts an API calendar-day string to a time anchored at noon
// local, so date arithmetic never crosses a day boundary under DST shifts.
func ParseDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.Local)
}

// Build classifies the raw game list. Games not involving teamID are dropped;
// the API filter should already guarantee this, but the invariant is cheap to
// keep locally. now supplies "today" for the upcoming cutoff.
func Build(games []bdl.Game, teamID, season int, now time.Time) Catalog {
	cat := Catalog{TeamID: teamID, Season: season}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for _, g := range games {
		if g.HomeTeam.ID != teamID && g.VisitorTeam.ID != teamID {
			continue
		}
		if g.Status == "Final" {
			cat.Finished = append(cat.Finished, g)
			continue
		}
		if !ParseDate(g.Date).Before(today) {
			cat.Upcoming = append(cat.Upcoming, g)
		}
	}

	sort.SliceStable(cat.Finished, func(i, j int) bool {
		return ParseDate(cat.Finished[i].Date).After(ParseDate(cat.Finished[j].Date))
	})
	sort.SliceStable(cat.Upcoming, func(i, j int) bool {
		return ParseDate(cat.Upcoming[i].Date).Before(ParseDate(cat.Upcoming[j].Date))
	})
	if len(cat.Upcoming) > upcomingLimit {
		cat.Upcoming = cat.Upcoming[:upcomingLimit]
	}

	var totalPoints int
	for _, g := range cat.Finished {
		team, opp := Scores(g, teamID)
		if team > opp {
			cat.Wins++
		} else {
			cat.Losses++
		}
		totalPoints += team
	}
	if len(cat.Finished) > 0 {
		cat.PointsPerGame = aggregate.DefinedMetric(float64(totalPoints) / float64(len(cat.Finished)))
	}

	return cat
}

// Scores returns the tracked team's score and the opponent's score for a
// game, resolving home/visitor by team id.
func Scores(g bdl.Game, teamID int) (team, opponent int) {
	if g.HomeTeam.ID == teamID {
		return g.HomeTeamScore, g.VisitorTeamScore
	}
	return g.VisitorTeamScore, g.HomeTeamScore
}

// Won reports whether the tracked team won a finished game.
func Won(g bdl.Game, teamID int) bool {
	team, opponent := Scores(g, teamID)
	return team > opponent
}

// FinishedIDs lists finished game ids in catalog order.
func (c Catalog) FinishedIDs() []int {
	ids := make([]int, len(c.Finished))
	for i, g := range c.Finished {
		ids[i] = g.ID
	}
	return ids
}

// LastFinished returns the most recent finished game, or false when the
// season has none.
func (c Catalog) LastFinished() (bdl.Game, bool) {
	if len(c.Finished) == 0 {
		return bdl.Game{}, false
	}
	return c.Finished[0], true
}
