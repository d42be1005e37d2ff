package bdl

// Team identifies an NBA franchise as returned by the balldontlie API.
type Team struct {
	ID           int    `json:"id"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
	FullName     string `json:"full_name"`
	Name         string `json:"name"`
}

// Player carries the identity fields attached to every stat row.
type Player struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
	TeamID    int    `json:"team_id"`
}

// Game is one scheduled or completed game. Date is a calendar day
// ("2006-01-02") with no time-of-day meaning. Status is "Final" once the
// game has concluded.
type Game struct {
	ID               int    `json:"id"`
	Date             string `json:"date"`
	Season           int    `json:"season"`
	Status           string `json:"status"`
	Period           int    `json:"period"`
	Time             string `json:"time"`
	Postseason       bool   `json:"postseason"`
	HomeTeam         Team   `json:"home_team"`
	HomeTeamScore    int    `json:"home_team_score"`
	VisitorTeam      Team   `json:"visitor_team"`
	VisitorTeamScore int    `json:"visitor_team_score"`
}

// GameRef is the abbreviated game object embedded in stat rows.
type GameRef struct {
	ID     int    `json:"id"`
	Date   string `json:"date"`
	Season int    `json:"season"`
	Status string `json:"status"`
}

// StatRow is one player's line in one game's box score. Min is a string;
// "", "0" and "00" all mean the player did not play.
type StatRow struct {
	ID        int     `json:"id"`
	Min       string  `json:"min"`
	Points    int     `json:"pts"`
	Rebounds  int     `json:"reb"`
	Assists   int     `json:"ast"`
	Steals    int     `json:"stl"`
	Blocks    int     `json:"blk"`
	FGM       int     `json:"fgm"`
	FGA       int     `json:"fga"`
	FG3M      int     `json:"fg3m"`
	FG3A      int     `json:"fg3a"`
	FTM       int     `json:"ftm"`
	FTA       int     `json:"fta"`
	Turnovers int     `json:"turnover"`
	Player    Player  `json:"player"`
	Team      Team    `json:"team"`
	Game      GameRef `json:"game"`
}

// Standing is one team's row in the season standings table.
type Standing struct {
	Team             Team   `json:"team"`
	ConferenceRank   int    `json:"conference_rank"`
	ConferenceRecord string `json:"conference_record"`
	DivisionRank     int    `json:"division_rank"`
	DivisionRecord   string `json:"division_record"`
	Wins             int    `json:"wins"`
	Losses           int    `json:"losses"`
	HomeRecord       string `json:"home_record"`
	RoadRecord       string `json:"road_record"`
	Season           int    `json:"season"`
}

// Meta is the pagination envelope attached to list responses. NextCursor is
// nil on the last page.
type Meta struct {
	NextCursor *int `json:"next_cursor"`
	PerPage    int  `json:"per_page"`
}

// GamesPage is one page of the /games listing.
type GamesPage struct {
	Data []Game `json:"data"`
	Meta Meta   `json:"meta"`
}

// StatsPage is one page of the /stats listing.
type StatsPage struct {
	Data []StatRow `json:"data"`
	Meta Meta      `json:"meta"`
}

// StandingsPage is the /standings response.
type StandingsPage struct {
	Data []Standing `json:"data"`
}
