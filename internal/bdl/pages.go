package bdl

import "context"

// AllGames fetches every game for a team and season, following the
// next_cursor metadata until the listing is exhausted. Seasons usually fit in
// one page, but nothing here depends on that.
func (c *Client) AllGames(ctx context.Context, teamID, season int) ([]Game, error) {
	var all []Game
	cursor := 0
	for {
		page, err := c.Games(ctx, teamID, season, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Data...)

		if page.Meta.NextCursor == nil || len(page.Data) == 0 {
			return all, nil
		}
		cursor = *page.Meta.NextCursor
	}
}
