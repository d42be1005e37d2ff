package bdl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// BaseURL is the production balldontlie API root.
	BaseURL = "https://api.balldontlie.io/v1"

	// PerPageMax is the largest page size the API accepts.
	PerPageMax = 100

	requestTimeout = 15 * time.Second
)

// ErrMissingAPIKey is returned before any network call is attempted when the
// client was built without a credential.
var ErrMissingAPIKey = errors.New("bdl: missing API key")

// HTTPError is a non-2xx response from the API.
type HTTPError struct {
	Status int
	URL    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("bdl: HTTP %d from %s", e.Status, e.URL)
}

// Client issues authenticated requests against the balldontlie API.
// One outbound call per method invocation; the client never retries.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for the production API.
func NewClient(apiKey string) *Client {
	return NewClientWithBaseURL(apiKey, BaseURL)
}

// NewClientWithBaseURL overrides the API base URL (useful for tests).
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Games fetches one page of games for a team and season. A zero cursor
// requests the first page.
func (c *Client) Games(ctx context.Context, teamID, season, cursor int) (*GamesPage, error) {
	q := url.Values{}
	q.Add("team_ids[]", strconv.Itoa(teamID))
	q.Add("seasons[]", strconv.Itoa(season))
	q.Set("per_page", strconv.Itoa(PerPageMax))
	if cursor > 0 {
		q.Set("cursor", strconv.Itoa(cursor))
	}

	var page GamesPage
	if err := c.get(ctx, "/games", q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Stats fetches box-score rows for the given game ids, up to PerPageMax rows.
func (c *Client) Stats(ctx context.Context, gameIDs []int) ([]StatRow, error) {
	q := url.Values{}
	for _, id := range gameIDs {
		q.Add("game_ids[]", strconv.Itoa(id))
	}
	q.Set("per_page", strconv.Itoa(PerPageMax))

	var page StatsPage
	if err := c.get(ctx, "/stats", q, &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// Standings fetches the season standings table.
func (c *Client) Standings(ctx context.Context, season int) ([]Standing, error) {
	q := url.Values{}
	q.Set("season", strconv.Itoa(season))

	var page StandingsPage
	if err := c.get(ctx, "/standings", q, &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// get performs one authenticated GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("bdl: building request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bdl: request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Status: resp.StatusCode, URL: reqURL}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("bdl: decoding %s response: %w", path, err)
	}
	return nil
}
