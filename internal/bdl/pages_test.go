package bdl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllGamesFollowsCursor(t *testing.T) {
	next := 37
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("cursor") {
		case "":
			json.NewEncoder(w).Encode(GamesPage{
				Data: []Game{{ID: 1}, {ID: 2}},
				Meta: Meta{NextCursor: &next, PerPage: 100},
			})
		case "37":
			json.NewEncoder(w).Encode(GamesPage{
				Data: []Game{{ID: 3}},
				Meta: Meta{PerPage: 100},
			})
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("cursor"))
		}
	}))
	defer server.Close()

	client := NewClientWithBaseURL("k", server.URL)

	games, err := client.AllGames(context.Background(), 16, 2025)
	require.NoError(t, err)
	require.Len(t, games, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{games[0].ID, games[1].ID, games[2].ID})
}

func TestAllGamesSinglePage(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(GamesPage{Data: []Game{{ID: 9}}})
	}))
	defer server.Close()

	client := NewClientWithBaseURL("k", server.URL)

	games, err := client.AllGames(context.Background(), 16, 2025)
	require.NoError(t, err)
	assert.Len(t, games, 1)
	assert.Equal(t, 1, calls)
}

func TestAllGamesPropagatesError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("k", server.URL)

	_, err := client.AllGames(context.Background(), 16, 2025)
	require.Error(t, err)
}
