package client

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riftlog/config"
	"riftlog/database"
	"riftlog/web"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	db, err := database.ConnectMemory()
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	server := web.NewServer(&config.Config{Port: "0"}, db)
	return NewWithHandler(server.Router())
}

func TestClientHealth(t *testing.T) {
	c := newTestClient(t)
	assert.NoError(t, c.Health())
}

func TestClientMatchRoundTrip(t *testing.T) {
	c := newTestClient(t)

	notes := "good roams"
	created, err := c.CreateMatch(MatchRequest{
		Champion:     "Ahri",
		Role:         "mid",
		Result:       database.ResultWin,
		Kills:        7,
		Deaths:       2,
		Assists:      9,
		CSPerMin:     7.4,
		GameDuration: 32,
		Notes:        &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ahri", created.Champion)

	fetched, err := c.Match(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	require.NotNil(t, fetched.Notes)
	assert.Equal(t, "good roams", *fetched.Notes)

	updated, err := c.UpdateMatch(created.ID, MatchRequest{
		Champion: "Ahri",
		Role:     "mid",
		Result:   database.ResultLoss,
		Kills:    7,
		Deaths:   8,
		Assists:  9,
		CSPerMin: 6.1,
	})
	require.NoError(t, err)
	assert.Equal(t, database.ResultLoss, updated.Result)

	require.NoError(t, c.DeleteMatch(created.ID))

	_, err = c.Match(created.ID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}

func TestClientMatchesWithMistakes(t *testing.T) {
	c := newTestClient(t)

	catalog, err := c.Mistakes()
	require.NoError(t, err)
	require.Len(t, catalog, len(database.DefaultMistakes))

	ids := []int64{catalog[0].ID, catalog[1].ID}
	created, err := c.CreateMatch(MatchRequest{
		Champion:   "Zed",
		Role:       "mid",
		Result:     database.ResultLoss,
		MistakeIDs: &ids,
	})
	require.NoError(t, err)
	assert.Len(t, created.Mistakes, 2)

	stats, err := c.MistakeStats()
	require.NoError(t, err)
	assert.Len(t, stats, 2)
}

func TestClientValidationError(t *testing.T) {
	c := newTestClient(t)

	_, err := c.CreateMatch(MatchRequest{
		Champion: "Ahri",
		Role:     "mid",
		Result:   "draw",
	})
	require.Error(t, err)

	// 服务端拒绝(而非传输失败)应解出 APIError，消息来自响应体
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Contains(t, apiErr.Message, "win")
	assert.False(t, errors.Is(err, ErrUnreachable))
}

func TestClientUnreachable(t *testing.T) {
	// 没有监听者的端口，传输层立刻失败
	c := NewWithURL("http://127.0.0.1:1/api")

	err := c.Health()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestClientGoalRoundTrip(t *testing.T) {
	c := newTestClient(t)

	created, err := c.CreateGoal(GoalRequest{Title: "Improve CS to 7/min"})
	require.NoError(t, err)
	assert.Equal(t, database.GoalActive, created.Status)

	updated, err := c.UpdateGoal(created.ID, GoalRequest{
		Title:  "Improve CS to 7/min",
		Status: database.GoalCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, database.GoalCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)

	active, err := c.Goals(database.GoalActive)
	require.NoError(t, err)
	assert.Empty(t, active)

	completed, err := c.Goals(database.GoalCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, created.ID, completed[0].ID)

	require.NoError(t, c.DeleteGoal(created.ID))
}

func TestClientMatchStats(t *testing.T) {
	c := newTestClient(t)

	_, err := c.CreateMatch(MatchRequest{
		Champion: "Ahri", Role: "mid", Result: database.ResultWin,
		Kills: 10, Deaths: 2, Assists: 8, CSPerMin: 8.0,
	})
	require.NoError(t, err)

	stats, err := c.MatchStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Overall.TotalGames)
	assert.Equal(t, "100.0", stats.Overall.WinRate)
	assert.Equal(t, "8.00", stats.Overall.AvgCSPerMin)
}

func TestClientMatchesPagination(t *testing.T) {
	c := newTestClient(t)

	for i := 0; i < 5; i++ {
		_, err := c.CreateMatch(MatchRequest{
			Champion: "Ahri", Role: "mid", Result: database.ResultWin,
		})
		require.NoError(t, err)
	}

	page, err := c.Matches(2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	all, err := c.Matches(0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
