package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoola66/excellence-games/internal/game/dice"
	"github.com/ayoola66/excellence-games/internal/game/trivia"
	"github.com/ayoola66/excellence-games/internal/storage/postgres"
	"github.com/ayoola66/excellence-games/internal/testutil"
)

func seedGame() *trivia.Game {
	return &trivia.Game{
		ID:          "g1",
		Name:        "General Knowledge",
		Description: "seeded for tests",
		Kind:        trivia.GameKindNested,
		Tier:        trivia.TierFree,
		Categories: []trivia.Category{
			{
				ID: "c1", Name: "History", Slot: 1,
				Questions: []trivia.Question{
					seedQuestion("q1"), seedQuestion("q2"), seedQuestion("q3"),
				},
			},
			{
				ID: "c2", Name: "Science", Slot: 2,
				Questions: []trivia.Question{seedQuestion("q4")},
			},
		},
	}
}

func seedQuestion(id string) trivia.Question {
	return trivia.Question{
		ID:     id,
		Prompt: "prompt " + id,
		Options: map[trivia.OptionKey]string{
			"a": id + "-a", "b": id + "-b", "c": id + "-c", "d": id + "-d",
		},
		CorrectKey:  "b",
		Explanation: "because " + id,
	}
}

func setupRepos(t *testing.T) (*postgres.GameRepository, *postgres.AnswerRepository) {
	t.Helper()
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)

	games := postgres.NewGameRepository(pc.RawPool)
	require.NoError(t, games.UpsertGame(context.Background(), seedGame()))
	return games, postgres.NewAnswerRepository(pc.RawPool)
}

func TestGameRepository_GetGame(t *testing.T) {
	games, _ := setupRepos(t)
	ctx := context.Background()

	g, err := games.GetGame(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "General Knowledge", g.Name)
	require.Len(t, g.Categories, 2)
	assert.NoError(t, g.Validate())

	hist, ok := g.Category("c1")
	require.True(t, ok)
	assert.Len(t, hist.Questions, 3)

	q, ok := hist.Question("q2")
	require.True(t, ok)
	assert.Equal(t, trivia.OptionKey("b"), q.CorrectKey)
	assert.Equal(t, "q2-c", q.Options["c"])
	assert.Equal(t, "because q2", q.Explanation)
}

func TestGameRepository_GetGameNotFound(t *testing.T) {
	games, _ := setupRepos(t)
	_, err := games.GetGame(context.Background(), "missing")
	assert.ErrorIs(t, err, postgres.ErrGameNotFound)
}

func TestGameRepository_FetchCategoryQuestions_Excludes(t *testing.T) {
	games, _ := setupRepos(t)
	ctx := context.Background()

	all, err := games.FetchCategoryQuestions(ctx, "g1", "c1", nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	remaining, err := games.FetchCategoryQuestions(ctx, "g1", "c1", []string{"q1", "q3"})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "q2", remaining[0].ID)
}

func TestGameRepository_UpsertReplacesTree(t *testing.T) {
	games, _ := setupRepos(t)
	ctx := context.Background()

	g := seedGame()
	g.Name = "Renamed"
	g.Categories = g.Categories[:1]
	g.Categories[0].Questions = g.Categories[0].Questions[:2]
	require.NoError(t, games.UpsertGame(ctx, g))

	got, err := games.GetGame(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	require.Len(t, got.Categories, 1)
	assert.Len(t, got.Categories[0].Questions, 2)
}

func TestGameRepository_ListGames(t *testing.T) {
	games, _ := setupRepos(t)
	ctx := context.Background()

	g2 := seedGame()
	g2.ID = "g2"
	g2.Name = "A Second Game"
	g2.Categories[0].ID = "g2c1"
	g2.Categories[1].ID = "g2c2"
	g2.Categories[0].Questions = []trivia.Question{seedQuestion("g2q1")}
	g2.Categories[1].Questions = []trivia.Question{seedQuestion("g2q2")}
	require.NoError(t, games.UpsertGame(ctx, g2))

	list, err := games.ListGames(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A Second Game", list[0].Name, "ordered by name")
}

func TestAnswerRepository_SubmitAnswer(t *testing.T) {
	_, answers := setupRepos(t)
	ctx := context.Background()

	res, err := answers.SubmitAnswer(ctx, "g1", "c1", "q1", "q1-b")
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, "because q1", res.Explanation)

	res, err = answers.SubmitAnswer(ctx, "g1", "c1", "q1", "q1-a")
	require.NoError(t, err)
	assert.False(t, res.Correct)

	n, err := answers.CountAnswers(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestAnswerRepository_NullCategory(t *testing.T) {
	_, answers := setupRepos(t)
	_, err := answers.SubmitAnswer(context.Background(), "g1", "", "q4", "q4-b")
	assert.NoError(t, err)
}

func TestAnswerRepository_UnknownQuestion(t *testing.T) {
	_, answers := setupRepos(t)
	_, err := answers.SubmitAnswer(context.Background(), "g1", "c1", "ghost", "x")
	assert.ErrorIs(t, err, postgres.ErrQuestionNotFound)
}

// TestRemoteSelection_AgainstRepository drives the remote selector through
// the repository fetcher and checks the exhaustion/reset rule end to end.
func TestRemoteSelection_AgainstRepository(t *testing.T) {
	games, _ := setupRepos(t)
	ctx := context.Background()
	src := dice.NewCryptoSource()
	answered := trivia.NewAnsweredSet()

	for i := 0; i < 3; i++ {
		q, exhausted, err := trivia.SelectQuestionRemote(ctx, games, "g1", "c1", answered, src)
		require.NoError(t, err)
		require.False(t, exhausted)
		require.False(t, answered.Contains(q.ID))
		answered.Add(q.ID)
	}

	_, exhausted, err := trivia.SelectQuestionRemote(ctx, games, "g1", "c1", answered, src)
	require.NoError(t, err)
	assert.True(t, exhausted)
}
