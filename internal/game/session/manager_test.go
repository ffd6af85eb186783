package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoola66/excellence-games/internal/game/dice"
	"github.com/ayoola66/excellence-games/internal/game/session"
	"github.com/ayoola66/excellence-games/internal/game/trivia"
)

func testGame() *trivia.Game {
	return &trivia.Game{
		ID:   "g1",
		Name: "Test Game",
		Kind: trivia.GameKindNested,
		Tier: trivia.TierFree,
		Categories: []trivia.Category{
			{
				ID:   "c1",
				Name: "Category 1",
				Slot: 1,
				Questions: []trivia.Question{{
					ID:     "q1",
					Prompt: "prompt",
					Options: map[trivia.OptionKey]string{
						"a": "A", "b": "B", "c": "C", "d": "D",
					},
					CorrectKey: "a",
				}},
			},
		},
	}
}

func newManager() *session.Manager {
	cfg := trivia.DefaultSessionConfig()
	cfg.AutoAdvanceDelay = 0
	return session.NewManager(dice.NewCryptoSource(), nil, nil, cfg)
}

func TestManager_BeginAndGet(t *testing.T) {
	m := newManager()
	ps, err := m.Begin("player1", testGame())
	require.NoError(t, err)
	require.NotNil(t, ps)
	assert.NotEmpty(t, ps.Session.ID())
	assert.Equal(t, 1, m.Count())

	got, ok := m.Get("player1")
	require.True(t, ok)
	assert.Same(t, ps, got)
}

func TestManager_BeginDuplicate(t *testing.T) {
	m := newManager()
	_, err := m.Begin("player1", testGame())
	require.NoError(t, err)

	_, err = m.Begin("player1", testGame())
	assert.Error(t, err)
	assert.Equal(t, 1, m.Count())
}

func TestManager_BeginInvalidGame(t *testing.T) {
	m := newManager()
	g := testGame()
	g.Kind = "straight"
	_, err := m.Begin("player1", g)
	assert.Error(t, err)
	assert.Zero(t, m.Count())
}

func TestManager_EndClosesSession(t *testing.T) {
	m := newManager()
	ps, err := m.Begin("player1", testGame())
	require.NoError(t, err)

	require.NoError(t, m.End("player1"))
	assert.Zero(t, m.Count())
	_, ok := m.Get("player1")
	assert.False(t, ok)

	// The evicted session is torn down.
	assert.ErrorIs(t, ps.Session.ProceedWithRoll(1), trivia.ErrSessionClosed)
}

func TestManager_EndUnknown(t *testing.T) {
	m := newManager()
	assert.Error(t, m.End("ghost"))
}

func TestManager_Shutdown(t *testing.T) {
	m := newManager()
	ps1, err := m.Begin("player1", testGame())
	require.NoError(t, err)
	ps2, err := m.Begin("player2", testGame())
	require.NoError(t, err)

	m.Shutdown()
	assert.Zero(t, m.Count())
	assert.ErrorIs(t, ps1.Session.ProceedWithRoll(1), trivia.ErrSessionClosed)
	assert.ErrorIs(t, ps2.Session.ProceedWithRoll(1), trivia.ErrSessionClosed)
}
