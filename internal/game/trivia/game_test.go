package trivia_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoola66/excellence-games/internal/game/trivia"
)

// question builds a valid four-option question whose correct key is "a".
func question(id string) trivia.Question {
	return trivia.Question{
		ID:     id,
		Prompt: "prompt for " + id,
		Options: map[trivia.OptionKey]string{
			"a": id + " option a",
			"b": id + " option b",
			"c": id + " option c",
			"d": id + " option d",
		},
		CorrectKey: "a",
	}
}

// boardGame builds a five-category nested game with two questions per
// category, slots 1-5, question ids q1..q10, matching the end-to-end
// scenario layout.
func boardGame() *trivia.Game {
	g := &trivia.Game{
		ID:   "g1",
		Name: "General Knowledge",
		Kind: trivia.GameKindNested,
		Tier: trivia.TierFree,
	}
	qn := 0
	for slot := 1; slot <= 5; slot++ {
		cat := trivia.Category{
			ID:   fmt.Sprintf("c%d", slot),
			Name: fmt.Sprintf("Category %d", slot),
			Slot: slot,
		}
		for i := 0; i < 2; i++ {
			qn++
			cat.Questions = append(cat.Questions, question(fmt.Sprintf("q%d", qn)))
		}
		g.Categories = append(g.Categories, cat)
	}
	return g
}

func TestGameValidate_Valid(t *testing.T) {
	assert.NoError(t, boardGame().Validate())
}

func TestGameValidate_RejectsWrongKind(t *testing.T) {
	g := boardGame()
	g.Kind = "straight"
	err := g.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kind")
}

func TestGameValidate_RejectsTooManyCategories(t *testing.T) {
	g := boardGame()
	for i := 0; i < 2; i++ {
		g.Categories = append(g.Categories, trivia.Category{
			ID:   fmt.Sprintf("extra%d", i),
			Name: "Extra",
		})
	}
	err := g.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most")
}

func TestGameValidate_RejectsDuplicateSlots(t *testing.T) {
	g := boardGame()
	g.Categories[1].Slot = 1
	err := g.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate category slot")
}

func TestGameValidate_AllowsZeroSlots(t *testing.T) {
	// Slot attribute absent on every category: resolution falls back to
	// array position, but the game itself is well formed.
	g := boardGame()
	for i := range g.Categories {
		g.Categories[i].Slot = 0
	}
	assert.NoError(t, g.Validate())
}

func TestQuestionValidate_RejectsMissingOption(t *testing.T) {
	q := question("q1")
	delete(q.Options, "c")
	err := q.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing option "c"`)
}

func TestQuestionValidate_RejectsBadCorrectKey(t *testing.T) {
	q := question("q1")
	q.CorrectKey = "e"
	err := q.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "correct key")
}

func TestCategoryValidate_RejectsDuplicateQuestionIDs(t *testing.T) {
	c := trivia.Category{
		ID:        "c1",
		Name:      "Category 1",
		Slot:      1,
		Questions: []trivia.Question{question("q1"), question("q1")},
	}
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate question id")
}

func TestCategoryValidate_AllowsEmptyPool(t *testing.T) {
	// An empty pool is a playtime notice, not a structural error.
	c := trivia.Category{ID: "c1", Name: "Category 1", Slot: 1}
	assert.NoError(t, c.Validate())
}

func TestGameCategoryLookup(t *testing.T) {
	g := boardGame()
	cat, ok := g.Category("c3")
	require.True(t, ok)
	assert.Equal(t, 3, cat.Slot)

	_, ok = g.Category("missing")
	assert.False(t, ok)
}

func TestQuestionOptionLookup(t *testing.T) {
	q := question("q1")
	text, ok := q.Option("b")
	require.True(t, ok)
	assert.Equal(t, "q1 option b", text)

	_, ok = q.Option("z")
	assert.False(t, ok)
}
