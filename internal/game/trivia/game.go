// Package trivia implements the nested ("card") trivia game engine: the die
// roll that picks a board category, the non-repeating question draw, the
// staged reveal of options and answer, and the per-category exhaustion
// bookkeeping that makes every question cycle before any repeats.
package trivia

import (
	"fmt"
	"strings"
)

// GameKindNested identifies the die/card-driven game mode this engine plays.
const GameKindNested = "nested"

// Tier is the visibility tier of a game.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// ValidTier reports whether t is a recognised visibility tier.
func ValidTier(t Tier) bool {
	return t == TierFree || t == TierPremium
}

// OptionKey identifies one of a question's four answer options.
type OptionKey string

// OptionKeys is the canonical display order of answer options.
var OptionKeys = [4]OptionKey{"a", "b", "c", "d"}

// ValidOptionKey reports whether k is one of the four canonical keys.
func ValidOptionKey(k OptionKey) bool {
	for _, key := range OptionKeys {
		if k == key {
			return true
		}
	}
	return false
}

// MaxCategories is the most categories a nested game board holds.
const MaxCategories = 6

// MaxSlot is the highest board slot a category may occupy. The remaining die
// face is the wildcard.
const MaxSlot = 5

// Question is a single prompt with four answer options.
type Question struct {
	// ID uniquely identifies the question within its game.
	ID string
	// Prompt is the question text shown to the player.
	Prompt string
	// Options maps each of the four option keys to its answer text.
	Options map[OptionKey]string
	// CorrectKey is the key of the correct option.
	CorrectKey OptionKey
	// Explanation is optional text shown after the answer is revealed.
	Explanation string
}

// Option returns the answer text for key.
//
// Postcondition: Returns (text, true) if key exists, or ("", false) otherwise.
func (q *Question) Option(key OptionKey) (string, bool) {
	text, ok := q.Options[key]
	return text, ok
}

// Validate checks the question's structural invariants.
//
// Postcondition: Returns nil iff the question has an ID, a prompt, exactly
// the four canonical options, and a correct key that is one of them.
func (q *Question) Validate() error {
	var errs []string
	if q.ID == "" {
		errs = append(errs, "question id must not be empty")
	}
	if q.Prompt == "" {
		errs = append(errs, fmt.Sprintf("question %q prompt must not be empty", q.ID))
	}
	if len(q.Options) != len(OptionKeys) {
		errs = append(errs, fmt.Sprintf("question %q must have exactly %d options, got %d", q.ID, len(OptionKeys), len(q.Options)))
	}
	for _, key := range OptionKeys {
		if _, ok := q.Options[key]; !ok {
			errs = append(errs, fmt.Sprintf("question %q missing option %q", q.ID, key))
		}
	}
	if _, ok := q.Options[q.CorrectKey]; !ok {
		errs = append(errs, fmt.Sprintf("question %q correct key %q is not an option", q.ID, q.CorrectKey))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Category is one board slot's question pool. A category belongs to exactly
// one game.
type Category struct {
	// ID uniquely identifies the category within its game.
	ID string
	// Name is the category display name.
	Name string
	// Description is optional flavour text.
	Description string
	// Slot is the board position / die face in [1, MaxSlot]. Zero means the
	// slot attribute is absent and resolution falls back to array position.
	Slot int
	// Questions is the category's question pool.
	Questions []Question
}

// Question returns the category's question with the given ID.
//
// Postcondition: Returns (question, true) if found, or (nil, false) otherwise.
func (c *Category) Question(id string) (*Question, bool) {
	for i := range c.Questions {
		if c.Questions[i].ID == id {
			return &c.Questions[i], true
		}
	}
	return nil, false
}

// Validate checks the category's structural invariants. An empty question
// pool is legal here; it surfaces as a playtime notice instead (§ selection).
func (c *Category) Validate() error {
	var errs []string
	if c.ID == "" {
		errs = append(errs, "category id must not be empty")
	}
	if c.Name == "" {
		errs = append(errs, fmt.Sprintf("category %q name must not be empty", c.ID))
	}
	if c.Slot < 0 || c.Slot > MaxSlot {
		errs = append(errs, fmt.Sprintf("category %q slot must be 0-%d, got %d", c.ID, MaxSlot, c.Slot))
	}
	seen := make(map[string]bool, len(c.Questions))
	for i := range c.Questions {
		q := &c.Questions[i]
		if err := q.Validate(); err != nil {
			errs = append(errs, err.Error())
		}
		if seen[q.ID] {
			errs = append(errs, fmt.Sprintf("category %q has duplicate question id %q", c.ID, q.ID))
		}
		seen[q.ID] = true
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Game is a nested trivia game: a board of up to MaxCategories categories.
// It is immutable for the duration of a play session and owned externally;
// the engine loads it once at session start.
type Game struct {
	// ID uniquely identifies the game.
	ID string
	// Name is the game display name.
	Name string
	// Description is optional flavour text.
	Description string
	// Kind is the game mode; this engine only plays GameKindNested.
	Kind string
	// Tier is the visibility tier (free or premium).
	Tier Tier
	// Categories is the ordered board, at most MaxCategories entries.
	Categories []Category
}

// Category returns the game's category with the given ID.
//
// Postcondition: Returns (category, true) if found, or (nil, false) otherwise.
func (g *Game) Category(id string) (*Category, bool) {
	for i := range g.Categories {
		if g.Categories[i].ID == id {
			return &g.Categories[i], true
		}
	}
	return nil, false
}

// Validate checks the game's structural invariants.
//
// Postcondition: Returns nil iff the game is a well-formed nested game with
// unique category IDs, unique nonzero slots, and valid categories.
func (g *Game) Validate() error {
	var errs []string
	if g.ID == "" {
		errs = append(errs, "game id must not be empty")
	}
	if g.Name == "" {
		errs = append(errs, "game name must not be empty")
	}
	if g.Kind != GameKindNested {
		errs = append(errs, fmt.Sprintf("game kind must be %q, got %q", GameKindNested, g.Kind))
	}
	if !ValidTier(g.Tier) {
		errs = append(errs, fmt.Sprintf("game tier must be free or premium, got %q", g.Tier))
	}
	if len(g.Categories) == 0 {
		errs = append(errs, "game must have at least one category")
	}
	if len(g.Categories) > MaxCategories {
		errs = append(errs, fmt.Sprintf("game must have at most %d categories, got %d", MaxCategories, len(g.Categories)))
	}
	seenIDs := make(map[string]bool, len(g.Categories))
	seenSlots := make(map[int]bool, len(g.Categories))
	for i := range g.Categories {
		c := &g.Categories[i]
		if err := c.Validate(); err != nil {
			errs = append(errs, err.Error())
		}
		if seenIDs[c.ID] {
			errs = append(errs, fmt.Sprintf("duplicate category id %q", c.ID))
		}
		seenIDs[c.ID] = true
		if c.Slot != 0 {
			if seenSlots[c.Slot] {
				errs = append(errs, fmt.Sprintf("duplicate category slot %d", c.Slot))
			}
			seenSlots[c.Slot] = true
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
