package trivia

import (
	"context"
	"errors"
	"fmt"

	"github.com/ayoola66/excellence-games/internal/game/dice"
)

// ErrNoQuestions is returned when a category has no questions at all.
// The caller must route back to the roll phase and surface a notice instead
// of entering the question phase.
var ErrNoQuestions = errors.New("category has no questions")

// AnsweredSet is a set of question IDs already answered this session.
type AnsweredSet map[string]struct{}

// NewAnsweredSet creates an empty AnsweredSet.
func NewAnsweredSet() AnsweredSet {
	return make(AnsweredSet)
}

// Add records id as answered.
func (s AnsweredSet) Add(id string) {
	s[id] = struct{}{}
}

// Contains reports whether id has been answered.
func (s AnsweredSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the set members as a slice, in no particular order.
func (s AnsweredSet) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}

// SelectQuestion draws a uniformly random question from cat that is not in
// answered. When every question in cat has been answered, the cycle resets:
// the draw is taken over the full pool again and exhausted=true tells the
// caller to clear its per-category answered set. Sampling with full
// replacement therefore only happens after full exhaustion, never before.
//
// A category with exactly one question simply replays it every visit after
// the first.
//
// Precondition: cat and src must be non-nil.
// Postcondition: Returns (question, exhausted, nil), or (nil, false,
// ErrNoQuestions) when the pool is empty.
func SelectQuestion(cat *Category, answered AnsweredSet, src dice.Source) (*Question, bool, error) {
	if len(cat.Questions) == 0 {
		return nil, false, ErrNoQuestions
	}

	unanswered := make([]*Question, 0, len(cat.Questions))
	for i := range cat.Questions {
		if !answered.Contains(cat.Questions[i].ID) {
			unanswered = append(unanswered, &cat.Questions[i])
		}
	}

	if len(unanswered) > 0 {
		return unanswered[src.Intn(len(unanswered))], false, nil
	}

	// Pool fully cycled; restart with full replacement.
	return &cat.Questions[src.Intn(len(cat.Questions))], true, nil
}

// SelectQuestionRemote draws a question for categoryID from the external
// catalog collaborator instead of a pre-supplied pool, honoring the same
// exhaustion/reset rule as SelectQuestion: the first fetch excludes already
// answered IDs; when that yields nothing but answers have been recorded, a
// second unfiltered fetch restarts the cycle with exhausted=true.
//
// Precondition: fetcher and src must be non-nil.
// Postcondition: Returns (question, exhausted, nil), or ErrNoQuestions when
// the category is empty server-side, or a wrapped fetch error.
func SelectQuestionRemote(ctx context.Context, fetcher QuestionFetcher, gameID, categoryID string, answered AnsweredSet, src dice.Source) (*Question, bool, error) {
	pool, err := fetcher.FetchCategoryQuestions(ctx, gameID, categoryID, answered.IDs())
	if err != nil {
		return nil, false, fmt.Errorf("fetching questions for category %q: %w", categoryID, err)
	}

	if len(pool) > 0 {
		q := pool[src.Intn(len(pool))]
		return &q, false, nil
	}

	if len(answered) == 0 {
		return nil, false, ErrNoQuestions
	}

	pool, err = fetcher.FetchCategoryQuestions(ctx, gameID, categoryID, nil)
	if err != nil {
		return nil, false, fmt.Errorf("refetching questions for category %q: %w", categoryID, err)
	}
	if len(pool) == 0 {
		return nil, false, ErrNoQuestions
	}

	q := pool[src.Intn(len(pool))]
	return &q, true, nil
}
