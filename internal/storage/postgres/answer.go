package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayoola66/excellence-games/internal/game/trivia"
)

// ErrQuestionNotFound is returned when an answer references an unknown question.
var ErrQuestionNotFound = errors.New("question not found")

// AnswerRepository records submitted answers for analytics. It satisfies
// trivia.AnswerRecorder. The engine treats the returned verdict as
// analytics-only; its own local evaluation drives the UI.
type AnswerRepository struct {
	db *pgxpool.Pool
}

// NewAnswerRepository creates an AnswerRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewAnswerRepository(db *pgxpool.Pool) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// SubmitAnswer records the player's selection and returns the server-side
// verdict: whether selectedValue is the text of the question's correct
// option, plus the question's explanation when present. categoryID may be
// empty when the question was not reached through a category.
//
// Precondition: gameID and questionID must be non-empty.
// Postcondition: The answer row is persisted, or ErrQuestionNotFound.
func (r *AnswerRepository) SubmitAnswer(ctx context.Context, gameID, categoryID, questionID, selectedValue string) (trivia.SubmitResult, error) {
	var correctKey trivia.OptionKey
	var a, b, c, d, explanation string
	err := r.db.QueryRow(ctx,
		`SELECT option_a, option_b, option_c, option_d, correct_key, COALESCE(explanation, '')
		 FROM questions WHERE id = $1`,
		questionID,
	).Scan(&a, &b, &c, &d, &correctKey, &explanation)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return trivia.SubmitResult{}, ErrQuestionNotFound
		}
		return trivia.SubmitResult{}, fmt.Errorf("querying question %q: %w", questionID, err)
	}

	options := map[trivia.OptionKey]string{"a": a, "b": b, "c": c, "d": d}
	correct := selectedValue != "" && options[correctKey] == selectedValue

	var catID any
	if categoryID != "" {
		catID = categoryID
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO answers (game_id, category_id, question_id, selected_value, correct)
		 VALUES ($1, $2, $3, $4, $5)`,
		gameID, catID, questionID, selectedValue, correct,
	)
	if err != nil {
		return trivia.SubmitResult{}, fmt.Errorf("inserting answer for question %q: %w", questionID, err)
	}

	return trivia.SubmitResult{Correct: correct, Explanation: explanation}, nil
}

// CountAnswers returns how many answers have been recorded for a game.
//
// Precondition: gameID must be non-empty.
func (r *AnswerRepository) CountAnswers(ctx context.Context, gameID string) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM answers WHERE game_id = $1`, gameID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting answers for game %q: %w", gameID, err)
	}
	return n, nil
}
