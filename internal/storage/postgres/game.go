package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayoola66/excellence-games/internal/game/trivia"
)

// ErrGameNotFound is returned when a game lookup yields no results.
var ErrGameNotFound = errors.New("game not found")

// GameRepository provides catalog persistence operations. It satisfies
// trivia.QuestionFetcher, so a session can draw its questions straight from
// the database.
type GameRepository struct {
	db *pgxpool.Pool
}

// NewGameRepository creates a GameRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewGameRepository(db *pgxpool.Pool) *GameRepository {
	return &GameRepository{db: db}
}

// GetGame loads a game with all its categories and questions, the shape a
// play session consumes once at start.
//
// Precondition: id must be non-empty.
// Postcondition: Returns the assembled Game, or ErrGameNotFound.
func (r *GameRepository) GetGame(ctx context.Context, id string) (*trivia.Game, error) {
	g := &trivia.Game{}
	err := r.db.QueryRow(ctx,
		`SELECT id, name, description, kind, tier
		 FROM games WHERE id = $1`,
		id,
	).Scan(&g.ID, &g.Name, &g.Description, &g.Kind, &g.Tier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("querying game %q: %w", id, err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, name, description, slot
		 FROM categories WHERE game_id = $1
		 ORDER BY slot, id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("querying categories for game %q: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var cat trivia.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.Slot); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		g.Categories = append(g.Categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	for i := range g.Categories {
		questions, err := r.FetchCategoryQuestions(ctx, g.ID, g.Categories[i].ID, nil)
		if err != nil {
			return nil, err
		}
		g.Categories[i].Questions = questions
	}

	return g, nil
}

// FetchCategoryQuestions returns a category's playable question pool,
// pre-filtered server-side by the excluded (already answered) IDs.
//
// Precondition: gameID and categoryID must be non-empty.
// Postcondition: Returns the matching questions (may be empty).
func (r *GameRepository) FetchCategoryQuestions(ctx context.Context, gameID, categoryID string, excludeQuestionIDs []string) ([]trivia.Question, error) {
	if excludeQuestionIDs == nil {
		excludeQuestionIDs = []string{}
	}
	rows, err := r.db.Query(ctx,
		`SELECT q.id, q.prompt, q.option_a, q.option_b, q.option_c, q.option_d,
		        q.correct_key, COALESCE(q.explanation, '')
		 FROM questions q
		 JOIN categories c ON c.id = q.category_id
		 WHERE c.game_id = $1 AND q.category_id = $2 AND q.id != ALL($3)
		 ORDER BY q.id`,
		gameID, categoryID, excludeQuestionIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("querying questions for category %q: %w", categoryID, err)
	}
	defer rows.Close()

	var questions []trivia.Question
	for rows.Next() {
		q := trivia.Question{Options: make(map[trivia.OptionKey]string, len(trivia.OptionKeys))}
		var a, b, c, d string
		if err := rows.Scan(&q.ID, &q.Prompt, &a, &b, &c, &d, &q.CorrectKey, &q.Explanation); err != nil {
			return nil, fmt.Errorf("scanning question: %w", err)
		}
		q.Options["a"], q.Options["b"], q.Options["c"], q.Options["d"] = a, b, c, d
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating questions: %w", err)
	}
	return questions, nil
}

// UpsertGame inserts or replaces a game and its full category/question tree
// in a single transaction. Used by the content importer.
//
// Precondition: g must be a validated Game.
// Postcondition: The stored tree exactly matches g.
func (r *GameRepository) UpsertGame(ctx context.Context, g *trivia.Game) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO games (id, name, description, kind, tier)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE
		 SET name = EXCLUDED.name, description = EXCLUDED.description,
		     kind = EXCLUDED.kind, tier = EXCLUDED.tier`,
		g.ID, g.Name, g.Description, g.Kind, g.Tier,
	)
	if err != nil {
		return fmt.Errorf("upserting game %q: %w", g.ID, err)
	}

	// Replace the tree wholesale; stale categories/questions cascade away.
	if _, err := tx.Exec(ctx, `DELETE FROM categories WHERE game_id = $1`, g.ID); err != nil {
		return fmt.Errorf("clearing categories for game %q: %w", g.ID, err)
	}

	for i := range g.Categories {
		cat := &g.Categories[i]
		_, err = tx.Exec(ctx,
			`INSERT INTO categories (id, game_id, name, description, slot)
			 VALUES ($1, $2, $3, $4, $5)`,
			cat.ID, g.ID, cat.Name, cat.Description, cat.Slot,
		)
		if err != nil {
			return fmt.Errorf("inserting category %q: %w", cat.ID, err)
		}
		for j := range cat.Questions {
			q := &cat.Questions[j]
			_, err = tx.Exec(ctx,
				`INSERT INTO questions
				   (id, category_id, prompt, option_a, option_b, option_c, option_d, correct_key, explanation)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				q.ID, cat.ID, q.Prompt,
				q.Options["a"], q.Options["b"], q.Options["c"], q.Options["d"],
				q.CorrectKey, q.Explanation,
			)
			if err != nil {
				return fmt.Errorf("inserting question %q: %w", q.ID, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing game %q: %w", g.ID, err)
	}
	return nil
}

// ListGames returns the id, name, and tier of every stored game, for host
// menus.
//
// Postcondition: Returns games ordered by name (may be empty); the returned
// games carry no categories.
func (r *GameRepository) ListGames(ctx context.Context) ([]trivia.Game, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, description, kind, tier FROM games ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying games: %w", err)
	}
	defer rows.Close()

	var games []trivia.Game
	for rows.Next() {
		var g trivia.Game
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.Kind, &g.Tier); err != nil {
			return nil, fmt.Errorf("scanning game: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating games: %w", err)
	}
	return games, nil
}
