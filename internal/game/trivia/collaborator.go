package trivia

import "context"

// QuestionFetcher is the narrow contract with the external data service that
// supplies a category's playable question pool. Implementations may
// pre-filter server-side by the excluded IDs or return the full pool; either
// way the exhaustion/reset rule is enforced by the selector.
type QuestionFetcher interface {
	// FetchCategoryQuestions returns the playable pool for a category,
	// omitting any question whose ID appears in excludeQuestionIDs.
	FetchCategoryQuestions(ctx context.Context, gameID, categoryID string, excludeQuestionIDs []string) ([]Question, error)
}

// SubmitResult is the external data service's verdict on a submitted answer.
// The engine treats its own local evaluation as authoritative for UI
// feedback; the server verdict is recorded for analytics only.
type SubmitResult struct {
	Correct     bool
	Explanation string
}

// AnswerRecorder is the narrow contract with the external data service that
// accepts answer submissions for analytics.
type AnswerRecorder interface {
	// SubmitAnswer records the player's selection. categoryID may be empty
	// when the question was not reached through a category.
	SubmitAnswer(ctx context.Context, gameID, categoryID, questionID, selectedValue string) (SubmitResult, error)
}
