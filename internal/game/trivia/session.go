package trivia

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayoola66/excellence-games/internal/game/dice"
)

// Phase is the UI surface a session currently presents.
type Phase string

const (
	// PhaseRoll is the initial/idle phase: board visible, waiting for a die
	// action.
	PhaseRoll Phase = "roll"
	// PhaseCategory is reserved for a free-category-selection mode. The
	// engine treats it as PhaseRoll with the chooser overlay active and
	// never transitions into it directly.
	PhaseCategory Phase = "category"
	// PhaseQuestion means a question is being played.
	PhaseQuestion Phase = "question"
)

// ErrSessionClosed is returned by transitions attempted after Close.
var ErrSessionClosed = errors.New("session closed")

// ErrInvalidFace is returned when a physical-die value is outside [1, 6].
var ErrInvalidFace = errors.New("die value out of range")

// ErrCategoryUnresolved is returned when a die value maps to no category and
// no wildcard applies. The session stays in the roll phase; this is a
// configuration-data error, not a user error.
var ErrCategoryUnresolved = errors.New("no category for die value")

// ErrUnknownCategory is returned when the wildcard chooser is given a
// category ID that is not on offer.
var ErrUnknownCategory = errors.New("category not offered by chooser")

// SessionConfig holds the rule knobs for a play session.
type SessionConfig struct {
	// WildcardFace is the die face that opens the category chooser.
	WildcardFace int
	// ChooserLimit caps how many categories the wildcard chooser offers.
	ChooserLimit int
	// AutoAdvanceDelay is how long a revealed answer lingers after a
	// successful submission before the session advances to the next turn.
	AutoAdvanceDelay time.Duration
}

// DefaultSessionConfig returns the conventional nested-game rules: face 6 is
// the wildcard, the chooser offers the first five categories, and a
// submitted answer lingers for two seconds.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		WildcardFace:     dice.Faces,
		ChooserLimit:     MaxSlot,
		AutoAdvanceDelay: 2 * time.Second,
	}
}

// State is a point-in-time snapshot of a session's play state, safe to hand
// to a host without exposing the session's internals.
type State struct {
	Phase                Phase
	DieValue             int
	AwaitingConfirmation bool
	ActiveCategoryID     string
	ActiveQuestionID     string
	SelectedKey          OptionKey
	SelectedValue        string
	OptionsRevealed      bool
	AnswerRevealed       bool
	AnswerCorrect        bool
	SubmissionInFlight   bool
}

// Session is one player's in-memory play state for a nested game. It is
// created when the player begins the game and discarded when they leave;
// nothing is persisted.
//
// All methods are safe for concurrent use: the auto-advance timer fires on
// its own goroutine, so transitions are serialized by a mutex even though
// the host drives the session from a single event loop.
//
// Invariant: activeQuestion is non-nil only while phase == PhaseQuestion.
// Invariant: awaitingConfirmation is true only while phase == PhaseRoll.
// Invariant: answered-question memory survives NextTurn and is cleared only
// by Reset.
type Session struct {
	id       string
	game     *Game
	src      dice.Source
	recorder AnswerRecorder
	logger   *zap.Logger
	cfg      SessionConfig

	mu                   sync.Mutex
	phase                Phase
	dieValue             int // 0 = unset
	awaitingConfirmation bool
	activeCategory       *Category
	activeQuestion       *Question
	answeredGlobal       AnsweredSet
	answeredByCategory   map[string]AnsweredSet
	selectedKey          OptionKey
	selectedValue        string
	revealOptions        bool
	revealAnswer         bool
	answerIsCorrect      bool
	submitting           bool
	advance              *AdvanceTimer
	// gen increments whenever the turn or session is torn down; in-flight
	// submissions and timers captured under an older gen discard their
	// results instead of mutating state.
	gen    uint64
	closed bool
}

// NewSession creates a play session for game. id may be empty, in which case
// a fresh UUID is assigned. recorder may be nil for local-only evaluation;
// logger may be nil.
//
// Precondition: game and src must be non-nil.
// Postcondition: Returns a session in PhaseRoll, or an error if the game is
// not a valid nested game.
func NewSession(id string, game *Game, src dice.Source, recorder AnswerRecorder, logger *zap.Logger, cfg SessionConfig) (*Session, error) {
	if err := game.Validate(); err != nil {
		return nil, fmt.Errorf("validating game %q: %w", game.ID, err)
	}
	if cfg.WildcardFace < 1 || cfg.WildcardFace > dice.Faces {
		return nil, fmt.Errorf("wildcard face must be 1-%d, got %d", dice.Faces, cfg.WildcardFace)
	}
	if cfg.ChooserLimit < 1 {
		return nil, fmt.Errorf("chooser limit must be >= 1, got %d", cfg.ChooserLimit)
	}
	if id == "" {
		id = uuid.NewString()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		id:                 id,
		game:               game,
		src:                src,
		recorder:           recorder,
		logger:             logger.With(zap.String("session_id", id), zap.String("game_id", game.ID)),
		cfg:                cfg,
		phase:              PhaseRoll,
		answeredGlobal:     NewAnsweredSet(),
		answeredByCategory: make(map[string]AnsweredSet),
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Game returns the game being played.
func (s *Session) Game() *Game { return s.game }

// Snapshot returns the current play state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Phase:                s.phase,
		DieValue:             s.dieValue,
		AwaitingConfirmation: s.awaitingConfirmation,
		SelectedKey:          s.selectedKey,
		SelectedValue:        s.selectedValue,
		OptionsRevealed:      s.revealOptions,
		AnswerRevealed:       s.revealAnswer,
		AnswerCorrect:        s.answerIsCorrect,
		SubmissionInFlight:   s.submitting,
	}
	if s.activeCategory != nil {
		st.ActiveCategoryID = s.activeCategory.ID
	}
	if s.activeQuestion != nil {
		st.ActiveQuestionID = s.activeQuestion.ID
	}
	return st
}

// ActiveQuestion returns the question currently displayed, or nil.
func (s *Session) ActiveQuestion() *Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeQuestion
}

// ActiveCategory returns the category currently being played, or nil.
func (s *Session) ActiveCategory() *Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeCategory
}

// WildcardPending reports whether a wildcard roll is waiting for the player
// to pick a category from the chooser.
func (s *Session) WildcardPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase == PhaseRoll && s.awaitingConfirmation && s.dieValue == s.cfg.WildcardFace
}

// Chooser returns the categories the wildcard chooser offers.
func (s *Session) Chooser() []*Category {
	return ChooserCategories(s.game, s.cfg.ChooserLimit)
}

// AnsweredInCategory returns a copy of the answered-question IDs recorded
// for categoryID this session.
func (s *Session) AnsweredInCategory(categoryID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answeredByCategory[categoryID].IDs()
}

// AnsweredGlobal returns a copy of all question IDs answered this session.
func (s *Session) AnsweredGlobal() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answeredGlobal.IDs()
}

// RollDie rolls the board die. Only meaningful in the roll phase; rolls
// attempted in any other phase are ignored and return 0, so a roll can never
// race an in-progress question.
//
// Postcondition: On success, dieValue is set, any previous question is
// cleared, and the session awaits confirmation of the highlighted category.
func (s *Session) RollDie() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.phase != PhaseRoll {
		return 0
	}
	face := dice.RollDie(s.src)
	s.applyRollLocked(face)
	return face
}

// ProceedWithRoll accepts a physically rolled die value, bypassing the
// internal randomizer but following the identical downstream transition as
// RollDie.
//
// Postcondition: Same state transition as RollDie, or ErrInvalidFace when
// face is outside [1, 6]. Ignored outside the roll phase.
func (s *Session) ProceedWithRoll(face int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if !dice.ValidFace(face) {
		return fmt.Errorf("%w: %d", ErrInvalidFace, face)
	}
	if s.phase != PhaseRoll {
		return nil
	}
	s.applyRollLocked(face)
	return nil
}

func (s *Session) applyRollLocked(face int) {
	s.dieValue = face
	s.activeQuestion = nil
	s.awaitingConfirmation = true
	s.logger.Debug("die rolled",
		zap.Int("face", face),
		zap.Bool("wildcard", face == s.cfg.WildcardFace),
	)
}

// ConfirmRoll commits the rolled die value. A slot-resolved category enters
// the question phase with a freshly selected question. A wildcard roll
// leaves the session awaiting an explicit ChooseCategory call. An
// unresolvable value returns ErrCategoryUnresolved and leaves the session in
// the roll phase with awaitingConfirmation untouched.
//
// Ignored unless a roll is awaiting confirmation.
func (s *Session) ConfirmRoll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.phase != PhaseRoll || !s.awaitingConfirmation || s.dieValue == 0 {
		return nil
	}

	res := Resolve(s.dieValue, s.game, s.cfg.WildcardFace)
	switch res.Kind {
	case ResolutionResolved:
		return s.enterQuestionLocked(res.Category)
	case ResolutionWildcard:
		// Chooser stays open; the player picks via ChooseCategory.
		return nil
	default:
		s.logger.Warn("die value resolved to no category",
			zap.Int("face", s.dieValue),
			zap.Int("categories", len(s.game.Categories)),
		)
		return ErrCategoryUnresolved
	}
}

// ChooseCategory resolves a pending wildcard roll to the chosen category,
// then follows the same confirmation transition as a direct roll.
//
// Postcondition: Enters the question phase on success; ErrUnknownCategory if
// categoryID is not offered by the chooser. Ignored when no wildcard roll is
// pending.
func (s *Session) ChooseCategory(categoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.phase != PhaseRoll || !s.awaitingConfirmation || s.dieValue != s.cfg.WildcardFace {
		return nil
	}

	for _, cat := range ChooserCategories(s.game, s.cfg.ChooserLimit) {
		if cat.ID == categoryID {
			return s.enterQuestionLocked(cat)
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownCategory, categoryID)
}

// enterQuestionLocked selects a question from cat and enters the question
// phase. On ErrNoQuestions the session stays in the roll phase so the host
// can surface a "no questions available" notice.
//
// Precondition: s.mu held.
func (s *Session) enterQuestionLocked(cat *Category) error {
	answered, ok := s.answeredByCategory[cat.ID]
	if !ok {
		answered = NewAnsweredSet()
		s.answeredByCategory[cat.ID] = answered
	}

	q, exhausted, err := SelectQuestion(cat, answered, s.src)
	if err != nil {
		s.logger.Warn("category has no playable questions", zap.String("category_id", cat.ID))
		return fmt.Errorf("category %q: %w", cat.ID, ErrNoQuestions)
	}
	if exhausted {
		// Full cycle complete; restart the category's anti-repeat window.
		s.answeredByCategory[cat.ID] = NewAnsweredSet()
		s.logger.Debug("category pool exhausted, cycle reset", zap.String("category_id", cat.ID))
	}

	s.activeCategory = cat
	s.activeQuestion = q
	s.phase = PhaseQuestion
	s.awaitingConfirmation = false
	s.selectedKey = ""
	s.selectedValue = ""
	s.revealOptions = false
	s.revealAnswer = false
	s.answerIsCorrect = false

	s.logger.Debug("question selected",
		zap.String("category_id", cat.ID),
		zap.String("question_id", q.ID),
	)
	return nil
}

// RevealOptions discloses the active question's answer options. Idempotent;
// ignored outside the question phase. Revealing options does not reveal
// correctness.
func (s *Session) RevealOptions() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.phase != PhaseQuestion || s.activeQuestion == nil {
		return
	}
	s.revealOptions = true
}

// SelectOption records the player's pick for the active question. Selection
// is only accepted while options are revealed and the answer is not; an
// earlier selection is simply overwritten. Ignored while a submission is in
// flight or when key is not one of the question's options.
func (s *Session) SelectOption(key OptionKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.phase != PhaseQuestion || s.activeQuestion == nil {
		return
	}
	if !s.revealOptions || s.revealAnswer || s.submitting {
		return
	}
	value, ok := s.activeQuestion.Option(key)
	if !ok {
		return
	}
	s.selectedKey = key
	s.selectedValue = value
}

// RevealAnswer discloses correctness for the active question. The verdict is
// computed once, on the first call, from the player's selection against the
// question's correct key, and frozen thereafter (idempotent). With no
// selection the verdict is false and no positive affirmation is shown.
// The played question is recorded in the session's answered memory.
func (s *Session) RevealAnswer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revealAnswerLocked()
}

// revealAnswerLocked is RevealAnswer without locking.
//
// Precondition: s.mu held.
func (s *Session) revealAnswerLocked() {
	if s.closed || s.phase != PhaseQuestion || s.activeQuestion == nil || !s.revealOptions {
		return
	}
	if s.revealAnswer {
		return
	}
	s.revealAnswer = true
	s.answerIsCorrect = s.selectedKey != "" && s.selectedKey == s.activeQuestion.CorrectKey

	s.answeredGlobal.Add(s.activeQuestion.ID)
	if s.activeCategory != nil {
		s.answeredByCategory[s.activeCategory.ID].Add(s.activeQuestion.ID)
	}

	s.logger.Debug("answer revealed",
		zap.String("question_id", s.activeQuestion.ID),
		zap.String("selected", string(s.selectedKey)),
		zap.Bool("correct", s.answerIsCorrect),
	)
}

// Submit sends the player's selection to the external answer recorder, then
// reveals the answer and schedules the auto-advance to the next turn. Local
// evaluation stays authoritative for the verdict shown; the recorder's
// verdict is analytics-only. On recorder failure the selection is rolled
// back so the player can retry.
//
// Submitting without an active question, without a selection, or while a
// submission is already in flight is a no-op. If the session is reset,
// advanced, or closed while the recorder call is in flight, the result is
// discarded.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.phase != PhaseQuestion || s.activeQuestion == nil || s.submitting {
		s.mu.Unlock()
		return nil
	}
	if !s.revealOptions || s.revealAnswer || s.selectedKey == "" {
		s.mu.Unlock()
		return nil
	}

	q := s.activeQuestion
	categoryID := ""
	if s.activeCategory != nil {
		categoryID = s.activeCategory.ID
	}
	selectedValue := s.selectedValue
	gen := s.gen
	s.submitting = true
	s.mu.Unlock()

	var res SubmitResult
	var err error
	if s.recorder != nil {
		res, err = s.recorder.SubmitAnswer(ctx, s.game.ID, categoryID, q.ID, selectedValue)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.gen != gen {
		// The session moved on while the submission was in flight.
		return nil
	}
	s.submitting = false

	if err != nil {
		s.selectedKey = ""
		s.selectedValue = ""
		s.logger.Warn("answer submission failed, selection rolled back",
			zap.String("question_id", q.ID),
			zap.Error(err),
		)
		return fmt.Errorf("submitting answer for question %q: %w", q.ID, err)
	}

	s.revealAnswerLocked()
	if s.recorder != nil && res.Correct != s.answerIsCorrect {
		// Known double-source-of-truth; the local verdict wins.
		s.logger.Warn("server verdict disagrees with local evaluation",
			zap.String("question_id", q.ID),
			zap.Bool("local", s.answerIsCorrect),
			zap.Bool("server", res.Correct),
		)
	}

	if s.cfg.AutoAdvanceDelay > 0 {
		advGen := s.gen
		s.advance = NewAdvanceTimer(s.cfg.AutoAdvanceDelay, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.closed || s.gen != advGen {
				return
			}
			s.nextTurnLocked()
		})
	}
	return nil
}

// NextTurn returns the session from the question phase to the roll phase,
// clearing all per-turn state. Answered-question memory persists across
// turns. Ignored while a submission is in flight.
func (s *Session) NextTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.submitting {
		return
	}
	s.nextTurnLocked()
}

// nextTurnLocked clears all per-turn state and returns to PhaseRoll.
//
// Precondition: s.mu held.
func (s *Session) nextTurnLocked() {
	s.gen++
	if s.advance != nil {
		s.advance.Stop()
		s.advance = nil
	}
	s.phase = PhaseRoll
	s.dieValue = 0
	s.awaitingConfirmation = false
	s.activeCategory = nil
	s.activeQuestion = nil
	s.selectedKey = ""
	s.selectedValue = ""
	s.revealOptions = false
	s.revealAnswer = false
	s.answerIsCorrect = false
}

// Reset clears all session state including the answered-question memory, as
// if the player had just begun the game. Any in-flight submission result is
// discarded.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.nextTurnLocked()
	s.submitting = false
	s.answeredGlobal = NewAnsweredSet()
	s.answeredByCategory = make(map[string]AnsweredSet)
	s.logger.Debug("session reset")
}

// Close tears the session down: the auto-advance timer is stopped, any
// in-flight submission result is discarded, and every further transition is
// rejected. No state is mutated after Close returns. Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.gen++
	if s.advance != nil {
		s.advance.Stop()
		s.advance = nil
	}
	s.logger.Debug("session closed")
}
