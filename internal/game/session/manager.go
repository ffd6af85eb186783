// Package session tracks the live play sessions of connected players.
package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayoola66/excellence-games/internal/game/dice"
	"github.com/ayoola66/excellence-games/internal/game/trivia"
)

// PlaySession pairs a player with their live game session.
type PlaySession struct {
	// UID is the unique player identifier.
	UID string
	// Session is the player's in-memory game state.
	Session *trivia.Session
}

// Manager tracks all active play sessions, one per player. Removing a
// session tears it down, so no timer or in-flight submission outlives a
// player leaving. All methods are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	players  map[string]*PlaySession // uid → play session
	src      dice.Source
	recorder trivia.AnswerRecorder
	logger   *zap.Logger
	cfg      trivia.SessionConfig
}

// NewManager creates an empty session Manager. recorder may be nil for
// local-only answer evaluation; logger may be nil.
//
// Precondition: src must be non-nil.
func NewManager(src dice.Source, recorder trivia.AnswerRecorder, logger *zap.Logger, cfg trivia.SessionConfig) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		players:  make(map[string]*PlaySession),
		src:      src,
		recorder: recorder,
		logger:   logger,
		cfg:      cfg,
	}
}

// Begin starts a new play session of game for the player with uid.
//
// Precondition: uid must be non-empty; game must be non-nil.
// Postcondition: Returns the created PlaySession, or an error if the player
// already has one or the game is invalid.
func (m *Manager) Begin(uid string, game *trivia.Game) (*PlaySession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.players[uid]; exists {
		return nil, fmt.Errorf("player %q already in a session", uid)
	}

	sess, err := trivia.NewSession(uuid.NewString(), game, m.src, m.recorder, m.logger, m.cfg)
	if err != nil {
		return nil, fmt.Errorf("starting session for player %q: %w", uid, err)
	}

	ps := &PlaySession{UID: uid, Session: sess}
	m.players[uid] = ps

	m.logger.Info("play session started",
		zap.String("uid", uid),
		zap.String("session_id", sess.ID()),
		zap.String("game_id", game.ID),
	)
	return ps, nil
}

// End removes a player's session and tears it down, discarding any pending
// timers or in-flight submissions.
//
// Precondition: uid must be non-empty.
// Postcondition: The session is closed and removed. Returns an error if not found.
func (m *Manager) End(uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ps, exists := m.players[uid]
	if !exists {
		return fmt.Errorf("player %q has no session", uid)
	}

	ps.Session.Close()
	delete(m.players, uid)

	m.logger.Info("play session ended",
		zap.String("uid", uid),
		zap.String("session_id", ps.Session.ID()),
	)
	return nil
}

// Get returns the play session for the given player UID.
//
// Postcondition: Returns (session, true) if found, or (nil, false) otherwise.
func (m *Manager) Get(uid string) (*PlaySession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ps, ok := m.players[uid]
	return ps, ok
}

// Count returns the number of active play sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.players)
}

// Shutdown tears down every active session.
//
// Postcondition: Count() == 0 and no session can mutate state afterwards.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for uid, ps := range m.players {
		ps.Session.Close()
		delete(m.players, uid)
	}
}
