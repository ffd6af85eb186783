package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged die rolling. Every roll
// is logged at debug level so a session's sequence of faces can be audited.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// RollDie rolls the board die and logs the resulting face.
//
// Postcondition: Returns a value in [1, Faces].
func (r *Roller) RollDie() int {
	face := RollDie(r.src)
	r.logger.Debug("die roll",
		zap.Int("face", face),
		zap.Int("faces", Faces),
	)
	return face
}

// Intn exposes the underlying Source so the Roller itself satisfies Source.
//
// Precondition: n > 0.
func (r *Roller) Intn(n int) int {
	return r.src.Intn(n)
}
