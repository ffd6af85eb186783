// Package dice provides the randomness abstraction for the nested trivia
// game board. The game's fairness depends on the die, so the default Source
// is backed by crypto/rand rather than a pseudo RNG.
package dice

// Faces is the number of faces on the game board die.
const Faces = 6

// Source is the randomness provider for die rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// RollDie rolls a single six-sided die using src.
//
// Precondition: src must be non-nil.
// Postcondition: Returns a uniformly distributed value in [1, Faces].
func RollDie(src Source) int {
	return src.Intn(Faces) + 1
}

// ValidFace reports whether v is a legal die face.
//
// Postcondition: Returns true iff 1 <= v <= Faces.
func ValidFace(v int) bool {
	return v >= 1 && v <= Faces
}
