package trivia_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/ayoola66/excellence-games/internal/game/trivia"
)

func TestAdvanceTimer_Fires(t *testing.T) {
	var called atomic.Int32
	at := trivia.NewAdvanceTimer(20*time.Millisecond, func() {
		called.Add(1)
	})
	_ = at
	time.Sleep(50 * time.Millisecond)
	if called.Load() != 1 {
		t.Fatalf("expected callback called once, got %d", called.Load())
	}
}

func TestAdvanceTimer_Stop_PreventsCallback(t *testing.T) {
	var called atomic.Int32
	at := trivia.NewAdvanceTimer(50*time.Millisecond, func() {
		called.Add(1)
	})
	at.Stop()
	time.Sleep(80 * time.Millisecond)
	if called.Load() != 0 {
		t.Fatalf("expected callback not called, got %d", called.Load())
	}
}

func TestAdvanceTimer_StopIdempotent(t *testing.T) {
	at := trivia.NewAdvanceTimer(50*time.Millisecond, func() {})
	// Multiple Stop() calls must not panic
	at.Stop()
	at.Stop()
	at.Stop()
}
