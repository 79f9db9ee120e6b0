// internal/game/timers.go
package game

import (
	"sync"
	"time"
)

// Task names for the room's deferred work. Arming a name cancels any pending
// task under the same name, so at most one of each exists per room.
const (
	taskTurn       = "turn"       // human turn clock
	taskThink      = "think"      // computer decision delay
	taskPause      = "pause"      // animation-lock release
	taskJumpIn     = "jumpIn"     // closes the jump-in window
	taskColorDelay = "colorDelay" // computer color pick after a wild
)

// taskSet owns a room's named cancellable timers. The callbacks it fires run
// on timer goroutines and must re-acquire the room lock and re-validate state
// before mutating anything.
type taskSet struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newTaskSet() *taskSet {
	return &taskSet{timers: make(map[string]*time.Timer)}
}

// arm schedules fn after d, replacing any pending task with the same name.
func (t *taskSet) arm(name string, d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if old, ok := t.timers[name]; ok {
		old.Stop()
	}
	t.timers[name] = time.AfterFunc(d, fn)
}

// cancel stops a pending task. Stopping a fired or absent task is a no-op.
func (t *taskSet) cancel(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if timer, ok := t.timers[name]; ok {
		timer.Stop()
		delete(t.timers, name)
	}
}

func (t *taskSet) cancelAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for name, timer := range t.timers {
		timer.Stop()
		delete(t.timers, name)
	}
}

// TimingConfig collects the room's presentation-independent delay knobs.
// The turn clock itself comes from GameRules.TurnTimerSec.
type TimingConfig struct {
	ThinkMin     time.Duration // lower bound of the computer think band
	ThinkMax     time.Duration // upper bound of the computer think band
	JumpInWindow time.Duration // how long the jump-in window stays open after unlock
}

// DefaultTiming mirrors the pacing a human opponent would tolerate.
func DefaultTiming() TimingConfig {
	return TimingConfig{
		ThinkMin:     800 * time.Millisecond,
		ThinkMax:     1600 * time.Millisecond,
		JumpInWindow: 2 * time.Second,
	}
}

// PacingPolicy computes how long the animation lock is held for a move.
// Exact durations are a presentation concern; only the relative ordering
// (multi-card penalties and reveals > shields and skips > plain plays) and
// the shorter computer pacing are contractual.
type PacingPolicy func(sum *MoveSummary, actorIsComputer bool) time.Duration

// DefaultPacing is the stock policy.
func DefaultPacing(sum *MoveSummary, actorIsComputer bool) time.Duration {
	var d time.Duration
	switch sum.Kind {
	case SummaryDrawPenalty, SummaryTimeout:
		d = 600*time.Millisecond + 250*time.Millisecond*time.Duration(sum.totalDrawn())
	case SummarySharePain:
		d = 1800 * time.Millisecond
	case SummarySelectColor:
		d = 700 * time.Millisecond
	case SummaryDrawCard:
		d = 800 * time.Millisecond
	default: // playCard, jumpIn
		switch {
		case sum.Redirected:
			d = 1500*time.Millisecond + 250*time.Millisecond*time.Duration(sum.totalDrawn())
		case sum.SkippedSeat != "":
			d = 1200 * time.Millisecond
		default:
			d = 900 * time.Millisecond
		}
	}
	if actorIsComputer {
		d = d * 6 / 10
	}
	return d
}
