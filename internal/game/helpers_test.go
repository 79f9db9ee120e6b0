// internal/game/helpers_test.go
package game

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kennynokoo/uno/internal/models"
)

// eventRecorder captures every event a room sends, per seat.
type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	seat string
	ev   Event
}

func newEventRecorder() *eventRecorder {
	return &eventRecorder{}
}

func (rec *eventRecorder) send(p *models.Player, ev Event) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.events = append(rec.events, recordedEvent{seat: p.Seat, ev: ev})
}

// lastOfType returns the most recent event of the given type sent to seat.
func (rec *eventRecorder) lastOfType(seat string, t EventType) (Event, bool) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	for i := len(rec.events) - 1; i >= 0; i-- {
		if rec.events[i].seat == seat && rec.events[i].ev.Type == t {
			return rec.events[i].ev, true
		}
	}
	return Event{}, false
}

func (rec *eventRecorder) countOfType(seat string, t EventType) int {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	n := 0
	for _, e := range rec.events {
		if e.seat == seat && e.ev.Type == t {
			n++
		}
	}
	return n
}

// newTestRoom builds a room whose timers are effectively frozen: think,
// jump-in and pacing delays are an hour long, so nothing fires while a test
// asserts. Tests drive resumption explicitly through forceResume.
func newTestRoom(t *testing.T, humans int, rules GameRules) (*Room, *eventRecorder) {
	t.Helper()
	r := NewRoom("TESTR")
	r.Rules = rules
	r.Timing = TimingConfig{ThinkMin: time.Hour, ThinkMax: time.Hour, JumpInWindow: time.Hour}
	r.Pacing = func(*MoveSummary, bool) time.Duration { return time.Hour }
	rec := newEventRecorder()
	r.Send = rec.send
	for i := 0; i < humans; i++ {
		if _, err := r.AddHuman(fmt.Sprintf("Player %d", i), uuid.New(), nil); err != nil {
			t.Fatalf("seating human %d: %v", i, err)
		}
	}
	t.Cleanup(r.tasks.cancelAll)
	return r, rec
}

// startGame readies every seat, which triggers the game start.
func startGame(t *testing.T, r *Room) {
	t.Helper()
	seats := make([]string, 0, len(r.Players))
	for _, p := range r.Players {
		seats = append(seats, p.Seat)
	}
	for _, s := range seats {
		r.MarkReady(s)
	}
	if r.Phase != PhaseActive {
		t.Fatalf("game did not start: phase %s", r.Phase)
	}
}

// forceResume releases the animation lock the way the pause timer would,
// with plenty of turn clock left.
func forceResume(r *Room, advance bool) {
	r.resumeAfterPause(r.epoch, advance, time.Hour)
}

func (r *Room) hasTask(name string) bool {
	r.tasks.mu.Lock()
	defer r.tasks.mu.Unlock()
	_, ok := r.tasks.timers[name]
	return ok
}

// Card constructors for crafting hands.

func num(color models.Color, v int) models.Card {
	return numberCard(color, v)
}

func skipCard(color models.Color) models.Card {
	return models.Card{Color: color, Value: "skip", Kind: models.KindSkip, Display: fmt.Sprintf("%s skip", color)}
}

func reverseCard(color models.Color) models.Card {
	return models.Card{Color: color, Value: "reverse", Kind: models.KindReverse, Display: fmt.Sprintf("%s reverse", color)}
}

func drawTwoCard(color models.Color) models.Card {
	return models.Card{Color: color, Value: "draw2", Kind: models.KindDrawTwo, Display: fmt.Sprintf("%s draw two", color)}
}

func wildCard() models.Card {
	return models.Card{Color: models.ColorBlack, Value: "wild", Kind: models.KindWild, Display: "wild"}
}

func drawFourCard() models.Card {
	return models.Card{Color: models.ColorBlack, Value: "draw4", Kind: models.KindWildDrawFour, Display: "wild draw four"}
}

func shieldCard() models.Card {
	return models.Card{Color: models.ColorWhite, Value: "shield", Kind: models.KindShield, Display: "shield"}
}

func sharePainCard() models.Card {
	return models.Card{Color: models.ColorWhite, Value: "sharepain", Kind: models.KindSharePain, Display: "share pain"}
}

// setTop replaces the discard pile with a single known card and syncs the
// active color.
func setTop(r *Room, c models.Card) {
	r.State.Discard = []models.Card{c}
	if c.Color.IsNatural() {
		r.State.ActiveColor = c.Color
	}
}

// setHand replaces a seat's hand.
func setHand(r *Room, seat string, cards ...models.Card) {
	for _, p := range r.Players {
		if p.Seat == seat {
			p.Hand = append([]models.Card{}, cards...)
			return
		}
	}
}

// setCurrent makes seat the current player.
func setCurrent(r *Room, seat string) {
	for i, p := range r.Players {
		if p.Seat == seat {
			r.State.CurrentPlayerIndex = i
			return
		}
	}
}

func handOf(r *Room, seat string) []models.Card {
	for _, p := range r.Players {
		if p.Seat == seat {
			return p.Hand
		}
	}
	return nil
}
