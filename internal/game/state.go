// internal/game/state.go
package game

import (
	"math/rand"
	"time"

	"github.com/kennynokoo/uno/internal/models"
)

// PenaltyStack is the accumulating forced-draw obligation built by
// consecutive drawTwo or wildDrawFour plays. Only same-kind cards add to it.
type PenaltyStack struct {
	Count  int         `json:"count"`
	Kind   models.Kind `json:"kind"`
	Active bool        `json:"active"`
}

// SharePainBinding pairs two seats so that penalty draws aimed at either one
// mirror onto the other. At most one binding exists room-wide.
type SharePainBinding struct {
	Binder string `json:"binder"`
	Target string `json:"target"`
}

// Touches reports whether seat is either side of the binding.
func (b *SharePainBinding) Touches(seat string) bool {
	return b != nil && (b.Binder == seat || b.Target == seat)
}

// Partner returns the other side of the binding for seat, or "".
func (b *SharePainBinding) Partner(seat string) string {
	if b == nil {
		return ""
	}
	switch seat {
	case b.Binder:
		return b.Target
	case b.Target:
		return b.Binder
	}
	return ""
}

// GameState exists only while a round is active. All mutation happens with
// the owning room's lock held.
type GameState struct {
	Deck    []models.Card
	Discard []models.Card

	CurrentPlayerIndex int
	Direction          int // +1 or -1
	ActiveColor        models.Color

	Stack            PenaltyStack
	HasDrawnThisTurn bool
	SkipPending      bool
	UnoCalled        map[string]bool
	Binding          *SharePainBinding

	WaitingForColor bool
	pendingWild     *models.Card // black card awaiting its color choice

	ActionPaused bool // the animation lock
	JumpInOpen   bool

	TurnStartedAt time.Time

	rng *rand.Rand
}

func newGameState(rules GameRules, rng *rand.Rand) *GameState {
	s := &GameState{
		Deck:      buildDeck(rules),
		Direction: 1,
		UnoCalled: make(map[string]bool),
		rng:       rng,
	}
	shuffle(s.Deck, rng)
	return s
}

// draw pops a card from the deck tail, reshuffling the discard pile (minus
// its top card) back in when the deck runs dry. When both are exhausted the
// draw silently fails; callers treat that as a no-op, not an error.
func (s *GameState) draw() (models.Card, bool) {
	if len(s.Deck) == 0 {
		s.reshuffleFromDiscard()
	}
	if len(s.Deck) == 0 {
		return models.Card{}, false
	}
	c := s.Deck[len(s.Deck)-1]
	s.Deck = s.Deck[:len(s.Deck)-1]
	return c, true
}

func (s *GameState) reshuffleFromDiscard() {
	if len(s.Discard) <= 1 {
		return
	}
	top := s.Discard[len(s.Discard)-1]
	s.Deck = append(s.Deck, s.Discard[:len(s.Discard)-1]...)
	s.Discard = []models.Card{top}
	shuffle(s.Deck, s.rng)
}

// flipOpeningCard surfaces the first discard. Action and wild cards are
// cycled to the bottom and the deck reshuffled until a plain number card
// appears, so the round never opens on an ambiguous effect.
func (s *GameState) flipOpeningCard() {
	for {
		c, ok := s.draw()
		if !ok {
			return
		}
		if c.Kind == models.KindNumber {
			s.Discard = append(s.Discard, c)
			s.ActiveColor = c.Color
			return
		}
		s.Deck = append([]models.Card{c}, s.Deck...)
		shuffle(s.Deck, s.rng)
	}
}

// topDiscard returns the current discard top, if any.
func (s *GameState) topDiscard() (models.Card, bool) {
	if len(s.Discard) == 0 {
		return models.Card{}, false
	}
	return s.Discard[len(s.Discard)-1], true
}

// effectiveColor is the color used for matching: the explicitly chosen color
// after a wild, else the literal color of the discard top. ActiveColor is
// kept up to date on every color-carrying play, so it is authoritative.
func (s *GameState) effectiveColor() models.Color {
	return s.ActiveColor
}

// nextIndex advances i one step in the play direction, wrapping manually at
// both ends rather than relying on language modulo semantics.
func (s *GameState) nextIndex(i, playerCount int) int {
	n := i + s.Direction
	if n < 0 {
		n += playerCount
	}
	if n >= playerCount {
		n -= playerCount
	}
	return n
}

// prevIndex steps one seat against the play direction.
func (s *GameState) prevIndex(i, playerCount int) int {
	n := i - s.Direction
	if n < 0 {
		n += playerCount
	}
	if n >= playerCount {
		n -= playerCount
	}
	return n
}
