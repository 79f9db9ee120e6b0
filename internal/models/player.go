// internal/models/player.go
package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Player occupies one seat in a room. Seat IDs are stable for the room's
// lifetime: humans are "player_0".."player_3" in join order, computer seats
// "computer_1".."computer_n" are synthesized at game start.
type Player struct {
	Seat       string `json:"seat"`
	Name       string `json:"name"`
	IsComputer bool   `json:"isComputer"`
	Ready      bool   `json:"ready"`
	Hand       []Card `json:"-"`

	// ConnID and Conn are set for humans only.
	ConnID uuid.UUID       `json:"-"`
	Conn   *websocket.Conn `json:"-"`
}

// HasCard reports whether the player's hand contains a card of the given kind.
func (p *Player) HasCard(kind Kind) (int, bool) {
	for i, c := range p.Hand {
		if c.Kind == kind {
			return i, true
		}
	}
	return -1, false
}
