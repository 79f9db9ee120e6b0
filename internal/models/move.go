// internal/models/move.go
package models

// MoveKind identifies an inbound game action.
type MoveKind string

const (
	MovePlayCard    MoveKind = "playCard"
	MoveDrawCard    MoveKind = "drawCard"
	MoveSelectColor MoveKind = "selectColor"
	MoveJumpIn      MoveKind = "jumpIn"
	MoveSharePain   MoveKind = "playSharePain"
)

// Move is the payload of a gameMove message, routed into the room state
// machine. CardIndex indexes the acting seat's hand; Color is only meaningful
// for selectColor, TargetSeat only for playSharePain.
type Move struct {
	Kind       MoveKind `json:"kind"`
	CardIndex  int      `json:"cardIndex"`
	Color      Color    `json:"color,omitempty"`
	TargetSeat string   `json:"targetSeat,omitempty"`
}
