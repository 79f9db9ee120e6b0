// internal/game/events.go
package game

import "github.com/kennynokoo/uno/internal/models"

// EventType identifies an outbound event on the wire.
type EventType string

const (
	EventWelcome             EventType = "welcome"
	EventRoomCreated         EventType = "roomCreated"
	EventJoinSuccess         EventType = "joinSuccess"
	EventJoinError           EventType = "joinError"
	EventRoomUpdate          EventType = "roomUpdate"
	EventGameStart           EventType = "gameStart"
	EventGameUpdate          EventType = "gameUpdate"
	EventUnlock              EventType = "unlock"
	EventMoveError           EventType = "moveError"
	EventGameOver            EventType = "gameOver"
	EventRematchUpdate       EventType = "rematchUpdate"
	EventReturnToWaitingRoom EventType = "returnToWaitingRoom"
	EventPong                EventType = "pong"
)

// Event is the outbound message envelope. Validation failures travel only to
// the offending seat as moveError; everything else is broadcast per seat with
// a sanitized state snapshot.
type Event struct {
	Type    EventType    `json:"type"`
	Room    *RoomInfo    `json:"room,omitempty"`
	State   *GameView    `json:"state,omitempty"`
	Move    *MoveSummary `json:"move,omitempty"`
	Message string       `json:"message,omitempty"`
	Seat    string       `json:"seat,omitempty"`
	Token   string       `json:"token,omitempty"`
	Winner  string       `json:"winner,omitempty"`
	Reason  string       `json:"reason,omitempty"`

	Votes       []string `json:"votes,omitempty"`
	VotesNeeded int      `json:"votesNeeded,omitempty"`
}

// MoveSummary describes the move a gameUpdate reflects, including the pause
// duration hint clients use to budget their animation.
type MoveSummary struct {
	Seat string `json:"seat"`
	Kind string `json:"kind"`

	Card        *CardView    `json:"card,omitempty"`
	ChosenColor models.Color `json:"chosenColor,omitempty"`
	TargetSeat  string       `json:"targetSeat,omitempty"`
	SkippedSeat string       `json:"skippedSeat,omitempty"`

	// Drawn maps seat id to the number of cards that seat drew as part of
	// this move (penalty resolution or a voluntary draw).
	Drawn map[string]int `json:"drawn,omitempty"`

	DrawnPlayable bool   `json:"drawnPlayable,omitempty"`
	Redirected    bool   `json:"redirected,omitempty"`
	RedirectSeat  string `json:"redirectSeat,omitempty"`
	UnoCalled     bool   `json:"unoCalled,omitempty"`
	Winner        string `json:"winner,omitempty"`

	PauseMs int64 `json:"pauseMs"`
}

// Move kind labels used in MoveSummary.Kind. They mirror the inbound move
// kinds plus the server-originated resolutions.
const (
	SummaryPlayCard    = "playCard"
	SummaryDrawCard    = "drawCard"
	SummaryDrawPenalty = "drawPenalty"
	SummarySelectColor = "selectColor"
	SummaryJumpIn      = "jumpIn"
	SummarySharePain   = "playSharePain"
	SummaryTimeout     = "timeout"
)

// totalDrawn sums every card drawn across seats for this move.
func (m *MoveSummary) totalDrawn() int {
	n := 0
	for _, c := range m.Drawn {
		n += c
	}
	return n
}
