// internal/game/view.go
package game

import "github.com/kennynokoo/uno/internal/models"

// CardView is a card as one viewer sees it. Hidden cards carry no identifying
// fields at all; they exist only so clients can count and animate them.
type CardView struct {
	Color   models.Color `json:"color,omitempty"`
	Value   string       `json:"value,omitempty"`
	Kind    models.Kind  `json:"kind,omitempty"`
	Display string       `json:"display,omitempty"`
	Hidden  bool         `json:"hidden,omitempty"`
}

// SeatView is one seat from the perspective of a requesting viewer.
type SeatView struct {
	Seat       string     `json:"seat"`
	Name       string     `json:"name"`
	IsComputer bool       `json:"isComputer"`
	HandSize   int        `json:"handSize"`
	Hand       []CardView `json:"hand"`
	CalledUno  bool       `json:"calledUno"`
	IsCurrent  bool       `json:"isCurrent"`
}

// GameView is the sanitized projection of a room's state for one viewer.
// It shares no mutable substructure with the canonical state.
type GameView struct {
	RoomCode        string            `json:"roomCode"`
	Phase           Phase             `json:"phase"`
	ViewerSeat      string            `json:"viewerSeat"`
	CurrentSeat     string            `json:"currentSeat,omitempty"`
	Direction       int               `json:"direction,omitempty"`
	ActiveColor     models.Color      `json:"activeColor,omitempty"`
	DiscardTop      *CardView         `json:"discardTop,omitempty"`
	DeckSize        int               `json:"deckSize"`
	Stack           *PenaltyStack     `json:"stack,omitempty"`
	WaitingForColor bool              `json:"waitingForColor,omitempty"`
	Paused          bool              `json:"paused,omitempty"`
	JumpInOpen      bool              `json:"jumpInOpen,omitempty"`
	Binding         *SharePainBinding `json:"binding,omitempty"`
	Seats           []SeatView        `json:"seats"`
}

func viewCard(c models.Card) CardView {
	return CardView{Color: c.Color, Value: c.Value, Kind: c.Kind, Display: c.Display}
}

// viewFor projects the room state for one viewer seat. The viewer sees their
// own hand in full; every other hand is redacted to opaque placeholders
// carrying only a count. Assumes the room lock is held.
func (r *Room) viewFor(viewerSeat string) *GameView {
	v := &GameView{
		RoomCode:   r.Code,
		Phase:      r.Phase,
		ViewerSeat: viewerSeat,
	}

	s := r.State
	if s != nil {
		v.Direction = s.Direction
		v.ActiveColor = s.ActiveColor
		v.DeckSize = len(s.Deck)
		v.WaitingForColor = s.WaitingForColor
		v.Paused = s.ActionPaused
		v.JumpInOpen = s.JumpInOpen
		if s.Stack.Active {
			stack := s.Stack
			v.Stack = &stack
		}
		if s.Binding != nil {
			binding := *s.Binding
			v.Binding = &binding
		}
		if top, ok := s.topDiscard(); ok {
			tc := viewCard(top)
			v.DiscardTop = &tc
		}
		if s.CurrentPlayerIndex >= 0 && s.CurrentPlayerIndex < len(r.Players) {
			v.CurrentSeat = r.Players[s.CurrentPlayerIndex].Seat
		}
	}

	for i, p := range r.Players {
		sv := SeatView{
			Seat:       p.Seat,
			Name:       p.Name,
			IsComputer: p.IsComputer,
			HandSize:   len(p.Hand),
		}
		if s != nil {
			sv.CalledUno = s.UnoCalled[p.Seat]
			sv.IsCurrent = i == s.CurrentPlayerIndex
		}
		sv.Hand = make([]CardView, 0, len(p.Hand))
		for _, c := range p.Hand {
			if p.Seat == viewerSeat {
				sv.Hand = append(sv.Hand, viewCard(c))
			} else {
				sv.Hand = append(sv.Hand, CardView{Hidden: true})
			}
		}
		v.Seats = append(v.Seats, sv)
	}
	return v
}
