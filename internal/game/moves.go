// internal/game/moves.go
package game

import (
	"time"

	"github.com/kennynokoo/uno/internal/models"
)

// penaltyReason distinguishes penalties inflicted by an opponent's cards
// (which a share-pain binding mirrors) from self-inflicted timeout penalties
// (which it never does).
type penaltyReason int

const (
	penaltyAttack penaltyReason = iota
	penaltyTimeout
)

// HandleMove validates and applies one inbound move for a seat. Moves routed
// to a room whose round already ended are dropped silently; every other
// rejection travels back to the offending seat as a moveError.
func (r *Room) HandleMove(seat string, mv models.Move) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.Phase != PhaseActive || r.State == nil {
		return
	}
	p := r.playerBySeatLocked(seat)
	if p == nil {
		return
	}
	s := r.State

	if s.ActionPaused && mv.Kind != models.MoveJumpIn {
		r.sendErrorLocked(seat, "animation in progress")
		return
	}
	if mv.Kind != models.MoveSelectColor && mv.Kind != models.MoveJumpIn && r.currentPlayerLocked() != p {
		r.sendErrorLocked(seat, "not your turn")
		return
	}

	switch mv.Kind {
	case models.MovePlayCard:
		r.playCardLocked(p, mv.CardIndex)
	case models.MoveDrawCard:
		r.drawCardLocked(p)
	case models.MoveSelectColor:
		r.selectColorLocked(p, mv.Color)
	case models.MoveJumpIn:
		r.jumpInLocked(p, mv.CardIndex)
	case models.MoveSharePain:
		r.sharePainLocked(p, mv.CardIndex, mv.TargetSeat)
	default:
		r.sendErrorLocked(seat, "unknown move kind")
	}
}

func (r *Room) playCardLocked(p *models.Player, idx int) {
	s := r.State
	if idx < 0 || idx >= len(p.Hand) {
		r.sendErrorLocked(p.Seat, "invalid card index")
		return
	}
	c := p.Hand[idx]
	if c.Kind == models.KindSharePain {
		r.sendErrorLocked(p.Seat, "share-pain cards need a target seat")
		return
	}
	if c.Kind == models.KindShield && s.Stack.Active {
		if len(p.Hand) == 1 {
			r.sendErrorLocked(p.Seat, "card is not playable")
			return
		}
		r.playShieldRedirectLocked(p, idx)
		return
	}
	if !s.IsPlayable(c, len(p.Hand), r.Rules) {
		r.sendErrorLocked(p.Seat, "card is not playable")
		return
	}
	r.finishCardPlayLocked(p, idx, SummaryPlayCard)
}

// playShieldRedirectLocked resolves a shield against an active penalty
// stack: the full accumulated count lands on the previous player in turn
// order, as an attack, and the stack is cleared.
func (r *Room) playShieldRedirectLocked(p *models.Player, idx int) {
	s := r.State
	count := s.Stack.Count
	s.Stack = PenaltyStack{}

	c := p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	s.Discard = append(s.Discard, c)

	prev := r.Players[s.prevIndex(s.CurrentPlayerIndex, len(r.Players))]
	cv := viewCard(c)
	sum := &MoveSummary{
		Seat:         p.Seat,
		Kind:         SummaryPlayCard,
		Card:         &cv,
		Redirected:   true,
		RedirectSeat: prev.Seat,
	}
	sum.Drawn = r.applyPenaltyLocked(prev.Seat, count, penaltyAttack)

	if len(p.Hand) == 1 && !s.UnoCalled[p.Seat] {
		s.UnoCalled[p.Seat] = true
		sum.UnoCalled = true
	}
	r.beginPauseLocked(sum, true, -1)
}

// finishCardPlayLocked is the shared tail of a regular play and a jump-in:
// the card leaves the hand, lands on the discard, and its consequences
// (color, UNO, win, color prompt, effects) apply in order.
func (r *Room) finishCardPlayLocked(p *models.Player, idx int, kind string) {
	s := r.State
	c := p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	s.Discard = append(s.Discard, c)
	if c.Color.IsNatural() {
		s.ActiveColor = c.Color
	}

	cv := viewCard(c)
	sum := &MoveSummary{Seat: p.Seat, Kind: kind, Card: &cv}

	if len(p.Hand) == 1 && !s.UnoCalled[p.Seat] {
		s.UnoCalled[p.Seat] = true
		sum.UnoCalled = true
	}
	if len(p.Hand) == 0 {
		sum.Winner = p.Seat
		r.sendStateToAllLocked(EventGameUpdate, sum)
		r.logMove(p.Seat, sum.Kind, map[string]interface{}{"card": c.Display, "winner": p.Seat})
		r.endRoundLocked(p.Seat, "")
		return
	}

	if c.IsBlack() {
		played := c
		s.WaitingForColor = true
		s.pendingWild = &played
		r.beginPauseLocked(sum, false, -1)
		return
	}

	s.applyCardEffects(c, len(r.Players))
	if s.SkipPending {
		skipped := r.Players[s.nextIndex(s.CurrentPlayerIndex, len(r.Players))]
		sum.SkippedSeat = skipped.Seat
	}
	r.beginPauseLocked(sum, true, -1)
}

func (r *Room) drawCardLocked(p *models.Player) {
	s := r.State

	// With a stack active, drawing means accepting the whole penalty.
	if s.Stack.Active {
		count := s.Stack.Count
		s.Stack = PenaltyStack{}
		s.HasDrawnThisTurn = true
		sum := &MoveSummary{Seat: p.Seat, Kind: SummaryDrawPenalty}
		sum.Drawn = r.applyPenaltyLocked(p.Seat, count, penaltyAttack)
		r.beginPauseLocked(sum, true, -1)
		return
	}

	if s.HasDrawnThisTurn {
		r.sendErrorLocked(p.Seat, "already drew this turn")
		return
	}
	s.HasDrawnThisTurn = true

	sum := &MoveSummary{Seat: p.Seat, Kind: SummaryDrawCard, Drawn: map[string]int{}}
	c, ok := s.draw()
	if !ok {
		// Deck and discard both exhausted: the draw degrades to a pass.
		r.beginPauseLocked(sum, true, -1)
		return
	}
	p.Hand = append(p.Hand, c)
	sum.Drawn[p.Seat] = 1

	if s.IsPlayable(c, len(p.Hand), r.Rules) {
		// The seat keeps the turn with whatever clock it has left.
		sum.DrawnPlayable = true
		remaining := time.Duration(r.Rules.TurnTimerSec)*time.Second - time.Since(s.TurnStartedAt)
		r.beginPauseLocked(sum, false, remaining)
		return
	}
	r.beginPauseLocked(sum, true, -1)
}

func (r *Room) selectColorLocked(p *models.Player, color models.Color) {
	s := r.State
	if !s.WaitingForColor {
		r.sendErrorLocked(p.Seat, "no color choice is pending")
		return
	}
	if r.currentPlayerLocked() != p {
		r.sendErrorLocked(p.Seat, "not your turn")
		return
	}
	if !color.IsNatural() {
		r.sendErrorLocked(p.Seat, "invalid color")
		return
	}

	s.ActiveColor = color
	if s.pendingWild != nil {
		s.applyCardEffects(*s.pendingWild, len(r.Players))
		s.pendingWild = nil
	}
	s.WaitingForColor = false

	sum := &MoveSummary{Seat: p.Seat, Kind: SummarySelectColor, ChosenColor: color}
	r.beginPauseLocked(sum, true, -1)
}

// jumpInLocked lets an out-of-turn seat seize the turn by playing a card
// identical to the discard top while the jump-in window is open.
func (r *Room) jumpInLocked(p *models.Player, idx int) {
	s := r.State
	if !r.Rules.JumpInEnabled || !s.JumpInOpen {
		r.sendErrorLocked(p.Seat, "jump-in window is closed")
		return
	}
	if idx < 0 || idx >= len(p.Hand) {
		r.sendErrorLocked(p.Seat, "invalid card index")
		return
	}
	top, ok := s.topDiscard()
	if !ok {
		r.sendErrorLocked(p.Seat, "nothing to jump in on")
		return
	}
	c := p.Hand[idx]
	if c.Kind == models.KindSharePain {
		r.sendErrorLocked(p.Seat, "share-pain cards need a target seat")
		return
	}
	if !c.Matches(top) {
		r.sendErrorLocked(p.Seat, "card does not match the discard exactly")
		return
	}

	// Seize the turn: every pending clock belongs to the pre-empted seat.
	s.JumpInOpen = false
	s.ActionPaused = false
	r.tasks.cancel(taskTurn)
	r.tasks.cancel(taskThink)
	r.tasks.cancel(taskPause)
	r.tasks.cancel(taskJumpIn)
	r.tasks.cancel(taskColorDelay)

	s.CurrentPlayerIndex = r.seatIndexLocked(p.Seat)
	s.HasDrawnThisTurn = false
	s.TurnStartedAt = time.Now()

	r.finishCardPlayLocked(p, idx, SummaryJumpIn)
}

// sharePainLocked plays a share-pain card, binding its target to the player:
// until replaced, any attack penalty landing on either of them is mirrored
// onto the other. A new binding replaces the old one room-wide.
func (r *Room) sharePainLocked(p *models.Player, idx int, target string) {
	s := r.State
	if !r.Rules.SharePainEnabled {
		r.sendErrorLocked(p.Seat, "share-pain cards are disabled")
		return
	}
	if idx < 0 || idx >= len(p.Hand) {
		r.sendErrorLocked(p.Seat, "invalid card index")
		return
	}
	c := p.Hand[idx]
	if c.Kind != models.KindSharePain {
		r.sendErrorLocked(p.Seat, "not a share-pain card")
		return
	}
	tp := r.playerBySeatLocked(target)
	if tp == nil || tp == p {
		r.sendErrorLocked(p.Seat, "invalid target seat")
		return
	}
	if !s.IsPlayable(c, len(p.Hand), r.Rules) {
		r.sendErrorLocked(p.Seat, "card is not playable")
		return
	}

	s.Binding = &SharePainBinding{Binder: p.Seat, Target: target}
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	s.Discard = append(s.Discard, c)

	cv := viewCard(c)
	sum := &MoveSummary{Seat: p.Seat, Kind: SummarySharePain, Card: &cv, TargetSeat: target}
	if len(p.Hand) == 1 && !s.UnoCalled[p.Seat] {
		s.UnoCalled[p.Seat] = true
		sum.UnoCalled = true
	}
	r.beginPauseLocked(sum, true, -1)
}

// applyPenaltyLocked deals count cards to the target seat and, for attacks,
// to its share-pain partner if a binding touches it. Draws stop silently when
// both piles run dry. Returns cards drawn per seat.
func (r *Room) applyPenaltyLocked(target string, count int, reason penaltyReason) map[string]int {
	s := r.State
	seats := []string{target}
	if r.Rules.SharePainEnabled && reason == penaltyAttack && s.Binding != nil {
		if partner := s.Binding.Partner(target); partner != "" {
			seats = append(seats, partner)
		}
	}

	drawn := make(map[string]int, len(seats))
	for _, seat := range seats {
		p := r.playerBySeatLocked(seat)
		if p == nil {
			continue
		}
		n := 0
		for i := 0; i < count; i++ {
			c, ok := s.draw()
			if !ok {
				break
			}
			p.Hand = append(p.Hand, c)
			n++
		}
		drawn[seat] = n
		if len(p.Hand) != 1 {
			delete(s.UnoCalled, seat)
		}
	}
	return drawn
}
