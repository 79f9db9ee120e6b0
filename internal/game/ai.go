// internal/game/ai.go
package game

import (
	"time"

	"github.com/kennynokoo/uno/internal/models"
)

// armThinkLocked schedules the computer's move after a randomized think
// delay, so computer turns read as deliberate rather than instantaneous.
func (r *Room) armThinkLocked() {
	r.tasks.cancel(taskTurn)
	epoch := r.epoch
	r.tasks.arm(taskThink, r.thinkDelay(), func() { r.computerTakeTurn(epoch) })
}

func (r *Room) thinkDelay() time.Duration {
	span := r.Timing.ThinkMax - r.Timing.ThinkMin
	if span <= 0 {
		return r.Timing.ThinkMin
	}
	return r.Timing.ThinkMin + time.Duration(r.rng.Int63n(int64(span)))
}

// computerTakeTurn runs the computer policy for the current seat: under an
// active stack, probabilistically shield or accept the penalty; otherwise
// play the first playable card in hand order, else draw.
func (r *Room) computerTakeTurn(epoch int) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.epoch != epoch || r.Phase != PhaseActive || r.State == nil {
		return
	}
	s := r.State
	p := r.currentPlayerLocked()
	if p == nil || !p.IsComputer || s.ActionPaused || s.WaitingForColor {
		return
	}

	if s.Stack.Active {
		if r.Rules.ShieldCardsEnabled && len(p.Hand) > 1 {
			if idx, ok := p.HasCard(models.KindShield); ok &&
				r.rng.Float64() < shieldUseProbability(s.Stack.Count, len(p.Hand)) {
				r.playCardLocked(p, idx)
				return
			}
		}
		r.drawCardLocked(p)
		return
	}

	for i, c := range p.Hand {
		if !s.IsPlayable(c, len(p.Hand), r.Rules) {
			continue
		}
		if c.Kind == models.KindSharePain {
			target := r.largestOtherHandLocked(p.Seat)
			if target == "" {
				continue
			}
			r.sharePainLocked(p, i, target)
			return
		}
		r.playCardLocked(p, i)
		return
	}

	if s.HasDrawnThisTurn {
		// Nothing usable even after drawing; concede the turn.
		r.nextTurnLocked()
		r.broadcastUnlockLocked()
		return
	}
	r.drawCardLocked(p)
}

// computerSelectColor picks the wild color for a computer seat after the
// short color-delay task fires.
func (r *Room) computerSelectColor(epoch int) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.epoch != epoch || r.Phase != PhaseActive || r.State == nil {
		return
	}
	s := r.State
	p := r.currentPlayerLocked()
	if p == nil || !p.IsComputer || !s.WaitingForColor || s.ActionPaused {
		return
	}
	r.selectColorLocked(p, pickComputerColor(p))
}

// shieldUseProbability grows with the accumulated stack and with hand size:
// the more a computer stands to draw, and the less a redirect costs its
// finishing chances, the likelier the shield.
func shieldUseProbability(stackCount, handSize int) float64 {
	p := 0.25 + 0.06*float64(stackCount) + 0.04*float64(handSize)
	if p > 0.95 {
		p = 0.95
	}
	return p
}

// pickComputerColor picks the color the computer holds most of, tie-broken
// in fixed red, yellow, green, blue order; red when the hand is all black.
func pickComputerColor(p *models.Player) models.Color {
	counts := make(map[models.Color]int)
	for _, c := range p.Hand {
		if c.Color.IsNatural() {
			counts[c.Color]++
		}
	}
	best := models.ColorRed
	bestN := -1
	for _, col := range models.NaturalColors {
		if counts[col] > bestN {
			best, bestN = col, counts[col]
		}
	}
	return best
}

// largestOtherHandLocked picks the opponent holding the most cards; ties go
// to the earlier seat. Empty only when no opponent holds a card, which an
// active round never produces.
func (r *Room) largestOtherHandLocked(self string) string {
	best := ""
	bestN := 0
	for _, p := range r.Players {
		if p.Seat == self {
			continue
		}
		if len(p.Hand) > bestN {
			best, bestN = p.Seat, len(p.Hand)
		}
	}
	return best
}
