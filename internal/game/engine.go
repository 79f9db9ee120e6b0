// internal/game/engine.go
package game

import "github.com/kennynokoo/uno/internal/models"

// IsPlayable is the rule-engine playability predicate. It is deterministic
// over (card, discard top, stack state, effective color, hand size).
func (s *GameState) IsPlayable(c models.Card, handSize int, rules GameRules) bool {
	top, hasTop := s.topDiscard()
	if !hasTop {
		return true
	}
	if s.ActionPaused || s.WaitingForColor {
		return false
	}
	// A player down to their last card may not finish on an action card.
	if handSize == 1 && c.IsAction() {
		return false
	}
	if s.Stack.Active {
		if c.Kind == s.Stack.Kind {
			return true
		}
		return c.Kind == models.KindShield && rules.ShieldCardsEnabled
	}
	switch c.Kind {
	case models.KindWild, models.KindWildDrawFour, models.KindShield:
		return true
	case models.KindSharePain:
		return rules.SharePainEnabled
	}
	return c.Color == s.effectiveColor() || c.Value == top.Value
}

// applyCardEffects applies the played card's side effects to the state.
// Black cards are applied from selectColor, after the color is known.
func (s *GameState) applyCardEffects(c models.Card, playerCount int) {
	switch c.Kind {
	case models.KindSkip:
		s.SkipPending = true
	case models.KindReverse:
		if playerCount >= 3 {
			s.Direction = -s.Direction
		} else {
			// Two-player reverse degrades to a skip.
			s.SkipPending = true
		}
	case models.KindDrawTwo:
		s.addToStack(models.KindDrawTwo, 2)
	case models.KindWildDrawFour:
		s.addToStack(models.KindWildDrawFour, 4)
	}
}

// addToStack opens a penalty stack or, if one of the same kind is already
// active, adds to it. Cross-kind stacking is impossible: the playability
// predicate only admits same-kind cards while a stack is active.
func (s *GameState) addToStack(kind models.Kind, n int) {
	if s.Stack.Active && s.Stack.Kind == kind {
		s.Stack.Count += n
		return
	}
	s.Stack = PenaltyStack{Count: n, Kind: kind, Active: true}
}
