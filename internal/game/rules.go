// internal/game/rules.go
package game

import "fmt"

// GameRules is the per-room rule configuration. It is set by seat player_0
// before the round starts and frozen once the game is active.
type GameRules struct {
	JumpInEnabled      bool `json:"jumpInEnabled"`      // allow out-of-turn plays of an exact duplicate of the discard top
	ShieldCardsEnabled bool `json:"shieldCardsEnabled"` // add 4 shield cards that bounce a penalty stack back
	SharePainEnabled   bool `json:"sharePainEnabled"`   // add 2 share-pain cards that bind two seats' penalties together
	StartingHandSize   int  `json:"startingHandSize"`   // cards dealt per seat at round start
	TurnTimerSec       int  `json:"turnTimerSec"`       // seconds per human turn; 0 disables the clock
}

// DefaultRules returns the base configuration: plain 108-card UNO.
func DefaultRules() GameRules {
	return GameRules{
		JumpInEnabled:      false,
		ShieldCardsEnabled: false,
		SharePainEnabled:   false,
		StartingHandSize:   7,
		TurnTimerSec:       15,
	}
}

// Update applies a partial rule override map. Unknown keys are ignored and
// absent keys keep their current value.
func (rules *GameRules) Update(overrides map[string]interface{}) error {
	assignBool := func(field *bool, key string) error {
		if val, exists := overrides[key]; exists && val != nil {
			b, ok := val.(bool)
			if !ok {
				return fmt.Errorf("invalid type for %s", key)
			}
			*field = b
		}
		return nil
	}

	assignInt := func(field *int, key string, minVal, maxVal int) error {
		if val, exists := overrides[key]; exists && val != nil {
			// JSON numbers decode as float64
			switch v := val.(type) {
			case float64:
				*field = int(v)
			case int:
				*field = v
			default:
				return fmt.Errorf("invalid type for %s", key)
			}
			if *field < minVal || *field > maxVal {
				return fmt.Errorf("%s must be between %d and %d", key, minVal, maxVal)
			}
		}
		return nil
	}

	if err := assignBool(&rules.JumpInEnabled, "jumpInEnabled"); err != nil {
		return err
	}
	if err := assignBool(&rules.ShieldCardsEnabled, "shieldCardsEnabled"); err != nil {
		return err
	}
	if err := assignBool(&rules.SharePainEnabled, "sharePainEnabled"); err != nil {
		return err
	}
	if err := assignInt(&rules.StartingHandSize, "startingHandSize", 1, 20); err != nil {
		return err
	}
	if err := assignInt(&rules.TurnTimerSec, "turnTimerSec", 0, 300); err != nil {
		return err
	}
	return nil
}
