// internal/models/card.go
package models

// Color is the printed color of a card. Black is the wild family and white
// the variant family (shield, share-pain); neither participates in color
// matching.
type Color string

const (
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorBlack  Color = "black"
	ColorWhite  Color = "white"
)

// NaturalColors are the four colors a wild card may select. The order is
// fixed; the computer policy uses it to break histogram ties.
var NaturalColors = []Color{ColorRed, ColorYellow, ColorGreen, ColorBlue}

// IsNatural reports whether c is one of the four matchable colors.
func (c Color) IsNatural() bool {
	for _, nc := range NaturalColors {
		if c == nc {
			return true
		}
	}
	return false
}

// Kind classifies a card's behavior.
type Kind string

const (
	KindNumber       Kind = "number"
	KindSkip         Kind = "skip"
	KindReverse      Kind = "reverse"
	KindDrawTwo      Kind = "drawTwo"
	KindWild         Kind = "wild"
	KindWildDrawFour Kind = "wildDrawFour"
	KindShield       Kind = "shield"
	KindSharePain    Kind = "sharePain"
)

// Card is immutable once created. A card is owned by exactly one of the deck,
// the discard pile, or a single hand; cards move by value so no aliasing is
// possible.
type Card struct {
	Color   Color  `json:"color"`
	Value   string `json:"value"`
	Kind    Kind   `json:"kind"`
	Display string `json:"display"`
}

// IsAction reports whether the card is unplayable from a one-card hand.
// Wild counts as a legal finisher; everything with a side effect does not.
func (c Card) IsAction() bool {
	switch c.Kind {
	case KindSkip, KindReverse, KindDrawTwo, KindWildDrawFour, KindShield, KindSharePain:
		return true
	}
	return false
}

// IsBlack reports whether the card requires a color selection after play.
func (c Card) IsBlack() bool {
	return c.Color == ColorBlack
}

// CarriesColor reports whether playing the card updates the active color.
// White variant cards leave the active color untouched.
func (c Card) CarriesColor() bool {
	return c.Color != ColorWhite
}

// Matches reports an exact triple match (color, value, kind) against other.
// Jump-ins require this, not mere playability.
func (c Card) Matches(other Card) bool {
	return c.Color == other.Color && c.Value == other.Value && c.Kind == other.Kind
}
