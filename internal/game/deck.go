// internal/game/deck.go
package game

import (
	"fmt"
	"math/rand"

	"github.com/kennynokoo/uno/internal/models"
)

// buildDeck constructs the full card population for the enabled rule variants:
// 108 base cards, plus 4 shields and/or 2 share-pain cards.
func buildDeck(rules GameRules) []models.Card {
	deck := make([]models.Card, 0, DeckPopulation(rules))

	for _, color := range models.NaturalColors {
		deck = append(deck, numberCard(color, 0))
		for v := 1; v <= 9; v++ {
			deck = append(deck, numberCard(color, v), numberCard(color, v))
		}
		for i := 0; i < 2; i++ {
			deck = append(deck,
				models.Card{Color: color, Value: "skip", Kind: models.KindSkip, Display: fmt.Sprintf("%s skip", color)},
				models.Card{Color: color, Value: "reverse", Kind: models.KindReverse, Display: fmt.Sprintf("%s reverse", color)},
				models.Card{Color: color, Value: "draw2", Kind: models.KindDrawTwo, Display: fmt.Sprintf("%s draw two", color)},
			)
		}
	}
	for i := 0; i < 4; i++ {
		deck = append(deck,
			models.Card{Color: models.ColorBlack, Value: "wild", Kind: models.KindWild, Display: "wild"},
			models.Card{Color: models.ColorBlack, Value: "draw4", Kind: models.KindWildDrawFour, Display: "wild draw four"},
		)
	}
	if rules.ShieldCardsEnabled {
		for i := 0; i < 4; i++ {
			deck = append(deck, models.Card{Color: models.ColorWhite, Value: "shield", Kind: models.KindShield, Display: "shield"})
		}
	}
	if rules.SharePainEnabled {
		for i := 0; i < 2; i++ {
			deck = append(deck, models.Card{Color: models.ColorWhite, Value: "sharepain", Kind: models.KindSharePain, Display: "share pain"})
		}
	}
	return deck
}

func numberCard(color models.Color, v int) models.Card {
	val := fmt.Sprintf("%d", v)
	return models.Card{Color: color, Value: val, Kind: models.KindNumber, Display: fmt.Sprintf("%s %s", color, val)}
}

// DeckPopulation is the fixed card count for a variant set. The conservation
// invariant holds against this number for the whole round.
func DeckPopulation(rules GameRules) int {
	n := 108
	if rules.ShieldCardsEnabled {
		n += 4
	}
	if rules.SharePainEnabled {
		n += 2
	}
	return n
}

// shuffle performs an unbiased Fisher–Yates permutation of the deck.
func shuffle(deck []models.Card, rng *rand.Rand) {
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}
