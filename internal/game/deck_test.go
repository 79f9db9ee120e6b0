// internal/game/deck_test.go
package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kennynokoo/uno/internal/models"
)

func TestBuildDeckBaseComposition(t *testing.T) {
	deck := buildDeck(DefaultRules())
	require.Len(t, deck, 108)

	counts := map[models.Kind]int{}
	perColorZero := map[models.Color]int{}
	for _, c := range deck {
		counts[c.Kind]++
		if c.Kind == models.KindNumber && c.Value == "0" {
			perColorZero[c.Color]++
		}
	}
	assert.Equal(t, 76, counts[models.KindNumber])
	assert.Equal(t, 8, counts[models.KindSkip])
	assert.Equal(t, 8, counts[models.KindReverse])
	assert.Equal(t, 8, counts[models.KindDrawTwo])
	assert.Equal(t, 4, counts[models.KindWild])
	assert.Equal(t, 4, counts[models.KindWildDrawFour])
	assert.Zero(t, counts[models.KindShield])
	assert.Zero(t, counts[models.KindSharePain])

	for _, color := range models.NaturalColors {
		assert.Equal(t, 1, perColorZero[color], "one zero per color")
	}
}

func TestBuildDeckVariantCards(t *testing.T) {
	rules := DefaultRules()
	rules.ShieldCardsEnabled = true
	rules.SharePainEnabled = true

	deck := buildDeck(rules)
	require.Len(t, deck, 114)
	require.Equal(t, 114, DeckPopulation(rules))

	shields, pains := 0, 0
	for _, c := range deck {
		switch c.Kind {
		case models.KindShield:
			shields++
			assert.Equal(t, models.ColorWhite, c.Color)
		case models.KindSharePain:
			pains++
			assert.Equal(t, models.ColorWhite, c.Color)
		}
	}
	assert.Equal(t, 4, shields)
	assert.Equal(t, 2, pains)
}

func TestFlipOpeningCardIsAlwaysNumber(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		s := newGameState(DefaultRules(), rand.New(rand.NewSource(seed)))
		s.flipOpeningCard()
		top, ok := s.topDiscard()
		require.True(t, ok)
		assert.Equal(t, models.KindNumber, top.Kind, "seed %d", seed)
		assert.Equal(t, top.Color, s.ActiveColor)
		assert.Len(t, s.Deck, 107)
	}
}

func TestDrawReshufflesDiscardKeepingTop(t *testing.T) {
	s := newGameState(DefaultRules(), rand.New(rand.NewSource(1)))
	s.Deck = nil
	s.Discard = []models.Card{num(models.ColorRed, 1), num(models.ColorGreen, 2), num(models.ColorBlue, 3)}

	c, ok := s.draw()
	require.True(t, ok)
	assert.NotEqual(t, num(models.ColorBlue, 3), c, "top card stays on the discard")

	top, ok := s.topDiscard()
	require.True(t, ok)
	assert.Equal(t, num(models.ColorBlue, 3), top)
	assert.Len(t, s.Deck, 1, "two recycled, one drawn")
}

func TestDrawFailsSilentlyWhenExhausted(t *testing.T) {
	s := newGameState(DefaultRules(), rand.New(rand.NewSource(1)))
	s.Deck = nil
	s.Discard = []models.Card{num(models.ColorRed, 5)}

	_, ok := s.draw()
	assert.False(t, ok)
	// The lone discard card stays put.
	top, hasTop := s.topDiscard()
	require.True(t, hasTop)
	assert.Equal(t, num(models.ColorRed, 5), top)
}

func TestCardConservationAfterStart(t *testing.T) {
	rules := DefaultRules()
	rules.ShieldCardsEnabled = true
	r, _ := newTestRoom(t, 2, rules)
	startGame(t, r)

	total := len(r.State.Deck) + len(r.State.Discard)
	for _, p := range r.Players {
		total += len(p.Hand)
	}
	assert.Equal(t, DeckPopulation(rules), total)
}
