// internal/game/room_test.go
package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kennynokoo/uno/internal/models"
)

func TestAddHumanSeatsInOrder(t *testing.T) {
	r, _ := newTestRoom(t, 3, DefaultRules())

	require.Len(t, r.Players, 3)
	assert.Equal(t, "player_0", r.Players[0].Seat)
	assert.Equal(t, "player_1", r.Players[1].Seat)
	assert.Equal(t, "player_2", r.Players[2].Seat)
}

func TestAddHumanRejectsFifthSeat(t *testing.T) {
	r, _ := newTestRoom(t, 4, DefaultRules())

	_, err := r.AddHuman("Overflow", uuid.New(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "full")
}

func TestAddHumanRejectedMidGame(t *testing.T) {
	r, _ := newTestRoom(t, 2, DefaultRules())
	startGame(t, r)

	_, err := r.AddHuman("Late", uuid.New(), nil)
	require.Error(t, err)
}

func TestStartFillsComputerSeats(t *testing.T) {
	r, rec := newTestRoom(t, 1, DefaultRules())
	startGame(t, r)

	require.Len(t, r.Players, 4)
	assert.Equal(t, "computer_1", r.Players[1].Seat)
	assert.Equal(t, "computer_3", r.Players[3].Seat)
	for _, p := range r.Players {
		assert.Len(t, p.Hand, DefaultRules().StartingHandSize)
	}
	assert.Equal(t, "player_0", r.currentPlayerLocked().Seat, "seat 0 opens")

	ev, ok := rec.lastOfType("player_0", EventGameStart)
	require.True(t, ok)
	require.NotNil(t, ev.State)
	assert.Equal(t, models.KindNumber, ev.State.DiscardTop.Kind)
}

func TestStartRequiresAllReady(t *testing.T) {
	r, _ := newTestRoom(t, 2, DefaultRules())
	r.MarkReady("player_0")
	assert.Equal(t, PhaseLobby, r.Phase)
	r.MarkReady("player_1")
	assert.Equal(t, PhaseActive, r.Phase)
}

func TestUpdateRulesCreatorOnlyAndLobbyOnly(t *testing.T) {
	r, _ := newTestRoom(t, 2, DefaultRules())

	err := r.UpdateRules("player_1", map[string]interface{}{"jumpInEnabled": true})
	require.Error(t, err, "only the creator changes rules")

	err = r.UpdateRules("player_0", map[string]interface{}{"jumpInEnabled": true, "startingHandSize": float64(5)})
	require.NoError(t, err)
	assert.True(t, r.Rules.JumpInEnabled)
	assert.Equal(t, 5, r.Rules.StartingHandSize)

	startGame(t, r)
	err = r.UpdateRules("player_0", map[string]interface{}{"jumpInEnabled": false})
	require.Error(t, err, "rules freeze at game start")
	for _, p := range r.Players {
		assert.Len(t, p.Hand, 5)
	}
}

func TestTurnClockExclusivity(t *testing.T) {
	r, _ := newTestRoom(t, 1, DefaultRules())
	startGame(t, r)

	// Human current: turn clock armed, think timer not.
	assert.True(t, r.hasTask(taskTurn))
	assert.False(t, r.hasTask(taskThink))

	// Computer current: the reverse.
	r.Mu.Lock()
	setCurrent(r, "computer_1")
	r.armTurnClockLocked()
	r.Mu.Unlock()
	assert.False(t, r.hasTask(taskTurn))
	assert.True(t, r.hasTask(taskThink))
}

func TestViewRedactsOtherHands(t *testing.T) {
	r, _ := newTestRoom(t, 2, DefaultRules())
	startGame(t, r)

	r.Mu.Lock()
	v := r.viewFor("player_0")
	r.Mu.Unlock()

	require.Len(t, v.Seats, 4)
	for _, sv := range v.Seats {
		require.Len(t, sv.Hand, sv.HandSize)
		for _, cv := range sv.Hand {
			if sv.Seat == "player_0" {
				assert.False(t, cv.Hidden)
				assert.NotEmpty(t, cv.Display)
			} else {
				assert.True(t, cv.Hidden)
				assert.Empty(t, cv.Value, "hidden cards carry no identity")
				assert.Empty(t, cv.Color)
			}
		}
	}
	assert.Equal(t, "player_0", v.ViewerSeat)
	assert.Positive(t, v.DeckSize)
}

func TestRematchUnanimityResetsRoom(t *testing.T) {
	r, rec := newTestRoom(t, 2, DefaultRules())
	startGame(t, r)

	r.Mu.Lock()
	r.endRoundLocked("player_1", "")
	r.Mu.Unlock()
	require.Equal(t, PhaseGameOver, r.Phase)
	require.Len(t, r.Players, 4, "computer seats survive until the reset")

	r.RequestRematch("player_0")
	assert.Equal(t, PhaseGameOver, r.Phase, "waiting for the second vote")
	ev, ok := rec.lastOfType("player_1", EventRematchUpdate)
	require.True(t, ok)
	assert.Equal(t, []string{"player_0"}, ev.Votes)
	assert.Equal(t, 2, ev.VotesNeeded)

	r.RequestRematch("player_1")
	assert.Equal(t, PhaseLobby, r.Phase)
	assert.Nil(t, r.State)
	require.Len(t, r.Players, 2, "computer seats destroyed")
	for _, p := range r.Players {
		assert.False(t, p.Ready, "everyone must ready up again")
		assert.Empty(t, p.Hand)
	}
	_, ok = rec.lastOfType("player_0", EventReturnToWaitingRoom)
	assert.True(t, ok)
}

func TestDisconnectMidGameEndsRoundWithNoWinner(t *testing.T) {
	r, rec := newTestRoom(t, 2, DefaultRules())
	startGame(t, r)

	leaver := r.Players[1]
	r.HandleDisconnect(leaver.ConnID)

	assert.Equal(t, PhaseGameOver, r.Phase)
	ev, ok := rec.lastOfType("player_0", EventGameOver)
	require.True(t, ok)
	assert.Empty(t, ev.Winner)
	assert.Equal(t, "playerDisconnected", ev.Reason)

	for _, p := range r.Players {
		assert.NotEqual(t, "player_1", p.Seat)
	}
}

func TestDisconnectRetractsRematchHoldout(t *testing.T) {
	r, _ := newTestRoom(t, 2, DefaultRules())
	startGame(t, r)
	r.Mu.Lock()
	r.endRoundLocked("player_0", "")
	r.Mu.Unlock()

	r.RequestRematch("player_0")
	require.Equal(t, PhaseGameOver, r.Phase)

	// The holdout leaving makes the remaining vote unanimous.
	r.HandleDisconnect(r.Players[1].ConnID)
	assert.Equal(t, PhaseLobby, r.Phase)
}

func TestLastHumanLeavingDestroysRoom(t *testing.T) {
	r, _ := newTestRoom(t, 1, DefaultRules())
	destroyed := ""
	r.OnEmpty = func(code string) { destroyed = code }
	startGame(t, r)

	r.HandleDisconnect(r.Players[0].ConnID)
	assert.Equal(t, r.Code, destroyed)
}

func TestStaleTimerCallbackIgnoredAfterRoundEnd(t *testing.T) {
	r, _ := newTestRoom(t, 2, DefaultRules())
	startGame(t, r)

	epoch := r.epoch
	r.Mu.Lock()
	r.endRoundLocked("player_0", "")
	r.Mu.Unlock()

	// A timeout captured before the round ended must be a no-op now.
	p0 := len(handOf(r, "player_0"))
	r.turnTimeout(epoch, "player_0")
	assert.Len(t, handOf(r, "player_0"), p0)
	assert.Equal(t, PhaseGameOver, r.Phase)
}

func TestRoomStoreCodesAndLifecycle(t *testing.T) {
	st := NewRoomStore()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		r := st.Create()
		require.Len(t, r.Code, codeLength)
		for _, ch := range r.Code {
			assert.Contains(t, codeAlphabet, string(ch))
		}
		assert.False(t, seen[r.Code], "codes are unique")
		seen[r.Code] = true
	}
	assert.Equal(t, 50, st.Count())

	r := st.Create()
	got, ok := st.Get(r.Code)
	require.True(t, ok)
	assert.Same(t, r, got)

	r.OnEmpty(r.Code)
	_, ok = st.Get(r.Code)
	assert.False(t, ok)
}
