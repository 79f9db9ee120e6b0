// internal/game/room.go
package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kennynokoo/uno/internal/cache"
	"github.com/kennynokoo/uno/internal/models"
)

// Phase is the room lifecycle stage. ColorPending and PenaltyPending live on
// the GameState (WaitingForColor, Stack.Active); the rematch lobby is the
// GameOver phase with votes outstanding.
type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseActive   Phase = "active"
	PhaseGameOver Phase = "gameOver"
)

// RoomInfo is the roster payload of roomUpdate events.
type RoomInfo struct {
	Code     string     `json:"code"`
	Phase    Phase      `json:"phase"`
	Rules    GameRules  `json:"rules"`
	Seats    []SeatInfo `json:"seats"`
	CanStart bool       `json:"canStart"`
}

type SeatInfo struct {
	Seat       string `json:"seat"`
	Name       string `json:"name"`
	Ready      bool   `json:"ready"`
	IsComputer bool   `json:"isComputer"`
}

// Room is one isolated game session: the roster (which outlives rounds), the
// rule configuration, zero-or-one GameState, and every live timer handle.
// All state is guarded by Mu; timer callbacks re-acquire it and validate the
// epoch before touching anything.
type Room struct {
	Code    string
	Players []*models.Player
	Rules   GameRules
	State   *GameState
	Phase   Phase

	RematchVotes map[string]bool

	Mu sync.Mutex

	// Send delivers one event to one human seat. It must not block; the
	// transport layer writes asynchronously. Nil in headless tests.
	Send func(p *models.Player, ev Event)

	// OnEmpty is invoked (lock held) when the last human leaves, so the
	// registry can drop the room.
	OnEmpty func(code string)

	Pacing PacingPolicy
	Timing TimingConfig

	CreatedAt time.Time

	tasks        *taskSet
	epoch        int // bumps on round start/end; stale timer callbacks bail out
	moveIndex    int
	humanSeatSeq int
	rng          *rand.Rand
}

// NewRoom builds an empty lobby-phase room.
func NewRoom(code string) *Room {
	return &Room{
		Code:         code,
		Phase:        PhaseLobby,
		Rules:        DefaultRules(),
		RematchVotes: make(map[string]bool),
		Pacing:       DefaultPacing,
		Timing:       DefaultTiming(),
		CreatedAt:    time.Now(),
		tasks:        newTaskSet(),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// AddHuman seats a new human player and returns it. The seat id is stable
// for the room's lifetime.
func (r *Room) AddHuman(name string, connID uuid.UUID, conn *websocket.Conn) (*models.Player, error) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.Phase != PhaseLobby {
		return nil, fmt.Errorf("game already in progress")
	}
	if len(r.Players) >= 4 {
		return nil, fmt.Errorf("room is full")
	}
	p := &models.Player{
		Seat:   fmt.Sprintf("player_%d", r.humanSeatSeq),
		Name:   name,
		ConnID: connID,
		Conn:   conn,
	}
	r.humanSeatSeq++
	r.Players = append(r.Players, p)
	logrus.WithFields(logrus.Fields{"room": r.Code, "seat": p.Seat, "name": name}).Info("player joined")
	r.broadcastRoomUpdateLocked()
	return p, nil
}

// UpdateRules applies a partial rule override. Only seat player_0 may change
// rules, and only before the round starts.
func (r *Room) UpdateRules(seat string, overrides map[string]interface{}) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.Phase != PhaseLobby {
		return fmt.Errorf("rules are locked once the game has started")
	}
	if len(r.Players) == 0 || r.Players[0].Seat != seat {
		return fmt.Errorf("only the room creator can change rules")
	}
	if err := r.Rules.Update(overrides); err != nil {
		return err
	}
	r.broadcastRoomUpdateLocked()
	return nil
}

// MarkReady marks a seat ready and starts the game once every seated player
// is ready.
func (r *Room) MarkReady(seat string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.Phase != PhaseLobby {
		return
	}
	p := r.playerBySeatLocked(seat)
	if p == nil {
		return
	}
	p.Ready = true
	r.broadcastRoomUpdateLocked()
	if r.canStartLocked() {
		r.initializeGameLocked()
	}
}

// canStartLocked requires 1–4 seated players, all ready.
func (r *Room) canStartLocked() bool {
	if r.Phase != PhaseLobby || len(r.Players) == 0 || len(r.Players) > 4 {
		return false
	}
	for _, p := range r.Players {
		if !p.Ready {
			return false
		}
	}
	return true
}

// initializeGameLocked fills empty seats with computer players, builds and
// shuffles the deck, deals, flips the forced-number opening card and enters
// the active phase with seat 0 to move.
func (r *Room) initializeGameLocked() {
	for i := 1; len(r.Players) < 4; i++ {
		r.Players = append(r.Players, &models.Player{
			Seat:       fmt.Sprintf("computer_%d", i),
			Name:       fmt.Sprintf("Computer %d", i),
			IsComputer: true,
			Ready:      true,
		})
	}

	s := newGameState(r.Rules, r.rng)
	for i := 0; i < r.Rules.StartingHandSize; i++ {
		for _, p := range r.Players {
			if c, ok := s.draw(); ok {
				p.Hand = append(p.Hand, c)
			}
		}
	}
	s.flipOpeningCard()
	s.TurnStartedAt = time.Now()

	r.State = s
	r.Phase = PhaseActive
	r.RematchVotes = make(map[string]bool)
	r.epoch++
	r.moveIndex = 0

	logrus.WithFields(logrus.Fields{"room": r.Code, "players": len(r.Players)}).Info("game started")
	r.logMove("", "gameStart", map[string]interface{}{"players": len(r.Players), "rules": r.Rules})

	r.sendStateToAllLocked(EventGameStart, nil)
	r.armTurnClockLocked()
}

// nextTurnLocked advances the current seat: prune stale UNO flags, step by
// direction, consume a pending skip, clear the turn-draw flag, and arm the
// proper clock unless a color choice is outstanding.
func (r *Room) nextTurnLocked() {
	s := r.State
	if s == nil || r.Phase != PhaseActive {
		return
	}
	for seat := range s.UnoCalled {
		if p := r.playerBySeatLocked(seat); p == nil || len(p.Hand) != 1 {
			delete(s.UnoCalled, seat)
		}
	}

	n := len(r.Players)
	idx := s.nextIndex(s.CurrentPlayerIndex, n)
	if s.SkipPending {
		idx = s.nextIndex(idx, n)
		s.SkipPending = false
	}
	s.CurrentPlayerIndex = idx
	s.HasDrawnThisTurn = false

	if !s.WaitingForColor {
		s.TurnStartedAt = time.Now()
		r.armTurnClockLocked()
	}
}

// armTurnClockLocked arms exactly one of the human turn timer or the
// computer think timer for the current seat.
func (r *Room) armTurnClockLocked() {
	r.tasks.cancel(taskTurn)
	r.tasks.cancel(taskThink)
	p := r.currentPlayerLocked()
	if p == nil {
		return
	}
	if p.IsComputer {
		r.armThinkLocked()
		return
	}
	if r.Rules.TurnTimerSec <= 0 {
		return
	}
	r.armTurnRemainingLocked(time.Duration(r.Rules.TurnTimerSec) * time.Second)
}

func (r *Room) armTurnRemainingLocked(d time.Duration) {
	p := r.currentPlayerLocked()
	if p == nil {
		return
	}
	epoch := r.epoch
	seat := p.Seat
	r.tasks.arm(taskTurn, d, func() { r.turnTimeout(epoch, seat) })
}

// turnTimeout fires when the human turn clock expires. Stale callbacks (old
// epoch, turn already moved on, lock held) are dropped.
func (r *Room) turnTimeout(epoch int, seat string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.epoch != epoch || r.Phase != PhaseActive || r.State == nil {
		return
	}
	s := r.State
	p := r.currentPlayerLocked()
	if p == nil || p.Seat != seat || s.ActionPaused || s.WaitingForColor {
		return
	}
	r.handleTurnTimeoutLocked(p)
}

// handleTurnTimeoutLocked resolves a timed-out turn: an active penalty stack
// resolves onto the player (an attack, so share-pain mirrors it); otherwise
// the player draws a single self-inflicted card, which never mirrors.
func (r *Room) handleTurnTimeoutLocked(p *models.Player) {
	s := r.State
	sum := &MoveSummary{Seat: p.Seat, Kind: SummaryTimeout}
	if s.Stack.Active {
		count := s.Stack.Count
		s.Stack = PenaltyStack{}
		sum.Drawn = r.applyPenaltyLocked(p.Seat, count, penaltyAttack)
	} else {
		sum.Drawn = r.applyPenaltyLocked(p.Seat, 1, penaltyTimeout)
	}
	logrus.WithFields(logrus.Fields{"room": r.Code, "seat": p.Seat}).Debug("turn timed out")
	r.beginPauseLocked(sum, true, -1)
}

// beginPauseLocked is the animation lock of every visually rendered move:
// flag the pause, broadcast the move result immediately, then hold the lock
// for the pacing duration before resuming.
func (r *Room) beginPauseLocked(sum *MoveSummary, advance bool, remaining time.Duration) {
	s := r.State
	s.ActionPaused = true
	r.tasks.cancel(taskTurn)
	r.tasks.cancel(taskThink)

	actorIsComputer := false
	if p := r.playerBySeatLocked(sum.Seat); p != nil {
		actorIsComputer = p.IsComputer
	}
	d := r.Pacing(sum, actorIsComputer)
	sum.PauseMs = d.Milliseconds()

	// The jump-in window opens on card plays only; a black card awaiting its
	// color is not a stable target to duplicate.
	if r.Rules.JumpInEnabled && sum.Card != nil && !s.WaitingForColor {
		s.JumpInOpen = true
	}

	r.sendStateToAllLocked(EventGameUpdate, sum)
	r.logMove(sum.Seat, sum.Kind, map[string]interface{}{
		"card":  cardLabel(sum.Card),
		"drawn": sum.totalDrawn(),
	})

	epoch := r.epoch
	r.tasks.arm(taskPause, d, func() { r.resumeAfterPause(epoch, advance, remaining) })
}

func cardLabel(cv *CardView) string {
	if cv == nil {
		return ""
	}
	return cv.Display
}

// resumeAfterPause releases the animation lock: advance the turn (unless a
// color choice is pending), restore any preserved turn-clock remainder, and
// notify clients that input is live again.
func (r *Room) resumeAfterPause(epoch int, advance bool, remaining time.Duration) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.epoch != epoch || r.Phase != PhaseActive || r.State == nil {
		return
	}
	s := r.State
	s.ActionPaused = false

	switch {
	case s.WaitingForColor:
		// The color-selection action resumes the clock; nothing is armed here.
		if p := r.currentPlayerLocked(); p != nil && p.IsComputer {
			e := r.epoch
			r.tasks.arm(taskColorDelay, r.thinkDelay()/2, func() { r.computerSelectColor(e) })
		}
	case advance:
		r.nextTurnLocked()
	default:
		// The same seat keeps the turn: a freshly drawn card is playable.
		if p := r.currentPlayerLocked(); p != nil && p.IsComputer {
			r.armThinkLocked()
		} else if r.Rules.TurnTimerSec > 0 {
			if remaining <= 0 {
				r.broadcastUnlockLocked()
				if p := r.currentPlayerLocked(); p != nil {
					r.handleTurnTimeoutLocked(p)
				}
				return
			}
			r.armTurnRemainingLocked(remaining)
		}
	}

	r.broadcastUnlockLocked()

	if s.JumpInOpen {
		e := r.epoch
		r.tasks.arm(taskJumpIn, r.Timing.JumpInWindow, func() { r.closeJumpInWindow(e) })
	}
}

func (r *Room) closeJumpInWindow(epoch int) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.epoch != epoch || r.State == nil {
		return
	}
	r.State.JumpInOpen = false
}

// endRoundLocked terminates the round: cancel every timer, freeze the state
// for display, and broadcast the result room-wide.
func (r *Room) endRoundLocked(winner, reason string) {
	if r.Phase != PhaseActive {
		return
	}
	r.Phase = PhaseGameOver
	r.epoch++
	r.tasks.cancelAll()
	if s := r.State; s != nil {
		s.ActionPaused = false
		s.JumpInOpen = false
		s.WaitingForColor = false
	}
	r.RematchVotes = make(map[string]bool)

	logrus.WithFields(logrus.Fields{"room": r.Code, "winner": winner, "reason": reason}).Info("round over")
	r.logMove(winner, "gameOver", map[string]interface{}{"reason": reason})

	for _, p := range r.Players {
		if p.IsComputer {
			continue
		}
		r.sendToLocked(p, Event{
			Type:   EventGameOver,
			State:  r.viewFor(p.Seat),
			Winner: winner,
			Reason: reason,
		})
	}
}

// RequestRematch casts a rematch vote. The room resets to the lobby once all
// remaining humans have voted.
func (r *Room) RequestRematch(seat string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.Phase != PhaseGameOver {
		return
	}
	p := r.playerBySeatLocked(seat)
	if p == nil || p.IsComputer {
		return
	}
	r.RematchVotes[seat] = true
	r.broadcastRematchLocked()
	r.checkRematchLocked()
}

func (r *Room) checkRematchLocked() {
	if r.Phase != PhaseGameOver {
		return
	}
	humans := 0
	for _, p := range r.Players {
		if p.IsComputer {
			continue
		}
		humans++
		if !r.RematchVotes[p.Seat] {
			return
		}
	}
	if humans == 0 {
		return
	}
	r.resetForRematchLocked()
}

// resetForRematchLocked returns the room to the lobby: computer seats are
// destroyed, the game state discarded, and everyone must ready up again.
func (r *Room) resetForRematchLocked() {
	kept := r.Players[:0]
	for _, p := range r.Players {
		if !p.IsComputer {
			p.Ready = false
			p.Hand = nil
			kept = append(kept, p)
		}
	}
	r.Players = kept
	r.State = nil
	r.Phase = PhaseLobby
	r.RematchVotes = make(map[string]bool)
	r.epoch++
	r.tasks.cancelAll()

	logrus.WithField("room", r.Code).Info("room reset for rematch")
	for _, p := range r.Players {
		r.sendToLocked(p, Event{Type: EventReturnToWaitingRoom})
	}
	r.broadcastRoomUpdateLocked()
}

// HandleDisconnect removes the seat owned by connID. A disconnect mid-round
// ends the round with no winner; the last human leaving destroys the room.
func (r *Room) HandleDisconnect(connID uuid.UUID) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	var gone *models.Player
	kept := r.Players[:0]
	for _, p := range r.Players {
		if !p.IsComputer && p.ConnID == connID {
			gone = p
			continue
		}
		kept = append(kept, p)
	}
	if gone == nil {
		return
	}
	r.Players = kept
	delete(r.RematchVotes, gone.Seat)
	logrus.WithFields(logrus.Fields{"room": r.Code, "seat": gone.Seat}).Info("player disconnected")

	if r.Phase == PhaseActive {
		r.endRoundLocked("", "playerDisconnected")
	}

	if r.humanCountLocked() == 0 {
		r.tasks.cancelAll()
		if r.OnEmpty != nil {
			r.OnEmpty(r.Code)
		}
		return
	}

	r.broadcastRoomUpdateLocked()
	if r.Phase == PhaseGameOver {
		// The leaver may have been the last holdout on a rematch vote.
		r.checkRematchLocked()
	}
}

// --- helpers, lock held ---

func (r *Room) playerBySeatLocked(seat string) *models.Player {
	for _, p := range r.Players {
		if p.Seat == seat {
			return p
		}
	}
	return nil
}

func (r *Room) seatIndexLocked(seat string) int {
	for i, p := range r.Players {
		if p.Seat == seat {
			return i
		}
	}
	return -1
}

func (r *Room) currentPlayerLocked() *models.Player {
	s := r.State
	if s == nil || s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(r.Players) {
		return nil
	}
	return r.Players[s.CurrentPlayerIndex]
}

func (r *Room) humanCountLocked() int {
	n := 0
	for _, p := range r.Players {
		if !p.IsComputer {
			n++
		}
	}
	return n
}

func (r *Room) sendToLocked(p *models.Player, ev Event) {
	if p == nil || p.IsComputer || r.Send == nil {
		return
	}
	r.Send(p, ev)
}

// sendStateToAllLocked emits one event per human seat, each carrying that
// seat's sanitized projection, in a single synchronous pass.
func (r *Room) sendStateToAllLocked(t EventType, sum *MoveSummary) {
	for _, p := range r.Players {
		if p.IsComputer {
			continue
		}
		r.sendToLocked(p, Event{Type: t, State: r.viewFor(p.Seat), Move: sum})
	}
}

func (r *Room) broadcastUnlockLocked() {
	for _, p := range r.Players {
		if p.IsComputer {
			continue
		}
		r.sendToLocked(p, Event{Type: EventUnlock, State: r.viewFor(p.Seat)})
	}
}

func (r *Room) roomInfoLocked() *RoomInfo {
	info := &RoomInfo{
		Code:     r.Code,
		Phase:    r.Phase,
		Rules:    r.Rules,
		CanStart: r.canStartLocked(),
	}
	for _, p := range r.Players {
		info.Seats = append(info.Seats, SeatInfo{
			Seat:       p.Seat,
			Name:       p.Name,
			Ready:      p.Ready,
			IsComputer: p.IsComputer,
		})
	}
	return info
}

func (r *Room) broadcastRoomUpdateLocked() {
	info := r.roomInfoLocked()
	for _, p := range r.Players {
		r.sendToLocked(p, Event{Type: EventRoomUpdate, Room: info})
	}
}

func (r *Room) broadcastRematchLocked() {
	votes := make([]string, 0, len(r.RematchVotes))
	for seat := range r.RematchVotes {
		votes = append(votes, seat)
	}
	for _, p := range r.Players {
		r.sendToLocked(p, Event{
			Type:        EventRematchUpdate,
			Votes:       votes,
			VotesNeeded: r.humanCountLocked(),
		})
	}
}

func (r *Room) sendErrorLocked(seat, msg string) {
	r.sendToLocked(r.playerBySeatLocked(seat), Event{Type: EventMoveError, Message: msg})
}

// RoomInfoSnapshot returns the roster payload for transport-level replies.
func (r *Room) RoomInfoSnapshot() *RoomInfo {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return r.roomInfoLocked()
}

// logMove records the move through the optional historian pipeline. Gameplay
// never blocks on it.
func (r *Room) logMove(seat, kind string, payload map[string]interface{}) {
	if !cache.Enabled() {
		return
	}
	rec := cache.MoveRecord{
		RoomCode:  r.Code,
		MoveIndex: r.moveIndex,
		Seat:      seat,
		Kind:      kind,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	}
	r.moveIndex++
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := cache.PublishMoveRecord(ctx, rec); err != nil {
			logrus.WithField("room", rec.RoomCode).Warnf("failed to publish move record: %v", err)
		}
	}()
}
