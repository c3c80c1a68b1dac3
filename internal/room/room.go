// Package room implements the per-room game runtime: the phase state
// machine, its timers, matchup generation and combat dispatch, and the
// merchant and crest rounds. Each room runs one goroutine draining a
// mailbox; every mutation of room state happens on that goroutine, so the
// package uses no locks. Scheduled callbacks capture the phase generation
// current at scheduling time and no-op once it has moved on.
package room

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hexbrawl/server/internal/catalog"
	"github.com/hexbrawl/server/internal/game"
	"github.com/hexbrawl/server/internal/protocol"
	"github.com/hexbrawl/server/internal/repository"
)

// Phase names the states of the room machine.
type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhasePlanning Phase = "planning"
	PhaseCombat   Phase = "combat"
	PhaseResults  Phase = "results"
	PhaseGameOver Phase = "gameOver"
)

// Phase timer durations.
const (
	PlanningSeconds         = 20
	PlanningPvEIntroSeconds = 5
	PlanningMerchantSeconds = 30 // informational; the merchant drives its own timers
	ResultsSeconds          = 3
	CombatExtraSeconds      = 2
	MajorCrestSeconds       = 20
)

// Sender delivers outbound frames to connected clients. Implemented by the
// session router; sends must never block.
type Sender interface {
	Send(clientID string, frame any)
}

// Room is one game room. All fields below the mailbox are owned by the
// room goroutine.
type Room struct {
	Code string

	mailbox   chan func()
	stopped   chan struct{}
	closeOnce sync.Once
	onEmpty   func(*Room)

	cat    *catalog.Catalog
	rng    *rand.Rand
	sender Sender
	sink   repository.ResultSink
	board  repository.Leaderboard
	log    zerolog.Logger

	phase      Phase
	round      int
	generation int
	timers     map[int]*time.Timer
	timerSeq   int

	players   []*game.Player
	hostID    string
	pool      *game.Pool
	attuned   catalog.Element
	lastHost  map[[2]string]string
	merchant  *merchantRound
	results   []MatchupView
	startedAt time.Time
}

// Options carries the optional collaborators of a room.
type Options struct {
	Seed        int64 // 0 means time-derived
	Sink        repository.ResultSink
	Leaderboard repository.Leaderboard
	OnEmpty     func(*Room)
}

// New creates a room and starts its goroutine.
func New(code string, cat *catalog.Catalog, sender Sender, opts Options) *Room {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sink := opts.Sink
	if sink == nil {
		sink = repository.NoopSink{}
	}
	board := opts.Leaderboard
	if board == nil {
		board = repository.NoopLeaderboard{}
	}
	r := &Room{
		Code:     code,
		mailbox:  make(chan func(), 64),
		stopped:  make(chan struct{}),
		onEmpty:  opts.OnEmpty,
		cat:      cat,
		rng:      rand.New(rand.NewSource(seed)),
		sender:   sender,
		sink:     sink,
		board:    board,
		log:      log.With().Str("roomCode", code).Logger(),
		phase:    PhaseWaiting,
		timers:   make(map[int]*time.Timer),
		lastHost: make(map[[2]string]string),
	}
	go r.run()
	return r
}

func (r *Room) run() {
	for {
		select {
		case fn := <-r.mailbox:
			fn()
		case <-r.stopped:
			r.cancelTimers()
			return
		}
	}
}

// Post queues work onto the room goroutine. Posts to a closed room are
// dropped.
func (r *Room) Post(fn func()) {
	select {
	case r.mailbox <- fn:
	case <-r.stopped:
	}
}

// Do runs fn on the room goroutine and waits for it. Never call from the
// room goroutine itself.
func (r *Room) Do(fn func()) {
	done := make(chan struct{})
	r.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
	case <-r.stopped:
	}
}

// Close stops the room goroutine and cancels every timer. Idempotent.
func (r *Room) Close() {
	r.closeOnce.Do(func() { close(r.stopped) })
}

// schedule arms a timer that fires fn on the room goroutine, guarded by
// the phase generation captured now. Cancellation is best-effort; the
// generation check is the correctness guarantee.
func (r *Room) schedule(d time.Duration, fn func()) {
	gen := r.generation
	seq := r.timerSeq
	r.timerSeq++
	t := time.AfterFunc(d, func() {
		r.Post(func() {
			delete(r.timers, seq)
			if r.generation != gen {
				return
			}
			fn()
		})
	})
	r.timers[seq] = t
}

// bumpGeneration invalidates every outstanding scheduled callback. Called
// on every phase or round transition.
func (r *Room) bumpGeneration() {
	r.generation++
	r.cancelTimers()
}

func (r *Room) cancelTimers() {
	for seq, t := range r.timers {
		t.Stop()
		delete(r.timers, seq)
	}
}

// Generation exposes the phase generation counter for tests.
func (r *Room) Generation() int { return r.generation }

// PhaseNow returns the current phase. Call via Do from outside the room
// goroutine.
func (r *Room) PhaseNow() Phase { return r.phase }

// Round returns the current 1-based round number.
func (r *Room) Round() int { return r.round }

func (r *Room) findPlayer(clientID string) *game.Player {
	for _, p := range r.players {
		if p.ID == clientID {
			return p
		}
	}
	return nil
}

// activePlayers returns the non-eliminated seats in slot order.
func (r *Room) activePlayers() []*game.Player {
	var out []*game.Player
	for _, p := range r.players {
		if !p.Eliminated {
			out = append(out, p)
		}
	}
	return out
}

func (r *Room) broadcast(frame any) {
	for _, p := range r.players {
		if p.Connected {
			r.sender.Send(p.ID, frame)
		}
	}
}

func (r *Room) broadcastState() {
	r.broadcast(protocol.GameState{Type: protocol.FrameGameState, State: r.stateView()})
}

func (r *Room) sendError(clientID, message string) {
	r.sender.Send(clientID, protocol.ErrorFrame(message))
}

// Join seats a client. Fails when the room is full or a game is running.
func (r *Room) Join(clientID, name string) error {
	if r.phase != PhaseWaiting {
		return ErrGameInProgress
	}
	if len(r.players) >= catalog.MaxPlayers {
		return ErrRoomFull
	}
	slot := r.freeSlot()
	p := game.NewPlayer(clientID, name, slot)
	r.players = append(r.players, p)
	if r.hostID == "" {
		r.hostID = clientID
	}
	r.log.Info().Str("clientId", clientID).Str("name", name).Int("slot", slot).Msg("Player joined")

	for _, other := range r.players {
		if other.ID != clientID && other.Connected {
			r.sender.Send(other.ID, protocol.PlayerJoined{Type: protocol.FramePlayerJoined, Player: playerSummary(p)})
		}
	}
	r.sender.Send(clientID, protocol.RoomJoined{
		Type:    protocol.FrameRoomJoined,
		RoomID:  r.Code,
		HostID:  r.hostID,
		Players: r.playerSummaries(),
	})
	return nil
}

func (r *Room) freeSlot() int {
	used := make(map[int]bool, len(r.players))
	for _, p := range r.players {
		used[p.Slot] = true
	}
	for slot := 0; slot < catalog.MaxPlayers; slot++ {
		if !used[slot] {
			return slot
		}
	}
	return len(r.players)
}

// Leave removes a seat. Mid-game the player's units flow back to the pool
// and elimination checks run.
func (r *Room) Leave(clientID string) {
	p := r.findPlayer(clientID)
	if p == nil {
		return
	}
	for i, seat := range r.players {
		if seat.ID == clientID {
			r.players = append(r.players[:i], r.players[i+1:]...)
			break
		}
	}
	r.log.Info().Str("clientId", clientID).Msg("Player left")

	if r.phase != PhaseWaiting && r.phase != PhaseGameOver && r.pool != nil {
		p.ReturnAllToPool(r.pool)
	}
	if r.merchant != nil && !r.merchant.done {
		r.merchantSkipIfPicking(clientID)
	}
	r.broadcast(protocol.PlayerLeft{Type: protocol.FramePlayerLeft, PlayerID: clientID})

	if len(r.players) == 0 {
		r.deleteSelf()
		return
	}
	if r.hostID == clientID {
		r.hostID = r.players[0].ID
		r.broadcast(protocol.BecameHost{Type: protocol.FrameBecameHost, HostID: r.hostID})
	}
	if r.phase != PhaseWaiting && r.phase != PhaseGameOver {
		r.checkGameOver()
	}
}

// Disconnect marks a seat unreachable. In the lobby the seat is freed; in
// a running game it is kept for a possible resume.
func (r *Room) Disconnect(clientID string) {
	p := r.findPlayer(clientID)
	if p == nil {
		return
	}
	if r.phase == PhaseWaiting {
		r.Leave(clientID)
		return
	}
	p.Connected = false
	p.Ready = false
	r.log.Info().Str("clientId", clientID).Msg("Player disconnected mid-game")

	if r.merchant != nil && !r.merchant.done {
		r.merchantSkipIfPicking(clientID)
	}
	r.maybeAdvancePlanning()

	for _, seat := range r.players {
		if seat.Connected {
			return
		}
	}
	// Nobody left listening.
	r.deleteSelf()
}

// Reconnect reattaches a resumed client to its seat.
func (r *Room) Reconnect(clientID string) bool {
	p := r.findPlayer(clientID)
	if p == nil {
		return false
	}
	p.Connected = true
	r.log.Info().Str("clientId", clientID).Msg("Player reconnected")
	r.sender.Send(clientID, protocol.GameState{Type: protocol.FrameGameState, State: r.stateView()})
	return true
}

func (r *Room) deleteSelf() {
	r.bumpGeneration()
	if r.onEmpty != nil {
		r.onEmpty(r)
	}
	r.Close()
}

// SetReady records a ready toggle: in the lobby it gates game start, in
// planning it gates the early phase exit.
func (r *Room) SetReady(clientID string, ready bool) {
	p := r.findPlayer(clientID)
	if p == nil {
		return
	}
	p.Ready = ready
	r.broadcast(protocol.PlayerReady{Type: protocol.FramePlayerReady, PlayerID: clientID, Ready: ready})

	switch r.phase {
	case PhaseWaiting:
		if ready && len(r.players) >= 2 && r.allReady() {
			r.startGame()
		}
	case PhasePlanning:
		r.maybeAdvancePlanning()
	}
}

func (r *Room) allReady() bool {
	for _, p := range r.players {
		if p.Connected && !p.Ready {
			return false
		}
	}
	return true
}

// maybeAdvancePlanning exits planning early once every connected active
// player is ready. Merchant and crest rounds drive their own advancement.
func (r *Room) maybeAdvancePlanning() {
	if r.phase != PhasePlanning {
		return
	}
	rt := catalog.RoundTypeAt(r.round)
	if rt == catalog.RoundMerchant || rt == catalog.RoundMajorCrest {
		return
	}
	any := false
	for _, p := range r.activePlayers() {
		if !p.Connected {
			continue
		}
		any = true
		if !p.Ready {
			return
		}
	}
	if any {
		r.enterCombat()
	}
}

// Chat relays a chat line to the whole room.
func (r *Room) Chat(clientID, message string) {
	p := r.findPlayer(clientID)
	if p == nil || message == "" {
		return
	}
	r.broadcast(protocol.Chat{Type: protocol.FrameChat, PlayerID: clientID, Name: p.Name, Message: message})
}

// startGame resets every seat, builds the shared pool, rolls the attuned
// element, grants each player a starting one-cost unit, and opens round 1.
func (r *Room) startGame() {
	r.phase = PhasePlanning
	r.startedAt = time.Now()
	r.pool = game.NewPool(r.cat, r.rng)
	r.attuned = catalog.AttunableElements[r.rng.Intn(len(catalog.AttunableElements))]
	r.lastHost = make(map[[2]string]string)
	r.log.Info().Int("players", len(r.players)).Str("attuned", string(r.attuned)).Msg("Game starting")

	ones := r.cat.UnitsOfCost(1)
	for _, p := range r.players {
		p.ResetForGame()
		starter := ones[r.rng.Intn(len(ones))]
		p.GrantUnit(r.cat, r.pool, starter.ID)
	}
	r.broadcast(protocol.GameStart{Type: protocol.FrameGameStart})
	r.startRound(1)
}

// startRound opens the planning phase of a round: merge sweep, income,
// passive XP, shop refresh, and the round-type specific machinery.
func (r *Room) startRound(round int) {
	r.bumpGeneration()
	r.round = round
	r.phase = PhasePlanning
	r.merchant = nil
	r.results = nil
	rt := catalog.RoundTypeAt(round)
	special := rt == catalog.RoundMerchant || rt == catalog.RoundMajorCrest
	r.log.Info().Int("round", round).Str("roundType", string(rt)).Msg("Round starting")

	for _, p := range r.activePlayers() {
		p.Ready = false
		p.MergeSweep()
		if round > 1 {
			p.Income()
		}
		if !special {
			p.AddXP(1)
		}
		if !p.ShopLocked {
			p.RefreshShop(r.pool)
		}
	}

	r.broadcast(protocol.RoundStart{Type: protocol.FrameRoundStart, Round: round, RoundType: string(rt)})
	r.broadcast(protocol.PhaseUpdate{
		Type:  protocol.FramePhaseUpdate,
		Phase: string(PhasePlanning),
		Timer: r.planningSeconds(rt),
		Round: round,
	})
	r.broadcastState()

	switch rt {
	case catalog.RoundMerchant:
		r.startMerchant()
	case catalog.RoundMajorCrest:
		r.startMajorCrest()
	case catalog.RoundPvEIntro:
		r.schedule(PlanningPvEIntroSeconds*time.Second, r.enterCombat)
	default:
		r.schedule(PlanningSeconds*time.Second, r.enterCombat)
	}
}

func (r *Room) planningSeconds(rt catalog.RoundType) float64 {
	switch rt {
	case catalog.RoundPvEIntro:
		return PlanningPvEIntroSeconds
	case catalog.RoundMerchant:
		return PlanningMerchantSeconds
	case catalog.RoundMajorCrest:
		return MajorCrestSeconds
	default:
		return PlanningSeconds
	}
}

// enterResults closes the combat window: broadcast results, check
// eliminations and the round cap, then schedule the next round.
func (r *Room) enterResults() {
	r.bumpGeneration()
	r.phase = PhaseResults
	r.broadcast(protocol.CombatEnd{Type: protocol.FrameCombatEnd, Round: r.round, Results: r.results})
	r.broadcast(protocol.PhaseUpdate{
		Type:  protocol.FramePhaseUpdate,
		Phase: string(PhaseResults),
		Timer: ResultsSeconds,
		Round: r.round,
	})
	r.broadcastState()

	if r.checkGameOver() {
		return
	}
	if r.round >= catalog.RoundCap {
		r.endGame(r.healthiestPlayer())
		return
	}
	next := r.round + 1
	r.schedule(ResultsSeconds*time.Second, func() { r.startRound(next) })
}

// checkGameOver ends the game once at most one active player remains.
func (r *Room) checkGameOver() bool {
	active := r.activePlayers()
	if len(active) > 1 {
		return false
	}
	var winner *game.Player
	if len(active) == 1 {
		winner = active[0]
	}
	r.endGame(winner)
	return true
}

func (r *Room) healthiestPlayer() *game.Player {
	var best *game.Player
	for _, p := range r.activePlayers() {
		if best == nil || p.Health > best.Health || (p.Health == best.Health && p.Slot < best.Slot) {
			best = p
		}
	}
	return best
}

func (r *Room) endGame(winner *game.Player) {
	r.bumpGeneration()
	r.phase = PhaseGameOver
	winnerID, winnerName := "", ""
	if winner != nil {
		winnerID, winnerName = winner.ID, winner.Name
	}
	r.log.Info().Str("winnerId", winnerID).Int("rounds", r.round).Msg("Game over")
	r.broadcast(protocol.GameEnd{Type: protocol.FrameGameEnd, WinnerID: winnerID, WinnerName: winnerName})
	r.broadcastState()
	r.reportResult(winner)
}

// reportResult ships the finished game to the optional stores without
// blocking the room goroutine.
func (r *Room) reportResult(winner *game.Player) {
	result := repository.MatchResult{
		RoomCode:  r.Code,
		Rounds:    r.round,
		StartedAt: r.startedAt,
		EndedAt:   time.Now(),
	}
	if winner != nil {
		result.WinnerID = winner.ID
		result.WinnerName = winner.Name
	}
	placement := 1
	for _, p := range r.players {
		place := placement
		if p.Eliminated {
			place = len(r.players)
		}
		result.Players = append(result.Players, repository.MatchPlayer{
			PlayerID:  p.ID,
			Name:      p.Name,
			Placement: place,
			Health:    p.Health,
		})
	}
	sink, board := r.sink, r.board
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := sink.RecordMatch(ctx, result); err != nil {
			log.Error().Err(err).Str("roomCode", result.RoomCode).Msg("Match archive write failed")
		}
		if err := board.RecordResult(ctx, result); err != nil {
			log.Error().Err(err).Str("roomCode", result.RoomCode).Msg("Leaderboard write failed")
		}
		if result.WinnerName != "" {
			if err := board.RecordWin(ctx, result.WinnerName); err != nil {
				log.Error().Err(err).Str("roomCode", result.RoomCode).Msg("Leaderboard win write failed")
			}
		}
	}()
}
