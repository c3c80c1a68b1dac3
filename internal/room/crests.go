package room

import (
	"time"

	"github.com/hexbrawl/server/internal/game"
	"github.com/hexbrawl/server/internal/protocol"
)

// startMajorCrest deals every active player three major-crest choices and
// arms the selection timer. Combat and results are skipped this round.
func (r *Room) startMajorCrest() {
	majors := r.cat.MajorCrests()
	for _, p := range r.activePlayers() {
		if p.MajorCrest != "" {
			continue
		}
		perm := r.rng.Perm(len(majors))
		n := 3
		if n > len(majors) {
			n = len(majors)
		}
		choices := make([]string, 0, n)
		for _, i := range perm[:n] {
			choices = append(choices, majors[i].ID)
		}
		p.PendingMajorChoice = choices
		if p.Connected {
			r.sender.Send(p.ID, protocol.MajorCrestStart{
				Type:    protocol.FrameMajorCrestStart,
				Options: choices,
				Timer:   MajorCrestSeconds,
			})
		}
	}
	r.schedule(MajorCrestSeconds*time.Second, r.finishMajorCrest)
}

// handleSelectMajorCrest resolves a player's pick from their dealt
// choices.
func (r *Room) handleSelectMajorCrest(p *game.Player, crestID string) error {
	if p.PendingMajorChoice == nil {
		return game.ErrNoPendingChoice
	}
	found := false
	for _, id := range p.PendingMajorChoice {
		if id == crestID {
			found = true
			break
		}
	}
	if !found {
		return game.ErrInvalidChoice
	}
	p.MajorCrest = crestID
	p.PendingMajorChoice = nil
	r.broadcast(protocol.MajorCrestSelect{
		Type:     protocol.FrameMajorCrestSelect,
		PlayerID: p.ID,
		CrestID:  crestID,
	})

	for _, other := range r.activePlayers() {
		if other.PendingMajorChoice != nil {
			return nil
		}
	}
	r.finishMajorCrest()
	return nil
}

// finishMajorCrest auto-assigns a random option to anyone who has not
// chosen, then advances to the next round.
func (r *Room) finishMajorCrest() {
	for _, p := range r.activePlayers() {
		if p.PendingMajorChoice == nil {
			continue
		}
		choices := p.PendingMajorChoice
		p.MajorCrest = choices[r.rng.Intn(len(choices))]
		p.PendingMajorChoice = nil
		r.broadcast(protocol.MajorCrestSelect{
			Type:     protocol.FrameMajorCrestSelect,
			PlayerID: p.ID,
			CrestID:  p.MajorCrest,
		})
	}
	r.broadcast(protocol.MajorCrestEnd{Type: protocol.FrameMajorCrestEnd})
	r.broadcastState()
	if r.checkGameOver() {
		return
	}
	r.startRound(r.round + 1)
}
