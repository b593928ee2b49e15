package game

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mendeleev-duel/server/internal/elem"
	"github.com/mendeleev-duel/server/internal/protocol"
	"github.com/mendeleev-duel/server/internal/statstore"
)

// Game binds exactly two players for one match, from mutual invitation
// to teardown. All mutation happens on the registry's event loop, so no
// locking is needed here.
type Game struct {
	id  uuid.UUID
	reg *Registry

	players   [2]*Player
	ready     int
	turn      int // -1 until the opening turn is decided; winner index in Celebrating
	started   time.Time
	timers    map[TimerPurpose]Timer
	destroyed bool
}

// newGame creates the match the moment the second invitation lands,
// pulls both clients out of the lobby and pushes them into element
// selection.
func newGame(reg *Registry, c1, c2 *Client) *Game {
	g := &Game{
		id:     uuid.New(),
		reg:    reg,
		turn:   -1,
		timers: make(map[TimerPurpose]Timer),
	}
	team := TeamActinoids
	if reg.coin() {
		team = TeamLanthanoids
	}
	g.players[0] = &Player{client: c1, game: g, phase: PhaseSelecting, team: team}
	g.players[1] = &Player{client: c2, game: g, phase: PhaseSelecting, team: team.Other()}

	reg.games[g.id] = g
	reg.log.Info("game created",
		zap.String("game", g.id.String()),
		zap.String("player1", c1.name),
		zap.String("team1", string(g.players[0].team)),
		zap.String("player2", c2.name),
		zap.String("team2", string(g.players[1].team)))

	// Both names leave the invitation hall together, and any pending
	// invitations they sent elsewhere die with them.
	removed := protocol.NewRefresh(protocol.RefreshRemove,
		protocol.ClientRow{Name: c1.name}, protocol.ClientRow{Name: c2.name})
	reg.broadcastHall(removed, c1, c2)
	for _, c := range reg.clients {
		if c != c1 && c != c2 {
			c.removeInviter(c1)
			c.removeInviter(c2)
		}
	}

	c1.initGame(g.players[0])
	c2.initGame(g.players[1])
	reg.obs.GameCreated(g)
	return g
}

func (g *Game) ID() uuid.UUID       { return g.id }
func (g *Game) Players() [2]*Player { return g.players }

// hasTurn reports whether p holds the move right. In Celebrating the
// "turn" is repurposed to mark the winner.
func (g *Game) hasTurn(p *Player) bool {
	return g.turn >= 0 && g.players[g.turn] == p
}

func (g *Game) winner() *Player {
	if g.turn < 0 {
		return nil
	}
	return g.players[g.turn]
}

// opponent is identity-based so it stays correct after one slot has
// been released.
func (g *Game) opponent(p *Player) *Player {
	if g.players[0] == p {
		return g.players[1]
	}
	if g.players[1] == p {
		return g.players[0]
	}
	return nil
}

func (g *Game) index(p *Player) int {
	for i, q := range g.players {
		if q == p {
			return i
		}
	}
	return -1
}

// playerReady counts verified diagrams. The second one arms the
// match-start delay exactly once.
func (g *Game) playerReady() {
	g.ready++
	if g.ready == 2 {
		g.arm(TimerMatchStart, g.reg.timing.PreparingDelay, g.startMatch)
	}
}

// startMatch fires at the end of the preparing delay. Both sides are
// revalidated because a resignation or teardown may have raced the
// timer. The opening move goes to the side that is online when exactly
// one is, otherwise to a coin flip.
func (g *Game) startMatch() {
	if g.destroyed {
		return
	}
	for _, p := range g.players {
		if p == nil || p.phase != PhasePreparing || !p.diagramOK {
			return
		}
	}

	g.started = time.Now()
	for _, p := range g.players {
		p.phase = PhaseMatching
		p.shots = &elem.Config{}
	}

	on0 := g.players[0].client.Online()
	on1 := g.players[1].client.Online()
	switch {
	case on0 && !on1:
		g.turn = 0
	case on1 && !on0:
		g.turn = 1
	default:
		if g.reg.coin() {
			g.turn = 0
		} else {
			g.turn = 1
		}
	}
	g.ready = 0

	g.reg.log.Info("match started",
		zap.String("game", g.id.String()),
		zap.String("first", g.players[g.turn].client.name))

	for _, p := range g.players {
		p.client.syncState()
		g.reg.obs.ClientUpdated(p.client)
	}
	g.checkAbandoned()
}

// nextMove passes the move right to the other side.
func (g *Game) nextMove() {
	g.turn = 1 - g.turn
	for _, p := range g.players {
		p.client.syncState()
	}
}

// finish declares the winner, moves both players to Celebrating and
// arms the celebration window after which the loser is released
// regardless of the winner's confirmation.
func (g *Game) finish(w *Player) {
	op := g.opponent(w)

	g.turn = g.index(w)
	for _, p := range g.players {
		p.phase = PhaseCelebrating
	}
	w.client.wins++
	op.client.losses++

	g.reg.log.Info("game finished",
		zap.String("game", g.id.String()),
		zap.String("winner", w.client.name), zap.String("loser", op.client.name))

	duration := time.Duration(0)
	if !g.started.IsZero() {
		duration = time.Since(g.started)
	}
	g.reg.rec.Record(statstore.Match{
		GameID:        g.id.String(),
		Winner:        w.client.name,
		Loser:         op.client.name,
		WinnerElement: elementNumber(w.element),
		LoserElement:  elementNumber(op.element),
		WinnerShots:   w.ShotCount(),
		LoserShots:    op.ShotCount(),
		Duration:      duration,
		FinishedAt:    time.Now(),
	})

	g.cancelTimer(TimerAbandon)
	g.arm(TimerCelebration, g.reg.timing.CelebrationWait, g.releaseLoser)

	for _, p := range g.players {
		p.client.syncState()
		g.reg.obs.ClientUpdated(p.client)
	}
}

// releaseLoser fires when the celebration window closes without the
// winner confirming. The loser goes back to the lobby; the winner stays
// in Celebrating until endGame or their own teardown path.
func (g *Game) releaseLoser() {
	if g.destroyed {
		return
	}
	w := g.winner()
	if w == nil {
		return
	}
	if op := g.opponent(w); op != nil {
		g.release(op)
	}
}

// release detaches one player from the game; the last one out destroys
// the game itself.
func (g *Game) release(p *Player) {
	i := g.index(p)
	if i < 0 {
		return
	}
	g.players[i] = nil
	p.game = nil
	if c := p.client; c != nil {
		p.client = nil
		c.finishMatch()
	}

	if g.players[0] == nil && g.players[1] == nil {
		g.destroy()
	}
}

// destroy tears the whole game down at once: timers cancelled, both
// clients returned to the lobby, the arena entry removed. Idempotent.
func (g *Game) destroy() {
	if g.destroyed {
		return
	}
	g.destroyed = true

	for purpose, t := range g.timers {
		t.Stop()
		delete(g.timers, purpose)
	}
	for i, p := range g.players {
		if p == nil {
			continue
		}
		g.players[i] = nil
		p.game = nil
		if c := p.client; c != nil {
			p.client = nil
			c.finishMatch()
		}
	}

	delete(g.reg.games, g.id)
	g.reg.obs.GameRemoved(g.id)
	g.reg.log.Info("game destroyed", zap.String("game", g.id.String()))
}

// checkAbandoned arms the self-destruct when both sides are offline.
// The state is revalidated when the timer fires because either side may
// have come back in the meantime.
func (g *Game) checkAbandoned() {
	if g.bothOffline() {
		g.arm(TimerAbandon, g.reg.timing.DestructionWait, func() {
			if !g.destroyed && g.bothOffline() {
				g.reg.log.Info("game abandoned", zap.String("game", g.id.String()))
				g.destroy()
			}
		})
	}
}

func (g *Game) bothOffline() bool {
	for _, p := range g.players {
		if p != nil && p.client != nil && p.client.Online() {
			return false
		}
	}
	return true
}

// arm replaces any pending timer of the same purpose. The fire wrapper
// checks that it is still the current timer: a stale fire that lost a
// Stop race must not act for its replacement.
func (g *Game) arm(purpose TimerPurpose, d time.Duration, fn func()) {
	g.cancelTimer(purpose)
	var t Timer
	t = g.reg.sched.After(d, func() {
		if g.timers[purpose] != t {
			return
		}
		delete(g.timers, purpose)
		fn()
	})
	g.timers[purpose] = t
}

func (g *Game) cancelTimer(purpose TimerPurpose) {
	if t, ok := g.timers[purpose]; ok {
		t.Stop()
		delete(g.timers, purpose)
	}
}

func elementNumber(e *elem.Element) int {
	if e == nil {
		return 0
	}
	return e.Number
}
