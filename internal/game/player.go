package game

import (
	"go.uber.org/zap"

	"github.com/mendeleev-duel/server/internal/elem"
	"github.com/mendeleev-duel/server/internal/protocol"
)

// Player is one side's in-match state for the duration of exactly one
// game. It is created and destroyed only by its Game; the Client and
// Player point at each other while the match lasts and are unwired at
// teardown.
type Player struct {
	client *Client
	game   *Game

	phase     Phase
	team      Team
	element   *elem.Element
	diagram   *elem.Config
	diagramOK bool
	shots     *elem.Config
}

func (p *Player) Client() *Client        { return p.client }
func (p *Player) Game() *Game            { return p.game }
func (p *Player) Phase() Phase           { return p.phase }
func (p *Player) Team() Team             { return p.team }
func (p *Player) Element() *elem.Element { return p.element }
func (p *Player) DiagramChecked() bool   { return p.diagramOK }

// HasTurn reports whether this player currently holds the move right
// (or, in Celebrating, is the declared winner).
func (p *Player) HasTurn() bool { return p.game.hasTurn(p) }

// ShotCount is how many spins this player has fired at the opponent.
func (p *Player) ShotCount() int {
	if p.shots == nil {
		return 0
	}
	return p.shots.Count()
}

// stateMessage builds the full per-viewer state push. The viewer's own
// diagram is shown in full (merged with the opponent's shots so their
// hits and misses render on it); the opponent's diagram is always
// merged through the viewer's own shots once any exist. The opponent's
// element appears only in Celebrating.
func (p *Player) stateMessage() protocol.StateMessage {
	op := p.game.opponent(p)

	msg := protocol.StateMessage{
		Type:         protocol.TypeChangeState,
		Phase:        string(p.phase),
		Team:         string(p.team),
		Element:      protocol.ElementOf(p.element),
		DiagramCheck: p.diagramOK,
		RightMove:    p.game.hasTurn(p),
	}

	if p.diagram != nil {
		if op != nil && op.shots != nil {
			msg.Diagram = spinStates(elem.DiagramState(*p.diagram, *op.shots))
		} else {
			msg.Diagram = spinStates(p.diagram.States())
		}
	}
	if op != nil && op.diagram != nil {
		if p.shots != nil {
			msg.OpDiagram = spinStates(elem.DiagramState(*op.diagram, *p.shots))
		} else {
			msg.OpDiagram = spinStates(op.diagram.States())
		}
	}
	if p.phase == PhaseCelebrating && op != nil {
		msg.OpElement = protocol.ElementOf(op.element)
	}
	return msg
}

// VisibleDiagram is the observer-safe view of this player's board:
// full once the match reached Celebrating, otherwise only the cells
// the opponent has already uncovered by shooting.
func (p *Player) VisibleDiagram() []elem.SpinState {
	if p.diagram == nil {
		return nil
	}

	var shots elem.Config
	if op := p.game.opponent(p); op != nil && op.shots != nil {
		shots = *op.shots
	}
	if p.phase == PhaseCelebrating {
		return spinStates(elem.DiagramState(*p.diagram, shots))
	}

	var uncovered elem.Config
	for spin := 1; spin <= elem.Spins; spin++ {
		if shots.Test(spin) && p.diagram.Test(spin) {
			uncovered.Set(spin, true)
		}
	}
	return spinStates(elem.DiagramState(uncovered, shots))
}

// OnElemSelection moves the player from SelectingElement to Preparing
// once a valid, not-yet-chosen catalogue entry is picked.
func (p *Player) OnElemSelection(number int) {
	if p.phase != PhaseSelecting {
		p.cheat("elemSelection", ErrWrongPhase)
		return
	}
	if p.element != nil {
		p.cheat("elemSelection", ErrElementChosen)
		return
	}
	entry := elem.ByNumber(number)
	if entry == nil {
		p.cheat("elemSelection", ErrOutOfRange)
		return
	}

	p.element = entry
	p.phase = PhasePreparing
	p.diagram = &elem.Config{}

	p.log().Info("element selected",
		zap.Int("number", entry.Number), zap.String("symbol", entry.Symbol))
	p.client.syncState()
	p.game.reg.obs.ClientUpdated(p.client)
}

// OnCheckConfig verifies a submitted diagram bit-for-bit against the
// player's own secret element. Equality marks the player ready; when
// both sides are ready the match-start timer is armed.
func (p *Player) OnCheckConfig(words [4]uint32) {
	if p.phase != PhasePreparing {
		p.cheat("checkConfig", ErrWrongPhase)
		p.client.send(protocol.AckMessage{Type: protocol.TypeCheckResult})
		return
	}

	cfg := elem.NewConfig(words[0], words[1], words[2], words[3])
	if words[0] == 0 {
		// Every element occupies spin 1, so a zero first word means a
		// malformed payload rather than a wrong answer.
		p.cheat("checkConfig", ErrBadPayload)
		p.client.send(protocol.AckMessage{Type: protocol.TypeCheckResult})
		return
	}

	p.diagram = &cfg

	if !elem.Equal(cfg, p.element.Config) {
		p.log().Info("diagram check failed", zap.Error(ErrDiagramMismatch))
		p.client.send(protocol.AckMessage{Type: protocol.TypeCheckResult})
		return
	}

	p.client.send(protocol.AckMessage{Type: protocol.TypeCheckResult, OK: true})
	if !p.diagramOK {
		p.diagramOK = true
		p.log().Info("diagram verified")
		p.game.playerReady()
	}
	p.game.reg.obs.ClientUpdated(p.client)
}

// OnShot fires one spin at the opponent's hidden diagram. Only the
// turn holder may shoot; a successful shot records the spin, informs
// the opponent, and passes the turn.
func (p *Player) OnShot(spin int) {
	deny := func(err error) {
		p.cheat("shot", err)
		p.client.send(protocol.AckMessage{Type: protocol.TypeShotResult, Spin: spin})
	}

	if p.phase != PhaseMatching {
		deny(ErrWrongPhase)
		return
	}
	if !p.game.hasTurn(p) {
		deny(ErrWrongTurn)
		return
	}
	if spin < 1 || spin > elem.Spins {
		deny(ErrOutOfRange)
		return
	}
	if p.shots.Test(spin) {
		deny(ErrSpinRepeated)
		return
	}

	op := p.game.opponent(p)
	hit := op.element.Config.Test(spin)
	p.shots.Set(spin, true)

	p.log().Info("shot", zap.Int("spin", spin), zap.Bool("hit", hit))

	op.client.send(protocol.ShotMessage{Type: protocol.TypeShot, Spin: spin})
	p.game.nextMove()
	p.client.send(protocol.AckMessage{
		Type: protocol.TypeShotResult, OK: true, Spin: spin, Hit: hit,
	})

	p.game.reg.obs.ClientUpdated(p.client)
	p.game.reg.obs.ClientUpdated(op.client)
}

// OnNameElement is the endgame call: guessing the opponent's secret
// element wins, guessing wrong hands the win to the opponent.
func (p *Player) OnNameElement(number int) {
	if p.phase != PhaseMatching {
		p.cheat("nameElement", ErrWrongPhase)
		return
	}
	if !p.game.hasTurn(p) {
		p.cheat("nameElement", ErrWrongTurn)
		return
	}
	if number < 1 || number > elem.Spins {
		p.cheat("nameElement", ErrOutOfRange)
		return
	}

	op := p.game.opponent(p)
	guessed := op.element.Number == number
	p.log().Info("names the element",
		zap.Int("number", number), zap.Bool("guessed", guessed))

	if guessed {
		p.game.finish(p)
	} else {
		p.game.finish(op)
	}
}

// OnEndGame lets the declared winner confirm teardown.
func (p *Player) OnEndGame() {
	if p.phase != PhaseCelebrating {
		p.cheat("endGame", ErrWrongPhase)
		return
	}
	if p.game.winner() != p {
		p.cheat("endGame", ErrNotWinner)
		return
	}

	p.log().Info("winner confirmed the end of game")
	g := p.game
	if op := g.opponent(p); op != nil {
		g.release(op)
	}
	g.release(p)
}

// OnFlyAway is resignation: the opponent wins on the spot if reachable,
// otherwise there is nobody to declare a winner against and the game
// is destroyed immediately.
func (p *Player) OnFlyAway() {
	if p.phase == PhaseCelebrating {
		p.cheat("flyAway", ErrWrongPhase)
		return
	}

	op := p.game.opponent(p)
	if op != nil && op.client != nil && op.client.Online() {
		p.log().Info("resigned")
		p.game.finish(op)
	} else {
		p.log().Info("abandoned with opponent offline, destroying game")
		p.game.destroy()
	}
}

// OnDisconnect treats the drop as transient: the opponent is told, and
// the game decides whether to arm its self-destruct timer.
func (p *Player) OnDisconnect() {
	if op := p.game.opponent(p); op != nil && op.client != nil && op.client.Online() {
		op.client.send(protocol.ConnectionMessage{Type: protocol.TypeOpponentConnection})
	}
	p.game.checkAbandoned()
}

// OnReconnection resumes a match after the session was rebound:
// cancels the pending self-destruct, tells both sides about each
// other's connectivity, and resyncs this side's full state.
func (p *Player) OnReconnection() {
	g := p.game
	g.cancelTimer(TimerAbandon)

	if op := g.opponent(p); op != nil && op.client != nil && op.client.Online() {
		op.client.send(protocol.ConnectionMessage{
			Type: protocol.TypeOpponentConnection, Connected: true,
		})
	} else {
		p.client.send(protocol.ConnectionMessage{Type: protocol.TypeOpponentConnection})
	}
	p.client.syncState()
}

func (p *Player) cheat(handler string, err error) {
	if p.client != nil {
		p.client.cheat(handler, err)
	}
}

func (p *Player) log() *zap.Logger {
	l := p.game.reg.log
	if p.client != nil {
		return l.With(zap.String("client", p.client.name))
	}
	return l
}

func spinStates(a [elem.Spins]elem.SpinState) []elem.SpinState {
	out := make([]elem.SpinState, elem.Spins)
	copy(out, a[:])
	return out
}
