package game

import (
	"time"

	"go.uber.org/zap"

	"github.com/mendeleev-duel/server/internal/protocol"
)

// Client is one registered, uniquely-named participant identity. It
// outlives any single connection: the session handle is nil while the
// client is disconnected, and the identity stays in the registry so
// the same name can reattach and resume.
type Client struct {
	name     string
	session  Session
	inviters map[*Client]struct{}
	player   *Player
	reg      *Registry

	// offlineSince is set on disconnect and cleared on reattach; the
	// registry sweep leaves the identity alone until it ages past the
	// retention window.
	offlineSince time.Time

	wins   int
	losses int
}

func (c *Client) Name() string    { return c.name }
func (c *Client) Online() bool    { return c.session != nil }
func (c *Client) InMatch() bool   { return c.player != nil }
func (c *Client) Player() *Player { return c.player }
func (c *Client) Wins() int       { return c.wins }
func (c *Client) Losses() int     { return c.losses }

func (c *Client) send(msg any) {
	if c.session != nil {
		c.session.Send(msg)
	}
}

func (c *Client) row() protocol.ClientRow {
	return protocol.ClientRow{Name: c.name}
}

func (c *Client) removeInviter(inviter *Client) {
	delete(c.inviters, inviter)
}

// stateMessage is the client's current full state, per-viewer filtered
// when in a match.
func (c *Client) stateMessage() protocol.StateMessage {
	if c.player == nil {
		return protocol.StateMessage{Type: protocol.TypeChangeState, Phase: string(PhaseLobby)}
	}
	return c.player.stateMessage()
}

// syncState re-broadcasts the client's own state to its session, so a
// desynchronized client self-corrects on its next render.
func (c *Client) syncState() {
	c.send(c.stateMessage())
}

// sendList pushes a full lobby list refresh to the client.
func (c *Client) sendList() {
	c.send(protocol.NewRefresh(protocol.RefreshRefresh, c.reg.lobbyRows(c, true)...))
}

// Dispatch routes one decoded message to the matching handler. Kinds
// that require an active player are classified as cheating attempts
// when none exists: logged, negatively acknowledged, no state change.
func (c *Client) Dispatch(m protocol.ClientMessage) {
	switch m.Kind {
	case protocol.KindRefreshList:
		c.onRefreshList()

	case protocol.KindInvite:
		c.onInvite(m.Name)

	case protocol.KindFlyAway:
		if c.player != nil {
			c.player.OnFlyAway()
		} else {
			c.onFlyAway()
		}

	case protocol.KindElemSelection:
		if p := c.player; p != nil {
			p.OnElemSelection(m.Number)
		} else {
			c.cheat("elemSelection", ErrNoGame)
		}

	case protocol.KindCheckConfig:
		if p := c.player; p != nil {
			p.OnCheckConfig(m.Config)
		} else {
			c.cheat("checkConfig", ErrNoGame)
			c.send(protocol.AckMessage{Type: protocol.TypeCheckResult})
		}

	case protocol.KindShot:
		if p := c.player; p != nil {
			p.OnShot(m.Spin)
		} else {
			c.cheat("shot", ErrNoGame)
			c.send(protocol.AckMessage{Type: protocol.TypeShotResult, Spin: m.Spin})
		}

	case protocol.KindNameElement:
		if p := c.player; p != nil {
			p.OnNameElement(m.Number)
		} else {
			c.cheat("nameElement", ErrNoGame)
		}

	case protocol.KindEndGame:
		if p := c.player; p != nil {
			p.OnEndGame()
		} else {
			c.cheat("endGame", ErrNoGame)
		}

	case protocol.KindRegister:
		// Already registered on this session; nothing to do.
		c.reg.log.Warn("duplicate registration ignored", zap.String("client", c.name))
	}
}

func (c *Client) onRefreshList() {
	c.reg.log.Info("lobby list requested", zap.String("client", c.name))
	c.sendList()
}

// onInvite records or completes an invitation. Mutual consent starts a
// game immediately; otherwise the requester lands in the target's
// inviter set and the target's list view is refreshed.
func (c *Client) onInvite(name string) {
	if c.player != nil {
		c.cheat("invite", ErrAlreadyInMatch)
		c.send(protocol.AckMessage{Type: protocol.TypeInviteResult})
		c.syncState()
		return
	}

	target := c.reg.clients[name]
	if target == nil || target == c || !target.Online() || target.InMatch() {
		c.reg.log.Warn("invalid invitation target",
			zap.String("client", c.name), zap.String("target", name),
			zap.Error(ErrInvalidTarget))
		c.send(protocol.AckMessage{Type: protocol.TypeInviteResult})
		c.send(protocol.NewRefresh(protocol.RefreshRemove, protocol.ClientRow{Name: name}))
		return
	}

	c.reg.log.Info("invitation",
		zap.String("from", c.name), zap.String("to", name))

	if _, mutual := c.inviters[target]; mutual {
		c.send(protocol.AckMessage{Type: protocol.TypeInviteResult, OK: true})
		newGame(c.reg, c, target)
		return
	}

	target.inviters[c] = struct{}{}
	target.send(protocol.NewRefresh(protocol.RefreshRefresh, protocol.ClientRow{
		Name:       c.name,
		InvitingMe: true,
	}))
	c.send(protocol.AckMessage{Type: protocol.TypeInviteResult, OK: true})
}

// onFlyAway handles a lobby client signing off: the identity is kept
// for rejoining, the connection is closed.
func (c *Client) onFlyAway() {
	c.reg.log.Info("client flies away from the lobby", zap.String("client", c.name))
	c.send(protocol.StateMessage{Type: protocol.TypeChangeState, Phase: string(PhaseOffline)})
	if c.session != nil {
		c.session.Close()
	}
}

// OnDisconnect clears the session. In-match disconnects are delegated
// to the player (a transient state, not an error); lobby disconnects
// purge the client from every inviter set and every visible list.
func (c *Client) OnDisconnect() {
	c.session = nil
	c.offlineSince = time.Now()
	c.reg.log.Info("client disconnected", zap.String("client", c.name))

	if c.player != nil {
		c.player.OnDisconnect()
	} else {
		row := c.row()
		for _, other := range c.reg.clients {
			if other == c || !other.Online() || other.InMatch() {
				continue
			}
			other.removeInviter(c)
			other.send(protocol.NewRefresh(protocol.RefreshRemove, row))
		}
	}
	c.reg.obs.ClientUpdated(c)
}

// finishMatch detaches the active player, returning the client to the
// lobby population, and resyncs it if online.
func (c *Client) finishMatch() {
	c.player = nil
	if c.Online() {
		c.syncState()
		c.sendList()
		c.reg.broadcastHall(protocol.NewRefresh(protocol.RefreshAdd, c.row()), c)
	}
	c.reg.obs.ClientUpdated(c)
}

// initGame binds the client to its in-match player. Pending
// invitations die here: an in-match client can neither send nor hold
// them.
func (c *Client) initGame(p *Player) {
	c.player = p
	clear(c.inviters)
	c.syncState()
}

func (c *Client) cheat(handler string, err error) {
	c.reg.log.Warn("cheat attempt",
		zap.String("client", c.name),
		zap.String("handler", handler),
		zap.Error(err))
}
