// Package admin mirrors client and game lifecycle onto a one-way
// observer feed. Subscribers see who is connected and how matches
// progress, but a player's secret element and unhit diagram cells stay
// hidden until the match reaches its celebration.
package admin

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mendeleev-duel/server/internal/game"
	"github.com/mendeleev-duel/server/internal/protocol"
)

const subscriberBuffer = 32

// Feed implements game.Observer. Lifecycle callbacks arrive on the
// event loop goroutine; subscriptions arrive from HTTP goroutines, so
// the subscriber set is the one thing under a lock.
type Feed struct {
	mu   sync.Mutex
	subs map[chan protocol.AdminMessage]struct{}
	log  *zap.Logger
}

func NewFeed(log *zap.Logger) *Feed {
	if log == nil {
		log = zap.NewNop()
	}
	return &Feed{
		subs: make(map[chan protocol.AdminMessage]struct{}),
		log:  log,
	}
}

// Subscribe registers a feed consumer. The returned cancel func is
// idempotent; the channel is closed when the subscription ends.
func (f *Feed) Subscribe() (<-chan protocol.AdminMessage, func()) {
	ch := make(chan protocol.AdminMessage, subscriberBuffer)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			if _, ok := f.subs[ch]; ok {
				delete(f.subs, ch)
				close(ch)
			}
			f.mu.Unlock()
		})
	}
	return ch, cancel
}

func (f *Feed) publish(msg protocol.AdminMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs {
		select {
		case ch <- msg:
		default:
			f.log.Warn("admin subscriber too slow, dropping")
			delete(f.subs, ch)
			close(ch)
		}
	}
}

func (f *Feed) ClientAdded(c *game.Client) {
	f.publish(protocol.AdminMessage{
		Action: protocol.AdminAddClient,
		Name:   c.Name(),
		Users:  []protocol.AdminUserInfo{UserInfo(c)},
	})
}

func (f *Feed) ClientUpdated(c *game.Client) {
	f.publish(protocol.AdminMessage{
		Action: protocol.AdminUpdateClient,
		Name:   c.Name(),
		Users:  []protocol.AdminUserInfo{UserInfo(c)},
	})
}

func (f *Feed) ClientRemoved(name string) {
	f.publish(protocol.AdminMessage{
		Action: protocol.AdminRemoveClient,
		Name:   name,
	})
}

func (f *Feed) GameCreated(g *game.Game) {
	msg := protocol.AdminMessage{
		Action: protocol.AdminNewGame,
		Game:   g.ID().String(),
	}
	for _, p := range g.Players() {
		if p != nil && p.Client() != nil {
			msg.Users = append(msg.Users, UserInfo(p.Client()))
		}
	}
	f.publish(msg)
}

func (f *Feed) GameRemoved(id uuid.UUID) {
	f.publish(protocol.AdminMessage{
		Action: protocol.AdminRemoveGame,
		Game:   id.String(),
	})
}

// Snapshot builds the full current picture. Must run on the event loop
// (via loop.Post) because it reads registry state.
func Snapshot(r *game.Registry) protocol.AdminMessage {
	msg := protocol.AdminMessage{Action: protocol.AdminSnapshot}
	r.ForEachClient(func(c *game.Client) {
		msg.Users = append(msg.Users, UserInfo(c))
	})
	return msg
}

// UserInfo renders one client for observers. In-match secrets are
// withheld until Celebrating: the element is omitted and the diagram
// reduced to the cells the opponent has already shot open.
func UserInfo(c *game.Client) protocol.AdminUserInfo {
	info := protocol.AdminUserInfo{
		Client: protocol.AdminClientInfo{
			Name:   c.Name(),
			Online: c.Online(),
			Wins:   c.Wins(),
			Losses: c.Losses(),
		},
	}

	p := c.Player()
	if p == nil {
		return info
	}

	pi := &protocol.AdminPlayerInfo{
		Phase:        string(p.Phase()),
		Team:         string(p.Team()),
		DiagramCheck: p.DiagramChecked(),
		Diagram:      p.VisibleDiagram(),
		RightMove:    p.HasTurn(),
	}
	if p.Phase() == game.PhaseCelebrating {
		pi.Element = protocol.ElementOf(p.Element())
	}
	info.Player = pi
	if g := p.Game(); g != nil {
		info.Game = g.ID().String()
	}
	return info
}
