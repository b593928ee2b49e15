package game

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mendeleev-duel/server/internal/protocol"
	"github.com/mendeleev-duel/server/internal/statstore"
)

// Timing groups the deferred-transition delays.
type Timing struct {
	// PreparingDelay separates the second diagram verification from
	// the actual Preparing -> Matching transition.
	PreparingDelay time.Duration
	// CelebrationWait is how long the loser stays bound to a finished
	// game before being released without the winner's confirmation.
	CelebrationWait time.Duration
	// DestructionWait is the self-destruct delay for a game both of
	// whose players are offline.
	DestructionWait time.Duration
	// AbandonedRetention is how long an offline matchless identity and
	// its win/loss record survive before Sweep may collect it. A
	// disconnected client that comes back sooner reclaims its name.
	AbandonedRetention time.Duration
}

// DefaultTiming mirrors the production configuration.
func DefaultTiming() Timing {
	return Timing{
		PreparingDelay:     5 * time.Second,
		CelebrationWait:    60 * time.Second,
		DestructionWait:    5 * time.Minute,
		AbandonedRetention: 12 * time.Hour,
	}
}

// Options configure a Registry.
type Options struct {
	Log       *zap.Logger
	Scheduler Scheduler
	Recorder  statstore.Recorder
	Observer  Observer
	Timing    Timing
}

// Registry is the process-wide store of known clients and active
// games. It is not safe for concurrent use: every mutation must come
// through one serialized event loop (internal/loop in production).
type Registry struct {
	log    *zap.Logger
	sched  Scheduler
	rec    statstore.Recorder
	obs    Observer
	timing Timing

	clients map[string]*Client
	games   map[uuid.UUID]*Game

	coin func() bool
}

// NewRegistry builds an empty registry. Zero-value options fall back
// to sane defaults so tests can pass only what they care about.
func NewRegistry(opts Options) *Registry {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = NewWallScheduler()
	}
	if opts.Recorder == nil {
		opts.Recorder = statstore.Nop{}
	}
	if opts.Observer == nil {
		opts.Observer = NopObserver{}
	}
	if opts.Timing == (Timing{}) {
		opts.Timing = DefaultTiming()
	}
	if opts.Timing.AbandonedRetention <= 0 {
		opts.Timing.AbandonedRetention = DefaultTiming().AbandonedRetention
	}
	return &Registry{
		log:     opts.Log,
		sched:   opts.Scheduler,
		rec:     opts.Recorder,
		obs:     opts.Observer,
		timing:  opts.Timing,
		clients: make(map[string]*Client),
		games:   make(map[uuid.UUID]*Game),
		coin:    func() bool { return rand.Intn(2) == 0 },
	}
}

// Register creates, reattaches or rejects a client identity for an
// incoming session. The check-then-set runs on the serialized loop, so
// two sessions can never both claim a name.
func (r *Registry) Register(name string, s Session) (*Client, error) {
	if name == "" {
		return nil, ErrBadName
	}

	if c, ok := r.clients[name]; ok {
		if c.Online() {
			r.log.Warn("registration rejected, name is busy",
				zap.String("name", name))
			return nil, ErrNameBusy
		}

		c.session = s
		c.offlineSince = time.Time{}
		r.log.Info("client reconnected", zap.String("name", name))
		c.send(protocol.AckMessage{Type: protocol.TypeRegisterResult, OK: true})
		if c.player != nil {
			c.player.OnReconnection()
		} else {
			c.syncState()
			c.sendList()
			r.broadcastHall(protocol.NewRefresh(protocol.RefreshAdd, c.row()), c)
		}
		r.obs.ClientUpdated(c)
		return c, nil
	}

	c := &Client{
		name:     name,
		session:  s,
		inviters: make(map[*Client]struct{}),
		reg:      r,
	}
	r.clients[name] = c
	r.log.Info("client registered", zap.String("name", name))

	c.send(protocol.AckMessage{Type: protocol.TypeRegisterResult, OK: true})
	c.syncState()
	c.sendList()
	r.broadcastHall(protocol.NewRefresh(protocol.RefreshAdd, c.row()), c)
	r.obs.ClientAdded(c)
	return c, nil
}

// Client looks a client up by name; nil when unknown.
func (r *Registry) Client(name string) *Client { return r.clients[name] }

// ClientCount reports how many identities the registry knows.
func (r *Registry) ClientCount() int { return len(r.clients) }

// GameCount reports the number of active games in the arena.
func (r *Registry) GameCount() int { return len(r.games) }

// ForEachClient visits every known client.
func (r *Registry) ForEachClient(fn func(*Client)) {
	for _, c := range r.clients {
		fn(c)
	}
}

// ForEachGame visits every active game.
func (r *Registry) ForEachGame(fn func(*Game)) {
	for _, g := range r.games {
		fn(g)
	}
}

// Sweep garbage-collects identities that have been offline and
// matchless for longer than the retention window. A recent disconnect
// is a rejoinable identity, not garbage: its name, pending record and
// counters stay reclaimable until the window expires.
func (r *Registry) Sweep() {
	for name, c := range r.clients {
		if c.Online() || c.player != nil {
			continue
		}
		if c.offlineSince.IsZero() || time.Since(c.offlineSince) < r.timing.AbandonedRetention {
			continue
		}
		delete(r.clients, name)
		r.obs.ClientRemoved(name)
		r.log.Info("swept abandoned identity",
			zap.String("name", name),
			zap.Duration("offline", time.Since(c.offlineSince)))
	}
}

// broadcastHall sends a message to every online lobby client except
// the listed ones.
func (r *Registry) broadcastHall(msg any, except ...*Client) {
	for _, c := range r.clients {
		if !c.Online() || c.InMatch() {
			continue
		}
		skip := false
		for _, e := range except {
			if c == e {
				skip = true
				break
			}
		}
		if !skip {
			c.send(msg)
		}
	}
}

// lobbyRows builds the viewer's lobby list: every online, matchless
// client except the viewer, with invitation flags when asked for.
func (r *Registry) lobbyRows(viewer *Client, withInvites bool) []protocol.ClientRow {
	rows := make([]protocol.ClientRow, 0, len(r.clients))
	for _, c := range r.clients {
		if c == viewer || !c.Online() || c.InMatch() {
			continue
		}
		row := protocol.ClientRow{Name: c.name}
		if withInvites {
			_, row.InvitedByMe = c.inviters[viewer]
			_, row.InvitingMe = viewer.inviters[c]
		}
		rows = append(rows, row)
	}
	return rows
}
