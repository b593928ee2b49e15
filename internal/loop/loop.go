package loop

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mendeleev-duel/server/internal/game"
	"github.com/mendeleev-duel/server/internal/protocol"
)

type Msg interface{ isLoopMsg() }

// Register is a session's first message: claim a name, get back either
// the bound client or the rejection error.
type Register struct {
	Name    string
	Session game.Session
	Reply   chan RegisterResult
}

func (Register) isLoopMsg() {}

type RegisterResult struct {
	Client *game.Client
	Err    error
}

// FromClient carries one decoded frame from a bound session.
type FromClient struct {
	Client *game.Client
	Msg    protocol.ClientMessage
}

func (FromClient) isLoopMsg() {}

type Disconnect struct{ Client *game.Client }

func (Disconnect) isLoopMsg() {}

// Post runs an arbitrary closure on the loop goroutine. Timers and the
// admin feed use it to touch registry state without racing handlers.
type Post struct{ Fn func(*game.Registry) }

func (Post) isLoopMsg() {}

type GetView struct {
	Reply chan View
}

func (GetView) isLoopMsg() {}

type Shutdown struct{}

func (Shutdown) isLoopMsg() {}

type View struct {
	Clients int
	Games   int
}

// Loop serializes every registry mutation onto one goroutine. Sessions,
// timers and the sweeper all talk to it through the inbox; nothing else
// may hold a reference to the registry.
type Loop struct {
	inbox  chan Msg
	reg    *game.Registry
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func New(parent context.Context, log *zap.Logger, opts game.Options) *Loop {
	ctx, cancel := context.WithCancel(parent)

	l := &Loop{
		inbox:  make(chan Msg, 64),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	// Timer callbacks must not fire on the scheduler goroutine; wrap
	// them so they re-enter through the inbox.
	if opts.Scheduler == nil {
		opts.Scheduler = game.NewWallScheduler()
	}
	opts.Scheduler = &postScheduler{loop: l, inner: opts.Scheduler}
	if opts.Log == nil {
		opts.Log = log
	}
	l.reg = game.NewRegistry(opts)

	go l.run()
	return l
}

// Send queues m for the loop goroutine. Returns false once the loop is
// shutting down, so senders back off instead of blocking on a full
// inbox nobody drains anymore.
func (l *Loop) Send(m Msg) bool {
	select {
	case l.inbox <- m:
		return true
	case <-l.ctx.Done():
		return false
	}
}

// Done is closed when the loop stops accepting messages.
func (l *Loop) Done() <-chan struct{} { return l.ctx.Done() }

// Post queues fn for execution on the loop goroutine. Returns false
// once the loop is shutting down.
func (l *Loop) Post(fn func(*game.Registry)) bool {
	select {
	case l.inbox <- Post{Fn: fn}:
		return true
	case <-l.ctx.Done():
		return false
	}
}

func (l *Loop) run() {
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Register:
				c, err := l.reg.Register(msg.Name, msg.Session)
				msg.Reply <- RegisterResult{Client: c, Err: err}

			case FromClient:
				msg.Client.Dispatch(msg.Msg)

			case Disconnect:
				msg.Client.OnDisconnect()

			case Post:
				msg.Fn(l.reg)

			case GetView:
				msg.Reply <- View{
					Clients: l.reg.ClientCount(),
					Games:   l.reg.GameCount(),
				}

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

func (l *Loop) shutdown() {
	l.log.Info("event loop stopping")
	l.cancel()
}

// StartSweeper periodically runs the registry sweep, which collects
// matchless identities whose disconnect has aged past the retention
// window.
func (l *Loop) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-l.ctx.Done():
				return
			case <-t.C:
				l.Post(func(r *game.Registry) { r.Sweep() })
			}
		}
	}()
}

// postScheduler defers the wrapped scheduler's callbacks back onto the
// loop goroutine.
type postScheduler struct {
	loop  *Loop
	inner game.Scheduler
}

func (s *postScheduler) After(d time.Duration, fn func()) game.Timer {
	return s.inner.After(d, func() {
		s.loop.Post(func(*game.Registry) { fn() })
	})
}
