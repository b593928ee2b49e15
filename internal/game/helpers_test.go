package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mendeleev-duel/server/internal/elem"
	"github.com/mendeleev-duel/server/internal/protocol"
	"github.com/mendeleev-duel/server/internal/statstore"
)

// fakeSession records everything the core would push to a connection.
type fakeSession struct {
	msgs   []any
	closed bool
}

func (s *fakeSession) Send(msg any) { s.msgs = append(s.msgs, msg) }
func (s *fakeSession) Close()       { s.closed = true }

func (s *fakeSession) reset() { s.msgs = nil }

// lastState returns the most recent state push, failing if none came.
func (s *fakeSession) lastState(t *testing.T) protocol.StateMessage {
	t.Helper()
	for i := len(s.msgs) - 1; i >= 0; i-- {
		if m, ok := s.msgs[i].(protocol.StateMessage); ok {
			return m
		}
	}
	t.Fatal("no state message received")
	return protocol.StateMessage{}
}

// lastAck returns the most recent acknowledgement of the given type.
func (s *fakeSession) lastAck(t *testing.T, typ string) protocol.AckMessage {
	t.Helper()
	for i := len(s.msgs) - 1; i >= 0; i-- {
		if m, ok := s.msgs[i].(protocol.AckMessage); ok && m.Type == typ {
			return m
		}
	}
	t.Fatalf("no %s ack received", typ)
	return protocol.AckMessage{}
}

func (s *fakeSession) hasConnectionMsg(connected bool) bool {
	for _, m := range s.msgs {
		if cm, ok := m.(protocol.ConnectionMessage); ok && cm.Connected == connected {
			return true
		}
	}
	return false
}

// captureRecorder keeps finished matches in memory for assertions.
type captureRecorder struct {
	matches []statstore.Match
}

func (r *captureRecorder) Record(m statstore.Match) { r.matches = append(r.matches, m) }

type fixture struct {
	t     *testing.T
	reg   *Registry
	sched *ManualScheduler
}

func newFixture(t *testing.T) *fixture {
	sched := NewManualScheduler()
	reg := NewRegistry(Options{Scheduler: sched})
	// Deterministic opening move: first slot wins the toss.
	reg.coin = func() bool { return true }
	return &fixture{t: t, reg: reg, sched: sched}
}

func (f *fixture) join(name string) (*Client, *fakeSession) {
	f.t.Helper()
	s := &fakeSession{}
	c, err := f.reg.Register(name, s)
	require.NoError(f.t, err)
	return c, s
}

func invite(name string) protocol.ClientMessage {
	return protocol.ClientMessage{Kind: protocol.KindInvite, Name: name}
}

// pair registers two clients and walks them through mutual invitation
// into a fresh game.
func (f *fixture) pair() (a, b *Client, sa, sb *fakeSession) {
	f.t.Helper()
	a, sa = f.join("alice")
	b, sb = f.join("bob")

	a.Dispatch(invite("bob"))
	b.Dispatch(invite("alice"))
	require.True(f.t, a.InMatch())
	require.True(f.t, b.InMatch())
	return a, b, sa, sb
}

// toMatching takes a paired game through selection and preparation into
// the matching phase. alice picks hydrogen, bob picks helium; bob holds
// the first slot (his invite completed the pair) and the fixed coin
// gives him the opening move.
func (f *fixture) toMatching(a, b *Client) {
	f.t.Helper()
	f.selectAndCheck(a, 1)
	f.selectAndCheck(b, 2)
	f.sched.Advance(f.reg.timing.PreparingDelay)
	require.Equal(f.t, PhaseMatching, a.Player().Phase())
	require.Equal(f.t, PhaseMatching, b.Player().Phase())
}

func (f *fixture) selectAndCheck(c *Client, number int) {
	f.t.Helper()
	c.Dispatch(protocol.ClientMessage{Kind: protocol.KindElemSelection, Number: number})
	require.Equal(f.t, PhasePreparing, c.Player().Phase())
	c.Dispatch(protocol.ClientMessage{
		Kind:   protocol.KindCheckConfig,
		Config: elem.ByNumber(number).Config.Words(),
	})
	require.True(f.t, c.Player().DiagramChecked())
}
