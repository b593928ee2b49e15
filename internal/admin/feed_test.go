package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mendeleev-duel/server/internal/elem"
	"github.com/mendeleev-duel/server/internal/game"
	"github.com/mendeleev-duel/server/internal/protocol"
)

type nopSession struct{}

func (nopSession) Send(any) {}
func (nopSession) Close()   {}

func drain(ch <-chan protocol.AdminMessage) []protocol.AdminMessage {
	var out []protocol.AdminMessage
	for {
		select {
		case m := <-ch:
			out = append(out, m)
		default:
			return out
		}
	}
}

func lastByAction(msgs []protocol.AdminMessage, action string) (protocol.AdminMessage, bool) {
	var found protocol.AdminMessage
	ok := false
	for _, m := range msgs {
		if m.Action == action {
			found, ok = m, true
		}
	}
	return found, ok
}

// harness drives a real registry with the feed attached as observer.
type harness struct {
	t     *testing.T
	reg   *game.Registry
	sched *game.ManualScheduler
	feed  *Feed
}

func newHarness(t *testing.T) *harness {
	feed := NewFeed(nil)
	sched := game.NewManualScheduler()
	reg := game.NewRegistry(game.Options{Scheduler: sched, Observer: feed})
	return &harness{t: t, reg: reg, sched: sched, feed: feed}
}

func (h *harness) join(name string) *game.Client {
	h.t.Helper()
	c, err := h.reg.Register(name, nopSession{})
	require.NoError(h.t, err)
	return c
}

func (h *harness) toCelebrating() (winner, loser *game.Client) {
	h.t.Helper()
	a := h.join("alice")
	b := h.join("bob")
	a.Dispatch(protocol.ClientMessage{Kind: protocol.KindInvite, Name: "bob"})
	b.Dispatch(protocol.ClientMessage{Kind: protocol.KindInvite, Name: "alice"})

	for c, n := range map[*game.Client]int{a: 1, b: 2} {
		c.Dispatch(protocol.ClientMessage{Kind: protocol.KindElemSelection, Number: n})
		c.Dispatch(protocol.ClientMessage{
			Kind:   protocol.KindCheckConfig,
			Config: elem.ByNumber(n).Config.Words(),
		})
	}
	h.sched.Advance(game.DefaultTiming().PreparingDelay)
	require.Equal(h.t, game.PhaseMatching, a.Player().Phase())

	turnHolder, other := a, b
	if b.Player().HasTurn() {
		turnHolder, other = b, a
	}
	// The turn holder names the opponent's element correctly.
	turnHolder.Dispatch(protocol.ClientMessage{
		Kind:   protocol.KindNameElement,
		Number: other.Player().Element().Number,
	})
	require.Equal(h.t, game.PhaseCelebrating, turnHolder.Player().Phase())
	return turnHolder, other
}

func TestFeedMirrorsClientLifecycle(t *testing.T) {
	h := newHarness(t)
	events, cancel := h.feed.Subscribe()
	defer cancel()

	h.join("alice")

	msgs := drain(events)
	added, ok := lastByAction(msgs, protocol.AdminAddClient)
	require.True(t, ok)
	assert.Equal(t, "alice", added.Name)
	require.Len(t, added.Users, 1)
	assert.True(t, added.Users[0].Client.Online)
	assert.Nil(t, added.Users[0].Player)
}

func TestFeedMirrorsGameLifecycle(t *testing.T) {
	h := newHarness(t)
	a := h.join("alice")
	b := h.join("bob")

	events, cancel := h.feed.Subscribe()
	defer cancel()

	a.Dispatch(protocol.ClientMessage{Kind: protocol.KindInvite, Name: "bob"})
	b.Dispatch(protocol.ClientMessage{Kind: protocol.KindInvite, Name: "alice"})

	msgs := drain(events)
	created, ok := lastByAction(msgs, protocol.AdminNewGame)
	require.True(t, ok)
	assert.NotEmpty(t, created.Game)
	require.Len(t, created.Users, 2)
	for _, u := range created.Users {
		require.NotNil(t, u.Player)
		assert.Equal(t, string(game.PhaseSelecting), u.Player.Phase)
		assert.Equal(t, created.Game, u.Game)
	}
}

func TestFeedHidesSecretsBeforeCelebration(t *testing.T) {
	h := newHarness(t)
	a := h.join("alice")
	b := h.join("bob")
	a.Dispatch(protocol.ClientMessage{Kind: protocol.KindInvite, Name: "bob"})
	b.Dispatch(protocol.ClientMessage{Kind: protocol.KindInvite, Name: "alice"})
	a.Dispatch(protocol.ClientMessage{Kind: protocol.KindElemSelection, Number: 26})
	a.Dispatch(protocol.ClientMessage{
		Kind:   protocol.KindCheckConfig,
		Config: elem.ByNumber(26).Config.Words(),
	})

	info := UserInfo(a)
	require.NotNil(t, info.Player)
	assert.Nil(t, info.Player.Element, "element is secret before celebration")
	assert.True(t, info.Player.DiagramCheck)
	for i, s := range info.Player.Diagram {
		assert.Equal(t, elem.SpinOff, s, "spin %d leaked before any shot", i+1)
	}
}

func TestFeedRevealsSecretsInCelebration(t *testing.T) {
	h := newHarness(t)
	winner, loser := h.toCelebrating()

	for _, c := range []*game.Client{winner, loser} {
		info := UserInfo(c)
		require.NotNil(t, info.Player)
		require.NotNil(t, info.Player.Element)
		assert.Equal(t, c.Player().Element().Number, info.Player.Element.Number)
	}
}

func TestFeedSnapshot(t *testing.T) {
	h := newHarness(t)
	h.join("alice")
	h.join("bob")

	snap := Snapshot(h.reg)
	assert.Equal(t, protocol.AdminSnapshot, snap.Action)
	assert.Len(t, snap.Users, 2)
}

func TestFeedUnsubscribeClosesChannel(t *testing.T) {
	h := newHarness(t)
	events, cancel := h.feed.Subscribe()
	cancel()
	cancel() // idempotent

	_, open := <-events
	assert.False(t, open)

	h.join("alice") // must not panic with no subscribers
}
