package loop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mendeleev-duel/server/internal/game"
	"github.com/mendeleev-duel/server/internal/protocol"
)

type nopSession struct{}

func (nopSession) Send(any) {}
func (nopSession) Close()   {}

func register(t *testing.T, l *Loop, name string) RegisterResult {
	t.Helper()
	reply := make(chan RegisterResult, 1)
	require.True(t, l.Send(Register{Name: name, Session: nopSession{}, Reply: reply}))
	select {
	case res := <-reply:
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("register reply timed out")
		return RegisterResult{}
	}
}

func view(t *testing.T, l *Loop) View {
	t.Helper()
	reply := make(chan View, 1)
	require.True(t, l.Send(GetView{Reply: reply}))
	select {
	case v := <-reply:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("view reply timed out")
		return View{}
	}
}

func TestLoopSerializesRegistration(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := New(ctx, zap.NewNop(), game.Options{})

	res := register(t, l, "alice")
	require.NoError(t, res.Err)
	require.NotNil(t, res.Client)

	dup := register(t, l, "alice")
	assert.ErrorIs(t, dup.Err, game.ErrNameBusy)

	register(t, l, "bob")
	assert.Equal(t, 2, view(t, l).Clients)
}

func TestLoopRoutesClientMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := New(ctx, zap.NewNop(), game.Options{})

	a := register(t, l, "alice")
	require.NoError(t, a.Err)
	b := register(t, l, "bob")
	require.NoError(t, b.Err)

	require.True(t, l.Send(FromClient{Client: a.Client, Msg: protocol.ClientMessage{Kind: protocol.KindInvite, Name: "bob"}}))
	require.True(t, l.Send(FromClient{Client: b.Client, Msg: protocol.ClientMessage{Kind: protocol.KindInvite, Name: "alice"}}))

	assert.Equal(t, 1, view(t, l).Games)
}

func TestLoopDisconnectFreesName(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := New(ctx, zap.NewNop(), game.Options{})

	a := register(t, l, "alice")
	require.NoError(t, a.Err)

	require.True(t, l.Send(Disconnect{Client: a.Client}))

	res := register(t, l, "alice")
	assert.NoError(t, res.Err)
	assert.Same(t, a.Client, res.Client)
}

func TestSendUnblocksAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := New(ctx, zap.NewNop(), game.Options{})

	require.True(t, l.Send(Shutdown{}))
	select {
	case <-l.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("loop never stopped")
	}

	// Push well past the inbox capacity: a stopped loop must turn
	// senders away instead of parking them on a channel nobody drains.
	refused := false
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			if !l.Send(Disconnect{}) {
				refused = true
			}
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("send blocked after shutdown")
	}
	assert.True(t, refused)
}

func TestLoopPost(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := New(ctx, zap.NewNop(), game.Options{})

	done := make(chan int, 1)
	ok := l.Post(func(r *game.Registry) { done <- r.ClientCount() })
	require.True(t, ok)

	select {
	case n := <-done:
		assert.Equal(t, 0, n)
	case <-time.After(2 * time.Second):
		t.Fatal("posted closure never ran")
	}
}
