package game

import "github.com/google/uuid"

// Session is the live network handle owned by an online client. The
// transport adapter implements it; Send must not block the caller
// (slow consumers are the adapter's problem).
type Session interface {
	Send(msg any)
	Close()
}

// Observer receives the one-way admin feed mirroring client and game
// lifecycle. Calls happen on the serialized loop; implementations must
// hand the work off without blocking.
type Observer interface {
	ClientAdded(c *Client)
	ClientUpdated(c *Client)
	ClientRemoved(name string)
	GameCreated(g *Game)
	GameRemoved(id uuid.UUID)
}

// NopObserver is the default when no admin feed is attached.
type NopObserver struct{}

func (NopObserver) ClientAdded(*Client)     {}
func (NopObserver) ClientUpdated(*Client)   {}
func (NopObserver) ClientRemoved(string)    {}
func (NopObserver) GameCreated(*Game)       {}
func (NopObserver) GameRemoved(uuid.UUID)   {}
