package protocol

import "github.com/mendeleev-duel/server/internal/elem"

// Admin feed actions. The feed is one-way: the core mirrors client and
// game lifecycle onto it, plus full snapshots for late subscribers.
const (
	AdminAddClient    = "addClient"
	AdminUpdateClient = "updateClient"
	AdminRemoveClient = "removeClient"
	AdminNewGame      = "newGame"
	AdminRemoveGame   = "removeGame"
	AdminSnapshot     = "snapshot"
)

// AdminClientInfo is the connection-identity half of a feed entry.
type AdminClientInfo struct {
	Name   string `json:"name"`
	Online bool   `json:"online"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

// AdminPlayerInfo is the in-match half. Element and Diagram are
// filtered before Celebrating: secrets never reach observers early.
type AdminPlayerInfo struct {
	Phase        string           `json:"phase"`
	Team         string           `json:"team"`
	Element      *ElementInfo     `json:"element,omitempty"`
	DiagramCheck bool             `json:"diagramCheck"`
	Diagram      []elem.SpinState `json:"diagram,omitempty"`
	RightMove    bool             `json:"rightMove"`
}

// AdminUserInfo pairs the two halves; Player is nil for lobby clients.
type AdminUserInfo struct {
	Client AdminClientInfo  `json:"client"`
	Player *AdminPlayerInfo `json:"player,omitempty"`
	Game   string           `json:"game,omitempty"`
}

// AdminMessage is one feed event or a full snapshot.
type AdminMessage struct {
	Action string          `json:"action"`
	Game   string          `json:"game,omitempty"`
	Name   string          `json:"name,omitempty"`
	Users  []AdminUserInfo `json:"users,omitempty"`
}
