// Package protocol defines the logical message contracts at the
// connection boundary. Transport framing lives in internal/ws; these
// types are what the core produces and consumes.
package protocol

import "github.com/mendeleev-duel/server/internal/elem"

// Kind is a closed enumeration of inbound message kinds. The wire
// carries a type string; Classify maps it onto a Kind exactly once so
// every later switch is over a known, finite set.
type Kind int

const (
	KindUnknown Kind = iota
	KindRegister
	KindRefreshList
	KindInvite
	KindElemSelection
	KindCheckConfig
	KindShot
	KindNameElement
	KindEndGame
	KindFlyAway
)

// ClientMessage is one decoded inbound frame. Only the fields relevant
// to its Kind are populated.
type ClientMessage struct {
	Type   string    `json:"type"`
	Name   string    `json:"name,omitempty"`
	Number int       `json:"number,omitempty"`
	Spin   int       `json:"spin,omitempty"`
	Config [4]uint32 `json:"config,omitempty"`

	Kind Kind `json:"-"`
}

var kinds = map[string]Kind{
	"register":      KindRegister,
	"refreshList":   KindRefreshList,
	"invite":        KindInvite,
	"elemSelection": KindElemSelection,
	"checkConfig":   KindCheckConfig,
	"shot":          KindShot,
	"nameElement":   KindNameElement,
	"endGame":       KindEndGame,
	"flyAway":       KindFlyAway,
}

// Classify resolves the wire type string. It returns false for types
// outside the contract; the caller rejects those at the boundary.
func (m *ClientMessage) Classify() bool {
	k, ok := kinds[m.Type]
	if ok {
		m.Kind = k
	}
	return ok
}

// ElementInfo is the public description of a catalogue entry.
type ElementInfo struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// ElementOf converts a catalogue entry, nil staying nil ("not yet
// selected" is expressed by absence, not by sentinel numbers).
func ElementOf(e *elem.Element) *ElementInfo {
	if e == nil {
		return nil
	}
	return &ElementInfo{Number: e.Number, Name: e.Name, Symbol: e.Symbol}
}

// ClientRow is one line of the lobby list.
type ClientRow struct {
	Name        string `json:"name"`
	InvitedByMe bool   `json:"invitedByMe"`
	InvitingMe  bool   `json:"invitingMe"`
}

// RefreshAction tells the receiver how to apply a RefreshMessage.
type RefreshAction string

const (
	RefreshAdd     RefreshAction = "add"
	RefreshRemove  RefreshAction = "remove"
	RefreshRefresh RefreshAction = "refresh"
)

// Outbound message type tags.
const (
	TypeChangeState        = "changeState"
	TypeRefreshResults     = "refreshResults"
	TypeShot               = "shot"
	TypeOpponentConnection = "opponentConnection"
	TypeRegisterResult     = "registerResult"
	TypeInviteResult       = "inviteResult"
	TypeCheckResult        = "checkResult"
	TypeShotResult         = "shotResult"
	TypeError              = "error"
)

// StateMessage carries a client's full view of its own state. Diagram
// views are already merged (see elem.DiagramState); OpElement is only
// present once the match reached Celebrating.
type StateMessage struct {
	Type         string           `json:"type"`
	Phase        string           `json:"phase"`
	Team         string           `json:"team,omitempty"`
	Element      *ElementInfo     `json:"element,omitempty"`
	Diagram      []elem.SpinState `json:"diagram,omitempty"`
	DiagramCheck bool             `json:"diagramCheck"`
	OpDiagram    []elem.SpinState `json:"opDiagram,omitempty"`
	RightMove    bool             `json:"rightMove"`
	OpElement    *ElementInfo     `json:"opElement,omitempty"`
}

// RefreshMessage mutates the receiver's lobby list.
type RefreshMessage struct {
	Type   string        `json:"type"`
	Action RefreshAction `json:"action"`
	Rows   []ClientRow   `json:"rows"`
}

func NewRefresh(action RefreshAction, rows ...ClientRow) RefreshMessage {
	return RefreshMessage{Type: TypeRefreshResults, Action: action, Rows: rows}
}

// ShotMessage is pushed to the player whose diagram was shot at.
type ShotMessage struct {
	Type string `json:"type"`
	Spin int    `json:"spin"`
}

// ConnectionMessage reports the opponent's connectivity.
type ConnectionMessage struct {
	Type      string `json:"type"`
	Connected bool   `json:"connected"`
}

// AckMessage is the boolean result of a request: registration,
// invitation, diagram check or shot. Failures are acknowledgements,
// never protocol-level errors.
type AckMessage struct {
	Type string `json:"type"`
	OK   bool   `json:"ok"`
	Spin int    `json:"spin,omitempty"`
	Hit  bool   `json:"hit,omitempty"`
}

// ErrorMessage reports an unparseable or out-of-contract frame.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
