package game

import "errors"

var (
	ErrNameBusy        = errors.New("name already registered and online")
	ErrBadName         = errors.New("empty or invalid name")
	ErrAlreadyInMatch  = errors.New("client has an unfinished game")
	ErrInvalidTarget   = errors.New("target does not exist or is not available")
	ErrWrongPhase      = errors.New("action not permitted in current phase")
	ErrWrongTurn       = errors.New("player does not hold the turn")
	ErrOutOfRange      = errors.New("number outside 1..118")
	ErrSpinRepeated    = errors.New("spin already fired")
	ErrElementChosen   = errors.New("element already chosen")
	ErrDiagramMismatch = errors.New("diagram does not match the secret element")
	ErrNotWinner       = errors.New("only the winner may end the game")
	ErrBadPayload      = errors.New("malformed payload")
	ErrNoGame          = errors.New("no active game")
)
