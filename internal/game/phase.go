package game

// Phase is the game-progress state of one side. Lobby and Offline are
// the out-of-match states a client reports between games.
type Phase string

const (
	PhaseLobby       Phase = "online"
	PhaseSelecting   Phase = "selectingElement"
	PhasePreparing   Phase = "preparing"
	PhaseMatching    Phase = "matching"
	PhaseCelebrating Phase = "celebrating"
	PhaseOffline     Phase = "offline"
)

// Team is one of the two symmetric sides of a match.
type Team string

const (
	TeamLanthanoids Team = "lanthanoids"
	TeamActinoids   Team = "actinoids"
)

// Other returns the complement team.
func (t Team) Other() Team {
	if t == TeamLanthanoids {
		return TeamActinoids
	}
	return TeamLanthanoids
}
