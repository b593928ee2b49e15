// Package statstore archives finished-match results. The in-memory
// win/loss counters on each client stay authoritative for the process
// lifetime; the archive is a write-only sink behind Recorder, so the
// core never depends on a database being present.
package statstore

import "time"

// Match is one finished match, as committed at the Celebrating
// transition. Element numbers are zero when a side never picked one
// (forfeit before selection).
type Match struct {
	GameID        string
	Winner        string
	Loser         string
	WinnerElement int
	LoserElement  int
	WinnerShots   int
	LoserShots    int
	Duration      time.Duration
	FinishedAt    time.Time
}

// Recorder receives finished matches. Implementations must not block
// the caller for long; failures are theirs to log.
type Recorder interface {
	Record(m Match)
}

// Nop discards everything. Used when no DATABASE_URL is configured.
type Nop struct{}

func (Nop) Record(Match) {}
