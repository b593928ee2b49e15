package game

import (
	"sort"
	"time"
)

// TimerPurpose keys a game's scheduled callbacks so superseding events
// can cancel exactly the timer they invalidate.
type TimerPurpose string

const (
	TimerMatchStart  TimerPurpose = "matchStart"
	TimerCelebration TimerPurpose = "celebration"
	TimerAbandon     TimerPurpose = "abandon"
)

// Timer is a cancelable scheduled callback.
type Timer interface {
	// Stop cancels the timer; it reports false if the callback already
	// fired or was stopped before.
	Stop() bool
}

// Scheduler defers callbacks. The production implementation must run
// callbacks on the same serialized loop that mutates registry state;
// callbacks re-validate state at fire time regardless.
type Scheduler interface {
	After(d time.Duration, fn func()) Timer
}

type wallTimer struct{ t *time.Timer }

func (w wallTimer) Stop() bool { return w.t.Stop() }

type wallScheduler struct{}

func (wallScheduler) After(d time.Duration, fn func()) Timer {
	return wallTimer{time.AfterFunc(d, fn)}
}

// NewWallScheduler fires callbacks on their own goroutine after a real
// delay. Callers that need serialization wrap the callback themselves
// (internal/loop does).
func NewWallScheduler() Scheduler { return wallScheduler{} }

// ManualScheduler is a virtual clock for tests: nothing fires until
// Advance moves time past a deadline, and everything fires on the
// calling goroutine in deadline order.
type ManualScheduler struct {
	now     time.Duration
	nextSeq int
	pending []*manualTimer
}

type manualTimer struct {
	sched   *ManualScheduler
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func NewManualScheduler() *ManualScheduler { return &ManualScheduler{} }

func (s *ManualScheduler) After(d time.Duration, fn func()) Timer {
	t := &manualTimer{sched: s, at: s.now + d, seq: s.nextSeq, fn: fn}
	s.nextSeq++
	s.pending = append(s.pending, t)
	return t
}

// Advance moves virtual time forward, firing due timers in order.
// Callbacks may schedule further timers; those fire too if due.
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		var next *manualTimer
		for _, t := range s.pending {
			if t.stopped || t.fired || t.at > target {
				continue
			}
			if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
				next = t
			}
		}
		if next == nil {
			break
		}
		s.now = next.at
		next.fired = true
		next.fn()
	}
	s.now = target
	s.compact()
}

// Pending reports how many live timers are scheduled.
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, t := range s.pending {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (s *ManualScheduler) compact() {
	live := s.pending[:0]
	for _, t := range s.pending {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	sort.Slice(live, func(i, j int) bool { return live[i].at < live[j].at })
	s.pending = live
}
