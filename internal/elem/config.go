// Package elem holds the spin-diagram bitset and the periodic table
// catalogue the match core plays over.
//
// A diagram has 118 spins, packed into four 32-bit words: three full
// words plus 22 bits of the fourth. Spin numbers are 1-based on the
// wire and everywhere in this package's API; bit indexes are 0-based
// internally.
package elem

import "go.uber.org/zap"

// Spins is the number of spin positions on a diagram.
const Spins = 118

// SpinState is the display state of one diagram spin after merging a
// diagram with the shots fired at it.
type SpinState int

const (
	SpinOff    SpinState = 0 // not marked, not shot
	SpinMarked SpinState = 1 // marked on the diagram, not shot
	SpinMiss   SpinState = 2 // shot, diagram empty
	SpinHit    SpinState = 3 // shot, diagram marked
)

// Config is a fixed-width spin set: either an element's electron spin
// occupancy or a pattern of shots/marks. Bits 118..127 stay zero.
type Config struct {
	words [4]uint32
}

// NewConfig builds a Config from up to four words. Extra words are
// dropped, missing words are zero.
func NewConfig(words ...uint32) Config {
	var c Config
	for i := 0; i < len(words) && i < 4; i++ {
		c.words[i] = words[i]
	}
	return c
}

// Words exposes the packed representation, for the wire and for logs.
func (c Config) Words() [4]uint32 {
	return c.words
}

// Test reports whether the given spin (1..118) is set. Out-of-range
// spins are never set.
func (c Config) Test(spin int) bool {
	if spin < 1 || spin > Spins {
		return false
	}
	i := spin - 1
	return c.words[i/32]>>(i%32)&1 != 0
}

// Set marks or clears a spin. Out-of-range spins are logged and
// ignored; upstream validation should make that unreachable.
func (c *Config) Set(spin int, on bool) {
	if spin < 1 || spin > Spins {
		zap.L().Warn("spin out of range", zap.Int("spin", spin))
		return
	}
	i := spin - 1
	mask := uint32(1) << (i % 32)
	if on {
		c.words[i/32] |= mask
	} else {
		c.words[i/32] &^= mask
	}
}

// Equal compares two configs word for word.
func Equal(a, b Config) bool {
	return a.words == b.words
}

// Spins lists the set spin positions, for logs and tests.
func (c Config) Spins() []int {
	var out []int
	for spin := 1; spin <= Spins; spin++ {
		if c.Test(spin) {
			out = append(out, spin)
		}
	}
	return out
}

// Count returns the number of set spins.
func (c Config) Count() int {
	n := 0
	for spin := 1; spin <= Spins; spin++ {
		if c.Test(spin) {
			n++
		}
	}
	return n
}

// States returns the per-spin states of a bare config: off or marked.
func (c Config) States() [Spins]SpinState {
	var out [Spins]SpinState
	for i := range out {
		if c.Test(i + 1) {
			out[i] = SpinMarked
		}
	}
	return out
}

// DiagramState merges a diagram with the shots fired at it into the
// four-valued display form: state[i] = 2*shot + marked. This is the
// only combination of hidden diagram bits that ever leaves the server.
func DiagramState(diagram, shots Config) [Spins]SpinState {
	var out [Spins]SpinState
	for i := range out {
		s := SpinState(0)
		if diagram.Test(i + 1) {
			s += SpinMarked
		}
		if shots.Test(i + 1) {
			s += SpinMiss
		}
		out[i] = s
	}
	return out
}
