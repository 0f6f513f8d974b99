// Package timer implements the divider and the programmable TIMA counter.
package timer

import (
	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/bit"
	"github.com/valerio/jeebie-core/jeebie/interrupt"
)

// PostBootDivider is the divider value left behind by the DMG boot ROM.
const PostBootDivider uint16 = 0xABCC

// overflowDelay is the length, in clocks, of the machine cycle during which
// TIMA reads 0 after overflowing, and of the following reload cycle.
const overflowDelay = 4

// rateBits maps TAC bits 0-1 to the divider bit whose falling edge clocks TIMA.
//
//	00 -> bit 9 (4096 Hz)
//	01 -> bit 3 (262144 Hz)
//	10 -> bit 5 (65536 Hz)
//	11 -> bit 7 (16384 Hz)
var rateBits = [4]uint8{9, 3, 5, 7}

// Timer owns DIV/TIMA/TMA/TAC. It is advanced one clock at a time so
// that no divider edge is skipped regardless of the step size.
type Timer struct {
	divider uint16

	tima uint8
	tma  uint8
	tac  uint8

	// clocks left before TIMA is reloaded from TMA
	pendingReload int
	// clocks left in the cycle where TIMA was just reloaded
	reloading int

	irq interrupt.Requester
}

// New returns a timer with a zeroed divider that raises interrupts on irq.
func New(irq interrupt.Requester) *Timer {
	return &Timer{irq: irq}
}

// Seed sets the internal divider without side effects.
func (t *Timer) Seed(divider uint16) {
	t.divider = divider
}

// Divider returns the full 16 bit internal counter.
func (t *Timer) Divider() uint16 {
	return t.divider
}

// Advance runs the timer for the given number of clocks.
func (t *Timer) Advance(cycles int) {
	for range cycles {
		if t.reloading > 0 {
			t.reloading--
		}

		if t.pendingReload > 0 {
			t.pendingReload--
			if t.pendingReload == 0 {
				t.tima = t.tma
				t.reloading = overflowDelay
				t.irq.Request(interrupt.Timer)
			}
		}

		before := t.signal()
		t.divider++
		if before && !t.signal() {
			t.increment()
		}
	}
}

// signal is the input of the falling edge detector: the selected divider
// bit ANDed with the enable bit.
func (t *Timer) signal() bool {
	return bit.IsSet(2, t.tac) && bit.IsSet16(rateBits[t.tac&0x03], t.divider)
}

func (t *Timer) increment() {
	t.tima++
	if t.tima == 0 {
		t.pendingReload = overflowDelay
	}
}

// OverflowPending reports whether TIMA has overflowed and is waiting to be reloaded.
func (t *Timer) OverflowPending() bool {
	return t.pendingReload > 0
}

func (t *Timer) Read(address uint16) uint8 {
	switch address {
	case addr.DIV:
		return bit.High(t.divider)
	case addr.TIMA:
		return t.tima
	case addr.TMA:
		return t.tma
	case addr.TAC:
		return t.tac | 0xF8
	default:
		return addr.OpenBus
	}
}

func (t *Timer) Write(address uint16, value uint8) {
	switch address {
	case addr.DIV:
		before := t.signal()
		t.divider = 0
		if before && !t.signal() {
			t.increment()
		}
	case addr.TIMA:
		switch {
		case t.reloading > 0:
			// TMA wins during the reload cycle
		case t.pendingReload > 0:
			t.pendingReload = 0
			t.tima = value
		default:
			t.tima = value
		}
	case addr.TMA:
		t.tma = value
		switch {
		case t.reloading > 0:
			t.tima = value
		case t.pendingReload > 0:
			t.pendingReload = 0
			t.tima = value
		}
	case addr.TAC:
		before := t.signal()
		t.tac = value & 0x07
		if before && !t.signal() {
			t.increment()
		}
	}
}
