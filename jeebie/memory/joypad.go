package memory

import (
	"github.com/valerio/jeebie-core/jeebie/bit"
	"github.com/valerio/jeebie-core/jeebie/interrupt"
)

// JoypadKey represents a key on the Gameboy joypad
type JoypadKey uint8

const (
	JoypadRight JoypadKey = iota
	JoypadLeft
	JoypadUp
	JoypadDown
	JoypadA
	JoypadB
	JoypadSelect
	JoypadStart
)

const (
	selectDpad    = 4
	selectButtons = 5
)

// Joypad is the P1 register: two select lines written by software and
// four active low input lines read back.
type Joypad struct {
	// pressed keys, active low: bits 0-3 d-pad, bits 4-7 buttons
	keys     uint8
	selected uint8
	irq      interrupt.Requester
}

// NewJoypad returns a joypad with nothing pressed and no group selected.
func NewJoypad(irq interrupt.Requester) *Joypad {
	return &Joypad{keys: 0xFF, selected: 0x30, irq: irq}
}

// Read returns P1. Unused bits 6-7 read as 1.
func (j *Joypad) Read() uint8 {
	lines := uint8(0x0F)
	if !bit.IsSet(selectDpad, j.selected) {
		lines &= j.keys & 0x0F
	}
	if !bit.IsSet(selectButtons, j.selected) {
		lines &= j.keys >> 4
	}
	return 0xC0 | j.selected | lines
}

// Write stores the select lines, only bits 4-5 are writable.
func (j *Joypad) Write(value uint8) {
	j.selected = value & 0x30
}

// Press marks key as held and raises the joypad interrupt on a new press.
func (j *Joypad) Press(key JoypadKey) {
	index := uint8(key)
	if !bit.IsSet(index, j.keys) {
		return
	}
	j.keys = bit.Clear(index, j.keys)
	if j.irq != nil {
		j.irq.Request(interrupt.Joypad)
	}
}

// Release marks key as no longer held.
func (j *Joypad) Release(key JoypadKey) {
	j.keys = bit.Set(uint8(key), j.keys)
}
