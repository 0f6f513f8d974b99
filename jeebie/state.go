package jeebie

import (
	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/cpu"
	"github.com/valerio/jeebie-core/jeebie/memory"
	"github.com/valerio/jeebie-core/jeebie/video"
)

// State is a point in time copy of the machine registers, meant for
// inspection and dumps. Changing it has no effect on the machine.
type State struct {
	CPU       cpu.Registers
	Halted    bool
	Locked    bool
	Fault     *cpu.IllegalOpcodeError
	Cycles    uint64
	Interrupt InterruptState
	Timer     TimerState
	Video     VideoState
	DMA       DMAState
	Cartridge memory.Header
}

type InterruptState struct {
	IME bool
	IE  uint8
	IF  uint8
}

type TimerState struct {
	Divider uint16
	TIMA    uint8
	TMA     uint8
	TAC     uint8
}

type VideoState struct {
	Mode          video.Mode
	LY            uint8
	Dot           int
	LCDC          uint8
	STAT          uint8
	WindowLatched bool
	WindowLine    int
	Frames        uint64
}

type DMAState struct {
	Policy memory.DMAPolicy
	Active bool
}

// State returns a snapshot of the machine.
func (d *DMG) State() State {
	return State{
		CPU:    d.cpu.Registers(),
		Halted: d.cpu.Halted(),
		Locked: d.cpu.Locked(),
		Fault:  d.cpu.Fault(),
		Cycles: d.cpu.Cycles(),
		Interrupt: InterruptState{
			IME: d.irq.MasterEnabled(),
			IE:  d.irq.ReadEnable(),
			IF:  d.irq.ReadFlags(),
		},
		Timer: TimerState{
			Divider: d.timer.Divider(),
			TIMA:    d.timer.Read(addr.TIMA),
			TMA:     d.timer.Read(addr.TMA),
			TAC:     d.timer.Read(addr.TAC),
		},
		Video: VideoState{
			Mode:          d.ppu.Mode(),
			LY:            d.ppu.LY(),
			Dot:           d.ppu.Dot(),
			LCDC:          d.ppu.Read(addr.LCDC),
			STAT:          d.ppu.Read(addr.STAT),
			WindowLatched: d.ppu.WindowLatched(),
			WindowLine:    d.ppu.WindowLine(),
			Frames:        d.ppu.FrameCount(),
		},
		DMA: DMAState{
			Policy: d.bus.DMAPolicy(),
			Active: d.bus.DMAActive(),
		},
		Cartridge: d.cart.Header,
	}
}
