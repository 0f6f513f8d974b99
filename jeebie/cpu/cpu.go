// Package cpu implements the SM83 core: registers, the opcode tables and
// interrupt dispatch.
package cpu

import (
	"github.com/valerio/jeebie-core/jeebie/bit"
	"github.com/valerio/jeebie-core/jeebie/interrupt"
)

// Bus is the CPU view of the address space.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// Flag is one of the 4 possible flags used in the flag register (high part of AF)
type Flag uint8

const (
	zeroFlag      Flag = 0x80
	subFlag       Flag = 0x40
	halfCarryFlag Flag = 0x20
	carryFlag     Flag = 0x10
)

const (
	// DispatchCycles is the cost of servicing an interrupt.
	DispatchCycles = 20
	haltedCycles   = 4
)

// CPU holds the processor state. It is driven exclusively through Step.
type CPU struct {
	a  uint8
	f  uint8
	b  uint8
	c  uint8
	d  uint8
	e  uint8
	h  uint8
	l  uint8
	sp uint16
	pc uint16

	// instructions left before a pending EI sets IME
	eiDelay int
	halted  bool
	stopped bool
	// the next opcode fetch does not advance PC
	haltBug bool

	currentOpcode uint16
	cycles        uint64
	fault         *IllegalOpcodeError

	bus Bus
	irq *interrupt.Controller
}

// New returns a CPU in the state the DMG boot ROM leaves behind.
func New(bus Bus, irq *interrupt.Controller) *CPU {
	c := &CPU{bus: bus, irq: irq}
	c.setAF(0x01B0)
	c.setBC(0x0013)
	c.setDE(0x00D8)
	c.setHL(0x014D)
	c.sp = 0xFFFE
	c.pc = 0x0100
	return c
}

// NewAtReset returns a CPU with cleared registers and PC=0, ready to run a boot ROM.
func NewAtReset(bus Bus, irq *interrupt.Controller) *CPU {
	return &CPU{bus: bus, irq: irq}
}

// Step executes one instruction or dispatches one interrupt and returns the
// clocks consumed. Once an illegal opcode is hit every call returns the same
// error and leaves the machine untouched.
func (c *CPU) Step() (int, error) {
	if c.fault != nil {
		return haltedCycles, c.fault
	}

	if c.halted {
		if !c.irq.Pending() {
			c.cycles += haltedCycles
			return haltedCycles, nil
		}
		c.halted = false
		c.stopped = false
	}

	if c.irq.MasterEnabled() && c.irq.Pending() {
		cycles := c.dispatch()
		c.cycles += uint64(cycles)
		return cycles, nil
	}

	opcodeAddress := c.pc
	instruction := Decode(c)
	if instruction == nil {
		c.pc = opcodeAddress
		c.fault = &IllegalOpcodeError{Opcode: bit.Low(c.currentOpcode), PC: opcodeAddress}
		return haltedCycles, c.fault
	}

	cycles := instruction(c)
	c.cycles += uint64(cycles)

	if c.eiDelay > 0 {
		c.eiDelay--
		if c.eiDelay == 0 {
			c.irq.SetMasterEnable(true)
		}
	}

	return cycles, nil
}

// dispatch services the highest priority pending interrupt. An armed HALT
// bug makes the handler return to the HALT itself.
func (c *CPU) dispatch() int {
	source, _ := c.irq.Highest()
	c.irq.SetMasterEnable(false)
	c.irq.Acknowledge(source)
	returnAddress := c.pc
	if c.haltBug {
		c.haltBug = false
		returnAddress--
	}
	c.pushStack(returnAddress)
	c.pc = source.Vector()
	return DispatchCycles
}

// fetch reads the byte at PC and advances it, unless the HALT bug is armed.
func (c *CPU) fetch() uint8 {
	value := c.bus.Read(c.pc)
	if c.haltBug {
		c.haltBug = false
	} else {
		c.pc++
	}
	return value
}

// readImmediate returns the byte at PC ('n' in mnemonics) and advances PC.
func (c *CPU) readImmediate() uint8 {
	n := c.bus.Read(c.pc)
	c.pc++
	return n
}

// readImmediateWord returns the little endian word at PC ('nn' in mnemonics).
func (c *CPU) readImmediateWord() uint16 {
	low := c.readImmediate()
	high := c.readImmediate()
	return bit.Combine(high, low)
}

func (c *CPU) readSignedImmediate() int8 {
	return int8(c.readImmediate())
}

func (c *CPU) pushStack(value uint16) {
	c.sp--
	c.bus.Write(c.sp, bit.High(value))
	c.sp--
	c.bus.Write(c.sp, bit.Low(value))
}

func (c *CPU) popStack() uint16 {
	low := c.bus.Read(c.sp)
	c.sp++
	high := c.bus.Read(c.sp)
	c.sp++
	return bit.Combine(high, low)
}

func (c *CPU) setFlag(flag Flag) {
	c.f |= uint8(flag)
}

func (c *CPU) resetFlag(flag Flag) {
	c.f &^= uint8(flag)
}

func (c *CPU) isSetFlag(flag Flag) bool {
	return c.f&uint8(flag) != 0
}

// flagToBit will return 1 if the passed flag is set, 0 otherwise
func (c *CPU) flagToBit(flag Flag) uint8 {
	if c.isSetFlag(flag) {
		return 1
	}
	return 0
}

func (c *CPU) setFlagToCondition(flag Flag, condition bool) {
	if condition {
		c.setFlag(flag)
		return
	}
	c.resetFlag(flag)
}

// setFlags replaces all four flags at once.
func (c *CPU) setFlags(zero, sub, halfCarry, carry bool) {
	c.f = 0
	c.setFlagToCondition(zeroFlag, zero)
	c.setFlagToCondition(subFlag, sub)
	c.setFlagToCondition(halfCarryFlag, halfCarry)
	c.setFlagToCondition(carryFlag, carry)
}

func (c *CPU) setBC(value uint16) { c.b, c.c = bit.High(value), bit.Low(value) }
func (c *CPU) setDE(value uint16) { c.d, c.e = bit.High(value), bit.Low(value) }
func (c *CPU) setHL(value uint16) { c.h, c.l = bit.High(value), bit.Low(value) }

// setAF keeps the low nibble of F at zero.
func (c *CPU) setAF(value uint16) { c.a, c.f = bit.High(value), bit.Low(value)&0xF0 }

func (c *CPU) getBC() uint16 { return bit.Combine(c.b, c.c) }
func (c *CPU) getDE() uint16 { return bit.Combine(c.d, c.e) }
func (c *CPU) getHL() uint16 { return bit.Combine(c.h, c.l) }
func (c *CPU) getAF() uint16 { return bit.Combine(c.a, c.f) }

// Registers is a copy of the register file.
type Registers struct {
	A, F, B, C, D, E, H, L uint8
	SP, PC                 uint16
}

func (r Registers) AF() uint16 { return bit.Combine(r.A, r.F) }
func (r Registers) BC() uint16 { return bit.Combine(r.B, r.C) }
func (r Registers) DE() uint16 { return bit.Combine(r.D, r.E) }
func (r Registers) HL() uint16 { return bit.Combine(r.H, r.L) }

// Registers returns a snapshot of the register file.
func (c *CPU) Registers() Registers {
	return Registers{
		A: c.a, F: c.f, B: c.b, C: c.c, D: c.d, E: c.e, H: c.h, L: c.l,
		SP: c.sp, PC: c.pc,
	}
}

// SetRegisters overwrites the register file. The low nibble of F is dropped.
func (c *CPU) SetRegisters(r Registers) {
	c.a, c.b, c.c, c.d, c.e, c.h, c.l = r.A, r.B, r.C, r.D, r.E, r.H, r.L
	c.f = r.F & 0xF0
	c.sp, c.pc = r.SP, r.PC
}

// Halted reports whether HALT or STOP is waiting for an interrupt.
func (c *CPU) Halted() bool { return c.halted }

// Locked reports whether an illegal opcode has stopped the CPU.
func (c *CPU) Locked() bool { return c.fault != nil }

// Fault returns the illegal opcode that locked the CPU, if any.
func (c *CPU) Fault() *IllegalOpcodeError { return c.fault }

// Cycles returns the total clocks consumed since creation.
func (c *CPU) Cycles() uint64 { return c.cycles }
