package cpu

import "github.com/valerio/jeebie-core/jeebie/bit"

// Opcode represents a function that executes an opcode and returns its cost in clocks.
type Opcode func(*CPU) int

var (
	opcodes   [256]Opcode
	opcodesCB [256]Opcode
)

func init() {
	buildOpcodes()
	buildOpcodesCB()
}

// Decode fetches the opcode at PC, including the CB prefix, and returns its
// implementation. Undefined opcodes decode to nil.
func Decode(c *CPU) Opcode {
	op := c.fetch()
	if op == 0xCB {
		cb := c.readImmediate()
		c.currentOpcode = bit.Combine(0xCB, cb)
		return opcodesCB[cb]
	}
	c.currentOpcode = uint16(op)
	return opcodes[op]
}

// operand indices used by the encoding: B, C, D, E, H, L, (HL), A
const (
	regB = iota
	regC
	regD
	regE
	regH
	regL
	regHLIndirect
	regA
)

func (c *CPU) readReg(index uint8) uint8 {
	switch index {
	case regB:
		return c.b
	case regC:
		return c.c
	case regD:
		return c.d
	case regE:
		return c.e
	case regH:
		return c.h
	case regL:
		return c.l
	case regHLIndirect:
		return c.bus.Read(c.getHL())
	default:
		return c.a
	}
}

func (c *CPU) writeReg(index uint8, value uint8) {
	switch index {
	case regB:
		c.b = value
	case regC:
		c.c = value
	case regD:
		c.d = value
	case regE:
		c.e = value
	case regH:
		c.h = value
	case regL:
		c.l = value
	case regHLIndirect:
		c.bus.Write(c.getHL(), value)
	default:
		c.a = value
	}
}

// 16 bit register pairs as encoded in bits 4-5: BC, DE, HL, SP
func (c *CPU) readPair(index uint8) uint16 {
	switch index {
	case 0:
		return c.getBC()
	case 1:
		return c.getDE()
	case 2:
		return c.getHL()
	default:
		return c.sp
	}
}

func (c *CPU) writePair(index uint8, value uint16) {
	switch index {
	case 0:
		c.setBC(value)
	case 1:
		c.setDE(value)
	case 2:
		c.setHL(value)
	default:
		c.sp = value
	}
}

// condition codes as encoded in bits 3-4: NZ, Z, NC, C
func (c *CPU) condition(index uint8) bool {
	switch index {
	case 0:
		return !c.isSetFlag(zeroFlag)
	case 1:
		return c.isSetFlag(zeroFlag)
	case 2:
		return !c.isSetFlag(carryFlag)
	default:
		return c.isSetFlag(carryFlag)
	}
}

// cost returns base, or indirect when the operand is (HL).
func cost(index uint8, base, indirect int) int {
	if index == regHLIndirect {
		return indirect
	}
	return base
}
