package cpu

import "github.com/valerio/jeebie-core/jeebie/bit"

// buildOpcodesCB fills the CB page: eight shift/rotate operations, then
// BIT, RES and SET for each bit and operand. Costs include the prefix.
func buildOpcodesCB() {
	shifts := [8]func(*CPU, uint8) uint8{
		(*CPU).rlc, (*CPU).rrc, (*CPU).rl, (*CPU).rr,
		(*CPU).sla, (*CPU).sra, (*CPU).swap, (*CPU).srl,
	}

	for op := 0; op < 256; op++ {
		o := uint8(op)
		r := o & 0x07
		y := o >> 3 & 0x07

		switch o >> 6 {
		case 0:
			opcodesCB[o] = shiftRegister(shifts[y], r)
		case 1:
			opcodesCB[o] = testBit(y, r)
		case 2:
			opcodesCB[o] = resetBit(y, r)
		case 3:
			opcodesCB[o] = setBit(y, r)
		}
	}
}

func shiftRegister(shift func(*CPU, uint8) uint8, r uint8) Opcode {
	cycles := cost(r, 8, 16)
	return func(c *CPU) int {
		c.writeReg(r, shift(c, c.readReg(r)))
		return cycles
	}
}

func testBit(index, r uint8) Opcode {
	cycles := cost(r, 8, 12)
	return func(c *CPU) int {
		c.setFlagToCondition(zeroFlag, !bit.IsSet(index, c.readReg(r)))
		c.resetFlag(subFlag)
		c.setFlag(halfCarryFlag)
		return cycles
	}
}

func resetBit(index, r uint8) Opcode {
	cycles := cost(r, 8, 16)
	return func(c *CPU) int {
		c.writeReg(r, bit.Clear(index, c.readReg(r)))
		return cycles
	}
}

func setBit(index, r uint8) Opcode {
	cycles := cost(r, 8, 16)
	return func(c *CPU) int {
		c.writeReg(r, bit.Set(index, c.readReg(r)))
		return cycles
	}
}
