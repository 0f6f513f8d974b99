package cpu

import "github.com/valerio/jeebie-core/jeebie/bit"

// illegalOpcodes have no defined behavior and lock the CPU.
var illegalOpcodes = []uint8{0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD}

// buildOpcodes fills the unprefixed table. Regular blocks of the encoding
// are generated from their operand fields, the rest are listed one by one.
func buildOpcodes() {
	for op := 0; op < 256; op++ {
		o := uint8(op)
		dst := o >> 3 & 0x07
		src := o & 0x07
		pair := o >> 4 & 0x03

		switch {
		case o >= 0x40 && o <= 0x7F && o != 0x76:
			opcodes[o] = loadRegister(dst, src)
		case o >= 0x80 && o <= 0xBF:
			opcodes[o] = aluRegister(dst, src)
		case o&0xC7 == 0x04:
			opcodes[o] = incRegister(dst)
		case o&0xC7 == 0x05:
			opcodes[o] = decRegister(dst)
		case o&0xC7 == 0x06:
			opcodes[o] = loadImmediate(dst)
		case o&0xCF == 0x01:
			opcodes[o] = loadPairImmediate(pair)
		case o&0xCF == 0x03:
			opcodes[o] = incPair(pair)
		case o&0xCF == 0x0B:
			opcodes[o] = decPair(pair)
		case o&0xCF == 0x09:
			opcodes[o] = addHLPair(pair)
		case o&0xCF == 0xC1:
			opcodes[o] = popPair(pair)
		case o&0xCF == 0xC5:
			opcodes[o] = pushPair(pair)
		case o&0xE7 == 0x20:
			opcodes[o] = jumpRelativeIf(dst & 0x03)
		case o&0xE7 == 0xC0:
			opcodes[o] = returnIf(dst & 0x03)
		case o&0xE7 == 0xC2:
			opcodes[o] = jumpIf(dst & 0x03)
		case o&0xE7 == 0xC4:
			opcodes[o] = callIf(dst & 0x03)
		case o&0xC7 == 0xC6:
			opcodes[o] = aluImmediate(dst)
		case o&0xC7 == 0xC7:
			opcodes[o] = restart(uint16(o & 0x38))
		}
	}

	//NOP
	opcodes[0x00] = func(*CPU) int { return 4 }

	//LD (BC), A / LD (DE), A / LD (HL+), A / LD (HL-), A
	opcodes[0x02] = func(c *CPU) int { c.bus.Write(c.getBC(), c.a); return 8 }
	opcodes[0x12] = func(c *CPU) int { c.bus.Write(c.getDE(), c.a); return 8 }
	opcodes[0x22] = func(c *CPU) int { hl := c.getHL(); c.bus.Write(hl, c.a); c.setHL(hl + 1); return 8 }
	opcodes[0x32] = func(c *CPU) int { hl := c.getHL(); c.bus.Write(hl, c.a); c.setHL(hl - 1); return 8 }

	//LD A, (BC) / LD A, (DE) / LD A, (HL+) / LD A, (HL-)
	opcodes[0x0A] = func(c *CPU) int { c.a = c.bus.Read(c.getBC()); return 8 }
	opcodes[0x1A] = func(c *CPU) int { c.a = c.bus.Read(c.getDE()); return 8 }
	opcodes[0x2A] = func(c *CPU) int { hl := c.getHL(); c.a = c.bus.Read(hl); c.setHL(hl + 1); return 8 }
	opcodes[0x3A] = func(c *CPU) int { hl := c.getHL(); c.a = c.bus.Read(hl); c.setHL(hl - 1); return 8 }

	//RLCA / RRCA / RLA / RRA: like the CB forms but Z is always cleared
	opcodes[0x07] = func(c *CPU) int { c.a = c.rlc(c.a); c.resetFlag(zeroFlag); return 4 }
	opcodes[0x0F] = func(c *CPU) int { c.a = c.rrc(c.a); c.resetFlag(zeroFlag); return 4 }
	opcodes[0x17] = func(c *CPU) int { c.a = c.rl(c.a); c.resetFlag(zeroFlag); return 4 }
	opcodes[0x1F] = func(c *CPU) int { c.a = c.rr(c.a); c.resetFlag(zeroFlag); return 4 }

	//LD (nn), SP
	opcodes[0x08] = func(c *CPU) int {
		address := c.readImmediateWord()
		c.bus.Write(address, bit.Low(c.sp))
		c.bus.Write(address+1, bit.High(c.sp))
		return 20
	}

	//STOP
	opcodes[0x10] = opcodeStop

	//JR e
	opcodes[0x18] = func(c *CPU) int {
		offset := c.readSignedImmediate()
		c.pc = uint16(int32(c.pc) + int32(offset))
		return 12
	}

	//DAA / CPL / SCF / CCF
	opcodes[0x27] = func(c *CPU) int { c.daa(); return 4 }
	opcodes[0x2F] = func(c *CPU) int {
		c.a = ^c.a
		c.setFlag(subFlag)
		c.setFlag(halfCarryFlag)
		return 4
	}
	opcodes[0x37] = func(c *CPU) int {
		c.resetFlag(subFlag)
		c.resetFlag(halfCarryFlag)
		c.setFlag(carryFlag)
		return 4
	}
	opcodes[0x3F] = func(c *CPU) int {
		c.resetFlag(subFlag)
		c.resetFlag(halfCarryFlag)
		c.setFlagToCondition(carryFlag, !c.isSetFlag(carryFlag))
		return 4
	}

	//HALT
	opcodes[0x76] = opcodeHalt

	//RET / RETI
	opcodes[0xC9] = func(c *CPU) int { c.pc = c.popStack(); return 16 }
	opcodes[0xD9] = func(c *CPU) int {
		c.pc = c.popStack()
		c.irq.SetMasterEnable(true)
		return 16
	}

	//JP nn / JP HL / CALL nn
	opcodes[0xC3] = func(c *CPU) int { c.pc = c.readImmediateWord(); return 16 }
	opcodes[0xE9] = func(c *CPU) int { c.pc = c.getHL(); return 4 }
	opcodes[0xCD] = func(c *CPU) int {
		target := c.readImmediateWord()
		c.pushStack(c.pc)
		c.pc = target
		return 24
	}

	//LDH (n), A / LDH A, (n) / LD (C), A / LD A, (C)
	opcodes[0xE0] = func(c *CPU) int { c.bus.Write(0xFF00|uint16(c.readImmediate()), c.a); return 12 }
	opcodes[0xF0] = func(c *CPU) int { c.a = c.bus.Read(0xFF00 | uint16(c.readImmediate())); return 12 }
	opcodes[0xE2] = func(c *CPU) int { c.bus.Write(0xFF00|uint16(c.c), c.a); return 8 }
	opcodes[0xF2] = func(c *CPU) int { c.a = c.bus.Read(0xFF00 | uint16(c.c)); return 8 }

	//LD (nn), A / LD A, (nn)
	opcodes[0xEA] = func(c *CPU) int { c.bus.Write(c.readImmediateWord(), c.a); return 16 }
	opcodes[0xFA] = func(c *CPU) int { c.a = c.bus.Read(c.readImmediateWord()); return 16 }

	//ADD SP, e / LD HL, SP+e / LD SP, HL
	opcodes[0xE8] = func(c *CPU) int { c.sp = c.offsetSP(c.readSignedImmediate()); return 16 }
	opcodes[0xF8] = func(c *CPU) int { c.setHL(c.offsetSP(c.readSignedImmediate())); return 12 }
	opcodes[0xF9] = func(c *CPU) int { c.sp = c.getHL(); return 8 }

	//DI / EI
	opcodes[0xF3] = func(c *CPU) int {
		c.irq.SetMasterEnable(false)
		c.eiDelay = 0
		return 4
	}
	opcodes[0xFB] = func(c *CPU) int {
		// IME is set once the following instruction has completed
		if !c.irq.MasterEnabled() && c.eiDelay == 0 {
			c.eiDelay = 2
		}
		return 4
	}

	// the prefix is consumed by Decode and never dispatched
	opcodes[0xCB] = nil
	for _, op := range illegalOpcodes {
		opcodes[op] = nil
	}
}

func loadRegister(dst, src uint8) Opcode {
	cycles := 4
	if dst == regHLIndirect || src == regHLIndirect {
		cycles = 8
	}
	return func(c *CPU) int {
		c.writeReg(dst, c.readReg(src))
		return cycles
	}
}

func loadImmediate(dst uint8) Opcode {
	cycles := cost(dst, 8, 12)
	return func(c *CPU) int {
		c.writeReg(dst, c.readImmediate())
		return cycles
	}
}

func aluRegister(op, src uint8) Opcode {
	cycles := cost(src, 4, 8)
	return func(c *CPU) int {
		c.alu(op, c.readReg(src))
		return cycles
	}
}

func aluImmediate(op uint8) Opcode {
	return func(c *CPU) int {
		c.alu(op, c.readImmediate())
		return 8
	}
}

func incRegister(r uint8) Opcode {
	cycles := cost(r, 4, 12)
	return func(c *CPU) int {
		c.writeReg(r, c.inc(c.readReg(r)))
		return cycles
	}
}

func decRegister(r uint8) Opcode {
	cycles := cost(r, 4, 12)
	return func(c *CPU) int {
		c.writeReg(r, c.dec(c.readReg(r)))
		return cycles
	}
}

func loadPairImmediate(pair uint8) Opcode {
	return func(c *CPU) int {
		c.writePair(pair, c.readImmediateWord())
		return 12
	}
}

func incPair(pair uint8) Opcode {
	return func(c *CPU) int {
		c.writePair(pair, c.readPair(pair)+1)
		return 8
	}
}

func decPair(pair uint8) Opcode {
	return func(c *CPU) int {
		c.writePair(pair, c.readPair(pair)-1)
		return 8
	}
}

func addHLPair(pair uint8) Opcode {
	return func(c *CPU) int {
		c.addToHL(c.readPair(pair))
		return 8
	}
}

// push and pop encode AF instead of SP in the last slot.
func popPair(pair uint8) Opcode {
	return func(c *CPU) int {
		value := c.popStack()
		if pair == 3 {
			c.setAF(value)
		} else {
			c.writePair(pair, value)
		}
		return 12
	}
}

func pushPair(pair uint8) Opcode {
	return func(c *CPU) int {
		if pair == 3 {
			c.pushStack(c.getAF())
		} else {
			c.pushStack(c.readPair(pair))
		}
		return 16
	}
}

func jumpRelativeIf(cond uint8) Opcode {
	return func(c *CPU) int {
		offset := c.readSignedImmediate()
		if !c.condition(cond) {
			return 8
		}
		c.pc = uint16(int32(c.pc) + int32(offset))
		return 12
	}
}

func jumpIf(cond uint8) Opcode {
	return func(c *CPU) int {
		target := c.readImmediateWord()
		if !c.condition(cond) {
			return 12
		}
		c.pc = target
		return 16
	}
}

func callIf(cond uint8) Opcode {
	return func(c *CPU) int {
		target := c.readImmediateWord()
		if !c.condition(cond) {
			return 12
		}
		c.pushStack(c.pc)
		c.pc = target
		return 24
	}
}

func returnIf(cond uint8) Opcode {
	return func(c *CPU) int {
		if !c.condition(cond) {
			return 8
		}
		c.pc = c.popStack()
		return 20
	}
}

func restart(vector uint16) Opcode {
	return func(c *CPU) int {
		c.pushStack(c.pc)
		c.pc = vector
		return 16
	}
}

// opcodeHalt stops fetching until an interrupt is pending. With IME clear
// and an interrupt already pending the CPU does not halt; instead the next
// opcode byte is read twice.
func opcodeHalt(c *CPU) int {
	if !c.irq.MasterEnabled() && c.irq.Pending() {
		c.haltBug = true
		return 4
	}
	c.halted = true
	return 4
}

// opcodeStop skips its padding byte and idles like HALT until an interrupt
// is pending. There is no speed switch on DMG.
func opcodeStop(c *CPU) int {
	c.readImmediate()
	c.halted = true
	c.stopped = true
	return 4
}
