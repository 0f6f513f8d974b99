package cpu

func (c *CPU) add(value uint8, withCarry bool) {
	carry := uint8(0)
	if withCarry {
		carry = c.flagToBit(carryFlag)
	}
	sum := uint16(c.a) + uint16(value) + uint16(carry)
	half := c.a&0x0F + value&0x0F + carry
	c.a = uint8(sum)
	c.setFlags(c.a == 0, false, half > 0x0F, sum > 0xFF)
}

// sub computes A - value (- carry) and returns the result without storing
// it, so CP can share it.
func (c *CPU) sub(value uint8, withCarry bool) uint8 {
	carry := 0
	if withCarry {
		carry = int(c.flagToBit(carryFlag))
	}
	diff := int(c.a) - int(value) - carry
	half := int(c.a&0x0F) - int(value&0x0F) - carry
	result := uint8(diff)
	c.setFlags(result == 0, true, half < 0, diff < 0)
	return result
}

func (c *CPU) and(value uint8) {
	c.a &= value
	c.setFlags(c.a == 0, false, true, false)
}

func (c *CPU) xor(value uint8) {
	c.a ^= value
	c.setFlags(c.a == 0, false, false, false)
}

func (c *CPU) or(value uint8) {
	c.a |= value
	c.setFlags(c.a == 0, false, false, false)
}

// alu runs one of the eight accumulator operations selected by bits 3-5.
func (c *CPU) alu(op uint8, value uint8) {
	switch op {
	case 0:
		c.add(value, false)
	case 1:
		c.add(value, true)
	case 2:
		c.a = c.sub(value, false)
	case 3:
		c.a = c.sub(value, true)
	case 4:
		c.and(value)
	case 5:
		c.xor(value)
	case 6:
		c.or(value)
	case 7:
		c.sub(value, false)
	}
}

func (c *CPU) inc(value uint8) uint8 {
	result := value + 1
	c.setFlagToCondition(zeroFlag, result == 0)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, value&0x0F == 0x0F)
	return result
}

func (c *CPU) dec(value uint8) uint8 {
	result := value - 1
	c.setFlagToCondition(zeroFlag, result == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, value&0x0F == 0)
	return result
}

func (c *CPU) addToHL(value uint16) {
	hl := c.getHL()
	sum := uint32(hl) + uint32(value)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, hl&0x0FFF+value&0x0FFF > 0x0FFF)
	c.setFlagToCondition(carryFlag, sum > 0xFFFF)
	c.setHL(uint16(sum))
}

// offsetSP returns SP + e with the flags ADD SP,e and LD HL,SP+e share:
// carries come from the low byte as if it were an unsigned add.
func (c *CPU) offsetSP(e int8) uint16 {
	u := uint16(uint8(e))
	c.setFlags(false, false, c.sp&0x0F+u&0x0F > 0x0F, c.sp&0xFF+u > 0xFF)
	return c.sp + uint16(int16(e))
}

func (c *CPU) daa() {
	a := c.a
	carry := c.isSetFlag(carryFlag)

	if c.isSetFlag(subFlag) {
		if carry {
			a -= 0x60
		}
		if c.isSetFlag(halfCarryFlag) {
			a -= 0x06
		}
	} else {
		if carry || a > 0x99 {
			a += 0x60
			carry = true
		}
		if c.isSetFlag(halfCarryFlag) || a&0x0F > 0x09 {
			a += 0x06
		}
	}

	c.a = a
	c.setFlagToCondition(zeroFlag, a == 0)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry)
}

// rotate and shift operations shared by the CB page and the accumulator
// shortcuts. Each returns the result and sets Z/N/H/C for the CB form.

func (c *CPU) rlc(value uint8) uint8 {
	result := value<<1 | value>>7
	c.setFlags(result == 0, false, false, value&0x80 != 0)
	return result
}

func (c *CPU) rrc(value uint8) uint8 {
	result := value>>1 | value<<7
	c.setFlags(result == 0, false, false, value&0x01 != 0)
	return result
}

func (c *CPU) rl(value uint8) uint8 {
	result := value<<1 | c.flagToBit(carryFlag)
	c.setFlags(result == 0, false, false, value&0x80 != 0)
	return result
}

func (c *CPU) rr(value uint8) uint8 {
	result := value>>1 | c.flagToBit(carryFlag)<<7
	c.setFlags(result == 0, false, false, value&0x01 != 0)
	return result
}

func (c *CPU) sla(value uint8) uint8 {
	result := value << 1
	c.setFlags(result == 0, false, false, value&0x80 != 0)
	return result
}

func (c *CPU) sra(value uint8) uint8 {
	result := value>>1 | value&0x80
	c.setFlags(result == 0, false, false, value&0x01 != 0)
	return result
}

func (c *CPU) swap(value uint8) uint8 {
	result := value<<4 | value>>4
	c.setFlags(result == 0, false, false, false)
	return result
}

func (c *CPU) srl(value uint8) uint8 {
	result := value >> 1
	c.setFlags(result == 0, false, false, value&0x01 != 0)
	return result
}
