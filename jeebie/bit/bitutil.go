package bit

// Combine joins two bytes into a word, high byte first.
func Combine(high, low uint8) uint16 {
	return uint16(high)<<8 | uint16(low)
}

// High returns the most significant byte of a word.
func High(value uint16) uint8 {
	return uint8(value >> 8)
}

// Low returns the least significant byte of a word.
func Low(value uint16) uint8 {
	return uint8(value)
}

// IsSet reports whether the bit at index is 1.
func IsSet(index, value uint8) bool {
	return value>>index&1 == 1
}

// IsSet16 is IsSet for 16 bit values.
func IsSet16(index uint8, value uint16) bool {
	return value>>index&1 == 1
}

// Set returns value with the bit at index forced to 1.
func Set(index, value uint8) uint8 {
	return value | 1<<index
}

// Clear returns value with the bit at index forced to 0.
func Clear(index, value uint8) uint8 {
	return value &^ (1 << index)
}

// SetTo sets or clears the bit at index depending on on.
func SetTo(index, value uint8, on bool) uint8 {
	if on {
		return Set(index, value)
	}
	return Clear(index, value)
}

// Value returns the bit at index as 0 or 1.
func Value(index, value uint8) uint8 {
	return value >> index & 1
}

// ExtractBits returns bits highBit..lowBit (inclusive) shifted down to bit 0.
// ExtractBits(0b11010110, 6, 4) == 0b101
func ExtractBits(value uint8, highBit, lowBit uint8) uint8 {
	width := highBit - lowBit + 1
	return value >> lowBit & uint8(1<<width-1)
}
