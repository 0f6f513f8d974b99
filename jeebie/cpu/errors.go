package cpu

import "fmt"

// IllegalOpcodeError is returned by Step when the CPU fetches one of the
// undefined opcodes. The real hardware locks up; so does the emulated CPU.
type IllegalOpcodeError struct {
	Opcode uint8
	PC     uint16
}

func (e *IllegalOpcodeError) Error() string {
	return fmt.Sprintf("illegal opcode 0x%02X at 0x%04X", e.Opcode, e.PC)
}
