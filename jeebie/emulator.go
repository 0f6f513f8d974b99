package jeebie

import (
	"github.com/valerio/jeebie-core/jeebie/memory"
	"github.com/valerio/jeebie-core/jeebie/video"
)

// Emulator is what a host needs to drive a machine.
type Emulator interface {
	Step() (int, error)
	RunUntilFrame() error
	CurrentFrame() *video.FrameBuffer
	Press(key memory.JoypadKey)
	Release(key memory.JoypadKey)
	State() State
}

var _ Emulator = (*DMG)(nil)
