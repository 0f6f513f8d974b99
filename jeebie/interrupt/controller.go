// Package interrupt holds the interrupt enable mask, the pending request
// flags and the CPU master enable latch.
package interrupt

// Source is one of the five interrupt lines, encoded as its bit mask in IE/IF.
type Source uint8

const (
	// VBlank fires when the PPU enters vertical blank.
	VBlank Source = 1 << iota
	// LCDStat fires on a rising edge of the STAT interrupt line.
	LCDStat
	// Timer fires one cycle after TIMA overflows.
	Timer
	// Serial fires when a link transfer completes.
	Serial
	// Joypad fires when a selected input line goes low.
	Joypad
)

// Mask covers the five implemented sources.
const Mask uint8 = 0x1F

// unusedFlagBits always read back as 1 in IF.
const unusedFlagBits uint8 = 0xE0

var sourceNames = map[Source]string{
	VBlank:  "vblank",
	LCDStat: "stat",
	Timer:   "timer",
	Serial:  "serial",
	Joypad:  "joypad",
}

func (s Source) String() string {
	if name, ok := sourceNames[s]; ok {
		return name
	}
	return "unknown"
}

// Vector returns the handler address for the source:
// 0x40, 0x48, 0x50, 0x58, 0x60 in priority order.
func (s Source) Vector() uint16 {
	vector := uint16(0x40)
	for m := uint8(s) >> 1; m != 0; m >>= 1 {
		vector += 8
	}
	return vector
}

// Requester is implemented by anything interrupts can be raised on.
type Requester interface {
	Request(s Source)
}

// Controller is the interrupt state shared by the CPU and the devices that
// raise interrupts. It performs no timing of its own.
type Controller struct {
	enable uint8
	flags  uint8
	ime    bool
}

// New returns a controller with everything cleared.
func New() *Controller {
	return &Controller{}
}

// Request marks s as pending.
func (c *Controller) Request(s Source) {
	c.flags |= uint8(s) & Mask
}

// WriteEnable stores the full IE byte, including the three unused bits.
func (c *Controller) WriteEnable(value uint8) {
	c.enable = value
}

// ReadEnable returns IE as last written.
func (c *Controller) ReadEnable() uint8 {
	return c.enable
}

// WriteFlags replaces the pending requests, software can both set and clear them.
func (c *Controller) WriteFlags(value uint8) {
	c.flags = value & Mask
}

// ReadFlags returns IF with the unused upper bits set.
func (c *Controller) ReadFlags() uint8 {
	return c.flags | unusedFlagBits
}

// SetMasterEnable sets or clears IME.
func (c *Controller) SetMasterEnable(enabled bool) {
	c.ime = enabled
}

// MasterEnabled reports whether IME is set.
func (c *Controller) MasterEnabled() bool {
	return c.ime
}

// Pending reports whether any enabled source is requested, regardless of IME.
func (c *Controller) Pending() bool {
	return c.enable&c.flags&Mask != 0
}

// Highest returns the highest priority source that is both enabled and requested.
func (c *Controller) Highest() (Source, bool) {
	active := c.enable & c.flags & Mask
	if active == 0 {
		return 0, false
	}
	return Source(active & -active), true
}

// Acknowledge clears the request bit of s.
func (c *Controller) Acknowledge(s Source) {
	c.flags &^= uint8(s)
}
