package jeebie

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/cpu"
	"github.com/valerio/jeebie-core/jeebie/interrupt"
	"github.com/valerio/jeebie-core/jeebie/memory"
	"github.com/valerio/jeebie-core/jeebie/serial"
	"github.com/valerio/jeebie-core/jeebie/timer"
	"github.com/valerio/jeebie-core/jeebie/video"
)

// ErrInvalidBootROM is returned when a boot image is not exactly 256 bytes.
var ErrInvalidBootROM = errors.New("boot rom must be 256 bytes")

const bootROMSize = 256

// CycleListener is called after every step, once all devices have caught up.
type CycleListener func(cycles int)

// clocked is a device driven by the cycles the CPU reports.
type clocked interface {
	Advance(cycles int)
}

// DMG is the whole machine: the CPU and every device it shares the clock with.
type DMG struct {
	cpu    *cpu.CPU
	irq    *interrupt.Controller
	timer  *timer.Timer
	ppu    *video.PPU
	bus    *memory.Bus
	joypad *memory.Joypad
	serial *serial.LogSink
	cart   *memory.Cartridge

	// advanced in this order after each CPU step
	devices []clocked

	listener CycleListener
	logger   *slog.Logger
}

type config struct {
	bootROM   []byte
	dmaPolicy memory.DMAPolicy
	logger    *slog.Logger
	serialOut io.Writer
	audio     memory.Device
	listener  CycleListener
}

// Option configures a DMG at construction time.
type Option func(*config)

// WithBootROM runs the given boot image from address 0 instead of starting
// from the post-boot state.
func WithBootROM(image []byte) Option { return func(c *config) { c.bootROM = image } }

// WithDMAPolicy selects how OAM DMA transfers are timed.
func WithDMAPolicy(p memory.DMAPolicy) Option { return func(c *config) { c.dmaPolicy = p } }

// WithLogger sets the logger shared by all devices.
func WithLogger(l *slog.Logger) Option { return func(c *config) { c.logger = l } }

// WithSerialOutput copies every byte sent over the link port to w.
func WithSerialOutput(w io.Writer) Option { return func(c *config) { c.serialOut = w } }

// WithAudio attaches a device answering the sound registers.
func WithAudio(d memory.Device) Option { return func(c *config) { c.audio = d } }

// WithCycleListener registers a callback invoked after every step.
func WithCycleListener(l CycleListener) Option { return func(c *config) { c.listener = l } }

// New creates a machine running the given cartridge image. Malformed images
// are rejected before anything runs.
func New(rom []byte, opts ...Option) (*DMG, error) {
	cfg := config{
		dmaPolicy: memory.DMAGradual,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.bootROM != nil && len(cfg.bootROM) != bootROMSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBootROM, len(cfg.bootROM))
	}

	cart, err := memory.LoadCartridge(rom)
	if err != nil {
		return nil, err
	}

	d := &DMG{
		cart:     cart,
		listener: cfg.listener,
		logger:   cfg.logger,
	}
	d.irq = interrupt.New()
	d.timer = timer.New(d.irq)
	d.ppu = video.New(d.irq, cfg.logger)
	d.joypad = memory.NewJoypad(d.irq)

	serialOpts := []serial.LogSinkOption{serial.WithLogger(cfg.logger)}
	if cfg.serialOut != nil {
		serialOpts = append(serialOpts, serial.WithOutput(cfg.serialOut))
	}
	d.serial = serial.NewLogSink(d.irq, serialOpts...)

	busOpts := []memory.BusOption{
		memory.WithCartridge(cart),
		memory.WithSerial(d.serial),
		memory.WithDMAPolicy(cfg.dmaPolicy),
		memory.WithLogger(cfg.logger),
	}
	if cfg.audio != nil {
		busOpts = append(busOpts, memory.WithAudio(cfg.audio))
	}
	if cfg.bootROM != nil {
		busOpts = append(busOpts, memory.WithBootROM(cfg.bootROM))
	}
	d.bus = memory.NewBus(d.ppu, d.timer, d.irq, d.joypad, busOpts...)

	if cfg.bootROM != nil {
		d.cpu = cpu.NewAtReset(d.bus, d.irq)
	} else {
		d.cpu = cpu.New(d.bus, d.irq)
		d.initializeIO()
	}

	d.devices = []clocked{d.timer, d.ppu, d.bus, d.serial}

	cfg.logger.Info("cartridge loaded",
		"title", cart.Header.Title,
		"mapper", cart.Header.Mapper,
		"rom_banks", cart.Header.ROMBanks,
		"ram_size", cart.Header.RAMSize,
		"dma", cfg.dmaPolicy,
		"boot_rom", cfg.bootROM != nil)

	return d, nil
}

// NewWithFile creates a machine running the cartridge stored at path.
func NewWithFile(path string, opts ...Option) (*DMG, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	d, err := New(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	d.logger.Info("loaded rom", "path", path, "bytes", len(data))
	return d, nil
}

// postBootIO holds the register values the boot ROM leaves behind.
var postBootIO = []struct {
	address uint16
	value   uint8
}{
	{addr.P1, 0xCF},
	{addr.TIMA, 0x00},
	{addr.TMA, 0x00},
	{addr.TAC, 0x00},
	{addr.NR10, 0x80},
	{addr.NR11, 0xBF},
	{addr.NR12, 0xF3},
	{addr.NR14, 0xBF},
	{addr.NR21, 0x3F},
	{addr.NR22, 0x00},
	{addr.NR24, 0xBF},
	{addr.NR30, 0x7F},
	{addr.NR31, 0xFF},
	{addr.NR32, 0x9F},
	{addr.NR33, 0xBF},
	{addr.NR41, 0xFF},
	{addr.NR42, 0x00},
	{addr.NR43, 0x00},
	{addr.NR44, 0xBF},
	{addr.NR50, 0x77},
	{addr.NR51, 0xF3},
	{addr.NR52, 0xF1},
	{addr.LCDC, 0x91},
	{addr.SCY, 0x00},
	{addr.SCX, 0x00},
	{addr.LYC, 0x00},
	{addr.BGP, 0xFC},
	{addr.OBP0, 0xFF},
	{addr.OBP1, 0xFF},
	{addr.WY, 0x00},
	{addr.WX, 0x00},
	{addr.IF, 0xE1},
	{addr.IE, 0x00},
}

func (d *DMG) initializeIO() {
	for _, reg := range postBootIO {
		d.bus.Write(reg.address, reg.value)
	}
	d.timer.Seed(timer.PostBootDivider)
}

// Step runs one CPU step, then advances the timer, the PPU, OAM DMA and the
// serial port by the cycles it took. The next step sees every interrupt
// those devices raised.
//
// An illegal opcode is reported on every call from then on. The devices keep
// running so the screen stays alive.
func (d *DMG) Step() (int, error) {
	cycles, err := d.cpu.Step()
	for _, dev := range d.devices {
		dev.Advance(cycles)
	}
	if d.listener != nil {
		d.listener(cycles)
	}
	return cycles, err
}

// RunUntilFrame steps until the PPU completes a frame. With the LCD off it
// returns after one frame's worth of cycles.
func (d *DMG) RunUntilFrame() error {
	elapsed := 0
	for {
		cycles, err := d.Step()
		if err != nil {
			return err
		}
		elapsed += cycles

		if d.ppu.ConsumeFrameReady() {
			return nil
		}
		if !d.ppu.Enabled() && elapsed >= video.FrameDots {
			return nil
		}
	}
}

// RunFrames runs n frames, stopping at the first error.
func (d *DMG) RunFrames(n int) error {
	for i := 0; i < n; i++ {
		if err := d.RunUntilFrame(); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return nil
}

// CurrentFrame returns the last completed frame.
func (d *DMG) CurrentFrame() *video.FrameBuffer {
	return d.ppu.Frame()
}

// FrameCount returns the number of frames completed so far.
func (d *DMG) FrameCount() uint64 {
	return d.ppu.FrameCount()
}

func (d *DMG) Press(key memory.JoypadKey)   { d.joypad.Press(key) }
func (d *DMG) Release(key memory.JoypadKey) { d.joypad.Release(key) }

// SerialOutput returns everything sent over the link port.
func (d *DMG) SerialOutput() string {
	return d.serial.Output()
}

// Cartridge returns the parsed header of the loaded cartridge.
func (d *DMG) Cartridge() memory.Header {
	return d.cart.Header
}

// Read reads from the address space as the CPU would.
func (d *DMG) Read(address uint16) uint8 {
	return d.bus.Read(address)
}
