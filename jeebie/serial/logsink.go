// Package serial provides a link port device with no peer attached. Bytes
// shifted out are collected into text lines, which is how test ROMs report.
package serial

import (
	"io"
	"log/slog"

	"github.com/valerio/jeebie-core/jeebie/addr"
	"github.com/valerio/jeebie-core/jeebie/bit"
	"github.com/valerio/jeebie-core/jeebie/interrupt"
)

// transferCycles is the duration of an internally clocked 8 bit transfer (8192 Hz bit clock).
const transferCycles = 4096

// LogSink answers SB/SC. Every byte sent is logged once a line completes and,
// optionally, copied verbatim to an output writer.
type LogSink struct {
	irq    interrupt.Requester
	logger *slog.Logger
	out    io.Writer

	sb, sc    uint8
	active    bool
	countdown int

	immediate bool
	line      []byte
	sent      []byte
}

type LogSinkOption func(*LogSink)

// WithFixedTiming completes transfers after the hardware duration instead of immediately.
func WithFixedTiming() LogSinkOption { return func(s *LogSink) { s.immediate = false } }

// WithOutput copies every transmitted byte to w.
func WithOutput(w io.Writer) LogSinkOption { return func(s *LogSink) { s.out = w } }

// WithLogger sets the logger completed lines are written to.
func WithLogger(l *slog.Logger) LogSinkOption { return func(s *LogSink) { s.logger = l } }

// NewLogSink creates a sink that raises the serial interrupt on irq when a transfer completes.
func NewLogSink(irq interrupt.Requester, opts ...LogSinkOption) *LogSink {
	s := &LogSink{
		irq:       irq,
		immediate: true,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LogSink) Read(address uint16) uint8 {
	switch address {
	case addr.SB:
		return s.sb
	case addr.SC:
		return s.sc | 0x7E
	}
	return addr.OpenBus
}

func (s *LogSink) Write(address uint16, value uint8) {
	switch address {
	case addr.SB:
		s.sb = value
	case addr.SC:
		s.sc = value & 0x81
		s.maybeStart()
	}
}

// Advance counts down an in-flight transfer when fixed timing is enabled.
func (s *LogSink) Advance(cycles int) {
	if s.immediate || !s.active {
		return
	}
	s.countdown -= cycles
	if s.countdown <= 0 {
		s.complete()
	}
}

// Output returns every byte transmitted so far.
func (s *LogSink) Output() string {
	return string(s.sent)
}

func (s *LogSink) maybeStart() {
	if s.active || !bit.IsSet(7, s.sc) || !bit.IsSet(0, s.sc) {
		return
	}

	b := s.sb
	s.sent = append(s.sent, b)
	if s.out != nil {
		_, _ = s.out.Write([]byte{b})
	}

	if b == 0 || b == '\n' || b == '\r' {
		s.flushLine()
	} else {
		s.line = append(s.line, b)
	}

	if s.immediate {
		s.complete()
		return
	}
	s.active = true
	s.countdown = transferCycles
}

func (s *LogSink) flushLine() {
	if len(s.line) == 0 {
		return
	}
	s.logger.Info("serial", "line", string(s.line))
	s.line = s.line[:0]
}

func (s *LogSink) complete() {
	// no peer: the received byte is all ones
	s.sb = 0xFF
	s.sc = bit.Clear(7, s.sc)
	s.active = false
	if s.irq != nil {
		s.irq.Request(interrupt.Serial)
	}
}
