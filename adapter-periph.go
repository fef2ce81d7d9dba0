//go:build !tinygo

package binlog

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/uart"
	"periph.io/x/conn/v3/uart/uartreg"
	"periph.io/x/host/v3"
)

// UARTConfig holds the configuration for the Linux/periph.io UART sink.
type UARTConfig struct {
	// Port is the UART port name or device path (e.g., "/dev/ttyS0").
	// Defaults to "/dev/ttyS0" if not provided.
	Port string
	// Baud is the line rate in bits per second.
	// Defaults to 115200 if not provided.
	Baud int
}

// UARTSink sends record bytes over a UART opened via periph.io.
type UARTSink struct {
	conn conn.Conn
	port uart.PortCloser
}

// NewUARTSink opens a UART port via periph.io and returns a Sink that sends
// record bytes over it (8 data bits, no parity, one stop bit, no flow
// control).
func NewUARTSink(c UARTConfig) (*UARTSink, error) {
	// 1. Initialize periph.io host
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph.io host: %w", err)
	}

	// 2. Defaults
	if c.Port == "" {
		c.Port = "/dev/ttyS0"
	}
	if c.Baud == 0 {
		c.Baud = 115200
	}

	// 3. Open the UART port
	p, err := uartreg.Open(c.Port)
	if err != nil {
		return nil, fmt.Errorf("failed to open UART port: %w", err)
	}

	// 4. Create the connection (8N1)
	cn, err := p.Connect(physic.Frequency(c.Baud)*physic.Hertz, uart.One, uart.NoParity, uart.NoFlow, 8)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to configure UART port: %w", err)
	}

	return &UARTSink{conn: cn, port: p}, nil
}

// Write implements Sink.
func (s *UARTSink) Write(p []byte) error {
	return s.conn.Tx(p, nil)
}

// Close releases the underlying UART port.
func (s *UARTSink) Close() error {
	return s.port.Close()
}
