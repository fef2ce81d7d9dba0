//go:build tinygo

package binlog

import (
	"machine"
)

// SerialSink sends record bytes over the default TinyGo serial interface.
// machine.Serial writes directly, so no buffering or fmt overhead is pulled
// into the image.
type SerialSink struct{}

// NewSerialSink configures machine.Serial at the given baud rate and returns
// a Sink writing to it. A zero baud rate keeps the current configuration.
func NewSerialSink(baud uint32) *SerialSink {
	if baud != 0 {
		machine.Serial.Configure(machine.UARTConfig{BaudRate: baud})
	}
	return &SerialSink{}
}

// Write implements Sink.
func (s *SerialSink) Write(p []byte) error {
	_, err := machine.Serial.Write(p)
	return err
}
