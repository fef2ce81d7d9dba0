package binlog

// Sink represents a generic byte transport for encoded records: a UART, a
// semihosting channel, an in-memory buffer.
type Sink interface {
	// Write sends p over the transport.
	// Implementations must not retain p. A failed write makes the encoder
	// abandon the rest of the current record.
	Write(p []byte) error
}

// nopSink discards every record.
type nopSink struct{}

func (nopSink) Write([]byte) error { return nil }
