// Package binlog is the device half of a deferred-formatting logging
// framework for targets whose flash and RAM budget forbids carrying format
// strings in the deployed image.
//
// A call site never writes text. It writes a tiny binary record into a Sink:
// one severity byte, one reference byte, then the arguments back to back in
// a fixed-width little-endian encoding with no padding and no type tags.
// The format strings themselves live only in the build artifact, partitioned
// into five severity regions; the reference is the call site's ordinal
// position within its region. The host-side packages (elfsym, decode) and
// the binlogcat tool rebuild the text by joining the record stream with the
// unstripped artifact.
package binlog

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrPkg  = errors.New("binlog")
	ErrSink = errors.New("sink write failed")
)

// Level is the severity of a log record. The numeric values are part of the
// wire format and double as the region index inside the build artifact:
// regions are laid out in exactly this order.
type Level byte

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// NumLevels is the number of wire severities and artifact regions.
const NumLevels = 5

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelTrace:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether l is one of the five wire severities.
func (l Level) Valid() bool {
	return l < NumLevels
}

// Enabled reports whether call sites at level l are compiled in. maxLevel is
// a build-tag constant (see the maxlevel-* files), so gated call sites fold
// to nothing at compile time: no code, no record, and no string in the
// artifact region.
func Enabled(l Level) bool {
	return int8(l) <= maxLevel
}

// maxStrBytes is the longest string or byte payload one argument can carry;
// the wire length prefix is a single byte. Longer payloads are truncated
// rather than failed.
const maxStrBytes = 255

// Logger encodes log records and writes them to a Sink.
//
// The emission of one record is a single critical section: records from
// concurrent callers (including interrupt-context callers on targets where
// that applies) never interleave on the wire. The decoder depends on this.
type Logger struct {
	mu      sync.Mutex
	sink    Sink
	scratch [8]byte // header pair or one numeric argument
}

// New creates a Logger writing records to sink. A nil sink discards records.
func New(sink Sink) *Logger {
	if sink == nil {
		sink = nopSink{}
	}
	return &Logger{sink: sink}
}

// Emit writes one record: the severity byte, the reference byte, then each
// argument in the exact left-to-right order of the format string's
// placeholders. A sink failure abandons the rest of the record with no
// retry; a partially written tail is the transport's problem, not a reason
// to block or panic here.
// This method is concurrent safe.
func (l *Logger) Emit(level Level, ref uint8, args ...Arg) error {
	if !Enabled(level) {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.scratch[0] = byte(level)
	l.scratch[1] = ref
	if err := l.sink.Write(l.scratch[:2]); err != nil {
		return fmt.Errorf("%w: %w: %w", ErrPkg, ErrSink, err)
	}
	for _, a := range args {
		if err := l.writeArg(a); err != nil {
			return err
		}
	}
	return nil
}

func (l *Logger) writeArg(a Arg) error {
	if a.kind == KindStr {
		s := a.str
		if len(s) > maxStrBytes {
			s = s[:maxStrBytes]
		}
		l.scratch[0] = byte(len(s))
		if err := l.sink.Write(l.scratch[:1]); err != nil {
			return fmt.Errorf("%w: %w: %w", ErrPkg, ErrSink, err)
		}
		if len(s) == 0 {
			return nil
		}
		if err := l.sink.Write([]byte(s)); err != nil {
			return fmt.Errorf("%w: %w: %w", ErrPkg, ErrSink, err)
		}
		return nil
	}

	binary.LittleEndian.PutUint64(l.scratch[:], a.num)
	if err := l.sink.Write(l.scratch[:a.kind.Width()]); err != nil {
		return fmt.Errorf("%w: %w: %w", ErrPkg, ErrSink, err)
	}
	return nil
}

// Error emits a record at the Error level.
// This method is concurrent safe.
func (l *Logger) Error(ref uint8, args ...Arg) error {
	if !Enabled(LevelError) {
		return nil
	}
	return l.Emit(LevelError, ref, args...)
}

// Warn emits a record at the Warn level.
// This method is concurrent safe.
func (l *Logger) Warn(ref uint8, args ...Arg) error {
	if !Enabled(LevelWarn) {
		return nil
	}
	return l.Emit(LevelWarn, ref, args...)
}

// Info emits a record at the Info level.
// This method is concurrent safe.
func (l *Logger) Info(ref uint8, args ...Arg) error {
	if !Enabled(LevelInfo) {
		return nil
	}
	return l.Emit(LevelInfo, ref, args...)
}

// Debug emits a record at the Debug level.
// This method is concurrent safe.
func (l *Logger) Debug(ref uint8, args ...Arg) error {
	if !Enabled(LevelDebug) {
		return nil
	}
	return l.Emit(LevelDebug, ref, args...)
}

// Trace emits a record at the Trace level.
// This method is concurrent safe.
func (l *Logger) Trace(ref uint8, args ...Arg) error {
	if !Enabled(LevelTrace) {
		return nil
	}
	return l.Emit(LevelTrace, ref, args...)
}
