package binlog

import (
	"math"
)

// Kind identifies the wire type of one argument, and equally of one format
// string placeholder. The decoder derives how many bytes to consume from the
// kind alone, so every kind has a fixed width except KindStr, whose payload
// carries a one-byte length prefix.
type Kind byte

const (
	KindU8 Kind = iota
	KindU16
	KindU32
	KindU64
	KindI8
	KindI16
	KindI32
	KindI64
	KindF32
	KindF64
	KindStr
)

// Width returns the number of payload bytes the kind occupies on the wire,
// or -1 for KindStr.
func (k Kind) Width() int {
	switch k {
	case KindU8, KindI8:
		return 1
	case KindU16, KindI16:
		return 2
	case KindU32, KindI32, KindF32:
		return 4
	case KindU64, KindI64, KindF64:
		return 8
	case KindStr:
		return -1
	default:
		return 0
	}
}

// Signed reports whether the kind is a two's-complement integer.
func (k Kind) Signed() bool {
	switch k {
	case KindI8, KindI16, KindI32, KindI64:
		return true
	default:
		return false
	}
}

// String returns the placeholder marker for the kind, e.g. "{u16}".
func (k Kind) String() string {
	switch k {
	case KindU8:
		return "{u8}"
	case KindU16:
		return "{u16}"
	case KindU32:
		return "{u32}"
	case KindU64:
		return "{u64}"
	case KindI8:
		return "{i8}"
	case KindI16:
		return "{i16}"
	case KindI32:
		return "{i32}"
	case KindI64:
		return "{i64}"
	case KindF32:
		return "{f32}"
	case KindF64:
		return "{f64}"
	case KindStr:
		return "{str}"
	default:
		return "{?}"
	}
}

// Arg is one typed argument of a record. Construct it with the typed
// helpers below; there is no interface{} path and no reflection, the kind is
// fixed at the call site.
type Arg struct {
	kind Kind
	num  uint64
	str  string
}

// Kind returns the wire type of the argument.
func (a Arg) Kind() Kind {
	return a.kind
}

func U8(v uint8) Arg   { return Arg{kind: KindU8, num: uint64(v)} }
func U16(v uint16) Arg { return Arg{kind: KindU16, num: uint64(v)} }
func U32(v uint32) Arg { return Arg{kind: KindU32, num: uint64(v)} }
func U64(v uint64) Arg { return Arg{kind: KindU64, num: v} }

func I8(v int8) Arg   { return Arg{kind: KindI8, num: uint64(v)} }
func I16(v int16) Arg { return Arg{kind: KindI16, num: uint64(v)} }
func I32(v int32) Arg { return Arg{kind: KindI32, num: uint64(v)} }
func I64(v int64) Arg { return Arg{kind: KindI64, num: uint64(v)} }

func F32(v float32) Arg { return Arg{kind: KindF32, num: uint64(math.Float32bits(v))} }
func F64(v float64) Arg { return Arg{kind: KindF64, num: math.Float64bits(v)} }

// Str logs a string payload. Payloads over 255 bytes are truncated on the
// wire.
func Str(s string) Arg { return Arg{kind: KindStr, str: s} }

// Bytes logs a raw byte payload. It shares the wire encoding of Str.
func Bytes(b []byte) Arg { return Arg{kind: KindStr, str: string(b)} }
