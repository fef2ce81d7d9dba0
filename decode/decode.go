// Package decode turns a stream of binary log records back into text lines
// by resolving each record's (severity, reference) pair through a table and
// deserializing the arguments the resolved placeholder list declares.
//
// The wire carries no framing and no length prefixes, so where one record
// ends is only knowable by decoding it. A fault therefore aborts the whole
// stream at the reported byte offset: there is no safe way to resynchronize,
// and guessing would silently misattribute every following byte.
package decode

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/michcald/binlog"
	"github.com/michcald/binlog/table"
)

var (
	ErrBadLevel   = errors.New("invalid severity byte")
	ErrUnknownRef = errors.New("unresolvable reference")
	ErrBadEntry   = errors.New("reference resolves to a malformed format string")
	ErrTruncated  = errors.New("record truncated")
)

// Value is one decoded argument. Signed kinds are stored sign-extended.
type Value struct {
	Kind binlog.Kind
	num  uint64
	str  string
}

// Uint returns the value of an unsigned integer kind.
func (v Value) Uint() uint64 { return v.num }

// Int returns the value of a signed integer kind.
func (v Value) Int() int64 { return int64(v.num) }

// Float returns the value of a floating-point kind.
func (v Value) Float() float64 {
	if v.Kind == binlog.KindF32 {
		return float64(math.Float32frombits(uint32(v.num)))
	}
	return math.Float64frombits(v.num)
}

// Str returns the payload of a string kind.
func (v Value) Str() string { return v.str }

// String renders the value the way Record.Text substitutes it.
func (v Value) String() string {
	switch {
	case v.Kind == binlog.KindStr:
		return v.str
	case v.Kind.Signed():
		return strconv.FormatInt(v.Int(), 10)
	case v.Kind == binlog.KindF32:
		return strconv.FormatFloat(v.Float(), 'g', -1, 32)
	case v.Kind == binlog.KindF64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	default:
		return strconv.FormatUint(v.num, 10)
	}
}

// Record is one decoded log record.
type Record struct {
	Level  binlog.Level
	Ref    uint8
	Format string
	Args   []Value
}

// Text assembles the output line: the format string with every placeholder
// replaced by its argument in order, escaped braces unescaped. The format
// was validated when the table was built, so the scan cannot fail.
func (r *Record) Text() string {
	if len(r.Args) == 0 && !strings.ContainsAny(r.Format, "{}") {
		return r.Format
	}
	var b strings.Builder
	b.Grow(len(r.Format))
	arg := 0
	for i := 0; i < len(r.Format); {
		c := r.Format[i]
		switch c {
		case '{':
			if i+1 < len(r.Format) && r.Format[i+1] == '{' {
				b.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(r.Format[i:], '}')
			b.WriteString(r.Args[arg].String())
			arg++
			i += end + 1
		case '}':
			b.WriteByte('}')
			i += 2
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// Decoder reads records from a byte stream one at a time. Decoding is
// strictly sequential and a Decoder must not be shared between goroutines,
// but any number of Decoders may share one Table.
type Decoder struct {
	tab *table.Table
	r   *bufio.Reader
	off int64
}

// NewDecoder returns a Decoder consuming r against tab.
func NewDecoder(tab *table.Table, r io.Reader) *Decoder {
	return &Decoder{tab: tab, r: bufio.NewReader(r)}
}

// Offset returns the number of stream bytes consumed so far.
func (d *Decoder) Offset() int64 { return d.off }

// Next decodes one record. It returns io.EOF when the stream ends cleanly
// at a record boundary; any other fault is terminal for the stream.
func (d *Decoder) Next() (*Record, error) {
	start := d.off

	sev, err := d.readByte()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read severity at offset %d: %w", start, err)
	}
	level := binlog.Level(sev)
	if !level.Valid() {
		return nil, fmt.Errorf("%w: 0x%02x at offset %d", ErrBadLevel, sev, start)
	}

	ref, err := d.readByte()
	if err != nil {
		return nil, fmt.Errorf("%w: missing reference byte at offset %d", ErrTruncated, d.off)
	}

	entry, ok := d.tab.Lookup(level, ref)
	if !ok {
		return nil, fmt.Errorf("%w: %s[%d] at offset %d", ErrUnknownRef, level, ref, start)
	}
	if entry.Err != nil {
		return nil, fmt.Errorf("%w: %s[%d] at offset %d: %v", ErrBadEntry, level, ref, start, entry.Err)
	}

	rec := &Record{Level: level, Ref: ref, Format: entry.Format}
	if len(entry.Kinds) > 0 {
		rec.Args = make([]Value, 0, len(entry.Kinds))
	}
	for _, k := range entry.Kinds {
		v, err := d.readValue(k)
		if err != nil {
			return nil, fmt.Errorf("%w: %s argument of %s[%d] at offset %d",
				ErrTruncated, k, level, ref, d.off)
		}
		rec.Args = append(rec.Args, v)
	}
	return rec, nil
}

func (d *Decoder) readByte() (byte, error) {
	b, err := d.r.ReadByte()
	if err == nil {
		d.off++
	}
	return b, err
}

func (d *Decoder) readFull(p []byte) error {
	n, err := io.ReadFull(d.r, p)
	d.off += int64(n)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func (d *Decoder) readValue(k binlog.Kind) (Value, error) {
	if k == binlog.KindStr {
		n, err := d.readByte()
		if err != nil {
			return Value{}, io.ErrUnexpectedEOF
		}
		buf := make([]byte, int(n))
		if err := d.readFull(buf); err != nil {
			return Value{}, err
		}
		return Value{Kind: k, str: string(buf)}, nil
	}

	var scratch [8]byte
	w := k.Width()
	if err := d.readFull(scratch[:w]); err != nil {
		return Value{}, err
	}
	num := binary.LittleEndian.Uint64(scratch[:])
	if k.Signed() {
		shift := 64 - 8*uint(w)
		num = uint64(int64(num<<shift) >> shift)
	}
	return Value{Kind: k, num: num}, nil
}
