package table

import (
	"errors"
	"fmt"
	"strings"

	"github.com/michcald/binlog"
)

var ErrBadPlaceholder = errors.New("malformed placeholder")

// kindNames maps a marker body to its kind.
var kindNames = map[string]binlog.Kind{
	"u8":  binlog.KindU8,
	"u16": binlog.KindU16,
	"u32": binlog.KindU32,
	"u64": binlog.KindU64,
	"i8":  binlog.KindI8,
	"i16": binlog.KindI16,
	"i32": binlog.KindI32,
	"i64": binlog.KindI64,
	"f32": binlog.KindF32,
	"f64": binlog.KindF64,
	"str": binlog.KindStr,
}

// ParseFormat extracts the ordered placeholder kinds from a format string.
// Markers are "{u8}" through "{f64}" and "{str}"; "{{" and "}}" are literal
// braces. Any other use of braces is malformed: the decoder trusts this list
// byte for byte, so it must never be guessed.
func ParseFormat(format string) ([]binlog.Kind, error) {
	var kinds []binlog.Kind
	for i := 0; i < len(format); {
		switch format[i] {
		case '}':
			if i+1 < len(format) && format[i+1] == '}' {
				i += 2
				continue
			}
			return nil, fmt.Errorf("%w: unmatched '}' at index %d in %q", ErrBadPlaceholder, i, format)
		case '{':
			if i+1 < len(format) && format[i+1] == '{' {
				i += 2
				continue
			}
			end := strings.IndexByte(format[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated '{' at index %d in %q", ErrBadPlaceholder, i, format)
			}
			name := format[i+1 : i+end]
			kind, ok := kindNames[name]
			if !ok {
				return nil, fmt.Errorf("%w: unknown marker {%s} in %q", ErrBadPlaceholder, name, format)
			}
			kinds = append(kinds, kind)
			i += end + 1
		default:
			i++
		}
	}
	return kinds, nil
}
