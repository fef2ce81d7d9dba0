// Package elfsym rebuilds the reference table from an unstripped build
// artifact.
//
// Artifact contract. Format strings live in one strippable output section,
// partitioned into five severity regions laid out in Error, Warn, Info,
// Debug, Trace order. The linker script brackets each region with explicit
// boundary symbols:
//
//	.binlog 0 (INFO) : {
//	    __binlog_error_start = .;
//	    *(.binlog.error*);
//	    __binlog_error_end = .;
//
//	    __binlog_warn_start = .;
//	    *(.binlog.warn*);
//	    __binlog_warn_end = .;
//
//	    /* info, debug, trace likewise */
//	}
//	ASSERT(SIZEOF(.binlog) <= 256, "too many distinct log strings");
//
// Two storage encodings are recognized:
//
//   - Symbol mode: every format string is the NAME of a one-byte symbol
//     placed inside its region, so the string itself occupies no image
//     space at all. The reference is the symbol's address minus the region
//     start, which equals its ordinal position.
//
//   - Packed mode: a ".binlog.<level>" section holds the strings as
//     NUL-terminated data. The reference is the string's ordinal position.
//     This is the fallback for toolchains that cannot emit arbitrary symbol
//     names.
//
// Both encodings yield identical tables for the same logical content. The
// section is dead weight at runtime and is stripped before flashing; the
// decoder needs the unstripped image.
package elfsym

import (
	"bytes"
	"debug/elf"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/michcald/binlog"
	"github.com/michcald/binlog/table"
)

var (
	ErrNoRegions = errors.New("no binlog regions in artifact")
	ErrLayout    = errors.New("inconsistent region layout")
)

// boundaryPrefix is reserved: no format string symbol may start with it.
const boundaryPrefix = "__binlog_"

// levelNames in region order; boundary symbols and packed section names
// derive from these.
var levelNames = [binlog.NumLevels]string{"error", "warn", "info", "debug", "trace"}

// Load opens the artifact at path and rebuilds its table.
func Load(path string) (*table.Table, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read rebuilds the table from an already-open ELF image. Symbol mode is
// tried first; an image without boundary symbols falls back to packed mode;
// an image with neither is rejected. The result is immutable and safe to
// share between any number of decoders.
func Read(f *elf.File) (*table.Table, error) {
	t, err := readSymbols(f)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, ErrNoRegions) {
		return nil, err
	}
	return readPacked(f)
}

type region struct {
	start, end uint64
	hasStart   bool
	hasEnd     bool
}

func readSymbols(f *elf.File) (*table.Table, error) {
	syms, err := f.Symbols()
	if err != nil {
		if errors.Is(err, elf.ErrNoSymbols) {
			return nil, ErrNoRegions
		}
		return nil, fmt.Errorf("read symbols: %w", err)
	}

	// Region boundaries from the well-known start/end symbols.
	var regions [binlog.NumLevels]region
	for _, s := range syms {
		if !strings.HasPrefix(s.Name, boundaryPrefix) {
			continue
		}
		rest := s.Name[len(boundaryPrefix):]
		for l, name := range levelNames {
			switch rest {
			case name + "_start":
				regions[l].start = s.Value
				regions[l].hasStart = true
			case name + "_end":
				regions[l].end = s.Value
				regions[l].hasEnd = true
			}
		}
	}

	found := false
	for l := range regions {
		r := regions[l]
		if r.hasStart != r.hasEnd {
			return nil, fmt.Errorf("%w: region %q has only one boundary symbol", ErrLayout, levelNames[l])
		}
		if r.hasStart {
			found = true
			if r.end < r.start {
				return nil, fmt.Errorf("%w: region %q ends before it starts", ErrLayout, levelNames[l])
			}
		}
	}
	if !found {
		return nil, ErrNoRegions
	}

	// Every named non-boundary symbol inside a region is a format string.
	var entries [binlog.NumLevels][]elf.Symbol
	for _, s := range syms {
		if s.Name == "" || strings.HasPrefix(s.Name, boundaryPrefix) {
			continue
		}
		for l := range regions {
			r := regions[l]
			if r.hasStart && s.Value >= r.start && s.Value < r.end {
				entries[l] = append(entries[l], s)
				break
			}
		}
	}

	t := &table.Table{}
	for l := range entries {
		sort.Slice(entries[l], func(i, j int) bool {
			return entries[l][i].Value < entries[l][j].Value
		})
		for i, s := range entries[l] {
			// Entries are one byte each, so addresses must be contiguous
			// from the region start. A gap means the image was not laid out
			// per the contract above.
			if s.Value != regions[l].start+uint64(i) {
				return nil, fmt.Errorf("%w: %q at 0x%x, expected 0x%x",
					ErrLayout, s.Name, s.Value, regions[l].start+uint64(i))
			}
			if _, err := t.Add(binlog.Level(l), s.Name); err != nil && !errors.Is(err, table.ErrBadPlaceholder) {
				return nil, fmt.Errorf("region %q: %w", levelNames[l], err)
			}
		}
	}
	return t, nil
}

func readPacked(f *elf.File) (*table.Table, error) {
	t := &table.Table{}
	found := false
	for l := binlog.LevelError; l <= binlog.LevelTrace; l++ {
		sec := f.Section(".binlog." + levelNames[l])
		if sec == nil {
			continue
		}
		found = true

		data, err := sec.Data()
		if err != nil {
			return nil, fmt.Errorf("read section %s: %w", sec.Name, err)
		}
		// Trailing NULs are section padding; embedded empty strings are not
		// representable in this mode.
		data = bytes.TrimRight(data, "\x00")
		if len(data) == 0 {
			continue
		}
		for _, raw := range bytes.Split(data, []byte{0}) {
			if len(raw) == 0 {
				return nil, fmt.Errorf("%w: empty entry in section %s", ErrLayout, sec.Name)
			}
			if _, err := t.Add(l, string(raw)); err != nil && !errors.Is(err, table.ErrBadPlaceholder) {
				return nil, fmt.Errorf("section %s: %w", sec.Name, err)
			}
		}
	}
	if !found {
		return nil, ErrNoRegions
	}
	return t, nil
}
