// Package table models the host-side string table of a build artifact: per
// severity region, the ordered list of format strings and their parsed
// placeholder kinds, addressed by reference.
//
// The zero Table is empty and ready for Add. Once built (by Add, Load or the
// elfsym package) a Table is never mutated, so any number of decoders may
// share one without synchronization.
package table

import (
	"errors"
	"fmt"

	"github.com/michcald/binlog"
)

// MaxEntries caps the total number of distinct format strings across all
// five regions. It matches the one-byte reference width; the linker script
// asserts the same bound at build time so a violating image never reaches a
// device.
const MaxEntries = 256

var (
	ErrTooManyEntries = errors.New("more than 256 format strings")
	ErrBadLevel       = errors.New("invalid level")
)

// Entry is one format string with its parsed placeholder kinds. An entry
// with a non-nil Err is malformed: it holds its reference position so later
// references stay aligned with the artifact, but decoding through it fails.
type Entry struct {
	Format string
	Kinds  []binlog.Kind
	Err    error
}

// BadEntry identifies a malformed entry for reporting.
type BadEntry struct {
	Level  binlog.Level
	Ref    uint8
	Format string
	Err    error
}

// Table maps (level, reference) to format string entries.
type Table struct {
	levels [binlog.NumLevels][]Entry
}

// Add appends format to level's region and returns its reference, the
// ordinal position within that region. Malformed placeholder syntax still
// claims a reference; the entry is recorded as unusable and the parse error
// returned.
func (t *Table) Add(level binlog.Level, format string) (uint8, error) {
	if !level.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrBadLevel, level)
	}
	if t.Len() >= MaxEntries {
		return 0, fmt.Errorf("%w: %q does not fit", ErrTooManyEntries, format)
	}

	// Len() < 256 bounds every region, so the ordinal fits a byte.
	ref := uint8(len(t.levels[level]))
	kinds, err := ParseFormat(format)
	if err != nil {
		t.levels[level] = append(t.levels[level], Entry{Format: format, Err: err})
		return ref, err
	}
	t.levels[level] = append(t.levels[level], Entry{Format: format, Kinds: kinds})
	return ref, nil
}

// Lookup resolves (level, ref) to its entry.
func (t *Table) Lookup(level binlog.Level, ref uint8) (*Entry, bool) {
	if !level.Valid() || int(ref) >= len(t.levels[level]) {
		return nil, false
	}
	return &t.levels[level][ref], true
}

// Len returns the total number of entries across all regions.
func (t *Table) Len() int {
	n := 0
	for i := range t.levels {
		n += len(t.levels[i])
	}
	return n
}

// LevelLen returns the number of entries in one region.
func (t *Table) LevelLen(level binlog.Level) int {
	if !level.Valid() {
		return 0
	}
	return len(t.levels[level])
}

// Bad returns every malformed entry, in region order.
func (t *Table) Bad() []BadEntry {
	var bad []BadEntry
	for l := range t.levels {
		for ref, e := range t.levels[l] {
			if e.Err != nil {
				bad = append(bad, BadEntry{
					Level:  binlog.Level(l),
					Ref:    uint8(ref),
					Format: e.Format,
					Err:    e.Err,
				})
			}
		}
	}
	return bad
}
