package table

import (
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/michcald/binlog"
)

// The TOML sidecar is the table flavor for build pipelines that cannot carry
// the ELF symbol contract (TinyGo images, non-ELF targets): entries appear
// in region order and references are reassigned by position on load, so a
// sidecar saved from a table reproduces it exactly.

type tomlEntry struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type tomlFile struct {
	Entry []tomlEntry `toml:"entry"`
}

var levelNames = map[string]binlog.Level{
	"error": binlog.LevelError,
	"warn":  binlog.LevelWarn,
	"info":  binlog.LevelInfo,
	"debug": binlog.LevelDebug,
	"trace": binlog.LevelTrace,
}

func levelName(l binlog.Level) string {
	switch l {
	case binlog.LevelError:
		return "error"
	case binlog.LevelWarn:
		return "warn"
	case binlog.LevelInfo:
		return "info"
	case binlog.LevelDebug:
		return "debug"
	default:
		return "trace"
	}
}

// Save writes the table as a TOML sidecar.
func (t *Table) Save(w io.Writer) error {
	var f tomlFile
	for l := binlog.LevelError; l <= binlog.LevelTrace; l++ {
		for _, e := range t.levels[l] {
			f.Entry = append(f.Entry, tomlEntry{Level: levelName(l), Format: e.Format})
		}
	}
	return toml.NewEncoder(w).Encode(f)
}

// Load reads a TOML sidecar produced by Save (or written by hand) and builds
// the table, re-running the placeholder parser and the entry cap check.
// Malformed placeholder syntax keeps its reference slot and is reported via
// Bad(); everything else fails the load.
func Load(r io.Reader) (*Table, error) {
	var f tomlFile
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("sidecar: %w", err)
	}

	t := &Table{}
	for i, e := range f.Entry {
		level, ok := levelNames[e.Level]
		if !ok {
			return nil, fmt.Errorf("sidecar: entry %d: %w: %q", i, ErrBadLevel, e.Level)
		}
		if _, err := t.Add(level, e.Format); err != nil && !errors.Is(err, ErrBadPlaceholder) {
			return nil, fmt.Errorf("sidecar: entry %d: %w", i, err)
		}
	}
	return t, nil
}
