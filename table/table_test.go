package table

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michcald/binlog"
)

func TestParseFormat(t *testing.T) {
	kinds, err := ParseFormat("temp {u16} C, drift {f32}, tag {str}")
	require.NoError(t, err)
	assert.Equal(t, []binlog.Kind{binlog.KindU16, binlog.KindF32, binlog.KindStr}, kinds)

	kinds, err = ParseFormat("no placeholders here")
	require.NoError(t, err)
	assert.Empty(t, kinds)

	kinds, err = ParseFormat("literal {{braces}} and {i64}")
	require.NoError(t, err)
	assert.Equal(t, []binlog.Kind{binlog.KindI64}, kinds)
}

func TestParseFormatMalformed(t *testing.T) {
	for _, format := range []string{
		"unknown {u128} width",
		"unterminated {u8",
		"stray } brace",
		"{ }",
		"{}",
	} {
		_, err := ParseFormat(format)
		assert.ErrorIs(t, err, ErrBadPlaceholder, "format %q", format)
	}
}

func TestAddAssignsRegionOrdinals(t *testing.T) {
	tab := &Table{}

	ref, err := tab.Add(binlog.LevelInfo, "first {u8}")
	require.NoError(t, err)
	assert.Equal(t, uint8(0), ref)

	ref, err = tab.Add(binlog.LevelInfo, "second")
	require.NoError(t, err)
	assert.Equal(t, uint8(1), ref)

	// References are per region, not global.
	ref, err = tab.Add(binlog.LevelError, "boot failed")
	require.NoError(t, err)
	assert.Equal(t, uint8(0), ref)

	assert.Equal(t, 3, tab.Len())
	assert.Equal(t, 2, tab.LevelLen(binlog.LevelInfo))
	assert.Equal(t, 0, tab.LevelLen(binlog.LevelTrace))

	e, ok := tab.Lookup(binlog.LevelInfo, 0)
	require.True(t, ok)
	assert.Equal(t, "first {u8}", e.Format)
	assert.Equal(t, []binlog.Kind{binlog.KindU8}, e.Kinds)

	_, ok = tab.Lookup(binlog.LevelInfo, 2)
	assert.False(t, ok)
	_, ok = tab.Lookup(binlog.Level(7), 0)
	assert.False(t, ok)
}

func TestEntryCap(t *testing.T) {
	tab := &Table{}
	for i := 0; i < MaxEntries; i++ {
		level := binlog.Level(i % binlog.NumLevels)
		_, err := tab.Add(level, fmt.Sprintf("entry %d", i))
		require.NoError(t, err)
	}
	require.Equal(t, MaxEntries, tab.Len())

	_, err := tab.Add(binlog.LevelError, "one too many")
	assert.ErrorIs(t, err, ErrTooManyEntries)
	assert.Equal(t, MaxEntries, tab.Len())
}

func TestMalformedEntryKeepsPosition(t *testing.T) {
	tab := &Table{}

	ref, err := tab.Add(binlog.LevelWarn, "broken {nope}")
	assert.ErrorIs(t, err, ErrBadPlaceholder)
	assert.Equal(t, uint8(0), ref)

	ref, err = tab.Add(binlog.LevelWarn, "fine {u8}")
	require.NoError(t, err)
	assert.Equal(t, uint8(1), ref, "malformed entry must still claim its reference")

	e, ok := tab.Lookup(binlog.LevelWarn, 0)
	require.True(t, ok)
	assert.Error(t, e.Err)

	bad := tab.Bad()
	require.Len(t, bad, 1)
	assert.Equal(t, binlog.LevelWarn, bad[0].Level)
	assert.Equal(t, uint8(0), bad[0].Ref)
	assert.Equal(t, "broken {nope}", bad[0].Format)
}

func TestSidecarRoundTrip(t *testing.T) {
	tab := &Table{}
	_, err := tab.Add(binlog.LevelError, "sensor read failed, code {i16}")
	require.NoError(t, err)
	_, err = tab.Add(binlog.LevelInfo, "booted, firmware {str}")
	require.NoError(t, err)
	_, err = tab.Add(binlog.LevelInfo, "temperature: {u16} C")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tab.Save(&buf))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	require.Equal(t, tab.Len(), loaded.Len())

	for l := binlog.LevelError; l <= binlog.LevelTrace; l++ {
		require.Equal(t, tab.LevelLen(l), loaded.LevelLen(l), "level %s", l)
		for ref := 0; ref < tab.LevelLen(l); ref++ {
			want, _ := tab.Lookup(l, uint8(ref))
			got, ok := loaded.Lookup(l, uint8(ref))
			require.True(t, ok)
			assert.Equal(t, want.Format, got.Format)
			assert.Equal(t, want.Kinds, got.Kinds)
		}
	}
}

func TestLoadRejectsUnknownLevel(t *testing.T) {
	_, err := Load(bytes.NewBufferString(`
[[entry]]
level = "fatal"
format = "no such region"
`))
	assert.ErrorIs(t, err, ErrBadLevel)
}

func TestLoadKeepsMalformedEntries(t *testing.T) {
	tab, err := Load(bytes.NewBufferString(`
[[entry]]
level = "info"
format = "bad {marker}"

[[entry]]
level = "info"
format = "good {u8}"
`))
	require.NoError(t, err)
	require.Equal(t, 2, tab.Len())

	e, ok := tab.Lookup(binlog.LevelInfo, 0)
	require.True(t, ok)
	assert.Error(t, e.Err)

	e, ok = tab.Lookup(binlog.LevelInfo, 1)
	require.True(t, ok)
	assert.NoError(t, e.Err)
}
