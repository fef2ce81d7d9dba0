package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michcald/binlog"
	"github.com/michcald/binlog/table"
)

func writeFixtures(t *testing.T) (tablePath, streamPath string) {
	t.Helper()
	dir := t.TempDir()

	tab := &table.Table{}
	bootRef, err := tab.Add(binlog.LevelError, "boot failed")
	require.NoError(t, err)
	tempRef, err := tab.Add(binlog.LevelInfo, "temperature: {u16} C")
	require.NoError(t, err)

	var sidecar bytes.Buffer
	require.NoError(t, tab.Save(&sidecar))
	tablePath = filepath.Join(dir, "strings.toml")
	require.NoError(t, os.WriteFile(tablePath, sidecar.Bytes(), 0o644))

	var stream bytes.Buffer
	l := binlog.New(binlog.NewWriterSink(&stream))
	require.NoError(t, l.Info(tempRef, binlog.U16(42)))
	require.NoError(t, l.Error(bootRef))
	streamPath = filepath.Join(dir, "capture.bin")
	require.NoError(t, os.WriteFile(streamPath, stream.Bytes(), 0o644))
	return tablePath, streamPath
}

func TestRunDecodesStream(t *testing.T) {
	tablePath, streamPath := writeFixtures(t)

	var out bytes.Buffer
	require.NoError(t, run("", tablePath, streamPath, &out))
	assert.Equal(t, "INFO  temperature: 42 C\nERROR boot failed\n", out.String())
}

func TestRunFailsOnDecodeFault(t *testing.T) {
	tablePath, streamPath := writeFixtures(t)

	// Append a record with a reference the table cannot resolve.
	f, err := os.OpenFile(streamPath, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.Write([]byte{byte(binlog.LevelInfo), 0x55})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	var out bytes.Buffer
	err = run("", tablePath, streamPath, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offset")
	// Lines before the fault were already emitted.
	assert.Contains(t, out.String(), "temperature: 42 C")
}

func TestLoadTableFlagValidation(t *testing.T) {
	_, err := loadTable("", "")
	assert.Error(t, err)
	_, err = loadTable("a.elf", "b.toml")
	assert.Error(t, err)
}
