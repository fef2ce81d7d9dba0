// Command binlogcat decodes a binary log record stream against the build
// artifact that produced it.
//
//	cat /dev/ttyUSB0 | binlogcat -e firmware.elf
//	binlogcat -t strings.toml capture.bin
//
// The artifact must be the unstripped image of the exact build that emitted
// the stream. The wire protocol cannot detect a mismatch; it surfaces as
// decode faults or, worse, as wrong but plausible lines.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/michcald/binlog/decode"
	"github.com/michcald/binlog/elfsym"
	"github.com/michcald/binlog/table"
)

func main() {
	elfPath := flag.String("e", "", "unstripped ELF artifact holding the .binlog regions")
	tablePath := flag.String("t", "", "TOML string table sidecar (alternative to -e)")
	flag.Usage = usage
	flag.Parse()

	if err := run(*elfPath, *tablePath, flag.Arg(0), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "binlogcat: %v\n", err)
		os.Exit(1)
	}
}

func run(elfPath, tablePath, streamPath string, out io.Writer) error {
	tab, err := loadTable(elfPath, tablePath)
	if err != nil {
		return err
	}
	for _, bad := range tab.Bad() {
		fmt.Fprintf(os.Stderr, "binlogcat: unusable entry %s[%d] %q: %v\n",
			bad.Level, bad.Ref, bad.Format, bad.Err)
	}

	in := os.Stdin
	if streamPath != "" && streamPath != "-" {
		f, err := os.Open(streamPath)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	d := decode.NewDecoder(tab, in)
	for {
		rec, err := d.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-5s %s\n", rec.Level, rec.Text())
	}
}

func loadTable(elfPath, tablePath string) (*table.Table, error) {
	switch {
	case elfPath != "" && tablePath != "":
		return nil, errors.New("-e and -t are mutually exclusive")
	case elfPath != "":
		return elfsym.Load(elfPath)
	case tablePath != "":
		f, err := os.Open(tablePath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return table.Load(f)
	default:
		return nil, errors.New("one of -e or -t is required")
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: binlogcat (-e artifact.elf | -t table.toml) [stream]

Decodes a binary log record stream (a file, or stdin when no stream is
given) into text lines using the format strings retained in the build
artifact. Pair the stream with the unstripped artifact of the exact build
that produced it; decoding stops with the byte offset at the first record
that cannot be resolved.

`)
	flag.PrintDefaults()
}
