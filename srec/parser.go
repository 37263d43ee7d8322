// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

// Package srec parses Motorola S-Record firmware images into validated,
// checksummed, contiguous binary images ready for transfer.
//
// Parsing is strict: the first malformed line aborts the whole parse, and
// no partial image is ever produced. A corrupt image must never reach the
// printer.
package srec

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseError reports the first malformed line of an image.
type ParseError struct {
	Reason string
	Line   int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("s-record line %d: %s", e.Line, e.Reason)
}

func parseErrorf(line int, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Reason: fmt.Sprintf(format, args...)}
}

// Option configures the parser.
type Option func(*config)

type config struct {
	gapFill   byte
	allowGaps bool
}

// WithGapFill permits gaps between data segments, filling them with fill
// in the flattened image. Without this option any address gap or overlap
// is a parse error; the DS620A image format is not documented either way,
// so the conservative default is to reject.
func WithGapFill(fill byte) Option {
	return func(c *config) {
		c.allowGaps = true
		c.gapFill = fill
	}
}

// ParseFile parses an S-Record image from a file on disk.
func ParseFile(path string, opts ...Option) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open firmware image: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f, opts...)
}

// Parse consumes an S-Record image line by line. Empty lines are skipped;
// everything else must be a valid record. The result exposes the flattened
// binary image and bounded chunking for transfer.
func Parse(r io.Reader, opts ...Option) (*Image, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		records    []Record
		dataType   Type
		terminated bool
		lineNum    int
	)

	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r\n\t ")
		if line == "" {
			continue
		}
		if terminated {
			return nil, parseErrorf(lineNum, "record after termination record")
		}

		rec, err := parseLine(line, lineNum)
		if err != nil {
			return nil, err
		}

		switch {
		case rec.Type == S0:
			if len(records) > 0 {
				return nil, parseErrorf(lineNum, "S0 header record not at head of image")
			}
		case rec.Type.IsData():
			if dataType == 0 {
				dataType = rec.Type
			} else if rec.Type != dataType {
				return nil, parseErrorf(lineNum, "mixed data record types %s and %s",
					dataType, rec.Type)
			}
		case rec.Type == S5:
			count := countDataRecords(records)
			if int(rec.Address) != count {
				return nil, parseErrorf(lineNum, "S5 record count %d does not match %d data records",
					rec.Address, count)
			}
		case rec.Type.IsTermination():
			if dataType == 0 {
				return nil, parseErrorf(lineNum, "termination record before any data record")
			}
			if want := terminationFor(dataType); rec.Type != want {
				return nil, parseErrorf(lineNum, "termination record %s does not match data type %s (want %s)",
					rec.Type, dataType, want)
			}
			terminated = true
		}

		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read firmware image: %w", err)
	}

	if len(records) == 0 {
		return nil, parseErrorf(lineNum, "empty image")
	}
	if !terminated {
		return nil, parseErrorf(lineNum, "missing termination record")
	}

	return flatten(records, cfg)
}

// parseLine decodes and checksum-validates a single record line.
func parseLine(line string, lineNum int) (Record, error) {
	if line[0] != 'S' && line[0] != 's' {
		return Record{}, parseErrorf(lineNum, "record does not start with S marker")
	}
	if len(line) < 2 {
		return Record{}, parseErrorf(lineNum, "record truncated after marker")
	}

	var typ Type
	switch line[1] {
	case '0', '1', '2', '3', '5', '7', '8', '9':
		typ = Type(line[1] - '0')
	default:
		return Record{}, parseErrorf(lineNum, "unsupported record type S%c", line[1])
	}

	hexPart := line[2:]
	if len(hexPart)%2 != 0 {
		return Record{}, parseErrorf(lineNum, "odd number of hex digits")
	}
	raw, err := hex.DecodeString(hexPart)
	if err != nil {
		return Record{}, parseErrorf(lineNum, "invalid hex data: %v", err)
	}
	if len(raw) < 1 {
		return Record{}, parseErrorf(lineNum, "missing byte count")
	}

	count := raw[0]
	fields := raw[1:]
	if int(count) != len(fields) {
		return Record{}, parseErrorf(lineNum, "byte count %d does not match %d field bytes",
			count, len(fields))
	}

	addrWidth := typ.AddressWidth()
	// Address plus checksum must fit in the counted bytes.
	if len(fields) < addrWidth+1 {
		return Record{}, parseErrorf(lineNum, "record too short for %s address", typ)
	}

	var address uint32
	for _, b := range fields[:addrWidth] {
		address = address<<8 | uint32(b)
	}
	data := fields[addrWidth : len(fields)-1]
	got := fields[len(fields)-1]

	if want := checksum(count, address, addrWidth, data); got != want {
		return Record{}, parseErrorf(lineNum, "checksum mismatch: got 0x%02X, want 0x%02X",
			got, want)
	}

	rec := Record{Type: typ, Address: address, Checksum: got}
	if len(data) > 0 {
		rec.Data = make([]byte, len(data))
		copy(rec.Data, data)
	}
	return rec, nil
}

func countDataRecords(records []Record) int {
	n := 0
	for _, r := range records {
		if r.Type.IsData() {
			n++
		}
	}
	return n
}
