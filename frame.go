// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package ds620

import (
	"errors"
	"fmt"
)

// Wire-format constants for the DS620A command channel.
const (
	// ESC is the control byte that opens every command frame.
	ESC = 0x1B

	// FrameLen is the fixed length of a command frame before the CRLF
	// terminator: ESC plus up to MaxCommandLen bytes of command text,
	// right-padded with spaces.
	FrameLen = 24

	// MaxCommandLen is the longest command text that fits in a frame
	// (one byte of the 24 is reserved for ESC).
	MaxCommandLen = FrameLen - 1

	// EncodedFrameLen is the exact on-wire size of an encoded frame:
	// FrameLen plus the CRLF terminator.
	EncodedFrameLen = FrameLen + 2

	// DataLengthDigits is the number of ASCII decimal digits in a data
	// block length header.
	DataLengthDigits = 8

	// MaxDataBlockLen is the largest payload a single data block can
	// declare with DataLengthDigits decimal digits.
	MaxDataBlockLen = 99999999
)

var crlf = []byte{'\r', '\n'}

// Frame codec errors.
var (
	ErrFrameTooLong  = errors.New("command text exceeds frame budget")
	ErrDataTooLong   = errors.New("data block payload exceeds maximum length")
	ErrFrameNotASCII = errors.New("command text contains non-ASCII bytes")
)

// Frame is a single DS620A command before encoding. Text is the ASCII
// command string; Category records which command family it belongs to and
// is informational only (it does not affect the wire form).
type Frame struct {
	Category Category
	Text     string
}

// Category identifies the command family a frame belongs to.
type Category string

// Command families understood by the printer.
const (
	CategoryInfo        Category = "PINFO"
	CategoryControl     Category = "PCNTRL"
	CategoryFirmware    Category = "PFW"
	CategoryTable       Category = "PTBL"
	CategoryMaintenance Category = "PMNT"
	// CategoryRaw marks frames built from text that does not belong to a
	// known family. The codec encodes them the same way.
	CategoryRaw Category = "RAW"
)

// NewFrame builds a frame from raw command text, deriving the category
// from the text's prefix.
func NewFrame(text string) Frame {
	return Frame{Category: categoryOf(text), Text: text}
}

func categoryOf(text string) Category {
	for _, c := range []Category{
		CategoryInfo, CategoryControl, CategoryFirmware,
		CategoryTable, CategoryMaintenance,
	} {
		if len(text) >= len(c) && text[:len(c)] == string(c) {
			return c
		}
	}
	return CategoryRaw
}

// Encode renders the frame in its exact wire form: ESC, the command text,
// space padding to FrameLen bytes, then CRLF. The result is always exactly
// EncodedFrameLen bytes.
func (f Frame) Encode() ([]byte, error) {
	if len(f.Text) > MaxCommandLen {
		return nil, fmt.Errorf("%w: %q is %d bytes, limit %d",
			ErrFrameTooLong, f.Text, len(f.Text), MaxCommandLen)
	}
	for i := 0; i < len(f.Text); i++ {
		if f.Text[i] < 0x20 || f.Text[i] > 0x7E {
			return nil, fmt.Errorf("%w: byte 0x%02X at position %d",
				ErrFrameNotASCII, f.Text[i], i)
		}
	}

	buf := make([]byte, 0, EncodedFrameLen)
	buf = append(buf, ESC)
	buf = append(buf, f.Text...)
	for len(buf) < FrameLen {
		buf = append(buf, ' ')
	}
	return append(buf, crlf...), nil
}

// EncodeDataBlock renders a length-prefixed data block: the payload length
// as DataLengthDigits zero-padded ASCII decimal digits, immediately
// followed by the payload bytes. The declared length always equals the
// payload size; payloads above MaxDataBlockLen cannot be represented and
// are rejected.
func EncodeDataBlock(payload []byte) ([]byte, error) {
	if len(payload) > MaxDataBlockLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrDataTooLong, len(payload))
	}
	buf := make([]byte, 0, DataLengthDigits+len(payload))
	buf = append(buf, fmt.Sprintf("%0*d", DataLengthDigits, len(payload))...)
	return append(buf, payload...), nil
}
