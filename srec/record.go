// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package srec

import "fmt"

// Type identifies a Motorola S-Record type.
type Type byte

// Record types used by DS620A firmware images. S4 and S6 are not part of
// the format.
const (
	S0 Type = 0 // header
	S1 Type = 1 // data, 16-bit address
	S2 Type = 2 // data, 24-bit address
	S3 Type = 3 // data, 32-bit address
	S5 Type = 5 // data record count
	S7 Type = 7 // termination for S3
	S8 Type = 8 // termination for S2
	S9 Type = 9 // termination for S1
)

// String returns the conventional record name, e.g. "S3".
func (t Type) String() string { return fmt.Sprintf("S%d", byte(t)) }

// AddressWidth returns the address field size in bytes for the type.
func (t Type) AddressWidth() int {
	switch t {
	case S2, S8:
		return 3
	case S3, S7:
		return 4
	default: // S0, S1, S5, S9
		return 2
	}
}

// IsData reports whether the record carries image bytes.
func (t Type) IsData() bool { return t == S1 || t == S2 || t == S3 }

// IsTermination reports whether the record ends an image.
func (t Type) IsTermination() bool { return t == S7 || t == S8 || t == S9 }

// terminationFor maps a data record type to its matching terminator.
func terminationFor(data Type) Type {
	switch data {
	case S1:
		return S9
	case S2:
		return S8
	default:
		return S7
	}
}

// Record is a single decoded S-Record line.
type Record struct {
	Data     []byte
	Address  uint32
	Type     Type
	Checksum byte
}

// checksum computes the record checksum: the one's complement of the low
// byte of the sum of the byte count, all address bytes, and all data bytes.
func checksum(count byte, address uint32, addrWidth int, data []byte) byte {
	sum := uint32(count)
	for i := 0; i < addrWidth; i++ {
		sum += (address >> (8 * i)) & 0xFF
	}
	for _, b := range data {
		sum += uint32(b)
	}
	return ^byte(sum & 0xFF)
}
