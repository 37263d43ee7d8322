// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

// Package cwd validates DS620A configuration ("CWD") payloads before they
// are sent to the printer. A CWD file is a fixed-size opaque blob with a
// short ASCII signature; the printer interprets the body, this package
// never does.
package cwd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// FileSize is the exact size of every CWD file in bytes.
	FileSize = 37152

	// SignatureLen is the length of the leading ASCII signature.
	SignatureLen = 8

	// Signature is the fixed header every CWD file begins with.
	Signature = "DS620CWD"
)

// SizeError reports a payload whose size is not FileSize.
type SizeError struct {
	Got int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("invalid CWD size: got %d bytes, want %d", e.Got, FileSize)
}

// HeaderError reports a payload whose signature does not match.
type HeaderError struct {
	Got string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("invalid CWD header: got %q, want %q", e.Got, Signature)
}

// File is a validated CWD payload.
type File struct {
	// Name is the source file name, when known. Used only for reporting
	// and slot lookup.
	Name string

	data []byte
}

// Validate checks size and signature and returns the validated file. The
// body is preserved byte-for-byte and never interpreted. Validation always
// happens before any transfer attempt; a payload that fails here must not
// reach the printer.
func Validate(data []byte) (*File, error) {
	if len(data) != FileSize {
		return nil, &SizeError{Got: len(data)}
	}
	if string(data[:SignatureLen]) != Signature {
		return nil, &HeaderError{Got: string(data[:SignatureLen])}
	}
	buf := make([]byte, FileSize)
	copy(buf, data)
	return &File{data: buf}, nil
}

// ValidateFile reads and validates a CWD file from disk.
func ValidateFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read CWD file: %w", err)
	}
	f, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	f.Name = filepath.Base(path)
	return f, nil
}

// Header returns the signature bytes.
func (f *File) Header() string { return string(f.data[:SignatureLen]) }

// Body returns the opaque payload after the signature. The slice is owned
// by the file and must not be modified.
func (f *File) Body() []byte { return f.data[SignatureLen:] }

// Bytes returns the complete payload, signature included, as it is sent
// to the printer.
func (f *File) Bytes() []byte { return f.data }

// Size returns FileSize.
func (f *File) Size() int { return len(f.data) }

// slotTable maps the media table a file carries to its printer slot.
// File names follow the factory convention DS620_<PD|SD>_<res>_<ver>.cwd.
var slotTable = map[string]int{
	"PD_300": 1,
	"PD_600": 2,
	"PD_610": 3,
	"SD_300": 4,
	"SD_600": 5,
	"SD_610": 6,
}

// SlotForName derives the printer table slot (1-based) from a factory
// CWD file name. Returns false for names that do not follow the
// convention.
func SlotForName(name string) (int, bool) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	parts := strings.Split(base, "_")
	if len(parts) < 3 {
		return 0, false
	}
	slot, ok := slotTable[parts[1]+"_"+parts[2]]
	return slot, ok
}
