// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package srec

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildLine assembles a record line with an independently computed
// checksum, deliberately not sharing code with the parser.
func buildLine(typ Type, addr uint32, data []byte) string {
	width := typ.AddressWidth()
	count := width + len(data) + 1

	sum := count
	for i := 0; i < width; i++ {
		sum += int((addr >> (8 * i)) & 0xFF)
	}
	for _, b := range data {
		b := b
		sum += int(b)
	}
	cksum := byte(^sum)

	var sb strings.Builder
	fmt.Fprintf(&sb, "S%d%02X", byte(typ), count)
	for i := width - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "%02X", (addr>>(8*i))&0xFF)
	}
	for _, b := range data {
		b := b
		fmt.Fprintf(&sb, "%02X", b)
	}
	fmt.Fprintf(&sb, "%02X", cksum)
	return sb.String()
}

func validImage() string {
	return strings.Join([]string{
		buildLine(S0, 0, []byte("DS620")),
		buildLine(S1, 0x0000, []byte{0x01, 0x02, 0x03, 0x04}),
		buildLine(S1, 0x0004, []byte{0x05, 0x06}),
		buildLine(S5, 2, nil),
		buildLine(S9, 0, nil),
	}, "\r\n") + "\r\n"
}

func TestParseValidImage(t *testing.T) {
	t.Parallel()

	img, err := Parse(strings.NewReader(validImage()))
	require.NoError(t, err)

	assert.Equal(t, "DS620", img.Header())
	assert.Equal(t, uint32(0), img.Base())
	assert.Equal(t, 6, img.Size())
	assert.Equal(t, 2, img.Records())
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}, img.Bytes())
}

func TestParseSkipsBlankLines(t *testing.T) {
	t.Parallel()

	text := "\r\n" + buildLine(S1, 0, []byte{0xAA}) + "\r\n\r\n" +
		buildLine(S9, 0, nil) + "\r\n"
	img, err := Parse(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA}, img.Bytes())
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()

	term := buildLine(S9, 0, nil)
	data := buildLine(S1, 0, []byte{0x01, 0x02})

	tests := []struct {
		name     string
		lines    []string
		wantLine int
		reason   string
	}{
		{
			name:     "Wrong_Start_Marker",
			lines:    []string{"X1030000FC", term},
			wantLine: 1,
			reason:   "S marker",
		},
		{
			name:     "Odd_Hex_Digits",
			lines:    []string{data[:len(data)-1], term},
			wantLine: 1,
			reason:   "odd number of hex digits",
		},
		{
			name:     "Bad_Hex",
			lines:    []string{"S103000GZZFC", term},
			wantLine: 1,
			reason:   "invalid hex",
		},
		{
			name:     "Unsupported_Type",
			lines:    []string{"S4030000FC", term},
			wantLine: 1,
			reason:   "unsupported record type",
		},
		{
			name:     "Count_Mismatch",
			lines:    []string{"S105000001FB", term},
			wantLine: 1,
			reason:   "byte count",
		},
		{
			name:     "Checksum_Mismatch",
			lines:    []string{flipChecksumBit(data), term},
			wantLine: 1,
			reason:   "checksum mismatch",
		},
		{
			name:     "Header_Not_At_Head",
			lines:    []string{data, buildLine(S0, 0, []byte("X")), term},
			wantLine: 2,
			reason:   "head of image",
		},
		{
			name:     "Termination_Before_Data",
			lines:    []string{term},
			wantLine: 1,
			reason:   "before any data",
		},
		{
			name:     "Wrong_Termination_Family",
			lines:    []string{data, buildLine(S7, 0, nil)},
			wantLine: 2,
			reason:   "does not match data type",
		},
		{
			name:     "Record_After_Termination",
			lines:    []string{data, term, data},
			wantLine: 3,
			reason:   "after termination",
		},
		{
			name:     "Record_Count_Mismatch",
			lines:    []string{data, buildLine(S5, 7, nil), term},
			wantLine: 2,
			reason:   "S5 record count",
		},
		{
			name: "Mixed_Data_Types",
			lines: []string{
				data,
				buildLine(S3, 0x10000, []byte{0x01}),
				term,
			},
			wantLine: 2,
			reason:   "mixed data record types",
		},
		{
			name:     "Missing_Termination",
			lines:    []string{data},
			wantLine: 1,
			reason:   "missing termination",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			text := strings.Join(tt.lines, "\r\n") + "\r\n"
			img, err := Parse(strings.NewReader(text))

			var pe *ParseError
			require.ErrorAs(t, err, &pe, "expected parse error, got %v", err)
			assert.Equal(t, tt.wantLine, pe.Line)
			assert.Contains(t, pe.Reason, tt.reason)
			assert.Nil(t, img, "no partial image on failure")
		})
	}
}

// flipChecksumBit corrupts the low bit of a line's checksum byte.
func flipChecksumBit(line string) string {
	last := line[len(line)-1]
	var flipped byte
	if last >= '0' && last <= '9' || last >= 'B' && last <= 'F' {
		flipped = last - 1
	} else {
		flipped = last + 1
	}
	return line[:len(line)-1] + string(flipped)
}

// Flipping any single bit of a record's checksum must fail the parse.
func TestParseChecksumBitFlips(t *testing.T) {
	t.Parallel()

	line := buildLine(S2, 0x012345, []byte{0xDE, 0xAD, 0xBE, 0xEF})
	var cksum byte
	_, err := fmt.Sscanf(line[len(line)-2:], "%02X", &cksum)
	require.NoError(t, err)

	for bit := 0; bit < 8; bit++ {
		corrupted := fmt.Sprintf("%s%02X", line[:len(line)-2], cksum^(1<<bit))
		text := corrupted + "\r\n" + buildLine(S8, 0, nil) + "\r\n"

		img, err := Parse(strings.NewReader(text))
		var pe *ParseError
		require.ErrorAs(t, err, &pe, "bit %d", bit)
		assert.Contains(t, pe.Reason, "checksum mismatch")
		assert.Nil(t, img)
	}
}

func TestParseEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := Parse(strings.NewReader(""))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Reason, "empty image")
}

func TestParseWideAddressTypes(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		buildLine(S3, 0x08000000, []byte{0x11, 0x22}),
		buildLine(S3, 0x08000002, []byte{0x33}),
		buildLine(S7, 0x08000000, nil),
	}, "\n") + "\n"

	img, err := Parse(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, uint32(0x08000000), img.Base())
	assert.Equal(t, []byte{0x11, 0x22, 0x33}, img.Bytes())
}
