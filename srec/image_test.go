// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package srec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRejectsGapByDefault(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		buildLine(S1, 0x0000, []byte{0x01, 0x02}),
		buildLine(S1, 0x0008, []byte{0x03}),
		buildLine(S9, 0, nil),
	}, "\n") + "\n"

	_, err := Parse(strings.NewReader(text))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gap")
}

func TestParseFillsGapWhenAllowed(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		buildLine(S1, 0x0000, []byte{0x01, 0x02}),
		buildLine(S1, 0x0008, []byte{0x03}),
		buildLine(S9, 0, nil),
	}, "\n") + "\n"

	img, err := Parse(strings.NewReader(text), WithGapFill(0xFF))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x03},
		img.Bytes())
}

func TestParseRejectsOverlap(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		buildLine(S1, 0x0000, []byte{0x01, 0x02, 0x03}),
		buildLine(S1, 0x0002, []byte{0x04}),
		buildLine(S9, 0, nil),
	}, "\n") + "\n"

	_, err := Parse(strings.NewReader(text), WithGapFill(0xFF))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlaps")
}

func TestImageChunks(t *testing.T) {
	t.Parallel()

	img, err := Parse(strings.NewReader(validImage()))
	require.NoError(t, err)

	tests := []struct {
		name     string
		max      int
		wantLens []int
	}{
		{"Exact_Fit", 6, []int{6}},
		{"Larger_Than_Image", 4096, []int{6}},
		{"Split", 4, []int{4, 2}},
		{"Single_Bytes", 1, []int{1, 1, 1, 1, 1, 1}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			chunks, err := img.Chunks(tt.max)
			require.NoError(t, err)

			var got []int
			var joined []byte
			for _, c := range chunks {
				c := c
				got = append(got, len(c))
				joined = append(joined, c...)
			}
			assert.Equal(t, tt.wantLens, got)
			assert.Equal(t, img.Bytes(), joined, "chunks must concatenate to the image")
		})
	}
}

func TestImageChunksRejectsBadSize(t *testing.T) {
	t.Parallel()

	img, err := Parse(strings.NewReader(validImage()))
	require.NoError(t, err)

	_, err = img.Chunks(0)
	assert.Error(t, err)
	_, err = img.Chunks(-1)
	assert.Error(t, err)
}

// Flattening a generated image must reproduce the reference byte sequence
// it was generated from.
func TestParseFlattenRoundTrip(t *testing.T) {
	t.Parallel()

	const size = 10000
	reference := make([]byte, size)
	for i := range reference {
		reference[i] = byte(i * 31)
	}

	var sb strings.Builder
	sb.WriteString(buildLine(S0, 0, []byte("ROUNDTRIP")) + "\r\n")
	const rowLen = 32
	base := uint32(0x00400000)
	for off := 0; off < size; off += rowLen {
		end := off + rowLen
		if end > size {
			end = size
		}
		sb.WriteString(buildLine(S3, base+uint32(off), reference[off:end]) + "\r\n")
	}
	sb.WriteString(buildLine(S7, base, nil) + "\r\n")

	img, err := Parse(strings.NewReader(sb.String()))
	require.NoError(t, err)
	assert.Equal(t, size, img.Size())
	assert.Equal(t, base, img.Base())
	assert.Equal(t, reference, img.Bytes())
	assert.Equal(t, (size+rowLen-1)/rowLen, img.Records())
}
