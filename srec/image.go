// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package srec

import (
	"fmt"
)

// Image is a fully validated firmware image: every record checksummed, the
// structure checked, and the data records flattened into one contiguous
// byte sequence at their addressed offsets.
type Image struct {
	header  string
	data    []byte
	base    uint32
	records int
}

// flatten lays the data records out at their addressed offsets. Records
// must be in ascending address order with no overlap; gaps are an error
// unless the gap-fill option was given.
func flatten(records []Record, cfg config) (*Image, error) {
	img := &Image{}

	first := true
	var next uint32
	for _, rec := range records {
		if rec.Type == S0 {
			img.header = string(rec.Data)
			continue
		}
		if !rec.Type.IsData() {
			continue
		}
		img.records++

		if first {
			img.base = rec.Address
			next = rec.Address
			first = false
		}
		switch {
		case rec.Address < next:
			return nil, fmt.Errorf("data record at 0x%08X overlaps or precedes previous segment ending at 0x%08X",
				rec.Address, next)
		case rec.Address > next:
			if !cfg.allowGaps {
				return nil, fmt.Errorf("address gap of %d bytes at 0x%08X (gaps are rejected unless gap fill is enabled)",
					rec.Address-next, next)
			}
			for i := uint32(0); i < rec.Address-next; i++ {
				img.data = append(img.data, cfg.gapFill)
			}
		}
		img.data = append(img.data, rec.Data...)
		next = rec.Address + uint32(len(rec.Data))
	}

	if img.records == 0 {
		return nil, fmt.Errorf("image contains no data records")
	}
	return img, nil
}

// Header returns the S0 header text, usually a module name, or "" if the
// image has no header record.
func (img *Image) Header() string { return img.header }

// Base returns the load address of the first data byte.
func (img *Image) Base() uint32 { return img.base }

// Size returns the flattened image size in bytes.
func (img *Image) Size() int { return len(img.data) }

// Records returns the number of data records in the image.
func (img *Image) Records() int { return img.records }

// Bytes returns the flattened image. The slice is owned by the image and
// must not be modified.
func (img *Image) Bytes() []byte { return img.data }

// Chunks splits the flattened image into ordered pieces of at most max
// bytes for bounded transfer. The chunks alias the image's backing array.
func (img *Image) Chunks(max int) ([][]byte, error) {
	if max <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", max)
	}
	chunks := make([][]byte, 0, (len(img.data)+max-1)/max)
	for off := 0; off < len(img.data); off += max {
		end := off + max
		if end > len(img.data) {
			end = len(img.data)
		}
		chunks = append(chunks, img.data[off:end])
	}
	return chunks, nil
}
