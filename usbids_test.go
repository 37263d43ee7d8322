// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package ds620

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnownUSBID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		vid  uint16
		pid  uint16
		want bool
	}{
		{"standard DS620", VendorDNP, 0x0001, true},
		{"late production", VendorDNP, 0x1001, true},
		{"bootstrap PID during update", VendorDNP, 0xFFFF, true},
		{"OEM branding", VendorCitizen, 0x9001, true},
		{"unrelated DNP product", VendorDNP, 0x2001, false},
		{"unrelated vendor", 0x04B8, 0x0001, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, KnownUSBID(tt.vid, tt.pid))
		})
	}
}
