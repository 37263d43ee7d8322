// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package serialport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnownBridge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		vid  string
		pid  string
		want bool
	}{
		{"canonical hex", "1343", "0001", true},
		{"whitespace from enumerator", " 1343", "1001 ", true},
		{"lowercase OEM", "1452", "8b01", true},
		{"unknown product", "1343", "beef", false},
		{"not hex", "zz", "0001", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, knownBridge(tt.vid, tt.pid))
		})
	}
}
