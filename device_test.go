// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package ds620

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceQueries(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	mock.QueueResponse([]byte("DS620 Ver 01.52"))
	mock.QueueResponse([]byte("DS620A0312456"))
	mock.QueueResponse([]byte("620 6x8 (400)"))
	device := NewDevice(mock, nil)

	version, err := device.FirmwareVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "DS620 Ver 01.52", version)

	serial, err := device.SerialNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "DS620A0312456", serial)

	media, err := device.Media(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "620 6x8 (400)", media)

	assert.Equal(t, 3, mock.WriteCount())
}

func TestDeviceReady(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
		want     bool
	}{
		{"idle printer", "ACK", true},
		{"mid-print", "PRINTING", false},
		{"busy", "BUSY", false},
		{"errored", "UPDATE_ERROR", false},
		{"unknown text counts as ready", "IDLE", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mock := NewMockTransport()
			mock.QueueResponse([]byte(tt.response))
			device := NewDevice(mock, nil)

			ready, err := device.Ready(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, ready)
		})
	}
}

func TestDeviceCounters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
		want     int
	}{
		{"zero padded", "00178", 178},
		{"plain", "4321", 4321},
		{"labelled", "LIFE 004321", 4321},
		{"zero", "0000", 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mock := NewMockTransport()
			mock.QueueResponse([]byte(tt.response))
			device := NewDevice(mock, nil)

			n, err := device.LifeCounter(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestDeviceCounterGarbage(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	mock.QueueResponse([]byte("MEDIA END"))
	device := NewDevice(mock, nil)

	_, err := device.MediaRemaining(context.Background())
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestDeviceRejectedQuery(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	mock.QueueResponse([]byte("NAK"))
	device := NewDevice(mock, nil)

	_, err := device.FirmwareVersion(context.Background())
	var rejected *DeviceRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, CmdFWVersion, rejected.Command)
}

func TestDeviceCWDSlotRange(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport()
	device := NewDevice(mock, nil)

	_, err := device.CWDVersion(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = device.CWDChecksum(context.Background(), CWDSlotCount+1)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Zero(t, mock.WriteCount(), "range check happens before any I/O")

	mock.QueueResponse([]byte("0131 PD 600"))
	version, err := device.CWDVersion(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "0131 PD 600", version)
}
