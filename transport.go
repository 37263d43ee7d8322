// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package ds620

import "time"

// Transport is the device link the protocol engine drives. Implementations
// must provide bulk, ordered delivery; anything lossy has to be hidden
// below this interface.
//
// A Transport is a single exclusively-owned resource: exactly one update
// session may use it at a time, and it must be held for the whole session
// and closed exactly once on completion or abort.
type Transport interface {
	// Write sends p to the device, blocking at most timeout.
	Write(p []byte, timeout time.Duration) error

	// Read returns up to maxLen response bytes, blocking at most timeout.
	// A timeout with no data is an error, not an empty read.
	Read(maxLen int, timeout time.Duration) ([]byte, error)

	// Close releases the device handle.
	Close() error

	// Type returns the transport kind, for logging and capability checks.
	Type() TransportType
}

// TransportType identifies a transport implementation.
type TransportType string

const (
	// TransportUSB is the gousb bulk-endpoint transport, the normal way
	// the DS620A is attached.
	TransportUSB TransportType = "usb"
	// TransportSerial is a serial-port transport for bench rigs where
	// the printer sits behind a USB-serial bridge.
	TransportSerial TransportType = "serial"
	// TransportMock is an in-memory transport used by tests and dry runs.
	TransportMock TransportType = "mock"
)
