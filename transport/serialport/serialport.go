// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

// Package serialport drives a DS620A attached through a USB-serial
// bridge, for bench rigs where the printer's USB interface is not
// reachable directly.
package serialport

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	ds620 "github.com/ds620-linux/go-ds620"
)

// ErrNoPort is returned by Detect when no candidate port is found.
var ErrNoPort = errors.New("no serial port with a known printer ID")

// DefaultMode is the line configuration the printer's bridge expects.
var DefaultMode = serial.Mode{
	BaudRate: 115200,
	DataBits: 8,
	Parity:   serial.NoParity,
	StopBits: serial.OneStopBit,
}

// Transport is a ds620.Transport over a serial port.
type Transport struct {
	port     serial.Port
	portName string
}

// Open opens portName with DefaultMode.
func Open(portName string) (*Transport, error) {
	return OpenMode(portName, &DefaultMode)
}

// OpenMode opens portName with an explicit line configuration.
func OpenMode(portName string, mode *serial.Mode) (*Transport, error) {
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", portName, err)
	}
	if err := port.ResetInputBuffer(); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("flushing %s: %w", portName, err)
	}
	return &Transport{port: port, portName: portName}, nil
}

// PortName returns the opened port's name.
func (t *Transport) PortName() string { return t.portName }

// Write sends p, retrying short writes until the whole buffer is out.
// The serial layer has no per-write deadline; timeout is accepted for
// interface compatibility and enforced by the device never answering a
// half-sent frame.
func (t *Transport) Write(p []byte, _ time.Duration) error {
	for len(p) > 0 {
		n, err := t.port.Write(p)
		if err != nil {
			return ds620.NewTransportError("serial write", err, ds620.ErrorTypeTransient)
		}
		p = p[n:]
	}
	return nil
}

// Read returns up to maxLen bytes, waiting at most timeout for the
// first byte.
func (t *Transport) Read(maxLen int, timeout time.Duration) ([]byte, error) {
	if err := t.port.SetReadTimeout(timeout); err != nil {
		return nil, ds620.NewTransportError("serial read", err, ds620.ErrorTypePermanent)
	}
	buf := make([]byte, maxLen)
	n, err := t.port.Read(buf)
	if err != nil {
		return nil, ds620.NewTransportError("serial read", err, ds620.ErrorTypeTransient)
	}
	if n == 0 {
		// go.bug.st/serial signals a timeout as a zero-byte read.
		return nil, ds620.NewTimeoutError("serial read")
	}
	return buf[:n], nil
}

// Close closes the port.
func (t *Transport) Close() error {
	if err := t.port.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", t.portName, err)
	}
	return nil
}

// Type identifies this as the serial transport.
func (*Transport) Type() ds620.TransportType { return ds620.TransportSerial }

// Detect enumerates serial ports and returns the names whose USB
// bridge reports a known printer ID, most likely candidates first.
func Detect() ([]string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerating serial ports: %w", err)
	}
	var names []string
	for _, port := range ports {
		if !port.IsUSB {
			continue
		}
		if knownBridge(port.VID, port.PID) {
			names = append(names, port.Name)
		}
	}
	if len(names) == 0 {
		return nil, ErrNoPort
	}
	return names, nil
}

// knownBridge matches the enumerator's hex ID strings against the
// printer ID table.
func knownBridge(vidHex, pidHex string) bool {
	vid, err := strconv.ParseUint(strings.TrimSpace(vidHex), 16, 16)
	if err != nil {
		return false
	}
	pid, err := strconv.ParseUint(strings.TrimSpace(pidHex), 16, 16)
	if err != nil {
		return false
	}
	return ds620.KnownUSBID(uint16(vid), uint16(pid))
}
